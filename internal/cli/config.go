package cli

import "time"

// Config holds the checkticket flags.
type Config struct {
	Image   string        // ticket photo to read locally or upload
	Text    string        // file with recognized text, "-" for stdin
	URL     string        // base URL of a running server; empty runs locally
	Winning string        // winning table overriding the configured one
	Lang    string        // language for server error messages
	Timeout time.Duration // whole-run deadline
	Verbose bool
}
