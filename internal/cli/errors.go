package cli

import "errors"

var (
	// ErrUsage is returned when the flags do not name exactly one input.
	ErrUsage = errors.New("exactly one of -image or -text is required")
	// ErrServer is returned for server replies other than success or rejection.
	ErrServer = errors.New("server error")
)
