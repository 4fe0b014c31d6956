package cli

import (
	"io"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitRejected = 2
)

// ShowHelp prints usage information for checkticket.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `checkticket
===========

Checks a Singapore Pools TOTO or 4D ticket and prints the result as JSON.

Usage:
  checkticket -image ticket.jpg [options]
  checkticket -text ocr.txt [options]

Options:
  -image string
        Ticket photo. Read with the local OCR engine unless -url is set
  -text string
        File with already recognized ticket text ("-" reads stdin)
  -url string
        Base URL of a running server, e.g. http://localhost:9080
  -winning string
        Winning numbers table (YAML or JSON) for local checks
  -lang string
        Language of server error messages: en, zh, ms, ta
  -timeout duration
        Deadline for the whole check (default 2m)
  -verbose
        Log pipeline stages to stderr
  -help
        Show this help message

Exit status is 0 when the ticket was checked, 2 when it was rejected and
1 on any other failure.

Examples:
  checkticket -text ocr.txt -winning draw.yaml
  checkticket -image ticket.jpg -url http://localhost:9080 -lang zh
`)
}
