package winning

import "errors"

var (
	// ErrLoad is returned when the winning table cannot be read or parsed.
	ErrLoad = errors.New("failed to load winning numbers")
	// ErrUnsupportedFormat is returned for a file that is neither YAML nor JSON.
	ErrUnsupportedFormat = errors.New("unsupported winning numbers format")
)
