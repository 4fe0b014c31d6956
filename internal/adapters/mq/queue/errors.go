package queue

import "errors"

// Sentinel kinds for enqueue failures.
var (
	ErrClosed = errors.New("history queue closed")
	ErrFull   = errors.New("history queue full")
)
