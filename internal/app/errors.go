package service

import "errors"

var (
	// ErrNotStarted is returned when the service is used before Start.
	ErrNotStarted = errors.New("service not started")
	// ErrNoOCREngine is returned for image uploads when no engine is configured.
	ErrNoOCREngine = errors.New("no ocr engine configured")
)
