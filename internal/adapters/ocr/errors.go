package ocr

import "errors"

var (
	// ErrUnsupportedImage is returned when the upload cannot be decoded as an image.
	ErrUnsupportedImage = errors.New("unsupported image")
	// ErrEmptyImage is returned for a zero-length upload.
	ErrEmptyImage = errors.New("empty image")
)
