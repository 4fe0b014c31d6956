// Package ocr turns ticket photos into raw text.
package ocr

import (
	"context"
)

// Engine extracts text from an encoded image.
type Engine interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
	Close() error
}

// Static returns the same text for every image. It stands in for Tesseract
// in tests and when the text was produced elsewhere.
type Static struct {
	Text string
	Err  error
}

// NewStatic creates a Static engine.
func NewStatic(text string) *Static {
	return &Static{Text: text}
}

// ExtractText implements Engine.
func (s *Static) ExtractText(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(image) == 0 {
		return "", ErrEmptyImage
	}
	if s.Err != nil {
		return "", s.Err
	}
	return s.Text, nil
}

// Close implements Engine.
func (s *Static) Close() error { return nil }
