package ocr

import (
	"time"

	"github.com/okian/ticketscan/pkg/logger"
)

// Option configures a Tesseract engine.
type Option func(*Tesseract)

// WithLanguage sets the Tesseract language pack, e.g. "eng".
func WithLanguage(lang string) Option {
	return func(t *Tesseract) {
		if lang != "" {
			t.language = lang
		}
	}
}

// WithWhitelist limits recognized characters. Empty disables the whitelist.
func WithWhitelist(chars string) Option {
	return func(t *Tesseract) {
		t.whitelist = chars
	}
}

// WithPageSegMode sets the Tesseract page segmentation mode.
func WithPageSegMode(psm int) Option {
	return func(t *Tesseract) {
		t.psm = psm
	}
}

// WithTessdataPrefix points at a non-default tessdata directory.
func WithTessdataPrefix(prefix string) Option {
	return func(t *Tesseract) {
		t.tessdata = prefix
	}
}

// WithConcurrency bounds simultaneous recognitions.
func WithConcurrency(n int) Option {
	return func(t *Tesseract) {
		if n > 0 {
			t.concurrency = n
		}
	}
}

// WithTimeout bounds a single recognition, including the wait for a slot.
func WithTimeout(d time.Duration) Option {
	return func(t *Tesseract) {
		t.timeout = d
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(t *Tesseract) {
		if l != nil {
			t.logger = l
		}
	}
}
