package ocr

// WithRecognizer replaces the tesseract call so engine handling can be
// exercised without libtesseract.
func WithRecognizer(fn func(png []byte) (string, error)) Option {
	return func(t *Tesseract) {
		t.recognize = fn
	}
}
