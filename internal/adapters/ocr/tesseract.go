package ocr

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"
	"golang.org/x/sync/semaphore"

	"github.com/okian/ticketscan/internal/domain/model"
	"github.com/okian/ticketscan/pkg/logger"
	"github.com/okian/ticketscan/pkg/metrics"
)

// Tesseract runs the Tesseract engine through gosseract. Each recognition
// uses its own client; a semaphore caps how many run at once.
type Tesseract struct {
	language    string
	whitelist   string
	psm         int
	tessdata    string
	concurrency int
	timeout     time.Duration
	logger      logger.Logger

	sem       *semaphore.Weighted
	recognize func(png []byte) (string, error)
}

// NewTesseract creates a Tesseract engine.
func NewTesseract(opts ...Option) *Tesseract {
	t := &Tesseract{
		language:    "eng",
		psm:         int(gosseract.PSM_SINGLE_BLOCK),
		concurrency: runtime.NumCPU(),
		timeout:     30 * time.Second,
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.sem = semaphore.NewWeighted(int64(t.concurrency))
	if t.recognize == nil {
		t.recognize = t.tesseract
	}
	return t
}

// ExtractText implements Engine. Decode failures return ErrUnsupportedImage;
// engine failures and timeouts wrap model.ErrOCRUnavailable. A photo with no
// readable text yields "" so the pipeline can reject it.
func (t *Tesseract) ExtractText(ctx context.Context, image []byte) (string, error) {
	png, err := Prepare(image)
	if err != nil {
		return "", err
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	if err := t.sem.Acquire(ctx, 1); err != nil {
		metrics.RecordOCRError()
		return "", fmt.Errorf("%w: waiting for engine: %w", model.ErrOCRUnavailable, err)
	}

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)
	start := time.Now()
	go func() {
		// The slot is held until tesseract really returns, even after a timeout.
		defer t.sem.Release(1)
		text, err := t.recognize(png)
		done <- outcome{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		metrics.RecordOCRError()
		t.logger.Error(ctx, "ocr timed out", logger.Duration("after", time.Since(start)))
		return "", fmt.Errorf("%w: %w", model.ErrOCRUnavailable, ctx.Err())
	case out := <-done:
		metrics.RecordOCRLatency(float64(time.Since(start).Milliseconds()))
		if out.err != nil {
			metrics.RecordOCRError()
			t.logger.Error(ctx, "ocr failed", logger.Error(out.err))
			return "", fmt.Errorf("%w: %w", model.ErrOCRUnavailable, out.err)
		}
		t.logger.Debug(ctx, "ocr done",
			logger.Int("chars", len(out.text)),
			logger.Duration("took", time.Since(start)),
		)
		return out.text, nil
	}
}

func (t *Tesseract) tesseract(png []byte) (string, error) {
	client := gosseract.NewClient()
	defer func() { _ = client.Close() }()

	if t.tessdata != "" {
		if err := client.SetTessdataPrefix(t.tessdata); err != nil {
			return "", err
		}
	}
	if err := client.SetLanguage(t.language); err != nil {
		return "", err
	}
	if t.whitelist != "" {
		if err := client.SetWhitelist(t.whitelist); err != nil {
			return "", err
		}
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(t.psm)); err != nil {
		return "", err
	}
	if err := client.SetImageFromBytes(png); err != nil {
		return "", err
	}
	text, err := client.Text()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	return text, nil
}

// Close implements Engine. Clients are per call, so there is nothing to release.
func (t *Tesseract) Close() error { return nil }
