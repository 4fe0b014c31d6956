package service

import (
	"context"
	"fmt"

	"github.com/okian/ticketscan/internal/adapters/ocr"
	"github.com/okian/ticketscan/internal/adapters/repository"
	"github.com/okian/ticketscan/internal/config"
	"github.com/okian/ticketscan/internal/domain/classify"
	"github.com/okian/ticketscan/internal/domain/normalize"
	"github.com/okian/ticketscan/internal/domain/pipeline"
	"github.com/okian/ticketscan/internal/domain/validate"
	"github.com/okian/ticketscan/internal/winning"
	"github.com/okian/ticketscan/pkg/logger"
)

// NewFromConfig builds a Service from process configuration. It loads the
// winning table and opens the history store; the caller owns Start and Stop.
func NewFromConfig(ctx context.Context, cfg *config.Config, l logger.Logger) (*Service, error) {
	if l == nil {
		l = logger.Nop()
	}
	w, err := winning.Load(cfg.WinningNumbersPath)
	if err != nil {
		return nil, fmt.Errorf("winning numbers: %w", err)
	}

	p := pipeline.New(w,
		pipeline.WithNormalizer(normalize.New(
			normalize.WithYearRange(cfg.YearMin, cfg.YearMax),
			normalize.WithDateWindow(cfg.DateWindow),
			normalize.WithMergeGap(cfg.MergeGap),
			normalize.WithLogger(l.Named("normalize")),
		)),
		pipeline.WithClassifier(classify.New(classify.WithLogger(l.Named("classify")))),
		pipeline.WithValidator(validate.New(validate.WithLogger(l.Named("validate")))),
		pipeline.WithLogger(l.Named("pipeline")),
	)

	target := cfg.SQLitePath
	if cfg.StorageDriver == config.StoragePostgres {
		target = cfg.PostgresDSN
	}
	store, err := repository.Open(ctx, cfg.StorageDriver, target, repository.WithLogger(l.Named("repository")))
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}

	engine := ocr.NewTesseract(
		ocr.WithLanguage(cfg.OCRLanguage),
		ocr.WithWhitelist(cfg.OCRWhitelist),
		ocr.WithPageSegMode(cfg.OCRPageSegMode),
		ocr.WithTessdataPrefix(cfg.OCRTessdataPrefix),
		ocr.WithConcurrency(cfg.OCRConcurrency),
		ocr.WithTimeout(cfg.OCRTimeout()),
		ocr.WithLogger(l.Named("ocr")),
	)

	return New(
		WithPipeline(p),
		WithOCREngine(engine),
		WithHistoryStore(store),
		WithWorkerCount(cfg.HistoryWorkers),
		WithQueueSize(cfg.HistoryQueueSize),
		WithDedupeSize(cfg.DedupeSize),
		WithUploadDir(cfg.UploadDir),
		WithHistoryLimitMax(cfg.HistoryLimitMax),
		WithLogger(l.Named("service")),
	), nil
}
