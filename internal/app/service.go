// Package service wires OCR, the ticket pipeline and ticket history into the
// operations the HTTP API and the CLI call.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/ticketscan/internal/adapters/mq/queue"
	"github.com/okian/ticketscan/internal/adapters/mq/worker"
	"github.com/okian/ticketscan/internal/adapters/ocr"
	"github.com/okian/ticketscan/internal/adapters/repository"
	"github.com/okian/ticketscan/internal/domain/dedupe"
	"github.com/okian/ticketscan/internal/domain/model"
	"github.com/okian/ticketscan/internal/domain/pipeline"
	"github.com/okian/ticketscan/internal/domain/types"
	"github.com/okian/ticketscan/pkg/logger"
	"github.com/okian/ticketscan/pkg/metrics"
)

// DefaultHistoryLimit is used when a caller does not ask for a size.
const DefaultHistoryLimit = 50

// Service checks tickets and keeps their history.
type Service struct {
	mu sync.RWMutex

	pipeline *pipeline.Pipeline
	engine   ocr.Engine
	store    repository.HistoryStore
	deduper  dedupe.Deduper
	queue    *queue.InMemoryQueue
	pool     *worker.Pool

	workerCount     int
	queueSize       int
	dedupeSize      int
	uploadDir       string
	historyLimitMax int
	now             func() time.Time

	started bool
	logger  logger.Logger
}

// New constructs a Service. Without options it checks against the demo
// draw, keeps history in memory and has no OCR engine.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     2,
		queueSize:       10_000,
		dedupeSize:      50_000,
		historyLimitMax: 500,
		now:             time.Now,
		logger:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pipeline == nil {
		s.pipeline = pipeline.New(model.DefaultWinningNumbers())
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	return s
}

// Start creates the dedupe cache and history queue and starts the writers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.queue, s.store,
		worker.WithWorkers(s.workerCount),
		worker.WithLogger(s.logger.Named("history")),
	)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "ticket service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
		logger.Bool("ocr", s.engine != nil),
	)
	return nil
}

// Stop writes out queued history, then closes the store and the engine.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping ticket service...")

	var errs []error
	if err := s.pool.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close history store: %w", err))
	}
	if s.engine != nil {
		if err := s.engine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close ocr engine: %w", err))
		}
	}
	s.started = false
	s.logger.Info(ctx, "ticket service stopped")
	return errors.Join(errs...)
}

// ProcessTicket reads an uploaded ticket image and checks it. Resubmitting
// the same bytes yields the same result flagged as a duplicate, and only the
// first submission is written to history.
func (s *Service) ProcessTicket(ctx context.Context, image []byte) (model.TicketResult, error) {
	if len(image) == 0 {
		return model.TicketResult{}, ocr.ErrEmptyImage
	}
	if !s.isStarted() {
		return model.TicketResult{}, ErrNotStarted
	}
	if s.engine == nil {
		return model.TicketResult{}, fmt.Errorf("%w: %w", model.ErrOCRUnavailable, ErrNoOCREngine)
	}

	key := dedupe.ImageKey(image)
	text, err := s.engine.ExtractText(ctx, image)
	if err != nil {
		if errors.Is(err, model.ErrOCRUnavailable) {
			metrics.RecordErrorByComponent("ocr", "unavailable")
		}
		s.logger.Warn(ctx, "ocr failed", logger.String("image_sha256", key), logger.Error(err))
		return model.TicketResult{}, err
	}
	s.saveUpload(ctx, key, image)
	return s.check(ctx, text, key)
}

// ProcessText checks text that was recognized elsewhere. Text submissions
// are always recorded.
func (s *Service) ProcessText(ctx context.Context, text string) (model.TicketResult, error) {
	if !s.isStarted() {
		return model.TicketResult{}, ErrNotStarted
	}
	return s.check(ctx, text, "")
}

func (s *Service) check(ctx context.Context, text, key string) (model.TicketResult, error) {
	start := time.Now()
	res, err := s.pipeline.Process(ctx, text)
	metrics.RecordPipelineLatency(float64(time.Since(start).Milliseconds()))

	duplicate := key != "" && s.deduper.SeenAndRecord(ctx, key)
	if duplicate {
		metrics.RecordDuplicateUpload()
		s.logger.Debug(ctx, "duplicate upload", logger.String("image_sha256", key))
	}

	if err != nil {
		reason := model.ReasonOf(err)
		metrics.RecordTicketRejected(reason.String())
		if !duplicate {
			s.record(ctx, key, model.HistoryRecord{
				ImageSHA256: key,
				GameType:    types.GameUnknown,
				DrawDate:    pipeline.ExtractDrawDate(text),
				Tier:        types.TierNone,
				Reason:      reason,
			})
		}
		return model.TicketResult{}, err
	}

	metrics.RecordTicketProcessed(res.GameType.String())
	if res.IsWinner {
		metrics.RecordPrize(res.GameType.String(), res.Tier.String())
	}
	res.ImageSHA256 = key
	res.Duplicate = duplicate
	if !duplicate {
		res.RecordID = s.record(ctx, key, model.HistoryRecord{
			ImageSHA256: key,
			GameType:    res.GameType,
			DrawDate:    res.DrawDate,
			Numbers:     res.ExtractedNumbers,
			SystemSize:  res.SystemSize,
			IsWinner:    res.IsWinner,
			Tier:        res.Tier,
			Breakdown:   res.Breakdown,
		})
	}
	return res, nil
}

// record queues rec for storage and returns its id, or "" when the queue
// refused it. A refused upload is forgotten by the dedupe cache so a retry
// gets recorded.
func (s *Service) record(ctx context.Context, key string, rec model.HistoryRecord) string {
	rec.ID = uuid.NewString()
	rec.CreatedAt = s.now().UTC()
	if err := s.queue.Enqueue(ctx, rec); err != nil {
		if key != "" {
			s.deduper.Unrecord(ctx, key)
		}
		s.logger.Warn(ctx, "history record dropped",
			logger.String("id", rec.ID),
			logger.Error(err),
		)
		return ""
	}
	return rec.ID
}

func (s *Service) saveUpload(ctx context.Context, key string, image []byte) {
	if s.uploadDir == "" {
		return
	}
	if err := os.MkdirAll(s.uploadDir, 0o750); err != nil {
		s.logger.Error(ctx, "cannot create upload dir", logger.String("dir", s.uploadDir), logger.Error(err))
		return
	}
	path := filepath.Join(s.uploadDir, key+"."+ImageExtension(image))
	if _, err := os.Stat(path); err == nil {
		return
	}
	if err := os.WriteFile(path, image, 0o640); err != nil {
		s.logger.Error(ctx, "cannot save upload", logger.String("path", path), logger.Error(err))
	}
}

// ImageExtension guesses a file extension from the image's magic bytes.
func ImageExtension(image []byte) string {
	switch http.DetectContentType(image) {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	case "image/bmp":
		return "bmp"
	}
	return "bin"
}

// History returns up to limit records, newest first. Zero means
// DefaultHistoryLimit; larger limits are capped.
func (s *Service) History(ctx context.Context, limit int) ([]model.HistoryRecord, error) {
	switch {
	case limit == 0:
		limit = DefaultHistoryLimit
	case limit < 0:
		return nil, fmt.Errorf("%w: %d", repository.ErrInvalidLimit, limit)
	case limit > s.historyLimitMax:
		limit = s.historyLimitMax
	}
	return s.store.List(ctx, limit)
}

// Record returns one history record.
func (s *Service) Record(ctx context.Context, id string) (model.HistoryRecord, error) {
	return s.store.Get(ctx, id)
}

// Winning returns the table tickets are checked against.
func (s *Service) Winning() model.WinningNumbers {
	return s.pipeline.Winning()
}

// Ping reports whether history storage is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Flush waits until every queued history record has been taken by a writer
// or ctx is done. Records being written at that moment may still be in flight.
func (s *Service) Flush(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		s.mu.RLock()
		pending := 0
		if s.queue != nil {
			pending = s.queue.Len()
		}
		s.mu.RUnlock()
		if pending == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"ocrEnabled":  s.engine != nil,
		"drawDate":    s.pipeline.Winning().DrawDate,
	}
	if s.started {
		stats["queueLength"] = s.queue.Len()
		stats["dedupeEntries"] = s.deduper.Size()
		stats["historyWritten"] = s.pool.Processed()
		stats["historyFailed"] = s.pool.Failed()
		metrics.UpdateQueueSize(s.queue.Len())
	}
	if n, err := s.store.Count(context.Background()); err == nil {
		stats["historyRecords"] = n
		metrics.UpdateHistoryRecords(n)
	}
	return stats
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}
