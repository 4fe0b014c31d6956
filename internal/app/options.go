package service

import (
	"time"

	"github.com/okian/ticketscan/internal/adapters/ocr"
	"github.com/okian/ticketscan/internal/adapters/repository"
	"github.com/okian/ticketscan/internal/domain/pipeline"
	"github.com/okian/ticketscan/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithPipeline sets the ticket pipeline, and with it the winning table.
func WithPipeline(p *pipeline.Pipeline) Option {
	return func(s *Service) {
		if p != nil {
			s.pipeline = p
		}
	}
}

// WithOCREngine sets the engine used for image uploads.
func WithOCREngine(e ocr.Engine) Option {
	return func(s *Service) {
		s.engine = e
	}
}

// WithHistoryStore sets where history records are written. The service
// closes it on Stop.
func WithHistoryStore(store repository.HistoryStore) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithWorkerCount sets the number of history writer goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of records waiting to be written.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many image hashes are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithUploadDir keeps a copy of every uploaded image in dir.
func WithUploadDir(dir string) Option {
	return func(s *Service) {
		s.uploadDir = dir
	}
}

// WithHistoryLimitMax caps how many records History returns.
func WithHistoryLimitMax(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historyLimitMax = n
		}
	}
}

// WithClock replaces time.Now for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
