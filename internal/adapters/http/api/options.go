package api

import "github.com/okian/ticketscan/pkg/logger"

// DefaultMaxUploadBytes caps request bodies when no limit is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

type settings struct {
	maxUploadBytes int64
	logger         logger.Logger
}

// Option configures a Server.
type Option func(*settings)

// WithMaxUploadBytes sets the largest accepted request body.
func WithMaxUploadBytes(n int64) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithLogger sets the logger used by handlers.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}
