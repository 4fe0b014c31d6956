package repository

import (
	"time"

	"github.com/okian/ticketscan/pkg/logger"
)

type settings struct {
	maxRecords  int
	busyTimeout time.Duration
	maxConns    int32
	logger      logger.Logger
}

func newSettings(opts []Option) settings {
	s := settings{
		busyTimeout: 5 * time.Second,
		maxConns:    8,
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option applies a configuration option to a history store.
type Option func(*settings)

// WithMaxRecords bounds the memory store; the oldest records are dropped
// first. Zero keeps everything. Other drivers ignore it.
func WithMaxRecords(n int) Option {
	return func(s *settings) {
		if n >= 0 {
			s.maxRecords = n
		}
	}
}

// WithBusyTimeout sets how long SQLite waits on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.busyTimeout = d
		}
	}
}

// WithMaxConns caps the Postgres pool size.
func WithMaxConns(n int32) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxConns = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}
