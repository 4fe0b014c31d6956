package worker

import (
	"time"

	"github.com/okian/ticketscan/pkg/logger"
)

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithWorkers sets how many goroutines write history.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workerCount = n
		}
	}
}

// WithRetries sets how often a failed write is retried and the delay before
// the first retry. The delay doubles on each attempt.
func WithRetries(attempts int, firstDelay time.Duration) Option {
	return func(p *Pool) {
		if attempts >= 0 {
			p.retries = attempts
		}
		if firstDelay > 0 {
			p.firstDelay = firstDelay
		}
	}
}

// WithLogger sets a custom logger for the pool and its workers.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}
