// Package worker drains the history queue into a HistoryStore.
package worker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/okian/ticketscan/internal/adapters/repository"
	"github.com/okian/ticketscan/internal/domain/model"
	"github.com/okian/ticketscan/pkg/logger"
	"github.com/okian/ticketscan/pkg/metrics"
)

const (
	defaultWorkerCount    = 2
	defaultRetries        = 3
	defaultFirstDelay     = 50 * time.Millisecond
	metricsUpdateInterval = 5 * time.Second
)

// Writer persists history records.
type Writer interface {
	Save(ctx context.Context, rec model.HistoryRecord) error
	Count(ctx context.Context) (int, error)
}

// Queue defines how workers receive records.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.HistoryRecord
	Close() error
}

// Pool runs a fixed set of workers reading one queue.
type Pool struct {
	queue       Queue
	writer      Writer
	workerCount int
	retries     int
	firstDelay  time.Duration
	logger      logger.Logger

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	stopped chan struct{}

	processed atomic.Int64
	failed    atomic.Int64
	window    atomic.Int64
}

// NewPool creates a worker pool. Call Start to begin draining the queue.
func NewPool(q Queue, w Writer, opts ...Option) *Pool {
	p := &Pool{
		queue:       q,
		writer:      w,
		workerCount: defaultWorkerCount,
		retries:     defaultRetries,
		firstDelay:  defaultFirstDelay,
		logger:      logger.Nop(),
		stopped:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the workers. They keep running until the queue is closed
// and drained, or Shutdown gives up waiting.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(context.WithoutCancel(ctx))
	records := p.queue.Dequeue(ctx)

	p.wg.Add(p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		name := "worker-" + strconv.Itoa(i)
		go p.run(ctx, name, records)
	}
	metrics.UpdateWorkerActiveCount(p.workerCount)

	go func() {
		p.wg.Wait()
		metrics.UpdateWorkerActiveCount(0)
		close(p.stopped)
	}()
	go p.reportRate(ctx)
}

func (p *Pool) run(ctx context.Context, name string, records <-chan model.HistoryRecord) {
	defer p.wg.Done()
	log := p.logger.Named(name)
	for rec := range records {
		if err := p.store(ctx, rec); err != nil {
			p.failed.Add(1)
			log.Error(ctx, "history write failed",
				logger.String("id", rec.ID),
				logger.Error(err),
			)
			continue
		}
		p.processed.Add(1)
		p.window.Add(1)
	}
}

// store writes one record, retrying transient failures.
func (p *Pool) store(ctx context.Context, rec model.HistoryRecord) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	policy := backoff.WithContext(backoff.WithMaxRetries(p.newBackOff(), uint64(p.retries)), ctx)
	err := backoff.Retry(func() error {
		err := p.writer.Save(ctx, rec)
		if errors.Is(err, repository.ErrDuplicateKey) || errors.Is(err, repository.ErrInvalidRecord) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
	if err == nil {
		metrics.RecordHistoryWrite()
		return nil
	}
	metrics.RecordHistoryWriteError()
	metrics.RecordErrorByComponent("worker", "history_write")
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return fmt.Errorf("history write abandoned: %w", err)
	}
	return err
}

// newBackOff doubles the delay from firstDelay with no jitter and no
// elapsed-time cap; the retry count bounds it instead.
func (p *Pool) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.firstDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = p.firstDelay << 10
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

func (p *Pool) reportRate(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopped:
			return
		case now := <-ticker.C:
			n := p.window.Swap(0)
			if secs := now.Sub(last).Seconds(); secs > 0 {
				metrics.UpdateWorkerMessagesPerSecond(float64(n) / secs)
			}
			last = now
			if count, err := p.writer.Count(ctx); err == nil {
				metrics.UpdateHistoryRecords(count)
			}
		}
	}
}

// Processed returns how many records were written.
func (p *Pool) Processed() int64 { return p.processed.Load() }

// Failed returns how many records could not be written.
func (p *Pool) Failed() int64 { return p.failed.Load() }

// Shutdown closes the queue and waits for the workers to write what is
// left. When ctx expires first the remaining records are abandoned.
func (p *Pool) Shutdown(ctx context.Context) error {
	if err := p.queue.Close(); err != nil {
		p.logger.Error(ctx, "error closing queue", logger.Error(err))
	}
	if p.cancel == nil {
		return nil
	}
	select {
	case <-p.stopped:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		<-p.stopped
		p.logger.Warn(ctx, "worker pool shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}
