package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/ticketscan/internal/adapters/mq/queue"
	"github.com/okian/ticketscan/internal/adapters/mq/worker"
	"github.com/okian/ticketscan/internal/adapters/repository"
	"github.com/okian/ticketscan/internal/domain/model"
	"github.com/okian/ticketscan/internal/domain/types"
)

func record(i int) model.HistoryRecord {
	return model.HistoryRecord{
		ID:        fmt.Sprintf("rec-%03d", i),
		CreatedAt: time.Date(2026, 1, 20, 0, 0, i, 0, time.UTC),
		GameType:  types.GameTOTO,
		DrawDate:  "2026-01-20",
		Numbers:   []int{1, 2, 3, 4, 5, 6},
		Tier:      types.TierNone,
	}
}

// flakyWriter fails the first failures saves of every record.
type flakyWriter struct {
	*repository.MemoryStore

	mu       sync.Mutex
	failures int
	attempts map[string]int
}

func (w *flakyWriter) Save(ctx context.Context, rec model.HistoryRecord) error {
	w.mu.Lock()
	w.attempts[rec.ID]++
	n := w.attempts[rec.ID]
	w.mu.Unlock()
	if n <= w.failures {
		return errors.New("database is locked")
	}
	return w.MemoryStore.Save(ctx, rec)
}

func TestPool(t *testing.T) {
	convey.Convey("Given a queue drained by a worker pool", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(100))
		store := repository.NewMemoryStore()

		convey.Convey("When records are enqueued and the pool shuts down", func() {
			pool := worker.NewPool(q, store, worker.WithWorkers(3))
			pool.Start(ctx)
			for i := 0; i < 20; i++ {
				convey.So(q.Enqueue(ctx, record(i)), convey.ShouldBeNil)
			}

			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			err := pool.Shutdown(shutdownCtx)

			convey.Convey("Then every record is stored", func() {
				convey.So(err, convey.ShouldBeNil)
				n, cerr := store.Count(ctx)
				convey.So(cerr, convey.ShouldBeNil)
				convey.So(n, convey.ShouldEqual, 20)
				convey.So(pool.Processed(), convey.ShouldEqual, 20)
				convey.So(pool.Failed(), convey.ShouldEqual, 0)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the writer fails transiently", func() {
			w := &flakyWriter{MemoryStore: store, failures: 2, attempts: map[string]int{}}
			pool := worker.NewPool(q, w, worker.WithWorkers(1), worker.WithRetries(3, time.Millisecond))
			pool.Start(ctx)
			convey.So(q.Enqueue(ctx, record(1)), convey.ShouldBeNil)
			convey.So(pool.Shutdown(ctx), convey.ShouldBeNil)

			convey.Convey("Then the write is retried until it succeeds", func() {
				_, err := store.Get(ctx, "rec-001")
				convey.So(err, convey.ShouldBeNil)
				convey.So(w.attempts["rec-001"], convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When retries run out", func() {
			w := &flakyWriter{MemoryStore: store, failures: 10, attempts: map[string]int{}}
			pool := worker.NewPool(q, w, worker.WithWorkers(1), worker.WithRetries(1, time.Millisecond))
			pool.Start(ctx)
			convey.So(q.Enqueue(ctx, record(2)), convey.ShouldBeNil)
			convey.So(pool.Shutdown(ctx), convey.ShouldBeNil)

			convey.Convey("Then the record is counted as failed", func() {
				convey.So(pool.Failed(), convey.ShouldEqual, 1)
				convey.So(w.attempts["rec-002"], convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When a record id is already stored", func() {
			convey.So(store.Save(ctx, record(3)), convey.ShouldBeNil)
			pool := worker.NewPool(q, store, worker.WithWorkers(1), worker.WithRetries(5, time.Hour))
			pool.Start(ctx)
			convey.So(q.Enqueue(ctx, record(3)), convey.ShouldBeNil)

			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			convey.Convey("Then it is not retried", func() {
				convey.So(pool.Shutdown(shutdownCtx), convey.ShouldBeNil)
				convey.So(pool.Failed(), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When shutdown gives up during a retry delay", func() {
			w := &flakyWriter{MemoryStore: store, failures: 10, attempts: map[string]int{}}
			pool := worker.NewPool(q, w, worker.WithWorkers(1), worker.WithRetries(5, time.Hour))
			pool.Start(ctx)
			convey.So(q.Enqueue(ctx, record(4)), convey.ShouldBeNil)
			time.Sleep(20 * time.Millisecond)

			shutdownCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
			defer cancel()

			convey.Convey("Then the wait is cut short and the record is abandoned", func() {
				convey.So(pool.Shutdown(shutdownCtx), convey.ShouldNotBeNil)
				convey.So(pool.Failed(), convey.ShouldEqual, 1)
				convey.So(w.attempts["rec-004"], convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the pool was never started", func() {
			pool := worker.NewPool(q, store)

			convey.Convey("Then shutdown only closes the queue", func() {
				convey.So(pool.Shutdown(ctx), convey.ShouldBeNil)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})
}
