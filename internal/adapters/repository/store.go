// Package repository stores ticket history: every processed ticket, accepted
// or rejected, in memory, SQLite or Postgres.
package repository

import (
	"context"
	"fmt"

	"github.com/okian/ticketscan/internal/domain/model"
)

// HistoryStore provides read/write access to ticket history.
type HistoryStore interface {
	// Save appends a record. Returns ErrDuplicateKey if the id is taken.
	Save(ctx context.Context, rec model.HistoryRecord) error

	// Get returns a single record. Returns ErrNotFound for an unknown id.
	Get(ctx context.Context, id string) (model.HistoryRecord, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]model.HistoryRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error

	Close() error
}

func checkRecord(rec model.HistoryRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRecord)
	}
	if rec.CreatedAt.IsZero() {
		return fmt.Errorf("%w: %s has no creation time", ErrInvalidRecord, rec.ID)
	}
	return nil
}

func checkLimit(limit int) error {
	if limit < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	return nil
}
