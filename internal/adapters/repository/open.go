package repository

import (
	"context"
	"fmt"
)

// Storage driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open creates the history store named by driver. target is the SQLite path
// or the Postgres DSN and is ignored for the memory driver.
func Open(ctx context.Context, driver, target string, opts ...Option) (HistoryStore, error) {
	switch driver {
	case DriverMemory:
		return NewMemoryStore(opts...), nil
	case DriverSQLite:
		s, err := NewSQLiteStore(ctx, target, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverPostgres:
		s, err := NewPostgresStore(ctx, target, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}
