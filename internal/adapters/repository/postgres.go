package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/ticketscan/internal/domain/model"
	"github.com/okian/ticketscan/internal/domain/types"
	"github.com/okian/ticketscan/pkg/logger"
)

// PostgreSQL error codes.
const (
	pgErrUniqueViolation = "23505"
)

// PostgresStore keeps history in PostgreSQL through a pgx pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

var _ HistoryStore = (*PostgresStore)(nil)

// NewPostgresStore connects to dsn, verifies the connection and applies the
// embedded migrations.
func NewPostgresStore(ctx context.Context, dsn string, opts ...Option) (*PostgresStore, error) {
	s := newSettings(opts)

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	config.MaxConns = s.maxConns

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	err = migrate(ctx, "postgres", func(ctx context.Context, stmt string) error {
		_, err := pool.Exec(ctx, stmt)
		return err
	})
	if err != nil {
		pool.Close()
		return nil, err
	}
	s.logger.Info(ctx, "postgres history store ready", logger.Int("max_conns", int(s.maxConns)))
	return &PostgresStore{pool: pool, logger: s.logger}, nil
}

// Save implements HistoryStore.
func (s *PostgresStore) Save(ctx context.Context, rec model.HistoryRecord) error {
	if err := checkRecord(rec); err != nil {
		return err
	}
	breakdown, err := encodeBreakdown(rec.Breakdown)
	if err != nil {
		return err
	}
	numbers := make([]int32, len(rec.Numbers))
	for i, n := range rec.Numbers {
		numbers[i] = int32(n)
	}

	query := `
		INSERT INTO ticket_history (
			id, created_at, image_sha256, game_type, draw_date, numbers,
			system_size, is_winner, tier, breakdown, reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = s.pool.Exec(ctx, query,
		rec.ID,
		rec.CreatedAt,
		rec.ImageSHA256,
		string(rec.GameType),
		rec.DrawDate,
		numbers,
		rec.SystemSize,
		rec.IsWinner,
		string(rec.Tier),
		breakdown,
		string(rec.Reason),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, rec.ID)
		}
		return fmt.Errorf("insert history record: %w", err)
	}
	return nil
}

const postgresColumns = `id, created_at, image_sha256, game_type, draw_date, numbers,
	system_size, is_winner, tier, breakdown, reason`

// Get implements HistoryStore.
func (s *PostgresStore) Get(ctx context.Context, id string) (model.HistoryRecord, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+postgresColumns+` FROM ticket_history WHERE id = $1`, id)
	rec, err := scanPostgres(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.HistoryRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return model.HistoryRecord{}, fmt.Errorf("get history record: %w", err)
	}
	return rec, nil
}

// List implements HistoryStore.
func (s *PostgresStore) List(ctx context.Context, limit int) ([]model.HistoryRecord, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+postgresColumns+` FROM ticket_history ORDER BY created_at DESC, seq DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var out []model.HistoryRecord
	for rows.Next() {
		rec, err := scanPostgres(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Count implements HistoryStore.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ticket_history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return int(n), nil
}

// Ping implements HistoryStore.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close implements HistoryStore.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanPostgres(row pgx.Row) (model.HistoryRecord, error) {
	var (
		rec                model.HistoryRecord
		game, tier, reason string
		numbers            []int32
		breakdown          []byte
	)
	err := row.Scan(
		&rec.ID,
		&rec.CreatedAt,
		&rec.ImageSHA256,
		&game,
		&rec.DrawDate,
		&numbers,
		&rec.SystemSize,
		&rec.IsWinner,
		&tier,
		&breakdown,
		&reason,
	)
	if err != nil {
		return model.HistoryRecord{}, err
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.GameType = types.GameType(game)
	rec.Tier = types.Tier(tier)
	rec.Reason = types.Reason(reason)
	if len(numbers) > 0 {
		rec.Numbers = make([]int, len(numbers))
		for i, n := range numbers {
			rec.Numbers[i] = int(n)
		}
	}
	if rec.Breakdown, err = decodeBreakdown(breakdown); err != nil {
		return model.HistoryRecord{}, err
	}
	return rec, nil
}

// isDuplicateKeyError checks if err is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrUniqueViolation
	}
	return false
}
