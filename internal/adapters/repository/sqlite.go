package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/okian/ticketscan/internal/domain/model"
	"github.com/okian/ticketscan/internal/domain/types"
	"github.com/okian/ticketscan/pkg/logger"
)

// SQLiteStore keeps history in a SQLite file in WAL mode.
type SQLiteStore struct {
	db     *sql.DB
	logger logger.Logger
}

var _ HistoryStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database at path and applies
// the embedded migrations.
func NewSQLiteStore(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	s := newSettings(opts)

	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", s.busyTimeout.Milliseconds()))
	q.Add("_pragma", "synchronous(NORMAL)")
	dsn := "file:" + path + "?" + q.Encode()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One writer at a time; readers share the same connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	err = migrate(ctx, "sqlite", func(ctx context.Context, stmt string) error {
		_, err := db.ExecContext(ctx, stmt)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.logger.Info(ctx, "sqlite history store ready", logger.String("path", path))
	return &SQLiteStore{db: db, logger: s.logger}, nil
}

// Save implements HistoryStore.
func (s *SQLiteStore) Save(ctx context.Context, rec model.HistoryRecord) error {
	if err := checkRecord(rec); err != nil {
		return err
	}
	numbers, err := encodeNumbers(rec.Numbers)
	if err != nil {
		return err
	}
	breakdown, err := encodeBreakdown(rec.Breakdown)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ticket_history (
			id, created_at, image_sha256, game_type, draw_date, numbers,
			system_size, is_winner, tier, breakdown, reason
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		rec.ID,
		rec.CreatedAt.UnixNano(),
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
		if isSQLiteConstraint(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, rec.ID)
		}
		return fmt.Errorf("insert history record: %w", err)
	}
	return nil
}

const sqliteColumns = `id, created_at, image_sha256, game_type, draw_date, numbers,
	system_size, is_winner, tier, breakdown, reason`

// Get implements HistoryStore.
func (s *SQLiteStore) Get(ctx context.Context, id string) (model.HistoryRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM ticket_history WHERE id = ?`, id)
	rec, err := scanSQLite(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.HistoryRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return model.HistoryRecord{}, fmt.Errorf("get history record: %w", err)
	}
	return rec, nil
}

// List implements HistoryStore.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]model.HistoryRecord, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteColumns+` FROM ticket_history ORDER BY created_at DESC, seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var out []model.HistoryRecord
	for rows.Next() {
		rec, err := scanSQLite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Count implements HistoryStore.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ticket_history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return n, nil
}

// Ping implements HistoryStore.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close implements HistoryStore.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row rowScanner) (model.HistoryRecord, error) {
	var (
		rec                                    model.HistoryRecord
		createdAt                              int64
		game, tier, reason, numbers, breakdown string
	)
	err := row.Scan(
		&rec.ID,
		&createdAt,
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
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	rec.GameType = types.GameType(game)
	rec.Tier = types.Tier(tier)
	rec.Reason = types.Reason(reason)
	if rec.Numbers, err = decodeNumbers(numbers); err != nil {
		return model.HistoryRecord{}, err
	}
	if rec.Breakdown, err = decodeBreakdown([]byte(breakdown)); err != nil {
		return model.HistoryRecord{}, err
	}
	return rec, nil
}

func isSQLiteConstraint(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}
