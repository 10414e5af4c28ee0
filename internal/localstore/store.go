// Package localstore implements the task and category stores on a single-file
// SQLite database. It is the local-mode backend: no server, seeded from the
// embedded fixtures on first use.
package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mtlprog/taskflow/internal/domain"
	"github.com/mtlprog/taskflow/internal/static"
)

// sqlb is the Squirrel statement builder configured for SQLite question-mark placeholders.
var sqlb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// timeLayout is the TEXT encoding of every timestamp column.
const timeLayout = time.RFC3339Nano

// Store persists tasks and categories in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for created_at and completed_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a Store on an already migrated database handle.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping checks that the database file is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return domain.NewStoreError("ping", s.db.PingContext(ctx))
}

// Seed fills an empty store with the embedded fixtures.
// It reports whether anything was inserted; a store holding any task or category is left alone.
func (s *Store) Seed(ctx context.Context) (bool, error) {
	seeded, err := s.seed(ctx)
	if err != nil {
		return false, domain.NewStoreError("seed", err)
	}
	return seeded, nil
}

func (s *Store) seed(ctx context.Context) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(tx)

	var existing int
	err = tx.QueryRowContext(ctx,
		"SELECT (SELECT COUNT(*) FROM tasks) + (SELECT COUNT(*) FROM categories)",
	).Scan(&existing)
	if err != nil {
		return false, fmt.Errorf("count rows: %w", err)
	}
	if existing > 0 {
		return false, nil
	}

	categories, err := static.Categories()
	if err != nil {
		return false, err
	}
	for _, c := range categories {
		query, args, err := sqlb.
			Insert("categories").
			Columns("name", "color", "task_count").
			Values(c.Name, c.Color, c.TaskCount).
			ToSql()
		if err != nil {
			return false, fmt.Errorf("build seed category query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return false, fmt.Errorf("insert category %q: %w", c.Name, err)
		}
	}

	tasks, err := static.Tasks(s.now())
	if err != nil {
		return false, err
	}
	for i := range tasks {
		if err := insertTask(ctx, tx, &tasks[i]); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("local store seeded", "tasks", len(tasks), "categories", len(categories))
	return true, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// rollback is deferred after BeginTx; it is a no-op once the transaction is committed.
func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		slog.Error("failed to rollback transaction", "error", err)
	}
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, ns.String)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp %q: %w", ns.String, err)
	}
	return &t, nil
}
