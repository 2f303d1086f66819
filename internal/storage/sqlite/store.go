// Package sqlite provides a SQLite-backed habit storage implementation.
//
// The collection is kept in two tables keyed by position. Save replaces
// both tables inside one transaction, so a reader sees either the old or
// the new collection.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/modu-ai/habit-tracker/internal/storage"
	"github.com/modu-ai/habit-tracker/pkg/models"
)

//go:embed schema.sql
var schemaSQL string

// Store persists the habit collection in SQLite.
type Store struct {
	path string

	mu    sync.Mutex
	sqlDB *sql.DB
}

// New returns a Store for the database at path. The file is opened on
// first use and created on first Save.
func New(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

// Location returns the database path.
func (s *Store) Location() string {
	return s.path
}

// Close closes the SQLite handle if one was opened.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sqlDB == nil {
		return nil
	}
	err := s.sqlDB.Close()
	s.sqlDB = nil
	return err
}

// db returns the open handle, opening the database and applying the
// schema on first call.
func (s *Store) db(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sqlDB != nil {
		return s.sqlDB, nil
	}

	dsn := s.path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, s.classify("open", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, s.classify("open", err)
	}
	if _, err := sqlDB.ExecContext(ctx, schemaSQL); err != nil {
		_ = sqlDB.Close()
		return nil, s.classify("apply schema", err)
	}
	s.sqlDB = sqlDB
	return sqlDB, nil
}

// Load reads the collection. A missing database file yields an empty
// collection and is not created.
func (s *Store) Load(ctx context.Context) (models.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.Collection{}, nil
		}
		return nil, storage.IOError("stat", s.path, err)
	}

	sqlDB, err := s.db(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, s.classify("begin read", err)
	}
	defer func() { _ = tx.Rollback() }()

	habits, byPosition, err := s.loadHabits(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := s.loadCompletions(ctx, tx, habits, byPosition); err != nil {
		return nil, err
	}

	if err := habits.Check(); err != nil {
		return nil, storage.Corrupt(s.path, err)
	}
	return habits, nil
}

func (s *Store) loadHabits(ctx context.Context, tx *sql.Tx) (models.Collection, map[int64]int, error) {
	rows, err := tx.QueryContext(ctx, `SELECT position, id, name FROM habits ORDER BY position`)
	if err != nil {
		return nil, nil, s.classify("query habits", err)
	}
	defer rows.Close()

	habits := models.Collection{}
	byPosition := make(map[int64]int)
	for rows.Next() {
		var (
			pos int64
			h   models.Habit
		)
		if err := rows.Scan(&pos, &h.ID, &h.Name); err != nil {
			return nil, nil, storage.Corrupt(s.path, fmt.Errorf("scan habit: %w", err))
		}
		h.CompletedDates = []models.Date{}
		byPosition[pos] = len(habits)
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, s.classify("read habits", err)
	}
	return habits, byPosition, nil
}

func (s *Store) loadCompletions(ctx context.Context, tx *sql.Tx, habits models.Collection, byPosition map[int64]int) error {
	rows, err := tx.QueryContext(ctx, `SELECT position, day FROM completions ORDER BY position, seq`)
	if err != nil {
		return s.classify("query completions", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			pos int64
			day string
		)
		if err := rows.Scan(&pos, &day); err != nil {
			return storage.Corrupt(s.path, fmt.Errorf("scan completion: %w", err))
		}
		idx, ok := byPosition[pos]
		if !ok {
			return storage.Corrupt(s.path, fmt.Errorf("completion for unknown habit position %d", pos))
		}
		d, err := models.ParseDate(day)
		if err != nil {
			return storage.Corrupt(s.path, err)
		}
		habits[idx].CompletedDates = append(habits[idx].CompletedDates, d)
	}
	if err := rows.Err(); err != nil {
		return s.classify("read completions", err)
	}
	return nil
}

// Save replaces the stored collection in a single transaction. The
// database file and its directory are created on first use.
func (s *Store) Save(ctx context.Context, c models.Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return storage.IOError("mkdir", filepath.Dir(s.path), err)
	}

	sqlDB, err := s.db(ctx)
	if err != nil {
		return err
	}

	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return s.classify("begin write", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM completions`); err != nil {
		return s.classify("clear completions", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM habits`); err != nil {
		return s.classify("clear habits", err)
	}

	insertHabit, err := tx.PrepareContext(ctx, `INSERT INTO habits (position, id, name) VALUES (?, ?, ?)`)
	if err != nil {
		return s.classify("prepare habit insert", err)
	}
	defer insertHabit.Close()

	insertDay, err := tx.PrepareContext(ctx, `INSERT INTO completions (position, seq, day) VALUES (?, ?, ?)`)
	if err != nil {
		return s.classify("prepare completion insert", err)
	}
	defer insertDay.Close()

	for pos, h := range c {
		if _, err := insertHabit.ExecContext(ctx, pos, h.ID, h.Name); err != nil {
			return s.classify("insert habit", err)
		}
		for seq, d := range h.CompletedDates {
			if _, err := insertDay.ExecContext(ctx, pos, seq, d.String()); err != nil {
				return s.classify("insert completion", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return s.classify("commit", err)
	}
	return nil
}

// classify maps a driver error onto the storage error taxonomy.
func (s *Store) classify(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if isCorruptDatabase(err) {
		return storage.Corrupt(s.path, fmt.Errorf("%s: %w", op, err))
	}
	return storage.IOError(op, s.path, err)
}

func isCorruptDatabase(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3lib.SQLITE_NOTADB, sqlite3lib.SQLITE_CORRUPT:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "file is not a database") ||
		strings.Contains(message, "database disk image is malformed")
}
