// Package ledger provides durable, transactional storage of tasks and
// time records over SQLite. It is the single owner of persisted state;
// callers enforce higher-level invariants such as the single-active-timer
// rule and drive compound mutations through a Tx.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// timeLayout is the stored timestamp format. Fixed-width local time,
// so SQL string comparison is chronological and date-range filters can
// compare directly on the column.
const timeLayout = "2006-01-02 15:04:05"

var (
	ErrNotFound      = errors.New("ledger: not found")
	ErrEmptyName     = errors.New("ledger: task name is empty")
	ErrInvalidStatus = errors.New("ledger: invalid task status")
	ErrAlreadyClosed = errors.New("ledger: time record already closed")
	ErrIntegrity     = errors.New("ledger: more than one open time record")
)

// querier is satisfied by both *sql.DB and *sql.Tx so every operation
// is available standalone and inside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries implements all task and time-record operations against a querier.
type queries struct {
	q querier
}

// Store is the SQLite-backed ledger.
type Store struct {
	queries
	db   *sql.DB
	path string
}

// Open opens (or creates) the database at path and brings the schema up
// to date before first use.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	s := &Store{queries: queries{q: db}, db: db, path: path}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Tx is a transaction over the ledger, exposing the same operation
// surface as Store. Commit or Rollback must be called exactly once.
type Tx struct {
	queries
	tx *sql.Tx
}

// Begin starts a transaction.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{queries: queries{q: tx}, tx: tx}, nil
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

func fmtTime(t time.Time) string {
	return t.Format(timeLayout)
}

func fmtNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.ParseInLocation(timeLayout, s, time.Local)
}

func parseNullTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := parseTime(v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (Task, error) {
	var out Task
	var status string
	var created, updated string
	var completed sql.NullString
	if err := s.Scan(&out.ID, &out.Name, &status, &created, &updated, &completed); err != nil {
		return Task{}, err
	}
	out.Status = Status(status)
	createdAt, err := parseTime(created)
	if err != nil {
		return Task{}, err
	}
	updatedAt, err := parseTime(updated)
	if err != nil {
		return Task{}, err
	}
	completedAt, err := parseNullTime(completed)
	if err != nil {
		return Task{}, err
	}
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	out.CompletedAt = completedAt
	return out, nil
}

func scanRecord(s scanner) (TimeRecord, error) {
	var out TimeRecord
	var start, created string
	var end sql.NullString
	var duration sql.NullInt64
	var notes sql.NullString
	if err := s.Scan(&out.ID, &out.TaskID, &start, &end, &duration, &notes, &created); err != nil {
		return TimeRecord{}, err
	}
	startTime, err := parseTime(start)
	if err != nil {
		return TimeRecord{}, err
	}
	endTime, err := parseNullTime(end)
	if err != nil {
		return TimeRecord{}, err
	}
	createdAt, err := parseTime(created)
	if err != nil {
		return TimeRecord{}, err
	}
	out.StartTime = startTime
	out.EndTime = endTime
	if duration.Valid {
		d := duration.Int64
		out.Duration = &d
	}
	out.Notes = notes.String
	out.CreatedAt = createdAt
	return out, nil
}
