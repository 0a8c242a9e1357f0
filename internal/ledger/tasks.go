package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const taskColumns = "id, name, status, created_at, updated_at, completed_at"

// CreateTask inserts a new task in the pending state and returns its id.
func (q *queries) CreateTask(ctx context.Context, name string, now time.Time) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrEmptyName
	}
	res, err := q.q.ExecContext(ctx, `
		INSERT INTO tasks (name, status, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		name, string(StatusPending), fmtTime(now), fmtTime(now),
	)
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	return res.LastInsertId()
}

// GetTask returns the task with the given id.
func (q *queries) GetTask(ctx context.Context, id int64) (Task, error) {
	row := q.q.QueryRowContext(ctx, `
		SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return task, nil
}

// ListTasks returns tasks ordered by updated_at descending. Without a
// status filter, deleted tasks are excluded.
func (q *queries) ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	args := make([]any, 0, 1)
	if filter.Status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*filter.Status))
	} else {
		query += ` WHERE status != ?`
		args = append(args, string(StatusDeleted))
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

// SetTaskStatus updates a task's status and refreshes updated_at. On a
// transition to completed, completed_at is stamped once and never
// overwritten by later calls.
func (q *queries) SetTaskStatus(ctx context.Context, id int64, status Status, now time.Time) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	query := `UPDATE tasks SET status = ?, updated_at = ?`
	args := []any{string(status), fmtTime(now)}
	if status == StatusCompleted {
		query += `, completed_at = COALESCE(completed_at, ?)`
		args = append(args, fmtTime(now))
	}
	query += ` WHERE id = ?`
	args = append(args, id)

	res, err := q.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	return checkRowsAffected(res)
}

// DeleteTask soft-deletes a task. Rows are never physically removed so
// historical time records stay intact.
func (q *queries) DeleteTask(ctx context.Context, id int64, now time.Time) error {
	return q.SetTaskStatus(ctx, id, StatusDeleted, now)
}
