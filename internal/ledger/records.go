package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const recordColumns = "id, task_id, start_time, end_time, duration, notes, created_at"

// OpenTimeRecord inserts an open time record (null end_time/duration)
// for the task and returns the record id. The caller is responsible for
// the single-active-timer invariant; the store only persists what it is
// told.
func (q *queries) OpenTimeRecord(ctx context.Context, taskID int64, start time.Time) (int64, error) {
	var exists int
	err := q.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE id = ?`, taskID).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check task exists: %w", err)
	}
	if exists == 0 {
		return 0, ErrNotFound
	}

	res, err := q.q.ExecContext(ctx, `
		INSERT INTO time_records (task_id, start_time, created_at)
		VALUES (?, ?, ?)`,
		taskID, fmtTime(start), fmtTime(start),
	)
	if err != nil {
		return 0, fmt.Errorf("insert time record: %w", err)
	}
	return res.LastInsertId()
}

// CloseTimeRecord stamps end_time on an open record and freezes its
// duration as end - start in whole seconds (truncated). Closing an
// already-closed record fails with ErrAlreadyClosed and changes nothing.
func (q *queries) CloseTimeRecord(ctx context.Context, recordID int64, end time.Time) error {
	row := q.q.QueryRowContext(ctx, `
		SELECT start_time, end_time FROM time_records WHERE id = ?`, recordID)
	var start string
	var endCol sql.NullString
	if err := row.Scan(&start, &endCol); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if endCol.Valid {
		return ErrAlreadyClosed
	}
	startTime, err := parseTime(start)
	if err != nil {
		return err
	}

	duration := int64(end.Sub(startTime).Seconds())
	_, err = q.q.ExecContext(ctx, `
		UPDATE time_records SET end_time = ?, duration = ? WHERE id = ?`,
		fmtTime(end), duration, recordID,
	)
	if err != nil {
		return fmt.Errorf("close time record: %w", err)
	}
	return nil
}

// GetTimeRecord returns the record with the given id.
func (q *queries) GetTimeRecord(ctx context.Context, id int64) (TimeRecord, error) {
	row := q.q.QueryRowContext(ctx, `
		SELECT `+recordColumns+` FROM time_records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TimeRecord{}, ErrNotFound
		}
		return TimeRecord{}, err
	}
	return rec, nil
}

// ListTimeRecords returns records matching the filter, ordered by
// start_time descending. The date range matches on start_time falling
// within [From, To] inclusive.
func (q *queries) ListTimeRecords(ctx context.Context, filter RecordFilter) ([]TimeRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM time_records`
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if filter.TaskID != 0 {
		clauses = append(clauses, "task_id = ?")
		args = append(args, filter.TaskID)
	}
	if filter.From != nil {
		clauses = append(clauses, "start_time >= ?")
		args = append(args, fmtTime(*filter.From))
	}
	if filter.To != nil {
		clauses = append(clauses, "start_time <= ?")
		args = append(args, fmtTime(*filter.To))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY start_time DESC`

	rows, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TimeRecord, 0)
	for rows.Next() {
		rec, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// OpenRecord returns the single record with a null end_time, joined
// with its task's name, or nil if no timer is open. Finding more than
// one open record is a data-integrity fault: the fault is returned
// rather than an arbitrary row.
func (q *queries) OpenRecord(ctx context.Context) (*ActiveRecord, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT tr.id, tr.task_id, tr.start_time, tr.end_time, tr.duration, tr.notes, tr.created_at, t.name
		FROM time_records tr
		JOIN tasks t ON tr.task_id = t.id
		WHERE tr.end_time IS NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var found *ActiveRecord
	for rows.Next() {
		var rec TimeRecord
		var start, created string
		var end sql.NullString
		var duration sql.NullInt64
		var notes sql.NullString
		var taskName string
		if err := rows.Scan(&rec.ID, &rec.TaskID, &start, &end, &duration, &notes, &created, &taskName); err != nil {
			return nil, err
		}
		if found != nil {
			return nil, ErrIntegrity
		}
		startTime, err := parseTime(start)
		if err != nil {
			return nil, err
		}
		createdAt, err := parseTime(created)
		if err != nil {
			return nil, err
		}
		rec.StartTime = startTime
		rec.CreatedAt = createdAt
		rec.Notes = notes.String
		found = &ActiveRecord{TimeRecord: rec, TaskName: taskName}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return found, nil
}

// OpenRecords returns all records with a null end_time. Used by the
// timer controller to preempt before opening a new record; under the
// invariant the result has at most one element.
func (q *queries) OpenRecords(ctx context.Context) ([]TimeRecord, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT `+recordColumns+` FROM time_records WHERE end_time IS NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TimeRecord, 0, 1)
	for rows.Next() {
		rec, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CountOpenRecords returns the number of open records owned by a task.
func (q *queries) CountOpenRecords(ctx context.Context, taskID int64) (int, error) {
	var n int
	err := q.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM time_records WHERE task_id = ? AND end_time IS NULL`, taskID).Scan(&n)
	return n, err
}

// UpdateNotes overwrites the notes on a time record.
func (q *queries) UpdateNotes(ctx context.Context, recordID int64, notes string) error {
	res, err := q.q.ExecContext(ctx, `
		UPDATE time_records SET notes = ? WHERE id = ?`, notes, recordID)
	if err != nil {
		return fmt.Errorf("update notes: %w", err)
	}
	return checkRowsAffected(res)
}
