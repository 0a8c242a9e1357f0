package ledger

import (
	"context"
	"database/sql"
)

// TaskStatistics aggregates session count and total duration per task
// from closed time records, ordered by total duration descending. Tasks
// with no closed records appear with zero totals. Open records do not
// contribute; their time is accounted only once the record is closed.
func (q *queries) TaskStatistics(ctx context.Context) ([]TaskStatistics, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT
			t.id,
			t.name,
			t.status,
			t.created_at,
			t.completed_at,
			COUNT(tr.id) AS session_count,
			COALESCE(SUM(tr.duration), 0) AS total_duration_seconds
		FROM tasks t
		LEFT JOIN time_records tr ON t.id = tr.task_id AND tr.duration IS NOT NULL
		GROUP BY t.id, t.name, t.status, t.created_at, t.completed_at
		ORDER BY total_duration_seconds DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TaskStatistics, 0)
	for rows.Next() {
		var stat TaskStatistics
		var status string
		var created string
		var completed sql.NullString
		if err := rows.Scan(&stat.TaskID, &stat.TaskName, &status, &created, &completed, &stat.SessionCount, &stat.TotalDurationSeconds); err != nil {
			return nil, err
		}
		stat.Status = Status(status)
		createdAt, err := parseTime(created)
		if err != nil {
			return nil, err
		}
		completedAt, err := parseNullTime(completed)
		if err != nil {
			return nil, err
		}
		stat.CreatedAt = createdAt
		stat.CompletedAt = completedAt
		out = append(out, stat)
	}
	return out, rows.Err()
}
