package ledger

import "time"

// Status is the closed set of task lifecycle states.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusDeleted    Status = "deleted"
)

// IsValid reports whether s is one of the four known states.
// Any other value is rejected at write time.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusDeleted:
		return true
	default:
		return false
	}
}

// statusLabels maps states to display names. Purely presentational;
// the stored value is always the enum string.
var statusLabels = map[Status]string{
	StatusPending:    "Pending",
	StatusInProgress: "In Progress",
	StatusCompleted:  "Completed",
	StatusDeleted:    "Deleted",
}

// Label returns a human-readable name for the status.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Task is a named unit of work with a lifecycle status.
type Task struct {
	ID          int64
	Name        string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// TimeRecord is one contiguous interval of active work on a task.
// EndTime == nil means the record is open (timer still running).
// Duration is frozen in whole seconds when the record is closed;
// sub-second precision is deliberately discarded.
type TimeRecord struct {
	ID        int64
	TaskID    int64
	StartTime time.Time
	EndTime   *time.Time
	Duration  *int64
	Notes     string
	CreatedAt time.Time
}

// Open reports whether the record is still running.
func (r TimeRecord) Open() bool {
	return r.EndTime == nil
}

// ActiveRecord is the single open time record joined with its task's
// name for display.
type ActiveRecord struct {
	TimeRecord
	TaskName string
}

// Elapsed returns the time accrued by the open record as of now.
func (r ActiveRecord) Elapsed(now time.Time) time.Duration {
	return now.Sub(r.StartTime)
}

// TaskStatistics is a derived per-task aggregate over closed time
// records. Never persisted; recomputed on demand so it always reflects
// current data.
type TaskStatistics struct {
	TaskID               int64
	TaskName             string
	Status               Status
	CreatedAt            time.Time
	CompletedAt          *time.Time
	SessionCount         int
	TotalDurationSeconds int64
}

// TaskFilter narrows ListTasks. A nil Status excludes deleted tasks;
// a concrete Status returns exactly that state.
type TaskFilter struct {
	Status *Status
}

// RecordFilter narrows ListTimeRecords. Filters are conjunctive.
// TaskID zero means any task. From/To match on start_time, inclusive.
type RecordFilter struct {
	TaskID int64
	From   *time.Time
	To     *time.Time
}
