// Package tracker enforces the single-active-timer invariant and keeps
// task status synchronized with timer activity. It is the only mutator
// of the ledger: every compound operation runs under a process-wide
// lock and inside one transaction, so a failed call leaves the
// persisted state as it was.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/xolan/grind/internal/ledger"
)

var (
	ErrInvalidTransition = errors.New("tracker: status change not permitted")
	ErrTimerBusy         = errors.New("tracker: another task's timer is running")
)

// Tracker is the timer state machine over the ledger.
type Tracker struct {
	mu    sync.Mutex
	store *ledger.Store
	now   func() time.Time
}

// New creates a Tracker over the given store.
func New(store *ledger.Store) *Tracker {
	return &Tracker{store: store, now: time.Now}
}

// Status reports the open timer, if any, with elapsed time read
// atomically against the same "now" as the record lookup. The active
// timer is a derived view of the ledger, never cached state.
type Status struct {
	Running bool
	Record  *ledger.ActiveRecord
	Elapsed time.Duration
}

func (t *Tracker) Status(ctx context.Context) (*Status, error) {
	open, err := t.store.OpenRecord(ctx)
	if err != nil {
		return nil, err
	}
	status := &Status{Running: open != nil, Record: open}
	if open != nil {
		status.Elapsed = open.Elapsed(t.now())
	}
	return status, nil
}

// Start opens a timer on the task, preempting any currently running
// timer (the previous record is closed with now as its end time and its
// task returned to pending). Starting a completed or deleted task fails
// with ErrInvalidTransition. Returns the new record id.
func (t *Tracker) Start(ctx context.Context, taskID int64) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	tx, err := t.store.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	task, err := tx.GetTask(ctx, taskID)
	if err != nil {
		return 0, err
	}
	if task.Status == ledger.StatusCompleted || task.Status == ledger.StatusDeleted {
		return 0, fmt.Errorf("%w: cannot start %s task %d", ErrInvalidTransition, task.Status, taskID)
	}

	if err := pauseOpenRecords(ctx, tx, now); err != nil {
		return 0, err
	}
	if err := tx.SetTaskStatus(ctx, taskID, ledger.StatusInProgress, now); err != nil {
		return 0, err
	}
	recordID, err := tx.OpenTimeRecord(ctx, taskID, now)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return recordID, nil
}

// Pause closes the time record with now as its end time and returns the
// owning task to pending once it has no open records left.
func (t *Tracker) Pause(ctx context.Context, recordID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	tx, err := t.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := pauseRecord(ctx, tx, recordID, now); err != nil {
		return err
	}
	return tx.Commit()
}

// Complete marks the task completed, pausing its open timer first if
// one is running. Completing an already-completed or deleted task fails
// with ErrInvalidTransition.
func (t *Tracker) Complete(ctx context.Context, taskID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	tx, err := t.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	task, err := tx.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if task.Status == ledger.StatusCompleted || task.Status == ledger.StatusDeleted {
		return fmt.Errorf("%w: task %d is already %s", ErrInvalidTransition, taskID, task.Status)
	}

	if err := pauseTaskRecords(ctx, tx, taskID, now); err != nil {
		return err
	}
	if err := tx.SetTaskStatus(ctx, taskID, ledger.StatusCompleted, now); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete soft-deletes the task, closing its open timer first. The
// task's historical time records are preserved.
func (t *Tracker) Delete(ctx context.Context, taskID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	tx, err := t.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.GetTask(ctx, taskID); err != nil {
		return err
	}
	if err := pauseTaskRecords(ctx, tx, taskID, now); err != nil {
		return err
	}
	if err := tx.DeleteTask(ctx, taskID, now); err != nil {
		return err
	}
	return tx.Commit()
}

// ToggleAction says what Toggle did.
type ToggleAction int

const (
	ToggleStarted ToggleAction = iota
	TogglePaused
)

// Toggle pauses the open timer if it belongs to the task, or starts one
// if no timer is running. If a different task's timer is open it fails
// with ErrTimerBusy: switching is a caller decision, made by calling
// Start (which preempts). Returns the affected record id.
func (t *Tracker) Toggle(ctx context.Context, taskID int64) (ToggleAction, int64, error) {
	open, err := t.store.OpenRecord(ctx)
	if err != nil {
		return 0, 0, err
	}
	if open == nil {
		recordID, err := t.Start(ctx, taskID)
		return ToggleStarted, recordID, err
	}
	if open.TaskID != taskID {
		return 0, 0, fmt.Errorf("%w: task %d (record %d)", ErrTimerBusy, open.TaskID, open.ID)
	}
	return TogglePaused, open.ID, t.Pause(ctx, open.ID)
}

// pauseRecord closes one record and settles its owner's status.
func pauseRecord(ctx context.Context, tx *ledger.Tx, recordID int64, now time.Time) error {
	rec, err := tx.GetTimeRecord(ctx, recordID)
	if err != nil {
		return err
	}
	if err := tx.CloseTimeRecord(ctx, recordID, now); err != nil {
		return err
	}
	return settleTaskStatus(ctx, tx, rec.TaskID, now)
}

// pauseOpenRecords closes every open record. Under the invariant there
// is at most one, but closing all of them also repairs a ledger that
// was tampered with externally.
func pauseOpenRecords(ctx context.Context, tx *ledger.Tx, now time.Time) error {
	open, err := tx.OpenRecords(ctx)
	if err != nil {
		return err
	}
	for _, rec := range open {
		if err := pauseRecord(ctx, tx, rec.ID, now); err != nil {
			return err
		}
	}
	return nil
}

// pauseTaskRecords closes the open records owned by one task.
func pauseTaskRecords(ctx context.Context, tx *ledger.Tx, taskID int64, now time.Time) error {
	open, err := tx.OpenRecords(ctx)
	if err != nil {
		return err
	}
	for _, rec := range open {
		if rec.TaskID != taskID {
			continue
		}
		if err := tx.CloseTimeRecord(ctx, rec.ID, now); err != nil {
			return err
		}
	}
	return nil
}

// settleTaskStatus returns a task to pending once it has no open
// records. Completed and deleted tasks are left alone; by invariant
// they never own an open record in the first place.
func settleTaskStatus(ctx context.Context, tx *ledger.Tx, taskID int64, now time.Time) error {
	n, err := tx.CountOpenRecords(ctx, taskID)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	task, err := tx.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if task.Status != ledger.StatusInProgress {
		return nil
	}
	return tx.SetTaskStatus(ctx, taskID, ledger.StatusPending, now)
}
