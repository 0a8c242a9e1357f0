package cmd

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/xolan/grind/internal/ledger"
	"github.com/xolan/grind/internal/tracker"
)

func TestStartTask(t *testing.T) {
	env := setupCmdTest(t)
	env.seed(t, func(store *ledger.Store) {
		if _, err := store.CreateTask(context.Background(), "deep work", time.Now()); err != nil {
			t.Fatalf("create: %v", err)
		}
	})

	startTask("1")

	if !strings.Contains(env.stdout.String(), "Timer started: deep work") {
		t.Errorf("Expected start message, got: %s", env.stdout.String())
	}

	env.seed(t, func(store *ledger.Store) {
		open, err := store.OpenRecord(context.Background())
		if err != nil {
			t.Fatalf("OpenRecord: %v", err)
		}
		if open == nil || open.TaskID != 1 {
			t.Errorf("expected open record on task 1, got %+v", open)
		}
	})
}

func TestStartTask_NotFound(t *testing.T) {
	env := setupCmdTest(t)

	startTask("42")

	if !env.exitCalled {
		t.Error("Expected exit for unknown task")
	}
	if !strings.Contains(env.stderr.String(), "Task 42 not found") {
		t.Errorf("Expected not found error, got: %s", env.stderr.String())
	}
}

func TestStartTask_BusyWithoutSwitch(t *testing.T) {
	env := setupCmdTest(t)
	env.seed(t, func(store *ledger.Store) {
		ctx := context.Background()
		now := time.Now()
		firstID, err := store.CreateTask(ctx, "first", now)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := store.CreateTask(ctx, "second", now); err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := tracker.New(store).Start(ctx, firstID); err != nil {
			t.Fatalf("start: %v", err)
		}
	})

	startTask("2")

	if !env.exitCalled {
		t.Error("Expected exit when another timer is running")
	}
	errOutput := env.stderr.String()
	if !strings.Contains(errOutput, "A timer is already running") {
		t.Errorf("Expected busy warning, got: %s", errOutput)
	}
	if !strings.Contains(errOutput, "grind start 2 --switch") {
		t.Errorf("Expected switch hint, got: %s", errOutput)
	}

	// The running timer is untouched.
	env.seed(t, func(store *ledger.Store) {
		open, err := store.OpenRecord(context.Background())
		if err != nil {
			t.Fatalf("OpenRecord: %v", err)
		}
		if open == nil || open.TaskID != 1 {
			t.Errorf("expected timer still on task 1, got %+v", open)
		}
	})
}

func TestStartTask_Switch(t *testing.T) {
	env := setupCmdTest(t)
	env.seed(t, func(store *ledger.Store) {
		ctx := context.Background()
		now := time.Now()
		firstID, err := store.CreateTask(ctx, "first", now)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := store.CreateTask(ctx, "second", now); err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := tracker.New(store).Start(ctx, firstID); err != nil {
			t.Fatalf("start: %v", err)
		}
	})

	switchFlag = true
	defer func() { switchFlag = false }()

	startTask("2")

	output := env.stdout.String()
	if !strings.Contains(output, "Stopped: first") {
		t.Errorf("Expected preemption notice, got: %s", output)
	}
	if !strings.Contains(output, "Timer started: second") {
		t.Errorf("Expected start message, got: %s", output)
	}

	env.seed(t, func(store *ledger.Store) {
		ctx := context.Background()
		open, err := store.OpenRecord(ctx)
		if err != nil {
			t.Fatalf("OpenRecord: %v", err)
		}
		if open == nil || open.TaskID != 2 {
			t.Errorf("expected timer on task 2, got %+v", open)
		}
		first, err := store.GetTask(ctx, 1)
		if err != nil {
			t.Fatalf("GetTask: %v", err)
		}
		if first.Status != ledger.StatusPending {
			t.Errorf("preempted task status = %s, expected pending", first.Status)
		}
	})
}

func TestStartTask_AlreadyRunningSameTask(t *testing.T) {
	env := setupCmdTest(t)
	env.seed(t, func(store *ledger.Store) {
		ctx := context.Background()
		taskID, err := store.CreateTask(ctx, "same", time.Now())
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := tracker.New(store).Start(ctx, taskID); err != nil {
			t.Fatalf("start: %v", err)
		}
	})

	startTask("1")

	if env.exitCalled {
		t.Error("Starting the already-running task should not fail")
	}
	if !strings.Contains(env.stdout.String(), "Timer already running on: same") {
		t.Errorf("Expected already-running notice, got: %s", env.stdout.String())
	}
}

func TestStartTask_Completed(t *testing.T) {
	env := setupCmdTest(t)
	env.seed(t, func(store *ledger.Store) {
		ctx := context.Background()
		taskID, err := store.CreateTask(ctx, "done", time.Now())
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := tracker.New(store).Complete(ctx, taskID); err != nil {
			t.Fatalf("complete: %v", err)
		}
	})

	startTask("1")

	if !env.exitCalled {
		t.Error("Expected exit for completed task")
	}
	if !strings.Contains(env.stderr.String(), "cannot be started") {
		t.Errorf("Expected invalid transition error, got: %s", env.stderr.String())
	}
}
