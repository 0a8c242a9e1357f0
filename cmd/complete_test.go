package cmd

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/xolan/grind/internal/ledger"
	"github.com/xolan/grind/internal/tracker"
)

func TestCompleteTask(t *testing.T) {
	env := setupCmdTest(t)
	env.seed(t, func(store *ledger.Store) {
		if _, err := store.CreateTask(context.Background(), "ship it", time.Now()); err != nil {
			t.Fatalf("create: %v", err)
		}
	})

	completeTask("1")

	if !strings.Contains(env.stdout.String(), "Completed: ship it") {
		t.Errorf("Expected completion message, got: %s", env.stdout.String())
	}

	env.seed(t, func(store *ledger.Store) {
		task, err := store.GetTask(context.Background(), 1)
		if err != nil {
			t.Fatalf("GetTask: %v", err)
		}
		if task.Status != ledger.StatusCompleted {
			t.Errorf("status = %s, expected completed", task.Status)
		}
		if task.CompletedAt == nil {
			t.Error("completed_at not set")
		}
	})
}

func TestCompleteTask_StopsRunningTimer(t *testing.T) {
	env := setupCmdTest(t)
	env.seed(t, func(store *ledger.Store) {
		ctx := context.Background()
		taskID, err := store.CreateTask(ctx, "tracked", time.Now())
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := tracker.New(store).Start(ctx, taskID); err != nil {
			t.Fatalf("start: %v", err)
		}
	})

	completeTask("1")

	env.seed(t, func(store *ledger.Store) {
		open, err := store.OpenRecord(context.Background())
		if err != nil {
			t.Fatalf("OpenRecord: %v", err)
		}
		if open != nil {
			t.Errorf("expected timer stopped by complete, got %+v", open)
		}
	})
}

func TestCompleteTask_AlreadyCompleted(t *testing.T) {
	env := setupCmdTest(t)
	env.seed(t, func(store *ledger.Store) {
		ctx := context.Background()
		taskID, err := store.CreateTask(ctx, "done twice", time.Now())
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := tracker.New(store).Complete(ctx, taskID); err != nil {
			t.Fatalf("complete: %v", err)
		}
	})

	completeTask("1")

	if !env.exitCalled {
		t.Error("Expected exit for already-completed task")
	}
	if !strings.Contains(env.stderr.String(), "cannot be completed") {
		t.Errorf("Expected invalid transition error, got: %s", env.stderr.String())
	}
}

func TestCompleteTask_NotFound(t *testing.T) {
	env := setupCmdTest(t)

	completeTask("7")

	if !env.exitCalled {
		t.Error("Expected exit for unknown task")
	}
	if !strings.Contains(env.stderr.String(), "Task 7 not found") {
		t.Errorf("Expected not found error, got: %s", env.stderr.String())
	}
}
