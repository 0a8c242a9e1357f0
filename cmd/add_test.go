package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/xolan/grind/internal/ledger"
)

func TestAddTask(t *testing.T) {
	env := setupCmdTest(t)

	addTask([]string{"fix", "authentication", "bug"})

	output := env.stdout.String()
	if !strings.Contains(output, "Added task 1: fix authentication bug") {
		t.Errorf("Expected creation message, got: %s", output)
	}
	if !strings.Contains(output, "grind start 1") {
		t.Errorf("Expected start hint, got: %s", output)
	}

	env.seed(t, func(store *ledger.Store) {
		task, err := store.GetTask(context.Background(), 1)
		if err != nil {
			t.Fatalf("GetTask: %v", err)
		}
		if task.Name != "fix authentication bug" {
			t.Errorf("name = %q", task.Name)
		}
		if task.Status != ledger.StatusPending {
			t.Errorf("status = %s, expected pending", task.Status)
		}
	})
}

func TestAddTask_EmptyName(t *testing.T) {
	env := setupCmdTest(t)

	addTask([]string{"   "})

	if !env.exitCalled {
		t.Error("Expected exit for empty name")
	}
	if !strings.Contains(env.stderr.String(), "Task name cannot be empty") {
		t.Errorf("Expected empty name error, got: %s", env.stderr.String())
	}
}
