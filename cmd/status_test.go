package cmd

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/xolan/grind/internal/ledger"
	"github.com/xolan/grind/internal/timeutil"
	"github.com/xolan/grind/internal/tracker"
)

func TestShowStatus_NoTimer(t *testing.T) {
	env := setupCmdTest(t)

	showStatus()

	output := env.stdout.String()
	if !strings.Contains(output, "No timer running") {
		t.Errorf("Expected no-timer notice, got: %s", output)
	}
	if !strings.Contains(output, "grind start") {
		t.Errorf("Expected start hint, got: %s", output)
	}
	if !strings.Contains(output, "Today: 0s tracked") {
		t.Errorf("Expected empty daily total, got: %s", output)
	}
}

func TestShowStatus_RunningTimer(t *testing.T) {
	env := setupCmdTest(t)
	env.seed(t, func(store *ledger.Store) {
		ctx := context.Background()
		taskID, err := store.CreateTask(ctx, "focus", time.Now())
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := tracker.New(store).Start(ctx, taskID); err != nil {
			t.Fatalf("start: %v", err)
		}
	})

	showStatus()

	output := env.stdout.String()
	if !strings.Contains(output, "Timer running: focus (task 1)") {
		t.Errorf("Expected running notice, got: %s", output)
	}
	if !strings.Contains(output, "Started: today at ") {
		t.Errorf("Expected start time line, got: %s", output)
	}
	if !strings.Contains(output, "Elapsed: ") {
		t.Errorf("Expected elapsed line, got: %s", output)
	}
	if !strings.Contains(output, "tracked") {
		t.Errorf("Expected daily total, got: %s", output)
	}
}

func TestShowStatus_IncludesClosedRecordsInTotal(t *testing.T) {
	env := setupCmdTest(t)
	env.seed(t, func(store *ledger.Store) {
		ctx := context.Background()
		taskID, err := store.CreateTask(ctx, "earlier", time.Now())
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		start := timeutil.StartOfDay(time.Now())
		recordID, err := store.OpenTimeRecord(ctx, taskID, start)
		if err != nil {
			t.Fatalf("OpenTimeRecord: %v", err)
		}
		if err := store.CloseTimeRecord(ctx, recordID, start.Add(30*time.Minute)); err != nil {
			t.Fatalf("CloseTimeRecord: %v", err)
		}
	})

	showStatus()

	if !strings.Contains(env.stdout.String(), "Today: 30m tracked") {
		t.Errorf("Expected 30 minute total, got: %s", env.stdout.String())
	}
}

func TestFormatStartTime(t *testing.T) {
	now := time.Date(2025, 3, 12, 16, 0, 0, 0, time.Local)

	today := time.Date(2025, 3, 12, 9, 30, 0, 0, time.Local)
	if got := formatStartTime(today, now); got != "today at 9:30 AM" {
		t.Errorf("formatStartTime(today) = %q", got)
	}

	yesterday := time.Date(2025, 3, 11, 22, 15, 0, 0, time.Local)
	if got := formatStartTime(yesterday, now); got != "Tue Mar 11 at 10:15 PM" {
		t.Errorf("formatStartTime(yesterday) = %q", got)
	}
}
