package cmd

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/xolan/grind/internal/ledger"
)

func TestAnnotateRecord(t *testing.T) {
	env := setupCmdTest(t)
	env.seed(t, func(store *ledger.Store) {
		ctx := context.Background()
		taskID, err := store.CreateTask(ctx, "annotated", time.Now())
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := store.OpenTimeRecord(ctx, taskID, time.Now()); err != nil {
			t.Fatalf("OpenTimeRecord: %v", err)
		}
	})

	annotateRecord("1", []string{"paired", "with", "alice"})

	if !strings.Contains(env.stdout.String(), "Noted on record 1: paired with alice") {
		t.Errorf("Expected note confirmation, got: %s", env.stdout.String())
	}

	env.seed(t, func(store *ledger.Store) {
		rec, err := store.GetTimeRecord(context.Background(), 1)
		if err != nil {
			t.Fatalf("GetTimeRecord: %v", err)
		}
		if rec.Notes != "paired with alice" {
			t.Errorf("notes = %q", rec.Notes)
		}
	})
}

func TestAnnotateRecord_ReplacesPreviousNote(t *testing.T) {
	env := setupCmdTest(t)
	env.seed(t, func(store *ledger.Store) {
		ctx := context.Background()
		taskID, err := store.CreateTask(ctx, "revised", time.Now())
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		recordID, err := store.OpenTimeRecord(ctx, taskID, time.Now())
		if err != nil {
			t.Fatalf("OpenTimeRecord: %v", err)
		}
		if err := store.UpdateNotes(ctx, recordID, "first draft"); err != nil {
			t.Fatalf("UpdateNotes: %v", err)
		}
	})

	annotateRecord("1", []string{"final"})

	env.seed(t, func(store *ledger.Store) {
		rec, err := store.GetTimeRecord(context.Background(), 1)
		if err != nil {
			t.Fatalf("GetTimeRecord: %v", err)
		}
		if rec.Notes != "final" {
			t.Errorf("notes = %q, expected replacement", rec.Notes)
		}
	})
}

func TestAnnotateRecord_NotFound(t *testing.T) {
	env := setupCmdTest(t)

	annotateRecord("99", []string{"lost"})

	if !env.exitCalled {
		t.Error("Expected exit for unknown record")
	}
	errOutput := env.stderr.String()
	if !strings.Contains(errOutput, "Time record 99 not found") {
		t.Errorf("Expected not found error, got: %s", errOutput)
	}
	if !strings.Contains(errOutput, "grind records") {
		t.Errorf("Expected records hint, got: %s", errOutput)
	}
}

func TestAnnotateRecord_InvalidID(t *testing.T) {
	env := setupCmdTest(t)

	annotateRecord("abc", []string{"nope"})

	if !env.exitCalled {
		t.Error("Expected exit for invalid id")
	}
	if !strings.Contains(env.stderr.String(), "Invalid record id 'abc'") {
		t.Errorf("Expected invalid id error, got: %s", env.stderr.String())
	}
}
