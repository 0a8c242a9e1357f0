package cmd

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/xolan/grind/internal/ledger"
)

func TestExportCSV_Headers(t *testing.T) {
	env := setupCmdTest(t)

	exportCSV(exportCSVCmd)

	reader := csv.NewReader(strings.NewReader(env.stdout.String()))
	headers, err := reader.Read()
	if err != nil {
		t.Fatalf("read headers: %v", err)
	}
	expected := []string{"record_id", "task_id", "task", "start_time", "end_time", "duration_seconds", "duration_hours", "notes"}
	if len(headers) != len(expected) {
		t.Fatalf("header count = %d, expected %d", len(headers), len(expected))
	}
	for i, h := range expected {
		if headers[i] != h {
			t.Errorf("header[%d] = %q, expected %q", i, headers[i], h)
		}
	}
}

func TestExportCSV(t *testing.T) {
	env := setupCmdTest(t)
	env.seed(t, func(store *ledger.Store) {
		ctx := context.Background()
		taskID, err := store.CreateTask(ctx, "exported", time.Now())
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		start := time.Date(2026, 2, 3, 9, 0, 0, 0, time.Local)
		recordID := seedRecord(t, store, taskID, start, 90*time.Minute)
		if err := store.UpdateNotes(ctx, recordID, "with, comma"); err != nil {
			t.Fatalf("UpdateNotes: %v", err)
		}
	})

	exportCSV(exportCSVCmd)

	reader := csv.NewReader(strings.NewReader(env.stdout.String()))
	rows, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("parse CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("row count = %d, expected header plus one record", len(rows))
	}

	row := rows[1]
	if row[2] != "exported" {
		t.Errorf("task = %q", row[2])
	}
	if row[3] != "2026-02-03 09:00:00" {
		t.Errorf("start_time = %q", row[3])
	}
	if row[4] != "2026-02-03 10:30:00" {
		t.Errorf("end_time = %q", row[4])
	}
	if row[5] != "5400" {
		t.Errorf("duration_seconds = %q", row[5])
	}
	if row[6] != "1.50" {
		t.Errorf("duration_hours = %q", row[6])
	}
	if row[7] != "with, comma" {
		t.Errorf("notes = %q", row[7])
	}
}

func TestExportCSV_OpenRecordHasEmptyEnd(t *testing.T) {
	env := setupCmdTest(t)
	env.seed(t, func(store *ledger.Store) {
		ctx := context.Background()
		taskID, err := store.CreateTask(ctx, "live", time.Now())
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := store.OpenTimeRecord(ctx, taskID, time.Now()); err != nil {
			t.Fatalf("OpenTimeRecord: %v", err)
		}
	})

	exportCSV(exportCSVCmd)

	reader := csv.NewReader(strings.NewReader(env.stdout.String()))
	rows, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("parse CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("row count = %d", len(rows))
	}
	row := rows[1]
	if row[4] != "" || row[5] != "" || row[6] != "" {
		t.Errorf("expected empty end and duration for open record, got %v", row)
	}
}

func TestExportCSV_TaskFilter(t *testing.T) {
	env := setupCmdTest(t)
	env.seed(t, func(store *ledger.Store) {
		ctx := context.Background()
		now := time.Now()
		keptID, err := store.CreateTask(ctx, "kept", now)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		otherID, err := store.CreateTask(ctx, "other", now)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		start := time.Date(2026, 2, 3, 9, 0, 0, 0, time.Local)
		seedRecord(t, store, keptID, start, 10*time.Minute)
		seedRecord(t, store, otherID, start.Add(time.Hour), 10*time.Minute)
	})

	if err := exportCSVCmd.Flags().Set("task", "1"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	defer func() { _ = exportCSVCmd.Flags().Set("task", "0") }()

	exportCSV(exportCSVCmd)

	reader := csv.NewReader(strings.NewReader(env.stdout.String()))
	rows, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("parse CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("row count = %d, expected header plus one record", len(rows))
	}
	if rows[1][2] != "kept" {
		t.Errorf("task = %q", rows[1][2])
	}
}
