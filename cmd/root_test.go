package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xolan/grind/internal/config"
	"github.com/xolan/grind/internal/ledger"
	"github.com/xolan/grind/internal/tracker"
)

// testEnv wires Deps to buffers and a temp database.
type testEnv struct {
	stdout     *bytes.Buffer
	stderr     *bytes.Buffer
	dbPath     string
	exitCalled bool
}

func setupCmdTest(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		dbPath: filepath.Join(t.TempDir(), "grind-test.db"),
	}
	SetDeps(&Deps{
		Stdout:       env.stdout,
		Stderr:       env.stderr,
		Stdin:        strings.NewReader(""),
		Exit:         func(code int) { env.exitCalled = true },
		DatabasePath: func() (string, error) { return env.dbPath, nil },
		Config:       config.DefaultConfig(),
	})
	t.Cleanup(ResetDeps)
	return env
}

// seed runs fn against the test database and closes it again.
func (env *testEnv) seed(t *testing.T, fn func(store *ledger.Store)) {
	t.Helper()
	store, err := ledger.Open(env.dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	fn(store)
}

func TestListTasks_Empty(t *testing.T) {
	env := setupCmdTest(t)

	listTasks()

	if !strings.Contains(env.stdout.String(), "No tasks found") {
		t.Errorf("Expected 'No tasks found', got: %s", env.stdout.String())
	}
}

func TestListTasks_HidesCompletedByDefault(t *testing.T) {
	env := setupCmdTest(t)
	env.seed(t, func(store *ledger.Store) {
		ctx := context.Background()
		now := time.Now()
		if _, err := store.CreateTask(ctx, "open task", now); err != nil {
			t.Fatalf("create: %v", err)
		}
		doneID, err := store.CreateTask(ctx, "finished task", now)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := tracker.New(store).Complete(ctx, doneID); err != nil {
			t.Fatalf("complete: %v", err)
		}
	})

	listTasks()

	output := env.stdout.String()
	if !strings.Contains(output, "open task") {
		t.Errorf("Expected open task in output, got: %s", output)
	}
	if strings.Contains(output, "finished task") {
		t.Errorf("Completed task should be hidden by default, got: %s", output)
	}
}

func TestListTasks_AllFlag(t *testing.T) {
	env := setupCmdTest(t)
	env.seed(t, func(store *ledger.Store) {
		ctx := context.Background()
		doneID, err := store.CreateTask(ctx, "finished task", time.Now())
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := tracker.New(store).Complete(ctx, doneID); err != nil {
			t.Fatalf("complete: %v", err)
		}
	})

	allFlag = true
	defer func() { allFlag = false }()

	listTasks()

	if !strings.Contains(env.stdout.String(), "finished task") {
		t.Errorf("Expected completed task with --all, got: %s", env.stdout.String())
	}
}

func TestListTasks_RunningMarker(t *testing.T) {
	env := setupCmdTest(t)
	env.seed(t, func(store *ledger.Store) {
		ctx := context.Background()
		taskID, err := store.CreateTask(ctx, "tracked task", time.Now())
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := tracker.New(store).Start(ctx, taskID); err != nil {
			t.Fatalf("start: %v", err)
		}
	})

	listTasks()

	output := env.stdout.String()
	if !strings.Contains(output, "*tracked task") {
		t.Errorf("Expected running marker on tracked task, got: %s", output)
	}
	if !strings.Contains(output, "Timer running on: tracked task") {
		t.Errorf("Expected timer footer, got: %s", output)
	}
}

func TestListTasks_InvalidStatus(t *testing.T) {
	env := setupCmdTest(t)

	statusFlag = "bogus"
	defer func() { statusFlag = "" }()

	listTasks()

	if !env.exitCalled {
		t.Error("Expected exit for invalid status")
	}
	if !strings.Contains(env.stderr.String(), "Invalid status") {
		t.Errorf("Expected invalid status error, got: %s", env.stderr.String())
	}
}

func TestParseID_Invalid(t *testing.T) {
	tests := []string{"abc", "0", "-3", "1.5", ""}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			env := setupCmdTest(t)
			if _, ok := parseID(input, "task id"); ok {
				t.Errorf("parseID(%q) should fail", input)
			}
			if !env.exitCalled {
				t.Error("Expected exit for invalid id")
			}
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		seconds  int64
		expected string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m"},
		{1815, "30m 15s"},
		{3600, "1h"},
		{5400, "1h 30m"},
		{7215, "2h"},
		{36600, "10h 10m"},
	}
	for _, tt := range tests {
		if got := formatSeconds(tt.seconds); got != tt.expected {
			t.Errorf("formatSeconds(%d) = %q, expected %q", tt.seconds, got, tt.expected)
		}
	}
}
