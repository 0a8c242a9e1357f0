package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/xolan/grind/internal/ledger"
	"github.com/xolan/grind/internal/tracker"
)

var switchFlag bool

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Start the timer on a task",
	Long: `Start the timer on the task with the given id.

Only one timer runs at a time. If another task's timer is already
running, grind refuses unless --switch is given, in which case the
running timer is stopped first and its task returned to pending.

Examples:
  grind start 3
  grind start 3 --switch`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		startTask(args[0])
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	startCmd.Flags().BoolVarP(&switchFlag, "switch", "s", false, "stop the running timer and switch to this task")
}

// startTask starts tracking the given task
func startTask(idArg string) {
	taskID, ok := parseID(idArg, "task id")
	if !ok {
		return
	}

	store := openLedger()
	if store == nil {
		return
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	tr := tracker.New(store)

	status, err := tr.Status(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to read timer state")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	if status.Running && status.Record.TaskID != taskID && !switchFlag {
		_, _ = fmt.Fprintln(deps.Stderr, "Warning: A timer is already running")
		_, _ = fmt.Fprintf(deps.Stderr, "Current timer: %s (task %d)\n", status.Record.TaskName, status.Record.TaskID)
		_, _ = fmt.Fprintf(deps.Stderr, "Started: %s ago\n", formatSeconds(int64(status.Elapsed.Seconds())))
		_, _ = fmt.Fprintln(deps.Stderr)
		_, _ = fmt.Fprintln(deps.Stderr, "Options:")
		_, _ = fmt.Fprintln(deps.Stderr, "  - Stop the current timer with 'grind stop'")
		_, _ = fmt.Fprintf(deps.Stderr, "  - Switch with 'grind start %d --switch'\n", taskID)
		deps.Exit(1)
		return
	}

	if status.Running && status.Record.TaskID == taskID {
		_, _ = fmt.Fprintf(deps.Stdout, "Timer already running on: %s\n", status.Record.TaskName)
		return
	}

	recordID, err := tr.Start(ctx, taskID)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrNotFound):
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Task %d not found\n", taskID)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: List tasks with 'grind'")
		case errors.Is(err, tracker.ErrInvalidTransition):
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Task %d cannot be started\n", taskID)
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: Completed and deleted tasks cannot be tracked")
		default:
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to start timer")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		}
		deps.Exit(1)
		return
	}

	task, err := store.GetTask(ctx, taskID)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stdout, "Timer started (record %d)\n", recordID)
		return
	}

	if status.Running {
		_, _ = fmt.Fprintf(deps.Stdout, "Stopped: %s\n", status.Record.TaskName)
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Timer started: %s (record %d) at %s\n",
		task.Name, recordID, time.Now().Format("15:04"))
}
