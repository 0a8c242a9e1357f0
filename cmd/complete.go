package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xolan/grind/internal/ledger"
	"github.com/xolan/grind/internal/tracker"
)

// completeCmd represents the complete command
var completeCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark a task as completed",
	Long: `Mark the task with the given id as completed.

If the task's timer is running it is stopped first. A completed task
keeps its tracked time but can no longer be started.

Examples:
  grind complete 3`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		completeTask(args[0])
	},
}

func init() {
	rootCmd.AddCommand(completeCmd)
}

// completeTask marks the given task completed
func completeTask(idArg string) {
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

	if err := tr.Complete(ctx, taskID); err != nil {
		switch {
		case errors.Is(err, ledger.ErrNotFound):
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Task %d not found\n", taskID)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: List tasks with 'grind'")
		case errors.Is(err, tracker.ErrInvalidTransition):
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Task %d cannot be completed\n", taskID)
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		default:
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to complete task")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		}
		deps.Exit(1)
		return
	}

	task, err := store.GetTask(ctx, taskID)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stdout, "Completed task %d\n", taskID)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Completed: %s\n", task.Name)
}
