package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xolan/grind/internal/ledger"
	"github.com/xolan/grind/internal/tracker"
)

var yesFlag bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task by id",
	Long: `Delete the task with the given id.

Deletion is soft: the task disappears from listings but its time
records are kept for reporting. A running timer on the task is stopped
first. A confirmation prompt is shown unless --yes is specified.

Example:
  grind delete 3
  grind delete 3 --yes`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deleteTask(args[0])
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "skip confirmation prompt")
}

// deleteTask handles the soft deletion of a task
func deleteTask(idArg string) {
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

	task, err := store.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Task %d not found\n", taskID)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: List tasks with 'grind'")
		} else {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to read task")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		}
		deps.Exit(1)
		return
	}
	if task.Status == ledger.StatusDeleted {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Task %d is already deleted\n", taskID)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Task to delete:")
	_, _ = fmt.Fprintf(deps.Stdout, "  [%d] %s (%s)\n", task.ID, task.Name, task.Status.Label())

	if !yesFlag {
		if !promptConfirmation() {
			_, _ = fmt.Fprintln(deps.Stdout, "Deletion cancelled")
			return
		}
	}

	if err := tracker.New(store).Delete(ctx, taskID); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to delete task")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Deleted: %s\n", task.Name)
	_, _ = fmt.Fprintln(deps.Stdout, "Time records were kept for reporting")
}

// promptConfirmation asks the user to confirm deletion
// Returns true if user confirms with 'y' or 'Y', false otherwise
func promptConfirmation() bool {
	_, _ = fmt.Fprint(deps.Stdout, "Delete this task? [y/N]: ")

	scanner := bufio.NewScanner(deps.Stdin)
	if !scanner.Scan() {
		return false
	}

	response := strings.TrimSpace(scanner.Text())
	return response == "y" || response == "Y"
}
