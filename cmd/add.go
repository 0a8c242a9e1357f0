package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xolan/grind/internal/ledger"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a new task",
	Long: `Create a new task in pending state.

The name may contain spaces; quoting is optional.

Examples:
  grind add fix authentication bug
  grind add "write Q3 report"`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		addTask(args)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}

// addTask creates a new task from the joined arguments
func addTask(args []string) {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Task name cannot be empty")
		_, _ = fmt.Fprintln(deps.Stderr, "Usage: grind add <name>")
		_, _ = fmt.Fprintln(deps.Stderr, "Example: grind add fix authentication bug")
		deps.Exit(1)
		return
	}

	store := openLedger()
	if store == nil {
		return
	}
	defer func() { _ = store.Close() }()

	id, err := store.CreateTask(context.Background(), name, time.Now())
	if err != nil {
		if errors.Is(err, ledger.ErrEmptyName) {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Task name cannot be empty")
			deps.Exit(1)
			return
		}
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to create task")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Added task %d: %s\n", id, name)
	_, _ = fmt.Fprintf(deps.Stdout, "Hint: Start tracking with 'grind start %d'\n", id)
}
