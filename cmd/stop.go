package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xolan/grind/internal/tracker"
)

// stopCmd represents the stop command
var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running timer",
	Long: `Stop the currently running timer.

The time record is closed with the current instant and its duration is
frozen in whole seconds. The task returns to pending; its tracked time
is kept and shown by 'grind stats'.

Examples:
  grind stop`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		stopTimer()
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

// stopTimer closes the open time record, if any
func stopTimer() {
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
	if !status.Running {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: No timer is running")
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Start a timer with 'grind start <id>'")
		deps.Exit(1)
		return
	}

	if err := tr.Pause(ctx, status.Record.ID); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to stop timer")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	rec, err := store.GetTimeRecord(ctx, status.Record.ID)
	if err != nil || rec.Duration == nil {
		_, _ = fmt.Fprintf(deps.Stdout, "Stopped: %s\n", status.Record.TaskName)
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Stopped: %s (%s)\n", status.Record.TaskName, formatSeconds(*rec.Duration))
}
