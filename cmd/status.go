package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/xolan/grind/internal/stats"
	"github.com/xolan/grind/internal/timeutil"
	"github.com/xolan/grind/internal/tracker"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running timer and today's total",
	Long: `Show whether a timer is running, on which task, and for how long,
together with the total time tracked today. The running timer's elapsed
time is included in the total.

Examples:
  grind status`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		showStatus()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// showStatus displays the current timer state and today's tracked total
func showStatus() {
	store := openLedger()
	if store == nil {
		return
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	now := time.Now()

	status, err := tracker.New(store).Status(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to read timer state")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	if status.Running {
		_, _ = fmt.Fprintf(deps.Stdout, "Timer running: %s (task %d)\n", status.Record.TaskName, status.Record.TaskID)
		_, _ = fmt.Fprintf(deps.Stdout, "Started: %s\n", formatStartTime(status.Record.StartTime, now))
		_, _ = fmt.Fprintf(deps.Stdout, "Elapsed: %s\n", formatSeconds(int64(status.Elapsed.Seconds())))
	} else {
		_, _ = fmt.Fprintln(deps.Stdout, "No timer running")
		_, _ = fmt.Fprintln(deps.Stdout, "Hint: Start a timer with 'grind start <id>'")
	}

	closed, err := stats.New(store).DurationInRange(ctx, timeutil.StartOfDay(now), timeutil.EndOfDay(now))
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to compute today's total")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	total := closed
	if status.Running {
		total += int64(status.Elapsed.Seconds())
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Today: %s tracked\n", formatSeconds(total))
}

// formatStartTime renders a start instant relative to today
func formatStartTime(start, now time.Time) string {
	if timeutil.StartOfDay(start).Equal(timeutil.StartOfDay(now)) {
		return fmt.Sprintf("today at %s", start.Format("3:04 PM"))
	}
	return start.Format("Mon Jan 2 at 3:04 PM")
}
