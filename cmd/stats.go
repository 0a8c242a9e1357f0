package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xolan/grind/internal/stats"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats [period]",
	Short: "Show tracked time statistics",
	Long: `Show aggregated time tracking statistics.

Displays the total time tracked in the chosen period and a per-task
breakdown of all tracked time, busiest task first. Only closed records
count; a running timer appears in 'grind status' instead.

Periods: today, yesterday, week, last-week, month, last-month, year,
last-year. The default comes from the config file (default_period).

Examples:
  grind stats                Statistics for the default period
  grind stats week           Statistics for the current week
  grind stats last-month     Statistics for the previous calendar month`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runStats(args)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// runStats handles the stats command logic
func runStats(args []string) {
	period, ok := resolvePeriod(args)
	if !ok {
		return
	}

	store := openLedger()
	if store == nil {
		return
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	engine := stats.New(store)

	start, end := period.Range(time.Now())
	ranged, err := engine.DurationInRange(ctx, start, end)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to compute period total")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	rows, err := engine.TaskStatistics(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to compute task statistics")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Statistics for %s\n", period)
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 60))
	_, _ = fmt.Fprintf(deps.Stdout, "Tracked (%s):  %s\n", period, formatSeconds(ranged))
	_, _ = fmt.Fprintln(deps.Stdout)

	if len(rows) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No tasks yet")
		_, _ = fmt.Fprintln(deps.Stdout, "Hint: Create a task with 'grind add <name>'")
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout, "By task (all time):")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 60))
	for _, row := range rows {
		_, _ = fmt.Fprintf(deps.Stdout, "  %-30s  %10s  (%d %s)\n",
			row.TaskName,
			formatSeconds(row.TotalDurationSeconds),
			row.SessionCount,
			pluralize("session", row.SessionCount))
	}
}
