package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xolan/grind/internal/stats"
)

const reportBarWidth = 40

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report [period]",
	Short: "Show a tracked time chart",
	Long: `Show a bar chart of tracked time across the chosen period.

The period is split into buckets and each bucket shows the hours
tracked by records started in it:
  today, yesterday        24 hourly buckets
  week, last-week         7 daily buckets (Monday first)
  month, last-month       one bucket per calendar day
  year, last-year         12 monthly buckets

Examples:
  grind report               Chart for the default period
  grind report week          Hours per day this week
  grind report last-year     Hours per month last year`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runReport(args)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

// runReport handles the report command logic
func runReport(args []string) {
	period, ok := resolvePeriod(args)
	if !ok {
		return
	}

	store := openLedger()
	if store == nil {
		return
	}
	defer func() { _ = store.Close() }()

	points, err := stats.New(store).BucketedSeries(context.Background(), period, time.Now())
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to build report")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Report for %s\n", period)
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 60))

	var max, total float64
	for _, p := range points {
		total += p.Hours
		if p.Hours > max {
			max = p.Hours
		}
	}

	if total == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No time tracked in this period")
		return
	}

	for _, p := range points {
		bar := strings.Repeat("█", barLength(p.Hours, max))
		if p.Hours > 0 {
			_, _ = fmt.Fprintf(deps.Stdout, "%-6s %s %.1fh\n", p.Label, bar, p.Hours)
		} else {
			_, _ = fmt.Fprintf(deps.Stdout, "%-6s\n", p.Label)
		}
	}

	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 60))
	_, _ = fmt.Fprintf(deps.Stdout, "Total: %.1fh\n", total)
}

// barLength scales a value against the chart maximum. Non-zero values
// always get at least one cell.
func barLength(value, max float64) int {
	if value <= 0 || max <= 0 {
		return 0
	}
	n := int(value / max * reportBarWidth)
	if n < 1 {
		n = 1
	}
	return n
}
