package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xolan/grind/internal/ledger"
	"github.com/xolan/grind/internal/timeutil"
)

// recordsCmd represents the records command
var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List time records",
	Long: `List time records, newest first.

Date Filtering:
  Use --from and --to to filter by start date range
  Use --last to filter by relative days (e.g., last 7 days)

Task Filtering:
  Use --task to show only one task's records

Examples:
  grind records                          List all records
  grind records --task 3                 Records for task 3
  grind records --from 2026-01-01        Records from a specific date
  grind records --from 2026-01-01 --to 2026-01-31
  grind records --last 7                 Records from the last 7 days`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listRecords(cmd)
	},
}

func init() {
	rootCmd.AddCommand(recordsCmd)

	recordsCmd.Flags().Int64("task", 0, "Only show records for this task id")
	recordsCmd.Flags().String("from", "", "Start date for filtering (YYYY-MM-DD or DD/MM/YYYY)")
	recordsCmd.Flags().String("to", "", "End date for filtering (YYYY-MM-DD or DD/MM/YYYY)")
	recordsCmd.Flags().Int("last", 0, "Filter by last N days (e.g., --last 7 for last 7 days)")
}

// recordFilterFromFlags builds a ledger.RecordFilter from the shared
// --task/--from/--to/--last flag set. Returns false after reporting a
// flag error.
func recordFilterFromFlags(cmd *cobra.Command) (ledger.RecordFilter, bool) {
	var filter ledger.RecordFilter

	taskID, _ := cmd.Flags().GetInt64("task")
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	lastDays, _ := cmd.Flags().GetInt("last")

	if lastDays > 0 && (fromStr != "" || toStr != "") {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Cannot use --last with --from or --to")
		_, _ = fmt.Fprintln(deps.Stderr, "Use either --last N or --from/--to, not both")
		deps.Exit(1)
		return filter, false
	}

	filter.TaskID = taskID

	if lastDays > 0 {
		start, end := timeutil.LastNDays(lastDays, time.Now())
		filter.From = &start
		filter.To = &end
		return filter, true
	}

	if fromStr != "" {
		from, err := timeutil.ParseDate(fromStr)
		if err != nil {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid --from date: %v\n", err)
			deps.Exit(1)
			return filter, false
		}
		filter.From = &from
	}
	if toStr != "" {
		to, err := timeutil.ParseDate(toStr)
		if err != nil {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid --to date: %v\n", err)
			deps.Exit(1)
			return filter, false
		}
		end := timeutil.EndOfDay(to)
		filter.To = &end
	}
	return filter, true
}

// listRecords displays time records matching the flag filters
func listRecords(cmd *cobra.Command) {
	filter, ok := recordFilterFromFlags(cmd)
	if !ok {
		return
	}

	store := openLedger()
	if store == nil {
		return
	}
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	records, err := store.ListTimeRecords(ctx, filter)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to list time records")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	if len(records) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No time records found")
		return
	}

	names := taskNames(ctx, store, records)

	_, _ = fmt.Fprintf(deps.Stdout, "%4s  %-10s  %-13s  %-9s  %s\n", "ID", "DATE", "TIME", "DURATION", "TASK")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 60))

	var total int64
	for _, rec := range records {
		span := rec.StartTime.Format("15:04") + " -"
		duration := "running"
		if rec.EndTime != nil {
			span += " " + rec.EndTime.Format("15:04")
		}
		if rec.Duration != nil {
			duration = formatSeconds(*rec.Duration)
			total += *rec.Duration
		}
		line := fmt.Sprintf("%4d  %-10s  %-13s  %-9s  %s",
			rec.ID, rec.StartTime.Format("2006-01-02"), span, duration, names[rec.TaskID])
		if rec.Notes != "" {
			line += "  # " + rec.Notes
		}
		_, _ = fmt.Fprintln(deps.Stdout, line)
	}

	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 60))
	_, _ = fmt.Fprintf(deps.Stdout, "%d %s, total %s\n", len(records), pluralize("record", len(records)), formatSeconds(total))
}

// taskNames resolves the task names referenced by a set of records.
// Deleted tasks still resolve; their history remains addressable.
func taskNames(ctx context.Context, store *ledger.Store, records []ledger.TimeRecord) map[int64]string {
	names := make(map[int64]string)
	for _, rec := range records {
		if _, ok := names[rec.TaskID]; ok {
			continue
		}
		task, err := store.GetTask(ctx, rec.TaskID)
		if err != nil {
			names[rec.TaskID] = fmt.Sprintf("task %d", rec.TaskID)
			continue
		}
		names[rec.TaskID] = task.Name
	}
	return names
}
