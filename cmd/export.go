package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// exportCmd represents the export parent command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export time records to various formats",
	Long: `Export time records for programmatic use, backup, or migration.

Available formats:
  csv     Export time records as CSV

Examples:
  grind export csv                 Export all records as CSV
  grind export csv > records.csv   Export to file`,
}

// exportCSVCmd represents the export csv command
var exportCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Export time records as CSV",
	Long: `Export time records to CSV format with headers.

Open records are included with an empty end time and duration.

Date Filtering:
  Use --from and --to to filter by start date range
  Use --last to filter by relative days (e.g., last 7 days)

Task Filtering:
  Use --task to export only one task's records

Examples:
  grind export csv                           Export all records
  grind export csv > records.csv             Export to file
  grind export csv --task 3                  Export records for task 3
  grind export csv --from 2026-01-01 --to 2026-01-31
  grind export csv --last 30                 Export the last 30 days`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exportCSV(cmd)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportCSVCmd)

	exportCSVCmd.Flags().Int64("task", 0, "Only export records for this task id")
	exportCSVCmd.Flags().String("from", "", "Start date for filtering (YYYY-MM-DD or DD/MM/YYYY)")
	exportCSVCmd.Flags().String("to", "", "End date for filtering (YYYY-MM-DD or DD/MM/YYYY)")
	exportCSVCmd.Flags().Int("last", 0, "Filter by last N days (e.g., --last 7 for last 7 days)")
}

// exportCSV handles the export csv command logic
func exportCSV(cmd *cobra.Command) {
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
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to read time records")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	names := taskNames(ctx, store, records)

	writer := csv.NewWriter(deps.Stdout)

	headers := []string{"record_id", "task_id", "task", "start_time", "end_time", "duration_seconds", "duration_hours", "notes"}
	if err := writer.Write(headers); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to write CSV headers")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	for _, rec := range records {
		endTime := ""
		if rec.EndTime != nil {
			endTime = rec.EndTime.Format("2006-01-02 15:04:05")
		}
		durationSeconds := ""
		durationHours := ""
		if rec.Duration != nil {
			durationSeconds = strconv.FormatInt(*rec.Duration, 10)
			durationHours = strconv.FormatFloat(float64(*rec.Duration)/3600.0, 'f', 2, 64)
		}

		row := []string{
			strconv.FormatInt(rec.ID, 10),
			strconv.FormatInt(rec.TaskID, 10),
			names[rec.TaskID],
			rec.StartTime.Format("2006-01-02 15:04:05"),
			endTime,
			durationSeconds,
			durationHours,
			rec.Notes,
		}
		if err := writer.Write(row); err != nil {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to write CSV row")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			deps.Exit(1)
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to flush CSV output")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}
}
