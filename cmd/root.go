package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xolan/grind/internal/ledger"
	"github.com/xolan/grind/internal/timeutil"
)

var (
	allFlag    bool
	statusFlag string
)

var rootCmd = &cobra.Command{
	Use:   "grind",
	Short: "A task and time tracking CLI application",
	Long: `grind is a CLI tool for tracking tasks and the time spent on them.

Usage:
  grind                                 List open tasks
  grind add <name>                      Create a new task
  grind start <id>                      Start the timer on a task
  grind stop                            Stop the running timer
  grind complete <id>                   Mark a task as completed
  grind delete <id>                     Delete a task (with confirmation)
  grind status                          Show the running timer and today's total
  grind records                         List time records
  grind note <record-id> <text>         Attach a note to a time record
  grind stats [period]                  Show tracked time statistics
  grind report [period]                 Show a tracked time chart
  grind export csv                      Export time records as CSV
  grind tui                             Launch the interactive terminal UI

Only one timer runs at a time: starting a task pauses whatever was
running. Periods: today, yesterday, week, last-week, month, last-month,
year, last-year.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listTasks()
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&allFlag, "all", "a", false, "include completed tasks")
	rootCmd.Flags().StringVar(&statusFlag, "status", "", "only show tasks with this status (pending, in_progress, completed, deleted)")
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		"grind version {{.Version}}\n" +
			"commit: " + commit + "\n" +
			"built: " + date + "\n",
	)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// openLedger opens the task database, reporting failures in the
// standard error format. Returns nil after calling deps.Exit.
func openLedger() *ledger.Store {
	path, err := deps.DatabasePath()
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to determine database location")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Check that your home directory is accessible")
		deps.Exit(1)
		return nil
	}

	store, err := ledger.Open(path)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to open task database")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: Check that file exists and is readable: %s\n", path)
		deps.Exit(1)
		return nil
	}
	return store
}

// listTasks displays tasks, most recently touched first
func listTasks() {
	store := openLedger()
	if store == nil {
		return
	}
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	filter := ledger.TaskFilter{}
	if statusFlag != "" {
		status := ledger.Status(statusFlag)
		if !status.IsValid() {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid status '%s'\n", statusFlag)
			_, _ = fmt.Fprintln(deps.Stderr, "Valid statuses: pending, in_progress, completed, deleted")
			deps.Exit(1)
			return
		}
		filter.Status = &status
	}

	tasks, err := store.ListTasks(ctx, filter)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to list tasks")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	// Completed tasks are hidden by default unless asked for explicitly.
	if statusFlag == "" && !allFlag {
		open := tasks[:0]
		for _, task := range tasks {
			if task.Status != ledger.StatusCompleted {
				open = append(open, task)
			}
		}
		tasks = open
	}

	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No tasks found")
		_, _ = fmt.Fprintln(deps.Stdout, "Hint: Create a task with 'grind add <name>'")
		return
	}

	open, err := store.OpenRecord(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to read timer state")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "%4s  %-12s  %s\n", "ID", "STATUS", "TASK")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 50))
	for _, task := range tasks {
		marker := " "
		if open != nil && open.TaskID == task.ID {
			marker = "*"
		}
		_, _ = fmt.Fprintf(deps.Stdout, "%4d  %-12s %s%s\n", task.ID, task.Status.Label(), marker, task.Name)
	}
	if open != nil {
		_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 50))
		_, _ = fmt.Fprintf(deps.Stdout, "Timer running on: %s\n", open.TaskName)
	}
}

// parseID parses a positive numeric identifier from a CLI argument
func parseID(arg, what string) (int64, bool) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid %s '%s'. Must be a positive number\n", what, arg)
		deps.Exit(1)
		return 0, false
	}
	return id, true
}

// formatSeconds formats an integer second count as a human-readable
// duration. Examples: "45s", "30m 15s", "1h 30m", "2h"
func formatSeconds(total int64) string {
	if total < 60 {
		return fmt.Sprintf("%ds", total)
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours == 0 {
		if seconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	if minutes == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// resolvePeriod parses the optional period argument, falling back to
// the configured default
func resolvePeriod(args []string) (timeutil.Period, bool) {
	name := deps.Config.DefaultPeriod
	if name == "" {
		name = "today"
	}
	if len(args) > 0 {
		name = args[0]
	}
	period, err := timeutil.ParsePeriod(name)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		deps.Exit(1)
		return 0, false
	}
	return period, true
}

// pluralize returns the singular or plural form of a word based on count
func pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}
