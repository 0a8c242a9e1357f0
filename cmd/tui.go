package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xolan/grind/internal/tui"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	Long: `Launch the interactive Terminal User Interface for grind.

The TUI shows your tasks and the running timer in one dashboard with
keyboard-driven timer control and live elapsed time.

Keyboard shortcuts:
  - j/k or arrows: Navigate tasks
  - Space/Enter: Start or stop the timer on the selected task
  - s: Switch the running timer to the selected task
  - c: Complete the selected task
  - a: Toggle completed tasks
  - r: Refresh
  - q: Quit`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runTUI()
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// runTUI initializes and runs the TUI application
func runTUI() {
	store := openLedger()
	if store == nil {
		return
	}
	defer func() { _ = store.Close() }()

	if err := tui.Run(store); err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error running TUI: %v\n", err)
		deps.Exit(1)
		return
	}
}
