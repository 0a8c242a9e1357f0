package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xolan/grind/internal/ledger"
)

// noteCmd represents the note command
var noteCmd = &cobra.Command{
	Use:   "note <record-id> <text>",
	Short: "Attach a note to a time record",
	Long: `Attach a free-form note to a time record, replacing any previous
note. Record ids are shown by 'grind records'.

Examples:
  grind note 12 paired with alice
  grind note 12 "waiting on CI"`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		annotateRecord(args[0], args[1:])
	},
}

func init() {
	rootCmd.AddCommand(noteCmd)
}

// annotateRecord sets the note text on a time record
func annotateRecord(idArg string, textArgs []string) {
	recordID, ok := parseID(idArg, "record id")
	if !ok {
		return
	}

	text := strings.TrimSpace(strings.Join(textArgs, " "))

	store := openLedger()
	if store == nil {
		return
	}
	defer func() { _ = store.Close() }()

	if err := store.UpdateNotes(context.Background(), recordID, text); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Time record %d not found\n", recordID)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: List records with 'grind records'")
		} else {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to save note")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		}
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Noted on record %d: %s\n", recordID, text)
}
