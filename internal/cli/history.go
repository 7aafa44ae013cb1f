package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/bitty/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit   int
	Session string // optional - filter to one session
}

// HistoryResult holds the history output.
type HistoryResult struct {
	Entries []store.JournalEntry `json:"entries"`
	Count   int                  `json:"count"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent pet mutations",
		Long: `List the journal of pet mutations, newest first.

Every feed, play, adjust, decay, and zone selection is recorded with
the session that made it and the state it produced.

Examples:
  bitty history
  bitty history --limit 5
  bitty history --session 0190f3c2-... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportError(opts.RootOptions, cmd, runHistory(opts, cmd))
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum entries to show (0 for all)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "filter to a single session ID")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	_, st, logger, err := openStore(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	entries, err := st.ReadJournal(ctx, opts.Session, opts.Limit)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read journal", err).
			WithReason(ErrCodeJournal, nil)
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
		return formatter.Success(HistoryResult{Entries: entries, Count: len(entries)})
	}

	w := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No history yet.")
		return nil
	}

	fmt.Fprintf(w, "%-6s %-20s %-7s %6s %9s %-7s %s\n",
		"SEQ", "TIME", "ACTION", "DELTA", "HAPPINESS", "ZONE", "SESSION")
	for _, e := range entries {
		fmt.Fprintf(w, "%-6d %-20s %-7s %6s %9d %-7s %s\n",
			e.Seq,
			e.CreatedAt.Format(time.DateTime),
			e.Action,
			formatDelta(e.Delta),
			e.Happiness,
			e.Zone,
			shortSession(e.Session),
		)
	}
	return nil
}

func formatDelta(d int) string {
	if d == 0 {
		return "-"
	}
	return fmt.Sprintf("%+d", d)
}

// shortSession trims a UUID to its first group for display.
func shortSession(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
