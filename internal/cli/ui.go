package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/roach88/bitty/internal/decay"
	"github.com/roach88/bitty/internal/tui"
)

// UIOptions holds settings for the ui command.
type UIOptions struct {
	*RootOptions

	// Clock and ProgramOptions allow driving the UI headlessly (for testing).
	Clock          decay.Clock
	ProgramOptions []tea.ProgramOption
}

// NewUICommand creates the ui command.
func NewUICommand(rootOpts *RootOptions) *cobra.Command {
	return newUICommand(&UIOptions{RootOptions: rootOpts})
}

func newUICommand(opts *UIOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive pet",
		Long: `Open the pet in a full-screen terminal UI.

Keys:
  f      feed
  p      play
  1 2 3  forest, desert, ocean
  q      quit

Happiness decays while the UI is open.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			env, err := openPet(ctx, opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			err = tui.Run(ctx, env.pet, tui.Options{
				Interval:       env.cfg.DecayInterval,
				Clock:          opts.Clock,
				Logger:         env.logger,
				ProgramOptions: opts.ProgramOptions,
			})
			if err != nil {
				return WrapExitError(ExitFailure, "terminal ui failed", err)
			}
			return nil
		},
	}
}
