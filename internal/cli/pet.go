package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/bitty/internal/pet"
	"github.com/roach88/bitty/internal/view"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the pet",
		Long: `Show the pet's happiness and zone.

With --verbose, the keys currently stored in the database are listed
on stderr. A fresh or reset database stores none.

Examples:
  bitty status
  bitty status --verbose
  bitty status --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPet(rootOpts, cmd, func(ctx context.Context, env *petEnv) error {
				if !rootOpts.Verbose {
					return nil
				}
				keys, err := env.store.Keys(ctx)
				if err != nil {
					return WrapExitError(ExitFailure, "failed to list stored keys", err).
						WithReason(ErrCodeDatabase, nil)
				}
				formatter := &OutputFormatter{Verbose: true, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr()}
				if len(keys) == 0 {
					formatter.VerboseLog("stored keys: none")
				} else {
					formatter.VerboseLog("stored keys: %s", strings.Join(keys, ", "))
				}
				return nil
			})
		},
	}
}

// NewFeedCommand creates the feed command.
func NewFeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "feed",
		Short:         "Feed the pet (+1 happiness)",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPet(rootOpts, cmd, func(ctx context.Context, env *petEnv) error {
				env.pet.Feed(ctx)
				return nil
			})
		},
	}
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "play",
		Short:         "Play with the pet (+1 happiness)",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPet(rootOpts, cmd, func(ctx context.Context, env *petEnv) error {
				env.pet.Play(ctx)
				return nil
			})
		},
	}
}

// NewAdjustCommand creates the adjust command.
func NewAdjustCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "adjust <delta>",
		Short: "Change happiness by delta, clamped to 0..10",
		Long: `Change happiness by an arbitrary integer delta.

The result is clamped to the range 0 to 10. Negative deltas must
follow "--" so they are not read as flags.

Examples:
  bitty adjust 3
  bitty adjust -- -2`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.Atoi(args[0])
			if err != nil {
				return reportError(rootOpts, cmd,
					WrapExitError(ExitCommandError, fmt.Sprintf("invalid delta %q", args[0]), err).
						WithReason(ErrCodeInvalidArg, map[string]string{"delta": args[0]}))
			}
			return withPet(rootOpts, cmd, func(ctx context.Context, env *petEnv) error {
				env.pet.Adjust(ctx, delta)
				return nil
			})
		},
	}
}

// NewZoneCommand creates the zone command.
func NewZoneCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "zone [name]",
		Short: "Select the pet's zone",
		Long: `Select the zone the pet lives in: forest, desert, or ocean.

Names are case-insensitive. Without a name the current zone is shown.

Examples:
  bitty zone ocean
  bitty zone Forest`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPet(rootOpts, cmd, func(ctx context.Context, env *petEnv) error {
				if len(args) == 0 {
					return nil
				}
				z, err := env.pet.SelectName(ctx, args[0])
				if errors.Is(err, pet.ErrUnknownZone) {
					return WrapExitError(ExitCommandError,
						fmt.Sprintf("unknown zone %q: must be one of %v", args[0], pet.Zones()), err).
						WithReason(ErrCodeUnknownZone, map[string]interface{}{"zone": args[0], "zones": pet.Zones()})
				}
				if err != nil {
					return WrapExitError(ExitFailure, "failed to select zone", err)
				}
				env.logger.Debug("zone selected", "zone", z)
				return nil
			})
		},
	}
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear stored state and start over",
		Long: `Delete the stored happiness and zone so the pet starts again
from the defaults (happiness 5, desert). The journal is kept.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPet(rootOpts, cmd, func(ctx context.Context, env *petEnv) error {
				for _, key := range []string{pet.HappinessKey, pet.ZoneKey} {
					if err := env.store.Delete(ctx, key); err != nil {
						return WrapExitError(ExitFailure, "failed to clear state", err).
							WithReason(ErrCodeDatabase, map[string]string{"key": key})
					}
				}
				env.reload(ctx)
				env.logger.Info("pet reset")
				return nil
			})
		},
	}
}

// withPet opens the pet, runs fn, and prints the resulting state.
// In json format, failures are also reported as an error response.
func withPet(rootOpts *RootOptions, cmd *cobra.Command, fn func(context.Context, *petEnv) error) error {
	return reportError(rootOpts, cmd, runWithPet(rootOpts, cmd, fn))
}

func runWithPet(rootOpts *RootOptions, cmd *cobra.Command, fn func(context.Context, *petEnv) error) error {
	ctx := commandContext(cmd)

	env, err := openPet(ctx, rootOpts, cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := fn(ctx, env); err != nil {
		return err
	}
	return printSnapshot(rootOpts, cmd, env.session, env.pet.Snapshot())
}

// printSnapshot writes the pet as JSON or as the plain view.
func printSnapshot(rootOpts *RootOptions, cmd *cobra.Command, session string, s pet.Snapshot) error {
	if rootOpts.Format == "json" {
		formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout(), Session: session}
		return formatter.Success(s)
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), view.Plain(s))
	return err
}
