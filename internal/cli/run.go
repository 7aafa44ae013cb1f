package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/bitty/internal/decay"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	For time.Duration

	// Clock allows overriding the decay tick source (for testing).
	// If nil, defaults to the wall clock.
	Clock decay.Clock
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a headless pet session",
		Long: `Run a pet session without a UI.

Loads the pet and starts the decay ticker: happiness drops by one
every decay interval (30s by default) and each tick is logged. The
session ends on Ctrl-C, SIGTERM, or when --for elapses.

Example:
  bitty run
  bitty run --db /tmp/pet.db --for 5m --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportError(opts.RootOptions, cmd, runSession(opts, cmd))
		},
	}

	cmd.Flags().DurationVar(&opts.For, "for", 0, "stop after this long (0 runs until interrupted)")

	return cmd
}

func runSession(opts *RunOptions, cmd *cobra.Command) error {
	if opts.For < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --for %s: must not be negative", opts.For)).
			WithReason(ErrCodeInvalidArg, nil)
	}

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()
	if opts.For > 0 {
		ctx, cancel = context.WithTimeout(ctx, opts.For)
		defer cancel()
	}

	env, err := openPet(ctx, opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer env.Close()
	slog.SetDefault(env.logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			env.logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
			// Parent context cancelled or --for elapsed
		}
	}()

	tickerOpts := []decay.Option{decay.WithLogger(env.logger)}
	if opts.Clock != nil {
		tickerOpts = append(tickerOpts, decay.WithClock(opts.Clock))
	}
	p := env.pet
	tk, err := decay.Start(ctx, env.cfg.DecayInterval, func(ctx context.Context) {
		h := p.Decay(ctx)
		env.logger.Info("happiness decayed", "happiness", h)
	}, tickerOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start decay ticker", err)
	}

	start := p.Snapshot()
	env.logger.Info("session started",
		"happiness", start.Happiness,
		"zone", start.Zone,
		"interval", env.cfg.DecayInterval,
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Session %s started. Happiness decays every %s.\n", env.session, env.cfg.DecayInterval)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl-C to stop.")

	<-ctx.Done()
	tk.Stop()

	env.logger.Info("session stopped", "ticks", tk.Ticks())
	return printSnapshot(opts.RootOptions, cmd, env.session, p.Snapshot())
}
