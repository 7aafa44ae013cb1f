package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/bitty/internal/config"
	"github.com/roach88/bitty/internal/pet"
	"github.com/roach88/bitty/internal/session"
	"github.com/roach88/bitty/internal/store"
)

// petEnv is everything a command needs to work with the persisted pet.
type petEnv struct {
	cfg     config.Config
	store   *store.Store
	pet     *pet.Pet
	logger  *slog.Logger
	session string
}

// loadConfig resolves configuration: defaults, file, env, then flags.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err).
			WithReason(ErrCodeConfig, nil)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	return cfg, nil
}

// newLogger builds the text handler used by every command.
// --verbose forces debug level regardless of the configured level.
func newLogger(w io.Writer, cfg config.Config, verbose bool) *slog.Logger {
	level := cfg.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openStore loads config and opens the database without loading the pet.
func openStore(opts *RootOptions, cmd *cobra.Command) (config.Config, *store.Store, *slog.Logger, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg, opts.Verbose)

	logger.Debug("opening database", "path", cfg.Database)
	st, err := store.Open(cfg.Database)
	if err != nil {
		return config.Config{}, nil, nil, WrapExitError(ExitCommandError, "failed to open database", err).
			WithReason(ErrCodeDatabase, map[string]string{"path": cfg.Database})
	}
	return cfg, st, logger, nil
}

// openPet opens the store and loads the pet under a new session ID.
func openPet(ctx context.Context, opts *RootOptions, cmd *cobra.Command) (*petEnv, error) {
	cfg, st, logger, err := openStore(opts, cmd)
	if err != nil {
		return nil, err
	}

	gen := opts.Sessions
	if gen == nil {
		gen = session.UUIDv7Generator{}
	}
	id := gen.Generate()
	logger = logger.With("session", id)

	env := &petEnv{
		cfg:     cfg,
		store:   st,
		logger:  logger,
		session: id,
	}
	env.reload(ctx)
	return env, nil
}

// reload reads both cells from the store again.
func (e *petEnv) reload(ctx context.Context) {
	e.pet = pet.Load(ctx, e.store,
		pet.WithJournal(e.store, e.session),
		pet.WithLogger(e.logger),
	)
}

func (e *petEnv) Close() {
	if err := e.store.Close(); err != nil {
		e.logger.Error("error closing database", "error", err)
	}
}

// commandContext returns the command's context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
