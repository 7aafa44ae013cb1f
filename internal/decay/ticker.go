package decay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultInterval is the time between decay ticks.
const DefaultInterval = 30 * time.Second

// ErrInvalidInterval is returned by Start for a non-positive interval.
var ErrInvalidInterval = errors.New("decay interval must be positive")

// State is the ticker lifecycle state.
type State int

const (
	Running State = iota
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// TickFunc is invoked once per tick on the ticker goroutine.
type TickFunc func(ctx context.Context)

// Ticker calls a TickFunc at a fixed interval until stopped.
type Ticker struct {
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}

	ticks atomic.Int64
}

// Option configures Start.
type Option func(*options)

type options struct {
	clock  Clock
	logger *slog.Logger
}

// WithClock sets the tick source. Defaults to WallClock.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithLogger sets the logger. Defaults to discarding output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Start arms the timer and returns a Running ticker.
// Cancelling ctx stops the ticker as if Stop had been called.
func Start(ctx context.Context, interval time.Duration, fn TickFunc, opts ...Option) (*Ticker, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}

	o := options{
		clock:  WallClock{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(ctx)
	ch, release := o.clock.Tick(interval)

	t := &Ticker{
		interval: interval,
		logger:   o.logger,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go t.loop(ctx, ch, release, fn)

	t.logger.Debug("decay ticker started", "interval", interval)
	return t, nil
}

func (t *Ticker) loop(ctx context.Context, ch <-chan time.Time, release func(), fn TickFunc) {
	defer close(t.done)
	defer release()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			// A tick and a cancellation can be ready together; cancellation wins.
			if ctx.Err() != nil {
				return
			}
			fn(ctx)
			n := t.ticks.Add(1)
			t.logger.Debug("decay tick", "tick", n)
		}
	}
}

// Stop cancels the timer and waits for the tick goroutine to exit.
// Safe to call more than once and from multiple goroutines.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if !t.stopped {
		t.stopped = true
		t.cancel()
		t.logger.Debug("decay ticker stopping", "ticks", t.ticks.Load())
	}
	t.mu.Unlock()

	<-t.done
}

// State reports whether the ticker is still armed.
func (t *Ticker) State() State {
	select {
	case <-t.done:
		return Stopped
	default:
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return Stopped
	}
	return Running
}

// Done is closed once the tick goroutine has exited.
func (t *Ticker) Done() <-chan struct{} {
	return t.done
}

// Ticks returns how many ticks have fired.
func (t *Ticker) Ticks() int64 {
	return t.ticks.Load()
}

// Interval returns the configured tick interval.
func (t *Ticker) Interval() time.Duration {
	return t.interval
}
