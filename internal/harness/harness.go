package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/bitty/internal/decay"
	"github.com/roach88/bitty/internal/pet"
	"github.com/roach88/bitty/internal/store"
	"github.com/roach88/bitty/internal/testutil"
)

// tickTimeout bounds how long a tick step waits for the ticker goroutine.
const tickTimeout = 2 * time.Second

// Harness executes one scenario against a pet session.
type Harness struct {
	store   *store.Store
	clock   *testutil.ManualClock
	session string
	logger  *slog.Logger

	pet     *pet.Pet
	ticker  *decay.Ticker
	handled chan struct{} // receives once per decay the ticker has applied
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// A returned error means the scenario could not be executed; failed
// expectations are reported in the Result instead.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:   st,
		clock:   testutil.NewManualClock(),
		session: testutil.NewFixedSessionGenerator(scenario.Session).Generate(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	ctx := context.Background()

	if err := h.seed(ctx, scenario.Setup); err != nil {
		return nil, fmt.Errorf("failed to execute setup: %w", err)
	}

	if err := h.start(ctx); err != nil {
		return nil, err
	}
	defer func() { h.ticker.Stop() }()

	result := NewResult()
	if err := h.executeFlow(ctx, scenario.Flow, result); err != nil {
		return nil, fmt.Errorf("failed to execute flow: %w", err)
	}
	result.Final = h.pet.Snapshot()

	actx := &AssertionContext{Store: st, Ctx: ctx}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}

// seed writes raw setup values before the pet is loaded.
func (h *Harness) seed(ctx context.Context, setup map[string]string) error {
	for key, raw := range setup {
		if err := h.store.Put(ctx, key, []byte(raw)); err != nil {
			return err
		}
	}
	return nil
}

// start loads the pet and arms a fresh decay ticker, as a session start does.
func (h *Harness) start(ctx context.Context) error {
	h.pet = pet.Load(ctx, h.store,
		pet.WithJournal(h.store, h.session),
		pet.WithLogger(h.logger),
	)

	p := h.pet
	handled := make(chan struct{}, 1)
	tk, err := decay.Start(ctx, decay.DefaultInterval, func(ctx context.Context) {
		p.Decay(ctx)
		select {
		case handled <- struct{}{}:
		case <-ctx.Done():
		}
	}, decay.WithClock(h.clock), decay.WithLogger(h.logger))
	if err != nil {
		return fmt.Errorf("failed to start decay ticker: %w", err)
	}
	h.ticker = tk
	h.handled = handled
	return nil
}

// executeFlow runs each step and checks its expect clause.
func (h *Harness) executeFlow(ctx context.Context, flow []Step, result *Result) error {
	for i, step := range flow {
		events, err := h.executeStep(ctx, i, step)
		if err != nil {
			return fmt.Errorf("flow[%d] %s: %w", i, step.Do, err)
		}
		for _, e := range events {
			result.AddTrace(e)
		}

		if step.Expect != nil && len(events) > 0 {
			last := events[len(events)-1]
			for _, msg := range checkExpect(step.Expect, last) {
				result.AddError(fmt.Sprintf("flow[%d] %s: %s", i, step.Do, msg))
			}
		}
	}
	return nil
}

func (h *Harness) executeStep(ctx context.Context, index int, step Step) ([]TraceEvent, error) {
	event := TraceEvent{Step: index, Action: step.Do}

	switch step.Do {
	case StepFeed:
		h.pet.Feed(ctx)
	case StepPlay:
		h.pet.Play(ctx)
	case StepAdjust:
		event.Delta = *step.Delta
		h.pet.Adjust(ctx, *step.Delta)
	case StepSelect:
		event.Zone = step.Zone
		if _, err := h.pet.SelectName(ctx, step.Zone); err != nil {
			event.Error = err.Error()
		}
	case StepTick:
		return h.tick(index, step.Count)
	case StepReload:
		h.ticker.Stop()
		if err := h.start(ctx); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown step %q", step.Do)
	}

	event.State = h.pet.Snapshot()
	return []TraceEvent{event}, nil
}

// tick advances the clock one interval at a time and waits for the ticker
// to report each decay before advancing again, so none is dropped.
func (h *Harness) tick(index, count int) ([]TraceEvent, error) {
	if count == 0 {
		count = 1
	}

	events := make([]TraceEvent, 0, count)
	for i := 0; i < count; i++ {
		h.clock.Advance(h.ticker.Interval())

		timer := time.NewTimer(tickTimeout)
		select {
		case <-h.handled:
			timer.Stop()
		case <-timer.C:
			return nil, fmt.Errorf("tick %d not handled within %s", i+1, tickTimeout)
		}

		events = append(events, TraceEvent{
			Step:   index,
			Action: StepTick,
			State:  h.pet.Snapshot(),
		})
	}
	return events, nil
}
