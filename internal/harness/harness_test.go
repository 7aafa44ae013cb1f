package harness

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bitty/internal/pet"
	"github.com/roach88/bitty/internal/store"
	"github.com/roach88/bitty/internal/testutil"
)

func intPtr(v int) *int { return &v }

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestRun_Scenarios(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			s, err := LoadScenario(file)
			require.NoError(t, err)

			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_TickEmitsOneEventPerTick(t *testing.T) {
	result, err := Run(loadTestScenario(t, "tick_clamped"))
	require.NoError(t, err)

	zero := TraceEvent{Step: 0, Action: StepTick, State: pet.Snapshot{Happiness: 0, Zone: pet.Desert}}
	want := []TraceEvent{zero, zero, zero}
	if diff := cmp.Diff(want, result.Trace); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_UnknownZoneRecordsError(t *testing.T) {
	result, err := Run(loadTestScenario(t, "unknown_zone"))
	require.NoError(t, err)

	require.Len(t, result.Trace, 1)
	assert.Contains(t, result.Trace[0].Error, "unknown zone")
	assert.Equal(t, pet.Forest, result.Final.Zone)
}

func TestRun_FailedExpectationIsReported(t *testing.T) {
	s := &Scenario{
		Name:        "wrong_expectation",
		Description: "Feed never lowers happiness",
		Flow: []Step{
			{Do: StepFeed, Expect: &StateExpect{Happiness: intPtr(4)}},
		},
		Assertions: []Assertion{
			{Type: AssertFinalState, Happiness: intPtr(6)},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected happiness 4, got 6")
}

func TestRun_FailedAssertionsAreReported(t *testing.T) {
	s := &Scenario{
		Name:        "wrong_assertions",
		Description: "Every assertion misses",
		Flow:        []Step{{Do: StepPlay}},
		Assertions: []Assertion{
			{Type: AssertFinalState, Zone: "ocean"},
			{Type: AssertTraceCount, Action: StepFeed, Count: 1},
			{Type: AssertStored, Key: "zone", Value: `"ocean"`},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "zone=desert")
	assert.Contains(t, result.Errors[1], "feed x0")
	assert.Contains(t, result.Errors[2], "zone=<absent>")
}

func TestRun_IsolatedStores(t *testing.T) {
	s := loadTestScenario(t, "feed_three_times")

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	if diff := cmp.Diff(first.Trace, second.Trace); diff != "" {
		t.Errorf("trace differs between runs (-first +second):\n%s", diff)
	}
	assert.Equal(t, first.Final, second.Final)
	assert.Equal(t, 8, second.Final.Happiness)
}

func TestRun_ReloadKeepsPersistedState(t *testing.T) {
	s := &Scenario{
		Name:        "reload_after_adjust",
		Description: "Adjusted happiness survives a reload",
		Setup:       map[string]string{"happiness": "42"},
		Flow: []Step{
			{Do: StepReload, Expect: &StateExpect{Happiness: intPtr(pet.MaxHappiness)}},
			{Do: StepAdjust, Delta: intPtr(-7)},
			{Do: StepReload, Expect: &StateExpect{Happiness: intPtr(3)}},
		},
		Assertions: []Assertion{
			{Type: AssertStored, Key: "happiness", Value: "3"},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestAssertionError_IncludesTrace(t *testing.T) {
	err := &AssertionError{
		Type:     AssertFinalState,
		Expected: "happiness=6",
		Actual:   "happiness=5",
		Trace: []TraceEvent{
			{Step: 0, Action: StepFeed, State: pet.Snapshot{Happiness: 5, Zone: pet.Desert}},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: final_state")
	assert.Contains(t, msg, "Expected: happiness=6")
	assert.Contains(t, msg, "[0] feed -> happiness=5 zone=desert")
}

func TestTick_WaitsForEachDecay(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	defer st.Close()

	h := &Harness{
		store:   st,
		clock:   testutil.NewManualClock(),
		session: "tick-session",
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	ctx := context.Background()
	require.NoError(t, h.start(ctx))
	defer func() { h.ticker.Stop() }()

	events, err := h.tick(0, 3)
	require.NoError(t, err)

	got := make([]int, 0, len(events))
	for _, e := range events {
		got = append(got, e.State.Happiness)
	}
	assert.Equal(t, []int{4, 3, 2}, got)
	assert.Empty(t, h.handled, "every decay signal is consumed")

	h.ticker.Stop()
	assert.EqualValues(t, 3, h.ticker.Ticks())
	require.NoError(t, h.start(ctx))

	events, err = h.tick(0, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 0, events[1].State.Happiness)

	h.ticker.Stop()
	assert.EqualValues(t, 2, h.ticker.Ticks())
}
