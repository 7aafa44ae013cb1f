package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/bitty/internal/store"
)

// AssertionContext provides what assertions need beyond the result.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s -> happiness=%d zone=%s\n",
				event.Step, event.Action, event.State.Happiness, event.State.Zone)
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var failures []string
	for _, a := range assertions {
		var err error
		switch a.Type {
		case AssertFinalState:
			err = assertFinalState(result, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertStored:
			err = assertStored(actx, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

func assertFinalState(result *Result, a Assertion) error {
	var expected, actual []string
	mismatch := false

	if a.Happiness != nil {
		expected = append(expected, fmt.Sprintf("happiness=%d", *a.Happiness))
		actual = append(actual, fmt.Sprintf("happiness=%d", result.Final.Happiness))
		mismatch = mismatch || *a.Happiness != result.Final.Happiness
	}
	if a.Zone != "" {
		expected = append(expected, "zone="+a.Zone)
		actual = append(actual, "zone="+string(result.Final.Zone))
		mismatch = mismatch || a.Zone != string(result.Final.Zone)
	}

	if !mismatch {
		return nil
	}
	return &AssertionError{
		Type:     AssertFinalState,
		Expected: strings.Join(expected, " "),
		Actual:   strings.Join(actual, " "),
		Trace:    result.Trace,
	}
}

func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, e := range trace {
		if e.Action == a.Action {
			count++
		}
	}
	if count == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceCount,
		Expected: fmt.Sprintf("%s x%d", a.Action, a.Count),
		Actual:   fmt.Sprintf("%s x%d", a.Action, count),
		Trace:    trace,
	}
}

func assertStored(actx *AssertionContext, a Assertion) error {
	if actx == nil || actx.Store == nil {
		return fmt.Errorf("stored assertion requires a store")
	}
	ctx := actx.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	raw, ok, err := actx.Store.Get(ctx, a.Key)
	if err != nil {
		return fmt.Errorf("stored assertion: %w", err)
	}
	actual := "<absent>"
	if ok {
		actual = string(raw)
	}
	if ok && actual == a.Value {
		return nil
	}
	return &AssertionError{
		Type:     AssertStored,
		Expected: fmt.Sprintf("%s=%s", a.Key, a.Value),
		Actual:   fmt.Sprintf("%s=%s", a.Key, actual),
	}
}

// checkExpect compares a step's resulting event with its expect clause.
func checkExpect(exp *StateExpect, e TraceEvent) []string {
	var msgs []string
	if exp.Happiness != nil && *exp.Happiness != e.State.Happiness {
		msgs = append(msgs, fmt.Sprintf("expected happiness %d, got %d", *exp.Happiness, e.State.Happiness))
	}
	if exp.Zone != "" && exp.Zone != string(e.State.Zone) {
		msgs = append(msgs, fmt.Sprintf("expected zone %s, got %s", exp.Zone, e.State.Zone))
	}
	if exp.Error != "" && !strings.Contains(e.Error, exp.Error) {
		msgs = append(msgs, fmt.Sprintf("expected error containing %q, got %q", exp.Error, e.Error))
	}
	return msgs
}
