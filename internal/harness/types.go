package harness

import "github.com/roach88/bitty/internal/pet"

// TraceEvent records one executed step and the state it left behind.
type TraceEvent struct {
	Step   int          `json:"step"`
	Action string       `json:"action"`
	Delta  int          `json:"delta,omitempty"`
	Zone   string       `json:"zone,omitempty"`
	Error  string       `json:"error,omitempty"`
	State  pet.Snapshot `json:"state"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every expect and assertion matched.
	Pass bool `json:"pass"`

	// Trace contains one event per executed step (per tick for tick steps).
	Trace []TraceEvent `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is the pet state after the flow.
	Final pet.Snapshot `json:"final"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a trace event.
func (r *Result) AddTrace(e TraceEvent) {
	r.Trace = append(r.Trace, e)
}
