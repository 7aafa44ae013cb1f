package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a pet scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Session is the fixed session ID for journal entries.
	// If empty, defaults to "test-session-default".
	Session string `yaml:"session,omitempty"`

	// Setup maps store keys to raw values written before the pet loads.
	// Values are stored verbatim, so malformed data can be seeded.
	Setup map[string]string `yaml:"setup,omitempty"`

	// Flow is the sequence of steps to execute.
	Flow []Step `yaml:"flow"`

	// Assertions validate the final trace, state, and store.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one action in the flow.
type Step struct {
	// Do is the step type: feed, play, adjust, select, tick, reload.
	Do string `yaml:"do"`

	// Delta is the adjustment for adjust steps.
	Delta *int `yaml:"delta,omitempty"`

	// Zone is the requested zone for select steps.
	Zone string `yaml:"zone,omitempty"`

	// Count repeats tick steps. Zero means one tick.
	Count int `yaml:"count,omitempty"`

	// Expect is checked against the state after the step.
	Expect *StateExpect `yaml:"expect,omitempty"`
}

// StateExpect is a partial expectation on pet state.
// Nil or empty fields are not checked.
type StateExpect struct {
	Happiness *int   `yaml:"happiness,omitempty"`
	Zone      string `yaml:"zone,omitempty"`
	Error     string `yaml:"error,omitempty"`
}

// Assertion validates the outcome of a scenario.
type Assertion struct {
	// Type is one of final_state, trace_count, stored.
	Type string `yaml:"type"`

	// Happiness and Zone are used by final_state.
	Happiness *int   `yaml:"happiness,omitempty"`
	Zone      string `yaml:"zone,omitempty"`

	// Action and Count are used by trace_count.
	Action string `yaml:"action,omitempty"`
	Count  int    `yaml:"count,omitempty"`

	// Key and Value are used by stored.
	Key   string `yaml:"key,omitempty"`
	Value string `yaml:"value,omitempty"`
}

// Step type constants.
const (
	StepFeed   = "feed"
	StepPlay   = "play"
	StepAdjust = "adjust"
	StepSelect = "select"
	StepTick   = "tick"
	StepReload = "reload"
)

// Assertion type constants.
const (
	AssertFinalState = "final_state"
	AssertTraceCount = "trace_count"
	AssertStored     = "stored"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Flow {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateStep validates a single flow step based on its type.
func validateStep(index int, s *Step) error {
	switch s.Do {
	case "":
		return fmt.Errorf("flow[%d]: do is required", index)
	case StepFeed, StepPlay, StepReload:
	case StepAdjust:
		if s.Delta == nil {
			return fmt.Errorf("flow[%d]: delta is required for adjust", index)
		}
	case StepSelect:
		if s.Zone == "" {
			return fmt.Errorf("flow[%d]: zone is required for select", index)
		}
	case StepTick:
		if s.Count < 0 {
			return fmt.Errorf("flow[%d]: count must be non-negative for tick", index)
		}
	default:
		return fmt.Errorf("flow[%d]: unknown step %q", index, s.Do)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertFinalState:
		if a.Happiness == nil && a.Zone == "" {
			return fmt.Errorf("assertions[%d]: happiness or zone is required for final_state", index)
		}
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertStored:
		if a.Key == "" {
			return fmt.Errorf("assertions[%d]: key is required for stored", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
