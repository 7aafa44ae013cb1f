// Package harness runs pet scenarios as executable contract tests.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	session: fixed-session-id        # optional
//	setup:                           # raw stored values, written before load
//	  happiness: "9"
//	  zone: '"ocean"'
//	flow:
//	  - do: feed
//	  - do: adjust
//	    delta: -3
//	  - do: select
//	    zone: forest
//	  - do: tick
//	    count: 2
//	  - do: reload
//	    expect:
//	      happiness: 3
//	      zone: forest
//	assertions:
//	  - type: final_state
//	    happiness: 3
//	    zone: forest
//	  - type: trace_count
//	    action: tick
//	    count: 2
//	  - type: stored
//	    key: happiness
//	    value: "3"
//
// # Step Types
//
//   - feed, play: raise happiness by one
//   - adjust: add delta (required) with clamping
//   - select: choose zone (required); unknown zones are recorded as an error
//   - tick: advance the decay clock one interval, count times (default 1)
//   - reload: stop the ticker, load a fresh pet from the same store, and
//     start a new ticker, as a page reload would
//
// # Assertion Types
//
//   - final_state: happiness and/or zone after the flow
//   - trace_count: an action appears exactly N times in the trace
//   - stored: the raw bytes stored under key
//
// # Deterministic Testing
//
// Each scenario runs against a fresh in-memory SQLite database with a
// manual decay clock and a fixed session ID, so traces are reproducible and
// can be compared against golden files.
package harness
