// Package harness runs scripted calculator sessions as conformance tests.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	stack: work            # optional, default "default"
//	memory_slots: 3        # optional, default 10
//	rolls: [0, 5, 2]       # optional random draws, replayed in order
//	setup:
//	  primary: [1, 2]      # push order, last value on top
//	  secondary: []
//	steps:
//	  - input: "3+"
//	  - input: "u"
//	    error: UNDO_HISTORY_EXHAUSTED
//	expect:
//	  primary: [1, 5]
//	  report:
//	    - "Slot #0: empty"
//
// Unknown fields are rejected. A step without error must succeed; a step
// with error must fail with exactly that code.
//
// # Determinism
//
// Every scenario runs against a real engine over a fresh in-memory SQLite
// store, with the random source replaying the scenario's rolls. The
// transcript is therefore identical across runs and suitable for golden
// file comparison with RunWithGolden.
//
// After the last step the engine is closed and the stored record is read
// back, so every scenario also exercises persistence.
package harness
