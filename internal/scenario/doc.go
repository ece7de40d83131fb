// Package scenario replays scripted intents through the engine and checks
// the resulting state.
//
// Scenarios are YAML files. Each is validated against an embedded CUE
// schema before it is decoded, so typos and out-of-range values fail at
// load time rather than mid-run.
//
// Example:
//
//	name: complete-by-short-id
//	steps:
//	  - create: {content: "Buy milk", category: todo}
//	  - submit: {transcript: "milk is done"}
//	  - apply:
//	      - complete: {ref: 1, reason: "bought"}
//	expect:
//	  rev: 4
//	  entries:
//	    - entry: 1
//	      status: completed
//
// Entries are named by creation ordinal. Run gives the n-th created entry
// the id OrdinalID(n), and a result's ref is sent as that id's short form,
// which is how the reasoning service addresses entries.
package scenario
