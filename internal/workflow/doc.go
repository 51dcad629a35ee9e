// Package workflow implements the manuscript review state machine.
//
// A manuscript moves through the pipeline one action at a time. Each action
// is resolved against the transition table for the manuscript's current
// state, gated by the acting person's role, and recorded in an append-only
// history. The table is the single source of truth for what may happen
// when: the same action code can mean different things in different states.
package workflow
