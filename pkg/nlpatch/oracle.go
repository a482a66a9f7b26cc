// Package nlpatch implements the natural-language patch engine: turning a
// free-text instruction into pin/adjust edits and dispatching them against
// a schedule (spec §4.5).
package nlpatch

import "context"

// OracleContext is the four textual inputs the engine sends to the LLM
// oracle (spec §6, §9 "LLM oracle as a pluggable collaborator").
type OracleContext struct {
	Instruction       string
	CountsSummary     string
	DayByDayRendering string
	TargetMonth       string
}

// Oracle is any component that, given OracleContext, returns the raw
// pin/adjust JSON array text. The production implementation (an Anthropic-
// backed client) lives outside this module's hard core; this package only
// defines the contract and the tolerant parser in parse.go.
type Oracle interface {
	Propose(ctx context.Context, input OracleContext) (string, error)
}
