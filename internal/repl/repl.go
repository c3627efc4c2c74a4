// Package repl implements the editor-embedded read-eval-print loop engine:
// expression-first evaluation with continuation-line detection, inline
// result formatting, a multi-line aware command history, and symbol
// completion against the sandbox environment. The host editor stays behind
// the Host interface; the scripting runtime stays behind
// interp.Interpreter.
package repl

import "github.com/orbitalquark/textadept-lua-repl/internal/interp"

// OutcomeKind classifies the result of one evaluation attempt.
type OutcomeKind int

const (
	// OutcomeNoValue means the snippet ran to completion without
	// returning a value.
	OutcomeNoValue OutcomeKind = iota

	// OutcomeValue means the snippet returned at least one value; only
	// the first is kept.
	OutcomeValue

	// OutcomeIncomplete means the snippet does not compile on its own and
	// more input is needed (a continuation line).
	OutcomeIncomplete

	// OutcomeError means the snippet raised an error while compiling a
	// committed multi-line selection or while executing.
	OutcomeError
)

// Outcome is the tagged result of one evaluation attempt. It is produced
// fresh per attempt and never stored.
type Outcome struct {
	Kind  OutcomeKind
	Value interp.Value
	Err   error
}
