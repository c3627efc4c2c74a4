package repl

import "github.com/orbitalquark/textadept-lua-repl/internal/interp"

// Evaluator turns a candidate snippet of source text into an Outcome. It
// tries the snippet as an expression first, so bare expressions display
// their value the way an interactive prompt does, then falls back to a
// statement block for assignments and control structures.
type Evaluator struct {
	interp interp.Interpreter
}

// NewEvaluator creates an Evaluator over the given interpreter.
func NewEvaluator(in interp.Interpreter) *Evaluator {
	return &Evaluator{interp: in}
}

// Evaluate compiles and runs src. multiline reports whether the source
// came from an explicit multi-line selection: compile failures on a
// single uncommitted line classify as Incomplete so the caller treats the
// triggering key as a plain newline, while compile failures on a
// selection surface as errors.
func (e *Evaluator) Evaluate(src string, multiline bool) Outcome {
	prog, out, ok := e.compile(src, multiline)
	if !ok {
		return out
	}
	return run(prog)
}

// compile classifies src without running it. ok is false when the
// returned Outcome is final (Incomplete or a selection compile error).
func (e *Evaluator) compile(src string, multiline bool) (interp.Program, Outcome, bool) {
	prog, err := e.interp.CompileExpression(src)
	if err == nil {
		return prog, Outcome{}, true
	}
	prog, err = e.interp.CompileStatements(src)
	if err == nil {
		return prog, Outcome{}, true
	}
	if !multiline {
		return nil, Outcome{Kind: OutcomeIncomplete}, false
	}
	return nil, Outcome{Kind: OutcomeError, Err: err}, false
}

// run executes a compiled program under a protected call and classifies
// the result. Only the first returned value is kept.
func run(prog interp.Program) Outcome {
	vals, err := prog.Run()
	if err != nil {
		return Outcome{Kind: OutcomeError, Err: err}
	}
	if len(vals) == 0 || vals[0] == nil {
		return Outcome{Kind: OutcomeNoValue}
	}
	return Outcome{Kind: OutcomeValue, Value: vals[0]}
}
