// Package interp defines the pluggable interpreter surface the REPL engine
// evaluates against. A backend wraps a scripting runtime (Lua, JavaScript,
// Tengo) behind a small set of interfaces: compile source text as an
// expression or a statement block, run the compiled unit under a protected
// call, and expose the sandbox's global bindings for lookup and completion.
//
// One Interpreter instance backs one REPL session. The sandbox is mutable
// and persists across runs, so variables a user defines remain visible in
// later evaluations. Lookup falls back from the sandbox to the runtime's
// host-level globals, forming a two-level chain.
package interp

import "io"

// Value is a single runtime value produced by an evaluation.
type Value interface {
	// String returns the value's canonical display form.
	String() string
	// Same reports whether other refers to the same underlying runtime
	// value. Used for identity checks against host-bound objects.
	Same(other Value) bool
}

// Entry is one table entry. Key holds the key's rendered display form:
// string keys render as themselves, any other key kind renders bracketed
// ("[1]", "[true]").
type Entry struct {
	Key   string
	Value Value
}

// Table is an associative Value whose entries can be enumerated.
type Table interface {
	Value
	// Keys returns the table's own string keys in unspecified order.
	// Non-string keys are omitted; completion only offers identifiers.
	Keys() []string
	// Index returns the value stored under the string key.
	Index(key string) (Value, bool)
	// Entries returns every entry with its key rendered, in unspecified
	// order.
	Entries() []Entry
}

// Callable marks a Value that can be invoked.
type Callable interface {
	Value
	Callable()
}

// Program is a compiled unit ready for protected execution.
type Program interface {
	// Run executes the program in the interpreter's sandbox. Runtime
	// failures are returned as err; on success the program's result
	// values are returned in order.
	Run() ([]Value, error)
}

// Interpreter executes source text in a sandboxed environment chained to
// the runtime's host-level globals.
type Interpreter interface {
	// CompileExpression compiles src as a single expression whose value
	// Run returns.
	CompileExpression(src string) (Program, error)

	// CompileStatements compiles src as a statement block.
	CompileStatements(src string) (Program, error)

	// Lookup resolves name against the sandbox first, then the host-level
	// globals.
	Lookup(name string) (Value, bool)

	// GlobalNames enumerates the identifiers visible at the root scope,
	// sandbox and host levels combined, deduplicated and unsorted.
	GlobalNames() []string

	// Bind installs a host value under name in the sandbox and returns
	// its runtime representation.
	Bind(name string, value any) (Value, error)

	// Close releases the interpreter's resources.
	Close()
}

// Options configures a backend at construction time.
type Options struct {
	// Print receives output produced by the sandbox's print function as
	// soon as it is emitted. Defaults to io.Discard.
	Print io.Writer
}

// PrintWriter returns the configured print sink, defaulting to io.Discard.
func (o Options) PrintWriter() io.Writer {
	if o.Print == nil {
		return io.Discard
	}
	return o.Print
}

// Same reports whether two values refer to the same underlying runtime
// value. Either side may be nil.
func Same(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Same(b)
}
