package repl

import (
	"sort"
	"strings"

	"github.com/orbitalquark/textadept-lua-repl/internal/interp"
)

// HostObject describes the host's primary editing-surface object. Its
// real shape is defined natively by the editor and cannot be
// introspected through the sandbox, so the host declares its method and
// property names up front and the engine queries those sets instead.
type HostObject struct {
	// Value is the object's binding in the sandbox, used for identity
	// checks when a symbol path resolves to it.
	Value interp.Value

	// Methods are the names offered after the method-call operator.
	Methods []string

	// Properties are the names offered after member access (or with no
	// operator at all).
	Properties []string
}

// Completer resolves dotted/colon symbol paths against the sandbox and
// returns sorted candidate lists for a partial identifier.
type Completer struct {
	interp interp.Interpreter
	host   *HostObject
}

// NewCompleter creates a Completer. host may be nil when no native
// editing-surface object is bound.
func NewCompleter(in interp.Interpreter, host *HostObject) *Completer {
	return &Completer{interp: in, host: host}
}

// Complete parses the trailing "symbolPath (. | :)? partial" pattern from
// line (the text before the cursor) and returns the sorted candidates
// whose names start with the partial identifier, along with the
// partial's length so the host can anchor the list. A symbol path that
// fails to resolve, or resolves to a non-associative value, silently
// yields no candidates.
func (c *Completer) Complete(line string) (candidates []string, prefixLen int) {
	path, op, partial := parseTarget(line)

	var names []string
	switch {
	case path == "":
		names = c.interp.GlobalNames()
	default:
		v, ok := c.resolve(path)
		if !ok {
			return nil, len(partial)
		}
		if c.host != nil && interp.Same(v, c.host.Value) {
			if op == ':' {
				names = c.host.Methods
			} else {
				names = c.host.Properties
			}
			break
		}
		t, isTable := v.(interp.Table)
		if !isTable {
			return nil, len(partial)
		}
		for _, key := range t.Keys() {
			if op == ':' {
				val, found := t.Index(key)
				if !found {
					continue
				}
				if _, callable := val.(interp.Callable); !callable {
					continue
				}
			}
			names = append(names, key)
		}
	}

	seen := make(map[string]bool)
	for _, name := range names {
		if strings.HasPrefix(name, partial) && !seen[name] {
			seen[name] = true
			candidates = append(candidates, name)
		}
	}
	sort.Strings(candidates)
	return candidates, len(partial)
}

// resolve evaluates a symbol path as an expression against the sandbox.
func (c *Completer) resolve(path string) (interp.Value, bool) {
	prog, err := c.interp.CompileExpression(path)
	if err != nil {
		return nil, false
	}
	vals, err := prog.Run()
	if err != nil || len(vals) == 0 || vals[0] == nil {
		return nil, false
	}
	return vals[0], true
}

// parseTarget extracts the trailing symbol path, access operator and
// partial identifier from the text before the cursor. op is zero when no
// operator is present.
func parseTarget(line string) (path string, op byte, partial string) {
	i := len(line)
	for i > 0 && isIdentChar(line[i-1]) {
		i--
	}
	partial = line[i:]
	if i > 0 && (line[i-1] == '.' || line[i-1] == ':') {
		op = line[i-1]
		j := i - 1
		for j > 0 && (isIdentChar(line[j-1]) || line[j-1] == '.' || line[j-1] == ':') {
			j--
		}
		path = line[j : i-1]
	}
	return path, op, partial
}

func isIdentChar(ch byte) bool {
	return ch == '_' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}
