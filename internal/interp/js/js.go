// Package js implements the interp.Interpreter surface on top of the goja
// JavaScript runtime. The sandbox is a dedicated runtime per session; the
// expression-first compile wraps the source in parentheses so object
// literals and assignments evaluate as expressions.
package js

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dop251/goja"

	"github.com/orbitalquark/textadept-lua-repl/internal/interp"
)

// Interp is a session-scoped JavaScript interpreter.
type Interp struct {
	vm    *goja.Runtime
	out   io.Writer
	bound []string
}

// New creates a JavaScript interpreter with print and console.log routed
// to the configured print sink.
func New(opts interp.Options) (*Interp, error) {
	i := &Interp{
		vm:  goja.New(),
		out: opts.PrintWriter(),
	}

	printFunc := func(call goja.FunctionCall) goja.Value {
		args := make([]string, len(call.Arguments))
		for n, arg := range call.Arguments {
			args[n] = arg.String()
		}
		fmt.Fprintln(i.out, strings.Join(args, " "))
		return goja.Undefined()
	}
	if err := i.vm.Set("print", printFunc); err != nil {
		return nil, fmt.Errorf("failed to set print: %w", err)
	}
	console := i.vm.NewObject()
	if err := console.Set("log", printFunc); err != nil {
		return nil, fmt.Errorf("failed to set console.log: %w", err)
	}
	if err := i.vm.Set("console", console); err != nil {
		return nil, fmt.Errorf("failed to set console: %w", err)
	}
	i.bound = append(i.bound, "print", "console")
	return i, nil
}

// CompileExpression compiles src as a parenthesized expression.
func (i *Interp) CompileExpression(src string) (interp.Program, error) {
	prog, err := goja.Compile("repl", "("+src+")", false)
	if err != nil {
		return nil, err
	}
	return &program{interp: i, prog: prog}, nil
}

// CompileStatements compiles src as a statement block.
func (i *Interp) CompileStatements(src string) (interp.Program, error) {
	prog, err := goja.Compile("repl", src, false)
	if err != nil {
		return nil, err
	}
	return &program{interp: i, prog: prog}, nil
}

// Lookup resolves name in the runtime's global scope.
func (i *Interp) Lookup(name string) (interp.Value, bool) {
	v := i.vm.Get(name)
	if v == nil || goja.IsUndefined(v) {
		return nil, false
	}
	return wrap(v), true
}

// GlobalNames enumerates the enumerable global properties plus the names
// bound at construction. Non-enumerable built-ins (Math, JSON, ...) are
// not reported; goja does not expose them through Keys.
func (i *Interp) GlobalNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, name := range append(i.vm.GlobalObject().Keys(), i.bound...) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// Bind installs a host value in the global scope under name.
func (i *Interp) Bind(name string, value any) (interp.Value, error) {
	if err := i.vm.Set(name, value); err != nil {
		return nil, fmt.Errorf("bind %s: %w", name, err)
	}
	i.bound = append(i.bound, name)
	v := i.vm.Get(name)
	if v == nil {
		return nil, fmt.Errorf("bind %s: value not retrievable", name)
	}
	return wrap(v), nil
}

// Close is a no-op; goja runtimes hold no external resources.
func (i *Interp) Close() {}

type program struct {
	interp *Interp
	prog   *goja.Program
}

// Run executes the compiled program. Undefined and null results yield no
// values; thrown JavaScript errors surface as Go errors carrying the
// thrown value's string form.
func (p *program) Run() ([]interp.Value, error) {
	v, err := p.interp.vm.RunProgram(p.prog)
	if err != nil {
		if ex, ok := err.(*goja.Exception); ok {
			return nil, fmt.Errorf("%s", ex.Value().String())
		}
		return nil, err
	}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}
	return []interp.Value{wrap(v)}, nil
}

type value struct {
	v goja.Value
}

func wrap(v goja.Value) interp.Value {
	if _, ok := goja.AssertFunction(v); ok {
		return callable{value{v}}
	}
	if obj, ok := v.(*goja.Object); ok {
		return table{value{v}, obj}
	}
	return value{v}
}

func (v value) String() string { return v.v.String() }

func (v value) Same(other interp.Value) bool {
	o, ok := other.(interface{ jsValue() goja.Value })
	return ok && v.v.StrictEquals(o.jsValue())
}

func (v value) jsValue() goja.Value { return v.v }

type table struct {
	value
	obj *goja.Object
}

func (t table) Keys() []string { return t.obj.Keys() }

func (t table) Index(key string) (interp.Value, bool) {
	v := t.obj.Get(key)
	if v == nil || goja.IsUndefined(v) {
		return nil, false
	}
	return wrap(v), true
}

// Entries enumerates the object's own enumerable properties. Array
// indices (all-digit property names) render bracketed.
func (t table) Entries() []interp.Entry {
	keys := t.obj.Keys()
	entries := make([]interp.Entry, 0, len(keys))
	for _, k := range keys {
		v := t.obj.Get(k)
		if v == nil {
			continue
		}
		key := k
		if _, err := strconv.Atoi(k); err == nil {
			key = "[" + k + "]"
		}
		entries = append(entries, interp.Entry{Key: key, Value: wrap(v)})
	}
	return entries
}

type callable struct{ value }

func (callable) Callable() {}
