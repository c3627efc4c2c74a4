// Package tengovm implements the interp.Interpreter surface on top of the
// Tengo scripting language. Tengo compiles a fresh script per run, so the
// sandbox is emulated: persisted variables are re-bound before each run
// and extracted again afterwards.
package tengovm

import (
	"fmt"
	"io"
	"strings"

	"github.com/d5/tengo/v2"

	"github.com/orbitalquark/textadept-lua-repl/internal/interp"
)

// resultVar receives the value of an expression-form compile.
const resultVar = "__repl__"

// Interp is a session-scoped Tengo interpreter.
type Interp struct {
	vars  map[string]tengo.Object
	hosts map[string]tengo.Object
	out   io.Writer
}

// New creates a Tengo interpreter with an empty variable set.
func New(opts interp.Options) *Interp {
	return &Interp{
		vars:  make(map[string]tengo.Object),
		hosts: make(map[string]tengo.Object),
		out:   opts.PrintWriter(),
	}
}

// CompileExpression compiles src as a single expression by assigning it
// to a reserved result variable.
func (i *Interp) CompileExpression(src string) (interp.Program, error) {
	return i.compile(resultVar+" := ("+src+")", true)
}

// CompileStatements compiles src as a statement block.
func (i *Interp) CompileStatements(src string) (interp.Program, error) {
	return i.compile(src, false)
}

func (i *Interp) compile(code string, expression bool) (interp.Program, error) {
	script := tengo.NewScript([]byte(code))

	_ = script.Add("print", &tengo.UserFunction{
		Name: "print",
		Value: func(args ...tengo.Object) (tengo.Object, error) {
			parts := make([]string, len(args))
			for n, arg := range args {
				parts[n] = objectString(arg)
			}
			fmt.Fprintln(i.out, strings.Join(parts, " "))
			return tengo.UndefinedValue, nil
		},
	})
	for name, obj := range i.hosts {
		if err := script.Add(name, obj); err != nil {
			return nil, fmt.Errorf("rebind %s: %w", name, err)
		}
	}
	for name, obj := range i.vars {
		if err := script.Add(name, obj); err != nil {
			// Some object kinds cannot cross script boundaries; drop them
			// rather than failing the whole compile.
			continue
		}
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	return &program{interp: i, compiled: compiled, expression: expression}, nil
}

// Lookup resolves name against the persisted variables, then the host
// bindings.
func (i *Interp) Lookup(name string) (interp.Value, bool) {
	if obj, ok := i.vars[name]; ok {
		return wrap(obj), true
	}
	if obj, ok := i.hosts[name]; ok {
		return wrap(obj), true
	}
	return nil, false
}

// GlobalNames enumerates persisted variables and host bindings.
func (i *Interp) GlobalNames() []string {
	names := make([]string, 0, len(i.vars)+len(i.hosts)+1)
	for name := range i.vars {
		names = append(names, name)
	}
	for name := range i.hosts {
		if _, dup := i.vars[name]; !dup {
			names = append(names, name)
		}
	}
	names = append(names, "print")
	return names
}

// Bind installs a host value under name.
func (i *Interp) Bind(name string, value any) (interp.Value, error) {
	obj, err := tengo.FromInterface(value)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", name, err)
	}
	i.hosts[name] = obj
	return wrap(obj), nil
}

// Close is a no-op; Tengo holds no external resources.
func (i *Interp) Close() {}

type program struct {
	interp     *Interp
	compiled   *tengo.Compiled
	expression bool
}

// Run executes the script and persists its variables back into the
// session. For expression-form programs the reserved result variable's
// value is returned.
func (p *program) Run() ([]interp.Value, error) {
	if err := p.compiled.Run(); err != nil {
		return nil, err
	}

	var result tengo.Object = tengo.UndefinedValue
	for _, v := range p.compiled.GetAll() {
		name := v.Name()
		if name == resultVar {
			result = v.Object()
			continue
		}
		if name == "print" {
			continue
		}
		if _, host := p.interp.hosts[name]; host {
			continue
		}
		p.interp.vars[name] = v.Object()
	}

	if !p.expression || result == tengo.UndefinedValue {
		return nil, nil
	}
	return []interp.Value{wrap(result)}, nil
}

func objectString(obj tengo.Object) string {
	if s, ok := obj.(*tengo.String); ok {
		return s.Value
	}
	return obj.String()
}

type value struct {
	obj tengo.Object
}

func wrap(obj tengo.Object) interp.Value {
	switch obj.(type) {
	case *tengo.Map, *tengo.ImmutableMap, *tengo.Array, *tengo.ImmutableArray:
		return table{value{obj}}
	default:
		if obj.CanCall() {
			return callable{value{obj}}
		}
		return value{obj}
	}
}

func (v value) String() string { return objectString(v.obj) }

func (v value) Same(other interp.Value) bool {
	o, ok := other.(interface{ tengoObject() tengo.Object })
	return ok && v.obj == o.tengoObject()
}

func (v value) tengoObject() tengo.Object { return v.obj }

type table struct{ value }

func (t table) mapValue() map[string]tengo.Object {
	switch m := t.obj.(type) {
	case *tengo.Map:
		return m.Value
	case *tengo.ImmutableMap:
		return m.Value
	}
	return nil
}

func (t table) arrayValue() []tengo.Object {
	switch a := t.obj.(type) {
	case *tengo.Array:
		return a.Value
	case *tengo.ImmutableArray:
		return a.Value
	}
	return nil
}

func (t table) Keys() []string {
	m := t.mapValue()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func (t table) Index(key string) (interp.Value, bool) {
	obj, ok := t.mapValue()[key]
	if !ok {
		return nil, false
	}
	return wrap(obj), true
}

// Entries enumerates map entries by key and array items by bracketed
// index.
func (t table) Entries() []interp.Entry {
	if items := t.arrayValue(); items != nil {
		entries := make([]interp.Entry, len(items))
		for n, obj := range items {
			entries[n] = interp.Entry{Key: fmt.Sprintf("[%d]", n), Value: wrap(obj)}
		}
		return entries
	}
	m := t.mapValue()
	entries := make([]interp.Entry, 0, len(m))
	for k, obj := range m {
		entries = append(entries, interp.Entry{Key: k, Value: wrap(obj)})
	}
	return entries
}

type callable struct{ value }

func (callable) Callable() {}
