// Package lua implements the interp.Interpreter surface on top of the
// gopher-lua runtime. This is the default backend: the REPL's
// expression-first evaluation ("return <src>", then the raw source as a
// chunk) and the `.` / `:` completion operators are Lua's native idioms.
package lua

import (
	"fmt"
	"io"
	"strings"

	glua "github.com/yuin/gopher-lua"

	"github.com/orbitalquark/textadept-lua-repl/internal/interp"
)

// Interp is a session-scoped Lua interpreter. Evaluations run inside a
// sandbox environment table whose lookups fall back to the state's
// standard globals, so user assignments land in the sandbox while the
// stock library stays reachable and unmodified.
type Interp struct {
	state *glua.LState
	env   *glua.LTable
	out   io.Writer
}

// New creates a Lua interpreter with the standard libraries opened and a
// fresh sandbox environment.
func New(opts interp.Options) *Interp {
	state := glua.NewState()
	i := &Interp{
		state: state,
		env:   state.NewTable(),
		out:   opts.PrintWriter(),
	}

	mt := state.NewTable()
	state.SetField(mt, "__index", state.G.Global)
	state.SetMetatable(i.env, mt)

	// print writes through to the transcript as it is called, not after
	// the chunk returns.
	i.env.RawSetString("print", state.NewFunction(i.luaPrint))
	return i
}

func (i *Interp) luaPrint(L *glua.LState) int {
	top := L.GetTop()
	parts := make([]string, top)
	for n := 1; n <= top; n++ {
		parts[n-1] = L.ToStringMeta(L.Get(n)).String()
	}
	fmt.Fprintln(i.out, strings.Join(parts, "\t"))
	return 0
}

// CompileExpression compiles src as a single expression by loading it as
// the chunk "return <src>".
func (i *Interp) CompileExpression(src string) (interp.Program, error) {
	return i.load("return " + src)
}

// CompileStatements compiles src as a raw chunk.
func (i *Interp) CompileStatements(src string) (interp.Program, error) {
	return i.load(src)
}

func (i *Interp) load(chunk string) (interp.Program, error) {
	fn, err := i.state.LoadString(chunk)
	if err != nil {
		return nil, err
	}
	i.state.SetFEnv(fn, i.env)
	return &program{interp: i, fn: fn}, nil
}

// Lookup resolves name against the sandbox first, then the state globals.
func (i *Interp) Lookup(name string) (interp.Value, bool) {
	if lv := i.env.RawGetString(name); lv != glua.LNil {
		return wrap(i, lv), true
	}
	if lv := i.state.G.Global.RawGetString(name); lv != glua.LNil {
		return wrap(i, lv), true
	}
	return nil, false
}

// GlobalNames enumerates the string keys of the sandbox and the state
// globals, deduplicated.
func (i *Interp) GlobalNames() []string {
	seen := make(map[string]bool)
	var names []string
	collect := func(tbl *glua.LTable) {
		tbl.ForEach(func(k, _ glua.LValue) {
			if s, ok := k.(glua.LString); ok && !seen[string(s)] {
				seen[string(s)] = true
				names = append(names, string(s))
			}
		})
	}
	collect(i.env)
	collect(i.state.G.Global)
	return names
}

// Bind installs a host value in the sandbox under name.
func (i *Interp) Bind(name string, value any) (interp.Value, error) {
	lv, err := toLua(i.state, value)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", name, err)
	}
	i.env.RawSetString(name, lv)
	return wrap(i, lv), nil
}

// Close releases the underlying Lua state.
func (i *Interp) Close() {
	i.state.Close()
}

// program is a loaded chunk bound to the sandbox environment.
type program struct {
	interp *Interp
	fn     *glua.LFunction
}

// Run executes the chunk under a protected call and returns every value
// the chunk returned.
func (p *program) Run() ([]interp.Value, error) {
	L := p.interp.state
	base := L.GetTop()
	L.Push(p.fn)
	if err := L.PCall(0, glua.MultRet, nil); err != nil {
		L.SetTop(base)
		if apiErr, ok := err.(*glua.ApiError); ok {
			return nil, fmt.Errorf("%s", apiErr.Object.String())
		}
		return nil, err
	}
	top := L.GetTop()
	vals := make([]interp.Value, 0, top-base)
	for n := base + 1; n <= top; n++ {
		vals = append(vals, wrap(p.interp, L.Get(n)))
	}
	L.SetTop(base)
	return vals, nil
}

func toLua(L *glua.LState, v any) (glua.LValue, error) {
	switch x := v.(type) {
	case nil:
		return glua.LNil, nil
	case glua.LValue:
		return x, nil
	case bool:
		return glua.LBool(x), nil
	case string:
		return glua.LString(x), nil
	case int:
		return glua.LNumber(x), nil
	case int64:
		return glua.LNumber(x), nil
	case float64:
		return glua.LNumber(x), nil
	case map[string]any:
		tbl := L.NewTable()
		for k, mv := range x {
			lv, err := toLua(L, mv)
			if err != nil {
				return nil, err
			}
			tbl.RawSetString(k, lv)
		}
		return tbl, nil
	case []any:
		tbl := L.NewTable()
		for n, sv := range x {
			lv, err := toLua(L, sv)
			if err != nil {
				return nil, err
			}
			tbl.RawSetInt(n+1, lv)
		}
		return tbl, nil
	default:
		return nil, fmt.Errorf("unsupported host value type %T", v)
	}
}

// value wraps a Lua value for the engine.
type value struct {
	interp *Interp
	lv     glua.LValue
}

func wrap(i *Interp, lv glua.LValue) interp.Value {
	switch lv.(type) {
	case *glua.LTable:
		return table{value{i, lv}}
	case *glua.LFunction:
		return callable{value{i, lv}}
	default:
		return value{i, lv}
	}
}

func (v value) String() string { return v.lv.String() }

func (v value) Same(other interp.Value) bool {
	o, ok := other.(interface{ luaValue() glua.LValue })
	return ok && v.lv == o.luaValue()
}

func (v value) luaValue() glua.LValue { return v.lv }

type table struct{ value }

func (t table) Keys() []string {
	tbl := t.lv.(*glua.LTable)
	var keys []string
	tbl.ForEach(func(k, _ glua.LValue) {
		if s, ok := k.(glua.LString); ok {
			keys = append(keys, string(s))
		}
	})
	return keys
}

func (t table) Index(key string) (interp.Value, bool) {
	tbl := t.lv.(*glua.LTable)
	lv := tbl.RawGetString(key)
	if lv == glua.LNil {
		return nil, false
	}
	return wrap(t.interp, lv), true
}

// Entries enumerates every entry, string-keyed or not. Non-string keys
// (array indices, booleans) render bracketed.
func (t table) Entries() []interp.Entry {
	tbl := t.lv.(*glua.LTable)
	var entries []interp.Entry
	tbl.ForEach(func(k, v glua.LValue) {
		key := k.String()
		if _, isString := k.(glua.LString); !isString {
			key = "[" + key + "]"
		}
		entries = append(entries, interp.Entry{Key: key, Value: wrap(t.interp, v)})
	})
	return entries
}

type callable struct{ value }

func (callable) Callable() {}
