package lua

import (
	"strings"
	"testing"

	glua "github.com/yuin/gopher-lua"

	"github.com/orbitalquark/textadept-lua-repl/internal/interp"
)

func run(t *testing.T, i *Interp, src string) []interp.Value {
	t.Helper()
	prog, err := i.CompileExpression(src)
	if err != nil {
		prog, err = i.CompileStatements(src)
	}
	if err != nil {
		t.Fatalf("compile %q: %v", src, err)
	}
	vals, err := prog.Run()
	if err != nil {
		t.Fatalf("run %q: %v", src, err)
	}
	return vals
}

func TestInterp_Expression(t *testing.T) {
	i := New(interp.Options{})
	defer i.Close()

	vals := run(t, i, "1+1")
	if len(vals) == 0 || vals[0].String() != "2" {
		t.Errorf("expected 2, got %v", vals)
	}
}

func TestInterp_PersistentEnvironment(t *testing.T) {
	i := New(interp.Options{})
	defer i.Close()

	run(t, i, "x = 5")
	vals := run(t, i, "x")
	if len(vals) == 0 || vals[0].String() != "5" {
		t.Errorf("expected assignment to persist, got %v", vals)
	}
}

func TestInterp_SandboxShieldsGlobals(t *testing.T) {
	i := New(interp.Options{})
	defer i.Close()

	// Assignments land in the sandbox, not the state globals.
	run(t, i, "shadow = 1")
	if i.state.G.Global.RawGetString("shadow") != glua.LNil {
		t.Error("expected sandbox assignment to stay out of the state globals")
	}
	if _, ok := i.Lookup("shadow"); !ok {
		t.Error("expected sandbox assignment visible through Lookup")
	}
	// Standard globals remain reachable through the fallback chain.
	if _, ok := i.Lookup("string"); !ok {
		t.Error("expected standard globals reachable from the sandbox")
	}
}

func TestInterp_IncompleteConstruct(t *testing.T) {
	i := New(interp.Options{})
	defer i.Close()

	if _, err := i.CompileExpression("for n=1,3 do"); err == nil {
		t.Error("expected expression compile of an open block to fail")
	}
	if _, err := i.CompileStatements("for n=1,3 do"); err == nil {
		t.Error("expected statement compile of an open block to fail")
	}

	// The closed construct compiles as a statement block.
	if _, err := i.CompileStatements("for n=1,3 do end"); err != nil {
		t.Errorf("expected closed block to compile, got %v", err)
	}
}

func TestInterp_RuntimeError(t *testing.T) {
	i := New(interp.Options{})
	defer i.Close()

	prog, err := i.CompileStatements("error('boom')")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := prog.Run(); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected runtime error carrying the message, got %v", err)
	}
}

func TestInterp_PrintRoutedImmediately(t *testing.T) {
	var out strings.Builder
	i := New(interp.Options{Print: &out})
	defer i.Close()

	run(t, i, "print('hello', 42)")
	if out.String() != "hello\t42\n" {
		t.Errorf("expected tab-joined print output, got %q", out.String())
	}
}

func TestInterp_MultipleReturnValues(t *testing.T) {
	i := New(interp.Options{})
	defer i.Close()

	prog, err := i.CompileStatements("return 1, 2, 3")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	vals, err := prog.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(vals) != 3 || vals[0].String() != "1" {
		t.Errorf("expected all return values in order, got %v", vals)
	}
}

func TestInterp_TableValue(t *testing.T) {
	i := New(interp.Options{})
	defer i.Close()

	vals := run(t, i, "{b = 2, a = 1}")
	tbl, ok := vals[0].(interp.Table)
	if !ok {
		t.Fatal("expected a table value")
	}
	keys := tbl.Keys()
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %v", keys)
	}
	if v, ok := tbl.Index("a"); !ok || v.String() != "1" {
		t.Errorf("expected a = 1, got %v", v)
	}
}

func TestInterp_ArrayEntries(t *testing.T) {
	i := New(interp.Options{})
	defer i.Close()

	vals := run(t, i, "{10, 20, 30}")
	tbl, ok := vals[0].(interp.Table)
	if !ok {
		t.Fatal("expected a table value")
	}
	entries := tbl.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %v", entries)
	}
	found := make(map[string]string, len(entries))
	for _, e := range entries {
		found[e.Key] = e.Value.String()
	}
	for key, want := range map[string]string{"[1]": "10", "[2]": "20", "[3]": "30"} {
		if found[key] != want {
			t.Errorf("expected %s = %s, got %q", key, want, found[key])
		}
	}
}

func TestInterp_MixedKeyEntries(t *testing.T) {
	i := New(interp.Options{})
	defer i.Close()

	vals := run(t, i, "{10, a = 1}")
	tbl := vals[0].(interp.Table)
	found := make(map[string]string)
	for _, e := range tbl.Entries() {
		found[e.Key] = e.Value.String()
	}
	if found["[1]"] != "10" || found["a"] != "1" {
		t.Errorf("expected [1] = 10 and a = 1, got %v", found)
	}
	// Keys stays identifier-only for completion.
	if keys := tbl.Keys(); len(keys) != 1 || keys[0] != "a" {
		t.Errorf("expected only the string key, got %v", keys)
	}
}

func TestInterp_CallableDetection(t *testing.T) {
	i := New(interp.Options{})
	defer i.Close()

	v, ok := i.Lookup("tostring")
	if !ok {
		t.Fatal("expected tostring in globals")
	}
	if _, callable := v.(interp.Callable); !callable {
		t.Error("expected tostring to be callable")
	}
}

func TestInterp_GlobalNames(t *testing.T) {
	i := New(interp.Options{})
	defer i.Close()

	names := i.GlobalNames()
	found := make(map[string]bool, len(names))
	for _, name := range names {
		found[name] = true
	}
	for _, want := range []string{"print", "pairs", "string"} {
		if !found[want] {
			t.Errorf("expected %s in global names", want)
		}
	}
}

func TestInterp_BindIdentity(t *testing.T) {
	i := New(interp.Options{})
	defer i.Close()

	bound, err := i.Bind("buffer", map[string]any{})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	vals := run(t, i, "buffer")
	if !interp.Same(vals[0], bound) {
		t.Error("expected the resolved buffer to be the bound object")
	}
	if interp.Same(vals[0], nil) {
		t.Error("expected no identity with nil")
	}
}
