package repl

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/orbitalquark/textadept-lua-repl/internal/interp"
)

// fakeValue is a scripted interp.Value for engine tests.
type fakeValue struct {
	str string
}

func (v fakeValue) String() string { return v.str }

func (v fakeValue) Same(other interp.Value) bool {
	switch o := other.(type) {
	case fakeValue:
		return o.str == v.str
	case fakeTable:
		return o.str == v.str
	case fakeCallable:
		return o.str == v.str
	}
	return false
}

type fakeTable struct {
	fakeValue
	entries map[string]interp.Value
	order   []string
}

// Same on tables is identity (the shared entries map), so one table can
// hold another with equal display text without the two aliasing.
func (t fakeTable) Same(other interp.Value) bool {
	o, ok := other.(fakeTable)
	return ok && reflect.ValueOf(t.entries).Pointer() == reflect.ValueOf(o.entries).Pointer()
}

func (t fakeTable) Keys() []string { return t.order }

func (t fakeTable) Index(key string) (interp.Value, bool) {
	v, ok := t.entries[key]
	return v, ok
}

func (t fakeTable) Entries() []interp.Entry {
	entries := make([]interp.Entry, 0, len(t.order))
	for _, k := range t.order {
		entries = append(entries, interp.Entry{Key: k, Value: t.entries[k]})
	}
	return entries
}

func newFakeTable(entries map[string]interp.Value) fakeTable {
	var order []string
	for k := range entries {
		order = append(order, k)
	}
	return fakeTable{fakeValue: fakeValue{str: "table"}, entries: entries, order: order}
}

type fakeCallable struct {
	fakeValue
}

func (fakeCallable) Callable() {}

// progFn is one scripted program execution.
type progFn func() ([]interp.Value, error)

type fakeProgram struct {
	fn progFn
}

func (p fakeProgram) Run() ([]interp.Value, error) { return p.fn() }

// fakeInterp is a scripted interpreter: tests register the source texts
// that compile as expressions or statements and what running them yields.
type fakeInterp struct {
	exprs   map[string]progFn
	stmts   map[string]progFn
	globals map[string]interp.Value
	closed  bool
}

func newFakeInterp() *fakeInterp {
	return &fakeInterp{
		exprs:   make(map[string]progFn),
		stmts:   make(map[string]progFn),
		globals: make(map[string]interp.Value),
	}
}

func (f *fakeInterp) CompileExpression(src string) (interp.Program, error) {
	if fn, ok := f.exprs[src]; ok {
		return fakeProgram{fn}, nil
	}
	return nil, fmt.Errorf("unexpected symbol near %q", src)
}

func (f *fakeInterp) CompileStatements(src string) (interp.Program, error) {
	if fn, ok := f.stmts[src]; ok {
		return fakeProgram{fn}, nil
	}
	return nil, fmt.Errorf("%q expected near <eof>", src)
}

func (f *fakeInterp) Lookup(name string) (interp.Value, bool) {
	v, ok := f.globals[name]
	return v, ok
}

func (f *fakeInterp) GlobalNames() []string {
	var names []string
	for name := range f.globals {
		names = append(names, name)
	}
	return names
}

func (f *fakeInterp) Bind(name string, value any) (interp.Value, error) {
	v := fakeValue{str: fmt.Sprintf("bound:%s", name)}
	f.globals[name] = v
	return v, nil
}

func (f *fakeInterp) Close() { f.closed = true }

// value registers src as an expression yielding a plain value.
func (f *fakeInterp) value(src string, v interp.Value) {
	f.exprs[src] = func() ([]interp.Value, error) { return []interp.Value{v}, nil }
}

// global registers a resolvable symbol path and root-scope name.
func (f *fakeInterp) global(name string, v interp.Value) {
	f.globals[name] = v
	f.value(name, v)
}

// fakeHost records transcript mutations for assertions.
type fakeHost struct {
	line       string
	selection  string
	transcript strings.Builder
	deleted    int
	listActive bool
	shown      []string
	shownLen   int
	movedTo    int
}

func (h *fakeHost) CurrentLineText() string { return h.line }

func (h *fakeHost) SelectionRange() (int, int) { return 0, len(h.selection) }

func (h *fakeHost) TextInRange(start, end int) string { return h.selection[start:end] }

func (h *fakeHost) InsertText(text string) {
	h.transcript.WriteString(text)
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		h.line = text[i+1:]
	} else {
		h.line += text
	}
}

func (h *fakeHost) InsertNewline() {
	h.transcript.WriteString("\n")
	h.line = ""
}

func (h *fakeHost) DeleteCurrentLine() {
	h.deleted++
	h.line = ""
}

func (h *fakeHost) DeleteCharBeforeCursor() {
	if h.line != "" {
		h.line = h.line[:len(h.line)-1]
	}
}

func (h *fakeHost) MoveCursorToLineEnd(line int) { h.movedTo = line }

func (h *fakeHost) ShowCompletionList(prefixLen int, candidates []string) {
	h.shown = candidates
	h.shownLen = prefixLen
}

func (h *fakeHost) IsCompletionListActive() bool { return h.listActive }
