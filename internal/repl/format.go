package repl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/orbitalquark/textadept-lua-repl/internal/interp"
)

// Marker prefixes every transcript line produced by the formatter, so
// results stay visually distinguished from evaluated input.
const Marker = "--> "

// Formatter renders evaluation outcomes into deterministic, width-aware,
// marker-prefixed text blocks for insertion into the transcript.
type Formatter struct {
	// MaxWidth is the single-line width above which associative values
	// re-render one entry per line. Zero disables the check.
	MaxWidth int

	// Indent is the number of spaces prefixing each entry line in the
	// multi-line form.
	Indent int
}

// Format renders an outcome. ok is false when nothing should be appended
// to the transcript (no value or incomplete input). Errors render through
// the same prefixing path as values.
func (f Formatter) Format(o Outcome) (text string, ok bool) {
	switch o.Kind {
	case OutcomeNoValue, OutcomeIncomplete:
		return "", false
	case OutcomeError:
		return prefixLines(o.Err.Error()), true
	}
	return prefixLines(f.render(o.Value)), true
}

// render produces the unprefixed text form of a value. Associative values
// render as "{key = value, ...}" with entries sorted by key; when the
// single-line form exceeds MaxWidth it re-renders one entry per line.
func (f Formatter) render(v interp.Value) string {
	t, ok := v.(interp.Table)
	if !ok {
		return v.String()
	}

	entries := renderEntries(t, []interp.Table{t})
	line := "{" + strings.Join(entries, ", ") + "}"
	if f.MaxWidth <= 0 || len(line) <= f.MaxWidth {
		return line
	}

	pad := strings.Repeat(" ", f.Indent)
	var b strings.Builder
	b.WriteString("{\n")
	for i, entry := range entries {
		b.WriteString(pad)
		b.WriteString(entry)
		if i < len(entries)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

// renderEntries renders a table's entries sorted lexicographically by
// rendered key. Nested tables render in their sorted single-line form so
// output stays deterministic at every depth. path holds the tables above
// this one; a table appearing in its own rendering renders as "{...}" so
// cyclic values terminate.
func renderEntries(t interp.Table, path []interp.Table) []string {
	entries := append([]interp.Entry(nil), t.Entries()...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	rendered := make([]string, len(entries))
	for i, entry := range entries {
		if nested, isTable := entry.Value.(interp.Table); isTable {
			if onPath(path, nested) {
				rendered[i] = fmt.Sprintf("%s = {...}", entry.Key)
				continue
			}
			inner := renderEntries(nested, append(path, nested))
			rendered[i] = fmt.Sprintf("%s = {%s}", entry.Key, strings.Join(inner, ", "))
			continue
		}
		rendered[i] = fmt.Sprintf("%s = %s", entry.Key, entry.Value.String())
	}
	return rendered
}

func onPath(path []interp.Table, t interp.Table) bool {
	for _, seen := range path {
		if t.Same(seen) {
			return true
		}
	}
	return false
}

// prefixLines puts the marker at the start of text and after each
// embedded newline.
func prefixLines(text string) string {
	return Marker + strings.ReplaceAll(text, "\n", "\n"+Marker)
}
