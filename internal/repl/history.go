package repl

import "strings"

// History is an append-only log of evaluated snippets with a movable
// cursor. It is a linear log, not a stack: navigation moves both
// directions without destroying entries. Entries may span multiple
// transcript lines; LineCount tells the caller how many lines a
// displayed entry occupies.
type History struct {
	entries []string
	pos     int
}

// Record appends a snippet and moves the cursor just past the newest
// entry ("not currently browsing").
func (h *History) Record(snippet string) {
	h.entries = append(h.entries, snippet)
	h.pos = len(h.entries)
}

// Prev moves the cursor one entry back and returns the snippet there. At
// the earliest entry it is a no-op and ok is false.
func (h *History) Prev() (snippet string, ok bool) {
	if h.pos == 0 {
		return "", false
	}
	h.pos--
	return h.entries[h.pos], true
}

// Next moves the cursor one entry forward and returns the snippet there.
// At the newest entry (or past it) it is a no-op and ok is false.
func (h *History) Next() (snippet string, ok bool) {
	if len(h.entries) == 0 || h.pos >= len(h.entries)-1 {
		return "", false
	}
	h.pos++
	return h.entries[h.pos], true
}

// Len returns the number of recorded snippets.
func (h *History) Len() int { return len(h.entries) }

// Pos returns the cursor position in [0, Len].
func (h *History) Pos() int { return h.pos }

// LineCount returns the number of transcript lines snippet occupies: one
// plus the count of embedded newlines.
func LineCount(snippet string) int {
	return 1 + strings.Count(snippet, "\n")
}
