// Package console provides a line-based terminal implementation of the
// repl.Host surface, for running the evaluation engine outside an editor.
// Each input line is committed as-is; when the engine classifies a line
// as a continuation, further lines accumulate and a blank line commits
// the whole block as an explicit multi-line selection. History
// navigation and completion are driven through dot meta-commands, since
// a line terminal has no editor key events to subscribe to.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/orbitalquark/textadept-lua-repl/internal/repl"
)

// BufferMethods lists the editing-surface method names offered for
// completion after the method-call operator.
var BufferMethods = []string{
	"add_text", "append_text", "delete_back", "delete_range",
	"get_cur_line", "get_sel_text", "goto_line", "goto_pos",
	"insert_text", "line_delete", "line_down", "line_end", "line_up",
	"new_line", "text_range",
}

// BufferProperties lists the editing-surface property names offered
// after member access.
var BufferProperties = []string{
	"current_pos", "length", "line_count", "selection_end",
	"selection_start",
}

const helpText = `.complete <text>  show completions for text
.prev             recall the previous history entry
.next             recall the next history entry
.help             show this help
.quit             exit

End a multi-line block with a blank line to evaluate it.`

// Console is a terminal-backed Host. The transcript is the terminal
// output; the "current line" is the last line the engine inserted or the
// user submitted.
type Console struct {
	out       io.Writer
	current   string
	selection string
	pending   []string
	recalling bool

	// wrote reports whether the current line's text was written by the
	// console itself; terminal echo of user input already ends its line.
	wrote bool
}

// New creates a Console writing its transcript to out.
func New(out io.Writer) *Console {
	return &Console{out: out}
}

// CurrentLineText returns the current input line.
func (c *Console) CurrentLineText() string { return c.current }

// SelectionRange reports the pending multi-line block, when one is being
// committed.
func (c *Console) SelectionRange() (start, end int) { return 0, len(c.selection) }

// TextInRange returns the selected text.
func (c *Console) TextInRange(start, end int) string { return c.selection[start:end] }

// SetSelection stages text as the active selection for the next commit,
// for non-interactive use.
func (c *Console) SetSelection(text string) { c.selection = text }

// InsertText writes text to the transcript, styling marker-prefixed
// result blocks and recalled history entries.
func (c *Console) InsertText(text string) {
	styled := text
	switch {
	case strings.HasPrefix(text, repl.Marker):
		styled = resultStyle.Render(text)
	case c.recalling:
		styled = recallStyle.Render(text)
	}
	fmt.Fprint(c.out, styled)
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		c.current = text[i+1:]
	} else {
		c.current += text
	}
	c.wrote = c.current != ""
}

// InsertNewline terminates the current transcript line. Lines the
// terminal already ended (user input echo) are not doubled.
func (c *Console) InsertNewline() {
	if c.wrote {
		fmt.Fprintln(c.out)
	}
	c.current = ""
	c.wrote = false
}

// DeleteCurrentLine clears the tracked current line. Printed terminal
// output cannot be retracted; recalled entries are re-shown instead.
func (c *Console) DeleteCurrentLine() {
	c.current = ""
	c.wrote = false
}

// DeleteCharBeforeCursor removes the last character of the current line.
func (c *Console) DeleteCharBeforeCursor() {
	if c.current != "" {
		c.current = c.current[:len(c.current)-1]
	}
}

// MoveCursorToLineEnd is a no-op; the terminal cursor already trails the
// transcript.
func (c *Console) MoveCursorToLineEnd(line int) {}

// ShowCompletionList prints the candidate list, already sorted by the
// engine.
func (c *Console) ShowCompletionList(prefixLen int, candidates []string) {
	fmt.Fprintln(c.out, listStyle.Render(strings.Join(candidates, "  ")))
}

// IsCompletionListActive is always false: a line terminal has no
// interactive popup to navigate.
func (c *Console) IsCompletionListActive() bool { return false }

// Loop reads input lines from in and drives the session until .quit or
// end of input.
func (c *Console) Loop(s *repl.Session, in io.Reader) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		if len(c.pending) > 0 {
			fmt.Fprint(c.out, contStyle.Render(".. "))
		} else {
			fmt.Fprint(c.out, promptStyle.Render("> "))
		}
		if !sc.Scan() {
			return sc.Err()
		}
		line := sc.Text()
		switch {
		case line == ".quit":
			return nil
		case line == ".help":
			fmt.Fprintln(c.out, helpText)
		case line == ".prev":
			c.recall(s.HistoryPrev)
		case line == ".next":
			c.recall(s.HistoryNext)
		case strings.HasPrefix(line, ".complete"):
			c.current = strings.TrimSpace(strings.TrimPrefix(line, ".complete"))
			s.Complete()
			c.current = ""
		case strings.HasPrefix(line, "."):
			fmt.Fprintln(c.out, errorStyle.Render("unknown command "+line+" (.help for help)"))
		default:
			c.submit(s, line)
		}
	}
}

func (c *Console) recall(nav func()) {
	c.recalling = true
	nav()
	c.recalling = false
	if c.wrote {
		fmt.Fprintln(c.out)
	}
	c.current = ""
	c.wrote = false
}

func (c *Console) submit(s *repl.Session, line string) {
	if len(c.pending) > 0 {
		if line != "" {
			c.pending = append(c.pending, line)
			return
		}
		c.selection = strings.Join(c.pending, "\n")
		c.pending = nil
		c.current = ""
		s.Commit()
		c.selection = ""
		return
	}
	if line == "" {
		return
	}
	c.current = line
	if !s.Commit() {
		c.pending = append(c.pending, line)
	}
	c.current = ""
}
