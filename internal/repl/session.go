package repl

import (
	"strings"

	"github.com/orbitalquark/textadept-lua-repl/internal/interp"
)

// Host is the collaborator surface the engine consumes from the editor:
// read the current line or selection, mutate the transcript, and show
// completion lists. All calls are synchronous; the engine never holds a
// reference to text it read after the call returns.
type Host interface {
	CurrentLineText() string
	SelectionRange() (start, end int)
	TextInRange(start, end int) string

	InsertText(text string)
	InsertNewline()
	DeleteCurrentLine()
	DeleteCharBeforeCursor()
	MoveCursorToLineEnd(line int)

	ShowCompletionList(prefixLen int, candidates []string)
	IsCompletionListActive() bool
}

// Config holds per-session formatting settings.
type Config struct {
	// MaxWidth is the rendered single-line width above which associative
	// results switch to one entry per line. Zero disables the check.
	MaxWidth int

	// Indent is the number of spaces prefixing each entry line in
	// multi-line renderings.
	Indent int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxWidth: 80,
		Indent:   2,
	}
}

// Session wires the evaluator, formatter, history and completer to one
// host buffer. One Session exists per REPL buffer; its interpreter's
// sandbox persists for the session's lifetime.
type Session struct {
	host      Host
	interp    interp.Interpreter
	eval      *Evaluator
	format    Formatter
	history   *History
	completer *Completer
	hostObj   *HostObject

	// browsing holds the history entry currently shown in the transcript,
	// so navigation knows how many lines to erase before showing another.
	browsing string
	browsed  bool
}

// NewSession creates a Session over host and in. hostObj may be nil when
// the host exposes no native editing-surface object for completion.
func NewSession(host Host, in interp.Interpreter, hostObj *HostObject, cfg Config) *Session {
	return &Session{
		host:      host,
		interp:    in,
		eval:      NewEvaluator(in),
		format:    Formatter{MaxWidth: cfg.MaxWidth, Indent: cfg.Indent},
		history:   &History{},
		completer: NewCompleter(in, hostObj),
		hostObj:   hostObj,
	}
}

// Interpreter returns the session's interpreter.
func (s *Session) Interpreter() interp.Interpreter { return s.interp }

// History returns the session's history log.
func (s *Session) History() *History { return s.history }

// Commit handles the commit key event. It evaluates the current
// selection (as an explicit multi-line snippet) or, without a selection,
// the current line. The return value is the key-consumption contract:
// true means the engine handled the event, false means the input is a
// continuation line and the host should insert a plain newline.
func (s *Session) Commit() bool {
	start, end := s.host.SelectionRange()
	multiline := start != end
	var src string
	if multiline {
		src = s.host.TextInRange(start, end)
	} else {
		src = s.host.CurrentLineText()
	}
	if strings.TrimSpace(src) == "" {
		return false
	}

	prog, out, ok := s.eval.compile(src, multiline)
	if !ok && out.Kind == OutcomeIncomplete {
		return false
	}

	// Terminate the input line before anything the snippet prints lands
	// in the transcript.
	s.host.InsertNewline()
	if ok {
		out = run(prog)
	}
	if text, show := s.format.Format(out); show {
		s.host.InsertText(text)
		s.host.InsertNewline()
	}
	s.history.Record(src)
	s.browsed = false
	return true
}

// HistoryPrev handles the history-back key event, replacing the shown
// entry (or the line being edited) with the previous snippet. While a
// completion list is active the host's own list navigation wins and the
// store is not consulted.
func (s *Session) HistoryPrev() {
	if s.host.IsCompletionListActive() {
		return
	}
	snippet, ok := s.history.Prev()
	if !ok {
		return
	}
	s.show(snippet)
}

// HistoryNext is the forward counterpart of HistoryPrev.
func (s *Session) HistoryNext() {
	if s.host.IsCompletionListActive() {
		return
	}
	snippet, ok := s.history.Next()
	if !ok {
		return
	}
	s.show(snippet)
}

// show erases the currently displayed text and inserts snippet in its
// place. The erase count is one line for ordinary input, or however many
// transcript lines the previously shown history entry occupied.
func (s *Session) show(snippet string) {
	lines := 1
	if s.browsed {
		lines = LineCount(s.browsing)
	}
	for i := 0; i < lines; i++ {
		s.host.DeleteCurrentLine()
	}
	s.host.InsertText(snippet)
	s.host.MoveCursorToLineEnd(LineCount(snippet) - 1)
	s.browsing = snippet
	s.browsed = true
}

// Complete handles the request-completion key event: it resolves the
// symbol path before the cursor and shows the candidate list, pre-sorted
// and anchored at the partial identifier.
func (s *Session) Complete() {
	candidates, prefixLen := s.completer.Complete(s.host.CurrentLineText())
	if len(candidates) == 0 {
		return
	}
	s.host.ShowCompletionList(prefixLen, candidates)
}

// Reset discards the session's interpreter and history, replacing the
// interpreter with in and the editing-surface binding with hostObj
// (which the caller re-binds against the new interpreter; nil drops it).
// The previous interpreter is closed.
func (s *Session) Reset(in interp.Interpreter, hostObj *HostObject) {
	s.interp.Close()
	s.interp = in
	s.hostObj = hostObj
	s.eval = NewEvaluator(in)
	s.completer = NewCompleter(in, s.hostObj)
	s.history = &History{}
	s.browsed = false
	s.browsing = ""
}

// TranscriptWriter adapts a Host to io.Writer so sandbox print output
// routes into the transcript as it is produced.
type TranscriptWriter struct {
	Host Host
}

// Write inserts p into the transcript immediately.
func (w TranscriptWriter) Write(p []byte) (int, error) {
	w.Host.InsertText(string(p))
	return len(p), nil
}
