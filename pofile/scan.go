package pofile

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// LineKind classifies a PO source line by its prefix.
type LineKind int

const (
	LineBlank LineKind = iota
	LineComment
	LineObsolete
	LineMsgctxt
	LineMsgid
	LineMsgidPlural
	LineMsgstr
	LineContinuation
	LineOther
)

// Classify returns the kind of a single PO line.
func Classify(line string) LineKind {
	switch {
	case strings.TrimSpace(line) == "":
		return LineBlank
	case strings.HasPrefix(line, "#~"):
		return LineObsolete
	case strings.HasPrefix(line, "#"):
		return LineComment
	case strings.HasPrefix(line, "msgctxt"):
		return LineMsgctxt
	case strings.HasPrefix(line, "msgid_plural"):
		return LineMsgidPlural
	case strings.HasPrefix(line, "msgid"):
		return LineMsgid
	case strings.HasPrefix(line, "msgstr"):
		return LineMsgstr
	case strings.HasPrefix(strings.TrimLeft(line, " \t"), `"`):
		return LineContinuation
	default:
		return LineOther
	}
}

// SkipMarkers are metadata fragments identifying plugin boilerplate
// (author, URI, name, description, copyright, license). Entries carrying
// them are passed through with their source text and never translated.
var SkipMarkers = []string{
	"#. Plugin URI of the plugin",
	"#. Author of the plugin",
	"#. Author URI of the plugin",
	"# Copyright (C) ",
	"# This file is distributed under the same license as",
	"#. Plugin Name of the plugin",
	"#. Description of the plugin",
}

func hasSkipMarker(line string) bool {
	for _, m := range SkipMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Scanner state machine
// ---------------------------------------------------------------------------

// State is the scanner state.
type State int

const (
	StateIdle State = iota
	StateMetadata
	StateMsgctxt
	StateMsgid
	StateMsgidPlural
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateMetadata:
		return "IN_METADATA"
	case StateMsgctxt:
		return "HAVE_MSGCTXT"
	case StateMsgid:
		return "HAVE_MSGID"
	case StateMsgidPlural:
		return "HAVE_MSGID_PLURAL"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Scanner turns PO lines into records, one line at a time.
//
// A msgstr line flushes the pending entry only in HAVE_MSGID or
// HAVE_MSGID_PLURAL; anywhere else it is inert. A msgid that is never
// followed by msgstr is silently dropped, together with its comments, when a
// blank line, comment, msgctxt or msgid arrives instead.
type Scanner struct {
	state  State
	lineNo int

	meta   []string
	skip   bool
	ctx    []string
	id     []string
	plural []string
	idLine int
}

// NewScanner returns a scanner in the IDLE state.
func NewScanner() *Scanner {
	return &Scanner{}
}

// State returns the current state.
func (s *Scanner) State() State {
	return s.state
}

// Step consumes one line and returns the record it completes, if any.
func (s *Scanner) Step(line string) *Record {
	s.lineNo++
	line = strings.TrimRight(line, "\r")

	kind := Classify(line)
	if s.dangling(kind) {
		s.reset()
	}

	switch kind {
	case LineComment:
		s.meta = append(s.meta, line)
		if hasSkipMarker(line) {
			s.skip = true
		}
		if s.state == StateIdle {
			s.state = StateMetadata
		}

	case LineMsgctxt:
		s.ctx = []string{line}
		s.id, s.plural = nil, nil
		s.state = StateMsgctxt

	case LineMsgid:
		if s.state != StateMsgctxt {
			s.ctx = nil
		}
		s.id = []string{line}
		s.plural = nil
		s.idLine = s.lineNo
		s.state = StateMsgid

	case LineMsgidPlural:
		if s.state == StateMsgid {
			s.plural = []string{line}
			s.state = StateMsgidPlural
		}

	case LineMsgstr:
		if s.state == StateMsgid || s.state == StateMsgidPlural {
			return s.flush()
		}

	case LineContinuation:
		switch s.state {
		case StateMsgctxt:
			s.ctx = append(s.ctx, line)
		case StateMsgid:
			s.id = append(s.id, line)
		case StateMsgidPlural:
			s.plural = append(s.plural, line)
		}
	}

	return nil
}

// dangling reports whether a line of kind k abandons the pending msgid.
func (s *Scanner) dangling(k LineKind) bool {
	if s.state != StateMsgid && s.state != StateMsgidPlural {
		return false
	}
	switch k {
	case LineBlank, LineComment, LineMsgctxt, LineMsgid:
		return true
	}
	return false
}

func (s *Scanner) reset() {
	s.meta, s.ctx, s.id, s.plural = nil, nil, nil, nil
	s.skip = false
	s.state = StateIdle
}

func (s *Scanner) flush() *Record {
	rec := &Record{
		Kind:         KindSingular,
		Metadata:     s.meta,
		ContextLines: s.ctx,
		IDLines:      s.id,
		PluralLines:  s.plural,
		RawID:        joinBodies(s.id),
		Skip:         s.skip,
		Line:         s.idLine,
	}
	rec.ID = Unescape(rec.RawID)
	if len(s.plural) > 0 {
		rec.Kind = KindPlural
		rec.RawPlural = joinBodies(s.plural)
		rec.Plural = Unescape(rec.RawPlural)
	}
	if rec.RawID == "" && len(s.ctx) == 0 {
		rec.Kind = KindHeader
	}

	s.reset()
	return rec
}

func joinBodies(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(quotedBody(l))
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Whole-document scanning
// ---------------------------------------------------------------------------

// Mode selects which records Scan returns.
type Mode int

const (
	// ModeSingular returns singular entries (pass 1).
	ModeSingular Mode = iota
	// ModePlural returns plural entries (pass 2).
	ModePlural
)

// SplitLines splits raw file content into lines.
func SplitLines(content string) []string {
	return strings.Split(content, "\n")
}

// ScanAll returns every record of the document in source order, including
// the header record if one is present.
func ScanAll(content string) []*Record {
	sc := NewScanner()
	var records []*Record
	for _, line := range SplitLines(content) {
		if rec := sc.Step(line); rec != nil {
			records = append(records, rec)
		}
	}
	return records
}

// Scan returns the records of one kind, in source order. The header is
// never returned.
func Scan(content string, mode Mode) []*Record {
	want := KindSingular
	if mode == ModePlural {
		want = KindPlural
	}
	var out []*Record
	for _, rec := range ScanAll(content) {
		if rec.Kind == want {
			out = append(out, rec)
		}
	}
	return out
}

// Parse reads a PO/POT document from r and returns its records.
func Parse(r io.Reader) ([]*Record, error) {
	sc := NewScanner()
	lines := bufio.NewScanner(r)
	lines.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	var records []*Record
	for lines.Scan() {
		if rec := sc.Step(lines.Text()); rec != nil {
			records = append(records, rec)
		}
	}
	if err := lines.Err(); err != nil {
		return nil, fmt.Errorf("reading PO file: %w", err)
	}
	return records, nil
}
