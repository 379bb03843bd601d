package pofile

import (
	"strconv"
	"strings"
)

// Writer accumulates output lines of a generated catalog in order.
// msgstr values handed to it must already be in escaped PO form.
type Writer struct {
	lines []string
}

// NewWriter returns an empty writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteHeader appends the header block.
func (w *Writer) WriteHeader(h Header) {
	w.lines = append(w.lines, h.Lines()...)
}

// WriteSingular appends a singular entry: metadata, context, msgid lines,
// the msgstr line and a blank separator.
func (w *Writer) WriteSingular(rec *Record, msgstr string) {
	w.lines = append(w.lines, rec.Metadata...)
	w.lines = append(w.lines, rec.ContextLines...)
	w.lines = append(w.lines, rec.IDLines...)
	w.lines = append(w.lines, `msgstr "`+msgstr+`"`, "")
}

// WritePlural appends a plural entry with n msgstr[i] slots (at least 2).
// Slot 0 carries the singular translation, every other slot the plural one.
// Metadata is reduced with FilterPluralMetadata.
func (w *Writer) WritePlural(rec *Record, singular, plural string, n int) {
	if n < 2 {
		n = 2
	}
	w.lines = append(w.lines, FilterPluralMetadata(rec.Metadata)...)
	w.lines = append(w.lines, rec.ContextLines...)
	w.lines = append(w.lines, rec.IDLines...)
	w.lines = append(w.lines, rec.PluralLines...)
	for i := 0; i < n; i++ {
		val := plural
		if i == 0 {
			val = singular
		}
		w.lines = append(w.lines, "msgstr["+strconv.Itoa(i)+`] "`+val+`"`)
	}
	w.lines = append(w.lines, "")
}

// Apply replaces the written lines with fn(lines).
func (w *Writer) Apply(fn func([]string) []string) {
	w.lines = fn(w.lines)
}

// Len returns the number of lines written so far.
func (w *Writer) Len() int {
	return len(w.lines)
}

// Lines returns the written lines.
func (w *Writer) Lines() []string {
	return w.lines
}

// String joins the written lines with newlines.
func (w *Writer) String() string {
	return strings.Join(w.lines, "\n")
}

// FilterPluralMetadata keeps only the last "#. translators" comment and the
// "#:" reference line directly after it. Everything else is dropped.
func FilterPluralMetadata(meta []string) []string {
	last := -1
	for i, line := range meta {
		if len(line) >= 14 && strings.EqualFold(line[:14], "#. translators") {
			last = i
		}
	}
	if last < 0 {
		return nil
	}
	out := []string{meta[last]}
	if last+1 < len(meta) && strings.HasPrefix(meta[last+1], "#:") {
		out = append(out, meta[last+1])
	}
	return out
}

// PruneStrayPlural removes every msgid_plural line together with the run of
// msgstr and comment lines that follows it. It is used when singular and
// plural output are produced in separate passes.
func PruneStrayPlural(lines []string) []string {
	out := make([]string, 0, len(lines))
	skipping := false
	for _, line := range lines {
		if strings.HasPrefix(line, "msgid_plural") {
			skipping = true
			continue
		}
		if skipping {
			if strings.HasPrefix(line, "msgstr") || strings.HasPrefix(line, "#") {
				continue
			}
			skipping = false
		}
		out = append(out, line)
	}
	return out
}
