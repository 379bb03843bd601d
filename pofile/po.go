// Package pofile implements line-level scanning and rewriting of PO/POT
// files following the GNU gettext format specification.
//
// Unlike a full catalog parser, the scanner keeps the raw source lines of
// every entry so the rewriter can reproduce comments, context and msgid
// lines verbatim and only replace the msgstr part.
package pofile

import (
	"strings"
)

// RecordKind distinguishes the structural variants produced by the scanner.
type RecordKind int

const (
	// KindSingular is an entry with msgid and a single msgstr.
	KindSingular RecordKind = iota
	// KindPlural is an entry whose msgid line is immediately followed by msgid_plural.
	KindPlural
	// KindHeader is the metadata entry (msgid "" without msgctxt).
	KindHeader
)

func (k RecordKind) String() string {
	switch k {
	case KindSingular:
		return "singular"
	case KindPlural:
		return "plural"
	case KindHeader:
		return "header"
	default:
		return "unknown"
	}
}

// Record is one scanned catalog entry.
type Record struct {
	Kind RecordKind

	// Metadata holds the comment lines ("#", "#.", "#:", "#,") collected
	// since the previous entry was flushed, in source order.
	Metadata []string
	// ContextLines are the raw msgctxt line and its continuations.
	ContextLines []string
	// IDLines are the raw msgid line and its continuations.
	IDLines []string
	// PluralLines are the raw msgid_plural line and its continuations.
	PluralLines []string

	// ID is the unescaped msgid text.
	ID string
	// Plural is the unescaped msgid_plural text.
	Plural string
	// RawID is the msgid text still in its escaped PO form.
	RawID string
	// RawPlural is the msgid_plural text still in its escaped PO form.
	RawPlural string

	// Skip is set when a metadata line matched one of the SkipMarkers.
	Skip bool
	// Line is the 1-based line number of the msgid line.
	Line int
}

// IsPlural reports whether the record carries a plural form.
func (r *Record) IsPlural() bool {
	return r.Kind == KindPlural
}

// Escape produces the body of a PO quoted string (without the surrounding quotes).
func Escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return s
}

// Quote produces a PO-style quoted string.
func Quote(s string) string {
	return `"` + Escape(s) + `"`
}

// Unescape decodes the body of a PO quoted string.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var result strings.Builder
	result.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				result.WriteByte('\n')
				i++
			case 't':
				result.WriteByte('\t')
				i++
			case 'r':
				result.WriteByte('\r')
				i++
			case '\\':
				result.WriteByte('\\')
				i++
			case '"':
				result.WriteByte('"')
				i++
			default:
				result.WriteByte(s[i])
			}
		} else {
			result.WriteByte(s[i])
		}
	}
	return result.String()
}

// quotedBody returns the text between the first and the last double quote of
// a keyword or continuation line, in escaped form. Lines without a quoted
// string yield "".
func quotedBody(line string) string {
	start := strings.IndexByte(line, '"')
	end := strings.LastIndexByte(line, '"')
	if start < 0 || end <= start {
		return ""
	}
	return line[start+1 : end]
}
