// Package fixup repairs machine-translated strings before they are written
// back into a catalog.
package fixup

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/minios-linux/potrans/exclude"
)

var (
	positionalRe = regexp.MustCompile(`%[0-9]+\$[A-Za-z]`)
	spaceBefore  = regexp.MustCompile(`[ \t]+([.,?!])`)
	templateRe   = regexp.MustCompile(`\{\{\s*[\w\s]+?\s*\}\}`)
)

// Fix applies the repair passes in order and returns the translation in
// escaped PO form, ready to be placed between the quotes of a msgstr line.
// Both original and translated are plain (unescaped) text.
func Fix(original, translated string, set *exclude.Set) string {
	if translated == "" {
		return ""
	}
	s := translated
	s = NormalizeQuotes(s)
	s = RestorePlaceholders(original, s)
	s = CollapseSpaceBeforePunct(s)
	s = MatchEdgeSpace(original, s)
	s = RestoreTerms(original, s, set)
	s = ReplaceNBSP(s)
	return EscapeQuotes(s)
}

// NormalizeQuotes turns guillemets into straight double quotes.
func NormalizeQuotes(s string) string {
	return strings.NewReplacer("«", `"`, "»", `"`).Replace(s)
}

// RestorePlaceholders makes every positional placeholder (%1$s) of original
// appear in s exactly as many times as in original. A dropped placeholder is
// put back at the end when original ends with it, otherwise in front.
func RestorePlaceholders(original, s string) string {
	seen := map[string]bool{}
	for _, p := range positionalRe.FindAllString(original, -1) {
		if seen[p] {
			continue
		}
		seen[p] = true

		want := strings.Count(original, p)
		have := strings.Count(s, p)
		switch {
		case have == 0:
			if strings.HasSuffix(strings.TrimRightFunc(original, unicode.IsSpace), p) {
				s = strings.TrimRight(s, " ") + " " + p
			} else {
				s = p + " " + strings.TrimLeft(s, " ")
			}
		case have > want:
			s = dropExtra(s, p, want)
		}
	}
	return s
}

// dropExtra removes occurrences of p after the first keep, together with a
// single preceding space.
func dropExtra(s, p string, keep int) string {
	var b strings.Builder
	n := 0
	for {
		idx := strings.Index(s, p)
		if idx < 0 {
			b.WriteString(s)
			break
		}
		n++
		if n <= keep {
			b.WriteString(s[:idx+len(p)])
		} else {
			head := s[:idx]
			if strings.HasSuffix(head, " ") {
				head = head[:len(head)-1]
			}
			b.WriteString(head)
		}
		s = s[idx+len(p):]
	}
	return b.String()
}

// CollapseSpaceBeforePunct removes spaces and tabs directly before . , ? and !.
func CollapseSpaceBeforePunct(s string) string {
	return spaceBefore.ReplaceAllString(s, "$1")
}

// MatchEdgeSpace forces a leading or trailing space onto s when original
// starts or ends with a space or tab. Line breaks are not edge space: s is
// never padded next to a newline.
func MatchEdgeSpace(original, s string) string {
	if original == "" || s == "" {
		return s
	}
	first, _ := utf8.DecodeRuneInString(original)
	sFirst, _ := utf8.DecodeRuneInString(s)
	if isEdgeSpace(first) && !isEdgeSpace(sFirst) && sFirst != '\n' {
		s = " " + s
	}
	last, _ := utf8.DecodeLastRuneInString(original)
	sLast, _ := utf8.DecodeLastRuneInString(s)
	if isEdgeSpace(last) && !isEdgeSpace(sLast) && sLast != '\n' {
		s += " "
	}
	return s
}

func isEdgeSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

// RestoreTerms rewrites whole-word, case-insensitive matches of every
// exclusion term to the stored casing, then restores {{ name }} template
// placeholders from original.
func RestoreTerms(original, s string, set *exclude.Set) string {
	for _, term := range set.Terms() {
		s = replaceWord(s, term)
	}
	for _, ph := range templateRe.FindAllString(original, -1) {
		inner := strings.TrimSpace(ph[2 : len(ph)-2])
		re := regexp.MustCompile(`(?i)\{\{\s*` + regexp.QuoteMeta(inner) + `\s*\}\}`)
		s = re.ReplaceAllLiteralString(s, ph)
	}
	return s
}

func replaceWord(s, term string) string {
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(term))
	if err != nil {
		return s
	}
	matches := re.FindAllStringIndex(s, -1)
	if matches == nil {
		return s
	}
	var b strings.Builder
	prev := 0
	for _, m := range matches {
		if !wordBoundary(s, m[0], m[1]) {
			continue
		}
		b.WriteString(s[prev:m[0]])
		b.WriteString(term)
		prev = m[1]
	}
	b.WriteString(s[prev:])
	return b.String()
}

func wordBoundary(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ReplaceNBSP replaces no-break spaces (U+00A0, U+202F) with regular spaces.
func ReplaceNBSP(s string) string {
	return strings.NewReplacer("\u00a0", " ", "\u202f", " ").Replace(s)
}

// EscapeQuotes encodes s for embedding in a PO quoted string. A quote that
// is already preceded by a backslash is kept as is, so \" never becomes \\\".
// Quotes inside HTML tags are escaped like any other quote.
func EscapeQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			if i+1 < len(s) && s[i+1] == '"' {
				b.WriteString(`\"`)
				i++
			} else {
				b.WriteString(`\\`)
			}
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
