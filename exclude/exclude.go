// Package exclude decides which catalog texts pass through untranslated.
package exclude

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Set maps lower-cased terms to their original casing. Iteration order is
// insertion order. A nil *Set is empty.
type Set struct {
	order []string
	terms map[string]string
}

// NewSet builds a set from terms. Blank terms are ignored.
func NewSet(terms ...string) *Set {
	s := &Set{terms: make(map[string]string)}
	for _, t := range terms {
		s.Add(t)
	}
	return s
}

// Add inserts term. Re-adding a term with different casing replaces the
// stored casing but keeps its position.
func (s *Set) Add(term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	if s.terms == nil {
		s.terms = make(map[string]string)
	}
	key := strings.ToLower(term)
	if _, ok := s.terms[key]; !ok {
		s.order = append(s.order, key)
	}
	s.terms[key] = term
}

// Lookup returns the cased term stored for text, compared case-insensitively.
func (s *Set) Lookup(text string) (string, bool) {
	if s == nil {
		return "", false
	}
	v, ok := s.terms[strings.ToLower(text)]
	return v, ok
}

// Contains reports whether the lower-cased text is in the set.
func (s *Set) Contains(text string) bool {
	_, ok := s.Lookup(text)
	return ok
}

// Terms returns the cased terms in insertion order.
func (s *Set) Terms() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.terms[k])
	}
	return out
}

// Len returns the number of terms.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	return NewSet(s.Terms()...)
}

// Split parses a comma-separated exclusion list.
func Split(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var (
	urlRe = regexp.MustCompile(`(?i)^(https?://)?` +
		`(([a-z\d]([a-z\d-]*[a-z\d])?\.)+[a-z]{2,}|(\d{1,3}\.){3}\d{1,3})` +
		`(:\d+)?(/[-a-z\d%_.~+]*)*` +
		`(\?[;&a-z\d%_.~+=-]*)?` +
		`(#[-a-z\d_]*)?$`)

	placeholderOnlyRe = regexp.MustCompile(`^\s*(%[0-9]*\$?[A-Za-z]\s*)+$`)
)

// IsURL reports whether text is a bare URL: optional http(s) scheme, a
// dotted domain or IPv4 host, then optional port, path, query and fragment.
func IsURL(text string) bool {
	return urlRe.MatchString(text)
}

// IsPlaceholderOnly reports whether text consists solely of printf-style
// placeholders separated by whitespace.
func IsPlaceholderOnly(text string) bool {
	return placeholderOnlyRe.MatchString(text)
}

// IsSingleLetter reports whether text is exactly one letter.
func IsSingleLetter(text string) bool {
	if utf8.RuneCountInString(text) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text)
	return unicode.IsLetter(r)
}

// IsExcluded reports whether text must pass through untranslated.
func IsExcluded(text string, set *Set) bool {
	return set.Contains(text) ||
		IsSingleLetter(text) ||
		IsURL(text) ||
		IsPlaceholderOnly(text)
}

var localeSuffixRe = regexp.MustCompile(`-[a-z]{2}_[A-Z]{2}$`)

// ProductName derives a display name from a catalog file name:
// "acme-contact-forms-fr_FR.pot" becomes "Acme Contact Forms".
func ProductName(fileName string) string {
	base := filepath.Base(fileName)
	for _, ext := range []string{".pot", ".po"} {
		if strings.HasSuffix(strings.ToLower(base), ext) {
			base = base[:len(base)-len(ext)]
			break
		}
	}
	base = strings.Replace(base, "_FR_fr", "", 1)
	base = localeSuffixRe.ReplaceAllString(base, "")

	var words []string
	for _, w := range strings.Split(base, "-") {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words = append(words, string(unicode.ToUpper(r))+w[size:])
	}
	return strings.Join(words, " ")
}
