package pofile

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// DefaultPluralForms is used for locales missing from the plural table.
const DefaultPluralForms = "nplurals=2; plural=(n != 1);"

// PluralRule is one row of the plural-forms table.
type PluralRule struct {
	// Expr is the full Plural-Forms header value.
	Expr string
	// N is the nplurals count parsed from Expr.
	N int
}

// PluralTable maps a locale code (or a bare language) to its plural rule.
type PluralTable map[string]PluralRule

var npluralsRe = regexp.MustCompile(`nplurals\s*=\s*(\d+)`)

// NPlurals extracts the nplurals count from a Plural-Forms expression.
// Unparseable expressions yield 2.
func NPlurals(expr string) int {
	m := npluralsRe.FindStringSubmatch(expr)
	if m == nil {
		return 2
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 2
	}
	return n
}

// NewRule builds a PluralRule from a Plural-Forms expression.
func NewRule(expr string) PluralRule {
	expr = strings.TrimSpace(expr)
	return PluralRule{Expr: expr, N: NPlurals(expr)}
}

// Slots returns the number of msgstr[n] lines a plural entry needs.
// It is never less than 2.
func (r PluralRule) Slots() int {
	if r.N < 2 {
		return 2
	}
	return r.N
}

// DefaultPluralTable returns the built-in table of plural rules, keyed by
// bare language code.
func DefaultPluralTable() PluralTable {
	t := PluralTable{}
	add := func(expr string, langs ...string) {
		r := NewRule(expr)
		for _, l := range langs {
			t[l] = r
		}
	}

	add("nplurals=1; plural=0;", "ja", "ko", "zh", "vi", "th", "id", "ms")
	add("nplurals=2; plural=(n > 1);", "fr", "pt", "pt_BR")
	add("nplurals=2; plural=(n != 1);",
		"en", "de", "nl", "sv", "da", "no", "nb", "nn", "fi", "es", "it", "el",
		"he", "hu", "tr", "bg", "hi", "ur", "ca", "et")
	add("nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
		"ru", "uk", "be", "hr", "sr", "bs")
	add("nplurals=3; plural=(n==1 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);", "pl")
	add("nplurals=3; plural=(n==1 ? 0 : n>=2 && n<=4 ? 1 : 2);", "cs", "sk")
	add("nplurals=3; plural=(n==1 ? 0 : (n==0 || (n%100 > 0 && n%100 < 20)) ? 1 : 2);", "ro")
	add("nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && (n%100<10 || n%100>=20) ? 1 : 2);", "lt")
	add("nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n != 0 ? 1 : 2);", "lv")
	add("nplurals=4; plural=(n%100==1 ? 0 : n%100==2 ? 1 : n%100==3 || n%100==4 ? 2 : 3);", "sl")
	add("nplurals=5; plural=(n==1 ? 0 : n==2 ? 1 : n<7 ? 2 : n<11 ? 3 : 4);", "ga")
	add("nplurals=6; plural=(n==0 ? 0 : n==1 ? 1 : n==2 ? 2 : n%100>=3 && n%100<=10 ? 3 : n%100>=11 ? 4 : 5);", "ar")
	return t
}

// Merge returns a copy of t with the given locale → expression overrides
// applied on top.
func (t PluralTable) Merge(overrides map[string]string) PluralTable {
	out := make(PluralTable, len(t)+len(overrides))
	for k, v := range t {
		out[k] = v
	}
	for k, expr := range overrides {
		if strings.TrimSpace(expr) == "" {
			continue
		}
		out[k] = NewRule(expr)
	}
	return out
}

// Lookup resolves the plural rule for a locale. It tries the exact code,
// the code with "-" and "_" swapped, the base language, and finally falls
// back to DefaultPluralForms.
func (t PluralTable) Lookup(locale string) PluralRule {
	locale = strings.TrimSpace(locale)
	if r, ok := t[locale]; ok {
		return r
	}
	for _, alt := range []string{
		strings.ReplaceAll(locale, "-", "_"),
		strings.ReplaceAll(locale, "_", "-"),
	} {
		if r, ok := t[alt]; ok {
			return r
		}
	}
	if base := baseLanguage(locale); base != "" {
		if r, ok := t[base]; ok {
			return r
		}
	}
	return NewRule(DefaultPluralForms)
}

func baseLanguage(locale string) string {
	if tag, err := language.Parse(locale); err == nil {
		if base, conf := tag.Base(); conf != language.No {
			return base.String()
		}
	}
	if idx := strings.IndexAny(locale, "_-"); idx > 0 {
		return strings.ToLower(locale[:idx])
	}
	return strings.ToLower(locale)
}
