// Package langmeta provides a language metadata registry (English and
// native names, emoji flags) used for translation prompts, catalog headers
// and CLI listings.
package langmeta

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Meta describes language display metadata.
type Meta struct {
	// Name is the English name, used in prompts and headers.
	Name string
	// Native is the name in the language itself.
	Native string
	Flag   string
}

// Registry contains canonical language metadata.
// Locale variants are resolved in Resolve() via normalization and base fallback.
var Registry = map[string]Meta{
	"af":    {Name: "Afrikaans", Native: "Afrikaans"},
	"ar":    {Name: "Arabic", Native: "العربية"},
	"az":    {Name: "Azerbaijani", Native: "Azərbaycanca"},
	"be":    {Name: "Belarusian", Native: "Беларуская"},
	"bg":    {Name: "Bulgarian", Native: "Български"},
	"bn":    {Name: "Bengali", Native: "বাংলা"},
	"bs":    {Name: "Bosnian", Native: "Bosanski"},
	"ca":    {Name: "Catalan", Native: "Català"},
	"cs":    {Name: "Czech", Native: "Čeština"},
	"cy":    {Name: "Welsh", Native: "Cymraeg"},
	"da":    {Name: "Danish", Native: "Dansk"},
	"de":    {Name: "German", Native: "Deutsch"},
	"de-AT": {Name: "German (Austria)", Native: "Deutsch (Österreich)"},
	"de-CH": {Name: "German (Switzerland)", Native: "Deutsch (Schweiz)"},
	"el":    {Name: "Greek", Native: "Ελληνικά"},
	"en":    {Name: "English", Native: "English"},
	"en-GB": {Name: "English (UK)", Native: "English (UK)"},
	"en-US": {Name: "English (US)", Native: "English (US)"},
	"es":    {Name: "Spanish", Native: "Español"},
	"es-MX": {Name: "Spanish (Mexico)", Native: "Español (México)"},
	"et":    {Name: "Estonian", Native: "Eesti"},
	"eu":    {Name: "Basque", Native: "Euskara"},
	"fa":    {Name: "Persian", Native: "فارسی"},
	"fi":    {Name: "Finnish", Native: "Suomi"},
	"fr":    {Name: "French", Native: "Français"},
	"fr-CA": {Name: "French (Canada)", Native: "Français (Canada)"},
	"ga":    {Name: "Irish", Native: "Gaeilge"},
	"gl":    {Name: "Galician", Native: "Galego"},
	"he":    {Name: "Hebrew", Native: "עברית"},
	"hi":    {Name: "Hindi", Native: "हिन्दी"},
	"hr":    {Name: "Croatian", Native: "Hrvatski"},
	"hu":    {Name: "Hungarian", Native: "Magyar"},
	"hy":    {Name: "Armenian", Native: "Հայերեն"},
	"id":    {Name: "Indonesian", Native: "Bahasa Indonesia"},
	"is":    {Name: "Icelandic", Native: "Íslenska"},
	"it":    {Name: "Italian", Native: "Italiano"},
	"ja":    {Name: "Japanese", Native: "日本語"},
	"ka":    {Name: "Georgian", Native: "ქართული"},
	"kk":    {Name: "Kazakh", Native: "Қазақ тілі"},
	"ko":    {Name: "Korean", Native: "한국어"},
	"lt":    {Name: "Lithuanian", Native: "Lietuvių"},
	"lv":    {Name: "Latvian", Native: "Latviešu"},
	"mk":    {Name: "Macedonian", Native: "Македонски"},
	"ms":    {Name: "Malay", Native: "Bahasa Melayu"},
	"nb":    {Name: "Norwegian Bokmål", Native: "Norsk bokmål"},
	"nl":    {Name: "Dutch", Native: "Nederlands"},
	"nl-BE": {Name: "Dutch (Belgium)", Native: "Nederlands (België)"},
	"nn":    {Name: "Norwegian Nynorsk", Native: "Norsk nynorsk"},
	"pl":    {Name: "Polish", Native: "Polski"},
	"pt":    {Name: "Portuguese", Native: "Português"},
	"pt-BR": {Name: "Portuguese (Brazil)", Native: "Português (Brasil)"},
	"pt-PT": {Name: "Portuguese (Portugal)", Native: "Português (Portugal)"},
	"ro":    {Name: "Romanian", Native: "Română"},
	"ru":    {Name: "Russian", Native: "Русский"},
	"sk":    {Name: "Slovak", Native: "Slovenčina"},
	"sl":    {Name: "Slovenian", Native: "Slovenščina"},
	"sq":    {Name: "Albanian", Native: "Shqip"},
	"sr":    {Name: "Serbian", Native: "Српски"},
	"sv":    {Name: "Swedish", Native: "Svenska"},
	"sw":    {Name: "Swahili", Native: "Kiswahili"},
	"ta":    {Name: "Tamil", Native: "தமிழ்"},
	"th":    {Name: "Thai", Native: "ไทย"},
	"tr":    {Name: "Turkish", Native: "Türkçe"},
	"uk":    {Name: "Ukrainian", Native: "Українська"},
	"ur":    {Name: "Urdu", Native: "اردو"},
	"vi":    {Name: "Vietnamese", Native: "Tiếng Việt"},
	"zh":    {Name: "Chinese", Native: "中文"},
	"zh-CN": {Name: "Chinese (Simplified)", Native: "简体中文"},
	"zh-TW": {Name: "Chinese (Traditional)", Native: "繁體中文"},
}

func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

var englishNames = display.Tags(language.English)

// Lookup returns metadata for a locale code. Exact and normalized registry
// hits win; other well-formed, known tags are named through CLDR display
// data ("fr_FR" becomes "French (France)"). ok is false when no name exists.
func Lookup(lang string) (Meta, bool) {
	normalized := canonicalize(lang)
	if normalized == "" {
		return Meta{}, false
	}
	if m, ok := Registry[lang]; ok {
		return withFlag(m, normalized), true
	}
	if m, ok := Registry[normalized]; ok {
		return withFlag(m, normalized), true
	}

	tag, err := language.Parse(normalized)
	if err != nil {
		return Meta{}, false
	}
	name := englishNames.Name(tag)
	if name == "" {
		return Meta{}, false
	}
	m := Meta{Name: name, Native: display.Self.Name(tag)}
	if m.Native == "" {
		m.Native = name
	}
	return withFlag(m, normalized), true
}

// Resolve returns best-effort language metadata for language codes,
// supporting variants like pt_BR, pt-BR, and locale fallbacks. Unknown
// codes pass through as their own name.
func Resolve(lang string) Meta {
	if m, ok := Lookup(lang); ok {
		return m
	}
	normalized := canonicalize(lang)
	if parts := strings.SplitN(normalized, "-", 2); len(parts) == 2 {
		if m, ok := Registry[parts[0]]; ok {
			return withFlag(m, normalized)
		}
	}
	return Meta{Name: lang, Native: lang}
}

func withFlag(m Meta, normalized string) Meta {
	if m.Flag == "" {
		m.Flag = Flag(normalized)
	}
	return m
}

// Flag returns the emoji flag for the (likely) region of a locale, or "".
func Flag(lang string) string {
	tag, err := language.Parse(canonicalize(lang))
	if err != nil {
		return ""
	}
	region, conf := tag.Region()
	if conf == language.No {
		return ""
	}
	code := region.String()
	if len(code) != 2 || code[0] < 'A' || code[0] > 'Z' || code[1] < 'A' || code[1] > 'Z' {
		return ""
	}
	return string([]rune{
		0x1F1E6 + rune(code[0]-'A'),
		0x1F1E6 + rune(code[1]-'A'),
	})
}

// Codes returns the registry keys in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(Registry))
	for code := range Registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ---------------------------------------------------------------------------
// Resolver with project overrides
// ---------------------------------------------------------------------------

// Resolver maps locale codes to English display names, consulting explicit
// overrides before the registry.
type Resolver struct {
	overrides map[string]string
}

// NewResolver returns a resolver using the given locale → name overrides.
func NewResolver(overrides map[string]string) *Resolver {
	r := &Resolver{overrides: make(map[string]string, len(overrides))}
	for k, v := range overrides {
		if v = strings.TrimSpace(v); v != "" {
			r.overrides[canonicalize(k)] = v
		}
	}
	return r
}

// Name returns the display name for a locale; ok is false when the locale
// is unknown.
func (r *Resolver) Name(lang string) (string, bool) {
	if r != nil {
		if v, ok := r.overrides[canonicalize(lang)]; ok {
			return v, true
		}
	}
	m, ok := Lookup(lang)
	if !ok {
		return "", false
	}
	return m.Name, true
}
