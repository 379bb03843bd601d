package pofile

import (
	"fmt"
	"time"
)

// DefaultGenerator is the X-Generator value written into generated headers.
const DefaultGenerator = "Translation Generator/1.0.0"

// RevisionLayout formats PO-Revision-Date values. Times are always UTC.
const RevisionLayout = "2006-01-02 15:04:05+0000"

// Header describes the metadata block written at the top of a generated
// catalog.
type Header struct {
	ProductName  string
	LanguageName string
	Locale       string
	PluralForms  string
	Generator    string
	Revision     time.Time
}

// Lines renders the header block. The last line is the blank separator.
func (h Header) Lines() []string {
	gen := h.Generator
	if gen == "" {
		gen = DefaultGenerator
	}
	plural := h.PluralForms
	if plural == "" {
		plural = DefaultPluralForms
	}
	project := "Plugins - " + h.ProductName

	return []string{
		fmt.Sprintf("# Translation of %s in %s", project, h.LanguageName),
		fmt.Sprintf("# This file is distributed under the same license as the %s package.", project),
		`msgid ""`,
		`msgstr ""`,
		headerField("PO-Revision-Date", h.Revision.UTC().Format(RevisionLayout)),
		headerField("MIME-Version", "1.0"),
		headerField("Content-Type", "text/plain; charset=UTF-8"),
		headerField("Content-Transfer-Encoding", "8bit"),
		headerField("Plural-Forms", plural),
		headerField("X-Generator", gen),
		headerField("Language", h.Locale),
		headerField("Project-Id-Version", project),
		"",
	}
}

func headerField(name, value string) string {
	return `"` + name + ": " + Escape(value) + `\n"`
}
