// Package mofile checks generated PO catalogs and compiles them to GNU MO
// binaries.
package mofile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/leonelquinteros/gotext"
)

const (
	moMagicLittleEndian = 0x950412de
	moHeaderSize        = 28 // 7 uint32 values
)

// ErrEmpty is returned for blank input.
var ErrEmpty = errors.New("empty po content")

// Summary collects catalog metrics.
type Summary struct {
	Language     string
	PluralForms  string
	Total        int
	Translated   int
	Untranslated int
	// Warnings lists missing headers and untranslated entries, sorted.
	Warnings []string
}

// Complete reports whether every entry is translated and both required
// headers are present.
func (s Summary) Complete() bool {
	return len(s.Warnings) == 0
}

// parseDomain parses PO content into a gotext domain.
func parseDomain(content string) (*gotext.Domain, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmpty
	}
	p := gotext.NewPo()
	p.Parse([]byte(content))
	return p.GetDomain(), nil
}

// Summarize parses content and reports headers, counts and warnings.
func Summarize(content string) (Summary, error) {
	domain, err := parseDomain(content)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{
		Language:    strings.TrimSpace(domain.Language),
		PluralForms: strings.TrimSpace(domain.PluralForms),
		Warnings:    make([]string, 0),
	}
	if s.Language == "" {
		s.Warnings = append(s.Warnings, "Language header missing")
	}
	if s.PluralForms == "" {
		s.Warnings = append(s.Warnings, "Plural-Forms header missing")
	}

	count := func(id, ctx string, tr *gotext.Translation) {
		s.Total++
		if translated(tr) {
			s.Translated++
			return
		}
		if ctx != "" {
			s.Warnings = append(s.Warnings, fmt.Sprintf("untranslated entry: %s (ctx: %s)", id, ctx))
		} else {
			s.Warnings = append(s.Warnings, fmt.Sprintf("untranslated entry: %s", id))
		}
	}

	translations := domain.GetTranslations()
	delete(translations, "")
	for id, tr := range translations {
		count(id, "", tr)
	}
	for ctx, ctxMap := range domain.GetCtxTranslations() {
		for id, tr := range ctxMap {
			count(id, ctx, tr)
		}
	}

	s.Untranslated = s.Total - s.Translated
	sort.Strings(s.Warnings)
	return s, nil
}

// translated reports whether all plural slots are non-empty.
func translated(tr *gotext.Translation) bool {
	if tr.PluralID == "" {
		return tr.IsTranslated()
	}
	for _, form := range pluralForms(tr) {
		if form == "" {
			return false
		}
	}
	return true
}

// pluralForms returns plural translations in index order, with gaps empty.
func pluralForms(tr *gotext.Translation) []string {
	maxIdx := 0
	for idx := range tr.Trs {
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	forms := make([]string, maxIdx+1)
	for i := range forms {
		forms[i] = tr.Trs[i]
	}
	return forms
}

// ---------------------------------------------------------------------------
// MO compilation
// ---------------------------------------------------------------------------

type moEntry struct {
	id  []byte
	val []byte
}

// Compile converts PO content to a little-endian MO image. Keys are sorted
// so identical input yields identical output.
func Compile(content string) ([]byte, error) {
	domain, err := parseDomain(content)
	if err != nil {
		return nil, err
	}
	return buildMO(domainEntries(domain))
}

func domainEntries(domain *gotext.Domain) []moEntry {
	var entries []moEntry

	translations := domain.GetTranslations()
	if hdr, ok := translations[""]; ok {
		entries = append(entries, moEntry{[]byte(""), []byte(hdr.Get())})
		delete(translations, "")
	}
	for id, tr := range translations {
		if e, ok := entryFor(id, "", tr); ok {
			entries = append(entries, e)
		}
	}
	for ctx, ctxMap := range domain.GetCtxTranslations() {
		for id, tr := range ctxMap {
			if e, ok := entryFor(id, ctx, tr); ok {
				entries = append(entries, e)
			}
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].id, entries[j].id) < 0
	})
	return entries
}

// entryFor builds the MO key/value for a translation. Untranslated entries
// are left out so lookups fall back to the source text.
func entryFor(id, ctx string, tr *gotext.Translation) (moEntry, bool) {
	if !translated(tr) {
		return moEntry{}, false
	}
	key := id
	if ctx != "" {
		key = ctx + "\x04" + key
	}
	if tr.PluralID != "" {
		key += "\x00" + tr.PluralID
		return moEntry{[]byte(key), []byte(strings.Join(pluralForms(tr), "\x00"))}, true
	}
	return moEntry{[]byte(key), []byte(tr.Get())}, true
}

func buildMO(entries []moEntry) ([]byte, error) {
	count := uint32(len(entries))

	origTable := make([]byte, count*8)
	transTable := make([]byte, count*8)

	// Strings start after the header and both tables. Each is NUL terminated.
	curOffset := uint32(moHeaderSize) + count*16
	var data bytes.Buffer

	for i, ent := range entries {
		binary.LittleEndian.PutUint32(origTable[i*8:], uint32(len(ent.id)))
		binary.LittleEndian.PutUint32(origTable[i*8+4:], curOffset)
		data.Write(ent.id)
		data.WriteByte(0)
		curOffset += uint32(len(ent.id)) + 1

		binary.LittleEndian.PutUint32(transTable[i*8:], uint32(len(ent.val)))
		binary.LittleEndian.PutUint32(transTable[i*8+4:], curOffset)
		data.Write(ent.val)
		data.WriteByte(0)
		curOffset += uint32(len(ent.val)) + 1
	}

	out := bytes.NewBuffer(make([]byte, 0, curOffset))
	header := []uint32{
		moMagicLittleEndian,
		0, // revision
		count,
		uint32(moHeaderSize),
		uint32(moHeaderSize) + count*8,
		0, // hash table size
		0, // hash table offset
	}
	for _, v := range header {
		if err := binary.Write(out, binary.LittleEndian, v); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	out.Write(origTable)
	out.Write(transTable)
	out.Write(data.Bytes())
	return out.Bytes(), nil
}
