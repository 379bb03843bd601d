package translate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/minios-linux/potrans/pofile"
	"github.com/minios-linux/potrans/usage"
)

type stubTranslator struct {
	mu    sync.Mutex
	calls [][]string
	fn    func(call int, texts []string, target Target) ([]string, error)
}

func (s *stubTranslator) Translate(_ context.Context, texts []string, target Target) ([]string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, append([]string(nil), texts...))
	call := len(s.calls)
	s.mu.Unlock()

	if s.fn != nil {
		return s.fn(call, texts, target)
	}
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = "T:" + t
	}
	return out, nil
}

func (s *stubTranslator) numCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func fixedClock() time.Time {
	return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
}

func baseOptions(locale string) Options {
	return Options{
		Locale:     locale,
		SourceName: "acme.pot",
		Now:        fixedClock,
	}
}

func TestRunHelloPlaceholderFrench(t *testing.T) {
	tr := &stubTranslator{fn: func(_ int, texts []string, target Target) ([]string, error) {
		assert.Equal(t, "fr_FR", target.Locale)
		assert.Equal(t, "French (France)", target.Name)
		return []string{"Bonjour"}, nil
	}}

	res, err := Run(context.Background(), "msgid \"Hello %1$s\"\nmsgstr \"\"\n", tr, baseOptions("fr_FR"))
	require.NoError(t, err)

	assert.Contains(t, res.Content, `msgstr "Bonjour %1$s"`)
	assert.Contains(t, res.Content, `"Plural-Forms: nplurals=2; plural=(n > 1);\n"`)
	assert.Contains(t, res.Content, `"PO-Revision-Date: 2024-01-02 03:04:05+0000\n"`)
	assert.Contains(t, res.Content, "# Translation of Plugins - Acme in French (France)")
	assert.True(t, strings.HasPrefix(res.Content, "# Translation of Plugins - Acme"))
	assert.Equal(t, 1, res.Stats.Translated)
	assert.Equal(t, 1, res.Stats.Requests)
}

func TestRunProductNameIsNeverTranslated(t *testing.T) {
	tr := &stubTranslator{fn: func(_ int, texts []string, _ Target) ([]string, error) {
		for _, text := range texts {
			if strings.EqualFold(text, "acme") {
				t.Errorf("excluded text %q sent to translator", text)
			}
		}
		return texts, nil
	}}
	content := "#. Name of the product\nmsgid \"acme\"\nmsgstr \"\"\n\nmsgid \"Welcome\"\nmsgstr \"\"\n"

	res, err := Run(context.Background(), content, tr, baseOptions("fr_FR"))
	require.NoError(t, err)
	assert.Contains(t, res.Content, "msgid \"acme\"\nmsgstr \"Acme\"\n")
	assert.Equal(t, 1, res.Stats.PassedThrough)
	assert.Equal(t, 1, tr.numCalls())
}

func TestRunFullyExcludedCatalogRoundTrips(t *testing.T) {
	content := strings.Join([]string{
		`msgid ""`,
		`msgstr ""`,
		`"Project-Id-Version: Acme\n"`,
		``,
		`#: a.php:1`,
		`msgid "https://acme.example.com"`,
		`msgstr ""`,
		``,
		`msgid "%s"`,
		`msgstr ""`,
		``,
		`msgid "x"`,
		`msgstr ""`,
		``,
		`msgid "%d widget"`,
		`msgid_plural "%d widgets"`,
		`msgstr[0] ""`,
		`msgstr[1] ""`,
		``,
	}, "\n")
	opts := baseOptions("de_DE")
	opts.Exclusions = []string{"%d widget"}
	tr := &stubTranslator{}

	res, err := Run(context.Background(), content, tr, opts)
	require.NoError(t, err)
	assert.Zero(t, tr.numCalls())

	records := pofile.ScanAll(res.Content)
	require.Len(t, records, 5)
	assert.Equal(t, pofile.KindHeader, records[0].Kind)

	lines := pofile.SplitLines(res.Content)
	for _, rec := range records[1:] {
		idx := rec.Line - 1
		if rec.IsPlural() {
			assert.Equal(t, `msgstr[0] "`+rec.RawID+`"`, lines[idx+2])
			assert.Equal(t, `msgstr[1] "`+rec.RawPlural+`"`, lines[idx+3])
			continue
		}
		assert.Equal(t, `msgstr "`+rec.RawID+`"`, lines[idx+1])
	}
}

func TestRunProviderFailureStopsRun(t *testing.T) {
	boom := errors.New("status 500")
	tr := &stubTranslator{fn: func(call int, texts []string, _ Target) ([]string, error) {
		if call == 2 {
			return nil, boom
		}
		return texts, nil
	}}
	content := "msgid \"One\"\nmsgstr \"\"\n\nmsgid \"Two\"\nmsgstr \"\"\n\nmsgid \"Three\"\nmsgstr \"\"\n"
	opts := baseOptions("fr_FR")
	opts.BatchSize = 1

	var progress []int
	opts.OnProgress = func(_ string, done, _ int) { progress = append(progress, done) }

	res, err := Run(context.Background(), content, tr, opts)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrTranslator)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, tr.numCalls(), "no request may follow a failed batch")
	assert.Equal(t, []int{1}, progress)
}

func TestRunLengthMismatch(t *testing.T) {
	tr := &stubTranslator{fn: func(_ int, _ []string, _ Target) ([]string, error) {
		return []string{"a", "b"}, nil
	}}
	_, err := Run(context.Background(), "msgid \"One\"\nmsgstr \"\"\n", tr, baseOptions("fr_FR"))
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestRunUnsupportedLocaleMakesNoCall(t *testing.T) {
	tr := &stubTranslator{}
	_, err := Run(context.Background(), "msgid \"One\"\nmsgstr \"\"\n", tr, baseOptions("xx_YY"))
	assert.ErrorIs(t, err, ErrUnsupportedLocale)
	assert.Zero(t, tr.numCalls())

	opts := baseOptions("xx_YY")
	opts.LanguageName = "Xish"
	_, err = Run(context.Background(), "msgid \"One\"\nmsgstr \"\"\n", tr, opts)
	assert.NoError(t, err)
}

const pluralContent = `#: a.php:1
#. translators: number of files
#: a.php:2
#, php-format
msgid "%d file"
msgid_plural "%d files"
msgstr[0] ""
msgstr[1] ""
`

func TestRunPluralSlotCount(t *testing.T) {
	tr := &stubTranslator{fn: func(call int, texts []string, _ Target) ([]string, error) {
		if call == 1 {
			return []string{"%d файл"}, nil
		}
		return []string{"%d файлов"}, nil
	}}
	res, err := Run(context.Background(), pluralContent, tr, baseOptions("ru_RU"))
	require.NoError(t, err)

	assert.Equal(t, 2, tr.numCalls())
	assert.Equal(t, []string{"%d file"}, tr.calls[0])
	assert.Equal(t, []string{"%d files"}, tr.calls[1])

	assert.Contains(t, res.Content, "#. translators: number of files\n#: a.php:2\nmsgid \"%d file\"\nmsgid_plural \"%d files\"\n"+
		"msgstr[0] \"%d файл\"\nmsgstr[1] \"%d файлов\"\nmsgstr[2] \"%d файлов\"\n")
	assert.NotContains(t, res.Content, "#: a.php:1")
	assert.NotContains(t, res.Content, "#, php-format")
	assert.Equal(t, 3, strings.Count(res.Content, "msgstr["))
}

func TestRunPluralTableOverride(t *testing.T) {
	opts := baseOptions("fr_FR")
	opts.PluralTable = pofile.DefaultPluralTable().Merge(map[string]string{
		"fr_FR": "nplurals=3; plural=(n==0 ? 0 : n==1 ? 1 : 2);",
	})
	res, err := Run(context.Background(), pluralContent, &stubTranslator{}, opts)
	require.NoError(t, err)
	assert.Contains(t, res.Content, `"Plural-Forms: nplurals=3; plural=(n==0 ? 0 : n==1 ? 1 : 2);\n"`)
	assert.Equal(t, 3, strings.Count(res.Content, "msgstr["))
}

func numberedCatalog(n int) string {
	var b strings.Builder
	words := []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot", "Golf", "Hotel", "India"}
	for i := 0; i < n; i++ {
		b.WriteString("#: file.php:" + string(rune('1'+i)) + "\n")
		b.WriteString("msgid \"" + words[i%len(words)] + " item\"\nmsgstr \"\"\n\n")
	}
	return b.String()
}

func TestRunBatchingIdempotence(t *testing.T) {
	content := numberedCatalog(7)

	single := baseOptions("de_DE")
	single.BatchSize = 7
	one := &stubTranslator{}
	want, err := Run(context.Background(), content, one, single)
	require.NoError(t, err)
	assert.Equal(t, 1, one.numCalls())

	split := baseOptions("de_DE")
	split.BatchSize = 2
	many := &stubTranslator{}
	got, err := Run(context.Background(), content, many, split)
	require.NoError(t, err)
	assert.Equal(t, 4, many.numCalls())

	assert.Equal(t, want.Content, got.Content)
}

func TestRunDefaultBatchSize(t *testing.T) {
	tr := &stubTranslator{}
	_, err := Run(context.Background(), numberedCatalog(9)+numberedCatalog(3), tr, baseOptions("de_DE"))
	require.NoError(t, err)
	require.Equal(t, 2, tr.numCalls())
	assert.Len(t, tr.calls[0], DefaultBatchSize)
	assert.Len(t, tr.calls[1], 2)
}

func TestRunKeepsSourceOrderAroundExcludedEntries(t *testing.T) {
	content := "msgid \"One\"\nmsgstr \"\"\n\nmsgid \"https://example.com\"\nmsgstr \"\"\n\n" +
		pluralContent + "\nmsgid \"Two\"\nmsgstr \"\"\n"
	res, err := Run(context.Background(), content, &stubTranslator{}, baseOptions("fr_FR"))
	require.NoError(t, err)

	one := strings.Index(res.Content, `msgstr "T:One"`)
	url := strings.Index(res.Content, `msgstr "https://example.com"`)
	plural := strings.Index(res.Content, `msgid_plural "%d files"`)
	two := strings.Index(res.Content, `msgstr "T:Two"`)
	require.True(t, one > 0 && url > 0 && plural > 0 && two > 0, res.Content)
	assert.True(t, one < url && url < plural && plural < two, "entries out of order:\n%s", res.Content)
}

func TestRunGroupPlurals(t *testing.T) {
	content := pluralContent + "\nmsgid \"Two\"\nmsgstr \"\"\n"
	opts := baseOptions("fr_FR")
	opts.GroupPlurals = true
	res, err := Run(context.Background(), content, &stubTranslator{}, opts)
	require.NoError(t, err)

	two := strings.Index(res.Content, `msgstr "T:Two"`)
	plural := strings.Index(res.Content, `msgid_plural "%d files"`)
	assert.True(t, two > 0 && plural > two, res.Content)
}

func TestRunSkipMarkersPassThrough(t *testing.T) {
	content := "#. Plugin Name of the plugin\nmsgid \"Contact Widgets\"\nmsgstr \"\"\n\n" +
		"#. Author of the plugin\nmsgid \"Jane Doe\"\nmsgstr \"\"\n\nmsgid \"Send\"\nmsgstr \"\"\n"
	tr := &stubTranslator{}
	res, err := Run(context.Background(), content, tr, baseOptions("fr_FR"))
	require.NoError(t, err)

	assert.Contains(t, res.Content, "msgid \"Contact Widgets\"\nmsgstr \"Contact Widgets\"\n")
	assert.Contains(t, res.Content, "msgid \"Jane Doe\"\nmsgstr \"Jane Doe\"\n")
	assert.Contains(t, res.Content, `msgstr "T:Send"`)
	require.Equal(t, 1, tr.numCalls())
	assert.Equal(t, []string{"Send"}, tr.calls[0])
}

func TestRunEscapesTranslatedQuotes(t *testing.T) {
	tr := &stubTranslator{fn: func(_ int, _ []string, _ Target) ([]string, error) {
		return []string{"Cliquez sur «Envoyer»\net attendez"}, nil
	}}
	res, err := Run(context.Background(), "msgid \"Click \\\"Send\\\"\\nand wait\"\nmsgstr \"\"\n", tr, baseOptions("fr_FR"))
	require.NoError(t, err)
	assert.Contains(t, res.Content, `msgstr "Cliquez sur \"Envoyer\"\net attendez"`)
	assert.Equal(t, "Click \"Send\"\nand wait", tr.calls[0][0])
}

func TestRunKeepsEdgeNewlines(t *testing.T) {
	content := "msgid \"Say \\\"hi\\\"\\n\"\nmsgstr \"\"\n\nmsgid \"\\nUsage: %1$s\"\nmsgstr \"\"\n"
	tr := &stubTranslator{}
	res, err := Run(context.Background(), content, tr, baseOptions("fr_FR"))
	require.NoError(t, err)

	assert.Contains(t, res.Content, "msgstr \"T:Say \\\"hi\\\"\\n\"\n")
	assert.Contains(t, res.Content, "msgstr \"T:\\nUsage: %1$s\"\n")
	assert.NotContains(t, res.Content, `\n "`)
	assert.NotContains(t, res.Content, `" T:`)
}

func TestRunDropsUnterminatedEntryWithItsComments(t *testing.T) {
	content := strings.Join([]string{
		`#. Author of the plugin`,
		`msgid "Dangling"`,
		``,
		`#: src/a.php:3`,
		`msgid "Save changes"`,
		`msgstr ""`,
		``,
	}, "\n")
	tr := &stubTranslator{}
	res, err := Run(context.Background(), content, tr, baseOptions("fr_FR"))
	require.NoError(t, err)

	assert.Contains(t, res.Content, "#: src/a.php:3\nmsgid \"Save changes\"\nmsgstr \"T:Save changes\"\n")
	assert.NotContains(t, res.Content, "Dangling")
	assert.NotContains(t, res.Content, "Author of the plugin")
	assert.Equal(t, 1, res.Stats.Translated)
	assert.Equal(t, 0, res.Stats.PassedThrough)
	assert.Equal(t, 1, tr.numCalls())
}

func TestRunKeepsContextedEmptyMsgid(t *testing.T) {
	content := "msgctxt \"toolbar\"\nmsgid \"\"\nmsgstr \"\"\n\nmsgid \"Send\"\nmsgstr \"\"\n"
	tr := &stubTranslator{}
	res, err := Run(context.Background(), content, tr, baseOptions("fr_FR"))
	require.NoError(t, err)

	assert.Contains(t, res.Content, "msgctxt \"toolbar\"\nmsgid \"\"\nmsgstr \"\"\n")
	assert.Equal(t, 2, res.Stats.Entries)
	assert.Equal(t, 1, res.Stats.PassedThrough)
	require.Equal(t, 1, tr.numCalls())
	assert.Equal(t, []string{"Send"}, tr.calls[0])
}

func TestRunUsageAccounting(t *testing.T) {
	meter := usage.NewMeter(nil, usage.Pricing{InputPerMillion: 5, OutputPerMillion: 15})
	opts := baseOptions("fr_FR")
	opts.Meter = meter
	tr := &stubTranslator{fn: func(_ int, _ []string, _ Target) ([]string, error) {
		return []string{"Bonjour le monde"}, nil
	}}
	res, err := Run(context.Background(), "msgid \"Hello world\"\nmsgstr \"\"\n", tr, opts)
	require.NoError(t, err)

	assert.Equal(t, usage.Usage{InputTokens: 2, OutputTokens: 3}, res.Stats.Usage)
	assert.Equal(t, res.Stats.Usage, meter.Totals())
	assert.InDelta(t, 2.0/1e6*5+3.0/1e6*15, res.Stats.Cost, 1e-12)
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "acme-fr_FR.po", OutputName("acme.pot", "fr_FR"))
	assert.Equal(t, "acme-de_DE.po", OutputName("/tmp/lang/acme.po", "de_DE"))
	assert.Equal(t, "acme-es.po", OutputName("acme", "es"))
}

func TestTranslateAllAggregatesFailures(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		name := "sequential"
		if parallel {
			name = "parallel"
		}
		t.Run(name, func(t *testing.T) {
			tr := &stubTranslator{fn: func(_ int, texts []string, target Target) ([]string, error) {
				if target.Locale == "de_DE" {
					return nil, errors.New("quota exceeded")
				}
				return texts, nil
			}}
			opts := baseOptions("")
			opts.Parallel = parallel
			opts.MaxConcurrent = 2
			tasks := []LangTask{{Locale: "fr_FR"}, {Locale: "de_DE"}, {Locale: "xx_YY"}, {Locale: "es_ES"}}

			results, err := TranslateAll(context.Background(), "msgid \"Save\"\nmsgstr \"\"\n", tasks, tr, opts)
			require.Error(t, err)
			require.Len(t, results, 4)

			assert.NotNil(t, results[0])
			assert.Nil(t, results[1])
			assert.Nil(t, results[2])
			assert.NotNil(t, results[3])
			assert.Equal(t, "es_ES", results[3].Target.Locale)

			errs := multierr.Errors(err)
			assert.Len(t, errs, 2)
			assert.ErrorIs(t, err, ErrTranslator)
			assert.ErrorIs(t, err, ErrUnsupportedLocale)
			assert.Contains(t, err.Error(), "de_DE")
		})
	}
}
