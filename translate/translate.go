// Package translate runs the catalog translation pipeline: it scans a
// PO/POT document, passes excluded entries through, sends the rest to a
// Translator in fixed-size batches, repairs the results and rewrites a
// complete PO document for the target locale.
package translate

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/minios-linux/potrans/exclude"
	"github.com/minios-linux/potrans/langmeta"
	"github.com/minios-linux/potrans/pofile"
	"github.com/minios-linux/potrans/usage"
)

// DefaultBatchSize is used when Options.BatchSize is not positive.
const DefaultBatchSize = 10

var (
	// ErrUnsupportedLocale is returned when no display name exists for the
	// target locale. No translation request is made in that case.
	ErrUnsupportedLocale = errors.New("unsupported target locale")
	// ErrTranslator wraps failures reported by the Translator.
	ErrTranslator = errors.New("translator failed")
	// ErrLengthMismatch is returned when the Translator returns a different
	// number of texts than it was given.
	ErrLengthMismatch = errors.New("translation count mismatch")
)

// ---------------------------------------------------------------------------
// Translator contract
// ---------------------------------------------------------------------------

// Target identifies the language texts are translated into.
type Target struct {
	// Locale is the code as given by the user (e.g. "fr_FR").
	Locale string
	// Name is the English display name used in prompts (e.g. "French (France)").
	Name string
}

// Translator translates a list of texts. The result must have the same
// length and order as texts.
type Translator interface {
	Translate(ctx context.Context, texts []string, target Target) ([]string, error)
}

// TranslatorFunc adapts a function to the Translator interface.
type TranslatorFunc func(ctx context.Context, texts []string, target Target) ([]string, error)

func (f TranslatorFunc) Translate(ctx context.Context, texts []string, target Target) ([]string, error) {
	return f(ctx, texts, target)
}

// NameResolver maps locale codes to display names.
type NameResolver interface {
	Name(locale string) (string, bool)
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Options controls one pipeline run. The zero value is usable apart from
// Locale, which is required.
type Options struct {
	// Locale is the target locale code (e.g. "fr_FR").
	Locale string
	// LanguageName overrides display-name resolution when set.
	LanguageName string
	// Names resolves display names; nil means the built-in registry.
	Names NameResolver
	// BatchSize is the number of entries per translation request (default 10).
	BatchSize int
	// Exclusions are terms passed through untranslated.
	Exclusions []string
	// SourceName is the input file name; the product name is derived from it.
	SourceName string
	// ProductName overrides the name derived from SourceName.
	ProductName string
	// PluralTable maps locales to plural rules; nil means DefaultPluralTable.
	PluralTable pofile.PluralTable
	// Generator is the X-Generator header value.
	Generator string
	// Now supplies the revision timestamp; nil means time.Now.
	Now func() time.Time
	// Meter accumulates token usage. When nil a private meter is created
	// from Counter and Pricing.
	Meter *usage.Meter
	// Counter estimates tokens; nil means usage.WordCounter.
	Counter usage.Counter
	// Pricing overrides usage.DefaultPricing.
	Pricing *usage.Pricing
	// GroupPlurals writes all singular entries before all plural entries
	// instead of keeping source order.
	GroupPlurals bool

	// Parallel runs locales concurrently in TranslateAll.
	Parallel bool
	// MaxConcurrent bounds parallel locale runs (default 3).
	MaxConcurrent int

	// OnProgress is called after each batch with resolved/total entry counts.
	OnProgress func(lang string, done, total int)
	// OnLog emits log messages during translation.
	OnLog func(format string, args ...any)
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) progress(done, total int) {
	if o.OnProgress != nil {
		o.OnProgress(o.Locale, done, total)
	}
}

func (o *Options) effectiveBatchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return DefaultBatchSize
}

func (o *Options) effectiveMaxConcurrent() int {
	if o.MaxConcurrent > 0 {
		return o.MaxConcurrent
	}
	return 3
}

func (o *Options) effectivePluralTable() pofile.PluralTable {
	if o.PluralTable != nil {
		return o.PluralTable
	}
	return pofile.DefaultPluralTable()
}

func (o *Options) effectiveMeter() *usage.Meter {
	if o.Meter != nil {
		return o.Meter
	}
	pricing := usage.DefaultPricing()
	if o.Pricing != nil {
		pricing = *o.Pricing
	}
	return usage.NewMeter(o.Counter, pricing)
}

func (o *Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o *Options) productName() string {
	if o.ProductName != "" {
		return o.ProductName
	}
	return exclude.ProductName(o.SourceName)
}

// ResolveTarget determines the display name of the target locale.
func (o *Options) ResolveTarget() (Target, error) {
	locale := strings.TrimSpace(o.Locale)
	if locale == "" {
		return Target{}, fmt.Errorf("%w: empty locale", ErrUnsupportedLocale)
	}
	if o.LanguageName != "" {
		return Target{Locale: locale, Name: o.LanguageName}, nil
	}
	names := o.Names
	if names == nil {
		names = langmeta.NewResolver(nil)
	}
	name, ok := names.Name(locale)
	if !ok || name == "" {
		return Target{}, fmt.Errorf("%w: %s", ErrUnsupportedLocale, locale)
	}
	return Target{Locale: locale, Name: name}, nil
}

// ---------------------------------------------------------------------------
// Results
// ---------------------------------------------------------------------------

// Stats summarizes one run.
type Stats struct {
	// Entries is the number of catalog entries, header excluded.
	Entries int
	// Translated counts entries filled from translator output.
	Translated int
	// PassedThrough counts excluded and boilerplate entries.
	PassedThrough int
	// Requests is the number of translator calls.
	Requests int
	// Usage is the estimated token usage of this run.
	Usage usage.Usage
	// Cost is the estimated cost of this run in USD.
	Cost float64
}

// Result is the output of a successful run.
type Result struct {
	Target  Target
	Content string
	Stats   Stats
}

// OutputName derives the output file name for a locale:
// "acme.pot" and "fr_FR" give "acme-fr_FR.po".
func OutputName(source, locale string) string {
	base := filepath.Base(source)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base + "-" + locale + ".po"
}

// ---------------------------------------------------------------------------
// Single-locale run
// ---------------------------------------------------------------------------

// Run translates content into opts.Locale. On any translator failure the
// run stops, no further request is made and no output is returned.
func Run(ctx context.Context, content string, tr Translator, opts Options) (*Result, error) {
	target, err := opts.ResolveTarget()
	if err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, fmt.Errorf("%w: no translator configured", ErrTranslator)
	}

	set := exclude.NewSet(opts.Exclusions...)
	product := opts.productName()
	set.Add(product)

	rule := opts.effectivePluralTable().Lookup(target.Locale)

	p := &pipeline{
		opts:      opts,
		tr:        tr,
		target:    target,
		set:       set,
		slots:     rule.Slots(),
		batchSize: opts.effectiveBatchSize(),
		meter:     opts.effectiveMeter(),
		w:         pofile.NewWriter(),
	}
	p.w.WriteHeader(pofile.Header{
		ProductName:  product,
		LanguageName: target.Name,
		Locale:       target.Locale,
		PluralForms:  rule.Expr,
		Generator:    opts.Generator,
		Revision:     opts.now(),
	})

	var singular, plural []*pofile.Record
	var all []*pofile.Record
	for _, rec := range pofile.ScanAll(content) {
		switch rec.Kind {
		case pofile.KindHeader:
			continue
		case pofile.KindPlural:
			plural = append(plural, rec)
		default:
			singular = append(singular, rec)
		}
		all = append(all, rec)
	}
	p.total = len(all)
	p.stats.Entries = p.total

	opts.log("Translating %s (%s): %d entries, batch size %d", target.Locale, target.Name, p.total, p.batchSize)

	if opts.GroupPlurals {
		if err := p.process(ctx, singular); err != nil {
			return nil, err
		}
		p.w.Apply(pofile.PruneStrayPlural)
		if err := p.process(ctx, plural); err != nil {
			return nil, err
		}
	} else if err := p.process(ctx, all); err != nil {
		return nil, err
	}

	p.stats.Cost = p.meter.Pricing().Cost(p.stats.Usage.InputTokens, p.stats.Usage.OutputTokens)
	opts.progress(p.done, p.total)
	return &Result{Target: target, Content: p.w.String(), Stats: p.stats}, nil
}
