package translate

import (
	"context"
	"fmt"

	"github.com/minios-linux/potrans/exclude"
	"github.com/minios-linux/potrans/fixup"
	"github.com/minios-linux/potrans/pofile"
	"github.com/minios-linux/potrans/usage"
)

// slot is one output entry. Entries are written strictly in slot order; a
// slot becomes ready once its msgstr values are known.
type slot struct {
	rec      *pofile.Record
	ready    bool
	singular string
	plural   string
}

type pipeline struct {
	opts      Options
	tr        Translator
	target    Target
	set       *exclude.Set
	slots     int
	batchSize int
	meter     *usage.Meter
	w         *pofile.Writer

	queue []*slot
	next  int
	batch []*slot

	total int
	done  int
	stats Stats
}

// process walks records in order, passing excluded ones through and
// batching the rest. The final partial batch is flushed before returning.
func (p *pipeline) process(ctx context.Context, records []*pofile.Record) error {
	for _, rec := range records {
		s := &slot{rec: rec}
		p.queue = append(p.queue, s)

		if p.passThrough(s) {
			p.stats.PassedThrough++
			p.done++
			p.emitReady()
			continue
		}

		p.batch = append(p.batch, s)
		if len(p.batch) >= p.batchSize {
			if err := p.flush(ctx); err != nil {
				return err
			}
		}
	}
	return p.flush(ctx)
}

// passThrough resolves boilerplate, excluded and empty entries without a
// request.
func (p *pipeline) passThrough(s *slot) bool {
	rec := s.rec
	if rec.ID != "" && !rec.Skip && !exclude.IsExcluded(rec.ID, p.set) {
		return false
	}

	if rec.IsPlural() {
		s.singular, s.plural = rec.RawID, rec.RawPlural
	} else if cased, ok := p.set.Lookup(rec.ID); ok && !rec.Skip {
		s.singular = pofile.Escape(cased)
	} else {
		s.singular = rec.RawID
	}
	s.ready = true
	return true
}

// flush sends the pending batch. Singular texts of every entry go in one
// request; plural texts of the plural entries go in a second one.
func (p *pipeline) flush(ctx context.Context) error {
	if len(p.batch) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	texts := make([]string, len(p.batch))
	var pluralIdx []int
	var pluralTexts []string
	for i, s := range p.batch {
		texts[i] = s.rec.ID
		if s.rec.IsPlural() {
			pluralIdx = append(pluralIdx, i)
			pluralTexts = append(pluralTexts, s.rec.Plural)
		}
	}

	out, err := p.call(ctx, texts)
	if err != nil {
		return err
	}
	var pluralOut []string
	if len(pluralTexts) > 0 {
		if pluralOut, err = p.call(ctx, pluralTexts); err != nil {
			return err
		}
	}

	for i, s := range p.batch {
		s.singular = fixup.Fix(s.rec.ID, out[i], p.set)
	}
	for j, i := range pluralIdx {
		s := p.batch[i]
		s.plural = fixup.Fix(s.rec.Plural, pluralOut[j], p.set)
	}
	for _, s := range p.batch {
		s.ready = true
		if s.singular != "" {
			p.stats.Translated++
		}
	}

	p.done += len(p.batch)
	p.batch = p.batch[:0]
	p.emitReady()
	p.opts.progress(p.done, p.total)
	return nil
}

func (p *pipeline) call(ctx context.Context, texts []string) ([]string, error) {
	p.stats.Requests++
	out, err := p.tr.Translate(ctx, texts, p.target)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTranslator, p.target.Locale, err)
	}
	if len(out) != len(texts) {
		return nil, fmt.Errorf("%w: sent %d texts, got %d", ErrLengthMismatch, len(texts), len(out))
	}
	u := p.meter.RecordBatch(texts, out)
	p.stats.Usage = p.stats.Usage.Add(u)
	return out, nil
}

// emitReady writes every ready slot at the head of the queue.
func (p *pipeline) emitReady() {
	for p.next < len(p.queue) && p.queue[p.next].ready {
		s := p.queue[p.next]
		if s.rec.IsPlural() {
			p.w.WritePlural(s.rec, s.singular, s.plural, p.slots)
		} else {
			p.w.WriteSingular(s.rec, s.singular)
		}
		p.queue[p.next] = nil
		p.next++
	}
}
