package translate

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// LangTask is one target locale of a multi-language run.
type LangTask struct {
	Locale string
	// LanguageName overrides display-name resolution for this locale.
	LanguageName string
}

// TranslateAll runs one independent pipeline per task over the same source
// content. Locales run one after another unless opts.Parallel is set.
//
// A failing locale does not stop the others. The returned slice is aligned
// with tasks and holds nil for failed locales; the error combines every
// per-locale failure.
func TranslateAll(ctx context.Context, content string, tasks []LangTask, tr Translator, opts Options) ([]*Result, error) {
	results := make([]*Result, len(tasks))
	if opts.Parallel && len(tasks) > 1 {
		return results, translateParallel(ctx, content, tasks, tr, opts, results)
	}
	return results, translateSequential(ctx, content, tasks, tr, opts, results)
}

func taskOptions(opts Options, task LangTask) Options {
	o := opts
	o.Locale = task.Locale
	o.LanguageName = task.LanguageName
	return o
}

// translateSequential processes languages one at a time.
func translateSequential(ctx context.Context, content string, tasks []LangTask, tr Translator, opts Options, results []*Result) error {
	var errs error
	for i, task := range tasks {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		res, err := Run(ctx, content, tr, taskOptions(opts, task))
		if err != nil {
			opts.log("Error translating %s: %v", task.Locale, err)
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", task.Locale, err))
			continue
		}
		results[i] = res
	}
	return errs
}

// translateParallel runs up to MaxConcurrent locales at once. Each run owns
// its scanner output and writer; only the source text is shared.
func translateParallel(ctx context.Context, content string, tasks []LangTask, tr Translator, opts Options, results []*Result) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs error
	)
	g.SetLimit(opts.effectiveMaxConcurrent())

	for i, task := range tasks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", task.Locale, err))
				mu.Unlock()
				return nil
			}
			res, err := Run(ctx, content, tr, taskOptions(opts, task))
			if err != nil {
				opts.log("Error translating %s: %v", task.Locale, err)
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", task.Locale, err))
				mu.Unlock()
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()
	return errs
}
