// Package aggregate fans a search query out across the active sources and
// merges the results into one deduplicated list.
package aggregate

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"jobscout/internal/jobs"
	"jobscout/internal/source"
)

const fallbackLimit = 15

// Engine owns the per-run worker pool: one goroutine per active source,
// results merged as each source completes. The pool is torn down fully before
// Search returns.
type Engine struct {
	sources  []source.Source
	fallback source.Source
	logger   *zap.Logger
}

// New creates an engine over the active sources. The fallback source is
// consulted only when every source returns empty; it may be nil to disable
// the fallback.
func New(sources []source.Source, fallback source.Source, logger *zap.Logger) *Engine {
	return &Engine{
		sources:  sources,
		fallback: fallback,
		logger:   logger,
	}
}

type result struct {
	name string
	jobs []*jobs.Job
}

// Search queries every source concurrently and returns the merged,
// deduplicated list capped at maxJobs. Completion order is not deterministic;
// the first arrival of each id wins. A failing or slow source only costs its
// own results.
func (e *Engine) Search(ctx context.Context, query string, locations []string, perSource, maxJobs int) []*jobs.Job {
	e.logger.Info("searching sources in parallel", zap.Int("sources", len(e.sources)))

	results := make(chan result)
	var wg sync.WaitGroup

	for _, src := range e.sources {
		wg.Add(1)
		go func(src source.Source) {
			defer wg.Done()

			found, err := src.Search(ctx, query, locations, perSource)
			if err != nil {
				e.logger.Error("source failed", zap.String("source", src.Name()), zap.Error(err))
				found = nil
			}
			results <- result{name: src.Name(), jobs: found}
		}(src)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var merged []*jobs.Job
	seen := make(map[string]struct{})

	for res := range results {
		e.logger.Info("source returned", zap.String("source", res.name), zap.Int("count", len(res.jobs)))
		merged = merge(merged, res.jobs, seen)
	}

	e.logger.Info("total unique jobs from sources", zap.Int("count", len(merged)))

	if len(merged) == 0 && e.fallback != nil {
		e.logger.Warn("no jobs from any source, falling back to samples",
			zap.String("source", e.fallback.Name()),
		)
		sample, err := e.fallback.Search(ctx, query, locations, fallbackLimit)
		if err == nil {
			merged = merge(merged, sample, seen)
		}
	}

	list := &jobs.Jobs{Items: merged}
	list.Truncate(maxJobs)

	return list.Items
}

// merge appends batch onto list, keeping the first-seen job per id. Merging
// is idempotent: repeating the same batch changes nothing.
func merge(list []*jobs.Job, batch []*jobs.Job, seen map[string]struct{}) []*jobs.Job {
	for _, job := range batch {
		if _, ok := seen[job.ID]; ok {
			continue
		}
		seen[job.ID] = struct{}{}
		list = append(list, job)
	}
	return list
}
