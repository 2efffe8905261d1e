// Package source normalizes heterogeneous job providers behind a single
// search capability. Adapters swallow provider failures: a broken or
// unauthorized provider yields an empty result, never an aborted run.
package source

import (
	"context"
	"encoding/json"

	"jobscout/internal/jobs"
)

// Source is the capability every provider adapter implements.
type Source interface {
	Name() string
	Search(ctx context.Context, query string, locations []string, limit int) ([]*jobs.Job, error)
}

// dedup appends batch onto list, skipping ids already seen.
func dedup(list []*jobs.Job, batch []*jobs.Job, seen map[string]struct{}) []*jobs.Job {
	for _, job := range batch {
		if _, ok := seen[job.ID]; ok {
			continue
		}
		seen[job.ID] = struct{}{}
		list = append(list, job)
	}
	return list
}

func capAt(list []*jobs.Job, limit int) []*jobs.Job {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}

// rawMap preserves the provider's original payload on the job. The core never
// interprets it.
func rawMap(raw []byte) map[string]any {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
