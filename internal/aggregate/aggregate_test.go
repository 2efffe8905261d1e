package aggregate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobscout/internal/jobs"
	"jobscout/internal/source"
)

// stubSource returns a fixed batch or error from Search.
type stubSource struct {
	name string
	jobs []*jobs.Job
	err  error

	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Search(_ context.Context, _ string, _ []string, _ int) ([]*jobs.Job, error) {
	s.calls++
	return s.jobs, s.err
}

func job(id string) *jobs.Job {
	return &jobs.Job{ID: id, Title: "Job " + id}
}

func TestSearchMergesAndDeduplicates(t *testing.T) {
	t.Parallel()

	e := New([]source.Source{
		&stubSource{name: "a", jobs: []*jobs.Job{job("1"), job("2")}},
		&stubSource{name: "b", jobs: []*jobs.Job{job("2"), job("3")}},
	}, nil, zap.NewNop())

	found := e.Search(context.Background(), "query", nil, 10, 0)

	ids := make(map[string]int)
	for _, j := range found {
		ids[j.ID]++
	}

	require.Len(t, found, 3)
	for id, count := range ids {
		assert.Equal(t, 1, count, "job %s merged more than once", id)
	}
}

func TestSearchSurvivesFailingSource(t *testing.T) {
	t.Parallel()

	e := New([]source.Source{
		&stubSource{name: "broken", err: errors.New("boom")},
		&stubSource{name: "ok", jobs: []*jobs.Job{job("1")}},
	}, nil, zap.NewNop())

	found := e.Search(context.Background(), "query", nil, 10, 0)

	require.Len(t, found, 1)
	assert.Equal(t, "1", found[0].ID)
}

func TestSearchFallbackOnlyWhenEmpty(t *testing.T) {
	t.Parallel()

	fallback := &stubSource{name: "mock", jobs: []*jobs.Job{job("sample")}}
	e := New([]source.Source{
		&stubSource{name: "ok", jobs: []*jobs.Job{job("1")}},
	}, fallback, zap.NewNop())

	found := e.Search(context.Background(), "query", nil, 10, 0)

	require.Len(t, found, 1)
	assert.Equal(t, "1", found[0].ID)
	assert.Zero(t, fallback.calls)
}

func TestSearchFallsBackWhenAllSourcesEmpty(t *testing.T) {
	t.Parallel()

	fallback := &stubSource{name: "mock", jobs: []*jobs.Job{job("sample")}}
	e := New([]source.Source{
		&stubSource{name: "broken", err: errors.New("boom")},
		&stubSource{name: "empty"},
	}, fallback, zap.NewNop())

	found := e.Search(context.Background(), "query", nil, 10, 0)

	require.Len(t, found, 1)
	assert.Equal(t, "sample", found[0].ID)
	assert.Equal(t, 1, fallback.calls)
}

func TestSearchCapsAtMaxJobs(t *testing.T) {
	t.Parallel()

	e := New([]source.Source{
		&stubSource{name: "a", jobs: []*jobs.Job{job("1"), job("2"), job("3"), job("4")}},
	}, nil, zap.NewNop())

	found := e.Search(context.Background(), "query", nil, 10, 2)

	assert.Len(t, found, 2)
}

func TestMergeIdempotent(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	batch := []*jobs.Job{job("1"), job("2")}

	merged := merge(nil, batch, seen)
	merged = merge(merged, batch, seen)

	assert.Len(t, merged, 2)
}
