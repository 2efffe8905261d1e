package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobscout/internal/jobs"
)

func TestFilterAndRank(t *testing.T) {
	t.Parallel()

	s := New(testProfile(), zap.NewNop())

	list := []*jobs.Job{
		{ID: "weak", Title: "Product Designer"},
		{
			ID:          "strong",
			Title:       "Senior Site Reliability Engineer",
			Location:    "Bangalore, India",
			Description: "Kubernetes, Python, 8+ years, incident response",
		},
		{ID: "filtered", Title: "Intern", Description: "Freshers only."},
		{ID: "mid", Title: "DevOps Engineer", Description: "Python."},
	}

	ranked := s.FilterAndRank(list, 0.10)

	require.Len(t, ranked, 3)
	assert.Equal(t, "strong", ranked[0].Job.ID)
	assert.Equal(t, "mid", ranked[1].Job.ID)
	assert.Equal(t, "weak", ranked[2].Job.ID)
}

func TestFilterAndRankThresholdIsInclusive(t *testing.T) {
	t.Parallel()

	s := New(testProfile(), zap.NewNop())

	// A job with no matching signal still floors at 0.10.
	ranked := s.FilterAndRank([]*jobs.Job{{ID: "weak", Title: "Product Designer"}}, 0.10)
	require.Len(t, ranked, 1)
	assert.InDelta(t, 0.10, ranked[0].Score, 1e-9)

	ranked = s.FilterAndRank([]*jobs.Job{{ID: "weak", Title: "Product Designer"}}, 0.2)
	assert.Empty(t, ranked)
}

func TestFilterAndRankStableForEqualScores(t *testing.T) {
	t.Parallel()

	s := New(testProfile(), zap.NewNop())

	ranked := s.FilterAndRank([]*jobs.Job{
		{ID: "first", Title: "Product Designer"},
		{ID: "second", Title: "Product Owner"},
	}, 0.05)

	require.Len(t, ranked, 2)
	assert.Equal(t, "first", ranked[0].Job.ID)
	assert.Equal(t, "second", ranked[1].Job.ID)
}
