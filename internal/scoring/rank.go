package scoring

import (
	"sort"

	"go.uber.org/zap"

	"jobscout/internal/jobs"
)

// FilterAndRank scores every job, keeps those at or above minScore, and sorts
// the survivors by score descending. The sort is stable so equal scores keep
// their insertion order.
func (s *Scorer) FilterAndRank(list []*jobs.Job, minScore float64) []*jobs.ScoredJob {
	ranked := make([]*jobs.ScoredJob, 0, len(list))
	for _, job := range list {
		scored := s.Score(job)
		if scored.Score >= minScore {
			ranked = append(ranked, scored)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if s.logger != nil {
		s.logger.Info("scored jobs",
			zap.Int("total", len(list)),
			zap.Int("above_threshold", len(ranked)),
			zap.Float64("min_score", minScore),
		)
	}

	return ranked
}
