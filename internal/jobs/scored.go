package jobs

// ScoredJob pairs a job with its evaluation against the candidate profile.
// A zero score with no match reasons marks a hard-filtered job; jobs with any
// weak signal are floored above zero by the scorer instead.
type ScoredJob struct {
	Job                *Job     `json:"job"`
	Score              float64  `json:"score"`
	MatchReasons       []string `json:"match_reasons"`
	KeywordSuggestions []string `json:"keyword_suggestions"`
}
