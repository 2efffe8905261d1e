package source

import (
	"go.uber.org/zap"

	"jobscout/internal/profile"
	"jobscout/internal/secrets"
)

// Active constructs the ordered list of source adapters for a run. A source
// activates only when its required credentials are present; the free Remotive
// board activates for remote-friendly profiles. When nothing activates the
// deterministic mock adapter is the sole source, so the pipeline never runs
// with an empty source list.
func Active(p *profile.Profile, creds secrets.Provider, logger *zap.Logger) []Source {
	var sources []Source

	if creds.Get(JSearchKeyEnv) != "" {
		sources = append(sources, NewJSearch(p, creds, logger))
		logger.Info("registered source", zap.String("source", "jsearch"))
	}

	if creds.Get(SerpAPIKeyEnv) != "" {
		sources = append(sources, NewSerpAPI(p, creds, logger))
		logger.Info("registered source", zap.String("source", "serpapi"))
	}

	if creds.Get(AdzunaAppIDEnv) != "" && creds.Get(AdzunaAppKeyEnv) != "" {
		sources = append(sources, NewAdzuna(p, creds, logger))
		logger.Info("registered source", zap.String("source", "adzuna"))
	}

	if creds.Get(LinkedInKeyEnv) != "" {
		sources = append(sources, NewLinkedIn(p, creds, logger))
		logger.Info("registered source", zap.String("source", "linkedin"))
	}

	if p.WantsRemote() {
		sources = append(sources, NewRemotive(p, logger))
		logger.Info("registered source", zap.String("source", "remotive"))
	}

	if len(sources) == 0 {
		sources = append(sources, NewMock(p))
		logger.Info("no source credentials found, using the mock source")
	}

	return sources
}
