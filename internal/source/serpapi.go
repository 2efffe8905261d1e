package source

import (
	"context"
	"encoding/json"
	"net/url"

	"go.uber.org/zap"

	"jobscout/internal/jobs"
	"jobscout/internal/profile"
	"jobscout/internal/secrets"
)

const (
	serpapiURL = "https://serpapi.com/search"

	// SerpAPIKeyEnv is the credential required to activate the adapter.
	SerpAPIKeyEnv = "SERPAPI_KEY"
)

// SerpAPI searches Google Jobs through SerpAPI, one query per profile role
// with core roles taking the budget first.
type SerpAPI struct {
	profile *profile.Profile
	apiKey  string
	client  *client
	logger  *zap.Logger

	// APIURL is overridable in tests.
	APIURL string
}

func NewSerpAPI(p *profile.Profile, creds secrets.Provider, logger *zap.Logger) *SerpAPI {
	return &SerpAPI{
		profile: p,
		apiKey:  creds.Get(SerpAPIKeyEnv),
		client:  newClient(logger),
		logger:  logger,
		APIURL:  serpapiURL,
	}
}

func (s *SerpAPI) Name() string { return "serpapi" }

type serpapiHit struct {
	Title              string `json:"title"`
	Company            string `json:"company_name"`
	Location           string `json:"location"`
	Description        string `json:"description"`
	ShareLink          string `json:"share_link"`
	Link               string `json:"link"`
	DetectedExtensions struct {
		PostedAt string `json:"posted_at"`
	} `json:"detected_extensions"`
	ApplyOptions []struct {
		Link string `json:"link"`
	} `json:"apply_options"`
	RelatedLinks []struct {
		Link string `json:"link"`
	} `json:"related_links"`
}

// bestApplyLink prefers a direct apply option over the share link.
func (h *serpapiHit) bestApplyLink() string {
	for _, opt := range h.ApplyOptions {
		if opt.Link != "" {
			return opt.Link
		}
	}
	for _, opt := range h.RelatedLinks {
		if opt.Link != "" {
			return opt.Link
		}
	}
	if h.ShareLink != "" {
		return h.ShareLink
	}
	return h.Link
}

func (s *SerpAPI) Search(ctx context.Context, query string, locations []string, limit int) ([]*jobs.Job, error) {
	locStr := "India"
	if len(locations) > 0 {
		locStr = locations[0] + ", India"
	}

	// Prioritise core roles; fill the remaining query budget with stretch roles.
	var queries []string
	for _, role := range s.profile.CoreRoles {
		if len(queries) == 4 {
			break
		}
		queries = append(queries, role)
	}
	for _, role := range s.profile.StretchRoles {
		if len(queries) == 5 {
			break
		}
		queries = append(queries, role)
	}
	if len(queries) == 0 {
		queries = append(queries, query)
	}

	var all []*jobs.Job
	seen := make(map[string]struct{})

	for _, q := range queries {
		if limit > 0 && len(all) >= limit {
			break
		}
		batch, err := s.fetch(ctx, q, locStr, 10)
		if err != nil {
			s.logger.Warn("serpapi query failed", zap.String("query", q), zap.Error(err))
			continue
		}
		all = dedup(all, batch, seen)
		s.logger.Debug("serpapi query results", zap.String("query", q), zap.Int("count", len(batch)))
	}

	return capAt(all, limit), nil
}

func (s *SerpAPI) fetch(ctx context.Context, query, location string, limit int) ([]*jobs.Job, error) {
	q := url.Values{}
	q.Set("engine", "google_jobs")
	q.Set("q", query)
	q.Set("location", location)
	q.Set("api_key", s.apiKey)

	var resp struct {
		JobsResults []json.RawMessage `json:"jobs_results"`
	}
	if err := s.client.getJSON(ctx, "serpapi search", s.APIURL, q, nil, &resp); err != nil {
		return nil, err
	}

	hits := resp.JobsResults
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	list := make([]*jobs.Job, 0, len(hits))
	for _, raw := range hits {
		var hit serpapiHit
		if err := json.Unmarshal(raw, &hit); err != nil {
			continue
		}

		list = append(list, &jobs.Job{
			ID:          jobs.StableID(hit.Title + hit.Company + hit.Location),
			Title:       hit.Title,
			Company:     hit.Company,
			Location:    hit.Location,
			URL:         hit.bestApplyLink(),
			Description: hit.Description,
			PostedAt:    hit.DetectedExtensions.PostedAt,
			Source:      s.Name(),
			Raw:         rawMap(raw),
		})
	}

	return list, nil
}
