package source

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"jobscout/internal/jobs"
	"jobscout/internal/profile"
	"jobscout/internal/secrets"
)

const (
	jsearchBase = "https://jsearch.p.rapidapi.com"
	jsearchHost = "jsearch.p.rapidapi.com"

	// JSearchKeyEnv is the credential required to activate the adapter.
	JSearchKeyEnv = "JSEARCH_API_KEY"
)

// JSearch searches the JSearch aggregator on RapidAPI, one query per target
// location.
type JSearch struct {
	profile *profile.Profile
	apiKey  string
	client  *client
	logger  *zap.Logger

	// APIURL is overridable in tests.
	APIURL string
}

func NewJSearch(p *profile.Profile, creds secrets.Provider, logger *zap.Logger) *JSearch {
	return &JSearch{
		profile: p,
		apiKey:  creds.Get(JSearchKeyEnv),
		client:  newClient(logger),
		logger:  logger,
		APIURL:  jsearchBase,
	}
}

func (s *JSearch) Name() string { return "jsearch" }

type jsearchHit struct {
	JobID       string `json:"job_id"`
	Title       string `json:"job_title"`
	Employer    string `json:"employer_name"`
	City        string `json:"job_city"`
	Country     string `json:"job_country"`
	ApplyLink   string `json:"job_apply_link"`
	Description string `json:"job_description"`
	PostedAt    string `json:"job_posted_at_datetime_utc"`
}

func (s *JSearch) Search(ctx context.Context, query string, locations []string, limit int) ([]*jobs.Job, error) {
	var all []*jobs.Job
	seen := make(map[string]struct{})

	locs := locations
	if len(locs) > 3 {
		locs = locs[:3]
	}

	for _, loc := range locs {
		batch, err := s.fetchLocation(ctx, query, loc, limit)
		if err != nil {
			s.logger.Warn("jsearch location query failed", zap.String("location", loc), zap.Error(err))
			continue
		}
		all = dedup(all, batch, seen)
		s.logger.Debug("jsearch location results", zap.String("location", loc), zap.Int("count", len(batch)))
	}

	return capAt(all, limit), nil
}

func (s *JSearch) fetchLocation(ctx context.Context, query, loc string, limit int) ([]*jobs.Job, error) {
	q := url.Values{}
	q.Set("query", query+" "+loc)
	q.Set("num_pages", "1")

	headers := map[string]string{
		"X-RapidAPI-Key":  s.apiKey,
		"X-RapidAPI-Host": jsearchHost,
	}

	var resp struct {
		Data []json.RawMessage `json:"data"`
	}
	err := s.client.getJSON(ctx, "jsearch search", s.APIURL+"/search", q, headers, &resp)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusForbidden {
			s.logger.Warn("jsearch rejected the api key, check the rapidapi subscription")
			return nil, nil
		}
		return nil, err
	}

	hits := resp.Data
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	list := make([]*jobs.Job, 0, len(hits))
	for _, raw := range hits {
		var hit jsearchHit
		if err := json.Unmarshal(raw, &hit); err != nil {
			continue
		}

		key := hit.JobID
		if key == "" {
			key = hit.Title
		}

		location := hit.City
		if location == "" {
			location = hit.Country
		}

		list = append(list, &jobs.Job{
			ID:          jobs.StableID(key),
			Title:       hit.Title,
			Company:     hit.Employer,
			Location:    location,
			URL:         hit.ApplyLink,
			Description: hit.Description,
			PostedAt:    hit.PostedAt,
			Source:      s.Name(),
			Raw:         rawMap(raw),
		})
	}

	return list, nil
}
