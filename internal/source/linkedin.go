package source

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"jobscout/internal/jobs"
	"jobscout/internal/profile"
	"jobscout/internal/secrets"
)

const (
	linkedinHost = "linkedin-jobs-search.p.rapidapi.com"
	linkedinURL  = "https://" + linkedinHost + "/"

	// LinkedInKeyEnv is the credential required to activate the adapter.
	LinkedInKeyEnv = "RAPIDAPI_KEY"
)

// LinkedIn searches LinkedIn listings through the RapidAPI proxy. The proxy
// has shipped several response shapes over time, so hits are decoded from
// generic maps with mapstructure and the first populated field variant wins.
type LinkedIn struct {
	profile *profile.Profile
	apiKey  string
	client  *client
	logger  *zap.Logger

	// APIURL is overridable in tests.
	APIURL string
}

func NewLinkedIn(p *profile.Profile, creds secrets.Provider, logger *zap.Logger) *LinkedIn {
	return &LinkedIn{
		profile: p,
		apiKey:  creds.Get(LinkedInKeyEnv),
		client:  newClient(logger),
		logger:  logger,
		APIURL:  linkedinURL,
	}
}

func (l *LinkedIn) Name() string { return "linkedin" }

// linkedinHit covers the known field spellings across proxy versions.
type linkedinHit struct {
	JobID    string `mapstructure:"job_id"`
	AltID    string `mapstructure:"id"`
	JobTitle string `mapstructure:"job_title"`
	AltTitle string `mapstructure:"title"`

	CompanyName string `mapstructure:"company_name"`
	AltCompany  string `mapstructure:"company"`

	JobLocation string `mapstructure:"job_location"`
	AltLocation string `mapstructure:"location"`

	CleanedURL string `mapstructure:"linkedin_job_url_cleaned"`
	JobURL     string `mapstructure:"job_url"`
	AltURL     string `mapstructure:"url"`

	JobDescription string `mapstructure:"job_description"`
	AltDescription string `mapstructure:"description"`

	PostedDate string `mapstructure:"posted_date"`
	PostedAt   string `mapstructure:"posted_at"`
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (l *LinkedIn) Search(ctx context.Context, query string, locations []string, limit int) ([]*jobs.Job, error) {
	if len(l.profile.CoreRoles) > 0 {
		roles := l.profile.CoreRoles
		if len(roles) > 2 {
			roles = roles[:2]
		}
		query = strings.Join(roles, " OR ")
	}

	locStr := "India"
	if len(locations) > 0 {
		locStr = locations[0]
	}

	var all []*jobs.Job
	seen := make(map[string]struct{})

	batch, err := l.fetch(ctx, query, locStr, limit)
	if err != nil {
		l.logger.Warn("linkedin query failed", zap.String("query", query), zap.Error(err))
	} else {
		all = dedup(all, batch, seen)
		l.logger.Debug("linkedin query results", zap.String("query", query), zap.Int("count", len(batch)))
	}

	// If the budget allows, try one stretch role as a separate query.
	if len(l.profile.StretchRoles) > 0 && (limit <= 0 || len(all) < limit) {
		stretch := l.profile.StretchRoles[0]
		batch, err := l.fetch(ctx, stretch, locStr, 10)
		if err != nil {
			l.logger.Warn("linkedin stretch query failed", zap.String("query", stretch), zap.Error(err))
		} else {
			all = dedup(all, batch, seen)
		}
	}

	return capAt(all, limit), nil
}

func (l *LinkedIn) fetch(ctx context.Context, keywords, location string, limit int) ([]*jobs.Job, error) {
	payload := map[string]string{
		"search_terms": keywords,
		"location":     location,
		"page":         "1",
	}
	headers := map[string]string{
		"X-RapidAPI-Key":  l.apiKey,
		"X-RapidAPI-Host": linkedinHost,
	}

	var body any
	if err := l.client.postJSON(ctx, "linkedin search", l.APIURL, payload, headers, &body); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusForbidden {
			l.logger.Warn("linkedin rejected the api key, check the rapidapi subscription")
			return nil, nil
		}
		return nil, err
	}

	hits := extractHits(body)
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	list := make([]*jobs.Job, 0, len(hits))
	for _, rawHit := range hits {
		var hit linkedinHit
		if err := mapstructure.WeakDecode(rawHit, &hit); err != nil {
			continue
		}

		title := first(hit.JobTitle, hit.AltTitle)
		company := first(hit.CompanyName, hit.AltCompany)
		location := first(hit.JobLocation, hit.AltLocation)
		key := first(hit.JobID, hit.AltID, title+company+location)

		list = append(list, &jobs.Job{
			ID:          jobs.StableID(key),
			Title:       title,
			Company:     company,
			Location:    location,
			URL:         first(hit.CleanedURL, hit.JobURL, hit.AltURL),
			Description: first(hit.JobDescription, hit.AltDescription),
			PostedAt:    first(hit.PostedDate, hit.PostedAt),
			Source:      l.Name(),
			Raw:         rawHit,
		})
	}

	return list, nil
}

// extractHits tolerates both a bare array response and an object wrapping the
// results under "results" or "jobs".
func extractHits(body any) []map[string]any {
	toMaps := func(items []any) []map[string]any {
		out := make([]map[string]any, 0, len(items))
		for _, item := range items {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}

	switch v := body.(type) {
	case []any:
		return toMaps(v)
	case map[string]any:
		for _, key := range []string{"results", "jobs"} {
			if items, ok := v[key].([]any); ok {
				return toMaps(items)
			}
		}
	}
	return nil
}
