package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"jobscout/internal/jobs"
	"jobscout/internal/profile"
	"jobscout/internal/secrets"
)

const (
	adzunaBase    = "https://api.adzuna.com"
	adzunaCountry = "in"

	// Credentials required to activate the adapter.
	AdzunaAppIDEnv  = "ADZUNA_APP_ID"
	AdzunaAppKeyEnv = "ADZUNA_APP_KEY"
)

// Adzuna searches the Adzuna aggregator, one query per target location.
type Adzuna struct {
	profile *profile.Profile
	appID   string
	appKey  string
	client  *client
	logger  *zap.Logger

	// APIURL is overridable in tests.
	APIURL string
}

func NewAdzuna(p *profile.Profile, creds secrets.Provider, logger *zap.Logger) *Adzuna {
	return &Adzuna{
		profile: p,
		appID:   creds.Get(AdzunaAppIDEnv),
		appKey:  creds.Get(AdzunaAppKeyEnv),
		client:  newClient(logger),
		logger:  logger,
		APIURL:  adzunaBase,
	}
}

func (a *Adzuna) Name() string { return "adzuna" }

type adzunaHit struct {
	ID    json.Number `json:"id"`
	Title string      `json:"title"`
	// Company and location come wrapped in display-name objects.
	Company struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	RedirectURL string  `json:"redirect_url"`
	Description string  `json:"description"`
	Created     string  `json:"created"`
	SalaryMin   float64 `json:"salary_min"`
	SalaryMax   float64 `json:"salary_max"`
}

func (h *adzunaHit) salaryText() string {
	min := int(h.SalaryMin)
	max := int(h.SalaryMax)
	switch {
	case min != 0 && max != 0:
		return fmt.Sprintf("%d-%d", min, max)
	case min != 0:
		return strconv.Itoa(min)
	default:
		return ""
	}
}

func (a *Adzuna) Search(ctx context.Context, query string, locations []string, limit int) ([]*jobs.Job, error) {
	if len(a.profile.CoreRoles) > 0 {
		roles := a.profile.CoreRoles
		if len(roles) > 3 {
			roles = roles[:3]
		}
		query = strings.Join(roles, " OR ")
	}

	searchLocs := locations
	if len(searchLocs) > 2 {
		searchLocs = searchLocs[:2]
	}
	if len(searchLocs) == 0 {
		searchLocs = []string{""}
	}

	perPage := 20
	if limit > 0 && limit < perPage {
		perPage = limit
	}

	var all []*jobs.Job
	seen := make(map[string]struct{})

	for _, loc := range searchLocs {
		if limit > 0 && len(all) >= limit {
			break
		}
		batch, err := a.fetch(ctx, query, loc, 1, perPage)
		if err != nil {
			a.logger.Warn("adzuna location query failed", zap.String("location", loc), zap.Error(err))
			continue
		}
		all = dedup(all, batch, seen)
		a.logger.Debug("adzuna location results", zap.String("location", loc), zap.Int("count", len(batch)))
	}

	return capAt(all, limit), nil
}

func (a *Adzuna) fetch(ctx context.Context, query, location string, page, perPage int) ([]*jobs.Job, error) {
	q := url.Values{}
	q.Set("app_id", a.appID)
	q.Set("app_key", a.appKey)
	q.Set("what", query)
	q.Set("results_per_page", strconv.Itoa(perPage))
	q.Set("content-type", contentType)
	if location != "" {
		q.Set("where", location)
	}

	endpoint := fmt.Sprintf("%s/v1/api/jobs/%s/search/%d", a.APIURL, adzunaCountry, page)

	var resp struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := a.client.getJSON(ctx, "adzuna search", endpoint, q, nil, &resp); err != nil {
		return nil, err
	}

	list := make([]*jobs.Job, 0, len(resp.Results))
	for _, raw := range resp.Results {
		var hit adzunaHit
		if err := json.Unmarshal(raw, &hit); err != nil {
			continue
		}

		key := hit.ID.String()
		if key == "" {
			key = hit.Title + hit.Company.DisplayName + hit.Location.DisplayName
		}

		list = append(list, &jobs.Job{
			ID:          jobs.StableID(key),
			Title:       hit.Title,
			Company:     hit.Company.DisplayName,
			Location:    hit.Location.DisplayName,
			URL:         hit.RedirectURL,
			Description: hit.Description,
			PostedAt:    hit.Created,
			Salary:      hit.salaryText(),
			Source:      a.Name(),
			Raw:         rawMap(raw),
		})
	}

	return list, nil
}
