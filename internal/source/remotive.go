package source

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"jobscout/internal/jobs"
	"jobscout/internal/profile"
)

const remotiveURL = "https://remotive.com/api/remote-jobs"

// remotiveCategories maps broad profile keywords to Remotive categories for
// tighter results.
var remotiveCategories = map[string]string{
	"devops":   "devops",
	"sre":      "devops",
	"cloud":    "devops",
	"software": "software-dev",
	"engineer": "software-dev",
	"python":   "software-dev",
	"product":  "product",
	"data":     "data",
	"qa":       "qa",
	"support":  "customer-support",
	"customer": "customer-support",
}

// Generic title words that make poor Remotive search terms.
var remotiveGenericWords = map[string]struct{}{
	"senior": {}, "junior": {}, "lead": {}, "staff": {}, "principal": {},
	"manager": {}, "engineer": {}, "specialist": {}, "consultant": {},
	"ii": {}, "iii": {}, "iv": {},
}

// Remotive searches the free Remotive board. No credential is required; the
// registry activates it only for remote-friendly profiles.
type Remotive struct {
	profile *profile.Profile
	client  *client
	logger  *zap.Logger

	// APIURL is overridable in tests.
	APIURL string
}

func NewRemotive(p *profile.Profile, logger *zap.Logger) *Remotive {
	return &Remotive{
		profile: p,
		client:  newClient(logger),
		logger:  logger,
		APIURL:  remotiveURL,
	}
}

func (r *Remotive) Name() string { return "remotive" }

type remotiveHit struct {
	ID               json.Number `json:"id"`
	Title            string      `json:"title"`
	Company          string      `json:"company_name"`
	RequiredLocation string      `json:"candidate_required_location"`
	URL              string      `json:"url"`
	Description      string      `json:"description"`
	PublicationDate  string      `json:"publication_date"`
	Tags             []string    `json:"tags"`
}

// searchTerms extracts distinctive single keywords from the core roles.
// Remotive works best with short, broad terms rather than full titles.
func (r *Remotive) searchTerms(query string) []string {
	var terms []string
	roles := r.profile.CoreRoles
	if len(roles) > 2 {
		roles = roles[:2]
	}
	for _, role := range roles {
		for _, word := range strings.Fields(strings.ToLower(role)) {
			if _, generic := remotiveGenericWords[word]; !generic {
				terms = append(terms, word)
				break
			}
		}
	}
	if len(terms) == 0 {
		fields := strings.Fields(query)
		if len(fields) > 0 {
			terms = append(terms, fields[0])
		} else {
			terms = append(terms, "engineer")
		}
	}
	return terms
}

func (r *Remotive) category() string {
	var texts []string
	texts = append(texts, r.profile.CoreRoles...)
	texts = append(texts, r.profile.StretchRoles...)
	texts = append(texts, r.profile.Skills...)

	for _, text := range texts {
		low := strings.ToLower(text)
		for keyword, category := range remotiveCategories {
			if strings.Contains(low, keyword) {
				return category
			}
		}
	}
	return ""
}

func (r *Remotive) Search(ctx context.Context, query string, _ []string, limit int) ([]*jobs.Job, error) {
	var all []*jobs.Job
	seen := make(map[string]struct{})

	for _, term := range r.searchTerms(query) {
		batch, err := r.fetch(ctx, term, "", limit)
		if err != nil {
			r.logger.Warn("remotive query failed", zap.String("search", term), zap.Error(err))
			continue
		}
		all = dedup(all, batch, seen)
		r.logger.Debug("remotive query results", zap.String("search", term), zap.Int("count", len(batch)))
	}

	// Keyword search found nothing; fall back to a category-only query.
	// Combining category with search is too restrictive on Remotive's
	// relatively small dataset, so it stays a fallback.
	if len(all) == 0 {
		if category := r.category(); category != "" {
			batch, err := r.fetch(ctx, "", category, limit)
			if err != nil {
				r.logger.Warn("remotive category fallback failed", zap.Error(err))
			} else {
				all = dedup(all, batch, seen)
				r.logger.Debug("remotive category fallback results", zap.String("category", category), zap.Int("count", len(batch)))
			}
		}
	}

	return capAt(all, limit), nil
}

func (r *Remotive) fetch(ctx context.Context, search, category string, limit int) ([]*jobs.Job, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if search != "" {
		q.Set("search", search)
	}
	if category != "" {
		q.Set("category", category)
	}

	var resp struct {
		Jobs []json.RawMessage `json:"jobs"`
	}
	if err := r.client.getJSON(ctx, "remotive search", r.APIURL, q, nil, &resp); err != nil {
		return nil, err
	}

	list := make([]*jobs.Job, 0, len(resp.Jobs))
	for _, raw := range resp.Jobs {
		var hit remotiveHit
		if err := json.Unmarshal(raw, &hit); err != nil {
			continue
		}

		key := hit.ID.String()
		if key == "" {
			key = hit.Title + hit.Company
		}

		desc := hit.Description
		if len(hit.Tags) > 0 {
			desc += " " + strings.Join(hit.Tags, " ")
		}

		location := hit.RequiredLocation
		if location == "" {
			location = "Remote"
		}

		list = append(list, &jobs.Job{
			ID:          jobs.StableID(key),
			Title:       hit.Title,
			Company:     hit.Company,
			Location:    location,
			URL:         hit.URL,
			Description: desc,
			PostedAt:    hit.PublicationDate,
			Source:      r.Name(),
			Raw:         rawMap(raw),
		})
	}

	return list, nil
}
