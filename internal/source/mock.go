package source

import (
	"context"
	"fmt"
	"time"

	"jobscout/internal/jobs"
	"jobscout/internal/profile"
)

// Mock generates deterministic sample jobs seeded from the profile's role
// list. It serves two purposes: the sole active source when no credentials
// are configured, and the fallback generator when every real source comes
// back empty.
type Mock struct {
	profile *profile.Profile
	// now is swappable for tests.
	now func() time.Time
}

func NewMock(p *profile.Profile) *Mock {
	return &Mock{profile: p, now: time.Now}
}

func (m *Mock) Name() string { return "mock" }

// mockID embeds the current UTC date so fallback jobs are treated as new
// each day.
func (m *Mock) mockID(suffix string) string {
	return fmt.Sprintf("mock-%s-%s", m.now().UTC().Format("2006-01-02"), suffix)
}

func (m *Mock) Search(_ context.Context, _ string, _ []string, limit int) ([]*jobs.Job, error) {
	title := "Software Engineer"
	if roles := m.profile.Roles(); len(roles) > 0 {
		title = roles[0]
	}

	list := []*jobs.Job{
		{
			ID:          m.mockID("1"),
			Title:       title,
			Company:     "TechCorp India",
			Location:    "Bangalore",
			URL:         "https://example.com/job/1",
			Description: "Kubernetes, cloud, incident response. 8+ years.",
			PostedAt:    "2 days ago",
			Source:      m.Name(),
		},
		{
			ID:          m.mockID("2"),
			Title:       "Customer Reliability Engineer",
			Company:     "CloudScale SaaS",
			Location:    "Hyderabad, Remote",
			URL:         "https://example.com/job/2",
			Description: "SRE, distributed systems, customer-facing escalations.",
			PostedAt:    "1 week ago",
			Source:      m.Name(),
		},
		{
			ID:          m.mockID("3"),
			Title:       "Technical Support Engineer L4",
			Company:     "Enterprise Platform Inc",
			Location:    "Gurgaon",
			URL:         "https://example.com/job/3",
			Description: "L4 support, root cause analysis, SaaS.",
			PostedAt:    "3 days ago",
			Source:      m.Name(),
		},
	}

	return capAt(list, limit), nil
}
