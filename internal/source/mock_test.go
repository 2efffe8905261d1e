package source

import (
	"context"
	"testing"
	"time"

	"jobscout/internal/profile"
)

func TestMockJobsAreDatedAndDeterministic(t *testing.T) {
	t.Parallel()

	p := &profile.Profile{CoreRoles: []string{"Site Reliability Engineer"}}
	m := NewMock(p)
	m.now = func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) }

	found, err := m.Search(context.Background(), "", nil, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(found) != 3 {
		t.Fatalf("expected 3 sample jobs, got %d", len(found))
	}
	if found[0].ID != "mock-2026-03-14-1" {
		t.Fatalf("expected a dated id, got %q", found[0].ID)
	}
	if found[0].Title != "Site Reliability Engineer" {
		t.Fatalf("expected the first sample to use the profile's lead role, got %q", found[0].Title)
	}

	again, err := m.Search(context.Background(), "", nil, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again[0].ID != found[0].ID {
		t.Fatalf("expected deterministic ids within a day, got %q and %q", found[0].ID, again[0].ID)
	}
}

func TestMockRespectsLimit(t *testing.T) {
	t.Parallel()

	m := NewMock(&profile.Profile{})

	found, err := m.Search(context.Background(), "", nil, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected the limit to cap the samples, got %d", len(found))
	}
	if found[0].Title != "Software Engineer" {
		t.Fatalf("expected the default title without roles, got %q", found[0].Title)
	}
}
