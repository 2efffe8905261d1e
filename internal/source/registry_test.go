package source

import (
	"testing"

	"go.uber.org/zap"

	"jobscout/internal/profile"
	"jobscout/internal/secrets"
)

func sourceNames(sources []Source) []string {
	names := make([]string, 0, len(sources))
	for _, s := range sources {
		names = append(names, s.Name())
	}
	return names
}

func TestActiveWithoutCredentials(t *testing.T) {
	t.Parallel()

	p := &profile.Profile{Locations: []string{"Bangalore"}}
	sources := Active(p, secrets.Static{}, zap.NewNop())

	if len(sources) != 1 || sources[0].Name() != "mock" {
		t.Fatalf("expected the mock source alone, got %v", sourceNames(sources))
	}
}

func TestActiveRegistersCredentialedSources(t *testing.T) {
	t.Parallel()

	p := &profile.Profile{Locations: []string{"Bangalore"}}
	creds := secrets.Static{
		"JSEARCH_API_KEY": "k1",
		"SERPAPI_KEY":     "k2",
		"ADZUNA_APP_ID":   "id",
		"ADZUNA_APP_KEY":  "k3",
		"RAPIDAPI_KEY":    "k4",
	}

	names := sourceNames(Active(p, creds, zap.NewNop()))

	expect := []string{"jsearch", "serpapi", "adzuna", "linkedin"}
	if len(names) != len(expect) {
		t.Fatalf("expected %v, got %v", expect, names)
	}
	for i, name := range expect {
		if names[i] != name {
			t.Fatalf("expected %v, got %v", expect, names)
		}
	}
}

func TestActiveAdzunaNeedsBothCredentials(t *testing.T) {
	t.Parallel()

	p := &profile.Profile{Locations: []string{"Bangalore"}}
	creds := secrets.Static{"ADZUNA_APP_ID": "id"}

	names := sourceNames(Active(p, creds, zap.NewNop()))
	for _, name := range names {
		if name == "adzuna" {
			t.Fatalf("expected adzuna to stay inactive with only the app id, got %v", names)
		}
	}
}

func TestActiveRemotiveForRemoteProfiles(t *testing.T) {
	t.Parallel()

	p := &profile.Profile{Locations: []string{"Remote"}}
	creds := secrets.Static{"JSEARCH_API_KEY": "k1"}

	names := sourceNames(Active(p, creds, zap.NewNop()))

	expect := []string{"jsearch", "remotive"}
	if len(names) != 2 || names[0] != expect[0] || names[1] != expect[1] {
		t.Fatalf("expected %v, got %v", expect, names)
	}
}
