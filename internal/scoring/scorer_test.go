package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobscout/internal/jobs"
	"jobscout/internal/profile"
)

func testProfile() *profile.Profile {
	return &profile.Profile{
		Name:         "Asha",
		Level:        profile.LevelSenior,
		Skills:       []string{"Kubernetes", "Python"},
		CoreRoles:    []string{"Site Reliability Engineer"},
		StretchRoles: []string{"DevOps Engineer"},
		Locations:    []string{"Bangalore", "Remote"},
	}
}

func TestScoreCompositeSignals(t *testing.T) {
	t.Parallel()

	s := New(testProfile(), zap.NewNop())
	scored := s.Score(&jobs.Job{
		ID:          "j1",
		Title:       "Senior Site Reliability Engineer",
		Location:    "Bangalore, India",
		Description: "Kubernetes, Python, 8+ years, incident response",
	})

	require.InDelta(t, 0.75, scored.Score, 1e-9)
	assert.Equal(t, []string{
		"Role match (core): Site Reliability Engineer",
		"Skill: kubernetes",
		"Skill: python",
		"Seniority level fit",
		"Location match",
	}, scored.MatchReasons)
	assert.Equal(t, []string{"kubernetes", "python", "senior"}, scored.KeywordSuggestions)
}

func TestScoreFresherOnlyFiltered(t *testing.T) {
	t.Parallel()

	s := New(testProfile(), zap.NewNop())
	scored := s.Score(&jobs.Job{
		Title:       "Software Engineer",
		Description: "Freshers only. 0-1 years.",
	})

	assert.Zero(t, scored.Score)
	assert.Empty(t, scored.MatchReasons)
	assert.NotNil(t, scored.MatchReasons)
	assert.Empty(t, scored.KeywordSuggestions)
	assert.NotNil(t, scored.KeywordSuggestions)
}

func TestScoreFresherCounterSignalRescues(t *testing.T) {
	t.Parallel()

	s := New(testProfile(), zap.NewNop())
	scored := s.Score(&jobs.Job{
		Title:       "Support Engineer",
		Description: "Entry level title, but 8+ years of experience required.",
	})

	assert.Greater(t, scored.Score, 0.0)
}

func TestScoreOverLevelTitleFiltered(t *testing.T) {
	t.Parallel()

	s := New(testProfile(), zap.NewNop())
	scored := s.Score(&jobs.Job{
		Title:       "Director of Engineering",
		Description: "Kubernetes at scale.",
	})

	assert.Zero(t, scored.Score)
	assert.Equal(t, []string{"Filtered: seniority above profile level"}, scored.MatchReasons)
}

func TestScoreOverLevelFilterNeedsKnownLevel(t *testing.T) {
	t.Parallel()

	p := testProfile()
	p.Level = "executive"

	s := New(p, zap.NewNop())
	scored := s.Score(&jobs.Job{Title: "Director of Engineering"})

	assert.NotEqual(t, []string{"Filtered: seniority above profile level"}, scored.MatchReasons)
}

func TestScoreStretchTitleBeatsCoreDescription(t *testing.T) {
	t.Parallel()

	s := New(testProfile(), zap.NewNop())
	scored := s.Score(&jobs.Job{
		Title:       "DevOps Engineer Needed",
		Description: "We need a site reliability engineer mindset.",
	})

	assert.Contains(t, scored.MatchReasons, "Role match (stretch): DevOps Engineer")
}

func TestScoreCoreTitleBeatsStretchTitle(t *testing.T) {
	t.Parallel()

	s := New(testProfile(), zap.NewNop())
	scored := s.Score(&jobs.Job{
		Title: "Site Reliability Engineer / DevOps Engineer",
	})

	assert.Contains(t, scored.MatchReasons, "Role match (core): Site Reliability Engineer")
}

func TestScoreTitleWordOverlap(t *testing.T) {
	t.Parallel()

	p := testProfile()
	p.CoreRoles = []string{"Platform Engineer"}
	p.StretchRoles = nil

	s := New(p, zap.NewNop())
	scored := s.Score(&jobs.Job{Title: "Platform Infrastructure Engineer"})

	require.Contains(t, scored.MatchReasons, "Role match (core): Platform Engineer")
	assert.InDelta(t, weightCoreOverlap, scored.Score, 1e-9)
}

func TestScoreSingleWordOverlapIgnored(t *testing.T) {
	t.Parallel()

	p := testProfile()
	p.CoreRoles = []string{"Product Manager"}
	p.StretchRoles = nil
	p.Skills = nil
	p.Locations = nil

	s := New(p, zap.NewNop())
	scored := s.Score(&jobs.Job{Title: "Product Designer"})

	// One shared word out of a multi-word role is no role match; the job
	// falls through to the weak-signal floor.
	assert.Empty(t, scored.MatchReasons)
	assert.InDelta(t, 0.10, scored.Score, 1e-9)
}

func TestScoreSkillWeightCapped(t *testing.T) {
	t.Parallel()

	p := testProfile()
	p.CoreRoles = []string{"Backend Developer"}
	p.StretchRoles = nil
	p.Skills = []string{"python", "django", "flask", "redis", "kafka", "graphql"}
	p.Locations = nil

	s := New(p, zap.NewNop())
	scored := s.Score(&jobs.Job{
		Title:       "Platform Role",
		Description: "Python, Django, Flask, Redis, Kafka and GraphQL.",
	})

	require.InDelta(t, 0.25, scored.Score, 1e-9)

	skillReasons := 0
	for _, r := range scored.MatchReasons {
		if len(r) > 7 && r[:7] == "Skill: " {
			skillReasons++
		}
	}
	assert.Equal(t, 5, skillReasons)
	assert.Contains(t, scored.MatchReasons, "Strong skill overlap")
	assert.Len(t, scored.KeywordSuggestions, 6)
}

func TestScoreCoreSkillBonus(t *testing.T) {
	t.Parallel()

	p := testProfile()
	p.Skills = []string{"python", "django", "redis"}
	p.Locations = nil

	s := New(p, zap.NewNop())

	core := s.Score(&jobs.Job{
		Title:       "Site Reliability Engineer",
		Description: "Python, Django and Redis.",
	})
	assert.InDelta(t, 0.60, core.Score, 1e-9)

	stretch := s.Score(&jobs.Job{
		Title:       "DevOps Engineer",
		Description: "Python, Django and Redis.",
	})
	assert.InDelta(t, 0.35, stretch.Score, 1e-9)
}

func TestScoreSalary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		rng         *profile.SalaryRange
		description string
		expectBonus bool
	}{
		{
			name:        "listed and in range",
			rng:         &profile.SalaryRange{Min: 20, Max: 40, CompareOnlyWhenListed: true},
			description: "Python. Salary: 28 LPA.",
			expectBonus: true,
		},
		{
			name:        "listed but out of range",
			rng:         &profile.SalaryRange{Min: 20, Max: 40, CompareOnlyWhenListed: true},
			description: "Python. Salary: 55 LPA.",
			expectBonus: false,
		},
		{
			name:        "numbers without a salary marker",
			rng:         &profile.SalaryRange{Min: 20, Max: 40, CompareOnlyWhenListed: true},
			description: "Python. Team of 25 engineers.",
			expectBonus: false,
		},
		{
			name:        "comparison disabled",
			rng:         &profile.SalaryRange{Min: 20, Max: 40},
			description: "Python. Salary: 28 LPA.",
			expectBonus: false,
		},
		{
			name:        "no range configured",
			rng:         nil,
			description: "Python. Salary: 28 LPA.",
			expectBonus: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := testProfile()
			p.SalaryLPA = tt.rng
			p.Locations = nil

			s := New(p, zap.NewNop())
			scored := s.Score(&jobs.Job{Title: "Platform Role", Description: tt.description})

			if tt.expectBonus {
				assert.Contains(t, scored.MatchReasons, "Salary in range (listed)")
			} else {
				assert.NotContains(t, scored.MatchReasons, "Salary in range (listed)")
			}
		})
	}
}

func TestScoreCappedAtOne(t *testing.T) {
	t.Parallel()

	p := testProfile()
	p.Skills = []string{"python", "django", "flask", "redis", "kafka"}
	p.SalaryLPA = &profile.SalaryRange{Min: 20, Max: 40, CompareOnlyWhenListed: true}

	s := New(p, zap.NewNop())
	scored := s.Score(&jobs.Job{
		Title:       "Senior Site Reliability Engineer",
		Location:    "Bangalore",
		Description: "Python, Django, Flask, Redis, Kafka. Salary: 30 LPA.",
	})

	assert.InDelta(t, 1.0, scored.Score, 1e-9)
}

func TestScoreLocationAliases(t *testing.T) {
	t.Parallel()

	p := testProfile()
	p.Locations = []string{"Gurgaon"}

	s := New(p, zap.NewNop())
	scored := s.Score(&jobs.Job{Title: "Platform Role", Location: "Gurugram, India"})

	assert.Contains(t, scored.MatchReasons, "Location match")
}

func TestExpandSkills(t *testing.T) {
	t.Parallel()

	got := expandSkills([]string{"Google Cloud Platform", "Go", "cloud"})

	assert.Equal(t, []string{"google cloud platform", "google", "cloud", "platform", "go"}, got)
}

func TestExpandSkillsSkipsShortTokens(t *testing.T) {
	t.Parallel()

	got := expandSkills([]string{"CI Pipelines"})

	// "ci" is below the token length cutoff; only the full skill and the
	// longer token survive.
	assert.Equal(t, []string{"ci pipelines", "pipelines"}, got)
}
