package profile

import "strings"

// Candidate levels understood by the scorer. Anything else disables the
// over-level title filter.
const (
	LevelJunior       = "junior"
	LevelIntermediate = "intermediate"
	LevelSenior       = "senior"
)

// Profile describes the searcher. It is loaded once per run from the config
// file and treated as immutable afterwards.
type Profile struct {
	Name            string   `mapstructure:"name"`
	Title           string   `mapstructure:"title"`
	YearsExperience int      `mapstructure:"years_experience"`
	Level           string   `mapstructure:"level"`
	Skills          []string `mapstructure:"skills"`
	Summary         string   `mapstructure:"summary"`

	// CoreRoles match the candidate's direct background. StretchRoles are
	// adjacent roles considered at a lower priority.
	CoreRoles    []string `mapstructure:"core-roles"`
	StretchRoles []string `mapstructure:"stretch-roles"`

	// PreferredRoles is the legacy flat role list. When set and CoreRoles is
	// empty it migrates into CoreRoles on Normalize.
	PreferredRoles []string `mapstructure:"preferred-roles"`

	Locations []string     `mapstructure:"locations"`
	SalaryLPA *SalaryRange `mapstructure:"salary-lpa"`

	MinScoreAutoApply float64 `mapstructure:"min-score-auto-apply"`
}

// SalaryRange bounds the acceptable salary in LPA. The comparison only runs
// against jobs that actually list a salary when CompareOnlyWhenListed is set.
type SalaryRange struct {
	Min                   int  `mapstructure:"min"`
	Max                   int  `mapstructure:"max"`
	CompareOnlyWhenListed bool `mapstructure:"compare-only-when-listed"`
}

// Normalize migrates legacy fields and fills defaults. It must be called once
// after unmarshalling and before the profile is shared with the run.
func (p *Profile) Normalize() {
	if len(p.CoreRoles) == 0 && len(p.PreferredRoles) > 0 {
		p.CoreRoles = p.PreferredRoles
	}
	p.PreferredRoles = nil

	if strings.TrimSpace(p.Level) == "" {
		p.Level = LevelSenior
	}
	if p.MinScoreAutoApply == 0 {
		p.MinScoreAutoApply = 0.75
	}
}

// Roles returns core roles followed by stretch roles.
func (p *Profile) Roles() []string {
	roles := make([]string, 0, len(p.CoreRoles)+len(p.StretchRoles))
	roles = append(roles, p.CoreRoles...)
	roles = append(roles, p.StretchRoles...)
	return roles
}

// HasRoles reports whether any role is configured at all.
func (p *Profile) HasRoles() bool {
	return len(p.CoreRoles) > 0 || len(p.StretchRoles) > 0
}

// WantsRemote reports whether "Remote" (or an equivalent) is among the target
// locations.
func (p *Profile) WantsRemote() bool {
	for _, loc := range p.Locations {
		switch strings.ToLower(strings.TrimSpace(loc)) {
		case "remote", "anywhere", "work from home", "wfh":
			return true
		}
	}
	return false
}

// Query joins the configured roles into one free-text search query.
func (p *Profile) Query() string {
	roles := p.Roles()
	if len(roles) == 0 {
		return ""
	}
	return strings.Join(roles, " OR ")
}
