// Package scoring assigns composite match scores to jobs against a candidate
// profile and produces the filtered, ranked subset.
package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"jobscout/internal/jobs"
	"jobscout/internal/profile"
)

// Signal weights. Only the single best role match contributes; the remaining
// signals are flat and independent.
const (
	weightCoreTitle      = 0.40
	weightCoreOverlap    = 0.35
	weightCoreDesc       = 0.15
	weightStretchTitle   = 0.20
	weightStretchOverlap = 0.18
	weightStretchDesc    = 0.08

	weightPerSkill   = 0.05
	maxSkillWeight   = 0.25
	weightSeniority  = 0.10
	weightLocation   = 0.15
	weightSalary     = 0.10
	coreSkillBonus   = 0.05
	weakSignalFloor  = 0.10
	overlapThreshold = 0.6

	maxSkillReasons = 5
	maxKeywords     = 10

	// Minimum token length when expanding compound skills, so tiny tokens
	// like "ai" or "api" do not match everything.
	minSkillTokenLen = 4
)

const (
	tierCore    = "core"
	tierStretch = "stretch"
)

const overLevelReason = "Filtered: seniority above profile level"

var locationAliases = map[string][]string{
	"bangalore": {"bangalore", "bengaluru", "bengalore"},
	"gurgaon":   {"gurgaon", "gurugram"},
	"noida":     {"noida"},
	"hyderabad": {"hyderabad"},
	"pune":      {"pune"},
	"remote":    {"remote", "anywhere", "work from home", "wfh"},
}

var fresherPhrases = []string{
	"fresher", "0-2 years", "0-1 years", "0 - 2", "0 - 1",
	"entry level", "entry-level", "no experience", "fresh graduate",
	"recent graduate", "freshers only", "0 years",
}

// Counter-signals that rescue a posting from the fresher-only filter.
var experienceSignals = []string{"senior", "experience", "8+", "10+", "years exp", "l3", "l4"}

// Titles that signal a level well above a senior individual contributor.
var overLevelTitles = []string{
	"director", "vice president", "vp ", "vp,", "chief ",
	"head of", "cto", "cfo", "coo", "ceo", "managing director",
	"general manager", "avp", "assistant vice president",
}

var seniorityTerms = []string{
	"senior", "lead", "principal", "l3", "l4", "staff", "10+", "8+", "5+",
	"experience", "mid-level", "mid level", "experienced",
}

var salaryMarkers = []string{"lpa", "lakh", "salary", "ctc", "inr"}

var digitsRe = regexp.MustCompile(`\d+`)

// Scorer evaluates jobs against one immutable profile snapshot. The skill and
// location expansions are computed once at construction.
type Scorer struct {
	profile   *profile.Profile
	skills    []string
	locations []string
	logger    *zap.Logger
}

func New(p *profile.Profile, logger *zap.Logger) *Scorer {
	return &Scorer{
		profile:   p,
		skills:    expandSkills(p.Skills),
		locations: expandLocations(p.Locations),
		logger:    logger,
	}
}

func normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// expandLocations replaces known locations with their alias groups, so
// "Bangalore" also matches postings that say "Bengaluru".
func expandLocations(locations []string) []string {
	var expanded []string
	for _, loc := range locations {
		key := normalize(loc)
		if aliases, ok := locationAliases[key]; ok {
			expanded = append(expanded, aliases...)
			continue
		}
		expanded = append(expanded, key)
	}
	return expanded
}

// expandSkills breaks compound skills into matchable tokens, keeping the full
// skill string and any sub-token of useful length. Order is preserved and
// duplicates are dropped.
func expandSkills(raw []string) []string {
	var tokens []string
	seen := make(map[string]struct{})

	add := func(t string) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}

	for _, s := range raw {
		low := normalize(s)
		if low == "" {
			continue
		}
		add(low)
		for _, part := range strings.FieldsFunc(low, func(r rune) bool {
			return r == ' ' || r == '\t' || r == '-'
		}) {
			if part != low && len(part) >= minSkillTokenLen {
				add(part)
			}
		}
	}
	return tokens
}

// isFresherOnly reports whether the combined text carries an entry-level
// marker without any experience counter-signal.
func isFresherOnly(text string) bool {
	for _, phrase := range fresherPhrases {
		if !strings.Contains(text, phrase) {
			continue
		}
		countered := false
		for _, signal := range experienceSignals {
			if strings.Contains(text, signal) {
				countered = true
				break
			}
		}
		if !countered {
			return true
		}
	}
	return false
}

// isOverLevel reports whether the title implies an executive tier above the
// profile's level.
func isOverLevel(title, level string) bool {
	switch level {
	case profile.LevelJunior, profile.LevelIntermediate, profile.LevelSenior:
	default:
		return false
	}

	t := normalize(title)
	for _, tag := range overLevelTitles {
		if strings.Contains(t, tag) {
			return true
		}
	}
	return false
}

// wordOverlapRatio returns the fraction of role words present in the text.
// Multi-word roles need at least two shared words to score at all, preventing
// single-word false positives like "product" matching everything.
func wordOverlapRatio(role, text string) float64 {
	roleWords := strings.Fields(strings.ToLower(role))
	if len(roleWords) == 0 {
		return 0
	}

	textWords := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		textWords[w] = struct{}{}
	}

	unique := make(map[string]struct{})
	overlap := 0
	for _, w := range roleWords {
		if _, dup := unique[w]; dup {
			continue
		}
		unique[w] = struct{}{}
		if _, ok := textWords[w]; ok {
			overlap++
		}
	}

	if overlap < 2 && len(unique) > 1 {
		return 0
	}
	return float64(overlap) / float64(len(unique))
}

// bestRoleMatch walks core roles then stretch roles and keeps the single
// strongest contribution. Strict comparisons make earlier tiers and
// earlier-listed roles win ties.
func bestRoleMatch(title, desc string, coreRoles, stretchRoles []string) (float64, string, string) {
	titleNorm := normalize(title)
	descNorm := normalize(desc)

	best := 0.0
	bestRole := ""
	bestTier := ""

	consider := func(score float64, role, tier string) {
		if score > best {
			best, bestRole, bestTier = score, role, tier
		}
	}

	for _, raw := range coreRoles {
		role := strings.ToLower(raw)
		if strings.Contains(titleNorm, role) {
			consider(weightCoreTitle, raw, tierCore)
			continue
		}
		if wordOverlapRatio(role, titleNorm) >= overlapThreshold {
			consider(weightCoreOverlap, raw, tierCore)
			continue
		}
		if strings.Contains(descNorm, role) {
			consider(weightCoreDesc, raw, tierCore)
		}
	}

	for _, raw := range stretchRoles {
		role := strings.ToLower(raw)
		if strings.Contains(titleNorm, role) {
			consider(weightStretchTitle, raw, tierStretch)
			continue
		}
		if wordOverlapRatio(role, titleNorm) >= overlapThreshold {
			consider(weightStretchOverlap, raw, tierStretch)
			continue
		}
		if strings.Contains(descNorm, role) {
			consider(weightStretchDesc, raw, tierStretch)
		}
	}

	return best, bestRole, bestTier
}

// Score evaluates a single job. Hard filters short-circuit to a true zero;
// every other path goes through the additive signals.
func (s *Scorer) Score(job *jobs.Job) *jobs.ScoredJob {
	desc := normalize(job.Description)
	titleNorm := normalize(job.Title)
	fullText := desc + " " + titleNorm

	if isFresherOnly(fullText) {
		return &jobs.ScoredJob{Job: job, Score: 0, MatchReasons: []string{}, KeywordSuggestions: []string{}}
	}

	if isOverLevel(job.Title, s.profile.Level) {
		return &jobs.ScoredJob{
			Job:                job,
			Score:              0,
			MatchReasons:       []string{overLevelReason},
			KeywordSuggestions: []string{},
		}
	}

	var reasons []string
	var keywords []string

	roleScore, matchedRole, roleTier := bestRoleMatch(job.Title, job.Description, s.profile.CoreRoles, s.profile.StretchRoles)
	if matchedRole != "" {
		reasons = append(reasons, fmt.Sprintf("Role match (%s): %s", roleTier, matchedRole))
	}

	var matchedSkills []string
	for _, token := range s.skills {
		if strings.Contains(fullText, token) {
			matchedSkills = append(matchedSkills, token)
		}
	}
	for i, skill := range matchedSkills {
		if i >= maxSkillReasons {
			break
		}
		reasons = append(reasons, "Skill: "+skill)
	}
	if len(matchedSkills) >= 3 {
		reasons = append(reasons, "Strong skill overlap")
	}
	keywords = append(keywords, matchedSkills...)

	hasSeniority := false
	for _, term := range seniorityTerms {
		if strings.Contains(fullText, term) {
			reasons = append(reasons, "Seniority level fit")
			hasSeniority = true
			if !contains(keywords, term) {
				keywords = append(keywords, term)
			}
			break
		}
	}

	jobLoc := normalize(job.Location)
	hasLocation := false
	for _, alias := range s.locations {
		if strings.Contains(jobLoc, alias) {
			hasLocation = true
			break
		}
	}
	if hasLocation {
		reasons = append(reasons, "Location match")
	}

	hasSalary := false
	if r := s.profile.SalaryLPA; r != nil && r.CompareOnlyWhenListed && r.Min != 0 && r.Max != 0 {
		if containsAny(fullText, salaryMarkers) {
			for _, tok := range digitsRe.FindAllString(job.Description, -1) {
				v, err := strconv.Atoi(tok)
				if err != nil {
					continue
				}
				if v >= r.Min && v <= r.Max {
					reasons = append(reasons, "Salary in range (listed)")
					hasSalary = true
					break
				}
			}
		}
	}

	score := roleScore
	score += math.Min(weightPerSkill*float64(len(matchedSkills)), maxSkillWeight)
	if hasSeniority {
		score += weightSeniority
	}
	if hasLocation {
		score += weightLocation
	}
	if hasSalary {
		score += weightSalary
	}
	if len(matchedSkills) >= 3 && roleTier == tierCore {
		score += coreSkillBonus
	}

	score = math.Min(score, 1.0)

	// Weak-signal floor: distinguishes "some signal but below weights" from
	// true no-signal jobs. Never applies to hard-filtered jobs above.
	if score == 0 && (len(matchedSkills) > 0 || s.profile.HasRoles()) {
		score = weakSignalFloor
	}

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	if reasons == nil {
		reasons = []string{}
	}
	if keywords == nil {
		keywords = []string{}
	}

	return &jobs.ScoredJob{
		Job:                job,
		Score:              math.Round(score*100) / 100,
		MatchReasons:       reasons,
		KeywordSuggestions: keywords,
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
