// Package report renders the markdown daily report of top matches.
package report

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"jobscout/internal/jobs"
	"jobscout/internal/tracker"
)

const (
	maxTopMatches   = 15
	maxHistoryRows  = 10
	historyWindow   = 15
	maxReasonsShown = 4
)

type Builder struct {
	reportsDir string
	logger     *zap.Logger
	// now is swappable for tests.
	now func() time.Time
}

func NewBuilder(reportsDir string, logger *zap.Logger) *Builder {
	return &Builder{
		reportsDir: reportsDir,
		logger:     logger,
		now:        time.Now,
	}
}

// Build renders the report. Jobs scoring at or above autoApplyMin are marked
// as apply candidates; history lists previously tracked applications.
func (b *Builder) Build(scored []*jobs.ScoredJob, coverPaths map[string]string, autoApplyMin float64, history []tracker.Application) string {
	date := b.now().UTC().Format("2006-01-02")

	var lines []string
	lines = append(lines, fmt.Sprintf("# Job Search Report — %s", date), "")

	top := scored
	if len(top) > maxTopMatches {
		top = top[:maxTopMatches]
	}

	candidates := 0
	for _, s := range top {
		if autoApplyMin > 0 && s.Score >= autoApplyMin {
			candidates++
		}
	}

	lines = append(lines,
		fmt.Sprintf("**%d** jobs scored | **%d** apply candidates | **%d** letters generated",
			len(scored), candidates, len(coverPaths)),
		"",
	)

	if len(top) > 0 {
		lines = append(lines, "## Top Matches", "")
		for _, s := range top {
			badge, status := "🔗", "Suggested"
			if autoApplyMin > 0 && s.Score >= autoApplyMin {
				badge, status = "✅", "Apply candidate"
			}

			lines = append(lines, fmt.Sprintf("### %s %s @ %s", badge, s.Job.Title, s.Job.Company))
			lines = append(lines, fmt.Sprintf("- **Score:** %.0f%% — %s", s.Score*100, status))
			lines = append(lines, fmt.Sprintf("- **Location:** %s", s.Job.Location))
			lines = append(lines, fmt.Sprintf("- **Why:** %s", strings.Join(capList(s.MatchReasons, maxReasonsShown), ", ")))
			lines = append(lines, fmt.Sprintf("- **Keywords:** %s", strings.Join(capList(s.KeywordSuggestions, maxReasonsShown), ", ")))
			if s.Job.URL != "" {
				lines = append(lines, fmt.Sprintf("- **Apply:** [%s](%s)", shortURLLabel(s.Job.URL), s.Job.URL))
			}
			if path, ok := coverPaths[s.Job.ID]; ok {
				lines = append(lines, fmt.Sprintf("- **Cover letter:** %s", path))
			}
			lines = append(lines, "")
		}

		lines = append(lines, "---", "", "## Quick Reference", "")
		lines = append(lines, "| # | Role | Company | Location | Score | Apply |")
		lines = append(lines, "|--:|------|---------|----------|------:|-------|")
		for i, s := range top {
			link := "—"
			if s.Job.URL != "" {
				link = fmt.Sprintf("[%s](%s)", shortURLLabel(s.Job.URL), s.Job.URL)
			}
			lines = append(lines, fmt.Sprintf("| %d | %s | %s | %s | %.0f%% | %s |",
				i+1,
				truncate(s.Job.Title, 40),
				truncate(s.Job.Company, 22),
				truncate(strings.SplitN(s.Job.Location, ",", 2)[0], 18),
				s.Score*100,
				link,
			))
		}
		lines = append(lines, "")
	}

	if len(history) > 0 {
		lines = append(lines, "---", "", "## Application History", "")
		for _, app := range dedupeHistory(lastN(history, historyWindow)) {
			link := ""
			if app.URL != "" {
				link = fmt.Sprintf("[Apply](%s)", app.URL)
			}
			lines = append(lines, fmt.Sprintf("- **%s** @ %s — _%s_ — %s %s",
				app.Title, app.Company, app.Status, app.AppliedAt, link))
		}
		lines = append(lines, "")
	}

	b.logger.Info("built daily report",
		zap.Int("jobs", len(scored)),
		zap.Int("apply_candidates", candidates),
	)

	return strings.Join(lines, "\n")
}

// Write stores the report as daily_YYYY-MM-DD.md and returns its path.
func (b *Builder) Write(content string) (string, error) {
	if err := os.MkdirAll(b.reportsDir, 0o755); err != nil {
		return "", err
	}

	date := b.now().UTC().Format("2006-01-02")
	path := filepath.Join(b.reportsDir, fmt.Sprintf("daily_%s.md", date))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}

	b.logger.Info("report written", zap.String("path", path))
	return path, nil
}

// dedupeHistory keeps the latest entry per title+company pair.
func dedupeHistory(apps []tracker.Application) []tracker.Application {
	seen := make(map[string]struct{})
	var out []tracker.Application
	for i := len(apps) - 1; i >= 0; i-- {
		key := apps[i].Title + "\x00" + apps[i].Company
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, apps[i])
		if len(out) == maxHistoryRows {
			break
		}
	}
	return out
}

func lastN(apps []tracker.Application, n int) []tracker.Application {
	if len(apps) > n {
		return apps[len(apps)-n:]
	}
	return apps
}

func shortURLLabel(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return "Link"
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	parts := strings.Split(host, ".")
	if len(parts) == 0 || parts[0] == "" {
		return "Link"
	}
	return strings.ToUpper(parts[0][:1]) + parts[0][1:]
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}

func capList(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
