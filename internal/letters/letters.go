// Package letters generates tailored cover letters for scored jobs, through
// Gemini when configured and a deterministic template otherwise.
package letters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"jobscout/internal/jobs"
	"jobscout/internal/logger"
	"jobscout/internal/profile"
)

const (
	maxPromptSkills    = 8
	maxTemplateSkills  = 5
	descriptionExcerpt = 1500
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Writer produces and stores cover letters. A nil generator means every
// letter comes from the fallback template.
type Writer struct {
	generator contentGenerator
	profile   *profile.Profile
	dataDir   string
	logger    *zap.Logger
}

func NewWriter(generator contentGenerator, p *profile.Profile, dataDir string, log *zap.Logger) *Writer {
	return &Writer{
		generator: generator,
		profile:   p,
		dataDir:   dataDir,
		logger:    log,
	}
}

func (w *Writer) candidateName() string {
	if name := strings.TrimSpace(w.profile.Name); name != "" {
		return name
	}
	return "Candidate"
}

// Generate returns a letter for the scored job. Generation failures degrade
// to the template, never to an error.
func (w *Writer) Generate(ctx context.Context, scored *jobs.ScoredJob) string {
	if w.generator == nil {
		w.logger.Debug("no letter generator configured, using the template")
		return w.template(scored)
	}

	letter, err := w.generator.GenerateContent(ctx, w.prompt(scored))
	if err != nil {
		w.logger.Warn("cover letter generation failed, using the template",
			zap.String("job_id", scored.Job.ID),
			zap.Error(err),
		)
		return w.template(scored)
	}

	w.logger.Info("cover letter generated",
		zap.String("title", scored.Job.Title),
		zap.String("company", scored.Job.Company),
		zap.String("preview", logger.TruncateForLog(letter, 80)),
	)
	return letter
}

func (w *Writer) prompt(scored *jobs.ScoredJob) string {
	job := scored.Job
	skills := w.profile.Skills
	if len(skills) > maxPromptSkills {
		skills = skills[:maxPromptSkills]
	}

	desc := job.Description
	if len(desc) > descriptionExcerpt {
		desc = desc[:descriptionExcerpt]
	}

	name := w.candidateName()

	return fmt.Sprintf(`Write a short, professional cover letter (under 200 words) for this role.
Candidate name: %s
Candidate summary: %s
Key skills: %s
Job title: %s
Company: %s
Job description (excerpt): %s

Match the tone to the company and role. Mention 2-3 relevant skills. End with a clear one-line CTA.
Use "I" and "my" for the candidate. End the letter with "Best regards," followed by the candidate name: %s. Do not use placeholders like [Your Name].`,
		name, w.profile.Summary, strings.Join(skills, ", "),
		job.Title, job.Company, desc, name)
}

func (w *Writer) template(scored *jobs.ScoredJob) string {
	job := scored.Job
	skills := w.profile.Skills
	if len(skills) > maxTemplateSkills {
		skills = skills[:maxTemplateSkills]
	}

	return fmt.Sprintf(`Dear Hiring Team,

I am writing to apply for the %s position at %s.

%s

My experience aligns with your requirements, including: %s. I am particularly interested in contributing to your team's success.

I would welcome the opportunity to discuss how my background can contribute to your team.

Best regards,
%s`, job.Title, job.Company, w.profile.Summary, strings.Join(skills, ", "), w.candidateName())
}

// Save writes the letter under the data dir and returns its path.
func (w *Writer) Save(scored *jobs.ScoredJob, content string) (string, error) {
	if err := os.MkdirAll(w.dataDir, 0o755); err != nil {
		return "", err
	}

	safe := sanitizeCompany(scored.Job.Company)
	path := filepath.Join(w.dataDir, fmt.Sprintf("cover_%s_%s.txt", scored.Job.ID, safe))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Cleanup removes the letter files written during the run and returns how
// many were deleted.
func (w *Writer) Cleanup() int {
	matches, err := filepath.Glob(filepath.Join(w.dataDir, "cover_*.txt"))
	if err != nil {
		return 0
	}

	removed := 0
	for _, path := range matches {
		if err := os.Remove(path); err == nil {
			removed++
		}
	}
	if removed > 0 {
		w.logger.Debug("cleaned up cover letter files", zap.Int("count", removed))
	}
	return removed
}

func sanitizeCompany(company string) string {
	var b strings.Builder
	for _, r := range company {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	safe := []rune(b.String())
	if len(safe) > 40 {
		safe = safe[:40]
	}
	return string(safe)
}
