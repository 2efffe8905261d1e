// Package agent sequences one full run: aggregation, scoring, cover letters,
// tracking and the daily report.
package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"jobscout/internal/aggregate"
	"jobscout/internal/jobs"
	"jobscout/internal/letters"
	"jobscout/internal/profile"
	"jobscout/internal/report"
	"jobscout/internal/scoring"
	"jobscout/internal/secrets"
	"jobscout/internal/source"
	"jobscout/internal/tracker"
)

const (
	perSourceLimit = 30
	previewLimit   = 2000

	// StatusSuggested marks a tracked job awaiting a manual application.
	StatusSuggested = "suggested"
)

// Options are the per-run knobs.
type Options struct {
	MaxJobs         int
	MinScore        float64
	GenerateLetters bool
	TopLetters      int
	WriteReport     bool
}

// DefaultOptions mirror the daily scheduled run.
func DefaultOptions() Options {
	return Options{
		MaxJobs:         30,
		MinScore:        0.2,
		GenerateLetters: true,
		TopLetters:      10,
		WriteReport:     true,
	}
}

// Result summarizes a run for the caller.
type Result struct {
	JobsFound     int
	ScoredCount   int
	LettersCount  int
	ReportPath    string
	ReportPreview string

	// Reason is set when the run ended early without searching, e.g. when no
	// roles are configured.
	Reason string
}

type Agent struct {
	profile *profile.Profile
	creds   secrets.Provider
	writer  *letters.Writer
	tracker *tracker.Tracker
	reports *report.Builder
	logger  *zap.Logger
}

func New(p *profile.Profile, creds secrets.Provider, writer *letters.Writer, tr *tracker.Tracker, reports *report.Builder, logger *zap.Logger) *Agent {
	return &Agent{
		profile: p,
		creds:   creds,
		writer:  writer,
		tracker: tr,
		reports: reports,
		logger:  logger,
	}
}

// Run executes one search cycle. Configuration problems surface as a Result
// with a Reason, not as an error, so callers can report them without
// crashing.
func (a *Agent) Run(ctx context.Context, opts Options) (*Result, error) {
	if !a.profile.HasRoles() {
		a.logger.Error("no roles configured in profile")
		return &Result{
			Reason:        "no roles configured",
			ReportPreview: "**No roles configured.** Add core-roles to your profile first.",
		}, nil
	}

	if err := a.tracker.Ensure(); err != nil {
		return nil, fmt.Errorf("preparing tracker: %w", err)
	}

	sources := source.Active(a.profile, a.creds, a.logger)
	engine := aggregate.New(sources, source.NewMock(a.profile), a.logger)

	query := a.profile.Query()
	a.logger.Info("starting the search", zap.String("query", query))

	found := &jobs.Jobs{
		Items: engine.Search(ctx, query, a.profile.Locations, perSourceLimit, opts.MaxJobs),
	}
	jobsFound := found.Len()

	if a.logger.Core().Enabled(zapcore.DebugLevel) {
		filename, err := found.DumpToTmpFile()
		if err != nil {
			a.logger.Warn("dumping fetched jobs failed", zap.Error(err))
		} else {
			a.logger.Debug("dumping fetched jobs to file",
				zap.String("filename", filename),
				zap.Strings("ids", found.IDs()),
			)
		}
	}

	applied, err := a.tracker.AppliedIDs()
	if err != nil {
		return nil, fmt.Errorf("reading applied jobs: %w", err)
	}

	if excluded := found.Exclude(applied); len(excluded) > 0 {
		a.logger.Info("skipping already tracked jobs", zap.Strings("ids", excluded))
	}

	scorer := scoring.New(a.profile, a.logger)
	scored := scorer.FilterAndRank(found.Items, opts.MinScore)

	coverPaths := make(map[string]string)
	if opts.GenerateLetters {
		for i, s := range scored {
			if i >= opts.TopLetters {
				break
			}
			if _, ok := applied[s.Job.ID]; ok {
				continue
			}

			content := a.writer.Generate(ctx, s)
			path, err := a.writer.Save(s, content)
			if err != nil {
				a.logger.Warn("saving cover letter failed", zap.String("job_id", s.Job.ID), zap.Error(err))
				continue
			}
			coverPaths[s.Job.ID] = path

			if err := a.tracker.Record(s, path, StatusSuggested); err != nil {
				a.logger.Warn("tracking application failed", zap.String("job_id", s.Job.ID), zap.Error(err))
			}
			applied[s.Job.ID] = struct{}{}
		}
	}

	history, err := a.tracker.Applications()
	if err != nil {
		a.logger.Warn("reading application history failed", zap.Error(err))
	}

	content := a.reports.Build(scored, coverPaths, a.profile.MinScoreAutoApply, history)

	reportPath := ""
	if opts.WriteReport {
		reportPath, err = a.reports.Write(content)
		if err != nil {
			return nil, fmt.Errorf("writing report: %w", err)
		}
	}

	a.writer.Cleanup()

	a.logger.Info("run complete",
		zap.Int("found", jobsFound),
		zap.Int("scored", len(scored)),
		zap.Int("letters", len(coverPaths)),
	)

	return &Result{
		JobsFound:     jobsFound,
		ScoredCount:   len(scored),
		LettersCount:  len(coverPaths),
		ReportPath:    reportPath,
		ReportPreview: preview(content),
	}, nil
}

// preview trims the report body for inline display. The cut lands on a rune
// boundary so multi-byte characters survive intact.
func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLimit {
		return content
	}
	return string(runes[:previewLimit]) + "..."
}
