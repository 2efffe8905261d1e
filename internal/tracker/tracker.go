// Package tracker records applications in a CSV table. Scheduled runs can
// overlap manual ones, so every read takes a shared advisory lock and every
// write an exclusive one.
package tracker

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"jobscout/internal/jobs"
)

const fileName = "applications.csv"

var headers = []string{
	"job_id", "title", "company", "url", "applied_at",
	"status", "cover_letter_path", "score",
}

// Application is one tracked row.
type Application struct {
	JobID           string
	Title           string
	Company         string
	URL             string
	AppliedAt       string
	Status          string
	CoverLetterPath string
	Score           string
}

type Tracker struct {
	path   string
	lock   *flock.Flock
	logger *zap.Logger
	// now is swappable for tests.
	now func() time.Time
}

func New(dataDir string, logger *zap.Logger) *Tracker {
	path := filepath.Join(dataDir, fileName)
	return &Tracker{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logger,
		now:    time.Now,
	}
}

// Ensure creates the data directory and the CSV with its header row when
// missing.
func (t *Tracker) Ensure() error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return err
	}

	if _, err := os.Stat(t.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := t.lock.Lock(); err != nil {
		return fmt.Errorf("locking tracker: %w", err)
	}
	defer t.lock.Unlock()

	file, err := os.OpenFile(t.path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(headers); err != nil {
		return err
	}
	w.Flush()

	t.logger.Info("created application tracker", zap.String("path", t.path))
	return w.Error()
}

// Record appends one application row.
func (t *Tracker) Record(scored *jobs.ScoredJob, coverLetterPath, status string) error {
	if err := t.Ensure(); err != nil {
		return err
	}

	if err := t.lock.Lock(); err != nil {
		return fmt.Errorf("locking tracker: %w", err)
	}
	defer t.lock.Unlock()

	file, err := os.OpenFile(t.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	row := []string{
		scored.Job.ID,
		scored.Job.Title,
		scored.Job.Company,
		scored.Job.URL,
		t.now().UTC().Format("2006-01-02 15:04"),
		status,
		coverLetterPath,
		fmt.Sprintf("%.2f", scored.Score),
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	t.logger.Debug("tracked application",
		zap.String("title", scored.Job.Title),
		zap.String("company", scored.Job.Company),
		zap.String("status", status),
	)
	return nil
}

// Applications reads every tracked row under a shared lock.
func (t *Tracker) Applications() ([]Application, error) {
	if err := t.Ensure(); err != nil {
		return nil, err
	}

	if err := t.lock.RLock(); err != nil {
		return nil, fmt.Errorf("locking tracker: %w", err)
	}
	defer t.lock.Unlock()

	file, err := os.Open(t.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	var apps []Application
	for i, rec := range records {
		if i == 0 || len(rec) < len(headers) {
			continue
		}
		apps = append(apps, Application{
			JobID:           rec[0],
			Title:           rec[1],
			Company:         rec[2],
			URL:             rec[3],
			AppliedAt:       rec[4],
			Status:          rec[5],
			CoverLetterPath: rec[6],
			Score:           rec[7],
		})
	}

	return apps, nil
}

// AppliedIDs returns the set of already-tracked job ids.
func (t *Tracker) AppliedIDs() (map[string]struct{}, error) {
	apps, err := t.Applications()
	if err != nil {
		return nil, err
	}

	ids := make(map[string]struct{}, len(apps))
	for _, app := range apps {
		ids[app.JobID] = struct{}{}
	}
	return ids, nil
}

// UpdateStatus rewrites the table with the given job's status changed, e.g.
// suggested to applied. It reports whether the job was found.
func (t *Tracker) UpdateStatus(jobID, status string) (bool, error) {
	apps, err := t.Applications()
	if err != nil {
		return false, err
	}

	found := false
	for i := range apps {
		if apps[i].JobID == jobID {
			apps[i].Status = status
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}

	if err := t.lock.Lock(); err != nil {
		return false, fmt.Errorf("locking tracker: %w", err)
	}
	defer t.lock.Unlock()

	file, err := os.OpenFile(t.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return false, err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(headers); err != nil {
		return false, err
	}
	for _, app := range apps {
		row := []string{
			app.JobID, app.Title, app.Company, app.URL,
			app.AppliedAt, app.Status, app.CoverLetterPath, app.Score,
		}
		if err := w.Write(row); err != nil {
			return false, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return false, err
	}

	t.logger.Debug("updated application status",
		zap.String("job_id", jobID),
		zap.String("status", status),
	)
	return true, nil
}
