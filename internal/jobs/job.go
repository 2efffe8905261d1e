package jobs

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
)

// Job is a single external posting normalized across providers. Instances are
// immutable after the source adapter builds them.
type Job struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Company     string         `json:"company"`
	Location    string         `json:"location"`
	URL         string         `json:"url"`
	Description string         `json:"description"`
	PostedAt    string         `json:"posted_at,omitempty"`
	Salary      string         `json:"salary,omitempty"`
	Source      string         `json:"source"`
	Raw         map[string]any `json:"-"`
}

// StableID derives a deterministic job id from the provider's stable key.
// Re-fetching the same posting from the same provider yields the same id.
func StableID(key string) string {
	sum := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", sum)[:12]
}

type Jobs struct {
	Items []*Job
}

func (j *Jobs) Len() int {
	return len(j.Items)
}

// IDs returns the ids of all jobs in order.
func (j *Jobs) IDs() []string {
	ids := make([]string, 0, len(j.Items))
	for _, job := range j.Items {
		ids = append(ids, job.ID)
	}
	return ids
}

// Exclude removes jobs whose id is in targets and returns the removed ids.
func (j *Jobs) Exclude(targets map[string]struct{}) []string {
	var excluded []string
	kept := j.Items[:0]
	for _, job := range j.Items {
		if _, ok := targets[job.ID]; ok {
			excluded = append(excluded, job.ID)
			continue
		}
		kept = append(kept, job)
	}
	j.Items = kept
	return excluded
}

// Truncate caps the list at n jobs. A non-positive n leaves the list as is.
func (j *Jobs) Truncate(n int) {
	if n > 0 && len(j.Items) > n {
		j.Items = j.Items[:n]
	}
}

func (j *Jobs) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(j); err != nil {
		return "", err
	}
	return file.Name(), nil
}
