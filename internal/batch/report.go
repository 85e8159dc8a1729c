package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Report is the full record of one batch run.
type Report struct {
	RunID      uuid.UUID `json:"run_id"`
	Source     string    `json:"source"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Summary    Summary   `json:"summary"`
	Results    []Result  `json:"results"`
}

// CompletedEvent is the payload published when a run finishes.
type CompletedEvent struct {
	RunID      uuid.UUID `json:"run_id"`
	Source     string    `json:"source"`
	Summary    Summary   `json:"summary"`
	FinishedAt time.Time `json:"finished_at"`
}

// Event returns the completion payload for the report.
func (r *Report) Event() CompletedEvent {
	return CompletedEvent{
		RunID:      r.RunID,
		Source:     r.Source,
		Summary:    r.Summary,
		FinishedAt: r.FinishedAt,
	}
}

// Save writes the report as indented JSON, creating parent directories.
// A leading ~/ is expanded to the user's home directory.
func (r *Report) Save(path string) error {
	p := expandHome(path)

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	return os.WriteFile(p, data, 0o644)
}

// LoadReport reads a report written by Save.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &r, nil
}

func expandHome(path string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
