package batch

import (
	"github.com/MikeSquared-Agency/heartrisk/internal/fuzzy"
	"github.com/MikeSquared-Agency/heartrisk/internal/intake"
)

// LevelError marks a row that could not be scored.
const LevelError = "Error"

// Result is the outcome for one dataset row.
type Result struct {
	Index      int           `json:"index"`
	Line       int           `json:"line"`
	Record     intake.Record `json:"record"`
	Inputs     fuzzy.Inputs  `json:"inputs"`
	Score      float64       `json:"predicted_risk"`
	Level      string        `json:"risk_level"`
	RulesFired int           `json:"rules_fired"`
	Fallback   bool          `json:"fallback"`
	Error      string        `json:"error,omitempty"`
}

// Failed reports whether the row could not be scored.
func (r Result) Failed() bool { return r.Level == LevelError }

// Summary aggregates a run.
type Summary struct {
	Total           int            `json:"total"`
	Scored          int            `json:"scored"`
	Errors          int            `json:"errors"`
	AvgRisk         float64        `json:"avg_risk"`
	HighRiskCount   int            `json:"high_risk_count"`
	HighRiskPercent float64        `json:"high_risk_percent"`
	LevelCounts     map[string]int `json:"level_counts"`
}
