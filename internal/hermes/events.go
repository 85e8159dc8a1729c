package hermes

import (
	"time"

	"github.com/MikeSquared-Agency/heartrisk/internal/fuzzy"
)

// NATS subjects used by the risk service.
const (
	SubjectAssessmentRequested = "heartrisk.assessment.requested"
	SubjectAssessmentCompleted = "heartrisk.assessment.completed"
	SubjectBatchCompleted      = "heartrisk.batch.completed"
	SubjectAgentRegistered     = "heartrisk.agent.registered"
)

// AssessmentRequested asks the service to score one patient.
type AssessmentRequested struct {
	RequestID string       `json:"request_id"`
	Source    string       `json:"source,omitempty"`
	Inputs    fuzzy.Inputs `json:"inputs"`
}

// AssessmentCompleted answers an AssessmentRequested. Error is set and the
// result fields are zero when the request could not be scored.
type AssessmentCompleted struct {
	RequestID    string            `json:"request_id"`
	AssessmentID string            `json:"assessment_id,omitempty"`
	Score        float64           `json:"score"`
	Level        string            `json:"level"`
	RulesFired   int               `json:"rules_fired"`
	Fallback     bool              `json:"fallback"`
	Memberships  fuzzy.Memberships `json:"memberships,omitempty"`
	Error        string            `json:"error,omitempty"`
	CompletedAt  time.Time         `json:"completed_at"`
}

// AgentRegistered announces a service instance on startup.
type AgentRegistered struct {
	Timestamp string `json:"timestamp"`
	Port      int    `json:"port"`
	Workers   int    `json:"workers"`
	Shards    int    `json:"shards"`
}
