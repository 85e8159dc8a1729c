package hermes

import (
	"encoding/json"
	"testing"
)

func TestAssessmentRequestedParsing(t *testing.T) {
	raw := `{
		"request_id": "req-001",
		"source": "triage-bot",
		"inputs": {
			"chest_pain": 5,
			"hba1c": 9,
			"hdl": 45,
			"ldl": 130,
			"heart_rate": 100,
			"age": 62,
			"blood_pressure": 150
		}
	}`

	var req AssessmentRequested
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		t.Fatalf("failed to parse AssessmentRequested: %v", err)
	}

	if req.RequestID != "req-001" {
		t.Errorf("expected request_id 'req-001', got '%s'", req.RequestID)
	}
	if req.Source != "triage-bot" {
		t.Errorf("expected source 'triage-bot', got '%s'", req.Source)
	}
	if req.Inputs.HbA1c != 9 || req.Inputs.BloodPressure != 150 {
		t.Errorf("unexpected inputs: %+v", req.Inputs)
	}
}

func TestAssessmentCompletedOmitsEmptyError(t *testing.T) {
	data, err := json.Marshal(AssessmentCompleted{RequestID: "req-002", Score: 2, Level: "Healthy"})
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if _, ok := fields["error"]; ok {
		t.Error("error field should be omitted when empty")
	}
	if fields["level"] != "Healthy" {
		t.Errorf("expected level 'Healthy', got %v", fields["level"])
	}
}

func TestSubjects(t *testing.T) {
	subjects := map[string]string{
		SubjectAssessmentRequested: "heartrisk.assessment.requested",
		SubjectAssessmentCompleted: "heartrisk.assessment.completed",
		SubjectBatchCompleted:      "heartrisk.batch.completed",
		SubjectAgentRegistered:     "heartrisk.agent.registered",
	}
	for got, want := range subjects {
		if got != want {
			t.Errorf("subject %q, want %q", got, want)
		}
	}
}
