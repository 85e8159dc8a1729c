package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/heartrisk/internal/fuzzy"
	"github.com/MikeSquared-Agency/heartrisk/internal/hermes"
	"github.com/MikeSquared-Agency/heartrisk/internal/metrics"
	"github.com/MikeSquared-Agency/heartrisk/internal/slack"
	"github.com/MikeSquared-Agency/heartrisk/internal/store"
)

// ErrInvalidInputs is returned when an input is NaN or infinite.
var ErrInvalidInputs = errors.New("invalid inputs")

// AssessmentStore persists single assessments.
type AssessmentStore interface {
	WriteAssessment(ctx context.Context, source string, in fuzzy.Inputs, a fuzzy.Assessment) (uuid.UUID, error)
}

// Publisher emits events.
type Publisher interface {
	Publish(subject string, data any) error
}

// Alerter notifies humans about high-risk results.
type Alerter interface {
	PostHighRiskAlert(ctx context.Context, alert slack.RiskAlert) error
}

// Processor scores assessment requests and fans the result out to the
// configured sinks. Every sink is optional.
type Processor struct {
	engine    *fuzzy.Engine
	store     AssessmentStore
	publisher Publisher
	alerter   Alerter
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func New(engine *fuzzy.Engine, s AssessmentStore, pub Publisher, al Alerter, m *metrics.Metrics, logger *slog.Logger) *Processor {
	return &Processor{
		engine:    engine,
		store:     s,
		publisher: pub,
		alerter:   al,
		metrics:   m,
		logger:    logger,
	}
}

// Outcome is a scored request. ID is uuid.Nil when nothing was persisted.
type Outcome struct {
	ID         uuid.UUID
	Assessment fuzzy.Assessment
}

// Evaluate validates and scores one set of inputs, persists it when a store
// is configured and alerts on High Risk. ref identifies the request in logs
// and alerts.
func (p *Processor) Evaluate(ctx context.Context, source, ref string, in fuzzy.Inputs) (Outcome, error) {
	if err := ValidateInputs(in); err != nil {
		return Outcome{}, err
	}

	start := time.Now()
	a := p.engine.Assess(in)
	p.metrics.ObserveAssessment(a, time.Since(start))

	out := Outcome{Assessment: a}
	if p.store != nil {
		id, err := p.store.WriteAssessment(ctx, source, in, a)
		if err != nil {
			p.logger.Error("failed to persist assessment", "ref", ref, "error", err)
		} else {
			out.ID = id
		}
	}

	if a.Level == fuzzy.LevelHigh && p.alerter != nil {
		alert := slack.RiskAlert{Reference: ref, Source: source, Inputs: in, Assessment: a}
		if err := p.alerter.PostHighRiskAlert(ctx, alert); err != nil {
			p.logger.Warn("failed to post high risk alert", "ref", ref, "error", err)
		}
	}

	p.logger.Info("assessment scored",
		"ref", ref,
		"source", source,
		"score", a.Score,
		"level", a.Level.String(),
		"rules_fired", a.RulesFired,
		"fallback", a.Fallback,
	)
	return out, nil
}

// HandleAssessmentRequested is the NATS handler for heartrisk.assessment.requested.
func (p *Processor) HandleAssessmentRequested(subject string, data []byte) {
	ctx := context.Background()

	var req hermes.AssessmentRequested
	if err := json.Unmarshal(data, &req); err != nil {
		p.logger.Error("failed to parse assessment request", "subject", subject, "error", err)
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	source := req.Source
	if source == "" {
		source = store.SourceNATS
	}

	evt := hermes.AssessmentCompleted{RequestID: req.RequestID}
	out, err := p.Evaluate(ctx, source, req.RequestID, req.Inputs)
	if err != nil {
		p.logger.Warn("rejected assessment request", "request_id", req.RequestID, "error", err)
		evt.Error = err.Error()
	} else {
		a := out.Assessment
		evt.Score = a.Score
		evt.Level = a.Level.String()
		evt.RulesFired = a.RulesFired
		evt.Fallback = a.Fallback
		evt.Memberships = a.Memberships
		if out.ID != uuid.Nil {
			evt.AssessmentID = out.ID.String()
		}
	}
	evt.CompletedAt = time.Now().UTC()

	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(hermes.SubjectAssessmentCompleted, evt); err != nil {
		p.logger.Error("failed to publish assessment result", "request_id", req.RequestID, "error", err)
	}
}

// ValidateInputs rejects NaN and infinite values.
func ValidateInputs(in fuzzy.Inputs) error {
	fields := []struct {
		name string
		v    float64
	}{
		{"chest_pain", in.ChestPain},
		{"hba1c", in.HbA1c},
		{"hdl", in.HDL},
		{"ldl", in.LDL},
		{"heart_rate", in.HeartRate},
		{"age", in.Age},
		{"blood_pressure", in.BloodPressure},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidInputs, f.name)
		}
	}
	return nil
}
