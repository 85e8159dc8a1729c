package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/MikeSquared-Agency/heartrisk/internal/fuzzy"
)

// Assessment sources.
const (
	SourceAPI   = "api"
	SourceNATS  = "nats"
	SourceBatch = "batch"
)

// AssessmentRow is a persisted assessment.
type AssessmentRow struct {
	ID         uuid.UUID    `json:"id"`
	Source     string       `json:"source"`
	RunID      *uuid.UUID   `json:"run_id,omitempty"`
	Inputs     fuzzy.Inputs `json:"inputs"`
	Score      float64      `json:"score"`
	Level      string       `json:"level"`
	RulesFired int          `json:"rules_fired"`
	Fallback   bool         `json:"fallback"`
	CreatedAt  time.Time    `json:"created_at"`
}

const assessmentColumns = `id, source, run_id, chest_pain, hba1c, hdl, ldl, heart_rate, age, blood_pressure, score, level, rules_fired, fallback, created_at`

// WriteAssessment inserts a single assessment and returns its id.
func (s *Store) WriteAssessment(ctx context.Context, source string, in fuzzy.Inputs, a fuzzy.Assessment) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO assessments (id, source, chest_pain, hba1c, hdl, ldl, heart_rate, age, blood_pressure, score, level, rules_fired, fallback, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())`,
		id, source, in.ChestPain, in.HbA1c, in.HDL, in.LDL, in.HeartRate, in.Age, in.BloodPressure,
		a.Score, a.Level.String(), a.RulesFired, a.Fallback,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert assessment: %w", err)
	}
	return id, nil
}

// GetAssessment fetches an assessment by id. It returns ErrNotFound when no
// row matches.
func (s *Store) GetAssessment(ctx context.Context, id uuid.UUID) (*AssessmentRow, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+assessmentColumns+` FROM assessments WHERE id = $1`, id)

	a, err := scanAssessment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	return a, nil
}

// ListAssessments returns the most recent assessments, newest first.
func (s *Store) ListAssessments(ctx context.Context, limit int) ([]AssessmentRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+assessmentColumns+`
		FROM assessments
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var out []AssessmentRow
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func scanAssessment(row pgx.Row) (*AssessmentRow, error) {
	var (
		a     AssessmentRow
		runID uuid.NullUUID
	)
	err := row.Scan(
		&a.ID, &a.Source, &runID,
		&a.Inputs.ChestPain, &a.Inputs.HbA1c, &a.Inputs.HDL, &a.Inputs.LDL,
		&a.Inputs.HeartRate, &a.Inputs.Age, &a.Inputs.BloodPressure,
		&a.Score, &a.Level, &a.RulesFired, &a.Fallback, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if runID.Valid {
		a.RunID = &runID.UUID
	}
	return &a, nil
}
