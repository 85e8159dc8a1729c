package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/heartrisk/internal/batch"
)

// WriteBatchRun records a run and every scored row in one transaction.
// Rows that failed to score are counted in the run but not stored.
func (s *Store) WriteBatchRun(ctx context.Context, report *batch.Report) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	sum := report.Summary
	_, err = tx.Exec(ctx, `
		INSERT INTO batch_runs (id, filename, total, avg_risk, high_risk_count, error_count, started_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
		report.RunID, report.Source, sum.Total, sum.AvgRisk, sum.HighRiskCount, sum.Errors, report.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("insert batch run: %w", err)
	}

	for _, r := range report.Results {
		if r.Failed() {
			continue
		}
		in := r.Inputs
		_, err = tx.Exec(ctx, `
			INSERT INTO assessments (id, source, run_id, chest_pain, hba1c, hdl, ldl, heart_rate, age, blood_pressure, score, level, rules_fired, fallback, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now())`,
			uuid.New(), SourceBatch, report.RunID, in.ChestPain, in.HbA1c, in.HDL, in.LDL, in.HeartRate, in.Age, in.BloodPressure,
			r.Score, r.Level, r.RulesFired, r.Fallback,
		)
		if err != nil {
			return fmt.Errorf("insert assessment (line %d): %w", r.Line, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
