//go:build integration

package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/heartrisk/internal/batch"
	"github.com/MikeSquared-Agency/heartrisk/internal/fuzzy"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	if err := EnsureSchema(dbURL); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	// Running it twice must be a no-op.
	if err := EnsureSchema(dbURL); err != nil {
		t.Fatalf("second EnsureSchema failed: %v", err)
	}

	ctx := context.Background()
	s, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestIntegration_WriteAndGetAssessment(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	in := fuzzy.Inputs{ChestPain: 5, HbA1c: 9, HDL: 45, LDL: 130, HeartRate: 100, Age: 62, BloodPressure: 150}
	a := fuzzy.Assess(in)

	id, err := s.WriteAssessment(ctx, SourceAPI, in, a)
	if err != nil {
		t.Fatalf("WriteAssessment failed: %v", err)
	}
	t.Cleanup(func() {
		s.pool.Exec(ctx, "DELETE FROM assessments WHERE id = $1", id)
	})

	got, err := s.GetAssessment(ctx, id)
	if err != nil {
		t.Fatalf("GetAssessment failed: %v", err)
	}
	if got.Inputs != in {
		t.Errorf("inputs = %+v, want %+v", got.Inputs, in)
	}
	if got.Score != a.Score || got.Level != a.Level.String() || got.RulesFired != a.RulesFired {
		t.Errorf("stored result = %+v, want %+v", got, a)
	}
	if got.RunID != nil {
		t.Errorf("single assessment should have no run id, got %v", got.RunID)
	}
	if got.Source != SourceAPI {
		t.Errorf("source = %q", got.Source)
	}

	list, err := s.ListAssessments(ctx, 5)
	if err != nil {
		t.Fatalf("ListAssessments failed: %v", err)
	}
	if len(list) == 0 || len(list) > 5 {
		t.Fatalf("ListAssessments returned %d rows", len(list))
	}
}

func TestIntegration_GetAssessmentNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetAssessment(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIntegration_WriteBatchRun(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	in := fuzzy.Inputs{ChestPain: 1, HbA1c: 5.5, HDL: 60, LDL: 90, HeartRate: 70, Age: 30, BloodPressure: 110}
	results := []batch.Result{
		{Index: 0, Line: 2, Inputs: in, Score: 2, Level: "Healthy", RulesFired: 1},
		{Index: 1, Line: 3, Level: batch.LevelError, Error: "column chol: invalid syntax"},
	}
	report := &batch.Report{
		RunID:     uuid.New(),
		Source:    "integration.csv",
		StartedAt: time.Now().UTC(),
		Results:   results,
		Summary:   batch.Summarize(results),
	}

	if err := s.WriteBatchRun(ctx, report); err != nil {
		t.Fatalf("WriteBatchRun failed: %v", err)
	}
	t.Cleanup(func() {
		s.pool.Exec(ctx, "DELETE FROM batch_runs WHERE id = $1", report.RunID)
	})

	var total, errCount, stored int
	err := s.pool.QueryRow(ctx, "SELECT total, error_count FROM batch_runs WHERE id = $1", report.RunID).Scan(&total, &errCount)
	if err != nil {
		t.Fatalf("query batch run: %v", err)
	}
	if total != 2 || errCount != 1 {
		t.Errorf("batch run total=%d errors=%d, want 2 and 1", total, errCount)
	}

	err = s.pool.QueryRow(ctx, "SELECT count(*) FROM assessments WHERE run_id = $1", report.RunID).Scan(&stored)
	if err != nil {
		t.Fatalf("count assessments: %v", err)
	}
	if stored != 1 {
		t.Errorf("stored %d assessments, want 1 (error rows skipped)", stored)
	}
}
