package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/heartrisk/internal/fuzzy"
	"github.com/MikeSquared-Agency/heartrisk/internal/hermes"
	"github.com/MikeSquared-Agency/heartrisk/internal/intake"
	"github.com/MikeSquared-Agency/heartrisk/internal/metrics"
)

// RunStore persists a finished run.
type RunStore interface {
	WriteBatchRun(ctx context.Context, report *Report) error
}

// Publisher emits run events.
type Publisher interface {
	Publish(subject string, data any) error
}

// Notifier posts a human-readable run summary.
type Notifier interface {
	PostBatchSummary(ctx context.Context, report *Report) error
}

// Config holds the runner configuration.
type Config struct {
	Workers int
	DryRun  bool // skip the store even when one is configured
}

// Runner scores dataset rows concurrently.
type Runner struct {
	cfg       Config
	engine    *fuzzy.Engine
	store     RunStore
	publisher Publisher
	notifier  Notifier
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewRunner creates a runner. Sinks are attached with the With* methods.
func NewRunner(cfg Config, engine *fuzzy.Engine, m *metrics.Metrics, logger *slog.Logger) *Runner {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Runner{cfg: cfg, engine: engine, metrics: m, logger: logger}
}

// WithStore persists every completed run.
func (r *Runner) WithStore(s RunStore) *Runner {
	r.store = s
	return r
}

// WithPublisher announces every completed run.
func (r *Runner) WithPublisher(p Publisher) *Runner {
	r.publisher = p
	return r
}

// WithNotifier posts every completed run's summary.
func (r *Runner) WithNotifier(n Notifier) *Runner {
	r.notifier = n
	return r
}

// Run scores rows and returns the report. Results keep the input order.
// Row-level failures are recorded on the row; only cancellation and sink
// failures abort the run.
func (r *Runner) Run(ctx context.Context, source string, rows []intake.Row) (*Report, error) {
	report := &Report{
		RunID:     uuid.New(),
		Source:    source,
		StartedAt: time.Now().UTC(),
	}

	results := make([]Result, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i := range rows {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.evaluate(i, rows[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("score rows: %w", err)
	}

	report.Results = results
	report.Summary = Summarize(results)
	report.FinishedAt = time.Now().UTC()

	r.logger.Info("batch scored",
		"run_id", report.RunID,
		"source", source,
		"total", report.Summary.Total,
		"errors", report.Summary.Errors,
		"high_risk", report.Summary.HighRiskCount,
		"took", report.FinishedAt.Sub(report.StartedAt),
	)

	if r.store != nil && !r.cfg.DryRun {
		if err := r.store.WriteBatchRun(ctx, report); err != nil {
			return report, fmt.Errorf("persist run: %w", err)
		}
	}

	if r.publisher != nil {
		if err := r.publisher.Publish(hermes.SubjectBatchCompleted, report.Event()); err != nil {
			r.logger.Warn("failed to publish batch completion", "run_id", report.RunID, "error", err)
		}
	}

	if r.notifier != nil {
		if err := r.notifier.PostBatchSummary(ctx, report); err != nil {
			r.logger.Warn("failed to post batch summary, logging instead",
				"error", err,
				"summary", FormatSummary(report),
			)
		}
	}

	return report, nil
}

func (r *Runner) evaluate(i int, row intake.Row) Result {
	res := Result{Index: i, Line: row.Line, Record: row.Record}
	if row.Err != nil {
		return r.fail(res, row.Err)
	}

	in, err := intake.Preprocess(row.Record)
	if err != nil {
		return r.fail(res, err)
	}

	start := time.Now()
	a := r.engine.Assess(in)
	r.metrics.ObserveAssessment(a, time.Since(start))
	r.metrics.ObserveBatchRow(metrics.OutcomeScored)

	res.Inputs = in
	res.Score = round(a.Score, 2)
	res.Level = a.Level.String()
	res.RulesFired = a.RulesFired
	res.Fallback = a.Fallback
	return res
}

func (r *Runner) fail(res Result, err error) Result {
	r.logger.Debug("row not scored", "line", res.Line, "error", err)
	r.metrics.ObserveBatchRow(metrics.OutcomeError)
	res.Level = LevelError
	res.Error = err.Error()
	return res
}
