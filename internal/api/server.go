package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/heartrisk/internal/batch"
	"github.com/MikeSquared-Agency/heartrisk/internal/fuzzy"
	"github.com/MikeSquared-Agency/heartrisk/internal/intake"
	"github.com/MikeSquared-Agency/heartrisk/internal/metrics"
	"github.com/MikeSquared-Agency/heartrisk/internal/processor"
	"github.com/MikeSquared-Agency/heartrisk/internal/store"
)

// Assessor scores a single set of inputs.
type Assessor interface {
	Evaluate(ctx context.Context, source, ref string, in fuzzy.Inputs) (processor.Outcome, error)
}

// AssessmentReader reads persisted assessments.
type AssessmentReader interface {
	GetAssessment(ctx context.Context, id uuid.UUID) (*store.AssessmentRow, error)
	ListAssessments(ctx context.Context, limit int) ([]store.AssessmentRow, error)
}

// DatasetRunner scores an uploaded dataset.
type DatasetRunner interface {
	Run(ctx context.Context, source string, rows []intake.Row) (*batch.Report, error)
}

// ConnectionChecker reports messaging health.
type ConnectionChecker interface {
	IsConnected() bool
}

type Config struct {
	Port           int
	APIToken       string // empty disables authentication
	MaxUploadBytes int64
}

// Deps are the collaborators behind the routes. Reader and NATS may be nil.
type Deps struct {
	Assessor Assessor
	Reader   AssessmentReader
	Runner   DatasetRunner
	NATS     ConnectionChecker
	Metrics  *metrics.Metrics
}

type Server struct {
	router     *chi.Mux
	maxUpload  int64
	deps       Deps
	httpServer *http.Server
}

const defaultMaxUpload = 10 << 20

func NewServer(cfg Config, deps Deps) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:    router,
		maxUpload: cfg.MaxUploadBytes,
		deps:      deps,
	}
	if s.maxUpload <= 0 {
		s.maxUpload = defaultMaxUpload
	}
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/heartrisk/status", s.status)
	router.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	router.Group(func(r chi.Router) {
		r.Use(BearerAuthMiddleware(cfg.APIToken))
		r.Post("/api/v1/assessments", s.createAssessment)
		r.Get("/api/v1/assessments", s.listAssessments)
		r.Get("/api/v1/assessments/{id}", s.getAssessment)
		r.Post("/api/v1/datasets", s.uploadDataset)
	})

	return s
}

func (s *Server) Start() error {
	slog.Info("API server starting", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	natsStatus := "disabled"
	if s.deps.NATS != nil {
		natsStatus = "disconnected"
		if s.deps.NATS.IsConnected() {
			natsStatus = "connected"
		}
	}
	storeStatus := "disabled"
	if s.deps.Reader != nil {
		storeStatus = "enabled"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"agent":      "heartrisk",
		"status":     "ok",
		"rule_space": fuzzy.RuleSpaceSize(),
		"nats":       natsStatus,
		"store":      storeStatus,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, statusCode int, msg string) {
	writeJSON(w, statusCode, map[string]string{"error": msg})
}
