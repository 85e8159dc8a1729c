package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/heartrisk/internal/fuzzy"
	"github.com/MikeSquared-Agency/heartrisk/internal/processor"
	"github.com/MikeSquared-Agency/heartrisk/internal/store"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// assessmentRequest uses pointers so missing fields can be told apart from zeros.
type assessmentRequest struct {
	ChestPain     *float64 `json:"chest_pain"`
	HbA1c         *float64 `json:"hba1c"`
	HDL           *float64 `json:"hdl"`
	LDL           *float64 `json:"ldl"`
	HeartRate     *float64 `json:"heart_rate"`
	Age           *float64 `json:"age"`
	BloodPressure *float64 `json:"blood_pressure"`
}

func (req assessmentRequest) inputs() (fuzzy.Inputs, error) {
	fields := []struct {
		name string
		v    *float64
	}{
		{"chest_pain", req.ChestPain},
		{"hba1c", req.HbA1c},
		{"hdl", req.HDL},
		{"ldl", req.LDL},
		{"heart_rate", req.HeartRate},
		{"age", req.Age},
		{"blood_pressure", req.BloodPressure},
	}
	for _, f := range fields {
		if f.v == nil {
			return fuzzy.Inputs{}, fmt.Errorf("missing field %s", f.name)
		}
	}
	return fuzzy.Inputs{
		ChestPain:     *req.ChestPain,
		HbA1c:         *req.HbA1c,
		HDL:           *req.HDL,
		LDL:           *req.LDL,
		HeartRate:     *req.HeartRate,
		Age:           *req.Age,
		BloodPressure: *req.BloodPressure,
	}, nil
}

type assessmentResponse struct {
	ID          *uuid.UUID        `json:"id,omitempty"`
	Score       float64           `json:"score"`
	Level       fuzzy.Level       `json:"level"`
	RulesFired  int               `json:"rules_fired"`
	Fallback    bool              `json:"fallback"`
	Memberships fuzzy.Memberships `json:"memberships"`
}

// createAssessment handles POST /api/v1/assessments
func (s *Server) createAssessment(w http.ResponseWriter, r *http.Request) {
	var req assessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	in, err := req.inputs()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ref := middleware.GetReqID(r.Context())
	out, err := s.deps.Assessor.Evaluate(r.Context(), store.SourceAPI, ref, in)
	if errors.Is(err, processor.ErrInvalidInputs) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a := out.Assessment
	resp := assessmentResponse{
		Score:       a.Score,
		Level:       a.Level,
		RulesFired:  a.RulesFired,
		Fallback:    a.Fallback,
		Memberships: a.Memberships,
	}
	if out.ID != uuid.Nil {
		resp.ID = &out.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

// listAssessments handles GET /api/v1/assessments
func (s *Server) listAssessments(w http.ResponseWriter, r *http.Request) {
	if s.deps.Reader == nil {
		writeError(w, http.StatusServiceUnavailable, "assessment store not configured")
		return
	}

	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxListLimit)
	}

	rows, err := s.deps.Reader.ListAssessments(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rows == nil {
		rows = []store.AssessmentRow{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"assessments": rows,
		"count":       len(rows),
	})
}

// getAssessment handles GET /api/v1/assessments/{id}
func (s *Server) getAssessment(w http.ResponseWriter, r *http.Request) {
	if s.deps.Reader == nil {
		writeError(w, http.StatusServiceUnavailable, "assessment store not configured")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid assessment id")
		return
	}

	row, err := s.deps.Reader.GetAssessment(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "assessment not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, row)
}
