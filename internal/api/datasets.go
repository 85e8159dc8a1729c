package api

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/MikeSquared-Agency/heartrisk/internal/batch"
	"github.com/MikeSquared-Agency/heartrisk/internal/intake"
)

const sampleRows = 10

type datasetResponse struct {
	RunID    string         `json:"run_id"`
	Filename string         `json:"filename"`
	Stats    batch.Summary  `json:"stats"`
	Sample   []batch.Result `json:"sample"`
}

// uploadDataset handles POST /api/v1/datasets
func (s *Server) uploadDataset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	// A part sent with an empty filename is parsed as a plain form value.
	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		if _, ok := r.MultipartForm.Value["file"]; ok {
			writeError(w, http.StatusBadRequest, "no file selected")
			return
		}
		writeError(w, http.StatusBadRequest, "no file part")
		return
	}
	header := files[0]
	name := filepath.Base(header.Filename)
	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "no file selected")
		return
	}
	if !intake.AllowedFile(name) {
		writeError(w, http.StatusBadRequest, "only CSV files are allowed")
		return
	}

	f, err := header.Open()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "open upload")
		return
	}
	defer f.Close()

	rows, err := intake.ReadCSV(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.deps.Runner.Run(r.Context(), name, rows)
	if err != nil && report == nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err != nil {
		// Scored but not persisted; the caller still gets the results.
		w.Header().Set("X-Heartrisk-Warning", err.Error())
	}

	writeJSON(w, http.StatusOK, datasetResponse{
		RunID:    report.RunID.String(),
		Filename: name,
		Stats:    report.Summary,
		Sample:   batch.Sample(report.Results, sampleRows),
	})
}
