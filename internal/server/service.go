package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/contestlab/essay-intake/constants"
	"github.com/contestlab/essay-intake/internal/common"
	"github.com/contestlab/essay-intake/internal/entity"
	"github.com/contestlab/essay-intake/internal/ingest"
	"github.com/contestlab/essay-intake/internal/ledger"
	"github.com/contestlab/essay-intake/internal/pipeline"
)

// Service is the HTTP surface the upload UI calls. It owns no pipeline
// logic; each request runs ingest → pipeline → ledger append synchronously.
type Service struct {
	ingestor       ingest.Ingestor
	runner         *pipeline.Runner
	ledger         *ledger.CSVLedger
	providerName   string
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewService(ing ingest.Ingestor, runner *pipeline.Runner, l *ledger.CSVLedger, providerName string, maxUploadBytes int64, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		ingestor:       ing,
		runner:         runner,
		ledger:         l,
		providerName:   providerName,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Routes builds the router.
func (s *Service) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Post("/v1/submissions", s.handleSubmit)
	r.Get("/v1/ledger/stats", s.handleStats)
	return r
}

// SubmitResponse is the JSON body returned for a processed submission.
type SubmitResponse struct {
	Record     entity.SubmissionRecord `json:"record"`
	Report     entity.ProcessingReport `json:"report"`
	LedgerPath string                  `json:"ledger_path"`
}

func (s *Service) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, hdr, err := r.FormFile("file")
	if err != nil {
		s.logger.Error("submit request missing file part", "error", err)
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	if ext := filepath.Ext(hdr.Filename); !constants.IsAllowedExt(ext) {
		s.logger.Error("submit request with unsupported extension", "filename", hdr.Filename)
		writeError(w, http.StatusBadRequest, "unsupported file extension")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}

	ing, err := s.ingestor.Ingest(r.Context(), content, hdr.Filename)
	if err != nil {
		s.logger.Error("ingest.failed", "filename", hdr.Filename, "error", err)
		writeError(w, statusFor(err), "ingest failed")
		return
	}

	rec, report, err := s.runner.Process(r.Context(), pipeline.Request{
		SubmissionID: ing.SubmissionID,
		ArtifactDir:  ing.ArtifactDir,
		ImagePath:    ing.SavedPath,
		ProviderName: s.providerName,
	})
	if err != nil {
		s.logger.Error("pipeline.failed", "submission_id", ing.SubmissionID, "error", err)
		writeError(w, statusFor(err), "processing failed")
		return
	}

	ledgerPath, err := s.ledger.Append(rec)
	if err != nil {
		// The record itself is fine; only the append failed.
		s.logger.Error("ledger.append.failed", "submission_id", rec.SubmissionID, "error", err)
		writeError(w, http.StatusInternalServerError, "ledger append failed")
		return
	}

	writeJSON(w, http.StatusCreated, SubmitResponse{
		Record:     rec,
		Report:     report,
		LedgerPath: ledgerPath,
	})
}

func (s *Service) handleStats(w http.ResponseWriter, _ *http.Request) {
	stats, err := s.ledger.Stats()
	if err != nil {
		s.logger.Error("ledger.stats.failed", "error", err)
		writeError(w, http.StatusInternalServerError, "ledger stats failed")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrUnknownProvider), errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
