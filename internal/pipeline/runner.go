package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/contestlab/essay-intake/constants"
	"github.com/contestlab/essay-intake/internal/common"
	"github.com/contestlab/essay-intake/internal/entity"
	"github.com/contestlab/essay-intake/internal/extract"
	"github.com/contestlab/essay-intake/internal/ocr"
	"github.com/contestlab/essay-intake/internal/segment"
	"github.com/contestlab/essay-intake/internal/validate"
)

// Request identifies one ingested submission to process.
type Request struct {
	SubmissionID string
	ArtifactDir  string
	ImagePath    string
	ProviderName string
}

// Runner orchestrates the four pipeline stages in a fixed sequence, writing
// an artifact after each stage. Artifacts double as the debug trail; there is
// no resume-from-checkpoint, so a mid-run failure leaves a partial artifact
// directory and the whole submission must be retried from ingest.
type Runner struct {
	logger      *slog.Logger
	newProvider func(name string) (ocr.Provider, error)
}

func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger, newProvider: ocr.NewProvider}
}

// Process runs OCR, segmentation, extraction, and validation for one
// submission and returns the final record plus a per-stage report. Any stage
// error aborts the run; no partial record is produced.
func (r *Runner) Process(ctx context.Context, req Request) (entity.SubmissionRecord, entity.ProcessingReport, error) {
	var report entity.ProcessingReport

	// Resolve the provider before any I/O so an unknown name fails cleanly.
	provider, err := r.newProvider(req.ProviderName)
	if err != nil {
		return entity.SubmissionRecord{}, report, err
	}

	// Stage 1: OCR
	start := time.Now()
	ocrRes, err := provider.ProcessImage(ctx, req.ImagePath)
	if err != nil {
		r.logger.Error("pipeline.ocr.failed",
			"submission_id", req.SubmissionID, "provider", req.ProviderName, "error", err)
		return entity.SubmissionRecord{}, report, common.NewAppError("OCR_FAILURE",
			fmt.Sprintf("provider %s on %s: %v", req.ProviderName, req.ImagePath, err),
			common.ErrOCRFailure)
	}
	if err := writeJSONArtifact(req.ArtifactDir, constants.ArtifactOCRJSON, ocrRes); err != nil {
		return entity.SubmissionRecord{}, report, err
	}
	if err := writeTextArtifact(req.ArtifactDir, constants.ArtifactRawText, ocrRes.Text); err != nil {
		return entity.SubmissionRecord{}, report, err
	}
	report.OCR = entity.StageReport{
		ElapsedMS: time.Since(start).Milliseconds(),
		Details: map[string]any{
			"provider":       req.ProviderName,
			"confidence_avg": ocrRes.ConfidenceAvg,
			"lines":          len(ocrRes.Lines),
			"text_bytes":     len(ocrRes.Text),
		},
	}
	r.logger.Info("pipeline.ocr.ok",
		"submission_id", req.SubmissionID,
		"provider", req.ProviderName,
		"confidence", ocrRes.ConfidenceAvg,
		"lines", len(ocrRes.Lines),
	)

	// Stage 2: segmentation
	start = time.Now()
	contactBlock, essayBlock := segment.Split(ocrRes.Text)
	if err := writeTextArtifact(req.ArtifactDir, constants.ArtifactContactBlock, contactBlock); err != nil {
		return entity.SubmissionRecord{}, report, err
	}
	if err := writeTextArtifact(req.ArtifactDir, constants.ArtifactEssayBlock, essayBlock); err != nil {
		return entity.SubmissionRecord{}, report, err
	}
	report.Segmentation = entity.StageReport{
		ElapsedMS: time.Since(start).Milliseconds(),
		Details: map[string]any{
			"contact_chars": len(contactBlock),
			"essay_chars":   len(essayBlock),
		},
	}

	// Stage 3: extraction
	start = time.Now()
	fields := extract.ExtractFields(contactBlock)
	metrics := extract.ComputeMetrics(essayBlock)
	conf := ocrRes.ConfidenceAvg
	structured := structuredArtifact{
		SubmissionID:     req.SubmissionID,
		StudentName:      fields.StudentName,
		SchoolName:       fields.SchoolName,
		Grade:            fields.Grade,
		TeacherName:      fields.TeacherName,
		CityOrLocation:   fields.CityOrLocation,
		WordCount:        metrics.WordCount,
		CharCount:        metrics.CharCount,
		ParagraphCount:   metrics.ParagraphCount,
		OCRConfidenceAvg: &conf,
	}
	if err := writeStructuredArtifact(req.ArtifactDir, structured); err != nil {
		return entity.SubmissionRecord{}, report, err
	}
	report.Extraction = entity.StageReport{
		ElapsedMS: time.Since(start).Milliseconds(),
		Details: map[string]any{
			"word_count":      metrics.WordCount,
			"char_count":      metrics.CharCount,
			"paragraph_count": metrics.ParagraphCount,
		},
	}

	// Stage 4: validation
	rec, vreport := validate.Validate(validate.Input{
		SubmissionID:     req.SubmissionID,
		ArtifactDir:      req.ArtifactDir,
		Fields:           fields,
		Metrics:          metrics,
		OCRConfidenceAvg: &conf,
	})
	if err := writeJSONArtifact(req.ArtifactDir, constants.ArtifactValidation, vreport); err != nil {
		return entity.SubmissionRecord{}, report, err
	}
	report.Validation = vreport
	report.NeedsReview = rec.NeedsReview

	r.logger.Info("pipeline.ok",
		"submission_id", req.SubmissionID,
		"needs_review", rec.NeedsReview,
		"reason_codes", rec.ReviewReasonCodes,
		"word_count", rec.WordCount,
	)
	return rec, report, nil
}
