package entity

import "time"

// OCRResult is the output of the OCR stage. Immutable once produced; the
// pipeline persists it to ocr.json and then only the text travels onward.
type OCRResult struct {
	Text          string   `json:"text"`
	ConfidenceAvg float64  `json:"confidence_avg"`
	Lines         []string `json:"lines"`
}

// IngestResult is the per-upload ingest outcome.
type IngestResult struct {
	SubmissionID     string    `json:"submission_id"`
	ArtifactDir      string    `json:"artifact_dir"`
	SavedPath        string    `json:"saved_path"`
	OriginalFilename string    `json:"original_filename"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

// ExtractedFields holds the contact fields parsed from the contact block.
// Nil means the label never appeared; an empty string is a detected-but-empty
// value and the two are never conflated.
type ExtractedFields struct {
	StudentName    *string `json:"student_name"`
	SchoolName     *string `json:"school_name"`
	Grade          *int    `json:"grade"`
	TeacherName    *string `json:"teacher_name"`
	CityOrLocation *string `json:"city_or_location"`
}

// EssayMetrics summarizes the essay block.
type EssayMetrics struct {
	WordCount      int `json:"word_count"`
	CharCount      int `json:"char_count"`
	ParagraphCount int `json:"paragraph_count"`
}

// SubmissionRecord is the canonical output of one pipeline run. It is
// immutable after validation; the ledger only appends a serialized copy.
type SubmissionRecord struct {
	SubmissionID      string   `json:"submission_id"`
	StudentName       *string  `json:"student_name"`
	SchoolName        *string  `json:"school_name"`
	Grade             *int     `json:"grade"`
	TeacherName       *string  `json:"teacher_name"`
	CityOrLocation    *string  `json:"city_or_location"`
	WordCount         int      `json:"word_count"`
	OCRConfidenceAvg  *float64 `json:"ocr_confidence_avg"`
	NeedsReview       bool     `json:"needs_review"`
	ReviewReasonCodes []string `json:"review_reason_codes"`
	ArtifactDir       string   `json:"artifact_dir"`
}

// ValidationReport mirrors the validation.json artifact.
type ValidationReport struct {
	IsValid           bool     `json:"is_valid"`
	NeedsReview       bool     `json:"needs_review"`
	Issues            []string `json:"issues"`
	ReviewReasonCodes []string `json:"review_reason_codes"`
}

// StageReport carries per-stage diagnostics for the processing report.
type StageReport struct {
	ElapsedMS int64          `json:"elapsed_ms"`
	Details   map[string]any `json:"details,omitempty"`
}

// ProcessingReport describes one pipeline run, keyed by stage name. Transient;
// only the validation portion is mirrored to an artifact.
type ProcessingReport struct {
	OCR          StageReport      `json:"ocr"`
	Segmentation StageReport      `json:"segmentation"`
	Extraction   StageReport      `json:"extraction"`
	Validation   ValidationReport `json:"validation"`
	NeedsReview  bool             `json:"needs_review"`
}
