package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/contestlab/essay-intake/constants"
	"github.com/contestlab/essay-intake/internal/common"
	"github.com/contestlab/essay-intake/internal/entity"
)

// Ledger file names, segregated by review status.
const (
	CleanFilename       = "submissions_clean.csv"
	NeedsReviewFilename = "submissions_needs_review.csv"
)

// Header is the frozen column schema. Never reorder or rename columns; the
// files are append-only and existing rows are never rewritten.
var Header = []string{
	"submission_id",
	"student_name",
	"school_name",
	"grade",
	"teacher_name",
	"city_or_location",
	"word_count",
	"ocr_confidence_avg",
	"review_reason_codes",
	"artifact_dir",
}

// Stats reports row counts per ledger file.
type Stats struct {
	CleanCount       int `json:"clean_count"`
	NeedsReviewCount int `json:"needs_review_count"`
	TotalCount       int `json:"total_count"`
}

// CSVLedger appends finalized records to flat CSV files under dir. Appends
// are not deduplicating; concurrent writers from multiple processes are an
// open risk the caller must avoid.
type CSVLedger struct {
	dir    string
	logger *slog.Logger
}

func NewCSVLedger(dir string, logger *slog.Logger) *CSVLedger {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVLedger{dir: dir, logger: logger}
}

// Append serializes rec as one row into the ledger file matching its review
// status, writing the header first if the file is new. Returns the path
// appended to. An I/O failure here does not invalidate the record; the caller
// may retry the append independently.
func (l *CSVLedger) Append(rec entity.SubmissionRecord) (string, error) {
	name := CleanFilename
	if rec.NeedsReview {
		name = NeedsReviewFilename
	}
	path := filepath.Join(l.dir, name)

	writeHeader := false
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		writeHeader = true
	case err != nil:
		return "", common.NewAppError("LEDGER_IO",
			fmt.Sprintf("stat %s: %v", path, err), common.ErrLedgerIO)
	case info.Size() == 0:
		writeHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", common.NewAppError("LEDGER_IO",
			fmt.Sprintf("open %s: %v", path, err), common.ErrLedgerIO)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(Header); err != nil {
			return "", common.NewAppError("LEDGER_IO",
				fmt.Sprintf("write header to %s: %v", path, err), common.ErrLedgerIO)
		}
	}
	if err := w.Write(recordRow(rec)); err != nil {
		return "", common.NewAppError("LEDGER_IO",
			fmt.Sprintf("write row to %s: %v", path, err), common.ErrLedgerIO)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", common.NewAppError("LEDGER_IO",
			fmt.Sprintf("flush %s: %v", path, err), common.ErrLedgerIO)
	}

	l.logger.Info("ledger.append.ok",
		"submission_id", rec.SubmissionID,
		"path", path,
		"needs_review", rec.NeedsReview,
	)
	return path, nil
}

// Stats counts data rows in both ledger files. A missing file counts as zero.
func (l *CSVLedger) Stats() (Stats, error) {
	clean, err := l.countRows(CleanFilename)
	if err != nil {
		return Stats{}, err
	}
	review, err := l.countRows(NeedsReviewFilename)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		CleanCount:       clean,
		NeedsReviewCount: review,
		TotalCount:       clean + review,
	}, nil
}

// ReadFile parses one ledger file back into records. A missing file yields an
// empty slice.
func (l *CSVLedger) ReadFile(name string) ([]entity.SubmissionRecord, error) {
	path := filepath.Join(l.dir, name)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, common.NewAppError("LEDGER_IO",
			fmt.Sprintf("open %s: %v", path, err), common.ErrLedgerIO)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, common.NewAppError("LEDGER_IO",
			fmt.Sprintf("parse %s: %v", path, err), common.ErrLedgerIO)
	}
	recs := make([]entity.SubmissionRecord, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, common.NewAppError("LEDGER_IO",
				fmt.Sprintf("row %d of %s: %v", i, path, err), common.ErrLedgerIO)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (l *CSVLedger) countRows(name string) (int, error) {
	recs, err := l.ReadFile(name)
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

func recordRow(rec entity.SubmissionRecord) []string {
	grade := ""
	if rec.Grade != nil {
		grade = strconv.Itoa(*rec.Grade)
	}
	conf := ""
	if rec.OCRConfidenceAvg != nil {
		conf = fmt.Sprintf("%.2f", *rec.OCRConfidenceAvg)
	}
	return []string{
		rec.SubmissionID,
		strOrEmpty(rec.StudentName),
		strOrEmpty(rec.SchoolName),
		grade,
		strOrEmpty(rec.TeacherName),
		strOrEmpty(rec.CityOrLocation),
		strconv.Itoa(rec.WordCount),
		conf,
		strings.Join(rec.ReviewReasonCodes, constants.ReasonDelimiter),
		rec.ArtifactDir,
	}
}

func parseRow(row []string) (entity.SubmissionRecord, error) {
	if len(row) != len(Header) {
		return entity.SubmissionRecord{}, fmt.Errorf("expected %d columns, got %d", len(Header), len(row))
	}
	wordCount, err := strconv.Atoi(row[6])
	if err != nil {
		return entity.SubmissionRecord{}, fmt.Errorf("word_count %q: %w", row[6], err)
	}
	rec := entity.SubmissionRecord{
		SubmissionID:      row[0],
		StudentName:       emptyToNil(row[1]),
		SchoolName:        emptyToNil(row[2]),
		TeacherName:       emptyToNil(row[4]),
		CityOrLocation:    emptyToNil(row[5]),
		WordCount:         wordCount,
		ReviewReasonCodes: []string{},
		ArtifactDir:       row[9],
	}
	if row[3] != "" {
		g, err := strconv.Atoi(row[3])
		if err != nil {
			return entity.SubmissionRecord{}, fmt.Errorf("grade %q: %w", row[3], err)
		}
		rec.Grade = &g
	}
	if row[7] != "" {
		c, err := strconv.ParseFloat(row[7], 64)
		if err != nil {
			return entity.SubmissionRecord{}, fmt.Errorf("ocr_confidence_avg %q: %w", row[7], err)
		}
		rec.OCRConfidenceAvg = &c
	}
	if row[8] != "" {
		rec.ReviewReasonCodes = strings.Split(row[8], constants.ReasonDelimiter)
	}
	rec.NeedsReview = len(rec.ReviewReasonCodes) > 0
	return rec, nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
