package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/contestlab/essay-intake/internal/entity"
	"github.com/contestlab/essay-intake/internal/ledger"
)

// Service is a tiny façade over the ledger that produces XLSX bytes for
// exports.
type Service struct {
	ledger *ledger.CSVLedger
	logger *slog.Logger
}

func NewService(l *ledger.CSVLedger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{ledger: l, logger: logger}
}

// ExportXLSX returns an XLSX workbook (as bytes) with one sheet per ledger
// file. Row order matches the ledgers' append order.
func (s *Service) ExportXLSX() ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	sheets := []struct {
		name string
		file string
	}{
		{"Clean", ledger.CleanFilename},
		{"Needs Review", ledger.NeedsReviewFilename},
	}

	total := 0
	for i, sh := range sheets {
		if i == 0 {
			// Reuse the default sheet for the first ledger.
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return nil, err
		}

		recs, err := s.ledger.ReadFile(sh.file)
		if err != nil {
			return nil, fmt.Errorf("read ledger %s: %w", sh.file, err)
		}
		if err := writeSheet(f, sh.name, recs); err != nil {
			return nil, err
		}
		total += len(recs)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", total,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, recs []entity.SubmissionRecord) error {
	headers := []string{
		"Submission ID",
		"Student Name",
		"School",
		"Grade",
		"Teacher",
		"City/Location",
		"Word Count",
		"OCR Confidence",
		"Review Reasons",
		"Artifact Dir",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
	row := 2
	for _, r := range recs {
		write(1, row, r.SubmissionID)
		write(2, row, deref(r.StudentName))
		write(3, row, deref(r.SchoolName))
		if r.Grade != nil {
			write(4, row, *r.Grade)
		} else {
			write(4, row, "")
		}
		write(5, row, deref(r.TeacherName))
		write(6, row, deref(r.CityOrLocation))
		write(7, row, r.WordCount)
		if r.OCRConfidenceAvg != nil {
			write(8, row, fmt.Sprintf("%.2f", *r.OCRConfidenceAvg))
		} else {
			write(8, row, "")
		}
		write(9, row, strings.Join(r.ReviewReasonCodes, "; "))
		write(10, row, r.ArtifactDir)
		row++
	}

	// Widen the columns people actually read.
	_ = f.SetColWidth(sheet, "A", "A", 30) // submission id
	_ = f.SetColWidth(sheet, "B", "C", 24) // name, school
	_ = f.SetColWidth(sheet, "E", "F", 20) // teacher, city
	_ = f.SetColWidth(sheet, "I", "I", 36) // reasons
	_ = f.SetColWidth(sheet, "J", "J", 48) // artifact dir
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
