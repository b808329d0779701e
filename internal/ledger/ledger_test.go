package ledger_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contestlab/essay-intake/internal/entity"
	"github.com/contestlab/essay-intake/internal/ledger"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func fPtr(f float64) *float64 { return &f }

func cleanRecord() entity.SubmissionRecord {
	return entity.SubmissionRecord{
		SubmissionID:      "sub_20250301_090000_deadbeef",
		StudentName:       strPtr("Jane Doe"),
		SchoolName:        strPtr("Lincoln"),
		Grade:             intPtr(7),
		TeacherName:       strPtr("Ms. Park"),
		CityOrLocation:    strPtr("Springfield"),
		WordCount:         120,
		OCRConfidenceAvg:  fPtr(0.65),
		NeedsReview:       false,
		ReviewReasonCodes: []string{},
		ArtifactDir:       "/tmp/sub_20250301_090000_deadbeef",
	}
}

func reviewRecord() entity.SubmissionRecord {
	return entity.SubmissionRecord{
		SubmissionID:      "sub_20250301_091500_cafef00d",
		WordCount:         12,
		OCRConfidenceAvg:  fPtr(0.4),
		NeedsReview:       true,
		ReviewReasonCodes: []string{"MISSING_NAME", "SHORT_ESSAY", "LOW_CONFIDENCE"},
		ArtifactDir:       "/tmp/sub_20250301_091500_cafef00d",
	}
}

func TestAppendSegregatesByReviewStatus(t *testing.T) {
	dir := t.TempDir()
	l := ledger.NewCSVLedger(dir, nil)

	cleanPath, err := l.Append(cleanRecord())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ledger.CleanFilename), cleanPath)

	reviewPath, err := l.Append(reviewRecord())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ledger.NeedsReviewFilename), reviewPath)
}

func TestAppendWritesHeaderOnceAndIsNotDeduplicating(t *testing.T) {
	dir := t.TempDir()
	l := ledger.NewCSVLedger(dir, nil)

	rec := cleanRecord()
	_, err := l.Append(rec)
	require.NoError(t, err)
	_, err = l.Append(rec)
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, ledger.CleanFilename))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3, "one header plus two data rows")
	assert.Equal(t, ledger.Header, rows[0])
	assert.Equal(t, rows[1], rows[2], "identical record appends identically")
	assert.Equal(t, "0.65", rows[1][7], "confidence formatted to 2 decimals")
	assert.Equal(t, "", rows[1][8], "clean record has no reason codes")

	stats, err := l.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CleanCount)
	assert.Equal(t, 0, stats.NeedsReviewCount)
	assert.Equal(t, 2, stats.TotalCount)
}

func TestReasonCodesJoinedWithSemicolon(t *testing.T) {
	dir := t.TempDir()
	l := ledger.NewCSVLedger(dir, nil)

	_, err := l.Append(reviewRecord())
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, ledger.NeedsReviewFilename))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "MISSING_NAME;SHORT_ESSAY;LOW_CONFIDENCE", rows[1][8])
	assert.Equal(t, "", rows[1][1], "missing optional serializes as empty string")
	assert.Equal(t, "", rows[1][3])
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	l := ledger.NewCSVLedger(dir, nil)

	want := reviewRecord()
	_, err := l.Append(want)
	require.NoError(t, err)

	got, err := l.ReadFile(ledger.NeedsReviewFilename)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, want.SubmissionID, got[0].SubmissionID)
	assert.Equal(t, want.WordCount, got[0].WordCount)
	assert.Equal(t, want.ReviewReasonCodes, got[0].ReviewReasonCodes)
	assert.True(t, got[0].NeedsReview)
	assert.Nil(t, got[0].StudentName)
	require.NotNil(t, got[0].OCRConfidenceAvg)
	assert.InDelta(t, 0.4, *got[0].OCRConfidenceAvg, 1e-9)
}

func TestStatsWithMissingFiles(t *testing.T) {
	l := ledger.NewCSVLedger(t.TempDir(), nil)

	stats, err := l.Stats()
	require.NoError(t, err)
	assert.Equal(t, ledger.Stats{}, stats)
}
