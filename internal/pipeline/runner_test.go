package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contestlab/essay-intake/constants"
	"github.com/contestlab/essay-intake/internal/common"
	"github.com/contestlab/essay-intake/internal/entity"
	"github.com/contestlab/essay-intake/internal/ocr"
)

type failingProvider struct{}

func (failingProvider) ProcessImage(context.Context, string) (entity.OCRResult, error) {
	return entity.OCRResult{}, errors.New("unreadable image")
}

func stubRequest(t *testing.T) Request {
	t.Helper()
	dir := t.TempDir()
	return Request{
		SubmissionID: "sub_20250301_090000_deadbeef",
		ArtifactDir:  dir,
		ImagePath:    filepath.Join(dir, "original.png"),
		ProviderName: ocr.StubProviderName,
	}
}

func TestProcessWritesAllStageArtifacts(t *testing.T) {
	r := NewRunner(nil)
	req := stubRequest(t)

	rec, report, err := r.Process(context.Background(), req)
	require.NoError(t, err)

	for _, name := range []string{
		constants.ArtifactOCRJSON,
		constants.ArtifactRawText,
		constants.ArtifactContactBlock,
		constants.ArtifactEssayBlock,
		constants.ArtifactStructured,
		constants.ArtifactValidation,
	} {
		_, statErr := os.Stat(filepath.Join(req.ArtifactDir, name))
		assert.NoError(t, statErr, "artifact %s", name)
	}

	assert.Equal(t, req.SubmissionID, rec.SubmissionID)
	assert.Equal(t, req.ArtifactDir, rec.ArtifactDir)
	assert.False(t, report.NeedsReview)
	assert.True(t, report.Validation.IsValid)
}

func TestProcessExtractsStubContactFields(t *testing.T) {
	r := NewRunner(nil)

	rec, _, err := r.Process(context.Background(), stubRequest(t))
	require.NoError(t, err)

	require.NotNil(t, rec.StudentName)
	assert.Equal(t, "Maria Santos", *rec.StudentName)
	require.NotNil(t, rec.SchoolName)
	assert.Equal(t, "Jefferson Middle School", *rec.SchoolName)
	require.NotNil(t, rec.Grade)
	assert.Equal(t, 7, *rec.Grade)
	require.NotNil(t, rec.TeacherName)
	assert.Equal(t, "Mr. Alvarez", *rec.TeacherName)
	require.NotNil(t, rec.CityOrLocation)
	assert.Equal(t, "Springfield", *rec.CityOrLocation)

	assert.GreaterOrEqual(t, rec.WordCount, 50, "stub essay clears the short-essay threshold")
	require.NotNil(t, rec.OCRConfidenceAvg)
	assert.InDelta(t, 0.65, *rec.OCRConfidenceAvg, 1e-9)
	assert.False(t, rec.NeedsReview)
	assert.Empty(t, rec.ReviewReasonCodes)
}

func TestProcessStructuredArtifactShape(t *testing.T) {
	r := NewRunner(nil)
	req := stubRequest(t)

	_, _, err := r.Process(context.Background(), req)
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(req.ArtifactDir, constants.ArtifactStructured))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	for _, key := range []string{
		"submission_id", "student_name", "school_name", "grade", "teacher_name",
		"city_or_location", "word_count", "char_count", "paragraph_count", "ocr_confidence_avg",
	} {
		assert.Contains(t, got, key)
	}
}

func TestProcessUnknownProviderFailsBeforeAnyIO(t *testing.T) {
	r := NewRunner(nil)
	req := stubRequest(t)
	req.ProviderName = "nope"

	_, _, err := r.Process(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnknownProvider))

	entries, readErr := os.ReadDir(req.ArtifactDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "no artifacts written for an unknown provider")
}

func TestProcessOCRFailureIsFatal(t *testing.T) {
	r := NewRunner(nil)
	r.newProvider = func(string) (ocr.Provider, error) { return failingProvider{}, nil }
	req := stubRequest(t)

	_, _, err := r.Process(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrOCRFailure))

	entries, readErr := os.ReadDir(req.ArtifactDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "no partial record is persisted when OCR fails")
}

func TestProcessRunsAreIndependent(t *testing.T) {
	r := NewRunner(nil)
	reqA := stubRequest(t)
	reqB := stubRequest(t)
	reqB.SubmissionID = "sub_20250301_090001_cafef00d"

	recA, _, err := r.Process(context.Background(), reqA)
	require.NoError(t, err)
	recB, _, err := r.Process(context.Background(), reqB)
	require.NoError(t, err)

	assert.NotEqual(t, recA.SubmissionID, recB.SubmissionID)
	assert.NotEqual(t, recA.ArtifactDir, recB.ArtifactDir)

	rawA, err := os.ReadFile(filepath.Join(reqA.ArtifactDir, constants.ArtifactRawText))
	require.NoError(t, err)
	rawB, err := os.ReadFile(filepath.Join(reqB.ArtifactDir, constants.ArtifactRawText))
	require.NoError(t, err)
	assert.Equal(t, rawA, rawB, "stub OCR text is identical across runs")
}
