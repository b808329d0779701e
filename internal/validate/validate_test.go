package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/contestlab/essay-intake/internal/entity"
	"github.com/contestlab/essay-intake/internal/validate"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func fPtr(f float64) *float64 { return &f }

func fullInput() validate.Input {
	return validate.Input{
		SubmissionID: "sub_20250101_120000_deadbeef",
		ArtifactDir:  "/tmp/sub_20250101_120000_deadbeef",
		Fields: entity.ExtractedFields{
			StudentName:    strPtr("Jane Doe"),
			SchoolName:     strPtr("Lincoln"),
			Grade:          intPtr(7),
			TeacherName:    strPtr("Ms. Park"),
			CityOrLocation: strPtr("Springfield"),
		},
		Metrics:          entity.EssayMetrics{WordCount: 100, CharCount: 600, ParagraphCount: 3},
		OCRConfidenceAvg: fPtr(0.9),
	}
}

func TestValidateCleanRecord(t *testing.T) {
	rec, report := validate.Validate(fullInput())

	assert.False(t, rec.NeedsReview)
	assert.Empty(t, rec.ReviewReasonCodes)
	assert.True(t, report.IsValid)
	assert.Empty(t, report.Issues)
	assert.Equal(t, 100, rec.WordCount)
}

func TestValidateMissingNameOnly(t *testing.T) {
	in := validate.Input{
		Fields: entity.ExtractedFields{
			SchoolName: strPtr("X"),
			Grade:      intPtr(5),
		},
		Metrics:          entity.EssayMetrics{WordCount: 60},
		OCRConfidenceAvg: fPtr(0.8),
	}

	rec, report := validate.Validate(in)

	assert.True(t, rec.NeedsReview)
	assert.Equal(t, []string{"MISSING_NAME"}, rec.ReviewReasonCodes)
	assert.False(t, report.IsValid)
}

func TestValidateGradeZeroCountsAsMissing(t *testing.T) {
	in := fullInput()
	in.Fields.Grade = intPtr(0)

	rec, _ := validate.Validate(in)

	assert.Equal(t, []string{"MISSING_GRADE"}, rec.ReviewReasonCodes)
}

func TestValidateEssayWordBoundaries(t *testing.T) {
	tests := []struct {
		words int
		codes []string
	}{
		{0, []string{"EMPTY_ESSAY"}},
		{1, []string{"SHORT_ESSAY"}},
		{49, []string{"SHORT_ESSAY"}},
		{50, []string{}},
	}
	for _, tt := range tests {
		in := fullInput()
		in.Metrics.WordCount = tt.words

		rec, _ := validate.Validate(in)

		assert.Equal(t, tt.codes, rec.ReviewReasonCodes, "word count %d", tt.words)
	}
}

func TestValidateLowConfidence(t *testing.T) {
	in := fullInput()
	in.OCRConfidenceAvg = fPtr(0.49)

	rec, _ := validate.Validate(in)
	assert.Equal(t, []string{"LOW_CONFIDENCE"}, rec.ReviewReasonCodes)

	in.OCRConfidenceAvg = fPtr(0.5)
	rec, _ = validate.Validate(in)
	assert.Empty(t, rec.ReviewReasonCodes)

	in.OCRConfidenceAvg = nil
	rec, _ = validate.Validate(in)
	assert.Empty(t, rec.ReviewReasonCodes, "absent confidence is never flagged")
}

func TestValidateReasonCodeOrderIsFixed(t *testing.T) {
	in := validate.Input{
		Metrics:          entity.EssayMetrics{WordCount: 0},
		OCRConfidenceAvg: fPtr(0.1),
	}

	rec, report := validate.Validate(in)

	want := []string{"MISSING_NAME", "MISSING_SCHOOL", "MISSING_GRADE", "EMPTY_ESSAY", "LOW_CONFIDENCE"}
	assert.Equal(t, want, rec.ReviewReasonCodes)
	assert.True(t, rec.NeedsReview)
	assert.Len(t, report.Issues, len(want))
}

func TestValidateNeverCorrectsFields(t *testing.T) {
	in := fullInput()
	in.Fields.StudentName = nil

	rec, _ := validate.Validate(in)

	assert.Nil(t, rec.StudentName, "validator classifies, it does not default")
	assert.Equal(t, in.Fields.SchoolName, rec.SchoolName)
}
