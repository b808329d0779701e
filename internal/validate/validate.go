package validate

import (
	"github.com/contestlab/essay-intake/constants"
	"github.com/contestlab/essay-intake/internal/entity"
)

// Input is the merged partial record handed to validation: submission
// identity plus everything extraction produced.
type Input struct {
	SubmissionID     string
	ArtifactDir      string
	Fields           entity.ExtractedFields
	Metrics          entity.EssayMetrics
	OCRConfidenceAvg *float64
}

// Validate classifies one submission and materializes the final record.
// Rules run in a fixed order; each appends a reason code independently and
// none of them corrects or defaults a field. Validation findings are
// classification outcomes, never errors.
func Validate(in Input) (entity.SubmissionRecord, entity.ValidationReport) {
	codes := []string{}
	issues := []string{}
	flag := func(code constants.ReviewReason, issue string) {
		codes = append(codes, string(code))
		issues = append(issues, issue)
	}

	if in.Fields.StudentName == nil {
		flag(constants.ReasonMissingName, "student name was not detected")
	}
	if in.Fields.SchoolName == nil {
		flag(constants.ReasonMissingSchool, "school name was not detected")
	}
	// Grade zero counts as missing; grade must be positive for this contest.
	if in.Fields.Grade == nil || *in.Fields.Grade == 0 {
		flag(constants.ReasonMissingGrade, "grade was not detected")
	}
	if in.Metrics.WordCount == 0 {
		flag(constants.ReasonEmptyEssay, "essay body is empty")
	}
	if in.Metrics.WordCount > 0 && in.Metrics.WordCount < constants.MinEssayWords {
		flag(constants.ReasonShortEssay, "essay body is shorter than the minimum word count")
	}
	if in.OCRConfidenceAvg != nil && *in.OCRConfidenceAvg < constants.LowConfidenceThreshold {
		flag(constants.ReasonLowConfidence, "ocr confidence is below the review threshold")
	}

	needsReview := len(codes) > 0
	rec := entity.SubmissionRecord{
		SubmissionID:      in.SubmissionID,
		StudentName:       in.Fields.StudentName,
		SchoolName:        in.Fields.SchoolName,
		Grade:             in.Fields.Grade,
		TeacherName:       in.Fields.TeacherName,
		CityOrLocation:    in.Fields.CityOrLocation,
		WordCount:         in.Metrics.WordCount,
		OCRConfidenceAvg:  in.OCRConfidenceAvg,
		NeedsReview:       needsReview,
		ReviewReasonCodes: codes,
		ArtifactDir:       in.ArtifactDir,
	}
	report := entity.ValidationReport{
		IsValid:           !needsReview,
		NeedsReview:       needsReview,
		Issues:            issues,
		ReviewReasonCodes: codes,
	}
	return rec, report
}
