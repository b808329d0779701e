package constants

// ReviewReason is a stable code explaining why a submission needs review.
type ReviewReason string

// Stable values (store these exact strings in the ledger).
const (
	ReasonMissingName   ReviewReason = "MISSING_NAME"
	ReasonMissingSchool ReviewReason = "MISSING_SCHOOL"
	ReasonMissingGrade  ReviewReason = "MISSING_GRADE"
	ReasonEmptyEssay    ReviewReason = "EMPTY_ESSAY"
	ReasonShortEssay    ReviewReason = "SHORT_ESSAY"
	ReasonLowConfidence ReviewReason = "LOW_CONFIDENCE"
)

// ReasonDelimiter joins reason codes into a single ledger column.
const ReasonDelimiter = ";"

const (
	// MinEssayWords is the word count below which an essay is flagged SHORT_ESSAY.
	MinEssayWords = 50
	// LowConfidenceThreshold flags OCR runs whose average confidence is below it.
	LowConfidenceThreshold = 0.5
)
