package constants

// Pipeline stage names, used as report keys and in log messages.
const (
	StageOCR          = "ocr"
	StageSegmentation = "segmentation"
	StageExtraction   = "extraction"
	StageValidation   = "validation"
)

// Artifact file names written under each submission's artifact directory.
// The original upload is stored separately as "original<ext>".
const (
	ArtifactOCRJSON      = "ocr.json"
	ArtifactRawText      = "raw_text.txt"
	ArtifactContactBlock = "contact_block.txt"
	ArtifactEssayBlock   = "essay_block.txt"
	ArtifactStructured   = "structured.json"
	ArtifactValidation   = "validation.json"
)

// OriginalBasename is the stem for the persisted upload; the original file
// extension (lower-cased) is appended when present.
const OriginalBasename = "original"
