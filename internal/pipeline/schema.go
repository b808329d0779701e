package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/contestlab/essay-intake/constants"
	"github.com/contestlab/essay-intake/internal/common"
)

// structuredArtifact is the merged extracted-fields-plus-metrics payload
// persisted as structured.json.
type structuredArtifact struct {
	SubmissionID     string   `json:"submission_id"`
	StudentName      *string  `json:"student_name"`
	SchoolName       *string  `json:"school_name"`
	Grade            *int     `json:"grade"`
	TeacherName      *string  `json:"teacher_name"`
	CityOrLocation   *string  `json:"city_or_location"`
	WordCount        int      `json:"word_count"`
	CharCount        int      `json:"char_count"`
	ParagraphCount   int      `json:"paragraph_count"`
	OCRConfidenceAvg *float64 `json:"ocr_confidence_avg"`
}

// buildStructuredSchema returns the JSON-Schema (draft 2020-12 subset) the
// structured.json artifact must satisfy. A violation indicates a programming
// bug, so it fails the run rather than flagging the record for review.
func buildStructuredSchema() map[string]any {
	optString := map[string]any{"type": []string{"string", "null"}}
	count := map[string]any{"type": "integer", "minimum": 0}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"submission_id":      map[string]any{"type": "string", "minLength": 1},
			"student_name":       optString,
			"school_name":        optString,
			"grade":              map[string]any{"type": []string{"integer", "null"}, "minimum": 0},
			"teacher_name":       optString,
			"city_or_location":   optString,
			"word_count":         count,
			"char_count":         count,
			"paragraph_count":    count,
			"ocr_confidence_avg": map[string]any{"type": []string{"number", "null"}, "minimum": 0.0, "maximum": 1.0},
		},
		"required": []string{"submission_id", "word_count", "char_count", "paragraph_count"},
	}
}

// writeStructuredArtifact validates the payload against the schema and then
// persists it.
func writeStructuredArtifact(dir string, payload structuredArtifact) error {
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return common.NewAppError("ARTIFACT_ENCODE",
			fmt.Sprintf("marshal structured payload: %v", err), common.ErrInternal)
	}
	if err := validateAgainstSchema(buildStructuredSchema(), b); err != nil {
		return common.NewAppError("ARTIFACT_SCHEMA",
			fmt.Sprintf("structured payload: %v", err), common.ErrInternal)
	}
	return writeArtifact(dir, constants.ArtifactStructured, b)
}

// validateAgainstSchema validates data against schemaMap.
func validateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
