package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/contestlab/essay-intake/internal/common"
)

// Artifact files are write-once; each stage writes its own before the next
// stage runs.

func writeJSONArtifact(dir, name string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return common.NewAppError("ARTIFACT_ENCODE",
			fmt.Sprintf("marshal %s: %v", name, err), common.ErrInternal)
	}
	return writeArtifact(dir, name, b)
}

func writeTextArtifact(dir, name, text string) error {
	return writeArtifact(dir, name, []byte(text))
}

func writeArtifact(dir, name string, b []byte) error {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return common.NewAppError("ARTIFACT_IO",
			fmt.Sprintf("write artifact %s: %v", path, err), common.ErrIngestIO)
	}
	return nil
}
