package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/contestlab/essay-intake/constants"
	"github.com/contestlab/essay-intake/internal/common"
	"github.com/contestlab/essay-intake/internal/entity"
)

// Ingestor is the behavior the server and CLI depend on.
type Ingestor interface {
	// Ingest persists one raw upload and returns its submission identity.
	Ingest(ctx context.Context, content []byte, originalFilename string) (entity.IngestResult, error)
}

// FSIngestor writes each upload into a fresh per-submission artifact
// directory under a base directory.
type FSIngestor struct {
	baseDir string
	logger  *slog.Logger
}

func NewFSIngestor(baseDir string, logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{baseDir: baseDir, logger: logger}
}

// Ingest assigns a submission ID, creates the artifact directory, and writes
// the raw bytes unmodified as original<ext>. The bytes are not inspected;
// content sniffing is the OCR provider's concern.
func (i *FSIngestor) Ingest(_ context.Context, content []byte, originalFilename string) (entity.IngestResult, error) {
	now := time.Now().UTC()
	id := NewSubmissionID(now)

	dir := filepath.Join(i.baseDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		i.logger.Error("ingest.mkdir.failed", "submission_id", id, "dir", dir, "error", err)
		return entity.IngestResult{}, common.NewAppError("INGEST_IO",
			fmt.Sprintf("create artifact dir %s: %v", dir, err), common.ErrIngestIO)
	}

	name := constants.OriginalBasename
	if ext := constants.NormalizeExt(filepath.Ext(originalFilename)); ext != "" {
		name += "." + ext
	}
	saved := filepath.Join(dir, name)
	if err := os.WriteFile(saved, content, 0o644); err != nil {
		i.logger.Error("ingest.write.failed", "submission_id", id, "path", saved, "error", err)
		return entity.IngestResult{}, common.NewAppError("INGEST_IO",
			fmt.Sprintf("write original upload %s: %v", saved, err), common.ErrIngestIO)
	}

	i.logger.Info("ingest.ok",
		"submission_id", id,
		"artifact_dir", dir,
		"bytes", len(content),
		"original_filename", originalFilename,
	)
	return entity.IngestResult{
		SubmissionID:     id,
		ArtifactDir:      dir,
		SavedPath:        saved,
		OriginalFilename: originalFilename,
		UploadedAt:       now,
	}, nil
}

// NewSubmissionID returns an identifier of the form
// sub_<YYYYMMDD_HHMMSS>_<8hex>: sortable by creation time, with a random
// suffix so rapid-fire calls never collide.
func NewSubmissionID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("sub_%s_%s", now.Format("20060102_150405"), suffix)
}
