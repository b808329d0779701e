package ocr

import (
	"context"
	"fmt"

	"github.com/contestlab/essay-intake/internal/common"
	"github.com/contestlab/essay-intake/internal/entity"
)

// Provider turns a persisted upload into recognized text. Implementations
// must return newline-preserving text, an average confidence in [0,1], and
// the text split on newlines. A failed run is fatal to the submission.
type Provider interface {
	ProcessImage(ctx context.Context, imagePath string) (entity.OCRResult, error)
}

// Provider names. This is a closed registry, not a plugin system; a real
// engine gets a new name and a new case here.
const (
	StubProviderName = "stub"
)

// NewProvider resolves a provider by name.
func NewProvider(name string) (Provider, error) {
	switch name {
	case StubProviderName:
		return NewStubProvider(), nil
	default:
		return nil, common.NewAppError("UNKNOWN_PROVIDER",
			fmt.Sprintf("unrecognized ocr provider %q", name), common.ErrUnknownProvider)
	}
}
