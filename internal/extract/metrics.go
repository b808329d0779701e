package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/contestlab/essay-intake/internal/entity"
)

// ComputeMetrics summarizes the essay block: whitespace-delimited word count,
// character length as given, and non-empty blank-line-separated paragraphs.
func ComputeMetrics(essayBlock string) entity.EssayMetrics {
	m := entity.EssayMetrics{
		WordCount: len(strings.Fields(essayBlock)),
		CharCount: utf8.RuneCountInString(essayBlock),
	}
	for _, p := range strings.Split(essayBlock, "\n\n") {
		if strings.TrimSpace(p) != "" {
			m.ParagraphCount++
		}
	}
	return m
}
