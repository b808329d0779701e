package ocr

import (
	"context"
	"strings"

	"github.com/contestlab/essay-intake/internal/entity"
)

// stubConfidence is the fixed average confidence the stub reports.
const stubConfidence = 0.65

// stubText imitates a handwritten single-page submission: contact header
// lines followed by essay paragraphs.
const stubText = `Name: Maria Santos
School: Jefferson Middle School
Grade: 7
Teacher: Mr. Alvarez
City: Springfield

What Community Means to Me

Community means belonging to something bigger than yourself. When our street
flooded last spring, neighbors I had never spoken to showed up with sandbags
and hot food, and nobody asked who deserved help first. My grandmother says a
town is just houses until people choose to look after each other.

I used to think community was something adults organized, like fairs or food
drives. Now I believe it starts smaller, with learning the name of the person
next door and noticing when their porch light stays off.`

// StubProvider ignores the image content entirely and returns one fixed,
// realistic text block. It exists so the rest of the pipeline is testable
// without a real OCR engine.
type StubProvider struct{}

func NewStubProvider() *StubProvider {
	return &StubProvider{}
}

func (p *StubProvider) ProcessImage(_ context.Context, _ string) (entity.OCRResult, error) {
	return entity.OCRResult{
		Text:          stubText,
		ConfidenceAvg: stubConfidence,
		Lines:         strings.Split(stubText, "\n"),
	}, nil
}
