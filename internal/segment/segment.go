package segment

import "strings"

// Anchor tokens that mark a line as part of the contact section.
var anchorTokens = []string{"name:", "school:", "grade:", "teacher:", "location:", "city:"}

const (
	// minContactLines is the assumed minimum contact-section length.
	minContactLines = 3
	// keywordScanLimit caps how many leading lines are scanned for anchors.
	keywordScanLimit = 15
	// blankScanLimit caps how far a blank-line layout break is searched for.
	blankScanLimit = 12
	// essayLineMinChars marks a long anchor-free line as the first essay line.
	essayLineMinChars = 50
)

// Split separates full OCR text into a contact block and an essay block using
// line-position and keyword heuristics. The heuristic can mis-segment
// pure-essay text (the contact block floor is 3 lines); that is a documented
// limitation, not a defect.
func Split(rawText string) (contactBlock, essayBlock string) {
	lines := strings.Split(strings.TrimSpace(rawText), "\n")

	contactEnd := minContactLines
	for i, line := range lines {
		if i >= keywordScanLimit {
			break
		}
		if containsAnchor(line) {
			if i+1 > contactEnd {
				contactEnd = i + 1
			}
			continue
		}
		// Past the floor, a long anchor-free line reads as essay prose.
		if i > 2 && len(strings.TrimSpace(line)) > essayLineMinChars {
			break
		}
	}

	// Prefer an explicit layout break over the keyword heuristic.
	for i := contactEnd; i < len(lines) && i < blankScanLimit; i++ {
		if strings.TrimSpace(lines[i]) == "" {
			contactEnd = i
			break
		}
	}

	if contactEnd > len(lines) {
		contactEnd = len(lines)
	}
	contactBlock = strings.TrimSpace(strings.Join(lines[:contactEnd], "\n"))
	if contactEnd < len(lines) {
		essayBlock = strings.TrimSpace(strings.Join(lines[contactEnd:], "\n"))
	}
	return contactBlock, essayBlock
}

func containsAnchor(line string) bool {
	lower := strings.ToLower(line)
	for _, tok := range anchorTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}
