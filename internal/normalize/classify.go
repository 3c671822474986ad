package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"ctx3d/internal/docmodel"
)

var tableAmountPattern = regexp.MustCompile(`(total|subtotal|amount).*(usd|eur|%)`)

// Classify assigns a CellType to a normalized line. tolerancePx comes from
// the active encode preset/config and loosens the whitespace-run heuristic
// used to promote loosely-aligned text into Table (spec §4.A).
func Classify(line string, tolerancePx int) docmodel.CellType {
	if isTable(line, tolerancePx) {
		return docmodel.Table
	}
	if isHeader(line) {
		return docmodel.Header
	}
	if isFooter(line) {
		return docmodel.Footer
	}
	return docmodel.Text
}

func isTable(line string, tolerancePx int) bool {
	if strings.Contains(line, "|") || strings.Contains(line, "\t") {
		return true
	}
	if tableAmountPattern.MatchString(strings.ToLower(line)) {
		return true
	}

	tokens := strings.Fields(line)
	if len(tokens) < 3 {
		return false
	}
	minRun := tolerancePx / 8
	if minRun < 2 {
		minRun = 2
	}
	run := 0
	for _, r := range line {
		if r == ' ' {
			run++
			if run >= minRun {
				return true
			}
			continue
		}
		run = 0
	}
	return false
}

func isHeader(line string) bool {
	count := 0
	for _, r := range line {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		count++
	}
	return count > 3
}

func isFooter(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "page ") || strings.Contains(lower, "confidential")
}

func isAllUpper(line string) bool {
	count := 0
	for _, r := range line {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		count++
	}
	return count > 0
}

func hasDigit(line string) bool {
	for _, r := range line {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

// Importance computes the clamped-to-[0,255] importance score for a
// classified line at the given zero-based index within its page (spec
// §4.A).
func Importance(line string, cellType docmodel.CellType, lineIndex int) uint8 {
	var base float64
	switch cellType {
	case docmodel.Header:
		base = 220
	case docmodel.Footer:
		base = 40 // footer_penalty = 1
	case docmodel.Table:
		base = 160
	default:
		base = 100
	}

	score := base
	if isAllUpper(line) {
		score += 35
	}
	if hasDigit(line) {
		score += 20
	}
	if lineIndex < 5 {
		score += 15
	}
	score -= 10 * float64(len(line)/120)

	if score < 0 {
		score = 0
	}
	if score > 255 {
		score = 255
	}
	return uint8(score)
}
