// Package numguard extracts and verifies numeric fingerprints captured at
// encode time to detect later corruption of numerically-sensitive content
// (spec §4.B).
package numguard

import (
	"crypto/sha1"
	"regexp"
	"strings"

	"ctx3d/internal/docmodel"
)

// numberUnitPattern mirrors the reference extractor: a 1-3 digit leading
// group with optional comma/whitespace-separated thousands groups and an
// optional decimal part, followed by optional whitespace and one of the
// recognized unit tokens. Deliberately does not special-case currency
// symbols like '$' — the reference implementation doesn't either, so a
// bare "$123" with no adjoining unit word yields an empty Units guard.
var numberUnitPattern = regexp.MustCompile(
	`\d{1,3}(?:[,\s]\d{3})*(?:\.\d+)?\s*(%|mmhg|mm|cm|mg|kg|usd|eur|bpm)?`,
)

// Extract scans a normalized line (extracted at position z,x,y, the cell's
// own position) for numeric tokens and emits one NumGuard per match.
func Extract(line string, z, x, y int32) []docmodel.NumGuard {
	lower := strings.ToLower(line)
	matches := numberUnitPattern.FindAllStringSubmatchIndex(lower, -1)

	var guards []docmodel.NumGuard
	for _, m := range matches {
		whole := lower[m[0]:m[1]]
		digits := digitsOnly(whole)
		if digits == "" {
			continue
		}
		units := ""
		if m[2] != -1 {
			units = lower[m[2]:m[3]]
		}
		guards = append(guards, docmodel.NumGuard{
			Z:     z,
			X:     x,
			Y:     y,
			Units: units,
			SHA1:  sha1.Sum([]byte(digits)),
		})
	}
	return guards
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HashDigitsFromPayload computes the SHA-1 of the digit-only substring of an
// arbitrary payload string, used during verification to compare a stored
// cell's current content against a guard captured at encode time.
func HashDigitsFromPayload(payload string) ([20]byte, bool) {
	digits := digitsOnly(payload)
	if digits == "" {
		return [20]byte{}, false
	}
	return sha1.Sum([]byte(digits)), true
}
