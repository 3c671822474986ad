package retrieve

import "strings"

// Levels lists the sensitivity ladder in ascending order of restriction.
var Levels = [4]string{"public", "internal", "confidential", "restricted"}

var sensitivityRank = map[string]int{
	"public":       0,
	"internal":     1,
	"confidential": 2,
	"restricted":   3,
}

// NormalizeSensitivity lowercases and trims value, falling back to
// "public" if it isn't one of the four known levels.
func NormalizeSensitivity(value string) string {
	lower := strings.ToLower(strings.TrimSpace(value))
	if _, ok := sensitivityRank[lower]; ok {
		return lower
	}
	return "public"
}

// SensitivityRank returns a level's position on the ladder, 0 ("public")
// if value is unrecognized.
func SensitivityRank(value string) int {
	return sensitivityRank[NormalizeSensitivity(value)]
}

// SensitivityAllowed reports whether level may be surfaced given threshold,
// i.e. level is no more restrictive than threshold.
func SensitivityAllowed(level, threshold string) bool {
	return SensitivityRank(level) <= SensitivityRank(threshold)
}
