// Package normalize turns raw page lines into the deterministic, cleaned-up
// form the classifier and NumGuard extractor operate on (spec §4.A).
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Hyphenation controls how a line ending in '-' is joined with the next
// line during normalization.
type Hyphenation int

const (
	// Merge removes a trailing hyphen and joins it with the next line's
	// leading non-whitespace, no intervening whitespace.
	Merge Hyphenation = iota
	// Preserve leaves hyphenated line breaks untouched.
	Preserve
)

// ParseHyphenation maps a config string to a Hyphenation mode, defaulting to
// Merge for anything unrecognized.
func ParseHyphenation(s string) Hyphenation {
	if strings.EqualFold(strings.TrimSpace(s), "preserve") {
		return Preserve
	}
	return Merge
}

// Lines normalizes a raw sequence of lines: joins hyphenated breaks (in
// Merge mode), applies NFKC, strips control characters, collapses
// whitespace runs, trims, and drops empty results.
//
// Normalize is idempotent: Lines(Lines(x)) == Lines(x), since every
// transformation here (NFKC, whitespace collapse, trim) is itself
// idempotent and hyphen-joining only fires on a literal trailing '-' that
// a cleaned line will never reintroduce.
func Lines(raw []string, mode Hyphenation) []string {
	joined := joinHyphenation(raw, mode)

	out := make([]string, 0, len(joined))
	for _, line := range joined {
		cleaned := cleanLine(line)
		if cleaned == "" {
			continue
		}
		out = append(out, cleaned)
	}
	return out
}

func joinHyphenation(raw []string, mode Hyphenation) []string {
	if mode != Merge {
		return raw
	}
	out := make([]string, 0, len(raw))
	pending := ""
	for _, line := range raw {
		if pending != "" {
			line = pending + strings.TrimLeft(line, " \t")
			pending = ""
		}
		trimmedRight := strings.TrimRight(line, " \t")
		if strings.HasSuffix(trimmedRight, "-") && len(trimmedRight) > 0 {
			pending = trimmedRight[:len(trimmedRight)-1]
			continue
		}
		out = append(out, line)
	}
	if pending != "" {
		out = append(out, pending)
	}
	return out
}

func cleanLine(line string) string {
	normalized := norm.NFKC.String(line)

	var b strings.Builder
	b.Grow(len(normalized))
	lastWasSpace := false
	for _, r := range normalized {
		if unicode.IsControl(r) {
			continue
		}
		if unicode.IsSpace(r) {
			if lastWasSpace {
				continue
			}
			b.WriteByte(' ')
			lastWasSpace = true
			continue
		}
		b.WriteRune(r)
		lastWasSpace = false
	}
	return strings.TrimSpace(b.String())
}
