package retrieve

import (
	"math"
	"strings"
)

const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// tokenizeBM25 lowercases and splits on non-alphanumeric runs, dropping
// empties (spec §4.I: "lowercase; split on non-alphanumeric; drop
// empties").
func tokenizeBM25(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= '0' && r <= '9') && !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z')
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, strings.ToLower(f))
	}
	return tokens
}

// documentFrequency counts, per token, the number of corpus documents
// containing it at least once.
func documentFrequency(corpus [][]string) map[string]int {
	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{}, len(doc))
		for _, tok := range doc {
			seen[tok] = struct{}{}
		}
		for tok := range seen {
			df[tok]++
		}
	}
	return df
}

// averageLength returns the mean token count across corpus, 1 for an
// empty corpus to keep bm25Score's denominator well-defined.
func averageLength(corpus [][]string) float32 {
	if len(corpus) == 0 {
		return 1
	}
	var total int
	for _, doc := range corpus {
		total += len(doc)
	}
	return float32(total) / float32(len(corpus))
}

// bm25Score computes Okapi BM25 (K1=1.2, B=0.75) for a query token bag
// against one document's token bag, following the corpus's df and
// avgLen. totalDocs uses the maximum observed document frequency as a
// corpus-size proxy (spec §9 open question: "semantically closer to
// |docs|; keep source behavior but flag" — reproduced as specified, not
// corrected to len(corpus)).
func bm25Score(queryTokens, docTokens []string, df map[string]int, avgLen float32) float32 {
	if len(docTokens) == 0 {
		return 0
	}
	docLen := float32(len(docTokens))
	tf := make(map[string]int, len(docTokens))
	for _, tok := range docTokens {
		tf[tok]++
	}
	totalDocs := maxDF(df)
	var score float32
	for _, tok := range queryTokens {
		freq, ok := tf[tok]
		if !ok {
			continue
		}
		dfTok := float32(df[tok])
		if dfTok == 0 {
			dfTok = 1
		}
		idf := float32(math.Log(float64((totalDocs-dfTok+0.5)/(dfTok+0.5))))
		if idf < 0 {
			idf = 0
		}
		numerator := float32(freq) * (bm25K1 + 1.0)
		denominator := float32(freq) + bm25K1*(1.0-bm25B+bm25B*(docLen/maxFloat32(avgLen, 1e-3)))
		score += idf * (numerator / maxFloat32(denominator, 1e-6))
	}
	return score
}

func maxDF(df map[string]int) float32 {
	var max int
	for _, v := range df {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		return 1
	}
	return float32(max)
}

func maxFloat32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
