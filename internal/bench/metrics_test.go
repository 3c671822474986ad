package bench

import "testing"

func TestCERExactMatch(t *testing.T) {
	if CER("hello", "hello") != 0 {
		t.Fatal("expected 0 CER for exact match")
	}
}

func TestCEREmptyGoldNonEmptyPred(t *testing.T) {
	if CER("x", "") != 1 {
		t.Fatal("expected 1 CER when gold is empty and prediction is not")
	}
}

func TestWERCountsWordSubstitutions(t *testing.T) {
	wer := WER("the cat sat", "the dog sat")
	if wer <= 0 {
		t.Fatalf("expected nonzero WER for a word substitution, got %f", wer)
	}
}

func TestNumericStatsExactMatch(t *testing.T) {
	stats := NumericStats("Revenue $123", "Revenue $123")
	if stats.Precision != 1 || stats.Recall != 1 {
		t.Fatalf("expected precision/recall 1, got %+v", stats)
	}
}

func TestNumericStatsBothEmpty(t *testing.T) {
	stats := NumericStats("no numbers here", "nor here")
	if stats.F1 != 1 {
		t.Fatalf("expected F1=1 when neither side has numbers, got %f", stats.F1)
	}
}

func TestPercentile(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50}
	if p := Percentile(values, 0.5); p != 30 {
		t.Fatalf("expected median 30, got %f", p)
	}
}
