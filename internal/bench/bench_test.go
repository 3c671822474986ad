package bench

import (
	"os"
	"path/filepath"
	"testing"

	"ctx3d/internal/tokenstats"
)

func writeCorpus(t *testing.T, dir string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "report.txt"), []byte("REVENUE\nTotal Sales USD 45%\n"), 0o644); err != nil {
		t.Fatalf("write corpus file: %v", err)
	}
}

func TestRunEncodeModeOverSmallCorpus(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir)

	cfg := Config{
		Mode:       ModeEncode,
		Root:       dir,
		Preset:     "reports",
		Hyphenation: "merge",
		Tokenizer:  tokenstats.Cl100k,
	}
	runner, err := New(cfg, "")
	if err != nil {
		t.Skipf("tokenizer build unavailable in this environment: %v", err)
	}
	metrics, err := runner.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(metrics.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(metrics.Results))
	}
	if metrics.Results[0].Pages == 0 {
		t.Fatalf("expected at least one page in result")
	}
}

func TestEnforceThresholdsReportsFailure(t *testing.T) {
	cerMax := 0.1
	worstCER := 0.5
	metrics := CorpusMetrics{Results: []Result{{CER: &worstCER}}}
	err := Enforce(metrics, Thresholds{CERMax: &cerMax})
	if err == nil {
		t.Fatal("expected threshold failure error")
	}
}

func TestEnforceThresholdsPasses(t *testing.T) {
	cerMax := 0.9
	worstCER := 0.1
	metrics := CorpusMetrics{Results: []Result{{CER: &worstCER}}}
	if err := Enforce(metrics, Thresholds{CERMax: &cerMax}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
