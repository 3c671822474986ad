package encode

import "testing"

func TestEncodeTextRoundTrip(t *testing.T) {
	cfg, err := NewConfig("reports", "merge", 0, false, 0, 24, false, 2)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	input, err := LoadBytes([]byte("REVENUE\nTotal Sales USD 45%\nThis is confidential, page 1"), "txt", cfg, nil)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	enc := New(cfg, nil)
	doc, metrics, err := enc.Encode(input)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if metrics.CellsTotal == 0 {
		t.Fatalf("expected cells")
	}
	if err := doc.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(doc.NumGuards) == 0 {
		t.Fatalf("expected numguards from '45%%'")
	}
}

func TestEncodeBudgetTruncates(t *testing.T) {
	cfg, err := NewConfig("reports", "merge", 1, false, 0, 24, false, 1)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	input, err := LoadBytes([]byte("line one\nline two\nline three"), "txt", cfg, nil)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	enc := New(cfg, nil)
	doc, _, err := enc.Encode(input)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(doc.Cells) != 1 {
		t.Fatalf("expected budget to truncate to 1 cell, got %d", len(doc.Cells))
	}
}

func TestEncodeDropFooters(t *testing.T) {
	cfg, err := NewConfig("reports", "merge", 0, true, 0, 24, false, 1)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	input, err := LoadBytes([]byte("Body text\nPage 1 of 2"), "txt", cfg, nil)
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	enc := New(cfg, nil)
	doc, _, err := enc.Encode(input)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, c := range doc.Cells {
		if c.CellType.String() == "FOOTER" {
			t.Fatalf("expected footers to be dropped")
		}
	}
}

func TestImageInputDisabledByDefault(t *testing.T) {
	cfg, err := NewConfig("reports", "merge", 0, false, 0, 24, false, 1)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	_, err = LoadBytes([]byte{0x89, 'P', 'N', 'G'}, "png", cfg, nil)
	if err == nil {
		t.Fatalf("expected ocr-disabled error for image input")
	}
}
