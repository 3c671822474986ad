package serialize

import (
	"strings"
	"testing"

	"ctx3d/internal/docmodel"
)

func sampleDoc() *docmodel.Document {
	d := docmodel.New("coarse", "HASH256")
	d.Pages = []docmodel.PageInfo{{Z: 0, WidthPx: 800, HeightPx: 1000}}

	textCode := d.Dict.Put("Hello world")
	d.Cells = append(d.Cells, docmodel.Cell{Z: 0, X: 10, Y: 20, W: 700, H: 20, CodeID: textCode, CellType: docmodel.Text, Importance: 100})

	tableCode := d.Dict.Put("Quarter | Revenue | Cost\nQ1 | 10 | 5\nQ2 | 12 | 6")
	d.Cells = append(d.Cells, docmodel.Cell{Z: 0, X: 10, Y: 60, W: 700, H: 40, CodeID: tableCode, CellType: docmodel.Table, Importance: 120})

	return d
}

func TestToStringFraming(t *testing.T) {
	s := New(DefaultConfig())
	out := s.ToString(sampleDoc())
	if !strings.HasPrefix(out, "<ctx3d grid=coarse codeset=HASH256") {
		t.Fatalf("expected header, got %q", out)
	}
	if !strings.Contains(out, "</ctx3d>") {
		t.Fatalf("expected closing tag")
	}
	if !strings.Contains(out, "Hello world") {
		t.Fatalf("expected plain text preview")
	}
	if !strings.Contains(out, "[csv") {
		t.Fatalf("expected csv-mode table preview by default (small payload), got %q", out)
	}
}

func TestToStringDimsMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TableMode = Dims
	s := New(cfg)
	out := s.ToString(sampleDoc())
	if !strings.Contains(out, "[table rows=3 cols=3]") {
		t.Fatalf("expected dims preview, got %q", out)
	}
}

func TestToStringNoHeader(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IncludeHeader = false
	cfg.IncludeGrammar = false
	s := New(cfg)
	out := s.ToString(sampleDoc())
	if strings.Contains(out, "<ctx3d") || strings.Contains(out, "grammar:") {
		t.Fatalf("expected no header/grammar, got %q", out)
	}
}
