package chunk

import (
	"testing"

	"ctx3d/internal/docmodel"
)

func buildDoc(n int, cellType docmodel.CellType) *docmodel.Document {
	d := docmodel.New("coarse", "HASH256")
	d.Pages = []docmodel.PageInfo{{Z: 0, WidthPx: 800, HeightPx: 4000}}
	for i := 0; i < n; i++ {
		payload := "line"
		code := d.Dict.Put(payload + string(rune('a'+i%26)))
		d.Cells = append(d.Cells, docmodel.Cell{Z: 0, X: 0, Y: int32(i * 10), CodeID: code, CellType: cellType, Importance: 100})
	}
	return d
}

func TestChunkByCellsOverlap(t *testing.T) {
	d := buildDoc(25, docmodel.Text)
	cfg := Config{Mode: Cells, CellsPerChunk: 10, OverlapCells: 3}
	chunker := New(cfg, nil)
	records := chunker.ChunkDocument(d, "doc1")
	if len(records) == 0 {
		t.Fatalf("expected chunks")
	}
	for i, r := range records {
		if r.Doc != "doc1" || r.ChunkIndex != i {
			t.Fatalf("unexpected record metadata: %+v", r)
		}
	}
}

func TestChunkIDStable(t *testing.T) {
	d := buildDoc(5, docmodel.Text)
	cfg := Config{Mode: Cells, CellsPerChunk: 10, OverlapCells: 0}
	a := New(cfg, nil).ChunkDocument(d, "doc1")
	b := New(cfg, nil).ChunkDocument(d, "doc1")
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("expected single chunk for small doc")
	}
	if a[0].ChunkID != b[0].ChunkID {
		t.Fatalf("expected stable chunk id across runs")
	}
}

func TestChunkByTableRows(t *testing.T) {
	d := buildDoc(15, docmodel.Table)
	cfg := Config{Mode: TableRows, CellsPerChunk: 5}
	records := New(cfg, nil).ChunkDocument(d, "doc1")
	if len(records) != 3 {
		t.Fatalf("expected 3 table-row chunks of 5 cells, got %d", len(records))
	}
}

func TestChunkByHeadings(t *testing.T) {
	d := docmodel.New("coarse", "HASH256")
	d.Pages = []docmodel.PageInfo{{Z: 0, WidthPx: 800, HeightPx: 4000}}
	h1 := d.Dict.Put("HEADER ONE")
	b1 := d.Dict.Put("body one")
	h2 := d.Dict.Put("HEADER TWO")
	b2 := d.Dict.Put("body two")
	d.Cells = []docmodel.Cell{
		{Z: 0, X: 0, Y: 0, CodeID: h1, CellType: docmodel.Header},
		{Z: 0, X: 0, Y: 10, CodeID: b1, CellType: docmodel.Text},
		{Z: 0, X: 0, Y: 20, CodeID: h2, CellType: docmodel.Header},
		{Z: 0, X: 0, Y: 30, CodeID: b2, CellType: docmodel.Text},
	}
	cfg := Config{Mode: Headings, MaxTokens: 0}
	records := New(cfg, nil).ChunkDocument(d, "doc1")
	if len(records) != 2 {
		t.Fatalf("expected 2 heading-delimited chunks, got %d", len(records))
	}
}
