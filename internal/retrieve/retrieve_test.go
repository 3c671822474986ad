package retrieve

import (
	"context"
	"path/filepath"
	"testing"

	"ctx3d/internal/docmodel"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	st, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSensitivityAllowed(t *testing.T) {
	if !SensitivityAllowed("public", "internal") {
		t.Fatal("expected public <= internal")
	}
	if SensitivityAllowed("restricted", "public") {
		t.Fatal("expected restricted > public to be disallowed")
	}
	if SensitivityRank("bogus") != 0 {
		t.Fatal("expected unknown level to normalize to public rank 0")
	}
}

func TestParseFiltersMinImportance(t *testing.T) {
	pred, err := ParseFilters("type=TABLE,min_importance=128")
	if err != nil {
		t.Fatalf("parse filters: %v", err)
	}
	if _, ok := pred.CellTypes[docmodel.Table]; !ok {
		t.Fatal("expected TABLE cell type clause")
	}
	if !pred.Matches("doc.txt", docmodel.Table, 0.6) {
		t.Fatal("expected 0.6 importance to pass a 128/255 threshold")
	}
	if pred.Matches("doc.txt", docmodel.Table, 0.1) {
		t.Fatal("expected 0.1 importance to fail a 128/255 threshold")
	}
}

func TestParseFiltersRejectsUnknownKey(t *testing.T) {
	if _, err := ParseFilters("bogus=1"); err == nil {
		t.Fatal("expected error for unrecognized filter key")
	}
}

func TestBM25ScoreFavorsMatchingDocument(t *testing.T) {
	// bm25Score uses the largest document frequency as its corpus-size
	// proxy, so "report" (in all three documents) sets it to 3 and gives
	// "revenue" (df 1) a positive idf; with df 1 everywhere every idf
	// would clamp to 0.
	corpus := [][]string{
		{"revenue", "grew", "this", "quarter", "report"},
		{"unrelated", "text", "about", "weather", "report"},
		{"cost", "held", "flat", "report"},
	}
	df := documentFrequency(corpus)
	avgLen := averageLength(corpus)
	query := []string{"revenue"}
	scoreA := bm25Score(query, corpus[0], df, avgLen)
	scoreB := bm25Score(query, corpus[1], df, avgLen)
	if scoreA <= scoreB {
		t.Fatalf("expected matching document to score higher: %f vs %f", scoreA, scoreB)
	}
}

func TestStoreRoundTripSearch(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	collectionID, err := st.EnsureCollection(ctx, "reports")
	if err != nil {
		t.Fatalf("ensure collection: %v", err)
	}
	docRecord, err := st.AddDocument(ctx, collectionID, DocumentInsert{SourcePath: "q1.pdf"})
	if err != nil {
		t.Fatalf("add document: %v", err)
	}

	textA := "revenue grew 45 percent"
	textB := "unrelated weather report"
	n, err := st.AddCells(ctx, docRecord.ID, []CellInsert{
		{Page: 0, Importance: 200, Sensitivity: "public", CellType: docmodel.Text, Text: &textA, Embedding: []float32{1, 0, 0}},
		{Page: 0, Importance: 50, Sensitivity: "confidential", CellType: docmodel.Text, Text: &textB, Embedding: []float32{0, 1, 0}},
	})
	if err != nil {
		t.Fatalf("add cells: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 cells inserted, got %d", n)
	}

	filters := DefaultSearchFilters()
	hits, err := st.Search(ctx, "reports", []float32{1, 0, 0}, filters)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected confidential cell filtered out by default public threshold, got %d hits", len(hits))
	}
	if hits[0].Text != textA {
		t.Fatalf("expected top hit %q, got %q", textA, hits[0].Text)
	}
	if hits[0].Score < 0.999 {
		t.Fatalf("expected near-1.0 cosine for identical vector, got %f", hits[0].Score)
	}
}

func TestStoreHybridSearch(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	collectionID, err := st.EnsureCollection(ctx, "reports")
	if err != nil {
		t.Fatalf("ensure collection: %v", err)
	}
	docRecord, err := st.AddDocument(ctx, collectionID, DocumentInsert{SourcePath: "q1.pdf"})
	if err != nil {
		t.Fatalf("add document: %v", err)
	}

	textA := "revenue grew"
	textB := "cost declined"
	_, err = st.AddCells(ctx, docRecord.ID, []CellInsert{
		{Page: 0, Importance: 100, CellType: docmodel.Text, Text: &textA, Embedding: []float32{1, 0}},
		{Page: 0, Importance: 100, CellType: docmodel.Text, Text: &textB, Embedding: []float32{1, 0}},
	})
	if err != nil {
		t.Fatalf("add cells: %v", err)
	}

	filters := DefaultSearchFilters()
	hits, err := st.HybridSearch(ctx, "reports", "revenue", []float32{1, 0}, filters)
	if err != nil {
		t.Fatalf("hybrid search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected both cells returned, got %d", len(hits))
	}
	if hits[0].Text != textA {
		t.Fatalf("expected bm25 term match to rank first, got %q", hits[0].Text)
	}
}
