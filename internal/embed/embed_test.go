package embed

import (
	"context"
	"testing"
)

func TestHashEmbedderDeterministic(t *testing.T) {
	e := NewHashEmbedder(DefaultHashConfig())
	a := e.EmbedText("revenue grew 45 percent this quarter")
	b := e.EmbedText("revenue grew 45 percent this quarter")
	if len(a) != 64 {
		t.Fatalf("expected 64 dims, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected deterministic embedding, differed at %d", i)
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{1, 0, 0}
	c := []float32{0, 1, 0}
	if Cosine(a, b) < 0.999 {
		t.Fatalf("expected identical vectors to have cosine ~1, got %f", Cosine(a, b))
	}
	if Cosine(a, c) > 0.001 {
		t.Fatalf("expected orthogonal vectors to have cosine ~0, got %f", Cosine(a, c))
	}
}

func TestCachedBackendCaches(t *testing.T) {
	calls := 0
	base := backendFunc(func(ctx context.Context, text string) ([]float32, error) {
		calls++
		return []float32{1, 2, 3}, nil
	})
	cached, err := NewCachedBackend(base, 8)
	if err != nil {
		t.Fatalf("NewCachedBackend: %v", err)
	}
	ctx := context.Background()
	if _, err := cached.Embed(ctx, "same text"); err != nil {
		t.Fatalf("embed: %v", err)
	}
	if _, err := cached.Embed(ctx, "same text"); err != nil {
		t.Fatalf("embed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected backend called once, got %d", calls)
	}
}

type backendFunc func(ctx context.Context, text string) ([]float32, error)

func (f backendFunc) Embed(ctx context.Context, text string) ([]float32, error) {
	return f(ctx, text)
}
