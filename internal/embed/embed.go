package embed

import (
	"context"
	"crypto/sha256"

	lru "github.com/hashicorp/golang-lru"

	"ctx3d/internal/ctxerr"
)

// Backend is the tagged-union embedding provider: the offline HashEmbedder
// or a RemoteEmbedder talking to an HTTP embeddings endpoint (spec §4.G).
type Backend interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// hashBackend adapts HashEmbedder (which has no failure mode) to Backend.
type hashBackend struct{ e *HashEmbedder }

func (h hashBackend) Embed(_ context.Context, text string) ([]float32, error) {
	return h.e.EmbedText(text), nil
}

// NewHashBackend wraps a HashEmbedder as a Backend.
func NewHashBackend(e *HashEmbedder) Backend { return hashBackend{e: e} }

// CachedBackend wraps a Backend with a bounded LRU cache keyed by the
// input text's content hash, avoiding repeated remote calls (or repeated
// hashing work) for duplicate chunk text across a corpus.
type CachedBackend struct {
	backend Backend
	cache   *lru.Cache
}

// NewCachedBackend wraps backend with an LRU of the given capacity.
func NewCachedBackend(backend Backend, capacity int) (*CachedBackend, error) {
	if capacity <= 0 {
		capacity = 1024
	}
	cache, err := lru.New(capacity)
	if err != nil {
		return nil, ctxerr.Wrap(ctxerr.KindConfiguration, err, "construct embedding cache")
	}
	return &CachedBackend{backend: backend, cache: cache}, nil
}

// Embed returns the cached vector for text if present, otherwise computes
// it via the wrapped backend and caches the result.
func (c *CachedBackend) Embed(ctx context.Context, text string) ([]float32, error) {
	key := sha256.Sum256([]byte(text))
	if v, ok := c.cache.Get(key); ok {
		return v.([]float32), nil
	}
	vec, err := c.backend.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, vec)
	return vec, nil
}
