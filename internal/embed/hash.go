// Package embed turns chunk text into vectors for the retrieval store's
// cosine-similarity side (spec §4.G).
package embed

import (
	"math"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// HashConfig configures the zero-dependency deterministic embedder.
type HashConfig struct {
	Dimensions int
	Seed       uint64
}

// DefaultHashConfig mirrors the reference HashEmbedderConfig::default.
func DefaultHashConfig() HashConfig {
	return HashConfig{Dimensions: 64, Seed: 1337}
}

// HashEmbedder buckets whitespace-separated tokens into a fixed-width
// vector via a seeded hash, then L2-normalizes. Deterministic and
// offline, used as the default backend and as a fallback when no remote
// embedding provider is configured.
type HashEmbedder struct {
	cfg HashConfig
}

// NewHashEmbedder builds a HashEmbedder from cfg.
func NewHashEmbedder(cfg HashConfig) *HashEmbedder {
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = 1
	}
	return &HashEmbedder{cfg: cfg}
}

// EmbedText produces an L2-normalized term-frequency vector for text.
func (e *HashEmbedder) EmbedText(text string) []float32 {
	vector := make([]float32, e.cfg.Dimensions)
	for _, token := range strings.Fields(text) {
		bucket := e.bucketFor(token)
		vector[bucket]++
	}
	normalize(vector)
	return vector
}

func (e *HashEmbedder) bucketFor(token string) int {
	digest := xxhash.New()
	var seedBuf [8]byte
	for i := 0; i < 8; i++ {
		seedBuf[i] = byte(e.cfg.Seed >> (8 * i))
	}
	digest.Write(seedBuf[:])
	digest.Write([]byte(strings.ToLower(token)))
	return int(digest.Sum64() % uint64(e.cfg.Dimensions))
}

func normalize(vector []float32) {
	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	norm := math.Sqrt(sumSquares)
	if norm == 0 {
		return
	}
	for i := range vector {
		vector[i] = float32(float64(vector[i]) / norm)
	}
}
