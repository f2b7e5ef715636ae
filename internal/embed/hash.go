package embed

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// HashEmbedder is a deterministic, offline Embedder: a cheap bag-of-
// hashed-trigrams vector. Retrieval quality is crude but stable, which is
// what local runs and tests need.
type HashEmbedder struct {
	dims int
}

// NewHashEmbedder creates a hash embedder with the given dimensionality.
func NewHashEmbedder(dims int) *HashEmbedder {
	if dims <= 0 {
		dims = 256
	}
	return &HashEmbedder{dims: dims}
}

// Model identifies the hash embedder for cache keying.
func (e *HashEmbedder) Model() string {
	return "hash-trigram-v1"
}

// Embed folds character trigrams into a normalized fixed-size vector.
func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dims)
	runes := []rune(text)

	for i := 0; i+3 <= len(runes); i++ {
		sum := sha256.Sum256([]byte(string(runes[i : i+3])))
		slot := binary.BigEndian.Uint32(sum[:4]) % uint32(e.dims)
		vec[slot]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec, nil
}
