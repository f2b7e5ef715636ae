// Package embed wraps the embedding-service collaborator: an Embedder
// turns text into a vector. The OpenAI client is the production
// implementation; the hash embedder serves offline runs and tests.
package embed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ppiankov/claimlens/internal/cache"
)

// Embedder computes a vector representation of text
type Embedder interface {
	// Embed returns the embedding for one text
	Embed(ctx context.Context, text string) ([]float32, error)

	// Model identifies the embedding model, used for cache keying
	Model() string
}

// Cached decorates an Embedder with a cache layer.
type Cached struct {
	inner Embedder
	store cache.Cache
	ttl   time.Duration
}

// NewCached wraps an embedder with the given cache.
func NewCached(inner Embedder, store cache.Cache, ttl time.Duration) *Cached {
	return &Cached{inner: inner, store: store, ttl: ttl}
}

// Model returns the underlying model name.
func (c *Cached) Model() string {
	return c.inner.Model()
}

// Embed serves from cache when possible, otherwise delegates and stores.
// Cache write failures are ignored: the vector is still returned.
func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cache.Key(c.inner.Model(), text)

	if data, found := c.store.Get(key); found {
		var vec []float32
		if err := json.Unmarshal(data, &vec); err == nil {
			return vec, nil
		}
		// Corrupt entry: drop it and recompute.
		_ = c.store.Delete(key)
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(vec); err == nil {
		_ = c.store.Set(key, data, c.ttl)
	}
	return vec, nil
}
