package embed

import (
	"context"
	"testing"
	"time"

	"github.com/ppiankov/claimlens/internal/cache"
)

func TestHashEmbedder_Deterministic(t *testing.T) {
	e := NewHashEmbedder(128)

	a, err := e.Embed(context.Background(), "the vehicle struck the guardrail")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	b, _ := e.Embed(context.Background(), "the vehicle struck the guardrail")

	if len(a) != 128 {
		t.Fatalf("expected 128 dims, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("hash embedder must be deterministic")
		}
	}
}

func TestHashEmbedder_Normalized(t *testing.T) {
	e := NewHashEmbedder(64)
	vec, _ := e.Embed(context.Background(), "police report narrative describing the incident")

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm < 0.99 || norm > 1.01 {
		t.Errorf("expected unit norm, got %f", norm)
	}
}

// countingEmbedder counts delegated calls so the cache hit path is observable.
type countingEmbedder struct {
	inner Embedder
	calls int
}

func (c *countingEmbedder) Model() string { return c.inner.Model() }

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	return c.inner.Embed(ctx, text)
}

func TestCached_SecondCallHitsCache(t *testing.T) {
	counting := &countingEmbedder{inner: NewHashEmbedder(64)}
	cached := NewCached(counting, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	first, err := cached.Embed(context.Background(), "estimate total: $4,200")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	second, err := cached.Embed(context.Background(), "estimate total: $4,200")
	if err != nil {
		t.Fatalf("Embed (cached): %v", err)
	}

	if counting.calls != 1 {
		t.Errorf("expected exactly 1 upstream call, got %d", counting.calls)
	}
	if len(first) != len(second) {
		t.Fatalf("cached vector shape differs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatal("cached vector content differs")
		}
	}
}
