package simindex

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/ppiankov/claimlens/internal/fault"
)

// MemoryIndex is an in-process Index doing brute-force cosine search.
// Collections for a claim are small (hundreds of chunks), so exact
// search is cheaper than maintaining an ANN structure.
type MemoryIndex struct {
	mu          sync.RWMutex
	collections map[string][]Entry
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{collections: make(map[string][]Entry)}
}

// CreateCollection creates an empty collection.
func (ix *MemoryIndex) CreateCollection(ctx context.Context, name string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, exists := ix.collections[name]; exists {
		return fault.New(fault.UpstreamUnavailable, "collection %s already exists", name)
	}
	ix.collections[name] = nil
	return nil
}

// Add registers entries in a collection.
func (ix *MemoryIndex) Add(ctx context.Context, collection string, entries []Entry) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	existing, exists := ix.collections[collection]
	if !exists {
		return fault.New(fault.NotFound, "collection %s not found", collection)
	}
	ix.collections[collection] = append(existing, entries...)
	return nil
}

// Query returns the top-k most similar entries.
func (ix *MemoryIndex) Query(ctx context.Context, collection string, vector []float32, k int) ([]Result, error) {
	ix.mu.RLock()
	entries, exists := ix.collections[collection]
	// Copy under lock so scoring happens without holding it.
	snapshot := make([]Entry, len(entries))
	copy(snapshot, entries)
	ix.mu.RUnlock()

	if !exists {
		return nil, fault.New(fault.NotFound, "collection %s not found", collection)
	}
	if k <= 0 {
		k = 5
	}

	results := make([]Result, 0, len(snapshot))
	for _, e := range snapshot {
		results = append(results, Result{
			ID:         e.ID,
			Text:       e.Text,
			Metadata:   e.Metadata,
			Similarity: cosine(vector, e.Vector),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// DeleteCollection removes a collection. Deleting a missing collection
// is a no-op: sweeps are best-effort.
func (ix *MemoryIndex) DeleteCollection(ctx context.Context, name string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	delete(ix.collections, name)
	return nil
}

// cosine computes cosine similarity, 0 for mismatched or zero vectors.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
