// Package simindex defines the similarity-search collaborator contract:
// named collections of vectors with nearest-neighbor queries. The bundled
// in-memory implementation does exact cosine search; external engines
// plug in behind the same interface.
package simindex

import "context"

// Entry is one vector registered in a collection
type Entry struct {
	ID       string
	Vector   []float32
	Text     string
	Metadata map[string]string
}

// Result is one ranked query match
type Result struct {
	ID         string
	Text       string
	Metadata   map[string]string
	Similarity float64
}

// Index manages named vector collections
type Index interface {
	// CreateCollection creates an empty collection. Creating a name that
	// already exists is an error.
	CreateCollection(ctx context.Context, name string) error

	// Add registers entries in a collection
	Add(ctx context.Context, collection string, entries []Entry) error

	// Query returns the top-k entries most similar to the vector,
	// ranked by descending similarity
	Query(ctx context.Context, collection string, vector []float32, k int) ([]Result, error)

	// DeleteCollection removes a collection and all its entries
	DeleteCollection(ctx context.Context, name string) error
}
