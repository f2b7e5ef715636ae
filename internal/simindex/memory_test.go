package simindex

import (
	"context"
	"testing"

	"github.com/ppiankov/claimlens/internal/fault"
)

func TestMemoryIndex_CreateAddQuery(t *testing.T) {
	ix := NewMemoryIndex()
	ctx := context.Background()

	if err := ix.CreateCollection(ctx, "claim_1"); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}

	err := ix.Add(ctx, "claim_1", []Entry{
		{ID: "a", Vector: []float32{1, 0, 0}, Text: "police narrative"},
		{ID: "b", Vector: []float32{0, 1, 0}, Text: "repair estimate"},
		{ID: "c", Vector: []float32{0.9, 0.1, 0}, Text: "supplemental narrative"},
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	results, err := ix.Query(ctx, "claim_1", []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "a" {
		t.Errorf("expected exact match first, got %s", results[0].ID)
	}
	if results[0].Similarity < results[1].Similarity {
		t.Error("results must be ranked by descending similarity")
	}
}

func TestMemoryIndex_DuplicateCollection(t *testing.T) {
	ix := NewMemoryIndex()
	ctx := context.Background()

	if err := ix.CreateCollection(ctx, "claim_1"); err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	if err := ix.CreateCollection(ctx, "claim_1"); err == nil {
		t.Error("expected error creating a collection that already exists")
	}
}

func TestMemoryIndex_QueryMissingCollection(t *testing.T) {
	_, err := NewMemoryIndex().Query(context.Background(), "nope", []float32{1}, 3)
	if err == nil {
		t.Fatal("expected error for missing collection")
	}
	if !fault.IsKind(err, fault.NotFound) {
		t.Errorf("expected NotFound, got %v", fault.KindOf(err))
	}
}

func TestMemoryIndex_DeleteIsIdempotent(t *testing.T) {
	ix := NewMemoryIndex()
	ctx := context.Background()

	ix.CreateCollection(ctx, "claim_1")
	if err := ix.DeleteCollection(ctx, "claim_1"); err != nil {
		t.Fatalf("DeleteCollection: %v", err)
	}
	if err := ix.DeleteCollection(ctx, "claim_1"); err != nil {
		t.Errorf("second delete should be a no-op, got %v", err)
	}

	if _, err := ix.Query(ctx, "claim_1", []float32{1}, 1); !fault.IsKind(err, fault.NotFound) {
		t.Error("queries after delete must fail NotFound")
	}
}

func TestCosine_Bounds(t *testing.T) {
	if got := cosine([]float32{1, 0}, []float32{1, 0}); got < 0.999 {
		t.Errorf("identical vectors should score ~1, got %f", got)
	}
	if got := cosine([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors should score 0, got %f", got)
	}
	if got := cosine([]float32{1, 0}, []float32{0, 0, 1}); got != 0 {
		t.Errorf("mismatched dims should score 0, got %f", got)
	}
}
