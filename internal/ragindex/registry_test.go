package ragindex

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/claimlens/internal/embed"
	"github.com/ppiankov/claimlens/internal/fault"
	"github.com/ppiankov/claimlens/internal/model"
	"github.com/ppiankov/claimlens/internal/simindex"
	"github.com/ppiankov/claimlens/internal/store"
)

// staticExtractor returns canned text per document URI.
type staticExtractor struct {
	texts map[string]string
}

func (e *staticExtractor) ExtractText(ctx context.Context, uri string, docType model.DocumentType) (string, error) {
	return e.texts[uri], nil
}

// countingIndex counts collection creations to observe build side effects.
type countingIndex struct {
	simindex.Index
	mu      sync.Mutex
	creates int
}

func (c *countingIndex) CreateCollection(ctx context.Context, name string) error {
	c.mu.Lock()
	c.creates++
	c.mu.Unlock()
	return c.Index.CreateCollection(ctx, name)
}

func testConfig() model.IndexConfig {
	return model.IndexConfig{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		TTL:          24 * time.Hour,
		Workers:      4,
	}
}

func seedSufficientClaim(s *store.MemoryStore, claimID string) map[string]string {
	texts := map[string]string{
		"doc://police":   strings.Repeat("officer narrative of the collision at the intersection. ", 50),
		"doc://estimate": strings.Repeat("itemized repair estimate for rear bumper and quarter panel. ", 50),
		"doc://photos":   strings.Repeat("photo annotation describing visible damage to the vehicle. ", 50),
	}
	docs := []model.ClaimDocumentRecord{
		{DocumentID: "d1", ClaimID: claimID, Type: model.DocPoliceReport, Name: "police.pdf", URI: "doc://police", SizeMB: 0.5, Status: model.StatusAvailable},
		{DocumentID: "d2", ClaimID: claimID, Type: model.DocEstimate, Name: "estimate.pdf", URI: "doc://estimate", SizeMB: 0.4, Status: model.StatusAvailable},
		{DocumentID: "d3", ClaimID: claimID, Type: model.DocPhotos, Name: "photos.zip", URI: "doc://photos", SizeMB: 0.3, Status: model.StatusAvailable},
	}
	for _, d := range docs {
		s.AddDocument(d)
	}
	return texts
}

func newTestRegistry(t *testing.T, claimID string) (*Registry, *countingIndex) {
	t.Helper()
	s := store.NewMemoryStore()
	texts := seedSufficientClaim(s, claimID)
	ix := &countingIndex{Index: simindex.NewMemoryIndex()}
	reg := NewRegistry(s, &staticExtractor{texts: texts}, embed.NewHashEmbedder(64), ix, testConfig())
	return reg, ix
}

func TestEnsure_InsufficientCorpus(t *testing.T) {
	s := store.NewMemoryStore()
	s.AddDocument(model.ClaimDocumentRecord{
		DocumentID: "d1", ClaimID: "CLM-1", Type: model.DocPhotos,
		URI: "doc://p", SizeMB: 0.1, Status: model.StatusAvailable,
	})
	ix := &countingIndex{Index: simindex.NewMemoryIndex()}
	reg := NewRegistry(s, &staticExtractor{}, embed.NewHashEmbedder(64), ix, testConfig())

	_, err := reg.Ensure(context.Background(), "CLM-1")
	if !fault.IsKind(err, fault.NotReady) {
		t.Fatalf("expected NotReady, got %v", err)
	}
	if ix.creates != 0 {
		t.Error("a failed sufficiency gate must not touch the similarity engine")
	}
	if len(reg.Handles()) != 0 {
		t.Error("no handle may be registered after a NotReady failure")
	}
}

func TestEnsure_BuildsOnceAndIsIdempotent(t *testing.T) {
	reg, ix := newTestRegistry(t, "CLM-1")
	ctx := context.Background()

	first, err := reg.Ensure(ctx, "CLM-1")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if first.Collection != "claim_CLM-1" {
		t.Errorf("collection = %q, want claim_CLM-1", first.Collection)
	}
	if first.DocumentCount != 3 || first.ChunkCount < 3 {
		t.Errorf("unexpected counts: %+v", first)
	}
	if got := first.ExpiresAt.Sub(first.CreatedAt); got != 24*time.Hour {
		t.Errorf("handle lifetime = %v, want 24h", got)
	}

	second, err := reg.Ensure(ctx, "CLM-1")
	if err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
	if second.HandleID != first.HandleID {
		t.Error("repeated Ensure must return the existing handle")
	}
	if ix.creates != 1 {
		t.Errorf("expected exactly one collection build, got %d", ix.creates)
	}
}

func TestEnsure_ConcurrentCallersShareOneBuild(t *testing.T) {
	reg, ix := newTestRegistry(t, "CLM-1")
	ctx := context.Background()

	const callers = 8
	handles := make([]*model.IndexHandle, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i], errs[i] = reg.Ensure(ctx, "CLM-1")
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if handles[i].HandleID != handles[0].HandleID {
			t.Fatal("all concurrent callers must observe the same handle")
		}
	}
	if ix.creates != 1 {
		t.Errorf("expected a single build side effect, got %d", ix.creates)
	}
}

func TestQuery_AnswersWithConfidenceBand(t *testing.T) {
	reg, _ := newTestRegistry(t, "CLM-1")
	ctx := context.Background()

	if _, err := reg.Ensure(ctx, "CLM-1"); err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	answer, err := reg.Query(ctx, "CLM-1", "what does the repair estimate cover", 5)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if answer.ChunksReturned == 0 || len(answer.Matches) == 0 {
		t.Fatalf("expected matches, got %+v", answer)
	}
	for i := 1; i < len(answer.Matches); i++ {
		if answer.Matches[i].Similarity > answer.Matches[i-1].Similarity {
			t.Error("matches must be ranked by descending similarity")
		}
	}
	switch answer.ConfidenceBand {
	case "high", "moderate", "low":
	default:
		t.Errorf("unexpected confidence band %q", answer.ConfidenceBand)
	}
	if answer.Recommendation == "" {
		t.Error("answer must carry a recommendation")
	}
}

func TestQuery_MissingHandle(t *testing.T) {
	reg, _ := newTestRegistry(t, "CLM-1")

	_, err := reg.Query(context.Background(), "CLM-1", "anything", 5)
	if !fault.IsKind(err, fault.NotFound) {
		t.Errorf("expected NotFound before Ensure, got %v", err)
	}
}

func TestSweepExpired_StrictBoundary(t *testing.T) {
	reg, _ := newTestRegistry(t, "CLM-1")
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return base }

	handle, err := reg.Ensure(ctx, "CLM-1")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	if n := reg.SweepExpired(ctx, handle.ExpiresAt); n != 0 {
		t.Errorf("a handle expiring exactly now is still live, swept %d", n)
	}
	if _, err := reg.Query(ctx, "CLM-1", "still there", 3); err != nil {
		t.Errorf("query at the expiry instant should succeed: %v", err)
	}

	if n := reg.SweepExpired(ctx, handle.ExpiresAt.Add(time.Nanosecond)); n != 1 {
		t.Errorf("expected one handle swept, got %d", n)
	}
	if _, err := reg.Query(ctx, "CLM-1", "gone", 3); !fault.IsKind(err, fault.NotFound) {
		t.Errorf("query after sweep must fail NotFound, got %v", err)
	}
}

func TestShutdown_DropsLiveHandles(t *testing.T) {
	reg, _ := newTestRegistry(t, "CLM-1")
	ctx := context.Background()

	if _, err := reg.Ensure(ctx, "CLM-1"); err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	reg.Shutdown(ctx)

	if len(reg.Handles()) != 0 {
		t.Error("shutdown must drop all handles, expired or not")
	}
	if _, err := reg.Query(ctx, "CLM-1", "anything", 3); !fault.IsKind(err, fault.NotFound) {
		t.Errorf("query after shutdown must fail NotFound, got %v", err)
	}
}

func TestEnsure_ExpiredHandleIsRebuilt(t *testing.T) {
	reg, ix := newTestRegistry(t, "CLM-1")
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	current := base
	reg.now = func() time.Time { return current }

	first, err := reg.Ensure(ctx, "CLM-1")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	current = first.ExpiresAt.Add(time.Minute)
	second, err := reg.Ensure(ctx, "CLM-1")
	if err != nil {
		t.Fatalf("Ensure after expiry: %v", err)
	}
	if second.HandleID == first.HandleID {
		t.Error("an expired handle must be replaced, not reused")
	}
	if ix.creates != 2 {
		t.Errorf("expected a rebuild, got %d collection creates", ix.creates)
	}
}
