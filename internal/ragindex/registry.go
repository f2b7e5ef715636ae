// Package ragindex manages the lifecycle of per-claim retrieval indexes:
// building them from stored documents when the corpus is sufficient,
// answering questions against them, and sweeping them out after expiry.
package ragindex

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ppiankov/claimlens/internal/chunk"
	"github.com/ppiankov/claimlens/internal/embed"
	"github.com/ppiankov/claimlens/internal/extract"
	"github.com/ppiankov/claimlens/internal/fault"
	"github.com/ppiankov/claimlens/internal/model"
	"github.com/ppiankov/claimlens/internal/simindex"
	"github.com/ppiankov/claimlens/internal/store"
	"github.com/ppiankov/claimlens/internal/sufficiency"
	"github.com/ppiankov/claimlens/internal/worker"
)

// DefaultTopK is the number of chunks retrieved per question when the
// caller does not ask for a specific count.
const DefaultTopK = 5

// Confidence bands over the average similarity of returned chunks.
const (
	highConfidenceFloor     = 0.80
	moderateConfidenceFloor = 0.60
)

// Registry owns all live index handles. It guarantees at most one
// handle per claim: concurrent Ensure calls for the same claim perform
// a single build and every caller observes the same handle.
type Registry struct {
	evaluator *sufficiency.Evaluator
	docs      store.DocumentStore
	extractor extract.Extractor
	embedder  embed.Embedder
	index     simindex.Index
	cfg       model.IndexConfig

	now func() time.Time

	mu      sync.Mutex
	handles map[string]*model.IndexHandle
	locks   map[string]*sync.Mutex
}

// NewRegistry creates a registry over the given collaborators.
func NewRegistry(docs store.DocumentStore, extractor extract.Extractor, embedder embed.Embedder, index simindex.Index, cfg model.IndexConfig) *Registry {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &Registry{
		evaluator: sufficiency.NewEvaluator(docs),
		docs:      docs,
		extractor: extractor,
		embedder:  embedder,
		index:     index,
		cfg:       cfg,
		now:       time.Now,
		handles:   make(map[string]*model.IndexHandle),
		locks:     make(map[string]*sync.Mutex),
	}
}

// claimLock returns the build lock for one claim. Serializing per claim
// keeps unrelated claims building in parallel while racing callers for
// the same claim fall through to the winner's handle.
func (r *Registry) claimLock(claimID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[claimID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[claimID] = lock
	}
	return lock
}

func (r *Registry) liveHandle(claimID string) *model.IndexHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handles[claimID]
	if !ok || h.Expired(r.now()) {
		return nil
	}
	copied := *h
	return &copied
}

// Ensure returns the claim's live index handle, building the index
// first if none exists. The sufficiency gate runs before any build
// work: an insufficient corpus fails NotReady and leaves no state
// behind. Ensure on a claim with a live handle is idempotent.
func (r *Registry) Ensure(ctx context.Context, claimID string) (*model.IndexHandle, error) {
	if claimID == "" {
		return nil, fault.New(fault.InvalidFormat, "claim id must not be empty")
	}

	lock := r.claimLock(claimID)
	lock.Lock()
	defer lock.Unlock()

	if h := r.liveHandle(claimID); h != nil {
		return h, nil
	}

	analysis, err := r.evaluator.Evaluate(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("sufficiency check: %w", err)
	}
	if !analysis.Ready {
		return nil, fault.New(fault.NotReady, "claim %s not ready for indexing: %s", claimID, analysis.Reason)
	}

	handle, err := r.build(ctx, claimID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.handles[claimID] = handle
	r.mu.Unlock()

	copied := *handle
	return &copied, nil
}

// build extracts, chunks, and embeds every available document and
// registers the vectors in a fresh collection. On any failure the
// partially built collection is torn down.
func (r *Registry) build(ctx context.Context, claimID string) (*model.IndexHandle, error) {
	records, err := r.docs.ListDocuments(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	splitter := chunk.NewSplitter(r.cfg.ChunkSize, r.cfg.ChunkOverlap)
	collection := collectionName(claimID)

	// A stale collection can survive a crashed sweep; clear it first.
	_ = r.index.DeleteCollection(ctx, collection)
	if err := r.index.CreateCollection(ctx, collection); err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	var entries []simindex.Entry
	docCount := 0
	for _, doc := range records {
		text, err := r.extractor.ExtractText(ctx, doc.URI, doc.Type)
		if err != nil {
			_ = r.index.DeleteCollection(ctx, collection)
			return nil, fmt.Errorf("extract %s: %w", doc.DocumentID, err)
		}

		chunks := splitter.Split(text)
		if len(chunks) == 0 {
			continue
		}
		docCount++

		vectors, err := r.embedAll(ctx, chunks)
		if err != nil {
			_ = r.index.DeleteCollection(ctx, collection)
			return nil, fmt.Errorf("embed %s: %w", doc.DocumentID, err)
		}

		for i, c := range chunks {
			entries = append(entries, simindex.Entry{
				ID:     fmt.Sprintf("%s:%d", doc.DocumentID, i),
				Vector: vectors[i],
				Text:   c,
				Metadata: map[string]string{
					"document_id": doc.DocumentID,
					"name":        doc.Name,
					"type":        string(doc.Type),
				},
			})
		}
	}

	if err := r.index.Add(ctx, collection, entries); err != nil {
		_ = r.index.DeleteCollection(ctx, collection)
		return nil, fmt.Errorf("register vectors: %w", err)
	}

	now := r.now()
	return &model.IndexHandle{
		ClaimID:       claimID,
		HandleID:      newHandleID(),
		Collection:    collection,
		CreatedAt:     now,
		ExpiresAt:     now.Add(r.cfg.TTL),
		DocumentCount: docCount,
		ChunkCount:    len(entries),
	}, nil
}

type embedJob struct {
	idx      int
	text     string
	embedder embed.Embedder
}

type embedResult struct {
	idx    int
	vector []float32
	err    error
}

func (r *embedResult) GetError() error { return r.err }

func (j *embedJob) Execute(ctx context.Context) worker.Result {
	vec, err := j.embedder.Embed(ctx, j.text)
	return &embedResult{idx: j.idx, vector: vec, err: err}
}

// embedAll embeds chunks concurrently, preserving chunk order.
func (r *Registry) embedAll(ctx context.Context, chunks []string) ([][]float32, error) {
	pool := worker.NewPool(r.cfg.Workers)
	pool.Start()

	for i, c := range chunks {
		pool.Submit(&embedJob{idx: i, text: c, embedder: r.embedder})
	}

	vectors := make([][]float32, len(chunks))
	for _, res := range pool.Wait() {
		er := res.(*embedResult)
		if er.err != nil {
			return nil, er.err
		}
		vectors[er.idx] = er.vector
	}
	return vectors, nil
}

// Lookup returns the claim's handle if one is registered and live.
func (r *Registry) Lookup(claimID string) (*model.IndexHandle, error) {
	h := r.liveHandle(claimID)
	if h == nil {
		return nil, fault.New(fault.NotFound, "no live index for claim %s", claimID)
	}
	return h, nil
}

// Query embeds the question, retrieves the top-k chunks from the
// claim's collection, and folds them into a per-document-type answer.
// A missing or expired handle fails NotFound without touching the
// similarity engine.
func (r *Registry) Query(ctx context.Context, claimID, question string, topK int) (*model.RetrievalAnswer, error) {
	if question == "" {
		return nil, fault.New(fault.InvalidFormat, "question must not be empty")
	}
	handle, err := r.Lookup(claimID)
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	vec, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	results, err := r.index.Query(ctx, handle.Collection, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("similarity query: %w", err)
	}

	return buildAnswer(claimID, question, results), nil
}

// buildAnswer groups retrieved chunks by document type, keeping the
// best snippet per type, and derives the confidence band from the
// average similarity across all returned chunks.
func buildAnswer(claimID, question string, results []simindex.Result) *model.RetrievalAnswer {
	answer := &model.RetrievalAnswer{
		ClaimID:        claimID,
		Question:       question,
		ChunksReturned: len(results),
	}

	best := make(map[model.DocumentType]*model.TypeMatch)
	var totalSim float64
	for _, res := range results {
		totalSim += res.Similarity
		docType := model.DocumentType(res.Metadata["type"])
		if docType == "" {
			docType = model.DocUnknown
		}
		m, ok := best[docType]
		if !ok {
			best[docType] = &model.TypeMatch{
				DocumentType: docType,
				DocumentName: res.Metadata["name"],
				Snippet:      res.Text,
				Similarity:   res.Similarity,
				ChunkCount:   1,
			}
			continue
		}
		m.ChunkCount++
		if res.Similarity > m.Similarity {
			m.Similarity = res.Similarity
			m.Snippet = res.Text
			m.DocumentName = res.Metadata["name"]
		}
	}

	for _, m := range best {
		answer.Matches = append(answer.Matches, *m)
	}
	sort.Slice(answer.Matches, func(i, j int) bool {
		return answer.Matches[i].Similarity > answer.Matches[j].Similarity
	})

	if len(results) > 0 {
		answer.Confidence = totalSim / float64(len(results))
	}
	answer.ConfidenceBand, answer.Recommendation = confidenceBand(answer.Confidence)
	return answer
}

func confidenceBand(confidence float64) (band, recommendation string) {
	switch {
	case confidence > highConfidenceFloor:
		return "high", "Answer grounded in strongly matching passages"
	case confidence >= moderateConfidenceFloor:
		return "moderate", "Verify answer against source documents"
	default:
		return "low", "Weak matches; manual document review recommended"
	}
}

// SweepExpired removes every handle past its lifetime at the given
// instant and tears down the backing collections. Collection deletion
// is best-effort: a failed delete still drops the handle.
func (r *Registry) SweepExpired(ctx context.Context, now time.Time) int {
	r.mu.Lock()
	var expired []*model.IndexHandle
	for claimID, h := range r.handles {
		if h.Expired(now) {
			expired = append(expired, h)
			delete(r.handles, claimID)
		}
	}
	r.mu.Unlock()

	for _, h := range expired {
		_ = r.index.DeleteCollection(ctx, h.Collection)
	}
	return len(expired)
}

// Shutdown tears down every registered index regardless of expiry.
func (r *Registry) Shutdown(ctx context.Context) {
	r.mu.Lock()
	var all []*model.IndexHandle
	for claimID, h := range r.handles {
		all = append(all, h)
		delete(r.handles, claimID)
	}
	r.mu.Unlock()

	for _, h := range all {
		_ = r.index.DeleteCollection(ctx, h.Collection)
	}
}

// Handles returns a snapshot of all registered handles, expired or not,
// sorted by claim ID.
func (r *Registry) Handles() []model.IndexHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.IndexHandle, 0, len(r.handles))
	for _, h := range r.handles {
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClaimID < out[j].ClaimID })
	return out
}

func collectionName(claimID string) string {
	return "claim_" + claimID
}

func newHandleID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("idx-%d", time.Now().UnixNano())
	}
	return "idx-" + hex.EncodeToString(buf)
}
