package model

import "time"

// IndexHandle is the live, time-bounded registration of a claim's
// chunked-and-embedded documents in a similarity collection. At most one
// handle exists per claim at any time.
type IndexHandle struct {
	ClaimID       string    `json:"claim_id"`
	HandleID      string    `json:"handle_id"`
	Collection    string    `json:"collection"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	DocumentCount int       `json:"document_count"`
	ChunkCount    int       `json:"chunk_count"`
}

// Expired reports whether the handle is past its lifetime at the given
// instant. Expiry is strict: a handle expiring exactly at now is still live.
func (h *IndexHandle) Expired(now time.Time) bool {
	return now.After(h.ExpiresAt)
}

// TypeMatch is the best-matching snippet for one document type in a
// retrieval answer.
type TypeMatch struct {
	DocumentType DocumentType `json:"document_type"`
	DocumentName string       `json:"document_name,omitempty"`
	Snippet      string       `json:"snippet"`
	Similarity   float64      `json:"similarity"`
	ChunkCount   int          `json:"chunk_count"`
}

// RetrievalAnswer is the structured result of querying a claim's index:
// the best snippet per document type plus an average-similarity confidence.
type RetrievalAnswer struct {
	ClaimID        string      `json:"claim_id"`
	Question       string      `json:"question"`
	Matches        []TypeMatch `json:"matches"`
	ChunksReturned int         `json:"chunks_returned"`
	Confidence     float64     `json:"confidence"`
	ConfidenceBand string      `json:"confidence_band"`
	Recommendation string      `json:"recommendation"`
}
