// Package store defines the record-store collaborator contracts the
// decision components read from, plus SQLite and in-memory implementations.
package store

import (
	"context"

	"github.com/ppiankov/claimlens/internal/model"
)

// DocumentStore lists document metadata for a claim. Implementations
// return only records with status=available.
type DocumentStore interface {
	ListDocuments(ctx context.Context, claimID string) ([]model.ClaimDocumentRecord, error)
}

// ClaimsStore exposes the read-only historical queries the fraud scorers
// need. A claim with no history is not an error: implementations return
// empty results and the scorers degrade to their baseline.
type ClaimsStore interface {
	// ClaimHistory returns prior claims for a policy, newest first.
	ClaimHistory(ctx context.Context, policyID string) ([]model.HistoricalClaim, error)

	// CountPhoneMatches counts claims on policies other than policyID
	// whose claimant phone matches the given phone.
	CountPhoneMatches(ctx context.Context, phone, policyID string) (int, error)

	// GetPolicy fetches one policy record. Missing policies fail with
	// fault.NotFound.
	GetPolicy(ctx context.Context, policyID string) (*model.Policy, error)
}

// Store combines both record stores. The SQLite implementation backs
// both with one database.
type Store interface {
	DocumentStore
	ClaimsStore
}
