package store

import (
	"context"
	"sync"

	"github.com/ppiankov/claimlens/internal/fault"
	"github.com/ppiankov/claimlens/internal/model"
)

// MemoryStore is an in-memory Store for tests and demo seeding.
type MemoryStore struct {
	mu        sync.RWMutex
	documents map[string][]model.ClaimDocumentRecord // claim_id -> records
	claims    map[string][]model.HistoricalClaim     // policy_id -> claims
	phones    map[string]string                      // claim_id -> claimant phone
	policies  map[string]model.Policy
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		documents: make(map[string][]model.ClaimDocumentRecord),
		claims:    make(map[string][]model.HistoricalClaim),
		phones:    make(map[string]string),
		policies:  make(map[string]model.Policy),
	}
}

// AddDocument registers a document record.
func (s *MemoryStore) AddDocument(doc model.ClaimDocumentRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ClaimID] = append(s.documents[doc.ClaimID], doc)
}

// AddClaim registers a historical claim, optionally with a claimant phone.
func (s *MemoryStore) AddClaim(claim model.HistoricalClaim, phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims[claim.PolicyID] = append(s.claims[claim.PolicyID], claim)
	if phone != "" {
		s.phones[claim.ClaimID] = phone
	}
}

// AddPolicy registers a policy record.
func (s *MemoryStore) AddPolicy(p model.Policy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies[p.PolicyID] = p
}

// ListDocuments returns available documents for a claim.
func (s *MemoryStore) ListDocuments(ctx context.Context, claimID string) ([]model.ClaimDocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.ClaimDocumentRecord
	for _, d := range s.documents[claimID] {
		if d.Status == model.StatusAvailable {
			out = append(out, d)
		}
	}
	return out, nil
}

// ClaimHistory returns prior claims for a policy.
func (s *MemoryStore) ClaimHistory(ctx context.Context, policyID string) ([]model.HistoricalClaim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.HistoricalClaim, len(s.claims[policyID]))
	copy(out, s.claims[policyID])
	return out, nil
}

// CountPhoneMatches counts claims on other policies sharing the phone.
func (s *MemoryStore) CountPhoneMatches(ctx context.Context, phone, policyID string) (int, error) {
	if phone == "" {
		return 0, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for pid, claims := range s.claims {
		if pid == policyID {
			continue
		}
		for _, c := range claims {
			if s.phones[c.ClaimID] == phone {
				count++
			}
		}
	}
	return count, nil
}

// GetPolicy fetches one policy record.
func (s *MemoryStore) GetPolicy(ctx context.Context, policyID string) (*model.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.policies[policyID]
	if !ok {
		return nil, fault.New(fault.NotFound, "policy %s not found", policyID)
	}
	return &p, nil
}
