// Package sufficiency decides whether a claim's document corpus is rich
// enough to justify building a retrieval index.
package sufficiency

import (
	"context"
	"fmt"
	"sort"

	"github.com/ppiankov/claimlens/internal/fault"
	"github.com/ppiankov/claimlens/internal/model"
	"github.com/ppiankov/claimlens/internal/store"
)

// Threshold policy. All four must hold for Ready=true; on failure the
// reason names the first unmet threshold in this order.
const (
	MinDocuments      = 3
	MinDocumentTypes  = 2
	MinPrivilegedHits = 2
	MinTotalSizeMB    = 1.0
)

// Evaluator computes a SufficiencyAnalysis from document metadata
type Evaluator struct {
	docs store.DocumentStore
}

// NewEvaluator creates an evaluator over the given document store.
func NewEvaluator(docs store.DocumentStore) *Evaluator {
	return &Evaluator{docs: docs}
}

// Evaluate fetches available documents for the claim and applies the
// threshold policy. Pure read + compute: no side effects, nothing retried.
func (e *Evaluator) Evaluate(ctx context.Context, claimID string) (*model.SufficiencyAnalysis, error) {
	if claimID == "" {
		return nil, fault.New(fault.InvalidFormat, "claim id must not be empty")
	}

	records, err := e.docs.ListDocuments(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	analysis := aggregate(claimID, records)
	applyThresholds(analysis)
	return analysis, nil
}

// aggregate folds the record list into counts, type sets, and size totals.
func aggregate(claimID string, records []model.ClaimDocumentRecord) *model.SufficiencyAnalysis {
	analysis := &model.SufficiencyAnalysis{
		ClaimID:      claimID,
		CountsByType: make(map[model.DocumentType]int),
	}

	for _, doc := range records {
		docType := doc.Type
		if docType == "" {
			docType = model.DocUnknown
		}
		analysis.TotalDocuments++
		analysis.SizeMBTotal += doc.SizeMB
		analysis.CountsByType[docType]++

		if analysis.LatestUpload.IsZero() || doc.UploadedAt.After(analysis.LatestUpload) {
			analysis.LatestUpload = doc.UploadedAt
		}
		if analysis.OldestUpload.IsZero() || doc.UploadedAt.Before(analysis.OldestUpload) {
			analysis.OldestUpload = doc.UploadedAt
		}
	}

	for t := range analysis.CountsByType {
		analysis.DistinctTypes = append(analysis.DistinctTypes, t)
	}
	sort.Slice(analysis.DistinctTypes, func(i, j int) bool {
		return analysis.DistinctTypes[i] < analysis.DistinctTypes[j]
	})

	return analysis
}

// applyThresholds sets Ready and Reason. Checks run in fixed order and
// the first failure wins.
func applyThresholds(a *model.SufficiencyAnalysis) {
	if a.TotalDocuments < MinDocuments {
		a.Reason = fmt.Sprintf("need %d documents, have %d", MinDocuments, a.TotalDocuments)
		return
	}

	if len(a.DistinctTypes) < MinDocumentTypes {
		a.Reason = fmt.Sprintf("need %d document types, have %d", MinDocumentTypes, len(a.DistinctTypes))
		return
	}

	privileged := 0
	for _, t := range model.PrivilegedTypes {
		if a.HasType(t) {
			privileged++
		}
	}
	if privileged < MinPrivilegedHits {
		a.Reason = fmt.Sprintf("need at least %d of %v, have %d", MinPrivilegedHits, model.PrivilegedTypes, privileged)
		return
	}

	if a.SizeMBTotal < MinTotalSizeMB {
		a.Reason = fmt.Sprintf("need %.1f MB content, have %.1f MB", MinTotalSizeMB, a.SizeMBTotal)
		return
	}

	a.Ready = true
	a.Reason = "all thresholds met"
}
