package sufficiency

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/claimlens/internal/fault"
	"github.com/ppiankov/claimlens/internal/model"
	"github.com/ppiankov/claimlens/internal/store"
)

func seedDocs(s *store.MemoryStore, claimID string, docs ...model.ClaimDocumentRecord) {
	for i := range docs {
		docs[i].ClaimID = claimID
		if docs[i].Status == "" {
			docs[i].Status = model.StatusAvailable
		}
		if docs[i].UploadedAt.IsZero() {
			docs[i].UploadedAt = time.Date(2025, 1, 10+i, 12, 0, 0, 0, time.UTC)
		}
		s.AddDocument(docs[i])
	}
}

func TestEvaluate_NoDocuments(t *testing.T) {
	e := NewEvaluator(store.NewMemoryStore())

	analysis, err := e.Evaluate(context.Background(), "CLM-EMPTY")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if analysis.Ready {
		t.Error("expected ready=false for claim with zero documents")
	}
	if analysis.TotalDocuments != 0 {
		t.Errorf("expected 0 documents, got %d", analysis.TotalDocuments)
	}
	if !strings.Contains(analysis.Reason, "need 3 documents") {
		t.Errorf("reason should name the document-count threshold, got %q", analysis.Reason)
	}
}

func TestEvaluate_AllThresholdsMet(t *testing.T) {
	s := store.NewMemoryStore()
	seedDocs(s, "CLM-1001",
		model.ClaimDocumentRecord{DocumentID: "d1", Type: model.DocPoliceReport, SizeMB: 0.5},
		model.ClaimDocumentRecord{DocumentID: "d2", Type: model.DocEstimate, SizeMB: 0.4},
		model.ClaimDocumentRecord{DocumentID: "d3", Type: model.DocPhotos, SizeMB: 0.3},
	)

	analysis, err := NewEvaluator(s).Evaluate(context.Background(), "CLM-1001")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if !analysis.Ready {
		t.Errorf("expected ready=true, reason: %s", analysis.Reason)
	}
	if analysis.TotalDocuments != 3 || len(analysis.DistinctTypes) != 3 {
		t.Errorf("unexpected aggregation: %+v", analysis)
	}
	if analysis.SizeMBTotal < 1.19 || analysis.SizeMBTotal > 1.21 {
		t.Errorf("expected ~1.2 MB total, got %f", analysis.SizeMBTotal)
	}
}

func TestEvaluate_ThresholdOrder(t *testing.T) {
	tests := []struct {
		name       string
		docs       []model.ClaimDocumentRecord
		wantReason string
	}{
		{
			name: "too few documents",
			docs: []model.ClaimDocumentRecord{
				{DocumentID: "d1", Type: model.DocPoliceReport, SizeMB: 2},
				{DocumentID: "d2", Type: model.DocEstimate, SizeMB: 2},
			},
			wantReason: "need 3 documents",
		},
		{
			name: "single type",
			docs: []model.ClaimDocumentRecord{
				{DocumentID: "d1", Type: model.DocPhotos, SizeMB: 2},
				{DocumentID: "d2", Type: model.DocPhotos, SizeMB: 2},
				{DocumentID: "d3", Type: model.DocPhotos, SizeMB: 2},
			},
			wantReason: "need 2 document types",
		},
		{
			name: "missing privileged types",
			docs: []model.ClaimDocumentRecord{
				{DocumentID: "d1", Type: model.DocMedicalRecord, SizeMB: 2},
				{DocumentID: "d2", Type: model.DocAudio, SizeMB: 2},
				{DocumentID: "d3", Type: model.DocPhotos, SizeMB: 2},
			},
			wantReason: "need at least 2 of",
		},
		{
			name: "too small",
			docs: []model.ClaimDocumentRecord{
				{DocumentID: "d1", Type: model.DocPoliceReport, SizeMB: 0.2},
				{DocumentID: "d2", Type: model.DocEstimate, SizeMB: 0.2},
				{DocumentID: "d3", Type: model.DocPhotos, SizeMB: 0.2},
			},
			wantReason: "need 1.0 MB content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.NewMemoryStore()
			seedDocs(s, "CLM-T", tt.docs...)

			analysis, err := NewEvaluator(s).Evaluate(context.Background(), "CLM-T")
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if analysis.Ready {
				t.Fatal("expected ready=false")
			}
			if !strings.Contains(analysis.Reason, tt.wantReason) {
				t.Errorf("reason = %q, want it to contain %q", analysis.Reason, tt.wantReason)
			}
		})
	}
}

func TestEvaluate_IgnoresPendingAndFailed(t *testing.T) {
	s := store.NewMemoryStore()
	seedDocs(s, "CLM-2002",
		model.ClaimDocumentRecord{DocumentID: "d1", Type: model.DocPoliceReport, SizeMB: 1},
		model.ClaimDocumentRecord{DocumentID: "d2", Type: model.DocEstimate, SizeMB: 1, Status: model.StatusPending},
		model.ClaimDocumentRecord{DocumentID: "d3", Type: model.DocPhotos, SizeMB: 1, Status: model.StatusFailed},
	)

	analysis, err := NewEvaluator(s).Evaluate(context.Background(), "CLM-2002")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if analysis.TotalDocuments != 1 {
		t.Errorf("expected only available documents counted, got %d", analysis.TotalDocuments)
	}
}

func TestEvaluate_EmptyClaimID(t *testing.T) {
	_, err := NewEvaluator(store.NewMemoryStore()).Evaluate(context.Background(), "")
	if err == nil {
		t.Fatal("expected error for empty claim id")
	}
	if !fault.IsKind(err, fault.InvalidFormat) {
		t.Errorf("expected InvalidFormat, got %v", fault.KindOf(err))
	}
}
