package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/claimlens/internal/fault"
	"github.com/ppiankov/claimlens/internal/model"
	"github.com/ppiankov/claimlens/internal/store"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func seedStore() *store.MemoryStore {
	s := store.NewMemoryStore()
	s.AddPolicy(model.Policy{
		PolicyID:       "POL-1",
		Status:         "active",
		Type:           "auto",
		EffectiveDate:  day("2023-01-01"),
		ExpirationDate: day("2026-01-01"),
	})
	for i, id := range []string{"d1", "d2", "d3"} {
		s.AddDocument(model.ClaimDocumentRecord{
			DocumentID: id,
			ClaimID:    "CLM-1",
			Type:       []model.DocumentType{model.DocPoliceReport, model.DocEstimate, model.DocPhotos}[i],
			SizeMB:     0.5,
			Status:     model.StatusAvailable,
		})
	}
	return s
}

func newTestPipeline(s *store.MemoryStore, now string) *Pipeline {
	p := New(s)
	p.now = func() time.Time { return day(now) }
	return p
}

func TestAssess_CleanClaim(t *testing.T) {
	p := newTestPipeline(seedStore(), "2025-03-01")

	out, err := p.Assess(context.Background(), AssessmentRequest{
		ClaimID:      "CLM-1",
		PolicyID:     "POL-1",
		IncidentDate: "2025-02-18",
		ReportedDate: "2025-02-20",
		City:         "Hartford",
	})
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	if !out.Sufficiency.Ready {
		t.Errorf("expected sufficient corpus: %s", out.Sufficiency.Reason)
	}
	if out.Overall.Tier != model.TierMinimal {
		t.Errorf("clean claim should be MINIMAL, got %s (%.2f)", out.Overall.Tier, out.Overall.Score)
	}
	if out.TimingCheck == nil || !out.TimingCheck.Passed {
		t.Errorf("timing check should pass: %+v", out.TimingCheck)
	}
	if out.FeatureRisk != nil {
		t.Error("feature scorer must be skipped when no features are supplied")
	}
}

func TestAssess_OverallTakesWorstComponent(t *testing.T) {
	p := newTestPipeline(seedStore(), "2025-03-01")

	// Reported before the incident drives the timing score to HIGH.
	out, err := p.Assess(context.Background(), AssessmentRequest{
		ClaimID:      "CLM-1",
		PolicyID:     "POL-1",
		IncidentDate: "2025-02-20",
		ReportedDate: "2025-02-18",
	})
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if out.Overall.Score != out.TimingRisk.Score {
		t.Errorf("overall %.2f should equal worst component %.2f", out.Overall.Score, out.TimingRisk.Score)
	}
	if out.Overall.Tier != model.TierHigh {
		t.Errorf("expected HIGH overall, got %s", out.Overall.Tier)
	}
}

func TestAssess_DuplicateRaisesIndicator(t *testing.T) {
	s := seedStore()
	s.AddClaim(model.HistoricalClaim{
		ClaimID:      "CLM-OLD",
		PolicyID:     "POL-1",
		IncidentDate: day("2025-02-16"),
		ReportedDate: day("2025-02-16"),
		City:         "Hartford",
		Status:       "open",
	}, "")
	p := newTestPipeline(s, "2025-03-01")

	out, err := p.Assess(context.Background(), AssessmentRequest{
		ClaimID:      "CLM-1",
		PolicyID:     "POL-1",
		IncidentDate: "2025-02-18",
		ReportedDate: "2025-02-20",
		City:         "Hartford",
	})
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if out.DuplicateCheck == nil || !out.DuplicateCheck.HighRisk {
		t.Fatalf("expected duplicate alert, got %+v", out.DuplicateCheck)
	}
	found := false
	for _, ind := range out.Overall.Indicators {
		if strings.Contains(ind, "duplicate") {
			found = true
		}
	}
	if !found {
		t.Errorf("overall indicators must mention the duplicate: %v", out.Overall.Indicators)
	}
}

func TestAssess_WithFeatures(t *testing.T) {
	p := newTestPipeline(seedStore(), "2025-03-01")

	out, err := p.Assess(context.Background(), AssessmentRequest{
		ClaimID:      "CLM-1",
		PolicyID:     "POL-1",
		IncidentDate: "2025-02-18",
		ReportedDate: "2025-02-20",
		Features: &model.ClaimRiskFeatures{
			EstimatedDamage: 25000,
			ClaimantAge:     40,
			HighDamage:      true,
		},
	})
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if out.FeatureRisk == nil {
		t.Fatal("expected feature risk when features are supplied")
	}
	if len(out.Contributions) == 0 {
		t.Error("expected feature contributions")
	}
}

func TestAssess_UnknownPolicySkipsTimingCheck(t *testing.T) {
	s := store.NewMemoryStore()
	p := newTestPipeline(s, "2025-03-01")

	out, err := p.Assess(context.Background(), AssessmentRequest{
		ClaimID:      "CLM-1",
		PolicyID:     "POL-NONE",
		IncidentDate: "2025-02-18",
		ReportedDate: "2025-02-20",
	})
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if out.TimingCheck != nil {
		t.Error("timing check requires a policy record")
	}
}

func TestAssess_MissingIDs(t *testing.T) {
	p := newTestPipeline(store.NewMemoryStore(), "2025-03-01")

	_, err := p.Assess(context.Background(), AssessmentRequest{ClaimID: "CLM-1"})
	if !fault.IsKind(err, fault.InvalidFormat) {
		t.Errorf("expected InvalidFormat, got %v", err)
	}
}

func TestRender_TextReport(t *testing.T) {
	p := newTestPipeline(seedStore(), "2025-03-01")

	out, err := p.Assess(context.Background(), AssessmentRequest{
		ClaimID:      "CLM-1",
		PolicyID:     "POL-1",
		IncidentDate: "2025-02-18",
		ReportedDate: "2025-02-20",
	})
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	var buf bytes.Buffer
	Render(&buf, out, true)
	text := buf.String()
	for _, want := range []string{"CLM-1", "READY", "Overall", "Recommendation"} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q:\n%s", want, text)
		}
	}
}
