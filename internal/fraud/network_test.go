package fraud

import (
	"context"
	"testing"
	"time"

	"github.com/ppiankov/claimlens/internal/model"
	"github.com/ppiankov/claimlens/internal/store"
)

func addNetworkClaim(s *store.MemoryStore, policyID, claimID, city string, incident time.Time, phone string) {
	s.AddClaim(model.HistoricalClaim{
		ClaimID:      claimID,
		PolicyID:     policyID,
		ClaimType:    "auto_collision",
		IncidentDate: incident,
		ReportedDate: incident.AddDate(0, 0, 1),
		City:         city,
		Status:       "open",
	}, phone)
}

func TestNetworkScorer_NoConnectionsBaseline(t *testing.T) {
	assessment, err := NewNetworkScorer(store.NewMemoryStore()).
		Score(context.Background(), "POL-1", "860-555-0100")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if assessment.Score != BaseScore {
		t.Errorf("expected baseline %f, got %f", BaseScore, assessment.Score)
	}
}

func TestNetworkScorer_PhoneMatches(t *testing.T) {
	tests := []struct {
		name     string
		matches  int
		minScore float64
		maxScore float64
	}{
		{"few matches ignored", 2, BaseScore, BaseScore + 2*networkConnectionBonus},
		{"some matches", 3, BaseScore + networkSomePhoneMatches, 0.99},
		{"many matches", 6, BaseScore + networkManyPhoneMatches, 0.99},
	}

	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.NewMemoryStore()
			for i := 0; i < tt.matches; i++ {
				// Each match on a different policy, different date.
				addNetworkClaim(s, "POL-OTHER-"+string(rune('A'+i)), "C"+string(rune('A'+i)),
					"City"+string(rune('A'+i)), day.AddDate(0, 0, i), "860-555-0100")
			}

			assessment, err := NewNetworkScorer(s).Score(context.Background(), "POL-MINE", "860-555-0100")
			if err != nil {
				t.Fatalf("Score: %v", err)
			}
			if assessment.Score < tt.minScore || assessment.Score > tt.maxScore {
				t.Errorf("score %f outside [%f, %f]", assessment.Score, tt.minScore, tt.maxScore)
			}
		})
	}
}

func TestNetworkScorer_GeoAndDateClusters(t *testing.T) {
	s := store.NewMemoryStore()
	day := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

	// Four claims in one city (geo cluster), two of them on the same date
	// (date cluster).
	addNetworkClaim(s, "POL-9", "c1", "Hartford", day, "")
	addNetworkClaim(s, "POL-9", "c2", "Hartford", day, "")
	addNetworkClaim(s, "POL-9", "c3", "Hartford", day.AddDate(0, 0, 5), "")
	addNetworkClaim(s, "POL-9", "c4", "Hartford", day.AddDate(0, 0, 9), "")

	assessment, err := NewNetworkScorer(s).Score(context.Background(), "POL-9", "")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	want := BaseScore + networkGeoCluster + networkDateCluster
	if assessment.Score < want {
		t.Errorf("expected score >= %f, got %f (%v)", want, assessment.Score, assessment.Indicators)
	}
	if len(assessment.Indicators) < 2 {
		t.Errorf("expected cluster indicators, got %v", assessment.Indicators)
	}
}

func TestNetworkScorer_Capped(t *testing.T) {
	s := store.NewMemoryStore()
	day := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		addNetworkClaim(s, "POL-X", "mine"+string(rune('a'+i)), "Hartford", day, "")
		addNetworkClaim(s, "POL-OTHER-"+string(rune('a'+i)), "other"+string(rune('a'+i)), "Hartford", day, "203-555-0999")
	}

	assessment, err := NewNetworkScorer(s).Score(context.Background(), "POL-X", "203-555-0999")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if assessment.Score > 1.0 {
		t.Errorf("score must be capped at 1.0, got %f", assessment.Score)
	}
}
