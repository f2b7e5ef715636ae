package fraud

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/claimlens/internal/model"
	"github.com/ppiankov/claimlens/internal/store"
)

// History penalty weights
const (
	historyFreq30Penalty    = 0.30 // more than 2 claims in 30 days
	historyFreq90Penalty    = 0.20 // more than 4 claims in 90 days
	historySlowDelayPenalty = 0.15 // average reporting delay over 25 days
	historyFastDelayPenalty = 0.10 // average reporting delay under 1 day
	historyClusterPenalty   = 0.20 // 3+ claims all at one location
	historyAmountPenalty    = 0.10 // average claim amount over $15,000
	historyDominantPenalty  = 0.15 // one claim type is 80%+ of history
)

const (
	historyHighAvgAmount   = 15000.0
	historyDominantRatio   = 0.80
	historyClusterMinCount = 3
)

// HistoryStats summarizes a claimant's prior-claim pattern
type HistoryStats struct {
	TotalClaims      int     `json:"total_claims"`
	Claims30d        int     `json:"claims_30d"`
	Claims90d        int     `json:"claims_90d"`
	AvgReportDelay   float64 `json:"avg_report_delay_days"`
	DistinctLocations int    `json:"distinct_locations"`
	AvgAmount        float64 `json:"avg_amount"`
	DominantType     string  `json:"dominant_type,omitempty"`
	DominantRatio    float64 `json:"dominant_ratio"`
}

// HistoryScorer scores claim-frequency and pattern anomalies in a
// policy's prior claims.
type HistoryScorer struct {
	claims store.ClaimsStore
}

// NewHistoryScorer creates a history scorer over the given claims store.
func NewHistoryScorer(claims store.ClaimsStore) *HistoryScorer {
	return &HistoryScorer{claims: claims}
}

// Score fetches prior claims for the policy and applies the frequency,
// delay, clustering, amount, and dominant-type penalties. A policy with
// no history degrades to the baseline score, not an error.
func (s *HistoryScorer) Score(ctx context.Context, policyID string, now time.Time) (model.RiskAssessment, *HistoryStats, error) {
	history, err := s.claims.ClaimHistory(ctx, policyID)
	if err != nil {
		return model.RiskAssessment{}, nil, fmt.Errorf("claim history: %w", err)
	}

	stats := summarize(history, now)
	score := BaseScore
	var indicators []string

	if stats.TotalClaims == 0 {
		return finalize(score, nil), stats, nil
	}

	switch {
	case stats.Claims30d > 2:
		score += historyFreq30Penalty
		indicators = append(indicators, fmt.Sprintf("high frequency: %d claims in last 30 days", stats.Claims30d))
	case stats.Claims90d > 4:
		score += historyFreq90Penalty
		indicators = append(indicators, fmt.Sprintf("elevated frequency: %d claims in last 90 days", stats.Claims90d))
	}

	if stats.AvgReportDelay > 25 {
		score += historySlowDelayPenalty
		indicators = append(indicators, fmt.Sprintf("slow reporting pattern: %.1f day average delay", stats.AvgReportDelay))
	} else if stats.AvgReportDelay < 1 {
		score += historyFastDelayPenalty
		indicators = append(indicators, fmt.Sprintf("unusually fast reporting: %.1f day average delay", stats.AvgReportDelay))
	}

	if stats.DistinctLocations == 1 && stats.TotalClaims >= historyClusterMinCount {
		score += historyClusterPenalty
		indicators = append(indicators, fmt.Sprintf("location clustering: %d claims at a single location", stats.TotalClaims))
	}

	if stats.AvgAmount > historyHighAvgAmount {
		score += historyAmountPenalty
		indicators = append(indicators, fmt.Sprintf("high average amount: $%.0f", stats.AvgAmount))
	}

	if stats.DominantRatio >= historyDominantRatio {
		score += historyDominantPenalty
		indicators = append(indicators, fmt.Sprintf("dominant claim type: %s is %.0f%% of history", stats.DominantType, stats.DominantRatio*100))
	}

	return finalize(score, indicators), stats, nil
}

// summarize folds a prior-claim list into the stats the penalties read.
func summarize(history []model.HistoricalClaim, now time.Time) *HistoryStats {
	stats := &HistoryStats{TotalClaims: len(history)}
	if len(history) == 0 {
		return stats
	}

	locations := make(map[string]int)
	types := make(map[string]int)
	var delaySum, amountSum float64

	for _, c := range history {
		age := now.Sub(c.IncidentDate)
		if age >= 0 && age <= 30*24*time.Hour {
			stats.Claims30d++
		}
		if age >= 0 && age <= 90*24*time.Hour {
			stats.Claims90d++
		}
		delaySum += c.ReportingDelayDays()
		amountSum += c.EstimatedDamage
		if c.City != "" {
			locations[c.City]++
		}
		if c.ClaimType != "" {
			types[c.ClaimType]++
		}
	}

	stats.AvgReportDelay = delaySum / float64(len(history))
	stats.AvgAmount = amountSum / float64(len(history))
	stats.DistinctLocations = len(locations)

	for t, n := range types {
		ratio := float64(n) / float64(len(history))
		if ratio > stats.DominantRatio {
			stats.DominantRatio = ratio
			stats.DominantType = t
		}
	}

	return stats
}
