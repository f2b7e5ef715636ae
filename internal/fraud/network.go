package fraud

import (
	"context"
	"fmt"
	"sort"

	"github.com/ppiankov/claimlens/internal/model"
	"github.com/ppiankov/claimlens/internal/store"
)

// Network penalty weights
const (
	networkManyPhoneMatches = 0.40 // phone appears on more than 5 other-policy claims
	networkSomePhoneMatches = 0.20 // more than 2
	networkGeoCluster       = 0.15 // per location with 4+ claims on the policy
	networkDateCluster      = 0.20 // per incident date with multiple claims
	networkConnectionBonus  = 0.02 // per connection, capped
	networkConnectionCap    = 0.20
)

// NetworkScorer flags relationship and clustering anomalies across the
// claims database.
type NetworkScorer struct {
	claims store.ClaimsStore
}

// NewNetworkScorer creates a network scorer over the given claims store.
func NewNetworkScorer(claims store.ClaimsStore) *NetworkScorer {
	return &NetworkScorer{claims: claims}
}

// Score counts cross-policy phone matches and same-policy geographic and
// temporal clusters. Missing network data degrades to the baseline score.
func (s *NetworkScorer) Score(ctx context.Context, policyID, claimantPhone string) (model.RiskAssessment, error) {
	phoneMatches, err := s.claims.CountPhoneMatches(ctx, claimantPhone, policyID)
	if err != nil {
		return model.RiskAssessment{}, fmt.Errorf("phone matches: %w", err)
	}

	history, err := s.claims.ClaimHistory(ctx, policyID)
	if err != nil {
		return model.RiskAssessment{}, fmt.Errorf("claim history: %w", err)
	}

	score := BaseScore
	var indicators []string
	totalConnections := phoneMatches

	switch {
	case phoneMatches > 5:
		score += networkManyPhoneMatches
		indicators = append(indicators, fmt.Sprintf("phone shared across %d claims on other policies", phoneMatches))
	case phoneMatches > 2:
		score += networkSomePhoneMatches
		indicators = append(indicators, fmt.Sprintf("phone shared across %d claims on other policies", phoneMatches))
	}

	byCity := make(map[string]int)
	byDate := make(map[string]int)
	for _, c := range history {
		if c.City != "" {
			byCity[c.City]++
		}
		byDate[c.IncidentDate.Format(DateFormat)]++
	}

	for _, city := range sortedKeys(byCity) {
		if count := byCity[city]; count > 3 {
			score += networkGeoCluster
			totalConnections += count
			indicators = append(indicators, fmt.Sprintf("geographic cluster: %d claims in %s", count, city))
		}
	}

	for _, date := range sortedKeys(byDate) {
		if count := byDate[date]; count > 1 {
			score += networkDateCluster
			totalConnections += count
			indicators = append(indicators, fmt.Sprintf("same-date cluster: %d claims on %s", count, date))
		}
	}

	bonus := float64(totalConnections) * networkConnectionBonus
	if bonus > networkConnectionCap {
		bonus = networkConnectionCap
	}
	score += bonus

	return finalize(score, indicators), nil
}

// sortedKeys keeps cluster indicators in a stable order.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
