package model

// RiskTier is the discrete bucket a continuous fraud score falls into
type RiskTier string

const (
	TierMinimal RiskTier = "MINIMAL"
	TierLow     RiskTier = "LOW"
	TierMedium  RiskTier = "MEDIUM"
	TierHigh    RiskTier = "HIGH"
)

// TierForScore maps a [0,1] fraud score to its risk tier.
// Bands: <0.15 MINIMAL, [0.15,0.40) LOW, [0.40,0.70) MEDIUM, >=0.70 HIGH.
func TierForScore(score float64) RiskTier {
	switch {
	case score < 0.15:
		return TierMinimal
	case score < 0.40:
		return TierLow
	case score < 0.70:
		return TierMedium
	default:
		return TierHigh
	}
}

// Recommendation returns the handling guidance for a tier.
func (t RiskTier) Recommendation() string {
	switch t {
	case TierMinimal:
		return "Standard processing"
	case TierLow:
		return "Enhanced documentation required"
	case TierMedium:
		return "Detailed investigation recommended"
	case TierHigh:
		return "SIU referral required"
	default:
		return "Manual review"
	}
}

// RiskAssessment is the output of a fraud scorer: a bounded score, its
// tier, the ordered indicators that contributed, and the tier's
// recommended action.
type RiskAssessment struct {
	Score          float64  `json:"score"`
	Tier           RiskTier `json:"tier"`
	Indicators     []string `json:"indicators,omitempty"`
	Recommendation string   `json:"recommendation"`
}

// ClaimRiskFeatures is the fixed feature vector consumed by the linear
// scorer. Built fresh per call, never persisted.
type ClaimRiskFeatures struct {
	EstimatedDamage   float64 `json:"estimated_damage"`
	ClaimantAge       float64 `json:"claimant_age"`
	ReportingDelayDays float64 `json:"reporting_delay_days"`
	DescriptionLength float64 `json:"description_length"`
	WeekendIncident   bool    `json:"weekend_incident"`
	HighDamage        bool    `json:"high_damage"`
	ClaimTypeCode     float64 `json:"claim_type_code"`
}

// FeatureContribution reports how much one feature moved the linear
// scorer's weighted sum, ranked by absolute contribution.
type FeatureContribution struct {
	Name         string  `json:"name"`
	Value        float64 `json:"value"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}
