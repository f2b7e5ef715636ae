package fraud

import (
	"math"
	"sort"

	"github.com/ppiankov/claimlens/internal/model"
)

// Fixed coefficients for the 7-feature linear model. Simulated demo
// weights reproduced exactly: not trained, not tunable.
var linearWeights = []struct {
	name   string
	weight float64
}{
	{"estimated_damage", 0.00003},
	{"claimant_age", -0.005},
	{"reporting_delay_days", 0.02},
	{"description_length", -0.001},
	{"weekend_incident", 0.30},
	{"high_damage", 0.50},
	{"claim_type_code", 0.10},
}

const (
	linearBias = -2.0
	// Logistic output is rescaled into [0.05, 0.95]
	linearFloor = 0.05
	linearRange = 0.90
	// Contributors surfaced in the assessment
	topContributors = 5
)

// LinearScorer is the ML-style scorer: a fixed weighted sum squashed
// through a logistic function. Deterministic for identical inputs.
type LinearScorer struct{}

// NewLinearScorer creates a linear scorer.
func NewLinearScorer() *LinearScorer {
	return &LinearScorer{}
}

// Score computes the weighted sum over the feature vector, squashes it,
// and rescales into [0.05, 0.95]. Contributors are ranked by absolute
// contribution, top 5 surfaced as indicators.
func (s *LinearScorer) Score(features model.ClaimRiskFeatures) (model.RiskAssessment, []model.FeatureContribution) {
	vector := featureVector(features)

	z := linearBias
	contributions := make([]model.FeatureContribution, len(linearWeights))
	for i, w := range linearWeights {
		c := vector[i] * w.weight
		z += c
		contributions[i] = model.FeatureContribution{
			Name:         w.name,
			Value:        vector[i],
			Weight:       w.weight,
			Contribution: c,
		}
	}

	logistic := 1.0 / (1.0 + math.Exp(-z))
	score := linearFloor + logistic*linearRange

	sort.Slice(contributions, func(i, j int) bool {
		return math.Abs(contributions[i].Contribution) > math.Abs(contributions[j].Contribution)
	})

	top := contributions
	if len(top) > topContributors {
		top = top[:topContributors]
	}

	indicators := make([]string, 0, len(top))
	for _, c := range top {
		indicators = append(indicators, c.Name)
	}

	return finalize(score, indicators), top
}

// featureVector flattens the features in the fixed weight order.
func featureVector(f model.ClaimRiskFeatures) []float64 {
	return []float64{
		f.EstimatedDamage,
		f.ClaimantAge,
		f.ReportingDelayDays,
		f.DescriptionLength,
		boolFeature(f.WeekendIncident),
		boolFeature(f.HighDamage),
		f.ClaimTypeCode,
	}
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
