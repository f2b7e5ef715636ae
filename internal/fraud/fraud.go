// Package fraud implements the heuristic fraud risk scorers. Each scorer
// is an independent pure computation over fetched or caller-supplied
// attributes: base score 0.05, additive penalties, capped at 1.0, mapped
// to a discrete tier with a recommended action.
//
// The weights and thresholds are fixed demo heuristics reproduced as-is,
// not tunable business logic.
package fraud

import "github.com/ppiankov/claimlens/internal/model"

// BaseScore is the floor every scorer starts from. No valid input can
// produce a score below it.
const BaseScore = 0.05

// MaxScore caps all additive penalty sums.
const MaxScore = 1.0

// finalize clamps the score and derives tier and recommendation.
func finalize(score float64, indicators []string) model.RiskAssessment {
	if score > MaxScore {
		score = MaxScore
	}
	if score < BaseScore {
		score = BaseScore
	}
	tier := model.TierForScore(score)
	return model.RiskAssessment{
		Score:          score,
		Tier:           tier,
		Indicators:     indicators,
		Recommendation: tier.Recommendation(),
	}
}
