// Package pipeline composes the sufficiency evaluator, the fraud
// scorers, and the intake checks into a single claim assessment.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/claimlens/internal/fault"
	"github.com/ppiankov/claimlens/internal/fraud"
	"github.com/ppiankov/claimlens/internal/intake"
	"github.com/ppiankov/claimlens/internal/model"
	"github.com/ppiankov/claimlens/internal/store"
	"github.com/ppiankov/claimlens/internal/sufficiency"
)

// AssessmentRequest describes one claim submission to assess.
// Features is optional; when nil the feature-based scorer is skipped.
type AssessmentRequest struct {
	ClaimID       string                   `json:"claim_id"`
	PolicyID      string                   `json:"policy_id"`
	IncidentDate  string                   `json:"incident_date"`
	ReportedDate  string                   `json:"reported_date"`
	City          string                   `json:"city,omitempty"`
	ClaimantPhone string                   `json:"claimant_phone,omitempty"`
	Features      *model.ClaimRiskFeatures `json:"features,omitempty"`
}

// ClaimAssessment is the combined verdict over one submission. Overall
// takes the worst component score, so a single HIGH signal is enough to
// route the claim to investigation.
type ClaimAssessment struct {
	ClaimID  string `json:"claim_id"`
	PolicyID string `json:"policy_id"`

	Sufficiency *model.SufficiencyAnalysis `json:"sufficiency"`

	HistoryRisk model.RiskAssessment  `json:"history_risk"`
	TimingRisk  model.RiskAssessment  `json:"timing_risk"`
	NetworkRisk model.RiskAssessment  `json:"network_risk"`
	FeatureRisk *model.RiskAssessment `json:"feature_risk,omitempty"`

	Contributions []model.FeatureContribution `json:"feature_contributions,omitempty"`

	DuplicateCheck *intake.DuplicateReport `json:"duplicate_check,omitempty"`
	TimingCheck    *intake.TimingReport    `json:"timing_check,omitempty"`

	Overall model.RiskAssessment `json:"overall"`
}

// Pipeline wires the assessment stages over a shared record store.
type Pipeline struct {
	evaluator *sufficiency.Evaluator
	history   *fraud.HistoryScorer
	timing    *fraud.TimingScorer
	network   *fraud.NetworkScorer
	linear    *fraud.LinearScorer
	validator *intake.Validator
	claims    store.ClaimsStore

	now func() time.Time
}

// New creates a pipeline over the given store.
func New(s store.Store) *Pipeline {
	return &Pipeline{
		evaluator: sufficiency.NewEvaluator(s),
		history:   fraud.NewHistoryScorer(s),
		timing:    fraud.NewTimingScorer(),
		network:   fraud.NewNetworkScorer(s),
		linear:    fraud.NewLinearScorer(),
		validator: intake.NewValidator(s),
		claims:    s,
		now:       time.Now,
	}
}

// Assess runs every stage against the submission. Stages are pure
// reads; a hard failure in any stage fails the whole assessment.
func (p *Pipeline) Assess(ctx context.Context, req AssessmentRequest) (*ClaimAssessment, error) {
	if req.ClaimID == "" || req.PolicyID == "" {
		return nil, fault.New(fault.InvalidFormat, "claim id and policy id are required")
	}

	out := &ClaimAssessment{
		ClaimID:  req.ClaimID,
		PolicyID: req.PolicyID,
	}

	analysis, err := p.evaluator.Evaluate(ctx, req.ClaimID)
	if err != nil {
		return nil, fmt.Errorf("sufficiency: %w", err)
	}
	out.Sufficiency = analysis

	historyRisk, _, err := p.history.Score(ctx, req.PolicyID, p.now())
	if err != nil {
		return nil, fmt.Errorf("history scorer: %w", err)
	}
	out.HistoryRisk = historyRisk

	policyEffective := ""
	policy, err := p.claims.GetPolicy(ctx, req.PolicyID)
	switch {
	case err == nil:
		policyEffective = policy.EffectiveDate.Format(fraud.DateFormat)
	case fault.IsKind(err, fault.NotFound):
		// Unknown policy: skip the policy-age and coverage checks.
	default:
		return nil, fmt.Errorf("policy lookup: %w", err)
	}

	timingRisk, err := p.timing.Score(fraud.TimingInput{
		IncidentDate:    req.IncidentDate,
		ReportedDate:    req.ReportedDate,
		PolicyEffective: policyEffective,
	})
	if err != nil {
		return nil, fmt.Errorf("timing scorer: %w", err)
	}
	out.TimingRisk = timingRisk

	networkRisk, err := p.network.Score(ctx, req.PolicyID, req.ClaimantPhone)
	if err != nil {
		return nil, fmt.Errorf("network scorer: %w", err)
	}
	out.NetworkRisk = networkRisk

	if req.Features != nil {
		featureRisk, contributions := p.linear.Score(*req.Features)
		out.FeatureRisk = &featureRisk
		out.Contributions = contributions
	}

	if req.City != "" {
		duplicates, err := p.validator.CheckDuplicates(ctx, req.PolicyID, req.IncidentDate, req.City)
		if err != nil {
			return nil, fmt.Errorf("duplicate check: %w", err)
		}
		out.DuplicateCheck = duplicates
	}

	if policyEffective != "" {
		timingCheck, err := p.validator.ValidateTiming(ctx, req.PolicyID, req.IncidentDate, req.ReportedDate)
		if err != nil {
			return nil, fmt.Errorf("timing validation: %w", err)
		}
		out.TimingCheck = timingCheck
	}

	out.Overall = combine(out)
	return out, nil
}

// combine takes the maximum component score and concatenates the
// component indicators in stage order.
func combine(a *ClaimAssessment) model.RiskAssessment {
	score := a.HistoryRisk.Score
	var indicators []string
	indicators = append(indicators, a.HistoryRisk.Indicators...)

	for _, r := range []model.RiskAssessment{a.TimingRisk, a.NetworkRisk} {
		if r.Score > score {
			score = r.Score
		}
		indicators = append(indicators, r.Indicators...)
	}
	if a.FeatureRisk != nil {
		if a.FeatureRisk.Score > score {
			score = a.FeatureRisk.Score
		}
		indicators = append(indicators, a.FeatureRisk.Indicators...)
	}
	if a.DuplicateCheck != nil && a.DuplicateCheck.HighRisk {
		indicators = append(indicators, fmt.Sprintf(
			"possible duplicate: %d prior claim(s) within 7 days in %s",
			len(a.DuplicateCheck.Matches), a.DuplicateCheck.City))
	}
	if a.TimingCheck != nil {
		indicators = append(indicators, a.TimingCheck.Issues...)
	}

	tier := model.TierForScore(score)
	return model.RiskAssessment{
		Score:          score,
		Tier:           tier,
		Indicators:     indicators,
		Recommendation: tier.Recommendation(),
	}
}
