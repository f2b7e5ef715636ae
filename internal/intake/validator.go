// Package intake validates new claim submissions before they enter the
// processing workflow: duplicate detection against prior claims and
// policy-timing checks.
package intake

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/claimlens/internal/fault"
	"github.com/ppiankov/claimlens/internal/fraud"
	"github.com/ppiankov/claimlens/internal/store"
)

func invalidDate(field, value string) error {
	return fault.New(fault.InvalidFormat, "%s %q: expected YYYY-MM-DD", field, value)
}

// Duplicate windows: claims on the same policy in the same city within
// duplicateHighRiskDays are flagged; the wider window bounds how far back
// the comparison looks.
const (
	duplicateHighRiskDays = 7
	duplicateSearchDays   = 30
	reportingWindowDays   = 30
)

// DuplicateMatch is one prior claim close enough to look like a duplicate
type DuplicateMatch struct {
	ClaimID         string  `json:"claim_id"`
	IncidentDate    string  `json:"incident_date"`
	DaysDifference  int     `json:"days_difference"`
	City            string  `json:"city"`
	EstimatedDamage float64 `json:"estimated_damage"`
	Status          string  `json:"status"`
}

// DuplicateReport summarizes the duplicate search
type DuplicateReport struct {
	PolicyID      string           `json:"policy_id"`
	IncidentDate  string           `json:"incident_date"`
	City          string           `json:"city"`
	ClaimsChecked int              `json:"claims_checked"`
	Matches       []DuplicateMatch `json:"matches,omitempty"`
	HighRisk      bool             `json:"high_risk"`
}

// TimingReport summarizes policy-timing validation
type TimingReport struct {
	PolicyID         string   `json:"policy_id"`
	PolicyType       string   `json:"policy_type,omitempty"`
	ReportingDelay   int      `json:"reporting_delay_days"`
	DuringCoverage   bool     `json:"during_coverage"`
	WithinWindow     bool     `json:"within_reporting_window"`
	Passed           bool     `json:"passed"`
	Issues           []string `json:"issues,omitempty"`
}

// Validator runs intake checks against the claims record store
type Validator struct {
	claims store.ClaimsStore
}

// NewValidator creates an intake validator.
func NewValidator(claims store.ClaimsStore) *Validator {
	return &Validator{claims: claims}
}

// CheckDuplicates searches the policy's prior claims for submissions in
// the same city within the 30-day window, flagging matches inside 7 days
// as high risk. Denied and closed claims are ignored.
func (v *Validator) CheckDuplicates(ctx context.Context, policyID, incidentDate, city string) (*DuplicateReport, error) {
	incident, err := time.Parse(fraud.DateFormat, incidentDate)
	if err != nil {
		return nil, invalidDate("incident date", incidentDate)
	}

	history, err := v.claims.ClaimHistory(ctx, policyID)
	if err != nil {
		return nil, fmt.Errorf("claim history: %w", err)
	}

	report := &DuplicateReport{
		PolicyID:     policyID,
		IncidentDate: incidentDate,
		City:         city,
	}

	for _, c := range history {
		if c.Status == "denied" || c.Status == "closed" {
			continue
		}
		if !strings.EqualFold(c.City, city) {
			continue
		}
		diff := int(incident.Sub(c.IncidentDate).Hours() / 24)
		if diff < 0 {
			diff = -diff
		}
		if diff > duplicateSearchDays {
			continue
		}
		report.ClaimsChecked++
		if diff <= duplicateHighRiskDays {
			report.Matches = append(report.Matches, DuplicateMatch{
				ClaimID:         c.ClaimID,
				IncidentDate:    c.IncidentDate.Format(fraud.DateFormat),
				DaysDifference:  diff,
				City:            c.City,
				EstimatedDamage: c.EstimatedDamage,
				Status:          c.Status,
			})
		}
	}

	report.HighRisk = len(report.Matches) > 0
	return report, nil
}

// ValidateTiming checks that the incident fell inside the policy's
// coverage period and the claim was reported within the 30-day window.
func (v *Validator) ValidateTiming(ctx context.Context, policyID, incidentDate, reportedDate string) (*TimingReport, error) {
	incident, err := time.Parse(fraud.DateFormat, incidentDate)
	if err != nil {
		return nil, invalidDate("incident date", incidentDate)
	}
	reported, err := time.Parse(fraud.DateFormat, reportedDate)
	if err != nil {
		return nil, invalidDate("reported date", reportedDate)
	}

	policy, err := v.claims.GetPolicy(ctx, policyID)
	if err != nil {
		return nil, fmt.Errorf("policy lookup: %w", err)
	}

	report := &TimingReport{
		PolicyID:       policyID,
		PolicyType:     policy.Type,
		ReportingDelay: int(reported.Sub(incident).Hours() / 24),
	}

	report.DuringCoverage = policy.Covers(incident)
	report.WithinWindow = report.ReportingDelay >= 0 && report.ReportingDelay <= reportingWindowDays

	if !report.DuringCoverage {
		report.Issues = append(report.Issues, fmt.Sprintf(
			"incident outside coverage period (%s to %s)",
			policy.EffectiveDate.Format(fraud.DateFormat),
			policy.ExpirationDate.Format(fraud.DateFormat)))
	}
	if !report.WithinWindow {
		report.Issues = append(report.Issues, fmt.Sprintf(
			"late reporting: %d days (required within %d days)",
			report.ReportingDelay, reportingWindowDays))
	}

	report.Passed = len(report.Issues) == 0
	return report, nil
}
