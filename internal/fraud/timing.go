package fraud

import (
	"fmt"
	"time"

	"github.com/ppiankov/claimlens/internal/fault"
	"github.com/ppiankov/claimlens/internal/model"
)

// Timing penalty weights. The two critical flags mark logically invalid
// sequences, not just anomalies.
const (
	timingReportBeforeIncident = 0.80 // critical: report predates incident
	timingSameDayReport        = 0.10
	timingLateReport           = 0.20 // over 30 days
	timingSlowReport           = 0.10 // 15-30 days
	timingBeforeEffective      = 0.90 // critical: incident predates coverage
	timingNewPolicy7d          = 0.30 // incident within 7 days of effective date
	timingNewPolicy30d         = 0.20 // incident within 30 days of effective date
	timingWeekendIncident      = 0.05
	timingMondayReport         = 0.05 // Monday report after a 3+ day delay
	timingFirstOfMonth         = 0.05
	timingDecemberIncident     = 0.03
)

// DateFormat is the wire format for all scorer date inputs.
const DateFormat = "2006-01-02"

// TimingInput carries the three dates the timing scorer examines.
// PolicyEffective is optional; when empty the policy-age checks are skipped.
type TimingInput struct {
	IncidentDate    string
	ReportedDate    string
	PolicyEffective string
}

// TimingScorer flags suspicious date relationships in a claim submission
type TimingScorer struct{}

// NewTimingScorer creates a timing scorer.
func NewTimingScorer() *TimingScorer {
	return &TimingScorer{}
}

// Score parses the input dates and applies the timing penalties.
// Malformed dates fail with InvalidFormat.
func (s *TimingScorer) Score(in TimingInput) (model.RiskAssessment, error) {
	incident, err := parseDate("incident date", in.IncidentDate)
	if err != nil {
		return model.RiskAssessment{}, err
	}
	reported, err := parseDate("reported date", in.ReportedDate)
	if err != nil {
		return model.RiskAssessment{}, err
	}

	var effective time.Time
	if in.PolicyEffective != "" {
		effective, err = parseDate("policy effective date", in.PolicyEffective)
		if err != nil {
			return model.RiskAssessment{}, err
		}
	}

	score := BaseScore
	var indicators []string

	delayDays := int(reported.Sub(incident).Hours() / 24)

	switch {
	case delayDays < 0:
		score += timingReportBeforeIncident
		indicators = append(indicators, fmt.Sprintf("CRITICAL: report date precedes incident date by %d days", -delayDays))
	case delayDays == 0:
		score += timingSameDayReport
		indicators = append(indicators, "same-day report")
	case delayDays > 30:
		score += timingLateReport
		indicators = append(indicators, fmt.Sprintf("late report: %d days after incident", delayDays))
	case delayDays > 14:
		score += timingSlowReport
		indicators = append(indicators, fmt.Sprintf("slow report: %d days after incident", delayDays))
	}

	if !effective.IsZero() {
		policyAgeDays := int(incident.Sub(effective).Hours() / 24)
		switch {
		case policyAgeDays < 0:
			score += timingBeforeEffective
			indicators = append(indicators, "CRITICAL: incident predates policy effective date")
		case policyAgeDays <= 7:
			score += timingNewPolicy7d
			indicators = append(indicators, fmt.Sprintf("incident %d days after policy effective date", policyAgeDays))
		case policyAgeDays <= 30:
			score += timingNewPolicy30d
			indicators = append(indicators, fmt.Sprintf("incident %d days after policy effective date", policyAgeDays))
		}
	}

	if wd := incident.Weekday(); wd == time.Saturday || wd == time.Sunday {
		score += timingWeekendIncident
		indicators = append(indicators, "weekend incident")
	}

	if reported.Weekday() == time.Monday && delayDays >= 3 {
		score += timingMondayReport
		indicators = append(indicators, "Monday report after multi-day delay")
	}

	if incident.Day() == 1 {
		score += timingFirstOfMonth
		indicators = append(indicators, "first-of-month incident")
	}
	if incident.Month() == time.December {
		score += timingDecemberIncident
		indicators = append(indicators, "December incident")
	}

	return finalize(score, indicators), nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateFormat, value)
	if err != nil {
		return time.Time{}, fault.New(fault.InvalidFormat, "%s %q: expected YYYY-MM-DD", field, value)
	}
	return t, nil
}
