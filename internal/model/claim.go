package model

import "time"

// HistoricalClaim is one prior claim row from the claims record store,
// read-only input to the history and network scorers.
type HistoricalClaim struct {
	ClaimID         string    `json:"claim_id"`
	PolicyID        string    `json:"policy_id"`
	ClaimType       string    `json:"claim_type"`
	IncidentDate    time.Time `json:"incident_date"`
	ReportedDate    time.Time `json:"reported_date"`
	City            string    `json:"city"`
	EstimatedDamage float64   `json:"estimated_damage"`
	Status          string    `json:"status"`
}

// ReportingDelayDays is the number of days between incident and report.
func (c *HistoricalClaim) ReportingDelayDays() float64 {
	return c.ReportedDate.Sub(c.IncidentDate).Hours() / 24
}

// Policy is the coverage record consulted for timing validation
type Policy struct {
	PolicyID       string    `json:"policy_id"`
	Status         string    `json:"policy_status"`
	Type           string    `json:"policy_type"`
	EffectiveDate  time.Time `json:"effective_date"`
	ExpirationDate time.Time `json:"expiration_date"`
	State          string    `json:"state"`
}

// Active reports whether the policy can accept new claims.
func (p *Policy) Active() bool {
	return p.Status == "active"
}

// Covers reports whether the incident date falls inside the coverage period.
func (p *Policy) Covers(incident time.Time) bool {
	return !incident.Before(p.EffectiveDate) && !incident.After(p.ExpirationDate)
}
