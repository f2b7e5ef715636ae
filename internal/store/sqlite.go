package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ppiankov/claimlens/internal/fault"
	"github.com/ppiankov/claimlens/internal/model"
)

// SQLiteStore implements Store over a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if necessary initializes) the claims database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=10000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS claim_documents (
			document_id   TEXT PRIMARY KEY,
			claim_id      TEXT NOT NULL,
			document_type TEXT NOT NULL,
			document_name TEXT,
			document_uri  TEXT,
			size_mb       REAL NOT NULL DEFAULT 0,
			uploaded_at   TEXT NOT NULL,
			status        TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_claim_documents_claim ON claim_documents(claim_id, status)`,
		`CREATE TABLE IF NOT EXISTS claims (
			claim_id         TEXT PRIMARY KEY,
			policy_id        TEXT NOT NULL,
			claim_type       TEXT,
			incident_date    TEXT NOT NULL,
			reported_date    TEXT NOT NULL,
			city             TEXT,
			estimated_damage REAL NOT NULL DEFAULT 0,
			claimant_phone   TEXT,
			status           TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_claims_policy ON claims(policy_id)`,
		`CREATE INDEX IF NOT EXISTS idx_claims_phone ON claims(claimant_phone)`,
		`CREATE TABLE IF NOT EXISTS policies (
			policy_id       TEXT PRIMARY KEY,
			policy_status   TEXT NOT NULL,
			policy_type     TEXT,
			effective_date  TEXT NOT NULL,
			expiration_date TEXT NOT NULL,
			state           TEXT
		)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Close releases the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AddDocument inserts or replaces a document record.
func (s *SQLiteStore) AddDocument(ctx context.Context, d model.ClaimDocumentRecord) error {
	uploaded := d.UploadedAt
	if uploaded.IsZero() {
		uploaded = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO claim_documents
			(document_id, claim_id, document_type, document_name, document_uri, size_mb, uploaded_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.DocumentID, d.ClaimID, string(d.Type), d.Name, d.URI, d.SizeMB,
		uploaded.Format(time.RFC3339), string(d.Status))
	if err != nil {
		return fault.Wrap(fault.UpstreamUnavailable, err, "insert document %s", d.DocumentID)
	}
	return nil
}

// AddClaim inserts or replaces a historical claim record.
func (s *SQLiteStore) AddClaim(ctx context.Context, c model.HistoricalClaim, claimantPhone string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO claims
			(claim_id, policy_id, claim_type, incident_date, reported_date, city, estimated_damage, claimant_phone, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ClaimID, c.PolicyID, c.ClaimType,
		c.IncidentDate.Format("2006-01-02"), c.ReportedDate.Format("2006-01-02"),
		c.City, c.EstimatedDamage, claimantPhone, c.Status)
	if err != nil {
		return fault.Wrap(fault.UpstreamUnavailable, err, "insert claim %s", c.ClaimID)
	}
	return nil
}

// AddPolicy inserts or replaces a policy record.
func (s *SQLiteStore) AddPolicy(ctx context.Context, p model.Policy) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO policies
			(policy_id, policy_status, policy_type, effective_date, expiration_date, state)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.PolicyID, p.Status, p.Type,
		p.EffectiveDate.Format("2006-01-02"), p.ExpirationDate.Format("2006-01-02"), p.State)
	if err != nil {
		return fault.Wrap(fault.UpstreamUnavailable, err, "insert policy %s", p.PolicyID)
	}
	return nil
}

// ListDocuments returns available document records for a claim, newest first.
func (s *SQLiteStore) ListDocuments(ctx context.Context, claimID string) ([]model.ClaimDocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, claim_id, document_type, COALESCE(document_name, ''),
		       COALESCE(document_uri, ''), size_mb, uploaded_at, status
		FROM claim_documents
		WHERE claim_id = ? AND status = ?
		ORDER BY uploaded_at DESC`, claimID, string(model.StatusAvailable))
	if err != nil {
		return nil, fault.Wrap(fault.UpstreamUnavailable, err, "query claim documents for %s", claimID)
	}
	defer rows.Close()

	var docs []model.ClaimDocumentRecord
	for rows.Next() {
		var d model.ClaimDocumentRecord
		var docType, status, uploaded string
		if err := rows.Scan(&d.DocumentID, &d.ClaimID, &docType, &d.Name, &d.URI, &d.SizeMB, &uploaded, &status); err != nil {
			return nil, fault.Wrap(fault.UpstreamUnavailable, err, "scan document row")
		}
		d.Type = model.DocumentType(docType)
		d.Status = model.DocumentStatus(status)
		d.UploadedAt = parseStoredTime(uploaded)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Wrap(fault.UpstreamUnavailable, err, "iterate document rows")
	}
	return docs, nil
}

// ClaimHistory returns prior claims for a policy, newest incident first.
func (s *SQLiteStore) ClaimHistory(ctx context.Context, policyID string) ([]model.HistoricalClaim, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT claim_id, policy_id, COALESCE(claim_type, ''), incident_date, reported_date,
		       COALESCE(city, ''), estimated_damage, status
		FROM claims
		WHERE policy_id = ?
		ORDER BY incident_date DESC`, policyID)
	if err != nil {
		return nil, fault.Wrap(fault.UpstreamUnavailable, err, "query claim history for %s", policyID)
	}
	defer rows.Close()

	var claims []model.HistoricalClaim
	for rows.Next() {
		var c model.HistoricalClaim
		var incident, reported string
		if err := rows.Scan(&c.ClaimID, &c.PolicyID, &c.ClaimType, &incident, &reported, &c.City, &c.EstimatedDamage, &c.Status); err != nil {
			return nil, fault.Wrap(fault.UpstreamUnavailable, err, "scan claim row")
		}
		c.IncidentDate = parseStoredTime(incident)
		c.ReportedDate = parseStoredTime(reported)
		claims = append(claims, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.Wrap(fault.UpstreamUnavailable, err, "iterate claim rows")
	}
	return claims, nil
}

// CountPhoneMatches counts claims on other policies sharing the claimant phone.
func (s *SQLiteStore) CountPhoneMatches(ctx context.Context, phone, policyID string) (int, error) {
	if phone == "" {
		return 0, nil
	}
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM claims
		WHERE claimant_phone = ? AND policy_id != ?`, phone, policyID).Scan(&count)
	if err != nil {
		return 0, fault.Wrap(fault.UpstreamUnavailable, err, "count phone matches")
	}
	return count, nil
}

// GetPolicy fetches one policy record.
func (s *SQLiteStore) GetPolicy(ctx context.Context, policyID string) (*model.Policy, error) {
	var p model.Policy
	var effective, expiration string
	err := s.db.QueryRowContext(ctx, `
		SELECT policy_id, policy_status, COALESCE(policy_type, ''),
		       effective_date, expiration_date, COALESCE(state, '')
		FROM policies WHERE policy_id = ?`, policyID).
		Scan(&p.PolicyID, &p.Status, &p.Type, &effective, &expiration, &p.State)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.New(fault.NotFound, "policy %s not found", policyID)
	}
	if err != nil {
		return nil, fault.Wrap(fault.UpstreamUnavailable, err, "query policy %s", policyID)
	}
	p.EffectiveDate = parseStoredTime(effective)
	p.ExpirationDate = parseStoredTime(expiration)
	return &p, nil
}

// parseStoredTime accepts the two formats rows are written with: RFC 3339
// timestamps and bare YYYY-MM-DD dates.
func parseStoredTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}
