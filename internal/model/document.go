package model

import "time"

// DocumentType categorizes a claim document
type DocumentType string

const (
	DocPoliceReport  DocumentType = "police_report"
	DocEstimate      DocumentType = "estimate"
	DocMedicalRecord DocumentType = "medical_record"
	DocPhotos        DocumentType = "photos"
	DocAudio         DocumentType = "audio"
	DocUnknown       DocumentType = "unknown"
)

// PrivilegedTypes are the document types that carry the most evidentiary
// weight for an auto/property claim. At least two of them must be present
// before a claim corpus is considered index-worthy.
var PrivilegedTypes = []DocumentType{DocPoliceReport, DocEstimate, DocPhotos}

// DocumentStatus reflects the processing state of an uploaded document
type DocumentStatus string

const (
	StatusAvailable DocumentStatus = "available"
	StatusPending   DocumentStatus = "pending"
	StatusFailed    DocumentStatus = "failed"
)

// ClaimDocumentRecord is the metadata row for one uploaded claim document.
// Owned by the record store; the evaluator only reads it.
type ClaimDocumentRecord struct {
	DocumentID string       `json:"document_id"`
	ClaimID    string       `json:"claim_id"`
	Type       DocumentType `json:"document_type"`
	Name       string       `json:"document_name,omitempty"`
	URI        string       `json:"document_uri,omitempty"`
	SizeMB     float64      `json:"size_mb"`
	UploadedAt time.Time    `json:"upload_timestamp"`
	Status     DocumentStatus `json:"status"`
}

// SufficiencyAnalysis is the recomputed-per-call verdict on whether a
// claim's document corpus is rich enough to justify building an index.
type SufficiencyAnalysis struct {
	ClaimID        string               `json:"claim_id"`
	TotalDocuments int                  `json:"total_documents"`
	DistinctTypes  []DocumentType       `json:"distinct_types"`
	SizeMBTotal    float64              `json:"size_mb_total"`
	CountsByType   map[DocumentType]int `json:"counts_by_type"`
	OldestUpload   time.Time            `json:"oldest_upload,omitempty"`
	LatestUpload   time.Time            `json:"latest_upload,omitempty"`
	Ready          bool                 `json:"ready"`
	Reason         string               `json:"reason"`
}

// HasType reports whether the analysis saw at least one document of type t.
func (a *SufficiencyAnalysis) HasType(t DocumentType) bool {
	return a.CountsByType[t] > 0
}
