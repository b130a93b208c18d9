package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CrewMember is the expected holder of a document.
type CrewMember struct {
	ID          uuid.UUID `db:"id" json:"id"`
	FullName    string    `db:"full_name" json:"full_name"`
	Nationality string    `db:"nationality" json:"nationality"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// DocumentRecord is the document currently on file for a crew member.
// A nil ExpiryDate means the expiry is still to be decided.
type DocumentRecord struct {
	ID                 uuid.UUID    `db:"id" json:"id"`
	Type               DocumentType `db:"document_type" json:"type"`
	DocumentNumber     string       `db:"document_number" json:"document_number"`
	IssuingAuthority   string       `db:"issuing_authority" json:"issuing_authority"`
	IssueDate          *time.Time   `db:"issue_date" json:"issue_date"`
	ExpiryDate         *time.Time   `db:"expiry_date" json:"expiry_date"`
	HolderCrewMemberID uuid.UUID    `db:"holder_crew_member_id" json:"holder_crew_member_id"`
	SourceBucket       string       `db:"source_bucket" json:"-"`
	SourceKey          string       `db:"source_key" json:"-"`
	LastScanID         *uuid.UUID   `db:"last_scan_id" json:"last_scan_id"`
	LastVerifiedAt     *time.Time   `db:"last_verified_at" json:"last_verified_at"`
	CreatedAt          time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time    `db:"updated_at" json:"updated_at"`
}

// ExtractedFields is the raw output of one OCR pass. Empty strings mean the
// extractor did not find the field.
type ExtractedFields struct {
	DocumentNumber   string  `json:"document_number"`
	IssueDate        string  `json:"issue_date"`
	ExpiryDate       string  `json:"expiry_date"`
	HolderName       string  `json:"holder_name"`
	IssuingAuthority string  `json:"issuing_authority"`
	MRZValue         string  `json:"mrz"`
	RawText          string  `json:"raw_text"`
	Confidence       float64 `json:"confidence"`
}

// PopulatedFields counts the document fields the extractor found. Raw text
// and confidence are not document fields.
func (f *ExtractedFields) PopulatedFields() int {
	n := 0
	for _, v := range []string{f.DocumentNumber, f.IssueDate, f.ExpiryDate, f.HolderName, f.IssuingAuthority, f.MRZValue} {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

// MRZValidation is the structured result of checking a machine-readable zone.
type MRZValidation struct {
	Present bool     `json:"present"`
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// Value implements driver.Valuer so the struct can be stored as JSONB.
func (m MRZValidation) Value() (driver.Value, error) {
	if m.Errors == nil {
		m.Errors = []string{}
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB columns.
func (m *MRZValidation) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = MRZValidation{Errors: []string{}}
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("mrz_validation: unsupported column type")
	}
}

// ScanAttempt is one row of the append-only verification history of a document.
// For a given DocumentID at most one attempt has a nil SupersededAt.
type ScanAttempt struct {
	ID                        uuid.UUID       `db:"id" json:"id"`
	DocumentID                uuid.UUID       `db:"document_id" json:"document_id"`
	ExtractedNumber           string          `db:"extracted_number" json:"extracted_number"`
	CorrectedNumber           string          `db:"corrected_number" json:"corrected_number"`
	ExtractedIssueDate        string          `db:"extracted_issue_date" json:"extracted_issue_date"`
	ExtractedExpiryDate       string          `db:"extracted_expiry_date" json:"extracted_expiry_date"`
	ExtractedHolderName       string          `db:"extracted_holder_name" json:"extracted_holder_name"`
	ExtractedIssuingAuthority string          `db:"extracted_issuing_authority" json:"extracted_issuing_authority"`
	ExtractedMRZ              string          `db:"extracted_mrz" json:"extracted_mrz"`
	OCRConfidence             float64         `db:"ocr_confidence" json:"ocr_confidence"`
	MRZValidation             MRZValidation   `db:"mrz_validation" json:"mrz_validation"`
	RawText                   string          `db:"raw_text" json:"raw_text"`
	ExtractorModel            string          `db:"extractor_model" json:"extractor_model"`
	IsValid                   bool            `db:"is_valid" json:"is_valid"`
	MatchScore                int             `db:"match_score" json:"match_score"`
	Verdict                   json.RawMessage `db:"verdict" json:"verdict"`
	SourceBucket              string          `db:"source_bucket" json:"-"`
	SourceKey                 string          `db:"source_key" json:"-"`
	RequestedBy               *uuid.UUID      `db:"requested_by" json:"requested_by"`
	CreatedAt                 time.Time       `db:"created_at" json:"created_at"`
	SupersededAt              *time.Time      `db:"superseded_at" json:"superseded_at"`
	SupersededBy              *uuid.UUID      `db:"superseded_by" json:"superseded_by"`
}

// IsActive reports whether the attempt is the current one for its document.
func (a *ScanAttempt) IsActive() bool {
	return a.SupersededAt == nil
}

// Correction is one automatic or cross-source change applied to an extracted value.
type Correction struct {
	Field      string     `json:"field"`
	Before     string     `json:"before"`
	After      string     `json:"after"`
	Confidence Confidence `json:"confidence"`
	Reason     string     `json:"reason"`
}

// FieldComparison is the result of comparing one stored field to its extracted counterpart.
type FieldComparison struct {
	Field      string           `json:"field"`
	Expected   string           `json:"expected"`
	Extracted  string           `json:"extracted"`
	Matches    bool             `json:"matches"`
	Similarity *int             `json:"similarity,omitempty"`
	Status     ComparisonStatus `json:"status"`
	Critical   bool             `json:"critical"`
}

// VerdictNotice carries the payload for the external modal a verdict is routed to.
type VerdictNotice struct {
	Kind           NoticeKind   `json:"kind"`
	DocumentType   DocumentType `json:"document_type"`
	ExpectedName   string       `json:"expected_name,omitempty"`
	ExtractedName  string       `json:"extracted_name,omitempty"`
	Similarity     int          `json:"similarity,omitempty"`
	DocumentNumber string       `json:"document_number,omitempty"`
	ExpiryDate     *time.Time   `json:"expiry_date,omitempty"`
	DaysExpired    int          `json:"days_expired,omitempty"`
}

// VerificationVerdict is the outcome of verifying one scan against the record on file.
type VerificationVerdict struct {
	IsValid          bool              `json:"is_valid"`
	MatchScore       int               `json:"match_score"`
	Confidence       Confidence        `json:"confidence"`
	FieldComparisons []FieldComparison `json:"field_comparisons"`
	Warnings         []string          `json:"warnings"`
	CriticalFields   []string          `json:"critical_fields"`
	MismatchedFields []string          `json:"mismatched_fields"`
	Corrections      []Correction      `json:"corrections"`
	Reasoning        []string          `json:"reasoning"`
	CorrectedNumber  string            `json:"corrected_number,omitempty"`
	ExpiryState      ExpiryState       `json:"expiry_state"`
	Notice           *VerdictNotice    `json:"notice,omitempty"`
}

// Comparison returns the comparison for a field, or nil if it was not compared.
func (v *VerificationVerdict) Comparison(field string) *FieldComparison {
	for i := range v.FieldComparisons {
		if v.FieldComparisons[i].Field == field {
			return &v.FieldComparisons[i]
		}
	}
	return nil
}

// Principal is the authenticated caller of the HTTP surface.
type Principal struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   UserRole  `json:"role"`
}
