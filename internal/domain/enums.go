package domain

// FileType represents the allowed file types for a scanned document.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedContentTypes maps MIME content types to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to MIME content types.
var AllowedExtensions = map[string]string{
	"pdf":  "application/pdf",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

// DocumentType identifies the kind of crew document on file.
type DocumentType string

const (
	DocumentTypePassport DocumentType = "passport"
	DocumentTypeCDC      DocumentType = "cdc"
	DocumentTypeCOC      DocumentType = "coc"
	DocumentTypeMedical  DocumentType = "medical"
	DocumentTypeOther    DocumentType = "other"
)

// ValidDocumentTypes is the set of accepted document types.
var ValidDocumentTypes = map[DocumentType]bool{
	DocumentTypePassport: true,
	DocumentTypeCDC:      true,
	DocumentTypeCOC:      true,
	DocumentTypeMedical:  true,
	DocumentTypeOther:    true,
}

// SupportsMRZ reports whether documents of this type carry a machine-readable zone.
func (t DocumentType) SupportsMRZ() bool {
	return t == DocumentTypePassport || t == DocumentTypeCDC
}

// Label returns a human-readable name for the document type.
func (t DocumentType) Label() string {
	switch t {
	case DocumentTypePassport:
		return "Passport"
	case DocumentTypeCDC:
		return "Seaman's Book (CDC)"
	case DocumentTypeCOC:
		return "Certificate of Competency"
	case DocumentTypeMedical:
		return "Medical Certificate"
	default:
		return "Document"
	}
}

// Confidence is a coarse confidence tier attached to corrections and verdicts.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Rank orders confidence tiers so the weakest can be selected.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// NameMatchStatus is the classification tier of a holder-name comparison.
type NameMatchStatus string

const (
	NameMatchStatusMatch    NameMatchStatus = "match"
	NameMatchStatusWarning  NameMatchStatus = "warning"
	NameMatchStatusMismatch NameMatchStatus = "mismatch"
)

// Field names used in comparisons and corrections.
const (
	FieldDocumentNumber   = "documentNumber"
	FieldIssueDate        = "issueDate"
	FieldExpiryDate       = "expiryDate"
	FieldHolderName       = "holderName"
	FieldIssuingAuthority = "issuingAuthority"
)

// CriticalFields are the fields whose mismatch alone invalidates a verdict.
// holderName is critical only at the mismatch tier.
var CriticalFields = []string{FieldDocumentNumber, FieldExpiryDate}

// ComparisonStatus describes the outcome of a single field comparison.
type ComparisonStatus string

const (
	ComparisonMatch       ComparisonStatus = "match"
	ComparisonWarning     ComparisonStatus = "warning"
	ComparisonMismatch    ComparisonStatus = "mismatch"
	ComparisonUnparseable ComparisonStatus = "unparseable"
)

// ExpiryState classifies a document's expiry date relative to today.
type ExpiryState string

const (
	ExpiryStateValid       ExpiryState = "valid"
	ExpiryStateExpired     ExpiryState = "expired"
	ExpiryStateToBeDecided ExpiryState = "to_be_decided"
)

// NoticeKind names the external consumer a verdict is routed to.
type NoticeKind string

const (
	NoticeOwnerMismatch     NoticeKind = "owner_mismatch"
	NoticeExpired           NoticeKind = "expired"
	NoticeExpiryToBeDecided NoticeKind = "expiry_to_be_decided"
)

// FieldValidationStatus is the per-field state shown to reviewers.
type FieldValidationStatus string

const (
	FieldStatusValid   FieldValidationStatus = "valid"
	FieldStatusUnsure  FieldValidationStatus = "unsure"
	FieldStatusInvalid FieldValidationStatus = "invalid"
)

// UserRole represents the role of an authenticated operator.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleOperator UserRole = "operator"
	RoleViewer   UserRole = "viewer"
)
