package validator

import (
	"seacrew/internal/domain"
	"seacrew/internal/validator/crewdoc"
)

// Expected is what the record on file says about a document.
type Expected struct {
	HolderName   string
	DocumentType domain.DocumentType
	Record       *domain.DocumentRecord
	// ManualNumber is an operator-entered document number, if any.
	ManualNumber string
}

// Input is the shared state handed to every comparator during one verification.
type Input struct {
	Expected     Expected
	Extracted    *domain.ExtractedFields
	Number       crewdoc.CorrectionResult
	Expiry       ExpiryClassification
	Dates        *crewdoc.DateNormalizer
	Names        *crewdoc.NameMatcher
	SentinelYear int
	// MRZHolderName is the name read from a checksum-valid MRZ, if any.
	MRZHolderName string
}

// Comparator checks one field of a scan against the record on file.
type Comparator interface {
	Field() string
	// Critical reports whether a mismatch on this field invalidates the verdict.
	Critical() bool
	// Compare returns false when the field is absent on either side.
	Compare(in *Input) (domain.FieldComparison, bool)
}
