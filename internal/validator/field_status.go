package validator

import (
	"fmt"

	"seacrew/internal/domain"
)

// FieldStatus represents the computed validation state for a single field.
type FieldStatus struct {
	Status   domain.FieldValidationStatus `json:"status"`
	Messages []string                     `json:"messages"`
}

// ComputeFieldStatuses derives per-field UI statuses from a verdict.
// Critical mismatches are invalid; warnings, non-critical mismatches, unreadable
// values and uncertain corrections are unsure.
func ComputeFieldStatuses(v *domain.VerificationVerdict) map[string]*FieldStatus {
	statuses := make(map[string]*FieldStatus, len(v.FieldComparisons))
	get := func(field string) *FieldStatus {
		fs, ok := statuses[field]
		if !ok {
			fs = &FieldStatus{Status: domain.FieldStatusValid, Messages: []string{}}
			statuses[field] = fs
		}
		return fs
	}

	for _, fc := range v.FieldComparisons {
		fs := get(fc.Field)
		switch fc.Status {
		case domain.ComparisonMismatch:
			if fc.Critical {
				fs.Status = domain.FieldStatusInvalid
			} else {
				markUnsure(fs)
			}
			fs.Messages = append(fs.Messages, fmt.Sprintf("expected %q, scanned %q", fc.Expected, fc.Extracted))
		case domain.ComparisonWarning:
			markUnsure(fs)
			fs.Messages = append(fs.Messages, fmt.Sprintf("similarity %d requires review", *fc.Similarity))
		case domain.ComparisonUnparseable:
			markUnsure(fs)
			fs.Messages = append(fs.Messages, fmt.Sprintf("could not read %q", fc.Extracted))
		}
	}

	for _, c := range v.Corrections {
		fs := get(c.Field)
		if c.Confidence != domain.ConfidenceHigh {
			markUnsure(fs)
		}
		fs.Messages = append(fs.Messages, c.Reason)
	}

	if v.ExpiryState == domain.ExpiryStateExpired {
		fs := get(domain.FieldExpiryDate)
		fs.Status = domain.FieldStatusInvalid
		fs.Messages = append(fs.Messages, "document has expired")
	}
	return statuses
}

func markUnsure(fs *FieldStatus) {
	if fs.Status != domain.FieldStatusInvalid {
		fs.Status = domain.FieldStatusUnsure
	}
}
