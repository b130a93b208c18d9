package validator

import (
	"strings"
	"time"

	"seacrew/internal/domain"
	"seacrew/internal/validator/crewdoc"
)

const dateLayout = "2006-01-02"

// BuiltinComparators returns the standard comparators in report order.
func BuiltinComparators() []Comparator {
	return []Comparator{
		documentNumberComparator{},
		&dateComparator{
			field:     domain.FieldIssueDate,
			stored:    func(r *domain.DocumentRecord) *time.Time { return r.IssueDate },
			extracted: func(e *domain.ExtractedFields) string { return e.IssueDate },
		},
		&dateComparator{
			field:     domain.FieldExpiryDate,
			critical:  true,
			sentinel:  true,
			stored:    func(r *domain.DocumentRecord) *time.Time { return r.ExpiryDate },
			extracted: func(e *domain.ExtractedFields) string { return e.ExpiryDate },
		},
		holderNameComparator{},
		issuingAuthorityComparator{},
	}
}

func intPtr(v int) *int { return &v }

type documentNumberComparator struct{}

func (documentNumberComparator) Field() string  { return domain.FieldDocumentNumber }
func (documentNumberComparator) Critical() bool { return true }

func (c documentNumberComparator) Compare(in *Input) (domain.FieldComparison, bool) {
	if in.Expected.Record == nil {
		return domain.FieldComparison{}, false
	}
	stored := crewdoc.CleanNumber(in.Expected.Record.DocumentNumber)
	corrected := in.Number.Corrected
	if stored == "" || corrected == "" {
		return domain.FieldComparison{}, false
	}

	fc := domain.FieldComparison{
		Field:     c.Field(),
		Expected:  in.Expected.Record.DocumentNumber,
		Extracted: corrected,
		Critical:  true,
	}
	if stored == corrected {
		fc.Matches = true
		fc.Similarity = intPtr(100)
		fc.Status = domain.ComparisonMatch
		return fc, true
	}
	fc.Similarity = intPtr(crewdoc.Similarity(stored, corrected))
	fc.Status = domain.ComparisonMismatch
	return fc, true
}

// dateComparator compares a stored date with a scanned one by calendar day.
type dateComparator struct {
	field    string
	critical bool
	// sentinel skips placeholder dates on either side.
	sentinel  bool
	stored    func(*domain.DocumentRecord) *time.Time
	extracted func(*domain.ExtractedFields) string
}

func (c *dateComparator) Field() string  { return c.field }
func (c *dateComparator) Critical() bool { return c.critical }

func (c *dateComparator) Compare(in *Input) (domain.FieldComparison, bool) {
	if in.Expected.Record == nil || in.Extracted == nil {
		return domain.FieldComparison{}, false
	}
	stored := c.stored(in.Expected.Record)
	raw := strings.TrimSpace(c.extracted(in.Extracted))
	if stored == nil || stored.IsZero() || raw == "" {
		return domain.FieldComparison{}, false
	}
	if c.sentinel && IsSentinelDate(*stored, in.SentinelYear) {
		return domain.FieldComparison{}, false
	}

	fc := domain.FieldComparison{
		Field:     c.field,
		Expected:  stored.Format(dateLayout),
		Extracted: raw,
		Critical:  c.critical,
	}
	scanned, ok := in.Dates.ParseDate(raw)
	if !ok {
		fc.Status = domain.ComparisonUnparseable
		return fc, true
	}
	if c.sentinel && IsSentinelDate(scanned, in.SentinelYear) {
		return domain.FieldComparison{}, false
	}
	if crewdoc.SameCalendarDay(*stored, scanned) {
		fc.Matches = true
		fc.Similarity = intPtr(100)
		fc.Status = domain.ComparisonMatch
		return fc, true
	}
	fc.Similarity = intPtr(0)
	fc.Status = domain.ComparisonMismatch
	return fc, true
}

type holderNameComparator struct{}

func (holderNameComparator) Field() string  { return domain.FieldHolderName }
func (holderNameComparator) Critical() bool { return true }

func (c holderNameComparator) Compare(in *Input) (domain.FieldComparison, bool) {
	if in.Extracted == nil {
		return domain.FieldComparison{}, false
	}
	expected := strings.TrimSpace(in.Expected.HolderName)
	extracted := strings.TrimSpace(in.Extracted.HolderName)
	if extracted == "" {
		extracted = in.MRZHolderName
	}
	if expected == "" || extracted == "" {
		return domain.FieldComparison{}, false
	}

	v := in.Names.Validate(expected, extracted)
	fc := domain.FieldComparison{
		Field:      c.Field(),
		Expected:   expected,
		Extracted:  extracted,
		Matches:    v.IsValid,
		Similarity: intPtr(v.Similarity),
		Critical:   true,
	}
	switch v.Status {
	case domain.NameMatchStatusMatch:
		fc.Status = domain.ComparisonMatch
	case domain.NameMatchStatusWarning:
		fc.Status = domain.ComparisonWarning
	default:
		fc.Status = domain.ComparisonMismatch
	}
	return fc, true
}

// issuingAuthorityComparator accepts containment either way or a name-level match.
type issuingAuthorityComparator struct{}

func (issuingAuthorityComparator) Field() string  { return domain.FieldIssuingAuthority }
func (issuingAuthorityComparator) Critical() bool { return false }

func (c issuingAuthorityComparator) Compare(in *Input) (domain.FieldComparison, bool) {
	if in.Expected.Record == nil || in.Extracted == nil {
		return domain.FieldComparison{}, false
	}
	stored := strings.TrimSpace(in.Expected.Record.IssuingAuthority)
	extracted := strings.TrimSpace(in.Extracted.IssuingAuthority)
	if stored == "" || extracted == "" {
		return domain.FieldComparison{}, false
	}

	fc := domain.FieldComparison{
		Field:     c.Field(),
		Expected:  stored,
		Extracted: extracted,
	}
	a, b := crewdoc.NormalizeName(stored), crewdoc.NormalizeName(extracted)
	if a != "" && b != "" && (strings.Contains(a, b) || strings.Contains(b, a)) {
		fc.Matches = true
		fc.Similarity = intPtr(100)
		fc.Status = domain.ComparisonMatch
		return fc, true
	}
	v := in.Names.Validate(stored, extracted)
	fc.Similarity = intPtr(v.Similarity)
	if v.IsValid {
		fc.Matches = true
		fc.Status = domain.ComparisonMatch
	} else {
		fc.Status = domain.ComparisonMismatch
	}
	return fc, true
}
