package validator_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seacrew/internal/domain"
	"seacrew/internal/validator"
)

var fixedNow = time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func setupEngine() *validator.Engine {
	opts := validator.DefaultOptions()
	opts.Now = func() time.Time { return fixedNow }
	return validator.NewEngine(nil, opts)
}

func passportRecord() *domain.DocumentRecord {
	return &domain.DocumentRecord{
		ID:                 uuid.New(),
		Type:               domain.DocumentTypePassport,
		DocumentNumber:     "U2701560",
		IssuingAuthority:   "Mumbai",
		IssueDate:          date(2017, time.July, 4),
		ExpiryDate:         date(2027, time.July, 3),
		HolderCrewMemberID: uuid.New(),
	}
}

func expectedPassport() validator.Expected {
	return validator.Expected{
		HolderName:   "RAVI KUMAR",
		DocumentType: domain.DocumentTypePassport,
		Record:       passportRecord(),
	}
}

func cleanScan() *domain.ExtractedFields {
	return &domain.ExtractedFields{
		DocumentNumber:   "J2701560",
		IssueDate:        "04/07/2017",
		ExpiryDate:       "03 JUL 2027",
		HolderName:       "Ravi Kumar",
		IssuingAuthority: "PASSPORT OFFICE MUMBAI",
	}
}

func TestEngine_Verify_AllFieldsMatch(t *testing.T) {
	v := setupEngine().Verify(expectedPassport(), cleanScan(), "India")

	assert.True(t, v.IsValid)
	assert.Equal(t, 100, v.MatchScore)
	assert.Equal(t, domain.ConfidenceHigh, v.Confidence)
	assert.Equal(t, "U2701560", v.CorrectedNumber)
	assert.Equal(t, domain.ExpiryStateValid, v.ExpiryState)
	assert.Nil(t, v.Notice)
	assert.Empty(t, v.Warnings)
	assert.Empty(t, v.MismatchedFields)
	require.Len(t, v.Corrections, 1)
	assert.Equal(t, "J2701560", v.Corrections[0].Before)

	require.Len(t, v.FieldComparisons, 5)
	fields := make([]string, 0, len(v.FieldComparisons))
	for _, fc := range v.FieldComparisons {
		fields = append(fields, fc.Field)
		assert.True(t, fc.Matches, fc.Field)
		assert.Equal(t, domain.ComparisonMatch, fc.Status, fc.Field)
	}
	assert.Equal(t, []string{
		domain.FieldDocumentNumber,
		domain.FieldIssueDate,
		domain.FieldExpiryDate,
		domain.FieldHolderName,
		domain.FieldIssuingAuthority,
	}, fields)
	assert.ElementsMatch(t, []string{domain.FieldDocumentNumber, domain.FieldExpiryDate, domain.FieldHolderName}, v.CriticalFields)
}

func TestEngine_Verify_SentinelExpiryIsToBeDecided(t *testing.T) {
	scan := cleanScan()
	scan.ExpiryDate = "01-01-1899"

	v := setupEngine().Verify(expectedPassport(), scan, "India")

	assert.True(t, v.IsValid)
	assert.Equal(t, domain.ExpiryStateToBeDecided, v.ExpiryState)
	assert.Nil(t, v.Comparison(domain.FieldExpiryDate))
	assert.NotContains(t, v.MismatchedFields, domain.FieldExpiryDate)
	require.NotNil(t, v.Notice)
	assert.Equal(t, domain.NoticeExpiryToBeDecided, v.Notice.Kind)
	assert.Zero(t, v.Notice.DaysExpired)
	assert.Contains(t, v.Warnings, "expiry date is to be decided")
}

func TestEngine_Verify_SentinelStoredExpiryNotCompared(t *testing.T) {
	expected := expectedPassport()
	expected.Record.ExpiryDate = date(1900, time.January, 1)
	scan := cleanScan()
	scan.ExpiryDate = ""

	v := setupEngine().Verify(expected, scan, "India")

	assert.True(t, v.IsValid)
	assert.Equal(t, domain.ExpiryStateToBeDecided, v.ExpiryState)
	assert.Nil(t, v.Comparison(domain.FieldExpiryDate))
}

func TestEngine_Verify_Expired(t *testing.T) {
	expected := expectedPassport()
	expected.Record.ExpiryDate = date(2025, time.January, 1)
	scan := cleanScan()
	scan.ExpiryDate = "01-01-2025"

	v := setupEngine().Verify(expected, scan, "India")

	assert.False(t, v.IsValid)
	assert.Equal(t, domain.ExpiryStateExpired, v.ExpiryState)
	fc := v.Comparison(domain.FieldExpiryDate)
	require.NotNil(t, fc)
	assert.True(t, fc.Matches)
	require.NotNil(t, v.Notice)
	assert.Equal(t, domain.NoticeExpired, v.Notice.Kind)
	assert.Equal(t, 651, v.Notice.DaysExpired)
	assert.Equal(t, "U2701560", v.Notice.DocumentNumber)
	assert.Equal(t, domain.DocumentTypePassport, v.Notice.DocumentType)
}

func TestEngine_Verify_OwnerMismatch(t *testing.T) {
	scan := cleanScan()
	scan.HolderName = "Jane Doe"

	v := setupEngine().Verify(expectedPassport(), scan, "India")

	assert.False(t, v.IsValid)
	assert.Contains(t, v.MismatchedFields, domain.FieldHolderName)
	require.NotNil(t, v.Notice)
	assert.Equal(t, domain.NoticeOwnerMismatch, v.Notice.Kind)
	assert.Equal(t, "RAVI KUMAR", v.Notice.ExpectedName)
	assert.Equal(t, "Jane Doe", v.Notice.ExtractedName)
	assert.Equal(t, 20, v.Notice.Similarity)
}

func TestEngine_Verify_OwnerMismatchOutranksExpiry(t *testing.T) {
	expected := expectedPassport()
	expected.Record.ExpiryDate = date(2025, time.January, 1)
	scan := cleanScan()
	scan.ExpiryDate = "01-01-2025"
	scan.HolderName = "Jane Doe"

	v := setupEngine().Verify(expected, scan, "India")

	require.NotNil(t, v.Notice)
	assert.Equal(t, domain.NoticeOwnerMismatch, v.Notice.Kind)
	assert.Equal(t, domain.ExpiryStateExpired, v.ExpiryState)
}

func TestEngine_Verify_NameWarningIsNotCritical(t *testing.T) {
	scan := cleanScan()
	scan.HolderName = "RAVI KAMAL"

	v := setupEngine().Verify(expectedPassport(), scan, "India")

	assert.True(t, v.IsValid)
	fc := v.Comparison(domain.FieldHolderName)
	require.NotNil(t, fc)
	assert.Equal(t, domain.ComparisonWarning, fc.Status)
	assert.Equal(t, 80, *fc.Similarity)
	assert.Equal(t, domain.ConfidenceMedium, v.Confidence)
	assert.NotEmpty(t, v.Warnings)
	assert.Nil(t, v.Notice)
}

func TestEngine_Verify_DocumentNumberMismatch(t *testing.T) {
	scan := cleanScan()
	scan.DocumentNumber = "U9999999"

	v := setupEngine().Verify(expectedPassport(), scan, "India")

	assert.False(t, v.IsValid)
	assert.Contains(t, v.MismatchedFields, domain.FieldDocumentNumber)
	fc := v.Comparison(domain.FieldDocumentNumber)
	require.NotNil(t, fc)
	assert.True(t, fc.Critical)
	assert.Equal(t, 13, *fc.Similarity)
	assert.Nil(t, v.Notice)
}

func TestEngine_Verify_IssueDateMismatchIsWarning(t *testing.T) {
	scan := cleanScan()
	scan.IssueDate = "05/07/2017"

	v := setupEngine().Verify(expectedPassport(), scan, "India")

	assert.True(t, v.IsValid)
	assert.Contains(t, v.MismatchedFields, domain.FieldIssueDate)
	assert.Equal(t, 80, v.MatchScore)
	assert.NotEmpty(t, v.Warnings)
}

func TestEngine_Verify_AuthorityMismatchIsWarning(t *testing.T) {
	scan := cleanScan()
	scan.IssuingAuthority = "DELHI"

	v := setupEngine().Verify(expectedPassport(), scan, "India")

	assert.True(t, v.IsValid)
	fc := v.Comparison(domain.FieldIssuingAuthority)
	require.NotNil(t, fc)
	assert.False(t, fc.Critical)
	assert.Equal(t, domain.ComparisonMismatch, fc.Status)
	assert.Equal(t, 83, v.MatchScore)
	assert.Equal(t, domain.ConfidenceMedium, v.Confidence)
}

func TestEngine_Verify_LowScoreWarning(t *testing.T) {
	scan := cleanScan()
	scan.IssueDate = "05/07/2017"
	scan.IssuingAuthority = "DELHI"

	v := setupEngine().Verify(expectedPassport(), scan, "India")

	assert.True(t, v.IsValid)
	assert.Less(t, v.MatchScore, validator.DefaultLowScoreThreshold)
	assert.Contains(t, v.Warnings[len(v.Warnings)-1], "below 80")
}

func TestEngine_Verify_UnparseableExpiry(t *testing.T) {
	scan := cleanScan()
	scan.ExpiryDate = "XX-YY-2027"

	v := setupEngine().Verify(expectedPassport(), scan, "India")

	assert.True(t, v.IsValid)
	fc := v.Comparison(domain.FieldExpiryDate)
	require.NotNil(t, fc)
	assert.Equal(t, domain.ComparisonUnparseable, fc.Status)
	assert.Nil(t, fc.Similarity)
	assert.Equal(t, 100, v.MatchScore)
	assert.Equal(t, domain.ConfidenceLow, v.Confidence)
	assert.Equal(t, domain.ExpiryStateValid, v.ExpiryState)
}

func TestEngine_Verify_AbsentFieldsExcluded(t *testing.T) {
	scan := &domain.ExtractedFields{DocumentNumber: "U2701560", HolderName: "RAVI KUMAR"}

	v := setupEngine().Verify(expectedPassport(), scan, "")

	require.Len(t, v.FieldComparisons, 2)
	assert.Equal(t, 100, v.MatchScore)
	assert.True(t, v.IsValid)
}

func TestEngine_Verify_NothingComparableIsInvalid(t *testing.T) {
	v := setupEngine().Verify(validator.Expected{DocumentType: domain.DocumentTypeMedical}, nil, "")

	assert.False(t, v.IsValid)
	assert.Zero(t, v.MatchScore)
	assert.Equal(t, domain.ConfidenceLow, v.Confidence)
	assert.Contains(t, v.Warnings, "no fields could be compared with the record on file")
}

func TestEngine_Verify_UnmatchedFieldsOnlyIsInvalid(t *testing.T) {
	expected := expectedPassport()
	expected.Record.IssueDate = nil
	expected.Record.IssuingAuthority = ""
	scan := &domain.ExtractedFields{IssueDate: "04/07/2017", IssuingAuthority: "MUMBAI"}

	v := setupEngine().Verify(expected, scan, "India")

	assert.Empty(t, v.FieldComparisons)
	assert.False(t, v.IsValid)
	assert.Zero(t, v.MatchScore)
}

func TestEngine_Verify_MRZPrecedence(t *testing.T) {
	scan := cleanScan()
	scan.MRZValue = "U2701560"

	v := setupEngine().Verify(expectedPassport(), scan, "")

	assert.Equal(t, "U2701560", v.CorrectedNumber)
	assert.Equal(t, domain.ConfidenceHigh, v.Confidence)
	assert.True(t, v.IsValid)
}

const (
	specimenMRZ    = "P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<\nL898902C36UTO7408122F1204159ZE184226B<<<<<10"
	specimenBadMRZ = "P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<\nL898902C37UTO7408122F1204159ZE184226B<<<<<10"
)

func specimenExpected() validator.Expected {
	expected := expectedPassport()
	expected.HolderName = "ANNA MARIA ERIKSSON"
	expected.Record.DocumentNumber = "L898902C3"
	expected.Record.IssuingAuthority = ""
	return expected
}

func TestEngine_Verify_MRZNameFillsMissingHolderName(t *testing.T) {
	scan := &domain.ExtractedFields{MRZValue: specimenMRZ}

	v := setupEngine().Verify(specimenExpected(), scan, "")

	fc := v.Comparison(domain.FieldHolderName)
	require.NotNil(t, fc)
	assert.Equal(t, "ANNA MARIA ERIKSSON", fc.Extracted)
	assert.True(t, fc.Matches)
	assert.True(t, v.IsValid)
	assert.Equal(t, 100, v.MatchScore)
}

func TestEngine_Verify_OCRNameWinsOverMRZName(t *testing.T) {
	scan := &domain.ExtractedFields{MRZValue: specimenMRZ, HolderName: "Jane Doe"}

	v := setupEngine().Verify(specimenExpected(), scan, "")

	fc := v.Comparison(domain.FieldHolderName)
	require.NotNil(t, fc)
	assert.Equal(t, "Jane Doe", fc.Extracted)
	assert.False(t, v.IsValid)
}

func TestEngine_Verify_InvalidMRZNameNotUsed(t *testing.T) {
	scan := &domain.ExtractedFields{MRZValue: specimenBadMRZ, DocumentNumber: "L898902C3"}

	v := setupEngine().Verify(specimenExpected(), scan, "")

	assert.Nil(t, v.Comparison(domain.FieldHolderName))
}

func TestEngine_Evaluate_InvalidMRZIgnored(t *testing.T) {
	scan := cleanScan()
	scan.MRZValue = "P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<\nL898902C37UTO7408122F1204159ZE184226B<<<<<10"

	ev := setupEngine().Evaluate(expectedPassport(), scan, "India")

	assert.True(t, ev.MRZ.Validation.Present)
	assert.False(t, ev.MRZ.Validation.IsValid)
	assert.Equal(t, "U2701560", ev.Verdict.CorrectedNumber)
	assert.Contains(t, ev.Verdict.Warnings[0], "MRZ failed validation")
}

func TestEngine_Verify_ManualLeadMerge(t *testing.T) {
	expected := expectedPassport()
	expected.ManualNumber = "U2701560"
	scan := cleanScan()
	scan.DocumentNumber = "K2701560"

	v := setupEngine().Verify(expected, scan, "")

	assert.Equal(t, "U2701560", v.CorrectedNumber)
	assert.True(t, v.IsValid)
	require.Len(t, v.Corrections, 1)
}

func TestEngine_CustomRegistry(t *testing.T) {
	registry := validator.NewRegistry()
	for _, c := range validator.BuiltinComparators() {
		if c.Field() == domain.FieldHolderName {
			registry.Register(c)
		}
	}
	opts := validator.DefaultOptions()
	opts.Now = func() time.Time { return fixedNow }
	e := validator.NewEngine(registry, opts)

	v := e.Verify(expectedPassport(), cleanScan(), "India")
	require.Len(t, v.FieldComparisons, 1)
	assert.Equal(t, []string{domain.FieldHolderName}, v.CriticalFields)
}
