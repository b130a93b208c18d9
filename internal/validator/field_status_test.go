package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seacrew/internal/domain"
	"seacrew/internal/validator"
)

func TestComputeFieldStatuses_AllValid(t *testing.T) {
	v := setupEngine().Verify(expectedPassport(), cleanScan(), "India")

	statuses := validator.ComputeFieldStatuses(&v)

	for _, field := range []string{domain.FieldIssueDate, domain.FieldExpiryDate, domain.FieldHolderName} {
		require.Contains(t, statuses, field)
		assert.Equal(t, domain.FieldStatusValid, statuses[field].Status, field)
		assert.Empty(t, statuses[field].Messages)
	}
	// The J -> U correction is high confidence, so the field stays valid with an explanation.
	assert.Equal(t, domain.FieldStatusValid, statuses[domain.FieldDocumentNumber].Status)
	assert.Len(t, statuses[domain.FieldDocumentNumber].Messages, 1)
}

func TestComputeFieldStatuses_CriticalMismatchInvalid(t *testing.T) {
	scan := cleanScan()
	scan.HolderName = "Jane Doe"
	v := setupEngine().Verify(expectedPassport(), scan, "India")

	statuses := validator.ComputeFieldStatuses(&v)

	assert.Equal(t, domain.FieldStatusInvalid, statuses[domain.FieldHolderName].Status)
	assert.NotEmpty(t, statuses[domain.FieldHolderName].Messages)
}

func TestComputeFieldStatuses_WarningsUnsure(t *testing.T) {
	scan := cleanScan()
	scan.HolderName = "RAVI KAMAL"
	scan.IssuingAuthority = "DELHI"
	scan.ExpiryDate = "XX-YY-2027"
	v := setupEngine().Verify(expectedPassport(), scan, "India")

	statuses := validator.ComputeFieldStatuses(&v)

	assert.Equal(t, domain.FieldStatusUnsure, statuses[domain.FieldHolderName].Status)
	assert.Equal(t, domain.FieldStatusUnsure, statuses[domain.FieldIssuingAuthority].Status)
	assert.Equal(t, domain.FieldStatusUnsure, statuses[domain.FieldExpiryDate].Status)
}

func TestComputeFieldStatuses_MediumCorrectionUnsure(t *testing.T) {
	scan := cleanScan()
	scan.DocumentNumber = "I2701560"
	v := setupEngine().Verify(expectedPassport(), scan, "India")

	statuses := validator.ComputeFieldStatuses(&v)

	assert.Equal(t, domain.FieldStatusUnsure, statuses[domain.FieldDocumentNumber].Status)
}

func TestComputeFieldStatuses_ExpiredInvalid(t *testing.T) {
	expected := expectedPassport()
	expected.Record.ExpiryDate = date(2025, 1, 1)
	scan := cleanScan()
	scan.ExpiryDate = "2025-01-01"
	v := setupEngine().Verify(expected, scan, "India")

	statuses := validator.ComputeFieldStatuses(&v)

	assert.Equal(t, domain.FieldStatusInvalid, statuses[domain.FieldExpiryDate].Status)
	assert.Contains(t, statuses[domain.FieldExpiryDate].Messages, "document has expired")
}
