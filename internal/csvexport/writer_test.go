package csvexport_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"seacrew/internal/csvexport"
	"seacrew/internal/domain"
)

func sampleAttempts(t *testing.T) []domain.ScanAttempt {
	t.Helper()
	verdict, err := json.Marshal(domain.VerificationVerdict{
		Confidence:       domain.ConfidenceMedium,
		ExpiryState:      domain.ExpiryStateExpired,
		MismatchedFields: []string{"expiryDate", "issuingAuthority"},
		Warnings:         []string{"document expired 651 days ago on 2025-01-01"},
	})
	require.NoError(t, err)

	newer := uuid.New()
	supersededAt := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	return []domain.ScanAttempt{
		{
			ID:              newer,
			CreatedAt:       supersededAt,
			IsValid:         true,
			MatchScore:      100,
			CorrectedNumber: "U2701560",
			Verdict:         json.RawMessage(`{"confidence":"high","expiry_state":"valid"}`),
			MRZValidation:   domain.MRZValidation{Present: true, IsValid: true},
		},
		{
			ID:              uuid.New(),
			CreatedAt:       supersededAt.Add(-time.Hour),
			SupersededAt:    &supersededAt,
			SupersededBy:    &newer,
			MatchScore:      63,
			ExtractedNumber: "J2701560",
			Verdict:         verdict,
			OCRConfidence:   0.9,
			ExtractorModel:  "gemini-2.0-flash",
		},
		{ID: uuid.New(), CreatedAt: supersededAt.Add(-2 * time.Hour), Verdict: json.RawMessage(`not json`)},
	}
}

func TestWriter_HeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	w := csvexport.NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteAttempts(sampleAttempts(t)))
	w.Flush()
	require.NoError(t, w.Error())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	header := rows[0]
	assert.Equal(t, "Scan ID", header[0])
	assert.Equal(t, "Extractor", header[len(header)-1])

	active := rows[1]
	assert.Equal(t, "Yes", active[2])
	assert.Empty(t, active[3])
	assert.Equal(t, "high", active[7])
	assert.Equal(t, "U2701560", active[10])
	assert.Equal(t, "Yes", active[16])

	old := rows[2]
	assert.Equal(t, "No", old[2])
	assert.Equal(t, "2026-10-14T09:00:00Z", old[3])
	assert.Equal(t, rows[1][0], old[4])
	assert.Equal(t, "expired", old[8])
	assert.Equal(t, "expiryDate; issuingAuthority", old[17])
	assert.Equal(t, "0.90", old[19])

	broken := rows[3]
	assert.Empty(t, broken[7])
	assert.Equal(t, "0", broken[6])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, csvexport.WriteXLSX(&buf, sampleAttempts(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Scan History")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, csvexport.Columns(), rows[0])
	assert.Equal(t, "U2701560", rows[1][10])
}
