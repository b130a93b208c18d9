package scancheck_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seacrew/internal/domain"
	"seacrew/internal/scancheck"
	"seacrew/internal/validator"
)

const caseFile = `
cases:
  - name: clean passport
    nationality: India
    want_valid: true
    record:
      holder_name: RAVI KUMAR
      document_number: U2701560
      issue_date: 04/07/2017
      expiry_date: 2027-07-03
    scan:
      document_number: J2701560
      issue_date: 04/07/2017
      expiry_date: 03 JUL 2027
      holder_name: RAVI KUMAR
      confidence: 0.93
  - name: someone else
    want_valid: true
    record:
      holder_name: RAVI KUMAR
      document_number: U2701560
      expiry_date: 2027-07-03
    scan:
      document_number: U2701560
      expiry_date: 03 JUL 2027
      holder_name: JOHN SMITH
  - name: bad record date
    document_type: cdc
    record:
      holder_name: RAVI KUMAR
      expiry_date: someday
`

func testEngine() *validator.Engine {
	opts := validator.DefaultOptions()
	opts.Now = func() time.Time { return time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC) }
	return validator.NewEngine(nil, opts)
}

func TestParseCases(t *testing.T) {
	cases, err := scancheck.ParseCases([]byte(caseFile))
	require.NoError(t, err)
	require.Len(t, cases, 3)
	assert.Equal(t, domain.DocumentTypePassport, cases[0].DocumentType)
	assert.Equal(t, domain.DocumentTypeCDC, cases[2].DocumentType)
	require.NotNil(t, cases[0].WantValid)
	assert.True(t, *cases[0].WantValid)
	assert.Nil(t, cases[2].WantValid)
}

func TestParseCases_Rejects(t *testing.T) {
	_, err := scancheck.ParseCases([]byte("cases:\n  - document_type: visa\n"))
	assert.ErrorContains(t, err, "case 1")

	_, err = scancheck.ParseCases([]byte("cases: [unterminated"))
	assert.Error(t, err)
}

func TestRunAndPrint(t *testing.T) {
	cases, err := scancheck.ParseCases([]byte(caseFile))
	require.NoError(t, err)

	outcomes := scancheck.Run(testEngine(), cases)
	require.Len(t, outcomes, 3)

	assert.NoError(t, outcomes[0].Err)
	assert.True(t, outcomes[0].Verdict.IsValid)
	assert.Equal(t, "U2701560", outcomes[0].Verdict.CorrectedNumber)
	assert.False(t, outcomes[0].Failed())

	assert.False(t, outcomes[1].Verdict.IsValid)
	assert.True(t, outcomes[1].Failed())

	assert.ErrorContains(t, outcomes[2].Err, "someday")

	var buf bytes.Buffer
	p := scancheck.NewPrinter(&buf, true, true)
	for i := range outcomes {
		p.Print(&outcomes[i])
	}
	assert.False(t, p.Summary(outcomes))

	out := buf.String()
	assert.Contains(t, out, "VALID  clean passport")
	assert.Contains(t, out, "FAIL   someone else")
	assert.Contains(t, out, "ERROR  bad record date")
	assert.Contains(t, out, "3 cases, 1 valid, 2 need review, 2 failed")
}
