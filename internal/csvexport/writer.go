package csvexport

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"seacrew/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the scan-history header row.
var columns = []string{
	"Scan ID",
	"Scanned At",
	"Active",
	"Superseded At",
	"Superseded By",
	"Valid",
	"Match Score",
	"Confidence",
	"Expiry State",
	"Extracted Number",
	"Corrected Number",
	"Extracted Holder Name",
	"Extracted Issue Date",
	"Extracted Expiry Date",
	"Extracted Issuing Authority",
	"MRZ Present",
	"MRZ Valid",
	"Mismatched Fields",
	"Warnings",
	"OCR Confidence",
	"Extractor",
}

// Columns returns a copy of the header row.
func Columns() []string {
	return append([]string(nil), columns...)
}

// Writer wraps csv.Writer for exporting scan history as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteAttempts converts a batch of scan attempts to CSV rows and writes them.
func (w *Writer) WriteAttempts(attempts []domain.ScanAttempt) error {
	for i := range attempts {
		if err := w.csv.Write(attemptToRow(&attempts[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// attemptToRow converts one attempt to a row. Verdict columns stay empty when
// the stored verdict cannot be decoded.
func attemptToRow(a *domain.ScanAttempt) []string {
	row := make([]string, len(columns))
	row[0] = a.ID.String()
	row[1] = a.CreatedAt.UTC().Format(time.RFC3339)
	row[2] = formatBool(a.IsActive())
	row[3] = formatTime(a.SupersededAt)
	if a.SupersededBy != nil {
		row[4] = a.SupersededBy.String()
	}
	row[5] = formatBool(a.IsValid)
	row[6] = strconv.Itoa(a.MatchScore)
	row[9] = a.ExtractedNumber
	row[10] = a.CorrectedNumber
	row[11] = a.ExtractedHolderName
	row[12] = a.ExtractedIssueDate
	row[13] = a.ExtractedExpiryDate
	row[14] = a.ExtractedIssuingAuthority
	row[15] = formatBool(a.MRZValidation.Present)
	row[16] = formatBool(a.MRZValidation.IsValid)
	row[19] = strconv.FormatFloat(a.OCRConfidence, 'f', 2, 64)
	row[20] = a.ExtractorModel

	if len(a.Verdict) == 0 {
		return row
	}
	var v domain.VerificationVerdict
	if err := json.Unmarshal(a.Verdict, &v); err != nil {
		return row
	}
	row[7] = string(v.Confidence)
	row[8] = string(v.ExpiryState)
	row[17] = strings.Join(v.MismatchedFields, "; ")
	row[18] = strings.Join(v.Warnings, "; ")
	return row
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
