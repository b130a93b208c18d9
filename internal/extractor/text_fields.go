package extractor

import (
	"regexp"
	"strings"

	"seacrew/internal/domain"
)

var (
	mrzLine     = regexp.MustCompile(`^[A-Z0-9<]{30,44}$`)
	numberLabel = regexp.MustCompile(`(?i)(?:passport|document|book|certificate|cdc)\s*(?:number|no|n°)\.?\s*[:.]?\s*([A-Z0-9]{5,12})\b`)
	issueLabel  = regexp.MustCompile(`(?i)date\s+of\s+issue\s*[:.]?\s*([0-9A-Z][0-9A-Z ./-]{5,14}[0-9])`)
	expiryLabel = regexp.MustCompile(`(?i)(?:date\s+of\s+expiry|valid\s+until|expiry\s+date)\s*[:.]?\s*([0-9A-Z][0-9A-Z ./-]{5,14}[0-9])`)
	nameLabel   = regexp.MustCompile(`(?i)(?:name\s+of\s+holder|holder'?s?\s+name|full\s+name)\s*[:.]?\s*([A-Z][A-Z .'-]{2,60})`)
	placeLabel  = regexp.MustCompile(`(?i)place\s+of\s+issue\s*[:.]?\s*([A-Z][A-Z .-]{1,40})`)
)

// FieldsFromText pulls labelled fields and MRZ lines out of plain OCR text.
// Fields that cannot be located are left empty.
func FieldsFromText(text string) domain.ExtractedFields {
	fields := domain.ExtractedFields{RawText: text}

	var mrz []string
	for _, line := range strings.Split(text, "\n") {
		compact := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(line), " ", ""))
		if strings.Contains(compact, "<") && mrzLine.MatchString(compact) {
			mrz = append(mrz, compact)
		}
	}
	fields.MRZValue = strings.Join(mrz, "\n")

	fields.DocumentNumber = firstGroup(numberLabel, text)
	fields.IssueDate = firstGroup(issueLabel, text)
	fields.ExpiryDate = firstGroup(expiryLabel, text)
	fields.HolderName = firstGroup(nameLabel, text)
	fields.IssuingAuthority = firstGroup(placeLabel, text)
	return fields
}

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	line := m[1]
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
