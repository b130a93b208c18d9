package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"seacrew/internal/domain"
)

// DecodeFields decodes the JSON object a vision model returned for a document.
// Surrounding prose or markdown fences are tolerated.
func DecodeFields(text string) (domain.ExtractedFields, error) {
	var fields domain.ExtractedFields
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return fields, fmt.Errorf("no JSON object in model output (raw: %s)", Truncate(text, 500))
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &fields); err != nil {
		return fields, fmt.Errorf("parsing model JSON output: %w (raw: %s)", err, Truncate(text, 500))
	}
	fields.DocumentNumber = strings.TrimSpace(fields.DocumentNumber)
	fields.HolderName = strings.TrimSpace(fields.HolderName)
	fields.IssuingAuthority = strings.TrimSpace(fields.IssuingAuthority)
	fields.MRZValue = strings.TrimSpace(fields.MRZValue)
	if fields.Confidence < 0 {
		fields.Confidence = 0
	}
	if fields.Confidence > 1 {
		fields.Confidence = 1
	}
	return fields, nil
}

// Truncate shortens s to maxLen bytes for log and error output.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
