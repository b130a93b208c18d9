package crewdoc

import (
	"fmt"
	"strings"
	"unicode"

	"seacrew/internal/domain"
)

// CorrectionResult is the outcome of repairing one document number.
type CorrectionResult struct {
	Original    string              `json:"original"`
	Corrected   string              `json:"corrected"`
	Confidence  domain.Confidence   `json:"confidence"`
	Corrections []domain.Correction `json:"corrections"`
	Reasoning   []string            `json:"reasoning"`
}

func (r *CorrectionResult) record(c domain.Correction) {
	r.Corrections = append(r.Corrections, c)
	r.Reasoning = append(r.Reasoning, c.Reason)
}

// NumberSources are the independent readings of one document number.
type NumberSources struct {
	OCR          string
	MRZ          string
	Manual       string
	Nationality  string
	DocumentType domain.DocumentType
}

// Corrector repairs OCR confusions in structured document numbers.
type Corrector struct {
	rules *RuleTable
}

// NewCorrector creates a Corrector. A nil table selects DefaultRuleTable.
func NewCorrector(rules *RuleTable) *Corrector {
	if rules == nil {
		rules = DefaultRuleTable()
	}
	return &Corrector{rules: rules}
}

// CleanNumber strips everything but letters and digits and uppercases the result.
func CleanNumber(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

func isMissingNumber(raw string) bool {
	s := strings.TrimSpace(raw)
	return s == "" || strings.EqualFold(s, "NONE")
}

// Correct repairs rawNumber using the rules for nationality, for a document of unknown type.
func (c *Corrector) Correct(rawNumber, nationality string) CorrectionResult {
	return c.CorrectFor(rawNumber, nationality, "")
}

// CorrectFor repairs rawNumber using the rules for nationality and docType.
func (c *Corrector) CorrectFor(rawNumber, nationality string, docType domain.DocumentType) CorrectionResult {
	res := CorrectionResult{
		Original:    rawNumber,
		Confidence:  domain.ConfidenceHigh,
		Corrections: []domain.Correction{},
		Reasoning:   []string{},
	}
	if isMissingNumber(rawNumber) {
		res.Confidence = domain.ConfidenceLow
		res.Reasoning = append(res.Reasoning, "no document number was extracted; no correction attempted")
		return res
	}

	cleaned := CleanNumber(rawNumber)
	res.Corrected = cleaned
	if cleaned == "" {
		res.Confidence = domain.ConfidenceLow
		res.Reasoning = append(res.Reasoning, "extracted document number contains no letters or digits")
		return res
	}
	if cleaned != rawNumber {
		res.Reasoning = append(res.Reasoning, fmt.Sprintf("normalized %q to %q", rawNumber, cleaned))
	}

	for i := range c.rules.NationalityRules {
		rule := &c.rules.NationalityRules[i]
		if !rule.appliesToNationality(nationality) || !rule.appliesToType(docType) {
			continue
		}
		if sub, ok := rule.apply(cleaned); ok {
			applySubstitution(&res, rule.Name, sub)
			return res
		}
	}

	for i := range c.rules.GeneralRules {
		rule := &c.rules.GeneralRules[i]
		if !rule.appliesToType(docType) {
			continue
		}
		if sub, ok := rule.apply(cleaned); ok {
			applySubstitution(&res, rule.Name, sub)
			return res
		}
	}
	return res
}

func applySubstitution(res *CorrectionResult, ruleName string, sub LeadingSubstitution) {
	before := res.Corrected
	after := sub.To + before[len(sub.From):]
	res.Corrected = after
	res.Confidence = sub.Confidence
	res.record(domain.Correction{
		Field:      domain.FieldDocumentNumber,
		Before:     before,
		After:      after,
		Confidence: sub.Confidence,
		Reason:     fmt.Sprintf("%s: %s -> %s (%s)", ruleName, sub.From, sub.To, sub.Reason),
	})
}

// ValidateWithContext reconciles the OCR number with the MRZ and a manual entry.
// The corrected OCR value is the starting point; a present MRZ value wins outright;
// a manual entry that differs only in the leading character contributes that character.
func (c *Corrector) ValidateWithContext(src NumberSources) CorrectionResult {
	res := c.CorrectFor(src.OCR, src.Nationality, src.DocumentType)

	mrz := CleanNumber(src.MRZ)
	if mrz != "" {
		if mrz != res.Corrected {
			res.record(domain.Correction{
				Field:      domain.FieldDocumentNumber,
				Before:     res.Corrected,
				After:      mrz,
				Confidence: domain.ConfidenceHigh,
				Reason:     fmt.Sprintf("MRZ value %s overrides OCR value %q: MRZ is checksum protected", mrz, res.Corrected),
			})
			res.Corrected = mrz
		} else {
			res.Reasoning = append(res.Reasoning, fmt.Sprintf("MRZ value %s confirms the corrected number", mrz))
		}
		res.Confidence = domain.ConfidenceHigh
	}

	manual := CleanNumber(src.Manual)
	if manual == "" || manual == res.Corrected {
		return res
	}
	if mrz != "" {
		res.Reasoning = append(res.Reasoning, fmt.Sprintf("manual entry %s ignored: MRZ value takes precedence", manual))
		return res
	}
	if differsOnlyInLead(manual, res.Corrected) {
		merged := manual[:1] + res.Corrected[1:]
		res.record(domain.Correction{
			Field:      domain.FieldDocumentNumber,
			Before:     res.Corrected,
			After:      merged,
			Confidence: domain.ConfidenceHigh,
			Reason:     fmt.Sprintf("manual entry %s differs only in the leading character; trusting %s", manual, manual[:1]),
		})
		res.Corrected = merged
		res.Confidence = domain.ConfidenceHigh
		return res
	}
	res.Reasoning = append(res.Reasoning, fmt.Sprintf("manual entry %s differs from %s beyond the leading character; not merged", manual, res.Corrected))
	return res
}

func differsOnlyInLead(a, b string) bool {
	return len(a) == len(b) && len(a) > 1 && a[0] != b[0] && a[1:] == b[1:]
}
