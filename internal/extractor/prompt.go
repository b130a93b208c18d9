package extractor

import "seacrew/internal/domain"

// BuildCrewDocumentPrompt returns the extraction prompt for a scanned crew document.
func BuildCrewDocumentPrompt(docType domain.DocumentType) string {
	prompt := `You are reading a scanned ` + docType.Label() + ` belonging to a ship's crew member. Extract the printed fields into the JSON object below.

IMPORTANT INSTRUCTIONS:
- Copy values exactly as printed. Do not correct spelling, reformat dates or guess missing characters.
- Dates stay in the format printed on the document (e.g. "03 JUL 2027", "04/07/2017").
- holder_name is the full name of the holder in the order printed (given names then surname if both are printed together).
- issuing_authority is the office, place or authority of issue.
- If a field is not present, use an empty string.
- confidence is your overall confidence in the readout, between 0.0 and 1.0.`

	if docType.SupportsMRZ() {
		prompt += `
- mrz holds the machine-readable zone lines at the bottom of the page, joined with "\n", with every "<" preserved. Use an empty string if there is no MRZ.`
	}

	return prompt + `

Return ONLY valid JSON with no markdown formatting and no explanation:
{
  "document_number": "",
  "issue_date": "",
  "expiry_date": "",
  "holder_name": "",
  "issuing_authority": "",
  "mrz": "",
  "raw_text": "",
  "confidence": 0.0
}`
}
