package port

import (
	"context"

	"seacrew/internal/domain"
)

// ExtractInput carries the scanned image handed to an extractor.
type ExtractInput struct {
	FileBytes    []byte
	ContentType  string
	DocumentType domain.DocumentType
}

// ExtractOutput contains the fields read from one scan.
type ExtractOutput struct {
	Fields    domain.ExtractedFields
	ModelUsed string
}

// DocumentExtractor abstracts the OCR / vision extraction collaborator.
type DocumentExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
