// Package tesseract extracts crew document fields locally with the Tesseract
// OCR engine. It reads images only and pulls fields out of the plain text by label.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"seacrew/internal/config"
	"seacrew/internal/extractor"
	"seacrew/internal/port"
)

const providerName = "tesseract"

// engine is the subset of gosseract.Client used here.
type engine interface {
	SetImageFromBytes(data []byte) error
	SetLanguage(langs ...string) error
	Text() (string, error)
	GetBoundingBoxes(level gosseract.PageIteratorLevel) ([]gosseract.BoundingBox, error)
	Close() error
}

// Extractor implements port.DocumentExtractor with gosseract.
type Extractor struct {
	languages []string
	newClient func() engine
}

// New creates a tesseract extractor. Languages default to English.
func New(cfg *config.ExtractorProviderConfig) *Extractor {
	langs := cfg.Languages
	if len(langs) == 0 {
		langs = []string{"eng"}
	}
	return &Extractor{
		languages: langs,
		newClient: func() engine { return gosseract.NewClient() },
	}
}

// Factory adapts New to extractor.ProviderFactory.
func Factory(cfg *config.ExtractorProviderConfig) (port.DocumentExtractor, error) {
	return New(cfg), nil
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	if input.ContentType != "image/jpeg" && input.ContentType != "image/png" {
		return nil, extractor.Failed(providerName, fmt.Errorf("unsupported content type for local OCR: %s", input.ContentType))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := e.newClient()
	defer func() { _ = c.Close() }()

	if err := c.SetImageFromBytes(input.FileBytes); err != nil {
		return nil, extractor.Failed(providerName, fmt.Errorf("set image: %w", err))
	}
	if err := c.SetLanguage(e.languages...); err != nil {
		return nil, extractor.Failed(providerName, fmt.Errorf("set languages: %w", err))
	}
	text, err := c.Text()
	if err != nil {
		return nil, extractor.Failed(providerName, fmt.Errorf("recognize text: %w", err))
	}

	fields := extractor.FieldsFromText(strings.TrimSpace(text))
	fields.Confidence = meanConfidence(c)
	return &port.ExtractOutput{Fields: fields, ModelUsed: "tesseract-" + strings.Join(e.languages, "+")}, nil
}

func meanConfidence(c engine) float64 {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence / 100.0
	}
	return sum / float64(len(boxes))
}
