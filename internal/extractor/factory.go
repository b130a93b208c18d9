package extractor

import (
	"fmt"
	"sync"

	"seacrew/internal/config"
	"seacrew/internal/port"
)

// ProviderFactory creates a DocumentExtractor from a provider config.
type ProviderFactory func(cfg *config.ExtractorProviderConfig) (port.DocumentExtractor, error)

var (
	providersMu sync.RWMutex
	providers   = map[string]ProviderFactory{}
)

// RegisterProvider registers an extraction provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[name] = factory
}

// NewExtractor creates a DocumentExtractor from a provider config using the registered factory.
func NewExtractor(cfg *config.ExtractorProviderConfig) (port.DocumentExtractor, error) {
	providersMu.RLock()
	factory, ok := providers[cfg.Provider]
	providersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown extractor provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// NewChain builds the configured providers into a FallbackExtractor.
// A single provider is returned as is.
func NewChain(cfg *config.ExtractorConfig) (port.DocumentExtractor, error) {
	chain := cfg.Chain()
	if len(chain) == 0 {
		return nil, fmt.Errorf("no extractor provider configured")
	}
	extractors := make([]port.DocumentExtractor, 0, len(chain))
	names := make([]string, 0, len(chain))
	for _, p := range chain {
		e, err := NewExtractor(p)
		if err != nil {
			return nil, fmt.Errorf("creating %s extractor: %w", p.Provider, err)
		}
		extractors = append(extractors, e)
		names = append(names, p.Provider)
	}
	if len(extractors) == 1 {
		return extractors[0], nil
	}
	return NewFallbackExtractor(extractors, names).WithMinConfidence(cfg.MinConfidence), nil
}
