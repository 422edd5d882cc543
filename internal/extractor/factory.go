package extractor

import (
	"fmt"

	"invparser/internal/config"
	"invparser/internal/port"
)

// ProviderFactory is a function that creates an InvoiceExtractor from the
// extractor config.
type ProviderFactory func(cfg *config.ExtractorConfig) (port.InvoiceExtractor, error)

// registry of extractor provider factories, populated by init() in each
// provider package or explicitly via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an extractor provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewExtractor creates an InvoiceExtractor using the registered factory for
// the configured provider. An unknown provider name is a startup error.
func NewExtractor(cfg *config.ExtractorConfig) (port.InvoiceExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown extractor provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
