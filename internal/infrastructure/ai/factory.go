// Package ai turns a configuration into one of the supported HTTP backends.
//
// Every backend shares httpProvider; the wire differences (endpoint shape,
// auth headers, request and response bodies) live in a providerAdapter.
package ai

import (
	"net/http"

	"github.com/doeshing/baishi/internal/domain"
	"github.com/doeshing/baishi/internal/ports"
)

// Factory creates provider instances sharing a single HTTP client.
type Factory struct {
	httpClient *http.Client
	catalog    domain.ProviderCatalog
	endpoints  map[domain.ProviderID]string
}

// Option customizes a Factory.
type Option func(*Factory)

// WithHTTPClient replaces the shared HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Factory) { f.httpClient = client }
}

// WithEndpoint points a provider at a different base URL.
func WithEndpoint(id domain.ProviderID, base string) Option {
	return func(f *Factory) { f.endpoints[id] = base }
}

// WithCatalog replaces the embedded provider catalog.
func WithCatalog(catalog domain.ProviderCatalog) Option {
	return func(f *Factory) { f.catalog = catalog }
}

// NewFactory creates a provider factory. The embedded catalog is used unless
// WithCatalog is given.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{
		httpClient: &http.Client{Timeout: domain.DefaultHTTPClientTimeout},
		endpoints:  map[domain.ProviderID]string{},
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.catalog == nil {
		if catalog, err := DefaultCatalog(); err == nil {
			f.catalog = catalog
		}
	}
	return f
}

// Catalog returns the descriptors the factory resolves defaults from.
func (f *Factory) Catalog() domain.ProviderCatalog {
	return f.catalog
}

// ForConfig builds the provider named by cfg.Provider. An unknown provider
// is a configuration error.
func (f *Factory) ForConfig(cfg domain.Config) (ports.Provider, error) {
	cfg = cfg.WithDefaults()

	var adapter providerAdapter
	switch cfg.Provider {
	case domain.ProviderOpenAI:
		adapter = openaiAdapter()
	case domain.ProviderGoogle:
		adapter = googleAdapter()
	case domain.ProviderAnthropic:
		adapter = anthropicAdapter()
	case domain.ProviderOllama:
		adapter = ollamaAdapter()
	case domain.ProviderOpenRouter:
		adapter = openRouterAdapter()
	default:
		return nil, domain.NewConfigurationError("Unknown provider: %s", cfg.Provider)
	}

	desc, ok := f.catalog.Lookup(cfg.Provider)
	if !ok {
		desc = domain.ProviderDescriptor{ID: cfg.Provider, RequiresAPIKey: cfg.Provider != domain.ProviderOllama}
	}

	base := f.endpoints[cfg.Provider]
	if base == "" && cfg.Provider == domain.ProviderOllama {
		base = cfg.ResolvedOllamaHost()
	}

	return &httpProvider{
		id:          cfg.Provider,
		requiresKey: desc.RequiresAPIKey,
		apiKey:      cfg.CredentialFor(cfg.Provider),
		base:        valueOrDefault(base, adapter.defaultBase),
		gen: generation{
			Model:       valueOrDefault(cfg.Model, desc.DefaultModel),
			System:      valueOrDefault(cfg.SystemPrompt, DefaultSystemPrompt),
			Temperature: cfg.Temperature,
			MaxTokens:   valueOrDefaultInt(cfg.MaxTokens, domain.DefaultMaxTokens),
		},
		httpClient: f.httpClient,
		adapter:    adapter,
	}, nil
}

var _ ports.ProviderFactory = (*Factory)(nil)
