package ai

import (
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/baishi/assets"
	"github.com/doeshing/baishi/internal/domain"
)

type catalogFile struct {
	Providers domain.ProviderCatalog `yaml:"providers"`
}

var loadDefaultCatalog = sync.OnceValues(func() (domain.ProviderCatalog, error) {
	return ParseCatalog(assets.DefaultProvidersYAML)
})

// DefaultCatalog returns the provider catalog embedded in the binary.
func DefaultCatalog() (domain.ProviderCatalog, error) {
	return loadDefaultCatalog()
}

// ParseCatalog decodes a catalog document and rejects unknown provider ids.
func ParseCatalog(data []byte) (domain.ProviderCatalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse provider catalog: %w", err)
	}
	for _, d := range file.Providers {
		if !d.ID.Valid() {
			return nil, fmt.Errorf("parse provider catalog: unknown provider %q", d.ID)
		}
		if d.DefaultModel == "" {
			return nil, fmt.Errorf("parse provider catalog: %s has no default model", d.ID)
		}
	}
	return file.Providers, nil
}
