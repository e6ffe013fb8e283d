// Package domain defines core business entities and value objects for baishi.
//
// This file contains provider descriptors used by setup menus and the
// `models` command. The domain layer is independent of infrastructure
// concerns and represents pure data structures.
package domain

// ProviderDescriptor is static metadata about a backend.
type ProviderDescriptor struct {
	ID             ProviderID `yaml:"id"`
	Name           string     `yaml:"name"`
	Label          string     `yaml:"label"`
	RequiresAPIKey bool       `yaml:"requires_api_key"`
	DefaultModel   string     `yaml:"default_model"`
	Models         []string   `yaml:"models"`
}

// HasModel reports whether model is one of the descriptor's selectable models.
func (d ProviderDescriptor) HasModel(model string) bool {
	for _, m := range d.Models {
		if m == model {
			return true
		}
	}
	return false
}

// ProviderCatalog is the ordered list of known descriptors.
type ProviderCatalog []ProviderDescriptor

// Lookup finds the descriptor for id.
func (c ProviderCatalog) Lookup(id ProviderID) (ProviderDescriptor, bool) {
	for _, d := range c {
		if d.ID == id {
			return d, true
		}
	}
	return ProviderDescriptor{}, false
}
