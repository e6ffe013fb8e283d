package assets

import (
	_ "embed"
)

// DefaultProvidersYAML contains the embedded provider catalog.
//
//go:embed defaults/providers.yaml
var DefaultProvidersYAML []byte
