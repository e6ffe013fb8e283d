package domain

import "strings"

// WithDefaults fills every unset or out-of-range field from DefaultConfig.
// Booleans are left alone because false is a meaningful value.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.Provider == "" {
		c.Provider = def.Provider
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = def.HistoryLimit
	}
	switch strings.ToLower(c.HistoryBackend) {
	case HistoryBackendJSON, HistoryBackendSQLite:
		c.HistoryBackend = strings.ToLower(c.HistoryBackend)
	default:
		c.HistoryBackend = def.HistoryBackend
	}
	if c.DefaultShell == "" {
		c.DefaultShell = def.DefaultShell
	}
	if c.TimeoutMS <= 0 {
		c.TimeoutMS = def.TimeoutMS
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		c.Temperature = def.Temperature
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = def.MaxTokens
	}
	return c
}

// ApplyRequest returns a copy with the per-invocation overrides applied.
func (c Config) ApplyRequest(req QueryRequest) Config {
	if req.ProviderOverride != "" {
		c.Provider = req.ProviderOverride
	}
	if req.ModelOverride != "" {
		c.Model = req.ModelOverride
	}
	return c
}

// CredentialFor returns the key the given provider would authenticate with.
func (c Config) CredentialFor(id ProviderID) string {
	switch id {
	case ProviderOllama:
		return ""
	case ProviderOpenRouter:
		if c.OpenRouterAPIKey != "" {
			return c.OpenRouterAPIKey
		}
		return c.APIKey
	default:
		return c.APIKey
	}
}

// ResolvedOllamaHost returns the configured daemon URL without a trailing slash.
func (c Config) ResolvedOllamaHost() string {
	host := strings.TrimSpace(c.OllamaHost)
	if host == "" {
		host = DefaultOllamaHost
	}
	return strings.TrimRight(host, "/")
}

// ShouldFormat decides whether command output goes through the formatter.
func (c Config) ShouldFormat(req QueryRequest) bool {
	if req.Raw {
		return false
	}
	return req.Format || c.FormatOutput
}

// ShouldConfirm decides whether the user is asked before execution.
func (c Config) ShouldConfirm(req QueryRequest) bool {
	return c.ConfirmBeforeExecute && !req.NoConfirm
}
