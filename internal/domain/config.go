package domain

import "runtime"

// ProviderID identifies one of the supported AI backends.
type ProviderID string

const (
	ProviderOpenAI     ProviderID = "openai"
	ProviderGoogle     ProviderID = "google"
	ProviderAnthropic  ProviderID = "anthropic"
	ProviderOllama     ProviderID = "ollama"
	ProviderOpenRouter ProviderID = "openrouter"
)

// KnownProviders lists every provider in menu order.
var KnownProviders = []ProviderID{
	ProviderOpenAI,
	ProviderGoogle,
	ProviderAnthropic,
	ProviderOllama,
	ProviderOpenRouter,
}

// Valid reports whether the identifier names a supported provider.
func (p ProviderID) Valid() bool {
	for _, known := range KnownProviders {
		if p == known {
			return true
		}
	}
	return false
}

// History backends.
const (
	HistoryBackendJSON   = "json"
	HistoryBackendSQLite = "sqlite"
)

// Config mirrors ~/.baishi/baishi_profile.
type Config struct {
	Provider             ProviderID `yaml:"provider"`
	APIKey               string     `yaml:"api_key,omitempty"`
	Model                string     `yaml:"model,omitempty"`
	OllamaHost           string     `yaml:"ollama_host,omitempty"`
	OpenRouterAPIKey     string     `yaml:"openrouter_api_key,omitempty"`
	FormatOutput         bool       `yaml:"format_output"`
	ConfirmBeforeExecute bool       `yaml:"confirm_before_execute"`
	SaveHistory          bool       `yaml:"save_history"`
	HistoryLimit         int        `yaml:"history_limit"`
	HistoryBackend       string     `yaml:"history_backend"`
	DefaultShell         string     `yaml:"default_shell"`
	TimeoutMS            int        `yaml:"timeout_ms"`
	Temperature          float64    `yaml:"temperature"`
	MaxTokens            int        `yaml:"max_tokens"`
	SystemPrompt         string     `yaml:"system_prompt,omitempty"`
}

// DefaultConfig returns the built-in configuration used for any unset field.
func DefaultConfig() Config {
	return Config{
		Provider:             ProviderOpenAI,
		FormatOutput:         false,
		ConfirmBeforeExecute: true,
		SaveHistory:          true,
		HistoryLimit:         DefaultHistoryLimit,
		HistoryBackend:       HistoryBackendJSON,
		DefaultShell:         PlatformDefaultShell(),
		TimeoutMS:            DefaultTimeoutMS,
		Temperature:          DefaultTemperature,
		MaxTokens:            DefaultMaxTokens,
	}
}

// PlatformDefaultShell is the shell written into a fresh profile.
func PlatformDefaultShell() string {
	if runtime.GOOS == "windows" {
		return "powershell"
	}
	return "/bin/bash"
}
