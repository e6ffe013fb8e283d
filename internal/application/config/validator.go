package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/doeshing/baishi/internal/domain"
	"github.com/doeshing/baishi/internal/pkg/envfile"
)

// Validate ensures config values are usable, including the credential for
// the selected provider. Every problem is reported, not just the first one.
func Validate(cfg domain.Config) error {
	return errors.Join(ValidateSettings(cfg), ValidateCredentials(cfg))
}

// ValidateCredentials reports a hosted provider without an API key.
func ValidateCredentials(cfg domain.Config) error {
	if cfg.Provider.Valid() && cfg.Provider != domain.ProviderOllama && cfg.CredentialFor(cfg.Provider) == "" {
		return fmt.Errorf("provider %s requires an API key", cfg.Provider)
	}
	return nil
}

// ValidateSettings checks everything Validate does except credentials.
func ValidateSettings(cfg domain.Config) error {
	var errs []error
	if !cfg.Provider.Valid() {
		errs = append(errs, fmt.Errorf("provider must be one of %s, got %q", providerList(), cfg.Provider))
	}
	if err := validateHost(cfg.OllamaHost); err != nil {
		errs = append(errs, err)
	}
	if err := validateHistory(cfg); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(cfg.DefaultShell) == "" {
		errs = append(errs, errors.New("default_shell must be set"))
	}
	if cfg.TimeoutMS <= 0 {
		errs = append(errs, fmt.Errorf("timeout_ms must be > 0, got %d", cfg.TimeoutMS))
	}
	if err := ValidateTemperature(cfg.Temperature); err != nil {
		errs = append(errs, err)
	}
	if cfg.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("max_tokens must be > 0, got %d", cfg.MaxTokens))
	}
	errs = append(errs, validateStorable(cfg)...)
	return errors.Join(errs...)
}

// validateStorable rejects text the profile file cannot hold verbatim.
func validateStorable(cfg domain.Config) []error {
	fields := []struct {
		name  string
		value string
	}{
		{"api_key", cfg.APIKey},
		{"model", cfg.Model},
		{"ollama_host", cfg.OllamaHost},
		{"openrouter_api_key", cfg.OpenRouterAPIKey},
		{"history_backend", cfg.HistoryBackend},
		{"default_shell", cfg.DefaultShell},
		{"system_prompt", cfg.SystemPrompt},
	}
	var errs []error
	for _, f := range fields {
		if !envfile.Encodable(f.value) {
			errs = append(errs, fmt.Errorf("%s cannot be saved to the profile as written; drop a quote or the trailing backslash", f.name))
		}
	}
	return errs
}

// ValidateTemperature checks the sampling temperature range.
func ValidateTemperature(t float64) error {
	if t < 0 || t > 1 {
		return fmt.Errorf("temperature must be between 0 and 1, got %g", t)
	}
	return nil
}

// ValidateHost checks an Ollama base URL.
func ValidateHost(host string) error {
	return validateHost(host)
}

func validateHost(host string) error {
	if host == "" {
		return nil
	}
	u, err := url.Parse(host)
	if err != nil {
		return fmt.Errorf("ollama_host invalid: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("ollama_host must be an http(s) URL, got %q", host)
	}
	return nil
}

func validateHistory(cfg domain.Config) error {
	if cfg.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be > 0, got %d", cfg.HistoryLimit)
	}
	switch cfg.HistoryBackend {
	case domain.HistoryBackendJSON, domain.HistoryBackendSQLite:
		return nil
	default:
		return fmt.Errorf("history_backend must be %s|%s, got %q", domain.HistoryBackendJSON, domain.HistoryBackendSQLite, cfg.HistoryBackend)
	}
}

func providerList() string {
	names := make([]string, 0, len(domain.KnownProviders))
	for _, p := range domain.KnownProviders {
		names = append(names, string(p))
	}
	return strings.Join(names, "|")
}
