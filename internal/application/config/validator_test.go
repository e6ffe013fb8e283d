package config

import (
	"strings"
	"testing"

	"github.com/doeshing/baishi/internal/domain"
)

func validConfig() domain.Config {
	cfg := domain.DefaultConfig()
	cfg.APIKey = "sk-test"
	return cfg
}

func TestValidateAcceptsDefaultsWithKey(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateOllamaNeedsNoKey(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Provider = domain.ProviderOllama
	cfg.OllamaHost = "http://127.0.0.1:11434"
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Config)
		want   string
	}{
		{"unknown provider", func(c *domain.Config) { c.Provider = "skynet" }, "provider must be one of"},
		{"missing key", func(c *domain.Config) { c.APIKey = "" }, "requires an API key"},
		{"bad host", func(c *domain.Config) { c.OllamaHost = "localhost:11434" }, "ollama_host"},
		{"history limit", func(c *domain.Config) { c.HistoryLimit = 0 }, "history_limit"},
		{"history backend", func(c *domain.Config) { c.HistoryBackend = "redis" }, "history_backend"},
		{"shell", func(c *domain.Config) { c.DefaultShell = " " }, "default_shell"},
		{"timeout", func(c *domain.Config) { c.TimeoutMS = -1 }, "timeout_ms"},
		{"temperature", func(c *domain.Config) { c.Temperature = 1.5 }, "temperature"},
		{"max tokens", func(c *domain.Config) { c.MaxTokens = 0 }, "max_tokens"},
		{"unstorable prompt", func(c *domain.Config) { c.SystemPrompt = `it's $5 "q"` }, "system_prompt cannot be saved"},
		{"unstorable model", func(c *domain.Config) { c.Model = "a\nb\\" }, "model cannot be saved"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.want)
			}
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.TimeoutMS = 0
	cfg.MaxTokens = 0
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "timeout_ms") || !strings.Contains(err.Error(), "max_tokens") {
		t.Errorf("Validate() = %v", err)
	}
}

func TestValidateAcceptsQuotedPrompts(t *testing.T) {
	for _, prompt := range []string{`Say "hi"`, `Use C:\`, `it's "q"`, "line one\nline two"} {
		cfg := validConfig()
		cfg.SystemPrompt = prompt
		if err := Validate(cfg); err != nil {
			t.Errorf("Validate(prompt %q) error = %v", prompt, err)
		}
	}
}

func TestValidateSettingsIgnoresCredentials(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.HistoryLimit = 50
	if err := ValidateSettings(cfg); err != nil {
		t.Fatalf("ValidateSettings() error = %v", err)
	}
	if err := ValidateCredentials(cfg); err == nil || !strings.Contains(err.Error(), "requires an API key") {
		t.Errorf("ValidateCredentials() = %v, want missing key error", err)
	}
	if err := Validate(cfg); err == nil {
		t.Error("Validate() accepted a hosted provider without a key")
	}

	cfg.Temperature = 3
	if err := ValidateSettings(cfg); err == nil || !strings.Contains(err.Error(), "temperature") {
		t.Errorf("ValidateSettings() = %v, want temperature error", err)
	}
}
