package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/doeshing/baishi/internal/domain"
)

// TestConfig_WithDefaults tests that unset fields fall back to defaults
func TestConfig_WithDefaults(t *testing.T) {
	tests := []struct {
		name   string
		config domain.Config
		check  func(t *testing.T, got domain.Config)
	}{
		{
			name:   "empty config becomes default config",
			config: domain.Config{},
			check: func(t *testing.T, got domain.Config) {
				def := domain.DefaultConfig()
				if got.Provider != def.Provider {
					t.Errorf("got provider %s, want %s", got.Provider, def.Provider)
				}
				if got.HistoryLimit != def.HistoryLimit {
					t.Errorf("got history limit %d, want %d", got.HistoryLimit, def.HistoryLimit)
				}
				if got.TimeoutMS != def.TimeoutMS {
					t.Errorf("got timeout %d, want %d", got.TimeoutMS, def.TimeoutMS)
				}
				if got.MaxTokens != def.MaxTokens {
					t.Errorf("got max tokens %d, want %d", got.MaxTokens, def.MaxTokens)
				}
				if got.HistoryBackend != domain.HistoryBackendJSON {
					t.Errorf("got backend %s, want json", got.HistoryBackend)
				}
			},
		},
		{
			name:   "keeps explicit values",
			config: domain.Config{Provider: domain.ProviderOllama, HistoryLimit: 5, TimeoutMS: 10, MaxTokens: 42, Temperature: 0.9, HistoryBackend: "SQLite"},
			check: func(t *testing.T, got domain.Config) {
				if got.Provider != domain.ProviderOllama || got.HistoryLimit != 5 || got.TimeoutMS != 10 || got.MaxTokens != 42 {
					t.Errorf("explicit values overwritten: %+v", got)
				}
				if got.Temperature != 0.9 {
					t.Errorf("got temperature %v, want 0.9", got.Temperature)
				}
				if got.HistoryBackend != domain.HistoryBackendSQLite {
					t.Errorf("got backend %s, want sqlite", got.HistoryBackend)
				}
			},
		},
		{
			name:   "replaces out of range temperature and negative limit",
			config: domain.Config{Temperature: 1.5, HistoryLimit: -3},
			check: func(t *testing.T, got domain.Config) {
				if got.Temperature != domain.DefaultTemperature {
					t.Errorf("got temperature %v, want %v", got.Temperature, domain.DefaultTemperature)
				}
				if got.HistoryLimit != domain.DefaultHistoryLimit {
					t.Errorf("got limit %d, want %d", got.HistoryLimit, domain.DefaultHistoryLimit)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, tt.config.WithDefaults())
		})
	}
}

// TestConfig_CredentialFor tests credential resolution per provider
func TestConfig_CredentialFor(t *testing.T) {
	tests := []struct {
		name     string
		config   domain.Config
		provider domain.ProviderID
		want     string
	}{
		{"openai uses api key", domain.Config{APIKey: "sk-1"}, domain.ProviderOpenAI, "sk-1"},
		{"ollama never has a key", domain.Config{APIKey: "sk-1"}, domain.ProviderOllama, ""},
		{"openrouter prefers its own key", domain.Config{APIKey: "sk-1", OpenRouterAPIKey: "or-1"}, domain.ProviderOpenRouter, "or-1"},
		{"openrouter falls back to api key", domain.Config{APIKey: "sk-1"}, domain.ProviderOpenRouter, "sk-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.CredentialFor(tt.provider); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// TestConfig_ShouldFormat tests the format/raw flag precedence
func TestConfig_ShouldFormat(t *testing.T) {
	tests := []struct {
		name   string
		config domain.Config
		req    domain.QueryRequest
		want   bool
	}{
		{"config enabled", domain.Config{FormatOutput: true}, domain.QueryRequest{}, true},
		{"flag enabled", domain.Config{}, domain.QueryRequest{Format: true}, true},
		{"raw wins over config", domain.Config{FormatOutput: true}, domain.QueryRequest{Raw: true}, false},
		{"raw wins over flag", domain.Config{}, domain.QueryRequest{Format: true, Raw: true}, false},
		{"off by default", domain.Config{}, domain.QueryRequest{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.ShouldFormat(tt.req); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_ShouldConfirm(t *testing.T) {
	cfg := domain.Config{ConfirmBeforeExecute: true}
	if !cfg.ShouldConfirm(domain.QueryRequest{}) {
		t.Error("expected confirmation when enabled")
	}
	if cfg.ShouldConfirm(domain.QueryRequest{NoConfirm: true}) {
		t.Error("--no-confirm must skip confirmation")
	}
	if (domain.Config{}).ShouldConfirm(domain.QueryRequest{}) {
		t.Error("expected no confirmation when disabled")
	}
}

func TestConfig_ApplyRequest(t *testing.T) {
	cfg := domain.Config{Provider: domain.ProviderOpenAI, Model: "gpt-4o"}
	got := cfg.ApplyRequest(domain.QueryRequest{ProviderOverride: domain.ProviderOllama, ModelOverride: "llama3.2"})
	if got.Provider != domain.ProviderOllama || got.Model != "llama3.2" {
		t.Errorf("overrides not applied: %+v", got)
	}
	if cfg.Provider != domain.ProviderOpenAI {
		t.Error("ApplyRequest mutated the receiver")
	}
}

func TestConfig_ResolvedOllamaHost(t *testing.T) {
	if got := (domain.Config{}).ResolvedOllamaHost(); got != domain.DefaultOllamaHost {
		t.Errorf("got %s, want default host", got)
	}
	if got := (domain.Config{OllamaHost: "http://gpu:11434/"}).ResolvedOllamaHost(); got != "http://gpu:11434" {
		t.Errorf("got %s, want trailing slash trimmed", got)
	}
}

func TestTrimHistory(t *testing.T) {
	var entries []domain.HistoryEntry
	for i := 0; i < 7; i++ {
		entries = append(entries, domain.HistoryEntry{NaturalLanguage: fmt.Sprintf("q%d", i)})
	}

	trimmed := domain.TrimHistory(entries, 3)
	if len(trimmed) != 3 {
		t.Fatalf("got %d entries, want 3", len(trimmed))
	}
	for i, want := range []string{"q4", "q5", "q6"} {
		if trimmed[i].NaturalLanguage != want {
			t.Errorf("entry %d = %s, want %s", i, trimmed[i].NaturalLanguage, want)
		}
	}

	if got := domain.TrimHistory(entries[:2], 3); len(got) != 2 {
		t.Errorf("short history trimmed to %d", len(got))
	}
}

func TestQueryResponse_ExitCode(t *testing.T) {
	tests := []struct {
		name string
		resp domain.QueryResponse
		want int
	}{
		{"not executed", domain.QueryResponse{}, 0},
		{"success", domain.QueryResponse{ExecutionResult: &domain.ExecutionResult{Success: true}}, 0},
		{"exit 3", domain.QueryResponse{ExecutionResult: &domain.ExecutionResult{ExitCode: 3}}, 3},
		{"failure without code", domain.QueryResponse{ExecutionResult: &domain.ExecutionResult{}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resp.ExitCode(); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProviderErrorUnwraps(t *testing.T) {
	inner := errors.New("401 Unauthorized")
	err := error(&domain.ProviderError{Provider: "OpenAI", Err: inner})
	if !errors.Is(err, inner) {
		t.Fatal("ProviderError should unwrap to its cause")
	}
	if err.Error() != "OpenAI API error: 401 Unauthorized" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestProviderCatalogLookup(t *testing.T) {
	catalog := domain.ProviderCatalog{
		{ID: domain.ProviderOllama, DefaultModel: "llama3.2", Models: []string{"llama3.2", "mistral"}},
	}
	d, ok := catalog.Lookup(domain.ProviderOllama)
	if !ok || d.DefaultModel != "llama3.2" {
		t.Fatalf("lookup failed: %+v %v", d, ok)
	}
	if !d.HasModel("mistral") || d.HasModel("gpt-4o") {
		t.Error("HasModel mismatch")
	}
	if _, ok := catalog.Lookup("nope"); ok {
		t.Error("unknown provider should not be found")
	}
	if !domain.ProviderGoogle.Valid() || domain.ProviderID("bard").Valid() {
		t.Error("Valid mismatch")
	}
}
