package commands

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/doeshing/baishi/internal/app"
	"github.com/doeshing/baishi/internal/domain"
)

func newTestContainer(t *testing.T) *app.Container {
	t.Helper()
	t.Setenv("BAISH_API_KEY", "")
	container, err := app.BuildContainer(context.Background(), app.Options{ConfigDir: t.TempDir()})
	if err != nil {
		t.Fatalf("BuildContainer() error = %v", err)
	}
	t.Cleanup(func() { container.Close() })
	return container
}

func seedHistory(t *testing.T, container *app.Container, entries ...domain.HistoryEntry) {
	t.Helper()
	ctx := context.Background()
	store, err := container.History(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if err := store.Append(ctx, e, 100); err != nil {
			t.Fatal(err)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"short", "****"},
		{"sk-1234567890abcd", "sk-1...abcd"},
	}
	for _, tt := range tests {
		if got := maskSecret(tt.in); got != tt.want {
			t.Errorf("maskSecret(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestApplyConfigValue(t *testing.T) {
	cfg := domain.DefaultConfig()

	updated, err := applyConfigValue(cfg, "temperature", "0.7")
	if err != nil {
		t.Fatalf("applyConfigValue() error = %v", err)
	}
	if updated.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", updated.Temperature)
	}

	updated, err = applyConfigValue(cfg, "model", "gpt-4o")
	if err != nil || updated.Model != "gpt-4o" {
		t.Errorf("model not applied: %+v, %v", updated, err)
	}

	if _, err := applyConfigValue(cfg, "nope", "1"); err == nil {
		t.Error("expected error for unknown key")
	}
	if _, err := applyConfigValue(cfg, "history_limit", "lots"); err == nil {
		t.Error("expected error for non-numeric limit")
	}
}

func TestSetConfigurationValueValidates(t *testing.T) {
	container := newTestContainer(t)
	ctx := context.Background()

	if err := setConfigurationValue(ctx, io.Discard, container, "temperature", "3"); err == nil {
		t.Fatal("expected validation error for temperature 3")
	}
	if err := setConfigurationValue(ctx, io.Discard, container, "provider", "ollama"); err != nil {
		t.Fatalf("setConfigurationValue() error = %v", err)
	}
	cfg, _ := container.ConfigStore.Load(ctx)
	if cfg.Provider != domain.ProviderOllama {
		t.Errorf("Provider = %s, want ollama", cfg.Provider)
	}
}

func TestSetConfigurationValueWithoutKey(t *testing.T) {
	container := newTestContainer(t)
	ctx := context.Background()

	var warn bytes.Buffer
	if err := setConfigurationValue(ctx, &warn, container, "history_limit", "50"); err != nil {
		t.Fatalf("setConfigurationValue(history_limit) error = %v", err)
	}
	if !strings.Contains(warn.String(), "requires an API key") {
		t.Errorf("warning = %q, want missing key notice", warn.String())
	}
	cfg, _ := container.ConfigStore.Load(ctx)
	if cfg.HistoryLimit != 50 {
		t.Errorf("HistoryLimit = %d, want 50", cfg.HistoryLimit)
	}

	if err := setConfigurationValue(ctx, io.Discard, container, "provider", "anthropic"); err == nil {
		t.Error("switching to a hosted provider without a key should fail")
	}
	if err := setConfigurationValue(ctx, io.Discard, container, "api_key", "sk-test"); err != nil {
		t.Fatalf("setConfigurationValue(api_key) error = %v", err)
	}
	warn.Reset()
	if err := setConfigurationValue(ctx, &warn, container, "history_limit", "60"); err != nil || warn.Len() != 0 {
		t.Errorf("history_limit with key: err %v, warning %q", err, warn.String())
	}
}

func TestSetConfigurationValueRejectsUnstorablePrompt(t *testing.T) {
	container := newTestContainer(t)
	ctx := context.Background()

	err := setConfigurationValue(ctx, io.Discard, container, "system_prompt", `'it''s $5 "q"'`)
	if err == nil || !strings.Contains(err.Error(), "system_prompt cannot be saved") {
		t.Fatalf("setConfigurationValue() error = %v, want unstorable prompt error", err)
	}
	cfg, _ := container.ConfigStore.Load(ctx)
	if cfg.SystemPrompt != "" {
		t.Errorf("SystemPrompt = %q, want unchanged", cfg.SystemPrompt)
	}
}

func TestShowConfigurationMasksKeys(t *testing.T) {
	container := newTestContainer(t)
	ctx := context.Background()
	cfg := domain.DefaultConfig()
	cfg.APIKey = "sk-secretsecretsecret"
	if err := container.ConfigStore.Save(ctx, cfg); err != nil {
		t.Fatal(err)
	}

	for _, asYAML := range []bool{false, true} {
		var out bytes.Buffer
		if err := showConfiguration(ctx, &out, container, asYAML); err != nil {
			t.Fatalf("showConfiguration() error = %v", err)
		}
		if strings.Contains(out.String(), "secretsecret") {
			t.Errorf("yaml=%v leaked the API key:\n%s", asYAML, out.String())
		}
		if !strings.Contains(out.String(), "sk-s...cret") {
			t.Errorf("yaml=%v missing masked key:\n%s", asYAML, out.String())
		}
	}
}

func TestConfigurationDiff(t *testing.T) {
	container := newTestContainer(t)
	ctx := context.Background()

	var out bytes.Buffer
	if err := showConfigurationDiff(ctx, &out, container); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), MsgNoDifferencesFromDefault) {
		t.Errorf("fresh profile should match defaults, got:\n%s", out.String())
	}

	cfg := domain.DefaultConfig()
	cfg.HistoryLimit = 42
	if err := container.ConfigStore.Save(ctx, cfg); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := showConfigurationDiff(ctx, &out, container); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "42") {
		t.Errorf("diff should mention the changed limit, got:\n%s", out.String())
	}
}

func TestListHistory(t *testing.T) {
	container := newTestContainer(t)
	ctx := context.Background()

	var out bytes.Buffer
	if err := ListHistory(ctx, &out, container, 10); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), MsgNoHistoryRecorded) {
		t.Errorf("empty history output = %q", out.String())
	}

	seedHistory(t, container,
		domain.HistoryEntry{NaturalLanguage: "list files", GeneratedCommand: "ls -la", Executed: true, Success: true},
		domain.HistoryEntry{NaturalLanguage: "disk usage", GeneratedCommand: "df -h"},
		domain.HistoryEntry{NaturalLanguage: "who am i", GeneratedCommand: "whoami", Executed: true, ExitCode: 2},
	)

	out.Reset()
	if err := ListHistory(ctx, &out, container, 2); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "Recent Commands (last 2):") {
		t.Errorf("missing heading:\n%s", got)
	}
	if strings.Contains(got, "ls -la") {
		t.Errorf("limit not applied:\n%s", got)
	}
	if !strings.Contains(got, "df -h") || !strings.Contains(got, "exit 2") {
		t.Errorf("unexpected listing:\n%s", got)
	}
}

func TestHistoryLimitFlagMustBePositive(t *testing.T) {
	container := newTestContainer(t)
	cmd := NewHistoryCommand(container)
	cmd.SetArgs([]string{"--limit", "0"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.ExecuteContext(context.Background()); err == nil || err.Error() != ErrInvalidLimit {
		t.Errorf("Execute() error = %v, want %q", err, ErrInvalidLimit)
	}
}

func TestExportHistoryWritesJSONL(t *testing.T) {
	container := newTestContainer(t)
	seedHistory(t, container,
		domain.HistoryEntry{NaturalLanguage: "one", GeneratedCommand: "echo 1"},
		domain.HistoryEntry{NaturalLanguage: "two", GeneratedCommand: "echo 2"},
	)
	path := filepath.Join(t.TempDir(), "history.jsonl")

	n, err := exportHistory(context.Background(), container, path)
	if err != nil {
		t.Fatalf("exportHistory() error = %v", err)
	}
	if n != 2 {
		t.Errorf("exported %d entries, want 2", n)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var commands []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry domain.HistoryEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("line %q is not JSON: %v", scanner.Text(), err)
		}
		commands = append(commands, entry.GeneratedCommand)
	}
	if strings.Join(commands, ",") != "echo 1,echo 2" {
		t.Errorf("exported commands = %v", commands)
	}
}

func TestFilterHistory(t *testing.T) {
	records := []domain.HistoryEntry{
		{NaturalLanguage: "Find logs", GeneratedCommand: "find . -name '*.log'"},
		{NaturalLanguage: "disk", GeneratedCommand: "df -h"},
		{NaturalLanguage: "more logs", GeneratedCommand: "ls /var/log"},
	}

	got := filterHistory(records, "LOG", 1)
	if len(got) != 1 || got[0].GeneratedCommand != "ls /var/log" {
		t.Errorf("filterHistory() = %+v", got)
	}
	if got := filterHistory(records, "nothing", 10); len(got) != 0 {
		t.Errorf("expected no matches, got %+v", got)
	}
}

func TestListModels(t *testing.T) {
	container := newTestContainer(t)
	ctx := context.Background()

	var out bytes.Buffer
	if err := listModels(ctx, &out, container, ""); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"OpenAI (openai)", "gpt-4o-mini", "default, current", "no API key required"} {
		if !strings.Contains(got, want) {
			t.Errorf("models output missing %q:\n%s", want, got)
		}
	}

	out.Reset()
	if err := listModels(ctx, &out, container, "ollama"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "gpt-4o") {
		t.Errorf("provider filter not applied:\n%s", out.String())
	}

	if err := listModels(ctx, &out, container, "bogus"); err == nil {
		t.Error("expected error for unknown provider filter")
	}
}

func TestSetDefaultModel(t *testing.T) {
	container := newTestContainer(t)
	ctx := context.Background()

	var out bytes.Buffer
	if err := setDefaultModel(ctx, &out, container, "anthropic", "claude-custom"); err != nil {
		t.Fatalf("setDefaultModel() error = %v", err)
	}
	cfg, _ := container.ConfigStore.Load(ctx)
	if cfg.Provider != domain.ProviderAnthropic || cfg.Model != "claude-custom" {
		t.Errorf("profile not updated: %+v", cfg)
	}
	if !strings.Contains(out.String(), "not in the") {
		t.Errorf("expected catalog warning, got %q", out.String())
	}
}
