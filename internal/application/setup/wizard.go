// Package setup walks the user through choosing a provider, credentials,
// model and preferences, optionally tests the result, then saves the profile.
package setup

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	appconfig "github.com/doeshing/baishi/internal/application/config"
	"github.com/doeshing/baishi/internal/application/query"
	"github.com/doeshing/baishi/internal/domain"
	"github.com/doeshing/baishi/internal/ports"
)

// SampleQuery is generated to verify a fresh configuration.
const SampleQuery = "list files in current directory"

const otherModel = "__other__"

// Wizard is the interactive configuration flow.
type Wizard struct {
	Store           ports.ConfigStore
	Prompter        ports.SetupPrompter
	Presenter       ports.SetupPresenter
	ProviderFactory ports.ProviderFactory
	Catalog         domain.ProviderCatalog
	Logger          ports.Logger
}

// Run asks every question, tests the answers when requested and saves the
// profile. A failed test may restart the questions, at most
// domain.MaxSetupAttempts times in total.
func (w *Wizard) Run(ctx context.Context) (domain.Config, error) {
	if w.Store == nil || w.Prompter == nil || w.Presenter == nil || len(w.Catalog) == 0 {
		return domain.Config{}, errors.New("setup.Wizard dependencies not satisfied")
	}

	current, err := w.Store.Load(ctx)
	if err != nil {
		w.warn("could not load existing profile, starting from defaults", err)
		current = domain.DefaultConfig()
	}

	var cfg domain.Config
	for attempt := 1; ; attempt++ {
		cfg, err = w.configure(current)
		if err != nil {
			return cfg, err
		}
		retry, err := w.test(ctx, cfg, attempt)
		if err != nil {
			return cfg, err
		}
		if !retry {
			break
		}
		current = cfg
	}

	if err := w.Store.Save(ctx, cfg); err != nil {
		return cfg, fmt.Errorf("save config: %w", err)
	}
	return cfg, nil
}

func (w *Wizard) configure(current domain.Config) (domain.Config, error) {
	cfg := current

	options := make([]ports.Option, 0, len(w.Catalog))
	for _, d := range w.Catalog {
		options = append(options, ports.Option{Label: d.Label, Value: string(d.ID)})
	}
	choice, err := w.Prompter.Select("Select your AI provider:", options, string(current.Provider))
	if err != nil {
		return cfg, err
	}
	cfg.Provider = domain.ProviderID(choice)
	desc, ok := w.Catalog.Lookup(cfg.Provider)
	if !ok {
		return cfg, domain.NewConfigurationError("Unknown provider: %s", cfg.Provider)
	}

	if desc.RequiresAPIKey {
		if err := w.askAPIKey(&cfg, current, desc); err != nil {
			return cfg, err
		}
	}
	if cfg.Provider == domain.ProviderOllama {
		if err := w.askOllamaHost(&cfg, current); err != nil {
			return cfg, err
		}
	}
	if err := w.askModel(&cfg, desc); err != nil {
		return cfg, err
	}

	advanced, err := w.Prompter.Confirm("Configure advanced settings?", false)
	if err != nil {
		return cfg, err
	}
	if !advanced {
		cfg.ConfirmBeforeExecute = true
		cfg.FormatOutput = false
		cfg.SaveHistory = true
		cfg.HistoryLimit = domain.DefaultHistoryLimit
		return cfg, nil
	}
	return cfg, w.askAdvanced(&cfg, current)
}

func (w *Wizard) askAPIKey(cfg *domain.Config, current domain.Config, desc domain.ProviderDescriptor) error {
	existing := ""
	if current.Provider == cfg.Provider {
		existing = current.CredentialFor(cfg.Provider)
	}

	title := fmt.Sprintf("Enter your %s API key:", desc.Name)
	if existing != "" {
		title = fmt.Sprintf("Enter your %s API key (leave empty to keep the current one):", desc.Name)
	}
	key, err := w.Prompter.Password(title, func(v string) error {
		if strings.TrimSpace(v) == "" && existing == "" {
			return errors.New("API key is required")
		}
		return nil
	})
	if err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		key = existing
	}

	if cfg.Provider == domain.ProviderOpenRouter {
		cfg.OpenRouterAPIKey = key
	} else {
		cfg.APIKey = key
	}
	return nil
}

func (w *Wizard) askOllamaHost(cfg *domain.Config, current domain.Config) error {
	custom, err := w.Prompter.Confirm(fmt.Sprintf("Use custom Ollama host? (default: %s)", domain.DefaultOllamaHost), current.OllamaHost != "")
	if err != nil {
		return err
	}
	if !custom {
		cfg.OllamaHost = ""
		return nil
	}
	host, err := w.Prompter.Input("Enter Ollama host URL:", valueOr(current.OllamaHost, domain.DefaultOllamaHost), func(v string) error {
		if strings.TrimSpace(v) == "" {
			return errors.New("host is required")
		}
		return appconfig.ValidateHost(strings.TrimSpace(v))
	})
	if err != nil {
		return err
	}
	cfg.OllamaHost = strings.TrimSpace(host)
	return nil
}

func (w *Wizard) askModel(cfg *domain.Config, desc domain.ProviderDescriptor) error {
	useDefault, err := w.Prompter.Confirm(fmt.Sprintf("Use default model (%s)?", desc.DefaultModel), true)
	if err != nil {
		return err
	}
	if useDefault {
		cfg.Model = desc.DefaultModel
		return nil
	}

	model := otherModel
	if len(desc.Models) > 0 {
		options := make([]ports.Option, 0, len(desc.Models)+1)
		for _, m := range desc.Models {
			options = append(options, ports.Option{Label: m, Value: m})
		}
		options = append(options, ports.Option{Label: "Other (enter a model name)", Value: otherModel})
		current := cfg.Model
		if !desc.HasModel(current) {
			current = desc.DefaultModel
		}
		if model, err = w.Prompter.Select("Select a model:", options, current); err != nil {
			return err
		}
	}
	if model == otherModel {
		if model, err = w.Prompter.Input("Enter model name:", desc.DefaultModel, required("model name")); err != nil {
			return err
		}
	}
	cfg.Model = strings.TrimSpace(model)
	return nil
}

func (w *Wizard) askAdvanced(cfg *domain.Config, current domain.Config) error {
	var err error
	if cfg.ConfirmBeforeExecute, err = w.Prompter.Confirm("Confirm before executing commands?", current.ConfirmBeforeExecute); err != nil {
		return err
	}
	if cfg.FormatOutput, err = w.Prompter.Confirm("Format command output with AI?", current.FormatOutput); err != nil {
		return err
	}
	if cfg.SaveHistory, err = w.Prompter.Confirm("Save command history?", current.SaveHistory); err != nil {
		return err
	}
	if cfg.SaveHistory {
		limit, err := w.Prompter.Input("History limit:", strconv.Itoa(valueOrInt(current.HistoryLimit, domain.DefaultHistoryLimit)), validatePositiveInt)
		if err != nil {
			return err
		}
		cfg.HistoryLimit, _ = strconv.Atoi(strings.TrimSpace(limit))
	}

	customShell, err := w.Prompter.Confirm("Use custom shell?", false)
	if err != nil {
		return err
	}
	if customShell {
		shell, err := w.Prompter.Input("Enter shell path:", current.DefaultShell, required("shell path"))
		if err != nil {
			return err
		}
		cfg.DefaultShell = strings.TrimSpace(shell)
	}

	temperature, err := w.Prompter.Input("Temperature (0.0-1.0, lower = more focused):", strconv.FormatFloat(current.Temperature, 'f', -1, 64), validateTemperature)
	if err != nil {
		return err
	}
	cfg.Temperature, _ = strconv.ParseFloat(strings.TrimSpace(temperature), 64)

	maxTokens, err := w.Prompter.Input("Max tokens for responses:", strconv.Itoa(valueOrInt(current.MaxTokens, domain.DefaultMaxTokens)), validatePositiveInt)
	if err != nil {
		return err
	}
	cfg.MaxTokens, _ = strconv.Atoi(strings.TrimSpace(maxTokens))
	return nil
}

// test optionally generates a sample command and reports whether the user
// asked to reconfigure.
func (w *Wizard) test(ctx context.Context, cfg domain.Config, attempt int) (bool, error) {
	run, err := w.Prompter.Confirm("Test configuration with a sample command?", true)
	if err != nil || !run {
		return false, err
	}

	done := w.Presenter.Testing()
	command, testErr := w.generateSample(ctx, cfg)
	done(testErr == nil)
	if testErr == nil {
		w.Presenter.Notice("Sample command generated: " + command)
		return false, nil
	}

	w.Presenter.Failure("Error: " + testErr.Error())
	if attempt >= domain.MaxSetupAttempts {
		w.Presenter.Failure(fmt.Sprintf("Configuration test failed %d times, saving the answers as entered.", attempt))
		return false, nil
	}
	return w.Prompter.Confirm("Would you like to reconfigure?", true)
}

func (w *Wizard) generateSample(ctx context.Context, cfg domain.Config) (string, error) {
	return GenerateSample(ctx, w.ProviderFactory, cfg)
}

// GenerateSample asks the provider selected by cfg for the SampleQuery command.
func GenerateSample(ctx context.Context, factory ports.ProviderFactory, cfg domain.Config) (string, error) {
	if factory == nil {
		return "", errors.New("provider factory not initialized")
	}
	provider, err := factory.ForConfig(cfg)
	if err != nil {
		return "", err
	}
	if !provider.IsConfigured() {
		return "", errors.New("provider not properly configured")
	}
	return provider.GenerateCommand(ctx, query.BuildPrompt(SampleQuery))
}

func (w *Wizard) warn(msg string, err error) {
	if w.Logger != nil {
		w.Logger.Warn(msg, map[string]interface{}{"error": err.Error()})
	}
}

func required(what string) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func validatePositiveInt(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return errors.New("please enter a valid number")
	}
	return nil
}

func validateTemperature(v string) error {
	t, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return errors.New("please enter a value between 0 and 1")
	}
	return appconfig.ValidateTemperature(t)
}

func valueOr(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

func valueOrInt(value, def int) int {
	if value <= 0 {
		return def
	}
	return value
}
