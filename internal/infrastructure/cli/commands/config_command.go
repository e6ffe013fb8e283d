package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/baishi/internal/app"
	configapp "github.com/doeshing/baishi/internal/application/config"
	"github.com/doeshing/baishi/internal/domain"
	"github.com/doeshing/baishi/internal/infrastructure/cli/helpers"
)

const (
	envKeyEditor  = "EDITOR"
	defaultEditor = "vi"
)

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(container *app.Container) *cobra.Command {
	var asYAML bool

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect baishi configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.Context(), cmd.OutOrStdout(), container, asYAML)
		},
	}
	configCmd.Flags().BoolVar(&asYAML, "yaml", false, "Print configuration as YAML")

	configCmd.AddCommand(
		newConfigShowCommand(container),
		newConfigPathCommand(container),
		newConfigGetCommand(container),
		newConfigSetCommand(container),
		newConfigEditCommand(container),
		newConfigValidateCommand(container),
		newConfigResetCommand(container),
		newConfigDiffCommand(container),
	)

	return configCmd
}

// newConfigShowCommand creates the 'config show' subcommand
func newConfigShowCommand(container *app.Container) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show full configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.Context(), cmd.OutOrStdout(), container, asYAML)
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print configuration as YAML")
	return cmd
}

// newConfigPathCommand creates the 'config path' subcommand
func newConfigPathCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the profile location",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), container.ConfigStore.Path())
			return nil
		},
	}
}

// newConfigGetCommand creates the 'config get' subcommand
func newConfigGetCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a specific configuration value (e.g. temperature)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getConfigurationValue(cmd.Context(), cmd.OutOrStdout(), container, args[0])
		},
	}
}

// newConfigSetCommand creates the 'config set' subcommand
func newConfigSetCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value (value accepts YAML syntax)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := strings.Join(args[1:], " ")
			if err := setConfigurationValue(cmd.Context(), cmd.ErrOrStderr(), container, args[0], value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", args[0])
			return nil
		},
	}
}

// newConfigEditCommand creates the 'config edit' subcommand
func newConfigEditCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfigurationInEditor(container)
		},
	}
}

// newConfigValidateCommand creates the 'config validate' subcommand
func newConfigValidateCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := container.ConfigStore.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if err := configapp.Validate(cfg); err != nil {
				return fmt.Errorf("configuration validation failed:\n%w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), helpers.SuccessStyle.Render(MsgConfigurationValid))
			return nil
		},
	}
}

// newConfigResetCommand creates the 'config reset' subcommand
func newConfigResetCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetConfigurationToDefaults(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}
}

// newConfigDiffCommand creates the 'config diff' subcommand
func newConfigDiffCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show diff versus default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigurationDiff(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}
}

// showConfiguration displays the configuration with credentials masked
func showConfiguration(ctx context.Context, out io.Writer, container *app.Container, asYAML bool) error {
	cfg, err := container.ConfigStore.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg = redactConfig(cfg)

	if asYAML {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal configuration: %w", err)
		}
		fmt.Fprint(out, string(data))
		return nil
	}

	model := cfg.Model
	if model == "" {
		model = "default"
	}
	systemPrompt := "default"
	if cfg.SystemPrompt != "" {
		systemPrompt = "custom"
	}

	fmt.Fprintln(out, helpers.HeadingStyle.Render("Current Configuration:"))
	fmt.Fprintln(out, helpers.Rule(ruleWidth))
	rows := [][2]string{
		{"Provider", string(cfg.Provider)},
		{"Model", model},
		{"API Key", valueOrNotSet(cfg.APIKey)},
	}
	if cfg.Provider == domain.ProviderOllama {
		rows = append(rows, [2]string{"Ollama Host", cfg.ResolvedOllamaHost()})
	}
	if cfg.Provider == domain.ProviderOpenRouter && cfg.OpenRouterAPIKey != "" {
		rows = append(rows, [2]string{"OpenRouter Key", cfg.OpenRouterAPIKey})
	}
	rows = append(rows,
		[2]string{"Format Output", helpers.YesNo(cfg.FormatOutput)},
		[2]string{"Confirm Before Execute", helpers.YesNo(cfg.ConfirmBeforeExecute)},
		[2]string{"Save History", helpers.YesNo(cfg.SaveHistory)},
		[2]string{"History Limit", fmt.Sprint(cfg.HistoryLimit)},
		[2]string{"History Backend", cfg.HistoryBackend},
		[2]string{"Default Shell", cfg.DefaultShell},
		[2]string{"Timeout", fmt.Sprintf("%dms", cfg.TimeoutMS)},
		[2]string{"Temperature", fmt.Sprint(cfg.Temperature)},
		[2]string{"Max Tokens", fmt.Sprint(cfg.MaxTokens)},
		[2]string{"System Prompt", systemPrompt},
	)
	for _, row := range rows {
		fmt.Fprintf(out, "%-24s %s\n", row[0]+":", row[1])
	}
	fmt.Fprintln(out, helpers.Rule(ruleWidth))
	fmt.Fprintf(out, "%s %s\n", helpers.MutedStyle.Render("Config file:"), container.ConfigStore.Path())
	return nil
}

// getConfigurationValue prints one profile field by its YAML key
func getConfigurationValue(ctx context.Context, out io.Writer, container *app.Container, key string) error {
	cfg, err := container.ConfigStore.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if !isConfigKey(key) {
		return fmt.Errorf("key %s not found in configuration (known keys: %s)", key, strings.Join(configKeys(), ", "))
	}
	values, err := configToMap(redactConfig(cfg))
	if err != nil {
		return err
	}
	value, ok := values[key]
	if !ok {
		value = ""
	}

	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	fmt.Fprint(out, string(data))
	return nil
}

// setConfigurationValue updates one profile field, validates and saves.
// A missing API key only blocks edits to the provider or its credentials;
// other keys are saved with a warning.
func setConfigurationValue(ctx context.Context, warn io.Writer, container *app.Container, key, value string) error {
	cfg, err := container.ConfigStore.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	updated, err := applyConfigValue(cfg, key, value)
	if err != nil {
		return err
	}

	validate := configapp.ValidateSettings
	if credentialKeys[key] {
		validate = configapp.Validate
	}
	if err := validate(updated); err != nil {
		return fmt.Errorf("validation failed:\n%w", err)
	}
	if err := container.ConfigStore.Save(ctx, updated); err != nil {
		return err
	}
	if err := configapp.ValidateCredentials(updated); err != nil {
		fmt.Fprintln(warn, helpers.WarnStyle.Render("warning: "+err.Error()+"; run 'baishi config set api_key <key>' or 'baishi setup'"))
	}
	return nil
}

var credentialKeys = map[string]bool{
	"provider":           true,
	"api_key":            true,
	"openrouter_api_key": true,
}

// applyConfigValue round-trips cfg through a YAML map with key replaced
func applyConfigValue(cfg domain.Config, key, value string) (domain.Config, error) {
	values, err := configToMap(cfg)
	if err != nil {
		return cfg, err
	}
	if !isConfigKey(key) {
		return cfg, fmt.Errorf("unknown configuration key %s (known keys: %s)", key, strings.Join(configKeys(), ", "))
	}

	var parsed interface{}
	if err := yaml.Unmarshal([]byte(value), &parsed); err != nil {
		return cfg, fmt.Errorf("failed to parse value: %w", err)
	}
	values[key] = parsed

	raw, err := yaml.Marshal(values)
	if err != nil {
		return cfg, fmt.Errorf("failed to marshal updated map: %w", err)
	}
	var updated domain.Config
	if err := yaml.Unmarshal(raw, &updated); err != nil {
		return cfg, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return updated, nil
}

// editConfigurationInEditor opens the profile in the user's editor
func editConfigurationInEditor(container *app.Container) error {
	editorCommand := getEditorCommand()
	cmd := exec.Command(editorCommand, container.ConfigStore.Path())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor %s: %w", editorCommand, err)
	}
	return nil
}

// resetConfigurationToDefaults saves the built-in defaults over the profile
func resetConfigurationToDefaults(ctx context.Context, out io.Writer, container *app.Container) error {
	if err := container.ConfigStore.Save(ctx, domain.DefaultConfig()); err != nil {
		return fmt.Errorf("failed to reset configuration: %w", err)
	}
	fmt.Fprintf(out, "Configuration reset at %s\n", container.ConfigStore.Path())
	return nil
}

// showConfigurationDiff shows the difference between current and default configuration
func showConfigurationDiff(ctx context.Context, out io.Writer, container *app.Container) error {
	currentConfig, err := container.ConfigStore.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load current configuration: %w", err)
	}

	diff := cmp.Diff(domain.DefaultConfig(), redactConfig(currentConfig))
	if diff == "" {
		fmt.Fprintln(out, MsgNoDifferencesFromDefault)
		return nil
	}

	fmt.Fprintln(out, diff)
	return nil
}

// Helper functions

// getEditorCommand retrieves the editor command from environment or returns default
func getEditorCommand() string {
	if editor := os.Getenv(envKeyEditor); editor != "" {
		return editor
	}
	return defaultEditor
}

// redactConfig masks every credential in cfg
func redactConfig(cfg domain.Config) domain.Config {
	cfg.APIKey = maskSecret(cfg.APIKey)
	cfg.OpenRouterAPIKey = maskSecret(cfg.OpenRouterAPIKey)
	return cfg
}

// maskSecret keeps the first and last four characters of long secrets
func maskSecret(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 8:
		return "****"
	default:
		return secret[:4] + "..." + secret[len(secret)-4:]
	}
}

func valueOrNotSet(v string) string {
	if v == "" {
		return helpers.MutedStyle.Render("(not set)")
	}
	return v
}

// configToMap converts domain.Config to its YAML key/value form
func configToMap(cfg domain.Config) (map[string]interface{}, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	values := map[string]interface{}{}
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to map: %w", err)
	}
	return values, nil
}

// configKeys lists every settable key, including omitempty ones
func configKeys() []string {
	var full domain.Config
	full.APIKey, full.Model, full.OllamaHost, full.OpenRouterAPIKey, full.SystemPrompt = "x", "x", "x", "x", "x"
	values, _ := configToMap(full)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isConfigKey(key string) bool {
	for _, k := range configKeys() {
		if k == key {
			return true
		}
	}
	return false
}
