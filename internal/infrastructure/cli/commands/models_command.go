package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/baishi/internal/app"
	"github.com/doeshing/baishi/internal/application/setup"
	"github.com/doeshing/baishi/internal/domain"
	"github.com/doeshing/baishi/internal/infrastructure/cli/helpers"
)

// NewModelsCommand creates the models command with all subcommands
func NewModelsCommand(container *app.Container) *cobra.Command {
	var provider string

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "List available providers and models",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listModels(cmd.Context(), cmd.OutOrStdout(), container, provider)
		},
	}
	modelsCmd.Flags().StringVarP(&provider, "provider", "p", "", "Only list models for this provider")

	modelsCmd.AddCommand(
		newModelsListCommand(container),
		newModelsTestCommand(container),
		newModelsUseCommand(container),
	)

	return modelsCmd
}

// newModelsListCommand creates the 'models list' subcommand
func newModelsListCommand(container *app.Container) *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available providers and models",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listModels(cmd.Context(), cmd.OutOrStdout(), container, provider)
		},
	}
	cmd.Flags().StringVarP(&provider, "provider", "p", "", "Only list models for this provider")
	return cmd
}

// newModelsTestCommand creates the 'models test' subcommand
func newModelsTestCommand(container *app.Container) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "test [provider]",
		Short: "Generate a sample command to test connectivity",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := ""
			if len(args) == 1 {
				provider = args[0]
			}
			return testModel(cmd.Context(), cmd.OutOrStdout(), container, provider, model)
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model to test")
	return cmd
}

// newModelsUseCommand creates the 'models use' subcommand
func newModelsUseCommand(container *app.Container) *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "use <model>",
		Short: "Set the default model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setDefaultModel(cmd.Context(), cmd.OutOrStdout(), container, provider, args[0])
		},
	}
	cmd.Flags().StringVarP(&provider, "provider", "p", "", "Switch provider as well")
	return cmd
}

// listModels prints the catalog, marking the default and the active model
func listModels(ctx context.Context, out io.Writer, container *app.Container, filter string) error {
	catalog := container.ProviderFactory.Catalog()
	if filter != "" {
		if _, err := lookupProvider(catalog, filter); err != nil {
			return err
		}
	}

	cfg, err := container.ConfigStore.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg = cfg.WithDefaults()
	active := cfg.Model
	if active == "" {
		if desc, ok := catalog.Lookup(cfg.Provider); ok {
			active = desc.DefaultModel
		}
	}

	for _, desc := range catalog {
		if filter != "" && string(desc.ID) != strings.ToLower(filter) {
			continue
		}
		heading := fmt.Sprintf("%s (%s)", desc.Name, desc.ID)
		if desc.ID == cfg.Provider {
			heading += " " + helpers.SuccessStyle.Render("[active]")
		}
		fmt.Fprintln(out, helpers.HeadingStyle.Render(heading))
		if !desc.RequiresAPIKey {
			fmt.Fprintln(out, helpers.MutedStyle.Render("  no API key required"))
		}
		for _, model := range desc.Models {
			var marks []string
			if model == desc.DefaultModel {
				marks = append(marks, "default")
			}
			if desc.ID == cfg.Provider && model == active {
				marks = append(marks, "current")
			}
			line := "  - " + model
			if len(marks) > 0 {
				line += " " + helpers.MutedStyle.Render("("+strings.Join(marks, ", ")+")")
			}
			fmt.Fprintln(out, line)
		}
		fmt.Fprintln(out)
	}
	return nil
}

// testModel generates the setup sample command with the chosen provider
func testModel(ctx context.Context, out io.Writer, container *app.Container, provider, model string) error {
	cfg, err := container.ConfigStore.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg = cfg.ApplyRequest(domain.QueryRequest{
		ProviderOverride: domain.ProviderID(strings.ToLower(provider)),
		ModelOverride:    model,
	})

	fmt.Fprintf(out, "Testing %s with %q...\n", cfg.Provider, setup.SampleQuery)
	command, err := setup.GenerateSample(ctx, container.ProviderFactory, cfg)
	if err != nil {
		return fmt.Errorf("model test failed: %w", err)
	}
	fmt.Fprintln(out, helpers.SuccessStyle.Render("✔ Provider responded"))
	fmt.Fprintln(out, helpers.FormatCommand(command))
	return nil
}

// setDefaultModel stores model (and optionally provider) in the profile
func setDefaultModel(ctx context.Context, out io.Writer, container *app.Container, provider, model string) error {
	cfg, err := container.ConfigStore.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if provider != "" {
		desc, err := lookupProvider(container.ProviderFactory.Catalog(), provider)
		if err != nil {
			return err
		}
		cfg.Provider = desc.ID
	}

	if desc, ok := container.ProviderFactory.Catalog().Lookup(cfg.Provider); ok && !desc.HasModel(model) {
		fmt.Fprintln(out, helpers.WarnStyle.Render(fmt.Sprintf("%s is not in the %s catalog, using it anyway", model, desc.Name)))
	}
	cfg.Model = model

	if err := container.ConfigStore.Save(ctx, cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	fmt.Fprintf(out, "Default model set to %s (%s)\n", model, cfg.Provider)
	return nil
}

func lookupProvider(catalog domain.ProviderCatalog, name string) (domain.ProviderDescriptor, error) {
	desc, ok := catalog.Lookup(domain.ProviderID(strings.ToLower(name)))
	if !ok {
		return desc, fmt.Errorf("unknown provider %s", name)
	}
	return desc, nil
}
