package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/baishi/internal/app"
	"github.com/doeshing/baishi/internal/infrastructure/cli/helpers"
	"github.com/doeshing/baishi/internal/ports"
)

var setupExamples = []string{
	`baishi "show all python files modified today"`,
	`baishi "compress all images in current folder"`,
	`baishi "find large files over 100MB"`,
}

// NewSetupCommand creates the setup command
func NewSetupCommand(container *app.Container, prompter ports.SetupPrompter, presenter ports.SetupPresenter) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Run the interactive setup wizard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunSetup(cmd, container, prompter, presenter)
		},
	}
}

// RunSetup runs the wizard and prints where the profile was saved.
func RunSetup(cmd *cobra.Command, container *app.Container, prompter ports.SetupPrompter, presenter ports.SetupPresenter) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, helpers.HeadingStyle.Render("Welcome to the baishi setup wizard!"))
	fmt.Fprintln(out)

	if _, err := container.SetupWizard(prompter, presenter).Run(cmd.Context()); err != nil {
		return err
	}

	displaySetupComplete(out, container.ConfigStore.Path())
	return nil
}

func displaySetupComplete(out io.Writer, path string) {
	fmt.Fprintln(out, helpers.SuccessStyle.Render("\n✔ Setup complete!"))
	fmt.Fprintln(out, helpers.MutedStyle.Render("Configuration saved to: "+path))
	fmt.Fprintln(out, "\nYou can now use baishi by running:")
	fmt.Fprintln(out, `  baishi "your command in natural language"`)
	fmt.Fprintln(out, "  or just type: baishi")
	fmt.Fprintln(out, helpers.MutedStyle.Render("\nExamples:"))
	for _, example := range setupExamples {
		fmt.Fprintln(out, helpers.MutedStyle.Render("  "+example))
	}
}
