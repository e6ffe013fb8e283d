package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/doeshing/baishi/internal/app"
	"github.com/doeshing/baishi/internal/domain"
	"github.com/doeshing/baishi/internal/infrastructure/cli/commands"
	"github.com/doeshing/baishi/internal/infrastructure/cli/helpers"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
	// Interactive forces prompt support on or off; nil detects a terminal.
	Interactive *bool
}

type rootFlags struct {
	noConfirm  bool
	format     bool
	raw        bool
	provider   string
	model      string
	setup      bool
	configPath bool
	history    bool
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, opts Options, args []string) int {
	container, err := app.BuildContainer(ctx, app.Options{Verbose: opts.Verbose})
	if err != nil {
		fmt.Fprintln(os.Stderr, helpers.ErrorStyle.Render("Error: "+err.Error()))
		return 1
	}
	defer container.Close()

	root := NewRootCmd(container, opts)
	root.SetArgs(args)
	return exitCode(root.ErrOrStderr(), root.ExecuteContext(ctx))
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(container *app.Container, opts Options) *cobra.Command {
	interactive := isInteractive(opts)
	prompter := NewPrompter()
	renderer := NewRenderer(os.Stdout, os.Stderr, interactive && term.IsTerminal(int(os.Stderr.Fd())))

	container.QueryService.Presenter = renderer
	if interactive {
		container.QueryService.Prompter = prompter
	} else {
		container.QueryService.Prompter = noTerminalPrompter{}
	}

	var flags rootFlags
	root := &cobra.Command{
		Use:   "baishi [query...]",
		Short: "AI-powered shell wrapper",
		Long:  "baishi converts natural language into shell commands, confirms and runs them.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case flags.setup:
				return commands.RunSetup(cmd, container, prompter, renderer)
			case flags.configPath:
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", helpers.HeadingStyle.Render("Configuration file:"), container.ConfigStore.Path())
				return nil
			case flags.history:
				return commands.ListHistory(cmd.Context(), cmd.OutOrStdout(), container, domain.DefaultHistoryDisplayLimit)
			}
			return runQuery(cmd, container, renderer, prompter, interactive, flags, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.Flags().BoolVarP(&flags.noConfirm, "no-confirm", "n", false, "Execute without confirmation")
	root.Flags().BoolVarP(&flags.format, "format", "f", false, "Format output with AI")
	root.Flags().BoolVarP(&flags.raw, "raw", "r", false, "Show raw command output")
	root.Flags().StringVarP(&flags.provider, "provider", "p", "", "AI provider to use ("+providerNames()+")")
	root.Flags().StringVarP(&flags.model, "model", "m", "", "Model to use")
	root.Flags().BoolVarP(&flags.setup, "setup", "s", false, "Run setup wizard")
	root.Flags().BoolVarP(&flags.configPath, "config", "c", false, "Show configuration path")
	root.Flags().BoolVarP(&flags.history, "history", "H", false, "Show recent command history")

	root.AddCommand(
		commands.NewSetupCommand(container, prompter, renderer),
		commands.NewConfigCommand(container),
		commands.NewHistoryCommand(container),
		commands.NewModelsCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewVersionCommand(),
	)
	return root
}

func runQuery(cmd *cobra.Command, container *app.Container, renderer *Renderer, prompter *Prompter, interactive bool, flags rootFlags, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		if !interactive {
			return errors.New("no query provided, pass it as arguments")
		}
		var err error
		if query, err = prompter.AskQuery(); err != nil {
			return err
		}
	}

	resp, err := container.QueryService.Run(cmd.Context(), domain.QueryRequest{
		Query:            query,
		ProviderOverride: domain.ProviderID(strings.ToLower(flags.provider)),
		ModelOverride:    flags.model,
		NoConfirm:        flags.noConfirm,
		Format:           flags.format,
		Raw:              flags.raw,
	})
	renderer.RenderResponse(resp)
	if err != nil {
		return err
	}
	if code := resp.ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

func exitCode(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, ErrCancelled) {
		fmt.Fprintln(w, helpers.WarnStyle.Render("Cancelled."))
		return 0
	}
	fmt.Fprintln(w, helpers.ErrorStyle.Render("Error: "+err.Error()))
	return 1
}

func isInteractive(opts Options) bool {
	if opts.Interactive != nil {
		return *opts.Interactive
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func providerNames() string {
	names := make([]string, 0, len(domain.KnownProviders))
	for _, p := range domain.KnownProviders {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

// noTerminalPrompter refuses confirmation when stdin is not a terminal.
type noTerminalPrompter struct{}

func (noTerminalPrompter) ConfirmExecution(string) (bool, error) {
	return false, errors.New("cannot ask for confirmation without a terminal, pass --no-confirm to execute")
}
