// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). Following the Ports and Adapters (Hexagonal) pattern,
// these interfaces allow the application to remain independent of specific
// implementations like HTTP backends, the profile file, or the terminal.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., Provider, ConfigStore)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"time"

	"github.com/doeshing/baishi/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.baishi/baishi_profile.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ConfigStore is a ConfigProvider that can also persist a configuration.
type ConfigStore interface {
	ConfigProvider
	Save(context.Context, domain.Config) error
	Path() string
}

// ProviderFactory maps a configuration to exactly one provider variant.
type ProviderFactory interface {
	ForConfig(domain.Config) (Provider, error)
}

// Provider is the capability set shared by every AI backend.
type Provider interface {
	Name() string
	GenerateCommand(ctx context.Context, prompt string) (string, error)
	FormatOutput(ctx context.Context, output, query string) (string, error)
	IsConfigured() bool
}

// CommandExecutor runs shell commands. Failures are reported in the result,
// never as an error.
type CommandExecutor interface {
	Execute(ctx context.Context, command, shell string, timeout time.Duration) domain.ExecutionResult
}

// HistoryRepository persists history entries under a size cap.
type HistoryRepository interface {
	Append(ctx context.Context, entry domain.HistoryEntry, limit int) error
	Records(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
	Clear(ctx context.Context) error
	Path() string
}

// HistoryRepositoryFactory picks the repository for the configured backend.
type HistoryRepositoryFactory interface {
	ForConfig(domain.Config) (HistoryRepository, error)
}

// ConfirmationPrompter asks the user whether to run a generated command.
type ConfirmationPrompter interface {
	ConfirmExecution(command string) (bool, error)
}

// Presenter shows progress of a query run to the user.
type Presenter interface {
	Generating() func(ok bool)
	ShowCommand(command string)
	Executing()
	Formatting() func(ok bool)
}

// SetupPrompter is the question set used by the setup wizard.
type SetupPrompter interface {
	Select(title string, options []Option, current string) (string, error)
	Input(title, current string, validate func(string) error) (string, error)
	Password(title string, validate func(string) error) (string, error)
	Confirm(title string, current bool) (bool, error)
}

// SetupPresenter reports wizard progress between prompts.
type SetupPresenter interface {
	Testing() func(ok bool)
	Notice(msg string)
	Failure(msg string)
}

// Option is one entry in a Select prompt.
type Option struct {
	Label string
	Value string
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
