package app

import (
	"context"
	"os/exec"
	"path/filepath"

	"github.com/doeshing/baishi/internal/application/doctor"
	"github.com/doeshing/baishi/internal/application/query"
	"github.com/doeshing/baishi/internal/application/setup"
	"github.com/doeshing/baishi/internal/infrastructure/ai"
	"github.com/doeshing/baishi/internal/infrastructure/config"
	"github.com/doeshing/baishi/internal/infrastructure/executor"
	"github.com/doeshing/baishi/internal/infrastructure/history"
	"github.com/doeshing/baishi/internal/pkg/filesystem"
	"github.com/doeshing/baishi/internal/pkg/logger"
	"github.com/doeshing/baishi/internal/ports"
)

// Options controls container construction.
type Options struct {
	Verbose bool
	// ConfigDir overrides the profile and history directory.
	ConfigDir string
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	QueryService    *query.Service
	DoctorService   *doctor.Service
	ConfigStore     ports.ConfigStore
	ProviderFactory *ai.Factory
	HistoryFactory  *history.Factory
	Logger          *logger.ZapLogger
}

// BuildContainer constructs the dependency graph. Nothing is read from disk
// until a service runs.
func BuildContainer(_ context.Context, opts Options) (*Container, error) {
	dir := opts.ConfigDir
	if dir == "" {
		dir = filesystem.ConfigDir()
	}

	log := logger.New(opts.Verbose)
	cfgLoader := config.NewFileLoader(filepath.Join(dir, config.ProfileFileName), log)
	providers := ai.NewFactory()
	historyFactory := history.NewFactory(dir, log)

	queryService := &query.Service{
		ConfigProvider:  cfgLoader,
		ProviderFactory: providers,
		Executor:        executor.NewLocalExecutor(log),
		History:         historyFactory,
		Logger:          log,
	}

	doctorService := &doctor.Service{
		ConfigStore:     cfgLoader,
		ProviderFactory: providers,
		History:         historyFactory,
		ResolveShell: func(shell string) (string, error) {
			return exec.LookPath(executor.ResolveShell(shell))
		},
	}

	return &Container{
		QueryService:    queryService,
		DoctorService:   doctorService,
		ConfigStore:     cfgLoader,
		ProviderFactory: providers,
		HistoryFactory:  historyFactory,
		Logger:          log,
	}, nil
}

// SetupWizard returns a wizard bound to the given terminal adapters.
func (c *Container) SetupWizard(prompter ports.SetupPrompter, presenter ports.SetupPresenter) *setup.Wizard {
	return &setup.Wizard{
		Store:           c.ConfigStore,
		Prompter:        prompter,
		Presenter:       presenter,
		ProviderFactory: c.ProviderFactory,
		Catalog:         c.ProviderFactory.Catalog(),
		Logger:          c.Logger,
	}
}

// History returns the repository for the current profile.
func (c *Container) History(ctx context.Context) (ports.HistoryRepository, error) {
	cfg, err := c.ConfigStore.Load(ctx)
	if err != nil {
		return nil, err
	}
	return c.HistoryFactory.ForConfig(cfg)
}

// Close releases open stores and flushes logs.
func (c *Container) Close() error {
	err := c.HistoryFactory.Close()
	c.Logger.Sync()
	return err
}
