package doctor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	appconfig "github.com/doeshing/baishi/internal/application/config"
	"github.com/doeshing/baishi/internal/domain"
	"github.com/doeshing/baishi/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigStore     ports.ConfigStore
	ProviderFactory ports.ProviderFactory
	History         ports.HistoryRepositoryFactory
	// ResolveShell maps the configured shell to an executable path.
	ResolveShell func(shell string) (string, error)
}

// Run executes checks and returns a report. The error is only set when the
// profile itself could not be loaded.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigStore.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, profileCheck(s.ConfigStore.Path()))

	if err := appconfig.Validate(cfg); err != nil {
		checks = append(checks, warn("Configuration", err.Error()))
	} else {
		checks = append(checks, ok("Configuration", "all values valid"))
	}

	checks = append(checks, s.providerCheck(cfg))
	checks = append(checks, s.shellCheck(cfg))
	checks = append(checks, s.historyCheck(ctx, cfg))

	return domain.HealthReport{Checks: checks}, nil
}

func profileCheck(path string) domain.HealthCheck {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return warn("Config file", fmt.Sprintf("%s not found, using defaults (run: baishi setup)", path))
		}
		return fail("Config file", err.Error())
	}
	return ok("Config file", fmt.Sprintf("loaded %s", path))
}

func (s *Service) providerCheck(cfg domain.Config) domain.HealthCheck {
	if s.ProviderFactory == nil {
		return warn("Provider", "provider factory not initialized")
	}
	provider, err := s.ProviderFactory.ForConfig(cfg)
	if err != nil {
		return fail("Provider", err.Error())
	}
	if !provider.IsConfigured() {
		return fail("Provider", fmt.Sprintf("%s has no API key (run: baishi setup)", cfg.Provider))
	}
	model := cfg.Model
	if model == "" {
		model = "default model"
	}
	return ok("Provider", fmt.Sprintf("%s ready (%s)", cfg.Provider, model))
}

func (s *Service) shellCheck(cfg domain.Config) domain.HealthCheck {
	if s.ResolveShell == nil {
		return warn("Shell", "shell resolver not initialized")
	}
	path, err := s.ResolveShell(cfg.DefaultShell)
	if err != nil {
		return fail("Shell", err.Error())
	}
	return ok("Shell", path)
}

func (s *Service) historyCheck(ctx context.Context, cfg domain.Config) domain.HealthCheck {
	if !cfg.SaveHistory {
		return ok("History", "disabled")
	}
	if s.History == nil {
		return warn("History", "history store not initialized")
	}
	repo, err := s.History.ForConfig(cfg)
	if err != nil {
		return fail("History", err.Error())
	}
	records, err := repo.Records(ctx, 0)
	if err != nil {
		return warn("History", fmt.Sprintf("%s unreadable: %v", repo.Path(), err))
	}
	return ok("History", fmt.Sprintf("%d/%d entries in %s (%s)", len(records), cfg.HistoryLimit, repo.Path(), cfg.HistoryBackend))
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
