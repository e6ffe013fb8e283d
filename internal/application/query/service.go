// Package query runs a single natural language request end to end:
// generate, display, confirm, execute, format and record.
package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/doeshing/baishi/internal/domain"
	"github.com/doeshing/baishi/internal/ports"
)

// historyOutputLimit bounds the command output copied into a history entry.
const historyOutputLimit = 4096

var (
	// ErrEmptyQuery is returned when there is nothing to translate.
	ErrEmptyQuery = errors.New("no query provided")
	// ErrEmptyCommand is returned when the provider answered with no command.
	ErrEmptyCommand = errors.New("provider returned an empty command")
)

// Service orchestrates the query lifecycle end-to-end.
type Service struct {
	ConfigProvider  ports.ConfigProvider
	ProviderFactory ports.ProviderFactory
	Executor        ports.CommandExecutor
	Prompter        ports.ConfirmationPrompter
	Presenter       ports.Presenter
	History         ports.HistoryRepositoryFactory
	Logger          ports.Logger

	// Now and NewID are replaced in tests.
	Now   func() time.Time
	NewID func() string
}

// Run processes a single natural-language query. Command failures are
// reported through the response, not the error.
func (s *Service) Run(ctx context.Context, req domain.QueryRequest) (domain.QueryResponse, error) {
	if s.ConfigProvider == nil || s.ProviderFactory == nil || s.Executor == nil || s.Logger == nil {
		return domain.QueryResponse{}, errors.New("query.Service dependencies not satisfied")
	}

	req.Query = strings.TrimSpace(req.Query)
	resp := domain.QueryResponse{Query: req.Query}
	if req.Query == "" {
		return resp, ErrEmptyQuery
	}

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return resp, fmt.Errorf("load config: %w", err)
	}
	cfg = cfg.ApplyRequest(req)
	resp.Provider = cfg.Provider

	provider, err := s.ProviderFactory.ForConfig(cfg)
	if err != nil {
		return resp, err
	}
	if !provider.IsConfigured() {
		return resp, domain.NewConfigurationError("Provider %s is not configured. Run: baishi setup", cfg.Provider)
	}

	s.Logger.Debug("calling provider", map[string]interface{}{
		"provider": provider.Name(),
		"model":    cfg.Model,
	})

	presenter := s.presenter()
	done := presenter.Generating()
	raw, err := provider.GenerateCommand(ctx, BuildPrompt(req.Query))
	done(err == nil)
	if err != nil {
		return resp, err
	}
	resp.Command = extractCommand(raw)
	if resp.Command == "" {
		return resp, ErrEmptyCommand
	}
	presenter.ShowCommand(resp.Command)

	confirmed, err := s.confirm(cfg, req, resp.Command)
	if err != nil {
		return resp, err
	}
	resp.Confirmed = confirmed

	if confirmed {
		presenter.Executing()
		result := s.Executor.Execute(ctx, resp.Command, cfg.DefaultShell, time.Duration(cfg.TimeoutMS)*time.Millisecond)
		resp.ExecutionResult = &result
		s.Logger.Debug("command finished", map[string]interface{}{
			"exit_code": result.ExitCode,
			"duration":  result.Duration.String(),
			"timed_out": result.TimedOut,
		})
	}

	// An interrupt during execution still leaves a history entry.
	s.record(context.WithoutCancel(ctx), cfg, resp)

	if confirmed && cfg.ShouldFormat(req) {
		s.format(ctx, provider, &resp)
	}
	return resp, nil
}

func (s *Service) confirm(cfg domain.Config, req domain.QueryRequest, command string) (bool, error) {
	if !cfg.ShouldConfirm(req) {
		return true, nil
	}
	if s.Prompter == nil {
		return false, nil
	}
	ok, err := s.Prompter.ConfirmExecution(command)
	if err != nil {
		return false, fmt.Errorf("confirm execution: %w", err)
	}
	return ok, nil
}

// record appends the history entry whether or not the command ran. Storage
// failures never abort the run.
func (s *Service) record(ctx context.Context, cfg domain.Config, resp domain.QueryResponse) {
	if !cfg.SaveHistory || s.History == nil {
		return
	}

	entry := domain.HistoryEntry{
		ID:               s.newID(),
		Timestamp:        s.now(),
		NaturalLanguage:  resp.Query,
		GeneratedCommand: resp.Command,
		Executed:         resp.Confirmed,
		Provider:         resp.Provider,
	}
	if result := resp.ExecutionResult; result != nil {
		entry.Output = truncate(result.CombinedOutput(), historyOutputLimit)
		entry.ExitCode = result.ExitCode
		entry.Success = result.Success
	}

	repo, err := s.History.ForConfig(cfg)
	if err == nil {
		err = repo.Append(ctx, entry, cfg.HistoryLimit)
	}
	if err != nil {
		s.Logger.Warn("failed to save history", map[string]interface{}{"error": err.Error()})
	}
}

// format swallows formatter failures so the raw output is shown instead.
func (s *Service) format(ctx context.Context, provider ports.Provider, resp *domain.QueryResponse) {
	output := resp.ExecutionResult.CombinedOutput()
	if strings.TrimSpace(output) == "" {
		return
	}

	done := s.presenter().Formatting()
	formatted, err := provider.FormatOutput(ctx, output, resp.Query)
	done(err == nil)
	if err != nil {
		resp.FormatErr = err
		s.Logger.Warn("format output failed, showing raw output", map[string]interface{}{"error": err.Error()})
		return
	}
	resp.Formatted = formatted
}

func (s *Service) presenter() ports.Presenter {
	if s.Presenter == nil {
		return nopPresenter{}
	}
	return s.Presenter
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// truncate cuts text to at most limit bytes without splitting a rune.
func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	n := limit
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return text[:n]
}

type nopPresenter struct{}

func (nopPresenter) Generating() func(bool) { return func(bool) {} }
func (nopPresenter) ShowCommand(string)     {}
func (nopPresenter) Executing()             {}
func (nopPresenter) Formatting() func(bool) { return func(bool) {} }
