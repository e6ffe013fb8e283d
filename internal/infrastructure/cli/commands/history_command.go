package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/baishi/internal/app"
	"github.com/doeshing/baishi/internal/domain"
	"github.com/doeshing/baishi/internal/infrastructure/cli/helpers"
	"github.com/doeshing/baishi/internal/ports"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent command history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return errors.New(ErrInvalidLimit)
			}
			return ListHistory(cmd.Context(), cmd.OutOrStdout(), container, limit)
		},
	}
	historyCmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryDisplayLimit, "Max entries to show")

	historyCmd.AddCommand(
		newHistorySearchCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
		newHistoryStatsCommand(container),
	)

	return historyCmd
}

// newHistorySearchCommand creates the 'history search' subcommand
func newHistorySearchCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search history for a keyword",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return errors.New(ErrInvalidLimit)
			}
			return searchHistoryEntries(cmd.Context(), cmd.OutOrStdout(), container, strings.Join(args, " "), limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryDisplayLimit, "Limit search results")
	return cmd
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear command history",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(cmd.Context(), container)
			if err != nil {
				return err
			}
			if err := store.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), helpers.SuccessStyle.Render(MsgHistoryCleared))
			return nil
		},
	}
}

// newHistoryExportCommand creates the 'history export' subcommand
func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export history to JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := exportHistory(cmd.Context(), container, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", n, args[0])
			return nil
		},
	}
}

// newHistoryStatsCommand creates the 'history stats' subcommand
func newHistoryStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show success rate and top commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistoryStats(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}
}

// ListHistory prints the newest limit entries, oldest first.
func ListHistory(ctx context.Context, out io.Writer, container *app.Container, limit int) error {
	store, err := historyStore(ctx, container)
	if err != nil {
		return err
	}
	records, err := store.Records(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to retrieve history records: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, helpers.MutedStyle.Render(MsgNoHistoryRecorded))
		return nil
	}

	fmt.Fprintln(out, helpers.HeadingStyle.Render(fmt.Sprintf("Recent Commands (last %d):", len(records))))
	fmt.Fprintln(out, helpers.Rule(ruleWidth))
	for _, rec := range records {
		displayHistoryEntry(out, rec)
	}
	return nil
}

// searchHistoryEntries lists entries whose query or command contains keyword
func searchHistoryEntries(ctx context.Context, out io.Writer, container *app.Container, keyword string, limit int) error {
	store, err := historyStore(ctx, container)
	if err != nil {
		return err
	}
	records, err := store.Records(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to search history: %w", err)
	}

	matches := filterHistory(records, keyword, limit)
	if len(matches) == 0 {
		fmt.Fprintf(out, "No history entries match %q.\n", keyword)
		return nil
	}
	for _, rec := range matches {
		displayHistoryEntry(out, rec)
	}
	return nil
}

// filterHistory keeps the newest limit case-insensitive matches, oldest first
func filterHistory(records []domain.HistoryEntry, keyword string, limit int) []domain.HistoryEntry {
	needle := strings.ToLower(keyword)
	var matches []domain.HistoryEntry
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.NaturalLanguage), needle) ||
			strings.Contains(strings.ToLower(rec.GeneratedCommand), needle) {
			matches = append(matches, rec)
		}
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[len(matches)-limit:]
	}
	return matches
}

// exportHistory writes every entry as one JSON object per line
func exportHistory(ctx context.Context, container *app.Container, path string) (int, error) {
	store, err := historyStore(ctx, container)
	if err != nil {
		return 0, err
	}
	records, err := store.Records(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to read history: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.SecureFilePermissions)
	if err != nil {
		return 0, fmt.Errorf("failed to export history to %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return 0, fmt.Errorf("failed to export history to %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return 0, fmt.Errorf("failed to export history to %s: %w", path, err)
	}
	return len(records), nil
}

// showHistoryStats displays success rate and top commands
func showHistoryStats(ctx context.Context, out io.Writer, container *app.Container) error {
	store, err := historyStore(ctx, container)
	if err != nil {
		return err
	}
	records, err := store.Records(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to retrieve history for analysis: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	stats := helpers.AnalyzeHistory(records, topCommandLimit)
	fmt.Fprintf(out, "Entries analyzed: %d\nExecuted: %d\nSuccess rate: %.1f%%\n",
		stats.Total, stats.Executed, stats.SuccessRate())

	fmt.Fprintln(out, "Top commands:")
	for _, stat := range stats.Top {
		fmt.Fprintf(out, "  %s (%d)\n", stat.Command, stat.Count)
	}

	if len(stats.ByProvider) > 0 {
		fmt.Fprintln(out, "Providers:")
		providers := make([]string, 0, len(stats.ByProvider))
		for p := range stats.ByProvider {
			providers = append(providers, string(p))
		}
		sort.Strings(providers)
		for _, p := range providers {
			fmt.Fprintf(out, "  %s: %d\n", p, stats.ByProvider[domain.ProviderID(p)])
		}
	}
	return nil
}

func displayHistoryEntry(out io.Writer, rec domain.HistoryEntry) {
	fmt.Fprintf(out, "%s %s\n",
		helpers.MutedStyle.Render("["+rec.Timestamp.Local().Format(domain.TimestampFormat)+"]"),
		rec.NaturalLanguage)
	fmt.Fprintf(out, "  Command:  %s\n", helpers.CommandStyle.Render(rec.GeneratedCommand))
	executed := helpers.YesNo(rec.Executed)
	if rec.Executed {
		executed += fmt.Sprintf(" (exit %d)", rec.ExitCode)
	}
	fmt.Fprintf(out, "  Executed: %s\n\n", executed)
}

func historyStore(ctx context.Context, container *app.Container) (ports.HistoryRepository, error) {
	store, err := container.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrHistoryStoreUnavailable, err)
	}
	return store, nil
}
