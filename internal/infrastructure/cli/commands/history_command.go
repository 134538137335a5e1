package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/wxq/internal/app"
	"github.com/doeshing/wxq/internal/domain"
	"github.com/doeshing/wxq/internal/infrastructure/cli/helpers"
	"github.com/doeshing/wxq/internal/infrastructure/history"
	"github.com/doeshing/wxq/internal/ports"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(lazy *app.Lazy) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the lookup history",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(lazy),
		newHistorySearchCommand(lazy),
		newHistoryClearCommand(lazy),
		newHistoryExportCommand(lazy),
		newHistoryStatsCommand(lazy),
		newHistoryPruneCommand(lazy),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(lazy *app.Lazy) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent lookups",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(lazy)
			if err != nil {
				return err
			}
			return listHistoryEntries(cmd.OutOrStdout(), store, limit, time.Now())
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryLimit, "Max entries to show")
	return cmd
}

// newHistorySearchCommand creates the 'history search' subcommand
func newHistorySearchCommand(lazy *app.Lazy) *cobra.Command {
	var query string
	var searchLimit int

	cmd := &cobra.Command{
		Use:   "search [keyword]",
		Short: "Search history by city or message",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" && len(args) == 1 {
				query = args[0]
			}
			if query == "" {
				return errors.New(ErrQueryRequired)
			}
			store, err := historyStore(lazy)
			if err != nil {
				return err
			}
			return searchHistoryEntries(cmd.OutOrStdout(), store, query, searchLimit)
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Search keyword")
	cmd.Flags().IntVar(&searchLimit, "limit", DefaultHistorySearchLimit, "Limit search results")
	return cmd
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(lazy *app.Lazy) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(lazy)
			if err != nil {
				return err
			}
			return clearHistory(cmd.OutOrStdout(), helpers.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()), store, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// newHistoryExportCommand creates the 'history export' subcommand
func newHistoryExportCommand(lazy *app.Lazy) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export history to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(lazy)
			if err != nil {
				return err
			}
			if err := store.ExportJSON(args[0]); err != nil {
				return fmt.Errorf("failed to export history to %s: %w", args[0], err)
			}
			return nil
		},
	}
}

// newHistoryStatsCommand creates the 'history stats' subcommand
func newHistoryStatsCommand(lazy *app.Lazy) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show success rate, failure breakdown and top cities",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore(lazy)
			if err != nil {
				return err
			}
			return showHistoryStats(cmd.OutOrStdout(), store)
		},
	}
}

// newHistoryPruneCommand creates the 'history prune' subcommand
func newHistoryPruneCommand(lazy *app.Lazy) *cobra.Command {
	var retainDays int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete history older than N days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if retainDays <= 0 {
				return errors.New(ErrInvalidRetainDays)
			}
			store, err := historyStore(lazy)
			if err != nil {
				return err
			}
			if err := store.PruneOlderThan(retainDays); err != nil {
				return fmt.Errorf("failed to prune old history: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Retained last %d days of history.\n", retainDays)
			return nil
		},
	}

	cmd.Flags().IntVar(&retainDays, "days", DefaultHistoryRetainDays, "Days to retain history")
	return cmd
}

func historyStore(lazy *app.Lazy) (ports.HistoryRepository, error) {
	container, err := lazy.Container()
	if err != nil {
		return nil, err
	}
	if container.HistoryStore != nil {
		return container.HistoryStore, nil
	}
	if errors.Is(container.HistoryError, history.ErrDisabled) {
		return nil, errors.New(MsgHistoryDisabled)
	}
	if container.HistoryError != nil {
		return nil, fmt.Errorf("%s: %w", ErrHistoryStoreUnavailable, container.HistoryError)
	}
	return nil, errors.New(ErrHistoryStoreUnavailable)
}

// clearHistory deletes every entry after confirmation
func clearHistory(out io.Writer, prompter *helpers.Prompter, store ports.HistoryRepository, yes bool) error {
	if !yes {
		ok, err := prompter.Confirm(fmt.Sprintf("Delete all history at %s?", store.Path()))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, MsgClearCancelled)
			return nil
		}
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	fmt.Fprintf(out, "Cleared history at %s\n", store.Path())
	return nil
}

// listHistoryEntries lists recent history entries
func listHistoryEntries(out io.Writer, store ports.HistoryRepository, limit int, now time.Time) error {
	records, err := store.Records(limit, "")
	if err != nil {
		return fmt.Errorf("failed to retrieve history records: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(out, "%-14s | %-9s | %s | %s\n",
			humanize.RelTime(rec.Timestamp, now, "ago", "from now"),
			rec.Outcome,
			rec.City,
			summarize(rec))
	}
	return nil
}

// searchHistoryEntries searches history for a keyword
func searchHistoryEntries(out io.Writer, store ports.HistoryRepository, query string, limit int) error {
	records, err := store.Records(limit, query)
	if err != nil {
		return fmt.Errorf("failed to search history: %w", err)
	}

	for _, rec := range records {
		fmt.Fprintf(out, "%s | %s | %s\n",
			rec.Timestamp.Local().Format(TimestampFormat),
			rec.City,
			summarize(rec))
	}
	return nil
}

// showHistoryStats displays success rate, failure kinds and top cities
func showHistoryStats(out io.Writer, store ports.HistoryRepository) error {
	records, err := store.Records(MaxHistoryAnalysisRecords, "")
	if err != nil {
		return fmt.Errorf("failed to retrieve history for analysis: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	stats := helpers.AnalyzeHistory(records)
	fmt.Fprintf(out, "Lookups analyzed: %s\nSuccess rate: %.1f%%\nAverage latency: %s ms\n",
		humanize.Comma(int64(stats.Total)),
		helpers.CalculateSuccessRate(stats.Successful, stats.Total),
		humanize.CommafWithDigits(stats.AverageDurationMS(), 1))

	if len(stats.Failures) > 0 {
		fmt.Fprintln(out, "Failures:")
		for _, outcome := range []domain.HistoryOutcome{"transport", "http", "decode"} {
			if count := stats.Failures[outcome]; count > 0 {
				fmt.Fprintf(out, "  %s: %d\n", outcome, count)
			}
		}
	}

	fmt.Fprintln(out, "Top cities:")
	for _, stat := range helpers.CalculateTopCities(stats.CityFrequency, 5) {
		fmt.Fprintf(out, "  %s (%d)\n", stat.City, stat.Count)
	}
	return nil
}

func summarize(rec domain.HistoryRecord) string {
	if rec.Succeeded() {
		summary := rec.Condition
		if rec.Temperature != nil {
			summary = fmt.Sprintf("%s°C %s", humanize.Ftoa(*rec.Temperature), rec.Condition)
		}
		return summary
	}
	return rec.Message
}
