package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/profscan/profscan/internal/config"
	"github.com/profscan/profscan/internal/database"
	"github.com/profscan/profscan/internal/report"
)

// NewHistoryCmd creates the history command.
// This command lists past runs stored in the history database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [query]",
		Short: "List past runs stored in the history database",
		Long: `History lists search runs recorded in the local history database.

Each completed run is stored with its query, consulted engines, page
and classification counters, and the accepted profile records in
insertion order.

Examples:
  # List all stored runs
  profscan history

  # List runs for one query
  profscan history "golang engineer"

  # Show the full report of a stored run
  profscan history --show 5

  # Output run metadata as JSON
  profscan history --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64P("show", "s", 0,
		"Show the full report for a stored run by ID (use the list to find IDs)")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	showID, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if showID > 0 {
		return showRun(ctx, db, showID, jsonOutput, out)
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	return listRunHistory(ctx, db, query, jsonOutput, out)
}

// showRun prints the full report of one stored run.
func showRun(ctx context.Context, db *database.HistoryDB, id int64, jsonOutput bool, out io.Writer) error {
	summary, err := db.GetRun(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load run %d: %w", id, err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summary)
	}

	_, err = report.NewSimpleWriter(out).WriteSummary(summary)
	return err
}

// listRunHistory lists stored runs, optionally filtered by query.
func listRunHistory(ctx context.Context, db *database.HistoryDB, query string, jsonOutput bool, out io.Writer) error {
	history, err := db.RunHistory(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(history)
	}

	if len(history) == 0 {
		if query != "" {
			fmt.Fprintf(out, "No runs found for %q\n", query)
		} else {
			fmt.Fprintln(out, "No runs found in the history database.")
		}
		fmt.Fprintln(out, "\nUse 'profscan search <query>' to run a search.")
		return nil
	}

	fmt.Fprintf(out, "Stored runs (%d):\n\n", len(history))
	fmt.Fprintf(out, "  %-6s  %-19s  %-30s  %8s  %s\n", "ID", "Date", "Query", "Profiles", "Status")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 78))

	for _, meta := range history {
		fmt.Fprintf(out, "  %-6d  %-19s  %-30s  %8d  %s\n",
			meta.ID,
			meta.StartedAt.Format("2006-01-02 15:04:05"),
			truncateQuery(meta.Query, 30),
			meta.AcceptedCount,
			formatRunStatus(meta),
		)
	}

	fmt.Fprintln(out, "\nUse 'profscan history --show <id>' to see a run's full report.")
	fmt.Fprintln(out, "Use 'profscan compare <old-id> <new-id>' to diff two runs.")

	return nil
}

// formatRunStatus summarizes a stored run's outcome in one word.
func formatRunStatus(meta database.RunMetadata) string {
	switch {
	case meta.Error != "":
		return "error"
	case meta.TimedOut:
		return "timed out"
	case meta.Saturated:
		return "full"
	default:
		return "ok"
	}
}

// truncateQuery shortens a query for table display.
func truncateQuery(query string, maxLen int) string {
	if len(query) <= maxLen {
		return query
	}
	return query[:maxLen-3] + "..."
}
