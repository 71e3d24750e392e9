package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/profscan/profscan/internal/config"
	"github.com/profscan/profscan/internal/database"
)

// NewCompareCmd creates the compare command.
// This command diffs the accepted profiles of two stored runs.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <old-run-id> <new-run-id>",
		Short: "Compare the profiles of two stored runs",
		Long: `Compare shows how the accepted profiles changed between two stored runs.

Profiles are matched by canonical URL. The output lists:
- New profiles that appear only in the newer run
- Dropped profiles that appear only in the older run
- The count of profiles present in both

Run IDs come from the history listing. Use 'profscan history' to see
stored runs and their IDs.

Examples:
  # Compare run 3 against run 7
  profscan compare 3 7

  # Output the comparison as JSON
  profscan compare --json 3 7`,
		Args: cobra.ExactArgs(2),
		RunE: runCompareCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	oldID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run ID %q: %w", args[0], err)
	}
	newID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run ID %q: %w", args[1], err)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	diff, err := db.CompareRuns(cmd.Context(), oldID, newID)
	if err != nil {
		return fmt.Errorf("failed to compare runs: %w", err)
	}

	if jsonOutput {
		return outputComparisonJSON(diff, cmd.OutOrStdout())
	}
	return outputComparisonText(diff, cmd.OutOrStdout())
}

// outputComparisonJSON outputs the run diff in JSON format.
func outputComparisonJSON(diff *database.RunDiff, out io.Writer) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(diff)
}

// outputComparisonText outputs the run diff in human-readable text format.
func outputComparisonText(diff *database.RunDiff, out io.Writer) error {
	fmt.Fprintf(out, "Run comparison: #%d -> #%d\n", diff.OldID, diff.NewID)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	if len(diff.Added) == 0 && len(diff.Removed) == 0 {
		fmt.Fprintf(out, "\nNo changes: %d profile(s) present in both runs.\n", diff.Unchanged)
		return nil
	}

	if len(diff.Added) > 0 {
		fmt.Fprintf(out, "\nNew profiles (%d):\n", len(diff.Added))
		for _, record := range diff.Added {
			fmt.Fprintf(out, "  [+] %s\n      %s\n", record.Title, record.CanonicalURL)
		}
	}

	if len(diff.Removed) > 0 {
		fmt.Fprintf(out, "\nDropped profiles (%d):\n", len(diff.Removed))
		for _, record := range diff.Removed {
			fmt.Fprintf(out, "  [-] %s\n      %s\n", record.Title, record.CanonicalURL)
		}
	}

	fmt.Fprintf(out, "\nUnchanged: %d profile(s)\n", diff.Unchanged)

	return nil
}
