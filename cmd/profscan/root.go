// Package main provides the entry point for the profscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for profscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profscan",
		Short: "Collect public LinkedIn profile links from web search results",
		Long: `profscan renders search engine result pages in headless Chrome and
collects links to public LinkedIn profiles.

Candidates extracted from the result pages are validated, deduplicated,
and capped per run. Accepted records are exported to CSV and recorded
in a local history database for later listing and comparison.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
