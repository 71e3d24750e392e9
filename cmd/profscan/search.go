package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/profscan/profscan/internal/browser"
	"github.com/profscan/profscan/internal/config"
	"github.com/profscan/profscan/internal/database"
	"github.com/profscan/profscan/internal/log"
	"github.com/profscan/profscan/internal/model"
	"github.com/profscan/profscan/internal/normalizer"
	"github.com/profscan/profscan/internal/pipeline"
	"github.com/profscan/profscan/internal/report"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search the web for public LinkedIn profiles",
		Long: `Search renders search engine result pages in headless Chrome and
collects links to public LinkedIn profiles.

Each result page is rendered, candidate links are extracted and
validated, and accepted profiles are deduplicated up to the result cap.
When the primary engine fails or yields nothing, fallback engines are
consulted in order.

Accepted records are written to a CSV file (title, link, scraped_at)
that is overwritten on each run, and the run is recorded in a local
history database for later listing and comparison.

Examples:
  # Search with the default engines (Google, then Bing as fallback)
  profscan search "golang engineer"

  # Run several queries, three at a time
  profscan search --batch-file queries.txt --batch 3

  # Collect up to 50 profiles from Bing only
  profscan search --providers bing --max-results 50 "site reliability engineer"

  # Output a Markdown run report alongside the CSV
  profscan search --markdown --report run.md "golang engineer"

  # Use a custom configuration file with per-engine overrides
  profscan search -c myconfig.yaml "golang engineer"

Configuration file (.profscan) example:
  defaults:
    maxPages: 5
    pageDelay: 3s
  providers:
    google:
      pageDelay: 5s
    bing:
      disabled: true`,
		Args: cobra.ArbitraryArgs,
		RunE: runSearchCmd,
	}

	// Search behavior flags
	cmd.Flags().StringSliceP("providers", "P", config.DefaultProviders,
		"Search engines to consult, in order (first is primary, rest are fallbacks)")
	cmd.Flags().IntP("max-results", "n", config.DefaultMaxResults,
		"Maximum number of accepted profiles per query")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum result pages fetched per engine")
	cmd.Flags().Duration("page-delay", config.DefaultPageDelay,
		"Pause between result-page fetches")
	cmd.Flags().Duration("load-wait", config.DefaultLoadWait,
		"Settle time after a result page reports ready")
	cmd.Flags().DurationP("page-timeout", "t", config.DefaultPageTimeout,
		"Timeout for a single page navigation including render wait")
	cmd.Flags().IntP("retry", "r", config.DefaultRetryAttempts,
		"Number of tries for each result-page fetch")

	// Browser flags
	cmd.Flags().Bool("headless", true,
		"Run Chrome without a visible window (disable for debugging)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"Browser identity sent with page loads")
	cmd.Flags().String("chrome-path", "",
		"Explicit Chrome/Chromium binary path (default: probe PATH)")

	// Title policy flags
	cmd.Flags().String("fallback-title", "",
		"Accept candidates with unusable display text under this placeholder title")
	cmd.Flags().Bool("guess-titles", false,
		"Derive titles from the profile URL handle when display text is unusable")

	// Batch flags
	cmd.Flags().StringP("batch-file", "f", "",
		"File with one search query per line ('#' starts a comment)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent queries in batch mode")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .profscan in current or home directory)")

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		"CSV destination for accepted records (overwritten each run)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON run report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown run report (mutually exclusive with --json)")
	cmd.Flags().String("report", "",
		"Write the run report to specified file path instead of stdout")

	// History database flags
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")
	cmd.Flags().Bool("no-save", false,
		"Do not record the run in the history database")

	return cmd
}

// runSearchCmd executes the search command.
func runSearchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with sensitive-value masking
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Interrupt signals cancel the run; partial results are still
	// reported and saved.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runSearch(ctx, cfg, logger, cmd.OutOrStdout())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Providers, err = cmd.Flags().GetStringSlice("providers")
	if err != nil {
		return nil, err
	}

	cfg.MaxResults, err = cmd.Flags().GetInt("max-results")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.PageDelay, err = cmd.Flags().GetDuration("page-delay")
	if err != nil {
		return nil, err
	}

	cfg.LoadWait, err = cmd.Flags().GetDuration("load-wait")
	if err != nil {
		return nil, err
	}

	cfg.PageTimeout, err = cmd.Flags().GetDuration("page-timeout")
	if err != nil {
		return nil, err
	}

	cfg.RetryAttempts, err = cmd.Flags().GetInt("retry")
	if err != nil {
		return nil, err
	}

	cfg.Headless, err = cmd.Flags().GetBool("headless")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.ChromePath, err = cmd.Flags().GetString("chrome-path")
	if err != nil {
		return nil, err
	}

	cfg.FallbackTitle, err = cmd.Flags().GetString("fallback-title")
	if err != nil {
		return nil, err
	}

	cfg.GuessTitles, err = cmd.Flags().GetBool("guess-titles")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("report")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-provider overrides from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently run without overrides.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.ProviderConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave

	cfg.Verbose = getVerboseFlag(cmd)

	// Positional arguments are queries; the batch file adds more
	cfg.Queries = args

	batchFile, err := cmd.Flags().GetString("batch-file")
	if err != nil {
		return nil, err
	}
	if batchFile != "" {
		queries, err := readQueriesFile(batchFile)
		if err != nil {
			return nil, err
		}
		cfg.Queries = append(cfg.Queries, queries...)
	}

	return cfg, nil
}

// readQueriesFile reads search queries from a file, one per line.
// Blank lines and lines starting with '#' are skipped.
func readQueriesFile(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided batch file path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var queries []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	return queries, nil
}

// runSearch executes the search run.
func runSearch(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	logger.Info("starting search",
		"queries", len(cfg.Queries),
		"providers", cfg.Providers,
		"maxResults", cfg.MaxResults,
		"saveToDB", cfg.SaveToDB,
	)

	// Open the history database if saving is enabled
	var db *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		logger.Info("history database opened", "dir", cfg.DBDir)
	}

	factory := newPipelineFactory(ctx, cfg, logger)

	// Use the batch processor for concurrent queries when there is
	// more than one
	if len(cfg.Queries) > 1 && cfg.BatchSize > 1 {
		return runBatchSearch(ctx, cfg, factory, db, logger, out)
	}

	return runSequentialSearch(ctx, cfg, factory, db, logger, out)
}

// newPipelineFactory returns a factory that builds one pipeline per query.
// Each pipeline owns its own browser session; the returned cleanup closes it.
func newPipelineFactory(ctx context.Context, cfg *config.Config, logger *slog.Logger) pipeline.PipelineFactory {
	return func(string) (*pipeline.Pipeline, func(), error) {
		sess, err := browser.NewSession(ctx, sessionOptions(cfg)...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to start browser: %w", err)
		}

		p, err := pipeline.DefaultPipeline(sess, newNormalizer(cfg),
			[]pipeline.Option{
				pipeline.WithLogger(logger),
				// A failed primary engine must not abort the run; the
				// fallback steps pick up from the recorded error.
				pipeline.WithContinueOnError(true),
			},
			pipeline.WithPipelineProviders(cfg.Providers),
			pipeline.WithPipelineMaxPages(cfg.MaxPages),
			pipeline.WithPipelinePageDelay(cfg.PageDelay),
			pipeline.WithPipelineRetryAttempts(cfg.RetryAttempts),
			pipeline.WithPipelineOverrides(cfg.ProviderConfigs),
		)
		if err != nil {
			sess.Close()
			return nil, nil, err
		}

		return p, sess.Close, nil
	}
}

// sessionOptions maps the configuration to browser session options.
func sessionOptions(cfg *config.Config) []browser.Option {
	opts := []browser.Option{
		browser.WithHeadless(cfg.Headless),
		browser.WithPageTimeout(cfg.PageTimeout),
		browser.WithLoadWait(cfg.LoadWait),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, browser.WithUserAgent(cfg.UserAgent))
	}
	if cfg.ChromePath != "" {
		opts = append(opts, browser.WithExecPath(cfg.ChromePath))
	}
	return opts
}

// newNormalizer creates the candidate normalizer with the configured
// title policy.
func newNormalizer(cfg *config.Config) *normalizer.Normalizer {
	var opts []normalizer.Option
	if cfg.GuessTitles {
		opts = append(opts, normalizer.WithGuessedTitles())
	}
	if cfg.FallbackTitle != "" {
		opts = append(opts, normalizer.WithFallbackTitle(cfg.FallbackTitle))
	}
	return normalizer.New(opts...)
}

// runSequentialSearch runs queries one at a time.
func runSequentialSearch(ctx context.Context, cfg *config.Config, factory pipeline.PipelineFactory, db *database.HistoryDB, logger *slog.Logger, out io.Writer) error {
	multi := len(cfg.Queries) > 1

	for _, query := range cfg.Queries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		runReport := model.NewRunReport(query, cfg.MaxResults)

		p, cleanup, err := factory(query)
		if err != nil {
			if !multi {
				return err
			}
			logger.Error("pipeline setup failed", "query", query, "error", err)
			fmt.Fprintf(os.Stderr, "Search error for %q: %v\n", query, err)
			continue
		}

		fmt.Fprintf(out, "Searching %q...\n", query)
		startTime := time.Now()

		execErr := p.Execute(ctx, runReport)
		cleanup()

		runReport.Finish()
		runReport.Summary = model.NewRunSummary(runReport)

		if execErr != nil {
			logger.Error("search failed", "query", query, "error", execErr)
		}

		fmt.Fprintf(out, "Search completed in %s: %d profile(s)\n\n",
			time.Since(startTime).Round(time.Millisecond), runReport.AcceptedCount())

		finishRun(ctx, cfg, runReport, db, logger, out, multi)

		// An interrupted run still reported its partial results above;
		// stop processing further queries.
		if ctx.Err() != nil {
			return execErr
		}
	}

	return nil
}

// runBatchSearch runs multiple queries concurrently using BatchProcessor.
func runBatchSearch(ctx context.Context, cfg *config.Config, factory pipeline.PipelineFactory, db *database.HistoryDB, logger *slog.Logger, out io.Writer) error {
	fmt.Fprintf(out, "Starting batch search of %d queries (concurrency: %d)...\n\n",
		len(cfg.Queries), cfg.BatchSize)

	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(factory,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
		pipeline.WithBatchMaxResults(cfg.MaxResults),
	)

	reports, err := bp.ProcessBatch(ctx, cfg.Queries)

	for i, runReport := range reports {
		if runReport == nil {
			continue
		}
		fmt.Fprintf(out, "[%d/%d] %q: %d profile(s)\n",
			i+1, len(reports), runReport.Query, runReport.AcceptedCount())

		finishRun(ctx, cfg, runReport, db, logger, out, true)
	}

	fmt.Fprintf(out, "\nBatch search completed in %s\n",
		time.Since(startTime).Round(time.Millisecond))

	return err
}

// finishRun writes the run report, exports the CSV, and saves the run.
// Output failures are logged rather than returned: the run itself is
// complete at this point and its results should reach as many sinks as
// possible.
func finishRun(ctx context.Context, cfg *config.Config, runReport *model.RunReport, db *database.HistoryDB, logger *slog.Logger, out io.Writer, multi bool) {
	if err := outputRunReport(cfg, runReport, out); err != nil {
		logger.Error("report output failed", "query", runReport.Query, "error", err)
	}

	csvPath := csvPathFor(cfg.OutputFile, runReport.Query, multi)
	if err := report.WriteCSVFile(csvPath, runReport); err != nil {
		logger.Error("csv export failed", "query", runReport.Query, "error", err)
	} else {
		fmt.Fprintf(out, "Records written to %s\n\n", csvPath)
	}

	// Partial results from an interrupted run are still worth keeping
	saveRunReport(context.WithoutCancel(ctx), db, runReport, logger)
}

// csvPathFor returns the CSV destination for a query's records.
// Single-query runs use the configured path as-is; multi-query runs get
// a per-query file so exports don't overwrite each other.
func csvPathFor(base, query string, multi bool) string {
	if !multi {
		return base
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_" + querySlug(query) + ext
}

// querySlug derives a filesystem-safe slug from a search query.
func querySlug(query string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(query) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > 40 {
		slug = strings.Trim(slug[:40], "-")
	}
	if slug == "" {
		slug = "query"
	}
	return slug
}

// outputRunReport outputs the run report in the requested format.
func outputRunReport(cfg *config.Config, runReport *model.RunReport, out io.Writer) error {
	output := out
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output)
	}

	_, err := w.Write(runReport)
	return err
}

// saveRunReport saves the run to the history database if enabled.
// If db is nil, this function is a no-op.
func saveRunReport(ctx context.Context, db *database.HistoryDB, runReport *model.RunReport, logger *slog.Logger) {
	if db == nil {
		return
	}

	id, err := db.SaveRunReport(ctx, runReport)
	if err != nil {
		logger.Error("failed to save run", "query", runReport.Query, "error", err)
		return
	}

	logger.Info("run saved to history database", "query", runReport.Query, "runID", id)
}
