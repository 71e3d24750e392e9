package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are chosen to stay under typical search-engine rate limits
// while still collecting a useful number of profiles per run.
const (
	// DefaultMaxResults caps the number of accepted profile records per run.
	// 30 results covers three full result pages on most engines, which is
	// enough for prospecting without hammering the engine.
	DefaultMaxResults = 30

	// DefaultMaxPages limits how many result pages are fetched per provider.
	// Engines rarely return useful profile links beyond page 5, and deeper
	// pagination sharply increases the chance of rate limiting.
	DefaultMaxPages = 5

	// DefaultPageDelay is the pause between result-page fetches.
	// 3 seconds keeps request cadence close to human browsing speed.
	DefaultPageDelay = 3 * time.Second

	// DefaultLoadWait is the settle time after a result page reports ready.
	// Engines render result blocks with deferred scripts; 2 seconds lets
	// the DOM stabilize before extraction.
	DefaultLoadWait = 2 * time.Second

	// DefaultPageTimeout bounds a single navigation including render wait.
	// 30 seconds is generous for a search result page; anything slower is
	// almost certainly an interstitial rather than results.
	DefaultPageTimeout = 30 * time.Second

	// DefaultRetryAttempts is the number of tries for one result page.
	// 2 attempts recovers from transient render failures without turning
	// a blocked engine into a retry storm.
	DefaultRetryAttempts = 2

	// DefaultBatchSize is the number of concurrent queries in batch mode.
	// Each query owns a full Chrome instance, so this stays far below
	// typical network-bound concurrency defaults.
	DefaultBatchSize = 3

	// DefaultOutputFile is the CSV file that accepted records are written to.
	// The file is overwritten on each run.
	DefaultOutputFile = "linkedin_profiles.csv"

	// DefaultUserAgent is the browser identity sent with page loads.
	// A current desktop Chrome string; headless Chrome's own UA advertises
	// automation and draws interstitials on every engine.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// AppName is the application name used for XDG directory paths.
	AppName = "profscan"
)

// DefaultProviders is the provider order for a run: the first entry is
// queried directly, later entries are fallbacks consulted when an earlier
// provider fails or yields nothing.
var DefaultProviders = []string{"google", "bing"}

// Config holds all configuration options for profscan.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., SearchConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Queries is the list of search queries to run.
	// Must contain at least one entry; batch mode supplies several.
	Queries []string

	// Providers lists the search engines to consult, in order.
	// The first provider is primary; the rest are fallbacks.
	Providers []string

	// MaxResults caps the number of accepted profile records per query.
	// Once the cap is reached the run stops fetching further pages.
	MaxResults int

	// MaxPages is the maximum number of result pages fetched per provider.
	MaxPages int

	// PageDelay is the pause between result-page fetches.
	// This is a politeness setting; lowering it invites rate limiting.
	PageDelay time.Duration

	// LoadWait is the settle time after a result page reports ready,
	// before the DOM is extracted.
	LoadWait time.Duration

	// PageTimeout bounds a single page navigation including render wait.
	PageTimeout time.Duration

	// RetryAttempts is the number of tries for each result page fetch.
	RetryAttempts int

	// Headless runs Chrome without a visible window.
	// Disable for debugging extraction against a live engine.
	Headless bool

	// UserAgent is the browser identity sent with page loads.
	UserAgent string

	// ChromePath is an explicit Chrome/Chromium binary path.
	// When empty the browser layer resolves the binary itself.
	ChromePath string

	// OutputFile is the CSV destination for accepted records.
	// The file is overwritten (not appended) on each run.
	OutputFile string

	// JSONReport enables JSON run-report output instead of the
	// human-readable summary. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown run-report output instead of the
	// human-readable summary. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the run report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// FallbackTitle, when non-empty, accepts candidates whose display text
	// failed validation and records them under this placeholder title.
	// Empty (the default) rejects such candidates outright.
	FallbackTitle string

	// GuessTitles accepts candidates whose display text failed validation
	// and derives a title from the profile URL handle instead.
	// Takes precedence over FallbackTitle when both are set.
	GuessTitles bool

	// DBDir is the directory path for storing the SQLite history database.
	// When set, each run is saved for later listing and comparison.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to record runs in the history database.
	SaveToDB bool

	// BatchSize is the number of queries processed concurrently in batch
	// mode. Each query runs its own browser, so keep this small.
	BatchSize int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .profscan in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// ProviderConfigs holds per-provider overrides loaded from the config
	// file. This is populated by LoadConfigFile and consulted when the
	// search pipeline is assembled.
	ProviderConfigs *File
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., page delay, caps).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Providers:     append([]string(nil), DefaultProviders...),
		MaxResults:    DefaultMaxResults,
		MaxPages:      DefaultMaxPages,
		PageDelay:     DefaultPageDelay,
		LoadWait:      DefaultLoadWait,
		PageTimeout:   DefaultPageTimeout,
		RetryAttempts: DefaultRetryAttempts,
		Headless:      true,
		UserAgent:     DefaultUserAgent,
		OutputFile:    DefaultOutputFile,
		BatchSize:     DefaultBatchSize,
	}
}

// XDGDataDir returns the XDG data directory for profscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/profscan
// On macOS: ~/Library/Application Support/profscan
// On Windows: %LOCALAPPDATA%\profscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for profscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/profscan
// On macOS: ~/Library/Application Support/profscan
// On Windows: %APPDATA%\profscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any browsing begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Queries) == 0 {
		return ErrNoQuery
	}

	if len(c.Providers) == 0 {
		return ErrNoProviders
	}

	// A zero cap would make every candidate hit the capacity short-circuit
	if c.MaxResults <= 0 {
		return ErrInvalidMaxResults
	}

	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}

	if c.PageDelay < 0 {
		return ErrInvalidPageDelay
	}

	if c.PageTimeout <= 0 {
		return ErrInvalidPageTimeout
	}

	if c.RetryAttempts < 1 {
		return ErrInvalidRetryAttempts
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
