package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoQuery is returned when no search query is specified.
	// This error occurs when neither --batch-file nor a positional
	// argument provides a query.
	ErrNoQuery = errors.New("no query specified: provide a search query or use --batch-file")

	// ErrNoProviders is returned when the provider list is empty.
	// At least one search engine must be configured for a run.
	ErrNoProviders = errors.New("no providers specified: at least one search engine is required")

	// ErrInvalidMaxResults is returned when the result cap is not positive.
	// A cap of zero would reject every candidate as capacity_reached.
	ErrInvalidMaxResults = errors.New("invalid max results: must be positive")

	// ErrInvalidMaxPages is returned when the page limit is not positive.
	// A limit of zero would fetch no result pages at all.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidPageDelay is returned when the page delay is negative.
	// A negative delay is invalid; use 0 for no pause between pages.
	ErrInvalidPageDelay = errors.New("invalid page delay: must be non-negative")

	// ErrInvalidPageTimeout is returned when the page timeout is not positive.
	// A timeout of zero or negative would fail every navigation immediately.
	ErrInvalidPageTimeout = errors.New("invalid page timeout: must be positive")

	// ErrInvalidRetryAttempts is returned when retry attempts is below one.
	// The first fetch counts as an attempt, so the minimum is 1.
	ErrInvalidRetryAttempts = errors.New("invalid retry attempts: must be at least 1")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no concurrent queries, effectively
	// stopping batch processing.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one report format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
