package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/profscan/profscan/internal/browser"
	"github.com/profscan/profscan/internal/config"
	"github.com/profscan/profscan/internal/model"
	"github.com/profscan/profscan/internal/normalizer"
	"github.com/profscan/profscan/internal/serp"
)

// ErrUnknownProvider is returned when a configured provider name does not
// map to a supported search engine.
var ErrUnknownProvider = errors.New("unknown search provider")

// Retry cadence for result-page fetches. Kept short: the common transient
// failure is a render hiccup, and a blocked engine won't recover within a
// retry window anyway.
const (
	retryDelay     = 500 * time.Millisecond
	retryMaxJitter = 250 * time.Millisecond
)

// PageFetcher renders a result page and returns its HTML.
// *browser.Session implements it; tests substitute a fake.
type PageFetcher interface {
	FetchHTML(ctx context.Context, pageURL, waitSelector string) (string, error)
}

// SearchStep fetches result pages from one search engine, extracts
// candidates, and feeds them through the normalizer into the report's
// result set.
//
// Design decision: One step per provider rather than one step looping over
// providers. The pipeline already handles sequencing and logging per step,
// and fallback ("only run if earlier providers produced nothing") becomes
// a simple per-step flag instead of loop bookkeeping.
type SearchStep struct {
	// engine addresses result pages for one provider.
	engine serp.Engine

	// fetcher renders pages. Shared across the run's steps; one browser
	// serves all providers of a query.
	fetcher PageFetcher

	// normalizer classifies extracted candidates.
	normalizer *normalizer.Normalizer

	// maxPages limits result pages fetched from this provider.
	maxPages int

	// pageDelay is the pause between result-page fetches for politeness.
	pageDelay time.Duration

	// retryAttempts is the number of tries for each page fetch.
	retryAttempts int

	// fallbackOnly makes the step a no-op when an earlier provider
	// already produced accepted records without failing.
	fallbackOnly bool

	// logger for structured logging.
	logger *slog.Logger
}

// SearchStepOption configures a SearchStep.
type SearchStepOption func(*SearchStep)

// WithSearchMaxPages sets the maximum result pages to fetch.
func WithSearchMaxPages(maxPages int) SearchStepOption {
	return func(s *SearchStep) {
		s.maxPages = maxPages
	}
}

// WithSearchPageDelay sets the pause between result-page fetches.
func WithSearchPageDelay(d time.Duration) SearchStepOption {
	return func(s *SearchStep) {
		s.pageDelay = d
	}
}

// WithSearchRetryAttempts sets the number of tries per page fetch.
func WithSearchRetryAttempts(n int) SearchStepOption {
	return func(s *SearchStep) {
		if n > 0 {
			s.retryAttempts = n
		}
	}
}

// WithSearchFallbackOnly marks the step as a fallback: it runs only when
// no earlier provider produced accepted records, or an earlier step failed.
func WithSearchFallbackOnly(fallbackOnly bool) SearchStepOption {
	return func(s *SearchStep) {
		s.fallbackOnly = fallbackOnly
	}
}

// WithSearchLogger sets a custom logger for the search step.
func WithSearchLogger(logger *slog.Logger) SearchStepOption {
	return func(s *SearchStep) {
		s.logger = logger
	}
}

// NewSearchStep creates a search step for one engine.
//
// Default cadence settings are conservative to stay under engine rate
// limits: see config.DefaultMaxPages and config.DefaultPageDelay.
func NewSearchStep(engine serp.Engine, fetcher PageFetcher, norm *normalizer.Normalizer, opts ...SearchStepOption) *SearchStep {
	s := &SearchStep{
		engine:        engine,
		fetcher:       fetcher,
		normalizer:    norm,
		maxPages:      config.DefaultMaxPages,
		pageDelay:     config.DefaultPageDelay,
		retryAttempts: config.DefaultRetryAttempts,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *SearchStep) Name() string {
	return "search_" + s.engine.Provider().String()
}

// Do executes the search step: it pages through the engine's results,
// extracts candidates, and classifies them until the result set saturates,
// the page limit is reached, or the engine stops serving pages.
//
// A first-page failure is returned as an error, since it means the
// provider yielded nothing. Failures on deeper pages end pagination
// without error; partial results stand.
func (s *SearchStep) Do(ctx context.Context, report *model.RunReport) error {
	provider := s.engine.Provider()

	if s.fallbackOnly && report.AcceptedCount() > 0 && report.Err == nil {
		s.logger.Debug("skipping fallback provider",
			"provider", provider,
			"accepted", report.AcceptedCount(),
		)
		return nil
	}

	report.ProviderAttempted(provider)

	for page := 1; page <= s.maxPages; page++ {
		if report.Results.Saturated() {
			s.logger.Debug("result set saturated, stopping pagination",
				"provider", provider,
				"page", page,
			)
			return nil
		}

		pageURL := s.engine.PageURL(report.Query, page)
		htmlSrc, err := s.fetchWithRetry(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				report.TimedOut = true
				return ctx.Err()
			}
			if page == 1 {
				return fmt.Errorf("fetch first result page: %w", err)
			}
			// Deeper pages failing usually means the engine ran out of
			// results or started serving an interstitial.
			s.logger.Warn("page fetch failed, stopping pagination",
				"provider", provider,
				"page", page,
				"error", err,
			)
			return nil
		}
		report.PagesFetched++

		candidates, err := serp.ExtractCandidates(strings.NewReader(htmlSrc), provider, page)
		if err != nil {
			s.logger.Warn("page extraction failed",
				"provider", provider,
				"page", page,
				"error", err,
			)
			continue
		}

		accepted := 0
		for _, c := range candidates {
			outcome := s.normalizer.Accept(c, report.Results)
			report.Observe(outcome)
			if outcome.Accepted {
				accepted++
			}
			if outcome.Reason == model.ReasonCapacityReached {
				break
			}
		}

		s.logger.Debug("page processed",
			"provider", provider,
			"page", page,
			"candidates", len(candidates),
			"accepted", accepted,
		)

		// Politeness pause before the next page
		if page < s.maxPages && !report.Results.Saturated() {
			select {
			case <-ctx.Done():
				report.TimedOut = true
				return ctx.Err()
			case <-time.After(s.pageDelay):
			}
		}
	}

	return nil
}

// fetchWithRetry fetches one result page, retrying transient failures.
// A closed browser session and context cancellation are not retried.
func (s *SearchStep) fetchWithRetry(ctx context.Context, pageURL string) (string, error) {
	return retry.DoWithData(
		func() (string, error) {
			return s.fetcher.FetchHTML(ctx, pageURL, s.engine.WaitSelector())
		},
		retry.Context(ctx),
		retry.Attempts(uint(s.retryAttempts)),
		retry.Delay(retryDelay),
		retry.MaxJitter(retryMaxJitter),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, browser.ErrSessionClosed)
		}),
		retry.OnRetry(func(attempt uint, err error) {
			s.logger.Debug("retrying page fetch",
				"url", pageURL,
				"attempt", attempt+1,
				"error", err,
			)
		}),
	)
}

// SearchPipelineConfig holds configuration for the default search pipeline.
type SearchPipelineConfig struct {
	// Providers lists the engines to consult, in order. The first is
	// primary; the rest run in fallback mode.
	Providers []string

	// MaxPages is the per-provider result-page limit.
	MaxPages int

	// PageDelay is the pause between result-page fetches.
	PageDelay time.Duration

	// RetryAttempts is the number of tries per page fetch.
	RetryAttempts int

	// Overrides holds per-provider settings loaded from the config file.
	// Nil means no overrides.
	Overrides *config.File
}

// SearchPipelineOption configures a SearchPipelineConfig.
type SearchPipelineOption func(*SearchPipelineConfig)

// WithPipelineProviders sets the provider order for the pipeline.
func WithPipelineProviders(providers []string) SearchPipelineOption {
	return func(c *SearchPipelineConfig) {
		c.Providers = providers
	}
}

// WithPipelineMaxPages sets the per-provider result-page limit.
func WithPipelineMaxPages(maxPages int) SearchPipelineOption {
	return func(c *SearchPipelineConfig) {
		c.MaxPages = maxPages
	}
}

// WithPipelinePageDelay sets the pause between result-page fetches.
func WithPipelinePageDelay(d time.Duration) SearchPipelineOption {
	return func(c *SearchPipelineConfig) {
		c.PageDelay = d
	}
}

// WithPipelineRetryAttempts sets the number of tries per page fetch.
func WithPipelineRetryAttempts(n int) SearchPipelineOption {
	return func(c *SearchPipelineConfig) {
		c.RetryAttempts = n
	}
}

// WithPipelineOverrides sets per-provider overrides from the config file.
func WithPipelineOverrides(overrides *config.File) SearchPipelineOption {
	return func(c *SearchPipelineConfig) {
		c.Overrides = overrides
	}
}

// DefaultPipeline creates a pipeline with one search step per configured
// provider. The first provider runs unconditionally; the rest run in
// fallback mode. Providers disabled in the config file are skipped.
//
// The first variadic parameter accepts pipeline options (WithLogger, etc).
// The second accepts search config options (WithPipelineProviders, etc).
//
// Returns ErrUnknownProvider when a configured name maps to no engine.
func DefaultPipeline(fetcher PageFetcher, norm *normalizer.Normalizer, pipelineOpts []Option, configOpts ...SearchPipelineOption) (*Pipeline, error) {
	p := New(pipelineOpts...)

	cfg := &SearchPipelineConfig{
		Providers:     config.DefaultProviders,
		MaxPages:      config.DefaultMaxPages,
		PageDelay:     config.DefaultPageDelay,
		RetryAttempts: config.DefaultRetryAttempts,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	primarySeen := false
	for _, name := range cfg.Providers {
		engine, ok := serp.ForName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
		}

		maxPages := cfg.MaxPages
		pageDelay := cfg.PageDelay
		if cfg.Overrides != nil {
			pc := cfg.Overrides.GetProviderConfig(name)
			if pc.Disabled {
				continue
			}
			if pc.MaxPages > 0 {
				maxPages = pc.MaxPages
			}
			if pc.PageDelay > 0 {
				pageDelay = pc.PageDelay
			}
		}

		stepOpts := []SearchStepOption{
			WithSearchMaxPages(maxPages),
			WithSearchPageDelay(pageDelay),
			WithSearchRetryAttempts(cfg.RetryAttempts),
			WithSearchFallbackOnly(primarySeen),
		}
		if p.logger != nil {
			stepOpts = append(stepOpts, WithSearchLogger(p.logger))
		}

		p.AddStep(NewSearchStep(engine, fetcher, norm, stepOpts...))
		primarySeen = true
	}

	return p, nil
}
