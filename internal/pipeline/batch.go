package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/profscan/profscan/internal/config"
	"github.com/profscan/profscan/internal/model"
	"golang.org/x/sync/errgroup"
)

// PipelineFactory creates a fresh pipeline for one query. It returns the
// pipeline, a cleanup function invoked after the query completes (closing
// the query's browser session), and an error when assembly fails.
//
// A factory is used because each query owns its own browser: a Session
// serves one page fetch at a time, so concurrent queries cannot share one.
type PipelineFactory func(query string) (*Pipeline, func(), error)

// BatchProcessor handles concurrent processing of multiple queries.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-query execution
// 2. It allows different batch strategies (e.g., rate limiting, retries)
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each query.
	pipelineFactory PipelineFactory

	// concurrency is the maximum number of queries running at once.
	// Each query owns a Chrome process, so this stays small.
	concurrency int

	// maxResults caps accepted records per query.
	maxResults int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed run reports.
	// Access is synchronized via mutex.
	results []*model.RunReport
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent queries.
// Default is config.DefaultBatchSize if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithBatchMaxResults sets the per-query cap on accepted records.
// Default is config.DefaultMaxResults if not specified.
func WithBatchMaxResults(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.maxResults = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each query to create a fresh
// pipeline instance. This ensures that pipeline state doesn't leak between
// queries and gives each query its own browser session.
func NewBatchProcessor(pipelineFactory PipelineFactory, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     config.DefaultBatchSize,
		maxResults:      config.DefaultMaxResults,
		results:         make([]*model.RunReport, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch runs multiple queries concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each query gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// Returns all reports collected, in input order, even for queries that
// failed. The error return indicates if the batch was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, queries []string) ([]*model.RunReport, error) {
	bp.logger.Info("starting batch processing",
		"total_queries", len(queries),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results slice to maintain order
	bp.results = make([]*model.RunReport, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, query := range queries {
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("searching query",
				"query", query,
				"index", i+1,
				"total", len(queries),
			)

			report := model.NewRunReport(query, bp.maxResults)

			p, cleanup, err := bp.pipelineFactory(query)
			if err != nil {
				bp.logger.Warn("pipeline assembly failed",
					"query", query,
					"error", err,
				)
				report.SetError(err)
				bp.store(i, report)
				return nil
			}

			execErr := p.Execute(ctx, report)
			cleanup()
			bp.store(i, report)

			if execErr != nil {
				bp.logger.Warn("query failed",
					"query", query,
					"error", execErr,
				)
				// Don't return the error to errgroup - we want the other
				// queries to continue. The error is recorded in the report.
				return nil
			}

			bp.logger.Info("query completed",
				"query", query,
				"accepted", report.AcceptedCount(),
			)

			return nil
		})
	}

	// Wait for all queries to complete
	err := g.Wait()

	elapsed := time.Since(startTime)
	bp.logger.Info("batch processing complete",
		"total_queries", len(queries),
		"elapsed", elapsed,
	)

	return bp.results, err
}

// store finishes a report and records it at its input position.
func (bp *BatchProcessor) store(i int, report *model.RunReport) {
	report.Finish()
	report.Summary = model.NewRunSummary(report)

	bp.mu.Lock()
	bp.results[i] = report
	bp.mu.Unlock()
}
