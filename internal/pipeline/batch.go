package pipeline

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"urlcat/internal/model"
)

// BatchProcessor analyzes multiple seed URLs concurrently, one pipeline
// run per seed.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-site execution
// 2. It allows different batch strategies (e.g., rate limiting, retries)
// 3. It provides cleaner separation of concerns
//
// Concurrency applies across sites only; within one site the crawler still
// fetches sequentially, so the per-host politeness delay holds.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each analysis.
	// A factory ensures each run gets a fresh pipeline instance.
	pipelineFactory func() *Pipeline

	// maxPages is the page budget applied to every seed.
	maxPages int

	// concurrency is the maximum number of concurrent site analyses.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed reports, ordered like the input seeds.
	results []*model.SiteReport
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

// WithConcurrency sets the maximum number of concurrent site analyses.
// Default is 3 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithBatchMaxPages sets the page budget applied to every seed.
func WithBatchMaxPages(maxPages int) BatchOption {
	return func(b *BatchProcessor) {
		if maxPages > 0 {
			b.maxPages = maxPages
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called once per seed so pipeline state
// never leaks between runs.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		maxPages:        25,
		concurrency:     3,
		results:         make([]*model.SiteReport, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch analyzes multiple seed URLs concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each seed gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// Returns all reports collected, even for seeds whose analysis failed;
// failed runs carry their error on the report. The error return indicates
// batch-level cancellation only.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, seeds []string) ([]*model.SiteReport, error) {
	bp.logger.Info("starting batch analysis",
		"total_seeds", len(seeds),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate to keep results in seed order.
	bp.results = make([]*model.SiteReport, len(seeds))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, seed := range seeds {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("analyzing site",
				"seed", seed,
				"index", i+1,
				"total", len(seeds),
			)

			report := model.NewSiteReport(seed, domainOf(seed), bp.maxPages)

			pipeline := bp.pipelineFactory()
			err := pipeline.Execute(ctx, report)

			// Store the report regardless of outcome; a failed run
			// carries its error on the report.
			bp.mu.Lock()
			bp.results[i] = report
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("analysis failed",
					"seed", seed,
					"error", err,
				)
				return nil
			}

			bp.logger.Info("analysis completed", "seed", seed)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch analysis complete",
		"total_seeds", len(seeds),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}

// domainOf extracts the lowercased hostname of a seed URL.
// Unparsable seeds yield ""; the crawl step rejects them later.
func domainOf(seed string) string {
	u, err := url.Parse(seed)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
