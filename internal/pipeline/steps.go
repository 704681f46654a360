package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"urlcat/internal/analyzer"
	"urlcat/internal/crawler"
	"urlcat/internal/model"
)

// CrawlStep runs the breadth-first crawl of the target site and fills the
// report's result set. Every later step consumes its output, so a crawl
// failure is fatal to the pipeline.
type CrawlStep struct {
	// client performs the HTTP requests; nil gets the crawler default.
	client *http.Client

	// delay is the pause between fetch attempts.
	delay time.Duration

	// userAgent overrides the crawler's identification header when set.
	userAgent string

	// headers are extra request headers from site configuration.
	headers map[string]string

	// maxBodySize caps response body reads; zero keeps the default.
	maxBodySize int64

	// progress, when set, receives crawl progress updates.
	progress crawler.ProgressFunc

	// logger for structured logging.
	logger *slog.Logger
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithCrawlClient sets the HTTP client used for fetching.
func WithCrawlClient(client *http.Client) CrawlStepOption {
	return func(s *CrawlStep) {
		s.client = client
	}
}

// WithCrawlDelay sets the pause between fetch attempts.
func WithCrawlDelay(d time.Duration) CrawlStepOption {
	return func(s *CrawlStep) {
		s.delay = d
	}
}

// WithCrawlUserAgent sets a custom User-Agent header.
func WithCrawlUserAgent(ua string) CrawlStepOption {
	return func(s *CrawlStep) {
		s.userAgent = ua
	}
}

// WithCrawlHeaders sets extra request headers sent with every fetch.
func WithCrawlHeaders(headers map[string]string) CrawlStepOption {
	return func(s *CrawlStep) {
		s.headers = headers
	}
}

// WithCrawlMaxBodySize caps response body reads.
func WithCrawlMaxBodySize(size int64) CrawlStepOption {
	return func(s *CrawlStep) {
		s.maxBodySize = size
	}
}

// WithCrawlProgress sets the progress callback.
func WithCrawlProgress(fn crawler.ProgressFunc) CrawlStepOption {
	return func(s *CrawlStep) {
		s.progress = fn
	}
}

// WithCrawlLogger sets a custom logger for the crawl step.
func WithCrawlLogger(logger *slog.Logger) CrawlStepOption {
	return func(s *CrawlStep) {
		s.logger = logger
	}
}

// NewCrawlStep creates a crawl step.
func NewCrawlStep(opts ...CrawlStepOption) *CrawlStep {
	s := &CrawlStep{
		delay:  crawler.DefaultDelay,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do runs the crawl from the report's seed URL. Pages are enriched inline
// (classification, hierarchy, keywords) as they are collected, so the
// result set is complete when the crawl stops. Partial results survive
// cancellation: whatever was collected stays on the report.
func (s *CrawlStep) Do(ctx context.Context, report *model.SiteReport) error {
	opts := []crawler.SpiderOption{
		crawler.WithMaxPages(report.MaxPages),
		crawler.WithDelay(s.delay),
		crawler.WithEnricher(analyzer.New()),
	}
	if s.userAgent != "" {
		opts = append(opts, crawler.WithUserAgent(s.userAgent))
	}
	if len(s.headers) > 0 {
		opts = append(opts, crawler.WithHeaders(s.headers))
	}
	if s.maxBodySize > 0 {
		opts = append(opts, crawler.WithMaxBodySize(s.maxBodySize))
	}
	if s.progress != nil {
		opts = append(opts, crawler.WithProgress(s.progress))
	}

	spider := crawler.NewSpider(s.client, opts...)

	pages, err := spider.Crawl(ctx, report.Seed)
	report.Pages = pages
	report.FinishedAt = time.Now().UTC()

	if err != nil {
		return fmt.Errorf("crawl %s: %w", report.Seed, err)
	}

	s.logger.Info("crawl finished",
		"seed", report.Seed,
		"pages", len(pages),
		"visited", spider.VisitedCount(),
	)
	return nil
}

// TaxonomyStep reduces the completed result set into the site taxonomy and
// summary metrics. It is a pure aggregation with no I/O.
type TaxonomyStep struct {
	logger *slog.Logger
}

// NewTaxonomyStep creates a taxonomy aggregation step.
func NewTaxonomyStep(logger *slog.Logger) *TaxonomyStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaxonomyStep{logger: logger}
}

// Name returns the step name.
func (s *TaxonomyStep) Name() string {
	return "taxonomy"
}

// Do computes the taxonomy and summary from the report's result set.
// Error records stay in the result set but contribute nothing here.
func (s *TaxonomyStep) Do(_ context.Context, report *model.SiteReport) error {
	report.Taxonomy = model.NewTaxonomy(report.Pages)
	report.Summary = model.NewSummary(report.Pages, report.Taxonomy)

	s.logger.Debug("taxonomy computed",
		"seed", report.Seed,
		"categories", len(report.Taxonomy.Categories),
		"topics", len(report.Taxonomy.Topics),
	)
	return nil
}

// ReportStore persists completed site reports. The database package
// provides the production implementation.
type ReportStore interface {
	SaveReport(ctx context.Context, report *model.SiteReport) error
}

// SaveStep persists the finished report through a ReportStore. It is
// typically run with continue-on-error so a storage failure does not
// discard an otherwise successful analysis.
type SaveStep struct {
	store  ReportStore
	logger *slog.Logger
}

// NewSaveStep creates a persistence step.
func NewSaveStep(store ReportStore, logger *slog.Logger) *SaveStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &SaveStep{store: store, logger: logger}
}

// Name returns the step name.
func (s *SaveStep) Name() string {
	return "save"
}

// Do writes the report to the store.
func (s *SaveStep) Do(ctx context.Context, report *model.SiteReport) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.SaveReport(ctx, report); err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	s.logger.Debug("report saved", "run_id", report.RunID, "seed", report.Seed)
	return nil
}
