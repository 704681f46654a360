package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"urlcat/internal/config"
	"urlcat/internal/crawler"
	"urlcat/internal/database"
	"urlcat/internal/log"
	"urlcat/internal/model"
	"urlcat/internal/pipeline"
	"urlcat/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [site-url]...",
		Short: "Crawl a website and build its content taxonomy",
		Long: `Crawl fetches a website breadth-first from the seed URL, staying within
the seed's domain and subdomains, and analyzes every page:

- Extracts title, description, headings, text, and in-domain links
- Classifies each page into a topical category (product, blog, about, ...)
- Maps the URL hierarchy (depth, path segments, file types)
- Ranks the most frequent keywords per page and across the site

Examples:
  # Analyze a site with the default 25-page budget
  urlcat crawl example.com

  # Crawl up to 100 pages with a longer politeness delay
  urlcat crawl --max-pages 100 --delay 500ms example.com

  # Write a Markdown report with a category chart
  urlcat crawl --markdown --output report.md example.com

  # Export the per-page table as CSV
  urlcat crawl --csv --output pages.csv example.com

  # Show only blog pages mentioning "pricing"
  urlcat crawl --category blog --search pricing example.com

  # Analyze several sites concurrently
  urlcat crawl --batch 3 a.com b.com c.com

Configuration file (.urlcat.yaml) example:
  sites:
    example.com:
      maxPages: 50
      headers:
        Accept-Language: en-US`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		fmt.Sprintf("Page budget per site (%d-%d)", config.MinPages, config.MaxPages))
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"HTTP timeout for each request")
	cmd.Flags().DurationP("delay", "d", config.DefaultCrawlDelay,
		"Politeness delay between requests")
	cmd.Flags().StringP("user-agent", "u", "",
		"Override the User-Agent header")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent site analyses")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .urlcat.yaml in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report with a category chart")
	cmd.Flags().Bool("csv", false,
		"Output the per-page table as CSV")
	cmd.Flags().Bool("urls", false,
		"Output visited URLs as a plain list")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Result-set filters
	cmd.Flags().String("category", "",
		"Only include pages of this category in the report")
	cmd.Flags().Int("depth", -1,
		"Only include pages at this URL hierarchy depth")
	cmd.Flags().String("search", "",
		"Only include pages whose title or text contains this substring")

	// Persistence
	cmd.Flags().Bool("no-save", false,
		"Do not record this run in the history database")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
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

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.CrawlDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.CSVReport, err = cmd.Flags().GetBool("csv")
	if err != nil {
		return nil, err
	}

	cfg.URLListReport, err = cmd.Flags().GetBool("urls")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.FilterCategory, err = cmd.Flags().GetString("category")
	if err != nil {
		return nil, err
	}

	cfg.FilterDepth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}

	cfg.SearchQuery, err = cmd.Flags().GetString("search")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave

	// Positional arguments are the seed URLs; a bare domain becomes https.
	cfg.Seeds = make([]string, 0, len(args))
	for _, arg := range args {
		cfg.Seeds = append(cfg.Seeds, normalizeSeed(arg))
	}

	return cfg, nil
}

// normalizeSeed prepends https:// to seeds given as bare domains.
func normalizeSeed(seed string) string {
	seed = strings.TrimSpace(seed)
	if seed == "" {
		return seed
	}
	if !strings.Contains(seed, "://") {
		return "https://" + seed
	}
	return seed
}

// runCrawl executes the analysis for all configured seeds.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting analysis",
		"seeds", cfg.Seeds,
		"maxPages", cfg.MaxPages,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.RunDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// Use batch processor for concurrent analysis of multiple sites
	if len(cfg.Seeds) > 1 && cfg.BatchSize > 1 {
		return runBatchCrawl(ctx, cfg, db, logger)
	}

	return runSequentialCrawl(ctx, cfg, db, logger)
}

// runSequentialCrawl analyzes seeds one at a time with live progress.
func runSequentialCrawl(ctx context.Context, cfg *config.Config, db *database.RunDB, logger *slog.Logger) error {
	for _, seed := range cfg.Seeds {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		domain := seedDomain(seed)
		siteConfig := cfg.SiteConfigs.GetSiteConfig(domain)

		progress := func(completed, estimated int) {
			if estimated > 0 {
				fmt.Printf("\rCrawling %s: %d/%d pages", domain, completed, estimated)
			} else {
				fmt.Printf("\rCrawling %s: %d pages", domain, completed)
			}
		}

		p := createPipeline(cfg, siteConfig, db, logger, progress)

		maxPages := cfg.MaxPages
		if siteConfig.MaxPages > 0 {
			maxPages = siteConfig.MaxPages
		}
		siteReport := model.NewSiteReport(seed, domain, maxPages)

		fmt.Printf("Analyzing %s...\n", seed)
		startTime := time.Now()

		err := p.Execute(ctx, siteReport)
		fmt.Println()
		if err != nil {
			logger.Error("analysis failed", "seed", seed, "error", err)
			fmt.Fprintf(os.Stderr, "Analysis error for %s: %v\n", seed, err)
			continue
		}

		fmt.Printf("Analysis completed in %s\n\n", time.Since(startTime).Round(time.Millisecond))

		if err := outputReport(cfg, siteReport); err != nil {
			logger.Error("report failed", "seed", seed, "error", err)
		}
	}

	return nil
}

// runBatchCrawl analyzes multiple seeds concurrently using BatchProcessor.
func runBatchCrawl(ctx context.Context, cfg *config.Config, db *database.RunDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch analysis of %d sites (concurrency: %d)...\n\n",
		len(cfg.Seeds), cfg.BatchSize)

	startTime := time.Now()

	// Per-site overrides need one pipeline per seed; batch mode shares the
	// defaults instead.
	if len(cfg.SiteConfigs.Sites) > 0 {
		logger.Warn("batch processing uses default site config only; site-specific configs are ignored",
			"siteCount", len(cfg.SiteConfigs.Sites))
	}

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return createPipeline(cfg, cfg.SiteConfigs.Defaults, db, logger, nil)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchMaxPages(cfg.MaxPages),
		pipeline.WithBatchLogger(logger),
	)

	reports, err := bp.ProcessBatch(ctx, cfg.Seeds)

	for i, siteReport := range reports {
		if siteReport == nil {
			continue
		}
		fmt.Printf("[%d/%d] Analysis completed: %s\n", i+1, len(cfg.Seeds), siteReport.Seed)
		if outErr := outputReport(cfg, siteReport); outErr != nil {
			logger.Error("report failed", "seed", siteReport.Seed, "error", outErr)
		}
	}

	fmt.Printf("\nBatch analysis completed in %s\n", time.Since(startTime).Round(time.Millisecond))

	return err
}

// createPipeline assembles the crawl -> taxonomy -> save pipeline for one
// site.
func createPipeline(cfg *config.Config, siteConfig config.SiteConfig, db *database.RunDB, logger *slog.Logger, progress crawler.ProgressFunc) *pipeline.Pipeline {
	crawlOpts := []pipeline.CrawlStepOption{
		pipeline.WithCrawlClient(&http.Client{Timeout: cfg.Timeout}),
		pipeline.WithCrawlDelay(cfg.CrawlDelay),
		pipeline.WithCrawlMaxBodySize(cfg.MaxBodySize),
		pipeline.WithCrawlLogger(logger),
	}

	userAgent := cfg.UserAgent
	if siteConfig.UserAgent != "" {
		userAgent = siteConfig.UserAgent
	}
	if userAgent != "" {
		crawlOpts = append(crawlOpts, pipeline.WithCrawlUserAgent(userAgent))
	}
	if len(siteConfig.Headers) > 0 {
		crawlOpts = append(crawlOpts, pipeline.WithCrawlHeaders(siteConfig.Headers))
	}
	if progress != nil {
		crawlOpts = append(crawlOpts, pipeline.WithCrawlProgress(progress))
	}

	p := pipeline.New(
		pipeline.WithLogger(logger),
	)
	p.AddSteps(
		pipeline.NewCrawlStep(crawlOpts...),
		pipeline.NewTaxonomyStep(logger),
	)
	if db != nil {
		p.AddStep(pipeline.NewSaveStep(db, logger))
	}

	return p
}

// outputReport renders the report with the configured writer, applying the
// result-set filters first.
func outputReport(cfg *config.Config, siteReport *model.SiteReport) error {
	rendered := siteReport
	if cfg.FilterCategory != "" || cfg.FilterDepth >= 0 || cfg.SearchQuery != "" {
		rendered = report.FilterReport(siteReport, cfg.FilterCategory, cfg.FilterDepth, cfg.SearchQuery)
	}

	output, closeOutput, err := openOutput(cfg.ReportFile)
	if err != nil {
		return err
	}
	defer closeOutput()

	writer := selectWriter(cfg, output)
	if _, err := writer.Write(rendered); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// openOutput returns the report destination: a created file when a path is
// configured, stdout otherwise.
func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// selectWriter picks the report writer for the configured format.
func selectWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	case cfg.CSVReport:
		return report.NewCSVWriter(output)
	case cfg.URLListReport:
		return report.NewURLListWriter(output)
	default:
		return report.NewSimpleWriter(output)
	}
}

// seedDomain extracts the host of a seed URL for config lookups.
func seedDomain(seed string) string {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(seed, "https://"), "http://")
	if idx := strings.IndexAny(trimmed, "/?#"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	if idx := strings.Index(trimmed, ":"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.ToLower(trimmed)
}
