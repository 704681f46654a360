package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values follow the behavior of typical polite single-site crawlers.
const (
	// DefaultMaxPages is the default page budget per crawl. 25 pages gives
	// a representative snapshot of most small sites without long runtimes.
	// Users can override this via the --max-pages CLI flag.
	DefaultMaxPages = 25

	// MinPages is the smallest useful page budget. Below this the taxonomy
	// has too few data points to be meaningful.
	MinPages = 5

	// MaxPages is the largest supported page budget. The crawler fetches
	// sequentially with a politeness delay, so larger budgets turn into
	// multi-minute runs.
	MaxPages = 100

	// DefaultTimeout is the per-request timeout. 10 seconds covers slow
	// origins without letting a single dead URL stall the whole crawl.
	DefaultTimeout = 10 * time.Second

	// DefaultCrawlDelay is the delay between requests during crawling.
	// This is a politeness setting to avoid overwhelming the target site.
	// Can be adjusted via the --delay CLI flag.
	DefaultCrawlDelay = 200 * time.Millisecond

	// DefaultBatchSize is the number of concurrent site analyses when
	// processing multiple seeds. Concurrency is across sites only; each
	// site is still crawled sequentially.
	DefaultBatchSize = 3

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for most HTML pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// AppName is the application name used for XDG directory paths.
	AppName = "urlcat"
)

// Config holds all configuration options for a site analysis.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant
// benefit.
type Config struct {
	// Seeds is the list of site URLs to analyze.
	// A bare domain gets "https://" prepended by the CLI layer.
	Seeds []string

	// MaxPages is the page budget per crawl (visited URLs, success or
	// error alike). Must be within [MinPages, MaxPages].
	MaxPages int

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// CrawlDelay is the delay between HTTP requests during crawling.
	// This is a "politeness" setting; lower values may trigger rate
	// limiting on the target site.
	CrawlDelay time.Duration

	// UserAgent overrides the browser-like User-Agent header when set.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated to prevent memory
	// exhaustion. Set to 0 to use the default (5MB).
	MaxBodySize int64

	// BatchSize is the number of concurrent analyses when processing
	// multiple seeds.
	BatchSize int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON report output instead of human-readable
	// format. Mutually exclusive with the other format flags.
	JSONReport bool

	// MarkdownReport enables Markdown report output with tables and a
	// category pie chart. Mutually exclusive with the other format flags.
	MarkdownReport bool

	// CSVReport enables the tabular per-page CSV export.
	// Mutually exclusive with the other format flags.
	CSVReport bool

	// URLListReport enables the newline-joined plain URL list export.
	// Mutually exclusive with the other format flags.
	URLListReport bool

	// FilterCategory limits the rendered result set to one category.
	FilterCategory string

	// FilterDepth limits the rendered result set to one hierarchy depth.
	// Negative means no depth filter.
	FilterDepth int

	// SearchQuery limits the rendered result set to pages whose URL,
	// title, or text contains this substring.
	SearchQuery string

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .urlcat.yaml in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-site configurations loaded from the config
	// file (extra headers, user agent overrides).
	SiteConfigs *File

	// DBDir is the directory path for storing the SQLite run database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to persist analysis runs for history.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, budget).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxPages:    DefaultMaxPages,
		Timeout:     DefaultTimeout,
		CrawlDelay:  DefaultCrawlDelay,
		MaxBodySize: DefaultMaxBodySize,
		BatchSize:   DefaultBatchSize,
		FilterDepth: -1,
		DBDir:       XDGDataDir(),
		SaveToDB:    true,
	}
}

// XDGDataDir returns the XDG data directory for the analyzer.
// On Linux: ~/.local/share/urlcat
// On macOS: ~/Library/Application Support/urlcat
// On Windows: %LOCALAPPDATA%\urlcat
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the analyzer.
// On Linux: ~/.config/urlcat
// On macOS: ~/Library/Application Support/urlcat
// On Windows: %APPDATA%\urlcat
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Seeds) == 0 {
		return ErrNoSeed
	}

	if c.MaxPages < MinPages || c.MaxPages > MaxPages {
		return ErrInvalidMaxPages
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	formats := 0
	for _, enabled := range []bool{c.JSONReport, c.MarkdownReport, c.CSVReport, c.URLListReport} {
		if enabled {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
