// Package log provides logging helpers built on top of the standard slog
// package.
//
// Crawl logging routinely carries page-derived values (extracted text,
// titles, long URL lists) that would bloat log output if written whole.
// The TrimHandler caps string attribute values at a fixed length so debug
// logging stays readable even when pages are large.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	logger.Debug("page extracted",
//	    "url", page.URL,
//	    "text", page.Text, // trimmed to the configured limit
//	)
//
//	slog.SetDefault(logger)
package log
