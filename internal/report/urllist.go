package report

import (
	"io"
	"strings"

	"urlcat/internal/model"
)

// URLListWriter outputs the visited URLs as a newline-joined plain-text
// list, one URL per line. This is the exchange format for feeding other
// tools (sitemap generators, link checkers).
type URLListWriter struct {
	baseWriter

	// successOnly excludes error records from the list.
	successOnly bool
}

// URLListOption configures a URLListWriter.
type URLListOption func(*URLListWriter)

// WithSuccessOnly limits the list to successfully fetched URLs.
func WithSuccessOnly(successOnly bool) URLListOption {
	return func(w *URLListWriter) {
		w.successOnly = successOnly
	}
}

// NewURLListWriter creates a URLListWriter that outputs to the given writer.
func NewURLListWriter(output io.Writer, opts ...URLListOption) *URLListWriter {
	w := &URLListWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the URL list.
func (w *URLListWriter) Write(report *model.SiteReport) (int, error) {
	urls := make([]string, 0, len(report.Pages))
	for _, page := range report.Pages {
		if w.successOnly && !page.IsSuccess() {
			continue
		}
		urls = append(urls, page.URL)
	}

	return w.output.Write([]byte(strings.Join(urls, "\n") + "\n"))
}
