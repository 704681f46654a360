package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"urlcat/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showPages controls whether the per-page listing is included.
	showPages bool

	// verbose adds headings and keywords to the per-page listing.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowPages includes the per-page listing in the output.
func WithShowPages(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showPages = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showPages:  true,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.SiteReport) (int, error) {
	ensureDerived(report)

	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeTaxonomy(&sb, report)
	if w.showPages {
		w.writePages(&sb, report)
	}

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with crawl information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.SiteReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      SITE ANALYSIS REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Site:          %s\n", report.Seed))
	sb.WriteString(fmt.Sprintf("Crawl Date:    %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Pages Crawled: %d (budget %d)\n", report.PageCount(), report.MaxPages))

	switch {
	case report.TimedOut:
		sb.WriteString("Status:        CANCELLED (partial results)\n")
	case report.ErrorMessage != "":
		sb.WriteString(fmt.Sprintf("Status:        ERROR - %s\n", report.ErrorMessage))
	default:
		sb.WriteString("Status:        Complete\n")
	}

	sb.WriteString("\n")
}

// writeSummary writes the site-level metrics section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.SiteReport) {
	writeSectionTitle(sb, "SUMMARY")

	s := report.Summary
	sb.WriteString(fmt.Sprintf("  Total Pages:      %d\n", s.TotalPages))
	sb.WriteString(fmt.Sprintf("  Successful:       %d\n", s.SuccessPages))
	sb.WriteString(fmt.Sprintf("  Errors:           %d\n", s.ErrorPages))
	sb.WriteString(fmt.Sprintf("  Categories Found: %d\n", s.CategoriesFound))
	sb.WriteString(fmt.Sprintf("  Max Depth:        %d\n", s.MaxDepth))
	sb.WriteString(fmt.Sprintf("  Avg Words/Page:   %.1f\n", s.AvgWordsPerPage))
	sb.WriteString("\n")
}

// writeTaxonomy writes category, depth, file-type, and topic sections.
func (w *SimpleWriter) writeTaxonomy(sb *strings.Builder, report *model.SiteReport) {
	tax := report.Taxonomy

	writeSectionTitle(sb, "CATEGORIES")
	if len(tax.Categories) == 0 {
		sb.WriteString("  No pages classified\n")
	}
	total := tax.SuccessCount()
	for _, name := range sortedByCount(tax.Categories) {
		count := tax.Categories[name]
		percentage := 0.0
		if total > 0 {
			percentage = float64(count) / float64(total) * 100
		}
		sb.WriteString(fmt.Sprintf("  %-12s %3d pages (%.1f%%)\n", name, count, percentage))
	}
	sb.WriteString("\n")

	writeSectionTitle(sb, "HIERARCHY DEPTH")
	depths := make([]int, 0, len(tax.Depths))
	for d := range tax.Depths {
		depths = append(depths, d)
	}
	sort.Ints(depths)
	for _, d := range depths {
		sb.WriteString(fmt.Sprintf("  depth %d: %d pages\n", d, tax.Depths[d]))
	}
	sb.WriteString("\n")

	writeSectionTitle(sb, "FILE TYPES")
	for _, ext := range sortedByCount(tax.FileTypes) {
		sb.WriteString(fmt.Sprintf("  %-12s %d pages\n", ext, tax.FileTypes[ext]))
	}
	sb.WriteString("\n")

	if len(tax.Topics) > 0 {
		writeSectionTitle(sb, "TOP TOPICS")
		for i, topic := range tax.Topics {
			sb.WriteString(fmt.Sprintf("  %2d. %s (%d)\n", i+1, topic.Word, topic.Count))
		}
		sb.WriteString("\n")
	}
}

// writePages writes the per-page listing.
func (w *SimpleWriter) writePages(sb *strings.Builder, report *model.SiteReport) {
	writeSectionTitle(sb, "PAGES")

	for _, page := range report.Pages {
		if !page.IsSuccess() {
			sb.WriteString(fmt.Sprintf("  [!] %s (%s)\n", page.URL, page.StatusText()))
			continue
		}

		sb.WriteString(fmt.Sprintf("  [+] %s\n", page.URL))
		sb.WriteString(fmt.Sprintf("      title: %s | category: %s | words: %d\n",
			page.Title, page.Category, page.WordCount))

		if w.verbose {
			if len(page.Headings) > 0 {
				sb.WriteString(fmt.Sprintf("      headings: %s\n", strings.Join(page.Headings, "; ")))
			}
			if len(page.Keywords) > 0 {
				words := make([]string, len(page.Keywords))
				for i, kw := range page.Keywords {
					words[i] = fmt.Sprintf("%s(%d)", kw.Word, kw.Count)
				}
				sb.WriteString(fmt.Sprintf("      keywords: %s\n", strings.Join(words, ", ")))
			}
		}
	}
	sb.WriteString("\n")
}

// writeSectionTitle writes a dashed section delimiter.
func writeSectionTitle(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// sortedByCount orders map keys by descending count, name ascending on
// ties, so output is stable across runs.
func sortedByCount(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
