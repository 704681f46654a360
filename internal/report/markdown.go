package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"urlcat/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. Mermaid chart embedding for the category distribution
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.SiteReport) (int, error) {
	ensureDerived(report)

	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeTaxonomy(md, report)
	w.writePages(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with crawl information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.SiteReport) {
	md.H1("Site Analysis Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", "`" + report.Seed + "`"},
			{"Crawl Date", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Pages Crawled", strconv.Itoa(report.PageCount())},
			{"Page Budget", strconv.Itoa(report.MaxPages)},
			{"Status", w.statusText(report)},
		},
	})
	md.PlainText("")
}

// statusText returns the status cell based on report state.
func (w *MarkdownWriter) statusText(report *model.SiteReport) string {
	if report.TimedOut {
		return "⚠️ Cancelled (partial results)"
	}
	if report.ErrorMessage != "" {
		return "❌ Error - " + report.ErrorMessage
	}
	return "✅ Complete"
}

// writeSummary writes the site-level metrics table.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.SiteReport) {
	s := report.Summary

	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Pages", strconv.Itoa(s.TotalPages)},
			{"Successful", strconv.Itoa(s.SuccessPages)},
			{"Errors", strconv.Itoa(s.ErrorPages)},
			{"Categories Found", strconv.Itoa(s.CategoriesFound)},
			{"Max Depth", strconv.Itoa(s.MaxDepth)},
			{"Avg Words/Page", fmt.Sprintf("%.1f", s.AvgWordsPerPage)},
		},
	})
	md.PlainText("")
}

// writeTaxonomy writes the category chart plus depth, file-type, and topic
// tables.
func (w *MarkdownWriter) writeTaxonomy(md *markdown.Markdown, report *model.SiteReport) {
	tax := report.Taxonomy

	md.H2("Content Taxonomy")
	md.PlainText("")

	if len(tax.Categories) > 0 {
		w.writeCategoryChart(md, tax)

		rows := make([][]string, 0, len(tax.Categories))
		for _, name := range sortedByCount(tax.Categories) {
			rows = append(rows, []string{name, strconv.Itoa(tax.Categories[name])})
		}
		md.H3("Categories")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Category", "Pages"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if len(tax.FileTypes) > 0 {
		rows := make([][]string, 0, len(tax.FileTypes))
		for _, ext := range sortedByCount(tax.FileTypes) {
			rows = append(rows, []string{ext, strconv.Itoa(tax.FileTypes[ext])})
		}
		md.H3("File Types")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Type", "Pages"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if len(tax.Topics) > 0 {
		rows := make([][]string, 0, len(tax.Topics))
		for i, topic := range tax.Topics {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				topic.Word,
				strconv.Itoa(topic.Count),
			})
		}
		md.H3("Top Topics")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Rank", "Topic", "Frequency"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// writeCategoryChart writes a mermaid pie chart of the category
// distribution.
func (w *MarkdownWriter) writeCategoryChart(md *markdown.Markdown, tax *model.Taxonomy) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Content Distribution by Category"),
		piechart.WithShowData(true),
	)

	for _, name := range sortedByCount(tax.Categories) {
		chart.LabelAndIntValue(name, uint64(tax.Categories[name]))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writePages writes the per-page listing.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, report *model.SiteReport) {
	if len(report.Pages) == 0 {
		return
	}

	rows := make([][]string, 0, len(report.Pages))
	for _, page := range report.Pages {
		depth := ""
		if page.Hierarchy != nil {
			depth = strconv.Itoa(page.Hierarchy.Depth)
		}
		rows = append(rows, []string{
			"`" + page.URL + "`",
			page.Title,
			page.Category,
			depth,
			strconv.Itoa(page.WordCount),
			page.StatusText(),
		})
	}

	md.H2("Pages")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Title", "Category", "Depth", "Words", "Status"},
		Rows:   rows,
	})
	md.PlainText("")
}
