package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"urlcat/internal/model"
)

// csvHeader is the fixed column set of the CSV export.
var csvHeader = []string{
	"URL",
	"Title",
	"Category",
	"Hierarchy_Depth",
	"Word_Count",
	"Status",
	"Has_Description",
	"Headings_Count",
	"Links_Count",
}

// CSVWriter outputs the per-page result set as a CSV table, one row per
// visited URL. Error records are included so a spreadsheet shows the whole
// crawl, not just the successes.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the result set in CSV format. The byte count is
// approximate: encoding/csv does not report bytes, so we count rows
// written instead of quoting overhead.
func (w *CSVWriter) Write(report *model.SiteReport) (int, error) {
	cw := csv.NewWriter(w.output)

	if err := cw.Write(csvHeader); err != nil {
		return 0, err
	}

	written := 0
	for _, page := range report.Pages {
		depth := ""
		if page.Hierarchy != nil {
			depth = strconv.Itoa(page.Hierarchy.Depth)
		}

		record := []string{
			page.URL,
			page.Title,
			page.Category,
			depth,
			strconv.Itoa(page.WordCount),
			page.StatusText(),
			strconv.FormatBool(page.Description != ""),
			strconv.Itoa(len(page.Headings)),
			strconv.Itoa(len(page.Links)),
		}
		if err := cw.Write(record); err != nil {
			return written, err
		}
		written++
	}

	cw.Flush()
	return written, cw.Error()
}
