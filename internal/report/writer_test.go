package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"urlcat/internal/model"
)

// testReport builds a small finished report with one error record.
func testReport() *model.SiteReport {
	report := model.NewSiteReport("https://example.com", "example.com", 10)
	report.StartedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	report.Pages = []*model.Page{
		{
			URL:         "https://example.com/shop",
			Title:       "Shop",
			Description: "Buy our widgets",
			Headings:    []string{"Products"},
			Text:        "buy widgets widgets widgets today",
			WordCount:   5,
			Links:       []string{"https://example.com/cart"},
			Status:      model.StatusSuccess,
			Category:    "product",
			Hierarchy:   &model.Hierarchy{Depth: 1, PathSegments: []string{"shop"}},
			Keywords:    []model.Keyword{{Word: "widgets", Count: 3}},
		},
		{
			URL:       "https://example.com/blog/post",
			Title:     "A post",
			Text:      "read this article",
			WordCount: 3,
			Status:    model.StatusSuccess,
			Category:  "blog",
			Hierarchy: &model.Hierarchy{Depth: 2, PathSegments: []string{"blog", "post"}},
			Keywords:  []model.Keyword{{Word: "article", Count: 1}},
		},
		model.NewErrorPage("https://example.com/broken", "http status 500"),
	}
	report.Taxonomy = model.NewTaxonomy(report.Pages)
	report.Summary = model.NewSummary(report.Pages, report.Taxonomy)
	return report
}

// TestSimpleWriter tests the plain-text rendering.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("renders all sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		n, err := w.Write(testReport())
		if err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}

		out := buf.String()
		for _, want := range []string{
			"SITE ANALYSIS REPORT",
			"https://example.com",
			"SUMMARY",
			"CATEGORIES",
			"product",
			"TOP TOPICS",
			"[!] https://example.com/broken",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("verbose includes keywords", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))

		if _, err := w.Write(testReport()); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if !strings.Contains(buf.String(), "widgets(3)") {
			t.Error("verbose output missing keyword frequencies")
		}
	})

	t.Run("page listing can be suppressed", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithShowPages(false))

		if _, err := w.Write(testReport()); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if strings.Contains(buf.String(), "[+] https://example.com/shop") {
			t.Error("page listing should be suppressed")
		}
	})
}

// TestJSONWriter tests JSON rendering round-trips.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewJSONWriter(&buf, WithPrettyPrint())

	if _, err := w.Write(testReport()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["seed"] != "https://example.com" {
		t.Errorf("seed = %v", decoded["seed"])
	}
	if _, ok := decoded["taxonomy"]; !ok {
		t.Error("JSON output missing taxonomy")
	}
}

// TestMarkdownWriter tests Markdown rendering.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)

	if _, err := w.Write(testReport()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Site Analysis Report",
		"## Summary",
		"## Content Taxonomy",
		"```mermaid",
		"Content Distribution by Category",
		"| product |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

// TestCSVWriter tests the tabular export contract.
func TestCSVWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewCSVWriter(&buf)

	if _, err := w.Write(testReport()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	// Header plus three pages.
	if len(records) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(records))
	}

	wantHeader := []string{
		"URL", "Title", "Category", "Hierarchy_Depth", "Word_Count",
		"Status", "Has_Description", "Headings_Count", "Links_Count",
	}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Errorf("header column %d = %q, want %q", i, records[0][i], col)
		}
	}

	shop := records[1]
	if shop[0] != "https://example.com/shop" || shop[2] != "product" ||
		shop[3] != "1" || shop[6] != "true" {
		t.Errorf("unexpected first row: %v", shop)
	}

	broken := records[3]
	if broken[3] != "" || !strings.HasPrefix(broken[5], "error:") {
		t.Errorf("unexpected error row: %v", broken)
	}
}

// TestURLListWriter tests the plain URL list export.
func TestURLListWriter(t *testing.T) {
	t.Parallel()

	t.Run("lists every visited URL", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewURLListWriter(&buf)

		if _, err := w.Write(testReport()); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected 3 lines, got %d", len(lines))
		}
		if lines[0] != "https://example.com/shop" {
			t.Errorf("first line = %q", lines[0])
		}
	})

	t.Run("success only drops error records", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewURLListWriter(&buf, WithSuccessOnly(true))

		if _, err := w.Write(testReport()); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if strings.Contains(buf.String(), "broken") {
			t.Error("error record should be excluded")
		}
	})
}

// TestMultiWriter tests fan-out to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, list bytes.Buffer
	mw := NewMultiWriter(
		NewSimpleWriter(&text),
		NewURLListWriter(&list),
	)

	if _, err := mw.Write(testReport()); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if text.Len() == 0 || list.Len() == 0 {
		t.Error("expected both writers to receive output")
	}
}
