package database

import (
	"context"
	"testing"
	"time"

	"urlcat/internal/model"
)

// openTestDB opens a RunDB in a temporary directory.
func openTestDB(t *testing.T) *RunDB {
	t.Helper()

	rdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := rdb.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})
	return rdb
}

// sampleReport builds a finished report with two pages.
func sampleReport(seed string) *model.SiteReport {
	report := model.NewSiteReport(seed, "example.com", 10)
	report.FinishedAt = time.Now().UTC()
	report.Pages = []*model.Page{
		{
			URL:        seed + "/shop",
			Title:      "Shop",
			Status:     model.StatusSuccess,
			StatusCode: 200,
			Category:   "product",
			WordCount:  42,
			Hierarchy:  &model.Hierarchy{Depth: 1, PathSegments: []string{"shop"}},
		},
		model.NewErrorPage(seed+"/broken", "http status 500"),
	}
	report.Taxonomy = model.NewTaxonomy(report.Pages)
	report.Summary = model.NewSummary(report.Pages, report.Taxonomy)
	return report
}

// TestOpenRequiresExistingDatabase tests the CreateIfNotExists behavior.
func TestOpenRequiresExistingDatabase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, err := Open(dir, Options{CreateIfNotExists: false}); err == nil {
		t.Fatal("expected error for missing database")
	}

	rdb, err := Open(dir, DefaultOptions())
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	if err := rdb.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}

	// Now the file exists and opening without create succeeds.
	rdb, err = Open(dir, Options{CreateIfNotExists: false})
	if err != nil {
		t.Fatalf("failed to reopen database: %v", err)
	}
	_ = rdb.Close()
}

// TestSaveAndGetReport tests the round trip through report_json.
func TestSaveAndGetReport(t *testing.T) {
	t.Parallel()

	rdb := openTestDB(t)
	ctx := context.Background()

	report := sampleReport("https://example.com")
	if err := rdb.SaveReport(ctx, report); err != nil {
		t.Fatalf("failed to save report: %v", err)
	}

	got, err := rdb.GetReport(ctx, report.RunID)
	if err != nil {
		t.Fatalf("failed to load report: %v", err)
	}

	if got.Seed != report.Seed || got.Domain != report.Domain {
		t.Errorf("loaded report = %s/%s, want %s/%s",
			got.Seed, got.Domain, report.Seed, report.Domain)
	}
	if len(got.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(got.Pages))
	}
	if got.Pages[0].Category != "product" {
		t.Errorf("category = %q, want product", got.Pages[0].Category)
	}
	if got.Taxonomy == nil || got.Taxonomy.Categories["product"] != 1 {
		t.Errorf("taxonomy not restored: %+v", got.Taxonomy)
	}
}

// TestSaveReportIsIdempotent tests that re-saving a run updates in place.
func TestSaveReportIsIdempotent(t *testing.T) {
	t.Parallel()

	rdb := openTestDB(t)
	ctx := context.Background()

	report := sampleReport("https://example.com")
	if err := rdb.SaveReport(ctx, report); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	report.ErrorMessage = "second attempt"
	if err := rdb.SaveReport(ctx, report); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	runs, err := rdb.ListRuns(ctx, "", 0)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].ErrorMessage != "second attempt" {
		t.Errorf("error message = %q", runs[0].ErrorMessage)
	}
}

// TestListRuns tests ordering and the domain filter.
func TestListRuns(t *testing.T) {
	t.Parallel()

	rdb := openTestDB(t)
	ctx := context.Background()

	older := sampleReport("https://example.com")
	older.StartedAt = time.Now().UTC().Add(-time.Hour)
	newer := sampleReport("https://example.com")
	other := sampleReport("https://other.org")
	other.Domain = "other.org"

	for _, r := range []*model.SiteReport{older, newer, other} {
		if err := rdb.SaveReport(ctx, r); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
	}

	runs, err := rdb.ListRuns(ctx, "", 0)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}

	filtered, err := rdb.ListRuns(ctx, "example.com", 0)
	if err != nil {
		t.Fatalf("failed to list filtered: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 example.com runs, got %d", len(filtered))
	}
	if filtered[0].RunID != newer.RunID {
		t.Error("expected newest run first")
	}

	limited, err := rdb.ListRuns(ctx, "", 1)
	if err != nil {
		t.Fatalf("failed to list limited: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 run with limit, got %d", len(limited))
	}
}

// TestCategoryCounts tests aggregation from the pages table.
func TestCategoryCounts(t *testing.T) {
	t.Parallel()

	rdb := openTestDB(t)
	ctx := context.Background()

	report := sampleReport("https://example.com")
	if err := rdb.SaveReport(ctx, report); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	counts, err := rdb.CategoryCounts(ctx, report.RunID)
	if err != nil {
		t.Fatalf("failed to count categories: %v", err)
	}

	// The error page has no category and is excluded.
	if len(counts) != 1 || counts["product"] != 1 {
		t.Errorf("counts = %v, want product:1", counts)
	}
}

// TestDeleteRun tests run removal.
func TestDeleteRun(t *testing.T) {
	t.Parallel()

	rdb := openTestDB(t)
	ctx := context.Background()

	report := sampleReport("https://example.com")
	if err := rdb.SaveReport(ctx, report); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	if err := rdb.DeleteRun(ctx, report.RunID); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if _, err := rdb.GetReport(ctx, report.RunID); err == nil {
		t.Error("expected error loading deleted run")
	}
	if err := rdb.DeleteRun(ctx, report.RunID); err == nil {
		t.Error("expected error deleting missing run")
	}
}
