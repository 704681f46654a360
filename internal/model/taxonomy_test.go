package model

import "testing"

// successPage builds a minimal successful page for aggregation tests.
func successPage(url, category string, depth int, ext string, keywords ...Keyword) *Page {
	return &Page{
		URL:      url,
		Status:   StatusSuccess,
		Category: category,
		Hierarchy: &Hierarchy{
			Depth:         depth,
			FileExtension: ext,
		},
		Keywords: keywords,
	}
}

// TestNewTaxonomy tests aggregation over a completed result set.
func TestNewTaxonomy(t *testing.T) {
	t.Parallel()

	t.Run("counts categories, depths, and file types", func(t *testing.T) {
		t.Parallel()

		pages := []*Page{
			successPage("https://a.com/", "other", 0, ""),
			successPage("https://a.com/blog/post", "blog", 2, ""),
			successPage("https://a.com/shop/item.php", "product", 2, "php"),
		}

		tax := NewTaxonomy(pages)

		if tax.Categories["blog"] != 1 || tax.Categories["product"] != 1 || tax.Categories["other"] != 1 {
			t.Errorf("unexpected category counts: %v", tax.Categories)
		}
		if tax.Depths[2] != 2 || tax.Depths[0] != 1 {
			t.Errorf("unexpected depth counts: %v", tax.Depths)
		}
		if tax.FileTypes[DefaultFileType] != 2 || tax.FileTypes["php"] != 1 {
			t.Errorf("unexpected file type counts: %v", tax.FileTypes)
		}
	})

	t.Run("excludes error pages from every count", func(t *testing.T) {
		t.Parallel()

		pages := []*Page{
			successPage("https://a.com/about", "about", 1, "", Keyword{Word: "company", Count: 4}),
			NewErrorPage("https://a.com/broken", "http status 500"),
		}

		tax := NewTaxonomy(pages)

		if got := tax.SuccessCount(); got != 1 {
			t.Errorf("expected 1 counted page, got %d", got)
		}
		if len(tax.Depths) != 1 || tax.Depths[1] != 1 {
			t.Errorf("error page leaked into depth counts: %v", tax.Depths)
		}
		if len(tax.Topics) != 1 || tax.Topics[0].Word != "company" {
			t.Errorf("unexpected topics: %v", tax.Topics)
		}
	})

	t.Run("topic frequency counts per-page list membership", func(t *testing.T) {
		t.Parallel()

		// "widgets" appears in two page lists (with high per-page counts),
		// "gadgets" in three. List membership wins, not per-page totals.
		pages := []*Page{
			successPage("https://a.com/1", "product", 1, "", Keyword{Word: "widgets", Count: 50}, Keyword{Word: "gadgets", Count: 1}),
			successPage("https://a.com/2", "product", 1, "", Keyword{Word: "widgets", Count: 50}, Keyword{Word: "gadgets", Count: 1}),
			successPage("https://a.com/3", "product", 1, "", Keyword{Word: "gadgets", Count: 1}),
		}

		tax := NewTaxonomy(pages)

		if len(tax.Topics) != 2 {
			t.Fatalf("expected 2 topics, got %d", len(tax.Topics))
		}
		if tax.Topics[0].Word != "gadgets" || tax.Topics[0].Count != 3 {
			t.Errorf("expected gadgets:3 first, got %v", tax.Topics[0])
		}
		if tax.Topics[1].Word != "widgets" || tax.Topics[1].Count != 2 {
			t.Errorf("expected widgets:2 second, got %v", tax.Topics[1])
		}
	})

	t.Run("topic ties keep first-encountered order", func(t *testing.T) {
		t.Parallel()

		pages := []*Page{
			successPage("https://a.com/1", "other", 1, "", Keyword{Word: "alpha", Count: 1}, Keyword{Word: "beta", Count: 1}),
		}

		tax := NewTaxonomy(pages)

		if tax.Topics[0].Word != "alpha" || tax.Topics[1].Word != "beta" {
			t.Errorf("tie order not preserved: %v", tax.Topics)
		}
	})

	t.Run("caps topics at the top ten", func(t *testing.T) {
		t.Parallel()

		keywords := make([]Keyword, 0, 15)
		for _, w := range []string{
			"one", "two", "three", "four", "five", "six", "seven",
			"eight", "nine", "ten", "eleven", "twelve",
		} {
			keywords = append(keywords, Keyword{Word: w, Count: 1})
		}
		pages := []*Page{successPage("https://a.com/1", "other", 1, "", keywords...)}

		tax := NewTaxonomy(pages)

		if len(tax.Topics) != TopTopicCount {
			t.Errorf("expected %d topics, got %d", TopTopicCount, len(tax.Topics))
		}
	})

	t.Run("empty result set yields empty taxonomy", func(t *testing.T) {
		t.Parallel()

		tax := NewTaxonomy(nil)

		if tax.SuccessCount() != 0 || tax.MaxDepth() != 0 || len(tax.Topics) != 0 {
			t.Errorf("expected empty taxonomy, got %+v", tax)
		}
	})
}

// TestNewSummary tests overview metric derivation.
func TestNewSummary(t *testing.T) {
	t.Parallel()

	pages := []*Page{
		successPage("https://a.com/", "other", 0, ""),
		successPage("https://a.com/docs/guide", "help", 2, ""),
		NewErrorPage("https://a.com/broken", "timeout"),
	}
	pages[0].WordCount = 100
	pages[1].WordCount = 300

	summary := NewSummary(pages, NewTaxonomy(pages))

	if summary.TotalPages != 3 {
		t.Errorf("expected 3 total pages, got %d", summary.TotalPages)
	}
	if summary.SuccessPages != 2 || summary.ErrorPages != 1 {
		t.Errorf("expected 2 success / 1 error, got %d/%d", summary.SuccessPages, summary.ErrorPages)
	}
	if summary.CategoriesFound != 2 {
		t.Errorf("expected 2 categories, got %d", summary.CategoriesFound)
	}
	if summary.MaxDepth != 2 {
		t.Errorf("expected max depth 2, got %d", summary.MaxDepth)
	}
	if summary.AvgWordsPerPage != 200 {
		t.Errorf("expected 200 average words, got %f", summary.AvgWordsPerPage)
	}
}
