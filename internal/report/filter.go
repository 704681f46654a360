package report

import (
	"strings"

	"urlcat/internal/model"
)

// FilterByCategory returns the pages classified under the given category.
// Matching is case-insensitive; error records never match since they carry
// no category.
func FilterByCategory(pages []*model.Page, category string) []*model.Page {
	if category == "" {
		return pages
	}

	filtered := make([]*model.Page, 0, len(pages))
	for _, page := range pages {
		if strings.EqualFold(page.Category, category) {
			filtered = append(filtered, page)
		}
	}
	return filtered
}

// FilterByDepth returns the pages whose URL hierarchy depth equals depth.
// Pages without a hierarchy (error records) never match.
func FilterByDepth(pages []*model.Page, depth int) []*model.Page {
	filtered := make([]*model.Page, 0, len(pages))
	for _, page := range pages {
		if page.Hierarchy != nil && page.Hierarchy.Depth == depth {
			filtered = append(filtered, page)
		}
	}
	return filtered
}

// SearchPages returns the pages whose title or text contains the query as
// a case-insensitive substring.
func SearchPages(pages []*model.Page, query string) []*model.Page {
	if query == "" {
		return pages
	}
	query = strings.ToLower(query)

	filtered := make([]*model.Page, 0, len(pages))
	for _, page := range pages {
		if strings.Contains(strings.ToLower(page.Title), query) ||
			strings.Contains(strings.ToLower(page.Text), query) {
			filtered = append(filtered, page)
		}
	}
	return filtered
}

// FilterReport returns a shallow copy of the report with its result set
// reduced by the given filters. The taxonomy and summary are recomputed
// over the filtered set so the rendered output stays consistent.
func FilterReport(report *model.SiteReport, category string, depth int, query string) *model.SiteReport {
	pages := report.Pages
	if category != "" {
		pages = FilterByCategory(pages, category)
	}
	if depth >= 0 {
		pages = FilterByDepth(pages, depth)
	}
	if query != "" {
		pages = SearchPages(pages, query)
	}

	filtered := *report
	filtered.Pages = pages
	filtered.Taxonomy = model.NewTaxonomy(pages)
	filtered.Summary = model.NewSummary(pages, filtered.Taxonomy)
	return &filtered
}
