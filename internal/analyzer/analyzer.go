package analyzer

import "urlcat/internal/model"

// Analyzer applies every enrichment stage to a page: classification,
// URL hierarchy, and keyword extraction. It satisfies the crawler's
// PageEnricher interface.
type Analyzer struct{}

// New creates an Analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Enrich fills the derived fields of a successful page in place. Error
// records are left untouched: they carry no content to analyze and must
// stay out of taxonomy counts.
func (a *Analyzer) Enrich(page *model.Page) {
	if !page.IsSuccess() {
		return
	}

	page.Category = Classify(page)
	page.Hierarchy = AnalyzeURL(page.URL)
	page.Keywords = ExtractKeywords(page.Text)
}
