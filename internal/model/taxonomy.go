package model

import "sort"

// DefaultFileType is the sentinel file-type bucket for URLs whose final path
// segment carries no extension. Extensionless pages are almost always served
// as HTML, so the bucket is named accordingly.
const DefaultFileType = "html"

// TopTopicCount is the number of global topics kept in a Taxonomy.
const TopTopicCount = 10

// Taxonomy is the aggregated, read-only summary of a completed crawl.
// It is computed once from the final result set and never updated
// incrementally. Only successful pages contribute to its counts; error pages
// remain in the raw result set but are excluded here.
type Taxonomy struct {
	// Categories maps category name to the number of pages assigned to it.
	Categories map[string]int `json:"categories"`

	// Depths maps URL hierarchy depth to page count.
	Depths map[int]int `json:"depths"`

	// FileTypes maps file extension (or the DefaultFileType sentinel) to
	// page count.
	FileTypes map[string]int `json:"file_types"`

	// Topics holds the top keywords across all per-page keyword lists,
	// most frequent first, at most TopTopicCount entries.
	Topics []Keyword `json:"topics,omitempty"`
}

// NewTaxonomy reduces the final page set into a Taxonomy.
// The input pages are not mutated.
//
// Topic frequency counts how many per-page keyword lists mention a word, not
// the sum of per-page occurrence counts. Ties keep the order in which words
// were first encountered across the result set, which makes the ranking
// deterministic for a given result set.
func NewTaxonomy(pages []*Page) *Taxonomy {
	t := &Taxonomy{
		Categories: make(map[string]int),
		Depths:     make(map[int]int),
		FileTypes:  make(map[string]int),
	}

	topicCounts := make(map[string]int)
	topicOrder := make([]string, 0)

	for _, p := range pages {
		if !p.IsSuccess() {
			continue
		}

		t.Categories[p.Category]++

		if p.Hierarchy != nil {
			t.Depths[p.Hierarchy.Depth]++

			fileType := p.Hierarchy.FileExtension
			if fileType == "" {
				fileType = DefaultFileType
			}
			t.FileTypes[fileType]++
		}

		for _, kw := range p.Keywords {
			if _, seen := topicCounts[kw.Word]; !seen {
				topicOrder = append(topicOrder, kw.Word)
			}
			topicCounts[kw.Word]++
		}
	}

	topics := make([]Keyword, 0, len(topicOrder))
	for _, word := range topicOrder {
		topics = append(topics, Keyword{Word: word, Count: topicCounts[word]})
	}
	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Count > topics[j].Count
	})
	if len(topics) > TopTopicCount {
		topics = topics[:TopTopicCount]
	}
	t.Topics = topics

	return t
}

// SuccessCount returns the number of pages counted into the taxonomy.
// Category counts always sum to this value.
func (t *Taxonomy) SuccessCount() int {
	total := 0
	for _, n := range t.Categories {
		total += n
	}
	return total
}

// MaxDepth returns the deepest URL hierarchy level seen, or zero when the
// taxonomy is empty.
func (t *Taxonomy) MaxDepth() int {
	maxDepth := 0
	for depth := range t.Depths {
		if depth > maxDepth {
			maxDepth = depth
		}
	}
	return maxDepth
}

// Summary holds the overview metrics shown at the top of reports.
type Summary struct {
	// TotalPages is the size of the raw result set, error pages included.
	TotalPages int `json:"total_pages"`

	// SuccessPages is the number of successfully analyzed pages.
	SuccessPages int `json:"success_pages"`

	// ErrorPages is the number of failed fetches recorded.
	ErrorPages int `json:"error_pages"`

	// CategoriesFound is the number of distinct categories assigned.
	CategoriesFound int `json:"categories_found"`

	// MaxDepth is the deepest URL path found.
	MaxDepth int `json:"max_depth"`

	// AvgWordsPerPage is the mean word count over successful pages.
	AvgWordsPerPage float64 `json:"avg_words_per_page"`
}

// NewSummary derives the overview metrics from the result set and its
// taxonomy.
func NewSummary(pages []*Page, taxonomy *Taxonomy) *Summary {
	s := &Summary{TotalPages: len(pages)}

	totalWords := 0
	for _, p := range pages {
		if !p.IsSuccess() {
			s.ErrorPages++
			continue
		}
		s.SuccessPages++
		totalWords += p.WordCount
	}

	if taxonomy != nil {
		s.CategoriesFound = len(taxonomy.Categories)
		s.MaxDepth = taxonomy.MaxDepth()
	}
	if s.SuccessPages > 0 {
		s.AvgWordsPerPage = float64(totalWords) / float64(s.SuccessPages)
	}

	return s
}
