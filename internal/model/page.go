package model

import (
	"time"
	"unicode/utf8"
)

// MaxTextLength is the maximum number of characters of page text stored on a
// Page. This is a memory/display bound, not a correctness requirement: the
// word count is always computed from the untruncated text before this limit
// is applied.
const MaxTextLength = 1000

// PageStatus indicates whether a page fetch and extraction succeeded.
type PageStatus string

// Page fetch outcomes. Both count as "visited" for frontier purposes.
const (
	// StatusSuccess means the page was fetched and extracted.
	StatusSuccess PageStatus = "success"

	// StatusError means the fetch or extraction failed. Error pages carry a
	// detail message and empty content fields, and are never enriched with
	// category, hierarchy, or keyword data.
	StatusError PageStatus = "error"
)

// Page represents one crawled web page with all extracted information.
//
// A Page is created exactly once per fetched URL, enriched in place by the
// analysis stages (classification, hierarchy, keywords), and then treated as
// immutable. The URL is the page's identity: the crawler guarantees no URL
// appears twice in a result set.
type Page struct {
	// URL is the canonical URL of the page, the deduplication key.
	URL string `json:"url"`

	// Title is the trimmed <title> text. "No Title" when the document has no
	// title element; empty on error pages.
	Title string `json:"title,omitempty"`

	// Description is the content attribute of <meta name="description">,
	// empty when absent.
	Description string `json:"description,omitempty"`

	// Headings holds the trimmed text of every h1-h6 element in document
	// order. Empty and whitespace-only headings are excluded.
	Headings []string `json:"headings,omitempty"`

	// Text is the whitespace-collapsed document text, truncated to
	// MaxTextLength characters for storage.
	Text string `json:"text,omitempty"`

	// WordCount is the word count of the untruncated extracted text.
	WordCount int `json:"word_count"`

	// Links contains the absolute, fragment-stripped, in-domain URLs found
	// on the page, duplicates removed preserving first occurrence.
	Links []string `json:"links,omitempty"`

	// StatusCode is the HTTP response status code, zero if the request never
	// produced a response.
	StatusCode int `json:"status_code,omitempty"`

	// Status reports whether the fetch/extract succeeded.
	Status PageStatus `json:"status"`

	// StatusDetail carries the failure message for error pages.
	StatusDetail string `json:"status_detail,omitempty"`

	// Category is the topical category assigned by the classifier.
	// Empty until classification; never set on error pages.
	Category string `json:"category,omitempty"`

	// Hierarchy describes the URL path structure. Nil until analyzed;
	// never set on error pages.
	Hierarchy *Hierarchy `json:"hierarchy,omitempty"`

	// Keywords holds up to five (word, frequency) pairs extracted from the
	// stored text, most frequent first. Nil on error pages.
	Keywords []Keyword `json:"keywords,omitempty"`

	// FetchedAt records when the page was fetched.
	FetchedAt time.Time `json:"fetched_at"`
}

// Hierarchy describes the structure of a page's URL path.
type Hierarchy struct {
	// Depth is the number of non-empty path segments.
	Depth int `json:"depth"`

	// PathSegments is the URL path split on "/" with empty segments removed.
	PathSegments []string `json:"path_segments,omitempty"`

	// FileExtension is the substring after the last dot of the final path
	// segment, when that segment contains a dot. Empty means no extension;
	// aggregation maps that to the "html" sentinel.
	FileExtension string `json:"file_extension,omitempty"`

	// HasQuery reports whether the URL carried a query string.
	HasQuery bool `json:"has_query"`
}

// Keyword is a word and its occurrence count.
type Keyword struct {
	// Word is the lower-cased keyword.
	Word string `json:"word"`

	// Count is how often the word occurred.
	Count int `json:"count"`
}

// NewErrorPage builds a Page recording a failed fetch or extraction.
// All content fields stay empty: error pages contribute to the raw result
// count but are excluded from every taxonomy aggregate.
func NewErrorPage(pageURL, detail string) *Page {
	return &Page{
		URL:          pageURL,
		Status:       StatusError,
		StatusDetail: detail,
		FetchedAt:    time.Now().UTC(),
	}
}

// IsSuccess reports whether the page was fetched and extracted successfully.
func (p *Page) IsSuccess() bool {
	return p.Status == StatusSuccess
}

// TruncateText enforces the MaxTextLength bound on the stored text.
// Call this after setting Text and WordCount; the limit counts characters,
// not bytes, so multi-byte text is never cut mid-rune.
func (p *Page) TruncateText() {
	if utf8.RuneCountInString(p.Text) <= MaxTextLength {
		return
	}
	runes := []rune(p.Text)
	p.Text = string(runes[:MaxTextLength])
}

// StatusText renders the status for tabular output: "success", or
// "error: detail" for failed pages.
func (p *Page) StatusText() string {
	if p.Status == StatusError && p.StatusDetail != "" {
		return string(StatusError) + ": " + p.StatusDetail
	}
	return string(p.Status)
}
