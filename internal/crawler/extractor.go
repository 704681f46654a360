package crawler

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"urlcat/internal/model"
)

// NoTitle is the title recorded for documents without a <title> element.
const NoTitle = "No Title"

// Extractor parses HTML into the structured content fields of a Page.
// It is bound to the URL of the page being parsed (for resolving relative
// links) and to the crawl's target domain (for scoping extracted links).
//
// Design decision: We use goquery rather than walking x/net/html nodes by
// hand because:
//  1. Selector-based extraction reads like the document structure it targets
//  2. Removing script/style/noscript subtrees before text extraction is a
//     one-liner instead of bookkeeping during traversal
//  3. It tolerates the malformed HTML common on real sites
type Extractor struct {
	// pageURL is the URL of the page being parsed.
	pageURL *url.URL

	// domain is the crawl's target domain for link scoping.
	domain string
}

// NewExtractor creates an extractor for one page.
func NewExtractor(pageURL, targetDomain string) (*Extractor, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	return &Extractor{pageURL: u, domain: targetDomain}, nil
}

// Extract parses raw HTML and returns a successful Page with its content
// fields populated: title (NoTitle when absent), meta description, h1-h6
// headings in document order, whitespace-collapsed text truncated for
// storage with the word count taken beforehand, and deduplicated in-domain
// links. Enrichment fields (category, hierarchy, keywords) are left for the
// analysis stages.
func (e *Extractor) Extract(body []byte) (*model.Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	// Non-content elements would pollute the text extraction below.
	doc.Find("script, style, noscript").Remove()

	page := &model.Page{
		URL:    e.pageURL.String(),
		Status: model.StatusSuccess,
	}

	page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if page.Title == "" {
		page.Title = NoTitle
	}

	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		page.Description = desc
	}

	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, sel *goquery.Selection) {
		if heading := strings.TrimSpace(sel.Text()); heading != "" {
			page.Headings = append(page.Headings, heading)
		}
	})

	words := strings.Fields(doc.Text())
	page.WordCount = len(words)
	page.Text = strings.Join(words, " ")
	page.TruncateText()

	page.Links = e.extractLinks(doc)

	return page, nil
}

// extractLinks collects the in-scope outbound links of the document:
// resolved to absolute form, fragment-stripped, filtered through InScope,
// and deduplicated preserving encounter order.
func (e *Extractor) extractLinks(doc *goquery.Document) []string {
	seen := make(map[string]struct{})
	links := make([]string, 0)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		resolved := e.resolveLink(href)
		if resolved == "" || !InScope(resolved, e.domain) {
			return
		}
		if _, dup := seen[resolved]; dup {
			return
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	})

	return links
}

// resolveLink resolves an href against the page URL and strips the fragment.
// Unparsable hrefs resolve to "" and are dropped; non-http(s) schemes like
// mailto: and javascript: survive resolution but fail the scope check.
func (e *Extractor) resolveLink(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := e.pageURL.ResolveReference(u)
	resolved.Fragment = ""
	return resolved.String()
}
