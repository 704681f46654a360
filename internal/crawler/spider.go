package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"urlcat/internal/model"
)

// Default crawl settings. Callers typically override these from config.
const (
	// DefaultMaxPages bounds the number of URLs visited per crawl.
	DefaultMaxPages = 25

	// DefaultDelay is the pause between successive fetch attempts. This is
	// a cooperative, unconditional politeness delay, not adaptive backoff.
	DefaultDelay = 200 * time.Millisecond

	// DefaultTimeout is the per-request timeout applied when the caller
	// does not supply an HTTP client.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBodySize caps how much of a response body is read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent is the browser-like identification header sent with
	// every request.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// ProgressFunc receives (completed, estimatedTotal) after each visited URL.
// The estimate is min(budget, completed+pending) and may be zero; the
// callback is advisory only and must not affect the crawl.
type ProgressFunc func(completed, estimatedTotal int)

// PageEnricher augments a successfully extracted page before it is appended
// to the result set. Implementations must leave error pages alone.
type PageEnricher interface {
	Enrich(page *model.Page)
}

// Spider crawls one website breadth-first from a seed URL.
//
// It owns the frontier: a FIFO queue of pending URLs plus the set of visited
// URLs, both keyed by normalized URL identity. A URL is marked visited
// before its fetch regardless of outcome, so no URL is ever fetched twice
// and the page budget is a hard ceiling on fetch attempts. Per-page failures
// become error records; only an invalid seed aborts the crawl.
type Spider struct {
	// client performs the HTTP requests. One fetch is in flight at a time.
	client *http.Client

	// maxPages is the page budget: the crawl stops once this many URLs
	// have been visited, success or error alike.
	maxPages int

	// delay is the pause between successive fetch attempts.
	delay time.Duration

	// userAgent is sent as the User-Agent header.
	userAgent string

	// headers are extra request headers from site configuration.
	headers map[string]string

	// maxBodySize caps response body reads.
	maxBodySize int64

	// enricher fills category/hierarchy/keywords on successful pages.
	enricher PageEnricher

	// progress, when set, is invoked after each visited URL.
	progress ProgressFunc

	// visited holds normalized URLs already fetched (success or error).
	visited map[string]bool

	// pending is the FIFO frontier queue; pendingSet mirrors it for O(1)
	// membership checks when enqueueing discovered links.
	pending    []string
	pendingSet map[string]bool
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxPages sets the page budget.
func WithMaxPages(maxPages int) SpiderOption {
	return func(s *Spider) {
		if maxPages > 0 {
			s.maxPages = maxPages
		}
	}
}

// WithDelay sets the pause between fetch attempts.
func WithDelay(d time.Duration) SpiderOption {
	return func(s *Spider) {
		s.delay = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) SpiderOption {
	return func(s *Spider) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithHeaders sets extra request headers sent with every fetch.
func WithHeaders(headers map[string]string) SpiderOption {
	return func(s *Spider) {
		s.headers = headers
	}
}

// WithMaxBodySize caps how many bytes of each response body are read.
func WithMaxBodySize(size int64) SpiderOption {
	return func(s *Spider) {
		if size > 0 {
			s.maxBodySize = size
		}
	}
}

// WithEnricher sets the analyzer applied to each successful page before it
// joins the result set.
func WithEnricher(e PageEnricher) SpiderOption {
	return func(s *Spider) {
		s.enricher = e
	}
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) SpiderOption {
	return func(s *Spider) {
		s.progress = fn
	}
}

// NewSpider creates a Spider. A nil client gets a default client with
// DefaultTimeout; supplying a client allows custom transports in tests.
func NewSpider(client *http.Client, opts ...SpiderOption) *Spider {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	s := &Spider{
		client:      client,
		maxPages:    DefaultMaxPages,
		delay:       DefaultDelay,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		visited:     make(map[string]bool),
		pending:     make([]string, 0),
		pendingSet:  make(map[string]bool),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Crawl runs the crawl from seedURL and returns the ordered result set, one
// record per visited URL. The crawl terminates when the frontier empties or
// the page budget is reached, whichever comes first. Cancelling the context
// stops the crawl between fetches; the pages collected so far are returned
// alongside the context error.
func (s *Spider) Crawl(ctx context.Context, seedURL string) ([]*model.Page, error) {
	seed, err := url.Parse(seedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL: %w", err)
	}
	if seed.Scheme != "http" && seed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", seed.Scheme)
	}
	if seed.Host == "" {
		return nil, errors.New("seed URL must include a host")
	}

	domain := strings.ToLower(seed.Hostname())
	pages := make([]*model.Page, 0)

	s.enqueue(seed.String())

	for len(s.pending) > 0 && len(s.visited) < s.maxPages {
		select {
		case <-ctx.Done():
			return pages, ctx.Err()
		default:
		}

		current := s.dequeue()
		key := normalizeURL(current)
		if s.visited[key] {
			continue
		}
		s.visited[key] = true

		page := s.fetchPage(ctx, current, domain)
		if page.IsSuccess() && s.enricher != nil {
			s.enricher.Enrich(page)
		}
		pages = append(pages, page)

		if page.IsSuccess() {
			for _, link := range page.Links {
				s.enqueue(link)
			}
		}

		s.reportProgress()

		if s.delay > 0 && len(s.pending) > 0 && len(s.visited) < s.maxPages {
			select {
			case <-ctx.Done():
				return pages, ctx.Err()
			case <-time.After(s.delay):
			}
		}
	}

	return pages, nil
}

// enqueue appends a URL to the frontier unless it is already pending or
// visited.
func (s *Spider) enqueue(pageURL string) {
	key := normalizeURL(pageURL)
	if s.visited[key] || s.pendingSet[key] {
		return
	}
	s.pendingSet[key] = true
	s.pending = append(s.pending, pageURL)
}

// dequeue pops the head of the frontier queue.
func (s *Spider) dequeue() string {
	current := s.pending[0]
	s.pending = s.pending[1:]
	delete(s.pendingSet, normalizeURL(current))
	return current
}

// reportProgress notifies the progress callback, if any.
func (s *Spider) reportProgress() {
	if s.progress == nil {
		return
	}
	completed := len(s.visited)
	estimated := completed + len(s.pending)
	if estimated > s.maxPages {
		estimated = s.maxPages
	}
	s.progress(completed, estimated)
}

// fetchPage performs one GET and extracts the page content. Every failure
// class (transport, timeout, non-2xx status, unreadable body, parse error)
// yields an error record rather than an error return: the crawl must
// continue past individual bad pages.
func (s *Spider) fetchPage(ctx context.Context, pageURL, domain string) *model.Page {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return model.NewErrorPage(pageURL, err.Error())
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return model.NewErrorPage(pageURL, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		page := model.NewErrorPage(pageURL, fmt.Sprintf("http status %d", resp.StatusCode))
		page.StatusCode = resp.StatusCode
		return page
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return model.NewErrorPage(pageURL, fmt.Sprintf("read body: %v", err))
	}

	extractor, err := NewExtractor(pageURL, domain)
	if err != nil {
		return model.NewErrorPage(pageURL, fmt.Sprintf("parse url: %v", err))
	}

	page, err := extractor.Extract(body)
	if err != nil {
		errPage := model.NewErrorPage(pageURL, fmt.Sprintf("parse html: %v", err))
		errPage.StatusCode = resp.StatusCode
		return errPage
	}

	page.StatusCode = resp.StatusCode
	page.FetchedAt = time.Now().UTC()
	return page
}

// VisitedCount returns how many URLs have been fetched so far.
func (s *Spider) VisitedCount() int {
	return len(s.visited)
}

// normalizeURL normalizes a URL for frontier identity.
//
// Design decision: We normalize URLs because:
//  1. The same page can have several URL spellings
//  2. Fragments (#anchor) do not change content
//  3. "http://example.com" and "http://example.com/" are the same page
func normalizeURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}
