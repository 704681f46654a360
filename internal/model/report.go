package model

import (
	"time"

	"github.com/google/uuid"
)

// SiteReport is the complete result of analyzing one website.
// It accumulates state as pipeline steps execute: the crawl step fills
// Pages, the taxonomy step fills Taxonomy and Summary, and the persist step
// records the report in the run database.
type SiteReport struct {
	// RunID uniquely identifies this analysis run.
	RunID string `json:"run_id"`

	// Seed is the normalized starting URL of the crawl.
	Seed string `json:"seed"`

	// Domain is the seed URL's host; crawling never leaves this domain or
	// its subdomains.
	Domain string `json:"domain"`

	// MaxPages is the page budget the crawl ran under.
	MaxPages int `json:"max_pages"`

	// StartedAt is when the analysis began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the analysis completed.
	FinishedAt time.Time `json:"finished_at,omitempty"`

	// Pages is the ordered result set, one entry per visited URL.
	// Error pages are included; taxonomy aggregation filters them out.
	Pages []*Page `json:"pages"`

	// Taxonomy is the derived site-wide summary, computed once after the
	// crawl has fully stopped.
	Taxonomy *Taxonomy `json:"taxonomy,omitempty"`

	// Summary holds the overview metrics for report headers.
	Summary *Summary `json:"summary,omitempty"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// TimedOut indicates the analysis was cut short by cancellation.
	TimedOut bool `json:"timed_out,omitempty"`

	// Error is the fatal error that stopped the pipeline, if any.
	// Per-page failures are recorded on the pages, never here.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialized reports.
	ErrorMessage string `json:"error,omitempty"`
}

// NewSiteReport creates an empty report for the given seed URL.
func NewSiteReport(seed, domain string, maxPages int) *SiteReport {
	return &SiteReport{
		RunID:     uuid.NewString(),
		Seed:      seed,
		Domain:    domain,
		MaxPages:  maxPages,
		StartedAt: time.Now().UTC(),
		Pages:     make([]*Page, 0),
	}
}

// SuccessPages returns the successfully analyzed pages in result-set order.
func (r *SiteReport) SuccessPages() []*Page {
	pages := make([]*Page, 0, len(r.Pages))
	for _, p := range r.Pages {
		if p.IsSuccess() {
			pages = append(pages, p)
		}
	}
	return pages
}

// PageCount returns the size of the raw result set, error pages included.
func (r *SiteReport) PageCount() int {
	return len(r.Pages)
}
