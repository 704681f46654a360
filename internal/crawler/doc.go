// Package crawler provides same-domain web crawling for site analysis.
//
// # Architecture
//
// The crawler package is designed around the Spider type, which coordinates
// the crawling process. It owns the frontier (the pending queue plus the
// visited set), fetches one page at a time, and hands successful pages to an
// optional enricher before appending them to the result set.
//
// Design decision: We implement our own frontier rather than using a
// third-party crawling library because:
//  1. The page budget must be a hard ceiling on fetch attempts
//  2. Visited/pending bookkeeping is the heart of this tool, not a detail
//     to delegate
//  3. Per-page failures must become data (error records), never aborts
//
// # Components
//
//   - Spider: the crawl controller; frontier, budget, pacing, progress
//   - Extractor: goquery-based HTML content extraction
//   - InScope: the same-domain URL eligibility check
//
// # Politeness
//
// The crawler fetches one page at a time with a fixed delay between
// requests, a bounded request timeout, and a response size cap. It does not
// retry failed pages.
package crawler
