// Package pipeline orchestrates a site analysis as an ordered sequence of
// steps: crawl the site, reduce the result set into a taxonomy, and persist
// the report. Steps share a SiteReport that accumulates their output, and a
// BatchProcessor runs independent analyses for several seeds concurrently.
package pipeline
