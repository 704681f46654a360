// Package model defines the core data structures used throughout urlcat.
//
// This package contains the following main types:
//   - Page: Represents one crawled page with extracted content
//   - Hierarchy: URL structure information derived from a page's URL
//   - Taxonomy: Aggregated category/depth/file-type/topic distributions
//   - SiteReport: The complete result of analyzing one website
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, analyzer, report, database) need
// to use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
