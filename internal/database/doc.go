// Package database provides SQLite-backed storage for completed site
// analysis runs. Each run is stored twice: as queryable per-page rows for
// history listings and comparisons, and as the full report JSON for exact
// reconstruction.
package database
