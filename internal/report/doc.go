// Package report renders completed site analyses for people and tools.
// It provides plain-text, JSON, Markdown, CSV, and URL-list writers behind
// one Writer interface, plus result-set filters (category, depth, text
// search) used by the CLI before formatting. Writers format only; all
// domain logic happens upstream in the pipeline.
package report
