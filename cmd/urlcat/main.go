// Package main provides the entry point for the urlcat CLI.
//
// urlcat crawls a website from a seed URL, classifies every page into a
// topical category, and aggregates the results into a site taxonomy:
// category counts, URL-depth distribution, file types, and top keywords.
//
// Usage:
//
//	urlcat crawl <site-url>
//	urlcat crawl --markdown --output report.md <site-url>
//	urlcat history
//
// See --help for all available options.
package main

// main is the entry point for urlcat.
func main() {
	Execute()
}
