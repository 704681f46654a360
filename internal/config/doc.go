// Package config provides configuration structures and utilities for the
// site analyzer. It defines the crawl settings, report generation
// preferences, and per-site overrides loaded from the YAML config file.
package config
