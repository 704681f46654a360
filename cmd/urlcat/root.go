// Package main provides the entry point for the urlcat CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for urlcat.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "urlcat",
		Short: "Website structure and content taxonomy analyzer",
		Long: `urlcat crawls a website from a seed URL and builds a content taxonomy:
it classifies every page into a topical category, maps the URL hierarchy,
and extracts the most frequent keywords per page and across the site.

Results can be rendered as plain text, JSON, Markdown, CSV, or a URL list,
and every run is saved for later comparison via the history command.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
