package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"urlcat/internal/config"
	"urlcat/internal/database"
	"urlcat/internal/report"
)

// NewHistoryCmd creates the history command.
// This command inspects past analysis runs stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [domain]",
		Short: "Inspect and compare past analysis runs",
		Long: `History lists the analysis runs recorded in the run database and can
re-render or compare them.

Every 'urlcat crawl' run is saved unless --no-save is given. Runs are
listed newest first with their run ID, which the --show, --delete, and
--compare flags accept.

Examples:
  # List every recorded run
  urlcat history

  # List runs for one domain
  urlcat history example.com

  # Re-render a stored run
  urlcat history --show 2f1c... --json

  # Compare the category distribution of the latest two runs of a domain
  urlcat history --compare example.com

  # Remove a stored run
  urlcat history --delete 2f1c...`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of runs to list (0 for all)")
	cmd.Flags().StringP("show", "s", "",
		"Re-render the stored run with the given run ID")
	cmd.Flags().StringP("delete", "D", "",
		"Delete the stored run with the given run ID")
	cmd.Flags().Bool("compare", false,
		"Compare the latest two runs of the given domain")
	cmd.Flags().BoolP("json", "j", false,
		"Render the stored run as JSON (with --show)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	domain := ""
	if len(args) > 0 {
		domain = strings.ToLower(args[0])
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if runID, _ := cmd.Flags().GetString("show"); runID != "" {
		jsonOutput, err := cmd.Flags().GetBool("json")
		if err != nil {
			return err
		}
		return showRun(ctx, db, runID, jsonOutput)
	}

	if runID, _ := cmd.Flags().GetString("delete"); runID != "" {
		return deleteRun(ctx, db, runID)
	}

	if compare, _ := cmd.Flags().GetBool("compare"); compare {
		if domain == "" {
			return errors.New("--compare requires a domain argument")
		}
		return compareRuns(ctx, db, domain)
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	return listRuns(ctx, db, domain, limit)
}

// listRuns prints run metadata, newest first.
func listRuns(ctx context.Context, db *database.RunDB, domain string, limit int) error {
	runs, err := db.ListRuns(ctx, domain, limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		if domain != "" {
			fmt.Printf("No recorded runs for %s\n", domain)
		} else {
			fmt.Println("No recorded runs")
		}
		return nil
	}

	fmt.Printf("%-36s  %-25s  %-20s  %5s  %5s  %s\n",
		"RUN ID", "DOMAIN", "STARTED", "PAGES", "OK", "STATUS")
	for _, run := range runs {
		status := "complete"
		if run.ErrorMessage != "" {
			status = "error: " + run.ErrorMessage
		}
		fmt.Printf("%-36s  %-25s  %-20s  %5d  %5d  %s\n",
			run.RunID,
			run.Domain,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.TotalPages,
			run.SuccessPages,
			status,
		)
	}
	return nil
}

// showRun re-renders a stored run on stdout.
func showRun(ctx context.Context, db *database.RunDB, runID string, jsonOutput bool) error {
	siteReport, err := db.GetReport(ctx, runID)
	if err != nil {
		return err
	}

	var w report.Writer
	if jsonOutput {
		w = report.NewJSONWriter(os.Stdout, report.WithPrettyPrint())
	} else {
		w = report.NewSimpleWriter(os.Stdout)
	}

	_, err = w.Write(siteReport)
	return err
}

// deleteRun removes a stored run.
func deleteRun(ctx context.Context, db *database.RunDB, runID string) error {
	if err := db.DeleteRun(ctx, runID); err != nil {
		return err
	}
	fmt.Printf("Deleted run %s\n", runID)
	return nil
}

// compareRuns prints the category distribution diff between the latest two
// runs of a domain.
func compareRuns(ctx context.Context, db *database.RunDB, domain string) error {
	runs, err := db.ListRuns(ctx, domain, 2)
	if err != nil {
		return err
	}
	if len(runs) < 2 {
		return fmt.Errorf("need at least two recorded runs for %s, found %d", domain, len(runs))
	}

	latest, previous := runs[0], runs[1]

	latestCounts, err := db.CategoryCounts(ctx, latest.RunID)
	if err != nil {
		return err
	}
	previousCounts, err := db.CategoryCounts(ctx, previous.RunID)
	if err != nil {
		return err
	}

	fmt.Printf("Comparing runs of %s\n", domain)
	fmt.Printf("  previous: %s (%s)\n", previous.RunID, previous.StartedAt.Format("2006-01-02 15:04"))
	fmt.Printf("  latest:   %s (%s)\n\n", latest.RunID, latest.StartedAt.Format("2006-01-02 15:04"))

	categories := make(map[string]bool)
	for c := range latestCounts {
		categories[c] = true
	}
	for c := range previousCounts {
		categories[c] = true
	}
	names := make([]string, 0, len(categories))
	for c := range categories {
		names = append(names, c)
	}
	sort.Strings(names)

	fmt.Printf("%-15s  %8s  %8s  %8s\n", "CATEGORY", "PREVIOUS", "LATEST", "CHANGE")
	for _, name := range names {
		prev, curr := previousCounts[name], latestCounts[name]
		fmt.Printf("%-15s  %8d  %8d  %+8d\n", name, prev, curr, curr-prev)
	}

	fmt.Printf("\n%-15s  %8d  %8d  %+8d\n", "total pages",
		previous.TotalPages, latest.TotalPages, latest.TotalPages-previous.TotalPages)

	return nil
}
