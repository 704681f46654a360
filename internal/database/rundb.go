package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"urlcat/internal/model"
)

// FileName is the database file created inside the data directory.
const FileName = "urlcat.db"

// RunDB provides SQLite-based storage for completed analysis runs.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file for all runs rather
// than one file per site. This keeps history queries across sites cheap
// and simplifies backup/restore operations.
type RunDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RunDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single connection avoids
	// SQLITE_BUSY under concurrent saves from batch runs.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// Path returns the location of the database file.
func (rdb *RunDB) Path() string {
	return rdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (rdb *RunDB) createTables() error {
	schema := `
	-- Runs store one row per completed site analysis, with the full
	-- report serialized as JSON for exact reconstruction.
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		seed TEXT NOT NULL,
		domain TEXT NOT NULL,
		max_pages INTEGER NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME,
		total_pages INTEGER NOT NULL,
		success_pages INTEGER NOT NULL,
		error_message TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_domain ON runs(domain);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Pages store the per-URL result rows for history queries that
	-- should not deserialize whole reports.
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		title TEXT,
		category TEXT,
		depth INTEGER,
		word_count INTEGER,
		status TEXT NOT NULL,
		status_code INTEGER,
		UNIQUE(run_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_run ON pages(run_id);
	CREATE INDEX IF NOT EXISTS idx_pages_category ON pages(category);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is a history listing row: run metadata without the result set.
type RunRecord struct {
	RunID        string
	Seed         string
	Domain       string
	MaxPages     int
	StartedAt    time.Time
	FinishedAt   time.Time
	TotalPages   int
	SuccessPages int
	ErrorMessage string
}

// SaveReport stores a completed report: one runs row plus one pages row per
// visited URL, in a single transaction so history never sees partial runs.
func (rdb *RunDB) SaveReport(ctx context.Context, report *model.SiteReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	successPages := len(report.SuccessPages())

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (run_id, seed, domain, max_pages, started_at, finished_at,
		total_pages, success_pages, error_message, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(run_id) DO UPDATE SET
		finished_at = excluded.finished_at,
		total_pages = excluded.total_pages,
		success_pages = excluded.success_pages,
		error_message = excluded.error_message,
		report_json = excluded.report_json
	`,
		report.RunID,
		report.Seed,
		report.Domain,
		report.MaxPages,
		report.StartedAt.UTC(),
		report.FinishedAt.UTC(),
		report.PageCount(),
		successPages,
		report.ErrorMessage,
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, page := range report.Pages {
		depth := 0
		if page.Hierarchy != nil {
			depth = page.Hierarchy.Depth
		}

		_, err = tx.ExecContext(ctx, `
		INSERT INTO pages (run_id, url, title, category, depth, word_count, status, status_code)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, url) DO UPDATE SET
			title = excluded.title,
			category = excluded.category,
			depth = excluded.depth,
			word_count = excluded.word_count,
			status = excluded.status,
			status_code = excluded.status_code
		`,
			report.RunID,
			page.URL,
			page.Title,
			page.Category,
			depth,
			page.WordCount,
			string(page.Status),
			page.StatusCode,
		)
		if err != nil {
			return fmt.Errorf("failed to insert page %s: %w", page.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// ListRuns returns run metadata ordered newest first. A domain filter may
// be empty to list every run; limit <= 0 means no limit.
func (rdb *RunDB) ListRuns(ctx context.Context, domain string, limit int) ([]RunRecord, error) {
	query := `
	SELECT run_id, seed, domain, max_pages, started_at, finished_at,
		total_pages, success_pages, COALESCE(error_message, '')
	FROM runs
	`
	args := make([]any, 0, 2)
	if domain != "" {
		query += " WHERE domain = ?"
		args = append(args, domain)
	}
	query += " ORDER BY started_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	records := make([]RunRecord, 0)
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Seed,
			&rec.Domain,
			&rec.MaxPages,
			&rec.StartedAt,
			&rec.FinishedAt,
			&rec.TotalPages,
			&rec.SuccessPages,
			&rec.ErrorMessage,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return records, nil
}

// GetReport reconstructs the full report of a stored run from its JSON.
func (rdb *RunDB) GetReport(ctx context.Context, runID string) (*model.SiteReport, error) {
	var reportJSON string
	err := rdb.db.QueryRowContext(ctx,
		"SELECT report_json FROM runs WHERE run_id = ?", runID,
	).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	var report model.SiteReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to deserialize report: %w", err)
	}
	return &report, nil
}

// CategoryCounts aggregates the category distribution of a stored run from
// the pages table without deserializing the report.
func (rdb *RunDB) CategoryCounts(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := rdb.db.QueryContext(ctx, `
	SELECT category, COUNT(*)
	FROM pages
	WHERE run_id = ? AND status = ? AND category != ''
	GROUP BY category
	`, runID, string(model.StatusSuccess))
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		counts[category] = count
	}
	return counts, rows.Err()
}

// DeleteRun removes a run and its pages.
func (rdb *RunDB) DeleteRun(ctx context.Context, runID string) error {
	result, err := rdb.db.ExecContext(ctx, "DELETE FROM runs WHERE run_id = ?", runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %s not found", runID)
	}

	// Foreign keys may be off depending on the connection; delete pages
	// explicitly rather than relying on ON DELETE CASCADE.
	if _, err := rdb.db.ExecContext(ctx, "DELETE FROM pages WHERE run_id = ?", runID); err != nil {
		return fmt.Errorf("failed to delete run pages: %w", err)
	}
	return nil
}
