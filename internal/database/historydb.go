package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/profscan/profscan/internal/model"
)

// ErrRunNotFound is returned when a requested run ID does not exist.
var ErrRunNotFound = errors.New("run not found")

// HistoryDB provides SQLite-based storage for completed runs.
// Each saved run keeps its statistics plus the accepted records, so past
// runs can be listed, inspected, and compared against each other.
//
// Design decision: We store records relationally rather than as a JSON
// blob because comparison between runs is a first-class operation; set
// arithmetic over canonical URLs belongs in SQL, not in application code
// deserializing blobs.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
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

// Open opens or creates a HistoryDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "profscan.db")

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

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
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

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Runs store per-query search run statistics
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		providers TEXT,
		pages_fetched INTEGER DEFAULT 0,
		candidates_seen INTEGER DEFAULT 0,
		rejections TEXT,
		saturated INTEGER DEFAULT 0,
		timed_out INTEGER DEFAULT 0,
		error TEXT,
		created DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_query ON runs(query);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Results store the accepted records of each run in insertion order
	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		canonical_url TEXT NOT NULL,
		title TEXT NOT NULL,
		observed_at TEXT NOT NULL,
		UNIQUE(run_id, canonical_url)
	);

	CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
	CREATE INDEX IF NOT EXISTS idx_results_url ON results(canonical_url);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRunReport stores a completed run and its records.
// The insert is transactional: a run row never exists without its records.
// Returns the new run's database ID.
func (hdb *HistoryDB) SaveRunReport(ctx context.Context, report *model.RunReport) (int64, error) {
	providersJSON, err := json.Marshal(report.ProvidersAttempted)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize providers: %w", err)
	}
	rejectionsJSON, err := json.Marshal(report.Rejections)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize rejections: %w", err)
	}

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	saturated := 0
	if report.Results != nil && report.Results.Saturated() {
		saturated = 1
	}
	timedOut := 0
	if report.TimedOut {
		timedOut = 1
	}
	finishedAt := ""
	if !report.FinishedAt.IsZero() {
		finishedAt = report.FinishedAt.Format(time.RFC3339)
	}

	result, err := tx.ExecContext(ctx, `
	INSERT INTO runs (query, started_at, finished_at, providers, pages_fetched, candidates_seen, rejections, saturated, timed_out, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.Query,
		report.StartedAt.Format(time.RFC3339),
		finishedAt,
		string(providersJSON),
		report.PagesFetched,
		report.CandidatesSeen,
		string(rejectionsJSON),
		saturated,
		timedOut,
		report.ErrorMessage,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	if report.Results != nil {
		for i, record := range report.Results.Records() {
			_, err := tx.ExecContext(ctx, `
			INSERT INTO results (run_id, position, canonical_url, title, observed_at)
			VALUES (?, ?, ?, ?, ?)
			`,
				runID,
				i,
				record.CanonicalURL,
				record.Title,
				record.ObservedAt.Format(time.RFC3339),
			)
			if err != nil {
				return 0, fmt.Errorf("failed to insert record: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// RunMetadata contains summary information about a stored run.
// This is used for displaying run history without loading the records.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// Query is the search query the run executed.
	Query string

	// StartedAt is when the run began.
	StartedAt time.Time

	// Providers lists the engines consulted, in order.
	Providers []string

	// PagesFetched is the number of result pages rendered.
	PagesFetched int

	// AcceptedCount is the number of stored records.
	AcceptedCount int

	// Saturated indicates the run hit its result cap.
	Saturated bool

	// TimedOut indicates the run was cut short by its deadline.
	TimedOut bool

	// Error holds the run's error message, if any.
	Error string
}

// RunHistory lists stored runs, most recent first.
// When query is non-empty, only runs for that query are returned.
func (hdb *HistoryDB) RunHistory(ctx context.Context, query string) ([]RunMetadata, error) {
	stmt := `
	SELECT r.id, r.query, r.started_at, r.providers, r.pages_fetched, r.saturated, r.timed_out, r.error,
		(SELECT COUNT(*) FROM results WHERE run_id = r.id) AS accepted
	FROM runs r
	`
	args := make([]interface{}, 0, 1)
	if query != "" {
		stmt += " WHERE r.query = ?"
		args = append(args, query)
	}
	stmt += " ORDER BY r.started_at DESC, r.id DESC"

	rows, err := hdb.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var startedAt string
		var providersJSON sql.NullString
		var errMsg sql.NullString
		var saturated, timedOut int

		if err := rows.Scan(&meta.ID, &meta.Query, &startedAt, &providersJSON,
			&meta.PagesFetched, &saturated, &timedOut, &errMsg, &meta.AcceptedCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		meta.StartedAt = parseTimestamp(startedAt)
		meta.Saturated = saturated != 0
		meta.TimedOut = timedOut != 0
		meta.Error = errMsg.String
		if providersJSON.Valid && providersJSON.String != "" {
			if err := json.Unmarshal([]byte(providersJSON.String), &meta.Providers); err != nil {
				meta.Providers = nil
			}
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetRun reconstructs a stored run as a RunSummary.
// Returns ErrRunNotFound for unknown IDs.
func (hdb *HistoryDB) GetRun(ctx context.Context, id int64) (*model.RunSummary, error) {
	row := hdb.db.QueryRowContext(ctx, `
	SELECT query, started_at, providers, pages_fetched, candidates_seen, rejections, saturated, timed_out, error
	FROM runs
	WHERE id = ?
	`, id)

	summary := &model.RunSummary{}
	var startedAt string
	var providersJSON, rejectionsJSON, errMsg sql.NullString
	var saturated, timedOut int

	err := row.Scan(&summary.Query, &startedAt, &providersJSON, &summary.PagesFetched,
		&summary.CandidatesSeen, &rejectionsJSON, &saturated, &timedOut, &errMsg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	summary.StartedAt = parseTimestamp(startedAt)
	summary.Saturated = saturated != 0
	summary.TimedOut = timedOut != 0
	summary.Error = errMsg.String
	if providersJSON.Valid && providersJSON.String != "" {
		if err := json.Unmarshal([]byte(providersJSON.String), &summary.ProvidersAttempted); err != nil {
			summary.ProvidersAttempted = nil
		}
	}
	if rejectionsJSON.Valid && rejectionsJSON.String != "" {
		if err := json.Unmarshal([]byte(rejectionsJSON.String), &summary.Rejections); err != nil {
			summary.Rejections = nil
		}
	}
	for _, n := range summary.Rejections {
		summary.RejectedCount += n
	}

	records, err := hdb.GetRunRecords(ctx, id)
	if err != nil {
		return nil, err
	}
	summary.Records = records
	summary.AcceptedCount = len(records)

	return summary, nil
}

// GetRunRecords returns a run's records in their original insertion order.
func (hdb *HistoryDB) GetRunRecords(ctx context.Context, runID int64) ([]model.ProfileRecord, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT canonical_url, title, observed_at
	FROM results
	WHERE run_id = ?
	ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run records: %w", err)
	}
	defer rows.Close()

	var records []model.ProfileRecord
	for rows.Next() {
		var record model.ProfileRecord
		var observedAt string

		if err := rows.Scan(&record.CanonicalURL, &record.Title, &observedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		record.ObservedAt = parseTimestamp(observedAt)
		records = append(records, record)
	}

	return records, rows.Err()
}

// RunDiff describes how two stored runs differ, keyed by canonical URL.
type RunDiff struct {
	// OldID and NewID identify the compared runs.
	OldID int64
	NewID int64

	// Added holds records present in the new run but not the old one.
	Added []model.ProfileRecord

	// Removed holds records present in the old run but not the new one.
	Removed []model.ProfileRecord

	// Unchanged is the number of canonical URLs present in both runs.
	Unchanged int
}

// CompareRuns diffs two stored runs by canonical URL.
// Both runs must exist; ErrRunNotFound is returned otherwise.
func (hdb *HistoryDB) CompareRuns(ctx context.Context, oldID, newID int64) (*RunDiff, error) {
	oldRecords, err := hdb.requireRunRecords(ctx, oldID)
	if err != nil {
		return nil, err
	}
	newRecords, err := hdb.requireRunRecords(ctx, newID)
	if err != nil {
		return nil, err
	}

	oldURLs := make(map[string]struct{}, len(oldRecords))
	for _, r := range oldRecords {
		oldURLs[r.CanonicalURL] = struct{}{}
	}
	newURLs := make(map[string]struct{}, len(newRecords))
	for _, r := range newRecords {
		newURLs[r.CanonicalURL] = struct{}{}
	}

	diff := &RunDiff{OldID: oldID, NewID: newID}
	for _, r := range newRecords {
		if _, ok := oldURLs[r.CanonicalURL]; ok {
			diff.Unchanged++
		} else {
			diff.Added = append(diff.Added, r)
		}
	}
	for _, r := range oldRecords {
		if _, ok := newURLs[r.CanonicalURL]; !ok {
			diff.Removed = append(diff.Removed, r)
		}
	}

	return diff, nil
}

// requireRunRecords loads a run's records, failing when the run is unknown.
func (hdb *HistoryDB) requireRunRecords(ctx context.Context, runID int64) ([]model.ProfileRecord, error) {
	var exists int
	err := hdb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check run: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: id %d", ErrRunNotFound, runID)
	}
	return hdb.GetRunRecords(ctx, runID)
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339,              // storage format for run and record times
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
