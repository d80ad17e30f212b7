package scans

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register pure-Go sqlite driver
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS scans (
    id TEXT PRIMARY KEY,
    product_name TEXT NOT NULL DEFAULT '',
    source TEXT NOT NULL,
    status TEXT NOT NULL,
    analysis TEXT,
    failure_reason TEXT NOT NULL DEFAULT '',
    raw_key TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_scans_created_at ON scans (created_at DESC)`,
}

// OpenSQLite opens the scan database at path, creating parent
// directories as needed. The single-connection pool sidesteps
// SQLITE_BUSY under concurrent writers.
func OpenSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// SQLiteRepo implements Repo on an embedded SQLite database for
// local and offline deployments.
type SQLiteRepo struct {
	DB *sql.DB
}

// NewSQLiteRepo ensures the schema exists and returns the repo.
func NewSQLiteRepo(ctx context.Context, db *sql.DB) (*SQLiteRepo, error) {
	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("create scans schema: %w", err)
		}
	}
	return &SQLiteRepo{DB: db}, nil
}

// Create inserts a new scan row.
func (r *SQLiteRepo) Create(ctx context.Context, scan Scan) error {
	const query = `
INSERT INTO scans (id, product_name, source, status, analysis, failure_reason, raw_key, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	analysisJSON, err := marshalAnalysis(scan.Analysis)
	if err != nil {
		return err
	}
	var analysisArg any
	if analysisJSON != nil {
		analysisArg = analysisJSON
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		scan.ID,
		scan.ProductName,
		scan.Source,
		scan.Status,
		analysisArg,
		scan.FailureReason,
		scan.RawKey,
		scan.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// GetByID fetches a scan by ID.
func (r *SQLiteRepo) GetByID(ctx context.Context, id string) (Scan, error) {
	const query = `
SELECT id, product_name, source, status, analysis, failure_reason, raw_key, created_at
FROM scans
WHERE id = ?
LIMIT 1`
	var scan Scan
	var analysisRaw []byte
	var createdAt string
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&scan.ID,
		&scan.ProductName,
		&scan.Source,
		&scan.Status,
		&analysisRaw,
		&scan.FailureReason,
		&scan.RawKey,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Scan{}, ErrNotFound
		}
		return Scan{}, err
	}
	if scan.CreatedAt, err = parseSQLiteTime(createdAt); err != nil {
		return Scan{}, err
	}
	if scan.Analysis, err = unmarshalAnalysis(analysisRaw); err != nil {
		return Scan{}, err
	}
	return scan, nil
}

// List returns scans newest first.
func (r *SQLiteRepo) List(ctx context.Context, limit, offset int) ([]Scan, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, product_name, source, status, analysis, failure_reason, raw_key, created_at
FROM scans
ORDER BY created_at DESC, id
LIMIT ? OFFSET ?`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Scan
	for rows.Next() {
		var scan Scan
		var analysisRaw []byte
		var createdAt string
		if err := rows.Scan(
			&scan.ID,
			&scan.ProductName,
			&scan.Source,
			&scan.Status,
			&analysisRaw,
			&scan.FailureReason,
			&scan.RawKey,
			&createdAt,
		); err != nil {
			return nil, err
		}
		if scan.CreatedAt, err = parseSQLiteTime(createdAt); err != nil {
			return nil, err
		}
		if scan.Analysis, err = unmarshalAnalysis(analysisRaw); err != nil {
			return nil, err
		}
		out = append(out, scan)
	}
	return out, rows.Err()
}

// Delete removes a scan by ID.
func (r *SQLiteRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM scans WHERE id = ?`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func parseSQLiteTime(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at %q: %w", raw, err)
	}
	return t, nil
}

var _ Repo = (*SQLiteRepo)(nil)
