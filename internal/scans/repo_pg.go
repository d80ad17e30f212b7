package scans

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"nutriscan-backend/nutrition/analyzer"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new scan row.
func (r *PGRepo) Create(ctx context.Context, scan Scan) error {
	const query = `
INSERT INTO scans (
    id,
    product_name,
    source,
    status,
    analysis,
    failure_reason,
    raw_key,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	analysisJSON, err := marshalAnalysis(scan.Analysis)
	if err != nil {
		return err
	}
	// A nil interface reaches the driver as SQL NULL; a nil []byte does not.
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
		scan.CreatedAt,
	)
	return err
}

// GetByID fetches a scan by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Scan, error) {
	const query = `
SELECT id, product_name, source, status, analysis, failure_reason, raw_key, created_at
FROM scans
WHERE id = $1
LIMIT 1`
	var scan Scan
	var analysisRaw []byte
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&scan.ID,
		&scan.ProductName,
		&scan.Source,
		&scan.Status,
		&analysisRaw,
		&scan.FailureReason,
		&scan.RawKey,
		&scan.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Scan{}, ErrNotFound
		}
		return Scan{}, err
	}
	scan.Analysis, err = unmarshalAnalysis(analysisRaw)
	if err != nil {
		return Scan{}, err
	}
	return scan, nil
}

// List returns scans newest first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Scan, error) {
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
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Scan
	for rows.Next() {
		var scan Scan
		var analysisRaw []byte
		if err := rows.Scan(
			&scan.ID,
			&scan.ProductName,
			&scan.Source,
			&scan.Status,
			&analysisRaw,
			&scan.FailureReason,
			&scan.RawKey,
			&scan.CreatedAt,
		); err != nil {
			return nil, err
		}
		scan.Analysis, err = unmarshalAnalysis(analysisRaw)
		if err != nil {
			return nil, err
		}
		out = append(out, scan)
	}
	return out, rows.Err()
}

// Delete removes a scan by ID.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM scans WHERE id = $1`
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

func marshalAnalysis(a *analyzer.Analysis) ([]byte, error) {
	if a == nil {
		return nil, nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal analysis: %w", err)
	}
	return data, nil
}

func unmarshalAnalysis(data []byte) (*analyzer.Analysis, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var a analyzer.Analysis
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("unmarshal analysis: %w", err)
	}
	return &a, nil
}

var _ Repo = (*PGRepo)(nil)
