package scans

import "context"

// Repo defines persistence operations for scan history.
type Repo interface {
	Create(ctx context.Context, scan Scan) error
	GetByID(ctx context.Context, id string) (Scan, error)
	List(ctx context.Context, limit, offset int) ([]Scan, error)
	Delete(ctx context.Context, id string) error
}
