package scans

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu    sync.RWMutex
	scans map[string]Scan
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{scans: make(map[string]Scan)}
}

// Create stores a scan.
func (r *MemoryRepo) Create(ctx context.Context, scan Scan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scans[scan.ID] = scan
	return nil
}

// GetByID returns a scan by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Scan, error) {
	if err := ctx.Err(); err != nil {
		return Scan{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	scan, ok := r.scans[id]
	if !ok {
		return Scan{}, ErrNotFound
	}
	return scan, nil
}

// List returns scans newest first, honoring limit/offset.
func (r *MemoryRepo) List(ctx context.Context, limit, offset int) ([]Scan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	all := make([]Scan, 0, len(r.scans))
	for _, scan := range r.scans {
		all = append(all, scan)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	if offset >= len(all) {
		return []Scan{}, nil
	}
	end := len(all)
	if offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

// Delete removes a scan by ID.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.scans[id]; !ok {
		return ErrNotFound
	}
	delete(r.scans, id)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
