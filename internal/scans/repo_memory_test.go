package scans

import (
	"context"
	"errors"
	"testing"
	"time"
)

func seedScan(id string, createdAt time.Time) Scan {
	return Scan{
		ID:          id,
		ProductName: "Oats",
		Source:      SourceText,
		Status:      StatusCompleted,
		CreatedAt:   createdAt,
	}
}

func TestMemoryRepoRoundTrip(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	base := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"scan-1", "scan-2", "scan-3"} {
		if err := repo.Create(ctx, seedScan(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Create %s: %v", id, err)
		}
	}

	got, err := repo.GetByID(ctx, "scan-2")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ProductName != "Oats" || got.Status != StatusCompleted {
		t.Fatalf("unexpected scan: %+v", got)
	}

	list, err := repo.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 scans, got %d", len(list))
	}
	if list[0].ID != "scan-3" || list[2].ID != "scan-1" {
		t.Fatalf("expected newest first, got %s..%s", list[0].ID, list[2].ID)
	}

	window, err := repo.List(ctx, 1, 1)
	if err != nil {
		t.Fatalf("List window: %v", err)
	}
	if len(window) != 1 || window[0].ID != "scan-2" {
		t.Fatalf("expected window [scan-2], got %+v", window)
	}
}

func TestMemoryRepoDelete(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, seedScan("scan-1", time.Now().UTC())); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(ctx, "scan-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, "scan-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, "scan-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for second delete, got %v", err)
	}
}

func TestMemoryRepoListOffsetPastEnd(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	if err := repo.Create(ctx, seedScan("scan-1", time.Now().UTC())); err != nil {
		t.Fatalf("Create: %v", err)
	}
	list, err := repo.List(ctx, 10, 5)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty window, got %d", len(list))
	}
}
