package local

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	payload := "Nutrition Facts\nCalories 250\nSodium 2000mg\n"

	key, size, mime, err := store.Save(context.Background(), "scan-1", "label.txt", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if size != int64(len(payload)) {
		t.Fatalf("expected size %d, got %d", len(payload), size)
	}
	if !strings.HasPrefix(mime, "text/plain") {
		t.Fatalf("expected text/plain mime, got %q", mime)
	}

	rc, err := store.Open(context.Background(), key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != payload {
		t.Fatalf("payload mismatch: %q", got)
	}
}

func TestSaveRejectsTraversalNames(t *testing.T) {
	store := New(t.TempDir())
	if _, _, _, err := store.Save(context.Background(), "scan-1", "../escape.txt", strings.NewReader("x")); err == nil {
		t.Fatalf("expected error for traversal file name")
	}
	if _, _, _, err := store.Save(context.Background(), "../scan", "label.txt", strings.NewReader("x")); err == nil {
		t.Fatalf("expected error for traversal scan id")
	}
}

func TestOpenRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())
	for _, key := range []string{"../etc/passwd", "/etc/passwd"} {
		if _, err := store.Open(context.Background(), key); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}
