package util

import "testing"

func TestHashContent(t *testing.T) {
	payload := []byte("Calories 250\nSodium 2000mg")
	got := HashContent(payload)
	if got != HashContent(payload) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
	if HashContent([]byte("Calories 251")) == got {
		t.Fatalf("different payloads should not collide")
	}
}
