package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashContent returns the hex SHA-256 digest of a payload. Scan caching
// keys on this so identical label text resolves to the same entry.
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
