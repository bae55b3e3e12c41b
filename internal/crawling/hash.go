package crawling

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashString computes the SHA-256 hex digest of a string. Used as the
// content address for deduplication.
func HashString(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// HashBytes computes the SHA-256 hex digest of raw bytes.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
