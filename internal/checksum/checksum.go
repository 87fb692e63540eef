// Package checksum fingerprints records-file content so the search index can
// tell whether it is in sync with the flat file.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 fingerprint of the encoded record set.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
