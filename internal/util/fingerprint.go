package util

import (
	"bytes"
	"encoding/hex"
	"hash"
	"strings"
)

// Hex renders digest bytes as lowercase hex, two characters per byte.
func Hex(sum []byte) string {
	return hex.EncodeToString(sum)
}

// Fingerprint finalizes h and returns its hex digest.
func Fingerprint(h hash.Hash) string {
	return Hex(h.Sum(nil))
}

// Equal compares two hex digests ignoring case and surrounding space.
// Malformed input never matches.
func Equal(a, b string) bool {
	da, errA := hex.DecodeString(strings.TrimSpace(a))
	db, errB := hex.DecodeString(strings.TrimSpace(b))
	if errA != nil || errB != nil || len(da) == 0 {
		return false
	}
	return bytes.Equal(da, db)
}
