package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash generates a SHA-256 hash of the input string
func Hash(input string) string {
	hasher := sha256.New()
	hasher.Write([]byte(input))
	return hex.EncodeToString(hasher.Sum(nil))
}

// ShortHash returns the first n characters of the SHA-256 hash, enough
// to content-address snapshot files without unwieldy names.
func ShortHash(input string, n int) string {
	h := Hash(input)
	if n < 1 || n > len(h) {
		return h
	}
	return h[:n]
}
