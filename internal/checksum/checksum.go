// Package checksum computes the record section checksum stored in stream headers.
package checksum

import "github.com/cespare/xxhash/v2"

// Sum64 returns the xxHash64 of data.
func Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Verify reports whether data hashes to want.
func Verify(data []byte, want uint64) bool {
	return xxhash.Sum64(data) == want
}
