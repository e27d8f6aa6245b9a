// Package dbhash computes content checksums of DSL source files, for
// callers that want to cache-bust a memoized parse without re-parsing on
// every call. Unrelated to strhash, which hashes identifiers into the
// 32-bit Hash identity space the database itself is keyed by.
package dbhash

import (
	"encoding/hex"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
)

// FileChecksum returns a hex-encoded blake2b-256 digest of path's
// contents, or ok == false if the file cannot be opened.
func FileChecksum(path string) (sum string, ok bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", false
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", false
	}
	return hex.EncodeToString(h.Sum(nil)), true
}
