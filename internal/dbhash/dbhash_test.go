package dbhash

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileChecksumStableAndDistinct(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(a, []byte("interfaces { gp { btn: a } }\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("interfaces { gp { btn: a b } }\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	sum1, ok := FileChecksum(a)
	if !ok {
		t.Fatal("FileChecksum(a) ok = false")
	}
	sum2, ok := FileChecksum(a)
	if !ok {
		t.Fatal("FileChecksum(a) second call ok = false")
	}
	if sum1 != sum2 {
		t.Fatalf("checksum not stable: %s != %s", sum1, sum2)
	}

	sum3, ok := FileChecksum(b)
	if !ok {
		t.Fatal("FileChecksum(b) ok = false")
	}
	if sum1 == sum3 {
		t.Fatal("distinct contents produced identical checksums")
	}
}

func TestFileChecksumMissingFile(t *testing.T) {
	if _, ok := FileChecksum(filepath.Join(t.TempDir(), "missing.txt")); ok {
		t.Fatal("FileChecksum(missing) ok = true, want false")
	}
}
