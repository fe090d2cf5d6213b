// Package gold implements a tiny golden-file helper for column wire-format
// regression tests: encode once, compare against a committed reference, and
// let `go test -update` refresh the reference when the format intentionally
// changes.
package gold

import (
	"bytes"
	"encoding/hex"
	"flag"
	"os"
	"path/filepath"
	"testing"
)

var update = flag.Bool("update", false, "update golden files")

// Bytes compares data against testdata/<name>.golden (hex-encoded for
// diffability), writing it when -update is passed or the file is missing.
func Bytes(t *testing.T, data []byte, name string) {
	t.Helper()
	path := filepath.Join("testdata", name+".golden")
	if *update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("gold: mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(hex.EncodeToString(data)), 0o644); err != nil {
			t.Fatalf("gold: write: %v", err)
		}
		return
	}
	want, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
				t.Fatalf("gold: mkdir: %v", mkErr)
			}
			if wErr := os.WriteFile(path, []byte(hex.EncodeToString(data)), 0o644); wErr != nil {
				t.Fatalf("gold: write: %v", wErr)
			}
			return
		}
		t.Fatalf("gold: read %s: %v", path, err)
	}
	got := hex.EncodeToString(data)
	if !bytes.Equal([]byte(got), want) {
		t.Fatalf("gold: %s mismatch\n got: %s\nwant: %s", path, got, want)
	}
}
