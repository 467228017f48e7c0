// Package testutil provides shared helpers for tests: a filesystem tree
// writer and a fake compile engine that mimics the external toolchain's
// observable behavior (objects plus dependency records) without a compiler.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// WriteTree writes the given files (path relative to root -> content),
// creating parent directories as needed.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// Touch sets the modification time of every given path to ts. Tests use it
// to pin timestamps instead of sleeping across filesystem granularity.
func Touch(t *testing.T, ts time.Time, paths ...string) {
	t.Helper()
	for _, path := range paths {
		require.NoError(t, os.Chtimes(path, ts, ts))
	}
}
