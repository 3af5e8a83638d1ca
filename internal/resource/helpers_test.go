package resource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Writes files (slash-separated path to content) under dir.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

// Creates a source tree and a registry over it.
func newTestRegistry(t *testing.T, files map[string]string) (*Registry, string) {
	t.Helper()
	base := t.TempDir()
	src := filepath.Join(base, "src")
	writeTree(t, src, files)
	reg := NewRegistry(Config{
		SourceRoot: src,
		DistRoot:   filepath.Join(base, "dist"),
	})
	return reg, src
}
