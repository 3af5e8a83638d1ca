package build

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cruciblehq/fxpack/internal/fxmanifest"
	"github.com/cruciblehq/fxpack/internal/hook"
	"github.com/cruciblehq/fxpack/internal/resource"
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

// Creates a session over a fresh source tree with unbundled scripts and
// statically registered hooks.
func newTestSession(t *testing.T, files map[string]string) (*Session, *hook.Static) {
	t.Helper()
	base := t.TempDir()
	src := filepath.Join(base, "src")
	writeTree(t, src, files)

	reg := resource.NewRegistry(resource.Config{
		SourceRoot: src,
		DistRoot:   filepath.Join(base, "dist"),
	})
	static := hook.NewStatic()
	return &Session{
		Registry:  reg,
		Writer:    fxmanifest.NewWriter(reg, fxmanifest.Scripts{}),
		Hooks:     hook.NewInvoker(static, 0),
		CacheRoot: filepath.Join(base, "cache"),
	}, static
}

// Opens the named resource of the session.
func openResource(t *testing.T, s *Session, name string) *resource.Resource {
	t.Helper()
	res, err := s.Registry.Open(name)
	require.NoError(t, err)
	return res
}

// Reads a file under the resource's output target.
func readOutput(t *testing.T, res *resource.Resource, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(res.OutputTarget, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}
