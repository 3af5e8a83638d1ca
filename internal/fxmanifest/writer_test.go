package fxmanifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cruciblehq/fxpack/internal/resource"
	"github.com/google/go-cmp/cmp"
	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Creates a source tree and returns the registry and the resource "A".
func setup(t *testing.T, files map[string]string) (*resource.Registry, *resource.Resource) {
	t.Helper()
	base := t.TempDir()
	src := filepath.Join(base, "src")
	for rel, content := range files {
		p := filepath.Join(src, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	reg := resource.NewRegistry(resource.Config{SourceRoot: src, DistRoot: filepath.Join(base, "dist")})
	res, err := reg.Open("A")
	require.NoError(t, err)
	return reg, res
}

func assertText(t *testing.T, want, got string) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rendered manifest mismatch (-want +got):\n%s", diff)
	}
}

var unbundled = Scripts{}

func TestRenderMinimal(t *testing.T) {
	reg, res := setup(t, map[string]string{"A/manifest.yaml": ""})

	got, err := NewWriter(reg, unbundled).Render(res)
	require.NoError(t, err)

	assertText(t, `fx_version 'cerulean'
game 'gta5'

server_scripts {
}

client_scripts {
}
`, got)
}

func TestRenderFull(t *testing.T) {
	reg, res := setup(t, map[string]string{
		"A/manifest.yaml": `
info:
  author: someone
  description: It's a chat
fx_version: bodacious
lua54: true
node_version: "22"
scripts:
  shared: [shared/config.lua]
  server: [server/*.lua]
  client: [client/main.lua]
files:
  - client/*.lua
  - $B/shared/config.json:shared_config.json
  - src: stream/**/*.ytd
    skipResolve: true
  - src: server/secrets.json
    serverOnly: true
exports:
  - getPlayer
  - function: openMenu
    env: client
  - function: version
    env: shared
`,
		"A/client/main.lua":     "",
		"A/client/util.lua":     "",
		"A/server/secrets.json": "",
		"B/manifest.yaml":       "",
		"B/shared/config.json":  "{}",
	})

	got, err := NewWriter(reg, unbundled).Render(res)
	require.NoError(t, err)

	assertText(t, `-- @author someone
-- @description It's a chat

fx_version 'bodacious'
game 'gta5'
lua54 true
node_version '22'

server_scripts {
  'shared/config.lua',
  'server/*.lua',
}

client_scripts {
  'shared/config.lua',
  'client/main.lua',
}

files {
  'client/main.lua',
  'client/util.lua',
  '_imports/B/shared_config.json',
  'stream/**/*.ytd',
}

shared_exports {
  'version',
}

server_exports {
  'getPlayer',
}

exports {
  'openMenu',
}
`, got)
}

func TestRenderMultilineInfo(t *testing.T) {
	reg, res := setup(t, map[string]string{
		"A/manifest.yaml": `
info:
  description: |
    first
    print('injected')
  tags:
    - chat
    - ui
  "multi\r\nkey": x
`,
	})

	got, err := NewWriter(reg, DefaultBundles).Render(res)
	require.NoError(t, err)

	assertText(t, `-- @description first print('injected')
-- @tags - chat - ui
-- @multi key x

fx_version 'cerulean'
game 'gta5'
`, got)

	for _, line := range strings.Split(strings.TrimRight(got, "\n"), "\n") {
		assert.NotContains(t, line, "\r")
		if strings.Contains(line, "print(") {
			assert.True(t, strings.HasPrefix(line, "-- "), line)
		}
	}
}

func TestRenderClientFilesScenario(t *testing.T) {
	reg, res := setup(t, map[string]string{
		"A/manifest.yaml":   "files: [\"client/*.lua\"]\n",
		"A/client/util.lua": "",
		"A/client/main.lua": "",
	})

	got, err := NewWriter(reg, unbundled).Render(res)
	require.NoError(t, err)
	assert.Contains(t, got, "files {\n  'client/main.lua',\n  'client/util.lua',\n}\n")
}

func TestRenderAbsentSectionsOmitted(t *testing.T) {
	reg, res := setup(t, map[string]string{"A/manifest.yaml": "info:\n  name: a\n"})

	got, err := NewWriter(reg, DefaultBundles).Render(res)
	require.NoError(t, err)

	assertText(t, `-- @name a

fx_version 'cerulean'
game 'gta5'
`, got)
}

func TestRenderEmptyListsKeepBlocks(t *testing.T) {
	reg, res := setup(t, map[string]string{"A/manifest.yaml": "files: []\nexports: []\n"})

	got, err := NewWriter(reg, DefaultBundles).Render(res)
	require.NoError(t, err)

	assert.Contains(t, got, "files {\n}\n")
	assert.Contains(t, got, "shared_exports {\n}\n\nserver_exports {\n}\n\nexports {\n}\n")
}

func TestRenderBundled(t *testing.T) {
	reg, res := setup(t, map[string]string{
		"A/manifest.yaml": "scripts:\n  server: [server/main.lua]\n",
	})
	w := NewWriter(reg, DefaultBundles)

	got, err := w.Render(res)
	require.NoError(t, err)
	assert.NotContains(t, got, "server_script")

	bundle := filepath.Join(res.OutputTarget, "dist", "server.js")
	require.NoError(t, os.MkdirAll(filepath.Dir(bundle), 0o755))
	require.NoError(t, os.WriteFile(bundle, []byte("//"), 0o644))

	got, err = w.Render(res)
	require.NoError(t, err)
	assert.Contains(t, got, "game 'gta5'\n\nserver_script 'dist/server.js'\n")
	assert.NotContains(t, got, "client_script")
	assert.NotContains(t, got, "server_scripts")
}

func TestRenderAmbiguousImport(t *testing.T) {
	reg, res := setup(t, map[string]string{
		"A/manifest.yaml": "files:\n  - $B/*.json:one.json\n",
		"B/manifest.yaml": "",
		"B/a.json":        "",
		"B/b.json":        "",
	})

	_, err := NewWriter(reg, unbundled).Render(res)
	require.ErrorIs(t, err, ErrRender)
	require.ErrorIs(t, err, resource.ErrAmbiguousTarget)
}

func TestRenderIdempotent(t *testing.T) {
	reg, res := setup(t, map[string]string{
		"A/manifest.yaml": "info:\n  z: 1\n  a: 2\n  m: 3\nfiles: [\"**/*.lua\"]\n",
		"A/x/b.lua":       "",
		"A/a.lua":         "",
		"A/x/[y]/c.lua":   "",
	})
	w := NewWriter(reg, unbundled)

	first, err := w.Render(res)
	require.NoError(t, err)
	for range 5 {
		again, err := w.Render(res)
		require.NoError(t, err)
		assertText(t, first, again)
	}
	assert.Contains(t, first, "-- @z 1\n-- @a 2\n-- @m 3\n")
}

func TestWrite(t *testing.T) {
	reg, res := setup(t, map[string]string{"A/manifest.yaml": "game: rdr3\n"})
	w := NewWriter(reg, unbundled)

	first, err := w.Write(res, false)
	require.NoError(t, err)
	assert.True(t, first.Changed)
	assert.Equal(t, res.OutputManifestPath(), first.Path)

	data, err := os.ReadFile(first.Path)
	require.NoError(t, err)
	assert.Equal(t, digest.FromBytes(data), first.Digest)

	second, err := w.Write(res, false)
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Equal(t, first.Digest, second.Digest)

	forced, err := w.Write(res, true)
	require.NoError(t, err)
	assert.True(t, forced.Changed)
}

func TestLuaValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"cerulean", "'cerulean'"},
		{"it's", `'it\'s'`},
		{`a\b`, `'a\\b'`},
		{"line\nbreak", `'line\nbreak'`},
		{true, "true"},
		{false, "false"},
		{22, "22"},
		{1.5, "1.5"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, luaValue(tt.in))
	}
}

func TestTruthy(t *testing.T) {
	assert.False(t, truthy(nil))
	assert.False(t, truthy(""))
	assert.False(t, truthy(false))
	assert.False(t, truthy(0))
	assert.True(t, truthy("x"))
	assert.True(t, truthy(true))
	assert.True(t, truthy(3))
}
