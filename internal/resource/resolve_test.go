package resource

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/cruciblehq/fxpack/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReference(t *testing.T) {
	tests := []struct {
		spec string
		ref  Reference
		ok   bool
	}{
		{spec: "$B/shared/config.json:shared_config.json", ref: Reference{"B", "shared/config.json", "shared_config.json"}, ok: true},
		{spec: "$B/shared/*.json", ref: Reference{"B", "shared/*.json", ""}, ok: true},
		{spec: "$my-res_2/a:b:c", ref: Reference{"my-res_2", "a", "b:c"}, ok: true},
		{spec: "$B/a:", ref: Reference{"B", "a", ""}, ok: true},
		{spec: "client/*.lua"},
		{spec: "$/a.lua"},
		{spec: "$B"},
		{spec: "$bad.name/a.lua"},
		{spec: "$abcdefghijklmnopqrstuvwxy/a.lua"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			ref, ok := ParseReference(tt.spec)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.ref, ref)
		})
	}
}

func TestImports(t *testing.T) {
	m := &manifest.Manifest{
		Scripts: manifest.Scripts{
			Shared: []string{"$lib/shared/*.lua"},
			Client: []string{"client/*.lua", "$ui/dist/app.js:app.js"},
		},
		Files: []manifest.FileEntry{
			{Src: "$lib/data.json"},
			{Src: "$B/shared/config.json:shared_config.json"},
			{Src: "stream/**/*.ytd"},
		},
	}

	assert.Equal(t, []string{"B", "lib", "ui"}, Imports(m))
	assert.Empty(t, Imports(&manifest.Manifest{}))
	assert.Nil(t, Imports(nil))
}

func TestResolvePlainSingleFile(t *testing.T) {
	reg, src := newTestRegistry(t, map[string]string{
		"A/manifest.yaml":     "",
		"A/client/main.lua":   "print(1)",
		"A/client/util.lua":   "print(2)",
		"A/server/server.lua": "",
	})
	res := reg.GetOrCreate("A", filepath.Join(src, "A"))

	items, err := reg.Resolve(res, "client/main.lua")
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, Item{
		Resource:       "A",
		Source:         filepath.Join(src, "A", "client", "main.lua"),
		SourceManifest: "client/main.lua",
		Target:         filepath.Join(res.OutputTarget, "client", "main.lua"),
		TargetManifest: "client/main.lua",
	}, items[0])
}

func TestResolvePlainGlobOrder(t *testing.T) {
	reg, src := newTestRegistry(t, map[string]string{
		"A/manifest.yaml":          "",
		"A/client/util.lua":        "",
		"A/client/main.lua":        "",
		"A/client/nested/deep.lua": "",
		"A/client/readme.md":       "",
	})
	res := reg.GetOrCreate("A", filepath.Join(src, "A"))

	items, err := reg.Resolve(res, "client/*.lua")
	require.NoError(t, err)
	assert.Equal(t, []string{"client/main.lua", "client/util.lua"}, targetManifests(items))

	items, err = reg.Resolve(res, "client/**/*.lua")
	require.NoError(t, err)
	assert.Equal(t, []string{"client/main.lua", "client/nested/deep.lua", "client/util.lua"}, targetManifests(items))

	items, err = reg.Resolve(res, "./client/{util,main}.lua")
	require.NoError(t, err)
	assert.Equal(t, []string{"client/main.lua", "client/util.lua"}, targetManifests(items))
}

func TestResolvePlainLiteralBrackets(t *testing.T) {
	reg, src := newTestRegistry(t, map[string]string{
		"A/manifest.yaml":     "",
		"A/data/[old]/x.json": "",
		"A/data/o/x.json":     "",
	})
	res := reg.GetOrCreate("A", filepath.Join(src, "A"))

	items, err := reg.Resolve(res, "data/[old]/x.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"data/[old]/x.json"}, targetManifests(items))
}

func TestResolvePlainRootIsNotAPattern(t *testing.T) {
	base := t.TempDir()
	writeTree(t, base, map[string]string{
		"[core]*/A/manifest.yaml": "",
		"[core]*/A/a.lua":         "",
	})
	reg := NewRegistry(Config{SourceRoot: base, DistRoot: filepath.Join(base, "dist")})
	res := reg.GetOrCreate("A", filepath.Join(base, "[core]*", "A"))

	items, err := reg.Resolve(res, "*.lua")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.lua"}, targetManifests(items))
}

func TestResolvePlainNoMatches(t *testing.T) {
	reg, src := newTestRegistry(t, map[string]string{"A/manifest.yaml": ""})
	res := reg.GetOrCreate("A", filepath.Join(src, "A"))

	for _, spec := range []string{"missing/*.lua", "", "/", "{unbalanced"} {
		items, err := reg.Resolve(res, spec)
		require.NoError(t, err, spec)
		assert.Empty(t, items, spec)
	}
}

func TestResolveCrossResource(t *testing.T) {
	reg, src := newTestRegistry(t, map[string]string{
		"A/manifest.yaml":            "",
		"group/B/manifest.yaml":      "",
		"group/B/shared/config.json": "{}",
	})
	a := reg.GetOrCreate("A", filepath.Join(src, "A"))

	items, err := reg.Resolve(a, "$B/shared/config.json:shared_config.json")
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, Item{
		Resource:       "B",
		Source:         filepath.Join(src, "group", "B", "shared", "config.json"),
		SourceManifest: "shared/config.json",
		Target:         filepath.Join(a.OutputTarget, "_imports", "B", "shared_config.json"),
		TargetManifest: "_imports/B/shared_config.json",
	}, items[0])

	b, ok := reg.Lookup("B")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(src, "group", "B"), b.Root)
}

func TestResolveCrossResourceWithoutTarget(t *testing.T) {
	reg, src := newTestRegistry(t, map[string]string{
		"A/manifest.yaml":    "",
		"B/manifest.yaml":    "",
		"B/locales/en.json":  "",
		"B/locales/de.json":  "",
		"B/locales/skip.txt": "",
	})
	a := reg.GetOrCreate("A", filepath.Join(src, "A"))

	items, err := reg.Resolve(a, "$B/locales/*.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"_imports/B/locales/de.json", "_imports/B/locales/en.json"}, targetManifests(items))
	for _, it := range items {
		assert.Equal(t, "B", it.Resource)
		assert.Equal(t, filepath.Join(a.OutputTarget, filepath.FromSlash(it.TargetManifest)), it.Target)
	}
}

func TestResolveCrossResourceAmbiguousTarget(t *testing.T) {
	reg, src := newTestRegistry(t, map[string]string{
		"A/manifest.yaml":   "",
		"B/manifest.yaml":   "",
		"B/locales/en.json": "",
		"B/locales/de.json": "",
	})
	a := reg.GetOrCreate("A", filepath.Join(src, "A"))

	_, err := reg.Resolve(a, "$B/locales/*.json:locale.json")
	require.ErrorIs(t, err, ErrAmbiguousTarget)

	items, err := reg.Resolve(a, "$B/locales/en.json:locale.json")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "_imports/B/locale.json", items[0].TargetManifest)
}

func TestResolveCrossResourceTargetStaysInNamespace(t *testing.T) {
	reg, src := newTestRegistry(t, map[string]string{
		"A/manifest.yaml": "",
		"B/manifest.yaml": "",
		"B/x.txt":         "x",
	})
	a := reg.GetOrCreate("A", filepath.Join(src, "A"))
	namespace := filepath.Join(a.OutputTarget, "_imports", "B") + string(filepath.Separator)

	tests := []struct {
		spec string
		want string
		err  error
	}{
		{spec: "$B/x.txt:../../../evil.txt", err: ErrInvalidTarget},
		{spec: "$B/x.txt:../A/x.txt", err: ErrInvalidTarget},
		{spec: "$B/x.txt:sub/../../x.txt", err: ErrInvalidTarget},
		{spec: "$B/x.txt:..", err: ErrInvalidTarget},
		{spec: "$B/x.txt:.", err: ErrInvalidTarget},
		{spec: "$B/x.txt:/etc/evil.txt", err: ErrInvalidTarget},
		{spec: "$nowhere/x.txt:../evil.txt", err: ErrInvalidTarget},
		{spec: "$B/x.txt:sub/../renamed.txt", want: "_imports/B/renamed.txt"},
		{spec: "$B/x.txt:./nested/y.txt", want: "_imports/B/nested/y.txt"},
		{spec: "$B/x.txt:", want: "_imports/B/x.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			items, err := reg.Resolve(a, tt.spec)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				assert.Empty(t, items)
				return
			}
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, tt.want, items[0].TargetManifest)
			assert.True(t, strings.HasPrefix(items[0].Target, namespace), items[0].Target)
		})
	}
}

func TestResolveCrossResourceUnknownName(t *testing.T) {
	reg, src := newTestRegistry(t, map[string]string{"A/manifest.yaml": ""})
	a := reg.GetOrCreate("A", filepath.Join(src, "A"))

	items, err := reg.Resolve(a, "$nowhere/file.lua:x.lua")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestResolveMutualReferences(t *testing.T) {
	reg, src := newTestRegistry(t, map[string]string{
		"A/manifest.yaml": "files:\n  - $B/b.lua\n",
		"A/a.lua":         "",
		"B/manifest.yaml": "files:\n  - $A/a.lua\n",
		"B/b.lua":         "",
	})
	a := reg.GetOrCreate("A", filepath.Join(src, "A"))
	b := reg.GetOrCreate("B", filepath.Join(src, "B"))

	items, err := reg.Resolve(a, "$B/b.lua")
	require.NoError(t, err)
	assert.Equal(t, []string{"_imports/B/b.lua"}, targetManifests(items))

	items, err = reg.Resolve(b, "$A/a.lua")
	require.NoError(t, err)
	assert.Equal(t, []string{"_imports/A/a.lua"}, targetManifests(items))
}

func targetManifests(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.TargetManifest)
	}
	return out
}
