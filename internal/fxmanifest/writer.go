package fxmanifest

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cruciblehq/fxpack/internal/manifest"
	"github.com/cruciblehq/fxpack/internal/paths"
	"github.com/cruciblehq/fxpack/internal/resource"
	"github.com/opencontainers/go-digest"
)

// Script mode of the rendered manifest.
type Scripts struct {
	Bundled bool   // Reference bundles instead of listing script path-specs.
	Server  string // Server bundle, relative to the output target.
	Client  string // Client bundle, relative to the output target.
}

// Bundle locations produced by the script bundlers.
var DefaultBundles = Scripts{
	Bundled: true,
	Server:  "dist/server.js",
	Client:  "dist/client.js",
}

// A recognized scalar and its compiled-in default.
type coreField struct {
	key   string
	value func(*manifest.Manifest) any
	def   any
}

// Core fields in output order.
var coreFields = []coreField{
	{"fx_version", func(m *manifest.Manifest) any { return m.FxVersion }, "cerulean"},
	{"game", func(m *manifest.Manifest) any { return m.Game }, "gta5"},
	{"lua54", func(m *manifest.Manifest) any { return m.Lua54 }, nil},
	{"node_version", func(m *manifest.Manifest) any { return m.NodeVersion }, nil},
	{"use_experimental_fxv2_oal", func(m *manifest.Manifest) any { return m.UseExperimentalFxv2Oal }, nil},
	{"server_only", func(m *manifest.Manifest) any { return m.ServerOnly }, nil},
}

// Export blocks in output order.
var exportBlocks = []struct {
	env  manifest.Env
	name string
}{
	{manifest.EnvShared, "shared_exports"},
	{manifest.EnvServer, "server_exports"},
	{manifest.EnvClient, "exports"},
}

// Renders and writes runtime manifests. File lists are resolved through the
// registry so that cross-resource imports appear under _imports.
type Writer struct {
	reg     *resource.Registry
	scripts Scripts
}

// Outcome of [Writer.Write].
type WriteResult struct {
	Path    string        // Path of the written manifest.
	Digest  digest.Digest // Digest of the rendered content.
	Changed bool          // Whether the file was (re)written.
}

// Creates a writer.
func NewWriter(reg *resource.Registry, scripts Scripts) *Writer {
	return &Writer{reg: reg, scripts: scripts}
}

// Reports whether scripts are referenced as bundles.
func (w *Writer) Bundled() bool {
	return w.scripts.Bundled
}

// Renders the runtime manifest of res.
//
// Fails only when a file entry cannot be resolved, such as an ambiguous
// explicit import target.
func (w *Writer) Render(res *resource.Resource) (string, error) {
	m := res.Manifest()
	doc := &document{}

	if m.Info != nil {
		doc.add(infoSection(m.Info))
	}

	doc.add(coreSection(m))

	if w.scripts.Bundled {
		doc.add(w.bundleSection(res))
	} else {
		doc.add(block{name: "server_scripts", entries: m.Scripts.For(manifest.EnvServer)})
		doc.add(block{name: "client_scripts", entries: m.Scripts.For(manifest.EnvClient)})
	}

	if m.Files != nil {
		files, err := w.filesSection(res, m.Files)
		if err != nil {
			return "", err
		}
		doc.add(files)
	}

	if m.Exports != nil {
		for _, b := range exportBlocks {
			doc.add(exportSection(b.name, b.env, m.Exports))
		}
	}

	return doc.String(), nil
}

// Renders the runtime manifest and writes it to the output target.
//
// An existing file with identical content is left untouched unless force is
// set.
func (w *Writer) Write(res *resource.Resource, force bool) (*WriteResult, error) {
	text, err := w.Render(res)
	if err != nil {
		return nil, err
	}

	data := []byte(text)
	result := &WriteResult{
		Path:   res.OutputManifestPath(),
		Digest: digest.FromBytes(data),
	}

	if !force {
		if existing, err := os.ReadFile(result.Path); err == nil && bytes.Equal(existing, data) {
			slog.Debug("manifest unchanged", "resource", res.Name, "digest", result.Digest)
			return result, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(result.Path), paths.DefaultDirMode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := os.WriteFile(result.Path, data, paths.DefaultFileMode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWrite, err)
	}

	result.Changed = true
	slog.Debug("manifest written", "resource", res.Name, "path", result.Path, "digest", result.Digest)
	return result, nil
}

// Info entries as "@key value" comments.
func infoSection(info manifest.Info) comments {
	c := make(comments, 0, len(info))
	for _, e := range info {
		c = append(c, "@"+e.Key+" "+e.Value)
	}
	return c
}

// Core fields with a set value or default.
func coreSection(m *manifest.Manifest) directives {
	var d directives
	for _, f := range coreFields {
		v := f.value(m)
		if !truthy(v) {
			v = f.def
		}
		if !truthy(v) {
			continue
		}
		d = append(d, directive{key: f.key, value: luaValue(v)})
	}
	return d
}

// Bundle references for bundles present in the output target.
func (w *Writer) bundleSection(res *resource.Resource) directives {
	var d directives
	for _, b := range []struct{ key, path string }{
		{"server_script", w.scripts.Server},
		{"client_script", w.scripts.Client},
	} {
		if b.path == "" {
			continue
		}
		if _, err := os.Stat(filepath.Join(res.OutputTarget, filepath.FromSlash(b.path))); err != nil {
			continue
		}
		d = append(d, directive{key: b.key, value: quote(b.path)})
	}
	return d
}

// The files block. Server-only entries are omitted; skip-resolve entries are
// listed verbatim; all others are listed as their resolved targets.
//
// A skip-resolve entry is still resolved by the copy step, which places its
// matches in the output target; listing those matches here as well would
// duplicate what the verbatim pattern already covers at runtime.
func (w *Writer) filesSection(res *resource.Resource, files []manifest.FileEntry) (block, error) {
	b := block{name: "files", entries: []string{}}
	for _, f := range files {
		if f.ServerOnly {
			continue
		}
		if f.SkipResolve {
			b.entries = append(b.entries, f.Src)
			continue
		}
		items, err := w.reg.Resolve(res, f.Src)
		if err != nil {
			return block{}, fmt.Errorf("%w: %s: %w", ErrRender, res.Name, err)
		}
		for _, it := range items {
			b.entries = append(b.entries, it.TargetManifest)
		}
	}
	return b, nil
}

// The export block of one environment.
func exportSection(name string, env manifest.Env, exports []manifest.Export) block {
	b := block{name: name, entries: []string{}}
	for _, e := range exports {
		if e.Environment() == env {
			b.entries = append(b.entries, e.Function)
		}
	}
	return b
}
