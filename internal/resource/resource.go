package resource

import (
	"errors"
	"log/slog"
	"maps"
	"path/filepath"
	"sync"

	"github.com/cruciblehq/fxpack/internal/manifest"
	"github.com/cruciblehq/fxpack/internal/paths"
)

// A named, independently buildable unit of content.
//
// Name, Root and OutputTarget are fixed at creation. The manifest can be
// swapped as a whole (reload, hook results) but is never mutated in place;
// callers treat the value returned by [Resource.Manifest] as read-only.
type Resource struct {
	Name         string // Unique name, the registry key.
	Root         string // Absolute source directory containing manifest.yaml.
	OutputTarget string // Absolute output directory, <dist>/server-data/resources/<name>.

	defaultEnv map[string]string  // Session environment the manifest env is merged over.
	mu         sync.RWMutex       // Guards manifest and env.
	manifest   *manifest.Manifest // Current manifest.
	env        map[string]string  // defaultEnv overlaid with manifest.Env.
	build      sync.Mutex         // Serializes builds and hook calls.
}

// A source file matched under a resource root.
type Match struct {
	SourceManifest string // Slash-separated path relative to the owning root.
	SourcePath     string // Absolute path.
}

// Creates a resource and loads its manifest. A missing or invalid manifest
// yields an empty one.
func newResource(name, root, dist string, defaultEnv map[string]string) *Resource {
	r := &Resource{
		Name:         name,
		Root:         root,
		OutputTarget: paths.ResourceOutput(dist, name),
		defaultEnv:   defaultEnv,
	}
	r.SetManifest(manifest.LoadOrEmpty(r.ManifestPath(), name))
	return r
}

// Path of the resource's manifest.yaml.
func (r *Resource) ManifestPath() string {
	return filepath.Join(r.Root, paths.ManifestFile)
}

// Path of the rendered runtime manifest in the output target.
func (r *Resource) OutputManifestPath() string {
	return filepath.Join(r.OutputTarget, paths.OutputManifestFile)
}

// Returns the current manifest. The value must not be modified.
func (r *Resource) Manifest() *manifest.Manifest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.manifest
}

// Replaces the manifest and recomputes the environment. A nil manifest is
// stored as an empty one.
func (r *Resource) SetManifest(m *manifest.Manifest) {
	if m == nil {
		m = &manifest.Manifest{}
	}

	env := make(map[string]string, len(r.defaultEnv)+len(m.Env))
	maps.Copy(env, r.defaultEnv)
	maps.Copy(env, m.Env)

	r.mu.Lock()
	r.manifest = m
	r.env = env
	r.mu.Unlock()
}

// Re-reads manifest.yaml from disk.
func (r *Resource) ReloadManifest() {
	r.SetManifest(manifest.LoadOrEmpty(r.ManifestPath(), r.Name))
}

// Returns a copy of the merged environment.
func (r *Resource) Env() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.env)
}

// Acquires the resource's build lock. Builds and hook calls of one resource
// never overlap.
func (r *Resource) Lock() {
	r.build.Lock()
}

// Releases the build lock.
func (r *Resource) Unlock() {
	r.build.Unlock()
}

// Returns every regular file under the resource root matching pattern.
//
// Literal brackets in pattern match literal brackets. Results are sorted by
// their root-relative path. A malformed pattern is logged and matches
// nothing.
func (r *Resource) Match(pattern string) ([]Match, error) {
	rels, err := glob(r.Root, normalizePattern(escapeBrackets(pattern)))
	if errors.Is(err, ErrBadPattern) {
		slog.Warn("ignoring invalid path-spec", "resource", r.Name, "pattern", pattern)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(rels))
	for _, rel := range rels {
		matches = append(matches, Match{
			SourceManifest: rel,
			SourcePath:     filepath.Join(r.Root, filepath.FromSlash(rel)),
		})
	}
	return matches, nil
}
