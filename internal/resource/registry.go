package resource

import (
	"fmt"
	"log/slog"
	"maps"
	"path"
	"path/filepath"
	"slices"
	"sync"

	"github.com/cruciblehq/fxpack/internal/paths"
)

// Session-wide settings used to create resources.
type Config struct {
	SourceRoot string            // Tree searched for resources by name.
	DistRoot   string            // Dist root; outputs go to <dist>/server-data/resources/<name>.
	DefaultEnv map[string]string // Environment every manifest env is merged over.
}

// Holds exactly one [Resource] per name for the lifetime of a build
// session. Safe for concurrent use.
type Registry struct {
	cfg       Config
	mu        sync.Mutex
	resources map[string]*Resource
}

// Default dist root, relative to the working directory.
const defaultDist = "dist"

// Creates an empty registry. Relative roots in cfg are made absolute; an
// empty DistRoot means "dist" in the working directory.
func NewRegistry(cfg Config) *Registry {
	if cfg.DistRoot == "" {
		cfg.DistRoot = defaultDist
	}
	cfg.SourceRoot = absPath(cfg.SourceRoot)
	cfg.DistRoot = absPath(cfg.DistRoot)
	cfg.DefaultEnv = maps.Clone(cfg.DefaultEnv)
	return &Registry{
		cfg:       cfg,
		resources: make(map[string]*Resource),
	}
}

// Returns the registry configuration.
func (g *Registry) Config() Config {
	return g.cfg
}

// Returns the resource registered under name, creating it from root on
// first use.
//
// Identity is keyed by name only. When name is already registered the
// stored instance is returned and root is ignored; a differing root is
// logged.
func (g *Registry) GetOrCreate(name, root string) *Resource {
	root = absPath(root)

	g.mu.Lock()
	defer g.mu.Unlock()

	if r, ok := g.resources[name]; ok {
		if r.Root != root {
			slog.Warn("resource already registered with a different root",
				"resource", name,
				"root", r.Root,
				"ignored", root,
			)
		}
		return r
	}

	r := newResource(name, root, g.cfg.DistRoot, g.cfg.DefaultEnv)
	g.resources[name] = r
	slog.Debug("resource registered", "resource", name, "root", root)
	return r
}

// Returns the registered resource with the given name.
func (g *Registry) Lookup(name string) (*Resource, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.resources[name]
	return r, ok
}

// Returns the names of the registered resources, sorted.
func (g *Registry) Names() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Sorted(maps.Keys(g.resources))
}

// Returns the registered resource with the given name, locating it in the
// source tree and registering it if needed.
func (g *Registry) Open(name string) (*Resource, error) {
	if r, ok := g.Lookup(name); ok {
		return r, nil
	}

	root, ok, err := g.Locate(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	return g.GetOrCreate(name, root), nil
}

// Finds the root of the resource called name in the source tree.
//
// The root is the directory named name that contains a manifest.yaml. When
// several directories qualify, the lexicographically first path wins.
// Directories under node_modules, _imports, .git and the dist root are
// skipped.
func (g *Registry) Locate(name string) (string, bool, error) {
	pattern := "**/" + EscapeMeta(name) + "/" + paths.ManifestFile
	found, err := g.findManifests(pattern)
	if err != nil {
		return "", false, err
	}
	if len(found) == 0 {
		return "", false, nil
	}
	return found[0], true, nil
}

// Returns the names of every resource in the source tree, sorted. A name
// found in several directories is reported once.
func (g *Registry) Discover() ([]string, error) {
	found, err := g.findManifests("**/" + paths.ManifestFile)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, root := range found {
		if root == g.cfg.SourceRoot {
			continue
		}
		names = append(names, filepath.Base(root))
	}

	slices.Sort(names)
	return slices.Compact(names), nil
}

// Globs the source tree for manifest files and returns their directories as
// absolute paths, sorted by relative path.
func (g *Registry) findManifests(pattern string) ([]string, error) {
	matches, err := glob(g.cfg.SourceRoot, pattern)
	if err != nil {
		return nil, err
	}

	// The dist tree may live inside the source tree; its copies never count
	// as sources.
	distInside := !paths.Within(g.cfg.DistRoot, g.cfg.SourceRoot)

	var roots []string
	for _, rel := range matches {
		if ignoredPath(rel) {
			continue
		}
		root := filepath.Join(g.cfg.SourceRoot, filepath.FromSlash(path.Dir(rel)))
		if distInside && paths.Within(g.cfg.DistRoot, root) {
			continue
		}
		roots = append(roots, root)
	}
	return roots, nil
}

// Returns the absolute, cleaned form of p, or p cleaned when that fails.
func absPath(p string) string {
	if p == "" {
		p = "."
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
