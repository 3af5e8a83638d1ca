package resource

import (
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/cruciblehq/fxpack/internal/manifest"
	"github.com/cruciblehq/fxpack/internal/paths"
)

// Cross-resource path-spec: $name/innerPath[:targetPath].
var crossRef = regexp.MustCompile(`^\$([A-Za-z0-9_-]{1,24})/(.*?)(:(.*))?$`)

// A concrete file mapping produced by path resolution.
type Item struct {
	Resource       string // Name of the resource owning the source file.
	Source         string // Absolute source path.
	SourceManifest string // Source path relative to the owning resource's root.
	Target         string // Absolute path under the resolving resource's output target.
	TargetManifest string // Path as listed in the resolving resource's runtime manifest.
}

// A parsed cross-resource reference.
type Reference struct {
	Resource string // Owning resource name.
	Inner    string // Glob relative to the owner's root.
	Target   string // Explicit manifest-relative filename, empty when absent.
}

// Parses spec as a cross-resource reference.
func ParseReference(spec string) (Reference, bool) {
	m := crossRef.FindStringSubmatch(spec)
	if m == nil {
		return Reference{}, false
	}
	return Reference{Resource: m[1], Inner: m[2], Target: m[4]}, true
}

// Returns the sorted names of the resources m imports files from through
// its file and script path-specs.
func Imports(m *manifest.Manifest) []string {
	if m == nil {
		return nil
	}
	specs := slices.Concat(m.Scripts.Shared, m.Scripts.Server, m.Scripts.Client)
	for _, f := range m.Files {
		specs = append(specs, f.Src)
	}

	var names []string
	for _, spec := range specs {
		if ref, ok := ParseReference(spec); ok {
			names = append(names, ref.Resource)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Expands a path-spec into file mappings for res.
//
// Plain specs are globs under res.Root mapped into res.OutputTarget.
// Cross-resource specs are globs under the named resource's root mapped
// into res.OutputTarget/_imports/<name>/. An unknown resource name or a
// pattern without matches yields no items. An explicit target combined with
// a pattern matching several files is reported as [ErrAmbiguousTarget]; an
// explicit target that is absolute or leaves _imports/<name>/ is reported as
// [ErrInvalidTarget].
func (g *Registry) Resolve(res *Resource, spec string) ([]Item, error) {
	if ref, ok := ParseReference(spec); ok {
		return g.resolveReference(res, spec, ref)
	}
	return resolvePlain(res, spec)
}

// Resolves a plain spec against the resource's own root.
func resolvePlain(res *Resource, spec string) ([]Item, error) {
	matches, err := res.Match(spec)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(matches))
	for _, m := range matches {
		items = append(items, Item{
			Resource:       res.Name,
			Source:         m.SourcePath,
			SourceManifest: m.SourceManifest,
			Target:         filepath.Join(res.OutputTarget, filepath.FromSlash(m.SourceManifest)),
			TargetManifest: m.SourceManifest,
		})
	}
	return items, nil
}

// Resolves a cross-resource spec.
//
// The inner pattern is a plain glob in the owner's root; references inside
// it are not followed, so resolution never recurses and mutually
// referencing resources cannot loop.
func (g *Registry) resolveReference(res *Resource, spec string, ref Reference) ([]Item, error) {
	target, err := importName(ref.Target)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, spec)
	}

	owner, err := g.Open(ref.Resource)
	if errors.Is(err, ErrNotFound) {
		slog.Warn("unresolved resource reference", "resource", res.Name, "spec", spec, "reference", ref.Resource)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	matches, err := owner.Match(ref.Inner)
	if err != nil {
		return nil, err
	}

	if target != "" && len(matches) > 1 {
		return nil, fmt.Errorf("%w: %q matched %d files in %s", ErrAmbiguousTarget, spec, len(matches), owner.Name)
	}

	namespace := path.Join(paths.ImportsDir, owner.Name) + "/"

	items := make([]Item, 0, len(matches))
	for _, m := range matches {
		name := m.SourceManifest
		if target != "" {
			name = target
		}
		targetManifest := path.Join(namespace, name)
		if !strings.HasPrefix(targetManifest, namespace) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTarget, spec)
		}

		items = append(items, Item{
			Resource:       owner.Name,
			Source:         m.SourcePath,
			SourceManifest: m.SourceManifest,
			Target:         filepath.Join(res.OutputTarget, filepath.FromSlash(targetManifest)),
			TargetManifest: targetManifest,
		})
	}
	return items, nil
}

// Cleans an explicit target into a slash-separated relative filename. Empty
// stays empty. Absolute targets, and targets naming the namespace itself or
// anything above it, are rejected.
func importName(target string) (string, error) {
	if target == "" {
		return "", nil
	}
	slashed := filepath.ToSlash(target)
	if path.IsAbs(slashed) || filepath.IsAbs(target) || filepath.VolumeName(target) != "" {
		return "", ErrInvalidTarget
	}
	clean := path.Clean(slashed)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidTarget
	}
	return clean, nil
}
