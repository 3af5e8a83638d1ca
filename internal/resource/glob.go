package resource

import (
	"os"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cruciblehq/fxpack/internal/paths"
)

// Characters with a meaning in doublestar patterns.
const globMeta = `*?[]{}`

// Escapes a literal path segment for embedding in a glob pattern.
func EscapeMeta(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(globMeta, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Escapes square brackets only, so that filenames containing them are
// matched literally while the rest of the glob syntax keeps working.
func escapeBrackets(spec string) string {
	r := strings.NewReplacer("[", `\[`, "]", `\]`)
	return r.Replace(spec)
}

// Normalizes a path-spec into an fs.FS pattern relative to a root.
//
// Backslashes are not converted: they are escapes in doublestar patterns.
// Leading slashes and "./" prefixes are dropped.
func normalizePattern(spec string) string {
	spec = strings.TrimLeft(spec, "/")
	if spec == "" {
		return ""
	}
	return path.Clean(spec)
}

// Expands pattern against the directory root and returns the matching
// regular files as slash-separated paths relative to root, sorted and
// without duplicates. The root itself is never interpreted as a pattern.
func glob(root, pattern string) ([]string, error) {
	if pattern == "" || pattern == "." {
		return nil, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, ErrBadPattern
	}

	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}

	slices.Sort(matches)
	return slices.Compact(matches), nil
}

// Reports whether a slash-separated relative path passes through a
// directory that never holds resource sources.
func ignoredPath(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if seg == "node_modules" || seg == paths.ImportsDir || seg == ".git" {
			return true
		}
	}
	return false
}
