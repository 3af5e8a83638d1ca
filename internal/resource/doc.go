// Package resource owns resources, their registry, and path resolution.
//
// A [Resource] is a named, independently buildable unit: a source root with
// a manifest.yaml, an output target under the dist tree, the parsed
// manifest, and the environment derived from it. Resources are created by a
// [Registry], which is owned by the build session and keeps exactly one
// instance per name for its lifetime. The first registration of a name
// wins; later registrations with a different root return the existing
// instance and log a warning.
//
// Path resolution turns a path-spec into concrete (source, target)
// mappings. Plain specs are globs relative to the resolving resource's
// root. Cross-resource specs have the form
//
//	$name/innerPath[:targetPath]
//
// and import files from another resource into the resolving resource's
// output tree under _imports/<name>/. Literal brackets in specs match
// literal brackets in filenames; the remaining glob syntax is doublestar's
// (*, **, ?, {a,b}). Results are ordered lexicographically by the path
// relative to the owning resource's root, which keeps rendered manifests
// deterministic.
//
// Example usage:
//
//	reg := resource.NewRegistry(resource.Config{
//	    SourceRoot: "resources",
//	    DistRoot:   "dist",
//	})
//
//	res, err := reg.Open("chat")
//	if err != nil {
//	    return err
//	}
//
//	items, err := reg.Resolve(res, "$shared/config.json:config.json")
//	if err != nil {
//	    return err
//	}
package resource
