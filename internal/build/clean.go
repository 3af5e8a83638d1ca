package build

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/cruciblehq/fxpack/internal/paths"
	"github.com/cruciblehq/fxpack/internal/resource"
)

// Removes the build output directory <cacheRoot>/build/<name>.
//
// Removing a directory that does not exist succeeds. The name must be a
// single path element.
func Clean(cacheRoot, name string) error {
	if err := validName(name); err != nil {
		return err
	}

	dir := paths.BuildCache(cacheRoot, name)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("%w: %w", ErrClean, err)
	}

	slog.Debug("build cache removed", "resource", name, "path", dir)
	return nil
}

// Removes the output target of res. Removing a missing target succeeds.
func CleanOutput(res *resource.Resource) error {
	res.Lock()
	defer res.Unlock()

	if err := os.RemoveAll(res.OutputTarget); err != nil {
		return fmt.Errorf("%w: %w", ErrClean, err)
	}

	slog.Debug("output removed", "resource", res.Name, "path", res.OutputTarget)
	return nil
}

// Rejects names that would escape the build cache.
func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: invalid resource name %q", ErrClean, name)
	}
	return nil
}
