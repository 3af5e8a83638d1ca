package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	programName = "fxpack"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644

	// Filename of the declarative manifest in every resource root.
	ManifestFile = "manifest.yaml"

	// Filename of the runtime manifest written to every output target.
	OutputManifestFile = "fxmanifest.lua"

	// Directory, relative to an output target, holding files imported from
	// other resources.
	ImportsDir = "_imports"
)

// Path to the directory for runtime files (sockets, PIDs).
//
//	Linux:   $XDG_RUNTIME_DIR/fxpack or /run/user/<uid>/fxpack
//	macOS:   ~/Library/Caches/fxpack/run
func Runtime() string {
	if xdg.RuntimeDir != "" {
		return filepath.Join(xdg.RuntimeDir, programName)
	}
	return filepath.Join(xdg.CacheHome, programName, "run")
}

// Default path to the Unix domain socket of the build daemon.
func Socket() string {
	return filepath.Join(Runtime(), "fxpack.sock")
}

// Default path to the daemon PID file.
func PIDFile() string {
	return filepath.Join(Runtime(), "fxpack.pid")
}

// Default cache root.
//
//	Linux:   $XDG_CACHE_HOME/fxpack or ~/.cache/fxpack
//	macOS:   ~/Library/Caches/fxpack
func Cache() string {
	return filepath.Join(xdg.CacheHome, programName)
}

// Default path to the user-level configuration file.
func ConfigFile() string {
	return filepath.Join(xdg.ConfigHome, programName, "config.jsonc")
}

// Output target of a resource: <dist>/server-data/resources/<name>.
func ResourceOutput(dist, name string) string {
	return filepath.Join(dist, "server-data", "resources", name)
}

// Build cache directory of a resource: <cache>/build/<name>.
func BuildCache(cache, name string) string {
	return filepath.Join(cache, "build", name)
}

// Reports whether p is dir or lies below it. Both are compared lexically.
func Within(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
