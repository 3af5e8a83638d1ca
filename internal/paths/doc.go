// Provides platform-appropriate paths and the fixed build layout.
//
// Daemon paths (socket, PID file) and default cache and configuration
// locations follow XDG conventions on Linux and platform-native conventions
// on macOS and Windows, with "fxpack" as the subdirectory under each base
// path.
//
// The build layout is fixed: a resource named <name> is described by
// <root>/manifest.yaml, builds into <dist>/server-data/resources/<name>,
// and keeps intermediate build state under <cache>/build/<name>.
package paths
