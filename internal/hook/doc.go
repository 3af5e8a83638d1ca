// Package hook runs resource-defined extension points.
//
// A manifest declares hooks by hook point:
//
//	hooks:
//	  preBuild: hooks/prepare.sh --fast
//	  preManifest: hooks/manifest.js
//
// The declaration is split with shell quoting rules; the first word is the
// script path relative to the resource root and the remaining words are
// passed as arguments. A [Provider] turns a script into a callable [Func]:
// [Static] serves functions registered in-process, and [Subprocess] runs the
// script as a child process exchanging JSON on stdin and stdout.
//
// The [Invoker] hands the hook a snapshot of the manifest in a [Context]
// and, when the hook returns a manifest, replaces the resource's manifest
// with it as a whole. Hooks never abort a build: a missing declaration, a
// missing script, a load failure, an error, a panic or a timeout are logged
// and reported to the caller as a nil result.
package hook
