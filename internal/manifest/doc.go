// Package manifest models the declarative configuration of a resource.
//
// A resource root contains a manifest.yaml describing free-form metadata
// (info), a fixed set of runtime scalars, environment variables, the files
// to ship, the scripts per environment, exported functions, and hook
// scripts. Every field is optional; consumers substitute defaults for
// absent fields rather than failing.
//
// File and export entries accept either a bare string or a structured
// mapping:
//
//	files:
//	  - client/*.lua
//	  - src: stream/**/*.ytd
//	    skipResolve: true
//	exports:
//	  - getPlayer
//	  - function: openMenu
//	    env: client
//
// [Load] reads and decodes a manifest file. [LoadOrEmpty] is the tolerant
// variant used by the build: read and parse failures are logged and an
// empty manifest is returned so the build continues with defaults.
package manifest
