// Parses flags and configuration and runs fxpack commands.
//
// Global flags:
//
//	-q, --quiet          Suppress informational output.
//	-v, --verbose        Enable verbose output.
//	-d, --debug          Enable debug output.
//	    --config         Load configuration from a file.
//	    --source         Source tree containing resources.
//	    --dist           Dist root.
//	    --cache          Cache root.
//	    --bundle         Reference script bundles instead of listing scripts.
//	    --env            Default resource environment (KEY=VALUE).
//	    --hook-timeout   Maximum run time of a single hook.
//	-s, --socket         Unix socket path of the build daemon.
//
// Flag defaults can be set in fxpack.jsonc in the working directory or in
// config.jsonc under the user configuration directory, using the flag names
// in snake_case as keys. Comments and trailing commas are allowed:
//
//	{
//	    // Resources live under resources/.
//	    "source": "resources",
//	    "env": {"MODE": "production"},
//	    "hook_timeout": "30s",
//	}
//
// Flags override configuration files, which override build-time defaults
// set via linker flags. After parsing, the global logger is reconfigured to
// reflect the final level and verbosity before the command runs.
package cli
