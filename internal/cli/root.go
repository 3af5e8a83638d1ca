package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/cruciblehq/fxpack/internal"
	"github.com/cruciblehq/fxpack/internal/build"
	"github.com/cruciblehq/fxpack/internal/fxmanifest"
	"github.com/cruciblehq/fxpack/internal/hook"
	"github.com/cruciblehq/fxpack/internal/paths"
	"github.com/cruciblehq/fxpack/internal/resource"
	"github.com/tidwall/jsonc"
)

// Project configuration file looked up in the working directory.
const projectConfig = "fxpack.jsonc"

// Global flags shared by every command.
type Globals struct {
	Quiet       bool              `short:"q" help:"Suppress informational output."`
	Verbose     bool              `short:"v" help:"Enable verbose output."`
	Debug       bool              `short:"d" help:"Enable debug output."`
	Config      kong.ConfigFlag   `help:"Load configuration from FILE." placeholder:"FILE"`
	Source      string            `help:"Source tree containing resources." default:"." type:"path"`
	Dist        string            `help:"Dist root; outputs go to <dist>/server-data/resources." default:"dist" type:"path"`
	Cache       string            `help:"Cache root. Defaults to the user cache directory." placeholder:"DIR" type:"path"`
	Bundle      bool              `help:"Reference script bundles instead of listing scripts."`
	Env         map[string]string `help:"Default environment merged under every resource's env." placeholder:"KEY=VALUE"`
	HookTimeout time.Duration     `help:"Maximum run time of a single hook." default:"5m"`
	Socket      string            `short:"s" help:"Override the default Unix socket path." placeholder:"PATH"`
}

// Command tree of fxpack.
type CLI struct {
	Globals

	Build   BuildCmd   `cmd:"" help:"Build resources."`
	Clean   CleanCmd   `cmd:"" help:"Remove build caches and outputs."`
	Watch   WatchCmd   `cmd:"" help:"Rebuild resources when their sources change."`
	Serve   ServeCmd   `cmd:"" help:"Run the build daemon."`
	Status  StatusCmd  `cmd:"" help:"Show build daemon status."`
	Stop    StopCmd    `cmd:"" help:"Stop the build daemon."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Represents the root command for fxpack.
var RootCmd CLI

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd, options(ctx)...)

	configureLogger(&RootCmd.Globals)

	return kongCtx.Run(&RootCmd.Globals)
}

// Returns the kong options used to parse the command line.
func options(ctx context.Context) []kong.Option {
	return []kong.Option{
		kong.Name(internal.Name),
		kong.Description("Builds game server resources from manifest.yaml sources.\n\nCopies resource files, resolves cross-resource imports and renders fxmanifest.lua."),
		kong.UsageOnError(),
		kong.Configuration(jsoncLoader, "./"+projectConfig, paths.ConfigFile()),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	}
}

// Loads configuration files written as JSON with comments and trailing
// commas.
func jsoncLoader(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return kong.JSON(bytes.NewReader(jsonc.ToJSON(data)))
}

// Configures the global logger based on CLI flags.
func configureLogger(g *Globals) {
	internal.SetDebug(g.Debug || internal.IsDebug())
	internal.SetQuiet(g.Quiet || internal.IsQuiet())
	internal.SetVerbose(g.Verbose || internal.IsVerbose())

	slog.SetDefault(slog.New(internal.NewLogHandler(os.Stderr)))
}

// Creates the build session described by the global flags.
func (g *Globals) session() *build.Session {
	reg := resource.NewRegistry(resource.Config{
		SourceRoot: g.Source,
		DistRoot:   g.Dist,
		DefaultEnv: g.Env,
	})

	scripts := fxmanifest.Scripts{}
	if g.Bundle {
		scripts = fxmanifest.DefaultBundles
	}

	return &build.Session{
		Registry:  reg,
		Writer:    fxmanifest.NewWriter(reg, scripts),
		Hooks:     hook.NewInvoker(&hook.Subprocess{}, g.HookTimeout),
		CacheRoot: g.cacheRoot(),
	}
}

// Returns the cache root, defaulting to the user cache directory.
func (g *Globals) cacheRoot() string {
	if g.Cache != "" {
		return g.Cache
	}
	return paths.Cache()
}

// Returns the daemon socket path.
func (g *Globals) socketPath() string {
	if g.Socket != "" {
		return g.Socket
	}
	return paths.Socket()
}
