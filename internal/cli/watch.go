package cli

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/cruciblehq/fxpack/internal/build"
	"github.com/cruciblehq/fxpack/internal/watch"
)

// Represents the 'fxpack watch' command.
type WatchCmd struct {
	Jobs     int           `short:"j" help:"Number of resources built at once." default:"4"`
	Debounce time.Duration `help:"Quiet period before rebuilding." default:"200ms"`
	All      bool          `short:"a" help:"Watch every resource in the source tree."`
	Names    []string      `arg:"" optional:"" name:"resource" help:"Resources to watch."`
}

// Executes the watch command.
//
// Builds the resources once, then rebuilds changed resources until the
// context is cancelled (e.g. via SIGINT or SIGTERM).
func (c *WatchCmd) Run(ctx context.Context, g *Globals) error {
	session := g.session()

	names, err := resourceNames(session, c.Names, c.All)
	if err != nil {
		return err
	}

	results, _ := build.RunAll(ctx, session, names, build.Options{}, c.Jobs)
	printResults(os.Stdout, results)

	w, err := watch.New(session.Registry, names, watch.Options{
		Debounce: c.Debounce,
		Rebuild: func(ctx context.Context, changed []string) {
			results, _ := build.RunAll(ctx, session, changed, build.Options{ReloadManifest: true}, c.Jobs)
			printResults(os.Stdout, results)
		},
	})
	if err != nil {
		return err
	}
	defer w.Close()

	slog.Info("watching for changes", "resources", names)
	return w.Run(ctx)
}
