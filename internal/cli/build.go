package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cruciblehq/fxpack/internal/build"
	"github.com/dustin/go-humanize"
)

// Represents the 'fxpack build' command.
type BuildCmd struct {
	Force bool     `short:"f" help:"Rewrite outputs even when unchanged."`
	Jobs  int      `short:"j" help:"Number of resources built at once." default:"4"`
	All   bool     `short:"a" help:"Build every resource in the source tree."`
	Names []string `arg:"" optional:"" name:"resource" help:"Resources to build."`
}

// Executes the build command.
func (c *BuildCmd) Run(ctx context.Context, g *Globals) error {
	session := g.session()

	names, err := resourceNames(session, c.Names, c.All)
	if err != nil {
		return err
	}

	results, err := build.RunAll(ctx, session, names, build.Options{Force: c.Force}, c.Jobs)
	printResults(os.Stdout, results)
	if err != nil {
		return fmt.Errorf("%d of %d resources failed", failed(results), len(results))
	}
	return nil
}

// Returns the resources a command applies to.
func resourceNames(session *build.Session, names []string, all bool) ([]string, error) {
	if all {
		return session.Registry.Discover()
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no resources given; name resources or use --all")
	}
	return names, nil
}

// Writes one summary line per result.
func printResults(w io.Writer, results []*build.Result) {
	for _, r := range results {
		switch r.Status {
		case build.StatusOK:
			fmt.Fprintf(w, "%-24s ok      %d copied, %d unchanged, %s\n", r.Resource, r.Copied, r.Skipped, humanize.Bytes(uint64(r.Bytes)))
		default:
			fmt.Fprintf(w, "%-24s %-7s %s\n", r.Resource, r.Status, r.Error)
		}
	}
}

// Counts failed results.
func failed(results []*build.Result) int {
	n := 0
	for _, r := range results {
		if r.Status != build.StatusOK {
			n++
		}
	}
	return n
}
