package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cruciblehq/fxpack/internal/build"
)

// Represents the 'fxpack clean' command.
type CleanCmd struct {
	Output bool     `short:"o" help:"Also remove the resources' output targets."`
	Names  []string `arg:"" name:"resource" help:"Resources to clean."`
}

// Executes the clean command.
//
// Every named resource is attempted; failures are reported together.
func (c *CleanCmd) Run(ctx context.Context, g *Globals) error {
	session := g.session()

	var errs []error
	for _, name := range c.Names {
		if err := c.clean(session, name); err != nil {
			slog.Error("clean failed", "resource", name, "error", err)
			errs = append(errs, err)
			continue
		}
		fmt.Printf("%s cleaned\n", name)
	}
	return errors.Join(errs...)
}

// Cleans one resource.
func (c *CleanCmd) clean(session *build.Session, name string) error {
	if err := build.Clean(session.CacheRoot, name); err != nil {
		return err
	}
	if !c.Output {
		return nil
	}

	res, err := session.Registry.Open(name)
	if err != nil {
		return err
	}
	return build.CleanOutput(res)
}
