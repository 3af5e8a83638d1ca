package build

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Builds the named resources with at most jobs builds at a time.
//
// Each name is opened through the session registry and built with a
// [Pipeline]. A failing resource is logged and does not stop the others.
// Results are returned in the order of names; a resource that could not be
// opened has a failed result. The returned error joins every failure.
func RunAll(ctx context.Context, session *Session, names []string, opts Options, jobs int) ([]*Result, error) {
	results := make([]*Result, len(names))
	errs := make([]error, len(names))

	var g errgroup.Group
	if jobs > 0 {
		g.SetLimit(jobs)
	}

	for i, name := range names {
		g.Go(func() error {
			res, err := session.Registry.Open(name)
			if err != nil {
				slog.Error("build failed", "resource", name, "op", "open", "error", err)
				results[i] = &Result{Resource: name, Status: StatusFailed, State: StateLoaded, Error: err.Error()}
				errs[i] = err
				return nil
			}

			results[i], errs[i] = NewPipeline(session, res).Build(ctx, opts)
			return nil
		})
	}

	g.Wait()
	return results, errors.Join(errs...)
}
