package cli

import (
	"context"
	"log/slog"

	"github.com/cruciblehq/fxpack/internal/server"
)

// Represents the 'fxpack serve' command.
type ServeCmd struct {
	Jobs int `short:"j" help:"Number of resources built at once per request." default:"4"`
}

// Executes the serve command.
//
// Starts the build daemon on a Unix domain socket and blocks until the
// context is cancelled (e.g. via SIGINT or SIGTERM) or a shutdown command
// arrives.
func (c *ServeCmd) Run(ctx context.Context, g *Globals) error {
	srv, err := server.New(server.Config{
		SocketPath: g.socketPath(),
		Session:    g.session(),
		Jobs:       c.Jobs,
	})
	if err != nil {
		return err
	}

	if err := srv.Start(); err != nil {
		return err
	}

	slog.Info("fxpack daemon is running")

	stopped := make(chan struct{})
	go func() {
		srv.Wait()
		close(stopped)
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case <-stopped:
	}
	return srv.Stop()
}
