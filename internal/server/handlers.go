package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/cruciblehq/fxpack/internal"
	"github.com/cruciblehq/fxpack/internal/build"
	"github.com/cruciblehq/fxpack/internal/protocol"
)

// Handles a build command.
//
// Builds the requested resources, or every resource in the source tree when
// all is set. The response carries one result per resource; failed
// resources are reported in their result rather than as an error response.
func (s *Server) handleBuild(ctx context.Context, w io.Writer, payload json.RawMessage) {
	req, err := protocol.DecodePayload[protocol.BuildRequest](payload)
	if err != nil {
		s.respondError(w, err)
		return
	}

	names := req.Resources
	if req.All {
		if names, err = s.session.Registry.Discover(); err != nil {
			s.respondError(w, err)
			return
		}
	}
	if len(names) == 0 {
		s.respondError(w, fmt.Errorf("%w: no resources to build", ErrRequest))
		return
	}

	results, err := build.RunAll(ctx, s.session, names, build.Options{
		Force:          req.Force,
		ReloadManifest: req.ReloadManifest,
	}, s.jobs)
	if err != nil {
		slog.Warn("build finished with failures", "resources", len(names), "error", err)
	}

	s.mu.Lock()
	s.builds++
	s.mu.Unlock()

	s.respond(w, protocol.CmdOK, &protocol.BuildResult{Results: results})
}

// Handles a clean command.
//
// Removes the build cache of every named resource and, when output is set,
// its output target. Every resource is attempted; failures are reported
// together.
func (s *Server) handleClean(w io.Writer, payload json.RawMessage) {
	req, err := protocol.DecodePayload[protocol.CleanRequest](payload)
	if err != nil {
		s.respondError(w, err)
		return
	}

	removed := []string{}
	var errs []error
	for _, name := range req.Resources {
		if err := s.clean(name, req.Output); err != nil {
			slog.Error("clean failed", "resource", name, "error", err)
			errs = append(errs, err)
			continue
		}
		removed = append(removed, name)
	}

	if err := errors.Join(errs...); err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, protocol.CmdOK, &protocol.CleanResult{Removed: removed})
}

// Cleans one resource.
func (s *Server) clean(name string, output bool) error {
	if err := build.Clean(s.session.CacheRoot, name); err != nil {
		return err
	}
	if !output {
		return nil
	}

	res, err := s.session.Registry.Open(name)
	if err != nil {
		return err
	}
	return build.CleanOutput(res)
}

// Handles a status command.
func (s *Server) handleStatus(w io.Writer) {
	s.mu.Lock()
	builds := s.builds
	s.mu.Unlock()

	uptime := time.Since(s.startedAt).Truncate(time.Second)

	s.respond(w, protocol.CmdOK, &protocol.StatusResult{
		Running:   true,
		Version:   internal.VersionString(),
		Pid:       os.Getpid(),
		Uptime:    uptime.String(),
		Builds:    builds,
		Resources: s.session.Registry.Names(),
	})
}

// Handles a shutdown command.
func (s *Server) handleShutdown(w io.Writer) {
	s.respond(w, protocol.CmdOK, nil)
	slog.Info("shutdown requested")

	go func() {
		s.Stop()
	}()
}
