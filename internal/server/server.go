package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/cruciblehq/fxpack/internal/build"
	"github.com/cruciblehq/fxpack/internal/paths"
	"github.com/cruciblehq/fxpack/internal/protocol"
)

const (

	// Group name used to grant socket access. Members of this group can
	// connect to the daemon socket without owning the process.
	socketGroup = "fxpack"

	// File mode applied to the Unix socket. Owner and group get read-write
	// (required for connect); others get no access.
	socketMode = 0660

	// Default number of concurrent resource builds per build command.
	DefaultJobs = 4
)

// Holds server configuration.
type Config struct {
	SocketPath string         // Override for the Unix socket path. Empty uses the default.
	PIDFile    string         // Override for the PID file path. Empty uses the default.
	Session    *build.Session // Build session shared by every command.
	Jobs       int            // Concurrent builds per command. Zero uses [DefaultJobs].
}

// Listens on a Unix domain socket and dispatches commands.
type Server struct {
	socketPath string         // Path to the Unix socket file.
	pidFile    string         // Path to the PID file.
	session    *build.Session // Registry, writer and hooks used for every build.
	jobs       int            // Concurrent builds per command.
	listener   net.Listener   // Listener for incoming connections.
	startedAt  time.Time      // Timestamp when the server started.
	builds     int            // Total number of build commands processed.
	done       chan struct{}  // Channel to signal server shutdown.
	stopOnce   sync.Once      // Guards shutdown.
	mu         sync.Mutex     // Mutex to protect shared state.
}

// Creates a new server instance.
//
// The socket is not opened until [Start] is called. The session's registry
// lives as long as the server, so repeated builds reuse resources.
func New(cfg Config) (*Server, error) {
	if cfg.Session == nil || cfg.Session.Registry == nil || cfg.Session.Writer == nil {
		return nil, fmt.Errorf("%w: incomplete build session", ErrServer)
	}

	socketPath := cfg.SocketPath
	if socketPath == "" {
		socketPath = paths.Socket()
	}

	pidFile := cfg.PIDFile
	if pidFile == "" {
		pidFile = paths.PIDFile()
	}

	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = DefaultJobs
	}

	return &Server{
		socketPath: socketPath,
		pidFile:    pidFile,
		session:    cfg.Session,
		jobs:       jobs,
		done:       make(chan struct{}),
	}, nil
}

// Opens the Unix socket and begins accepting connections.
func (s *Server) Start() error {
	listener, err := listen(s.socketPath)
	if err != nil {
		return err
	}

	s.listener = listener
	s.startedAt = time.Now()

	if err := writePID(s.pidFile); err != nil {
		slog.Warn("failed to write PID file", "error", err)
	}

	slog.Info("server listening on socket", "path", s.socketPath)

	go s.accept()
	return nil
}

// Creates the Unix socket listener, removes any stale socket from a previous
// run, and applies permissions.
func listen(socketPath string) (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(socketPath), paths.DefaultDirMode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServer, err)
	}

	os.Remove(socketPath)

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to listen on %s: %w", ErrServer, socketPath, err)
	}

	if err := setSocketPermissions(socketPath); err != nil {
		listener.Close()
		return nil, err
	}

	return listener, nil
}

// Restricts socket access to owner and group. Any user in the fxpack group
// can also connect.
func setSocketPermissions(socketPath string) error {
	if err := os.Chmod(socketPath, socketMode); err != nil {
		return fmt.Errorf("%w: failed to chmod socket %s: %w", ErrServer, socketPath, err)
	}

	if g, err := user.LookupGroup(socketGroup); err == nil {
		if gid, err := strconv.Atoi(g.Gid); err == nil {
			if err := os.Chown(socketPath, -1, gid); err != nil {
				slog.Warn("failed to chgrp socket", "group", socketGroup, "error", err)
			}
		}
	} else {
		slog.Debug("socket group not found, socket accessible to owner only", "group", socketGroup)
	}

	return nil
}

// Shuts down the server and cleans up resources. Safe to call more than
// once.
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		close(s.done)

		if s.listener != nil {
			s.listener.Close()
		}

		os.Remove(s.socketPath)
		os.Remove(s.pidFile)
	})
	return nil
}

// Blocks until the server stops.
func (s *Server) Wait() {
	<-s.done
}

// Accepts connections in a loop until the server shuts down.
func (s *Server) accept() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				slog.Error("accept error", "error", err)
				continue
			}
		}

		go s.handle(conn)
	}
}

// Processes a single connection.
//
// Reads one newline-delimited JSON message, dispatches the command, and
// writes the response. The connection is closed after one exchange.
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	line, err := reader.ReadBytes('\n')
	if err != nil {
		slog.Error("read error", "error", err)
		return
	}

	env, payload, err := protocol.Decode(line)
	if err != nil {
		s.respondError(conn, err)
		return
	}

	slog.Info("command received", "command", env.Command)

	ctx, cancel := contextWithDisconnect(context.Background(), reader)
	defer cancel()

	s.dispatch(ctx, conn, env.Command, payload)
}

// Routes a command to the appropriate handler.
func (s *Server) dispatch(ctx context.Context, w io.Writer, cmd protocol.Command, payload json.RawMessage) {
	switch cmd {
	case protocol.CmdBuild:
		s.handleBuild(ctx, w, payload)
	case protocol.CmdClean:
		s.handleClean(w, payload)
	case protocol.CmdStatus:
		s.handleStatus(w)
	case protocol.CmdShutdown:
		s.handleShutdown(w)
	default:
		s.respondError(w, fmt.Errorf("%w: unknown command: %s", ErrRequest, cmd))
	}
}

// Writes a JSON envelope response.
func (s *Server) respond(w io.Writer, cmd protocol.Command, payload any) {
	data, err := protocol.Encode(cmd, payload)
	if err != nil {
		slog.Error("encode response failed", "error", err)
		return
	}
	data = append(data, '\n')
	w.Write(data)
}

// Writes an error response.
func (s *Server) respondError(w io.Writer, err error) {
	s.respond(w, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
}

// Writes the daemon PID to the PID file so the CLI can detect whether the
// daemon is already running and send it signals.
func writePID(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), paths.DefaultDirMode); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), paths.DefaultFileMode)
}

// Returns a derived context that is cancelled when the remote end of the
// connection closes.
//
// Detection works by reading from r in a background goroutine. The read blocks
// until the peer closes the connection, at which point it returns an error and
// the derived context is cancelled. The caller must ensure that no further data
// is expected on r for the lifetime of the returned context. The returned
// [context.CancelFunc] must always be called to release resources.
func contextWithDisconnect(parent context.Context, r io.Reader) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		buf := make([]byte, 1)
		r.Read(buf)
		cancel()
	}()

	return ctx, cancel
}
