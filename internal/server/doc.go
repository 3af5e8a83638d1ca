// Package server implements the fxpack build daemon.
//
// The daemon listens on a Unix domain socket for JSON-encoded commands.
// Each connection carries a single request-response exchange: the client
// sends a newline-delimited JSON envelope, the server dispatches the
// command, and writes the result back before closing the connection.
//
// Supported commands build resources, clean build caches and outputs,
// report daemon status and initiate shutdown. The daemon keeps one build
// session for its whole life, so resources are loaded once and rebuilt on
// request. A build is cancelled when its client disconnects.
//
// Example usage:
//
//	srv, err := server.New(server.Config{
//	    Session: session,
//	    Jobs:    8,
//	})
//	if err != nil {
//	    return err
//	}
//
//	if err := srv.Start(); err != nil {
//	    return err
//	}
//	defer srv.Stop()
//
//	srv.Wait()
package server
