package protocol

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
)

// Sends one command to the daemon listening on socketPath and returns the
// response payload.
//
// An error response is returned as an error wrapping [ErrResponse] with
// the daemon's message.
func Call(ctx context.Context, socketPath string, cmd Command, payload any) (json.RawMessage, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	// Closing the connection unblocks the read below on cancellation.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	data, err := Encode(cmd, payload)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write(append(data, '\n')); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	env, raw, err := Decode(line)
	if err != nil {
		return nil, err
	}
	if env.Command == CmdError {
		res, err := DecodePayload[ErrorResult](raw)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrResponse, res.Message)
	}
	return raw, nil
}
