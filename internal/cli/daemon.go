package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cruciblehq/fxpack/internal/protocol"
)

// Time allowed for a daemon request that does not build.
const daemonTimeout = 5 * time.Second

// Represents the 'fxpack status' command.
type StatusCmd struct{}

// Executes the status command.
func (c *StatusCmd) Run(ctx context.Context, g *Globals) error {
	ctx, cancel := context.WithTimeout(ctx, daemonTimeout)
	defer cancel()

	payload, err := protocol.Call(ctx, g.socketPath(), protocol.CmdStatus, nil)
	if err != nil {
		return err
	}

	status, err := protocol.DecodePayload[protocol.StatusResult](payload)
	if err != nil {
		return err
	}

	fmt.Printf("version:   %s\n", status.Version)
	fmt.Printf("pid:       %d\n", status.Pid)
	fmt.Printf("uptime:    %s\n", status.Uptime)
	fmt.Printf("builds:    %d\n", status.Builds)
	fmt.Printf("resources: %s\n", strings.Join(status.Resources, ", "))
	return nil
}

// Represents the 'fxpack stop' command.
type StopCmd struct{}

// Executes the stop command.
func (c *StopCmd) Run(ctx context.Context, g *Globals) error {
	ctx, cancel := context.WithTimeout(ctx, daemonTimeout)
	defer cancel()

	_, err := protocol.Call(ctx, g.socketPath(), protocol.CmdShutdown, nil)
	return err
}
