// Package protocol defines the messages exchanged with the build daemon.
//
// Every message is a single line of JSON holding an [Envelope]: the
// command name and its payload. A client writes one request envelope and
// reads one response envelope whose command is either [CmdOK] or
// [CmdError].
//
// Example usage:
//
//	cmd, payload, err := protocol.Call(ctx, paths.Socket(), protocol.CmdBuild, &protocol.BuildRequest{
//	    Resources: []string{"hud"},
//	})
//	if err != nil {
//	    return err
//	}
//	result, err := protocol.DecodePayload[protocol.BuildResult](payload)
package protocol
