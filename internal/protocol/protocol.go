package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/cruciblehq/fxpack/internal/build"
)

// Name of a daemon command or response.
type Command string

const (
	CmdBuild    Command = "build"    // Build resources.
	CmdClean    Command = "clean"    // Remove build caches and outputs.
	CmdStatus   Command = "status"   // Report daemon status.
	CmdShutdown Command = "shutdown" // Stop the daemon.
	CmdOK       Command = "ok"       // Successful response.
	CmdError    Command = "error"    // Failed response.
)

// Wire message.
type Envelope struct {
	Command Command         `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload of [CmdBuild].
type BuildRequest struct {
	Resources      []string `json:"resources"`
	All            bool     `json:"all,omitempty"` // Build every resource in the source tree.
	Force          bool     `json:"force,omitempty"`
	ReloadManifest bool     `json:"reloadManifest,omitempty"`
}

// Response to [CmdBuild]. Holds one result per resource, failed ones
// included.
type BuildResult struct {
	Results []*build.Result `json:"results"`
}

// Payload of [CmdClean].
type CleanRequest struct {
	Resources []string `json:"resources"`
	Output    bool     `json:"output,omitempty"` // Also remove output targets.
}

// Response to [CmdClean].
type CleanResult struct {
	Removed []string `json:"removed"`
}

// Response to [CmdStatus].
type StatusResult struct {
	Running   bool     `json:"running"`
	Version   string   `json:"version"`
	Pid       int      `json:"pid"`
	Uptime    string   `json:"uptime"`
	Builds    int      `json:"builds"`    // Build commands served.
	Resources []string `json:"resources"` // Resources registered so far.
}

// Payload of [CmdError].
type ErrorResult struct {
	Message string `json:"message"`
}

// Encodes an envelope. A nil payload is omitted.
func Encode(cmd Command, payload any) ([]byte, error) {
	env := Envelope{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncode, err)
		}
		env.Payload = data
	}

	data, err := json.Marshal(&env)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return data, nil
}

// Decodes an envelope and returns it with its raw payload.
func Decode(data []byte) (*Envelope, json.RawMessage, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if env.Command == "" {
		return nil, nil, fmt.Errorf("%w: missing command", ErrDecode)
	}
	return &env, env.Payload, nil
}

// Decodes a payload into T. An empty payload yields the zero value.
func DecodePayload[T any](payload json.RawMessage) (*T, error) {
	v := new(T)
	if len(payload) == 0 || string(payload) == "null" {
		return v, nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return v, nil
}
