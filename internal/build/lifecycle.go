package build

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/cruciblehq/fxpack/internal/fxmanifest"
	"github.com/cruciblehq/fxpack/internal/hook"
	"github.com/cruciblehq/fxpack/internal/resource"
	"github.com/opencontainers/go-digest"
)

// Controls a build invocation.
type Options struct {
	Force          bool `json:"force"`          // Rewrite outputs even when unchanged.
	ReloadManifest bool `json:"reloadManifest"` // Re-read manifest.yaml before building.
}

// Outcome category of a build.
type Status string

const (
	StatusOK             Status = "ok"
	StatusFailed         Status = "failed"
	StatusNotImplemented Status = "not-implemented"
)

// Returned by a build, successful or not.
type Result struct {
	Resource string        `json:"resource"`           // Resource name.
	Status   Status        `json:"status"`             // Outcome category.
	State    State         `json:"state"`              // Lifecycle state reached.
	Output   string        `json:"output,omitempty"`   // Output target.
	Copied   int           `json:"copied"`             // Files written by the copy step.
	Skipped  int           `json:"skipped"`            // Files left in place because they were unchanged.
	Bytes    int64         `json:"bytes"`              // Bytes written by the copy step.
	Manifest digest.Digest `json:"manifest,omitempty"` // Digest of the runtime manifest.
	Changed  bool          `json:"changed"`            // Whether the runtime manifest was rewritten.
	Error    string        `json:"error,omitempty"`    // Failure message.
}

// Builds one resource.
type Builder interface {

	// Runs one build invocation.
	Build(ctx context.Context, opts Options) (*Result, error)
}

// Collaborators shared by every build of a session.
type Session struct {
	Registry  *resource.Registry // Resources of the session.
	Writer    *fxmanifest.Writer // Runtime manifest writer.
	Hooks     *hook.Invoker      // Hook invoker; nil disables hooks.
	CacheRoot string             // Cache root; build records go to <cache>/build/<name>.
}

// Lifecycle of one resource.
//
// Base provides the building blocks of a build (copying files, writing the
// runtime manifest, running hooks) and tracks the lifecycle state. Its own
// [Base.Build] is not implemented; concrete builders such as [Pipeline]
// embed it and define the build.
type Base struct {
	Resource *resource.Resource
	session  *Session
	life     *lifecycle
}

// Creates the lifecycle of res within session.
func NewBase(session *Session, res *resource.Resource) *Base {
	return &Base{
		Resource: res,
		session:  session,
		life:     newLifecycle(),
	}
}

// Returns the current lifecycle state.
func (b *Base) State() State {
	return b.life.current()
}

// Reports a not-implemented build. The result is returned along with
// [ErrNotImplemented] so callers can tell it apart from a failed build.
func (b *Base) Build(ctx context.Context, opts Options) (*Result, error) {
	err := fmt.Errorf("%w: resource %s has no builder", ErrNotImplemented, b.Resource.Name)
	slog.Error("build not implemented", "resource", b.Resource.Name)
	return &Result{
		Resource: b.Resource.Name,
		Status:   StatusNotImplemented,
		State:    b.State(),
		Error:    err.Error(),
	}, err
}

// Runs the hook declared for the hook point and returns its value. Hooks
// never fail the build. Callers hold the resource lock.
func (b *Base) RunHook(ctx context.Context, name string, data any) json.RawMessage {
	if b.session.Hooks == nil {
		return nil
	}
	return b.session.Hooks.Invoke(ctx, b.Resource, name, data)
}

// Renders the runtime manifest and writes it to the output target.
func (b *Base) WriteManifest(force bool) (*fxmanifest.WriteResult, error) {
	written, err := b.session.Writer.Write(b.Resource, force)
	if err != nil {
		return nil, err
	}
	if err := b.life.advance(StateManifestRendered); err != nil {
		return nil, err
	}
	return written, nil
}

// Returns a result for the current state.
func (b *Base) result(status Status) *Result {
	return &Result{
		Resource: b.Resource.Name,
		Status:   status,
		State:    b.State(),
		Output:   b.Resource.OutputTarget,
	}
}
