package hook

import (
	"context"
	"encoding/json"

	"github.com/cruciblehq/fxpack/internal/manifest"
)

// Hook points invoked by the build pipeline, in order.
const (
	PreBuild    = "preBuild"    // Before any file is copied.
	PostCopy    = "postCopy"    // After files are copied; data lists the copied targets.
	PreManifest = "preManifest" // Before the runtime manifest is rendered.
	PostBuild   = "postBuild"   // After the runtime manifest is written.
)

// Input handed to a hook.
type Context struct {
	Hook         string             `json:"hook"`
	ResourceName string             `json:"resourceName"`
	ResourcePath string             `json:"resourcePath"`
	OutputTarget string             `json:"outputTarget"`
	Env          map[string]string  `json:"env"`      // Merged resource environment.
	Manifest     *manifest.Manifest `json:"manifest"` // Snapshot; changes only apply when returned.
	Data         any                `json:"data"`
}

// Output of a hook.
type Result struct {
	Ctx      ResultContext   `json:"ctx"`
	Returned json.RawMessage `json:"returned,omitempty"`
}

// Manifest handed back by a hook. A nil manifest leaves the resource's
// manifest unchanged.
type ResultContext struct {
	Manifest *manifest.Manifest `json:"manifest"`
}

// A loaded hook.
type Func func(ctx context.Context, hc *Context) (*Result, error)

// Loads hook scripts.
type Provider interface {

	// Returns the hook implemented by the script at path, called with args.
	Load(path string, args []string) (Func, error)
}
