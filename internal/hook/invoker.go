package hook

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cruciblehq/fxpack/internal/resource"
	"github.com/kballard/go-shellquote"
)

// Calls the hooks declared in resource manifests.
type Invoker struct {
	provider Provider
	timeout  time.Duration // Zero means no limit.
}

// Creates an invoker loading hooks from provider. A positive timeout bounds
// every hook call.
func NewInvoker(provider Provider, timeout time.Duration) *Invoker {
	return &Invoker{provider: provider, timeout: timeout}
}

// Runs the hook declared for the given hook point and returns the value the
// hook returned.
//
// Returns nil when no hook is declared, when the hook returned nothing, or
// when it cannot run or fails; failures are logged with the resource name. When the hook returns
// a manifest, it replaces the resource's manifest. Callers hold the
// resource lock so that hooks of one resource run one at a time.
func (i *Invoker) Invoke(ctx context.Context, res *resource.Resource, name string, data any) json.RawMessage {
	m := res.Manifest()
	decl, ok := m.Hooks[name]
	if !ok || decl == "" {
		return nil
	}

	log := slog.With("resource", res.Name, "hook", name)

	words, err := shellquote.Split(decl)
	if err != nil || len(words) == 0 {
		log.Warn("invalid hook declaration", "declaration", decl, "error", err)
		return nil
	}

	script := words[0]
	if !filepath.IsAbs(script) {
		script = filepath.Join(res.Root, filepath.FromSlash(script))
	}

	if _, err := os.Stat(script); err != nil {
		log.Warn("hook script not found", "path", script)
		return nil
	}

	fn, err := i.provider.Load(script, words[1:])
	if err != nil {
		log.Error("hook load failed", "path", script, "error", err)
		return nil
	}

	hc := &Context{
		Hook:         name,
		ResourceName: res.Name,
		ResourcePath: res.Root,
		OutputTarget: res.OutputTarget,
		Env:          res.Env(),
		Manifest:     m.Clone(),
		Data:         data,
	}

	log.Debug("running hook", "path", script)

	result, err := i.call(ctx, fn, hc)
	if err != nil {
		log.Error("hook failed", "path", script, "error", err)
		return nil
	}
	if result == nil {
		return nil
	}

	if result.Ctx.Manifest != nil {
		res.SetManifest(result.Ctx.Manifest)
	}
	return result.Returned
}

// Calls fn under the configured timeout, converting panics into errors.
func (i *Invoker) call(ctx context.Context, fn Func, hc *Context) (result *Result, err error) {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrHookFailed, r)
		}
	}()

	return fn(ctx, hc)
}
