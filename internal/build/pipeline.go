package build

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cruciblehq/fxpack/internal/hook"
	"github.com/cruciblehq/fxpack/internal/paths"
	"github.com/cruciblehq/fxpack/internal/resource"
	"github.com/dustin/go-humanize"
)

// Name of the build record kept in the resource's build cache directory.
const RecordFile = "build.json"

// Builds a resource by copying its files and rendering its runtime
// manifest, calling the manifest's hooks in between.
type Pipeline struct {
	*Base
}

// Creates the file pipeline of res.
func NewPipeline(session *Session, res *resource.Resource) *Pipeline {
	return &Pipeline{Base: NewBase(session, res)}
}

// Runs one build.
//
// Holds the resource lock for the whole build, so builds and hooks of one
// resource never overlap. Hooks run in order preBuild, postCopy,
// preManifest and postBuild; a manifest returned by one hook is visible to
// the next. A failed copy or manifest write fails the build; hook failures
// never do. The result is returned in every case.
func (p *Pipeline) Build(ctx context.Context, opts Options) (*Result, error) {
	res := p.Resource
	res.Lock()
	defer res.Unlock()

	start := time.Now()
	p.life.reset()

	if opts.ReloadManifest {
		res.ReloadManifest()
	}

	p.RunHook(ctx, hook.PreBuild, opts)

	copied, err := p.CopyFiles(ctx, opts.Force)
	if err != nil {
		return p.fail("copy files", err)
	}

	p.RunHook(ctx, hook.PostCopy, copied.Targets)
	p.RunHook(ctx, hook.PreManifest, nil)

	written, err := p.WriteManifest(opts.Force)
	if err != nil {
		return p.fail("write manifest", err)
	}

	result := p.result(StatusOK)
	result.Copied = copied.Copied
	result.Skipped = copied.Skipped
	result.Bytes = copied.Bytes
	result.Manifest = written.Digest
	result.Changed = written.Changed

	p.RunHook(ctx, hook.PostBuild, result)
	p.record(result)

	slog.Info("resource built",
		"resource", res.Name,
		"copied", result.Copied,
		"skipped", result.Skipped,
		"size", humanize.Bytes(uint64(result.Bytes)),
		"manifest", result.Manifest,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return result, nil
}

// Logs a failed operation and returns the failure result.
func (p *Pipeline) fail(op string, err error) (*Result, error) {
	err = fmt.Errorf("%w: %s: %w", ErrBuild, p.Resource.Name, err)
	slog.Error("build failed", "resource", p.Resource.Name, "op", op, "error", err)

	result := p.result(StatusFailed)
	result.Error = err.Error()
	return result, err
}

// Writes the result to the resource's build cache directory. Failures are
// logged only.
func (p *Pipeline) record(result *Result) {
	if p.session.CacheRoot == "" {
		return
	}

	dir := paths.BuildCache(p.session.CacheRoot, p.Resource.Name)
	data, err := json.MarshalIndent(result, "", "  ")
	if err == nil {
		err = os.MkdirAll(dir, paths.DefaultDirMode)
	}
	if err == nil {
		err = os.WriteFile(filepath.Join(dir, RecordFile), append(data, '\n'), paths.DefaultFileMode)
	}
	if err != nil {
		slog.Warn("failed to write build record", "resource", p.Resource.Name, "error", err)
	}
}

// Reads the last build record of the named resource. Returns nil when
// there is none.
func LoadRecord(cacheRoot, name string) (*Result, error) {
	data, err := os.ReadFile(filepath.Join(paths.BuildCache(cacheRoot, name), RecordFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}
	return &r, nil
}
