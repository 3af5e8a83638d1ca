package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cruciblehq/fxpack/internal/paths"
	"github.com/cruciblehq/fxpack/internal/resource"
	"github.com/fsnotify/fsnotify"
)

// Default window over which events are coalesced.
const DefaultDebounce = 200 * time.Millisecond

// Directory names never watched.
var ignoredDirs = []string{"node_modules", paths.ImportsDir, ".git"}

// Controls a [Watcher].
type Options struct {
	Debounce time.Duration                             // Coalescing window. Zero uses [DefaultDebounce].
	Rebuild  func(ctx context.Context, names []string) // Called with the sorted names of resources to rebuild.
}

// Watches resource roots and triggers rebuilds.
type Watcher struct {
	fsw      *fsnotify.Watcher
	reg      *resource.Registry
	roots    map[string]string // Resource root to resource name.
	targets  map[string]bool   // Names passed to New; only these are rebuilt.
	dist     string            // Dist root, never watched.
	debounce time.Duration
	rebuild  func(ctx context.Context, names []string)
}

// Creates a watcher over the roots of the named resources, opening them
// through reg.
//
// The roots of resources they import files from are watched too, so that a
// change in an imported resource rebuilds its importers. Imported resources
// that cannot be found are skipped.
func New(reg *resource.Registry, names []string, opts Options) (*Watcher, error) {
	if opts.Rebuild == nil {
		return nil, fmt.Errorf("%w: no rebuild callback", ErrWatch)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWatch, err)
	}

	w := &Watcher{
		fsw:      fsw,
		reg:      reg,
		roots:    make(map[string]string),
		targets:  make(map[string]bool),
		dist:     reg.Config().DistRoot,
		debounce: opts.Debounce,
		rebuild:  opts.Rebuild,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}

	var opened []*resource.Resource
	for _, name := range names {
		res, err := reg.Open(name)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("%w: %w", ErrWatch, err)
		}
		w.targets[res.Name] = true
		opened = append(opened, res)
		if err := w.addRoot(res); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	for _, res := range opened {
		for _, name := range resource.Imports(res.Manifest()) {
			dep, err := reg.Open(name)
			if err != nil {
				slog.Debug("imported resource not watched", "resource", res.Name, "import", name, "error", err)
				continue
			}
			if err := w.addRoot(dep); err != nil {
				fsw.Close()
				return nil, err
			}
		}
	}

	return w, nil
}

// Watches the tree of res once.
func (w *Watcher) addRoot(res *resource.Resource) error {
	if _, ok := w.roots[res.Root]; ok {
		return nil
	}
	w.roots[res.Root] = res.Name
	return w.addTree(res.Root)
}

// Stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Processes events until ctx is done or the watcher is closed.
//
// Rebuilds run on the calling goroutine; events arriving during a rebuild
// are coalesced into the next one.
func (w *Watcher) Run(ctx context.Context) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if name, ok := w.handle(ev); ok {
				pending[name] = true
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)

		case <-timer.C:
			names := w.affected(pending)
			clear(pending)
			if len(names) == 0 {
				continue
			}

			slog.Info("sources changed", "resources", names)
			w.rebuild(ctx, names)
		}
	}
}

// Returns the sorted names of the watched resources to rebuild for the
// changed ones: every changed resource that was passed to [New], plus
// every such resource importing files from a changed one.
func (w *Watcher) affected(changed map[string]bool) []string {
	var names []string
	for name := range w.targets {
		if changed[name] {
			names = append(names, name)
			continue
		}
		res, ok := w.reg.Lookup(name)
		if !ok {
			continue
		}
		for _, dep := range resource.Imports(res.Manifest()) {
			if changed[dep] {
				names = append(names, name)
				break
			}
		}
	}
	slices.Sort(names)
	return names
}

// Interprets one event and returns the owning resource when it matters.
func (w *Watcher) handle(ev fsnotify.Event) (string, bool) {
	root, ok := w.owner(ev.Name)
	if !ok || w.ignored(root, ev.Name) {
		return "", false
	}
	name := w.roots[root]

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				slog.Warn("failed to watch directory", "path", ev.Name, "error", err)
			}
		}
	}

	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
		return "", false
	}

	slog.Debug("source changed", "resource", name, "path", ev.Name, "op", ev.Op.String())
	return name, true
}

// Returns the root of the resource owning path: the longest root that
// contains it.
func (w *Watcher) owner(path string) (string, bool) {
	best := ""
	for root := range w.roots {
		if paths.Within(root, path) && len(root) > len(best) {
			best = root
		}
	}
	return best, best != ""
}

// Adds dir and its subdirectories, skipping ignored ones.
func (w *Watcher) addTree(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.ignored(dir, path) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWatch, err)
	}
	return nil
}

// Reports whether path lies in the dist root or in an ignored directory
// below base.
func (w *Watcher) ignored(base, path string) bool {
	if w.dist != "" && paths.Within(w.dist, path) {
		return true
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if slices.Contains(ignoredDirs, part) {
			return true
		}
	}
	return false
}
