// Package watch rebuilds resources when their source files change.
//
// A [Watcher] watches the roots of a set of resources recursively with
// fsnotify. Events are coalesced over a debounce window and mapped to the
// resources owning the changed paths; the rebuild callback then receives
// every affected resource name once. Directories created while watching
// are added automatically. node_modules, _imports, .git and the dist root
// are never watched.
//
// Example usage:
//
//	w, err := watch.New(reg, []string{"hud"}, watch.Options{
//	    Rebuild: func(ctx context.Context, names []string) {
//	        build.RunAll(ctx, session, names, build.Options{ReloadManifest: true}, 4)
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	return w.Run(ctx)
package watch
