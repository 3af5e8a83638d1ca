// Package build turns resource sources into runtime-ready output trees.
//
// A build moves a resource through three lifecycle states: loaded, files
// copied and manifest rendered. [Base] holds the lifecycle of one resource
// and provides the building blocks of a build; its own Build is not
// implemented and reports [StatusNotImplemented]. [Pipeline] is the
// concrete builder: it reloads the manifest on request, copies every file
// entry into the output target, renders fxmanifest.lua and runs the
// manifest's hooks around those steps.
//
// The copy step compares digests and skips targets that already match
// their source, so repeated builds only write what changed. [RunAll] builds
// several resources concurrently; one failure does not stop the others.
// [Clean] removes a resource's build cache directory and [CleanOutput]
// removes its output target.
//
// Example usage:
//
//	session := &build.Session{
//	    Registry:  reg,
//	    Writer:    fxmanifest.NewWriter(reg, fxmanifest.DefaultBundles),
//	    Hooks:     hook.NewInvoker(&hook.Subprocess{}, time.Minute),
//	    CacheRoot: paths.Cache(),
//	}
//	results, err := build.RunAll(ctx, session, []string{"core", "hud"}, build.Options{}, 4)
//	if err != nil {
//	    return err
//	}
package build
