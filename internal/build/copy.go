package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cruciblehq/fxpack/internal/manifest"
	"github.com/cruciblehq/fxpack/internal/paths"
	"github.com/opencontainers/go-digest"
)

// Summary of the copy step.
type CopyResult struct {
	Targets []string // Manifest-relative targets, in manifest order.
	Copied  int      // Files written.
	Skipped int      // Files left in place because they were unchanged.
	Bytes   int64    // Bytes written.
}

// Places every file the manifest asks for in the output target.
//
// File entries marked skipCopy are not copied; all other entries, including
// server-only and skip-resolve ones, are resolved through the registry.
// Script entries are copied too when scripts are not bundled. A target
// whose content already matches its source is left alone unless force is
// set. Fails when an entry cannot be resolved or a file cannot be copied;
// files copied before the failure stay in place.
func (b *Base) CopyFiles(ctx context.Context, force bool) (*CopyResult, error) {
	res := b.Resource
	out := &CopyResult{Targets: []string{}}
	seen := make(map[string]bool)

	for _, spec := range copySpecs(res.Manifest(), b.session.Writer.Bundled()) {
		items, err := b.session.Registry.Resolve(res, spec)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCopy, spec, err)
		}

		for _, it := range items {
			if seen[it.Target] {
				continue
			}
			seen[it.Target] = true

			if err := ctx.Err(); err != nil {
				return nil, err
			}

			n, copied, err := copyFile(it.Source, it.Target, force)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrCopy, it.SourceManifest, err)
			}

			out.Targets = append(out.Targets, it.TargetManifest)
			if copied {
				out.Copied++
				out.Bytes += n
			} else {
				out.Skipped++
			}
			slog.Debug("copy", "resource", res.Name, "src", it.Source, "dest", it.Target, "copied", copied)
		}
	}

	if err := b.life.advance(StateFilesCopied); err != nil {
		return nil, err
	}
	return out, nil
}

// Returns the path-specs the copy step resolves, in manifest order.
func copySpecs(m *manifest.Manifest, bundled bool) []string {
	var specs []string
	for _, f := range m.Files {
		if !f.SkipCopy {
			specs = append(specs, f.Src)
		}
	}
	if !bundled {
		specs = append(specs, m.Scripts.Shared...)
		specs = append(specs, m.Scripts.Server...)
		specs = append(specs, m.Scripts.Client...)
	}
	return specs
}

// Copies the regular file src to dest, creating parent directories.
//
// Unless force is set, an existing dest with the same digest is left
// untouched. The file is written next to dest and renamed into place.
// Returns the number of bytes written and whether dest was written.
func copyFile(src, dest string, force bool) (int64, bool, error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, false, err
	}
	if !info.Mode().IsRegular() {
		return 0, false, fmt.Errorf("%s is not a regular file", src)
	}

	if !force {
		same, err := sameContent(src, dest, info.Size())
		if err != nil {
			return 0, false, err
		}
		if same {
			return 0, false, nil
		}
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
		return 0, false, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, false, err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(dir, ".fxpack-*")
	if err != nil {
		return 0, false, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, in)
	if err == nil {
		err = tmp.Chmod(info.Mode().Perm())
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, false, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return 0, false, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}
	return n, true, nil
}

// Reports whether dest exists with the same content as src.
func sameContent(src, dest string, size int64) (bool, error) {
	info, err := os.Stat(dest)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !info.Mode().IsRegular() || info.Size() != size {
		return false, nil
	}

	a, err := fileDigest(src)
	if err != nil {
		return false, err
	}
	b, err := fileDigest(dest)
	if err != nil {
		return false, err
	}
	return a == b, nil
}

// Returns the canonical digest of the file at path.
func fileDigest(path string) (digest.Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return digest.FromReader(f)
}
