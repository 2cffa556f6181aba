// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// vendorDirName is the directory package managers install dependencies into.
const vendorDirName = "node_modules"

type (
	// Result is the outcome of a discovery walk.
	Result struct {
		// Name is the manifest's name, the base name of its directory when the
		// manifest declares none, or the caller's default when nothing was found.
		Name string
		// Dir is the absolute directory the name resolves to.
		Dir string
		// ManifestPath is the manifest that was read. Empty when none was found.
		ManifestPath string
	}

	// Options tunes a discovery walk.
	Options struct {
		// FileName overrides DefaultFileName.
		FileName string
		// DefaultName overrides DefaultName for walks that find no manifest.
		DefaultName string
	}
)

// Found reports whether the walk located a manifest.
func (r Result) Found() bool {
	return r.ManifestPath != ""
}

func (o Options) fileName() string {
	if o.FileName == "" {
		return DefaultFileName
	}
	return o.FileName
}

func (o Options) defaultName() string {
	if o.DefaultName == "" {
		return DefaultName
	}
	return o.DefaultName
}

// Discover walks from start toward the filesystem root looking for a manifest.
// The walk ends when going to the parent yields the same path.
//
// No manifest is not an error: the result is (opts.DefaultName, start).
// A manifest that exists but fails to parse is returned as an error.
func Discover(start string, opts Options) (Result, error) {
	absStart, err := filepath.Abs(start)
	if err != nil {
		return Result{}, fmt.Errorf("resolving discovery start %q: %w", start, err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, opts.fileName())
		if fileExists(candidate) {
			m, err := Read(candidate)
			if err != nil {
				return Result{}, err
			}
			name := m.Name
			if name == "" {
				name = filepath.Base(dir)
			}
			return Result{Name: name, Dir: dir, ManifestPath: candidate}, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return Result{Name: opts.defaultName(), Dir: absStart}, nil
}

// DiscoverHost handles a discovered directory that sits inside a vendor
// directory (node_modules). The path is cut at the first vendor segment and a
// second walk starts there, defaulting to that directory's base name. ok is
// false when res.Dir is not vendored.
func DiscoverHost(res Result, opts Options) (host Result, ok bool, err error) {
	hostDir, vendored := cutVendorDir(res.Dir)
	if !vendored {
		return Result{}, false, nil
	}

	opts.DefaultName = filepath.Base(hostDir)
	host, err = Discover(hostDir, opts)
	if err != nil {
		return Result{}, false, err
	}
	return host, true, nil
}

// cutVendorDir returns the part of dir before its first node_modules segment.
func cutVendorDir(dir string) (string, bool) {
	segments := strings.Split(filepath.ToSlash(dir), "/")
	idx := slices.Index(segments, vendorDirName)
	if idx < 0 {
		return dir, false
	}

	cut := strings.Join(segments[:idx], "/")
	if cut == "" {
		cut = "/"
	}
	return filepath.FromSlash(cut), true
}

// EntryDir is the directory of the running executable, or the working
// directory when the executable path is unavailable.
func EntryDir() (string, error) {
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe), nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
