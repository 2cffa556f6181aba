// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// requestSeparator splits import requests. Requests always use forward
// slashes, whatever the host OS.
const requestSeparator = "/"

type (
	// Entry is one registered pseudo-module.
	Entry struct {
		Name ModuleName
		// Dir is absolute and, when registered through Set, existed at that time.
		Dir string
	}

	// PathResolver resolves an import request to a file or directory path.
	// SetRelative uses it to locate the module a path is relative to.
	PathResolver interface {
		Resolve(ctx context.Context, request, from string) (string, error)
	}

	// Registry maps module names to directories.
	Registry struct {
		mu      sync.RWMutex
		entries map[ModuleName]string
	}
)

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[ModuleName]string)}
}

// Seed registers dir under name without touching the filesystem or validating
// the name. It is intended for entries produced by manifest discovery.
func (r *Registry) Seed(name ModuleName, dir string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = dir
}

// Has reports whether name is registered.
func (r *Registry) Has(name ModuleName) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Get returns the directory registered for name.
func (r *Registry) Get(name ModuleName) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dir, ok := r.entries[name]
	return dir, ok
}

// Set registers name to resolve to path. The path is made absolute and must
// exist: the stat error is returned otherwise and the registry is left as it
// was. A path naming a file registers the file's directory. An existing entry
// for name is overwritten. Set returns r so calls can be chained.
func (r *Registry) Set(name ModuleName, path string) (*Registry, error) {
	if err := name.Validate(); err != nil {
		return r, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return r, fmt.Errorf("resolving path for module %q: %w", name, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return r, fmt.Errorf("registering module %q: %w", name, err)
	}
	if !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	r.Seed(name, abs)
	return r, nil
}

// SetRelative registers name to path taken relative to the module that
// relativeTo resolves to, rather than to the working directory. relativeTo is an
// import request resolved by resolver; when it resolves to a file, path is
// joined onto the file's directory.
func (r *Registry) SetRelative(ctx context.Context, name ModuleName, path, relativeTo string, resolver PathResolver) (*Registry, error) {
	if relativeTo == "" {
		return r.Set(name, path)
	}

	base, err := resolver.Resolve(ctx, relativeTo, "")
	if err != nil {
		return r, fmt.Errorf("resolving %q for module %q: %w", relativeTo, name, err)
	}

	baseDir := base
	if info, statErr := os.Stat(base); statErr != nil || !info.IsDir() {
		baseDir = filepath.Dir(base)
	}

	return r.Set(name, filepath.Join(baseDir, path))
}

// Entries returns a snapshot of all entries sorted by name.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := slices.Sorted(maps.Keys(r.entries))
	out := make([]Entry, 0, len(names))
	for _, name := range names {
		out = append(out, Entry{Name: name, Dir: r.entries[name]})
	}
	return out
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Rewrite replaces the leading segment of request with its registered
// directory. Only the whole first segment is matched, so with "pkg" registered
// "pkg/a" is rewritten while "pkgextra/a" and "x/pkg" are not. The second
// result reports whether a rewrite happened; unmatched requests are returned
// untouched.
func (r *Registry) Rewrite(request string) (string, bool) {
	head, rest, _ := strings.Cut(request, requestSeparator)

	dir, ok := r.Get(ModuleName(head))
	if !ok {
		return request, false
	}

	segments := append([]string{dir}, strings.Split(rest, requestSeparator)...)
	return filepath.Join(segments...), true
}
