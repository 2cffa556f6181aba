// SPDX-License-Identifier: MPL-2.0

package kraeve

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/kraeve/kraeve/pkg/loader"
	"github.com/kraeve/kraeve/pkg/manifest"
	"github.com/kraeve/kraeve/pkg/registry"

	"github.com/charmbracelet/log"
)

// Kraeve is a registry of pseudo-modules together with the loader pipeline
// that resolves them. It is safe for concurrent use.
type Kraeve struct {
	reg        *registry.Registry
	loader     *loader.Interceptor
	discovered manifest.Result
	host       manifest.Result
	hasHost    bool
	logger     *log.Logger
}

var defaultInstance = sync.OnceValues(func() (*Kraeve, error) {
	return New(context.Background())
})

// Default returns the process-wide instance, creating it on the first call.
// Later calls return the same instance and error.
func Default() (*Kraeve, error) {
	return defaultInstance()
}

// New discovers the application root, registers it and builds the loader
// pipeline. When the root lies inside node_modules, the application that
// installed it is registered as well. Aliases given through WithAliases are
// then registered with Set; the first failing alias is returned as an error.
func New(ctx context.Context, opts ...Option) (*Kraeve, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("kraeve setup canceled: %w", err)
	}

	logger := o.logger
	if logger == nil {
		logger = log.Default().WithPrefix("kraeve")
	}

	start := o.startDir
	if start == "" {
		var err error
		if start, err = manifest.EntryDir(); err != nil {
			return nil, err
		}
	}

	discoverOpts := manifest.Options{FileName: o.manifestFile, DefaultName: o.defaultName}
	res, err := manifest.Discover(start, discoverOpts)
	if err != nil {
		return nil, fmt.Errorf("discovering application name: %w", err)
	}

	k := &Kraeve{reg: registry.New(), discovered: res, logger: logger}
	k.reg.Seed(registry.ModuleName(res.Name), res.Dir)
	logger.Debug("registered application", "name", res.Name, "dir", res.Dir, "manifest", res.ManifestPath)

	host, ok, err := manifest.DiscoverHost(res, discoverOpts)
	if err != nil {
		return nil, fmt.Errorf("discovering host application: %w", err)
	}
	if ok {
		k.host, k.hasHost = host, true
		k.reg.Seed(registry.ModuleName(host.Name), host.Dir)
		logger.Debug("registered host application", "name", host.Name, "dir", host.Dir)
	}

	for _, name := range slices.Sorted(maps.Keys(o.aliases)) {
		if _, err := k.Set(name, o.aliases[name]); err != nil {
			return nil, err
		}
	}

	base := o.base
	if base == nil {
		var fileOpts []loader.FileLoaderOption
		if len(o.extensions) > 0 {
			fileOpts = append(fileOpts, loader.WithExtensions(o.extensions...))
		}
		base = loader.NewFileLoader(fileOpts...)
	}
	k.loader = loader.Intercept(base, k.reg, loader.WithLogger(logger.WithPrefix("loader")))

	return k, nil
}

// Has reports whether name is registered.
func (k *Kraeve) Has(name string) bool {
	return k.reg.Has(registry.ModuleName(name))
}

// Get returns the directory registered for name.
func (k *Kraeve) Get(name string) (string, bool) {
	return k.reg.Get(registry.ModuleName(name))
}

// Set registers name to path. See registry.Registry.Set.
func (k *Kraeve) Set(name, path string) (*Kraeve, error) {
	if _, err := k.reg.Set(registry.ModuleName(name), path); err != nil {
		return k, err
	}
	k.logDir("registered module", name)
	return k, nil
}

// SetRelative registers name to path taken relative to the module relativeTo
// resolves to. relativeTo goes through the intercepted loader, so it may
// itself start with a registered name.
func (k *Kraeve) SetRelative(ctx context.Context, name, path, relativeTo string) (*Kraeve, error) {
	if _, err := k.reg.SetRelative(ctx, registry.ModuleName(name), path, relativeTo, k.loader); err != nil {
		return k, err
	}
	k.logDir("registered module", name)
	return k, nil
}

// Resolve returns the file request refers to, after rewriting.
func (k *Kraeve) Resolve(ctx context.Context, request, from string) (string, error) {
	return k.loader.Resolve(ctx, request, from)
}

// Load loads the module request refers to, after rewriting.
func (k *Kraeve) Load(ctx context.Context, request, from string) (*loader.Module, error) {
	return k.loader.Load(ctx, request, from)
}

// Rewrite returns request with a registered leading segment replaced.
func (k *Kraeve) Rewrite(request string) (string, bool) {
	return k.reg.Rewrite(request)
}

// Registry returns the underlying registry.
func (k *Kraeve) Registry() *registry.Registry {
	return k.reg
}

// Loader returns the intercepted loader.
func (k *Kraeve) Loader() loader.Loader {
	return k.loader
}

// Discovered returns the result of the startup discovery walk.
func (k *Kraeve) Discovered() manifest.Result {
	return k.discovered
}

// Host returns the application kraeve's root is installed into, when that
// root lies inside node_modules.
func (k *Kraeve) Host() (manifest.Result, bool) {
	return k.host, k.hasHost
}

func (k *Kraeve) logDir(msg, name string) {
	dir, _ := k.Get(name)
	k.logger.Debug(msg, "name", name, "dir", dir)
}
