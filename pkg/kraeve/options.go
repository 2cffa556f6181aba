// SPDX-License-Identifier: MPL-2.0

package kraeve

import (
	"github.com/kraeve/kraeve/pkg/loader"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/maps"
)

type (
	// Option configures New.
	Option func(*options)

	options struct {
		startDir     string
		defaultName  string
		manifestFile string
		extensions   []string
		aliases      map[string]string
		logger       *log.Logger
		base         loader.Loader
	}
)

// WithStartDir starts discovery at dir instead of the executable's directory.
func WithStartDir(dir string) Option {
	return func(o *options) {
		o.startDir = dir
	}
}

// WithDefaultName sets the name registered when no manifest is found.
func WithDefaultName(name string) Option {
	return func(o *options) {
		o.defaultName = name
	}
}

// WithManifestFile looks for file instead of package.json during discovery.
func WithManifestFile(file string) Option {
	return func(o *options) {
		o.manifestFile = file
	}
}

// WithExtensions sets the extensions the default file loader tries.
// It has no effect together with WithBaseLoader.
func WithExtensions(exts ...string) Option {
	return func(o *options) {
		o.extensions = append([]string(nil), exts...)
	}
}

// WithAliases registers each name to its path with Set after discovery.
// Repeated calls accumulate.
func WithAliases(aliases map[string]string) Option {
	return func(o *options) {
		if o.aliases == nil {
			o.aliases = make(map[string]string, len(aliases))
		}
		maps.Copy(o.aliases, aliases)
	}
}

// WithLogger sets the logger for discovery and rewrite events.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithBaseLoader sets the loader the interceptor wraps. The default is a
// loader.FileLoader.
func WithBaseLoader(base loader.Loader) Option {
	return func(o *options) {
		o.base = base
	}
}
