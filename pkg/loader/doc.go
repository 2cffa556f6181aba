// SPDX-License-Identifier: MPL-2.0

// Package loader provides module resolution and loading for import requests,
// and the interceptor that lets registered pseudo-module names stand in for
// directories.
//
// A pipeline is composed explicitly at startup:
//
//	reg := registry.New()
//	base := loader.NewFileLoader()
//	l := loader.Intercept(base, reg)
//	mod, err := l.Load(ctx, "my-app/lib/util.js", "")
//
// The interceptor rewrites the request and delegates to the loader it wraps.
// It adds no caching and no error kinds of its own.
package loader
