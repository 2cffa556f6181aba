// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"

	"github.com/charmbracelet/log"
)

type (
	// Rewriter maps an import request to the request that should be resolved
	// instead. *registry.Registry implements it.
	Rewriter interface {
		Rewrite(request string) (string, bool)
	}

	// Interceptor wraps a Loader and rewrites every request through a Rewriter
	// before delegating. It is itself a Loader.
	Interceptor struct {
		base     Loader
		rewriter Rewriter
		logger   *log.Logger
	}

	// InterceptOption configures an Interceptor.
	InterceptOption func(*Interceptor)
)

// WithLogger sets the logger that records rewrites at debug level.
func WithLogger(logger *log.Logger) InterceptOption {
	return func(i *Interceptor) {
		i.logger = logger
	}
}

// Intercept wraps base so that requests whose leading segment is a registered
// name are rewritten into the registered directory. base is captured once:
// calls always reach the wrapped loader, never another interceptor layer that
// might be composed around the result.
func Intercept(base Loader, rewriter Rewriter, opts ...InterceptOption) *Interceptor {
	i := &Interceptor{base: base, rewriter: rewriter}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Resolve rewrites request and delegates to the wrapped loader's Resolve.
func (i *Interceptor) Resolve(ctx context.Context, request, from string) (string, error) {
	return i.base.Resolve(ctx, i.rewrite(request), from)
}

// Load rewrites request and delegates to the wrapped loader's Load.
func (i *Interceptor) Load(ctx context.Context, request, from string) (*Module, error) {
	return i.base.Load(ctx, i.rewrite(request), from)
}

// Base returns the wrapped loader.
func (i *Interceptor) Base() Loader {
	return i.base
}

func (i *Interceptor) rewrite(request string) string {
	rewritten, ok := i.rewriter.Rewrite(request)
	if ok && i.logger != nil {
		i.logger.Debug("rewrote import", "request", request, "path", rewritten)
	}
	return rewritten
}
