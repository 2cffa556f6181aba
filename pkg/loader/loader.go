// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"errors"
	"fmt"
)

// ErrModuleNotFound is wrapped by every error reporting a request that does not
// resolve to a file.
var ErrModuleNotFound = errors.New("module not found")

type (
	// Module is a loaded module. A loader returns the same *Module for every
	// request that resolves to the same file.
	Module struct {
		// Filename is the absolute path of the loaded file.
		Filename string
		// Dir is the directory containing Filename.
		Dir string
		// Source is the file content.
		Source []byte
	}

	// Loader resolves import requests and loads the modules they name.
	// from is the filename of the importing module; relative requests are
	// resolved against its directory. An empty from means the working directory.
	Loader interface {
		// Resolve returns the absolute filename a request refers to.
		Resolve(ctx context.Context, request, from string) (string, error)
		// Load returns the module a request refers to.
		Load(ctx context.Context, request, from string) (*Module, error)
	}

	// ModuleNotFoundError reports a request that could not be resolved.
	// It wraps ErrModuleNotFound for errors.Is() compatibility.
	ModuleNotFoundError struct {
		Request string
		From    string
	}
)

// Error implements the error interface for ModuleNotFoundError.
func (e *ModuleNotFoundError) Error() string {
	if e.From != "" {
		return fmt.Sprintf("cannot find module %q from %q", e.Request, e.From)
	}
	return fmt.Sprintf("cannot find module %q", e.Request)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *ModuleNotFoundError) Unwrap() error {
	return ErrModuleNotFound
}
