// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidModuleName is returned when a ModuleName cannot be registered.
var ErrInvalidModuleName = errors.New("invalid module name")

type (
	// ModuleName is the leading segment of an import request that a registry
	// entry answers to, e.g. "my-app" in "my-app/lib/util.js".
	ModuleName string

	// InvalidModuleNameError is returned when a ModuleName is empty or contains
	// a path separator. It wraps ErrInvalidModuleName for errors.Is() compatibility.
	InvalidModuleNameError struct {
		Value ModuleName
	}
)

// String returns the string representation of the ModuleName.
func (n ModuleName) String() string { return string(n) }

// Validate returns nil when n can match a leading request segment: it must be
// non-empty and hold no '/' or '\'.
func (n ModuleName) Validate() error {
	if n == "" || strings.ContainsAny(string(n), `/\`) {
		return &InvalidModuleNameError{Value: n}
	}
	return nil
}

// Error implements the error interface for InvalidModuleNameError.
func (e *InvalidModuleNameError) Error() string {
	return fmt.Sprintf("invalid module name %q: must be non-empty and contain no path separators", string(e.Value))
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidModuleNameError) Unwrap() error {
	return ErrInvalidModuleName
}
