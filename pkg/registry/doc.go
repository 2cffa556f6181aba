// SPDX-License-Identifier: MPL-2.0

// Package registry holds the table of pseudo-modules: short names that resolve
// to local directories instead of installed dependencies.
//
// A Registry is safe for concurrent use. Entries are only added or replaced,
// never removed, and every change is visible to the next Rewrite call.
package registry
