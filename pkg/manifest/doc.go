// SPDX-License-Identifier: MPL-2.0

// Package manifest locates the package manifest (package.json by default) that
// owns a directory and reads the package name declared in it.
//
// Discovery walks from a starting directory toward the filesystem root and stops
// at the first directory holding a manifest. A missing manifest is not an error:
// the caller's default name and the starting directory are returned instead.
// Manifests are read again on every walk.
package manifest
