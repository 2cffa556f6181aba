// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// The helpers build throwaway project trees (MustMkdirAll, MustWriteFile,
// MustWriteManifest) and manage process state that discovery depends on
// (MustChdir, MustSetenv).
package testutil
