// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error reporting for the kraeve CLI.
//
// ActionableError describes what failed (operation), on which resource,
// and how to fix it (suggestions). The catalog in issue.go holds longer
// markdown help, rendered with glamour, for the failures users hit most:
// unresolvable imports, missing alias targets, broken manifests, and invalid
// configuration files.
package issue
