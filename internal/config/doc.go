// SPDX-License-Identifier: MPL-2.0

// Package config handles kraeve configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/kraeve/config.cue (or the XDG equivalent on
// Linux, ~/Library/Application Support/kraeve/config.cue on macOS, %APPDATA%\kraeve\config.cue
// on Windows), falling back to ./kraeve.cue. Files are validated against the embedded
// #Config schema. KRAEVE_* environment variables override scalar settings.
//
// The aliases table is decoded straight from the CUE value rather than through Viper,
// because Viper lowercases keys and treats dots as nesting, both of which would mangle
// module names.
package config
