// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the shared CUE parsing flow used by the manifest reader
// and the config loader.
//
// Any document CUE accepts can be checked, and JSON is one of them, so a
// package.json manifest goes through the same three steps as a config.cue file:
//
//  1. Compile the embedded schema
//  2. Compile the document and unify it with the schema definition
//  3. Validate and decode into a Go struct
//
// # Usage
//
//	//go:embed manifest_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Manifest](
//	    schemaBytes,
//	    data,
//	    "#Manifest",
//	    cueutil.WithFilename("package.json"),
//	    cueutil.WithConcrete(false),
//	)
package cueutil
