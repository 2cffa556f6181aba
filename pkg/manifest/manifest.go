// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kraeve/kraeve/pkg/cueutil"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/format"
	cuejson "cuelang.org/go/encoding/json"
)

const (
	// DefaultFileName is the manifest file looked up during discovery.
	DefaultFileName = "package.json"

	// DefaultName is the name used when no manifest is found.
	DefaultName = "app"
)

//go:embed manifest_schema.cue
var manifestSchema []byte

// ErrInvalidManifest is wrapped by every error returned for a manifest that exists
// but cannot be read or decoded.
var ErrInvalidManifest = errors.New("invalid manifest")

type (
	// Manifest holds the fields of a package manifest kraeve cares about.
	Manifest struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Main    string `json:"main"`
	}

	// rawManifest accepts any JSON value for the fields kraeve reads.
	// Values that are not strings are treated as absent.
	rawManifest struct {
		Name    any `json:"name"`
		Version any `json:"version"`
		Main    any `json:"main"`
	}

	// InvalidManifestError reports a manifest that could not be parsed.
	// It wraps ErrInvalidManifest for errors.Is() compatibility.
	InvalidManifestError struct {
		Path  string
		Cause error
	}
)

// Error implements the error interface for InvalidManifestError.
func (e *InvalidManifestError) Error() string {
	return fmt.Sprintf("%s %s: %v", ErrInvalidManifest, e.Path, e.Cause)
}

// Unwrap returns both the sentinel and the underlying cause.
func (e *InvalidManifestError) Unwrap() []error {
	return []error{ErrInvalidManifest, e.Cause}
}

// Read parses the manifest at path.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &InvalidManifestError{Path: path, Cause: err}
	}

	return Parse(data, path)
}

// Parse decodes manifest bytes. filename is only used in error messages.
// When a key repeats within an object the last occurrence wins.
func Parse(data []byte, filename string) (*Manifest, error) {
	base := filepath.Base(filename)
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, base); err != nil {
		return nil, &InvalidManifestError{Path: filename, Cause: err}
	}

	normalized, err := lastKeyWins(data, base)
	if err != nil {
		return nil, &InvalidManifestError{Path: filename, Cause: err}
	}

	res, err := cueutil.ParseAndDecode[rawManifest](
		manifestSchema,
		normalized,
		"#Manifest",
		cueutil.WithFilename(base),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return nil, &InvalidManifestError{Path: filename, Cause: err}
	}

	return &Manifest{
		Name:    stringValue(res.Value.Name),
		Version: stringValue(res.Value.Version),
		Main:    stringValue(res.Value.Main),
	}, nil
}

// lastKeyWins re-encodes a JSON document with duplicate object keys
// collapsed to their final value. CUE would otherwise unify the duplicates
// and report a conflict.
func lastKeyWins(data []byte, filename string) ([]byte, error) {
	expr, err := cuejson.Extract(filename, data)
	if err != nil {
		return nil, cueutil.FormatError(err, filename)
	}

	ast.Walk(expr, func(n ast.Node) bool {
		if s, ok := n.(*ast.StructLit); ok {
			s.Elts = dedupeFields(s.Elts)
		}
		return true
	}, nil)

	out, err := format.Node(expr)
	if err != nil {
		return nil, fmt.Errorf("re-encoding %s: %w", filename, err)
	}
	return out, nil
}

func dedupeFields(elts []ast.Decl) []ast.Decl {
	last := make(map[string]int, len(elts))
	for i, d := range elts {
		if f, ok := d.(*ast.Field); ok {
			if name, _, err := ast.LabelName(f.Label); err == nil {
				last[name] = i
			}
		}
	}
	if len(last) == len(elts) {
		return elts
	}

	kept := make([]ast.Decl, 0, len(last))
	for i, d := range elts {
		if f, ok := d.(*ast.Field); ok {
			if name, _, err := ast.LabelName(f.Label); err == nil && last[name] != i {
				continue
			}
		}
		kept = append(kept, d)
	}
	return kept
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
