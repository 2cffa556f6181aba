// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "register alias"},
			expected: "failed to register alias",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "register alias", Resource: "./lib"},
			expected: "failed to register alias: ./lib",
		},
		{
			name:     "operation with cause",
			err:      &ActionableError{Operation: "resolve import", Cause: errors.New("cannot find module \"x\"")},
			expected: "failed to resolve import: cannot find module \"x\"",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "read manifest",
				Resource:  "package.json",
				Cause:     errors.New("unexpected EOF"),
			},
			expected: "failed to read manifest: package.json: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &ActionableError{Operation: "test", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if (&ActionableError{Operation: "test"}).Unwrap() != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	tests := []struct {
		name     string
		err      *ActionableError
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name: "suggestions listed",
			err: &ActionableError{
				Operation:   "register alias",
				Resource:    "./missing",
				Suggestions: []string{"Check the path", "Use --relative-to"},
			},
			contains: []string{"failed to register alias", "• Check the path", "• Use --relative-to"},
		},
		{
			name: "chain in verbose mode",
			err: &ActionableError{
				Operation: "load config",
				Cause:     errors.Join(errors.New("outer")),
			},
			verbose:  true,
			contains: []string{"Error chain:", "1. outer"},
		},
		{
			name: "no chain when not verbose",
			err: &ActionableError{
				Operation: "load config",
				Cause:     errors.New("syntax error"),
			},
			contains: []string{"failed to load config: syntax error"},
			excludes: []string{"Error chain:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Format(tt.verbose)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Format() missing %q in:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("Format() should not contain %q in:\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestErrorContext_Build(t *testing.T) {
	cause := errors.New("stat ./x: no such file or directory")
	ae := NewErrorContext().
		WithOperation("register alias").
		WithResource("./x").
		WithSuggestion("one").
		WithSuggestion("two").
		WithSuggestion("three").
		Wrap(cause).
		Build()

	if ae == nil {
		t.Fatal("Build() returned nil")
	}
	if ae.Operation != "register alias" || ae.Resource != "./x" {
		t.Errorf("Build() = %+v", ae)
	}
	if len(ae.Suggestions) != 3 || !ae.HasSuggestions() {
		t.Errorf("Suggestions = %v, want 3 entries", ae.Suggestions)
	}
	if !errors.Is(ae, cause) {
		t.Error("built error does not wrap cause")
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want nil", err)
	}
}

func TestWrapWithContext(t *testing.T) {
	if WrapWithContext(nil, "x", "y") != nil {
		t.Error("WrapWithContext(nil) should return nil")
	}

	cause := errors.New("boom")
	if got := WrapWithContext(cause, "resolve import", "pkg/a").Error(); got != "failed to resolve import: pkg/a: boom" {
		t.Errorf("WrapWithContext().Error() = %q", got)
	}
}
