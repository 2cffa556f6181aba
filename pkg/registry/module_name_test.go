// SPDX-License-Identifier: MPL-2.0

package registry_test

import (
	"errors"
	"testing"

	"github.com/kraeve/kraeve/pkg/registry"
)

func TestModuleName_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    registry.ModuleName
		wantErr bool
	}{
		{name: "kraeve", wantErr: false},
		{name: "kraeve-test", wantErr: false},
		{name: "@scope", wantErr: false},
		{name: "my_app.v2", wantErr: false},
		{name: "", wantErr: true},
		{name: "a/b", wantErr: true},
		{name: `a\b`, wantErr: true},
		{name: "/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			t.Parallel()

			err := tt.name.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ModuleName(%q).Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, registry.ErrInvalidModuleName) {
				t.Errorf("error does not wrap ErrInvalidModuleName: %v", err)
			}
			var nameErr *registry.InvalidModuleNameError
			if !errors.As(err, &nameErr) || nameErr.Value != tt.name {
				t.Errorf("errors.As() = %v, want InvalidModuleNameError{%q}", nameErr, tt.name)
			}
		})
	}
}
