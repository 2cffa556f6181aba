// SPDX-License-Identifier: MPL-2.0

package loader_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/kraeve/kraeve/internal/testutil"
	"github.com/kraeve/kraeve/pkg/loader"
)

func newTree(t *testing.T) string {
	t.Helper()

	root := testutil.MustAbs(t, t.TempDir())
	testutil.MustWriteFile(t, filepath.Join(root, "lib", "util.js"), "exports.util = true;")
	testutil.MustWriteFile(t, filepath.Join(root, "lib", "data.json"), `{"k": 1}`)
	testutil.MustWriteFile(t, filepath.Join(root, "lib", "both.js"), "js")
	testutil.MustWriteFile(t, filepath.Join(root, "lib", "both.json"), "{}")
	testutil.MustWriteFile(t, filepath.Join(root, "widgets", "index.js"), "index")
	testutil.MustWriteFile(t, filepath.Join(root, "README"), "plain")
	return root
}

func TestFileLoader_Resolve(t *testing.T) {
	t.Parallel()

	root := newTree(t)
	from := filepath.Join(root, "main.js")
	l := loader.NewFileLoader()

	tests := []struct {
		name    string
		request string
		want    string
	}{
		{name: "exact relative", request: "./lib/util.js", want: filepath.Join(root, "lib", "util.js")},
		{name: "extension added", request: "./lib/util", want: filepath.Join(root, "lib", "util.js")},
		{name: "json extension", request: "./lib/data", want: filepath.Join(root, "lib", "data.json")},
		{name: "extension order", request: "./lib/both", want: filepath.Join(root, "lib", "both.js")},
		{name: "directory index", request: "./widgets", want: filepath.Join(root, "widgets", "index.js")},
		{name: "no extension file", request: "./README", want: filepath.Join(root, "README")},
		{name: "absolute", request: filepath.Join(root, "lib", "util.js"), want: filepath.Join(root, "lib", "util.js")},
		{name: "parent relative", request: "../util.js", want: filepath.Join(root, "lib", "util.js")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			importer := from
			if tt.name == "parent relative" {
				importer = filepath.Join(root, "lib", "nested", "x.js")
			}
			got, err := l.Resolve(context.Background(), tt.request, importer)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.request, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.request, got, tt.want)
			}
		})
	}
}

func TestFileLoader_ResolveNotFound(t *testing.T) {
	t.Parallel()

	root := newTree(t)
	l := loader.NewFileLoader()
	from := filepath.Join(root, "main.js")

	for _, request := range []string{"./lib/missing", "left-pad", "left-pad/index.js", "./lib"} {
		_, err := l.Resolve(context.Background(), request, from)
		if !errors.Is(err, loader.ErrModuleNotFound) {
			t.Errorf("Resolve(%q) error = %v, want ErrModuleNotFound", request, err)
		}
		var nf *loader.ModuleNotFoundError
		if errors.As(err, &nf) && nf.Request != request {
			t.Errorf("ModuleNotFoundError.Request = %q, want %q", nf.Request, request)
		}
	}
}

func TestFileLoader_CustomExtensions(t *testing.T) {
	t.Parallel()

	root := newTree(t)
	testutil.MustWriteFile(t, filepath.Join(root, "lib", "view.mjs"), "")
	l := loader.NewFileLoader(loader.WithExtensions(".mjs"))

	got, err := l.Resolve(context.Background(), "./lib/view", filepath.Join(root, "main.js"))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != filepath.Join(root, "lib", "view.mjs") {
		t.Errorf("Resolve() = %q", got)
	}
	if _, err := l.Resolve(context.Background(), "./lib/util", filepath.Join(root, "main.js")); !errors.Is(err, loader.ErrModuleNotFound) {
		t.Errorf("Resolve(./lib/util) error = %v, want ErrModuleNotFound with .js disabled", err)
	}
}

func TestFileLoader_LoadCachesByFilename(t *testing.T) {
	t.Parallel()

	root := newTree(t)
	l := loader.NewFileLoader()
	ctx := context.Background()
	from := filepath.Join(root, "main.js")

	a, err := l.Load(ctx, "./lib/util", from)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	b, err := l.Load(ctx, filepath.Join(root, "lib", "util.js"), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if a != b {
		t.Error("Load() returned different modules for the same file")
	}
	if string(a.Source) != "exports.util = true;" {
		t.Errorf("Source = %q", a.Source)
	}
	if a.Dir != filepath.Join(root, "lib") {
		t.Errorf("Dir = %q, want %q", a.Dir, filepath.Join(root, "lib"))
	}
}

func TestFileLoader_RelativeToWorkingDir(t *testing.T) {
	root := newTree(t)
	defer testutil.MustChdir(t, root)()

	l := loader.NewFileLoader()
	got, err := l.Resolve(context.Background(), "./lib/util.js", "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if testutil.MustAbs(t, got) != filepath.Join(root, "lib", "util.js") {
		t.Errorf("Resolve() = %q", got)
	}
}

func TestFileLoader_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.NewFileLoader().Load(ctx, "./x", "")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}
