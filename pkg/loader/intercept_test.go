// SPDX-License-Identifier: MPL-2.0

package loader_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kraeve/kraeve/internal/testutil"
	"github.com/kraeve/kraeve/pkg/loader"
	"github.com/kraeve/kraeve/pkg/registry"

	"github.com/charmbracelet/log"
)

type call struct {
	request string
	from    string
}

// recordingLoader captures the requests the interceptor delegates.
type recordingLoader struct {
	calls []call
	err   error
}

func (r *recordingLoader) Resolve(_ context.Context, request, from string) (string, error) {
	r.calls = append(r.calls, call{request, from})
	return request, r.err
}

func (r *recordingLoader) Load(_ context.Context, request, from string) (*loader.Module, error) {
	r.calls = append(r.calls, call{request, from})
	if r.err != nil {
		return nil, r.err
	}
	return &loader.Module{Filename: request}, nil
}

func TestIntercept_RewritesLeadingSegment(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	reg.Seed("pkg", filepath.FromSlash("/srv/pkg"))
	base := &recordingLoader{}
	l := loader.Intercept(base, reg)
	ctx := context.Background()

	tests := []struct {
		request string
		want    string
	}{
		{request: "pkg/sub/path", want: filepath.FromSlash("/srv/pkg/sub/path")},
		{request: "pkg", want: filepath.FromSlash("/srv/pkg")},
		{request: "pkgextra/file", want: "pkgextra/file"},
		{request: "notpkg/pkg", want: "notpkg/pkg"},
		{request: "./pkg/local", want: "./pkg/local"},
	}

	for _, tt := range tests {
		base.calls = nil
		if _, err := l.Resolve(ctx, tt.request, "/importer.js"); err != nil {
			t.Fatalf("Resolve(%q) error = %v", tt.request, err)
		}
		if _, err := l.Load(ctx, tt.request, "/importer.js"); err != nil {
			t.Fatalf("Load(%q) error = %v", tt.request, err)
		}
		want := []call{{tt.want, "/importer.js"}, {tt.want, "/importer.js"}}
		if len(base.calls) != 2 || base.calls[0] != want[0] || base.calls[1] != want[1] {
			t.Errorf("%q delegated as %+v, want %+v", tt.request, base.calls, want)
		}
	}
}

func TestIntercept_BaseErrorUnchanged(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("base failure")
	base := &recordingLoader{err: sentinel}
	l := loader.Intercept(base, registry.New())

	if _, err := l.Load(context.Background(), "anything", ""); err != sentinel {
		t.Errorf("Load() error = %v, want the base error itself", err)
	}
	if _, err := l.Resolve(context.Background(), "anything", ""); err != sentinel {
		t.Errorf("Resolve() error = %v, want the base error itself", err)
	}
}

func TestIntercept_ModuleIdentity(t *testing.T) {
	t.Parallel()

	root := testutil.MustAbs(t, t.TempDir())
	testutil.MustWriteFile(t, filepath.Join(root, "sub", "file.js"), "module")

	reg := registry.New()
	if _, err := reg.Set("app", root); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	l := loader.Intercept(loader.NewFileLoader(), reg)
	ctx := context.Background()

	viaName, err := l.Load(ctx, "app/sub/file.js", "")
	if err != nil {
		t.Fatalf("Load(app/sub/file.js) error = %v", err)
	}
	direct, err := l.Load(ctx, filepath.Join(root, "sub", "file.js"), "")
	if err != nil {
		t.Fatalf("Load(absolute) error = %v", err)
	}
	if viaName != direct {
		t.Error("named and absolute requests produced different modules")
	}

	withoutExt, err := l.Load(ctx, "app/sub/file", "")
	if err != nil {
		t.Fatalf("Load(app/sub/file) error = %v", err)
	}
	if withoutExt != direct {
		t.Error("extension lookup after rewrite produced a different module")
	}
}

func TestIntercept_SubstringNotRewritten(t *testing.T) {
	t.Parallel()

	root := testutil.MustAbs(t, t.TempDir())
	testutil.MustWriteFile(t, filepath.Join(root, "file.js"), "")

	reg := registry.New()
	if _, err := reg.Set("pkg", root); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	l := loader.Intercept(loader.NewFileLoader(), reg)

	_, err := l.Load(context.Background(), "pkgextra/file", "")
	var nf *loader.ModuleNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Load() error = %v, want ModuleNotFoundError", err)
	}
	if nf.Request != "pkgextra/file" {
		t.Errorf("base loader saw %q, want the untouched request", nf.Request)
	}
}

func TestIntercept_RegisteredButMissingFile(t *testing.T) {
	t.Parallel()

	root := testutil.MustAbs(t, t.TempDir())
	reg := registry.New()
	if _, err := reg.Set("pkg", root); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	l := loader.Intercept(loader.NewFileLoader(), reg)

	_, err := l.Load(context.Background(), "pkg/missing.js", "")
	if !errors.Is(err, loader.ErrModuleNotFound) {
		t.Errorf("Load() error = %v, want ErrModuleNotFound", err)
	}
}

func TestIntercept_SeesLaterRegistrations(t *testing.T) {
	t.Parallel()

	root := testutil.MustAbs(t, t.TempDir())
	testutil.MustWriteFile(t, filepath.Join(root, "index.js"), "")

	reg := registry.New()
	l := loader.Intercept(loader.NewFileLoader(), reg)
	ctx := context.Background()

	if _, err := l.Resolve(ctx, "late", ""); !errors.Is(err, loader.ErrModuleNotFound) {
		t.Fatalf("Resolve() before Set error = %v, want ErrModuleNotFound", err)
	}
	if _, err := reg.Set("late", root); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := l.Resolve(ctx, "late", "")
	if err != nil {
		t.Fatalf("Resolve() after Set error = %v", err)
	}
	if got != filepath.Join(root, "index.js") {
		t.Errorf("Resolve() = %q", got)
	}
}

func TestIntercept_LogsRewrites(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	reg := registry.New()
	reg.Seed("pkg", "/srv/pkg")
	l := loader.Intercept(&recordingLoader{}, reg, loader.WithLogger(logger))

	if _, err := l.Resolve(context.Background(), "pkg/a", ""); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if _, err := l.Resolve(context.Background(), "other/a", ""); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "rewrote import") || strings.Count(out, "rewrote import") != 1 {
		t.Errorf("log output = %q, want exactly one rewrite entry", out)
	}
}

func TestIntercept_Base(t *testing.T) {
	t.Parallel()

	base := loader.NewFileLoader()
	if got := loader.Intercept(base, registry.New()).Base(); got != base {
		t.Error("Base() did not return the wrapped loader")
	}
}
