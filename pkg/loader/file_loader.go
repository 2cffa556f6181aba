// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultExtensions are tried, in order, after the exact request path.
var DefaultExtensions = []string{".js", ".json"}

// indexName is the file looked up inside a requested directory.
const indexName = "index"

type (
	// FileLoader resolves requests against the filesystem.
	//
	// Absolute requests and requests starting with "./" or "../" are resolved;
	// bare names are reported as not found since dependency lookup is left to
	// the interceptor's registry. A candidate path is tried as a file, then with
	// each extension appended, then as a directory holding index plus an
	// extension.
	//
	// Loaded modules are cached by filename for the lifetime of the loader.
	FileLoader struct {
		extensions []string

		mu      sync.Mutex
		modules map[string]*Module
	}

	// FileLoaderOption configures a FileLoader.
	FileLoaderOption func(*FileLoader)
)

// WithExtensions replaces DefaultExtensions. Each extension should include the leading dot.
func WithExtensions(exts ...string) FileLoaderOption {
	return func(l *FileLoader) {
		l.extensions = append([]string(nil), exts...)
	}
}

// NewFileLoader creates a filesystem loader.
func NewFileLoader(opts ...FileLoaderOption) *FileLoader {
	l := &FileLoader{
		extensions: DefaultExtensions,
		modules:    make(map[string]*Module),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Resolve implements Loader.
func (l *FileLoader) Resolve(ctx context.Context, request, from string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("resolve %q canceled: %w", request, err)
	}

	base, ok, err := l.candidate(request, from)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &ModuleNotFoundError{Request: request, From: from}
	}

	if isFile(base) {
		return base, nil
	}
	for _, ext := range l.extensions {
		if isFile(base + ext) {
			return base + ext, nil
		}
	}
	for _, ext := range l.extensions {
		index := filepath.Join(base, indexName+ext)
		if isFile(index) {
			return index, nil
		}
	}

	return "", &ModuleNotFoundError{Request: request, From: from}
}

// Load implements Loader.
func (l *FileLoader) Load(ctx context.Context, request, from string) (*Module, error) {
	filename, err := l.Resolve(ctx, request, from)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if mod, ok := l.modules[filename]; ok {
		return mod, nil
	}

	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("loading module %q: %w", filename, err)
	}

	mod := &Module{
		Filename: filename,
		Dir:      filepath.Dir(filename),
		Source:   source,
	}
	l.modules[filename] = mod
	return mod, nil
}

// candidate turns a request into an absolute path to probe. ok is false for
// bare names.
func (l *FileLoader) candidate(request, from string) (string, bool, error) {
	native := filepath.FromSlash(request)
	if filepath.IsAbs(native) {
		return filepath.Clean(native), true, nil
	}
	if !isRelativeRequest(request) {
		return "", false, nil
	}

	baseDir := ""
	if from != "" {
		baseDir = filepath.Dir(from)
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return "", false, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}

	abs, err := filepath.Abs(filepath.Join(baseDir, native))
	if err != nil {
		return "", false, fmt.Errorf("resolving %q: %w", request, err)
	}
	return abs, true, nil
}

func isRelativeRequest(request string) bool {
	return request == "." || request == ".." ||
		strings.HasPrefix(request, "./") || strings.HasPrefix(request, "../")
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
