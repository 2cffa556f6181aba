// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/kraeve/kraeve/internal/testutil"
)

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes the command tree with args against fresh buffers.
func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{Stdout: &stdout, Stderr: &stderr})
	root := newRootCommand(app)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// newProject creates an application root with a manifest, a source file and
// an empty config file. It returns the root and the config path.
func newProject(t *testing.T, name string) (root, cfgPath string) {
	t.Helper()

	root = testutil.MustAbs(t, t.TempDir())
	testutil.MustWriteManifest(t, root, name)
	testutil.MustWriteFile(t, filepath.Join(root, "lib", "util.js"), "exports.util = 1;")

	cfgPath = filepath.Join(testutil.MustAbs(t, t.TempDir()), "config.cue")
	testutil.MustWriteFile(t, cfgPath, "// test config\n")
	return root, cfgPath
}

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2025-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("fallback to dev", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got, want := getVersionString(), "dev (built from source)"; got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	root := newRootCommand(NewApp(Dependencies{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}))
	for _, name := range []string{"discover", "resolve", "alias", "config"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("Find(%q) = %v, %v", name, cmd, err)
		}
	}
	for _, flag := range []string{"verbose", "config", "start-dir"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}
