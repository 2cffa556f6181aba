// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the command tree bound to app.
func newRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kraeve",
		Short: "Import your application's code by name",
		Long: TitleStyle.Render("kraeve") + SubtitleStyle.Render(" - Import your application's code by name") + `

kraeve finds your application root by walking up to the nearest
package.json, registers it under the manifest name, and rewrites
import requests whose first segment is a registered name.

` + SubtitleStyle.Render("Examples:") + `
  kraeve discover               Show the name the current project registers
  kraeve resolve my-app/lib/db  Show where a request resolves
  kraeve alias set shared ../x  Register an extra pseudo-module
  kraeve alias list             List every registered name
  kraeve config show            Show current configuration`,
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.cfgFile, "config", "", "config file (default is $HOME/.config/kraeve/config.cue)")
	rootCmd.PersistentFlags().StringVarP(&app.startDir, "start-dir", "C", "", "directory discovery starts from (default is the working directory)")

	rootCmd.AddCommand(newDiscoverCommand(app))
	rootCmd.AddCommand(newResolveCommand(app))
	rootCmd.AddCommand(newAliasCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})

	// fang overrides rootCmd.Version, so the version goes through fang.WithVersion().
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// handleError prints errors Cobra handlers have not rendered themselves.
// An ExitError has already been reported to stderr by App.fail.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
