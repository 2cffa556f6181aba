// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/kraeve/kraeve/internal/config"
	"github.com/kraeve/kraeve/internal/issue"
	"github.com/kraeve/kraeve/pkg/kraeve"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. All Cobra command
	// handlers receive an App reference.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer

		// Bound to persistent flags.
		verbose  bool
		cfgFile  string
		startDir string
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// loadConfig loads configuration honouring --config. Failures are tagged with
// the config issue entry.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.cfgFile})
	if err != nil {
		return nil, newServiceError(err, issue.ConfigLoadFailedId)
	}
	return cfg, nil
}

// newLogger returns the component logger for cfg and installs it as the slog
// default. --verbose forces debug level.
func (a *App) newLogger(cfg *config.Config) *log.Logger {
	level := cfg.Level()
	if a.verbose {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
	slog.SetDefault(slog.New(logger))
	return logger
}

// setup loads configuration and builds a Kraeve instance whose discovery
// starts at dir, then --start-dir, then the working directory.
func (a *App) setup(ctx context.Context, dir string) (*config.Config, *kraeve.Kraeve, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	logger := a.newLogger(cfg)

	start, err := a.resolveStartDir(dir)
	if err != nil {
		return nil, nil, err
	}

	aliases, err := cfg.AliasPaths()
	if err != nil {
		return nil, nil, newServiceError(err, issue.ConfigLoadFailedId)
	}

	k, err := kraeve.New(ctx,
		kraeve.WithStartDir(start),
		kraeve.WithDefaultName(cfg.DefaultName),
		kraeve.WithManifestFile(cfg.ManifestFile),
		kraeve.WithExtensions(cfg.Extensions...),
		kraeve.WithAliases(aliases),
		kraeve.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, issue.NewErrorContext().
			WithOperation("initialise registry").
			WithResource(start).
			WithSuggestion("Check the package manifest in the start directory or its parents").
			WithSuggestion("Check that every configured alias path exists").
			Wrap(err).
			BuildError()
	}

	return cfg, k, nil
}

func (a *App) resolveStartDir(dir string) (string, error) {
	if dir == "" {
		dir = a.startDir
	}
	if dir != "" {
		return dir, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}
