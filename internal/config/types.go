// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"github.com/kraeve/kraeve/pkg/loader"
	"github.com/kraeve/kraeve/pkg/manifest"
	"github.com/kraeve/kraeve/pkg/registry"

	"github.com/charmbracelet/log"
)

// DefaultLogLevel is used when no log_level is configured.
const DefaultLogLevel = "warn"

// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// Config holds the application configuration.
	Config struct {
		// DefaultName is registered when discovery finds no manifest.
		DefaultName string `json:"default_name" mapstructure:"default_name"`
		// ManifestFile is the manifest looked up during discovery.
		ManifestFile string `json:"manifest_file" mapstructure:"manifest_file"`
		// Extensions are tried after the exact request path.
		Extensions []string `json:"extensions" mapstructure:"extensions"`
		// LogLevel is a charmbracelet/log level name.
		LogLevel string `json:"log_level" mapstructure:"log_level"`
		// Aliases maps module names to paths, as written in the file.
		Aliases map[string]string `json:"aliases" mapstructure:"-"`

		// SourcePath is the file the config was read from, empty for defaults.
		SourcePath string `json:"-" mapstructure:"-"`
	}

	// InvalidConfigError reports a config value that fails validation.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		Field string
		Cause error
	}
)

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %v", e.Field, e.Cause)
}

// Unwrap returns both the sentinel and the cause.
func (e *InvalidConfigError) Unwrap() []error {
	return []error{ErrInvalidConfig, e.Cause}
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		DefaultName:  manifest.DefaultName,
		ManifestFile: manifest.DefaultFileName,
		Extensions:   append([]string(nil), loader.DefaultExtensions...),
		LogLevel:     DefaultLogLevel,
		Aliases:      map[string]string{},
	}
}

// Validate checks constraints the CUE schema cannot express, or that can arrive
// through environment overrides the schema never sees.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return &InvalidConfigError{Field: "log_level", Cause: err}
	}
	for name := range c.Aliases {
		if err := registry.ModuleName(name).Validate(); err != nil {
			return &InvalidConfigError{Field: "aliases." + name, Cause: err}
		}
	}
	return nil
}

// Level returns the parsed log level, falling back to DefaultLogLevel.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}
