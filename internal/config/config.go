// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/kraeve/kraeve/internal/issue"
	"github.com/kraeve/kraeve/pkg/cueutil"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
	"mvdan.cc/sh/v3/shell"
)

const (
	// AppName is the application name.
	AppName = "kraeve"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// LocalConfigFile is checked in the working directory when the user config is absent.
	LocalConfigFile = AppName + "." + ConfigFileExt
	// EnvPrefix prefixes environment overrides, e.g. KRAEVE_LOG_LEVEL.
	EnvPrefix = "KRAEVE"

	aliasesKey = "aliases"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the kraeve configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// DefaultConfigPath is the user config file inside ConfigDir.
func DefaultConfigPath() (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// loadWithOptions performs option-driven config loading without package-level
// cache state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if !opts.IgnoreEnv {
		v.AutomaticEnv()
	}

	defaults := DefaultConfig()
	v.SetDefault("default_name", defaults.DefaultName)
	v.SetDefault("manifest_file", defaults.ManifestFile)
	v.SetDefault("extensions", defaults.Extensions)
	v.SetDefault("log_level", defaults.LogLevel)

	path, err := resolveConfigPath(opts)
	if err != nil {
		return nil, err
	}

	aliases := map[string]string{}
	if path != "" {
		aliases, err = loadCUEIntoViper(v, path)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'kraeve config show' to see the effective configuration").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Aliases = aliases
	cfg.SourcePath = path

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Alias names must be non-empty and contain no path separators").
			WithSuggestion("log_level must be one of debug, info, warn, error, fatal").
			Wrap(err).
			BuildError()
	}

	return &cfg, nil
}

// resolveConfigPath picks the file to read. An empty result means defaults only.
func resolveConfigPath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'kraeve config init' to create a default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		var err error
		if cfgDir, err = ConfigDir(); err != nil {
			return "", err
		}
	}

	if userPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); fileExists(userPath) {
		return userPath, nil
	}
	if fileExists(LocalConfigFile) {
		return LocalConfigFile, nil
	}
	return "", nil
}

// loadCUEIntoViper validates the file against #Config, merges scalar settings
// into v and returns the aliases table untouched by Viper's key folding.
func loadCUEIntoViper(v *viper.Viper, path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return nil, cueutil.FormatError(userValue.Err(), path)
	}

	unified := schemaValue.LookupPath(cue.ParsePath("#Config")).Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return nil, cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return nil, cueutil.FormatError(err, path)
	}

	aliases := map[string]string{}
	if aliasValue := unified.LookupPath(cue.MakePath(cue.Str(aliasesKey))); aliasValue.Exists() {
		if err := aliasValue.Decode(&aliases); err != nil {
			return nil, cueutil.FormatError(err, path)
		}
	}
	delete(configMap, aliasesKey)

	if err := v.MergeConfigMap(configMap); err != nil {
		return nil, fmt.Errorf("failed to merge config: %w", err)
	}

	return aliases, nil
}

// AliasPaths returns the configured aliases with paths expanded: a leading ~
// becomes the home directory, $VAR references are expanded, and relative paths
// are joined onto the directory holding the config file.
func (c *Config) AliasPaths() (map[string]string, error) {
	baseDir := "."
	if c.SourcePath != "" {
		baseDir = filepath.Dir(c.SourcePath)
	}

	out := make(map[string]string, len(c.Aliases))
	for name, raw := range c.Aliases {
		expanded, err := ExpandPath(raw)
		if err != nil {
			return nil, &InvalidConfigError{Field: aliasesKey + "." + name, Cause: err}
		}
		if !filepath.IsAbs(expanded) {
			expanded = filepath.Join(baseDir, expanded)
		}
		out[name] = expanded
	}
	return out, nil
}

// ExpandPath expands a leading ~ and shell-style $VAR references in p.
// Command substitution is not supported.
func ExpandPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		p = home + p[1:]
	}

	expanded, err := shell.Expand(p, nil)
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", p, err)
	}
	return expanded, nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config file unless one exists.
// It returns the path of the config file.
func CreateDefaultConfig() (string, error) {
	cfgPath, err := DefaultConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, nil
	}

	if err := SaveTo(DefaultConfig(), cfgPath); err != nil {
		return "", err
	}
	return cfgPath, nil
}

// Save writes cfg back to the file it was loaded from, or to the user config
// file when it came from defaults.
func Save(cfg *Config) error {
	path := cfg.SourcePath
	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return err
		}
	}
	return SaveTo(cfg, path)
}

// SaveTo writes cfg as CUE to path, creating parent directories.
func SaveTo(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	cfg.SourcePath = path
	return nil
}

// GenerateCUE renders cfg as a CUE document accepted by the #Config schema.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// kraeve configuration file\n\n")

	fmt.Fprintf(&sb, "default_name: %q\n", cfg.DefaultName)
	fmt.Fprintf(&sb, "manifest_file: %q\n", cfg.ManifestFile)
	fmt.Fprintf(&sb, "log_level: %q\n", cfg.LogLevel)

	quoted := make([]string, 0, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		quoted = append(quoted, fmt.Sprintf("%q", ext))
	}
	fmt.Fprintf(&sb, "extensions: [%s]\n", strings.Join(quoted, ", "))

	if len(cfg.Aliases) > 0 {
		sb.WriteString("\naliases: {\n")
		for _, name := range slices.Sorted(maps.Keys(cfg.Aliases)) {
			fmt.Fprintf(&sb, "\t%q: %q\n", name, cfg.Aliases[name])
		}
		sb.WriteString("}\n")
	}

	return sb.String()
}
