// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/kraeve/kraeve/internal/config"
	"github.com/kraeve/kraeve/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `kraeve config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage kraeve configuration",
		Long: `Manage kraeve configuration.

Configuration is stored in:
  - Linux: ~/.config/kraeve/config.cue
  - macOS: ~/Library/Application Support/kraeve/config.cue
  - Windows: %APPDATA%\kraeve\config.cue

A kraeve.cue in the working directory is used when the user file is absent.
KRAEVE_* environment variables override file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			showConfig(app, cfg)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig()
			if err != nil {
				target, _ := config.DefaultConfigPath()
				return app.fail(cmd, issue.WrapWithContext(err, "create configuration", target))
			}
			fmt.Fprintf(app.stdout, "%s Configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	return cfgCmd
}

func showConfig(app *App, cfg *config.Config) {
	out := app.stdout

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	if cfg.SourcePath != "" {
		fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("Config file"), cfg.SourcePath)
	} else {
		fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("default_name"), SuccessStyle.Render(cfg.DefaultName))
	fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("manifest_file"), SuccessStyle.Render(cfg.ManifestFile))
	fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("extensions"), SuccessStyle.Render(strings.Join(cfg.Extensions, ", ")))
	fmt.Fprintf(out, "%s: %s\n", KeyStyle.Render("log_level"), SuccessStyle.Render(cfg.LogLevel))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", KeyStyle.Render("aliases"))
	if len(cfg.Aliases) == 0 {
		fmt.Fprintf(out, "  %s\n", SubtitleStyle.Render("(none configured)"))
		return
	}
	for _, name := range slices.Sorted(maps.Keys(cfg.Aliases)) {
		fmt.Fprintf(out, "  %s: %s\n", name, SuccessStyle.Render(cfg.Aliases[name]))
	}
}
