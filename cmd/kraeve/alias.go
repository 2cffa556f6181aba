// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/kraeve/kraeve/internal/config"
	"github.com/kraeve/kraeve/internal/issue"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

const (
	formatText = "text"
	formatTOML = "toml"
)

var errAliasNotFound = errors.New("alias not registered")

// aliasDocument is the TOML shape of `alias list --format toml`.
type aliasDocument struct {
	Aliases map[string]string `toml:"aliases"`
}

// newAliasCommand creates the `kraeve alias` command tree.
func newAliasCommand(app *App) *cobra.Command {
	aliasCmd := &cobra.Command{
		Use:   "alias",
		Short: "Manage registered pseudo-modules",
		Long: `Manage registered pseudo-modules.

Aliases set here are stored in the configuration file and registered every
time kraeve starts, next to the name found by discovery. The in-process
registry never forgets a name; removal only edits the configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	aliasCmd.AddCommand(newAliasSetCommand(app))

	aliasCmd.AddCommand(&cobra.Command{
		Use:   "get <name>",
		Short: "Print the directory registered for a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, k, err := app.setup(cmd.Context(), "")
			if err != nil {
				return app.fail(cmd, err)
			}
			dir, ok := k.Get(args[0])
			if !ok {
				return app.fail(cmd, aliasNotFound(args[0]))
			}
			fmt.Fprintln(app.stdout, dir)
			return nil
		},
	})

	aliasCmd.AddCommand(&cobra.Command{
		Use:   "has <name>",
		Short: "Report whether a name is registered (exit status 1 when not)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, k, err := app.setup(cmd.Context(), "")
			if err != nil {
				return app.fail(cmd, err)
			}
			ok := k.Has(args[0])
			fmt.Fprintln(app.stdout, ok)
			if !ok {
				cmd.SilenceErrors = true
				cmd.SilenceUsage = true
				return &ExitError{Code: 1}
			}
			return nil
		},
	})

	aliasCmd.AddCommand(newAliasListCommand(app))

	aliasCmd.AddCommand(&cobra.Command{
		Use:   "remove <name>",
		Short: "Remove an alias from the configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.editAliases(cmd.Context(), func(aliases map[string]string) error {
				if _, ok := aliases[args[0]]; !ok {
					return aliasNotFound(args[0])
				}
				delete(aliases, args[0])
				return nil
			})
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintf(app.stdout, "%s Removed %s from %s\n", SuccessStyle.Render("✓"), KeyStyle.Render(args[0]), path)
			return nil
		},
	})

	return aliasCmd
}

func newAliasSetCommand(app *App) *cobra.Command {
	var relativeTo string

	setCmd := &cobra.Command{
		Use:   "set <name> <path>",
		Short: "Register a pseudo-module and save it to the configuration",
		Long: `Register name to resolve to path and save the alias in the configuration file.

The path must exist; a file registers its directory. With --relative-to, path
is taken relative to the module that request resolves to, which may itself
start with a registered name.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, k, err := app.setup(cmd.Context(), "")
			if err != nil {
				return app.fail(cmd, err)
			}

			name, path := args[0], args[1]
			if relativeTo != "" {
				_, err = k.SetRelative(cmd.Context(), name, path, relativeTo)
			} else {
				_, err = k.Set(name, path)
			}
			if err != nil {
				return app.fail(cmd, issue.NewErrorContext().
					WithOperation("register alias").
					WithResource(name).
					WithSuggestion("Alias names must be non-empty and contain no '/' or '\\'").
					WithSuggestion("The path must exist; check it relative to the working directory or --relative-to").
					Wrap(err).
					BuildError())
			}

			dir, _ := k.Get(name)
			if _, err := app.editAliases(cmd.Context(), func(aliases map[string]string) error {
				aliases[name] = dir
				return nil
			}); err != nil {
				return app.fail(cmd, err)
			}

			fmt.Fprintf(app.stdout, "%s %s -> %s\n", SuccessStyle.Render("✓"), KeyStyle.Render(name), dir)
			return nil
		},
	}

	setCmd.Flags().StringVar(&relativeTo, "relative-to", "", "request of the module the path is relative to")

	return setCmd
}

func newAliasListCommand(app *App) *cobra.Command {
	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List every registered name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatText && format != formatTOML {
				return app.fail(cmd, fmt.Errorf("unknown format %q (want %s or %s)", format, formatText, formatTOML))
			}

			_, k, err := app.setup(cmd.Context(), "")
			if err != nil {
				return app.fail(cmd, err)
			}
			entries := k.Registry().Entries()

			if format == formatTOML {
				doc := aliasDocument{Aliases: make(map[string]string, len(entries))}
				for _, e := range entries {
					doc.Aliases[string(e.Name)] = e.Dir
				}
				out, err := toml.Marshal(doc)
				if err != nil {
					return app.fail(cmd, fmt.Errorf("encoding aliases: %w", err))
				}
				_, err = app.stdout.Write(out)
				return err
			}

			fmt.Fprintln(app.stdout, TitleStyle.Render("Registered modules"))
			fmt.Fprintln(app.stdout)
			for _, e := range entries {
				fmt.Fprintf(app.stdout, "  %s  %s\n", KeyStyle.Render(string(e.Name)), e.Dir)
			}
			return nil
		},
	}

	listCmd.Flags().StringVar(&format, "format", formatText, "output format: text or toml")

	return listCmd
}

// editAliases applies edit to the aliases stored in the configuration file
// and writes the file back. Environment overrides are not loaded, so they
// never end up on disk. It returns the path written.
func (a *App) editAliases(ctx context.Context, edit func(aliases map[string]string) error) (string, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.cfgFile, IgnoreEnv: true})
	if err != nil {
		return "", newServiceError(err, issue.ConfigLoadFailedId)
	}
	if cfg.Aliases == nil {
		cfg.Aliases = map[string]string{}
	}
	if err := edit(cfg.Aliases); err != nil {
		return "", err
	}
	if err := config.Save(cfg); err != nil {
		return "", issue.WrapWithContext(err, "save configuration", cfg.SourcePath)
	}
	return cfg.SourcePath, nil
}

func aliasNotFound(name string) error {
	return issue.NewErrorContext().
		WithOperation("look up alias").
		WithResource(name).
		WithSuggestion("Run 'kraeve alias list' to see registered names").
		Wrap(errAliasNotFound).
		BuildError()
}
