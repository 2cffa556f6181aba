// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDiscoverCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "discover [dir]",
		Short: "Show the name and directory discovery registers",
		Long: `Walk from dir (default: the start directory) toward the filesystem root
looking for the package manifest, and show the name it registers.

When the root lies inside node_modules, the application that installed it
is shown as well.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			_, k, err := app.setup(cmd.Context(), dir)
			if err != nil {
				return app.fail(cmd, err)
			}

			res := k.Discovered()
			fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("Name"), SuccessStyle.Render(res.Name))
			fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("Directory"), res.Dir)
			if res.Found() {
				fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("Manifest"), res.ManifestPath)
			} else {
				fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("Manifest"), SubtitleStyle.Render("(none found, using default name)"))
			}

			if host, ok := k.Host(); ok {
				fmt.Fprintln(app.stdout)
				fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("Host name"), SuccessStyle.Render(host.Name))
				fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("Host directory"), host.Dir)
			}
			return nil
		},
	}
}
