// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResolveCommand(app *App) *cobra.Command {
	var from string

	resolveCmd := &cobra.Command{
		Use:   "resolve <request>",
		Short: "Show how an import request is rewritten and resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, k, err := app.setup(cmd.Context(), "")
			if err != nil {
				return app.fail(cmd, err)
			}

			request := args[0]
			fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("Request"), request)
			if rewritten, ok := k.Rewrite(request); ok {
				fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("Rewritten"), rewritten)
			} else {
				fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("Rewritten"), SubtitleStyle.Render("(no registered name)"))
			}

			filename, err := k.Resolve(cmd.Context(), request, from)
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("Resolved"), SuccessStyle.Render(filename))
			return nil
		},
	}

	resolveCmd.Flags().StringVar(&from, "from", "", "importing file that relative requests are resolved against")

	return resolveCmd
}
