package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResolveCmd(a *app) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the Studio domain ID that run would use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := ensureApp(cmd, a, verbose)
			if err != nil {
				return err
			}

			id, err := app.bootstrapper.ResolveDomain(cmd.Context(), app.defaultDomainID)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}
