package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd(nil).Execute()
}

// newRootCmd assembles the command tree. A nil app defers wiring to the
// first command that needs it, so `version` and flag errors never touch
// AWS configuration.
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "studioctl",
		Short:         "Bootstrap SageMaker Studio user environments",
		Long:          "studioctl logs in to a SageMaker Studio user profile with a presigned URL, waits for the JupyterServer app, opens a terminal and runs a setup script in it.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(a),
		newResolveCmd(a),
	)

	return rootCmd
}
