package cmd

import (
	"github.com/spf13/cobra"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List source files and mutation site counts",
		Long:  listLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := commandContext(cmd)
			defer stop()

			return workflow.Estimate(ctx, estimateArgs(ctx, args))
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
