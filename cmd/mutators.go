package cmd

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"mutest.dev/pkg/mutest/internal/domain/mutators"
)

var mutatorsProfileFlag []string

// mutatorsCmd represents the mutators command.
var mutatorsCmd = newMutatorsCmd()

func newMutatorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mutators",
		Short: "List the available mutators",
		Long: `List the mutators of the catalog with their category. With --profile only the
mutators the profile selects are listed, e.g. --profile @boundary,-LessThan.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := mutators.Default()

			selected := catalog.All()
			if len(mutatorsProfileFlag) > 0 {
				resolved, err := catalog.Resolve(mutatorsProfileFlag)
				if err != nil {
					return err
				}

				selected = resolved
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Name", "Category", "Description"})
			table.SetBorder(false)
			table.SetCenterSeparator("")
			table.SetAutoWrapText(false)

			for _, mutator := range selected {
				table.Append([]string{mutator.Name(), string(mutator.Category()), mutator.Description()})
			}

			table.Render()

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&mutatorsProfileFlag, "profile", nil, "mutator profile to resolve: names, @category, @default, -Name")

	return cmd
}

func init() {
	rootCmd.AddCommand(mutatorsCmd)
}
