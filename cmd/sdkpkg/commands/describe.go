package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the platforms, products and targets of a manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manifest, _ := cmd.Flags().GetString("manifest")
			jsonOutput, _ := cmd.Flags().GetBool("json")
			return c.app.Describe(cmd.Context(), manifest, jsonOutput)
		},
	}

	cmd.Flags().StringP("manifest", "m", ".", "Manifest file or package directory")
	cmd.Flags().Bool("json", false, "Print the report as JSON")

	return cmd
}
