package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/sdkpkg/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the artifact cache and extraction store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, _ := cmd.Flags().GetBool("cache")
			store, _ := cmd.Flags().GetBool("store")

			opts := app.CleanOptions{
				Cache: cache,
				Store: store,
			}

			// Default behavior: clean everything
			if !cache && !store {
				opts.Cache = true
				opts.Store = true
			}

			return c.app.Clean(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolP("cache", "c", false, "Only remove unpacked artifacts")
	cmd.Flags().BoolP("store", "s", false, "Only remove the extraction store")

	return cmd
}
