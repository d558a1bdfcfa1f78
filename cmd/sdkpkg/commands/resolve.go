package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/sdkpkg/internal/app"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	var opts app.ResolveOptions

	cmd := &cobra.Command{
		Use:   "resolve [products...]",
		Short: "Resolve products for a consumer platform",
		Long: "Resolve loads the package manifest, locates and unpacks binary artifacts and\n" +
			"reports the library slice to link for each product. Without product names every\n" +
			"product of the package is resolved.",
		Example: "  sdkpkg resolve --platform ios@17\n" +
			"  sdkpkg resolve SDK --platform ios@17 --variant simulator --arch arm64",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Products = args
			return c.app.Resolve(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ManifestPath, "manifest", "m", ".", "Manifest file or package directory")
	cmd.Flags().StringVarP(&opts.Platform, "platform", "p", "", "Consumer platform as family@version, e.g. ios@17.2")
	cmd.Flags().StringVar(&opts.Variant, "variant", "", "Platform variant, e.g. simulator")
	cmd.Flags().StringVar(&opts.Arch, "arch", "", "Restrict to an architecture, e.g. arm64")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Abort resolution after this duration")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print the report and logs as JSON")
	_ = cmd.MarkFlagRequired("platform")

	return cmd
}
