package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var packageCmd = &cobra.Command{
	Use:   "package [src]",
	Short: "Export sources and assemble the package folder",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPackage,
}

func runPackage(cmd *cobra.Command, args []string) error {
	p, err := newPackager(sourceDir(args))
	if err != nil {
		return err
	}

	res, err := p.Package(cmd.Context(), sourceDir(args))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Exported: %d files\n", len(res.Exported))
	fmt.Fprintf(out, "Packaged: %d files\n", len(res.Packaged))
	for _, f := range res.Packaged {
		fmt.Fprintf(out, "  %s\n", f)
	}
	fmt.Fprintf(out, "Package folder: %s\n", res.PackageDir)
	return nil
}
