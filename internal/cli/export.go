package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [src]",
	Short: "Copy the recipe's exported sources into the work folder",
	Long: `Copy every file matching the recipe's exports_sources patterns from the
source directory into the export folder, byte for byte.

Fails when the patterns match no files.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	p, err := newPackager(sourceDir(args))
	if err != nil {
		return err
	}

	res, err := p.Export(cmd.Context(), sourceDir(args))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, f := range res.Files {
		fmt.Fprintf(out, "  %s\n", f)
	}
	fmt.Fprintf(out, "Exported %d files to %s\n", len(res.Files), res.Dir)
	return nil
}
