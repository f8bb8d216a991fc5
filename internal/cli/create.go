package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create [src]",
	Short: "Package sources and publish them into the cache",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().StringArrayVarP(&settingFlags, "setting", "s", nil, "build setting as key=value (repeatable)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	p, err := newPackager(sourceDir(args))
	if err != nil {
		return err
	}

	settings, err := buildSettings()
	if err != nil {
		return err
	}

	res, err := p.Create(cmd.Context(), sourceDir(args), settings)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	e := res.Entry
	if res.Cached {
		fmt.Fprintf(out, "%s:%s already in cache\n", e.Reference(), e.PackageID)
		return nil
	}
	fmt.Fprintf(out, "Created %s:%s\n", e.Reference(), e.PackageID)
	fmt.Fprintf(out, "  Files:    %d\n", len(e.Files))
	fmt.Fprintf(out, "  Artifact: %s (%d bytes)\n", e.Artifact, e.FileSize)
	fmt.Fprintf(out, "  Hash:     %s\n", e.FileHash)
	if e.Revision != "" {
		if e.Dirty {
			fmt.Fprintf(out, "  Revision: %s (dirty)\n", e.Revision)
		} else {
			fmt.Fprintf(out, "  Revision: %s\n", e.Revision)
		}
	}
	return nil
}
