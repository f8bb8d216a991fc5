package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rossb34/wildcat-ws/pkg/cache"
	"github.com/rossb34/wildcat-ws/pkg/packageid"
)

var listCmd = &cobra.Command{
	Use:   "list [name]",
	Short: "List cached packages",
	Long:  `List cached package names, or the versions and package ids of one package.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	c := cache.New(config.PackagesPath(), config.Logger)
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		names, err := c.Names()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintf(out, "No packages in %s\n", c.Root())
			return nil
		}
		for _, n := range names {
			fmt.Fprintln(out, n)
		}
		return nil
	}

	name := args[0]
	versions, err := c.Versions(name)
	if err != nil {
		return err
	}
	for _, v := range versions {
		fmt.Fprintf(out, "%s/%s\n", name, v)
		entries, err := c.Packages(name, v)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Fprintf(out, "  %s  %s  %d files  %s\n", packageid.ID(e.PackageID).Short(), e.Policy, len(e.Files), e.Created.Format("2006-01-02"))
		}
	}
	return nil
}
