package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rossb34/wildcat-ws/pkg/cache"
)

var removeCmd = &cobra.Command{
	Use:   "remove <name>/<version>",
	Short: "Remove a version from the cache",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	name, version, err := parseReference(args[0])
	if err != nil {
		return err
	}
	if version == "" {
		return fmt.Errorf("remove needs an explicit version: %s/<version>", name)
	}

	c := cache.New(config.PackagesPath(), config.Logger)
	if err := c.Remove(name, version); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s/%s\n", name, version)
	return nil
}
