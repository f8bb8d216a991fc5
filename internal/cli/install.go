package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rossb34/wildcat-ws/pkg/cache"
	"github.com/rossb34/wildcat-ws/pkg/env"
)

var installID string

var installCmd = &cobra.Command{
	Use:   "install <name>[/<version>] <dst>",
	Short: "Restore a cached package into a directory",
	Long: `Verify a cached package and unpack it into dst.

Without a version the latest cached version is used.

Examples:
  wildcat install wildcat-ws/0.1.1 ./deps/wildcat-ws
  wildcat install wildcat-ws ./deps/wildcat-ws`,
	Args: cobra.ExactArgs(2),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installID, "id", "", "package id to restore when a version has several")
}

// parseReference splits name/version; version may be empty
func parseReference(ref string) (name, version string, err error) {
	name, version, _ = strings.Cut(ref, "/")
	if name == "" {
		return "", "", fmt.Errorf("invalid reference %q: expected name/version", ref)
	}
	return name, version, nil
}

func runInstall(cmd *cobra.Command, args []string) error {
	name, version, err := parseReference(args[0])
	if err != nil {
		return err
	}

	c := cache.New(config.PackagesPath(), config.Logger)
	if version == "" {
		if version, err = c.Latest(name); err != nil {
			return err
		}
	}

	entry, err := c.Restore(cmd.Context(), name, version, installID, args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Installed %s:%s into %s\n", entry.Reference(), entry.PackageID, args[1])
	if flags := env.New(args[1]).GetCompilerFlags().String(); flags != "" {
		fmt.Fprintf(out, "Compiler flags: %s\n", flags)
	}
	return nil
}
