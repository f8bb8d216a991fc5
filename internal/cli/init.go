package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rossb34/wildcat-ws/pkg/recipe"
)

var (
	initName    string
	initVersion string
	initForce   bool
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a recipe file",
	Long: `Write ` + recipe.DefaultFile + ` into dir, starting from the built-in wildcat-ws recipe.

Examples:
  wildcat init
  wildcat init ./mylib --name mylib --version 1.0.0`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "package name")
	initCmd.Flags().StringVar(&initVersion, "version", "", "package version")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing recipe")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := sourceDir(args)
	path := filepath.Join(dir, recipe.DefaultFile)

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	r := recipe.Default()
	if initName != "" {
		r.Name = initName
	}
	if initVersion != "" {
		r.Version = initVersion
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	if err := recipe.Save(r, path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s for %s\n", path, r.Reference())
	return nil
}
