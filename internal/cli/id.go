package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rossb34/wildcat-ws/pkg/packageid"
	"github.com/rossb34/wildcat-ws/pkg/platform"
)

var settingFlags []string

var idCmd = &cobra.Command{
	Use:   "id [src]",
	Short: "Print the package id",
	Long: `Print the package id for the detected host settings, overridden by -s.

Examples:
  wildcat id
  wildcat id -s compiler=clang -s build_type=Debug`,
	Args: cobra.MaximumNArgs(1),
	RunE: runID,
}

func init() {
	idCmd.Flags().StringArrayVarP(&settingFlags, "setting", "s", nil, "build setting as key=value (repeatable)")
}

// buildSettings detects host settings and applies -s overrides
func buildSettings() (packageid.Settings, error) {
	settings := packageid.Settings{}
	plat, err := platform.Detect()
	if err != nil {
		logger.Warn("Could not detect platform", "err", err)
	} else {
		logger.Debug("Detected platform", "platform", plat.String())
		settings = plat.Settings()
	}

	if err := settings.Apply(settingFlags); err != nil {
		return nil, err
	}
	return settings, nil
}

func runID(cmd *cobra.Command, args []string) error {
	p, err := newPackager(sourceDir(args))
	if err != nil {
		return err
	}

	settings, err := buildSettings()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), p.PackageID(settings))
	return nil
}
