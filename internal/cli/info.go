package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [src]",
	Short: "Show the recipe's metadata and package id",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	p, err := newPackager(sourceDir(args))
	if err != nil {
		return err
	}

	settings, err := buildSettings()
	if err != nil {
		return err
	}

	r := p.Recipe()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Package: %s\n", r.Name)
	fmt.Fprintf(out, "Version: %s\n", r.Version)
	if r.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", r.Description)
	}
	fmt.Fprintf(out, "License: %s\n", r.License)
	fmt.Fprintf(out, "Author: %s\n", r.Author)
	fmt.Fprintf(out, "URL: %s\n", r.URL)
	fmt.Fprintf(out, "PURL: %s\n", r.PURL())
	fmt.Fprintf(out, "Exports: %v\n", []string(r.ExportsSources))
	fmt.Fprintf(out, "No copy source: %t\n", r.NoCopySource)
	fmt.Fprintf(out, "Package id: %s (%s)\n", p.PackageID(settings), r.PackageID)
	if r.Path != "" {
		fmt.Fprintf(out, "Recipe: %s\n", r.Path)
	}
	return nil
}
