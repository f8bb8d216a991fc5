package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rossb34/wildcat-ws/pkg/env"
)

var envCmd = &cobra.Command{
	Use:   "env <dir>",
	Short: "Print compiler flags and headers of an installed package",
	Args:  cobra.ExactArgs(1),
	RunE:  runEnv,
}

func runEnv(cmd *cobra.Command, args []string) error {
	e := env.New(args[0])
	headers, err := e.Headers()
	if err != nil {
		return fmt.Errorf("listing headers: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "CXXFLAGS=%s\n", e.GetCompilerFlags().String())
	fmt.Fprintf(out, "Header-only: %t\n", e.HeaderOnly())
	for _, h := range headers {
		fmt.Fprintf(out, "  #include <%s>\n", h)
	}
	return nil
}
