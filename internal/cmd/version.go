package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nickyball/cli/internal/cmdtypes"
	"github.com/nickyball/cli/internal/config"
	"github.com/nickyball/cli/internal/tools"
	"github.com/nickyball/cli/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(_ *cmdtypes.GlobalConfig) *cobra.Command {
	return newVersionCmd(tools.NewExecRunner())
}

func newVersionCmd(runner tools.CommandRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show nicky-ball version information.

Displays:
  - nicky-ball version, commit, and build date
  - CUE SDK version used for config validation
  - Detected package managers and git, with minimum version checks`,
		RunE: func(c *cobra.Command, _ []string) error {
			var detected []tools.Info
			for _, name := range append(config.ValidPackageManagers(), "git") {
				info, _ := tools.Detect(c.Context(), runner, name)
				detected = append(detected, info)
			}
			fmt.Fprintln(c.OutOrStdout(), version.FullVersionString(version.Get(), detected))
			return nil
		},
	}
}
