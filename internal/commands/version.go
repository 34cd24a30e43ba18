package commands

import (
	"github.com/spf13/cobra"

	"github.com/dockyard-ci/dockyard/logging"
)

// Version prints the binary's version.
func Version(logger logging.Logger, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show current 'dockyard' version",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			logger.Info(version)
			return nil
		}),
	}
	AddHelpFlag(cmd, "version")
	return cmd
}
