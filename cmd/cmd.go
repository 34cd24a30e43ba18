package cmd

import (
	"github.com/heroku/color"
	"github.com/spf13/cobra"

	"github.com/dockyard-ci/dockyard/docker"
	"github.com/dockyard-ci/dockyard/internal/commands"
	"github.com/dockyard-ci/dockyard/logging"
)

// Version is overridden at link time.
var Version = "0.0.0"

// ConfigurableLogger defines behavior required by the root command.
type ConfigurableLogger interface {
	logging.Logger
	WantTime(f bool)
	WantQuiet(f bool)
	WantVerbose(f bool)
}

// NewDockyardCommand generates the dockyard root command.
func NewDockyardCommand(logger ConfigurableLogger) *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:   "dockyard",
		Short: "Build CI worker images declared as a dependency graph",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if fs := cmd.Flags(); fs != nil {
				if flag, err := fs.GetBool("no-color"); err == nil {
					color.Disable(flag)
				}
				if flag, err := fs.GetBool("quiet"); err == nil {
					logger.WantQuiet(flag)
				}
				if flag, err := fs.GetBool("verbose"); err == nil {
					logger.WantVerbose(flag)
				}
				if flag, err := fs.GetBool("timestamps"); err == nil {
					logger.WantTime(flag)
				}
			}
		},
	}

	rootCmd.PersistentFlags().Bool("no-color", false, "Disable color output")
	rootCmd.PersistentFlags().Bool("timestamps", false, "Enable timestamps in output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Show less output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show more output")
	commands.AddHelpFlag(rootCmd, "dockyard")

	clientFactory := func() (commands.DockerClient, error) {
		return docker.NewClient(docker.WithLogger(logger))
	}

	rootCmd.AddCommand(commands.List(logger, clientFactory))
	rootCmd.AddCommand(commands.Build(logger, clientFactory))
	rootCmd.AddCommand(commands.Push(logger, clientFactory))
	rootCmd.AddCommand(commands.Write(logger))
	rootCmd.AddCommand(commands.Version(logger, Version))

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{.Version}}{{"\n"}}`)
	return rootCmd
}
