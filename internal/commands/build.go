package commands

import (
	"github.com/spf13/cobra"

	"github.com/dockyard-ci/dockyard"
	"github.com/dockyard-ci/dockyard/logging"
)

// Build builds the declared images in dependency order.
func Build(logger logging.Logger, clientFactory ClientFactory) *cobra.Command {
	var (
		manifestPath string
		filters      imageFilters
		creds        registryCreds
		push         bool
		noCache      bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the declared images in dependency order",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			images, err := loadImages(manifestPath, filters)
			if err != nil {
				return err
			}

			client, err := clientFactory()
			if err != nil {
				return err
			}
			if err := creds.login(cmd.Context(), client); err != nil {
				return err
			}

			opts := dockyard.BuildOptions{NoCache: noCache}
			if err := images.Build(cmd.Context(), client, opts); err != nil {
				return err
			}
			if push {
				return images.Push(cmd.Context(), client)
			}
			return nil
		}),
	}

	addManifestFlag(cmd, &manifestPath)
	addFilterFlags(cmd, &filters)
	addRegistryFlags(cmd, &creds)
	cmd.Flags().BoolVarP(&push, "push", "p", false, "Push the built images")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Do not use the daemon's layer cache")
	AddHelpFlag(cmd, "build")
	return cmd
}
