package commands

import (
	"github.com/spf13/cobra"

	"github.com/dockyard-ci/dockyard/logging"
)

// Push pushes the declared images to their registry.
func Push(logger logging.Logger, clientFactory ClientFactory) *cobra.Command {
	var (
		manifestPath string
		filters      imageFilters
		creds        registryCreds
	)

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push the built images to their registry",
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
			return images.Push(cmd.Context(), client)
		}),
	}

	addManifestFlag(cmd, &manifestPath)
	addFilterFlags(cmd, &filters)
	addRegistryFlags(cmd, &creds)
	AddHelpFlag(cmd, "push")
	return cmd
}
