package commands

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dockyard-ci/dockyard/logging"
)

// List prints the declared images matching the filters. With --daemon it
// additionally resolves each image against the daemon's store.
func List(logger logging.Logger, clientFactory ClientFactory) *cobra.Command {
	var (
		manifestPath string
		filters      imageFilters
		daemon       bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the declared images",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			images, err := loadImages(manifestPath, filters)
			if err != nil {
				return err
			}

			if !daemon {
				for _, image := range images.Images() {
					logger.Info(image.FQN())
				}
				return nil
			}

			client, err := clientFactory()
			if err != nil {
				return err
			}
			for _, image := range images.Images() {
				refs, err := client.ListImages(cmd.Context(), image.FQN())
				if err != nil {
					return err
				}
				if len(refs) == 0 {
					logger.Infof("%s (not built)", image.FQN())
					continue
				}
				for _, ref := range refs {
					logger.Infof("%s %s", image.FQN(), humanize.Bytes(uint64(ref.Size)))
				}
			}
			return nil
		}),
	}

	addManifestFlag(cmd, &manifestPath)
	addFilterFlags(cmd, &filters)
	cmd.Flags().BoolVar(&daemon, "daemon", false, "Show daemon image sizes")
	AddHelpFlag(cmd, "list")
	return cmd
}
