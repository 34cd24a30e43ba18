package commands

import (
	"github.com/spf13/cobra"

	"github.com/dockyard-ci/dockyard/internal/style"
	"github.com/dockyard-ci/dockyard/logging"
)

// Write renders the declared images' Dockerfiles to a directory.
func Write(logger logging.Logger) *cobra.Command {
	var (
		manifestPath string
		filters      imageFilters
		directory    string
	)

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write the images' Dockerfiles to a directory",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			images, err := loadImages(manifestPath, filters)
			if err != nil {
				return err
			}

			for _, image := range images.Images() {
				if err := image.SaveDockerfile(directory); err != nil {
					return err
				}
				logger.Debugf("Wrote %s", style.Symbol(image.DockerfileName()))
			}
			logger.Infof("Wrote %d Dockerfiles to %s", images.Len(), style.Symbol(directory))
			return nil
		}),
	}

	addManifestFlag(cmd, &manifestPath)
	addFilterFlags(cmd, &filters)
	cmd.Flags().StringVarP(&directory, "directory", "d", "images", "Directory the Dockerfiles are written to")
	AddHelpFlag(cmd, "write")
	return cmd
}
