package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dockyard-ci/dockyard"
	"github.com/dockyard-ci/dockyard/config"
	"github.com/dockyard-ci/dockyard/docker"
	"github.com/dockyard-ci/dockyard/logging"
)

// DockerClient is the daemon surface the commands drive. Implemented by
// docker.Client; faked in tests.
type DockerClient interface {
	dockyard.DaemonClient
	Login(ctx context.Context, username, password, serverAddress string) error
	ListImages(ctx context.Context, nameFilter string) ([]docker.ImageRef, error)
}

// ClientFactory defers daemon connection until a command needs one, so
// commands that never touch the daemon work without a running Docker.
type ClientFactory func() (DockerClient, error)

// AddHelpFlag suppresses cobra's default help text wording.
func AddHelpFlag(cmd *cobra.Command, commandName string) {
	cmd.Flags().BoolP("help", "h", false, fmt.Sprintf("Help for '%s'", commandName))
}

// CreateCancellableContext returns a context cancelled on SIGINT/SIGTERM.
func CreateCancellableContext() context.Context {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		<-signals
		cancel()
	}()

	return ctx
}

func logError(logger logging.Logger, f func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		if err := f(cmd, args); err != nil {
			logger.Error(err.Error())
			return err
		}
		return nil
	}
}

type imageFilters struct {
	name    string
	org     string
	os      string
	arch    string
	variant string
	tag     string
}

func addFilterFlags(cmd *cobra.Command, filters *imageFilters) {
	cmd.Flags().StringVarP(&filters.name, "name", "n", "", "Select images by name")
	cmd.Flags().StringVar(&filters.org, "org", "", "Select images by organization")
	cmd.Flags().StringVarP(&filters.os, "os", "o", "", "Select images by operating system")
	cmd.Flags().StringVarP(&filters.arch, "arch", "a", "", "Select images by architecture")
	cmd.Flags().StringVar(&filters.variant, "variant", "", "Select images by variant")
	cmd.Flags().StringVarP(&filters.tag, "tag", "t", "", "Select images by tag")
}

func addManifestFlag(cmd *cobra.Command, path *string) {
	cmd.Flags().StringVarP(path, "manifest", "f", "dockyard.toml", "Path to the image manifest")
}

type registryCreds struct {
	username string
	password string
	server   string
}

func addRegistryFlags(cmd *cobra.Command, creds *registryCreds) {
	cmd.Flags().StringVar(&creds.username, "docker-username", "", "Username to authenticate the registry with")
	cmd.Flags().StringVar(&creds.password, "docker-password", "", "Password to authenticate the registry with")
	cmd.Flags().StringVar(&creds.server, "docker-server", "", "Registry server address")
}

func (cr registryCreds) login(ctx context.Context, client DockerClient) error {
	if cr.username == "" {
		return nil
	}
	return client.Login(ctx, cr.username, cr.password, cr.server)
}

func loadImages(manifestPath string, filters imageFilters) (*dockyard.ImageCollection, error) {
	collection, err := config.ReadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	return collection.Filter(dockyard.Predicate{
		Name:    filters.name,
		Org:     filters.org,
		OS:      filters.os,
		Arch:    filters.arch,
		Variant: filters.variant,
		Tag:     filters.tag,
	}), nil
}
