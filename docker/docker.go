package docker

import (
	"archive/tar"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	dockertypes "github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/registry"
	dockercli "github.com/docker/docker/client"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/pkg/errors"

	"github.com/dockyard-ci/dockyard/internal/style"
	"github.com/dockyard-ci/dockyard/logging"
)

// Client is a thin wrapper over the Docker engine API that builds and
// pushes whole images from rendered Dockerfiles. Build and push failures
// are reported as BuildError and PushError and are never retried here.
type Client struct {
	*dockercli.Client
	logger logging.Logger
	auth   string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger supplies the logger daemon output is streamed through.
func WithLogger(logger logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client from the standard DOCKER_* environment.
func NewClient(opts ...ClientOption) (*Client, error) {
	cli, err := dockercli.NewClientWithOpts(dockercli.FromEnv, dockercli.WithAPIVersionNegotiation())
	if err != nil {
		return nil, errors.Wrap(err, "new docker client")
	}
	c := &Client{Client: cli}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.NewLogWithWriters(os.Stdout, os.Stderr)
	}
	return c, nil
}

// ImageRef describes an image in the daemon's store.
type ImageRef struct {
	ID      string
	Tags    []string
	Size    int64
	Created time.Time
}

// BuildError reports a failed image build.
type BuildError struct {
	Tag   string
	cause error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("building %s: %s", e.Tag, e.cause)
}

func (e *BuildError) Unwrap() error { return e.cause }

// PushError reports a failed image push.
type PushError struct {
	Tag   string
	cause error
}

func (e *PushError) Error() string {
	return fmt.Sprintf("pushing %s: %s", e.Tag, e.cause)
}

func (e *PushError) Unwrap() error { return e.cause }

// AuthError reports a failed registry login.
type AuthError struct {
	Username string
	cause    error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authenticating %s: %s", e.Username, e.cause)
}

func (e *AuthError) Unwrap() error { return e.cause }

// Build builds dockerfile contents into an image tagged tag. The
// Dockerfile is the entire build context; images assemble their content
// with RUN steps rather than host files.
func (c *Client) Build(ctx context.Context, dockerfile, tag string, nocache bool) error {
	c.logger.Infof("Building %s", style.Symbol(tag))

	buildContext, err := singleFileTar("Dockerfile", dockerfile)
	if err != nil {
		return &BuildError{Tag: tag, cause: err}
	}

	res, err := c.ImageBuild(ctx, buildContext, dockertypes.ImageBuildOptions{
		Tags:    []string{tag},
		NoCache: nocache,
		Remove:  true,
	})
	if err != nil {
		return &BuildError{Tag: tag, cause: err}
	}
	defer res.Body.Close()

	if err := c.streamDaemonOutput(res.Body); err != nil {
		return &BuildError{Tag: tag, cause: err}
	}
	c.logger.Infof("Successfully built %s", style.Symbol(tag))
	return nil
}

// Push pushes tag to its registry, using credentials from a prior Login
// if any.
func (c *Client) Push(ctx context.Context, tag string) error {
	c.logger.Infof("Pushing %s", style.Symbol(tag))

	rc, err := c.ImagePush(ctx, tag, dockertypes.ImagePushOptions{RegistryAuth: c.registryAuth()})
	if err != nil {
		return &PushError{Tag: tag, cause: err}
	}
	defer rc.Close()

	if err := c.streamDaemonOutput(rc); err != nil {
		return &PushError{Tag: tag, cause: err}
	}
	c.logger.Infof("Successfully pushed %s", style.Symbol(tag))
	return nil
}

// Login authenticates against serverAddress and retains the credentials
// for subsequent pushes.
func (c *Client) Login(ctx context.Context, username, password, serverAddress string) error {
	authConfig := registry.AuthConfig{
		Username:      username,
		Password:      password,
		ServerAddress: serverAddress,
	}
	if _, err := c.RegistryLogin(ctx, authConfig); err != nil {
		return &AuthError{Username: username, cause: err}
	}

	buf, err := json.Marshal(authConfig)
	if err != nil {
		return &AuthError{Username: username, cause: err}
	}
	c.auth = base64.URLEncoding.EncodeToString(buf)
	return nil
}

// ListImages returns the daemon's images matching nameFilter.
func (c *Client) ListImages(ctx context.Context, nameFilter string) ([]ImageRef, error) {
	args := filters.NewArgs()
	if nameFilter != "" {
		args.Add("reference", nameFilter)
	}
	summaries, err := c.ImageList(ctx, dockertypes.ImageListOptions{Filters: args})
	if err != nil {
		return nil, errors.Wrap(err, "listing images")
	}

	refs := make([]ImageRef, 0, len(summaries))
	for _, summary := range summaries {
		refs = append(refs, ImageRef{
			ID:      summary.ID,
			Tags:    summary.RepoTags,
			Size:    summary.Size,
			Created: time.Unix(summary.Created, 0),
		})
	}
	return refs, nil
}

func (c *Client) registryAuth() string {
	if c.auth != "" {
		return c.auth
	}
	return base64.URLEncoding.EncodeToString([]byte("{}"))
}

func (c *Client) streamDaemonOutput(r io.Reader) error {
	return jsonmessage.DisplayJSONMessagesStream(r, c.logger.Writer(), 0, false, nil)
}

// singleFileTar wraps contents into an in-memory tar stream holding a
// single file, the daemon's expected build context format.
func singleFileTar(path, contents string) (io.Reader, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := tw.WriteHeader(&tar.Header{
		Name: path,
		Mode: 0600,
		Size: int64(len(contents)),
	}); err != nil {
		return nil, err
	}
	if _, err := tw.Write([]byte(contents)); err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	return &buf, nil
}
