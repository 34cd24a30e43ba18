package dockyard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"
)

// DefaultTag is applied to images declared without an explicit tag.
const DefaultTag = "latest"

// Base is the FROM target of a DockerImage: either a free-form reference
// to an externally published image, or another declared DockerImage. A
// base image is referenced, never owned; the same image may serve as the
// base of any number of declarations.
type Base struct {
	ref   string
	image *DockerImage
}

// BaseRef declares a root base from an external image reference such as
// "ubuntu" or "continuumio/miniconda3".
func BaseRef(ref string) Base {
	return Base{ref: ref}
}

// BaseImage declares a base on another declared image.
func BaseImage(image *DockerImage) Base {
	return Base{image: image}
}

// IsImage reports whether the base is another declared image.
func (b Base) IsImage() bool { return b.image != nil }

// Image returns the declared base image, or nil for a root base.
func (b Base) Image() *DockerImage { return b.image }

// Reference returns the textual reference the base will be addressed by
// in a FROM line: the root reference, or the fully qualified name the
// base image carries once built.
func (b Base) Reference() string {
	if b.image != nil {
		return b.image.FQN()
	}
	return b.ref
}

// DaemonClient is the capability interface consumed by image and
// collection build operations. Implemented by the docker package; faked
// in tests.
type DaemonClient interface {
	// Build builds dockerfile contents into an image tagged tag.
	Build(ctx context.Context, dockerfile, tag string, nocache bool) error
	// Push pushes an already-built tag to its registry.
	Push(ctx context.Context, tag string) error
}

// BuildOptions configures image builds.
type BuildOptions struct {
	// NoCache disables the daemon's layer cache.
	NoCache bool
}

// DockerImage is a node in the image dependency graph: an identity, a
// base to build from, and the steps applied on top. Instances are
// immutable once constructed; derivation happens by declaring a new
// image whose base references an existing one.
type DockerImage struct {
	name    string
	base    Base
	org     string
	os      string
	arch    string
	variant string
	tag     string
	steps   []Step
}

// ImageOption configures a DockerImage declaration.
type ImageOption func(*DockerImage)

// WithOS sets the operating system classification, e.g. "ubuntu-22.04".
func WithOS(os string) ImageOption {
	return func(i *DockerImage) { i.os = os }
}

// WithArch sets the architecture classification, e.g. "amd64".
func WithArch(arch string) ImageOption {
	return func(i *DockerImage) { i.arch = arch }
}

// WithVariant sets an optional variant classification, e.g. "conda".
func WithVariant(variant string) ImageOption {
	return func(i *DockerImage) { i.variant = variant }
}

// WithTag overrides the default "latest" tag.
func WithTag(tag string) ImageOption {
	return func(i *DockerImage) { i.tag = tag }
}

// WithOrg sets the registry namespace the image is pushed under.
func WithOrg(org string) ImageOption {
	return func(i *DockerImage) { i.org = org }
}

// WithSteps sets the build steps applied on top of the base.
func WithSteps(steps ...Step) ImageOption {
	return func(i *DockerImage) { i.steps = steps }
}

// NewImage declares an image. When base is another declared image, os,
// arch, variant and org are inherited from it; an explicit os or arch
// that conflicts with the base's resolved value is a ValidationError,
// reported here rather than at build time.
func NewImage(imageName string, base Base, opts ...ImageOption) (*DockerImage, error) {
	img := &DockerImage{name: imageName, base: base, tag: DefaultTag}
	for _, opt := range opts {
		opt(img)
	}

	if imageName == "" {
		return nil, validationErrorf("image name must not be empty")
	}

	if base.IsImage() {
		parent := base.Image()
		if img.os != "" && img.os != parent.os {
			return nil, validationErrorf(
				"os %q does not match base image %s os %q",
				img.os, parent.FQN(), parent.os,
			)
		}
		if img.arch != "" && img.arch != parent.arch {
			return nil, validationErrorf(
				"architecture %q does not match base image %s architecture %q",
				img.arch, parent.FQN(), parent.arch,
			)
		}
		img.os = parent.os
		img.arch = parent.arch
		if img.variant == "" {
			img.variant = parent.variant
		}
		if img.org == "" {
			img.org = parent.org
		}
	} else if base.ref == "" {
		return nil, validationErrorf("image %q has an empty base reference", imageName)
	}

	if _, err := name.NewTag(img.FQN(), name.WeakValidation); err != nil {
		return nil, validationErrorf("image %q: invalid reference %s: %s", imageName, img.FQN(), err)
	}
	return img, nil
}

func (i *DockerImage) Name() string    { return i.name }
func (i *DockerImage) Base() Base      { return i.base }
func (i *DockerImage) Org() string     { return i.org }
func (i *DockerImage) OS() string      { return i.os }
func (i *DockerImage) Arch() string    { return i.arch }
func (i *DockerImage) Variant() string { return i.variant }
func (i *DockerImage) Tag() string     { return i.tag }

// Steps returns a copy of the build steps.
func (i *DockerImage) Steps() []Step {
	steps := make([]Step, len(i.steps))
	copy(steps, i.steps)
	return steps
}

// Platform joins the non-empty classification segments (os, arch,
// variant) with slashes, e.g. "ubuntu/amd64".
func (i *DockerImage) Platform() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{i.os, i.arch, i.variant} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "/")
}

// Repo is the repository segment of the fully qualified name:
// arch-os[-variant]-name, with unset segments skipped.
func (i *DockerImage) Repo() string {
	parts := make([]string, 0, 4)
	for _, part := range []string{i.arch, i.os, i.variant, i.name} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "-")
}

// FQN is the fully qualified name the image is built and pushed as:
// [org/]arch-os[-variant]-name:tag.
func (i *DockerImage) FQN() string {
	if i.org != "" {
		return i.org + "/" + i.Repo() + ":" + i.tag
	}
	return i.Repo() + ":" + i.tag
}

// RootBase walks the base chain and returns the external reference the
// chain is ultimately rooted at.
func (i *DockerImage) RootBase() string {
	base := i.base
	for base.IsImage() {
		base = base.Image().base
	}
	return base.ref
}

// Digest is a content-stable identity over every field, the steps, and
// the full base chain. Two images declared from identical arguments
// share a digest, which gives collections their set semantics.
func (i *DockerImage) Digest() string {
	h := sha256.New()
	i.hashInto(h)
	return hex.EncodeToString(h.Sum(nil))
}

func (i *DockerImage) hashInto(w io.Writer) {
	fmt.Fprintf(w, "name=%s\x00org=%s\x00os=%s\x00arch=%s\x00variant=%s\x00tag=%s\x00",
		i.name, i.org, i.os, i.arch, i.variant, i.tag)
	if i.base.IsImage() {
		io.WriteString(w, "base-image\x00")
		i.base.Image().hashInto(w)
	} else {
		fmt.Fprintf(w, "base-ref=%s\x00", i.base.ref)
	}
	for _, step := range i.steps {
		fmt.Fprintf(w, "step=%s %s\x00", step.kind, step.payload)
	}
}

// Equals reports structural equality, comparing the base chain by value
// rather than by reference identity.
func (i *DockerImage) Equals(other *DockerImage) bool {
	if other == nil {
		return false
	}
	return i.Digest() == other.Digest()
}

func (i *DockerImage) String() string { return i.FQN() }

// Dockerfile renders the image's Dockerfile. A declared base resolves to
// the name it will be tagged with once built; its own Dockerfile content
// is never inlined, mirroring layered-image practice.
func (i *DockerImage) Dockerfile() string {
	return RenderDockerfile(i.base.Reference(), i.steps)
}

// DockerfileName is the file name SaveDockerfile writes to.
func (i *DockerImage) DockerfileName() string {
	return fmt.Sprintf("%s.%s.dockerfile", i.Repo(), i.tag)
}

// SaveDockerfile writes the rendered Dockerfile under dir, creating the
// directory if needed.
func (i *DockerImage) SaveDockerfile(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, i.DockerfileName()), []byte(i.Dockerfile()), 0644)
}

// Build builds the image through client, tagged with its fully qualified
// name. Client errors are propagated unchanged; there are no retries.
func (i *DockerImage) Build(ctx context.Context, client DaemonClient, opts BuildOptions) error {
	return client.Build(ctx, i.Dockerfile(), i.FQN(), opts.NoCache)
}

// Push pushes the built image through client.
func (i *DockerImage) Push(ctx context.Context, client DaemonClient) error {
	return client.Push(ctx, i.FQN())
}
