package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/dockyard-ci/dockyard"
)

// Manifest is the on-disk declaration of the image graph. Images are
// declared in order; a base-image reference must name an image declared
// earlier in the file.
type Manifest struct {
	Images []Image `toml:"image"`
}

// Image declares one node of the graph.
type Image struct {
	Name      string `toml:"name"`
	Base      string `toml:"base"`
	BaseImage string `toml:"base-image"`
	Org       string `toml:"org"`
	OS        string `toml:"os"`
	Arch      string `toml:"arch"`
	Variant   string `toml:"variant"`
	Tag       string `toml:"tag"`
	Steps     []Step `toml:"step"`
}

// Step declares one build step. Kind selects the instruction or
// package-manager shortcut; the remaining fields feed its arguments.
type Step struct {
	Kind     string   `toml:"kind"`
	Command  string   `toml:"command"`
	Args     []string `toml:"args"`
	Env      []string `toml:"env"`
	Packages []string `toml:"packages"`
	Files    []string `toml:"files"`
}

// ReadManifest parses the manifest at path into an image collection.
func ReadManifest(path string) (*dockyard.ImageCollection, error) {
	var manifest Manifest
	if _, err := toml.DecodeFile(path, &manifest); err != nil {
		return nil, errors.Wrapf(err, "reading manifest %s", path)
	}
	collection, err := manifest.Collection()
	if err != nil {
		return nil, errors.Wrapf(err, "manifest %s", path)
	}
	return collection, nil
}

// Collection resolves the declared images into a collection.
func (m Manifest) Collection() (*dockyard.ImageCollection, error) {
	collection := dockyard.NewCollection()
	declared := map[string]*dockyard.DockerImage{}

	for _, decl := range m.Images {
		image, err := decl.resolve(declared)
		if err != nil {
			return nil, err
		}
		if _, ok := declared[decl.Name]; ok {
			return nil, errors.Errorf("image %q declared twice", decl.Name)
		}
		declared[decl.Name] = image
		collection.Add(image)
	}
	return collection, nil
}

func (d Image) resolve(declared map[string]*dockyard.DockerImage) (*dockyard.DockerImage, error) {
	var base dockyard.Base
	switch {
	case d.Base != "" && d.BaseImage != "":
		return nil, errors.Errorf("image %q: base and base-image are mutually exclusive", d.Name)
	case d.Base != "":
		base = dockyard.BaseRef(d.Base)
	case d.BaseImage != "":
		parent, ok := declared[d.BaseImage]
		if !ok {
			return nil, errors.Errorf("image %q: base-image %q is not declared earlier in the manifest", d.Name, d.BaseImage)
		}
		base = dockyard.BaseImage(parent)
	default:
		return nil, errors.Errorf("image %q: either base or base-image is required", d.Name)
	}

	steps := make([]dockyard.Step, 0, len(d.Steps))
	for idx, decl := range d.Steps {
		step, err := decl.resolve()
		if err != nil {
			return nil, errors.Wrapf(err, "image %q step %d", d.Name, idx+1)
		}
		steps = append(steps, step)
	}

	opts := []dockyard.ImageOption{dockyard.WithSteps(steps...)}
	if d.Org != "" {
		opts = append(opts, dockyard.WithOrg(d.Org))
	}
	if d.OS != "" {
		opts = append(opts, dockyard.WithOS(d.OS))
	}
	if d.Arch != "" {
		opts = append(opts, dockyard.WithArch(d.Arch))
	}
	if d.Variant != "" {
		opts = append(opts, dockyard.WithVariant(d.Variant))
	}
	if d.Tag != "" {
		opts = append(opts, dockyard.WithTag(d.Tag))
	}
	return dockyard.NewImage(d.Name, base, opts...)
}

func (s Step) resolve() (dockyard.Step, error) {
	switch strings.ToLower(s.Kind) {
	case "run":
		return dockyard.Run(s.Command), nil
	case "cmd":
		if s.Command != "" {
			return dockyard.CmdShell(s.Command), nil
		}
		return dockyard.Cmd(s.Args...), nil
	case "entrypoint":
		if s.Command != "" {
			return dockyard.EntrypointShell(s.Command), nil
		}
		return dockyard.Entrypoint(s.Args...), nil
	case "shell":
		return dockyard.Shell(s.Args...), nil
	case "env":
		vars := make([]dockyard.EnvVar, 0, len(s.Env))
		for _, pair := range s.Env {
			key, value, ok := strings.Cut(pair, "=")
			if !ok {
				return dockyard.Step{}, errors.Errorf("env entry %q is not KEY=VALUE", pair)
			}
			vars = append(vars, dockyard.EnvVar{Key: key, Value: value})
		}
		return dockyard.Env(vars...), nil
	case "workdir":
		return dockyard.Workdir(s.Command), nil
	case "user":
		return dockyard.User(s.Command), nil
	case "expose":
		return dockyard.Expose(s.Args...), nil
	case "copy", "add":
		if len(s.Args) != 2 {
			return dockyard.Step{}, errors.Errorf("%s takes exactly two args, got %d", s.Kind, len(s.Args))
		}
		if strings.EqualFold(s.Kind, "add") {
			return dockyard.Add(s.Args[0], s.Args[1]), nil
		}
		return dockyard.Copy(s.Args[0], s.Args[1]), nil
	case "apt":
		return dockyard.Run(dockyard.Apt(s.Packages...)), nil
	case "apk":
		return dockyard.Run(dockyard.Apk(s.Packages...)), nil
	case "pip":
		return dockyard.Run(dockyard.PipRequirements(s.Files, s.Packages...)), nil
	case "conda":
		return dockyard.Run(dockyard.CondaFiles(s.Files, s.Packages...)), nil
	}
	return dockyard.Step{}, errors.Errorf("unknown step kind %q", s.Kind)
}
