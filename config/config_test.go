package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/heroku/color"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/dockyard-ci/dockyard"
	"github.com/dockyard-ci/dockyard/config"
	h "github.com/dockyard-ci/dockyard/testhelpers"
)

func TestManifest(t *testing.T) {
	color.Disable(true)
	defer color.Disable(false)
	spec.Run(t, "Manifest", testManifest, spec.Report(report.Terminal{}))
}

func testManifest(t *testing.T, when spec.G, it spec.S) {
	writeManifest := func(contents string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "dockyard.toml")
		h.AssertNil(t, os.WriteFile(path, []byte(contents), 0644))
		return path
	}

	when("#ReadManifest", func() {
		it("resolves declarations into an ordered collection", func() {
			path := writeManifest(`
[[image]]
name = "cpp"
base = "ubuntu"
os = "ubuntu"
arch = "amd64"
org = "ursalab"

  [[image.step]]
  kind = "apt"
  packages = ["gcc", "cmake"]

[[image]]
name = "python"
base-image = "cpp"

  [[image.step]]
  kind = "apt"
  packages = ["python3", "python3-pip"]

  [[image.step]]
  kind = "cmd"
  args = ["python3"]
`)
			images, err := config.ReadManifest(path)
			h.AssertNil(t, err)
			h.AssertEq(t, images.Len(), 2)

			members := images.Images()
			h.AssertEq(t, members[0].FQN(), "ursalab/amd64-ubuntu-cpp:latest")
			h.AssertEq(t, members[1].FQN(), "ursalab/amd64-ubuntu-python:latest")

			h.AssertEq(t, members[1].OS(), "ubuntu")
			h.AssertEq(t, members[1].Org(), "ursalab")
			h.AssertContains(t, members[1].Dockerfile(), "FROM ursalab/amd64-ubuntu-cpp:latest")
			h.AssertContains(t, members[1].Dockerfile(), `CMD ["python3"]`)
		})

		it("fails on an unreadable file", func() {
			_, err := config.ReadManifest(filepath.Join(t.TempDir(), "missing.toml"))
			h.AssertError(t, err, "reading manifest")
		})

		it("fails on malformed toml", func() {
			_, err := config.ReadManifest(writeManifest(`[[image]`))
			h.AssertError(t, err, "reading manifest")
		})

		it("rejects a base-image declared later in the file", func() {
			_, err := config.ReadManifest(writeManifest(`
[[image]]
name = "child"
base-image = "parent"

[[image]]
name = "parent"
base = "ubuntu"
`))
			h.AssertError(t, err, `base-image "parent" is not declared earlier`)
		})

		it("rejects duplicate names", func() {
			_, err := config.ReadManifest(writeManifest(`
[[image]]
name = "twin"
base = "ubuntu"

[[image]]
name = "twin"
base = "ubuntu"
`))
			h.AssertError(t, err, `image "twin" declared twice`)
		})

		it("rejects base together with base-image", func() {
			_, err := config.ReadManifest(writeManifest(`
[[image]]
name = "parent"
base = "ubuntu"

[[image]]
name = "confused"
base = "ubuntu"
base-image = "parent"
`))
			h.AssertError(t, err, "base and base-image are mutually exclusive")
		})

		it("rejects an image without any base", func() {
			_, err := config.ReadManifest(writeManifest(`
[[image]]
name = "floating"
`))
			h.AssertError(t, err, "either base or base-image is required")
		})
	})

	when("step declarations", func() {
		resolve := func(contents string) (*dockyard.DockerImage, error) {
			images, err := config.ReadManifest(writeManifest(contents))
			if err != nil {
				return nil, err
			}
			return images.Images()[0], nil
		}

		it("resolves instruction kinds", func() {
			img, err := resolve(`
[[image]]
name = "steps"
base = "alpine"

  [[image.step]]
  kind = "run"
  command = "echo hi"

  [[image.step]]
  kind = "env"
  env = ["LC_ALL=C.UTF-8", "LANG=C.UTF-8"]

  [[image.step]]
  kind = "workdir"
  command = "/buildbot"

  [[image.step]]
  kind = "user"
  command = "worker"

  [[image.step]]
  kind = "copy"
  args = ["worker.tac", "/buildbot/buildbot.tac"]

  [[image.step]]
  kind = "entrypoint"
  args = ["twistd", "-ny"]
`)
			h.AssertNil(t, err)
			dockerfile := img.Dockerfile()
			h.AssertContains(t, dockerfile, "RUN echo hi")
			h.AssertContains(t, dockerfile, "ENV LC_ALL=C.UTF-8 \\\n    LANG=C.UTF-8")
			h.AssertContains(t, dockerfile, "WORKDIR /buildbot\nUSER worker")
			h.AssertContains(t, dockerfile, "COPY worker.tac /buildbot/buildbot.tac")
			h.AssertContains(t, dockerfile, `ENTRYPOINT ["twistd","-ny"]`)
		})

		it("resolves package-manager shortcuts", func() {
			img, err := resolve(`
[[image]]
name = "pkgs"
base = "alpine"

  [[image.step]]
  kind = "apk"
  packages = ["bash"]

  [[image.step]]
  kind = "pip"
  packages = ["six"]
  files = ["requirements.txt"]
`)
			h.AssertNil(t, err)
			dockerfile := img.Dockerfile()
			h.AssertContains(t, dockerfile, "RUN apk add --no-cache -q \\\n        bash")
			h.AssertContains(t, dockerfile, "RUN pip install \\\n        six \\\n        -r requirements.txt")
		})

		it("rejects an unknown kind", func() {
			_, err := resolve(`
[[image]]
name = "bad"
base = "alpine"

  [[image.step]]
  kind = "teleport"
`)
			h.AssertError(t, err, `unknown step kind "teleport"`)
			h.AssertError(t, err, `image "bad" step 1`)
		})

		it("rejects a malformed env entry", func() {
			_, err := resolve(`
[[image]]
name = "bad"
base = "alpine"

  [[image.step]]
  kind = "env"
  env = ["NOT-A-PAIR"]
`)
			h.AssertError(t, err, `env entry "NOT-A-PAIR" is not KEY=VALUE`)
		})

		it("rejects copy without exactly two args", func() {
			_, err := resolve(`
[[image]]
name = "bad"
base = "alpine"

  [[image.step]]
  kind = "copy"
  args = ["only-one"]
`)
			h.AssertError(t, err, "copy takes exactly two args, got 1")
		})
	})
}
