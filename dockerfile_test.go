package dockyard_test

import (
	"testing"

	"github.com/heroku/color"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/dockyard-ci/dockyard"
	h "github.com/dockyard-ci/dockyard/testhelpers"
)

func TestRenderDockerfile(t *testing.T) {
	color.Disable(true)
	defer color.Disable(false)
	spec.Run(t, "RenderDockerfile", testRenderDockerfile, spec.Report(report.Terminal{}))
}

func testRenderDockerfile(t *testing.T, when spec.G, it spec.S) {
	when("#RenderDockerfile", func() {
		it("renders only the FROM line without steps", func() {
			h.AssertEq(t, dockyard.RenderDockerfile("ubuntu", nil), "FROM ubuntu\n")
		})

		it("renders the worker image byte for byte", func() {
			steps := []dockyard.Step{
				dockyard.Run(dockyard.Apt("python", "python-pip")),
				dockyard.Run(dockyard.Pip("six", "toolz")),
				dockyard.Cmd("python"),
				dockyard.Workdir("/buildbot"),
			}

			expected := `FROM ubuntu

RUN export DEBIAN_FRONTEND=noninteractive && \
    apt-get update -y -q && \
    apt-get install -y -q \
        python \
        python-pip && \
    rm -rf /var/lib/apt/lists/*

RUN pip install \
        six \
        toolz

CMD ["python"]
WORKDIR /buildbot
`
			h.AssertEq(t, dockyard.RenderDockerfile("ubuntu", steps), expected)
		})

		it("separates RUN blocks with blank lines", func() {
			out := dockyard.RenderDockerfile("alpine", []dockyard.Step{
				dockyard.Run("echo one"),
				dockyard.Run("echo two"),
			})
			h.AssertEq(t, out, "FROM alpine\n\nRUN echo one\n\nRUN echo two\n")
		})

		it("groups consecutive directives on adjacent lines", func() {
			out := dockyard.RenderDockerfile("alpine", []dockyard.Step{
				dockyard.User("worker"),
				dockyard.Workdir("/srv"),
				dockyard.Cmd("sh"),
			})
			h.AssertEq(t, out, "FROM alpine\n\nUSER worker\nWORKDIR /srv\nCMD [\"sh\"]\n")
		})

		it("is deterministic", func() {
			steps := []dockyard.Step{dockyard.Run(dockyard.Apk("bash", "cmake"))}
			h.AssertEq(t,
				dockyard.RenderDockerfile("alpine", steps),
				dockyard.RenderDockerfile("alpine", steps),
			)
		})
	})
}
