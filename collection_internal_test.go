package dockyard

import (
	"errors"
	"testing"

	"github.com/heroku/color"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	h "github.com/dockyard-ci/dockyard/testhelpers"
)

func TestCycleDetection(t *testing.T) {
	color.Disable(true)
	defer color.Disable(false)
	spec.Run(t, "CycleDetection", testCycleDetection, spec.Report(report.Terminal{}))
}

// The constructor cannot produce a cyclic base chain, and Digest does
// not terminate on one, so these tests assemble the nodes and the
// collection directly.
func testCycleDetection(t *testing.T, when spec.G, it spec.S) {
	collectionOf := func(images ...*DockerImage) *ImageCollection {
		return &ImageCollection{images: images, index: map[string]int{}}
	}

	when("the base relation is cyclic", func() {
		it("reports the cycle members in dependency order", func() {
			x := &DockerImage{name: "x", tag: DefaultTag}
			y := &DockerImage{name: "y", tag: DefaultTag, base: BaseImage(x)}
			x.base = BaseImage(y)

			_, err := collectionOf(x, y).TopoSort()

			var cerr *CycleError
			h.AssertTrue(t, errors.As(err, &cerr))
			h.AssertEq(t, cerr.Cycle, []string{"y:latest", "x:latest", "y:latest"})
			h.AssertEq(t, cerr.Error(),
				"dependency cycle between images: y:latest -> x:latest -> y:latest")
		})

		it("finds a self-referential image", func() {
			x := &DockerImage{name: "x", tag: DefaultTag}
			x.base = BaseImage(x)

			_, err := collectionOf(x).TopoSort()

			var cerr *CycleError
			h.AssertTrue(t, errors.As(err, &cerr))
			h.AssertEq(t, cerr.Cycle, []string{"x:latest", "x:latest"})
		})

		it("excludes members outside the cycle from the report", func() {
			x := &DockerImage{name: "x", tag: DefaultTag}
			y := &DockerImage{name: "y", tag: DefaultTag, base: BaseImage(x)}
			x.base = BaseImage(y)
			ok := &DockerImage{name: "ok", tag: DefaultTag, base: BaseRef("ubuntu"), steps: []Step{Run("echo hi")}}

			sorted, err := collectionOf(ok, x, y).TopoSort()
			h.AssertTrue(t, sorted == nil)

			var cerr *CycleError
			h.AssertTrue(t, errors.As(err, &cerr))
			h.AssertEq(t, len(cerr.Cycle), 3)
			for _, fqn := range cerr.Cycle {
				h.AssertTrue(t, fqn != "ok:latest")
			}
		})
	})
}
