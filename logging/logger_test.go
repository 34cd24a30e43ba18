package logging_test

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/heroku/color"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/dockyard-ci/dockyard/logging"
	h "github.com/dockyard-ci/dockyard/testhelpers"
)

func TestLogWithWriters(t *testing.T) {
	color.Disable(true)
	defer color.Disable(false)
	spec.Run(t, "LogWithWriters", testLogWithWriters, spec.Report(report.Terminal{}))
}

func testLogWithWriters(t *testing.T, when spec.G, it spec.S) {
	var (
		logger *logging.LogWithWriters
		outBuf bytes.Buffer
		errBuf bytes.Buffer
	)

	it.Before(func() {
		outBuf.Reset()
		errBuf.Reset()
		logger = logging.NewLogWithWriters(&outBuf, &errBuf)
	})

	when("routing", func() {
		it("sends info to the out writer", func() {
			logger.Info("Some text")
			h.AssertEq(t, outBuf.String(), "Some text\n")
			h.AssertEq(t, errBuf.String(), "")
		})

		it("sends warnings and errors to the error writer", func() {
			logger.Warn("careful")
			logger.Error("broke")
			h.AssertEq(t, outBuf.String(), "")
			h.AssertEq(t, errBuf.String(), "Warning: careful\nERROR: broke\n")
		})

		it("appends a missing line feed exactly once", func() {
			logger.Infof("already terminated\n")
			h.AssertEq(t, outBuf.String(), "already terminated\n")
		})
	})

	when("verbosity", func() {
		it("drops debug output by default", func() {
			logger.Debug("invisible")
			h.AssertEq(t, outBuf.String(), "")
			h.AssertFalse(t, logger.IsVerbose())
		})

		it("shows debug output when verbose", func() {
			logger.WantVerbose(true)
			logger.Debugf("visible %d", 1)
			h.AssertEq(t, outBuf.String(), "visible 1\n")
			h.AssertTrue(t, logger.IsVerbose())
		})

		it("can be constructed verbose", func() {
			verbose := logging.NewLogWithWriters(&outBuf, &errBuf, logging.WithVerbose())
			h.AssertTrue(t, verbose.IsVerbose())
		})
	})

	when("quiet", func() {
		it.Before(func() {
			logger.WantQuiet(true)
		})

		it("suppresses info but keeps warnings", func() {
			logger.Info("silenced")
			logger.Warn("still heard")
			h.AssertEq(t, outBuf.String(), "")
			h.AssertEq(t, errBuf.String(), "Warning: still heard\n")
		})

		it("discards the stream writer", func() {
			h.AssertTrue(t, logger.Writer() == io.Discard)
		})
	})

	when("#Writer", func() {
		it("returns the out writer at info level and above", func() {
			h.AssertTrue(t, logger.Writer() == io.Writer(&outBuf))
		})
	})

	when("timestamps", func() {
		var frozen = time.Date(2019, 7, 4, 12, 30, 45, 123456000, time.UTC)

		it("prefixes lines with the clock time when wanted", func() {
			logger = logging.NewLogWithWriters(&outBuf, &errBuf,
				logging.WithClock(func() time.Time { return frozen }))
			logger.WantTime(true)

			logger.Info("Some text")
			h.AssertEq(t, outBuf.String(), "2019/07/04 12:30:45.123456 Some text\n")
		})

		it("omits the prefix by default", func() {
			logger.Info("Some text")
			h.AssertEq(t, outBuf.String(), "Some text\n")
		})
	})
}
