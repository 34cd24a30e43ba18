package logging

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/apex/log"

	"github.com/dockyard-ci/dockyard/internal/style"
)

const timeFmt = "2006/01/02 15:04:05.000000"

// LogWithWriters is an apex/log backed Logger writing debug and info
// output to one writer and warnings and errors to another.
type LogWithWriters struct {
	sync.Mutex
	log.Logger
	wantTime bool
	clock    func() time.Time
	out      io.Writer
	errOut   io.Writer
}

// NewLogWithWriters creates a logger at info level.
func NewLogWithWriters(stdout, stderr io.Writer, opts ...func(*LogWithWriters)) *LogWithWriters {
	lw := &LogWithWriters{
		Logger: log.Logger{
			Level: log.InfoLevel,
		},
		clock:  time.Now,
		out:    stdout,
		errOut: stderr,
	}
	lw.Logger.Handler = lw
	for _, opt := range opts {
		opt(lw)
	}
	return lw
}

// WithClock overrides the timestamp source, for tests.
func WithClock(clock func() time.Time) func(*LogWithWriters) {
	return func(lw *LogWithWriters) {
		lw.clock = clock
	}
}

// WithVerbose creates the logger at debug level.
func WithVerbose() func(*LogWithWriters) {
	return func(lw *LogWithWriters) {
		lw.Logger.Level = log.DebugLevel
	}
}

// HandleLog implements apex/log.Handler.
func (lw *LogWithWriters) HandleLog(e *log.Entry) error {
	lw.Lock()
	defer lw.Unlock()

	writer := lw.out
	if e.Level >= log.WarnLevel {
		writer = lw.errOut
	}

	prefix := formatLevel(e.Level)
	if lw.wantTime {
		prefix = fmt.Sprintf("%s %s", lw.clock().Format(timeFmt), prefix)
	}

	_, err := fmt.Fprint(writer, appendMissingLineFeed(prefix+e.Message))
	return err
}

// Writer returns the sink raw daemon output is streamed to. Quiet mode
// discards it.
func (lw *LogWithWriters) Writer() io.Writer {
	if lw.Logger.Level > log.InfoLevel {
		return io.Discard
	}
	return lw.out
}

// IsVerbose reports whether debug output is enabled.
func (lw *LogWithWriters) IsVerbose() bool {
	return lw.Logger.Level == log.DebugLevel
}

// WantTime prefixes log lines with timestamps when f is true.
func (lw *LogWithWriters) WantTime(f bool) {
	lw.wantTime = f
}

// WantQuiet reduces output to warnings and errors when f is true.
func (lw *LogWithWriters) WantQuiet(f bool) {
	if f {
		lw.Logger.Level = log.WarnLevel
	}
}

// WantVerbose enables debug output when f is true.
func (lw *LogWithWriters) WantVerbose(f bool) {
	if f {
		lw.Logger.Level = log.DebugLevel
	}
}

func formatLevel(level log.Level) string {
	switch level {
	case log.ErrorLevel:
		return style.Error("ERROR: ")
	case log.WarnLevel:
		return style.Warn("Warning: ")
	}
	return ""
}
