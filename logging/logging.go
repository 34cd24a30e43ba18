package logging

import "io"

// Logger defines behavior required by components that report progress.
type Logger interface {
	Debug(msg string)
	Debugf(fmt string, v ...interface{})

	Info(msg string)
	Infof(fmt string, v ...interface{})

	Warn(msg string)
	Warnf(fmt string, v ...interface{})

	Error(msg string)
	Errorf(fmt string, v ...interface{})

	// Writer is the sink for raw output streamed from external
	// processes, such as the daemon's build output.
	Writer() io.Writer

	IsVerbose() bool
}

func appendMissingLineFeed(msg string) string {
	if len(msg) == 0 || msg[len(msg)-1] != '\n' {
		return msg + "\n"
	}
	return msg
}
