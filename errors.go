package dockyard

import (
	"fmt"
	"strings"
)

// ValidationError reports an invalid image declaration. It is returned at
// construction time, never deferred to build time.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationErrorf(format string, a ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, a...)}
}

// CycleError reports a cycle in the base relation of a collection. The
// cycle members are listed in dependency order.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle between images: %s", strings.Join(e.Cycle, " -> "))
}
