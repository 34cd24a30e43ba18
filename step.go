package dockyard

import (
	"encoding/json"
	"strings"
)

// StepKind names the Dockerfile instruction a Step renders to.
type StepKind string

const (
	KindRun        StepKind = "RUN"
	KindCmd        StepKind = "CMD"
	KindEntrypoint StepKind = "ENTRYPOINT"
	KindShell      StepKind = "SHELL"
	KindEnv        StepKind = "ENV"
	KindWorkdir    StepKind = "WORKDIR"
	KindUser       StepKind = "USER"
	KindCopy       StepKind = "COPY"
	KindAdd        StepKind = "ADD"
	KindExpose     StepKind = "EXPOSE"
)

const (
	lineIndent = "    "
	listIndent = "        "
)

// Step is a single Dockerfile instruction. Steps are immutable values;
// rendering is pure and two steps constructed from the same arguments
// render to identical text.
type Step struct {
	kind    StepKind
	payload string
}

// Kind returns the instruction this step renders to.
func (s Step) Kind() StepKind { return s.kind }

// Render returns the instruction line(s) for this step, without a
// trailing newline.
func (s Step) Render() string {
	return string(s.kind) + " " + s.payload
}

// singleLine reports whether the step belongs to the directive group that
// renders on adjacent lines (CMD, WORKDIR, ...) rather than as a block
// separated by blank lines (RUN, COPY, ADD).
func (s Step) singleLine() bool {
	switch s.kind {
	case KindRun, KindCopy, KindAdd:
		return false
	}
	return true
}

// Run returns a RUN step with the given shell command. Trailing newlines
// are trimmed so multi-line commands from the package-manager shortcuts
// compose cleanly.
func Run(command string) Step {
	return Step{kind: KindRun, payload: strings.TrimRight(command, "\n")}
}

// Cmd returns an exec-form CMD step.
func Cmd(args ...string) Step {
	return Step{kind: KindCmd, payload: execForm(args)}
}

// CmdShell returns a shell-form CMD step.
func CmdShell(command string) Step {
	return Step{kind: KindCmd, payload: command}
}

// Entrypoint returns an exec-form ENTRYPOINT step.
func Entrypoint(args ...string) Step {
	return Step{kind: KindEntrypoint, payload: execForm(args)}
}

// EntrypointShell returns a shell-form ENTRYPOINT step.
func EntrypointShell(command string) Step {
	return Step{kind: KindEntrypoint, payload: command}
}

// Shell returns a SHELL step. SHELL only has an exec form.
func Shell(args ...string) Step {
	return Step{kind: KindShell, payload: execForm(args)}
}

// EnvVar is a single ENV key/value pair. Pairs are rendered in the order
// supplied so that generated Dockerfiles are byte-stable.
type EnvVar struct {
	Key   string
	Value string
}

// Env returns an ENV step assigning the given variables.
func Env(vars ...EnvVar) Step {
	assignments := make([]string, 0, len(vars))
	for _, v := range vars {
		assignments = append(assignments, v.Key+"="+v.Value)
	}
	return Step{kind: KindEnv, payload: strings.Join(assignments, " \\\n"+lineIndent)}
}

// Workdir returns a WORKDIR step.
func Workdir(dir string) Step {
	return Step{kind: KindWorkdir, payload: dir}
}

// User returns a USER step.
func User(name string) Step {
	return Step{kind: KindUser, payload: name}
}

// Copy returns a COPY step.
func Copy(src, dst string) Step {
	return Step{kind: KindCopy, payload: src + " " + dst}
}

// CopyFrom returns a COPY --from step referencing another image.
func CopyFrom(image, src, dst string) Step {
	return Step{kind: KindCopy, payload: "--from=" + image + " " + src + " " + dst}
}

// Add returns an ADD step.
func Add(src, dst string) Step {
	return Step{kind: KindAdd, payload: src + " " + dst}
}

// Expose returns an EXPOSE step for the given ports, e.g. "9989" or
// "8080/tcp".
func Expose(ports ...string) Step {
	return Step{kind: KindExpose, payload: strings.Join(ports, " ")}
}

func execForm(args []string) string {
	// json.Marshal of a []string cannot fail
	buf, _ := json.Marshal(args)
	return string(buf)
}
