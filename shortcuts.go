package dockyard

import "strings"

// Shell command generators for the common package-manager invocations.
// Each returns a multi-line command suitable for Run, with packages and
// requirement files one per continuation line so that generated
// Dockerfiles diff reproducibly.

// Apt renders an apt-get install command for the given packages,
// cleaning the package lists afterwards to keep layers small.
func Apt(packages ...string) string {
	return "export DEBIAN_FRONTEND=noninteractive && \\\n" +
		lineIndent + "apt-get update -y -q && \\\n" +
		lineIndent + "apt-get install -y -q \\\n" +
		continued(packages) + " && \\\n" +
		lineIndent + "rm -rf /var/lib/apt/lists/*"
}

// Apk renders an apk add command for the given packages.
func Apk(packages ...string) string {
	return "apk add --no-cache -q \\\n" + continued(packages)
}

// Pip renders a pip install command for the given packages.
func Pip(packages ...string) string {
	return PipRequirements(nil, packages...)
}

// PipRequirements renders a pip install command for the given packages
// and requirement files. Files are emitted after packages.
func PipRequirements(files []string, packages ...string) string {
	args := make([]string, 0, len(packages)+len(files))
	args = append(args, packages...)
	for _, f := range files {
		args = append(args, "-r "+f)
	}
	return "pip install \\\n" + continued(args)
}

// Conda renders a conda install command for the given packages.
func Conda(packages ...string) string {
	return CondaFiles(nil, packages...)
}

// CondaFiles renders a conda install command for the given packages and
// environment files. Files are emitted after packages.
func CondaFiles(files []string, packages ...string) string {
	args := make([]string, 0, len(packages)+len(files))
	args = append(args, packages...)
	for _, f := range files {
		args = append(args, "--file "+f)
	}
	return "conda install -y -q \\\n" + continued(args) + " && \\\n" +
		lineIndent + "conda clean -q --all"
}

// SymlinkPair maps a link source to the target path the link is created at.
type SymlinkPair struct {
	Source string
	Target string
}

// Symlink renders chained ln -sf commands, one per pair, in the order given.
func Symlink(pairs ...SymlinkPair) string {
	cmds := make([]string, 0, len(pairs))
	for _, p := range pairs {
		cmds = append(cmds, "ln -sf "+p.Source+" "+p.Target)
	}
	return strings.Join(cmds, " && \\\n"+lineIndent)
}

// Mkdir renders a mkdir -p command.
func Mkdir(dir string) string {
	return "mkdir -p " + dir
}

// continued indents each item and joins them with line continuations,
// every line except the last ending in a backslash.
func continued(items []string) string {
	indented := make([]string, 0, len(items))
	for _, item := range items {
		indented = append(indented, listIndent+item)
	}
	return strings.Join(indented, " \\\n")
}
