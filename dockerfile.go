package dockyard

import "strings"

// RenderDockerfile produces the Dockerfile text for an image built from
// baseRef by applying steps in order. baseRef must be a resolved textual
// image reference; resolving a DockerImage base into the name it will be
// tagged with is the caller's concern, which keeps rendering testable in
// isolation from the graph.
//
// Layout: a FROM line, then each step separated by a blank line, except
// that consecutive single-line directives (CMD, ENTRYPOINT, SHELL, ENV,
// WORKDIR, USER) are grouped on adjacent lines. The output always ends
// with a single trailing newline.
func RenderDockerfile(baseRef string, steps []Step) string {
	var sb strings.Builder
	sb.WriteString("FROM " + baseRef + "\n")

	prevSingle := false
	for i, step := range steps {
		if i == 0 || !(prevSingle && step.singleLine()) {
			sb.WriteString("\n")
		}
		sb.WriteString(step.Render() + "\n")
		prevSingle = step.singleLine()
	}
	return sb.String()
}
