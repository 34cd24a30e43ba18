package dockyard

import "context"

// ImageCollection is an insertion-ordered set of images deduplicated by
// value: adding an image structurally equal to an existing member is a
// no-op, so diamond-shaped graphs build their shared base exactly once.
type ImageCollection struct {
	images []*DockerImage
	index  map[string]int
}

// NewCollection returns a collection of the given images, in order,
// duplicates collapsed.
func NewCollection(images ...*DockerImage) *ImageCollection {
	c := &ImageCollection{index: map[string]int{}}
	for _, img := range images {
		c.Add(img)
	}
	return c
}

// Add appends an image unless a value-equal member already exists.
func (c *ImageCollection) Add(img *DockerImage) {
	digest := img.Digest()
	if _, ok := c.index[digest]; ok {
		return
	}
	c.index[digest] = len(c.images)
	c.images = append(c.images, img)
}

// Len returns the number of distinct members.
func (c *ImageCollection) Len() int { return len(c.images) }

// Images returns the members in insertion order.
func (c *ImageCollection) Images() []*DockerImage {
	images := make([]*DockerImage, len(c.images))
	copy(images, c.images)
	return images
}

// Union returns a new collection holding this collection's members
// followed by other's, deduplicated, relative order preserved.
func (c *ImageCollection) Union(other *ImageCollection) *ImageCollection {
	merged := NewCollection(c.images...)
	for _, img := range other.images {
		merged.Add(img)
	}
	return merged
}

// Predicate selects images by exact attribute match. Zero-valued fields
// match anything.
type Predicate struct {
	Name    string
	Org     string
	OS      string
	Arch    string
	Variant string
	Tag     string
}

func (p Predicate) matches(img *DockerImage) bool {
	for _, cond := range []struct{ want, got string }{
		{p.Name, img.name},
		{p.Org, img.org},
		{p.OS, img.os},
		{p.Arch, img.arch},
		{p.Variant, img.variant},
		{p.Tag, img.tag},
	} {
		if cond.want != "" && cond.want != cond.got {
			return false
		}
	}
	return true
}

// Filter returns a new collection of the members matching pred, in their
// original relative order.
func (c *ImageCollection) Filter(pred Predicate) *ImageCollection {
	filtered := NewCollection()
	for _, img := range c.images {
		if pred.matches(img) {
			filtered.Add(img)
		}
	}
	return filtered
}

// TopoSort orders the members so that every member whose base is itself
// a member appears after that base. Images based on external references
// carry no ordering constraint. Ties are broken by insertion order,
// keeping build logs reproducible across runs. A cycle in the base
// relation yields a CycleError.
func (c *ImageCollection) TopoSort() ([]*DockerImage, error) {
	baseIdx := c.baseIndices()

	indegree := make([]int, len(c.images))
	children := make([][]int, len(c.images))
	for idx, parent := range baseIdx {
		if parent >= 0 {
			indegree[idx]++
			children[parent] = append(children[parent], idx)
		}
	}

	sorted := make([]*DockerImage, 0, len(c.images))
	done := make([]bool, len(c.images))
	for len(sorted) < len(c.images) {
		next := -1
		for idx := range c.images {
			if !done[idx] && indegree[idx] == 0 {
				next = idx
				break
			}
		}
		if next < 0 {
			return nil, &CycleError{Cycle: c.findCycle(done, baseIdx)}
		}
		done[next] = true
		sorted = append(sorted, c.images[next])
		for _, child := range children[next] {
			indegree[child]--
		}
	}
	return sorted, nil
}

// baseIndices resolves each member's base to a member position, or -1
// for external bases. Resolution tries pointer identity first so that
// the adjacency view never recurses through node methods.
func (c *ImageCollection) baseIndices() []int {
	baseIdx := make([]int, len(c.images))
	for idx, img := range c.images {
		baseIdx[idx] = -1
		if !img.base.IsImage() {
			continue
		}
		parent := img.base.Image()
		for pos, candidate := range c.images {
			if candidate == parent {
				baseIdx[idx] = pos
				break
			}
		}
		if baseIdx[idx] < 0 {
			if pos, ok := c.index[parent.Digest()]; ok {
				baseIdx[idx] = pos
			}
		}
	}
	return baseIdx
}

// findCycle walks base edges among the unfinished members until one
// repeats. Every unfinished member has an unfinished internal base, so
// the walk always closes.
func (c *ImageCollection) findCycle(done []bool, baseIdx []int) []string {
	start := -1
	for idx := range c.images {
		if !done[idx] {
			start = idx
			break
		}
	}

	seen := map[int]int{}
	var path []int
	for cur := start; ; cur = baseIdx[cur] {
		if pos, ok := seen[cur]; ok {
			path = path[pos:]
			break
		}
		seen[cur] = len(path)
		path = append(path, cur)
	}

	fqns := make([]string, 0, len(path)+1)
	for idx := len(path) - 1; idx >= 0; idx-- {
		fqns = append(fqns, c.images[path[idx]].FQN())
	}
	return append(fqns, fqns[0])
}

// Build builds every member in topological order. The first failure
// aborts the sequence; already-built images are left in the daemon's
// store.
func (c *ImageCollection) Build(ctx context.Context, client DaemonClient, opts BuildOptions) error {
	sorted, err := c.TopoSort()
	if err != nil {
		return err
	}
	for _, img := range sorted {
		if err := img.Build(ctx, client, opts); err != nil {
			return err
		}
	}
	return nil
}

// Push pushes every member. Dependencies impose no ordering on pushes;
// insertion order is used so logs stay reproducible.
func (c *ImageCollection) Push(ctx context.Context, client DaemonClient) error {
	for _, img := range c.images {
		if err := img.Push(ctx, client); err != nil {
			return err
		}
	}
	return nil
}

// SaveDockerfiles writes every member's Dockerfile under dir.
func (c *ImageCollection) SaveDockerfiles(dir string) error {
	for _, img := range c.images {
		if err := img.SaveDockerfile(dir); err != nil {
			return err
		}
	}
	return nil
}
