package layout

import "gridview/internal/domain"

// Forest is the tree structure extracted from a graph. Every node has at most one
// parent; roots have none.
type Forest struct {
	Roots    []string
	Children map[string][]string
	Parent   map[string]string
	Depth    map[string]int

	// order holds node IDs in input order, deduplicated
	order []string
}

// Virtual reports whether placement needs a synthetic root joining several trees
func (f *Forest) Virtual() bool {
	return len(f.Roots) > 1
}

// Len returns the number of real nodes in the forest
func (f *Forest) Len() int {
	return len(f.order)
}

// BuildForest reduces the graph to a forest. Links with an endpoint outside nodes
// are ignored. Ties are broken by root order, then by link declaration order.
func BuildForest(nodes []domain.Node, links []domain.Link) *Forest {
	f := &Forest{
		Children: make(map[string][]string),
		Parent:   make(map[string]string),
		Depth:    make(map[string]int),
	}

	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if n.ID == "" || present[n.ID] {
			continue
		}
		present[n.ID] = true
		f.order = append(f.order, n.ID)
	}

	adjacency := make(map[string][]string)
	targets := make(map[string]bool)
	for _, l := range links {
		if !present[l.Source] || !present[l.Target] {
			continue
		}
		adjacency[l.Source] = append(adjacency[l.Source], l.Target)
		targets[l.Target] = true
	}

	visited := make(map[string]bool, len(f.order))
	bfs := func(seeds []string) {
		queue := make([]string, 0, len(seeds))
		for _, id := range seeds {
			visited[id] = true
			f.Depth[id] = 0
			queue = append(queue, id)
		}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			for _, next := range adjacency[current] {
				if visited[next] {
					continue
				}
				visited[next] = true
				f.Parent[next] = current
				f.Children[current] = append(f.Children[current], next)
				f.Depth[next] = f.Depth[current] + 1
				queue = append(queue, next)
			}
		}
	}

	for _, id := range f.order {
		if !targets[id] {
			f.Roots = append(f.Roots, id)
		}
	}
	bfs(f.Roots)

	// Rootless components: a pure cycle, or cycles hanging off nothing
	for _, id := range f.order {
		if !visited[id] {
			f.Roots = append(f.Roots, id)
			bfs([]string{id})
		}
	}

	return f
}
