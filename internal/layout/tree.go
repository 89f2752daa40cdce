package layout

import "gridview/internal/domain"

// virtualRoot keys the synthetic root. Empty IDs never enter a forest.
const virtualRoot = ""

const (
	DefaultLevelSpacing   = 120.0
	DefaultSiblingSpacing = 100.0
)

// Options controls spacing of the static layout
type Options struct {
	LevelSpacing   float64 `yaml:"level_spacing" toml:"level_spacing"`
	SiblingSpacing float64 `yaml:"sibling_spacing" toml:"sibling_spacing"`
}

// DefaultOptions returns the default spacing
func DefaultOptions() Options {
	return Options{
		LevelSpacing:   DefaultLevelSpacing,
		SiblingSpacing: DefaultSiblingSpacing,
	}
}

func (o Options) normalized() Options {
	if o.LevelSpacing <= 0 {
		o.LevelSpacing = DefaultLevelSpacing
	}
	if o.SiblingSpacing <= 0 {
		o.SiblingSpacing = DefaultSiblingSpacing
	}
	return o
}

// Compute returns a coordinate for every node of the graph, keyed by node ID. Empty
// input yields an empty map.
func Compute(nodes []domain.Node, links []domain.Link, opts Options) map[string]domain.Position {
	return Place(BuildForest(nodes, links), opts)
}

// Place assigns coordinates to an already extracted forest
func Place(f *Forest, opts Options) map[string]domain.Position {
	opts = opts.normalized()
	positions := make(map[string]domain.Position, f.Len())
	if f.Len() == 0 {
		return positions
	}

	x := make(map[string]float64, f.Len())
	slot := 0

	childrenOf := func(id string) []string {
		if id == virtualRoot {
			return f.Roots
		}
		return f.Children[id]
	}

	var place func(id string)
	place = func(id string) {
		children := childrenOf(id)
		if len(children) == 0 {
			x[id] = float64(slot) * opts.SiblingSpacing
			slot++
			return
		}
		for _, c := range children {
			place(c)
		}
		x[id] = (x[children[0]] + x[children[len(children)-1]]) / 2
	}

	root := f.Roots[0]
	if f.Virtual() {
		root = virtualRoot
	}
	place(root)

	minX, maxX := x[f.order[0]], x[f.order[0]]
	minDepth := f.Depth[f.order[0]]
	for _, id := range f.order {
		minX = min(minX, x[id])
		maxX = max(maxX, x[id])
		minDepth = min(minDepth, f.Depth[id])
	}
	center := (minX + maxX) / 2

	for _, id := range f.order {
		positions[id] = domain.Position{
			X: x[id] - center,
			Y: float64(f.Depth[id]-minDepth) * opts.LevelSpacing,
		}
	}
	return positions
}

// Apply returns copies of nodes carrying their computed coordinates, marked as
// pinned. The input slice is not modified.
func Apply(nodes []domain.Node, links []domain.Link, opts Options) []domain.Node {
	positions := Compute(nodes, links, opts)
	out := make([]domain.Node, len(nodes))
	for i, n := range nodes {
		if p, ok := positions[n.ID]; ok {
			n.Position = &p
			n.Pinned = true
		}
		out[i] = n
	}
	return out
}
