package config

// LayoutMode selects how node coordinates are produced
type LayoutMode string

const (
	LayoutForce LayoutMode = "force" // positions come from the client-side simulation
	LayoutFixed LayoutMode = "fixed" // positions come from the hierarchical tree layout
)

// ParseLayoutMode converts a string to LayoutMode, defaulting to LayoutForce
func ParseLayoutMode(s string) LayoutMode {
	switch s {
	case "fixed", "tree", "hierarchical":
		return LayoutFixed
	case "force":
		return LayoutForce
	default:
		return LayoutForce
	}
}

// IsFixed reports whether the static tree layout should run
func (m LayoutMode) IsFixed() bool {
	return m == LayoutFixed
}
