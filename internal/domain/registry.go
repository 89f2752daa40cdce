package domain

// ComponentType describes one entry of the component palette
type ComponentType struct {
	Type  NodeType `json:"type" yaml:"type"`
	Label string   `json:"label" yaml:"label"`
}

// ComponentTypeRegistry is the ordered palette of known component types. The zero
// value is an empty registry. Treat it as immutable; edits go through Snapshot.
type ComponentTypeRegistry struct {
	Types []ComponentType `json:"types" yaml:"types"`
}

// DefaultRegistry returns the built-in palette. It is also substituted for legacy
// snapshots that were saved without one.
func DefaultRegistry() *ComponentTypeRegistry {
	return &ComponentTypeRegistry{
		Types: []ComponentType{
			{Type: NodeTypeGenerator, Label: "Generator"},
			{Type: NodeTypeTransformer, Label: "Transformer"},
			{Type: NodeTypeBus, Label: "Bus"},
			{Type: NodeTypeLoad, Label: "Load"},
			{Type: NodeTypeBreaker, Label: "Breaker"},
		},
	}
}

// Lookup returns the registry entry for a type
func (r *ComponentTypeRegistry) Lookup(t NodeType) (ComponentType, bool) {
	if r == nil {
		return ComponentType{}, false
	}
	for _, ct := range r.Types {
		if ct.Type == t {
			return ct, true
		}
	}
	return ComponentType{}, false
}

// Label returns the display label for a type, falling back to the type string
func (r *ComponentTypeRegistry) Label(t NodeType) string {
	if ct, ok := r.Lookup(t); ok && ct.Label != "" {
		return ct.Label
	}
	return string(t)
}

// Len returns the number of registered types
func (r *ComponentTypeRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Types)
}
