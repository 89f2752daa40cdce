package domain

// NodeType identifies the kind of component a node represents. It is an opaque key
// resolved against a ComponentTypeRegistry.
type NodeType string

const (
	NodeTypeGenerator   NodeType = "generator"
	NodeTypeTransformer NodeType = "transformer"
	NodeTypeBus         NodeType = "bus"
	NodeTypeLoad        NodeType = "load"
	NodeTypeBreaker     NodeType = "breaker"
)

// Node represents an electrical component in the diagram
type Node struct {
	ID         string         `json:"id" yaml:"id"`
	Type       NodeType       `json:"type" yaml:"type"`
	Label      string         `json:"label" yaml:"label"`
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
	Position   *Position      `json:"position,omitempty" yaml:"position,omitempty"`

	// Pinned is set on nodes whose position was assigned by the fixed layout
	Pinned bool `json:"pinned,omitempty" yaml:"-"`

	// IsExternal marks ghost copies synthesized by a focus view. Never persisted.
	IsExternal bool `json:"is_external,omitempty" yaml:"-"`
}

// NewNode creates a new node with initialized properties
func NewNode(id string, nodeType NodeType, label string) *Node {
	return &Node{
		ID:         id,
		Type:       nodeType,
		Label:      label,
		Properties: make(map[string]any),
	}
}

// GetProperty gets a property value
func (n *Node) GetProperty(key string) (any, bool) {
	if n.Properties == nil {
		return nil, false
	}
	val, ok := n.Properties[key]
	return val, ok
}

// GetPropertyString gets a property as a string
func (n *Node) GetPropertyString(key string) string {
	val, ok := n.GetProperty(key)
	if !ok {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// HasPosition reports whether the node carries a coordinate
func (n *Node) HasPosition() bool {
	return n.Position != nil
}

// Ghost returns a read-only external copy of the node for use as boundary context
func (n Node) Ghost() Node {
	n.IsExternal = true
	n.Pinned = false
	return n
}
