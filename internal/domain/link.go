package domain

import "fmt"

// Link represents a directed connection: Source feeds Target
type Link struct {
	Source     string         `json:"source" yaml:"source"`
	Target     string         `json:"target" yaml:"target"`
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`

	// IsBoundary marks links synthesized by a focus view that cross the group
	// boundary. Never persisted.
	IsBoundary bool `json:"is_boundary,omitempty" yaml:"-"`
}

// NewLink creates a new link
func NewLink(source, target string) *Link {
	return &Link{
		Source:     source,
		Target:     target,
		Properties: make(map[string]any),
	}
}

// Key returns a stable identifier for the link's endpoint pair
func (l Link) Key() string {
	return fmt.Sprintf("%s->%s", l.Source, l.Target)
}

// Involves checks if this link touches the given node ID
func (l Link) Involves(nodeID string) bool {
	return l.Source == nodeID || l.Target == nodeID
}

// OtherEnd returns the node ID on the other end of this link
func (l Link) OtherEnd(nodeID string) string {
	if l.Source == nodeID {
		return l.Target
	}
	return l.Source
}

// GetProperty gets a property value
func (l Link) GetProperty(key string) (any, bool) {
	if l.Properties == nil {
		return nil, false
	}
	val, ok := l.Properties[key]
	return val, ok
}
