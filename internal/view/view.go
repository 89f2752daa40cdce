// Package view derives alternate projections of a diagram.
//
// Three projections exist, picked by a Selector with fixed precedence
// Trace > Focus > Default:
//
//   - Default returns the diagram unchanged.
//   - Focus(group) returns the group's members, the links among them, and one
//     read-only ghost per outside node reached by a link crossing the group
//     boundary. Crossing links are marked as boundary links.
//   - Trace(node) returns everything upstream of a node: the reverse-reachable set
//     found by breadth-first search against link direction, and the links
//     traversed while searching. Group context is dropped.
//
// Derivation is pure: it never modifies the input diagram and unknown ids yield
// empty models rather than errors.
package view

import "gridview/internal/domain"

// Kind names the projection a Selector resolves to
type Kind string

const (
	KindDefault Kind = "default"
	KindFocus   Kind = "focus"
	KindTrace   Kind = "trace"
)

// Selector picks a projection. When both fields are set, TraceNode wins.
type Selector struct {
	FocusGroup string `json:"focus_group,omitempty"`
	TraceNode  string `json:"trace_node,omitempty"`
}

// Default selects the whole diagram
func Default() Selector { return Selector{} }

// Focus selects a group-focus projection
func Focus(groupID string) Selector { return Selector{FocusGroup: groupID} }

// Trace selects an upstream trace from a node
func Trace(nodeID string) Selector { return Selector{TraceNode: nodeID} }

// Kind resolves the selector's precedence
func (s Selector) Kind() Kind {
	switch {
	case s.TraceNode != "":
		return KindTrace
	case s.FocusGroup != "":
		return KindFocus
	default:
		return KindDefault
	}
}

// Model is a derived projection of a diagram
type Model struct {
	Kind   Kind           `json:"kind"`
	Nodes  []domain.Node  `json:"nodes"`
	Links  []domain.Link  `json:"links"`
	Groups []domain.Group `json:"groups"`
}

// Derive computes the projection of diagram picked by sel
func Derive(diagram *domain.Diagram, sel Selector) *Model {
	if diagram == nil {
		diagram = domain.NewDiagram()
	}
	switch sel.Kind() {
	case KindTrace:
		return deriveTrace(diagram, sel.TraceNode)
	case KindFocus:
		return deriveFocus(diagram, sel.FocusGroup)
	default:
		return &Model{
			Kind:   KindDefault,
			Nodes:  diagram.Nodes,
			Links:  diagram.Links,
			Groups: diagram.Groups,
		}
	}
}

func emptyModel(kind Kind) *Model {
	return &Model{
		Kind:   kind,
		Nodes:  []domain.Node{},
		Links:  []domain.Link{},
		Groups: []domain.Group{},
	}
}

// NodeIDs returns the model's node IDs in order
func (m *Model) NodeIDs() []string {
	ids := make([]string, 0, len(m.Nodes))
	for _, n := range m.Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

// IsEmpty reports whether the model has no nodes
func (m *Model) IsEmpty() bool {
	return len(m.Nodes) == 0
}
