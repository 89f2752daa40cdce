package domain

import (
	"maps"
	"reflect"
	"slices"
	"strconv"

	"github.com/google/uuid"
)

// Edit operations. Each returns a new Snapshot sharing every collection it did not
// touch, or the receiver itself when the edit would change nothing. Shared slices
// are never appended to in place.

// AddNode adds a node of the given type with a generated ID and a default label
// built from the registry ("Transformer 3"). It returns the new snapshot and the
// node ID.
func (s *Snapshot) AddNode(t NodeType, pos *Position) (*Snapshot, string) {
	if t == "" {
		return s, ""
	}
	node := NewNode(uuid.NewString(), t, s.DefaultLabel(t))
	if pos != nil {
		p := *pos
		node.Position = &p
	}
	return s.InsertNode(*node), node.ID
}

// DefaultLabel returns the label a new node of type t would receive
func (s *Snapshot) DefaultLabel(t NodeType) string {
	return s.registry.Label(t) + " " + strconv.Itoa(s.diagram.CountType(t)+1)
}

// InsertNode adds a fully specified node. Empty or duplicate IDs are ignored.
func (s *Snapshot) InsertNode(node Node) *Snapshot {
	if node.ID == "" || s.diagram.HasNode(node.ID) {
		return s
	}
	node.IsExternal = false
	node.Pinned = false
	d := *s.diagram
	d.Nodes = append(slices.Clone(s.diagram.Nodes), node)
	return s.withDiagram(&d)
}

// UpdateNode changes a node's label and/or properties. An empty label keeps the
// current one; nil properties keep the current ones.
func (s *Snapshot) UpdateNode(id, label string, properties map[string]any) *Snapshot {
	i := s.diagram.NodeIndex(id)
	if i < 0 {
		return s
	}
	current := s.diagram.Nodes[i]
	updated := current
	if label != "" {
		updated.Label = label
	}
	if properties != nil {
		updated.Properties = maps.Clone(properties)
	}
	if updated.Label == current.Label && (properties == nil || reflect.DeepEqual(current.Properties, updated.Properties)) {
		return s
	}
	return s.replaceNode(i, updated)
}

// MoveNode sets a node's position
func (s *Snapshot) MoveNode(id string, pos Position) *Snapshot {
	i := s.diagram.NodeIndex(id)
	if i < 0 {
		return s
	}
	current := s.diagram.Nodes[i]
	if current.Position != nil && *current.Position == pos {
		return s
	}
	updated := current
	updated.Position = &pos
	return s.replaceNode(i, updated)
}

func (s *Snapshot) replaceNode(i int, node Node) *Snapshot {
	d := *s.diagram
	d.Nodes = slices.Clone(s.diagram.Nodes)
	d.Nodes[i] = node
	return s.withDiagram(&d)
}

// RemoveNode deletes a node together with every link touching it and every group
// membership naming it
func (s *Snapshot) RemoveNode(id string) *Snapshot {
	i := s.diagram.NodeIndex(id)
	if i < 0 {
		return s
	}
	d := *s.diagram
	d.Nodes = slices.Delete(slices.Clone(s.diagram.Nodes), i, i+1)

	if slices.ContainsFunc(s.diagram.Links, func(l Link) bool { return l.Involves(id) }) {
		d.Links = slices.DeleteFunc(slices.Clone(s.diagram.Links), func(l Link) bool { return l.Involves(id) })
	}

	if slices.ContainsFunc(s.diagram.Groups, func(g Group) bool { return g.Has(id) }) {
		groups := slices.Clone(s.diagram.Groups)
		for gi := range groups {
			if groups[gi].Has(id) {
				groups[gi].Members = slices.DeleteFunc(slices.Clone(groups[gi].Members), func(m string) bool { return m == id })
			}
		}
		d.Groups = groups
	}

	return s.withDiagram(&d)
}

// AddLink connects source to target. Missing endpoints and exact duplicates are
// ignored.
func (s *Snapshot) AddLink(source, target string, properties map[string]any) *Snapshot {
	if !s.diagram.HasNode(source) || !s.diagram.HasNode(target) {
		return s
	}
	if s.diagram.LinkIndex(source, target) >= 0 {
		return s
	}
	link := NewLink(source, target)
	if properties != nil {
		link.Properties = maps.Clone(properties)
	}
	d := *s.diagram
	d.Links = append(slices.Clone(s.diagram.Links), *link)
	return s.withDiagram(&d)
}

// RemoveLink deletes every link from source to target
func (s *Snapshot) RemoveLink(source, target string) *Snapshot {
	match := func(l Link) bool { return l.Source == source && l.Target == target }
	if !slices.ContainsFunc(s.diagram.Links, match) {
		return s
	}
	d := *s.diagram
	d.Links = slices.DeleteFunc(slices.Clone(s.diagram.Links), match)
	return s.withDiagram(&d)
}

// AddGroup creates a group with a generated ID. It returns the new snapshot and the
// group ID.
func (s *Snapshot) AddGroup(label string, members []string) (*Snapshot, string) {
	group := Group{
		ID:      uuid.NewString(),
		Label:   label,
		Members: dedupeMembers(members),
	}
	d := *s.diagram
	d.Groups = append(slices.Clone(s.diagram.Groups), group)
	return s.withDiagram(&d), group.ID
}

// RenameGroup changes a group's label
func (s *Snapshot) RenameGroup(id, label string) *Snapshot {
	i := s.diagram.GroupIndex(id)
	if i < 0 || s.diagram.Groups[i].Label == label {
		return s
	}
	d := *s.diagram
	d.Groups = slices.Clone(s.diagram.Groups)
	d.Groups[i].Label = label
	return s.withDiagram(&d)
}

// SetGroupMembers replaces a group's member list. Duplicates are dropped, order is
// preserved.
func (s *Snapshot) SetGroupMembers(id string, members []string) *Snapshot {
	i := s.diagram.GroupIndex(id)
	if i < 0 {
		return s
	}
	members = dedupeMembers(members)
	if slices.Equal(s.diagram.Groups[i].Members, members) {
		return s
	}
	d := *s.diagram
	d.Groups = slices.Clone(s.diagram.Groups)
	d.Groups[i].Members = members
	return s.withDiagram(&d)
}

// RemoveGroup deletes a group. Its member nodes are left untouched.
func (s *Snapshot) RemoveGroup(id string) *Snapshot {
	i := s.diagram.GroupIndex(id)
	if i < 0 {
		return s
	}
	d := *s.diagram
	d.Groups = slices.Delete(slices.Clone(s.diagram.Groups), i, i+1)
	return s.withDiagram(&d)
}

// RegisterType adds a component type or relabels an existing one
func (s *Snapshot) RegisterType(t NodeType, label string) *Snapshot {
	if t == "" {
		return s
	}
	types := s.registry.Types
	i := slices.IndexFunc(types, func(ct ComponentType) bool { return ct.Type == t })
	if i >= 0 && types[i].Label == label {
		return s
	}
	next := slices.Clone(types)
	if i >= 0 {
		next[i].Label = label
	} else {
		next = append(next, ComponentType{Type: t, Label: label})
	}
	return s.withRegistry(&ComponentTypeRegistry{Types: next})
}

// UnregisterType removes a component type from the registry. Nodes of that type are
// kept; their type simply stops resolving to a label.
func (s *Snapshot) UnregisterType(t NodeType) *Snapshot {
	match := func(ct ComponentType) bool { return ct.Type == t }
	if !slices.ContainsFunc(s.registry.Types, match) {
		return s
	}
	next := slices.DeleteFunc(slices.Clone(s.registry.Types), match)
	return s.withRegistry(&ComponentTypeRegistry{Types: next})
}
