package domain

// Diagram is the complete editable graph: nodes, the links between them and the
// groups clustering them
type Diagram struct {
	Nodes  []Node  `json:"nodes" yaml:"nodes"`
	Links  []Link  `json:"links" yaml:"links"`
	Groups []Group `json:"groups" yaml:"groups"`
}

// NewDiagram creates an empty diagram with initialized collections
func NewDiagram() *Diagram {
	return &Diagram{
		Nodes:  make([]Node, 0),
		Links:  make([]Link, 0),
		Groups: make([]Group, 0),
	}
}

// NodeIndex returns the position of the node with the given ID, or -1
func (d *Diagram) NodeIndex(id string) int {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return i
		}
	}
	return -1
}

// GetNode returns a node by ID
func (d *Diagram) GetNode(id string) (Node, bool) {
	if i := d.NodeIndex(id); i >= 0 {
		return d.Nodes[i], true
	}
	return Node{}, false
}

// HasNode reports whether a node with the given ID exists
func (d *Diagram) HasNode(id string) bool {
	return d.NodeIndex(id) >= 0
}

// GroupIndex returns the position of the group with the given ID, or -1
func (d *Diagram) GroupIndex(id string) int {
	for i := range d.Groups {
		if d.Groups[i].ID == id {
			return i
		}
	}
	return -1
}

// GetGroup returns a group by ID
func (d *Diagram) GetGroup(id string) (Group, bool) {
	if i := d.GroupIndex(id); i >= 0 {
		return d.Groups[i], true
	}
	return Group{}, false
}

// LinkIndex returns the position of the first link from source to target, or -1
func (d *Diagram) LinkIndex(source, target string) int {
	for i := range d.Links {
		if d.Links[i].Source == source && d.Links[i].Target == target {
			return i
		}
	}
	return -1
}

// NodeSet returns the set of node IDs present in the diagram
func (d *Diagram) NodeSet() map[string]struct{} {
	set := make(map[string]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		set[n.ID] = struct{}{}
	}
	return set
}

// GroupsOf returns the IDs of every group listing nodeID as a member
func (d *Diagram) GroupsOf(nodeID string) []string {
	var ids []string
	for _, g := range d.Groups {
		if g.Has(nodeID) {
			ids = append(ids, g.ID)
		}
	}
	return ids
}

// CountType returns how many nodes have the given type
func (d *Diagram) CountType(t NodeType) int {
	count := 0
	for _, n := range d.Nodes {
		if n.Type == t {
			count++
		}
	}
	return count
}
