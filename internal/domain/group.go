package domain

// Group is a named cluster of nodes. Members may reference nodes that no longer
// exist; consumers skip them.
type Group struct {
	ID      string   `json:"id" yaml:"id"`
	Label   string   `json:"label" yaml:"label"`
	Members []string `json:"members" yaml:"members"`
}

// Has reports whether nodeID is listed as a member
func (g Group) Has(nodeID string) bool {
	for _, m := range g.Members {
		if m == nodeID {
			return true
		}
	}
	return false
}

// MemberSet returns the members as a set
func (g Group) MemberSet() map[string]struct{} {
	set := make(map[string]struct{}, len(g.Members))
	for _, m := range g.Members {
		set[m] = struct{}{}
	}
	return set
}

// dedupeMembers drops empty and repeated ids, keeping first occurrences in order
func dedupeMembers(members []string) []string {
	seen := make(map[string]bool, len(members))
	out := make([]string, 0, len(members))
	for _, m := range members {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
