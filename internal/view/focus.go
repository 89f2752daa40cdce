package view

import "gridview/internal/domain"

// deriveFocus projects a group with one level of outside context. Only members
// that resolve to nodes take part; links to dangling ids are skipped.
func deriveFocus(d *domain.Diagram, groupID string) *Model {
	model := emptyModel(KindFocus)

	group, ok := d.GetGroup(groupID)
	if !ok {
		return model
	}

	byID := make(map[string]int, len(d.Nodes))
	for i, n := range d.Nodes {
		byID[n.ID] = i
	}

	members := make(map[string]bool, len(group.Members))
	for _, id := range group.Members {
		if _, exists := byID[id]; exists {
			members[id] = true
		}
	}

	for _, n := range d.Nodes {
		if members[n.ID] {
			model.Nodes = append(model.Nodes, n)
		}
	}

	var boundary []domain.Link
	ghosted := make(map[string]bool)
	for _, l := range d.Links {
		srcIn, dstIn := members[l.Source], members[l.Target]
		switch {
		case srcIn && dstIn:
			model.Links = append(model.Links, l)
		case srcIn != dstIn:
			outside := l.Target
			if dstIn {
				outside = l.Source
			}
			idx, exists := byID[outside]
			if !exists {
				continue
			}
			if !ghosted[outside] {
				ghosted[outside] = true
				model.Nodes = append(model.Nodes, d.Nodes[idx].Ghost())
			}
			l.IsBoundary = true
			boundary = append(boundary, l)
		}
	}
	model.Links = append(model.Links, boundary...)
	model.Groups = append(model.Groups, group)

	return model
}
