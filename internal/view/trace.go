package view

import "gridview/internal/domain"

// deriveTrace walks links backwards from start. Every incoming link of a dequeued
// node is traversed and kept; since each node is dequeued once, converging paths
// never duplicate a link or a node.
func deriveTrace(d *domain.Diagram, start string) *Model {
	model := emptyModel(KindTrace)

	byID := make(map[string]int, len(d.Nodes))
	for i, n := range d.Nodes {
		byID[n.ID] = i
	}
	if _, ok := byID[start]; !ok {
		return model
	}

	// target -> indexes of incoming links, in declaration order
	incoming := make(map[string][]int)
	for i, l := range d.Links {
		incoming[l.Target] = append(incoming[l.Target], i)
	}

	visited := map[string]bool{start: true}
	queue := []string{start}
	model.Nodes = append(model.Nodes, d.Nodes[byID[start]])

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, li := range incoming[current] {
			link := d.Links[li]
			idx, ok := byID[link.Source]
			if !ok {
				continue
			}
			model.Links = append(model.Links, link)
			if visited[link.Source] {
				continue
			}
			visited[link.Source] = true
			queue = append(queue, link.Source)
			model.Nodes = append(model.Nodes, d.Nodes[idx])
		}
	}

	return model
}
