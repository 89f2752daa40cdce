package service

import (
	"gridview/internal/config"
	"gridview/internal/domain"
	"gridview/internal/geometry"
	"gridview/internal/layout"
	"gridview/internal/view"
)

// ViewResult is a derived projection ready for rendering
type ViewResult struct {
	Kind   view.Kind               `json:"kind"`
	Layout config.LayoutMode       `json:"layout"`
	Nodes  []domain.Node           `json:"nodes"`
	Links  []domain.Link           `json:"links"`
	Groups []domain.Group          `json:"groups"`
	Shapes map[string]geometry.Box `json:"shapes,omitempty"`
}

// View derives the projection picked by sel. An empty mode uses the configured
// layout mode. In fixed mode nodes carry pinned tree-layout coordinates and
// group outlines are computed from them; in force mode positions are whatever
// the client last stored.
func (s *DiagramService) View(sel view.Selector, mode config.LayoutMode) *ViewResult {
	if mode == "" {
		mode = s.layoutMode
	}

	s.mu.Lock()
	model := s.cache.Derive(s.history.Present(), sel)
	s.mu.Unlock()

	nodes := model.Nodes
	if mode.IsFixed() {
		nodes = layout.Apply(model.Nodes, model.Links, s.layoutOpts)
	}

	return &ViewResult{
		Kind:   model.Kind,
		Layout: mode,
		Nodes:  nodes,
		Links:  model.Links,
		Groups: model.Groups,
		Shapes: geometry.Shapes(model.Groups, nodes, s.padding),
	}
}

// CacheStats returns view cache hit and miss counters
func (s *DiagramService) CacheStats() (hits, misses int) {
	return s.cache.Stats()
}
