// Package geometry computes the numeric outline of groups from node positions.
// Turning a box into a drawn hull and placing the group label is left to the
// renderer.
package geometry

import (
	"math"

	"gridview/internal/domain"
)

const (
	// NodeRadius is the rendered radius of a component icon
	NodeRadius = 24.0
	// DefaultPadding keeps icons, not just their centres, inside the outline
	DefaultPadding = 30.0
)

// Box is an axis-aligned rectangle
type Box struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns the horizontal extent
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Center returns the midpoint of the box
func (b Box) Center() domain.Position {
	return domain.Position{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Contains reports whether p lies inside the box, edges included
func (b Box) Contains(p domain.Position) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// EffectivePadding returns padding, raised to DefaultPadding when it would not
// clear half a node radius
func EffectivePadding(padding float64) float64 {
	if padding <= NodeRadius/2 {
		return DefaultPadding
	}
	return padding
}

// GroupBounds returns the padded bounding box of the group's positioned, non-ghost
// members among nodes. ok is false when no member has a position.
func GroupBounds(group domain.Group, nodes []domain.Node, padding float64) (box Box, ok bool) {
	members := group.MemberSet()
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for _, n := range nodes {
		if n.IsExternal || n.Position == nil {
			continue
		}
		if _, in := members[n.ID]; !in {
			continue
		}
		minX = math.Min(minX, n.Position.X)
		minY = math.Min(minY, n.Position.Y)
		maxX = math.Max(maxX, n.Position.X)
		maxY = math.Max(maxY, n.Position.Y)
		ok = true
	}
	if !ok {
		return Box{}, false
	}

	pad := EffectivePadding(padding)
	return Box{
		MinX: minX - pad,
		MinY: minY - pad,
		MaxX: maxX + pad,
		MaxY: maxY + pad,
	}, true
}

// Shapes computes the box of every group that has at least one positioned member.
// Groups without a shape are omitted.
func Shapes(groups []domain.Group, nodes []domain.Node, padding float64) map[string]Box {
	shapes := make(map[string]Box, len(groups))
	for _, g := range groups {
		if box, ok := GroupBounds(g, nodes, padding); ok {
			shapes[g.ID] = box
		}
	}
	return shapes
}
