package domain

// Position is a 2D coordinate in diagram space
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// NewPosition returns a pointer to a position, for use as an optional node field
func NewPosition(x, y float64) *Position {
	return &Position{X: x, Y: y}
}
