package components

import "math"

// Body holds the positional record shared by every entity kind.
// GridX/GridY cache the bucket the entity was last filed under in the
// spatial index; only the store's sync pass may change them.
type Body struct {
	X, Y          float64 // grid-space position
	Width, Height float64
	GridX, GridY  int
	// ShouldBeRemoved marks the entity for removal at the next sync.
	ShouldBeRemoved bool
}

// NewBody creates a body at (x, y) with its bucket cache seeded from the position.
func NewBody(x, y, width, height float64) Body {
	return Body{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
		GridX:  int(math.Floor(x)),
		GridY:  int(math.Floor(y)),
	}
}

// DistanceTo returns the center-to-center distance to another body.
func (b *Body) DistanceTo(other *Body) float64 {
	return math.Hypot(other.X-b.X, other.Y-b.Y)
}

// Contains reports whether (x, y) lies inside the body's footprint, using the
// normalized distance test |((x-X)/W, (y-Y)/H)| <= 0.5.
func (b *Body) Contains(x, y float64) bool {
	return b.NormalizedDistance(x, y) <= 0.5
}

// NormalizedDistance returns the distance from the body center to (x, y)
// with each axis scaled by the body's size.
func (b *Body) NormalizedDistance(x, y float64) float64 {
	if b.Width <= 0 || b.Height <= 0 {
		return math.Inf(1)
	}
	return math.Hypot((x-b.X)/b.Width, (y-b.Y)/b.Height)
}
