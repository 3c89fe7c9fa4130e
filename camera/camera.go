// Package camera maps between screen pixels and grid space for a viewer of
// the simulation. It holds no simulation state; callers feed it held keys,
// wheel events and frame deltas.
package camera

import (
	"math"

	"github.com/pthm-cable/cellgrid/components"
)

// Key is an input the camera reacts to while held.
type Key uint8

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyZoomIn
	KeyZoomOut
)

// KeySet is the set of keys held this frame.
type KeySet uint8

// With returns the set plus k.
func (s KeySet) With(k Key) KeySet { return s | 1<<k }

// Has reports whether k is held.
func (s KeySet) Has(k Key) bool { return s&(1<<k) != 0 }

// Camera controls the viewport into the grid. The world is bounded; the
// view center stays inside it and the zoom never drops below the level at
// which the whole grid fits on screen.
type Camera struct {
	// Position is the camera center in grid units
	X, Y float64

	// Zoom is screen pixels per grid unit
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// World dimensions in grid units
	WorldW, WorldH float64

	// Zoom constraints
	MinZoom, MaxZoom float64

	// PanSpeed is screen pixels per second while a direction key is held.
	PanSpeed float64
	// ZoomRate is the fractional zoom change per second while a zoom key is held.
	ZoomRate float64
}

// New creates a camera centered on the grid, zoomed out to show all of it.
func New(viewportW, viewportH, worldW, worldH float64) *Camera {
	c := &Camera{
		X:         worldW / 2,
		Y:         worldH / 2,
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MaxZoom:   256,
		PanSpeed:  600,
		ZoomRate:  2,
	}
	c.MinZoom = c.fitZoom()
	c.Zoom = c.MinZoom
	return c
}

func (c *Camera) fitZoom() float64 {
	return math.Min(c.ViewportW/c.WorldW, c.ViewportH/c.WorldH)
}

// GridToScreen converts grid coordinates to screen pixels.
func (c *Camera) GridToScreen(gx, gy float64) (sx, sy float64) {
	sx = c.ViewportW/2 + (gx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (gy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToGrid converts screen pixels to grid coordinates. The result may
// lie outside the grid.
func (c *Camera) ScreenToGrid(sx, sy float64) (gx, gy float64) {
	gx = c.X + (sx-c.ViewportW/2)/c.Zoom
	gy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return gx, gy
}

// Update applies held keys for a frame of dt seconds.
func (c *Camera) Update(keys KeySet, dt float64) {
	var dx, dy float64
	step := c.PanSpeed * dt
	if keys.Has(KeyLeft) {
		dx -= step
	}
	if keys.Has(KeyRight) {
		dx += step
	}
	if keys.Has(KeyUp) {
		dy -= step
	}
	if keys.Has(KeyDown) {
		dy += step
	}
	if dx != 0 || dy != 0 {
		c.Pan(dx, dy)
	}

	switch {
	case keys.Has(KeyZoomIn) && !keys.Has(KeyZoomOut):
		c.ZoomAt(c.ViewportW/2, c.ViewportH/2, 1+c.ZoomRate*dt)
	case keys.Has(KeyZoomOut) && !keys.Has(KeyZoomIn):
		c.ZoomAt(c.ViewportW/2, c.ViewportH/2, 1/(1+c.ZoomRate*dt))
	}
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float64) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	c.clampCenter()
}

// ZoomAt scales the zoom by factor keeping the grid point under the screen
// position (sx, sy) fixed, as for a mouse wheel.
func (c *Camera) ZoomAt(sx, sy, factor float64) {
	gx, gy := c.ScreenToGrid(sx, sy)
	c.Zoom = clamp(c.Zoom*factor, c.MinZoom, c.MaxZoom)
	// Move the center so (gx, gy) maps back to (sx, sy).
	c.X = gx - (sx-c.ViewportW/2)/c.Zoom
	c.Y = gy - (sy-c.ViewportH/2)/c.Zoom
	c.clampCenter()
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float64) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.fitZoom()
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	c.clampCenter()
}

// Reset centers the camera and zooms out fully.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = c.MinZoom
}

// VisibleCells returns the inclusive range of grid cells at least partly on
// screen, clamped to the grid. Renderers iterate buckets in this range.
func (c *Camera) VisibleCells() (x0, y0, x1, y1 int) {
	minX, minY := c.ScreenToGrid(0, 0)
	maxX, maxY := c.ScreenToGrid(c.ViewportW, c.ViewportH)
	w, h := int(c.WorldW), int(c.WorldH)
	x0 = clampInt(int(math.Floor(minX)), 0, w-1)
	y0 = clampInt(int(math.Floor(minY)), 0, h-1)
	x1 = clampInt(int(math.Floor(maxX)), 0, w-1)
	y1 = clampInt(int(math.Floor(maxY)), 0, h-1)
	return x0, y0, x1, y1
}

// Picker resolves a grid-space point to the entity under it.
type Picker interface {
	PickAt(x, y float64) (components.EntityID, bool)
}

// Pick returns the entity under the screen position (sx, sy).
func (c *Camera) Pick(p Picker, sx, sy float64) (components.EntityID, bool) {
	gx, gy := c.ScreenToGrid(sx, sy)
	return p.PickAt(gx, gy)
}

func (c *Camera) clampCenter() {
	c.X = clamp(c.X, 0, c.WorldW)
	c.Y = clamp(c.Y, 0, c.WorldH)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
