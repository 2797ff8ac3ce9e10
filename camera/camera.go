// Package camera provides a pan/zoom viewport onto the noise lattice.
package camera

import (
	"math"

	"github.com/pthm-cable/perlin/field"
	"github.com/pthm-cable/perlin/noise"
)

// Camera controls the viewport into the lattice. The lattice repeats every
// noise.Period units on both axes, so positions wrap like a torus.
type Camera struct {
	// Position is the camera center in lattice coordinates
	X, Y float64

	// Zoom is screen pixels per lattice unit
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// Zoom constraints
	MinZoom, MaxZoom float64

	defaultZoom float64
}

// New creates a camera centered on the origin cell with the given zoom.
func New(viewportW, viewportH, zoom float64) *Camera {
	// At zoom Z the visible width is viewportW/Z; it must not exceed one period
	minZoom := math.Max(viewportW, viewportH) / noise.Period

	c := &Camera{
		ViewportW:   viewportW,
		ViewportH:   viewportH,
		MinZoom:     minZoom,
		MaxZoom:     512,
		defaultZoom: zoom,
	}
	c.Reset()
	return c
}

// LatticeToScreen converts lattice coordinates to screen coordinates,
// using the wrapped copy of the point closest to the camera.
func (c *Camera) LatticeToScreen(lx, ly float64) (sx, sy float64) {
	dx := toroidalDelta(lx, c.X)
	dy := toroidalDelta(ly, c.Y)

	sx = c.ViewportW/2 + dx*c.Zoom
	sy = c.ViewportH/2 + dy*c.Zoom
	return sx, sy
}

// ScreenToLattice converts screen coordinates to lattice coordinates in [0, Period).
func (c *Camera) ScreenToLattice(sx, sy float64) (lx, ly float64) {
	dx := (sx - c.ViewportW/2) / c.Zoom
	dy := (sy - c.ViewportH/2) / c.Zoom

	lx = wrap(c.X + dx)
	ly = wrap(c.Y + dy)
	return lx, ly
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float64) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = math.Max(viewportW, viewportH) / noise.Period
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float64) {
	c.X = wrap(c.X + dx/c.Zoom)
	c.Y = wrap(c.Y + dy/c.Zoom)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the origin cell and the initial zoom.
func (c *Camera) Reset() {
	c.X = 0.5
	c.Y = 0.5
	c.SetZoom(c.defaultZoom)
}

// VisibleBounds returns the lattice-coordinate bounds of the visible area,
// unwrapped: min may be negative and max may exceed Period.
func (c *Camera) VisibleBounds() (minX, minY, maxX, maxY float64) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// Slice returns a sampling grid of width x height covering the visible
// area on the plane z. Cells are square, sized by the viewport width.
func (c *Camera) Slice(width, height int, z float64) field.Spec {
	minX, minY, maxX, _ := c.VisibleBounds()
	return field.Spec{
		Width:   width,
		Height:  height,
		OriginX: minX,
		OriginY: minY,
		Z:       z,
		Scale:   (maxX - minX) / float64(width),
	}
}

// toroidalDelta computes the shortest signed distance from 'from' to 'to'
// on the periodic lattice.
func toroidalDelta(to, from float64) float64 {
	d := math.Mod(to-from, noise.Period)
	if d > noise.Period/2 {
		d -= noise.Period
	} else if d < -noise.Period/2 {
		d += noise.Period
	}
	return d
}

// wrap maps x into [0, Period).
func wrap(x float64) float64 {
	r := math.Mod(x, noise.Period)
	if r < 0 {
		r += noise.Period
	}
	return r
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
