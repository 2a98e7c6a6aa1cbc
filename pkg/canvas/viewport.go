// Package canvas implements the interactive scene engine: the pan/zoom
// viewport, selection state, the pointer drag gesture machine and the
// deterministic placement functions for newly inserted relatives.
//
// Everything here is plain state + pure math with no I/O; the UI layer feeds
// it pointer events and applies the results.
package canvas

import "math"

// Scale limits for the viewport. Zooming clamps into this range; panning is
// unbounded (infinite canvas).
const (
	MinScale = 0.2
	MaxScale = 3.0
)

// Wheel zoom factors per tick.
const (
	ZoomInFactor  = 1.1
	ZoomOutFactor = 0.9
)

// Point is a 2-D coordinate, in screen or scene space depending on context.
type Point struct {
	X, Y float64
}

// Viewport is the transform from scene space to screen space:
// screen = scene*Scale + (X, Y).
type Viewport struct {
	X     float64
	Y     float64
	Scale float64
}

// NewViewport returns an identity viewport.
func NewViewport() *Viewport {
	return &Viewport{Scale: 1}
}

// ClampScale clamps s into [MinScale, MaxScale].
func ClampScale(s float64) float64 {
	if math.IsNaN(s) {
		return 1
	}
	return math.Min(MaxScale, math.Max(MinScale, s))
}

// Pan translates the viewport by a screen-space delta. No clamping.
func (v *Viewport) Pan(dx, dy float64) {
	v.X += dx
	v.Y += dy
}

// ZoomAt rescales around a screen point so that the scene point currently
// under it stays under it after the zoom.
func (v *Viewport) ZoomAt(screen Point, factor float64) {
	old := v.Scale
	next := ClampScale(old * factor)
	if next == old {
		return
	}
	ratio := next / old
	v.X = screen.X - (screen.X-v.X)*ratio
	v.Y = screen.Y - (screen.Y-v.Y)*ratio
	v.Scale = next
}

// ToScene inverse-transforms a screen coordinate into scene space. Drag
// distances are always measured in scene space so a gesture behaves the same
// at any zoom level.
func (v *Viewport) ToScene(screen Point) Point {
	return Point{
		X: (screen.X - v.X) / v.Scale,
		Y: (screen.Y - v.Y) / v.Scale,
	}
}

// ToScreen transforms a scene coordinate into screen space.
func (v *Viewport) ToScreen(scene Point) Point {
	return Point{
		X: scene.X*v.Scale + v.X,
		Y: scene.Y*v.Scale + v.Y,
	}
}

// Center resets to the initial view: unit scale, horizontally centered, with
// a fixed top offset so the root generation sits near the top of the screen.
func (v *Viewport) Center(containerWidth, containerHeight float64) {
	_ = containerHeight
	v.Scale = 1
	v.X = containerWidth / 2
	v.Y = 100
}
