// Package viewport implements the zoom/pan camera the canvas uses to map
// pointer positions into graph space. The graph core only consumes the
// transform; it never changes it.
package viewport

import "github.com/msalah0e/towergraph/internal/geom"

// Zoom limits. Config may narrow them but never widen them.
const (
	MinZoom = 0.1
	MaxZoom = 5.0

	// DefaultZoomSpeed divides the raw scroll delta.
	DefaultZoomSpeed = 150.0
)

// Viewport holds the zoom factor and the world-space origin shown at the
// top-left of the drawing area.
type Viewport struct {
	zoom   float64
	origin geom.Point
	area   geom.Point
	min    float64
	max    float64
	speed  float64
}

// New returns a viewport at zoom 1 with the default limits.
func New() *Viewport {
	return &Viewport{zoom: 1, min: MinZoom, max: MaxZoom, speed: DefaultZoomSpeed}
}

// SetLimits narrows the zoom range. Values outside [MinZoom, MaxZoom] are
// clamped; an empty range is ignored.
func (v *Viewport) SetLimits(min, max float64) {
	min = geom.Clamp(min, MinZoom, MaxZoom)
	max = geom.Clamp(max, MinZoom, MaxZoom)
	if min >= max {
		return
	}
	v.min, v.max = min, max
	v.zoom = geom.Clamp(v.zoom, v.min, v.max)
}

// SetSpeed sets the scroll divisor. Non-positive values are ignored.
func (v *Viewport) SetSpeed(speed float64) {
	if speed > 0 {
		v.speed = speed
	}
}

// SetArea moves the top-left corner of the drawing area in screen space.
func (v *Viewport) SetArea(topLeft geom.Point) {
	v.area = topLeft
}

// Zoom returns the current zoom factor.
func (v *Viewport) Zoom() float64 {
	return v.zoom
}

// Origin returns the world point at the area's top-left corner.
func (v *Viewport) Origin() geom.Point {
	return v.origin
}

// ScreenToWorld maps a screen position into graph space.
func (v *Viewport) ScreenToWorld(p geom.Point) geom.Point {
	return p.Sub(v.area).Scale(1 / v.zoom).Add(v.origin)
}

// WorldToScreen maps a graph position onto the screen.
func (v *Viewport) WorldToScreen(p geom.Point) geom.Point {
	return p.Sub(v.origin).Scale(v.zoom).Add(v.area)
}

// ScreenDelta converts a screen-space drag delta into graph space.
func (v *Viewport) ScreenDelta(d geom.Point) geom.Point {
	return d.Scale(1 / v.zoom)
}

// Scroll zooms about the screen position at. A negative delta.Y zooms in.
// The world point under the cursor stays under the cursor.
func (v *Viewport) Scroll(at, delta geom.Point) {
	mouse := v.ScreenToWorld(at)
	old := v.zoom
	v.zoom = geom.Clamp(v.zoom-delta.Y/v.speed, v.min, v.max)

	rel := mouse.Sub(v.origin)
	v.origin = v.origin.Add(rel.Sub(rel.Scale(old / v.zoom)))
}

// Pan drags the view by a screen-space delta: content follows the pointer.
func (v *Viewport) Pan(delta geom.Point) {
	v.origin = v.origin.Sub(v.ScreenDelta(delta))
}

// Reset returns to zoom 1 at the world origin.
func (v *Viewport) Reset() {
	v.zoom = geom.Clamp(1, v.min, v.max)
	v.origin = geom.Point{}
}

// Restore jumps to a previously recorded zoom and origin. The zoom is
// clamped to the current limits; a non-positive zoom is ignored.
func (v *Viewport) Restore(zoom float64, origin geom.Point) {
	if zoom <= 0 {
		return
	}
	v.zoom = geom.Clamp(zoom, v.min, v.max)
	v.origin = origin
}
