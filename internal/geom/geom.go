// Package geom holds the 2D types shared by the graph core and the canvas.
package geom

import "math"

// Point is a position or a delta in canvas space.
type Point struct {
	X float64 `toml:"x" yaml:"x" json:"x"`
	Y float64 `toml:"y" yaml:"y" json:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p*k.
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Size is a width/height pair.
type Size struct {
	W, H float64
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	Min  Point
	Size Size
}

// R builds a rectangle from its top-left corner and size.
func R(x, y, w, h float64) Rect {
	return Rect{Min: Point{X: x, Y: y}, Size: Size{W: w, H: h}}
}

// Max returns the bottom-right corner.
func (r Rect) Max() Point {
	return Point{X: r.Min.X + r.Size.W, Y: r.Min.Y + r.Size.H}
}

// Center returns the centre of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.Min.X + r.Size.W/2, Y: r.Min.Y + r.Size.H/2}
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	max := r.Max()
	return p.X >= r.Min.X && p.X < max.X &&
		p.Y >= r.Min.Y && p.Y < max.Y
}

// Translate returns r moved by d.
func (r Rect) Translate(d Point) Rect {
	r.Min = r.Min.Add(d)
	return r
}

// Bezier is a cubic curve from Start to End.
type Bezier struct {
	Start, C1, C2, End Point
}

// Tangent is the horizontal distance of the control points from the ends.
const Tangent = 50

// CurveFromOut builds the curve drawn from an output anchor to an input
// anchor: it leaves to the right and arrives from the left.
func CurveFromOut(out, in Point) Bezier {
	return Bezier{
		Start: out,
		C1:    out.Add(Pt(Tangent, 0)),
		C2:    in.Sub(Pt(Tangent, 0)),
		End:   in,
	}
}

// At evaluates the curve at t in [0, 1].
func (b Bezier) At(t float64) Point {
	u := 1 - t
	a := u * u * u
	c := 3 * u * u * t
	d := 3 * u * t * t
	e := t * t * t
	return Point{
		X: a*b.Start.X + c*b.C1.X + d*b.C2.X + e*b.End.X,
		Y: a*b.Start.Y + c*b.C1.Y + d*b.C2.Y + e*b.End.Y,
	}
}

// Midpoint is the curve point at t=0.5.
func (b Bezier) Midpoint() Point {
	return b.At(0.5)
}

// Samples returns n+1 evenly spaced points along the curve.
func (b Bezier) Samples(n int) []Point {
	if n < 1 {
		n = 1
	}
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, b.At(float64(i)/float64(n)))
	}
	return pts
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
