// Package geometry provides the 2D axis-aligned primitives used by the
// clash detection and zone optimization engine. All coordinates are in
// inches (drawing units).
package geometry

import "math"

// Point represents a 2D coordinate in inches.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect represents an axis-aligned bounding box. Width and Height are
// always non-negative for rects produced by this package.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect builds a rect from an origin and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Center returns the centroid of the rect.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Area returns the rect area.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// Right returns the maximum X coordinate.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the maximum Y coordinate.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Overlaps reports whether the interiors of a and b intersect.
// Rects that merely touch along an edge do not overlap.
func Overlaps(a, b Rect) bool {
	return a.X < b.Right() && a.Right() > b.X &&
		a.Y < b.Bottom() && a.Bottom() > b.Y
}

// Distance returns the Euclidean distance between two points.
func Distance(p, q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Expand grows the rect symmetrically by margin on all four sides.
// A negative margin shrinks the rect; dimensions are clamped at zero.
func Expand(r Rect, margin float64) Rect {
	w := r.Width + 2*margin
	h := r.Height + 2*margin
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{X: r.X - margin, Y: r.Y - margin, Width: w, Height: h}
}

// Contains reports whether outer fully contains inner (edges inclusive).
func Contains(outer, inner Rect) bool {
	return outer.X <= inner.X && outer.Y <= inner.Y &&
		outer.Right() >= inner.Right() &&
		outer.Bottom() >= inner.Bottom()
}

// ContainsPoint reports whether the rect contains the point (edges inclusive).
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Union returns the minimum rect covering both a and b.
func Union(a, b Rect) Rect {
	x := math.Min(a.X, b.X)
	y := math.Min(a.Y, b.Y)
	right := math.Max(a.Right(), b.Right())
	bottom := math.Max(a.Bottom(), b.Bottom())
	return Rect{X: x, Y: y, Width: right - x, Height: bottom - y}
}

// Intersection returns the overlapping region of a and b. The second
// return value is false when the rects do not overlap.
func Intersection(a, b Rect) (Rect, bool) {
	x := math.Max(a.X, b.X)
	y := math.Max(a.Y, b.Y)
	right := math.Min(a.Right(), b.Right())
	bottom := math.Min(a.Bottom(), b.Bottom())
	if right <= x || bottom <= y {
		return Rect{}, false
	}
	return Rect{X: x, Y: y, Width: right - x, Height: bottom - y}, true
}

// DistanceToRect computes the minimum distance from a point to the
// boundary of a rect. Returns 0 if the point is inside the rect.
func DistanceToRect(p Point, r Rect) float64 {
	nearestX := math.Max(r.X, math.Min(p.X, r.Right()))
	nearestY := math.Max(r.Y, math.Min(p.Y, r.Bottom()))
	dx := p.X - nearestX
	dy := p.Y - nearestY
	return math.Sqrt(dx*dx + dy*dy)
}

// MinTranslation returns the smallest translation vector that, applied
// to b, eliminates its overlap with a. The vector pushes b out along
// the axis of least penetration. Returns a zero vector when the rects
// do not overlap.
func MinTranslation(a, b Rect) Point {
	if !Overlaps(a, b) {
		return Point{}
	}

	// Penetration depth along each axis in each direction.
	pushRight := a.Right() - b.X  // move b in +X
	pushLeft := b.Right() - a.X   // move b in -X
	pushDown := a.Bottom() - b.Y  // move b in +Y
	pushUp := b.Bottom() - a.Y    // move b in -Y

	dx := pushRight
	if pushLeft < pushRight {
		dx = -pushLeft
	}
	dy := pushDown
	if pushUp < pushDown {
		dy = -pushUp
	}

	if math.Abs(dx) <= math.Abs(dy) {
		return Point{X: dx}
	}
	return Point{Y: dy}
}

// Valid reports whether the rect has finite coordinates and
// non-negative dimensions.
func (r Rect) Valid() bool {
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.Width >= 0 && r.Height >= 0
}
