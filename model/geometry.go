// Package model defines the element and geometry primitives shared across
// the layout-reconstruction pipeline.
package model

import "math"

// Point is a 2D point in normalized page space: [0,1] on each axis, origin
// top-left.
type Point struct {
	X, Y float64
}

// Distance returns the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect is a normalized rectangle: coordinates in [0,1] relative to page
// width/height, origin top-left, Y increasing downward.
type Rect struct {
	X      float64 // left
	Y      float64 // top
	Width  float64
	Height float64
}

// NewRect builds a Rect from top-left corner and dimensions.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// NewRectFromPoints builds a Rect from two opposite corners.
func NewRectFromPoints(p1, p2 Point) Rect {
	x := math.Min(p1.X, p2.X)
	y := math.Min(p1.Y, p2.Y)
	return Rect{
		X:      x,
		Y:      y,
		Width:  math.Abs(p2.X - p1.X),
		Height: math.Abs(p2.Y - p1.Y),
	}
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the rectangle's center point.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// CenterDistance is the Euclidean distance between the two rectangles' centers.
func (r Rect) CenterDistance(other Rect) float64 {
	return r.Center().Distance(other.Center())
}

// Contains reports whether p lies within the rectangle (inclusive edges).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left() && p.X <= r.Right() &&
		p.Y >= r.Top() && p.Y <= r.Bottom()
}

// Intersects reports whether the two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return !(r.Right() < other.Left() ||
		r.Left() > other.Right() ||
		r.Bottom() < other.Top() ||
		r.Top() > other.Bottom())
}

// Intersection returns the overlapping region, or the zero Rect if none.
func (r Rect) Intersection(other Rect) Rect {
	if !r.Intersects(other) {
		return Rect{}
	}
	left := math.Max(r.Left(), other.Left())
	top := math.Max(r.Top(), other.Top())
	right := math.Min(r.Right(), other.Right())
	bottom := math.Min(r.Bottom(), other.Bottom())
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// Union returns the smallest rectangle containing both inputs.
func (r Rect) Union(other Rect) Rect {
	left := math.Min(r.Left(), other.Left())
	top := math.Min(r.Top(), other.Top())
	right := math.Max(r.Right(), other.Right())
	bottom := math.Max(r.Bottom(), other.Bottom())
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// Area returns width*height; degenerate rectangles (width or height <= 0)
// have area 0.
func (r Rect) Area() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Expand grows (or shrinks, for negative margin) the rectangle by margin on
// every side.
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		X:      r.X - margin,
		Y:      r.Y - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
}

// OverlapPercentage returns the intersection area as a fraction of r's own
// area (the "incoming" rectangle in a dedup scan). This is
// deliberately asymmetric, computed relative to the receiver, not to
// min(self, other) or to other.
func (r Rect) OverlapPercentage(other Rect) float64 {
	selfArea := r.Area()
	if selfArea == 0 {
		return 0
	}
	return r.Intersection(other).Area() / selfArea
}

// VerticalGap returns the vertical distance between the two rectangles: 0
// when they overlap vertically, otherwise the gap between the nearer edges.
func (r Rect) VerticalGap(other Rect) float64 {
	if r.Bottom() < other.Top() {
		return other.Top() - r.Bottom()
	}
	if other.Bottom() < r.Top() {
		return r.Top() - other.Bottom()
	}
	return 0
}

// HorizontalGap returns the horizontal distance between the two rectangles:
// 0 when they overlap horizontally, otherwise the gap between the nearer
// edges.
func (r Rect) HorizontalGap(other Rect) float64 {
	if r.Right() < other.Left() {
		return other.Left() - r.Right()
	}
	if other.Right() < r.Left() {
		return r.Left() - other.Right()
	}
	return 0
}

// MinDistance is the minimum edge-to-edge distance between the two
// rectangles: 0 when they intersect or share an edge.
func (r Rect) MinDistance(other Rect) float64 {
	if r.Intersects(other) {
		return 0
	}
	dx := r.HorizontalGap(other)
	dy := r.VerticalGap(other)
	if dx == 0 {
		return dy
	}
	if dy == 0 {
		return dx
	}
	return math.Sqrt(dx*dx + dy*dy)
}

// AspectRatio returns width/height, or 0 when height is 0.
func (r Rect) AspectRatio() float64 {
	if r.Height == 0 {
		return 0
	}
	return r.Width / r.Height
}

// IsSquare reports whether the aspect ratio falls in [0.9, 1.1]. A
// rectangle with zero width and zero height is considered square (there is
// no elongation to detect).
func (r Rect) IsSquare() bool {
	if r.Width == 0 && r.Height == 0 {
		return true
	}
	ratio := r.AspectRatio()
	return ratio >= 0.9 && ratio <= 1.1
}

// IsWide reports whether the aspect ratio exceeds 1.2.
func (r Rect) IsWide() bool {
	return r.AspectRatio() > 1.2
}

// IsTall reports whether the aspect ratio is below 0.8 (and nonzero).
func (r Rect) IsTall() bool {
	ratio := r.AspectRatio()
	return ratio > 0 && ratio < 0.8
}

// IsEmpty reports whether the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// IsValid reports whether the rectangle has strictly positive dimensions.
func (r Rect) IsValid() bool {
	return r.Width > 0 && r.Height > 0
}

// VerticallyAligned reports whether the two rectangles' vertical centers
// coincide within tolerance. This is the same-line test used by the
// fuser and merger.
func (r Rect) VerticallyAligned(other Rect, tolerance float64) bool {
	return math.Abs(r.Center().Y-other.Center().Y) <= tolerance
}

// HorizontallyAligned reports whether the two rectangles' horizontal
// centers coincide within tolerance.
func (r Rect) HorizontallyAligned(other Rect, tolerance float64) bool {
	return math.Abs(r.Center().X-other.Center().X) <= tolerance
}

// Above reports whether r lies above other (smaller Y) within tolerance.
func (r Rect) Above(other Rect, tolerance float64) bool {
	return r.Bottom() <= other.Top()+tolerance
}

// Below reports whether r lies below other within tolerance.
func (r Rect) Below(other Rect, tolerance float64) bool {
	return r.Top() >= other.Bottom()-tolerance
}

// LeftOf reports whether r lies to the left of other within tolerance.
func (r Rect) LeftOf(other Rect, tolerance float64) bool {
	return r.Right() <= other.Left()+tolerance
}

// RightOf reports whether r lies to the right of other within tolerance.
func (r Rect) RightOf(other Rect, tolerance float64) bool {
	return r.Left() >= other.Right()-tolerance
}
