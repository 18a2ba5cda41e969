package geometry

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned box. Width and Height may be zero; NormalizeRect
// turns negative dimensions into positive ones.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// R is shorthand for Rect{Left: left, Top: top, Width: width, Height: height}.
func R(left, top, width, height float64) Rect {
	return Rect{Left: left, Top: top, Width: width, Height: height}
}

// RectFromPoints returns the smallest rectangle containing both points.
func RectFromPoints(p1, p2 Point) Rect {
	return Rect{
		Left:   math.Min(p1.X, p2.X),
		Top:    math.Min(p1.Y, p2.Y),
		Width:  math.Abs(p2.X - p1.X),
		Height: math.Abs(p2.Y - p1.Y),
	}
}

// Right returns Left+Width.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns Top+Height.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether p lies inside or on the boundary of r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left-Epsilon && p.X <= r.Right()+Epsilon &&
		p.Y >= r.Top-Epsilon && p.Y <= r.Bottom()+Epsilon
}

// ContainsStrict reports whether p lies strictly inside r.
func (r Rect) ContainsStrict(p Point) bool {
	return p.X > r.Left+Epsilon && p.X < r.Right()-Epsilon &&
		p.Y > r.Top+Epsilon && p.Y < r.Bottom()-Epsilon
}

// Intersects reports whether the two closed rectangles share at least one point.
func (r Rect) Intersects(o Rect) bool {
	return !(r.Right() < o.Left-Epsilon ||
		o.Right() < r.Left-Epsilon ||
		r.Bottom() < o.Top-Epsilon ||
		o.Bottom() < r.Top-Epsilon)
}

// Eq compares two rectangles within Epsilon.
func (r Rect) Eq(o Rect) bool {
	return Equal(r.Left, o.Left) && Equal(r.Top, o.Top) &&
		Equal(r.Width, o.Width) && Equal(r.Height, o.Height)
}

// OnBoundary reports whether p lies on the rectangle outline within tolerance.
func (r Rect) OnBoundary(p Point, tolerance float64) bool {
	grown := InflateRect(r, 2*tolerance, 2*tolerance)
	if !grown.Contains(p) {
		return false
	}
	return math.Abs(p.X-r.Left) <= tolerance || math.Abs(p.X-r.Right()) <= tolerance ||
		math.Abs(p.Y-r.Top) <= tolerance || math.Abs(p.Y-r.Bottom()) <= tolerance
}

func (r Rect) String() string {
	return fmt.Sprintf("[%g,%g %gx%g]", r.Left, r.Top, r.Width, r.Height)
}

// NormalizeRect returns r with non-negative Width and Height, swapping
// Left/Right or Top/Bottom when a dimension was negative.
func NormalizeRect(r Rect) Rect {
	if r.Width < 0 {
		r.Left += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Top += r.Height
		r.Height = -r.Height
	}
	return r
}

// UnionRect returns the smallest rectangle containing both a and b.
func UnionRect(a, b Rect) Rect {
	a, b = NormalizeRect(a), NormalizeRect(b)
	left := math.Min(a.Left, b.Left)
	top := math.Min(a.Top, b.Top)
	right := math.Max(a.Right(), b.Right())
	bottom := math.Max(a.Bottom(), b.Bottom())
	return Rect{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// InflateRect grows r by dx horizontally and dy vertically, each side moving by
// half of the amount. Negative values shrink; the result is normalized.
func InflateRect(r Rect, dx, dy float64) Rect {
	return NormalizeRect(Rect{
		Left:   r.Left - dx/2,
		Top:    r.Top - dy/2,
		Width:  r.Width + dx,
		Height: r.Height + dy,
	})
}

// Center returns the midpoint of r.
func Center(r Rect) Point {
	return Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// ToPolygonEx decomposes the outline of r, inset by inset on every side, into
// its top, right, bottom and left edges, each running clockwise.
// A negative inset grows the outline.
func ToPolygonEx(r Rect, inset float64) [4]Segment {
	r = InflateRect(NormalizeRect(r), -2*inset, -2*inset)
	tl := Point{X: r.Left, Y: r.Top}
	tr := Point{X: r.Right(), Y: r.Top}
	br := Point{X: r.Right(), Y: r.Bottom()}
	bl := Point{X: r.Left, Y: r.Bottom()}
	return [4]Segment{
		{A: tl, B: tr},
		{A: tr, B: br},
		{A: br, B: bl},
		{A: bl, B: tl},
	}
}
