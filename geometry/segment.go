package geometry

import "math"

// Segment is the straight line between two points.
type Segment struct {
	A, B Point
}

// Seg is shorthand for Segment{A: a, B: b}.
func Seg(a, b Point) Segment {
	return Segment{A: a, B: b}
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	return Distance2Points(s.A, s.B)
}

// IsDegenerate reports whether both endpoints coincide.
func (s Segment) IsDegenerate() bool {
	return s.A.Eq(s.B)
}

// IsHorizontal reports whether the segment runs along the X axis.
func (s Segment) IsHorizontal() bool {
	return Equal(s.A.Y, s.B.Y) && !Equal(s.A.X, s.B.X)
}

// IsVertical reports whether the segment runs along the Y axis.
func (s Segment) IsVertical() bool {
	return Equal(s.A.X, s.B.X) && !Equal(s.A.Y, s.B.Y)
}

// Bounds returns the bounding box of the segment.
func (s Segment) Bounds() Rect {
	return RectFromPoints(s.A, s.B)
}

// ContainsPoint reports whether p lies on the segment.
func (s Segment) ContainsPoint(p Point) bool {
	if !s.Bounds().Contains(p) {
		return false
	}
	return math.Abs(cross(s.A, s.B, p)) <= Epsilon*math.Max(1, s.Length())
}

func cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// LineIntersection returns the point where segment p1-p2 meets segment p3-p4.
// Endpoints count as part of the segments. Parallel, collinear or
// non-overlapping segments yield NaNPoint().
func LineIntersection(p1, p2, p3, p4 Point) Point {
	d1x, d1y := p2.X-p1.X, p2.Y-p1.Y
	d2x, d2y := p4.X-p3.X, p4.Y-p3.Y

	denom := d1x*d2y - d1y*d2x
	if math.Abs(denom) <= Epsilon {
		return NaNPoint()
	}

	t := ((p3.X-p1.X)*d2y - (p3.Y-p1.Y)*d2x) / denom
	u := ((p3.X-p1.X)*d1y - (p3.Y-p1.Y)*d1x) / denom

	const tol = 1e-9
	if t < -tol || t > 1+tol || u < -tol || u > 1+tol {
		return NaNPoint()
	}

	x := p1.X + t*d1x
	y := p1.Y + t*d1y
	// Snap to the exact coordinate of axis-aligned inputs so that equality checks
	// downstream are not disturbed by rounding.
	if Equal(p1.X, p2.X) {
		x = p1.X
	} else if Equal(p3.X, p4.X) {
		x = p3.X
	}
	if Equal(p1.Y, p2.Y) {
		y = p1.Y
	} else if Equal(p3.Y, p4.Y) {
		y = p3.Y
	}
	return Point{X: x, Y: y}
}

// LineIntersectsRect reports whether the segment p1-p2 touches the closed
// rectangle: it crosses the boundary or lies inside it.
func LineIntersectsRect(rect Rect, p1, p2 Point) bool {
	rect = NormalizeRect(rect)
	if rect.Contains(p1) || rect.Contains(p2) {
		return true
	}
	if !rect.Intersects(RectFromPoints(p1, p2)) {
		return false
	}
	seg := Segment{A: p1, B: p2}
	for _, edge := range ToPolygonEx(rect, 0) {
		if edge.IsDegenerate() {
			if seg.ContainsPoint(edge.A) {
				return true
			}
			continue
		}
		if !LineIntersection(p1, p2, edge.A, edge.B).IsNaN() {
			return true
		}
		// A segment running along an edge is parallel to it.
		if edge.ContainsPoint(p1) || edge.ContainsPoint(p2) {
			return true
		}
	}
	return false
}

// PolylineIntersectsRect reports whether any segment of points touches rect.
func PolylineIntersectsRect(rect Rect, points []Point) bool {
	for i := 1; i < len(points); i++ {
		if LineIntersectsRect(rect, points[i-1], points[i]) {
			return true
		}
	}
	return false
}
