package connections

import (
	"math"

	"ormd/core"
	"ormd/geometry"
	"ormd/obstacles"
	"ormd/pathfinding"
)

// PathBuilder builds fixed-shape orthogonal paths used when the general
// router is not wanted or finds nothing.
type PathBuilder struct {
	// Gap is the clearance kept from obstacles when moving a bend.
	Gap float64
	// MinSegment is the shortest first or last segment of a wrapped path.
	MinSegment float64
}

// BuildLRoute returns a one-bend path leaving source through exit and
// entering target through the side nearest the bend. It reports false when
// target is not ahead of exit or overlaps the exit line.
func (b PathBuilder) BuildLRoute(source, target geometry.Rect, exit core.Direction) ([]geometry.Point, bool) {
	source = geometry.NormalizeRect(source)
	target = geometry.NormalizeRect(target)
	start := pathfinding.AnchorPoint(source, exit, geometry.OptionalPoint{})
	tc := geometry.Center(target)

	var corner, end geometry.Point
	switch exit {
	case core.East, core.West:
		if (exit == core.East && tc.X <= source.Right()) || (exit == core.West && tc.X >= source.Left) {
			return nil, false
		}
		corner = geometry.Pt(tc.X, start.Y)
		switch {
		case start.Y < target.Top:
			end = geometry.Pt(tc.X, target.Top)
		case start.Y > target.Bottom():
			end = geometry.Pt(tc.X, target.Bottom())
		default:
			return nil, false
		}
	case core.North, core.South:
		if (exit == core.South && tc.Y <= source.Bottom()) || (exit == core.North && tc.Y >= source.Top) {
			return nil, false
		}
		corner = geometry.Pt(start.X, tc.Y)
		switch {
		case start.X < target.Left:
			end = geometry.Pt(target.Left, tc.Y)
		case start.X > target.Right():
			end = geometry.Pt(target.Right(), tc.Y)
		default:
			return nil, false
		}
	default:
		return nil, false
	}
	return []geometry.Point{start, corner, end}, true
}

// CheckLRouteCollision reports whether any segment of points touches an
// indexed obstacle. The source and target rectangles are never obstacles.
func CheckLRouteCollision(points []geometry.Point, index *obstacles.Index, source, target geometry.Rect) bool {
	if index == nil {
		return false
	}
	return index.Collides(points, source, target)
}

// BuildOrthogonalPath connects start, on the exit side of source, with end,
// on the entry side of target. The same side on both ends gives a C-route
// around both shapes. Facing sides give a Z-route bending at an obstacle-free
// midpoint, or an S-route wrapping around when the target lies behind the
// exit. Perpendicular sides give a single bend. Missing corners are inserted
// so the result is always orthogonal.
func (b PathBuilder) BuildOrthogonalPath(start, end geometry.Point, exit, entry core.Direction, source, target geometry.Rect, obstacleRects []geometry.Rect) []geometry.Point {
	source = geometry.NormalizeRect(source)
	target = geometry.NormalizeRect(target)

	var points []geometry.Point
	switch {
	case exit == entry:
		points = b.cRoute(start, end, exit, source, target)
	case exit.Opposite() == entry:
		points = b.facingRoute(start, end, exit, source, target, obstacleRects)
	default:
		points = b.bendRoute(start, end, exit, entry)
	}
	return alignPath(points)
}

func (b PathBuilder) cRoute(start, end geometry.Point, side core.Direction, source, target geometry.Rect) []geometry.Point {
	if side.IsVertical() {
		y := b.CalculateIntermediateY(source, target, side)
		return []geometry.Point{start, geometry.Pt(start.X, y), geometry.Pt(end.X, y), end}
	}
	x := b.CalculateIntermediateX(source, target, side)
	return []geometry.Point{start, geometry.Pt(x, start.Y), geometry.Pt(x, end.Y), end}
}

func (b PathBuilder) facingRoute(start, end geometry.Point, exit core.Direction, source, target geometry.Rect, obstacleRects []geometry.Rect) []geometry.Point {
	minSeg := b.minSegment()
	dx, dy := exit.Delta()

	if exit.IsHorizontal() {
		if dx*(end.X-start.X) >= 2*minSeg {
			x := b.CalculateMidX(start, end, obstacleRects)
			return []geometry.Point{start, geometry.Pt(x, start.Y), geometry.Pt(x, end.Y), end}
		}
		out := start.X + dx*minSeg
		in := end.X - dx*minSeg
		y := b.wrapY(source, target, start.Y, end.Y)
		return []geometry.Point{start, geometry.Pt(out, start.Y), geometry.Pt(out, y), geometry.Pt(in, y), geometry.Pt(in, end.Y), end}
	}

	if dy*(end.Y-start.Y) >= 2*minSeg {
		y := b.CalculateMidY(start, end, obstacleRects)
		return []geometry.Point{start, geometry.Pt(start.X, y), geometry.Pt(end.X, y), end}
	}
	out := start.Y + dy*minSeg
	in := end.Y - dy*minSeg
	x := b.wrapX(source, target, start.X, end.X)
	return []geometry.Point{start, geometry.Pt(start.X, out), geometry.Pt(x, out), geometry.Pt(x, in), geometry.Pt(end.X, in), end}
}

func (b PathBuilder) bendRoute(start, end geometry.Point, exit, entry core.Direction) []geometry.Point {
	minSeg := b.minSegment()
	ex, ey := exit.Delta()
	nx, ny := entry.Delta()

	if exit.IsHorizontal() {
		corner := geometry.Pt(end.X, start.Y)
		// The corner must be ahead of the exit and outside the entry side.
		if ex*(corner.X-start.X) > 0 && ny*(corner.Y-end.Y) > 0 {
			return []geometry.Point{start, corner, end}
		}
	} else {
		corner := geometry.Pt(start.X, end.Y)
		if ey*(corner.Y-start.Y) > 0 && nx*(corner.X-end.X) > 0 {
			return []geometry.Point{start, corner, end}
		}
	}

	// Step out of both shapes and join the two stubs with one more bend.
	out := start.Add(ex*minSeg, ey*minSeg)
	in := end.Add(nx*minSeg, ny*minSeg)
	corner := geometry.Pt(in.X, out.Y)
	if exit.IsHorizontal() {
		corner = geometry.Pt(out.X, in.Y)
	}
	return []geometry.Point{start, out, corner, in, end}
}

// CalculateIntermediateY returns the Y of a horizontal run passing above
// (North) or below (South) both rectangles, MinSegment away from them. Other
// sides get the midpoint between the two centres.
func (b PathBuilder) CalculateIntermediateY(source, target geometry.Rect, side core.Direction) float64 {
	source, target = geometry.NormalizeRect(source), geometry.NormalizeRect(target)
	switch side {
	case core.North:
		return math.Min(source.Top, target.Top) - b.minSegment()
	case core.South:
		return math.Max(source.Bottom(), target.Bottom()) + b.minSegment()
	}
	return (geometry.Center(source).Y + geometry.Center(target).Y) / 2
}

// CalculateIntermediateX is CalculateIntermediateY for West and East.
func (b PathBuilder) CalculateIntermediateX(source, target geometry.Rect, side core.Direction) float64 {
	source, target = geometry.NormalizeRect(source), geometry.NormalizeRect(target)
	switch side {
	case core.West:
		return math.Min(source.Left, target.Left) - b.minSegment()
	case core.East:
		return math.Max(source.Right(), target.Right()) + b.minSegment()
	}
	return (geometry.Center(source).X + geometry.Center(target).X) / 2
}

// CalculateMidX returns the X of the vertical run of a Z-route from start to
// end: the midpoint when the run is clear, otherwise the nearest side of the
// blocking obstacle plus Gap, preferring positions between start and end.
func (b PathBuilder) CalculateMidX(start, end geometry.Point, obstacleRects []geometry.Rect) float64 {
	return b.clearMid(start.X, end.X, obstacleRects, func(x float64) (geometry.Point, geometry.Point) {
		return geometry.Pt(x, start.Y), geometry.Pt(x, end.Y)
	}, func(r geometry.Rect) (float64, float64) {
		return r.Left, r.Right()
	})
}

// CalculateMidY is CalculateMidX for the horizontal run of a vertical Z-route.
func (b PathBuilder) CalculateMidY(start, end geometry.Point, obstacleRects []geometry.Rect) float64 {
	return b.clearMid(start.Y, end.Y, obstacleRects, func(y float64) (geometry.Point, geometry.Point) {
		return geometry.Pt(start.X, y), geometry.Pt(end.X, y)
	}, func(r geometry.Rect) (float64, float64) {
		return r.Top, r.Bottom()
	})
}

func (b PathBuilder) clearMid(from, to float64, obstacleRects []geometry.Rect,
	run func(float64) (geometry.Point, geometry.Point), extent func(geometry.Rect) (float64, float64)) float64 {

	lo, hi := math.Min(from, to), math.Max(from, to)
	mid := (from + to) / 2

	for attempt := 0; attempt <= len(obstacleRects); attempt++ {
		p1, p2 := run(mid)
		blocker, blocked := firstBlocking(obstacleRects, p1, p2)
		if !blocked {
			return mid
		}

		low, high := extent(blocker)
		before, after := low-b.Gap, high+b.Gap
		if math.Abs(after-mid) < math.Abs(before-mid) {
			before, after = after, before
		}
		switch {
		case before >= lo && before <= hi:
			mid = before
		case after >= lo && after <= hi:
			mid = after
		default:
			return before
		}
	}
	return mid
}

func firstBlocking(rects []geometry.Rect, p1, p2 geometry.Point) (geometry.Rect, bool) {
	for _, r := range rects {
		if geometry.LineIntersectsRect(geometry.NormalizeRect(r), p1, p2) {
			return geometry.NormalizeRect(r), true
		}
	}
	return geometry.Rect{}, false
}

// wrapY picks the run above or below both shapes, whichever is shorter.
func (b PathBuilder) wrapY(source, target geometry.Rect, y1, y2 float64) float64 {
	above := b.CalculateIntermediateY(source, target, core.North)
	below := b.CalculateIntermediateY(source, target, core.South)
	if math.Abs(y1-above)+math.Abs(y2-above) <= math.Abs(y1-below)+math.Abs(y2-below) {
		return above
	}
	return below
}

func (b PathBuilder) wrapX(source, target geometry.Rect, x1, x2 float64) float64 {
	left := b.CalculateIntermediateX(source, target, core.West)
	right := b.CalculateIntermediateX(source, target, core.East)
	if math.Abs(x1-left)+math.Abs(x2-left) <= math.Abs(x1-right)+math.Abs(x2-right) {
		return left
	}
	return right
}

func (b PathBuilder) minSegment() float64 {
	if b.MinSegment > 0 {
		return b.MinSegment
	}
	if b.Gap > 0 {
		return b.Gap
	}
	return pathfinding.DefaultGap
}

// alignPath inserts a corner between any two consecutive points that are not
// axis-aligned and drops redundant points.
func alignPath(points []geometry.Point) []geometry.Point {
	if len(points) < 2 {
		return points
	}
	aligned := []geometry.Point{points[0]}
	for _, p := range points[1:] {
		prev := aligned[len(aligned)-1]
		if !geometry.Equal(prev.X, p.X) && !geometry.Equal(prev.Y, p.Y) {
			aligned = append(aligned, geometry.Pt(p.X, prev.Y))
		}
		aligned = append(aligned, p)
	}
	return geometry.SimplifyPolyline(aligned)
}

// crossesShape reports whether the polyline passes through the inside of rect.
// Running along or touching the outline is allowed.
func crossesShape(points []geometry.Point, rect geometry.Rect) bool {
	rect = geometry.NormalizeRect(rect)
	if rect.Width <= 2 || rect.Height <= 2 {
		return false
	}
	return geometry.PolylineIntersectsRect(geometry.InflateRect(rect, -2, -2), points)
}
