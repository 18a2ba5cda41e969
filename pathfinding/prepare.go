package pathfinding

import (
	"fmt"

	"ormd/core"
	"ormd/geometry"
)

// prepare normalizes the endpoint rectangles and builds the outer boundary,
// the gap connectors and, when enabled, the obstacle outlines.
func (r *Router) prepare() {
	gap := r.gap()
	r.source = geometry.NormalizeRect(r.left.Rect)
	r.target = geometry.NormalizeRect(r.right.Rect)
	r.outer = geometry.InflateRect(geometry.UnionRect(r.source, r.target), 2*gap, 2*gap)

	r.allLines = append(r.allLines, r.connectorLines()...)

	if r.UseOuterRect {
		for i, edge := range geometry.ToPolygonEx(r.outer, 0) {
			r.allLines = append(r.allLines, NewRouterLine(fmt.Sprintf("O%d", i), edge.A, edge.B))
		}
	}

	if r.UseInnerRect {
		for i, rect := range r.Rects {
			if r.isEndpointRect(rect) {
				continue
			}
			for k, edge := range geometry.ToPolygonEx(rect, -gap) {
				r.allLines = append(r.allLines, NewRouterLine(fmt.Sprintf("I%d.%d", i, k), edge.A, edge.B))
			}
		}
	}
}

// connectorLines returns straight lines through the free space between the
// two rectangles when that space is wider than twice the gap.
func (r *Router) connectorLines() []RouterLine {
	gap := r.gap()
	var lines []RouterLine

	var lo, hi float64
	horizontal := false
	switch {
	case r.target.Left-r.source.Right() > 2*gap:
		lo, hi, horizontal = r.source.Right(), r.target.Left, true
	case r.source.Left-r.target.Right() > 2*gap:
		lo, hi, horizontal = r.target.Right(), r.source.Left, true
	}
	if horizontal {
		x := (lo + hi) / 2
		lines = append(lines, NewRouterLine("GV",
			geometry.Pt(x, r.outer.Top), geometry.Pt(x, r.outer.Bottom())))
	}

	vertical := false
	switch {
	case r.target.Top-r.source.Bottom() > 2*gap:
		lo, hi, vertical = r.source.Bottom(), r.target.Top, true
	case r.source.Top-r.target.Bottom() > 2*gap:
		lo, hi, vertical = r.target.Bottom(), r.source.Top, true
	}
	if vertical {
		y := (lo + hi) / 2
		lines = append(lines, NewRouterLine("GH",
			geometry.Pt(r.outer.Left, y), geometry.Pt(r.outer.Right(), y)))
	}
	return lines
}

// StubLines returns one stub per desired side of shape, each running from the
// anchor on the shape outline out to the outer boundary. Stubs of the target
// shape carry an EntryDegree, source stubs an ExitDegree. The router must have
// been prepared for the current endpoints, which GetAllLines does; callers
// building stubs for RouteLine should use StubLinesFor.
func (r *Router) StubLines(shape RouterShape, entry bool) []RouterLine {
	rect := geometry.NormalizeRect(shape.Rect)
	prefix := "L"
	if entry {
		prefix = "R"
	}

	var lines []RouterLine
	seen := map[core.Direction]bool{}
	for _, dir := range directionsOf(shape) {
		if !dir.IsValid() || seen[dir] {
			continue
		}
		seen[dir] = true

		anchor := getStartPoint(rect, dir, shape.StartPoint)
		end := extendTo(anchor, dir, r.outer)
		if anchor.Eq(end) {
			continue
		}

		line := NewRouterLine(fmt.Sprintf("%s:%s", prefix, dir), anchor, end)
		if entry {
			line.EntryDegree = directionPtr(dir)
		} else {
			line.ExitDegree = directionPtr(dir)
		}
		lines = append(lines, line)
	}
	return lines
}

// StubLinesFor computes the outer boundary for left and right and returns the
// stub lines of both shapes, ready to be customized and passed to RouteLine.
func (r *Router) StubLinesFor(left, right RouterShape) (leftLines, rightLines []RouterLine) {
	r.SetEndpoints(left, right)
	r.clear()
	r.prepare()
	return r.StubLines(left, false), r.StubLines(right, true)
}

// AnchorPoint returns where a line leaves or enters rect through side dir.
func AnchorPoint(rect geometry.Rect, dir core.Direction, start geometry.OptionalPoint) geometry.Point {
	return getStartPoint(geometry.NormalizeRect(rect), dir, start)
}

// getStartPoint picks the anchor on the given side of rect.
//
// With no start point the anchor is the middle of the side. A set X pins the
// anchor along the top and bottom sides, a set Y along the left and right
// sides; the other coordinate is ignored. A complete start point is projected
// onto the side, which keeps it unchanged when it already lies there.
func getStartPoint(rect geometry.Rect, dir core.Direction, start geometry.OptionalPoint) geometry.Point {
	c := geometry.Center(rect)
	x, y := c.X, c.Y
	if start.X.Set {
		x = geometry.Clamp(start.X.Value, rect.Left, rect.Right())
	}
	if start.Y.Set {
		y = geometry.Clamp(start.Y.Value, rect.Top, rect.Bottom())
	}

	switch dir {
	case core.North:
		return geometry.Pt(x, rect.Top)
	case core.South:
		return geometry.Pt(x, rect.Bottom())
	case core.East:
		return geometry.Pt(rect.Right(), y)
	case core.West:
		return geometry.Pt(rect.Left, y)
	}
	return c
}

// extendTo moves p in direction dir until it reaches the outline of bounds.
func extendTo(p geometry.Point, dir core.Direction, bounds geometry.Rect) geometry.Point {
	switch dir {
	case core.North:
		return geometry.Pt(p.X, bounds.Top)
	case core.South:
		return geometry.Pt(p.X, bounds.Bottom())
	case core.East:
		return geometry.Pt(bounds.Right(), p.Y)
	case core.West:
		return geometry.Pt(bounds.Left, p.Y)
	}
	return p
}

func (r *Router) isEndpointRect(rect geometry.Rect) bool {
	rect = geometry.NormalizeRect(rect)
	return rect.Eq(r.source) || rect.Eq(r.target)
}
