package pathfinding

import (
	"math"
	"strings"

	"ormd/geometry"
)

// search holds the read-only inputs of one routing call.
type search struct {
	starts    []RouterLine // source stubs
	targets   []RouterLine // target stubs
	pool      []RouterLine // boundary, connector and obstacle outline lines
	blocked   []geometry.Rect
	obstacles []geometry.Rect
	prune     bool
}

// collector accumulates the results of the recursive search. It is passed
// explicitly through every call instead of living on the Router.
type collector struct {
	solved    []RouterLine
	seen      map[string]bool
	steps     int
	max       int
	truncated bool
	cutoff    bool
	bound     float64 // length of the shortest collision-free route so far
}

func newCollector(max int) *collector {
	return &collector{
		seen:  map[string]bool{},
		max:   max,
		bound: math.Inf(1),
	}
}

func (c *collector) exhausted() bool {
	if c.steps >= c.max {
		c.truncated = true
		return true
	}
	return false
}

func (c *collector) record(s *search, line RouterLine) {
	line.Points = geometry.SimplifyPolyline(line.Points)
	// A branch that doubles back onto its own anchor collapses to nothing.
	if !line.IsValid() || line.Length() <= geometry.Epsilon {
		return
	}
	key := pointsKey(line.Points)
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.solved = append(c.solved, line)

	if !s.collides(line.Points) {
		c.bound = math.Min(c.bound, line.Length())
	}
}

func (r *Router) newSearch() *search {
	s := &search{
		starts:  r.leftLines,
		targets: r.rightLines,
		pool:    validLines(r.allLines),
		prune:   r.ReturnShorterLine,
	}
	if r.CheckCrossRect {
		for _, rect := range []geometry.Rect{r.source, r.target} {
			if rect.Width <= crossRectShrink || rect.Height <= crossRectShrink {
				continue
			}
			s.blocked = append(s.blocked, geometry.InflateRect(rect, -crossRectShrink, -crossRectShrink))
		}
	}
	if r.CheckCollision {
		for _, rect := range r.Rects {
			if !r.isEndpointRect(rect) {
				s.obstacles = append(s.obstacles, geometry.NormalizeRect(rect))
			}
		}
	}
	return s
}

// explore runs followLine from every source stub with an increasing limit on
// the number of search lines a route may travel along, so that routes with
// few bends are found for every stub before the step budget runs out.
func (s *search) explore(c *collector) {
	for depth := 0; depth <= len(s.pool); depth++ {
		c.cutoff = false
		for _, stub := range s.starts {
			if c.exhausted() {
				return
			}
			carrier := geometry.Seg(stub.First(), stub.Last())
			s.followLine(c, []geometry.Point{stub.First()}, carrier, []string{stub.ID}, depth, stub)
		}
		if !c.cutoff {
			return
		}
	}
}

// followLine extends path along carrier. It records a route for every target
// stub the carrier reaches and recurses into both halves of every unvisited
// search line the carrier crosses.
func (s *search) followLine(c *collector, path []geometry.Point, carrier geometry.Segment, visited []string, depth int, origin RouterLine) {
	if c.exhausted() {
		return
	}
	c.steps++

	from := path[len(path)-1]
	if s.prune && geometry.PolylineLength(path) >= c.bound {
		return
	}

	for _, stub := range s.targets {
		meet, ok := directLink(carrier, stub)
		if !ok {
			continue
		}
		anchor := stub.First()
		if !s.allowed(from, meet) || !s.allowed(meet, anchor) {
			continue
		}
		points := append(clonePoints(path), meet, anchor)
		c.record(s, RouterLine{
			Points:      points,
			ID:          strings.Join(append(clonePath(visited), stub.ID), ">"),
			ExitDegree:  origin.ExitDegree,
			EntryDegree: stub.EntryDegree,
		})
	}

	used := len(visited) - 1
	if used >= depth {
		if used < len(s.pool) {
			c.cutoff = true
		}
		return
	}

	for _, line := range s.pool {
		if containsID(visited, line.ID) {
			continue
		}
		x := geometry.LineIntersection(carrier.A, carrier.B, line.First(), line.Last())
		if x.IsNaN() || x.Eq(from) {
			continue
		}
		if !s.allowed(from, x) {
			continue
		}

		next := append(clonePoints(path), x)
		nextVisited := append(clonePath(visited), line.ID)
		for _, end := range []geometry.Point{line.First(), line.Last()} {
			if end.Eq(x) {
				continue
			}
			s.followLine(c, next, geometry.Seg(x, end), nextVisited, depth, origin)
		}
	}
}

// directLink returns where carrier meets the target stub. A carrier running
// along the stub meets it at the stub's anchor.
func directLink(carrier geometry.Segment, stub RouterLine) (geometry.Point, bool) {
	a, b := stub.First(), stub.Last()
	if x := geometry.LineIntersection(carrier.A, carrier.B, a, b); !x.IsNaN() {
		return x, true
	}
	if collinear(carrier, geometry.Seg(a, b)) && carrier.ContainsPoint(a) {
		return a, true
	}
	return geometry.NaNPoint(), false
}

func collinear(s1, s2 geometry.Segment) bool {
	if s1.IsDegenerate() || s2.IsDegenerate() {
		return false
	}
	if s1.IsHorizontal() && s2.IsHorizontal() {
		return geometry.Equal(s1.A.Y, s2.A.Y)
	}
	if s1.IsVertical() && s2.IsVertical() {
		return geometry.Equal(s1.A.X, s2.A.X)
	}
	return false
}

// allowed reports whether the segment a-b stays out of the source and target.
func (s *search) allowed(a, b geometry.Point) bool {
	for _, rect := range s.blocked {
		if geometry.LineIntersectsRect(rect, a, b) {
			return false
		}
	}
	return true
}

// collides reports whether the polyline touches any obstacle.
func (s *search) collides(points []geometry.Point) bool {
	for _, rect := range s.obstacles {
		if geometry.PolylineIntersectsRect(rect, points) {
			return true
		}
	}
	return false
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func clonePoints(points []geometry.Point) []geometry.Point {
	return append(make([]geometry.Point, 0, len(points)+2), points...)
}

func clonePath(ids []string) []string {
	return append(make([]string, 0, len(ids)+1), ids...)
}

func pointsKey(points []geometry.Point) string {
	var b strings.Builder
	for _, p := range points {
		b.WriteString(p.String())
	}
	return b.String()
}
