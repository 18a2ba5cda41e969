package pathfinding

import (
	"math"

	"ormd/core"
	"ormd/geometry"
	"ormd/logging"
)

const (
	// DefaultGap is the clearance kept between lines and shapes.
	DefaultGap = 20.0

	// DefaultMaxIterations caps the number of recursive search steps per call.
	DefaultMaxIterations = 1000

	// crossRectShrink is how far the source and target rectangles are deflated
	// before testing whether a segment crosses them, so that lines may touch
	// their outline.
	crossRectShrink = 2.0
)

// Router is the orthogonal line router. Configuration fields persist across
// calls; the working state is reset at the start of each routing call.
// A Router must not be used by two goroutines at once.
type Router struct {
	Gap               float64
	UseInnerRect      bool // add each obstacle's outline, grown by Gap, to the search lines
	UseOuterRect      bool // add the outer boundary edges to the search lines
	ReturnShorterLine bool // stop extending branches already longer than the best route
	CheckCollision    bool // drop routes crossing any obstacle in Rects
	CheckCrossRect    bool // drop segments crossing the source or target rectangle
	MaxIterations     int
	Rects             []geometry.Rect

	left, right RouterShape
	source      geometry.Rect
	target      geometry.Rect
	outer       geometry.Rect

	solvedLines []RouterLine
	allLines    []RouterLine
	finalLines  []RouterLine
	leftLines   []RouterLine
	rightLines  []RouterLine
	bestLine    RouterLine
	steps       int
	truncated   bool
}

// NewRouter creates a router with the given gap. A non-positive gap uses DefaultGap.
func NewRouter(gap float64) *Router {
	if gap <= 0 {
		gap = DefaultGap
	}
	r := &Router{Gap: gap, bestLine: EmptyLine()}
	r.Apply(DefaultSettings())
	return r
}

// Settings are the search options of a Router that change which route it
// returns. They are part of every route cache key.
type Settings struct {
	MaxIterations     int
	UseInnerRect      bool
	UseOuterRect      bool
	ReturnShorterLine bool
	CheckCrossRect    bool
}

// DefaultSettings returns the settings of a router made by NewRouter.
func DefaultSettings() Settings {
	return Settings{
		MaxIterations:     DefaultMaxIterations,
		UseOuterRect:      true,
		ReturnShorterLine: true,
		CheckCrossRect:    true,
	}
}

// Settings returns the current search options.
func (r *Router) Settings() Settings {
	return Settings{
		MaxIterations:     r.maxIterations(),
		UseInnerRect:      r.UseInnerRect,
		UseOuterRect:      r.UseOuterRect,
		ReturnShorterLine: r.ReturnShorterLine,
		CheckCrossRect:    r.CheckCrossRect,
	}
}

// Apply sets the search options. A non-positive MaxIterations uses
// DefaultMaxIterations.
func (r *Router) Apply(s Settings) {
	r.MaxIterations = s.MaxIterations
	r.UseInnerRect = s.UseInnerRect
	r.UseOuterRect = s.UseOuterRect
	r.ReturnShorterLine = s.ReturnShorterLine
	r.CheckCrossRect = s.CheckCrossRect
}

// Result exposes the outcome of the last routing call.
type Result struct {
	BestLine    RouterLine
	AllLines    []RouterLine
	SolvedLines []RouterLine
	FinalLines  []RouterLine
	Steps       int
	Truncated   bool
	Success     bool
}

// Result returns copies of the working state of the last call.
func (r *Router) Result() Result {
	return Result{
		BestLine:    r.bestLine.Clone(),
		AllLines:    cloneLines(r.allLines),
		SolvedLines: cloneLines(r.solvedLines),
		FinalLines:  cloneLines(r.finalLines),
		Steps:       r.steps,
		Truncated:   r.truncated,
		Success:     r.bestLine.IsValid(),
	}
}

// BestLine returns the route chosen by the last call, or the empty sentinel.
func (r *Router) BestLine() RouterLine {
	return r.bestLine.Clone()
}

// SetEndpoints sets the source (left) and target (right) shapes.
func (r *Router) SetEndpoints(left, right RouterShape) {
	r.left = left
	r.right = right
}

// AddObstacle registers a rectangle routes must not cross and turns on
// collision checking.
func (r *Router) AddObstacle(rect geometry.Rect) {
	r.Rects = append(r.Rects, geometry.NormalizeRect(rect))
	r.CheckCollision = true
}

// ClearObstacles removes all obstacles and turns off collision checking.
func (r *Router) ClearObstacles() {
	r.Rects = nil
	r.CheckCollision = false
}

// GetAllLines routes from left to right using stub lines derived from each
// shape's DesiredDegree. It returns the shortest route found, or EmptyLine().
func (r *Router) GetAllLines(left, right RouterShape) RouterLine {
	r.SetEndpoints(left, right)
	r.clear()
	r.prepare()
	r.leftLines = r.StubLines(left, false)
	r.rightLines = r.StubLines(right, true)
	r.run()
	return r.BestLine()
}

// RouteLine routes from left to right using caller-supplied stub lines. Each
// stub's first point must be its anchor on the shape. It reports whether a
// valid route was found.
func (r *Router) RouteLine(left, right RouterShape, leftLines, rightLines []RouterLine) bool {
	r.SetEndpoints(left, right)
	r.clear()
	r.prepare()
	r.leftLines = validLines(leftLines)
	r.rightLines = validLines(rightLines)
	r.run()
	return r.bestLine.IsValid()
}

func (r *Router) clear() {
	r.solvedLines = nil
	r.allLines = nil
	r.finalLines = nil
	r.leftLines = nil
	r.rightLines = nil
	r.bestLine = EmptyLine()
	r.steps = 0
	r.truncated = false
}

func (r *Router) gap() float64 {
	if r.Gap <= 0 {
		return DefaultGap
	}
	return r.Gap
}

func (r *Router) maxIterations() int {
	if r.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return r.MaxIterations
}

// run searches, filters and selects.
func (r *Router) run() {
	s := r.newSearch()
	c := newCollector(r.maxIterations())
	s.explore(c)

	r.steps = c.steps
	r.truncated = c.truncated
	r.solvedLines = c.solved
	r.allLines = append(r.allLines, r.leftLines...)
	r.allLines = append(r.allLines, r.rightLines...)

	for _, line := range r.solvedLines {
		if !s.collides(line.Points) {
			r.finalLines = append(r.finalLines, line)
		}
	}
	r.bestLine = shortestLine(r.finalLines)

	logging.Logger().Debug("orthogonal route",
		"source", r.source.String(),
		"target", r.target.String(),
		"steps", r.steps,
		"solved", len(r.solvedLines),
		"final", len(r.finalLines),
		"truncated", r.truncated,
		"success", r.bestLine.IsValid(),
	)
}

// shortestLine returns the line with the smallest length, the earliest one on ties.
func shortestLine(lines []RouterLine) RouterLine {
	best := EmptyLine()
	bestLength := math.Inf(1)
	for _, line := range lines {
		if l := line.Length(); l < bestLength-geometry.Epsilon {
			best = line
			bestLength = l
		}
	}
	return best.Clone()
}

func validLines(lines []RouterLine) []RouterLine {
	var out []RouterLine
	for _, l := range lines {
		if l.IsValid() {
			out = append(out, l.Clone())
		}
	}
	return out
}

func cloneLines(lines []RouterLine) []RouterLine {
	if lines == nil {
		return nil
	}
	out := make([]RouterLine, len(lines))
	for i, l := range lines {
		out[i] = l.Clone()
	}
	return out
}

// directionsOf returns the shape's desired sides, or all four when none are given.
func directionsOf(shape RouterShape) []core.Direction {
	if len(shape.DesiredDegree) == 0 {
		return core.Directions
	}
	return shape.DesiredDegree
}
