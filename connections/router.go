// Package connections routes the references of a design between its tables.
package connections

import (
	"fmt"
	"math"
	"strings"

	"ormd/core"
	"ormd/diagram"
	"ormd/geometry"
	"ormd/layout"
	"ormd/logging"
	"ormd/obstacles"
	"ormd/pathfinding"
)

const (
	// DefaultEntrySpacing separates lines entering the same side of a table.
	DefaultEntrySpacing = 10.0

	// DefaultCacheSize bounds the number of remembered router results.
	DefaultCacheSize = 256
)

// Strategy selects how a line is routed.
type Strategy int

const (
	// StrategyAuto tries the general router, then an L-route, then a
	// C-route or Z-route.
	StrategyAuto Strategy = iota
	StrategyOrthogonal
	StrategyLRoute
	StrategyCRoute
)

func (s Strategy) String() string {
	switch s {
	case StrategyAuto:
		return "auto"
	case StrategyOrthogonal:
		return "orthogonal"
	case StrategyLRoute:
		return "l-route"
	case StrategyCRoute:
		return "c-route"
	default:
		return "unknown"
	}
}

// ParseStrategy parses the names returned by Strategy.String.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return StrategyAuto, nil
	case "orthogonal", "router":
		return StrategyOrthogonal, nil
	case "l-route", "l", "lroute":
		return StrategyLRoute, nil
	case "c-route", "c", "croute":
		return StrategyCRoute, nil
	}
	return StrategyAuto, fmt.Errorf("unknown strategy %q", s)
}

// RouteOptions adjusts one routing call.
type RouteOptions struct {
	// Gap overrides DesignRouter.DefaultGap when positive.
	Gap float64
	// Obstacles replaces the default obstacle set, every table other than
	// the line's own source and target, when non-nil.
	Obstacles []geometry.Rect
	Strategy  Strategy
	// SourceSide and TargetSide pin the sides used, overriding the sides
	// stored on the reference.
	SourceSide *core.Direction
	TargetSide *core.Direction
}

// Summary reports the outcome of a batch operation.
type Summary struct {
	Routed     []string
	Failed     []string
	Unresolved []string
	Strategies map[Strategy]int
}

// Total returns the number of lines looked at.
func (s Summary) Total() int {
	return len(s.Routed) + len(s.Failed) + len(s.Unresolved)
}

// OK reports whether every line was routed.
func (s Summary) OK() bool {
	return len(s.Failed) == 0 && len(s.Unresolved) == 0
}

func (s Summary) String() string {
	return fmt.Sprintf("%d routed, %d failed, %d unresolved", len(s.Routed), len(s.Failed), len(s.Unresolved))
}

// DesignRouter routes the references of a design. It owns one orthogonal
// router, created on first use and recreated when the gap changes.
// A DesignRouter must not be used by two goroutines at once.
type DesignRouter struct {
	DefaultGap   float64
	EntrySpacing float64
	// MinSegment is the shortest stub of a wrapped fallback path; zero
	// means the gap.
	MinSegment float64
	// Settings are applied to the orthogonal router on every use, whatever
	// gap it was built for. The zero value means pathfinding.DefaultSettings.
	Settings pathfinding.Settings

	router    *pathfinding.Router
	routerGap float64
	cache     *pathfinding.RouteCache
	noCache   bool
}

// NewDesignRouter creates a design router with default settings.
func NewDesignRouter() *DesignRouter {
	return &DesignRouter{
		DefaultGap:   pathfinding.DefaultGap,
		EntrySpacing: DefaultEntrySpacing,
		Settings:     pathfinding.DefaultSettings(),
		cache:        pathfinding.NewRouteCache(DefaultCacheSize),
	}
}

// Router returns the underlying orthogonal router for gap, creating it when
// needed, with Settings applied.
func (r *DesignRouter) Router(gap float64) *pathfinding.Router {
	if gap <= 0 {
		gap = r.gap()
	}
	if r.router == nil || r.routerGap != gap {
		r.router = pathfinding.NewRouter(gap)
		r.routerGap = gap
	}
	r.router.Apply(r.settings())
	return r.router
}

func (r *DesignRouter) settings() pathfinding.Settings {
	if r.Settings == (pathfinding.Settings{}) {
		return pathfinding.DefaultSettings()
	}
	return r.Settings
}

// Cache returns the route cache, creating it when needed, or nil when caching
// has been disabled.
func (r *DesignRouter) Cache() *pathfinding.RouteCache {
	if r.noCache {
		return nil
	}
	if r.cache == nil {
		r.cache = pathfinding.NewRouteCache(DefaultCacheSize)
	}
	return r.cache
}

// SetCacheSize replaces the route cache with an empty one holding up to size
// results. A non-positive size disables caching.
func (r *DesignRouter) SetCacheSize(size int) {
	if size <= 0 {
		r.cache = nil
		r.noCache = true
		return
	}
	r.cache = pathfinding.NewRouteCache(size)
	r.noCache = false
}

// Builder returns the fallback path builder for gap.
func (r *DesignRouter) Builder(gap float64) PathBuilder {
	if gap <= 0 {
		gap = r.gap()
	}
	return PathBuilder{Gap: gap, MinSegment: r.MinSegment}
}

func (r *DesignRouter) gap() float64 {
	if r.DefaultGap <= 0 {
		return pathfinding.DefaultGap
	}
	return r.DefaultGap
}

func (r *DesignRouter) entrySpacing() float64 {
	if r.EntrySpacing <= 0 {
		return DefaultEntrySpacing
	}
	return r.EntrySpacing
}

// GetTargetEntryPoint returns the anchor of the index-th of count lines
// entering target through side. Anchors are centred on the side and
// EntrySpacing apart, closer when count of them would not fit, so they stay
// distinct and never reach a corner.
func (r *DesignRouter) GetTargetEntryPoint(target geometry.Rect, side core.Direction, index, count int) geometry.Point {
	target = geometry.NormalizeRect(target)
	base := pathfinding.AnchorPoint(target, side, geometry.OptionalPoint{})
	if count <= 1 {
		return base
	}

	length := target.Width
	if side.IsHorizontal() {
		length = target.Height
	}
	spacing := math.Min(r.entrySpacing(), length/float64(count))
	offset := (float64(index) - float64(count-1)/2) * spacing
	if side.IsHorizontal() {
		return geometry.Pt(base.X, geometry.Clamp(base.Y+offset, target.Top, target.Bottom()))
	}
	return geometry.Pt(geometry.Clamp(base.X+offset, target.Left, target.Right()), base.Y)
}

// request is one resolved line to route. sides keeps the entry sides
// resolved for the line before entries is narrowed to a shared side.
type request struct {
	lineID         string
	targetID       string
	source, target geometry.Rect
	exits, entries []core.Direction
	sides          []core.Direction
	entry          geometry.OptionalPoint
	index          *obstacles.Index
	gap            float64
	strategy       Strategy
}

// RouteLine routes one reference and writes the points back onto it. It
// reports false, leaving the reference untouched, when the line or its
// tables cannot be resolved or no collision-free path exists.
func (r *DesignRouter) RouteLine(d *diagram.Design, lineID string, opts RouteOptions) bool {
	ref, ok := d.Line(lineID)
	if !ok {
		return false
	}
	req, ok := r.resolve(d, ref, opts, r.obstacleIndex(d, opts))
	if !ok {
		logging.Logger().Warn("unresolved line", "line", lineID, "source", ref.Source, "target", ref.Target)
		return false
	}
	points, strategy, ok := r.route(req)
	if !ok {
		logging.Logger().Warn("no route", "line", lineID)
		return false
	}
	logging.Logger().Debug("line routed", "line", lineID, "strategy", strategy.String(), "points", len(points))
	return d.SetLinePoints(lineID, points)
}

// RouteAllLines routes every reference of d, continuing past failures. Lines
// converging on the same side of a table get distinct entry points.
func (r *DesignRouter) RouteAllLines(d *diagram.Design, opts RouteOptions) Summary {
	summary := Summary{Strategies: map[Strategy]int{}}
	index := r.obstacleIndex(d, opts)

	var reqs []*request
	for _, ref := range d.Lines() {
		req, ok := r.resolve(d, ref, opts, index)
		if !ok {
			summary.Unresolved = append(summary.Unresolved, ref.ID)
			continue
		}
		reqs = append(reqs, &req)
	}

	r.distributeEntries(reqs)

	for _, req := range reqs {
		points, strategy, ok := r.route(*req)
		if !ok && !req.entry.IsUnspecified() {
			// The spread entry point may be unreachable; retry with a free
			// one on any of the line's own sides.
			relaxed := *req
			relaxed.entry = geometry.OptionalPoint{}
			relaxed.entries = req.sides
			points, strategy, ok = r.route(relaxed)
		}
		if !ok {
			summary.Failed = append(summary.Failed, req.lineID)
			continue
		}
		d.SetLinePoints(req.lineID, points)
		summary.Routed = append(summary.Routed, req.lineID)
		summary.Strategies[strategy]++
	}

	logging.Logger().Info("routed design",
		"design", d.ID,
		"routed", len(summary.Routed),
		"failed", len(summary.Failed),
		"unresolved", len(summary.Unresolved),
	)
	return summary
}

// AutoLayout arranges all tables in rows inside the design bounds, margin
// apart, and then routes every line again with opts.
func (r *DesignRouter) AutoLayout(d *diagram.Design, margin float64, opts RouteOptions) Summary {
	tables := d.Shapes()
	sizes := make([]geometry.Rect, len(tables))
	for i, t := range tables {
		sizes[i] = t.Bounds
	}

	grid := &layout.Grid{Margin: margin}
	for i, rect := range grid.Arrange(d.Bounds, sizes) {
		d.MoveShape(tables[i].ID, rect)
	}
	return r.RouteAllLines(d, opts)
}

func (r *DesignRouter) obstacleIndex(d *diagram.Design, opts RouteOptions) *obstacles.Index {
	if opts.Obstacles != nil {
		index := obstacles.NewIndex()
		for i, rect := range opts.Obstacles {
			index.Insert(fmt.Sprintf("obstacle-%d", i), rect)
		}
		return index
	}
	index := obstacles.NewIndex()
	for _, t := range d.Shapes() {
		index.Insert(t.ID, t.Bounds)
	}
	return index
}

func (r *DesignRouter) resolve(d *diagram.Design, ref *diagram.Reference, opts RouteOptions, index *obstacles.Index) (request, bool) {
	src, ok := d.Shape(ref.Source)
	if !ok {
		return request{}, false
	}
	tgt, ok := d.Shape(ref.Target)
	if !ok {
		return request{}, false
	}

	gap := opts.Gap
	if gap <= 0 {
		gap = r.gap()
	}

	req := request{
		lineID:   ref.ID,
		targetID: tgt.ID,
		source:   geometry.NormalizeRect(src.Bounds),
		target:   geometry.NormalizeRect(tgt.Bounds),
		index:    index,
		gap:      gap,
		strategy: opts.Strategy,
	}
	req.exits = sides(opts.SourceSide, ref.SourceSide, GetDefaultDirections(req.source, req.target))
	req.entries = sides(opts.TargetSide, ref.TargetSide, GetDefaultDirections(req.target, req.source))
	req.sides = req.entries
	return req, true
}

func sides(override, stored *core.Direction, defaults []core.Direction) []core.Direction {
	switch {
	case override != nil:
		return []core.Direction{*override}
	case stored != nil:
		return []core.Direction{*stored}
	}
	return defaults
}

func (r *DesignRouter) route(req request) ([]geometry.Point, Strategy, bool) {
	switch req.strategy {
	case StrategyOrthogonal:
		points, ok := r.searchRoute(req)
		return points, StrategyOrthogonal, ok
	case StrategyLRoute:
		points, ok := r.lRoute(req)
		return points, StrategyLRoute, ok
	case StrategyCRoute:
		points, ok := r.cRoute(req)
		return points, StrategyCRoute, ok
	}

	if points, ok := r.searchRoute(req); ok {
		return points, StrategyOrthogonal, true
	}
	if points, ok := r.lRoute(req); ok {
		return points, StrategyLRoute, true
	}
	if points, ok := r.fallbackRoute(req); ok {
		return points, StrategyCRoute, true
	}
	return nil, StrategyAuto, false
}

// searchRoute runs the general orthogonal router.
func (r *DesignRouter) searchRoute(req request) ([]geometry.Point, bool) {
	rects := req.index.Rects(req.source, req.target)
	left := pathfinding.RouterShape{Rect: req.source, DesiredDegree: req.exits}
	right := pathfinding.RouterShape{Rect: req.target, DesiredDegree: req.entries, StartPoint: req.entry}

	rt := r.Router(req.gap)
	cache := r.Cache()
	key := pathfinding.KeyFor(left, right, req.gap, rt.Settings(), rects)
	if cache != nil {
		if line, ok := cache.Get(key); ok {
			return line.Points, line.IsValid()
		}
	}

	rt.ClearObstacles()
	for _, rect := range rects {
		rt.AddObstacle(rect)
	}
	best := rt.GetAllLines(left, right)
	if cache != nil {
		cache.Put(key, best)
	}
	return best.Points, best.IsValid()
}

func (r *DesignRouter) lRoute(req request) ([]geometry.Point, bool) {
	b := r.Builder(req.gap)
	for _, exit := range req.exits {
		points, ok := b.BuildLRoute(req.source, req.target, exit)
		if !ok {
			continue
		}
		entry := DirectionFromPoint(req.target, points[len(points)-1])
		if !containsDirection(req.entries, entry) {
			continue
		}
		if !CheckLRouteCollision(points, req.index, req.source, req.target) {
			return points, true
		}
	}
	return nil, false
}

// cRoute wraps around both shapes, leaving and entering through the same side.
func (r *DesignRouter) cRoute(req request) ([]geometry.Point, bool) {
	for _, side := range req.exits {
		if points, ok := r.tryPath(req, side, side); ok {
			return points, true
		}
	}
	return nil, false
}

// fallbackRoute tries every exit and entry pairing with the fixed-shape builder.
func (r *DesignRouter) fallbackRoute(req request) ([]geometry.Point, bool) {
	for _, exit := range req.exits {
		for _, entry := range req.entries {
			if points, ok := r.tryPath(req, exit, entry); ok {
				return points, true
			}
		}
	}
	return nil, false
}

func (r *DesignRouter) tryPath(req request, exit, entry core.Direction) ([]geometry.Point, bool) {
	start := pathfinding.AnchorPoint(req.source, exit, geometry.OptionalPoint{})
	end := pathfinding.AnchorPoint(req.target, entry, req.entry)
	rects := req.index.Rects(req.source, req.target)

	points := r.Builder(req.gap).BuildOrthogonalPath(start, end, exit, entry, req.source, req.target, rects)
	if len(points) < 2 || geometry.PolylineLength(points) <= geometry.Epsilon {
		return nil, false
	}
	if crossesShape(points, req.source) || crossesShape(points, req.target) {
		return nil, false
	}
	if req.index.Collides(points, req.source, req.target) {
		return nil, false
	}
	return points, true
}
