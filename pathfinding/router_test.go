package pathfinding

import (
	"reflect"
	"strings"
	"testing"

	"ormd/core"
	"ormd/geometry"
)

func assertEndpointsOnBoundary(t *testing.T, line RouterLine, source, target geometry.Rect) {
	t.Helper()
	if !source.OnBoundary(line.First(), geometry.Epsilon) {
		t.Errorf("First point %v is not on source boundary %v", line.First(), source)
	}
	if !target.OnBoundary(line.Last(), geometry.Epsilon) {
		t.Errorf("Last point %v is not on target boundary %v", line.Last(), target)
	}
}

func TestRouter_StraightConnection(t *testing.T) {
	source := geometry.R(0, 0, 100, 50)
	target := geometry.R(200, 0, 100, 50)

	r := NewRouter(20)
	best := r.GetAllLines(
		NewRouterShape(source, core.East, core.North, core.South),
		NewRouterShape(target, core.West, core.North, core.South),
	)

	if !best.IsValid() {
		t.Fatalf("Expected a route, got %v", best)
	}
	assertEndpointsOnBoundary(t, best, source, target)

	want := []geometry.Point{geometry.Pt(100, 25), geometry.Pt(200, 25)}
	if !reflect.DeepEqual(best.Points, want) {
		t.Errorf("Expected points %v, got %v", want, best.Points)
	}
	if best.ExitDegree == nil || *best.ExitDegree != core.East {
		t.Errorf("Expected exit degree East, got %v", best.ExitDegree)
	}
	if best.EntryDegree == nil || *best.EntryDegree != core.West {
		t.Errorf("Expected entry degree West, got %v", best.EntryDegree)
	}
	if !r.Result().Success {
		t.Error("Expected Success to be true")
	}
}

func TestRouter_AvoidsObstacle(t *testing.T) {
	source := geometry.R(0, 0, 100, 50)
	target := geometry.R(200, 0, 100, 50)
	obstacle := geometry.R(150, 0, 50, 50)

	r := NewRouter(20)
	r.AddObstacle(obstacle)
	if !r.CheckCollision {
		t.Fatal("Expected AddObstacle to enable collision checking")
	}

	best := r.GetAllLines(
		NewRouterShape(source, core.East, core.North, core.South),
		NewRouterShape(target, core.West, core.North, core.South),
	)
	if !best.IsValid() {
		t.Fatal("Expected a route around the obstacle")
	}
	assertEndpointsOnBoundary(t, best, source, target)

	if geometry.PolylineIntersectsRect(obstacle, best.Points) {
		t.Errorf("Route %v crosses obstacle %v", best, obstacle)
	}
	if !geometry.IsOrthogonal(best.Points) {
		t.Errorf("Route %v is not orthogonal", best)
	}

	want := []geometry.Point{
		geometry.Pt(50, 0), geometry.Pt(50, -20), geometry.Pt(250, -20), geometry.Pt(250, 0),
	}
	if !reflect.DeepEqual(best.Points, want) {
		t.Errorf("Expected points %v, got %v", want, best.Points)
	}
}

func TestRouter_BestLineIsShortestFinalLine(t *testing.T) {
	r := NewRouter(20)
	r.AddObstacle(geometry.R(150, 0, 50, 50))
	r.GetAllLines(
		NewRouterShape(geometry.R(0, 0, 100, 50), core.East, core.North, core.South),
		NewRouterShape(geometry.R(200, 0, 100, 50), core.West, core.North, core.South),
	)

	res := r.Result()
	if len(res.FinalLines) == 0 {
		t.Fatal("Expected at least one final line")
	}
	if len(res.FinalLines) > len(res.SolvedLines) {
		t.Errorf("Final lines (%d) must be a subset of solved lines (%d)",
			len(res.FinalLines), len(res.SolvedLines))
	}
	for _, line := range res.FinalLines {
		if line.Length() < res.BestLine.Length()-geometry.Epsilon {
			t.Errorf("Final line %v is shorter than best line %v", line, res.BestLine)
		}
	}
}

func TestRouter_Idempotent(t *testing.T) {
	left := NewRouterShape(geometry.R(0, 0, 100, 50))
	right := NewRouterShape(geometry.R(200, 150, 100, 50))

	r := NewRouter(20)
	r.AddObstacle(geometry.R(120, 60, 60, 60))

	first := r.GetAllLines(left, right)
	firstResult := r.Result()
	second := r.GetAllLines(left, right)
	secondResult := r.Result()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical best lines, got %v and %v", first, second)
	}
	if len(firstResult.FinalLines) != len(secondResult.FinalLines) {
		t.Errorf("Expected %d final lines, got %d",
			len(firstResult.FinalLines), len(secondResult.FinalLines))
	}
	if firstResult.Steps != secondResult.Steps {
		t.Errorf("Expected %d steps, got %d", firstResult.Steps, secondResult.Steps)
	}
}

func TestRouter_DiagonalTargetUsesConnector(t *testing.T) {
	source := geometry.R(0, 0, 100, 50)
	target := geometry.R(200, 150, 100, 50)

	r := NewRouter(20)
	best := r.GetAllLines(
		NewRouterShape(source, core.East, core.North, core.South),
		NewRouterShape(target, core.West, core.North, core.South),
	)

	// The vertical connector through the gap beats the 275px L-shaped route.
	want := []geometry.Point{
		geometry.Pt(100, 25), geometry.Pt(150, 25), geometry.Pt(150, 175), geometry.Pt(200, 175),
	}
	if !reflect.DeepEqual(best.Points, want) {
		t.Errorf("Expected points %v, got %v", want, best.Points)
	}
}

func TestRouter_Terminates(t *testing.T) {
	tests := []struct {
		name        string
		left, right geometry.Rect
	}{
		{"touching", geometry.R(0, 0, 100, 50), geometry.R(100, 0, 100, 50)},
		{"overlapping", geometry.R(0, 0, 100, 50), geometry.R(50, 25, 100, 50)},
		{"contained", geometry.R(0, 0, 200, 200), geometry.R(50, 50, 20, 20)},
		{"negative size", geometry.R(100, 50, -100, -50), geometry.R(300, 0, 50, 50)},
		{"zero size", geometry.R(0, 0, 0, 0), geometry.R(100, 100, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(20)
			best := r.GetAllLines(NewRouterShape(tt.left), NewRouterShape(tt.right))

			res := r.Result()
			if res.Steps > DefaultMaxIterations {
				t.Errorf("Expected at most %d steps, got %d", DefaultMaxIterations, res.Steps)
			}
			if best.IsValid() != res.Success {
				t.Errorf("Success %v does not match best line %v", res.Success, best)
			}
		})
	}
}

func TestRouter_SelfLoop(t *testing.T) {
	rect := geometry.R(0, 0, 100, 50)

	r := NewRouter(20)
	best := r.GetAllLines(NewRouterShape(rect), NewRouterShape(rect))

	if !best.IsValid() {
		t.Fatal("Expected a self-loop route")
	}
	if best.Length() <= 0 {
		t.Errorf("Expected a positive length, got %v", best.Length())
	}
	assertEndpointsOnBoundary(t, best, rect, rect)
	if !geometry.IsOrthogonal(best.Points) {
		t.Errorf("Route %v is not orthogonal", best)
	}
}

func TestRouter_StepLimit(t *testing.T) {
	r := NewRouter(20)
	r.MaxIterations = 3
	r.GetAllLines(
		NewRouterShape(geometry.R(0, 0, 100, 50)),
		NewRouterShape(geometry.R(200, 0, 100, 50)),
	)

	res := r.Result()
	if !res.Truncated {
		t.Error("Expected the search to be truncated")
	}
	if res.Steps > 3 {
		t.Errorf("Expected at most 3 steps, got %d", res.Steps)
	}
}

func TestRouter_NoRoute(t *testing.T) {
	r := NewRouter(20)
	r.AddObstacle(geometry.R(-1000, -1000, 3000, 3000))

	best := r.GetAllLines(
		NewRouterShape(geometry.R(0, 0, 100, 50)),
		NewRouterShape(geometry.R(200, 0, 100, 50)),
	)
	if best.IsValid() {
		t.Errorf("Expected the empty line, got %v", best)
	}
	res := r.Result()
	if res.Success {
		t.Error("Expected Success to be false")
	}
	if len(res.FinalLines) != 0 {
		t.Errorf("Expected no final lines, got %d", len(res.FinalLines))
	}
	if len(res.SolvedLines) == 0 {
		t.Error("Expected colliding candidates to be kept in solved lines")
	}
}

func TestRouter_ClearObstacles(t *testing.T) {
	r := NewRouter(20)
	r.AddObstacle(geometry.R(150, 0, 50, 50))
	r.ClearObstacles()

	if r.CheckCollision {
		t.Error("Expected collision checking to be off")
	}
	if len(r.Rects) != 0 {
		t.Errorf("Expected no obstacles, got %d", len(r.Rects))
	}
}

func TestRouter_SearchLines(t *testing.T) {
	left := NewRouterShape(geometry.R(0, 0, 100, 50), core.East)
	right := NewRouterShape(geometry.R(200, 0, 100, 50), core.West)

	tests := []struct {
		name       string
		configure  func(r *Router)
		wantPrefix []string
		notPrefix  []string
	}{
		{
			name:       "defaults",
			configure:  func(r *Router) {},
			wantPrefix: []string{"GV", "O0", "O1", "O2", "O3", "L:East", "R:West"},
			notPrefix:  []string{"I0.", "GH"},
		},
		{
			name: "inner rect",
			configure: func(r *Router) {
				r.UseInnerRect = true
				r.AddObstacle(geometry.R(150, 100, 20, 20))
			},
			wantPrefix: []string{"I0.0", "I0.1", "I0.2", "I0.3"},
		},
		{
			name:       "no outer rect",
			configure:  func(r *Router) { r.UseOuterRect = false },
			wantPrefix: []string{"GV"},
			notPrefix:  []string{"O0", "O1", "O2", "O3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(20)
			tt.configure(r)
			r.GetAllLines(left, right)

			var ids []string
			for _, l := range r.Result().AllLines {
				ids = append(ids, l.ID)
			}
			joined := strings.Join(ids, " ")
			for _, p := range tt.wantPrefix {
				if !strings.Contains(joined, p) {
					t.Errorf("Expected search line %q in %v", p, ids)
				}
			}
			for _, p := range tt.notPrefix {
				if strings.Contains(joined, p) {
					t.Errorf("Did not expect search line %q in %v", p, ids)
				}
			}
		})
	}
}

func TestRouter_InnerRectOutline(t *testing.T) {
	r := NewRouter(20)
	r.UseInnerRect = true
	r.AddObstacle(geometry.R(150, 100, 20, 20))
	r.GetAllLines(
		NewRouterShape(geometry.R(0, 0, 100, 50)),
		NewRouterShape(geometry.R(200, 0, 100, 50)),
	)

	for _, l := range r.Result().AllLines {
		if l.ID != "I0.0" {
			continue
		}
		want := geometry.Seg(geometry.Pt(130, 80), geometry.Pt(190, 80))
		if got := l.Segment(); !got.A.Eq(want.A) || !got.B.Eq(want.B) {
			t.Errorf("Expected top outline %v, got %v", want, got)
		}
		return
	}
	t.Error("Top outline line I0.0 not found")
}

func TestRouter_RouteLineWithCustomStubs(t *testing.T) {
	left := NewRouterShape(geometry.R(0, 0, 100, 50))
	right := NewRouterShape(geometry.R(200, 0, 100, 50))

	r := NewRouter(20)
	leftLines, rightLines := r.StubLinesFor(left, right)

	pick := func(lines []RouterLine, id string) []RouterLine {
		for _, l := range lines {
			if l.ID == id {
				return []RouterLine{l}
			}
		}
		t.Fatalf("Stub %s not found", id)
		return nil
	}

	ok := r.RouteLine(left, right, pick(leftLines, "L:North"), pick(rightLines, "R:North"))
	if !ok {
		t.Fatal("Expected RouteLine to succeed")
	}

	want := []geometry.Point{
		geometry.Pt(50, 0), geometry.Pt(50, -20), geometry.Pt(250, -20), geometry.Pt(250, 0),
	}
	if got := r.BestLine().Points; !reflect.DeepEqual(got, want) {
		t.Errorf("Expected points %v, got %v", want, got)
	}
}

func TestRouter_RouteLineWithoutStubs(t *testing.T) {
	r := NewRouter(20)
	ok := r.RouteLine(
		NewRouterShape(geometry.R(0, 0, 100, 50)),
		NewRouterShape(geometry.R(200, 0, 100, 50)),
		nil, []RouterLine{EmptyLine()},
	)
	if ok {
		t.Error("Expected RouteLine to fail without source stubs")
	}
}

func TestRouter_StubLines(t *testing.T) {
	left := NewRouterShape(geometry.R(0, 0, 100, 50), core.East, core.East)
	right := NewRouterShape(geometry.R(200, 0, 100, 50), core.West)

	r := NewRouter(20)
	leftLines, rightLines := r.StubLinesFor(left, right)

	if len(leftLines) != 1 {
		t.Fatalf("Expected duplicate sides to collapse into 1 stub, got %d", len(leftLines))
	}
	l := leftLines[0]
	if l.ID != "L:East" {
		t.Errorf("Expected ID L:East, got %s", l.ID)
	}
	if !l.First().Eq(geometry.Pt(100, 25)) || !l.Last().Eq(geometry.Pt(320, 25)) {
		t.Errorf("Expected stub (100,25)→(320,25), got %v", l)
	}
	if l.ExitDegree == nil || *l.ExitDegree != core.East || l.EntryDegree != nil {
		t.Errorf("Expected only ExitDegree East, got exit=%v entry=%v", l.ExitDegree, l.EntryDegree)
	}

	if len(rightLines) != 1 {
		t.Fatalf("Expected 1 right stub, got %d", len(rightLines))
	}
	rl := rightLines[0]
	if !rl.First().Eq(geometry.Pt(200, 25)) || !rl.Last().Eq(geometry.Pt(-20, 25)) {
		t.Errorf("Expected stub (200,25)→(-20,25), got %v", rl)
	}
	if rl.EntryDegree == nil || *rl.EntryDegree != core.West {
		t.Errorf("Expected EntryDegree West, got %v", rl.EntryDegree)
	}
}

func TestGetStartPoint(t *testing.T) {
	rect := geometry.R(0, 0, 100, 50)

	tests := []struct {
		name  string
		dir   core.Direction
		start geometry.OptionalPoint
		want  geometry.Point
	}{
		{"north centre", core.North, geometry.OptionalPoint{}, geometry.Pt(50, 0)},
		{"east centre", core.East, geometry.OptionalPoint{}, geometry.Pt(100, 25)},
		{"south centre", core.South, geometry.OptionalPoint{}, geometry.Pt(50, 50)},
		{"west centre", core.West, geometry.OptionalPoint{}, geometry.Pt(0, 25)},
		{"north pinned x", core.North, geometry.OptionalPoint{X: geometry.Some(20)}, geometry.Pt(20, 0)},
		{"east ignores x", core.East, geometry.OptionalPoint{X: geometry.Some(20)}, geometry.Pt(100, 25)},
		{"west pinned y", core.West, geometry.OptionalPoint{Y: geometry.Some(10)}, geometry.Pt(0, 10)},
		{"south ignores y", core.South, geometry.OptionalPoint{Y: geometry.Some(10)}, geometry.Pt(50, 50)},
		{"clamped", core.South, geometry.OptionalPoint{X: geometry.Some(500)}, geometry.Pt(100, 50)},
		{"complete on side", core.North, geometry.At(geometry.Pt(30, 0)), geometry.Pt(30, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := getStartPoint(rect, tt.dir, tt.start)
			if !got.Eq(tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestShortestLine_FirstOnTies(t *testing.T) {
	a := NewRouterLine("a", geometry.Pt(0, 0), geometry.Pt(10, 0))
	b := NewRouterLine("b", geometry.Pt(0, 0), geometry.Pt(0, 10))
	c := NewRouterLine("c", geometry.Pt(0, 0), geometry.Pt(0, 20))

	if got := shortestLine([]RouterLine{c, a, b}); got.ID != "a" {
		t.Errorf("Expected a, got %s", got.ID)
	}
	if got := shortestLine(nil); got.IsValid() {
		t.Errorf("Expected the empty line, got %v", got)
	}
}
