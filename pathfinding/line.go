// Package pathfinding computes orthogonal polylines between two rectangular
// shapes by searching along stub, boundary and connector lines.
package pathfinding

import (
	"fmt"
	"strings"

	"ormd/core"
	"ormd/geometry"
)

// RouterLine is a candidate or final polyline. ID is stable for a given
// search and is built from the IDs of the lines the path travelled along.
type RouterLine struct {
	Points      []geometry.Point `json:"points"`
	ID          string           `json:"id"`
	EntryDegree *core.Direction  `json:"entryDegree,omitempty"`
	ExitDegree  *core.Direction  `json:"exitDegree,omitempty"`
}

// EmptyLine returns the sentinel returned when no route exists.
func EmptyLine() RouterLine {
	return RouterLine{Points: []geometry.Point{}}
}

// NewRouterLine creates a line through the given points.
func NewRouterLine(id string, points ...geometry.Point) RouterLine {
	return RouterLine{ID: id, Points: append([]geometry.Point(nil), points...)}
}

// IsValid reports whether the line has at least two points.
func (l RouterLine) IsValid() bool {
	return len(l.Points) >= 2
}

// Length returns the summed length of all segments.
func (l RouterLine) Length() float64 {
	return geometry.PolylineLength(l.Points)
}

// First returns the first point. The line must not be empty.
func (l RouterLine) First() geometry.Point {
	return l.Points[0]
}

// Last returns the last point. The line must not be empty.
func (l RouterLine) Last() geometry.Point {
	return l.Points[len(l.Points)-1]
}

// Segment returns the segment from the first to the last point.
func (l RouterLine) Segment() geometry.Segment {
	return geometry.Seg(l.First(), l.Last())
}

// Clone returns a deep copy of the line.
func (l RouterLine) Clone() RouterLine {
	c := RouterLine{ID: l.ID, Points: append([]geometry.Point{}, l.Points...)}
	if l.EntryDegree != nil {
		d := *l.EntryDegree
		c.EntryDegree = &d
	}
	if l.ExitDegree != nil {
		d := *l.ExitDegree
		c.ExitDegree = &d
	}
	return c
}

func (l RouterLine) String() string {
	if !l.IsValid() {
		return "empty line"
	}
	parts := make([]string, len(l.Points))
	for i, p := range l.Points {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s (len=%.1f): %s", l.ID, l.Length(), strings.Join(parts, " → "))
}

// RouterShape is one endpoint of a connection to route.
type RouterShape struct {
	Rect geometry.Rect
	// DesiredDegree lists the sides the line may use, most preferred first.
	// An empty list allows all four sides.
	DesiredDegree []core.Direction
	// StartPoint optionally pins the anchor on the chosen side.
	StartPoint geometry.OptionalPoint
}

// NewRouterShape creates a shape that may exit through the given sides.
func NewRouterShape(rect geometry.Rect, dirs ...core.Direction) RouterShape {
	return RouterShape{Rect: rect, DesiredDegree: dirs}
}

func directionPtr(d core.Direction) *core.Direction {
	return &d
}
