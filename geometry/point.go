package geometry

import (
	"fmt"
	"math"
)

// Point is a 2D coordinate on the design canvas. Y grows downwards.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// NaNPoint returns the "no point" value produced by LineIntersection.
func NaNPoint() Point {
	return Point{X: math.NaN(), Y: math.NaN()}
}

// IsNaN reports whether either coordinate is NaN.
func (p Point) IsNaN() bool {
	return math.IsNaN(p.X) || math.IsNaN(p.Y)
}

// Eq compares two points within Epsilon.
func (p Point) Eq(o Point) bool {
	return Equal(p.X, o.X) && Equal(p.Y, o.Y)
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Distance2Points returns the Euclidean distance between p1 and p2.
func Distance2Points(p1, p2 Point) float64 {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Coord is a coordinate that may be left unspecified.
type Coord struct {
	Value float64
	Set   bool
}

// Some returns a specified coordinate.
func Some(v float64) Coord {
	return Coord{Value: v, Set: true}
}

// OptionalPoint is a point whose coordinates may each be unspecified.
// The zero value is fully unspecified.
type OptionalPoint struct {
	X, Y Coord
}

// At returns a fully specified OptionalPoint.
func At(p Point) OptionalPoint {
	return OptionalPoint{X: Some(p.X), Y: Some(p.Y)}
}

// IsUnspecified reports whether neither coordinate is set.
func (o OptionalPoint) IsUnspecified() bool {
	return !o.X.Set && !o.Y.Set
}

// IsComplete reports whether both coordinates are set.
func (o OptionalPoint) IsComplete() bool {
	return o.X.Set && o.Y.Set
}

// PolylineLength is the sum of the distances between consecutive points.
func PolylineLength(points []Point) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += Distance2Points(points[i-1], points[i])
	}
	return total
}

// IsAligned checks if three points are aligned horizontally or vertically.
func IsAligned(p1, p2, p3 Point) bool {
	if Equal(p1.Y, p2.Y) && Equal(p2.Y, p3.Y) {
		return true
	}
	return Equal(p1.X, p2.X) && Equal(p2.X, p3.X)
}

// SimplifyPolyline removes repeated points and interior points lying on a
// straight horizontal or vertical run.
func SimplifyPolyline(points []Point) []Point {
	if len(points) == 0 {
		return nil
	}

	deduped := []Point{points[0]}
	for _, p := range points[1:] {
		if !p.Eq(deduped[len(deduped)-1]) {
			deduped = append(deduped, p)
		}
	}
	if len(deduped) <= 2 {
		return deduped
	}

	simplified := []Point{deduped[0]}
	for i := 1; i < len(deduped)-1; i++ {
		if !IsAligned(simplified[len(simplified)-1], deduped[i], deduped[i+1]) {
			simplified = append(simplified, deduped[i])
		}
	}
	return append(simplified, deduped[len(deduped)-1])
}

// IsOrthogonal reports whether every segment of the polyline is horizontal or vertical.
func IsOrthogonal(points []Point) bool {
	for i := 1; i < len(points); i++ {
		if !Equal(points[i-1].X, points[i].X) && !Equal(points[i-1].Y, points[i].Y) {
			return false
		}
	}
	return true
}
