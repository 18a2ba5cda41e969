// Package validation checks routed designs for broken or overlapping geometry.
package validation

import (
	"fmt"
	"math"

	polyclip "github.com/akavel/polyclip-go"

	"ormd/diagram"
	"ormd/geometry"
)

// IssueKind classifies a validation issue.
type IssueKind string

const (
	Unrouted         IssueKind = "unrouted"
	Unresolved       IssueKind = "unresolved"
	NotOrthogonal    IssueKind = "not-orthogonal"
	CrossesTable     IssueKind = "crosses-table"
	DetachedEndpoint IssueKind = "detached-endpoint"
	TablesOverlap    IssueKind = "tables-overlap"
)

// Issue is one problem found in a design.
type Issue struct {
	Kind      IssueKind `json:"kind"`
	ElementID string    `json:"elementId"`
	Message   string    `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s [%s]: %s", i.Kind, i.ElementID, i.Message)
}

// Validator checks the references and tables of a design.
type Validator struct {
	// Tolerance is how far a line end may be from its table outline.
	Tolerance float64
	// MinOverlapArea is the shared area above which two tables overlap.
	MinOverlapArea float64
}

// NewValidator creates a validator with default settings.
func NewValidator() *Validator {
	return &Validator{
		Tolerance:      1,
		MinOverlapArea: 0,
	}
}

// Validate returns every issue found, line issues first in design order,
// then overlapping table pairs.
func (v *Validator) Validate(d *diagram.Design) []Issue {
	var issues []Issue
	for _, ref := range d.Lines() {
		issues = append(issues, v.validateLine(d, ref)...)
	}
	return append(issues, v.validateOverlaps(d)...)
}

func (v *Validator) validateLine(d *diagram.Design, ref *diagram.Reference) []Issue {
	src, srcOK := d.Shape(ref.Source)
	tgt, tgtOK := d.Shape(ref.Target)
	if !srcOK || !tgtOK {
		return []Issue{{Kind: Unresolved, ElementID: ref.ID,
			Message: fmt.Sprintf("source %q or target %q not found", ref.Source, ref.Target)}}
	}
	if len(ref.Points) < 2 {
		return []Issue{{Kind: Unrouted, ElementID: ref.ID,
			Message: fmt.Sprintf("%d points", len(ref.Points))}}
	}

	var issues []Issue
	add := func(kind IssueKind, format string, args ...interface{}) {
		issues = append(issues, Issue{Kind: kind, ElementID: ref.ID, Message: fmt.Sprintf(format, args...)})
	}

	for i := 1; i < len(ref.Points); i++ {
		a, b := ref.Points[i-1], ref.Points[i]
		if !geometry.IsOrthogonal([]geometry.Point{a, b}) {
			add(NotOrthogonal, "segment %d %v-%v is diagonal", i-1, a, b)
		}
	}

	first, last := ref.Points[0], ref.Points[len(ref.Points)-1]
	if !geometry.NormalizeRect(src.Bounds).OnBoundary(first, v.Tolerance) {
		add(DetachedEndpoint, "start %v is off table %q", first, src.ID)
	}
	if !geometry.NormalizeRect(tgt.Bounds).OnBoundary(last, v.Tolerance) {
		add(DetachedEndpoint, "end %v is off table %q", last, tgt.ID)
	}

	for _, t := range d.Shapes() {
		rect := geometry.NormalizeRect(t.Bounds)
		if t.ID == src.ID || t.ID == tgt.ID {
			// Lines may run along their own tables but not through them.
			if rect.Width <= 2 || rect.Height <= 2 {
				continue
			}
			rect = geometry.InflateRect(rect, -2, -2)
		}
		if geometry.PolylineIntersectsRect(rect, ref.Points) {
			add(CrossesTable, "crosses table %q", t.ID)
		}
	}
	return issues
}

func (v *Validator) validateOverlaps(d *diagram.Design) []Issue {
	tables := d.Shapes()
	var issues []Issue
	for i := 0; i < len(tables); i++ {
		for j := i + 1; j < len(tables); j++ {
			area := OverlapArea(tables[i].Bounds, tables[j].Bounds)
			if area > v.MinOverlapArea {
				issues = append(issues, Issue{
					Kind:      TablesOverlap,
					ElementID: tables[i].ID,
					Message:   fmt.Sprintf("overlaps table %q by %g", tables[j].ID, area),
				})
			}
		}
	}
	return issues
}

// OverlapArea returns the area shared by two rectangles.
func OverlapArea(a, b geometry.Rect) float64 {
	a, b = geometry.NormalizeRect(a), geometry.NormalizeRect(b)
	if a.IsEmpty() || b.IsEmpty() || !a.Intersects(b) {
		return 0
	}
	// Rectangles sharing only an edge or a corner have nothing to clip.
	if math.Min(a.Right(), b.Right())-math.Max(a.Left, b.Left) <= geometry.Epsilon ||
		math.Min(a.Bottom(), b.Bottom())-math.Max(a.Top, b.Top) <= geometry.Epsilon {
		return 0
	}
	subject := polyclip.Polygon{contour(a)}
	clipping := polyclip.Polygon{contour(b)}

	area := 0.0
	for _, c := range subject.Construct(polyclip.INTERSECTION, clipping) {
		area += math.Abs(shoelace(c))
	}
	return area
}

func contour(r geometry.Rect) polyclip.Contour {
	return polyclip.Contour{
		{X: r.Left, Y: r.Top},
		{X: r.Right(), Y: r.Top},
		{X: r.Right(), Y: r.Bottom()},
		{X: r.Left, Y: r.Bottom()},
	}
}

func shoelace(c polyclip.Contour) float64 {
	sum := 0.0
	for i := range c {
		j := (i + 1) % len(c)
		sum += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return sum / 2
}
