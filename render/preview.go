// Package render draws routed designs as box-drawing text on a terminal.
package render

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"ormd/core"
	"ormd/diagram"
	"ormd/geometry"
)

// DefaultScale maps 10 design units to one terminal column.
const DefaultScale = 0.1

// Styles used when drawing on a tcell screen.
var (
	TableStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	TextStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	LineStyle  = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	HeadStyle  = tcell.StyleDefault.Foreground(tcell.ColorAqua)
)

// Preview scales a design onto a character grid. Terminal cells are about
// twice as tall as they are wide, so rows use half the column scale.
type Preview struct {
	Scale  float64
	Arrows ArrowStyle
}

// NewPreview creates a preview with the default scale.
func NewPreview() *Preview {
	return &Preview{Scale: DefaultScale, Arrows: DefaultArrowStyle}
}

type projection struct {
	origin geometry.Point
	sx, sy float64
}

func (p projection) cell(pt geometry.Point) (int, int) {
	return int(math.Round((pt.X - p.origin.X) * p.sx)), int(math.Round((pt.Y - p.origin.Y) * p.sy))
}

func (p *Preview) project(d *diagram.Design) (projection, int, int) {
	scale := p.Scale
	if scale <= 0 {
		scale = DefaultScale
	}
	proj := projection{sx: scale, sy: scale / 2}

	var extent geometry.Rect
	first := true
	grow := func(r geometry.Rect) {
		if first {
			extent, first = r, false
			return
		}
		extent = geometry.UnionRect(extent, r)
	}
	for _, t := range d.Shapes() {
		grow(geometry.NormalizeRect(t.Bounds))
	}
	for _, ref := range d.Lines() {
		for _, pt := range ref.Points {
			grow(geometry.R(pt.X, pt.Y, 0, 0))
		}
	}
	if first {
		return proj, 0, 0
	}
	proj.origin = geometry.Pt(extent.Left, extent.Top)
	w, h := proj.cell(geometry.Pt(extent.Right(), extent.Bottom()))
	return proj, w + 1, h + 1
}

// Draw renders d onto a new canvas sized to its content. It returns nil for an
// empty design.
func (p *Preview) Draw(d *diagram.Design) *Canvas {
	proj, w, h := p.project(d)
	c := NewCanvas(w, h)
	if c == nil {
		return nil
	}

	for _, t := range d.Shapes() {
		r := geometry.NormalizeRect(t.Bounds)
		x1, y1 := proj.cell(geometry.Pt(r.Left, r.Top))
		x2, y2 := proj.cell(geometry.Pt(r.Right(), r.Bottom()))
		c.DrawBox(x1, y1, x2-x1+1, y2-y1+1)
	}

	type head struct {
		x, y int
		r    rune
	}
	var heads []head
	for _, ref := range d.Lines() {
		if len(ref.Points) < 2 {
			continue
		}
		var px, py int
		for i, pt := range ref.Points {
			x, y := proj.cell(pt)
			if i > 0 {
				c.DrawSegment(px, py, x, y)
			}
			px, py = x, y
		}
		if x, y, r, ok := p.arrowhead(proj, ref.Points); ok {
			heads = append(heads, head{x, y, r})
		}
	}

	for _, t := range d.Shapes() {
		r := geometry.NormalizeRect(t.Bounds)
		x1, y1 := proj.cell(geometry.Pt(r.Left, r.Top))
		x2, _ := proj.cell(geometry.Pt(r.Right(), r.Bottom()))
		name := t.Name
		if name == "" {
			name = t.ID
		}
		c.DrawText(x1+1, y1+1, name, x2-x1-1)
	}
	for _, hd := range heads {
		c.DrawArrow(hd.x, hd.y, hd.r)
	}
	return c
}

// arrowhead sits on the last cell before the target outline, pointing along
// the final segment.
func (p *Preview) arrowhead(proj projection, points []geometry.Point) (int, int, rune, bool) {
	n := len(points)
	x1, y1 := proj.cell(points[n-2])
	x2, y2 := proj.cell(points[n-1])

	var dir core.Direction
	dx, dy := 0, 0
	switch {
	case x2 > x1:
		dir, dx = core.East, -1
	case x2 < x1:
		dir, dx = core.West, 1
	case y2 > y1:
		dir, dy = core.South, -1
	case y2 < y1:
		dir, dy = core.North, 1
	default:
		return 0, 0, 0, false
	}
	x, y := x2, y2
	if abs(x2-x1)+abs(y2-y1) > 1 {
		x, y = x2+dx, y2+dy
	}
	arrows := p.Arrows
	if arrows == (ArrowStyle{}) {
		arrows = DefaultArrowStyle
	}
	return x, y, arrows.For(dir), true
}

// Render returns the design as text.
func (p *Preview) Render(d *diagram.Design) string {
	c := p.Draw(d)
	if c == nil {
		return ""
	}
	return c.String()
}

// Show draws d on screen without waiting for input.
func (p *Preview) Show(screen tcell.Screen, d *diagram.Design) {
	screen.Clear()
	if c := p.Draw(d); c != nil {
		for y := 0; y < c.height; y++ {
			for x := 0; x < c.width; x++ {
				cl := c.cells[y][x]
				if cl.kind == blankCell {
					continue
				}
				screen.SetContent(x, y, cl.char(), nil, styleFor(cl.kind))
			}
		}
	}
	screen.Show()
}

// Run shows d on an initialized screen until a key is pressed, redrawing on
// resize. The caller owns the screen and finalizes it.
func (p *Preview) Run(screen tcell.Screen, d *diagram.Design) {
	p.Show(screen, d)
	for {
		switch screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			return
		case *tcell.EventResize:
			screen.Sync()
			p.Show(screen, d)
		}
	}
}

func styleFor(kind cellKind) tcell.Style {
	switch kind {
	case textCell:
		return TextStyle
	case lineCell:
		return LineStyle
	case arrowCell:
		return HeadStyle
	default:
		return TableStyle
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
