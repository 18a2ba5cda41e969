package render

import (
	"strings"

	"ormd/core"
)

// Line directions leaving a cell. Box-drawing characters are derived from the
// union of the directions drawn into a cell, so crossings and corners merge.
const (
	up uint8 = 1 << iota
	down
	left
	right
)

var boxRunes = [16]rune{
	0:                        ' ',
	up:                       '│',
	down:                     '│',
	up | down:                '│',
	left:                     '─',
	right:                    '─',
	left | right:             '─',
	down | right:             '┌',
	down | left:              '┐',
	up | right:               '└',
	up | left:                '┘',
	up | down | right:        '├',
	up | down | left:         '┤',
	down | left | right:      '┬',
	up | left | right:        '┴',
	up | down | left | right: '┼',
}

// ArrowStyle holds the arrowhead drawn for each direction of travel.
type ArrowStyle struct {
	Right rune
	Left  rune
	Up    rune
	Down  rune
}

// DefaultArrowStyle uses solid triangles.
var DefaultArrowStyle = ArrowStyle{Right: '▶', Left: '◀', Up: '▲', Down: '▼'}

func (s ArrowStyle) For(dir core.Direction) rune {
	switch dir {
	case core.East:
		return s.Right
	case core.West:
		return s.Left
	case core.North:
		return s.Up
	default:
		return s.Down
	}
}

type cellKind int

const (
	blankCell cellKind = iota
	tableCell
	lineCell
	textCell
	arrowCell
)

type cell struct {
	mask uint8
	r    rune
	kind cellKind
}

func (c cell) char() rune {
	if c.r != 0 {
		return c.r
	}
	return boxRunes[c.mask]
}

// Canvas is a grid of character cells. Lines drawn into the same cell merge
// into junctions; text and arrows overwrite whatever is below them.
//
// Canvas is not safe for concurrent use.
type Canvas struct {
	cells  [][]cell
	width  int
	height int
}

// NewCanvas creates a blank canvas, or nil for a non-positive size.
func NewCanvas(width, height int) *Canvas {
	if width <= 0 || height <= 0 {
		return nil
	}
	cells := make([][]cell, height)
	for y := range cells {
		cells[y] = make([]cell, width)
	}
	return &Canvas{cells: cells, width: width, height: height}
}

// Size returns the width and height of the canvas.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

func (c *Canvas) inside(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Get returns the character at x, y, or a space outside the canvas.
func (c *Canvas) Get(x, y int) rune {
	if !c.inside(x, y) {
		return ' '
	}
	return c.cells[y][x].char()
}

func (c *Canvas) link(x, y int, mask uint8, kind cellKind) {
	if !c.inside(x, y) {
		return
	}
	cl := &c.cells[y][x]
	cl.mask |= mask
	if cl.kind < kind && cl.r == 0 {
		cl.kind = kind
	}
}

func (c *Canvas) put(x, y int, r rune, kind cellKind) {
	if !c.inside(x, y) {
		return
	}
	cl := &c.cells[y][x]
	if cl.kind == arrowCell && kind != arrowCell {
		return
	}
	cl.r = r
	cl.kind = kind
}

// DrawBox draws a frame covering columns x..x+w-1 and rows y..y+h-1.
func (c *Canvas) DrawBox(x, y, w, h int) {
	if w < 2 || h < 2 {
		return
	}
	x2, y2 := x+w-1, y+h-1
	c.drawRun(x, y, x2, y, tableCell)
	c.drawRun(x, y2, x2, y2, tableCell)
	c.drawRun(x, y, x, y2, tableCell)
	c.drawRun(x2, y, x2, y2, tableCell)
}

// DrawSegment draws a horizontal or vertical run between two cells. Diagonal
// runs are drawn as an L through (x2, y1).
func (c *Canvas) DrawSegment(x1, y1, x2, y2 int) {
	if x1 != x2 && y1 != y2 {
		c.drawRun(x1, y1, x2, y1, lineCell)
		c.drawRun(x2, y1, x2, y2, lineCell)
		return
	}
	c.drawRun(x1, y1, x2, y2, lineCell)
}

func (c *Canvas) drawRun(x1, y1, x2, y2 int, kind cellKind) {
	switch {
	case y1 == y2 && x1 != x2:
		if x1 > x2 {
			x1, x2 = x2, x1
		}
		c.link(x1, y1, right, kind)
		for x := x1 + 1; x < x2; x++ {
			c.link(x, y1, left|right, kind)
		}
		c.link(x2, y1, left, kind)
	case x1 == x2 && y1 != y2:
		if y1 > y2 {
			y1, y2 = y2, y1
		}
		c.link(x1, y1, down, kind)
		for y := y1 + 1; y < y2; y++ {
			c.link(x1, y, up|down, kind)
		}
		c.link(x1, y2, up, kind)
	}
}

// DrawText writes s from x, y, clipped to limit cells.
func (c *Canvas) DrawText(x, y int, s string, limit int) {
	i := 0
	for _, r := range s {
		if i >= limit {
			return
		}
		c.put(x+i, y, r, textCell)
		i++
	}
}

// DrawArrow places an arrowhead at x, y.
func (c *Canvas) DrawArrow(x, y int, r rune) {
	c.put(x, y, r, arrowCell)
}

// String returns the canvas rows joined by newlines.
func (c *Canvas) String() string {
	var sb strings.Builder
	sb.Grow(c.height * (c.width + 1))
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			sb.WriteRune(c.cells[y][x].char())
		}
		if y < c.height-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}
