package layout

import (
	"math"

	"ormd/geometry"
	"ormd/logging"
)

// DefaultMargin is the spacing used by NewGrid.
const DefaultMargin = 20.0

// Grid places shapes left to right in rows, wrapping to a new row when the
// next shape would cross the right margin of the bounds.
type Grid struct {
	Margin float64
}

// NewGrid creates a grid layout with DefaultMargin.
func NewGrid() *Grid {
	return &Grid{Margin: DefaultMargin}
}

var _ Engine = (*Grid)(nil)

// Arrange returns the placed rectangles. The first shape sits at the top-left
// corner of bounds inset by the margin. Each row is as tall as its tallest
// shape. A shape wider than the bounds still gets a row of its own. Bounds
// with no width never wrap.
func (g *Grid) Arrange(bounds geometry.Rect, sizes []geometry.Rect) []geometry.Rect {
	bounds = geometry.NormalizeRect(bounds)
	margin := math.Max(g.Margin, 0)

	result := make([]geometry.Rect, len(sizes))
	x := bounds.Left + margin
	rowTop := bounds.Top + margin
	rowHeight := 0.0
	inRow := 0
	rows := 1

	for i, size := range sizes {
		size = geometry.NormalizeRect(size)

		if inRow > 0 && bounds.Width > 0 && x+size.Width > bounds.Right()-margin {
			rowTop += rowHeight + margin
			x = bounds.Left + margin
			rowHeight = 0
			inRow = 0
			rows++
		}

		result[i] = geometry.R(x, rowTop, size.Width, size.Height)
		x += size.Width + margin
		rowHeight = math.Max(rowHeight, size.Height)
		inRow++
	}

	logging.Logger().Debug("grid layout", "shapes", len(sizes), "rows", rows, "margin", margin)
	return result
}
