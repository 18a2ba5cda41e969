// Package layout provides algorithms for positioning shapes on the canvas.
package layout

import "ormd/geometry"

// Engine positions shapes inside bounds. Only the Width and Height of each
// size are read; the result keeps the input order.
type Engine interface {
	Arrange(bounds geometry.Rect, sizes []geometry.Rect) []geometry.Rect
}
