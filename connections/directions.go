package connections

import (
	"math"

	"ormd/core"
	"ormd/geometry"
)

// GetDefaultDirections returns the side of source facing target followed by
// the two perpendicular sides. The facing side is found by comparing centres;
// horizontal wins when the offsets are equal.
func GetDefaultDirections(source, target geometry.Rect) []core.Direction {
	primary := facing(source, target)
	perp := primary.Perpendicular()
	return []core.Direction{primary, perp[0], perp[1]}
}

func facing(source, target geometry.Rect) core.Direction {
	from := geometry.Center(geometry.NormalizeRect(source))
	to := geometry.Center(geometry.NormalizeRect(target))
	dx, dy := to.X-from.X, to.Y-from.Y

	if math.Abs(dx) >= math.Abs(dy) {
		if dx < 0 {
			return core.West
		}
		return core.East
	}
	if dy < 0 {
		return core.North
	}
	return core.South
}

// DirectionFromPoint classifies p relative to rect. A point lying on an edge
// gets that edge's side, checked in the order West, East, North, South.
// Other points get the side of their larger offset from the centre.
func DirectionFromPoint(rect geometry.Rect, p geometry.Point) core.Direction {
	rect = geometry.NormalizeRect(rect)
	if p.Y >= rect.Top-geometry.Epsilon && p.Y <= rect.Bottom()+geometry.Epsilon {
		switch {
		case geometry.Equal(p.X, rect.Left):
			return core.West
		case geometry.Equal(p.X, rect.Right()):
			return core.East
		}
	}
	if p.X >= rect.Left-geometry.Epsilon && p.X <= rect.Right()+geometry.Epsilon {
		switch {
		case geometry.Equal(p.Y, rect.Top):
			return core.North
		case geometry.Equal(p.Y, rect.Bottom()):
			return core.South
		}
	}

	c := geometry.Center(rect)
	dx, dy := p.X-c.X, p.Y-c.Y
	if math.Abs(dx) > math.Abs(dy) {
		if dx < 0 {
			return core.West
		}
		return core.East
	}
	if dy < 0 {
		return core.North
	}
	return core.South
}

func containsDirection(dirs []core.Direction, d core.Direction) bool {
	for _, v := range dirs {
		if v == d {
			return true
		}
	}
	return false
}
