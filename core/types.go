// Package core contains the fundamental types shared by the router, the
// routing facade and the design model.
package core

import (
	"fmt"
	"strings"
)

// Direction is the compass side of a rectangle through which a line exits or
// enters. The numeric value is the bearing in degrees.
type Direction int

const (
	North Direction = 0
	East  Direction = 90
	South Direction = 180
	West  Direction = 270
)

// Directions lists the four sides in clockwise order starting at North.
var Directions = []Direction{North, East, South, West}

// String returns the string representation of a Direction.
func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	default:
		return "Unknown"
	}
}

// Degrees returns the bearing of the direction.
func (d Direction) Degrees() int {
	return int(d)
}

// IsValid reports whether d is one of the four compass directions.
func (d Direction) IsValid() bool {
	switch d {
	case North, East, South, West:
		return true
	}
	return false
}

// Opposite returns the opposite direction.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	case West:
		return East
	default:
		return d
	}
}

// IsHorizontal reports whether the direction points along the X axis.
func (d Direction) IsHorizontal() bool {
	return d == East || d == West
}

// IsVertical reports whether the direction points along the Y axis.
func (d Direction) IsVertical() bool {
	return d == North || d == South
}

// Perpendicular returns the two directions at right angles to d: North and
// South for horizontal directions, West and East for vertical ones.
func (d Direction) Perpendicular() [2]Direction {
	if d.IsHorizontal() {
		return [2]Direction{North, South}
	}
	return [2]Direction{West, East}
}

// Delta returns the unit step of the direction in canvas coordinates (Y down).
func (d Direction) Delta() (dx, dy float64) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	}
	return 0, 0
}

// ParseDirection accepts a direction name ("north", "E", ...) or its bearing.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north", "n", "top", "0":
		return North, nil
	case "east", "e", "right", "90":
		return East, nil
	case "south", "s", "bottom", "180":
		return South, nil
	case "west", "w", "left", "270":
		return West, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name or bearing.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
