// Package obstacles indexes the rectangles that routed lines must avoid.
package obstacles

import "ormd/geometry"

// Entry is one indexed obstacle.
type Entry struct {
	ID   string
	Rect geometry.Rect
}

// Config controls how obstacles are matched against lines.
type Config struct {
	// Padding grows every obstacle on each side before segments are tested
	// against it, keeping lines that clearance away from the shapes.
	Padding float64

	// MinChildren and MaxChildren bound the R-tree node fan-out.
	MinChildren int
	MaxChildren int
}

// DefaultConfig returns the configuration used by NewIndex.
func DefaultConfig() Config {
	return Config{
		Padding:     0,
		MinChildren: 4,
		MaxChildren: 16,
	}
}
