// Package geometry provides the rectangle, point and segment primitives used by
// the line router.
package geometry

import "math"

// Epsilon is the tolerance used for coordinate comparisons.
const Epsilon = 1e-9

// Equal reports whether two coordinates are equal within Epsilon.
func Equal(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

// Clamp limits v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
