// Package d2 holds small planar helpers shared by the outline packages.
package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// EqualWithin reports whether a and b agree component-wise within tol.
func EqualWithin(a, b r2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
}

// Set is a list of points.
type Set []r2.Vec

// SignedArea returns the shoelace area of the closed polygon a. It is positive
// for counter-clockwise polygons.
func (a Set) SignedArea() float64 {
	var s float64
	for i := range a {
		p, q := a[i], a[(i+1)%len(a)]
		s += p.X*q.Y - q.X*p.Y
	}
	return s / 2
}
