// Package involute evaluates involutes of circles, the flank curves of spur
// gear teeth.
package involute

import (
	"math"

	"github.com/soypat/cnc25d"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultMaxIter bounds SearchBisect when no cap is given.
const DefaultMaxIter = 200

// Curve is the involute of the circle of radius Base centered at Center. The
// curve leaves the circle at polar angle Start and unwinds counter-clockwise
// when Orientation is +1, clockwise when it is -1.
type Curve struct {
	Center      r2.Vec
	Base        float64
	Start       float64
	Orientation float64
}

// Crossing is the point where a curve reaches a given radius.
type Crossing struct {
	// U is the curve parameter, the unwound angle.
	U float64
	// Angle is the polar angle of the point around the curve's center.
	Angle float64
	cnc25d.Sample
}

// Function returns the involute function inv(u) = u - atan(u), the polar
// angle travelled by an involute between its start and parameter u.
func Function(u float64) float64 {
	return u - math.Atan(u)
}

// At returns the point at parameter u along with its tangent inclination.
func (c Curve) At(u float64) cnc25d.Sample {
	s, co := math.Sincos(u)
	x := co + u*s
	y := c.Orientation * (s - u*co)
	ss, sc := math.Sincos(c.Start)
	return cnc25d.Sample{
		P: r2.Vec{
			X: c.Center.X + c.Base*(sc*x-ss*y),
			Y: c.Center.Y + c.Base*(ss*x+sc*y),
		},
		Tangent: cnc25d.NormalizeAngle(c.Start + c.Orientation*u),
	}
}

// Radius returns the distance to the center of the point at parameter u.
func (c Curve) Radius(u float64) float64 {
	return c.Base * math.Sqrt(1+u*u)
}

// Param returns the parameter at which an involute of base radius base
// reaches radius. It fails with ErrValueOutOfDomain when radius < base.
func Param(base, radius float64) (float64, error) {
	if base <= 0 || radius < base {
		return 0, cnc25d.ErrAt(-1, cnc25d.ErrValueOutOfDomain, "radius %g below base radius %g", radius, base)
	}
	q := radius / base
	return math.Sqrt(q*q - 1), nil
}

// Search returns the point of c at the given radius in closed form.
func (c Curve) Search(radius float64) (Crossing, error) {
	u, err := Param(c.Base, radius)
	if err != nil {
		return Crossing{}, err
	}
	return c.crossing(u), nil
}

// SearchBisect returns the point of c at the given radius by bisection on the
// parameter. When maxIter runs out before the bracket shrinks below
// cnc25d.EpsilonFine/1000, the best estimate is returned along with an
// ErrConvergenceIncomplete warning. A non-positive maxIter selects DefaultMaxIter.
func (c Curve) SearchBisect(radius float64, maxIter int) (Crossing, cnc25d.Warnings, error) {
	if c.Base <= 0 || radius < c.Base {
		return Crossing{}, nil, cnc25d.ErrAt(-1, cnc25d.ErrValueOutOfDomain, "radius %g below base radius %g", radius, c.Base)
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	const tol = cnc25d.EpsilonFine / 1000
	lo, hi := 0.0, 1.0
	for c.Radius(hi) < radius {
		lo, hi = hi, 2*hi
	}
	var warns cnc25d.Warnings
	for i := 0; hi-lo > tol; i++ {
		if i == maxIter {
			warns.Add(cnc25d.ErrConvergenceIncomplete, -1, "bracket [%g, %g] after %d iterations", lo, hi, maxIter)
			break
		}
		mid := (lo + hi) / 2
		if c.Radius(mid) < radius {
			lo = mid
		} else {
			hi = mid
		}
	}
	return c.crossing((lo + hi) / 2), warns, nil
}

func (c Curve) crossing(u float64) Crossing {
	return Crossing{
		U:      u,
		Angle:  cnc25d.NormalizeAngle(c.Start + c.Orientation*Function(u)),
		Sample: c.At(u),
	}
}

// Normal returns the inclination of the curve normal at u. The normal points
// away from the tangency point on the base circle, which is outwards from the
// center.
func (c Curve) Normal(u float64) float64 {
	return cnc25d.NormalizeAngle(c.Start + c.Orientation*(u-math.Pi/2))
}

// SampleOffset returns the point at parameter u moved by offset along the
// normal. Positive offsets move away from the center.
func (c Curve) SampleOffset(offset, u float64) cnc25d.Sample {
	s := c.At(u)
	s.P = cnc25d.Polar(s.P, offset, c.Normal(u))
	return s
}
