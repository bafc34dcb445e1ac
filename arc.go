package cnc25d

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Arc is a circular arc recovered from three points.
type Arc struct {
	Center r2.Vec
	Radius float64
	// Sweep is the signed arc angle in (-2π, 2π]. Positive sweeps turn counter-clockwise.
	Sweep float64
	// Start and End are the polar angles of the first and last point around Center.
	Start, End float64
}

// ArcCenterRadiusAngles returns the circumscribed arc of a->b->c.
// It fails with ErrGeometryDegenerate when the points are coincident or collinear.
func ArcCenterRadiusAngles(a, b, c r2.Vec) (Arc, error) {
	ab := r2.Sub(b, a)
	bc := r2.Sub(c, b)
	ac := r2.Sub(c, a)
	lab, lbc, lac := r2.Norm(ab), r2.Norm(bc), r2.Norm(ac)
	if lab < EpsilonFine || lbc < EpsilonFine || lac < EpsilonFine {
		return Arc{}, fmt.Errorf("%w: arc points %v %v %v coincide", ErrGeometryDegenerate, a, b, c)
	}
	cross := r2.Cross(ab, ac)
	// sine of the inscribed angle at b
	if math.Abs(r2.Cross(ab, bc))/(lab*lbc) < EpsilonFine {
		return Arc{}, fmt.Errorf("%w: arc points %v %v %v are collinear", ErrGeometryDegenerate, a, b, c)
	}
	d := 2 * cross
	nab, nac := r2.Norm2(ab), r2.Norm2(ac)
	u := r2.Vec{
		X: (ac.Y*nab - ab.Y*nac) / d,
		Y: (ab.X*nac - ac.X*nab) / d,
	}
	arc := Arc{
		Center: r2.Add(a, u),
		Radius: r2.Norm(u),
	}
	arc.Start = arc.angleOf(a)
	arc.End = arc.angleOf(c)
	o := Sign(cross)
	arc.Sweep = o * posMod(o*(arc.End-arc.Start), tau)
	if arc.Sweep == 0 {
		arc.Sweep = o * tau
	}
	return arc, nil
}

func (a Arc) angleOf(p r2.Vec) float64 {
	return NormalizeAngle(math.Atan2(p.Y-a.Center.Y, p.X-a.Center.X))
}

// Orientation is +1 for counter-clockwise arcs and -1 for clockwise arcs.
func (a Arc) Orientation() float64 { return Sign(a.Sweep) }

// Length returns the arc length.
func (a Arc) Length() float64 { return a.Radius * math.Abs(a.Sweep) }

// PointAt returns the point of the circle at polar angle.
func (a Arc) PointAt(angle float64) r2.Vec { return Polar(a.Center, a.Radius, angle) }

// Middle returns the point of the arc halfway between its ends.
func (a Arc) Middle() r2.Vec { return a.PointAt(a.Start + a.Sweep/2) }

// TangentAt returns the unit tangent at p in the direction of travel.
// p is expected to lie on the arc's circle.
func (a Arc) TangentAt(p r2.Vec) r2.Vec {
	return r2.Scale(a.Orientation(), r2.Unit(left(r2.Sub(p, a.Center))))
}

// Param returns how far along the arc, in radians of travel from Start, the
// polar angle of p lies. Points in the gap nearer Start than End yield negative values.
func (a Arc) Param(p r2.Vec) float64 {
	o := a.Orientation()
	t := posMod(o*(a.angleOf(p)-a.Start), tau)
	if t > (math.Abs(a.Sweep)+tau)/2 {
		// closer to Start than to End going around the gap
		t -= tau
	}
	return t
}

// Contains reports whether p lies on the arc within tolerance.
func (a Arc) Contains(p r2.Vec) bool {
	if math.Abs(r2.Norm(r2.Sub(p, a.Center))-a.Radius) > Epsilon {
		return false
	}
	tol := Epsilon / math.Max(a.Radius, Epsilon)
	t := a.Param(p)
	return t >= -tol && t <= math.Abs(a.Sweep)+tol
}

// Flatten appends to dst the points approximating the arc, excluding its start,
// such that no chord deviates from the arc by more than tol.
func (a Arc) Flatten(dst []r2.Vec, tol float64) []r2.Vec {
	n := 1
	if tol < a.Radius {
		step := 2 * math.Acos(1-tol/a.Radius)
		n = int(math.Ceil(math.Abs(a.Sweep) / step))
	}
	if n < 1 {
		n = 1
	}
	for i := 1; i <= n; i++ {
		dst = append(dst, a.PointAt(a.Start+a.Sweep*float64(i)/float64(n)))
	}
	return dst
}

// ArcMiddle returns the middle point of the sub-arc newA->newC of the arc
// origA->origB->origC. newA and newC must lie on the original arc, in
// traversal order. Violations return ErrGeometryInconsistent.
func ArcMiddle(origA, origB, origC, newA, newC r2.Vec) (r2.Vec, error) {
	arc, err := ArcCenterRadiusAngles(origA, origB, origC)
	if err != nil {
		return r2.Vec{}, fmt.Errorf("%w: %v", ErrGeometryInconsistent, err)
	}
	for _, p := range [2]r2.Vec{newA, newC} {
		if d := math.Abs(r2.Norm(r2.Sub(p, arc.Center)) - arc.Radius); d > Epsilon {
			return r2.Vec{}, fmt.Errorf("%w: point %v is %.3g off the arc", ErrGeometryInconsistent, p, d)
		}
	}
	tol := Epsilon / math.Max(arc.Radius, Epsilon)
	ta, tc := arc.Param(newA), arc.Param(newC)
	if ta < -tol || tc > math.Abs(arc.Sweep)+tol || tc-ta < -tol {
		return r2.Vec{}, fmt.Errorf("%w: sub-arc %v->%v not on the original arc side", ErrGeometryInconsistent, newA, newC)
	}
	return arc.PointAt(arc.Start + arc.Orientation()*(ta+tc)/2), nil
}
