package cnc25d

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Line is the normalized line LX·x + LY·y + K = 0 with LX²+LY² = 1.
// (LX, LY) is the left normal of the direction the line was built with.
type Line struct {
	LX, LY, K float64
}

// Direction returns the unit direction vector of l.
func (l Line) Direction() r2.Vec { return r2.Vec{X: l.LY, Y: -l.LX} }

// Normal returns the unit left normal of l.
func (l Line) Normal() r2.Vec { return r2.Vec{X: l.LX, Y: l.LY} }

// Distance returns the signed distance from p to l, positive on the left of l.
func (l Line) Distance(p r2.Vec) float64 { return l.LX*p.X + l.LY*p.Y + l.K }

// Status reports the outcome of an intersection that selects one of two candidates.
type Status uint8

const (
	IntersectFound Status = iota
	IntersectTangent
	IntersectNone
)

func (s Status) String() string {
	switch s {
	case IntersectFound:
		return "found"
	case IntersectTangent:
		return "tangent"
	case IntersectNone:
		return "none"
	}
	return "Status(" + fmt.Sprint(uint8(s)) + ")"
}

// RotatePoint rotates p around o by angle.
func RotatePoint(p, o r2.Vec, angle float64) r2.Vec {
	s, c := math.Sincos(angle)
	d := r2.Sub(p, o)
	return r2.Vec{X: o.X + c*d.X - s*d.Y, Y: o.Y + s*d.X + c*d.Y}
}

// LineEquation returns the normalized line through a and b, the distance
// between a and b and the inclination of a->b in (-π, π].
func LineEquation(a, b r2.Vec) (l Line, length, inclination float64, err error) {
	d := r2.Sub(b, a)
	length = r2.Norm(d)
	if length < Epsilon {
		return Line{}, length, 0, fmt.Errorf("%w: line from %v to %v is shorter than %.3g", ErrGeometryDegenerate, a, b, Epsilon)
	}
	inclination = NormalizeAngle(math.Atan2(d.Y, d.X))
	l.LX = -d.Y / length
	l.LY = d.X / length
	l.K = -(l.LX*a.X + l.LY*a.Y)
	return l, length, inclination, nil
}

// LineDistancePoint translates the line a->b by the signed distance d along its
// left normal. It returns the image of a and the translated line.
func LineDistancePoint(a, b r2.Vec, d float64) (r2.Vec, Line, error) {
	l, _, _, err := LineEquation(a, b)
	if err != nil {
		return r2.Vec{}, Line{}, err
	}
	q := r2.Add(a, r2.Scale(d, l.Normal()))
	l.K -= d
	return q, l, nil
}

// LinePointProjection returns the orthogonal projection of p on l.
func LinePointProjection(l Line, p r2.Vec) r2.Vec {
	return r2.Sub(p, r2.Scale(l.Distance(p), l.Normal()))
}

// LineLineIntersection returns the intersection of two lines or ErrParallel.
func LineLineIntersection(l1, l2 Line) (r2.Vec, error) {
	det := l1.LX*l2.LY - l1.LY*l2.LX
	if math.Abs(det) < EpsilonFine {
		return r2.Vec{}, ErrParallel
	}
	return r2.Vec{
		X: (l1.LY*l2.K - l1.K*l2.LY) / det,
		Y: (l1.K*l2.LX - l1.LX*l2.K) / det,
	}, nil
}

// LineCircleIntersection intersects l with the circle of center c and radius r.
// Of the two candidates it returns the one closest to hint among those lying
// ahead of hint along dir. A zero dir selects the closest candidate.
func LineCircleIntersection(l Line, c r2.Vec, r float64, hint, dir r2.Vec) (r2.Vec, Status) {
	dist := l.Distance(c)
	foot := r2.Sub(c, r2.Scale(dist, l.Normal()))
	h2 := r*r - dist*dist
	if h2 < 0 && math.Abs(dist)-math.Abs(r) > EpsilonFine {
		return foot, IntersectNone
	}
	h := math.Sqrt(math.Max(0, h2))
	if h < EpsilonFine {
		return foot, IntersectTangent
	}
	u := l.Direction()
	cand := [2]r2.Vec{r2.Add(foot, r2.Scale(h, u)), r2.Sub(foot, r2.Scale(h, u))}
	return pickHinted(cand, hint, dir)
}

// Triangulation intersects the circles (c1, rad1) and (c2, rad2). It returns the
// intersection lying on the same side of the line c1->c2 as hint+dir.
func Triangulation(c1 r2.Vec, rad1 float64, c2 r2.Vec, rad2 float64, hint, dir r2.Vec) (r2.Vec, Status) {
	d := r2.Sub(c2, c1)
	l := r2.Norm(d)
	if l < EpsilonFine {
		return c1, IntersectNone
	}
	u := r2.Scale(1/l, d)
	// distance from c1 to the radical line
	a := (l*l + rad1*rad1 - rad2*rad2) / (2 * l)
	foot := r2.Add(c1, r2.Scale(a, u))
	h2 := rad1*rad1 - a*a
	if h2 < 0 && math.Sqrt(-h2) > Epsilon {
		return foot, IntersectNone
	}
	h := math.Sqrt(math.Max(0, h2))
	if h < EpsilonFine {
		return foot, IntersectTangent
	}
	n := r2.Vec{X: -u.Y, Y: u.X}
	ref := r2.Cross(d, r2.Sub(r2.Add(hint, dir), c1))
	switch {
	case ref > 0:
		return r2.Add(foot, r2.Scale(h, n)), IntersectFound
	case ref < 0:
		return r2.Sub(foot, r2.Scale(h, n)), IntersectFound
	}
	cand := [2]r2.Vec{r2.Add(foot, r2.Scale(h, n)), r2.Sub(foot, r2.Scale(h, n))}
	return pickHinted(cand, hint, r2.Vec{})
}

func pickHinted(cand [2]r2.Vec, hint, dir r2.Vec) (r2.Vec, Status) {
	if n := r2.Norm(dir); n > 0 {
		dir = r2.Scale(1/n, dir)
	}
	best := -1
	bestDist := math.Inf(1)
	for i, q := range cand {
		off := r2.Sub(q, hint)
		if r2.Dot(off, dir) < -EpsilonFine {
			continue
		}
		if d := r2.Norm(off); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return cand[0], IntersectNone
	}
	return cand[best], IntersectFound
}

// Bisector returns the unit vector bisecting the unit vectors u and v.
// For opposite vectors it returns the left normal of u.
func Bisector(u, v r2.Vec) r2.Vec {
	s := r2.Add(u, v)
	if n := r2.Norm(s); n > EpsilonFine {
		return r2.Scale(1/n, s)
	}
	return r2.Vec{X: -u.Y, Y: u.X}
}

// AngleBetween returns the signed angle from u to v in (-π, π].
func AngleBetween(u, v r2.Vec) float64 {
	return NormalizeAngle(math.Atan2(r2.Cross(u, v), r2.Dot(u, v)))
}

// Polar returns the point at distance r from o in direction angle.
func Polar(o r2.Vec, r, angle float64) r2.Vec {
	s, c := math.Sincos(angle)
	return r2.Vec{X: o.X + r*c, Y: o.Y + r*s}
}

func posMod(x, m float64) float64 {
	x -= m * math.Floor(x/m)
	if x >= m {
		return 0
	}
	return x
}

func left(v r2.Vec) r2.Vec { return r2.Vec{X: -v.Y, Y: v.X} }
