package corner

import (
	"fmt"
	"math"

	"github.com/soypat/cnc25d"
	"gonum.org/v1/gonum/spatial/r2"
)

// fillet inscribes an arc of radius r between two segments of which at least
// one is an arc. Each segment is offset by r towards the inside of the turn;
// the offsets meet at the fillet center.
func fillet(pre, post piece, r float64) (joint, error) {
	v := pre.end
	din, dout := pre.tangent(v), post.tangent(v)
	turn := cnc25d.AngleBetween(din, dout)
	if math.Abs(turn) < cnc25d.Epsilon {
		// tangent segments are already smooth
		return joint{end: v}, nil
	}
	o3 := cnc25d.Sign(turn)
	bis := cnc25d.Bisector(r2.Scale(-1, din), dout)
	j, err := filletSide(pre, post, r, o3, bis)
	if err == nil {
		return j, nil
	}
	// Near cusps the sign of the turn is unreliable.
	if j, err2 := filletSide(pre, post, r, -o3, r2.Scale(-1, bis)); err2 == nil {
		return j, nil
	}
	return joint{}, err
}

// filletSide builds the fillet whose center lies on side o3 of both segments.
func filletSide(pre, post piece, r, o3 float64, dir r2.Vec) (joint, error) {
	v := pre.end
	var s r2.Vec
	var status cnc25d.Status
	switch {
	case pre.kind == cnc25d.KindLine:
		q := offsetLine(pre, o3*r)
		j, rr, err := offsetCircle(post, o3*r)
		if err != nil {
			return joint{}, err
		}
		s, status = cnc25d.LineCircleIntersection(q, j, rr, v, dir)
	case post.kind == cnc25d.KindLine:
		q := offsetLine(post, o3*r)
		j, rr, err := offsetCircle(pre, o3*r)
		if err != nil {
			return joint{}, err
		}
		s, status = cnc25d.LineCircleIntersection(q, j, rr, v, dir)
	default:
		c1, rad1, err := offsetCircle(pre, o3*r)
		if err != nil {
			return joint{}, err
		}
		c2, rad2, err := offsetCircle(post, o3*r)
		if err != nil {
			return joint{}, err
		}
		s, status = cnc25d.Triangulation(c1, rad1, c2, rad2, v, r2.Scale(r, dir))
	}
	if status == cnc25d.IntersectNone {
		return joint{}, fmt.Errorf("no fillet of radius %g between %s and %s", r, pre.kind, post.kind)
	}
	t1, t2 := pre.foot(s), post.foot(s)
	if !pre.contains(t1) || !post.contains(t2) {
		return joint{}, fmt.Errorf("fillet of radius %g does not fit between %s and %s", r, pre.kind, post.kind)
	}
	mid := r2.Add(s, r2.Scale(r, cnc25d.Bisector(r2.Unit(r2.Sub(t1, s)), r2.Unit(r2.Sub(t2, s)))))
	return joint{end: t1, inserted: []cnc25d.Segment{cnc25d.ArcOrLine(t1, mid, t2)}}, nil
}

// offsetLine returns the supporting line of p moved by d to its left.
func offsetLine(p piece, d float64) cnc25d.Line {
	l := p.line()
	l.K -= d
	return l
}

// offsetCircle returns the circle of arc p moved by d to its left.
func offsetCircle(p piece, d float64) (r2.Vec, float64, error) {
	rr := p.arc.Radius - p.arc.Orientation()*d
	if rr <= cnc25d.EpsilonFine {
		return r2.Vec{}, 0, fmt.Errorf("arc of radius %.4g cannot hold a fillet of radius %g", p.arc.Radius, math.Abs(d))
	}
	return p.arc.Center, rr, nil
}
