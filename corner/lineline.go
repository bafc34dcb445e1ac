package corner

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/cnc25d"
	"gonum.org/v1/gonum/spatial/r2"
)

var errShortSides = errors.New("adjacent segments too short")

func errUnsupportedEnlarge(pre, post cnc25d.Kind) error {
	return fmt.Errorf("enlarging a %s-%s corner is not supported", pre, post)
}

// lineLineAngle returns the angle GVH and the unit vectors from v towards g and h.
func lineLineAngle(g, v, h r2.Vec) (a float64, ug, uh r2.Vec, err error) {
	vg := r2.Norm(r2.Sub(g, v))
	vh := r2.Norm(r2.Sub(h, v))
	gh := r2.Norm(r2.Sub(h, g))
	if vg <= cnc25d.Epsilon || vh <= cnc25d.Epsilon || gh <= cnc25d.Epsilon {
		return 0, ug, uh, errShortSides
	}
	// law of cosines
	cos := (vg*vg + vh*vh - gh*gh) / (2 * vg * vh)
	a = math.Acos(math.Max(-1, math.Min(1, cos)))
	if a <= cnc25d.Epsilon || a >= math.Pi-cnc25d.Epsilon {
		return a, ug, uh, fmt.Errorf("corner angle %.4g out of range", a)
	}
	return a, r2.Scale(1/vg, r2.Sub(g, v)), r2.Scale(1/vh, r2.Sub(h, v)), nil
}

// fits reports whether a point at distance d from v lies on both sides g-v and v-h.
func fits(d float64, g, v, h r2.Vec) bool {
	return d <= math.Min(r2.Norm(r2.Sub(g, v)), r2.Norm(r2.Sub(h, v)))+cnc25d.EpsilonFine
}

// smoothLineLine inscribes an arc of radius r in the corner g-v-h.
func smoothLineLine(g, v, h r2.Vec, r float64) (joint, error) {
	a, ug, uh, err := lineLineAngle(g, v, h)
	if err != nil {
		return joint{}, err
	}
	ve := r / math.Tan(a/2)
	if !fits(ve, g, v, h) {
		return joint{}, fmt.Errorf("fillet of radius %g needs %.4g along each side", r, ve)
	}
	vk := r * (1 - math.Sin(a/2)) * 2 / math.Sin(a)
	e := r2.Add(v, r2.Scale(ve, ug))
	f := r2.Add(v, r2.Scale(ve, uh))
	k := r2.Add(v, r2.Scale(vk, ug))
	l := r2.Add(v, r2.Scale(vk, uh))
	i := r2.Scale(0.5, r2.Add(k, l))
	return joint{end: e, inserted: []cnc25d.Segment{{Kind: cnc25d.KindArc, Mid: i, End: f}}}, nil
}

// enlargeLineLine carves the corner g-v-h so that a cutter of radius r
// touches v. Obtuse corners get an arc of the cutter circle through v. Acute
// corners get a slot of width 2r along the bisector ending in a half circle
// through v.
func enlargeLineLine(g, v, h r2.Vec, r float64) (joint, error) {
	a, ug, uh, err := lineLineAngle(g, v, h)
	if err != nil {
		return joint{}, err
	}
	if a >= math.Pi/2-cnc25d.EpsilonFine {
		ve := 2 * r * math.Cos(a/2)
		if !fits(ve, g, v, h) {
			return joint{}, fmt.Errorf("enlargement of radius %g needs %.4g along each side", r, ve)
		}
		e := r2.Add(v, r2.Scale(ve, ug))
		f := r2.Add(v, r2.Scale(ve, uh))
		return joint{end: e, inserted: []cnc25d.Segment{{Kind: cnc25d.KindArc, Mid: v, End: f}}}, nil
	}
	vm := r / math.Sin(a/2)
	if !fits(vm, g, v, h) {
		return joint{}, fmt.Errorf("enlargement of radius %g needs %.4g along each side", r, vm)
	}
	b := cnc25d.Bisector(ug, uh)
	c := r2.Add(v, r2.Scale(r, b))
	// unit normal of the bisector on the g side
	pg := r2.Unit(r2.Sub(ug, r2.Scale(r2.Dot(ug, b), b)))
	m := r2.Add(v, r2.Scale(vm, ug))
	n := r2.Add(v, r2.Scale(vm, uh))
	k := r2.Add(c, r2.Scale(r, pg))
	l := r2.Sub(c, r2.Scale(r, pg))
	return joint{end: m, inserted: []cnc25d.Segment{
		{Kind: cnc25d.KindLine, End: k},
		{Kind: cnc25d.KindArc, Mid: v, End: l},
		{Kind: cnc25d.KindLine, End: n},
	}}, nil
}
