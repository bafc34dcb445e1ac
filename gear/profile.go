package gear

import (
	"fmt"
	"math"

	"github.com/soypat/cnc25d"
	"github.com/soypat/cnc25d/corner"
	"github.com/soypat/cnc25d/involute"
	"gonum.org/v1/gonum/spatial/r2"
)

// tooth holds the flanks and top land of one tooth in traversal order.
type tooth struct {
	rise cnc25d.OutlineB // foot of the first flank to its tip
	fall cnc25d.OutlineB // tip of the second flank to its foot
	// land joins the tips. halves join them through mid.
	land      cnc25d.Segment
	halves    [2]cnc25d.Segment
	mid       r2.Vec
	collapsed bool
}

func (t *tooth) foot1() r2.Vec { return t.rise[0].End }
func (t *tooth) tip1() r2.Vec  { return t.rise[len(t.rise)-1].End }
func (t *tooth) foot2() r2.Vec { return t.fall[len(t.fall)-1].End }

// hollow holds the corners joining the foot of a tooth to the foot of the
// next one. in stops at mid, out resumes from mid.
type hollow struct {
	full, in, out []cnc25d.Corner
	mid           r2.Vec
}

// Outline returns the gear outline in format B: the closed outline of the
// complete gear, or the open outline of the selected portion.
func (g *Gear) Outline() (cnc25d.OutlineB, cnc25d.Warnings, error) {
	a, err := g.OutlineA()
	if err != nil {
		return nil, nil, err
	}
	return corner.Cut(a)
}

// OutlineA returns the gear outline before the router bit is applied to the
// hollows.
func (g *Gear) OutlineA() (cnc25d.OutlineA, error) {
	n := g.Portion.Teeth
	full := n == 0 && g.Type != Linear
	if n == 0 {
		n = g.Teeth
	}
	if n == 1 && g.Portion.First == TopMiddle && g.Portion.Last == TopMiddle {
		return nil, fmt.Errorf("%w: a one tooth portion cannot start and stop at the top middle", cnc25d.ErrValueOutOfDomain)
	}
	// teeth[0] precedes the first emitted tooth.
	teeth := make([]tooth, n+2)
	for i := range teeth {
		t, err := g.tooth(i - 1)
		if err != nil {
			return nil, err
		}
		teeth[i] = t
	}
	hollows := make([]hollow, n+1) // hollows[i] follows teeth[i]
	for i := range hollows {
		h, err := g.hollow(&teeth[i], &teeth[i+1])
		if err != nil {
			return nil, err
		}
		hollows[i] = h
	}

	var a cnc25d.OutlineA
	first, last := g.Portion.First, g.Portion.Last
	if full {
		first, last = SlopeBottom, SlopeBottom
	}
	t0 := &teeth[1]
	switch first {
	case HalfHollow:
		a = append(a, lineCorner(hollows[0].mid))
		a = append(a, hollows[0].out...)
	case SlopeBottom:
		a = append(a, lineCorner(t0.foot1()))
	case SlopeTop:
		a = append(a, lineCorner(t0.tip1()))
	case TopMiddle:
		a = append(a, lineCorner(t0.mid))
	}
	for k := 1; k <= n; k++ {
		t := &teeth[k]
		isFirst, isLast := k == 1, k == n
		if !isFirst || first == HalfHollow || first == SlopeBottom {
			a = appendB(a, t.rise)
		}
		switch {
		case t.collapsed:
		case isFirst && first == TopMiddle:
			a = append(a, cnc25d.Corner{Segment: t.halves[1]})
		case isLast && last == TopMiddle:
			a = append(a, cnc25d.Corner{Segment: t.halves[0]})
		default:
			a = append(a, cnc25d.Corner{Segment: t.land})
		}
		if isLast && (last == TopMiddle || last == SlopeTop) {
			break
		}
		a = appendB(a, t.fall)
		switch {
		case full || !isLast:
			a = append(a, hollows[k].full...)
		case last == HalfHollow:
			a = append(a, hollows[k].in...)
		}
	}
	if full {
		// the last hollow reaches the first foot up to rounding
		a[len(a)-1].End = a[0].End
	}
	if g.Type == Linear {
		a = a.Rotate(r2.Vec{}, g.InitialAngle)
		var err error
		if a, err = a.ShiftXY(g.Center.X, 1, g.Center.Y, 1); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func lineCorner(p r2.Vec) cnc25d.Corner {
	return cnc25d.Corner{Segment: cnc25d.Segment{Kind: cnc25d.KindLine, End: p}}
}

// appendB appends the segments of b following its start point.
func appendB(a cnc25d.OutlineA, b cnc25d.OutlineB) cnc25d.OutlineA {
	for _, s := range b[1:] {
		a = append(a, cnc25d.Corner{Segment: s})
	}
	return a
}

func (g *Gear) polar(p r2.Vec) float64 {
	return math.Atan2(p.Y-g.Center.Y, p.X-g.Center.X)
}

func (g *Gear) tooth(k int) (tooth, error) {
	if g.Type == Linear {
		return g.rackTooth(k)
	}
	var t tooth
	for i, first := range [2]bool{true, false} {
		c, offset, res, err := g.flank(k, first)
		if err != nil {
			return t, err
		}
		from, to := g.footRadius(c.Base), g.tipRadius()
		if !first {
			from, to = to, from
		}
		samples, err := flankSamples(c, offset, res, from, to)
		if err != nil {
			return t, err
		}
		if i == 0 {
			t.rise = samples.ToB()
		} else {
			t.fall = samples.ToB()
		}
	}
	tip1, tip2 := t.tip1(), t.fall[0].End
	a1 := g.polar(tip1)
	width := cnc25d.NormalizeAngle(g.polar(tip2) - a1)
	if width <= 0 {
		return t, fmt.Errorf("%w: tooth %d has top land %.4g rad", cnc25d.ErrGearInfeasible, k, width)
	}
	tip := g.tipRadius()
	t.mid = cnc25d.Polar(g.Center, tip, a1+width/2)
	if r2.Norm(r2.Sub(tip2, tip1)) < cnc25d.EpsilonFine {
		t.collapsed = true
		t.fall[0].End = tip1
		t.mid = tip1
		return t, nil
	}
	t.land = cnc25d.ArcOrLine(tip1, t.mid, tip2)
	t.halves[0] = cnc25d.ArcOrLine(tip1, cnc25d.Polar(g.Center, tip, a1+width/4), t.mid)
	t.halves[1] = cnc25d.ArcOrLine(t.mid, cnc25d.Polar(g.Center, tip, a1+3*width/4), tip2)
	return t, nil
}

// flankSamples samples c from radius from to radius to. Tangents follow the
// direction of travel.
func flankSamples(c involute.Curve, offset float64, res int, from, to float64) (cnc25d.OutlineC, error) {
	u0, err := involute.Param(c.Base, from)
	if err != nil {
		return nil, err
	}
	u1, err := involute.Param(c.Base, to)
	if err != nil {
		return nil, err
	}
	samples := make(cnc25d.OutlineC, res)
	for i := range samples {
		u := u0 + (u1-u0)*float64(i)/float64(res-1)
		s := c.SampleOffset(offset, u)
		if u1 < u0 {
			s.Tangent = cnc25d.NormalizeAngle(s.Tangent + math.Pi)
		}
		samples[i] = s
	}
	return samples, nil
}

// hollow builds the route from the foot of t to the foot of next.
func (g *Gear) hollow(t, next *tooth) (hollow, error) {
	if g.Type == Linear {
		return g.rackHollow(t, next)
	}
	foot2, foot1 := t.foot2(), next.foot1()
	a2 := g.polar(foot2)
	alpha := cnc25d.NormalizeAngle(g.polar(foot1) - a2)
	if alpha <= 0 {
		return hollow{}, fmt.Errorf("%w: bottom land %.4g rad", cnc25d.ErrGearInfeasible, alpha)
	}
	r := g.RouterBitRadius
	mid := a2 + alpha/2
	if g.Type == External && r > 0 {
		d := r / math.Sin(alpha/2)
		if d-r > g.Dedendum {
			return g.optimizedHollow(foot2, foot1, a2, alpha, d)
		}
	}
	c2 := cnc25d.Polar(g.Center, g.Dedendum, a2)
	c1 := cnc25d.Polar(g.Center, g.Dedendum, a2+alpha)
	h := hollow{mid: cnc25d.Polar(g.Center, g.Dedendum, mid)}
	h.full = []cnc25d.Corner{
		{Segment: lineTo(c2), Bit: r},
		{Segment: cnc25d.Segment{Kind: cnc25d.KindArc, Mid: h.mid, End: c1}, Bit: r},
		{Segment: lineTo(foot1)},
	}
	h.in = []cnc25d.Corner{
		{Segment: lineTo(c2), Bit: r},
		{Segment: cnc25d.Segment{Kind: cnc25d.KindArc, Mid: cnc25d.Polar(g.Center, g.Dedendum, a2+alpha/4), End: h.mid}},
	}
	h.out = []cnc25d.Corner{
		{Segment: cnc25d.Segment{Kind: cnc25d.KindArc, Mid: cnc25d.Polar(g.Center, g.Dedendum, a2+3*alpha/4), End: c1}, Bit: r},
		{Segment: lineTo(foot1)},
	}
	return h, nil
}

// optimizedHollow replaces the bottom land with the router bit circle when the
// bit is too wide to reach the dedendum circle.
func (g *Gear) optimizedHollow(foot2, foot1 r2.Vec, a2, alpha, d float64) (hollow, error) {
	r := g.RouterBitRadius
	rt := d * math.Cos(alpha/2)
	foot := math.Min(r2.Norm(r2.Sub(foot2, g.Center)), r2.Norm(r2.Sub(foot1, g.Center)))
	if rt > foot+cnc25d.EpsilonFine {
		return hollow{}, fmt.Errorf("%w: router bit of radius %g touches the flanks above their foot", cnc25d.ErrGearInfeasible, r)
	}
	mid := a2 + alpha/2
	c := cnc25d.Polar(g.Center, d, mid)
	t2 := cnc25d.Polar(g.Center, rt, a2)
	t1 := cnc25d.Polar(g.Center, rt, a2+alpha)
	h := hollow{mid: cnc25d.Polar(g.Center, d-r, mid)}
	arcMid := func(p, q r2.Vec) r2.Vec {
		return r2.Add(c, r2.Scale(r, cnc25d.Bisector(r2.Unit(r2.Sub(p, c)), r2.Unit(r2.Sub(q, c)))))
	}
	var in, out []cnc25d.Corner
	if r2.Norm(r2.Sub(t2, foot2)) >= cnc25d.EpsilonFine {
		in = append(in, cnc25d.Corner{Segment: lineTo(t2)})
	}
	h.in = append(in, cnc25d.Corner{Segment: cnc25d.Segment{Kind: cnc25d.KindArc, Mid: arcMid(t2, h.mid), End: h.mid}})
	out = append(out, cnc25d.Corner{Segment: cnc25d.Segment{Kind: cnc25d.KindArc, Mid: arcMid(h.mid, t1), End: t1}})
	if r2.Norm(r2.Sub(foot1, t1)) >= cnc25d.EpsilonFine {
		out = append(out, cnc25d.Corner{Segment: lineTo(foot1)})
	}
	h.out = out
	h.full = append(append([]cnc25d.Corner{}, in...), cnc25d.Corner{Segment: cnc25d.Segment{Kind: cnc25d.KindArc, Mid: h.mid, End: t1}})
	h.full = append(h.full, out[1:]...)
	return h, nil
}

func lineTo(p r2.Vec) cnc25d.Segment {
	return cnc25d.Segment{Kind: cnc25d.KindLine, End: p}
}

// rackTooth builds tooth k of a rack in its own frame: teeth point towards +y
// and the primitive line is the x axis.
func (g *Gear) rackTooth(k int) (tooth, error) {
	var t tooth
	x := float64(k) * g.Pitch
	half := g.Parity * g.Pitch / 2
	tan, cos := math.Tan(g.PressureAngle), math.Cos(g.PressureAngle)
	x1 := x - half - g.SkinThicknessPos/cos
	x2 := x + half + g.SkinThicknessNeg/cos
	yf, yt := g.Hollow, g.Addendum
	foot1 := r2.Vec{X: x1 + yf*tan, Y: yf}
	tip1 := r2.Vec{X: x1 + yt*tan, Y: yt}
	tip2 := r2.Vec{X: x2 - yt*tan, Y: yt}
	foot2 := r2.Vec{X: x2 - yf*tan, Y: yf}
	width := tip2.X - tip1.X
	if width <= 0 {
		return t, fmt.Errorf("%w: rack tooth %d has top land %.4g", cnc25d.ErrGearInfeasible, k, width)
	}
	t.rise = cnc25d.OutlineB{lineTo(foot1), lineTo(tip1)}
	t.fall = cnc25d.OutlineB{lineTo(tip2), lineTo(foot2)}
	t.mid = r2.Scale(0.5, r2.Add(tip1, tip2))
	if width < cnc25d.EpsilonFine {
		t.collapsed = true
		t.fall[0].End = tip1
		t.mid = tip1
		return t, nil
	}
	t.land = lineTo(tip2)
	t.halves = [2]cnc25d.Segment{lineTo(t.mid), lineTo(tip2)}
	return t, nil
}

func (g *Gear) rackHollow(t, next *tooth) (hollow, error) {
	foot2, foot1 := t.foot2(), next.foot1()
	if foot1.X-foot2.X <= 0 {
		return hollow{}, fmt.Errorf("%w: rack bottom land %.4g", cnc25d.ErrGearInfeasible, foot1.X-foot2.X)
	}
	r := g.RouterBitRadius
	c2 := r2.Vec{X: foot2.X, Y: g.Dedendum}
	c1 := r2.Vec{X: foot1.X, Y: g.Dedendum}
	h := hollow{mid: r2.Scale(0.5, r2.Add(c1, c2))}
	h.full = []cnc25d.Corner{{Segment: lineTo(c2), Bit: r}, {Segment: lineTo(c1), Bit: r}, {Segment: lineTo(foot1)}}
	h.in = []cnc25d.Corner{{Segment: lineTo(c2), Bit: r}, {Segment: lineTo(h.mid)}}
	h.out = []cnc25d.Corner{{Segment: lineTo(c1), Bit: r}, {Segment: lineTo(foot1)}}
	return h, nil
}
