// Package corner resolves the router-bit requests of format A outlines and
// produces machinable format B outlines.
//
// Every corner with a zero request is kept angular. Positive requests are
// smoothed with a fillet of the requested radius tangent to both adjacent
// segments. Negative requests enlarge the corner so that a cutter of the
// requested radius reaches the vertex. Corners that cannot be processed are
// kept angular and reported as ErrCornerDegraded warnings.
package corner

import (
	"fmt"
	"math"

	"github.com/soypat/cnc25d"
	"gonum.org/v1/gonum/spatial/r2"
)

// joint is the replacement of a vertex: the incoming segment now stops at end
// and the inserted segments follow it.
type joint struct {
	end      r2.Vec
	inserted []cnc25d.Segment
}

// exit is the new start point of the outgoing segment.
func (j joint) exit() r2.Vec {
	if len(j.inserted) > 0 {
		return j.inserted[len(j.inserted)-1].End
	}
	return j.end
}

// Cut processes every corner of a and returns the resulting outline along with
// the warnings raised. A closed input yields a closed output whose last point
// equals its first bitwise.
func Cut(a cnc25d.OutlineA) (cnc25d.OutlineB, cnc25d.Warnings, error) {
	if err := a.Validate(); err != nil {
		return nil, nil, err
	}
	n := len(a)
	closed := a.Closed()
	pieces := make([]piece, n) // pieces[i] reaches a[i].End. pieces[0] is unused.
	for i := 1; i < n; i++ {
		p, err := newPiece(a[i-1].End, a[i].Segment)
		if err != nil {
			return nil, nil, &cnc25d.IndexError{Index: i, Err: err}
		}
		pieces[i] = p
	}

	var warns cnc25d.Warnings
	joints := make([]joint, n)
	for i := range joints {
		joints[i] = joint{end: a[i].End}
	}
	first := 1
	if closed {
		first = 0
	}
	for i := first; i <= n-2; i++ {
		if a[i].Bit == 0 {
			continue
		}
		pre := pieces[i]
		if i == 0 {
			pre = pieces[n-1]
		}
		j, err := cutCorner(pre, pieces[i+1], a[i].Bit)
		if err != nil {
			warns.Add(cnc25d.ErrCornerDegraded, i, "%v", err)
			continue
		}
		joints[i] = j
	}
	if closed {
		joints[n-1] = joints[0]
	}

	// Neighbouring corners must not consume the same stretch of a segment.
	for i := 1; i < n; i++ {
		if pieces[i].ordered(joints[i-1].exit(), joints[i].end) {
			continue
		}
		target := i
		if closed && i == n-1 {
			target = 0
		}
		warns.Add(cnc25d.ErrCornerDegraded, target, "router bit %g overlaps the corner at index %d", a[target].Bit, i-1)
		joints[target] = joint{end: a[target].End}
		if closed && target == 0 {
			joints[n-1] = joints[0]
		}
	}

	var asm assembler
	asm.out = make(cnc25d.OutlineB, 0, 2*n)
	asm.out = append(asm.out, cnc25d.Segment{Kind: cnc25d.KindLine, End: joints[0].exit()})
	for i := 1; i < n; i++ {
		p := pieces[i]
		from, to := joints[i-1].exit(), joints[i].end
		if p.kind == cnc25d.KindArc {
			mid := p.mid
			if from != p.start || to != p.end {
				var err error
				mid, err = cnc25d.ArcMiddle(p.start, p.mid, p.end, from, to)
				if err != nil {
					return nil, warns, &cnc25d.IndexError{Index: i, Err: err}
				}
			}
			asm.arcTo(mid, to)
		} else {
			asm.lineTo(to)
		}
		for _, s := range joints[i].inserted {
			if s.Kind == cnc25d.KindArc {
				asm.arcTo(s.Mid, s.End)
			} else {
				asm.lineTo(s.End)
			}
		}
	}
	out := asm.out
	if closed && len(out) > 1 {
		out[len(out)-1].End = out[0].End
	}
	if err := out.Validate(); err != nil {
		return nil, warns, fmt.Errorf("%w: generated outline: %v", cnc25d.ErrGeometryInconsistent, err)
	}
	return out, warns, nil
}

// assembler appends segments while dropping the ones that collapsed to a point.
type assembler struct {
	out cnc25d.OutlineB
}

func (asm *assembler) cursor() r2.Vec { return asm.out[len(asm.out)-1].End }

func (asm *assembler) lineTo(p r2.Vec) {
	if r2.Norm(r2.Sub(p, asm.cursor())) < cnc25d.EpsilonFine {
		return
	}
	asm.out = append(asm.out, cnc25d.Segment{Kind: cnc25d.KindLine, End: p})
}

func (asm *assembler) arcTo(mid, p r2.Vec) {
	c := asm.cursor()
	if r2.Norm(r2.Sub(p, c)) < cnc25d.EpsilonFine {
		return
	}
	asm.out = append(asm.out, cnc25d.ArcOrLine(c, mid, p))
}

// cutCorner dispatches on the kinds of the segments around the vertex and on
// the sign of the request.
func cutCorner(pre, post piece, r float64) (joint, error) {
	v := pre.end
	if pre.kind == cnc25d.KindLine && post.kind == cnc25d.KindLine {
		if r > 0 {
			return smoothLineLine(pre.start, v, post.end, r)
		}
		return enlargeLineLine(pre.start, v, post.end, -r)
	}
	if r < 0 {
		return joint{}, errUnsupportedEnlarge(pre.kind, post.kind)
	}
	return fillet(pre, post, r)
}

// piece is a segment of the input outline with its start point.
type piece struct {
	kind   cnc25d.Kind
	start  r2.Vec
	mid    r2.Vec
	end    r2.Vec
	length float64
	arc    cnc25d.Arc
}

func newPiece(start r2.Vec, s cnc25d.Segment) (piece, error) {
	p := piece{kind: s.Kind, start: start, mid: s.Mid, end: s.End}
	if s.Kind == cnc25d.KindArc {
		arc, err := cnc25d.ArcCenterRadiusAngles(start, s.Mid, s.End)
		if err != nil {
			return p, err
		}
		p.arc = arc
		p.length = arc.Length()
		return p, nil
	}
	p.length = r2.Norm(r2.Sub(s.End, start))
	return p, nil
}

// tangent returns the unit direction of travel at q.
func (p piece) tangent(q r2.Vec) r2.Vec {
	if p.kind == cnc25d.KindArc {
		return p.arc.TangentAt(q)
	}
	return r2.Scale(1/p.length, r2.Sub(p.end, p.start))
}

// line returns the supporting line of a line piece, normal to its left.
func (p piece) line() cnc25d.Line {
	u := p.tangent(p.start)
	l := cnc25d.Line{LX: -u.Y, LY: u.X}
	l.K = -(l.LX*p.start.X + l.LY*p.start.Y)
	return l
}

// param returns the distance travelled from start to reach q.
func (p piece) param(q r2.Vec) float64 {
	if p.kind == cnc25d.KindArc {
		return p.arc.Param(q) * p.arc.Radius
	}
	return r2.Dot(r2.Sub(q, p.start), p.tangent(q))
}

// ordered reports whether from does not come after to along p.
func (p piece) ordered(from, to r2.Vec) bool {
	return p.param(to)-p.param(from) >= -cnc25d.EpsilonFine
}

// contains reports whether q lies on p within tolerance.
func (p piece) contains(q r2.Vec) bool {
	if p.kind == cnc25d.KindArc {
		return p.arc.Contains(q)
	}
	if math.Abs(p.line().Distance(q)) > cnc25d.Epsilon {
		return false
	}
	t := p.param(q)
	return t >= -cnc25d.Epsilon && t <= p.length+cnc25d.Epsilon
}

// foot returns the point of p's supporting curve closest to q.
func (p piece) foot(q r2.Vec) r2.Vec {
	if p.kind == cnc25d.KindArc {
		return cnc25d.Polar(p.arc.Center, p.arc.Radius, math.Atan2(q.Y-p.arc.Center.Y, q.X-p.arc.Center.X))
	}
	return cnc25d.LinePointProjection(p.line(), q)
}
