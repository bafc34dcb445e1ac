package cnc25d

import (
	"github.com/soypat/cnc25d/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// Reverse returns a traversing the same points in the opposite direction.
// The first and last router-bit requests stay in place so that the wrap-around
// request of a closed outline remains on the new first corner. Interior
// requests follow their points. Reversing twice yields a bitwise copy of a.
func (a OutlineA) Reverse() OutlineA {
	n := len(a)
	if n == 0 {
		return nil
	}
	r := make(OutlineA, n)
	r[0] = Corner{Segment: Segment{Kind: KindLine, End: a[n-1].End}, Bit: a[0].Bit}
	for j := 1; j < n; j++ {
		src := a[n-j]
		r[j] = Corner{
			Segment: Segment{Kind: src.Kind, Mid: src.Mid, End: a[n-1-j].End},
			Bit:     a[n-1-j].Bit,
		}
	}
	if n > 1 {
		r[n-1].Bit = a[n-1].Bit
	}
	return r
}

// Reverse returns b traversing the same points in the opposite direction.
func (b OutlineB) Reverse() OutlineB {
	n := len(b)
	if n == 0 {
		return nil
	}
	r := make(OutlineB, n)
	r[0] = Segment{Kind: KindLine, End: b[n-1].End}
	for j := 1; j < n; j++ {
		src := b[n-j]
		r[j] = Segment{Kind: src.Kind, Mid: src.Mid, End: b[n-1-j].End}
	}
	return r
}

// Close appends a line back to the first point. Closing a closed outline
// returns an unchanged copy and an ErrAlreadyClosed warning.
func (a OutlineA) Close() (OutlineA, Warnings) {
	var warns Warnings
	c := make(OutlineA, len(a), len(a)+1)
	copy(c, a)
	if len(a) == 0 || a.Closed() {
		warns.Add(ErrAlreadyClosed, -1, "outline of %d corners left untouched", len(a))
		return c, warns
	}
	return append(c, Corner{Segment: Segment{Kind: KindLine, End: a[0].End}, Bit: a[0].Bit}), nil
}

// Close appends a line back to the first point. Closing a closed outline
// returns an unchanged copy and an ErrAlreadyClosed warning.
func (b OutlineB) Close() (OutlineB, Warnings) {
	var warns Warnings
	c := make(OutlineB, len(b), len(b)+1)
	copy(c, b)
	if len(b) == 0 || b.Closed() {
		warns.Add(ErrAlreadyClosed, -1, "outline of %d segments left untouched", len(b))
		return c, warns
	}
	return append(c, Segment{Kind: KindLine, End: b[0].End}), nil
}

// ShiftXY maps every point (x, y) to (dx + cx·x, dy + cy·y). When cx·cy < 0
// the map mirrors the outline, so a is reversed first to keep its orientation.
func (a OutlineA) ShiftXY(dx, cx, dy, cy float64) (OutlineA, error) {
	t, err := shiftTransform(dx, cx, dy, cy)
	if err != nil {
		return nil, err
	}
	if t.Determinant() < 0 {
		a = a.Reverse()
	}
	return a.apply(t), nil
}

// ShiftXY maps every point (x, y) to (dx + cx·x, dy + cy·y). When cx·cy < 0
// the map mirrors the outline, so b is reversed first to keep its orientation.
func (b OutlineB) ShiftXY(dx, cx, dy, cy float64) (OutlineB, error) {
	t, err := shiftTransform(dx, cx, dy, cy)
	if err != nil {
		return nil, err
	}
	if t.Determinant() < 0 {
		b = b.Reverse()
	}
	return b.apply(t), nil
}

func shiftTransform(dx, cx, dy, cy float64) (d2.Transform, error) {
	if cx == 0 || cy == 0 {
		return d2.Transform{}, ErrAt(-1, ErrValueOutOfDomain, "scale factors (%g, %g) collapse the outline", cx, cy)
	}
	return d2.Translate(r2.Vec{X: dx, Y: dy}).Mul(d2.Scale(r2.Vec{X: cx, Y: cy})), nil
}

// Rotate rotates every end point and arc middle point by angle about o.
func (a OutlineA) Rotate(o r2.Vec, angle float64) OutlineA {
	return a.apply(d2.RotateAbout(o, angle))
}

// Rotate rotates every end point and arc middle point by angle about o.
func (b OutlineB) Rotate(o r2.Vec, angle float64) OutlineB {
	return b.apply(d2.RotateAbout(o, angle))
}

func (a OutlineA) apply(t d2.Transform) OutlineA {
	r := make(OutlineA, len(a))
	for i, c := range a {
		r[i] = Corner{Segment: c.Segment.apply(t), Bit: c.Bit}
	}
	if a.Closed() {
		r[len(r)-1].End = r[0].End
	}
	return r
}

func (b OutlineB) apply(t d2.Transform) OutlineB {
	r := make(OutlineB, len(b))
	for i, s := range b {
		r[i] = s.apply(t)
	}
	if b.Closed() {
		r[len(r)-1].End = r[0].End
	}
	return r
}

func (s Segment) apply(t d2.Transform) Segment {
	s.End = t.ApplyPos(s.End)
	if s.Kind == KindArc {
		s.Mid = t.ApplyPos(s.Mid)
	}
	return s
}
