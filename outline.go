package cnc25d

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Kind is the kind of a segment.
type Kind uint8

const (
	KindLine Kind = iota // straight segment
	KindArc              // circular arc through Mid
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindArc:
		return "arc"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Segment is an element of a format B outline. It reaches End from the
// previous segment's End, through Mid when it is an arc.
type Segment struct {
	Kind Kind
	Mid  r2.Vec // point strictly inside the arc. Unused for lines.
	End  r2.Vec
}

// LineTo returns a line segment ending at (x, y).
func LineTo(x, y float64) Segment {
	return Segment{Kind: KindLine, End: r2.Vec{X: x, Y: y}}
}

// ArcTo returns an arc segment through (mx, my) ending at (x, y).
func ArcTo(mx, my, x, y float64) Segment {
	return Segment{Kind: KindArc, Mid: r2.Vec{X: mx, Y: my}, End: r2.Vec{X: x, Y: y}}
}

// Corner is an element of a format A outline: a segment plus the router-bit
// request at its end point.
//
//   - Bit == 0 keeps the corner angular.
//   - Bit > 0 smooths the corner with an inscribed arc of radius Bit.
//   - Bit < 0 enlarges the corner so that a cutter of radius -Bit reaches it.
type Corner struct {
	Segment
	Bit float64
}

// LineCorner returns a line corner ending at (x, y) with router-bit request r.
func LineCorner(x, y, r float64) Corner {
	return Corner{Segment: LineTo(x, y), Bit: r}
}

// ArcCorner returns an arc corner through (mx, my) ending at (x, y) with router-bit request r.
func ArcCorner(mx, my, x, y, r float64) Corner {
	return Corner{Segment: ArcTo(mx, my, x, y), Bit: r}
}

// OutlineA is the authoring format. The first corner is the start point and is always a line corner.
type OutlineA []Corner

// OutlineB is the transport format. The first segment is the start point and is always a line.
type OutlineB []Segment

// Sample is a point with the inclination of the curve's tangent at that point.
type Sample struct {
	P       r2.Vec
	Tangent float64
}

// OutlineC is a list of tangent-carrying points.
type OutlineC []Sample

// Closed reports whether the last end point equals the first one exactly.
func (a OutlineA) Closed() bool {
	return len(a) > 1 && a[0].End == a[len(a)-1].End
}

// Closed reports whether the last end point equals the first one exactly.
func (b OutlineB) Closed() bool {
	return len(b) > 1 && b[0].End == b[len(b)-1].End
}

// Segments drops the router-bit requests of a.
func (a OutlineA) Segments() OutlineB {
	b := make(OutlineB, len(a))
	for i := range a {
		b[i] = a[i].Segment
	}
	return b
}

// Corners lifts b to format A with router-bit request bit on every interior
// corner. End corners of open outlines get no request.
func (b OutlineB) Corners(bit float64) OutlineA {
	a := make(OutlineA, len(b))
	closed := b.Closed()
	for i := range b {
		a[i] = Corner{Segment: b[i], Bit: bit}
	}
	if len(a) > 0 && !closed {
		a[0].Bit = 0
		a[len(a)-1].Bit = 0
	}
	return a
}

// Validate checks the invariants of a format A outline. It returns an
// *IndexError locating the first offending corner.
func (a OutlineA) Validate() error {
	if err := a.Segments().Validate(); err != nil {
		return err
	}
	for i := range a {
		if math.IsNaN(a[i].Bit) || math.IsInf(a[i].Bit, 0) {
			return ErrAt(i, ErrValueOutOfDomain, "router-bit request %g is not finite", a[i].Bit)
		}
	}
	if !a.Closed() {
		if a[0].Bit != 0 {
			return ErrAt(0, ErrValueOutOfDomain, "open outline starts with router-bit request %g", a[0].Bit)
		}
		if last := len(a) - 1; a[last].Bit != 0 {
			return ErrAt(last, ErrValueOutOfDomain, "open outline ends with router-bit request %g", a[last].Bit)
		}
	}
	return nil
}

// Validate checks the invariants of a format B outline: at least two elements,
// a line start, finite coordinates, no zero-length segment and well formed arcs.
func (b OutlineB) Validate() error {
	if len(b) < 2 {
		return ErrAt(len(b), ErrGeometryDegenerate, "outline needs at least two points, got %d", len(b))
	}
	if b[0].Kind != KindLine {
		return ErrAt(0, ErrValueOutOfDomain, "outline must start with a point, got %s", b[0].Kind)
	}
	for i := range b {
		s := b[i]
		if s.Kind != KindLine && s.Kind != KindArc {
			return ErrAt(i, ErrUnsupported, "segment kind %s", s.Kind)
		}
		if badVec(s.End) || (s.Kind == KindArc && badVec(s.Mid)) {
			return ErrAt(i, ErrValueOutOfDomain, "non finite coordinate")
		}
		if i == 0 {
			continue
		}
		start := b[i-1].End
		if r2.Norm(r2.Sub(s.End, start)) < EpsilonFine {
			return ErrAt(i, ErrGeometryDegenerate, "zero-length segment at %v", s.End)
		}
		if s.Kind == KindArc {
			if _, err := ArcCenterRadiusAngles(start, s.Mid, s.End); err != nil {
				return &IndexError{Index: i, Err: err}
			}
		}
	}
	return nil
}

func badVec(v r2.Vec) bool {
	return math.IsNaN(v.X) || math.IsInf(v.X, 0) || math.IsNaN(v.Y) || math.IsInf(v.Y, 0)
}

// ArcOrLine returns an arc from start through mid to end, or a line to end
// when mid lies within tolerance of the chord.
func ArcOrLine(start, mid, end r2.Vec) Segment {
	if _, err := ArcCenterRadiusAngles(start, mid, end); err != nil {
		return Segment{Kind: KindLine, End: end}
	}
	return Segment{Kind: KindArc, Mid: mid, End: end}
}

// ToB converts tangent-carrying samples to a format B outline. Two samples are
// joined by an arc whose total turning equals the change of tangent between
// them, or by a line when the tangent does not change.
func (c OutlineC) ToB() OutlineB {
	if len(c) == 0 {
		return nil
	}
	b := make(OutlineB, 0, len(c))
	b = append(b, Segment{Kind: KindLine, End: c[0].P})
	for i := 1; i < len(c); i++ {
		p0, p1 := c[i-1].P, c[i].P
		phi := NormalizeAngle(c[i].Tangent - c[i-1].Tangent)
		chord := r2.Sub(p1, p0)
		lc := r2.Norm(chord)
		if math.Abs(phi) < 4*EpsilonFine || lc < EpsilonFine {
			b = append(b, Segment{Kind: KindLine, End: p1})
			continue
		}
		n := r2.Scale(1/lc, left(chord))
		sagitta := lc / 2 * math.Tan(phi/4)
		mid := r2.Sub(r2.Scale(0.5, r2.Add(p0, p1)), r2.Scale(sagitta, n))
		b = append(b, ArcOrLine(p0, mid, p1))
	}
	return b
}

// Reverse reverses the samples and turns every tangent by π.
func (c OutlineC) Reverse() OutlineC {
	r := make(OutlineC, len(c))
	for i, s := range c {
		r[len(c)-1-i] = Sample{P: s.P, Tangent: NormalizeAngle(s.Tangent + pi)}
	}
	return r
}

// Length returns the length of the outline. Arcs are measured exactly.
func (b OutlineB) Length() float64 {
	var l float64
	for i := 1; i < len(b); i++ {
		start := b[i-1].End
		s := b[i]
		if s.Kind == KindArc {
			if arc, err := ArcCenterRadiusAngles(start, s.Mid, s.End); err == nil {
				l += arc.Length()
				continue
			}
			l += r2.Norm(r2.Sub(s.Mid, start)) + r2.Norm(r2.Sub(s.End, s.Mid))
			continue
		}
		l += r2.Norm(r2.Sub(s.End, start))
	}
	return l
}
