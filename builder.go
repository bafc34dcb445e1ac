package cnc25d

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Builder accumulates format A corners. Vertex modifiers are chained on the
// value returned by Add:
//
//	b := NewBuilder()
//	b.Add(0, 0)
//	b.Add(5, 0).Bit(2)
//	b.Add(0, 15).Rel().Bit(-8)
//	b.Close()
//	outline, err := b.Outline()
type Builder struct {
	closed  bool
	reverse bool
	vlist   []builderVertex
}

type builderVertex struct {
	relative bool    // position is relative to the previous vertex
	polar    bool    // position is (radius, angle)
	vertex   r2.Vec  // end point
	mid      r2.Vec  // arc middle point when arc is set
	arc      bool    // reached through mid
	radius   float64 // signed radius of a chord arc, 0 for none
	bit      float64 // router-bit request
}

// Vertex is a handle to the last added corner of a Builder.
type Vertex struct {
	v *builderVertex
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add adds a line corner ending at (x, y).
func (b *Builder) Add(x, y float64) Vertex {
	b.vlist = append(b.vlist, builderVertex{vertex: r2.Vec{X: x, Y: y}})
	return Vertex{v: &b.vlist[len(b.vlist)-1]}
}

// AddArc adds an arc corner through (mx, my) ending at (x, y). Relative
// vertices move the middle point along with the end point.
func (b *Builder) AddArc(mx, my, x, y float64) Vertex {
	b.vlist = append(b.vlist, builderVertex{vertex: r2.Vec{X: x, Y: y}, mid: r2.Vec{X: mx, Y: my}, arc: true})
	return Vertex{v: &b.vlist[len(b.vlist)-1]}
}

// AddSet adds line corners at each point of vs.
func (b *Builder) AddSet(vs []r2.Vec) {
	for _, v := range vs {
		b.Add(v.X, v.Y)
	}
}

// Rel positions the vertex relative to the prior vertex.
func (v Vertex) Rel() Vertex {
	v.v.relative = true
	return v
}

// Polar treats the vertex values as polar coordinates (r, theta).
func (v Vertex) Polar() Vertex {
	v.v.polar = true
	return v
}

// Bit sets the router-bit request of the vertex.
func (v Vertex) Bit(r float64) Vertex {
	v.v.bit = r
	return v
}

// Arc replaces the line reaching the vertex with a circular arc of the given
// radius. A positive radius bulges to the right of the chord.
func (v Vertex) Arc(radius float64) Vertex {
	v.v.radius = radius
	return v
}

// Close closes the outline.
func (b *Builder) Close() { b.closed = true }

// Closed reports whether Close was called.
func (b *Builder) Closed() bool { return b.closed }

// Reverse reverses the order the corners are returned.
func (b *Builder) Reverse() { b.reverse = true }

var errRelativeStart = errors.New("first vertex cannot be relative")

// Outline resolves relative, polar and chord-arc vertices and returns the
// accumulated corners.
func (b *Builder) Outline() (OutlineA, error) {
	if len(b.vlist) == 0 {
		return nil, ErrAt(0, ErrGeometryDegenerate, "empty builder")
	}
	out := make(OutlineA, 0, len(b.vlist)+1)
	var prev r2.Vec
	for i, bv := range b.vlist {
		p, m := bv.vertex, bv.mid
		if bv.polar {
			p = Polar(r2.Vec{}, p.X, p.Y)
			if bv.arc {
				m = Polar(r2.Vec{}, m.X, m.Y)
			}
		}
		if bv.relative {
			if i == 0 {
				return nil, &IndexError{Index: 0, Err: errRelativeStart}
			}
			p = r2.Add(prev, p)
			m = r2.Add(prev, m)
		}
		c := Corner{Segment: Segment{Kind: KindLine, End: p}, Bit: bv.bit}
		switch {
		case i == 0:
		case bv.arc:
			c.Kind, c.Mid = KindArc, m
		case bv.radius != 0:
			mid, err := chordArcMiddle(prev, p, bv.radius)
			if err != nil {
				return nil, &IndexError{Index: i, Err: err}
			}
			c.Kind, c.Mid = KindArc, mid
		}
		out = append(out, c)
		prev = p
	}
	if b.closed && !out.Closed() {
		out, _ = out.Close()
	}
	if b.reverse {
		out = out.Reverse()
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// chordArcMiddle returns the middle point of the minor arc of the given signed
// radius joining a and b.
func chordArcMiddle(a, b r2.Vec, radius float64) (r2.Vec, error) {
	side := Sign(radius)
	radius = math.Abs(radius)
	chord := r2.Sub(b, a)
	half := r2.Norm(chord) / 2
	if half > radius {
		return r2.Vec{}, fmt.Errorf("%w: arc radius %g shorter than half chord %g", ErrValueOutOfDomain, radius, half)
	}
	// sagitta of the minor arc
	s := radius - math.Sqrt(radius*radius-half*half)
	n := r2.Scale(-side, left(r2.Unit(chord)))
	return r2.Add(r2.Scale(0.5, r2.Add(a, b)), r2.Scale(s, n)), nil
}
