package render

import (
	"fmt"
	"io"
	"math"

	"github.com/soypat/cnc25d"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Extrusion is the prism obtained by raising a closed outline, the shape a
// 2.5 axis router cuts out of a board.
type Extrusion struct {
	model []Triangle3
	read  int
}

// NewExtrusion meshes the prism of the given height standing on the closed
// outline b. Arcs are flattened to chords within tol of them.
func NewExtrusion(b cnc25d.OutlineB, height, tol float64) (*Extrusion, error) {
	if !b.Closed() {
		return nil, fmt.Errorf("%w: only closed outlines can be extruded", cnc25d.ErrValueOutOfDomain)
	}
	if !(height > 0) || !(tol > 0) {
		return nil, fmt.Errorf("%w: extrusion height %g and tolerance %g must be positive", cnc25d.ErrValueOutOfDomain, height, tol)
	}
	poly := polygon(b.Flatten(tol))
	if len(poly) < 3 {
		return nil, fmt.Errorf("%w: outline flattens to %d vertices", cnc25d.ErrGeometryDegenerate, len(poly))
	}
	ears, err := earClip(poly)
	if err != nil {
		return nil, err
	}
	lift := func(p r2.Vec, z float64) r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: z} }
	model := make([]Triangle3, 0, 2*len(ears)+2*len(poly))
	for _, e := range ears {
		a, b, c := poly[e[0]], poly[e[1]], poly[e[2]]
		model = append(model,
			Triangle3{lift(a, 0), lift(c, 0), lift(b, 0)},
			Triangle3{lift(a, height), lift(b, height), lift(c, height)},
		)
	}
	for i, p := range poly {
		q := poly[(i+1)%len(poly)]
		model = append(model,
			Triangle3{lift(p, 0), lift(q, 0), lift(q, height)},
			Triangle3{lift(p, 0), lift(q, height), lift(p, height)},
		)
	}
	return &Extrusion{model: model}, nil
}

// ReadTriangles implements Renderer.
func (e *Extrusion) ReadTriangles(t []Triangle3) (int, error) {
	if e.read == len(e.model) {
		return 0, io.EOF
	}
	n := copy(t, e.model[e.read:])
	e.read += n
	return n, nil
}

// Len returns the number of triangles of the mesh.
func (e *Extrusion) Len() int { return len(e.model) }

// polygon turns the flattened closed outline pts into counter-clockwise
// polygon vertices without repeats.
func polygon(pts []r2.Vec) []r2.Vec {
	poly := make([]r2.Vec, 0, len(pts))
	for _, p := range pts {
		if len(poly) > 0 && r2.Norm(r2.Sub(p, poly[len(poly)-1])) < cnc25d.EpsilonFine {
			continue
		}
		poly = append(poly, p)
	}
	for len(poly) > 1 && r2.Norm(r2.Sub(poly[0], poly[len(poly)-1])) < cnc25d.EpsilonFine {
		poly = poly[:len(poly)-1]
	}
	// drop vertices in the middle of straight runs
	kept := make([]r2.Vec, 0, len(poly))
	for i, p := range poly {
		prev, next := poly[(i+len(poly)-1)%len(poly)], poly[(i+1)%len(poly)]
		if len(poly) > 3 && flat(prev, p, next) && r2.Dot(r2.Sub(p, prev), r2.Sub(next, p)) > 0 {
			continue
		}
		kept = append(kept, p)
	}
	poly = kept
	var area float64
	for i, p := range poly {
		area += r2.Cross(p, poly[(i+1)%len(poly)])
	}
	if area < 0 {
		for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
			poly[i], poly[j] = poly[j], poly[i]
		}
	}
	return poly
}

// earClip triangulates the counter-clockwise simple polygon poly. Collinear
// vertices are never clipped so every polygon edge borders one triangle.
func earClip(poly []r2.Vec) ([][3]int, error) {
	idx := make([]int, len(poly))
	for i := range idx {
		idx[i] = i
	}
	ears := make([][3]int, 0, len(poly)-2)
	for len(idx) > 3 {
		n := len(idx)
		clipped := false
		for i := 0; i < n && !clipped; i++ {
			ia, ib, ic := idx[(i+n-1)%n], idx[i], idx[(i+1)%n]
			a, b, c := poly[ia], poly[ib], poly[ic]
			if flat(a, b, c) || r2.Cross(r2.Sub(b, a), r2.Sub(c, b)) < 0 || containsAny(poly, idx, a, b, c) {
				continue
			}
			ears = append(ears, [3]int{ia, ib, ic})
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
		}
		if !clipped {
			return nil, fmt.Errorf("%w: outline is not a simple polygon", cnc25d.ErrGeometryInconsistent)
		}
	}
	if !flat(poly[idx[0]], poly[idx[1]], poly[idx[2]]) {
		ears = append(ears, [3]int{idx[0], idx[1], idx[2]})
	}
	return ears, nil
}

// flat reports whether a, b and c are collinear.
func flat(a, b, c r2.Vec) bool {
	return math.Abs(r2.Cross(r2.Sub(b, a), r2.Sub(c, b))) <= 1e-12*r2.Norm2(r2.Sub(c, a))
}

// containsAny reports whether a remaining vertex of poly other than a, b
// and c lies inside or on the triangle abc.
func containsAny(poly []r2.Vec, idx []int, a, b, c r2.Vec) bool {
	for _, k := range idx {
		p := poly[k]
		if p == a || p == b || p == c {
			continue
		}
		if r2.Cross(r2.Sub(b, a), r2.Sub(p, a)) >= 0 &&
			r2.Cross(r2.Sub(c, b), r2.Sub(p, b)) >= 0 &&
			r2.Cross(r2.Sub(a, c), r2.Sub(p, c)) >= 0 {
			return true
		}
	}
	return false
}
