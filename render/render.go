// Package render writes outlines to the formats consumed by CNC and laser
// cutting toolchains: DXF and SVG drawings, PNG previews and STL extrusions.
package render

import (
	"io"

	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer produces a triangle mesh in chunks. ReadTriangles returns io.EOF
// once every triangle has been read.
type Renderer interface {
	ReadTriangles(t []Triangle3) (int, error)
}

// RenderAll drains r. Reaching io.EOF is not an error.
func RenderAll(r Renderer) ([]Triangle3, error) {
	var model []Triangle3
	buf := make([]Triangle3, 1024)
	for {
		n, err := r.ReadTriangles(buf)
		model = append(model, buf[:n]...)
		if err == io.EOF {
			return model, nil
		} else if err != nil {
			return model, err
		}
	}
}

// Triangle3 is a 3D triangle. Vertices are counter-clockwise when seen from
// the side its normal points to.
type Triangle3 [3]r3.Vec

// Normal returns the unit normal of t.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t[1], t[0])
	e2 := r3.Sub(t[2], t[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Degenerate reports whether two vertices of t are within tol of each other.
func (t Triangle3) Degenerate(tol float64) bool {
	return r3.Norm(r3.Sub(t[0], t[1])) <= tol ||
		r3.Norm(r3.Sub(t[1], t[2])) <= tol ||
		r3.Norm(r3.Sub(t[2], t[0])) <= tol
}
