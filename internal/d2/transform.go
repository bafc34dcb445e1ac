package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Transform is an affine 2D transformation stored as a 3x3 homogeneous matrix.
type Transform struct {
	data [3 * 3]float64
}

// Translate returns the translation by v.
func Translate(v r2.Vec) Transform {
	return Transform{data: [9]float64{1, 0, v.X, 0, 1, v.Y, 0, 0, 1}}
}

// Scale returns the non-uniform scaling about the origin.
func Scale(k r2.Vec) Transform {
	return Transform{data: [9]float64{k.X, 0, 0, 0, k.Y, 0, 0, 0, 1}}
}

// Rotate returns the counter-clockwise rotation by angle about the origin.
func Rotate(angle float64) Transform {
	s, c := math.Sincos(angle)
	return Transform{data: [9]float64{c, -s, 0, s, c, 0, 0, 0, 1}}
}

// RotateAbout returns the counter-clockwise rotation by angle about o.
func RotateAbout(o r2.Vec, angle float64) Transform {
	return Translate(o).Mul(Rotate(angle)).Mul(Translate(r2.Scale(-1, o)))
}

func (t *Transform) At(i, j int) float64 {
	return t.data[i*3+j]
}

func (t *Transform) Set(i, j int, v float64) {
	t.data[i*3+j] = v
}

// Mul multiplies 3x3 matrices. The result applies b first.
func (a Transform) Mul(b Transform) Transform {
	m := Transform{}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, a.At(i, 0)*b.At(0, j)+a.At(i, 1)*b.At(1, j)+a.At(i, 2)*b.At(2, j))
		}
	}
	return m
}

// ApplyPos transforms a point.
func (t Transform) ApplyPos(b r2.Vec) r2.Vec {
	return r2.Vec{
		X: t.At(0, 0)*b.X + t.At(0, 1)*b.Y + t.At(0, 2),
		Y: t.At(1, 0)*b.X + t.At(1, 1)*b.Y + t.At(1, 2),
	}
}

// Determinant returns the determinant of the linear part. A negative value
// means the transform mirrors.
func (a Transform) Determinant() float64 {
	return a.At(0, 0)*a.At(1, 1) - a.At(0, 1)*a.At(1, 0)
}
