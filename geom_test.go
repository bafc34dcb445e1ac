package cnc25d

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

func vecWithin(a, b r2.Vec, tol float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, tol) && scalar.EqualWithinAbs(a.Y, b.Y, tol)
}

func TestNormalizeAngle(t *testing.T) {
	for _, test := range []struct {
		in, want float64
	}{
		{0, 0},
		{pi, pi},
		{-pi, pi},
		{3 * pi, pi},
		{tau, 0},
		{pi / 2, pi / 2},
		{-pi / 2, -pi / 2},
		{5 * pi / 2, pi / 2},
		{-5 * pi / 2, -pi / 2},
	} {
		got := NormalizeAngle(test.in)
		if !scalar.EqualWithinAbs(got, test.want, 1e-12) {
			t.Errorf("NormalizeAngle(%g) = %g, want %g", test.in, got, test.want)
		}
		if got <= -pi || got > pi {
			t.Errorf("NormalizeAngle(%g) = %g out of range", test.in, got)
		}
	}
}

func TestRotatePoint(t *testing.T) {
	got := RotatePoint(r2.Vec{X: 2, Y: 1}, r2.Vec{X: 1, Y: 1}, pi/2)
	if !vecWithin(got, r2.Vec{X: 1, Y: 2}, 1e-12) {
		t.Errorf("got %v", got)
	}
}

func TestLineEquation(t *testing.T) {
	a, b := r2.Vec{X: 1, Y: 1}, r2.Vec{X: 1, Y: 4}
	l, length, incl, err := LineEquation(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if length != 3 {
		t.Errorf("length %g, want 3", length)
	}
	if !scalar.EqualWithinAbs(incl, pi/2, 1e-12) {
		t.Errorf("inclination %g, want π/2", incl)
	}
	if !scalar.EqualWithinAbs(l.LX*l.LX+l.LY*l.LY, 1, 1e-12) {
		t.Errorf("line %+v not normalized", l)
	}
	for _, p := range []r2.Vec{a, b} {
		if d := l.Distance(p); math.Abs(d) > 1e-12 {
			t.Errorf("point %v off line by %g", p, d)
		}
	}
	if d := l.Distance(r2.Vec{X: 0, Y: 2}); d <= 0 {
		t.Errorf("left point has non-positive distance %g", d)
	}
	_, _, _, err = LineEquation(a, r2.Vec{X: 1 + Epsilon/2, Y: 1})
	if !errors.Is(err, ErrGeometryDegenerate) {
		t.Errorf("short line: got %v, want ErrGeometryDegenerate", err)
	}
}

func TestLineDistancePointAndProjection(t *testing.T) {
	a, b := r2.Vec{}, r2.Vec{X: 4}
	q, l, err := LineDistancePoint(a, b, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !vecWithin(q, r2.Vec{Y: 2}, 1e-12) {
		t.Errorf("translated start %v, want (0,2)", q)
	}
	p := LinePointProjection(l, r2.Vec{X: 3, Y: -5})
	if !vecWithin(p, r2.Vec{X: 3, Y: 2}, 1e-12) {
		t.Errorf("projection %v, want (3,2)", p)
	}
}

func TestLineLineIntersection(t *testing.T) {
	l1, _, _, _ := LineEquation(r2.Vec{}, r2.Vec{X: 1, Y: 1})
	l2, _, _, _ := LineEquation(r2.Vec{X: 2}, r2.Vec{X: 2, Y: 5})
	p, err := LineLineIntersection(l1, l2)
	if err != nil {
		t.Fatal(err)
	}
	if !vecWithin(p, r2.Vec{X: 2, Y: 2}, 1e-12) {
		t.Errorf("got %v, want (2,2)", p)
	}
	l3, _, _, _ := LineEquation(r2.Vec{Y: 1}, r2.Vec{X: 3, Y: 4})
	if _, err := LineLineIntersection(l1, l3); !errors.Is(err, ErrParallel) {
		t.Errorf("parallel lines: got %v", err)
	}
}

func TestLineCircleIntersection(t *testing.T) {
	l, _, _, _ := LineEquation(r2.Vec{X: -5}, r2.Vec{X: 5})
	c := r2.Vec{}
	for _, test := range []struct {
		r          float64
		hint, dir  r2.Vec
		want       r2.Vec
		wantStatus Status
	}{
		{r: 2, hint: r2.Vec{X: 3}, want: r2.Vec{X: 2}, wantStatus: IntersectFound},
		{r: 2, hint: r2.Vec{X: -3}, want: r2.Vec{X: -2}, wantStatus: IntersectFound},
		{r: 2, hint: r2.Vec{}, dir: r2.Vec{X: -1}, want: r2.Vec{X: -2}, wantStatus: IntersectFound},
		{r: 2, hint: r2.Vec{X: 3}, dir: r2.Vec{X: 1}, wantStatus: IntersectNone},
	} {
		got, status := LineCircleIntersection(l, c, test.r, test.hint, test.dir)
		if status != test.wantStatus {
			t.Errorf("hint %v dir %v: status %s, want %s", test.hint, test.dir, status, test.wantStatus)
			continue
		}
		if status == IntersectFound && !vecWithin(got, test.want, 1e-12) {
			t.Errorf("hint %v dir %v: got %v, want %v", test.hint, test.dir, got, test.want)
		}
	}
	lt, _, _, _ := LineEquation(r2.Vec{X: -5, Y: 2}, r2.Vec{X: 5, Y: 2})
	if p, status := LineCircleIntersection(lt, c, 2, r2.Vec{}, r2.Vec{}); status != IntersectTangent || !vecWithin(p, r2.Vec{Y: 2}, 1e-12) {
		t.Errorf("tangent line: got %v %s", p, status)
	}
	if _, status := LineCircleIntersection(lt, c, 1, r2.Vec{}, r2.Vec{}); status != IntersectNone {
		t.Errorf("far line: got status %s", status)
	}
}

func TestTriangulation(t *testing.T) {
	c1, c2 := r2.Vec{}, r2.Vec{X: 6}
	up, status := Triangulation(c1, 5, c2, 5, r2.Vec{X: 3}, r2.Vec{Y: 1})
	if status != IntersectFound || !vecWithin(up, r2.Vec{X: 3, Y: 4}, 1e-12) {
		t.Errorf("upper: got %v %s", up, status)
	}
	down, status := Triangulation(c1, 5, c2, 5, r2.Vec{X: 3}, r2.Vec{Y: -1})
	if status != IntersectFound || !vecWithin(down, r2.Vec{X: 3, Y: -4}, 1e-12) {
		t.Errorf("lower: got %v %s", down, status)
	}
	if _, status := Triangulation(c1, 1, c2, 1, r2.Vec{}, r2.Vec{Y: 1}); status != IntersectNone {
		t.Errorf("disjoint circles: got %s", status)
	}
	if p, status := Triangulation(c1, 3, c2, 3, r2.Vec{}, r2.Vec{Y: 1}); status != IntersectTangent || !vecWithin(p, r2.Vec{X: 3}, 1e-12) {
		t.Errorf("touching circles: got %v %s", p, status)
	}
}

func TestBisectorAndAngle(t *testing.T) {
	u, v := r2.Vec{X: 1}, r2.Vec{Y: 1}
	b := Bisector(u, v)
	if !vecWithin(b, r2.Vec{X: math.Sqrt2 / 2, Y: math.Sqrt2 / 2}, 1e-12) {
		t.Errorf("bisector %v", b)
	}
	if got := AngleBetween(u, v); !scalar.EqualWithinAbs(got, pi/2, 1e-12) {
		t.Errorf("AngleBetween(x, y) = %g", got)
	}
	if got := AngleBetween(v, u); !scalar.EqualWithinAbs(got, -pi/2, 1e-12) {
		t.Errorf("AngleBetween(y, x) = %g", got)
	}
	if got := Bisector(u, r2.Vec{X: -1}); !vecWithin(got, r2.Vec{Y: 1}, 1e-12) {
		t.Errorf("opposite bisector %v", got)
	}
}
