package gear

import (
	"fmt"
	"math"

	"github.com/soypat/cnc25d"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

// Mesh is the geometry of a second gear driven by a first one. The second
// gear may be internal, in which case the first gear turns inside it.
type Mesh struct {
	// Placement is the polar angle of the second center seen from the first.
	Placement float64
	// Distance between the centers. Negative for internal second gears.
	Distance float64
	// Center2 is where the second gear must be centered.
	Center2 r2.Vec
	// PressureAngle is the real pressure angle, which grows with the additional
	// inter-axis length.
	PressureAngle float64
	// Pitch is the pitch point, where the primitive circles roll on each other.
	Pitch r2.Vec
	// F1 and F2 bound the contact path. F1 lies on the addendum circle of the
	// second gear, F2 on the one of the first gear.
	F1, F2 r2.Vec
	// Length of the contact path.
	Length float64
	// Fractions of the base pitch covered on each side of the pitch point.
	Approach, Recess float64
	// ContactRatio is the mean number of teeth pairs in contact.
	ContactRatio float64

	n1, n2 float64
}

// NewMesh computes how g2 meshes with g1 when the inter-axis distance exceeds
// the sum of the primitive radii by extra. rd selects the flank in contact:
// +1 drives with the first flanks of g1, -1 with the second ones.
func NewMesh(g1, g2 *Gear, extra, placement, rd float64) (*Mesh, error) {
	switch {
	case g1.Type != External:
		return nil, fmt.Errorf("%w: first gear must be external, got %s", cnc25d.ErrValueOutOfDomain, g1.Type)
	case g2.Type == Linear:
		return nil, fmt.Errorf("%w: meshing with a rack", cnc25d.ErrUnsupported)
	case rd != 1 && rd != -1:
		return nil, fmt.Errorf("%w: rotation sense %g", cnc25d.ErrValueOutOfDomain, rd)
	case !scalar.EqualWithinAbs(g1.Module, g2.Module, cnc25d.EpsilonFine):
		return nil, fmt.Errorf("%w: modules %g and %g differ", cnc25d.ErrValueOutOfDomain, g1.Module, g2.Module)
	}
	n1, n2, p2 := float64(g1.Teeth), float64(g2.Teeth), g2.Primitive
	if g2.Type == Internal {
		if g2.Teeth <= g1.Teeth {
			return nil, fmt.Errorf("%w: internal gear of %d teeth around %d teeth", cnc25d.ErrGearInfeasible, g2.Teeth, g1.Teeth)
		}
		n2, p2 = -n2, -p2
	}
	m := &Mesh{Placement: placement, n1: n1, n2: n2}
	d0 := g1.Primitive + p2
	m.Distance = d0 + cnc25d.Sign(d0)*extra
	cos := g1.BaseRadiusPos * math.Abs(n1+n2) / (math.Abs(m.Distance) * n1)
	if !(cos > 0 && cos <= 1) {
		return nil, fmt.Errorf("%w: inter-axis length %g leaves no pressure angle", cnc25d.ErrGearInfeasible, m.Distance)
	}
	m.PressureAngle = math.Acos(cos)
	o1 := g1.Center
	m.Center2 = cnc25d.Polar(o1, m.Distance, placement)
	m.Pitch = cnc25d.Polar(o1, m.Distance*n1/(n1+n2), placement)

	dir := cnc25d.Polar(r2.Vec{}, 1, placement+math.Pi/2+rd*m.PressureAngle)
	action, _, _, err := cnc25d.LineEquation(m.Pitch, r2.Add(m.Pitch, dir))
	if err != nil {
		return nil, err
	}
	t1 := cnc25d.LinePointProjection(action, o1)
	side := r2.Unit(r2.Sub(t1, m.Pitch))
	var st cnc25d.Status
	m.F1, st = cnc25d.LineCircleIntersection(action, m.Center2, g2.Addendum, m.Pitch, side)
	if st == cnc25d.IntersectNone {
		return nil, fmt.Errorf("%w: contact path misses the addendum of the second gear", cnc25d.ErrGearInfeasible)
	}
	m.F2, st = cnc25d.LineCircleIntersection(action, o1, g1.Addendum, m.Pitch, r2.Scale(-1, side))
	if st == cnc25d.IntersectNone {
		return nil, fmt.Errorf("%w: contact path misses the addendum of the first gear", cnc25d.ErrGearInfeasible)
	}
	m.Length = r2.Norm(r2.Sub(m.F1, m.F2))
	basePitch := 2 * math.Pi * g1.BaseRadiusPos / n1
	m.Approach = r2.Norm(r2.Sub(m.F1, m.Pitch)) / basePitch
	m.Recess = r2.Norm(r2.Sub(m.F2, m.Pitch)) / basePitch
	m.ContactRatio = m.Approach + m.Recess
	return m, nil
}

// SecondInitialAngle returns the initial angle of the second gear that puts
// one of its hollows in front of the tooth of the first gear whose initial
// angle is a1.
func (m *Mesh) SecondInitialAngle(a1 float64) float64 {
	phi := m.Placement
	if m.n2 < 0 {
		return phi + ((a1-phi)*m.n1-math.Pi)/-m.n2
	}
	return phi + math.Pi - ((a1-phi)*m.n1+math.Pi)/m.n2
}
