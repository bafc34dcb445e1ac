package gear

import (
	"errors"
	"math"
	"testing"

	"github.com/deadsy/sdfx/obj"
	"github.com/soypat/cnc25d"
	"github.com/soypat/cnc25d/involute"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

// wheel17 is the gearwheel used across these tests.
func wheel17() Params {
	return Params{
		Type:            External,
		Teeth:           17,
		Module:          3,
		PressureAngle:   cnc25d.DtoR(20),
		RouterBitRadius: 0.5,
		ResolutionPos:   6,
		ResolutionNeg:   6,
	}
}

func mustNew(t testing.TB, p Params) *Gear {
	t.Helper()
	g, err := New(p)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func mustOutline(t testing.TB, g *Gear) cnc25d.OutlineB {
	t.Helper()
	b, warns, err := g.Outline()
	if err != nil {
		t.Fatal(err)
	}
	if len(warns) != 0 {
		t.Errorf("unexpected warnings: %v", warns)
	}
	return b
}

func radius(g *Gear, p r2.Vec) float64 { return r2.Norm(r2.Sub(p, g.Center)) }

func countArcs(t *testing.T, b cnc25d.OutlineB, r float64) (n int) {
	t.Helper()
	for i := 1; i < len(b); i++ {
		if b[i].Kind != cnc25d.KindArc {
			continue
		}
		arc, err := cnc25d.ArcCenterRadiusAngles(b[i-1].End, b[i].Mid, b[i].End)
		if err != nil {
			t.Fatalf("segment %d: %v", i, err)
		}
		if scalar.EqualWithinAbs(arc.Radius, r, 1e-6) {
			n++
		}
	}
	return n
}

func TestNewDerived(t *testing.T) {
	for _, test := range []struct {
		typ                           Type
		teeth                         int
		primitive, add, hollow, dedum float64
	}{
		{External, 17, 25.5, 28.5, 22.5, 21.75},
		{Internal, 60, 90, 87, 93, 93.75},
	} {
		g := mustNew(t, Params{Type: test.typ, Teeth: test.teeth, Module: 3})
		got := [4]float64{g.Primitive, g.Addendum, g.Hollow, g.Dedendum}
		want := [4]float64{test.primitive, test.add, test.hollow, test.dedum}
		for i := range got {
			if !scalar.EqualWithinAbs(got[i], want[i], 1e-12) {
				t.Errorf("%s gear: dimension %d is %g, want %g", test.typ, i, got[i], want[i])
			}
		}
		base := test.primitive * math.Cos(cnc25d.DtoR(20))
		if !scalar.EqualWithinAbs(g.BaseRadiusPos, base, 1e-12) || g.BaseRadiusNeg != g.BaseRadiusPos {
			t.Errorf("%s gear: base radii %g %g, want %g", test.typ, g.BaseRadiusPos, g.BaseRadiusNeg, base)
		}
		if g.Parity != 0.5 || g.ResolutionPos != 6 {
			t.Errorf("%s gear: defaults not applied: %+v", test.typ, g.Params)
		}
	}
}

func TestNewRejects(t *testing.T) {
	for _, test := range []struct {
		name   string
		modify func(*Params)
		want   error
	}{
		{"two teeth", func(p *Params) { p.Teeth = 2 }, cnc25d.ErrValueOutOfDomain},
		{"zero module", func(p *Params) { p.Module = 0 }, cnc25d.ErrValueOutOfDomain},
		{"parity one", func(p *Params) { p.Parity = 1 }, cnc25d.ErrValueOutOfDomain},
		{"resolution", func(p *Params) { p.ResolutionNeg = 1 }, cnc25d.ErrValueOutOfDomain},
		{"negative bit", func(p *Params) { p.RouterBitRadius = -1 }, cnc25d.ErrValueOutOfDomain},
		{"portion too long", func(p *Params) { p.Portion.Teeth = 18 }, cnc25d.ErrValueOutOfDomain},
		{"base above primitive", func(p *Params) { p.BaseRadiusPos = 26 }, cnc25d.ErrValueOutOfDomain},
		{"tip below base", func(p *Params) { p.Type = Internal; p.AddendumPct = 60 }, cnc25d.ErrGearInfeasible},
		{"no dedendum", func(p *Params) { p.Teeth = 3; p.DedendumPct = 200 }, cnc25d.ErrGearInfeasible},
	} {
		p := wheel17()
		test.modify(&p)
		if _, err := New(p); !errors.Is(err, test.want) {
			t.Errorf("%s: got %v, want %v", test.name, err, test.want)
		}
	}
}

func TestParseNames(t *testing.T) {
	for typ := External; typ <= Linear; typ++ {
		got, err := ParseType(typ.String())
		if err != nil || got != typ {
			t.Errorf("ParseType(%q) = %v, %v", typ.String(), got, err)
		}
	}
	for e := HalfHollow; e <= TopMiddle; e++ {
		got, err := ParseEnd(e.String())
		if err != nil || got != e {
			t.Errorf("ParseEnd(%q) = %v, %v", e.String(), got, err)
		}
	}
	if _, err := ParseType("helical"); !errors.Is(err, cnc25d.ErrValueOutOfDomain) {
		t.Errorf("ParseType accepted an unknown type: %v", err)
	}
}

func TestToothPortionHalfHollows(t *testing.T) {
	p := wheel17()
	p.Portion = Portion{Teeth: 1, First: HalfHollow, Last: HalfHollow}
	g := mustNew(t, p)
	b := mustOutline(t, g)
	if b.Closed() {
		t.Fatal("portion outline is closed")
	}
	for _, end := range []r2.Vec{b[0].End, b[len(b)-1].End} {
		if r := radius(g, end); !scalar.EqualWithinAbs(r, g.Dedendum, cnc25d.Epsilon) {
			t.Errorf("end %v at radius %g, want dedendum %g", end, r, g.Dedendum)
		}
	}
	if n := countArcs(t, b, p.RouterBitRadius); n != 2 {
		t.Errorf("got %d router bit fillets, want 2", n)
	}
}

func TestFullGearClosure(t *testing.T) {
	g := mustNew(t, wheel17())
	b := mustOutline(t, g)
	if b[0].End != b[len(b)-1].End {
		t.Fatalf("outline not closed: %v -> %v", b[0].End, b[len(b)-1].End)
	}
	want := 17 * (g.ResolutionPos + g.ResolutionNeg + 4)
	if got := len(b) - 1; got != want {
		t.Errorf("got %d segments, want %d", got, want)
	}
	if n := countArcs(t, b, g.RouterBitRadius); n != 2*17 {
		t.Errorf("got %d router bit fillets, want %d", n, 2*17)
	}
	if area := b.Area(); area <= 0 {
		t.Errorf("outline is not counter-clockwise, area %g", area)
	}
}

func TestOutlineWithinRadii(t *testing.T) {
	internal := Params{Type: Internal, Teeth: 60, Module: 1, RouterBitRadius: 0.1}
	optimized := wheel17()
	optimized.RouterBitRadius = 1.84
	rotated := wheel17()
	rotated.Center = r2.Vec{X: -4, Y: 7}
	rotated.InitialAngle = 1
	for _, p := range []Params{wheel17(), internal, optimized, rotated} {
		g := mustNew(t, p)
		b := mustOutline(t, g)
		lo, hi := g.Radii()
		for i, s := range b {
			if r := radius(g, s.End); r < lo-cnc25d.Epsilon || r > hi+cnc25d.Epsilon {
				t.Errorf("%s gear: endpoint %d at radius %g outside [%g, %g]", g.Type, i, r, lo, hi)
			}
		}
		if err := b.Validate(); err != nil {
			t.Errorf("%s gear: %v", g.Type, err)
		}
	}
}

func TestHollowOptimized(t *testing.T) {
	p := wheel17()
	p.RouterBitRadius = 1.84
	g := mustNew(t, p)
	b := mustOutline(t, g)
	if n := countArcs(t, b, p.RouterBitRadius); n != 17 {
		t.Errorf("got %d router bit arcs, want one per hollow", n)
	}
	// the bottom stays above the dedendum circle
	for i, s := range b {
		if r := radius(g, s.End); r < g.Dedendum {
			t.Errorf("endpoint %d at radius %g below dedendum %g", i, r, g.Dedendum)
		}
	}

	p.RouterBitRadius = 2
	g = mustNew(t, p)
	if _, _, err := g.Outline(); !errors.Is(err, cnc25d.ErrGearInfeasible) {
		t.Errorf("oversized router bit: got %v, want ErrGearInfeasible", err)
	}
}

func TestTopLandLimit(t *testing.T) {
	p := wheel17()
	g := mustNew(t, p)
	uP, _ := involute.Param(g.BaseRadiusPos, g.Primitive)
	uA, _ := involute.Param(g.BaseRadiusPos, g.Addendum)
	lost := 2 * (involute.Function(uA) - involute.Function(uP))
	for _, test := range []struct {
		land float64
		want error
	}{
		{2 * cnc25d.Epsilon, nil},
		{-cnc25d.Epsilon, cnc25d.ErrGearInfeasible},
	} {
		p.Parity = (test.land + lost) / g.Pitch
		g := mustNew(t, p)
		_, _, err := g.Outline()
		if !errors.Is(err, test.want) {
			t.Errorf("top land %g: got %v, want %v", test.land, err, test.want)
		}
	}
}

func TestPortionEnds(t *testing.T) {
	g := mustNew(t, wheel17())
	foot := math.Max(g.BaseRadiusPos, g.Hollow)
	radii := map[End]float64{
		HalfHollow:  g.Dedendum,
		SlopeBottom: foot,
		SlopeTop:    g.Addendum,
		TopMiddle:   g.Addendum,
	}
	for first := HalfHollow; first <= TopMiddle; first++ {
		for last := HalfHollow; last <= TopMiddle; last++ {
			p := wheel17()
			p.Portion = Portion{Teeth: 2, First: first, Last: last}
			g := mustNew(t, p)
			b := mustOutline(t, g)
			if b.Closed() {
				t.Errorf("%s-%s: closed portion", first, last)
			}
			if r := radius(g, b[0].End); !scalar.EqualWithinAbs(r, radii[first], cnc25d.Epsilon) {
				t.Errorf("%s-%s: starts at radius %g, want %g", first, last, r, radii[first])
			}
			if r := radius(g, b[len(b)-1].End); !scalar.EqualWithinAbs(r, radii[last], cnc25d.Epsilon) {
				t.Errorf("%s-%s: stops at radius %g, want %g", first, last, r, radii[last])
			}
		}
	}
	p := wheel17()
	p.Portion = Portion{Teeth: 1, First: TopMiddle, Last: TopMiddle}
	g = mustNew(t, p)
	if _, err := g.OutlineA(); !errors.Is(err, cnc25d.ErrValueOutOfDomain) {
		t.Errorf("empty portion: got %v", err)
	}
}

func TestSkinThickensTeeth(t *testing.T) {
	for _, typ := range []Type{External, Internal} {
		p := Params{Type: typ, Teeth: 40, Module: 2, RouterBitRadius: 0.2}
		bare := mustOutline(t, mustNew(t, p))
		p.SkinThicknessPos, p.SkinThicknessNeg = 0.1, 0.1
		thick := mustOutline(t, mustNew(t, p))
		// Teeth are material: thicker teeth grow an external gear and
		// shrink the bore of an internal one.
		grown := thick.Area() > bare.Area()
		if grown != (typ == External) {
			t.Errorf("%s gear: area went from %g to %g", typ, bare.Area(), thick.Area())
		}
	}
}

func TestRack(t *testing.T) {
	p := Params{Type: Linear, Teeth: 4, Module: 2, RouterBitRadius: 0.2}
	g := mustNew(t, p)
	b := mustOutline(t, g)
	if b.Closed() {
		t.Fatal("rack outline is closed")
	}
	for i, s := range b {
		if s.End.Y < g.Dedendum-cnc25d.EpsilonFine || s.End.Y > g.Addendum+cnc25d.EpsilonFine {
			t.Errorf("endpoint %d at height %g outside [%g, %g]", i, s.End.Y, g.Dedendum, g.Addendum)
		}
	}
	for _, end := range []r2.Vec{b[0].End, b[len(b)-1].End} {
		if !scalar.EqualWithinAbs(end.Y, g.Dedendum, 1e-12) {
			t.Errorf("rack ends at height %g, want %g", end.Y, g.Dedendum)
		}
	}
	if n := countArcs(t, b, p.RouterBitRadius); n != 2*4 {
		t.Errorf("got %d fillets, want %d", n, 2*4)
	}
	span := b[len(b)-1].End.X - b[0].End.X
	if !scalar.EqualWithinAbs(span, 4*g.Pitch, 1e-9) {
		t.Errorf("rack spans %g, want %g", span, 4*g.Pitch)
	}

	// rotating the rack by a quarter turn lays its teeth along y
	p.InitialAngle = math.Pi / 2
	p.Center = r2.Vec{X: 10, Y: 0}
	rotated := mustOutline(t, mustNew(t, p))
	for i := range b {
		want := r2.Vec{X: 10 - b[i].End.Y, Y: b[i].End.X}
		if got := rotated[i].End; !scalar.EqualWithinAbs(got.X, want.X, 1e-9) || !scalar.EqualWithinAbs(got.Y, want.Y, 1e-9) {
			t.Errorf("endpoint %d: got %v, want %v", i, got, want)
		}
	}
}

func TestMeshPressureAngle(t *testing.T) {
	pinion := mustNew(t, wheel17())
	wheel := mustNew(t, Params{Type: External, Teeth: 31, Module: 3})
	m, err := NewMesh(pinion, wheel, 0, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(m.PressureAngle, cnc25d.DtoR(20), 1e-12) {
		t.Errorf("pressure angle %g, want 20°", cnc25d.RtoD(m.PressureAngle))
	}
	if !scalar.EqualWithinAbs(m.Distance, pinion.Primitive+wheel.Primitive, 1e-12) {
		t.Errorf("distance %g", m.Distance)
	}
	if d := radius(pinion, m.Pitch); !scalar.EqualWithinAbs(d, pinion.Primitive, 1e-9) {
		t.Errorf("pitch point at %g from the first center, want %g", d, pinion.Primitive)
	}
	if d := r2.Norm(r2.Sub(m.F1, m.Center2)); !scalar.EqualWithinAbs(d, wheel.Addendum, 1e-9) {
		t.Errorf("F1 at %g from the second center, want %g", d, wheel.Addendum)
	}
	if d := radius(pinion, m.F2); !scalar.EqualWithinAbs(d, pinion.Addendum, 1e-9) {
		t.Errorf("F2 at %g from the first center, want %g", d, pinion.Addendum)
	}
	if m.ContactRatio < 1.2 || m.ContactRatio > 2 {
		t.Errorf("contact ratio %g", m.ContactRatio)
	}
	if !scalar.EqualWithinAbs(m.Length, (m.Approach+m.Recess)*pinion.BasePitch, 1e-9) {
		t.Errorf("contact length %g does not match fractions", m.Length)
	}

	spread, err := NewMesh(pinion, wheel, 1, 0, -1)
	if err != nil {
		t.Fatal(err)
	}
	if spread.PressureAngle <= m.PressureAngle {
		t.Errorf("extra length did not increase the pressure angle: %g", spread.PressureAngle)
	}
	if spread.ContactRatio >= m.ContactRatio {
		t.Errorf("extra length did not reduce the contact ratio: %g", spread.ContactRatio)
	}
}

func TestMeshRejects(t *testing.T) {
	ext := mustNew(t, wheel17())
	ring := mustNew(t, Params{Type: Internal, Teeth: 60, Module: 3})
	rack := mustNew(t, Params{Type: Linear, Teeth: 5, Module: 3})
	big := mustNew(t, Params{Type: External, Teeth: 41, Module: 3})
	small := mustNew(t, Params{Type: Internal, Teeth: 40, Module: 3})
	for _, test := range []struct {
		g1, g2 *Gear
		rd     float64
		want   error
	}{
		{ring, ext, 1, cnc25d.ErrValueOutOfDomain},
		{ext, ring, 0, cnc25d.ErrValueOutOfDomain},
		{ext, rack, 1, cnc25d.ErrUnsupported},
		{big, small, 1, cnc25d.ErrGearInfeasible},
	} {
		if _, err := NewMesh(test.g1, test.g2, 0, 0, test.rd); !errors.Is(err, test.want) {
			t.Errorf("%s with %s: got %v, want %v", test.g1.Type, test.g2.Type, err, test.want)
		}
	}
}

// phaseOff returns the distance of x to π modulo 2π.
func phaseOff(x float64) float64 {
	return math.Abs(cnc25d.NormalizeAngle(x - math.Pi))
}

func TestSecondInitialAngle(t *testing.T) {
	sun := mustNew(t, Params{Type: External, Teeth: 19, Module: 1})
	ring := mustNew(t, Params{Type: Internal, Teeth: 60, Module: 1})
	m, err := NewMesh(sun, ring, 0, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(m.PressureAngle, cnc25d.DtoR(20), 1e-12) {
		t.Errorf("internal pressure angle %g, want 20°", cnc25d.RtoD(m.PressureAngle))
	}
	if d := r2.Norm(r2.Sub(m.Pitch, m.Center2)); !scalar.EqualWithinAbs(d, ring.Primitive, 1e-9) {
		t.Errorf("pitch point at %g from the ring center, want %g", d, ring.Primitive)
	}
	for _, a1 := range []float64{0, 0.3, -2} {
		a2 := m.SecondInitialAngle(a1)
		if off := phaseOff(a2*60 - a1*19); off > cnc25d.Epsilon {
			t.Errorf("a1=%g: ring phase off by %g", a1, off)
		}
	}

	wheel := mustNew(t, Params{Type: External, Teeth: 31, Module: 1})
	m, err = NewMesh(sun, wheel, 0, 0.7, 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, a1 := range []float64{0.7, 1.5} {
		a2 := m.SecondInitialAngle(a1)
		// a tooth of the first gear facing the second center meets a hollow
		phase := (a1-0.7)*19 + (a2-0.7-math.Pi)*31
		if off := phaseOff(phase); off > cnc25d.Epsilon {
			t.Errorf("a1=%g: wheel phase off by %g", a1, off)
		}
	}
}

func BenchmarkOutline(b *testing.B) {
	g := mustNew(b, wheel17())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Outline()
	}
}

func BenchmarkSdfxInvoluteGear(b *testing.B) {
	parms := obj.InvoluteGearParms{
		NumberTeeth:   17,
		Module:        3,
		PressureAngle: cnc25d.DtoR(20),
		RingWidth:     5,
		Facets:        5,
	}
	for i := 0; i < b.N; i++ {
		if _, err := obj.InvoluteGear(&parms); err != nil {
			b.Fatal(err)
		}
	}
}
