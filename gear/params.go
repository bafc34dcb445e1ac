// Package gear generates involute gear outlines, complete or partial, and
// places pairs of gears so that their teeth mesh.
package gear

import (
	"fmt"
	"math"
	"strings"

	"github.com/soypat/cnc25d"
	"github.com/soypat/cnc25d/involute"
	"gonum.org/v1/gonum/spatial/r2"
)

// Type is the kind of gear.
type Type int

const (
	External Type = iota // teeth pointing outwards
	Internal             // teeth pointing inwards, as in a ring
	Linear               // rack
)

func (t Type) String() string {
	switch t {
	case External:
		return "external"
	case Internal:
		return "internal"
	case Linear:
		return "linear"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType parses the names returned by Type.String.
func ParseType(s string) (Type, error) {
	for t := External; t <= Linear; t++ {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown gear type %q", cnc25d.ErrValueOutOfDomain, s)
}

// End selects where a gear portion starts or stops.
type End int

const (
	HalfHollow  End = iota // middle of the hollow
	SlopeBottom            // foot of the flank
	SlopeTop               // tip of the flank
	TopMiddle              // middle of the top land
)

func (e End) String() string {
	switch e {
	case HalfHollow:
		return "half-hollow"
	case SlopeBottom:
		return "slope-bottom"
	case SlopeTop:
		return "slope-top"
	case TopMiddle:
		return "top-middle"
	}
	return fmt.Sprintf("End(%d)", int(e))
}

// ParseEnd parses the names returned by End.String.
func ParseEnd(s string) (End, error) {
	for e := HalfHollow; e <= TopMiddle; e++ {
		if strings.EqualFold(s, e.String()) {
			return e, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown portion end %q", cnc25d.ErrValueOutOfDomain, s)
}

// Portion selects a run of consecutive teeth instead of the complete gear.
// A zero Teeth selects the complete gear.
type Portion struct {
	Teeth       int
	First, Last End
}

// Params describe a gear. Zero values select the documented defaults.
type Params struct {
	Type   Type
	Teeth  int
	Module float64
	// Parity is the fraction of the pitch taken by a tooth on the primitive
	// circle. Defaults to 0.5.
	Parity float64
	// ToothHalfHeight scales the addendum, dedendum and hollow heights.
	// Defaults to Module.
	ToothHalfHeight float64
	// Heights in percent of ToothHalfHeight. Default to 100, 100 and 25.
	AddendumPct, DedendumPct, HollowPct float64
	// PressureAngle in radians sets the base radii left at zero. Defaults to 20°.
	PressureAngle float64
	// Base radii of the first and second flank of each tooth.
	BaseRadiusPos, BaseRadiusNeg float64
	// RouterBitRadius smooths the bottom of the hollows. Zero keeps them angular.
	RouterBitRadius float64
	// Skin thicknesses added to the first and second flank. Positive values
	// thicken the teeth.
	SkinThicknessPos, SkinThicknessNeg float64
	// Number of samples per flank. Default to 6.
	ResolutionPos, ResolutionNeg int
	Portion                      Portion
	Center                       r2.Vec
	// InitialAngle is the polar angle of the middle of the first tooth. Racks
	// are rotated by it about Center.
	InitialAngle float64
}

// Gear is a validated gear with its derived dimensions.
type Gear struct {
	Params
	// Primitive is the primitive radius, or the primitive line offset of racks.
	Primitive float64
	// Addendum is the radius of the tooth tips.
	Addendum float64
	// Hollow is the radius where the flanks give way to the hollow.
	Hollow float64
	// Dedendum is the radius of the bottom of the hollows.
	Dedendum float64
	// Pitch is the angle between teeth. For racks it is the distance between teeth.
	Pitch float64
	// BasePitch is the distance between teeth along the line of action.
	BasePitch float64

	heightAdd, heightDed, heightHollow float64
}

// New validates p, fills its defaults and derives the gear dimensions.
func New(p Params) (*Gear, error) {
	if p.Type < External || p.Type > Linear {
		return nil, fmt.Errorf("%w: gear type %d", cnc25d.ErrValueOutOfDomain, p.Type)
	}
	if p.Teeth < 3 {
		return nil, fmt.Errorf("%w: %d teeth, need at least 3", cnc25d.ErrValueOutOfDomain, p.Teeth)
	}
	if !(p.Module > 0) {
		return nil, fmt.Errorf("%w: module %g", cnc25d.ErrValueOutOfDomain, p.Module)
	}
	if p.Parity == 0 {
		p.Parity = 0.5
	}
	if !(p.Parity > 0 && p.Parity < 1) {
		return nil, fmt.Errorf("%w: parity %g not in (0, 1)", cnc25d.ErrValueOutOfDomain, p.Parity)
	}
	if p.ToothHalfHeight == 0 {
		p.ToothHalfHeight = p.Module
	}
	if p.AddendumPct == 0 {
		p.AddendumPct = 100
	}
	if p.DedendumPct == 0 {
		p.DedendumPct = 100
	}
	if p.HollowPct == 0 {
		p.HollowPct = 25
	}
	if p.PressureAngle == 0 {
		p.PressureAngle = cnc25d.DtoR(20)
	}
	if p.ResolutionPos == 0 {
		p.ResolutionPos = 6
	}
	if p.ResolutionNeg == 0 {
		p.ResolutionNeg = 6
	}
	switch {
	case p.ToothHalfHeight < 0 || p.AddendumPct < 0 || p.DedendumPct < 0 || p.HollowPct < 0:
		return nil, fmt.Errorf("%w: negative tooth height", cnc25d.ErrValueOutOfDomain)
	case !(p.PressureAngle > 0 && p.PressureAngle < math.Pi/2):
		return nil, fmt.Errorf("%w: pressure angle %g", cnc25d.ErrValueOutOfDomain, p.PressureAngle)
	case p.ResolutionPos < 2 || p.ResolutionNeg < 2:
		return nil, fmt.Errorf("%w: flank resolution (%d, %d) below 2", cnc25d.ErrValueOutOfDomain, p.ResolutionPos, p.ResolutionNeg)
	case p.RouterBitRadius < 0 || math.IsNaN(p.RouterBitRadius):
		return nil, fmt.Errorf("%w: router bit radius %g", cnc25d.ErrValueOutOfDomain, p.RouterBitRadius)
	case p.Portion.Teeth < 0 || (p.Type != Linear && p.Portion.Teeth > p.Teeth):
		return nil, fmt.Errorf("%w: portion of %d teeth out of %d", cnc25d.ErrValueOutOfDomain, p.Portion.Teeth, p.Teeth)
	}

	g := &Gear{Params: p}
	g.heightAdd = p.ToothHalfHeight * p.AddendumPct / 100
	g.heightDed = p.ToothHalfHeight * p.DedendumPct / 100
	g.heightHollow = p.ToothHalfHeight * p.HollowPct / 100
	if p.Type == Linear {
		g.Pitch = math.Pi * p.Module
		g.BasePitch = g.Pitch * math.Cos(p.PressureAngle)
		g.Addendum = g.heightAdd
		g.Hollow = -g.heightDed
		g.Dedendum = g.Hollow - g.heightHollow
		return g, nil
	}
	g.Primitive = p.Module * float64(p.Teeth) / 2
	g.Pitch = 2 * math.Pi / float64(p.Teeth)
	sigma := g.sigma()
	g.Addendum = g.Primitive + sigma*g.heightAdd
	g.Hollow = g.Primitive - sigma*g.heightDed
	g.Dedendum = g.Hollow - sigma*g.heightHollow
	if g.Dedendum <= 0 {
		return nil, fmt.Errorf("%w: dedendum radius %g", cnc25d.ErrGearInfeasible, g.Dedendum)
	}
	base := g.Primitive * math.Cos(p.PressureAngle)
	if g.BaseRadiusPos == 0 {
		g.BaseRadiusPos = base
	}
	if g.BaseRadiusNeg == 0 {
		g.BaseRadiusNeg = base
	}
	for _, b := range [2]float64{g.BaseRadiusPos, g.BaseRadiusNeg} {
		if !(b > 0) || b > g.Primitive {
			return nil, fmt.Errorf("%w: base radius %g with primitive radius %g", cnc25d.ErrValueOutOfDomain, b, g.Primitive)
		}
		if tip := g.tipRadius(); tip <= b {
			return nil, fmt.Errorf("%w: tip radius %g does not clear base radius %g", cnc25d.ErrGearInfeasible, tip, b)
		}
	}
	g.BasePitch = g.Pitch * g.BaseRadiusPos
	return g, nil
}

// sigma is +1 for external gears and -1 for internal ones.
func (g *Gear) sigma() float64 {
	if g.Type == Internal {
		return -1
	}
	return 1
}

// tipRadius is where the flanks end at the top land.
func (g *Gear) tipRadius() float64 { return g.Addendum }

// footRadius is where a flank of base radius b starts at the hollow side.
func (g *Gear) footRadius(b float64) float64 {
	if g.Type == Internal {
		return g.Hollow
	}
	return math.Max(b, g.Hollow)
}

// flank returns the involute of the first (first == true) or second flank
// of tooth k, along with the offset applied to its samples.
func (g *Gear) flank(k int, first bool) (involute.Curve, float64, int, error) {
	sigma := g.sigma()
	theta := g.InitialAngle + float64(k)*g.Pitch
	half := g.Parity * g.Pitch / 2
	b, skin, res, rho := g.BaseRadiusPos, g.SkinThicknessPos, g.ResolutionPos, sigma
	if !first {
		b, skin, res, rho = g.BaseRadiusNeg, g.SkinThicknessNeg, g.ResolutionNeg, -sigma
	}
	uP, err := involute.Param(b, g.Primitive)
	if err != nil {
		return involute.Curve{}, 0, 0, err
	}
	start := theta - half - rho*involute.Function(uP)
	if !first {
		start = theta + half - rho*involute.Function(uP)
	}
	c := involute.Curve{Center: g.Center, Base: b, Start: start, Orientation: rho}
	return c, sigma * skin, res, nil
}

// Radii returns the smallest and largest radius reached by the outline.
func (g *Gear) Radii() (min, max float64) {
	return math.Min(g.Addendum, g.Dedendum), math.Max(g.Addendum, g.Dedendum)
}
