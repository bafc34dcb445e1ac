package main

import (
	"fmt"
	"io"

	"github.com/soypat/cnc25d"
	"github.com/soypat/cnc25d/gear"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/spatial/r2"
)

// design is the content of a design file.
type design struct {
	// Tolerance used to flatten arcs in previews and extrusions.
	Tolerance float64         `mapstructure:"tolerance"`
	Outlines  []outlineConfig `mapstructure:"outlines"`
	Gears     []gearConfig    `mapstructure:"gears"`
	Meshes    []meshConfig    `mapstructure:"meshes"`
}

type outlineConfig struct {
	Name   string `mapstructure:"name"`
	Closed bool   `mapstructure:"closed"`
	// Corners are [x, y], [x, y, bit] or [mx, my, x, y, bit] arrays. The last
	// form ends an arc through (mx, my).
	Corners [][]float64 `mapstructure:"corners"`
	Extrude float64     `mapstructure:"extrude"`
}

type gearConfig struct {
	Name          string  `mapstructure:"name"`
	Type          string  `mapstructure:"type"`
	Teeth         int     `mapstructure:"teeth"`
	Module        float64 `mapstructure:"module"`
	Parity        float64 `mapstructure:"parity"`
	PressureAngle float64 `mapstructure:"pressure_angle"` // degrees
	RouterBit     float64 `mapstructure:"router_bit"`
	Skin          float64 `mapstructure:"skin"`
	Resolution    int     `mapstructure:"resolution"`
	Portion       struct {
		Teeth int    `mapstructure:"teeth"`
		First string `mapstructure:"first"`
		Last  string `mapstructure:"last"`
	} `mapstructure:"portion"`
	Center       []float64 `mapstructure:"center"`
	InitialAngle float64   `mapstructure:"initial_angle"` // degrees
	Extrude      float64   `mapstructure:"extrude"`
}

// meshConfig places the second gear against the first one.
type meshConfig struct {
	First     string  `mapstructure:"first"`
	Second    string  `mapstructure:"second"`
	Extra     float64 `mapstructure:"extra"`
	Placement float64 `mapstructure:"placement"` // degrees
}

// readDesign reads a design file. Its format follows the file extension.
func readDesign(path string) (design, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return design{}, err
	}
	return decodeDesign(v)
}

// parseDesign reads a design of the given format, such as "yaml" or "json".
func parseDesign(r io.Reader, format string) (design, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return design{}, err
	}
	return decodeDesign(v)
}

func decodeDesign(v *viper.Viper) (design, error) {
	v.SetDefault("tolerance", 0.01)
	var d design
	if err := v.Unmarshal(&d); err != nil {
		return d, err
	}
	names := make(map[string]bool)
	for _, name := range d.names() {
		if name == "" {
			return d, fmt.Errorf("%w: unnamed outline or gear", cnc25d.ErrValueOutOfDomain)
		}
		if names[name] {
			return d, fmt.Errorf("%w: name %q used twice", cnc25d.ErrValueOutOfDomain, name)
		}
		names[name] = true
	}
	return d, nil
}

func (d design) names() (names []string) {
	for _, o := range d.Outlines {
		names = append(names, o.Name)
	}
	for _, g := range d.Gears {
		names = append(names, g.Name)
	}
	return names
}

// outline returns the corners of o in format A.
func (o outlineConfig) outline() (cnc25d.OutlineA, error) {
	bld := cnc25d.NewBuilder()
	for i, c := range o.Corners {
		switch len(c) {
		case 2:
			bld.Add(c[0], c[1])
		case 3:
			bld.Add(c[0], c[1]).Bit(c[2])
		case 5:
			if i == 0 {
				return nil, cnc25d.ErrAt(i, cnc25d.ErrValueOutOfDomain, "outline %q starts with an arc", o.Name)
			}
			bld.AddArc(c[0], c[1], c[2], c[3]).Bit(c[4])
		default:
			return nil, cnc25d.ErrAt(i, cnc25d.ErrValueOutOfDomain, "outline %q: corner with %d values", o.Name, len(c))
		}
	}
	if o.Closed {
		bld.Close()
	}
	return bld.Outline()
}

func (g gearConfig) params() (gear.Params, error) {
	typ, err := gear.ParseType(g.Type)
	if err != nil {
		return gear.Params{}, err
	}
	p := gear.Params{
		Type:             typ,
		Teeth:            g.Teeth,
		Module:           g.Module,
		Parity:           g.Parity,
		PressureAngle:    cnc25d.DtoR(g.PressureAngle),
		RouterBitRadius:  g.RouterBit,
		SkinThicknessPos: g.Skin,
		SkinThicknessNeg: g.Skin,
		ResolutionPos:    g.Resolution,
		ResolutionNeg:    g.Resolution,
		InitialAngle:     cnc25d.DtoR(g.InitialAngle),
	}
	p.Portion.Teeth = g.Portion.Teeth
	if g.Portion.First != "" {
		if p.Portion.First, err = gear.ParseEnd(g.Portion.First); err != nil {
			return p, err
		}
	}
	if g.Portion.Last != "" {
		if p.Portion.Last, err = gear.ParseEnd(g.Portion.Last); err != nil {
			return p, err
		}
	}
	switch len(g.Center) {
	case 0:
	case 2:
		p.Center = r2.Vec{X: g.Center[0], Y: g.Center[1]}
	default:
		return p, fmt.Errorf("%w: gear %q center needs 2 values", cnc25d.ErrValueOutOfDomain, g.Name)
	}
	return p, nil
}
