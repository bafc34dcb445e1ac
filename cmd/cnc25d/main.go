// Command cnc25d turns a design file of outlines and gears into files ready
// for a CNC router or a laser cutter: DXF and SVG drawings, a PNG preview and
// an STL extrusion when the design asks for one.
//
//	cnc25d -config design.yaml -out build
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/soypat/cnc25d"
	"github.com/soypat/cnc25d/corner"
	"github.com/soypat/cnc25d/gear"
	"github.com/soypat/cnc25d/render"
	"gonum.org/v1/plot/vg"
)

func main() {
	config := flag.String("config", "design.yaml", "design file (yaml, toml or json)")
	out := flag.String("out", ".", "output directory")
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	d, err := readDesign(*config)
	if err != nil {
		log.Fatal().Err(err).Str("config", *config).Msg("reading design")
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatal().Err(err).Msg("creating output directory")
	}
	if err := run(d, *out); err != nil {
		log.Fatal().Err(err).Msg("generating outlines")
	}
}

// run writes the files of every outline and gear of d to dir.
func run(d design, dir string) error {
	for _, o := range d.Outlines {
		a, err := o.outline()
		if err != nil {
			return fmt.Errorf("outline %q: %w", o.Name, err)
		}
		b, warns, err := corner.Cut(a)
		if err != nil {
			return fmt.Errorf("outline %q: %w", o.Name, err)
		}
		logWarnings(o.Name, warns)
		if err := write(dir, o.Name, b, o.Extrude, d.Tolerance); err != nil {
			return err
		}
	}
	gears, err := d.gearParams()
	if err != nil {
		return err
	}
	for i, g := range d.Gears {
		gg, err := gear.New(gears[i])
		if err != nil {
			return fmt.Errorf("gear %q: %w", g.Name, err)
		}
		b, warns, err := gg.Outline()
		if err != nil {
			return fmt.Errorf("gear %q: %w", g.Name, err)
		}
		logWarnings(g.Name, warns)
		if err := write(dir, g.Name, b, g.Extrude, d.Tolerance); err != nil {
			return err
		}
	}
	return nil
}

// gearParams returns the parameters of the gears of d, with meshed gears
// moved and turned against their driver.
func (d design) gearParams() ([]gear.Params, error) {
	params := make([]gear.Params, len(d.Gears))
	index := make(map[string]int)
	for i, g := range d.Gears {
		p, err := g.params()
		if err != nil {
			return nil, fmt.Errorf("gear %q: %w", g.Name, err)
		}
		params[i] = p
		index[g.Name] = i
	}
	for _, m := range d.Meshes {
		i1, ok1 := index[m.First]
		i2, ok2 := index[m.Second]
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("%w: mesh of unknown gears %q and %q", cnc25d.ErrValueOutOfDomain, m.First, m.Second)
		}
		g1, err := gear.New(params[i1])
		if err != nil {
			return nil, fmt.Errorf("gear %q: %w", m.First, err)
		}
		g2, err := gear.New(params[i2])
		if err != nil {
			return nil, fmt.Errorf("gear %q: %w", m.Second, err)
		}
		mesh, err := gear.NewMesh(g1, g2, m.Extra, cnc25d.DtoR(m.Placement), 1)
		if err != nil {
			return nil, fmt.Errorf("mesh %q-%q: %w", m.First, m.Second, err)
		}
		params[i2].Center = mesh.Center2
		params[i2].InitialAngle = mesh.SecondInitialAngle(params[i1].InitialAngle)
		log.Info().Str("first", m.First).Str("second", m.Second).
			Float64("distance", mesh.Distance).
			Float64("pressure_angle", cnc25d.RtoD(mesh.PressureAngle)).
			Float64("contact_ratio", mesh.ContactRatio).
			Msg("meshed")
	}
	return params, nil
}

func logWarnings(name string, warns cnc25d.Warnings) {
	for _, w := range warns {
		log.Warn().Str("outline", name).Int("index", w.Index).Str("kind", w.Kind.Error()).Msg(w.Msg)
	}
}

// write saves b as name.dxf, name.svg and name.png in dir, plus name.stl
// when extrude is positive.
func write(dir, name string, b cnc25d.OutlineB, extrude, tol float64) error {
	base := filepath.Join(dir, name)
	dxf := render.NewDXF()
	if err := cnc25d.Emit(dxf, b); err != nil {
		return err
	}
	if err := dxf.SaveAs(base + ".dxf"); err != nil {
		return err
	}

	svg := render.NewSVG()
	if err := cnc25d.Emit(svg, b); err != nil {
		return err
	}
	fp, err := os.Create(base + ".svg")
	if err != nil {
		return err
	}
	_, err = svg.WriteTo(fp)
	if cerr := fp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	preview := render.NewPreview(name)
	preview.Tolerance = tol
	if err := cnc25d.Emit(preview, b); err != nil {
		return err
	}
	if err := preview.Save(base+".png", 15*vg.Centimeter); err != nil {
		return err
	}

	files := 3
	if extrude > 0 {
		e, err := render.NewExtrusion(b, extrude, tol)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := render.CreateSTL(base+".stl", e); err != nil {
			return err
		}
		files++
	}
	log.Info().Str("outline", name).Int("segments", len(b)-1).
		Float64("length", b.Length()).Int("files", files).Msg("written")
	return nil
}
