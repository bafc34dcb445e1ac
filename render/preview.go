package render

import (
	"image/color"
	"io"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Preview is a cnc25d.Sink plotting outlines to an image, with equal scales
// on both axes.
type Preview struct {
	recorder
	Title string
	// Tolerance used to flatten arcs. Defaults to 0.01.
	Tolerance float64
}

// NewPreview returns an empty preview.
func NewPreview(title string) *Preview {
	return &Preview{Title: title, Tolerance: 0.01}
}

// Plot returns the plot of the recorded outlines.
func (p *Preview) Plot() (*plot.Plot, error) {
	plt := plot.New()
	plt.Title.Text = p.Title
	plt.X.Label.Text = "x (mm)"
	plt.Y.Label.Text = "y (mm)"
	for i, b := range p.outlines {
		pts := b.Flatten(p.Tolerance)
		xys := make(plotter.XYs, len(pts))
		for j, q := range pts {
			xys[j].X, xys[j].Y = q.X, q.Y
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		l.LineStyle.Width = vg.Points(1)
		l.LineStyle.Color = palette[i%len(palette)]
		plt.Add(l)
	}
	if len(p.outlines) > 0 {
		box := p.bounds()
		c := r2.Scale(0.5, r2.Add(box.Min, box.Max))
		half := 0.55 * math.Max(box.Max.X-box.Min.X, box.Max.Y-box.Min.Y)
		plt.X.Min, plt.X.Max = c.X-half, c.X+half
		plt.Y.Min, plt.Y.Max = c.Y-half, c.Y+half
	}
	return plt, nil
}

// WriteTo writes a square image of the given side in the format named by
// its extension, such as "png" or "svg".
func (p *Preview) WriteTo(w io.Writer, side vg.Length, format string) (int64, error) {
	plt, err := p.Plot()
	if err != nil {
		return 0, err
	}
	wt, err := plt.WriterTo(side, side, format)
	if err != nil {
		return 0, err
	}
	return wt.WriteTo(w)
}

// Save writes a square image of the given side to path. The format follows
// the file extension.
func (p *Preview) Save(path string, side vg.Length) error {
	plt, err := p.Plot()
	if err != nil {
		return err
	}
	return plt.Save(side, side, path)
}

var palette = []color.Color{
	color.RGBA{R: 0x46, G: 0x89, B: 0x66, A: 0xff},
	color.RGBA{R: 0xb6, G: 0x49, B: 0x26, A: 0xff},
	color.RGBA{R: 0x27, G: 0x4b, B: 0x8c, A: 0xff},
}
