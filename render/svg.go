package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/soypat/cnc25d"
)

// SVG is a cnc25d.Sink collecting outlines into an SVG document measured in
// millimeters. The y axis points up as in the outlines.
type SVG struct {
	recorder
	// StrokeWidth of the paths in millimeters. Defaults to 0.2.
	StrokeWidth float64
}

// NewSVG returns an empty SVG drawing.
func NewSVG() *SVG { return &SVG{StrokeWidth: 0.2} }

// WriteTo writes the document to w.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	box := s.bounds()
	margin := math.Max(1, 0.05*math.Max(box.Max.X-box.Min.X, box.Max.Y-box.Min.Y))
	width := box.Max.X - box.Min.X + 2*margin
	height := box.Max.Y - box.Min.Y + 2*margin
	canvas := svg.New(cw)
	canvas.Startraw(
		fmt.Sprintf(`width="%smm"`, fmtFloat(width)),
		fmt.Sprintf(`height="%smm"`, fmtFloat(height)),
		fmt.Sprintf(`viewBox="%s %s %s %s"`, fmtFloat(box.Min.X-margin), fmtFloat(-box.Max.Y-margin), fmtFloat(width), fmtFloat(height)),
	)
	style := fmt.Sprintf("fill:none;stroke:black;stroke-width:%s", fmtFloat(s.StrokeWidth))
	for _, b := range s.outlines {
		d, err := pathData(b)
		if err != nil {
			return cw.n, err
		}
		canvas.Path(d, style)
	}
	canvas.End()
	return cw.n, cw.err
}

// pathData returns the SVG path commands of b with y flipped.
func pathData(b cnc25d.OutlineB) (string, error) {
	var sb strings.Builder
	p := b[0].End
	sb.WriteString("M " + fmtFloat(p.X) + " " + fmtFloat(0-p.Y))
	for i := 1; i < len(b); i++ {
		s := b[i]
		if s.Kind != cnc25d.KindArc {
			sb.WriteString(" L " + fmtFloat(s.End.X) + " " + fmtFloat(0-s.End.Y))
			continue
		}
		arc, err := cnc25d.ArcCenterRadiusAngles(b[i-1].End, s.Mid, s.End)
		if err != nil {
			return "", cnc25d.ErrAt(i, cnc25d.ErrGeometryDegenerate, "%v", err)
		}
		large, sweep := "0", "0"
		if math.Abs(arc.Sweep) > math.Pi {
			large = "1"
		}
		// flipping y turns counter-clockwise arcs clockwise
		if arc.Sweep < 0 {
			sweep = "1"
		}
		r := fmtFloat(arc.Radius)
		sb.WriteString(" A " + r + " " + r + " 0 " + large + " " + sweep + " " + fmtFloat(s.End.X) + " " + fmtFloat(0-s.End.Y))
	}
	if b.Closed() {
		sb.WriteString(" Z")
	}
	return sb.String(), nil
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

type countWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countWriter) Write(b []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(b)
	c.n += int64(n)
	c.err = err
	return n, err
}
