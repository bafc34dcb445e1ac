package render

import (
	"github.com/soypat/cnc25d"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"
	"gonum.org/v1/gonum/spatial/r2"
)

// DXF is a cnc25d.Sink writing outlines as DXF LINE and ARC entities.
type DXF struct {
	drawing *drawing.Drawing
	cursor  r2.Vec
	open    bool
}

// NewDXF returns an empty DXF drawing.
func NewDXF() *DXF {
	return &DXF{drawing: dxf.NewDrawing()}
}

func (d *DXF) BeginOutline(start r2.Vec) error {
	d.cursor = start
	d.open = true
	return nil
}

func (d *DXF) LineTo(end r2.Vec) error {
	if !d.open {
		return errNoOutline
	}
	_, err := d.drawing.Line(d.cursor.X, d.cursor.Y, 0, end.X, end.Y, 0)
	d.cursor = end
	return err
}

// ArcThroughTo writes the arc from the cursor through mid to end. DXF arcs
// run counter-clockwise so clockwise arcs are written from end to start.
func (d *DXF) ArcThroughTo(mid, end r2.Vec) error {
	if !d.open {
		return errNoOutline
	}
	arc, err := cnc25d.ArcCenterRadiusAngles(d.cursor, mid, end)
	if err != nil {
		return err
	}
	from, to := arc.Start, arc.End
	if arc.Sweep < 0 {
		from, to = to, from
	}
	_, err = d.drawing.Arc(arc.Center.X, arc.Center.Y, 0, arc.Radius, cnc25d.RtoD(from), cnc25d.RtoD(to))
	d.cursor = end
	return err
}

func (d *DXF) EndOutline() error {
	d.open = false
	return nil
}

// SaveAs writes the drawing to a file.
func (d *DXF) SaveAs(path string) error {
	return d.drawing.SaveAs(path)
}
