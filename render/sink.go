package render

import (
	"errors"

	"github.com/soypat/cnc25d"
	"gonum.org/v1/gonum/spatial/r2"
)

var errNoOutline = errors.New("segment emitted before BeginOutline")

// recorder is a cnc25d.Sink that keeps what it receives as format B outlines.
type recorder struct {
	outlines []cnc25d.OutlineB
	open     bool
}

func (r *recorder) BeginOutline(start r2.Vec) error {
	r.outlines = append(r.outlines, cnc25d.OutlineB{{Kind: cnc25d.KindLine, End: start}})
	r.open = true
	return nil
}

func (r *recorder) LineTo(end r2.Vec) error {
	return r.add(cnc25d.Segment{Kind: cnc25d.KindLine, End: end})
}

func (r *recorder) ArcThroughTo(mid, end r2.Vec) error {
	return r.add(cnc25d.Segment{Kind: cnc25d.KindArc, Mid: mid, End: end})
}

func (r *recorder) EndOutline() error {
	r.open = false
	return nil
}

func (r *recorder) add(s cnc25d.Segment) error {
	if !r.open {
		return errNoOutline
	}
	last := &r.outlines[len(r.outlines)-1]
	*last = append(*last, s)
	return nil
}

// bounds returns the box around every recorded outline.
func (r *recorder) bounds() r2.Box {
	var box r2.Box
	for i, b := range r.outlines {
		bb := b.Bounds()
		if i == 0 {
			box = bb
			continue
		}
		box.Min = r2.Vec{X: min(box.Min.X, bb.Min.X), Y: min(box.Min.Y, bb.Min.Y)}
		box.Max = r2.Vec{X: max(box.Max.X, bb.Max.X), Y: max(box.Max.Y, bb.Max.Y)}
	}
	return box
}
