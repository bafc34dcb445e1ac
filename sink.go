package cnc25d

import (
	"github.com/soypat/cnc25d/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// Sink consumes format B outlines. File writers and previewers implement it.
type Sink interface {
	BeginOutline(start r2.Vec) error
	LineTo(end r2.Vec) error
	ArcThroughTo(mid, end r2.Vec) error
	EndOutline() error
}

// Emit feeds the outlines to s in order.
func Emit(s Sink, outlines ...OutlineB) error {
	for i, b := range outlines {
		if len(b) == 0 {
			continue
		}
		if err := s.BeginOutline(b[0].End); err != nil {
			return &IndexError{Index: i, Err: err}
		}
		for j := 1; j < len(b); j++ {
			var err error
			if b[j].Kind == KindArc {
				err = s.ArcThroughTo(b[j].Mid, b[j].End)
			} else {
				err = s.LineTo(b[j].End)
			}
			if err != nil {
				return &IndexError{Index: j, Err: err}
			}
		}
		if err := s.EndOutline(); err != nil {
			return &IndexError{Index: i, Err: err}
		}
	}
	return nil
}

// Flatten returns the vertices of b with every arc replaced by chords that
// deviate from it by at most tol. The first point is b's start point.
func (b OutlineB) Flatten(tol float64) []r2.Vec {
	if len(b) == 0 {
		return nil
	}
	pts := make([]r2.Vec, 0, 2*len(b))
	pts = append(pts, b[0].End)
	for i := 1; i < len(b); i++ {
		s := b[i]
		if s.Kind == KindArc {
			if arc, err := ArcCenterRadiusAngles(b[i-1].End, s.Mid, s.End); err == nil {
				pts = arc.Flatten(pts, tol)
				pts[len(pts)-1] = s.End
				continue
			}
		}
		pts = append(pts, s.End)
	}
	return pts
}

// Bounds returns the bounding box of b, arcs included.
func (b OutlineB) Bounds() r2.Box {
	if len(b) == 0 {
		return r2.Box{}
	}
	box := d2.Empty(b[0].End)
	for i := 1; i < len(b); i++ {
		s := b[i]
		box = box.Include(s.End)
		if s.Kind != KindArc {
			continue
		}
		arc, err := ArcCenterRadiusAngles(b[i-1].End, s.Mid, s.End)
		if err != nil {
			box = box.Include(s.Mid)
			continue
		}
		// extreme points of the circle that the arc sweeps over
		for q := 0; q < 4; q++ {
			p := arc.PointAt(float64(q) * pi / 2)
			if arc.Contains(p) {
				box = box.Include(p)
			}
		}
	}
	return r2.Box(box)
}

// Area returns the signed area enclosed by the closed outline b, positive for
// counter-clockwise outlines. Arcs are flattened to within EpsilonFine.
func (b OutlineB) Area() float64 {
	pts := b.Flatten(EpsilonFine)
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 3 {
		return 0
	}
	return d2.Set(pts).SignedArea()
}
