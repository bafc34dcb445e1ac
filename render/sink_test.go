package render

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soypat/cnc25d"
	"gonum.org/v1/plot/cmpimg"
	"gonum.org/v1/plot/vg"
)

func countKinds(b cnc25d.OutlineB) (lines, arcs int) {
	for _, s := range b[1:] {
		if s.Kind == cnc25d.KindArc {
			arcs++
		} else {
			lines++
		}
	}
	return lines, arcs
}

// semicircle is the upper half of the unit circle, counter-clockwise.
var semicircle = cnc25d.OutlineB{cnc25d.LineTo(1, 0), cnc25d.ArcTo(0, 1, -1, 0)}

func TestSVGPath(t *testing.T) {
	for _, test := range []struct {
		outline cnc25d.OutlineB
		want    string
	}{
		{semicircle, "M 1 0 A 1 1 0 0 0 -1 0"},
		{semicircle.Reverse(), "M -1 0 A 1 1 0 0 1 1 0"},
		{
			cnc25d.OutlineB{cnc25d.LineTo(0, 0), cnc25d.LineTo(2, 0), cnc25d.LineTo(2, 1), cnc25d.LineTo(0, 0)},
			"M 0 0 L 2 0 L 2 -1 L 0 0 Z",
		},
	} {
		got, err := pathData(test.outline)
		if err != nil {
			t.Fatal(err)
		}
		if got != test.want {
			t.Errorf("got %q, want %q", got, test.want)
		}
	}
}

func TestSVGDocument(t *testing.T) {
	b := gearOutline(t)
	s := NewSVG()
	if err := cnc25d.Emit(s, b, hShape(t, 1)); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
	}
	doc := buf.String()
	if !strings.Contains(doc, "<svg") || !strings.Contains(doc, "</svg>") {
		t.Fatalf("not an SVG document: %.200s", doc)
	}
	if got := strings.Count(doc, "<path"); got != 2 {
		t.Errorf("got %d paths, want 2", got)
	}
	_, arcs := countKinds(b)
	_, harcs := countKinds(hShape(t, 1))
	if got := strings.Count(doc, " A "); got != arcs+harcs {
		t.Errorf("got %d arc commands, want %d", got, arcs+harcs)
	}
}

func TestSinkRequiresBegin(t *testing.T) {
	for _, s := range []cnc25d.Sink{NewSVG(), NewDXF(), NewPreview("")} {
		if err := s.LineTo(semicircle[0].End); !errors.Is(err, errNoOutline) {
			t.Errorf("%T: got %v", s, err)
		}
	}
}

func TestDXF(t *testing.T) {
	b := hShape(t, 2)
	d := NewDXF()
	if err := cnc25d.Emit(d, b, semicircle); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "h.dxf")
	if err := d.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(data)
	for _, entity := range []string{"LINE", "ARC", "ENTITIES"} {
		if !strings.Contains(doc, entity) {
			t.Errorf("DXF output has no %s", entity)
		}
	}
}

func TestPreview(t *testing.T) {
	render := func() []byte {
		p := NewPreview("gear")
		if err := cnc25d.Emit(p, gearOutline(t)); err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if _, err := p.WriteTo(&buf, 10*vg.Centimeter, "png"); err != nil {
			t.Fatal(err)
		}
		return buf.Bytes()
	}
	first, second := render(), render()
	cfg, err := png.DecodeConfig(bytes.NewReader(first))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != cfg.Height || cfg.Width == 0 {
		t.Errorf("preview is %dx%d, want a square", cfg.Width, cfg.Height)
	}
	equal, err := cmpimg.Equal("png", first, second)
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Error("preview is not deterministic")
	}
}
