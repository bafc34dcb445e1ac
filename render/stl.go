package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/spatial/r3"
)

const stlTriangleSize = 50

// CreateSTL writes every triangle of r to a binary STL file at path.
func CreateSTL(path string, r Renderer) error {
	const sizeOfSTLHeader = 84
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	// The triangle count is only known once r is drained.
	if _, err = file.Seek(sizeOfSTLHeader, io.SeekStart); err != nil {
		return err
	}
	n, err := io.CopyBuffer(file, &stlReader{r: r}, make([]byte, stlTriangleSize*trianglesInBuffer))
	if err != nil {
		return err
	}
	if _, err = file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	header := stlHeader{Count: uint32(n / stlTriangleSize)}
	return binary.Write(file, binary.LittleEndian, &header)
}

// WriteSTL writes model to w in binary STL format.
func WriteSTL(w io.Writer, model []Triangle3) error {
	if len(model) == 0 {
		return errors.New("empty triangle slice")
	}
	header := stlHeader{Count: uint32(len(model))}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}
	var b [stlTriangleSize]byte
	for _, t := range model {
		newSTLTriangle(t).put(b[:])
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	return nil
}

// ReadSTL reads a binary STL model. Triangles whose stored normal disagrees
// with their vertices are kept, and reported with ErrNormalMismatch.
func ReadSTL(r io.Reader) (model []Triangle3, err error) {
	var header stlHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, errors.New("STL header truncated")
		}
		return nil, fmt.Errorf("reading STL header: %w", err)
	}
	if header.Count == 0 {
		return nil, errors.New("STL header indicates 0 triangles present")
	}
	var (
		buf        [stlTriangleSize]byte
		d          stlTriangle
		mismatches int
	)
	model = make([]Triangle3, 0, header.Count)
	for i := 0; i < int(header.Count); i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, fmt.Errorf("%d/%d STL triangles read: %w", i, header.Count, err)
		}
		d.get(buf[:])
		switch err := d.validate(); {
		case errors.Is(err, ErrNormalMismatch):
			mismatches++
		case err != nil:
			return nil, fmt.Errorf("STL triangle %d: %w", i, err)
		}
		model = append(model, d.triangle())
	}
	if mismatches > 0 {
		return model, fmt.Errorf("%d triangles: %w", mismatches, ErrNormalMismatch)
	}
	return model, nil
}

// ErrNormalMismatch flags STL triangles whose stored normal does not match
// their winding.
var ErrNormalMismatch = errors.New("STL normal does not match vertex winding")

type stlHeader struct {
	_     [80]uint8
	Count uint32
}

const trianglesInBuffer = 1 << 10

// stlReader encodes triangles of a Renderer as STL bytes.
type stlReader struct {
	r   Renderer
	buf [trianglesInBuffer]Triangle3
	err error
}

func (s *stlReader) Read(b []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	ntMax := len(b) / stlTriangleSize
	if ntMax > len(s.buf) {
		ntMax = len(s.buf)
	}
	if ntMax == 0 {
		return 0, errors.New("STL encoding needs room for at least one triangle")
	}
	nt, err := s.r.ReadTriangles(s.buf[:ntMax])
	for i, t := range s.buf[:nt] {
		newSTLTriangle(t).put(b[i*stlTriangleSize:])
	}
	s.err = err
	if nt > 0 && err != nil {
		err = nil
	}
	return nt * stlTriangleSize, err
}

type stlTriangle struct {
	Normal, V1, V2, V3 [3]float32
}

func newSTLTriangle(t Triangle3) stlTriangle {
	return stlTriangle{
		Normal: to3F32(t.Normal()),
		V1:     to3F32(t[0]),
		V2:     to3F32(t[1]),
		V3:     to3F32(t[2]),
	}
}

func (t stlTriangle) put(b []byte) {
	_ = b[stlTriangleSize-1]
	put3F32(b, t.Normal)
	put3F32(b[12:], t.V1)
	put3F32(b[24:], t.V2)
	put3F32(b[36:], t.V3)
	binary.LittleEndian.PutUint16(b[48:], 0) // attribute byte count
}

func (t *stlTriangle) get(b []byte) {
	_ = b[stlTriangleSize-1]
	get3F32(b, &t.Normal)
	get3F32(b[12:], &t.V1)
	get3F32(b[24:], &t.V2)
	get3F32(b[36:], &t.V3)
}

func (t stlTriangle) validate() error {
	const normTol = 5e-2
	if bad3F32(t.Normal) || bad3F32(t.V1) || bad3F32(t.V2) || bad3F32(t.V3) {
		return errors.New("inf/NaN STL triangle")
	}
	tri := t.triangle()
	if tri.Degenerate(1e-12) {
		return errors.New("degenerate STL triangle")
	}
	if !equalWithin3F32(to3F32(tri.Normal()), t.Normal, normTol) {
		return ErrNormalMismatch
	}
	return nil
}

func (t stlTriangle) triangle() Triangle3 {
	return Triangle3{from3F32(t.V1), from3F32(t.V2), from3F32(t.V3)}
}

func put3F32(b []byte, f [3]float32) {
	_ = b[11] // early bounds check
	binary.LittleEndian.PutUint32(b, math.Float32bits(f[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(f[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(f[2]))
}

func get3F32(b []byte, f *[3]float32) {
	_ = b[11] // early bounds check
	f[0] = math.Float32frombits(binary.LittleEndian.Uint32(b))
	f[1] = math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
	f[2] = math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))
}

func to3F32(v r3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

func from3F32(f [3]float32) r3.Vec {
	return r3.Vec{X: float64(f[0]), Y: float64(f[1]), Z: float64(f[2])}
}

func bad3F32(f [3]float32) bool {
	for _, v := range f {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return true
		}
	}
	return false
}

func equalWithin3F32(a, b [3]float32, tol float32) bool {
	return math32.Abs(a[0]-b[0]) <= tol &&
		math32.Abs(a[1]-b[1]) <= tol &&
		math32.Abs(a[2]-b[2]) <= tol
}
