package cnc25d

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrGeometryDegenerate is returned when inputs are collinear or coincident within tolerance.
	ErrGeometryDegenerate = errors.New("degenerate geometry")
	// ErrGeometryInconsistent is returned when a post-condition is violated.
	ErrGeometryInconsistent = errors.New("inconsistent geometry")
	// ErrValueOutOfDomain is returned when a numeric precondition fails.
	ErrValueOutOfDomain = errors.New("value out of domain")
	// ErrGearInfeasible is returned when gear parameters leave no top land or bottom land.
	ErrGearInfeasible = errors.New("infeasible gear")
	// ErrConvergenceIncomplete flags an iterative solver that hit its iteration cap.
	ErrConvergenceIncomplete = errors.New("convergence incomplete")
	// ErrCornerDegraded flags a corner that was emitted angular instead of smoothed or enlarged.
	ErrCornerDegraded = errors.New("corner degraded")
	// ErrParallel is returned by line intersections of parallel lines.
	ErrParallel = errors.New("parallel lines")
	// ErrUnsupported is returned for curve types other than lines and arcs.
	ErrUnsupported = errors.New("unsupported curve")
	// ErrAlreadyClosed flags a Close call on an outline that is already closed.
	ErrAlreadyClosed = errors.New("outline already closed")
)

// IndexError locates a fatal error at an outline index.
type IndexError struct {
	Index int
	Err   error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d: %s", e.Index, e.Err)
}

func (e *IndexError) Unwrap() error { return e.Err }

// ErrAt returns an *IndexError wrapping kind with a formatted message.
func ErrAt(index int, kind error, format string, args ...any) error {
	return &IndexError{Index: index, Err: fmt.Errorf("%w: "+format, append([]any{kind}, args...)...)}
}

// Warning is a non-fatal condition attached to a returned result.
// Kind is ErrCornerDegraded, ErrConvergenceIncomplete or ErrAlreadyClosed.
type Warning struct {
	Kind  error
	Index int
	Msg   string
}

func (w Warning) Error() string {
	if w.Index < 0 {
		return w.Kind.Error() + ": " + w.Msg
	}
	return fmt.Sprintf("%s at %d: %s", w.Kind, w.Index, w.Msg)
}

func (w Warning) Unwrap() error { return w.Kind }

// Warnings is a list of warnings in the order they were raised.
type Warnings []Warning

// Add appends a warning.
func (ws *Warnings) Add(kind error, index int, format string, args ...any) {
	*ws = append(*ws, Warning{Kind: kind, Index: index, Msg: fmt.Sprintf(format, args...)})
}

// Count returns the number of warnings matching kind.
func (ws Warnings) Count(kind error) (n int) {
	for _, w := range ws {
		if errors.Is(w, kind) {
			n++
		}
	}
	return n
}

func (ws Warnings) String() string {
	var b strings.Builder
	for i, w := range ws {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(w.Error())
	}
	return b.String()
}
