package animation

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidControlPoint is returned when an x control coordinate lies outside [0,1].
var ErrInvalidControlPoint = errors.New("bezier control point out of range")

const (
	bisectPrecision = 1e-7
	bisectMaxIter   = 10
)

// Bezier is a CSS-style cubic Bézier timing curve anchored at (0,0) and (1,1).
type Bezier struct {
	x1, y1, x2, y2 float64
}

// NewBezier validates the control points. Only x coordinates are bounded; y
// may overshoot for "back" style curves.
func NewBezier(x1, y1, x2, y2 float64) (Bezier, error) {
	if x1 < 0 || x1 > 1 || x2 < 0 || x2 > 1 || math.IsNaN(x1) || math.IsNaN(x2) {
		return Bezier{}, fmt.Errorf("%w: x1=%v x2=%v", ErrInvalidControlPoint, x1, x2)
	}
	return Bezier{x1: x1, y1: y1, x2: x2, y2: y2}, nil
}

// Points returns the four control coordinates.
func (b Bezier) Points() [4]float64 {
	return [4]float64{b.x1, b.y1, b.x2, b.y2}
}

// At maps an input progress x in [0,1] to the eased output.
func (b Bezier) At(x float64) float64 {
	if b.x1 == b.y1 && b.x2 == b.y2 {
		return x
	}
	if x <= 0 || x >= 1 {
		return x
	}
	return cubic(b.solveT(x), b.y1, b.y2)
}

// solveT finds the curve parameter whose x projection matches x.
func (b Bezier) solveT(x float64) float64 {
	lo, hi := 0.0, 1.0
	t := x
	for i := 0; i < bisectMaxIter; i++ {
		cx := cubic(t, b.x1, b.x2)
		if math.Abs(cx-x) < bisectPrecision {
			return t
		}
		if cx > x {
			hi = t
		} else {
			lo = t
		}
		t = (lo + hi) / 2
	}
	return t
}

// cubic evaluates one axis of the curve with endpoints fixed at 0 and 1.
func cubic(t, a1, a2 float64) float64 {
	a := 1 - 3*a2 + 3*a1
	b := 3*a2 - 6*a1
	c := 3 * a1
	return ((a*t+b)*t + c) * t
}
