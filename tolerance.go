package cnc25d

import "math"

const (
	pi  = math.Pi
	tau = 2 * pi
)

// Tolerances used across the module. Two values are considered equal when they
// agree within Epsilon.
const (
	Epsilon       = pi / 1000
	EpsilonFine   = Epsilon / 100
	EpsilonCoarse = 10 * Epsilon
)

// NormalizeAngle returns a in the range (-π, π].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, tau)
	if a <= -pi {
		a += tau
	} else if a > pi {
		a -= tau
	}
	return a
}

// DtoR converts degrees to radians
func DtoR(degrees float64) float64 {
	return (pi / 180) * degrees
}

// RtoD converts radians to degrees
func RtoD(radians float64) float64 {
	return (180 / pi) * radians
}

// Sign returns the sign of x
func Sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}
