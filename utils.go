package unfold

import (
	"math"
)

const (
	// MillimetresPerInch is millimetres per inch (25.4)
	MillimetresPerInch = 25.4
	// InchesPerMillimetre is inches per millimetre
	InchesPerMillimetre = 1.0 / MillimetresPerInch
)

const (
	pi        = math.Pi
	tau       = 2 * pi
	tolerance = 1e-9
	// cosineSlack is how far past ±1 a law of cosines ratio may drift from
	// rounding before the triangle is considered degenerate.
	cosineSlack = 1e-6
	// maxBisectIter bounds Bisect. 60 halvings of an 89° bracket reach 1e-16 rad.
	maxBisectIter = 200
)

// DtoR converts degrees to radians
func DtoR(degrees float64) float64 {
	return (pi / 180) * degrees
}

// RtoD converts radians to degrees
func RtoD(radians float64) float64 {
	return (180 / pi) * radians
}

// Clamp x between a and b, assume a <= b
func Clamp(x, a, b float64) float64 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}

// acosClamped returns acos(x) after clamping x to [-1, 1]. Values further
// than slack outside that range mean the triangle the ratio came from does
// not exist and an error is returned instead.
func acosClamped(x, slack float64) (float64, error) {
	if math.IsNaN(x) || x > 1+slack || x < -1-slack {
		return math.NaN(), errDegenerate
	}
	return math.Acos(Clamp(x, -1, 1)), nil
}

// Bisect finds a root of f in [lo, hi]. f(lo) and f(hi) must have opposite
// signs. Iteration stops once |f(x)| <= tol or the bracket can no longer be
// halved, and fails with ErrNoConvergence after maxIter halvings.
func Bisect(f func(float64) float64, lo, hi, tol float64, maxIter int) (float64, error) {
	flo, fhi := f(lo), f(hi)
	switch {
	case math.IsNaN(flo) || math.IsNaN(fhi):
		return math.NaN(), ErrNoBracket
	case flo == 0:
		return lo, nil
	case fhi == 0:
		return hi, nil
	case (flo > 0) == (fhi > 0):
		return math.NaN(), ErrNoBracket
	}
	for i := 0; i < maxIter; i++ {
		mid := lo + (hi-lo)/2
		fmid := f(mid)
		if math.Abs(fmid) <= tol || mid == lo || mid == hi {
			return mid, nil
		}
		if (fmid > 0) == (flo > 0) {
			lo, flo = mid, fmid
		} else {
			hi = mid
		}
	}
	return math.NaN(), ErrNoConvergence
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
