package unfold

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultStosSegments is the generator count used when StosParams.Segments is zero.
const DefaultStosSegments = 24

// StosParams describes a pipe of circular section cut by an oblique plane.
type StosParams struct {
	// Diameter of the pipe in millimetres.
	Diameter float64
	// Angle between the cut plane and the pipe cross-section in degrees, 0 < Angle < 90.
	Angle float64
	// Clearance is extra pipe length in millimetres kept above the highest
	// point of the cut. Zero gives the tight rectangle around the cut curve.
	Clearance float64
	Segments  int
	Span      Span
}

// Validate checks the parameters without computing any geometry.
func (p StosParams) Validate() error {
	switch {
	case !isFinite(p.Diameter) || p.Diameter <= 0:
		return paramErr(ShapeStos, "diameter", p.Diameter, "must be positive")
	case !isFinite(p.Angle) || p.Angle <= 0 || p.Angle >= 90:
		return paramErr(ShapeStos, "angle", p.Angle, "must be in (0, 90) degrees")
	case !isFinite(p.Clearance) || p.Clearance < 0:
		return paramErr(ShapeStos, "clearance", p.Clearance, "must be zero or positive")
	case p.Segments < 0 || (p.Segments > 0 && p.Segments < 3):
		return paramErr(ShapeStos, "segments", float64(p.Segments), "must be at least 3")
	case p.Span != SpanHalf && p.Span != SpanFull:
		return paramErr(ShapeStos, "span", float64(p.Span), "must be half or full")
	}
	return nil
}

// Stos unrolls the pipe surface between the oblique cut and a straight edge
// Clearance above the cut's highest point. The pattern's x axis is arc length
// along the circumference and y is height above the cut's lowest point:
//
//	x(θ) = R·θ
//	z(θ) = R·tan(α)·(1 − cos θ)
//
// Outer follows the cut curve and Inner the straight top edge, so the
// half pattern measures π·R by 2·R·tan(α) + Clearance.
func Stos(p StosParams) (Development, error) {
	if err := p.Validate(); err != nil {
		return Development{}, err
	}
	n := p.Segments
	if n == 0 {
		n = DefaultStosSegments
	}
	r := p.Diameter / 2
	rise := r * math.Tan(DtoR(p.Angle))
	top := 2*rise + p.Clearance
	span := p.Span.angle()
	dev := Development{
		Shape: ShapeStos,
		Inner: make([]r2.Vec, n+1),
		Outer: make([]r2.Vec, n+1),
	}
	for i := 0; i <= n; i++ {
		th := span * float64(i) / float64(n)
		x := r * th
		dev.Outer[i] = r2.Vec{X: x, Y: rise * (1 - math.Cos(th))}
		dev.Inner[i] = r2.Vec{X: x, Y: top}
	}
	return dev, nil
}

// MustStos is like Stos but panics on error.
func MustStos(p StosParams) Development {
	dev, err := Stos(p)
	if err != nil {
		panic(err)
	}
	return dev
}
