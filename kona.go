package unfold

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DefaultKonaExtra is the customary clearance above the high side of the cut in millimetres.
	DefaultKonaExtra = 30
	// DefaultKonaSegments is the segment count used for half patterns when KonaParams.Segments is zero.
	DefaultKonaSegments = 6
	// DefaultKonaFullSegments is the segment count used for full patterns when KonaParams.Segments is zero.
	DefaultKonaFullSegments = 12

	// maxHalfAngle bounds the cone half-angle searched by MethodBisection.
	maxHalfAngle = 89 * pi / 180
	minHalfAngle = 1e-9
)

// Method selects how the cone taper is solved.
type Method int

const (
	// MethodQuadratic solves the axial height in closed form.
	MethodQuadratic Method = iota
	// MethodBisection searches the cone half-angle in (0°, 89°) so the top
	// plane sits Extra above the high side of the cut.
	MethodBisection
)

func (m Method) String() string {
	switch m {
	case MethodQuadratic:
		return "quadratic"
	case MethodBisection:
		return "bisection"
	}
	return fmt.Sprintf("method(%d)", int(m))
}

// KonaParams describes a truncated cone standing on an oblique plane, as
// used for roof flashings. The bottom rim follows the plane and the top rim
// is a circle perpendicular to the cone axis.
type KonaParams struct {
	// TopDiameter is the diameter of the top circle in millimetres.
	TopDiameter float64
	// BottomDiameter is the cone diameter at the low point of the cut. Must exceed TopDiameter.
	BottomDiameter float64
	// Angle is the slope of the cut plane in degrees, 0 < Angle < 90.
	Angle float64
	// Extra is the axial clearance in millimetres between the highest point
	// of the cut and the top circle. See DefaultKonaExtra.
	Extra float64
	// Segments is the number of triangulation segments. Zero picks
	// DefaultKonaSegments or DefaultKonaFullSegments depending on Span.
	Segments int
	Span     Span
	// Rotation rotates the finished pattern counter-clockwise, in degrees.
	Rotation float64
	// Centered turns the pattern so it is symmetric about the x axis before
	// Rotation is applied.
	Centered bool
	Method   Method
}

func (p KonaParams) segments() int {
	switch {
	case p.Segments > 0:
		return p.Segments
	case p.Span == SpanFull:
		return DefaultKonaFullSegments
	}
	return DefaultKonaSegments
}

// Validate checks the parameters without computing any geometry.
func (p KonaParams) Validate() error {
	switch {
	case !isFinite(p.TopDiameter) || p.TopDiameter <= 0:
		return paramErr(ShapeKona, "top diameter", p.TopDiameter, "must be positive")
	case !isFinite(p.BottomDiameter) || p.BottomDiameter <= 0:
		return paramErr(ShapeKona, "bottom diameter", p.BottomDiameter, "must be positive")
	case p.BottomDiameter <= p.TopDiameter:
		return paramErr(ShapeKona, "bottom diameter", p.BottomDiameter, fmt.Sprintf("must exceed top diameter %g", p.TopDiameter))
	case !isFinite(p.Angle) || p.Angle <= 0 || p.Angle >= 90:
		return paramErr(ShapeKona, "angle", p.Angle, "must be in (0, 90) degrees")
	case !isFinite(p.Extra) || p.Extra < 0:
		return paramErr(ShapeKona, "extra", p.Extra, "must be zero or positive")
	case p.Segments < 0 || (p.Segments > 0 && p.Segments < 3):
		return paramErr(ShapeKona, "segments", float64(p.Segments), "must be at least 3")
	case !isFinite(p.Rotation):
		return paramErr(ShapeKona, "rotation", p.Rotation, "must be finite")
	case p.Span != SpanHalf && p.Span != SpanFull:
		return paramErr(ShapeKona, "span", float64(p.Span), "must be half or full")
	case p.Method != MethodQuadratic && p.Method != MethodBisection:
		return paramErr(ShapeKona, "method", float64(p.Method), "unknown taper method")
	}
	return nil
}

// KonaGeometry holds the solved cone. Heights are measured along the axis
// from the low point of the cut.
type KonaGeometry struct {
	// Tan is the tangent of the cut angle.
	Tan          float64
	BottomRadius float64
	TopRadius    float64
	// AxialHeight is the axial distance between the bottom and top circles.
	AxialHeight float64
	// Taper is the radius lost per unit of axial height.
	Taper float64
	// ApexHeight is the axial position of the cone apex.
	ApexHeight float64
	// SlantFactor converts axial distance into distance along the cone wall.
	SlantFactor float64
	// InnerRadius is the slant distance from the apex to the top circle,
	// the constant radius of the pattern's inner boundary.
	InnerRadius float64
	// HalfAngle is the angle between the cone wall and its axis in radians.
	HalfAngle float64
}

// SolveKona validates p and solves the cone that fits it. The axial height H
// is fixed by requiring the top plane to sit Extra above the highest point
// of the cut:
//
//	H² − H·(E + T·(Rb+Rt)) − E·T·(Rb−Rt) = 0
func SolveKona(p KonaParams) (KonaGeometry, error) {
	if err := p.Validate(); err != nil {
		return KonaGeometry{}, err
	}
	g := KonaGeometry{
		Tan:          math.Tan(DtoR(p.Angle)),
		BottomRadius: p.BottomDiameter / 2,
		TopRadius:    p.TopDiameter / 2,
	}
	dr := g.BottomRadius - g.TopRadius
	switch p.Method {
	case MethodQuadratic:
		b := p.Extra + g.Tan*(g.BottomRadius+g.TopRadius)
		c := p.Extra * g.Tan * dr
		disc := b*b + 4*c
		if disc < 0 {
			return KonaGeometry{}, infeasible(ShapeKona, "solve axial height", fmt.Errorf("negative discriminant %g", disc))
		}
		g.AxialHeight = 0.5 * (b + math.Sqrt(disc))
		g.Taper = dr / g.AxialHeight
	case MethodBisection:
		// residual is the clearance error of a cone with half-angle psi.
		residual := func(psi float64) float64 {
			k := math.Tan(psi)
			return dr/k - 2*g.Tan*g.BottomRadius/(1+g.Tan*k) - p.Extra
		}
		psi, err := Bisect(residual, minHalfAngle, maxHalfAngle, tolerance, maxBisectIter)
		if err != nil {
			return KonaGeometry{}, infeasible(ShapeKona, "solve half-angle", err)
		}
		g.Taper = math.Tan(psi)
		g.AxialHeight = dr / g.Taper
	}
	if !isFinite(g.AxialHeight) || g.AxialHeight <= 0 {
		return KonaGeometry{}, infeasible(ShapeKona, "solve axial height", fmt.Errorf("height %g", g.AxialHeight))
	}
	if g.Tan*g.Taper >= 1 {
		return KonaGeometry{}, infeasible(ShapeKona, "intersect cut plane",
			fmt.Errorf("cut plane slope %g is not below wall slope %g", g.Tan, 1/g.Taper))
	}
	g.HalfAngle = math.Atan(g.Taper)
	g.ApexHeight = g.BottomRadius / g.Taper
	g.SlantFactor = math.Hypot(1, g.Taper)
	g.InnerRadius = (g.ApexHeight - g.AxialHeight) * g.SlantFactor
	Logger().LogAttrs(context.Background(), slog.LevelDebug, "kona solved",
		slog.String("method", p.Method.String()),
		slog.Float64("axial_height", g.AxialHeight),
		slog.Float64("taper", g.Taper),
		slog.Float64("inner_radius", g.InnerRadius),
	)
	return g, nil
}

// CutHeight returns the axial height of the cut rim at azimuth theta.
// Azimuth 0 is the low side of the cut.
func (g KonaGeometry) CutHeight(theta float64) float64 {
	c := math.Cos(theta)
	return g.Tan * g.BottomRadius * (1 - c) / (1 - g.Tan*g.Taper*c)
}

// RimPoint returns the 3D point of the cut rim at azimuth theta.
func (g KonaGeometry) RimPoint(theta float64) r3.Vec {
	z := g.CutHeight(theta)
	r := g.BottomRadius - g.Taper*z
	s, c := math.Sincos(theta)
	return r3.Vec{X: r * c, Y: r * s, Z: z}
}

// SlantDistance returns the distance along the cone wall from the apex to axial height z.
func (g KonaGeometry) SlantDistance(z float64) float64 {
	return (g.ApexHeight - z) * g.SlantFactor
}

// Kona unrolls the cone by triangulation. The oblique rim is sampled at
// Segments+1 evenly spaced azimuths, each rim point is placed at its slant
// distance from the apex, and consecutive points are laid flat using the
// true 3D chord between them:
//
//	β₍ᵢ₊₁₎ = βᵢ + acos((aᵢ² + aᵢ₊₁² − cᵢ²) / (2·aᵢ·aᵢ₊₁))
//
// Inner points share the constant radius KonaGeometry.InnerRadius.
func Kona(p KonaParams) (Development, error) {
	g, err := SolveKona(p)
	if err != nil {
		return Development{}, err
	}
	n := p.segments()
	span := p.Span.angle()
	rim := make([]r3.Vec, n+1)
	slant := make([]float64, n+1)
	for i := range rim {
		rim[i] = g.RimPoint(span * float64(i) / float64(n))
		slant[i] = g.SlantDistance(rim[i].Z)
	}
	betas := make([]float64, n+1)
	for i := 0; i < n; i++ {
		a, b := slant[i], slant[i+1]
		c := r3.Norm(r3.Sub(rim[i+1], rim[i]))
		phi, err := acosClamped((a*a+b*b-c*c)/(2*a*b), cosineSlack)
		if err != nil {
			return Development{}, infeasible(ShapeKona, fmt.Sprintf("unroll segment %d", i), err)
		}
		betas[i+1] = betas[i] + phi
	}
	return polarDevelopment(p, g, betas, slant), nil
}

// KonaAnalytic unrolls the cone with the exact angular mapping of a
// developable cone: azimuth θ lands at pattern angle θ·sin(ψ), where ψ is the
// half-angle. It agrees with Kona as the segment count grows.
func KonaAnalytic(p KonaParams) (Development, error) {
	g, err := SolveKona(p)
	if err != nil {
		return Development{}, err
	}
	n := p.segments()
	span := p.Span.angle()
	unwrap := g.TopRadius / g.InnerRadius
	betas := make([]float64, n+1)
	slant := make([]float64, n+1)
	for i := range betas {
		th := span * float64(i) / float64(n)
		betas[i] = unwrap * th
		slant[i] = g.SlantDistance(g.CutHeight(th))
	}
	return polarDevelopment(p, g, betas, slant), nil
}

// MustKona is like Kona but panics on error.
func MustKona(p KonaParams) Development {
	dev, err := Kona(p)
	if err != nil {
		panic(err)
	}
	return dev
}

// KonaRotations returns a RotationFunc that unrolls p at each requested rotation.
func KonaRotations(p KonaParams) RotationFunc {
	return func(degrees float64) (Development, error) {
		q := p
		q.Rotation = degrees
		return Kona(q)
	}
}

func polarDevelopment(p KonaParams, g KonaGeometry, betas, slant []float64) Development {
	offset := DtoR(p.Rotation)
	if p.Centered {
		offset -= betas[len(betas)-1] / 2
	}
	dev := Development{
		Shape:    ShapeKona,
		Inner:    make([]r2.Vec, len(betas)),
		Outer:    make([]r2.Vec, len(betas)),
		Rotation: p.Rotation,
	}
	for i, beta := range betas {
		s, c := math.Sincos(beta + offset)
		dev.Inner[i] = r2.Vec{X: g.InnerRadius * c, Y: g.InnerRadius * s}
		dev.Outer[i] = r2.Vec{X: slant[i] * c, Y: slant[i] * s}
	}
	return dev
}
