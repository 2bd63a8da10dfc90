package unfold_test

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/soypat/unfold"
	"github.com/soypat/unfold/page"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

var konaExample = unfold.KonaParams{
	TopDiameter:    50,
	BottomDiameter: 70,
	Angle:          30,
	Extra:          30,
	Segments:       6,
}

func TestStosHalfPattern(t *testing.T) {
	dev, err := unfold.Stos(unfold.StosParams{Diameter: 100, Angle: 45})
	require.NoError(t, err)
	size := dev.Size()
	assert.InDelta(t, 157.08, size.X, 0.005)
	assert.InDelta(t, 100.0, size.Y, 0.005)
	assert.Equal(t, unfold.DefaultStosSegments, dev.Segments())
	assert.Len(t, dev.Outer, dev.Segments()+1)

	for _, g := range dev.Generators() {
		assert.Equal(t, g[0].X, g[1].X, "pipe generators are vertical")
		assert.GreaterOrEqual(t, g[0].Y, g[1].Y)
	}
}

func TestStosSpanAndClearance(t *testing.T) {
	for _, tc := range []struct {
		d, angle, clearance float64
		span                unfold.Span
	}{
		{d: 100, angle: 45, span: unfold.SpanFull},
		{d: 40, angle: 10, clearance: 30},
		{d: 250, angle: 80, clearance: 5, span: unfold.SpanFull},
	} {
		dev := unfold.MustStos(unfold.StosParams{Diameter: tc.d, Angle: tc.angle, Clearance: tc.clearance, Span: tc.span})
		width := math.Pi * tc.d / 2
		if tc.span == unfold.SpanFull {
			width *= 2
		}
		size := dev.Size()
		assert.InDelta(t, width, size.X, 1e-9)
		assert.InDelta(t, tc.d*math.Tan(unfold.DtoR(tc.angle))+tc.clearance, size.Y, 1e-9)
	}
}

func TestKonaExample(t *testing.T) {
	dev, err := unfold.Kona(konaExample)
	require.NoError(t, err)
	require.Len(t, dev.Inner, 7)
	require.Len(t, dev.Outer, 7)
	assert.Equal(t, unfold.ShapeKona, dev.Shape)

	g, err := unfold.SolveKona(konaExample)
	require.NoError(t, err)
	for i, v := range dev.Inner {
		assert.True(t, scalar.EqualWithinAbs(r2.Norm(v), g.InnerRadius, 1e-9), "inner point %d off radius", i)
	}
	for i := 1; i < len(dev.Outer); i++ {
		assert.Less(t, r2.Norm(dev.Outer[i]), r2.Norm(dev.Outer[i-1]), "slant distance %d not decreasing", i)
	}
	for _, gen := range dev.Generators() {
		l := r2.Norm(r2.Sub(gen[1], gen[0]))
		assert.False(t, math.IsNaN(l) || math.IsInf(l, 0))
		assert.GreaterOrEqual(t, l, 0.0)
	}
	// Clearance above the high side of the cut is Extra.
	assert.InDelta(t, konaExample.Extra, g.AxialHeight-g.CutHeight(math.Pi), 1e-9)
	// The top circle sits at the inner radius: Rt = Rin·sin(ψ).
	assert.InDelta(t, g.TopRadius, g.InnerRadius*math.Sin(g.HalfAngle), 1e-9)
}

func TestKonaDeterministic(t *testing.T) {
	p := konaExample
	p.Span = unfold.SpanFull
	p.Segments = 0
	p.Rotation = 33
	p.Centered = true
	a := unfold.MustKona(p)
	b := unfold.MustKona(p)
	assert.Equal(t, a, b)
	assert.Equal(t, unfold.DefaultKonaFullSegments, a.Segments())
}

func TestKonaCentered(t *testing.T) {
	p := konaExample
	p.Centered = true
	dev := unfold.MustKona(p)
	first, last := dev.Inner[0], dev.Inner[len(dev.Inner)-1]
	assert.InDelta(t, first.X, last.X, 1e-9)
	assert.InDelta(t, -first.Y, last.Y, 1e-9)
}

func TestKonaAnalyticAgreement(t *testing.T) {
	p := konaExample
	p.Segments = 720
	tri := unfold.MustKona(p)
	ana, err := unfold.KonaAnalytic(p)
	require.NoError(t, err)
	require.Equal(t, tri.Segments(), ana.Segments())
	for i := range tri.Outer {
		assert.InDelta(t, ana.Outer[i].X, tri.Outer[i].X, 0.05)
		assert.InDelta(t, ana.Outer[i].Y, tri.Outer[i].Y, 0.05)
	}
	// Coarse triangulation still agrees on slant distances exactly.
	coarse := unfold.MustKona(konaExample)
	coarseAna, err := unfold.KonaAnalytic(konaExample)
	require.NoError(t, err)
	for i := range coarse.Outer {
		assert.InDelta(t, r2.Norm(coarseAna.Outer[i]), r2.Norm(coarse.Outer[i]), 1e-9)
	}
}

func TestKonaMethodsAgree(t *testing.T) {
	for _, angle := range []float64{0.5, 5, 30, 60, 89.5} {
		p := konaExample
		p.Angle = angle
		q, err := unfold.SolveKona(p)
		require.NoError(t, err, "angle %g", angle)
		p.Method = unfold.MethodBisection
		b, err := unfold.SolveKona(p)
		require.NoError(t, err, "angle %g", angle)
		assert.InEpsilon(t, q.AxialHeight, b.AxialHeight, 1e-7, "angle %g", angle)
		assert.InEpsilon(t, q.InnerRadius, b.InnerRadius, 1e-7, "angle %g", angle)

		devB := unfold.MustKona(p)
		p.Method = unfold.MethodQuadratic
		devQ := unfold.MustKona(p)
		for i := range devQ.Outer {
			assert.InDelta(t, devQ.Outer[i].X, devB.Outer[i].X, 1e-4)
			assert.InDelta(t, devQ.Outer[i].Y, devB.Outer[i].Y, 1e-4)
		}
	}
}

func TestKonaBisectionOutOfRange(t *testing.T) {
	// A nearly flat cut with no clearance needs a half-angle above 89°.
	p := unfold.KonaParams{TopDiameter: 2, BottomDiameter: 2002, Angle: 0.01, Method: unfold.MethodBisection}
	_, err := unfold.Kona(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, unfold.ErrInfeasible)
	assert.ErrorIs(t, err, unfold.ErrNoBracket)
	var ce *unfold.ComputationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, unfold.ShapeKona, ce.Shape)

	p.Method = unfold.MethodQuadratic
	_, err = unfold.SolveKona(p)
	assert.NoError(t, err)
}

func TestInvalidParameters(t *testing.T) {
	stos := []unfold.StosParams{
		{Diameter: 0, Angle: 45},
		{Diameter: -3, Angle: 45},
		{Diameter: 100, Angle: 0},
		{Diameter: 100, Angle: 90},
		{Diameter: 100, Angle: math.NaN()},
		{Diameter: 100, Angle: 45, Clearance: -1},
		{Diameter: 100, Angle: 45, Segments: 2},
		{Diameter: 100, Angle: 45, Span: 7},
	}
	for _, p := range stos {
		_, err := unfold.Stos(p)
		assert.ErrorIs(t, err, unfold.ErrInvalidParameter, "%+v", p)
	}
	kona := []unfold.KonaParams{
		{TopDiameter: 70, BottomDiameter: 50, Angle: 30},
		{TopDiameter: 50, BottomDiameter: 50, Angle: 30},
		{TopDiameter: 0, BottomDiameter: 50, Angle: 30},
		{TopDiameter: 50, BottomDiameter: 70, Angle: 0},
		{TopDiameter: 50, BottomDiameter: 70, Angle: 90},
		{TopDiameter: 50, BottomDiameter: 70, Angle: 30, Extra: -1},
		{TopDiameter: 50, BottomDiameter: 70, Angle: 30, Rotation: math.Inf(1)},
		{TopDiameter: 50, BottomDiameter: 70, Angle: 30, Method: 9},
	}
	for _, p := range kona {
		_, err := unfold.Kona(p)
		assert.ErrorIs(t, err, unfold.ErrInvalidParameter, "%+v", p)
		_, err = unfold.KonaAnalytic(p)
		assert.ErrorIs(t, err, unfold.ErrInvalidParameter, "%+v", p)
	}

	_, err := unfold.Stos(unfold.StosParams{Diameter: -3, Angle: 45})
	var pe *unfold.ParameterError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "diameter", pe.Field)
	assert.Equal(t, "stos: diameter is -3, must be positive", err.Error())
	assert.Panics(t, func() { unfold.MustStos(unfold.StosParams{}) })
}

func TestDevelopmentRotate(t *testing.T) {
	dev := unfold.MustKona(konaExample)
	orig := dev.Outer[3]
	rot := dev.Rotate(90)
	assert.Equal(t, orig, dev.Outer[3], "receiver modified")
	assert.Equal(t, 90.0, rot.Rotation)
	assert.InDelta(t, -orig.Y, rot.Outer[3].X, 1e-9)
	assert.InDelta(t, orig.X, rot.Outer[3].Y, 1e-9)

	full := rot.Rotate(270)
	assert.Equal(t, 360.0, full.Rotation)
	for i := range dev.Inner {
		assert.InDelta(t, dev.Inner[i].X, full.Inner[i].X, 1e-9)
		assert.InDelta(t, dev.Inner[i].Y, full.Inner[i].Y, 1e-9)
	}

	cp := dev.Rotate(0)
	cp.Inner[0] = r2.Vec{X: 1e6}
	assert.NotEqual(t, cp.Inner[0], dev.Inner[0], "slices shared between values")

	// Rotating a development matches unrolling at that rotation.
	p := konaExample
	p.Rotation = 40
	direct := unfold.MustKona(p)
	rotated := dev.Rotate(40)
	for i := range direct.Outer {
		assert.InDelta(t, direct.Outer[i].X, rotated.Outer[i].X, 1e-9)
		assert.InDelta(t, direct.Outer[i].Y, rotated.Outer[i].Y, 1e-9)
	}
}

func TestEdgeLabels(t *testing.T) {
	dev := unfold.MustKona(konaExample)
	labels := dev.EdgeLabels()
	require.Len(t, labels, 2*dev.Segments())
	for _, l := range labels {
		var a, b r2.Vec
		if l.Inner {
			a, b = dev.Inner[l.Segment], dev.Inner[l.Segment+1]
		} else {
			a, b = dev.Outer[l.Segment], dev.Outer[l.Segment+1]
		}
		assert.InDelta(t, r2.Norm(r2.Sub(b, a)), l.Length, 1e-12)
		assert.Regexp(t, `^\d+\.\d$`, l.Text())
		// Inner labels sit nearer the apex.
		r := r2.Norm(l.Pos)
		if l.Inner {
			assert.Less(t, r, r2.Norm(labels[2*l.Segment+1].Pos))
		}
	}
}

func fitScore(d unfold.Development, l page.Layout) float64 {
	s, u := d.Size(), l.Usable()
	portrait := math.Min(u.X/s.X, u.Y/s.Y)
	landscape := math.Min(u.Y/s.X, u.X/s.Y)
	return math.Max(portrait, landscape)
}

func TestOptimizeRotationNeverWorse(t *testing.T) {
	p := konaExample
	p.Span = unfold.SpanFull
	gen := unfold.KonaRotations(p)
	for _, step := range []float64{1, 5, 7} {
		res, err := unfold.OptimizeRotation(gen, unfold.OptimizeOptions{Step: step})
		require.NoError(t, err)
		d0, _ := gen(0)
		d90, _ := gen(90)
		assert.GreaterOrEqual(t, res.Score, fitScore(d0, page.A4))
		assert.GreaterOrEqual(t, res.Score, fitScore(d90, page.A4))
		assert.InDelta(t, res.Score, fitScore(res.Development, page.A4), 1e-12)
		assert.GreaterOrEqual(t, res.Rotation, 0.0)
		assert.Less(t, res.Rotation, 180.0)
		assert.Equal(t, res.Rotation, res.Development.Rotation)
	}
	res, err := unfold.OptimizeRotation(gen, unfold.OptimizeOptions{Step: 7})
	require.NoError(t, err)
	assert.Equal(t, 27, res.Evaluations, "0..175 plus 90")
}

func TestOptimizeRotationMinWaste(t *testing.T) {
	// 249.8 x 79.5: only fits A4 turned to landscape.
	dev := unfold.MustStos(unfold.StosParams{Diameter: 159, Angle: 26.565})
	gen := unfold.Rotator(dev)

	fit, err := unfold.OptimizeRotation(gen, unfold.OptimizeOptions{Strategy: unfold.MaxFit})
	require.NoError(t, err)
	assert.True(t, fit.Fits)
	assert.Equal(t, 180, fit.Evaluations)

	waste, err := unfold.OptimizeRotation(gen, unfold.OptimizeOptions{Strategy: unfold.MinWaste})
	require.NoError(t, err)
	require.True(t, waste.Fits)
	u := page.A4.Usable()
	size := dev.Size()
	landscapeWaste := (u.Y - size.X) * (u.X - size.Y)
	assert.LessOrEqual(t, waste.Waste, landscapeWaste+1e-9)

	// Nothing fits a tiny page: MinWaste falls back to MaxFit.
	tiny := page.Layout{Width: 60, Height: 80, Margin: 5}
	a, err := unfold.OptimizeRotation(gen, unfold.OptimizeOptions{Strategy: unfold.MinWaste, Layout: tiny})
	require.NoError(t, err)
	b, err := unfold.OptimizeRotation(gen, unfold.OptimizeOptions{Strategy: unfold.MaxFit, Layout: tiny})
	require.NoError(t, err)
	assert.False(t, a.Fits)
	assert.Equal(t, b.Rotation, a.Rotation)
	assert.Equal(t, b.Score, a.Score)
}

func TestOptimizeRotationAllowance(t *testing.T) {
	// 249.8 x 79.5 fits A4 with a 10 mm border, but at no 5° rotation with 25 mm.
	gen := unfold.Rotator(unfold.MustStos(unfold.StosParams{Diameter: 159, Angle: 26.565}))
	for _, tc := range []struct {
		allowance float64
		fits      bool
	}{
		{allowance: 0, fits: true},
		{allowance: 10, fits: true},
		{allowance: 25, fits: false},
	} {
		for _, strategy := range []unfold.Strategy{unfold.MaxFit, unfold.MinWaste} {
			res, err := unfold.OptimizeRotation(gen, unfold.OptimizeOptions{
				Step:      unfold.CoarseRotationStep,
				Strategy:  strategy,
				Allowance: tc.allowance,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.fits, res.Fits, "allowance %g %v", tc.allowance, strategy)
			size := r2.Add(res.Development.Size(), r2.Vec{X: 2 * tc.allowance, Y: 2 * tc.allowance})
			u := page.A4.Usable()
			want := math.Max(math.Min(u.X/size.X, u.Y/size.Y), math.Min(u.Y/size.X, u.X/size.Y))
			assert.InDelta(t, want, res.Score, 1e-12)
		}
	}
}

func TestOptimizeRotationErrors(t *testing.T) {
	_, err := unfold.OptimizeRotation(nil, unfold.OptimizeOptions{})
	assert.Error(t, err)
	gen := unfold.Rotator(unfold.MustKona(konaExample))
	_, err = unfold.OptimizeRotation(gen, unfold.OptimizeOptions{Step: -1})
	assert.Error(t, err)
	_, err = unfold.OptimizeRotation(gen, unfold.OptimizeOptions{Allowance: -1})
	assert.Error(t, err)
	_, err = unfold.OptimizeRotation(gen, unfold.OptimizeOptions{Allowance: math.NaN()})
	assert.Error(t, err)
	_, err = unfold.OptimizeRotation(gen, unfold.OptimizeOptions{Layout: page.Layout{Width: 5, Height: 5, Margin: 5}})
	assert.ErrorIs(t, err, page.ErrInvalidLayout)

	boom := errors.New("boom")
	_, err = unfold.OptimizeRotation(func(float64) (unfold.Development, error) {
		return unfold.Development{}, boom
	}, unfold.OptimizeOptions{})
	assert.ErrorIs(t, err, boom)
}

func TestBisect(t *testing.T) {
	root, err := unfold.Bisect(func(x float64) float64 { return x*x - 2 }, 0, 2, 1e-12, 200)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, root, 1e-9)

	_, err = unfold.Bisect(func(x float64) float64 { return x*x - 2 }, 3, 4, 1e-12, 200)
	assert.ErrorIs(t, err, unfold.ErrNoBracket)

	_, err = unfold.Bisect(func(x float64) float64 { return x - 1.0/3 }, 0, 1, 0, 3)
	assert.ErrorIs(t, err, unfold.ErrNoConvergence)
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	unfold.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { unfold.SetLogger(nil) })
	_, err := unfold.SolveKona(konaExample)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "kona solved")
	assert.Contains(t, buf.String(), "method=quadratic")

	unfold.SetLogger(nil)
	buf.Reset()
	_, err = unfold.SolveKona(konaExample)
	require.NoError(t, err)
	assert.Zero(t, buf.Len())
}
