package solid_test

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/soypat/unfold"
	"github.com/soypat/unfold/solid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/cmpimg"
)

const testCells = 40

var konaParams = unfold.KonaParams{
	TopDiameter:    50,
	BottomDiameter: 70,
	Angle:          30,
	Extra:          30,
	Segments:       6,
}

func TestKonaMeshAboveCut(t *testing.T) {
	s, err := solid.Kona(konaParams, solid.Options{})
	require.NoError(t, err)
	g, err := unfold.SolveKona(konaParams)
	require.NoError(t, err)

	mesh, err := solid.Mesh(s, solid.Options{Cells: testCells})
	require.NoError(t, err)
	require.NotEmpty(t, mesh)

	bb := s.BoundingBox()
	cell := math.Max(bb.Max.X-bb.Min.X, bb.Max.Z-bb.Min.Z) / testCells
	tol := 2 * cell
	for _, tri := range mesh {
		for _, v := range tri {
			assert.GreaterOrEqual(t, v.Z, -tol)
			assert.LessOrEqual(t, v.Z, g.AxialHeight+tol)
			// Above the plane z = tan·(Rb − x).
			assert.GreaterOrEqual(t, v.Z-g.Tan*(g.BottomRadius-v.X), -tol*(1+g.Tan))
		}
	}
	b := solid.Bounds(mesh)
	assert.InDelta(t, g.AxialHeight, b.Max.Z, tol)
}

func TestStosHollow(t *testing.T) {
	p := unfold.StosParams{Diameter: 100, Angle: 45, Clearance: 10}
	s, err := solid.Stos(p, solid.Options{Thickness: 5})
	require.NoError(t, err)
	mesh, err := solid.Mesh(s, solid.Options{Cells: testCells})
	require.NoError(t, err)
	b := solid.Bounds(mesh)
	tol := 2 * 110.0 / testCells
	assert.InDelta(t, 50, b.Max.X, tol)
	assert.InDelta(t, -50, b.Min.X, tol)
	assert.InDelta(t, 110, b.Max.Z, tol)

	_, err = solid.Stos(p, solid.Options{Thickness: 60})
	assert.Error(t, err)
}

func TestInvalidParamsRejected(t *testing.T) {
	_, err := solid.Kona(unfold.KonaParams{TopDiameter: 70, BottomDiameter: 50, Angle: 30}, solid.Options{})
	assert.ErrorIs(t, err, unfold.ErrInvalidParameter)
	_, err = solid.Stos(unfold.StosParams{Diameter: 10, Angle: 30}, solid.Options{Thickness: -1})
	assert.Error(t, err)
}

func TestSTLWriteRead(t *testing.T) {
	// Tetrahedron with outward winding.
	var (
		o = r3.Vec{}
		x = r3.Vec{X: 10}
		y = r3.Vec{Y: 10}
		z = r3.Vec{Z: 10}
	)
	mesh := []solid.Triangle{
		{o, y, x},
		{o, x, z},
		{o, z, y},
		{x, y, z},
	}
	var buf bytes.Buffer
	require.NoError(t, solid.WriteSTL(&buf, mesh))
	require.Equal(t, 84+50*len(mesh), buf.Len())

	got, err := solid.ReadSTL(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(mesh))
	for i := range mesh {
		for j := range mesh[i] {
			assert.Equal(t, mesh[i][j], got[i][j])
		}
	}
	assert.InDelta(t, -1, got[0].Normal().Z, 1e-12)

	assert.Error(t, solid.WriteSTL(&buf, nil))
	_, err = solid.ReadSTL(bytes.NewReader(make([]byte, 40)))
	assert.Error(t, err)
}

func TestPreviewIdempotent(t *testing.T) {
	s, err := solid.Kona(konaParams, solid.Options{})
	require.NoError(t, err)
	mesh, err := solid.Mesh(s, solid.Options{Cells: 24})
	require.NoError(t, err)

	view := solid.DefaultView()
	view.Width, view.Height = 96, 72
	var a, b bytes.Buffer
	require.NoError(t, solid.WritePreview(&a, mesh, view))
	require.NoError(t, solid.WritePreview(&b, mesh, view))

	img, err := png.Decode(bytes.NewReader(a.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 96, img.Bounds().Dx())
	assert.Equal(t, 72, img.Bounds().Dy())

	equal, err := cmpimg.EqualApprox("png", a.Bytes(), b.Bytes(), 0.01)
	require.NoError(t, err)
	assert.True(t, equal, "repeated render differs")
}
