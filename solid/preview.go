package solid

import (
	"errors"
	"image"
	"image/png"
	"io"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

// View is the camera used by Preview. The mesh is first fitted into the
// bi-unit cube centred at the origin, so positions are in that frame.
type View struct {
	Eye, Center, Up r3.Vec
	// Width and Height of the output image in pixels.
	Width, Height int
	// Supersample renders at this multiple of the output size and then
	// downsamples for antialiasing. Zero or one disables it.
	Supersample int
	// Fovy is the vertical field of view in degrees.
	Fovy      float64
	Near, Far float64
	// Color and Background are hex colours such as "#468966".
	Color, Background string
}

// DefaultView looks at the part from above its low side.
func DefaultView() View {
	return View{
		Eye:         r3.Vec{X: 3, Y: -2.5, Z: 2},
		Up:          r3.Vec{Z: 1},
		Width:       800,
		Height:      600,
		Supersample: 2,
		Fovy:        30,
		Near:        1,
		Far:         20,
		Color:       "#468966",
		Background:  "#FFF8E3",
	}
}

// Preview renders a Phong shaded image of the mesh.
func Preview(mesh []Triangle, view View) (image.Image, error) {
	if len(mesh) == 0 {
		return nil, errors.New("solid: empty mesh")
	}
	if view.Width <= 0 || view.Height <= 0 {
		return nil, errors.New("solid: preview size must be positive")
	}
	scale := view.Supersample
	if scale < 1 {
		scale = 1
	}
	tris := make([]*fauxgl.Triangle, len(mesh))
	for i, t := range mesh {
		tris[i] = fauxgl.NewTriangleForPoints(fvec(t[0]), fvec(t[1]), fvec(t[2]))
	}
	fmesh := fauxgl.NewTriangleMesh(tris)
	// fit mesh in a bi-unit cube centered at the origin
	fmesh.BiUnitCube()

	var (
		eye    = fvec(view.Eye)
		center = fvec(view.Center)
		up     = fvec(view.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
		aspect = float64(view.Width) / float64(view.Height)
	)
	ctx := fauxgl.NewContext(view.Width*scale, view.Height*scale)
	ctx.ClearColorBufferWith(fauxgl.HexColor(view.Background))
	matrix := fauxgl.LookAt(eye, center, up).Perspective(view.Fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor(view.Color)
	ctx.Shader = shader
	ctx.DrawMesh(fmesh)

	img := ctx.Image()
	if scale > 1 {
		img = resize.Resize(uint(view.Width), uint(view.Height), img, resize.Bilinear)
	}
	return img, nil
}

// WritePreview renders the mesh and encodes it to w as PNG.
func WritePreview(w io.Writer, mesh []Triangle, view View) error {
	img, err := Preview(mesh, view)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func fvec(v r3.Vec) fauxgl.Vector {
	return fauxgl.V(v.X, v.Y, v.Z)
}
