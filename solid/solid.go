// Package solid builds 3D previews of the parts unfold develops: the cut
// pipe or cone as a signed distance function, its triangle mesh, a binary
// STL file and a shaded PNG.
//
// The part stands on the low point of its cut at the origin with its axis
// along +z. The cut plane rises towards -x.
package solid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/soypat/unfold"
	"github.com/soypat/unfold/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultCells is the marching cubes resolution along the longest side of the part.
const DefaultCells = 120

// Options control the solid and its mesh.
type Options struct {
	// Thickness of the sheet in millimetres. Zero builds a filled solid,
	// which looks the same from outside and meshes faster.
	Thickness float64
	// Cells is the marching cubes resolution. Zero uses DefaultCells.
	Cells int
}

func (o Options) validate() error {
	switch {
	case math.IsNaN(o.Thickness) || math.IsInf(o.Thickness, 0) || o.Thickness < 0:
		return fmt.Errorf("solid: thickness is %g, must be zero or positive", o.Thickness)
	case o.Cells < 0:
		return fmt.Errorf("solid: cells is %d, must be zero or positive", o.Cells)
	}
	return nil
}

// Stos returns the pipe with its oblique cut.
func Stos(p unfold.StosParams, o Options) (sdf.SDF3, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	r := p.Diameter / 2
	tan := math.Tan(unfold.DtoR(p.Angle))
	h := 2*r*tan + p.Clearance
	if o.Thickness >= r {
		return nil, fmt.Errorf("solid: thickness %g leaves no bore in a %g diameter pipe", o.Thickness, p.Diameter)
	}
	pipe, err := sdf.Cylinder3D(h, r, 0)
	if err != nil {
		return nil, err
	}
	if o.Thickness > 0 {
		bore, err := sdf.Cylinder3D(h+2*o.Thickness, r-o.Thickness, 0)
		if err != nil {
			return nil, err
		}
		pipe = sdf.Difference3D(pipe, bore)
	}
	pipe = sdf.Transform3D(pipe, sdf.Translate3d(v3.Vec{Z: h / 2}))
	return cut(pipe, r, tan), nil
}

// Kona returns the truncated cone with its oblique cut, solved exactly as
// unfold.Kona solves it.
func Kona(p unfold.KonaParams, o Options) (sdf.SDF3, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	g, err := unfold.SolveKona(p)
	if err != nil {
		return nil, err
	}
	h := g.AxialHeight
	cone, err := sdf.Cone3D(h, g.BottomRadius, g.TopRadius, 0)
	if err != nil {
		return nil, err
	}
	if t := o.Thickness; t > 0 {
		// Bore follows the same taper, extended by t past both ends.
		rb := g.BottomRadius + g.Taper*t - t
		rt := g.TopRadius - g.Taper*t - t
		if rt <= 0 {
			return nil, fmt.Errorf("solid: thickness %g leaves no bore at the %g diameter top", t, p.TopDiameter)
		}
		bore, err := sdf.Cone3D(h+2*t, rb, rt, 0)
		if err != nil {
			return nil, err
		}
		cone = sdf.Difference3D(cone, bore)
	}
	cone = sdf.Transform3D(cone, sdf.Translate3d(v3.Vec{Z: h / 2}))
	return cut(cone, g.BottomRadius, g.Tan), nil
}

// cut keeps the part above the plane z = tan·(r − x), which touches the
// wall at (r, 0, 0) and rises towards -x.
func cut(s sdf.SDF3, r, tan float64) sdf.SDF3 {
	return sdf.Cut3D(s, v3.Vec{X: r}, v3.Vec{X: tan, Z: 1})
}

// Triangle is a mesh face with counter-clockwise winding seen from outside.
type Triangle [3]r3.Vec

// Normal returns the face's unit normal.
func (t Triangle) Normal() r3.Vec { return d3.Triangle(t).Normal() }

// Mesh tessellates s with uniform marching cubes.
func Mesh(s sdf.SDF3, o Options) ([]Triangle, error) {
	if s == nil {
		return nil, errors.New("solid: nil SDF")
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	cells := o.Cells
	if cells == 0 {
		cells = DefaultCells
	}
	tris := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))
	mesh := make([]Triangle, 0, len(tris))
	for _, tri := range tris {
		var t Triangle
		for j := range t {
			v := tri[j]
			t[j] = r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
		}
		if d3.Triangle(t).Degenerate(0) {
			continue
		}
		mesh = append(mesh, t)
	}
	if len(mesh) == 0 {
		return nil, errors.New("solid: marching cubes produced no triangles")
	}
	unfold.Logger().LogAttrs(context.Background(), slog.LevelDebug, "meshed solid",
		slog.Int("cells", cells),
		slog.Int("triangles", len(mesh)),
	)
	return mesh, nil
}

// Bounds returns the bounding box of a non-empty mesh.
func Bounds(mesh []Triangle) r3.Box {
	b := d3.Triangle(mesh[0]).Bounds()
	for _, t := range mesh[1:] {
		b = b.Extend(d3.Triangle(t).Bounds())
	}
	return r3.Box(b)
}
