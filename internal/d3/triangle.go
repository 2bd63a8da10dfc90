package d3

import "gonum.org/v1/gonum/spatial/r3"

// Triangle is a 3d triangle with counter-clockwise winding seen from outside.
type Triangle [3]r3.Vec

// Normal returns the unit normal given by the winding order. Degenerate
// triangles yield NaN components.
func (t Triangle) Normal() r3.Vec {
	e1 := r3.Sub(t[1], t[0])
	e2 := r3.Sub(t[2], t[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Degenerate reports whether two vertices coincide within tol.
func (t Triangle) Degenerate(tol float64) bool {
	return EqualWithin(t[0], t[1], tol) ||
		EqualWithin(t[1], t[2], tol) ||
		EqualWithin(t[2], t[0], tol)
}

// Bounds returns the triangle's bounding box.
func (t Triangle) Bounds() Box {
	return Set(t[:]).Bounds()
}
