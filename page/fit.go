package page

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Fit scales a whole drawing onto a single page, centred in the printable area.
type Fit struct {
	Layout      Layout
	Orientation Orientation
	Scale       float64
	// Offset is the page position of the drawing origin.
	Offset r2.Vec
}

// ToPage maps a drawing coordinate to the page.
func (f Fit) ToPage(p r2.Vec) r2.Vec {
	return r2.Add(f.Offset, r2.Scale(f.Scale, p))
}

// FitToPage picks the orientation giving the largest scale. Portrait wins ties.
func FitToPage(size r2.Vec, l Layout) (Fit, error) {
	if err := l.Validate(); err != nil {
		return Fit{}, err
	}
	if err := validSize(size); err != nil {
		return Fit{}, err
	}
	best := fitOriented(size, l, Portrait)
	if f := fitOriented(size, l, Landscape); f.Scale > best.Scale {
		best = f
	}
	return best, nil
}

func fitOriented(size r2.Vec, l Layout, o Orientation) Fit {
	l = l.Orient(o)
	u := l.Usable()
	scale := math.Inf(1)
	if size.X > 0 {
		scale = u.X / size.X
	}
	if size.Y > 0 {
		scale = math.Min(scale, u.Y/size.Y)
	}
	if math.IsInf(scale, 1) {
		scale = 1
	}
	used := r2.Scale(scale, size)
	return Fit{
		Layout:      l,
		Orientation: o,
		Scale:       scale,
		Offset: r2.Vec{
			X: l.Margin + (u.X-used.X)/2,
			Y: l.Margin + (u.Y-used.Y)/2,
		},
	}
}
