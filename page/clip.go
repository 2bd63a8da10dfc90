package page

import "gonum.org/v1/gonum/spatial/r2"

// ClipSegment clips segment ab to box using the Liang–Barsky algorithm.
// ok is false when no part of the segment lies inside the box.
func ClipSegment(a, b r2.Vec, box r2.Box) (ca, cb r2.Vec, ok bool) {
	d := r2.Sub(b, a)
	t0, t1 := 0.0, 1.0
	p := [4]float64{-d.X, d.X, -d.Y, d.Y}
	q := [4]float64{a.X - box.Min.X, box.Max.X - a.X, a.Y - box.Min.Y, box.Max.Y - a.Y}
	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				return a, b, false // parallel and outside
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > t1 {
				return a, b, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return a, b, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}
	return r2.Add(a, r2.Scale(t0, d)), r2.Add(a, r2.Scale(t1, d)), true
}

// ClipPolyline clips an open polyline to box. Each run of consecutive
// visible segments becomes one output polyline.
func ClipPolyline(pts []r2.Vec, box r2.Box) [][]r2.Vec {
	var (
		out [][]r2.Vec
		run []r2.Vec
	)
	for i := 0; i+1 < len(pts); i++ {
		a, b, ok := ClipSegment(pts[i], pts[i+1], box)
		if !ok {
			if len(run) > 1 {
				out = append(out, run)
			}
			run = nil
			continue
		}
		if len(run) == 0 || run[len(run)-1] != a {
			if len(run) > 1 {
				out = append(out, run)
			}
			run = []r2.Vec{a}
		}
		run = append(run, b)
	}
	if len(run) > 1 {
		out = append(out, run)
	}
	return out
}
