package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Transform represents a 2D spatial transformation
// including translation and rotation.
type Transform struct {
	data [3 * 3]float64 // stack stronk
}

// Rotate returns a counter-clockwise rotation about the origin by radians.
func Rotate(radians float64) Transform {
	s, c := math.Sincos(radians)
	return Transform{data: [9]float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}}
}

// Translate returns a translation by v.
func Translate(v r2.Vec) Transform {
	return Transform{data: [9]float64{
		1, 0, v.X,
		0, 1, v.Y,
		0, 0, 1,
	}}
}

// Scale returns a scaling about the origin.
func Scale(k r2.Vec) Transform {
	return Transform{data: [9]float64{
		k.X, 0, 0,
		0, k.Y, 0,
		0, 0, 1,
	}}
}

func (t *Transform) At(i, j int) float64 {
	return t.data[i*3+j]
}

func (t *Transform) Set(i, j int, v float64) {
	t.data[i*3+j] = v
}

// Mul multiplies 3x3 matrices. The result applies b first, then a.
func (a Transform) Mul(b Transform) Transform {
	m := Transform{}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, a.At(i, 0)*b.At(0, j)+a.At(i, 1)*b.At(1, j)+a.At(i, 2)*b.At(2, j))
		}
	}
	return m
}

// ApplyPos transforms a position.
func (t Transform) ApplyPos(b r2.Vec) r2.Vec {
	return r2.Vec{
		X: t.At(0, 0)*b.X + t.At(0, 1)*b.Y + t.At(0, 2),
		Y: t.At(1, 0)*b.X + t.At(1, 1)*b.Y + t.At(1, 2),
	}
}
