package d2

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func near(a, b r2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

func TestRotateTranslate(t *testing.T) {
	const tol = 1e-12
	tf := Translate(r2.Vec{X: 10, Y: -2}).Mul(Rotate(math.Pi / 2))
	got := tf.ApplyPos(r2.Vec{X: 1})
	want := r2.Vec{X: 10, Y: -1}
	if !near(got, want, tol) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFlipTranslate(t *testing.T) {
	// y up to y down, as done when laying a pattern out on paper.
	tf := Translate(r2.Vec{X: 5, Y: 20}).Mul(Scale(r2.Vec{X: 1, Y: -1}))
	got := tf.ApplyPos(r2.Vec{X: 2, Y: 3})
	if want := (r2.Vec{X: 7, Y: 17}); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSetBoundsTransform(t *testing.T) {
	set := Set{{X: 1}, {X: 0, Y: 2}, {X: -1, Y: 1}}
	b := set.Transform(Rotate(math.Pi)).Bounds()
	if !near(b.Min, r2.Vec{X: -1, Y: -2}, 1e-12) || !near(b.Max, r2.Vec{X: 1}, 1e-12) {
		t.Errorf("rotated bounds %v", b)
	}
	if got := b.Size(); !near(got, r2.Vec{X: 2, Y: 2}, 1e-12) {
		t.Errorf("size %v, want 2x2", got)
	}
}

func TestBoxIntersectContains(t *testing.T) {
	a := Box{Max: r2.Vec{X: 2, Y: 2}}
	b := Box{Min: r2.Vec{X: 1, Y: 1}, Max: r2.Vec{X: 3, Y: 3}}
	got := a.Intersect(b)
	if want := (Box{Min: r2.Vec{X: 1, Y: 1}, Max: r2.Vec{X: 2, Y: 2}}); got != want {
		t.Errorf("intersection %v, want %v", got, want)
	}
	if got := a.Extend(b); got != (Box{Max: r2.Vec{X: 3, Y: 3}}) {
		t.Errorf("extend %v", got)
	}
	for _, v := range []r2.Vec{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 1.5, Y: 1}} {
		if !got.Contains(v) {
			t.Errorf("%v should contain %v", got, v)
		}
	}
	if got.Contains(r2.Vec{X: 2.1, Y: 1.5}) {
		t.Error("point outside the box reported inside")
	}
	if !IsFinite(r2.Vec{X: 1}) || IsFinite(r2.Vec{Y: math.Inf(1)}) || IsFinite(r2.Vec{X: math.NaN()}) {
		t.Error("IsFinite")
	}
}

func TestLerp(t *testing.T) {
	a, b := r2.Vec{X: 0, Y: 10}, r2.Vec{X: 10, Y: 0}
	if got := Lerp(a, b, 0.35); !near(got, r2.Vec{X: 3.5, Y: 6.5}, 1e-12) {
		t.Errorf("lerp %v", got)
	}
	if got := Midpoint(a, b); got != (r2.Vec{X: 5, Y: 5}) {
		t.Errorf("midpoint %v", got)
	}
}
