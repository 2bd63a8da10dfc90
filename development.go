package unfold

import (
	"strconv"

	"github.com/soypat/unfold/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// Shape identifies the part a Development was unrolled from.
type Shape int

const (
	ShapeStos Shape = iota + 1 // obliquely cut pipe
	ShapeKona                  // obliquely cut truncated cone
)

func (s Shape) String() string {
	switch s {
	case ShapeStos:
		return "stos"
	case ShapeKona:
		return "kona"
	}
	return "shape(" + strconv.Itoa(int(s)) + ")"
}

// Span selects how much of the circumference is unrolled.
type Span int

const (
	// SpanHalf unrolls azimuths 0..π. The part is symmetric so two mirrored
	// half patterns make the whole.
	SpanHalf Span = iota
	// SpanFull unrolls azimuths 0..2π in one piece.
	SpanFull
)

func (s Span) String() string {
	if s == SpanFull {
		return "full"
	}
	return "half"
}

func (s Span) angle() float64 {
	if s == SpanFull {
		return tau
	}
	return pi
}

// Development is a flat pattern. Inner is the boundary nearer the cone apex
// (the pipe top), Outer the boundary along the oblique cut. Inner[i] and
// Outer[i] are the two ends of the i'th generator line. Coordinates are
// millimetres with y pointing up.
//
// A Development is a value: methods never modify the receiver's slices.
type Development struct {
	Shape Shape
	Inner []r2.Vec
	Outer []r2.Vec
	// Rotation is the accumulated in-plane rotation in degrees, counter-clockwise.
	Rotation float64
}

// EdgeLabel is the flat length of one boundary segment positioned between
// the inner and outer chords of that segment.
type EdgeLabel struct {
	Segment int
	Inner   bool // true for an Inner chord, false for an Outer chord
	Length  float64
	Pos     r2.Vec
}

// Text formats the length in millimetres with one decimal place.
func (l EdgeLabel) Text() string {
	return strconv.FormatFloat(l.Length, 'f', 1, 64)
}

// Segments returns the number of segments between consecutive samples.
func (d Development) Segments() int {
	if len(d.Inner) == 0 {
		return 0
	}
	return len(d.Inner) - 1
}

// Generators returns the straight lines joining corresponding inner and outer samples.
func (d Development) Generators() [][2]r2.Vec {
	gens := make([][2]r2.Vec, len(d.Inner))
	for i := range d.Inner {
		gens[i] = [2]r2.Vec{d.Inner[i], d.Outer[i]}
	}
	return gens
}

// Bounds returns the tight axis-aligned box around all boundary points.
func (d Development) Bounds() r2.Box {
	if len(d.Inner) == 0 {
		return r2.Box{}
	}
	box := d2.Set(d.Inner).Bounds().Extend(d2.Set(d.Outer).Bounds())
	return r2.Box(box)
}

// Size returns the width and height of Bounds.
func (d Development) Size() r2.Vec {
	return d2.Box(d.Bounds()).Size()
}

// Rotate returns a copy rotated counter-clockwise about the origin.
func (d Development) Rotate(degrees float64) Development {
	if degrees == 0 {
		return d.clone()
	}
	t := d2.Rotate(DtoR(degrees))
	return Development{
		Shape:    d.Shape,
		Inner:    d2.Set(d.Inner).Transform(t),
		Outer:    d2.Set(d.Outer).Transform(t),
		Rotation: d.Rotation + degrees,
	}
}

// EdgeLabels returns the inner and outer chord length of every segment.
// The inner label sits 35% of the way from the inner chord midpoint towards
// the outer chord midpoint and the outer label at 65%.
func (d Development) EdgeLabels() []EdgeLabel {
	n := d.Segments()
	labels := make([]EdgeLabel, 0, 2*n)
	for i := 0; i < n; i++ {
		mi := d2.Midpoint(d.Inner[i], d.Inner[i+1])
		mo := d2.Midpoint(d.Outer[i], d.Outer[i+1])
		labels = append(labels,
			EdgeLabel{
				Segment: i,
				Inner:   true,
				Length:  r2.Norm(r2.Sub(d.Inner[i+1], d.Inner[i])),
				Pos:     d2.Lerp(mi, mo, 0.35),
			},
			EdgeLabel{
				Segment: i,
				Length:  r2.Norm(r2.Sub(d.Outer[i+1], d.Outer[i])),
				Pos:     d2.Lerp(mi, mo, 0.65),
			},
		)
	}
	return labels
}

func (d Development) clone() Development {
	d.Inner = append([]r2.Vec(nil), d.Inner...)
	d.Outer = append([]r2.Vec(nil), d.Outer...)
	return d
}
