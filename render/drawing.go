// Package render turns unfold developments into device independent
// drawings and writes them as SVG, PDF, PNG and DXF.
//
// A Drawing lives in page space: millimetres, origin at the top-left
// corner, y pointing down. Developments use y up, so FromDevelopment flips
// the vertical axis and shifts everything by the padding so every
// coordinate is non-negative.
package render

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/soypat/unfold"
	"github.com/soypat/unfold/internal/d2"
	"github.com/soypat/unfold/page"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultPadding  = 10.0
	DefaultFontSize = 4.0
)

// Stroke is the line style of a path.
type Stroke int

const (
	// Cut is the outline to be cut.
	Cut Stroke = iota
	// Fold marks a generator line where the sheet is bent.
	Fold
	// Guide is construction geometry, not part of the template.
	Guide
)

func (s Stroke) String() string {
	switch s {
	case Cut:
		return "cut"
	case Fold:
		return "fold"
	case Guide:
		return "guide"
	}
	return "stroke(" + strconv.Itoa(int(s)) + ")"
}

// Tone is the colour class of a label.
type Tone int

const (
	ToneInner Tone = iota
	ToneOuter
	ToneDimension
)

// Path is a polyline. A closed path returns to its first point.
type Path struct {
	Stroke Stroke
	Points []r2.Vec
	Closed bool
}

// polyline returns the points of p with the closing point appended.
func (p Path) polyline() []r2.Vec {
	if !p.Closed || len(p.Points) < 2 {
		return p.Points
	}
	return append(append([]r2.Vec(nil), p.Points...), p.Points[0])
}

// Label is text centred on Pos.
type Label struct {
	Pos  r2.Vec
	Text string
	Tone Tone
	// Size overrides Drawing.FontSize when positive.
	Size float64
}

func (l Label) size(d Drawing) float64 {
	if l.Size > 0 {
		return l.Size
	}
	return d.FontSize
}

// Drawing is a set of paths and labels in page space.
type Drawing struct {
	Size     r2.Vec
	Paths    []Path
	Labels   []Label
	FontSize float64
}

// Options control FromDevelopment.
type Options struct {
	// Padding is the blank border around the development in millimetres.
	Padding float64
	// FontSize of labels in millimetres. Zero uses DefaultFontSize.
	FontSize float64
	// Labels adds segment lengths and overall dimensions.
	Labels bool
}

// DefaultOptions returns the options used by the command line tool.
func DefaultOptions() Options {
	return Options{Padding: DefaultPadding, FontSize: DefaultFontSize, Labels: true}
}

// FromDevelopment lays d out in page space. The cut outline is Inner
// followed by Outer reversed; interior generators become Fold lines.
func FromDevelopment(d unfold.Development, o Options) (Drawing, error) {
	if math.IsNaN(o.Padding) || math.IsInf(o.Padding, 0) || o.Padding < 0 {
		return Drawing{}, fmt.Errorf("render: padding is %g, must be zero or positive", o.Padding)
	}
	if o.FontSize < 0 || math.IsNaN(o.FontSize) {
		return Drawing{}, fmt.Errorf("render: font size is %g, must be positive", o.FontSize)
	}
	if o.FontSize == 0 {
		o.FontSize = DefaultFontSize
	}
	if d.Segments() < 1 || len(d.Outer) != len(d.Inner) {
		return Drawing{}, errors.New("render: development has no segments")
	}
	bb := d.Bounds()
	size := d.Size()
	// Flip y and move the top-left corner of the bounds to (Padding, Padding).
	tf := d2.Translate(r2.Vec{X: o.Padding - bb.Min.X, Y: o.Padding + bb.Max.Y}).
		Mul(d2.Scale(r2.Vec{X: 1, Y: -1}))
	toPage := tf.ApplyPos
	dr := Drawing{
		Size:     r2.Add(size, r2.Vec{X: 2 * o.Padding, Y: 2 * o.Padding}),
		FontSize: o.FontSize,
	}

	n := len(d.Inner)
	outline := make([]r2.Vec, 0, 2*n)
	for _, v := range d.Inner {
		outline = append(outline, toPage(v))
	}
	for i := n - 1; i >= 0; i-- {
		outline = append(outline, toPage(d.Outer[i]))
	}
	dr.Paths = append(dr.Paths, Path{Stroke: Cut, Points: outline, Closed: true})
	for _, g := range d.Generators()[1 : n-1] {
		dr.Paths = append(dr.Paths, Path{Stroke: Fold, Points: []r2.Vec{toPage(g[0]), toPage(g[1])}})
	}

	if d.Shape == unfold.ShapeStos {
		min := toPage(r2.Vec{X: bb.Min.X, Y: bb.Max.Y})
		max := toPage(r2.Vec{X: bb.Max.X, Y: bb.Min.Y})
		dr.Paths = append(dr.Paths, Path{
			Stroke: Guide,
			Points: []r2.Vec{min, {X: max.X, Y: min.Y}, max, {X: min.X, Y: max.Y}},
			Closed: true,
		})
	}
	if !o.Labels {
		return dr, nil
	}
	switch d.Shape {
	case unfold.ShapeStos:
		mid := r2.Scale(0.5, r2.Add(toPage(bb.Min), toPage(bb.Max)))
		top := toPage(bb.Max).Y
		dr.Labels = append(dr.Labels,
			Label{Pos: r2.Vec{X: mid.X, Y: top + 1.5*o.FontSize}, Text: mm(size.X), Tone: ToneDimension},
			Label{Pos: r2.Vec{X: toPage(bb.Max).X - 2.5*o.FontSize, Y: mid.Y}, Text: mm(size.Y), Tone: ToneDimension},
		)
	default:
		for _, l := range d.EdgeLabels() {
			tone := ToneOuter
			if l.Inner {
				tone = ToneInner
			}
			dr.Labels = append(dr.Labels, Label{Pos: toPage(l.Pos), Text: l.Text(), Tone: tone})
		}
	}
	return dr, nil
}

func mm(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// Tile returns the part of the drawing printed on page i of plan, in that
// page's coordinates. Paths are clipped to the tile, labels go to the one
// page that owns their anchor and a page number is added in the bottom margin.
func (d Drawing) Tile(plan page.Plan, i int) Drawing {
	t := plan.Tile(i)
	out := Drawing{
		Size:     plan.Layout.Size(),
		FontSize: d.FontSize,
	}
	for _, p := range d.Paths {
		for _, run := range page.ClipPolyline(p.polyline(), t.Clip) {
			for j := range run {
				run[j] = t.ToPage(run[j])
			}
			out.Paths = append(out.Paths, Path{Stroke: p.Stroke, Points: run})
		}
	}
	for _, l := range d.Labels {
		if !plan.Owns(i, l.Pos) {
			continue
		}
		l.Pos = t.ToPage(l.Pos)
		out.Labels = append(out.Labels, l)
	}
	if m := plan.Layout.Margin; m > 0 {
		out.Labels = append(out.Labels, Label{
			Pos:  r2.Vec{X: plan.Layout.Width / 2, Y: plan.Layout.Height - m/2},
			Text: fmt.Sprintf("%d/%d  r%d c%d", i+1, plan.Pages(), t.Row+1, t.Col+1),
			Tone: ToneDimension,
			Size: math.Min(d.FontSize, 0.6*m),
		})
	}
	return out
}

// Fit returns the drawing scaled onto the single page described by f.
func (d Drawing) Fit(f page.Fit) Drawing {
	out := Drawing{
		Size:     f.Layout.Size(),
		FontSize: d.FontSize * f.Scale,
		Paths:    make([]Path, len(d.Paths)),
		Labels:   make([]Label, len(d.Labels)),
	}
	for i, p := range d.Paths {
		pts := make([]r2.Vec, len(p.Points))
		for j, v := range p.Points {
			pts[j] = f.ToPage(v)
		}
		p.Points = pts
		out.Paths[i] = p
	}
	for i, l := range d.Labels {
		l.Pos = f.ToPage(l.Pos)
		l.Size *= f.Scale
		out.Labels[i] = l
	}
	return out
}
