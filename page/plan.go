package page

import (
	"fmt"
	"math"

	"github.com/soypat/unfold/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// ceilSlack absorbs rounding so a drawing exactly n pages long needs n pages.
const ceilSlack = 1e-9

// Plan is a grid of pages covering a drawing at 1:1 scale.
type Plan struct {
	// Layout is the page layout turned to Orientation.
	Layout      Layout
	Orientation Orientation
	// Size is the drawing size in millimetres.
	Size       r2.Vec
	Cols, Rows int
}

// Tile is the part of a drawing printed on one page.
type Tile struct {
	// Index is the zero-based page index; pages are row-major.
	Index, Row, Col int
	// Offset is the drawing coordinate printed at the top-left corner of the
	// printable area.
	Offset r2.Vec
	// Clip is the drawing region printed on this page, never exceeding the drawing.
	Clip r2.Box
	// Origin is the page position of Offset, the top-left margin corner.
	Origin r2.Vec
}

// Size returns the width and height of the clipped region.
func (t Tile) Size() r2.Vec {
	return d2.Box(t.Clip).Size()
}

// ToPage maps a drawing coordinate to page coordinates on this tile's page.
func (t Tile) ToPage(p r2.Vec) r2.Vec {
	return r2.Add(r2.Sub(p, t.Offset), t.Origin)
}

// NewPlan tiles a drawing of the given size onto pages of layout l turned
// to o. Auto behaves like BestPlan.
func NewPlan(size r2.Vec, l Layout, o Orientation) (Plan, error) {
	if o == Auto {
		return BestPlan(size, l)
	}
	if err := l.Validate(); err != nil {
		return Plan{}, err
	}
	if err := validSize(size); err != nil {
		return Plan{}, err
	}
	l = l.Orient(o)
	u := l.Usable()
	return Plan{
		Layout:      l,
		Orientation: o,
		Size:        size,
		Cols:        pagesAlong(size.X, u.X),
		Rows:        pagesAlong(size.Y, u.Y),
	}, nil
}

// BestPlan returns the plan with the fewest pages, preferring portrait on ties.
func BestPlan(size r2.Vec, l Layout) (Plan, error) {
	portrait, err := NewPlan(size, l, Portrait)
	if err != nil {
		return Plan{}, err
	}
	landscape, err := NewPlan(size, l, Landscape)
	if err != nil {
		return Plan{}, err
	}
	if landscape.Pages() < portrait.Pages() {
		return landscape, nil
	}
	return portrait, nil
}

// Pages returns the number of pages in the plan.
func (p Plan) Pages() int { return p.Cols * p.Rows }

// Tile returns the i'th tile in print order.
func (p Plan) Tile(i int) Tile {
	if i < 0 || i >= p.Pages() {
		panic(fmt.Sprintf("page: tile index %d out of range [0,%d)", i, p.Pages()))
	}
	u := p.Layout.Usable()
	row, col := i/p.Cols, i%p.Cols
	off := r2.Vec{X: float64(col) * u.X, Y: float64(row) * u.Y}
	return Tile{
		Index:  i,
		Row:    row,
		Col:    col,
		Offset: off,
		Clip:   r2.Box(d2.Box{Min: off, Max: r2.Add(off, u)}.Intersect(d2.Box{Max: p.Size})),
		Origin: r2.Vec{X: p.Layout.Margin, Y: p.Layout.Margin},
	}
}

// Owns reports whether drawing point v is printed on tile i. Tiles are
// half-open on their right and bottom edges except along the last column
// and row, so every point of the drawing has exactly one owner.
func (p Plan) Owns(i int, v r2.Vec) bool {
	t := p.Tile(i)
	clip := d2.Box(t.Clip)
	if !clip.Contains(v) {
		return false
	}
	if v.X == clip.Max.X && t.Col < p.Cols-1 {
		return false
	}
	return v.Y != clip.Max.Y || t.Row == p.Rows-1
}

// Tiles returns every tile in print order: rows top to bottom, columns left
// to right within a row.
func (p Plan) Tiles() []Tile {
	tiles := make([]Tile, p.Pages())
	for i := range tiles {
		tiles[i] = p.Tile(i)
	}
	return tiles
}

func pagesAlong(length, usable float64) int {
	n := int(math.Ceil(length/usable - ceilSlack))
	if n < 1 {
		return 1
	}
	return n
}

func validSize(size r2.Vec) error {
	if !d2.IsFinite(size) || size.X < 0 || size.Y < 0 {
		return fmt.Errorf("page: drawing size %gx%g must be finite and non-negative", size.X, size.Y)
	}
	return nil
}
