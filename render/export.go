package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/soypat/unfold"
	"github.com/soypat/unfold/page"
	"gonum.org/v1/plot/vg/vgpdf"
)

// ErrEncoderUnavailable is wrapped by CapabilityError.
var ErrEncoderUnavailable = errors.New("document encoder unavailable")

// CapabilityError reports an export attempted without the capability it needs.
type CapabilityError struct {
	Capability string
	Err        error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("render: %s: %v", e.Capability, e.Err)
}

func (e *CapabilityError) Unwrap() error { return e.Err }

// Page is one page of a tiled document.
type Page struct {
	// Index is zero based; Count is the number of pages in the document.
	Index, Count int
	// Layout is the oriented page layout.
	Layout  page.Layout
	Tile    page.Tile
	Drawing Drawing
}

// DocumentEncoder assembles a multi-page document. Pages arrive in order
// after Begin. Nothing reaches the destination before Finish.
type DocumentEncoder interface {
	Begin(l page.Layout, pages int) error
	EncodePage(ctx context.Context, p Page) error
	Finish(w io.Writer) error
}

// Exporter tiles drawings onto pages of Layout and hands them to Encoder.
type Exporter struct {
	Encoder     DocumentEncoder
	Layout      page.Layout
	Orientation page.Orientation
}

// Plan returns the page plan Export would use for d.
func (e Exporter) Plan(d Drawing) (page.Plan, error) {
	l := e.Layout
	if l == (page.Layout{}) {
		l = page.A4
	}
	return page.NewPlan(d.Size, l, e.Orientation)
}

// Export writes d to w as a tiled document. Pages are encoded one at a time
// in plan order and the first failure aborts the export with nothing
// written to w.
func (e Exporter) Export(ctx context.Context, w io.Writer, d Drawing) (page.Plan, error) {
	if e.Encoder == nil {
		return page.Plan{}, &CapabilityError{Capability: "multi-page export", Err: ErrEncoderUnavailable}
	}
	plan, err := e.Plan(d)
	if err != nil {
		return page.Plan{}, err
	}
	if err := e.Encoder.Begin(plan.Layout, plan.Pages()); err != nil {
		return plan, err
	}
	for i, t := range plan.Tiles() {
		if err := ctx.Err(); err != nil {
			return plan, err
		}
		p := Page{
			Index:   i,
			Count:   plan.Pages(),
			Layout:  plan.Layout,
			Tile:    t,
			Drawing: d.Tile(plan, i),
		}
		if err := e.Encoder.EncodePage(ctx, p); err != nil {
			return plan, fmt.Errorf("page %d/%d: %w", i+1, plan.Pages(), err)
		}
	}
	if err := e.Encoder.Finish(w); err != nil {
		return plan, err
	}
	unfold.Logger().LogAttrs(ctx, slog.LevelInfo, "exported document",
		slog.Int("pages", plan.Pages()),
		slog.Int("cols", plan.Cols),
		slog.Int("rows", plan.Rows),
		slog.String("orientation", plan.Orientation.String()),
	)
	return plan, nil
}

// PDFEncoder is a DocumentEncoder producing PDF with plot's vgpdf backend.
// A PDFEncoder may be reused after Finish.
type PDFEncoder struct {
	// EmbedFonts embeds label fonts in the document.
	EmbedFonts bool

	canvas *vgpdf.Canvas
	pages  int
}

// NewPDFEncoder returns a PDFEncoder that embeds fonts.
func NewPDFEncoder() *PDFEncoder {
	return &PDFEncoder{EmbedFonts: true}
}

func (e *PDFEncoder) Begin(l page.Layout, pages int) error {
	if err := l.Validate(); err != nil {
		return err
	}
	if pages < 1 {
		return errors.New("render: document needs at least one page")
	}
	e.canvas = vgpdf.New(mmLength(l.Width), mmLength(l.Height))
	e.canvas.EmbedFonts(e.EmbedFonts)
	e.pages = 0
	return nil
}

func (e *PDFEncoder) EncodePage(ctx context.Context, p Page) error {
	if e.canvas == nil {
		return errors.New("render: EncodePage called before Begin")
	}
	if p.Index != e.pages {
		return fmt.Errorf("render: page %d encoded out of order, want %d", p.Index, e.pages)
	}
	if e.pages > 0 {
		e.canvas.NextPage()
	}
	drawVG(e.canvas, p.Drawing)
	e.pages++
	unfold.Logger().LogAttrs(ctx, slog.LevelDebug, "encoded page",
		slog.Int("page", p.Index+1),
		slog.Int("paths", len(p.Drawing.Paths)),
	)
	return nil
}

// Finish renders the whole document to memory first so a failure leaves w untouched.
func (e *PDFEncoder) Finish(w io.Writer) error {
	if e.canvas == nil {
		return errors.New("render: Finish called before Begin")
	}
	var buf bytes.Buffer
	_, err := e.canvas.WriteTo(&buf)
	e.canvas = nil
	if err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}
