package render

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo/float"
)

// WriteSVG writes d as an SVG document whose width and height are given in
// millimetres, so it prints at 1:1.
func WriteSVG(w io.Writer, d Drawing) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.StartviewUnit(d.Size.X, d.Size.Y, "mm", 0, 0, d.Size.X, d.Size.Y)
	for _, p := range d.Paths {
		if len(p.Points) < 2 {
			continue
		}
		x := make([]float64, len(p.Points))
		y := make([]float64, len(p.Points))
		for i, v := range p.Points {
			x[i], y[i] = v.X, v.Y
		}
		style := svgStrokeStyle(p.Stroke)
		if p.Closed {
			canvas.Polygon(x, y, style)
		} else {
			canvas.Polyline(x, y, style)
		}
	}
	for _, l := range d.Labels {
		canvas.Text(l.Pos.X, l.Pos.Y, l.Text, svgTextStyle(l.Tone, l.size(d)))
	}
	canvas.End()
	return ew.err
}

func svgStrokeStyle(s Stroke) string {
	width, dash, c := strokeStyle(s)
	var b strings.Builder
	fmt.Fprintf(&b, "fill:none;stroke:%s;stroke-width:%g;stroke-linejoin:round", hexColor(c), width)
	if len(dash) > 0 {
		b.WriteString(";stroke-dasharray:")
		for i, v := range dash {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%g", v)
		}
	}
	return b.String()
}

func svgTextStyle(t Tone, size float64) string {
	return fmt.Sprintf("font-family:sans-serif;font-size:%gpx;fill:%s;text-anchor:middle;dominant-baseline:central",
		size, hexColor(toneColor(t)))
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(b []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(b)
	e.err = err
	return n, err
}
