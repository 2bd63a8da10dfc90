package render

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/vg"
)

var (
	fontsOnce sync.Once
	fonts     *font.Cache
)

// labelFont is the typeface used for labels in PDF and raster output.
var labelFont = font.Font{Typeface: "Liberation", Variant: "Sans"}

func fontCache() *font.Cache {
	fontsOnce.Do(func() {
		fonts = font.NewCache(liberation.Collection())
	})
	return fonts
}

// drawVG paints d onto c. c spans exactly d.Size; vg puts the origin at the
// bottom-left so the page's y axis is flipped here.
func drawVG(c vg.Canvas, d Drawing) {
	pt := func(v r2.Vec) vg.Point {
		return vg.Point{X: mmLength(v.X), Y: mmLength(d.Size.Y - v.Y)}
	}
	for _, p := range d.Paths {
		if len(p.Points) < 2 {
			continue
		}
		width, dash, col := strokeStyle(p.Stroke)
		c.SetLineWidth(mmLength(width))
		c.SetColor(col)
		var dashes []vg.Length
		for _, v := range dash {
			dashes = append(dashes, mmLength(v))
		}
		c.SetLineDash(dashes, 0)
		var path vg.Path
		path.Move(pt(p.Points[0]))
		for _, v := range p.Points[1:] {
			path.Line(pt(v))
		}
		if p.Closed {
			path.Close()
		}
		c.Stroke(path)
	}
	cache := fontCache()
	for _, l := range d.Labels {
		face := cache.Lookup(labelFont, mmLength(l.size(d)))
		c.SetColor(toneColor(l.Tone))
		at := pt(l.Pos)
		at.X -= face.Width(l.Text) / 2
		// Centre vertically on the x-height.
		at.Y -= mmLength(l.size(d)) * 0.35
		c.FillString(face, at, l.Text)
	}
}

func mmLength(v float64) vg.Length {
	return vg.Length(v) * vg.Millimeter
}
