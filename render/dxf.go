package render

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/table"
)

// DXF layer names.
const (
	LayerCut   = "CUT"
	LayerFold  = "FOLD"
	LayerGuide = "GUIDE"
	LayerLabel = "LABEL"
)

var dxfLayers = [...]struct {
	name  string
	color color.ColorNumber
	lt    *table.LineType
}{
	Cut:   {LayerCut, color.White, table.LT_CONTINUOUS},
	Fold:  {LayerFold, color.Red, table.LT_HIDDEN},
	Guide: {LayerGuide, color.Cyan, table.LT_HIDDEN},
}

// SaveDXF writes d to path as a DXF cutting template in millimetres. CAD
// space has y up, so the page's y axis is flipped back. Labels go on their
// own layer so cutters can hide them.
func SaveDXF(path string, d Drawing) error {
	dw := dxf.NewDrawing()
	for _, l := range dxfLayers {
		if _, err := dw.AddLayer(l.name, l.color, l.lt, false); err != nil {
			return fmt.Errorf("dxf layer %s: %w", l.name, err)
		}
	}
	if _, err := dw.AddLayer(LayerLabel, color.Blue, table.LT_CONTINUOUS, false); err != nil {
		return fmt.Errorf("dxf layer %s: %w", LayerLabel, err)
	}
	flip := func(y float64) float64 { return d.Size.Y - y }
	for _, p := range d.Paths {
		s := p.Stroke
		if int(s) < 0 || int(s) >= len(dxfLayers) {
			s = Guide
		}
		if err := dw.ChangeLayer(dxfLayers[s].name); err != nil {
			return err
		}
		pts := p.polyline()
		for i := 0; i+1 < len(pts); i++ {
			a, b := pts[i], pts[i+1]
			if _, err := dw.Line(a.X, flip(a.Y), 0, b.X, flip(b.Y), 0); err != nil {
				return err
			}
		}
	}
	if err := dw.ChangeLayer(LayerLabel); err != nil {
		return err
	}
	for _, l := range d.Labels {
		size := l.size(d)
		// DXF text is anchored at its lower-left corner.
		x := l.Pos.X - 0.3*size*float64(len(l.Text))
		y := flip(l.Pos.Y) - 0.5*size
		if _, err := dw.Text(l.Text, x, y, 0, size); err != nil {
			return err
		}
	}
	return dw.SaveAs(path)
}
