package render

import (
	"image/color"
)

// Line widths and dash patterns in millimetres.
var strokeStyles = [...]struct {
	width float64
	dash  []float64
	color color.NRGBA
}{
	Cut:   {width: 0.3, color: color.NRGBA{A: 255}},
	Fold:  {width: 0.2, dash: []float64{2, 1}, color: color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 255}},
	Guide: {width: 0.15, dash: []float64{1, 1}, color: color.NRGBA{R: 0xAA, G: 0xAA, B: 0xAA, A: 255}},
}

var toneColors = [...]color.NRGBA{
	ToneInner:     {R: 0x1F, G: 0x4F, B: 0xD1, A: 255},
	ToneOuter:     {R: 0xC8, G: 0x1E, B: 0x1E, A: 255},
	ToneDimension: {A: 255},
}

func strokeStyle(s Stroke) (width float64, dash []float64, c color.NRGBA) {
	if int(s) < 0 || int(s) >= len(strokeStyles) {
		s = Guide
	}
	st := strokeStyles[s]
	return st.width, st.dash, st.color
}

func toneColor(t Tone) color.NRGBA {
	if int(t) < 0 || int(t) >= len(toneColors) {
		t = ToneDimension
	}
	return toneColors[t]
}
