package render

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/nfnt/resize"
	"gonum.org/v1/plot/vg/vgimg"
)

// DefaultDPI is the raster resolution used when none is given.
const DefaultDPI = 150

// Rasterize paints d on a white image at dpi dots per inch.
func Rasterize(d Drawing, dpi int) (image.Image, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	if d.Size.X <= 0 || d.Size.Y <= 0 {
		return nil, errors.New("render: drawing has no area")
	}
	c := vgimg.NewWith(
		vgimg.UseWH(mmLength(d.Size.X), mmLength(d.Size.Y)),
		vgimg.UseDPI(dpi),
		vgimg.UseBackgroundColor(color.White),
	)
	drawVG(c, d)
	return c.Image(), nil
}

// WritePNG writes d to w as a PNG image at dpi dots per inch.
func WritePNG(w io.Writer, d Drawing, dpi int) error {
	img, err := Rasterize(d, dpi)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Thumbnail returns d downscaled to fit within maxWidth by maxHeight
// pixels, keeping its aspect ratio. It is rendered at dpi first.
func Thumbnail(d Drawing, maxWidth, maxHeight uint, dpi int) (image.Image, error) {
	if maxWidth == 0 || maxHeight == 0 {
		return nil, errors.New("render: thumbnail size must be positive")
	}
	img, err := Rasterize(d, dpi)
	if err != nil {
		return nil, err
	}
	return resize.Thumbnail(maxWidth, maxHeight, img, resize.Lanczos3), nil
}

// WriteThumbnail writes Thumbnail(d, ...) to w as PNG.
func WriteThumbnail(w io.Writer, d Drawing, maxWidth, maxHeight uint, dpi int) error {
	img, err := Thumbnail(d, maxWidth, maxHeight, dpi)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
