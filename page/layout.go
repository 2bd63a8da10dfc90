// Package page splits a 1:1 drawing measured in millimetres across fixed-size
// printable pages.
//
// Drawings and pages share one convention: origin at the top-left corner,
// x to the right, y down. A Plan never scales; a drawing coordinate p lands
// on its page at Tile.ToPage(p). FitToPage is the scaled single-page
// alternative used for previews.
package page

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrInvalidLayout is wrapped by errors describing unusable page layouts.
var ErrInvalidLayout = errors.New("invalid page layout")

// Layout is a physical page with a uniform margin, in millimetres.
type Layout struct {
	Width  float64
	Height float64
	Margin float64
}

// Common paper sizes with a 5mm margin, portrait.
var (
	A3     = Layout{Width: 297, Height: 420, Margin: 5}
	A4     = Layout{Width: 210, Height: 297, Margin: 5}
	A5     = Layout{Width: 148, Height: 210, Margin: 5}
	Letter = Layout{Width: 215.9, Height: 279.4, Margin: 5}
	Legal  = Layout{Width: 215.9, Height: 355.6, Margin: 5}
)

// Named returns the layout for a paper name such as "a4" or "Letter".
func Named(name string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "a3":
		return A3, nil
	case "a4":
		return A4, nil
	case "a5":
		return A5, nil
	case "letter":
		return Letter, nil
	case "legal":
		return Legal, nil
	}
	return Layout{}, fmt.Errorf("%w: unknown paper size %q", ErrInvalidLayout, name)
}

// Validate reports whether the layout leaves a printable area.
func (l Layout) Validate() error {
	for _, v := range []float64{l.Width, l.Height, l.Margin} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite dimension in %+v", ErrInvalidLayout, l)
		}
	}
	if l.Margin < 0 {
		return fmt.Errorf("%w: margin is %g, must be zero or positive", ErrInvalidLayout, l.Margin)
	}
	u := l.Usable()
	if u.X <= 0 || u.Y <= 0 {
		return fmt.Errorf("%w: %gx%g page with %g margin has no printable area", ErrInvalidLayout, l.Width, l.Height, l.Margin)
	}
	return nil
}

// Size returns the page width and height.
func (l Layout) Size() r2.Vec {
	return r2.Vec{X: l.Width, Y: l.Height}
}

// Usable returns the printable width and height inside the margins.
func (l Layout) Usable() r2.Vec {
	return r2.Vec{X: l.Width - 2*l.Margin, Y: l.Height - 2*l.Margin}
}

// Orient returns the layout turned to o. Auto leaves it unchanged.
func (l Layout) Orient(o Orientation) Layout {
	landscape := l.Width > l.Height
	if (o == Landscape && !landscape) || (o == Portrait && landscape) {
		l.Width, l.Height = l.Height, l.Width
	}
	return l
}

// Orientation of a page.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
	// Auto picks whichever orientation needs fewer pages.
	Auto
)

func (o Orientation) String() string {
	switch o {
	case Portrait:
		return "portrait"
	case Landscape:
		return "landscape"
	case Auto:
		return "auto"
	}
	return fmt.Sprintf("orientation(%d)", int(o))
}

// ParseOrientation parses "portrait", "landscape" or "auto".
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "portrait", "p":
		return Portrait, nil
	case "landscape", "l":
		return Landscape, nil
	case "auto", "":
		return Auto, nil
	}
	return Auto, fmt.Errorf("unknown orientation %q", s)
}
