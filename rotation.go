package unfold

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/soypat/unfold/page"
	"gonum.org/v1/gonum/spatial/r2"
)

// RotationFunc returns a development turned counter-clockwise by degrees.
type RotationFunc func(degrees float64) (Development, error)

// Rotator returns a RotationFunc that rotates d rigidly. Rotation is
// relative to d's current orientation.
func Rotator(d Development) RotationFunc {
	return func(degrees float64) (Development, error) {
		return d.Rotate(degrees), nil
	}
}

// Strategy selects the quantity the rotation optimizer maximises.
type Strategy int

const (
	// MaxFit maximises the scale at which the pattern fits one page.
	MaxFit Strategy = iota
	// MinWaste minimises the unused printable area among rotations that fit
	// one page at 1:1, falling back to MaxFit when none do.
	MinWaste
)

func (s Strategy) String() string {
	switch s {
	case MaxFit:
		return "fit"
	case MinWaste:
		return "waste"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy parses "fit" or "waste".
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fit", "maxfit", "":
		return MaxFit, nil
	case "waste", "minwaste":
		return MinWaste, nil
	}
	return MaxFit, fmt.Errorf("unknown rotation strategy %q", s)
}

const (
	// DefaultRotationStep is the sweep step in degrees.
	DefaultRotationStep = 1.0
	// CoarseRotationStep trades precision for a 5x faster sweep.
	CoarseRotationStep = 5.0
)

// OptimizeOptions configures OptimizeRotation. The zero value sweeps in
// DefaultRotationStep increments against page.A4 with MaxFit.
type OptimizeOptions struct {
	Step     float64
	Strategy Strategy
	Layout   page.Layout
	// Allowance is blank border in millimetres added on every side of the
	// pattern before it is measured against the page. Set it to the drawing
	// padding so Fits holds for the exported drawing.
	Allowance float64
}

// Rotation is the outcome of OptimizeRotation.
type Rotation struct {
	// Rotation is the winning angle in degrees, in [0, 180).
	Rotation float64
	// Score is the largest scale at which the rotated pattern, with its
	// allowance, fits one page.
	Score       float64
	Orientation page.Orientation
	// Fits reports whether the pattern and its allowance fit one page at 1:1
	// (Score >= 1).
	Fits bool
	// Waste is the least unused printable area over the orientations that
	// hold the pattern at 1:1, measured as (uW−w)·(uH−h). +Inf when Fits is false.
	Waste float64
	// Evaluations is the number of rotations evaluated.
	Evaluations int
	Development Development
}

type candidate struct {
	deg   float64
	dev   Development
	score float64
	orie  page.Orientation
	fits  bool
	waste float64
	// wasteOrie is the orientation leaving the least waste.
	wasteOrie page.Orientation
}

// OptimizeRotation sweeps rotations in [0°, 180°) and returns the best one.
// Rotations 0° and 90° are always evaluated so the MaxFit result is never
// worse than either. Among equal scores the smallest rotation wins.
func OptimizeRotation(gen RotationFunc, opts OptimizeOptions) (Rotation, error) {
	if gen == nil {
		return Rotation{}, errors.New("nil rotation func")
	}
	step := opts.Step
	if step == 0 {
		step = DefaultRotationStep
	}
	if !isFinite(step) || step <= 0 || step > 180 {
		return Rotation{}, fmt.Errorf("rotation step is %g, must be in (0, 180]", step)
	}
	if opts.Strategy != MaxFit && opts.Strategy != MinWaste {
		return Rotation{}, fmt.Errorf("unknown rotation strategy %d", opts.Strategy)
	}
	if !isFinite(opts.Allowance) || opts.Allowance < 0 {
		return Rotation{}, fmt.Errorf("rotation allowance is %g, must be zero or positive", opts.Allowance)
	}
	layout := opts.Layout
	if layout == (page.Layout{}) {
		layout = page.A4
	}
	if err := layout.Validate(); err != nil {
		return Rotation{}, err
	}
	usable := layout.Usable()

	var (
		bestFit, bestWaste *candidate
	)
	angles := sweepAngles(step)
	for _, deg := range angles {
		dev, err := gen(deg)
		if err != nil {
			return Rotation{}, fmt.Errorf("rotation %g: %w", deg, err)
		}
		c := evaluate(deg, dev, opts.Allowance, usable)
		if bestFit == nil || c.score > bestFit.score {
			bestFit = &c
		}
		if c.fits && (bestWaste == nil || c.waste < bestWaste.waste) {
			bestWaste = &c
		}
	}
	best, orie := bestFit, bestFit.orie
	if opts.Strategy == MinWaste && bestWaste != nil {
		best, orie = bestWaste, bestWaste.wasteOrie
	}
	Logger().LogAttrs(context.Background(), slog.LevelDebug, "rotation optimized",
		slog.String("strategy", opts.Strategy.String()),
		slog.Float64("rotation", best.deg),
		slog.Float64("score", best.score),
		slog.Bool("fits", best.fits),
		slog.Int("evaluations", len(angles)),
	)
	return Rotation{
		Rotation:    best.deg,
		Score:       best.score,
		Orientation: orie,
		Fits:        best.fits,
		Waste:       best.waste,
		Evaluations: len(angles),
		Development: best.dev,
	}, nil
}

// sweepAngles returns k·step for every k with k·step < 180, plus 90 when
// step does not land on it.
func sweepAngles(step float64) []float64 {
	var angles []float64
	has90 := false
	for i := 0; ; i++ {
		deg := float64(i) * step
		if deg >= 180 {
			break
		}
		has90 = has90 || deg == 90
		angles = append(angles, deg)
	}
	if !has90 {
		angles = append(angles, 90)
		sort.Float64s(angles)
	}
	return angles
}

func evaluate(deg float64, dev Development, allowance float64, usable r2.Vec) candidate {
	size := r2.Add(dev.Size(), r2.Vec{X: 2 * allowance, Y: 2 * allowance})
	portrait := fitScale(size, usable)
	landscape := fitScale(size, r2.Vec{X: usable.Y, Y: usable.X})
	c := candidate{deg: deg, dev: dev, score: portrait, orie: page.Portrait, waste: math.Inf(1)}
	if landscape > portrait {
		c.score, c.orie = landscape, page.Landscape
	}
	c.fits = c.score >= 1
	if portrait >= 1 {
		c.waste, c.wasteOrie = (usable.X-size.X)*(usable.Y-size.Y), page.Portrait
	}
	if landscape >= 1 {
		if w := (usable.Y - size.X) * (usable.X - size.Y); w < c.waste {
			c.waste, c.wasteOrie = w, page.Landscape
		}
	}
	return c
}

// fitScale is the largest scale at which size fits within usable.
func fitScale(size, usable r2.Vec) float64 {
	s := math.Inf(1)
	if size.X > 0 {
		s = usable.X / size.X
	}
	if size.Y > 0 {
		s = math.Min(s, usable.Y/size.Y)
	}
	return s
}
