package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/deadsy/sdfx/sdf"
	"github.com/soypat/unfold"
	"github.com/soypat/unfold/internal/config"
	"github.com/soypat/unfold/page"
	"github.com/soypat/unfold/render"
	"github.com/soypat/unfold/solid"
)

// runJob unrolls one part, writes its requested outputs and prints a summary line.
func runJob(ctx context.Context, cfg config.Config, job config.Job, stdout io.Writer) error {
	var (
		dev     unfold.Development
		part    func(solid.Options) (sdf.SDF3, error)
		autoRot bool
		err     error
	)
	switch job.Shape {
	case "stos":
		p := job.Stos()
		dev, err = unfold.Stos(p)
		part = func(o solid.Options) (sdf.SDF3, error) { return solid.Stos(p, o) }
	case "kona":
		var p unfold.KonaParams
		p, autoRot, err = job.Kona()
		if err != nil {
			return err
		}
		part = func(o solid.Options) (sdf.SDF3, error) { return solid.Kona(p, o) }
		if !autoRot {
			dev, err = unfold.Kona(p)
			break
		}
		var best unfold.Rotation
		best, err = unfold.OptimizeRotation(unfold.KonaRotations(p), cfg.OptimizeOptions())
		dev = best.Development
	default:
		return fmt.Errorf("unknown shape %q", job.Shape)
	}
	if err != nil {
		return err
	}

	drawing, err := render.FromDevelopment(dev, cfg.RenderOptions())
	if err != nil {
		return err
	}
	layout, err := cfg.Layout()
	if err != nil {
		return err
	}
	exporter := render.Exporter{
		Encoder:     render.NewPDFEncoder(),
		Layout:      layout,
		Orientation: cfg.Orientation(),
	}
	plan, err := exporter.Plan(drawing)
	if err != nil {
		return err
	}

	out := job.Outputs
	if out.SVG != "" {
		if err := writeFile(out.SVG, func(w io.Writer) error { return render.WriteSVG(w, drawing) }); err != nil {
			return err
		}
	}
	if out.PDF != "" {
		err := writeFile(out.PDF, func(w io.Writer) error {
			_, err := exporter.Export(ctx, w, drawing)
			return err
		})
		if err != nil {
			return err
		}
	}
	if out.DXF != "" {
		if err := render.SaveDXF(out.DXF, drawing); err != nil {
			return fmt.Errorf("%s: %w", out.DXF, err)
		}
	}
	if out.PNG != "" {
		fit, err := page.FitToPage(drawing.Size, layout)
		if err != nil {
			return err
		}
		err = writeFile(out.PNG, func(w io.Writer) error {
			return render.WritePNG(w, drawing.Fit(fit), cfg.Render.DPI)
		})
		if err != nil {
			return err
		}
	}
	if out.Thumb != "" {
		n := cfg.Render.Thumbnail
		err := writeFile(out.Thumb, func(w io.Writer) error {
			return render.WriteThumbnail(w, drawing, n, n, cfg.Render.DPI)
		})
		if err != nil {
			return err
		}
	}
	if out.STL != "" || out.SolidPNG != "" {
		opts := solid.Options{Thickness: cfg.Solid.Thickness, Cells: cfg.Solid.Cells}
		s, err := part(opts)
		if err != nil {
			return err
		}
		mesh, err := solid.Mesh(s, opts)
		if err != nil {
			return err
		}
		if out.STL != "" {
			if err := writeFile(out.STL, func(w io.Writer) error { return solid.WriteSTL(w, mesh) }); err != nil {
				return err
			}
		}
		if out.SolidPNG != "" {
			err := writeFile(out.SolidPNG, func(w io.Writer) error {
				return solid.WritePreview(w, mesh, solid.DefaultView())
			})
			if err != nil {
				return err
			}
		}
	}

	size := dev.Size()
	rot := fmt.Sprintf("%g°", dev.Rotation)
	if autoRot {
		rot += " (auto)"
	}
	_, err = fmt.Fprintf(stdout, "%s: %s %.1f x %.1f mm, %d page(s) %s %s, rotation %s\n",
		job.Name, job.Shape, size.X, size.Y, plan.Pages(), layoutName(layout), plan.Orientation, rot)
	return err
}

// writeFile creates path and fills it with write. The file is removed if
// write fails so no partial output is left behind.
func writeFile(path string, write func(io.Writer) error) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	err = write(fp)
	if cerr := fp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func layoutName(l page.Layout) string {
	for _, named := range []struct {
		name string
		l    page.Layout
	}{
		{"A3", page.A3}, {"A4", page.A4}, {"A5", page.A5}, {"Letter", page.Letter}, {"Legal", page.Legal},
	} {
		if named.l.Width == l.Width && named.l.Height == l.Height {
			return named.name
		}
	}
	return fmt.Sprintf("%gx%gmm", l.Width, l.Height)
}
