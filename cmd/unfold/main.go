// Command unfold writes flat patterns for obliquely cut pipes (stos) and
// truncated cones (kona) as 1:1 SVG, tiled PDF, DXF and PNG, plus an STL
// and rendered 3D preview of the part.
//
//	unfold [-config file] [-log-level l] stos -d 100 -angle 45 -svg pipe.svg
//	unfold kona -top 50 -bottom 70 -angle 30 -rot auto -pdf flashing.pdf
//	unfold batch jobs.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/soypat/unfold"
	"github.com/soypat/unfold/internal/config"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("unfold: ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

const usage = `usage:
  unfold [-config file] [-log-level level] stos  -d D -angle A [-clearance C] [-segments N] [-full] [outputs]
  unfold [-config file] [-log-level level] kona  -top Dt -bottom Db -angle A [-extra E] [-segments N] [-full]
                                                 [-rot deg|auto] [-strategy fit|waste] [-step s] [-center] [outputs]
  unfold [-config file] [-log-level level] batch jobs.yaml
outputs: -svg f -pdf f -dxf f -png f -thumb f -stl f -solid-png f
`

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("unfold", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	var (
		configPath = global.String("config", "", "config file (yaml, json or toml)")
		logLevel   = global.String("log-level", "", "log level: debug, info, warn or error")
	)
	if err := global.Parse(args); err != nil {
		return err
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	unfold.SetLogger(cfg.NewLogger(stderr))
	defer unfold.SetLogger(nil)

	if global.NArg() == 0 {
		global.Usage()
		return errors.New("missing command")
	}
	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "stos":
		job, err := parseStos(rest, stderr)
		if err != nil {
			return err
		}
		return runJob(ctx, cfg, job, stdout)
	case "kona":
		job, err := parseKona(rest, &cfg, stderr)
		if err != nil {
			return err
		}
		return runJob(ctx, cfg, job, stdout)
	case "batch":
		if len(rest) != 1 {
			return errors.New("batch: want exactly one job file")
		}
		return runBatch(ctx, cfg, rest[0], stdout)
	}
	global.Usage()
	return fmt.Errorf("unknown command %q", cmd)
}

func outputFlags(fs *flag.FlagSet) *config.Outputs {
	var o config.Outputs
	fs.StringVar(&o.SVG, "svg", "", "write the 1:1 pattern as SVG")
	fs.StringVar(&o.PDF, "pdf", "", "write the pattern tiled over pages as PDF")
	fs.StringVar(&o.DXF, "dxf", "", "write the pattern as DXF")
	fs.StringVar(&o.PNG, "png", "", "write a single page print preview as PNG")
	fs.StringVar(&o.Thumb, "thumb", "", "write a thumbnail PNG")
	fs.StringVar(&o.STL, "stl", "", "write the 3D part as binary STL")
	fs.StringVar(&o.SolidPNG, "solid-png", "", "write a shaded 3D view of the part as PNG")
	return &o
}

func parseStos(args []string, stderr io.Writer) (config.Job, error) {
	fs := flag.NewFlagSet("stos", flag.ContinueOnError)
	fs.SetOutput(stderr)
	job := config.Job{Shape: "stos", Name: "stos"}
	fs.Float64Var(&job.Diameter, "d", 0, "pipe diameter in mm")
	fs.Float64Var(&job.Angle, "angle", 0, "cut angle in degrees, between 0 and 90")
	fs.Float64Var(&job.Clearance, "clearance", 0, "extra pipe length above the cut in mm")
	fs.IntVar(&job.Segments, "segments", unfold.DefaultStosSegments, "number of segments")
	fs.BoolVar(&job.Full, "full", false, "unroll the full circumference instead of half")
	out := outputFlags(fs)
	if err := fs.Parse(args); err != nil {
		return job, err
	}
	job.Outputs = *out
	return job, nil
}

func parseKona(args []string, cfg *config.Config, stderr io.Writer) (config.Job, error) {
	fs := flag.NewFlagSet("kona", flag.ContinueOnError)
	fs.SetOutput(stderr)
	job := config.Job{Shape: "kona", Name: "kona"}
	extra := float64(unfold.DefaultKonaExtra)
	job.Extra = &extra
	fs.Float64Var(&job.Top, "top", 0, "top diameter in mm")
	fs.Float64Var(&job.Bottom, "bottom", 0, "bottom diameter in mm")
	fs.Float64Var(&job.Angle, "angle", 0, "roof angle in degrees, between 0 and 90")
	fs.Float64Var(job.Extra, "extra", extra, "clearance above the high side of the cut in mm")
	fs.IntVar(&job.Segments, "segments", 0, "number of segments (default 6, or 12 with -full)")
	fs.BoolVar(&job.Full, "full", false, "unroll the full circumference instead of half")
	fs.StringVar(&job.Rotation, "rot", "0", "pattern rotation in degrees, or auto")
	fs.BoolVar(&job.Center, "center", false, "centre the pattern on the x axis before rotating")
	fs.StringVar(&job.Method, "method", "quadratic", "taper solve: quadratic or bisection")
	fs.StringVar(&cfg.Optimizer.Strategy, "strategy", cfg.Optimizer.Strategy, "auto rotation goal: fit or waste")
	fs.Float64Var(&cfg.Optimizer.Step, "step", cfg.Optimizer.Step, "auto rotation sweep step in degrees")
	out := outputFlags(fs)
	if err := fs.Parse(args); err != nil {
		return job, err
	}
	job.Outputs = *out
	return job, cfg.Validate()
}

func runBatch(ctx context.Context, cfg config.Config, path string, stdout io.Writer) error {
	jobs, err := config.LoadJobs(path)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := runJob(ctx, cfg, job, stdout); err != nil {
			return fmt.Errorf("job %q: %w", job.Name, err)
		}
	}
	return nil
}
