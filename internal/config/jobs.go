package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/soypat/unfold"
	"github.com/spf13/viper"
)

// Outputs names the files a job writes. Empty names are skipped.
type Outputs struct {
	SVG      string `mapstructure:"svg"`
	PDF      string `mapstructure:"pdf"`
	DXF      string `mapstructure:"dxf"`
	PNG      string `mapstructure:"png"`
	Thumb    string `mapstructure:"thumb"`
	STL      string `mapstructure:"stl"`
	SolidPNG string `mapstructure:"solid_png"`
}

// Empty reports whether no output is requested.
func (o Outputs) Empty() bool { return o == Outputs{} }

// Job is one development in a batch file.
type Job struct {
	Name     string  `mapstructure:"name"`
	Shape    string  `mapstructure:"shape"`
	Angle    float64 `mapstructure:"angle"`
	Segments int     `mapstructure:"segments"`
	Full     bool    `mapstructure:"full"`

	// Stos.
	Diameter  float64 `mapstructure:"diameter"`
	Clearance float64 `mapstructure:"clearance"`

	// Kona.
	Top    float64  `mapstructure:"top"`
	Bottom float64  `mapstructure:"bottom"`
	Extra  *float64 `mapstructure:"extra"`
	// Rotation is a number of degrees or "auto" to run the rotation optimizer.
	Rotation string `mapstructure:"rotation"`
	Center   bool   `mapstructure:"center"`
	Method   string `mapstructure:"method"`

	Outputs Outputs `mapstructure:"outputs"`
}

func (j Job) span() unfold.Span {
	if j.Full {
		return unfold.SpanFull
	}
	return unfold.SpanHalf
}

// Stos returns the job's pipe parameters.
func (j Job) Stos() unfold.StosParams {
	return unfold.StosParams{
		Diameter:  j.Diameter,
		Angle:     j.Angle,
		Clearance: j.Clearance,
		Segments:  j.Segments,
		Span:      j.span(),
	}
}

// Kona returns the job's cone parameters. auto reports a rotation of "auto",
// in which case Rotation is left at zero.
func (j Job) Kona() (p unfold.KonaParams, auto bool, err error) {
	p = unfold.KonaParams{
		TopDiameter:    j.Top,
		BottomDiameter: j.Bottom,
		Angle:          j.Angle,
		Extra:          unfold.DefaultKonaExtra,
		Segments:       j.Segments,
		Span:           j.span(),
		Centered:       j.Center,
	}
	if j.Extra != nil {
		p.Extra = *j.Extra
	}
	p.Method, err = ParseMethod(j.Method)
	if err != nil {
		return p, false, err
	}
	p.Rotation, auto, err = ParseRotation(j.Rotation)
	return p, auto, err
}

// ParseRotation parses degrees or "auto". An empty string is zero degrees.
func ParseRotation(s string) (degrees float64, auto bool, err error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return 0, false, nil
	case "auto":
		return 0, true, nil
	}
	degrees, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("rotation %q: want degrees or auto", s)
	}
	return degrees, false, nil
}

// ParseMethod parses a cone taper method name. Empty selects the quadratic solve.
func ParseMethod(s string) (unfold.Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "quadratic":
		return unfold.MethodQuadratic, nil
	case "bisection":
		return unfold.MethodBisection, nil
	}
	return 0, fmt.Errorf("unknown taper method %q", s)
}

// LoadJobs reads a YAML, JSON or TOML batch file holding a "jobs" list.
func LoadJobs(path string) ([]Job, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("jobs %s: %w", path, err)
	}
	var jobs []Job
	if err := v.UnmarshalKey("jobs", &jobs); err != nil {
		return nil, fmt.Errorf("jobs %s: %w", path, err)
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("jobs %s: no jobs", path)
	}
	for i := range jobs {
		j := &jobs[i]
		j.Shape = strings.ToLower(strings.TrimSpace(j.Shape))
		if j.Name == "" {
			j.Name = fmt.Sprintf("%s-%d", j.Shape, i+1)
		}
		switch j.Shape {
		case "stos", "kona":
		case "":
			return nil, fmt.Errorf("jobs %s: job %q: missing shape", path, j.Name)
		default:
			return nil, fmt.Errorf("jobs %s: job %q: unknown shape %q", path, j.Name, j.Shape)
		}
	}
	return jobs, nil
}
