// Package config loads command line settings and batch job files with viper.
//
// Settings come from, in increasing priority: built-in defaults, a config
// file, and UNFOLD_* environment variables (UNFOLD_PAGE_SIZE=a3).
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/soypat/unfold"
	"github.com/soypat/unfold/page"
	"github.com/soypat/unfold/render"
	"github.com/spf13/viper"
)

// Setting keys.
const (
	CfgPageSize          = "page.size"
	CfgPageMargin        = "page.margin"
	CfgPageOrientation   = "page.orientation"
	CfgOptimizerStep     = "optimizer.step"
	CfgOptimizerStrategy = "optimizer.strategy"
	CfgRenderPadding     = "render.padding"
	CfgRenderFontSize    = "render.font_size"
	CfgRenderLabels      = "render.labels"
	CfgRenderDPI         = "render.dpi"
	CfgRenderThumbnail   = "render.thumbnail"
	CfgSolidCells        = "solid.cells"
	CfgSolidThickness    = "solid.thickness"
	CfgLogLevel          = "log.level"
	CfgLogFormat         = "log.format"
)

// EnvPrefix prefixes environment variable overrides.
const EnvPrefix = "UNFOLD"

type Page struct {
	Size        string  `mapstructure:"size"`
	Margin      float64 `mapstructure:"margin"`
	Orientation string  `mapstructure:"orientation"`
}

type Optimizer struct {
	Step     float64 `mapstructure:"step"`
	Strategy string  `mapstructure:"strategy"`
}

type Render struct {
	Padding   float64 `mapstructure:"padding"`
	FontSize  float64 `mapstructure:"font_size"`
	Labels    bool    `mapstructure:"labels"`
	DPI       int     `mapstructure:"dpi"`
	Thumbnail uint    `mapstructure:"thumbnail"`
}

type Solid struct {
	Cells     int     `mapstructure:"cells"`
	Thickness float64 `mapstructure:"thickness"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config is the resolved command line configuration.
type Config struct {
	Page      Page      `mapstructure:"page"`
	Optimizer Optimizer `mapstructure:"optimizer"`
	Render    Render    `mapstructure:"render"`
	Solid     Solid     `mapstructure:"solid"`
	Log       Log       `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(CfgPageSize, "a4")
	v.SetDefault(CfgPageMargin, page.A4.Margin)
	v.SetDefault(CfgPageOrientation, "auto")
	v.SetDefault(CfgOptimizerStep, unfold.DefaultRotationStep)
	v.SetDefault(CfgOptimizerStrategy, "fit")
	v.SetDefault(CfgRenderPadding, render.DefaultPadding)
	v.SetDefault(CfgRenderFontSize, render.DefaultFontSize)
	v.SetDefault(CfgRenderLabels, true)
	v.SetDefault(CfgRenderDPI, render.DefaultDPI)
	v.SetDefault(CfgRenderThumbnail, 256)
	v.SetDefault(CfgSolidCells, 120)
	v.SetDefault(CfgSolidThickness, 0.0)
	v.SetDefault(CfgLogLevel, "warn")
	v.SetDefault(CfgLogFormat, "text")
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Default returns the built-in configuration with environment overrides applied.
func Default() (Config, error) {
	return decode(newViper())
}

// Load reads the config file at path. With an empty path it looks for
// unfold.{yaml,json,toml} in the working directory and $HOME/.config/unfold
// and carries on with defaults when there is none.
func Load(path string) (Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("unfold")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/unfold")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: %w", err)
			}
		}
	}
	return decode(v)
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every setting that has a restricted set of values.
func (c Config) Validate() error {
	if _, err := c.Layout(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := page.ParseOrientation(c.Page.Orientation); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := unfold.ParseStrategy(c.Optimizer.Strategy); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Optimizer.Step <= 0 || c.Optimizer.Step > 180 {
		return fmt.Errorf("config: %s is %g, must be in (0, 180]", CfgOptimizerStep, c.Optimizer.Step)
	}
	if c.Render.Padding < 0 {
		return fmt.Errorf("config: %s is %g, must be zero or positive", CfgRenderPadding, c.Render.Padding)
	}
	if c.Render.DPI <= 0 {
		return fmt.Errorf("config: %s is %d, must be positive", CfgRenderDPI, c.Render.DPI)
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: %s is %q, want text or json", CfgLogFormat, c.Log.Format)
	}
	return nil
}

// Layout returns the named page size with the configured margin.
func (c Config) Layout() (page.Layout, error) {
	l, err := page.Named(c.Page.Size)
	if err != nil {
		return page.Layout{}, err
	}
	l.Margin = c.Page.Margin
	return l, l.Validate()
}

// Orientation returns the configured page orientation.
func (c Config) Orientation() page.Orientation {
	o, _ := page.ParseOrientation(c.Page.Orientation)
	return o
}

// OptimizeOptions returns rotation optimizer settings for the configured
// page. The render padding is the allowance, so a rotation reported as
// fitting exports to a single page.
func (c Config) OptimizeOptions() unfold.OptimizeOptions {
	s, _ := unfold.ParseStrategy(c.Optimizer.Strategy)
	l, _ := c.Layout()
	return unfold.OptimizeOptions{
		Step:      c.Optimizer.Step,
		Strategy:  s,
		Layout:    l,
		Allowance: c.Render.Padding,
	}
}

// RenderOptions returns drawing options.
func (c Config) RenderOptions() render.Options {
	return render.Options{Padding: c.Render.Padding, FontSize: c.Render.FontSize, Labels: c.Render.Labels}
}

// LogLevel parses the configured level name, such as "debug" or "warn".
func (c Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(c.Log.Level))
	return l, err
}

// NewLogger returns a logger writing to w in the configured format and level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := c.LogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
