package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/forcebubble/internal/bubble"
)

const (
	DefaultWidth       = 960.0
	DefaultHeight      = 600.0
	DefaultStrength    = 0.2
	DefaultScale       = 0.005
	DefaultPadding     = 1.0
	DefaultPackPadding = 1.5
	DefaultIterations  = 4
	DefaultMagnify     = 3.0
	DefaultDurationMs  = 2000
	DefaultThreshold   = 500000
	DefaultLowTag      = "less"
	DefaultHighTag     = "more"
	DefaultFlagDir     = "img"
	DefaultSeed        = 1
)

// MinPadding is the smallest collide padding per entity that keeps resting
// pairs more than one unit apart.
const MinPadding = 0.75

// Config holds every tunable of a visualisation. The year range has no
// default and must be set before a session starts.
type Config struct {
	StartYear *int `yaml:"start_year,omitempty" toml:"start_year,omitempty"`
	EndYear   *int `yaml:"end_year,omitempty" toml:"end_year,omitempty"`

	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`

	// Strength of the centering forces.
	Strength float64 `yaml:"strength" toml:"strength"`
	// Scale is k in radius = sqrt(value) * k.
	Scale float64 `yaml:"scale" toml:"scale"`
	// Padding is added to each radius for collisions.
	Padding float64 `yaml:"padding" toml:"padding"`
	// Iterations of collision resolution per tick.
	Iterations  int     `yaml:"collide_iterations" toml:"collide_iterations"`
	PackPadding float64 `yaml:"pack_padding" toml:"pack_padding"`
	Magnify     float64 `yaml:"magnify" toml:"magnify"`
	DurationMs  int     `yaml:"duration_ms" toml:"duration_ms"`

	Constrained bool    `yaml:"constrained" toml:"constrained"`
	Threshold   float64 `yaml:"threshold" toml:"threshold"`

	Legend    LegendConfig      `yaml:"legend" toml:"legend"`
	FlagDir   string            `yaml:"flag_dir" toml:"flag_dir"`
	Resources map[string]string `yaml:"resources,omitempty" toml:"resources,omitempty"`
	Seed      int64             `yaml:"seed" toml:"seed"`
}

type LegendConfig struct {
	Low  string `yaml:"low" toml:"low"`
	High string `yaml:"high" toml:"high"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Strength:    DefaultStrength,
		Scale:       DefaultScale,
		Padding:     DefaultPadding,
		Iterations:  DefaultIterations,
		PackPadding: DefaultPackPadding,
		Magnify:     DefaultMagnify,
		DurationMs:  DefaultDurationMs,
		Threshold:   DefaultThreshold,
		Legend:      LegendConfig{Low: DefaultLowTag, High: DefaultHighTag},
		FlagDir:     DefaultFlagDir,
		Seed:        DefaultSeed,
	}
}

// SetYearRange sets the inclusive range of years shown.
func (c *Config) SetYearRange(start, end int) {
	c.StartYear, c.EndYear = &start, &end
}

// YearRange returns the configured range, or ErrNotConfigured if either end
// is unset.
func (c *Config) YearRange() (bubble.YearRange, error) {
	if c.StartYear == nil || c.EndYear == nil {
		return bubble.YearRange{}, bubble.ErrNotConfigured
	}
	yr := bubble.YearRange{Start: *c.StartYear, End: *c.EndYear}
	if err := yr.Valid(); err != nil {
		return bubble.YearRange{}, fmt.Errorf("%d-%d: %w", yr.Start, yr.End, err)
	}
	return yr, nil
}

// SetLegendTags sets the legend labels; empty strings keep the defaults.
func (c *Config) SetLegendTags(low, high string) {
	if low == "" {
		low = DefaultLowTag
	}
	if high == "" {
		high = DefaultHighTag
	}
	c.Legend = LegendConfig{Low: low, High: high}
}

func (c *Config) Duration() time.Duration {
	return time.Duration(c.DurationMs) * time.Millisecond
}

// Validate checks the year range and that sizes are usable.
func (c *Config) Validate() error {
	if _, err := c.YearRange(); err != nil {
		return err
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("size must be positive, got %gx%g", c.Width, c.Height)
	}
	if c.Padding < MinPadding {
		return fmt.Errorf("padding must be at least %g, got %g", MinPadding, c.Padding)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("collide iterations must be at least 1, got %d", c.Iterations)
	}
	if c.Scale < 0 {
		return fmt.Errorf("scale must not be negative, got %g", c.Scale)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a yaml or toml (by extension) file over the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto decodes a yaml or toml file over cfg. Keys absent from the file
// keep their current values.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if isTOML(path) {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	cfg.SetLegendTags(cfg.Legend.Low, cfg.Legend.High)
	return nil
}

func Save(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	format := "yaml"
	if isTOML(path) {
		format = "toml"
	}
	return Encode(f, cfg, format)
}

// Encode writes cfg to w as "yaml" or "toml".
func Encode(w io.Writer, cfg *Config, format string) error {
	switch format {
	case "toml":
		return toml.NewEncoder(w).Encode(cfg)
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown config format %q", format)
	}
}
