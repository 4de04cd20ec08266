// Package config provides configuration loading and access for the ribbon display.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all display configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Field     FieldConfig     `yaml:"field"`
	Ribbons   RibbonsConfig   `yaml:"ribbons"`
	Palette   PaletteConfig   `yaml:"palette"`
	Data      DataConfig      `yaml:"data"`
	Panel     PanelConfig     `yaml:"panel"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
}

// FieldConfig holds flow field generation parameters.
type FieldConfig struct {
	Spacing   int     `yaml:"spacing"`    // Cell size in pixels
	Scale     float64 `yaml:"scale"`      // Noise frequency per cell index
	Noise     string  `yaml:"noise"`      // perlin | simplex
	Seed      int64   `yaml:"seed"`       // 0 = derived from the run seed
	PhaseStep float64 `yaml:"phase_step"` // Radians added per frame
}

// RibbonsConfig holds ribbon population and kinematics parameters.
type RibbonsConfig struct {
	Count     int     `yaml:"count"`     // Target pool size
	MinLen    int     `yaml:"min_len"`   // Minimum trail length in segments
	MaxLen    int     `yaml:"max_len"`   // Maximum trail length in segments (inclusive)
	Thickness float64 `yaml:"thickness"` // Band width in pixels
	StepSize  float64 `yaml:"step_size"` // Head advance per frame in pixels
}

// PaletteConfig holds hex colors for the background, outline and the three classes.
type PaletteConfig struct {
	Background   string  `yaml:"background"`
	Outline      string  `yaml:"outline"`
	OutlineWidth float64 `yaml:"outline_width"`
	Full         string  `yaml:"full"`
	Partial      string  `yaml:"partial"`
	Manual       string  `yaml:"manual"`
}

// DataConfig holds percentage feed parameters.
type DataConfig struct {
	Source          string  `yaml:"source"`           // URL or file path of the JSON document
	RefreshInterval float64 `yaml:"refresh_interval"` // Seconds between fetches
	Timeout         float64 `yaml:"timeout"`          // Seconds allowed per fetch
	DefaultFull     float64 `yaml:"default_full"`
	DefaultPartial  float64 `yaml:"default_partial"`
}

// PanelConfig holds legend panel layout.
type PanelConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Title     string  `yaml:"title"`
	Anchor    string  `yaml:"anchor"`
	Margin    float64 `yaml:"margin"`
	Padding   float64 `yaml:"padding"`
	Swatch    float64 `yaml:"swatch"`
	TitleSize float64 `yaml:"title_size"`
	LabelSize float64 `yaml:"label_size"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"`          // Frames per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"` // Frames averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32       float32
	ScreenH32       float32
	FrameInterval   time.Duration
	RefreshInterval time.Duration
	FetchTimeout    time.Duration

	Background color.RGBA
	Outline    color.RGBA
	Full       color.RGBA
	Partial    color.RGBA
	Manual     color.RGBA
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks parameter ranges that would break the simulation.
func (c *Config) Validate() error {
	var errs []error
	if c.Field.Spacing <= 0 {
		errs = append(errs, fmt.Errorf("field.spacing must be positive, got %d", c.Field.Spacing))
	}
	switch c.Field.Noise {
	case "perlin", "simplex":
	default:
		errs = append(errs, fmt.Errorf("field.noise must be perlin or simplex, got %q", c.Field.Noise))
	}
	if c.Ribbons.Count < 0 {
		errs = append(errs, fmt.Errorf("ribbons.count must not be negative, got %d", c.Ribbons.Count))
	}
	if c.Ribbons.MinLen < 1 {
		errs = append(errs, fmt.Errorf("ribbons.min_len must be at least 1, got %d", c.Ribbons.MinLen))
	}
	if c.Ribbons.MaxLen < c.Ribbons.MinLen {
		errs = append(errs, fmt.Errorf("ribbons.max_len (%d) below min_len (%d)", c.Ribbons.MaxLen, c.Ribbons.MinLen))
	}
	if c.Ribbons.Thickness < 0 || c.Ribbons.StepSize < 0 {
		errs = append(errs, errors.New("ribbons.thickness and ribbons.step_size must not be negative"))
	}
	if c.Screen.TargetFPS <= 0 {
		errs = append(errs, fmt.Errorf("screen.target_fps must be positive, got %d", c.Screen.TargetFPS))
	}
	if c.Data.RefreshInterval <= 0 {
		errs = append(errs, fmt.Errorf("data.refresh_interval must be positive, got %g", c.Data.RefreshInterval))
	}
	if d := c.Data; d.DefaultFull < 0 || d.DefaultPartial < 0 || d.DefaultFull+d.DefaultPartial > 1 {
		errs = append(errs, fmt.Errorf("data defaults (%g, %g) are not a valid split", d.DefaultFull, d.DefaultPartial))
	}
	switch c.Panel.Anchor {
	case "top_left", "top_right", "bottom_left", "bottom_right":
	default:
		errs = append(errs, fmt.Errorf("panel.anchor must be a corner, got %q", c.Panel.Anchor))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.FrameInterval = time.Second / time.Duration(c.Screen.TargetFPS)
	c.Derived.RefreshInterval = seconds(c.Data.RefreshInterval)
	c.Derived.FetchTimeout = seconds(c.Data.Timeout)

	colors := []struct {
		name string
		hex  string
		dst  *color.RGBA
	}{
		{"palette.background", c.Palette.Background, &c.Derived.Background},
		{"palette.outline", c.Palette.Outline, &c.Derived.Outline},
		{"palette.full", c.Palette.Full, &c.Derived.Full},
		{"palette.partial", c.Palette.Partial, &c.Derived.Partial},
		{"palette.manual", c.Palette.Manual, &c.Derived.Manual},
	}
	for _, entry := range colors {
		col, err := ParseColor(entry.hex)
		if err != nil {
			return fmt.Errorf("%s: %w", entry.name, err)
		}
		*entry.dst = col
	}
	return nil
}

// ParseColor parses "#RRGGBB", "#RGB" or "#RRGGBBAA" into an RGBA color.
func ParseColor(s string) (color.RGBA, error) {
	alpha := uint8(255)
	if len(s) == 9 && strings.HasPrefix(s, "#") {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("parsing alpha of %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parsing color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: alpha}, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
