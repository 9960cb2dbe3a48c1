package ggedit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/ggedit/canvas"
	"github.com/gogpu/ggedit/filter"
	"github.com/gogpu/ggedit/history"
	"github.com/gogpu/ggedit/loader"
	"github.com/gogpu/ggedit/surface"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("ggedit: invalid config")

// Config holds the editor configuration. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	History  HistoryConfig  `yaml:"history"`
	Viewport ViewportConfig `yaml:"viewport"`
	Canvas   CanvasConfig   `yaml:"canvas"`
	Loader   LoaderConfig   `yaml:"loader"`
	Filters  FiltersConfig  `yaml:"filters"`
	Export   ExportConfig   `yaml:"export"`
}

// HistoryConfig configures undo/redo.
type HistoryConfig struct {
	MaxSteps int `yaml:"max_steps"`
}

// ViewportConfig configures zoom and fit behaviour.
type ViewportConfig struct {
	MinZoom    float64 `yaml:"min_zoom"`
	MaxZoom    float64 `yaml:"max_zoom"`
	ZoomStep   float64 `yaml:"zoom_step"`
	FitPadding float64 `yaml:"fit_padding"`
}

// CanvasConfig configures the document and its presentation. Colours are
// CSS names or hex strings.
type CanvasConfig struct {
	// Backend names the surface backend, see surface.Backends. Empty
	// selects the highest priority one.
	Backend      string  `yaml:"backend"`
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	CheckerSize  float64 `yaml:"checker_size"`
	CheckerLight string  `yaml:"checker_light"`
	CheckerDark  string  `yaml:"checker_dark"`
	Background   string  `yaml:"background"`
}

// LoaderConfig configures image loading.
type LoaderConfig struct {
	MaxDimension int           `yaml:"max_dimension"`
	HTTPTimeout  time.Duration `yaml:"http_timeout"`
	MaxBytes     int64         `yaml:"max_bytes"`
}

// FiltersConfig configures the filter registry.
type FiltersConfig struct {
	// PresetsFile is a YAML preset document merged over the built-ins.
	PresetsFile string `yaml:"presets_file"`
	// Seed drives the noise and grain filters.
	Seed uint64 `yaml:"seed"`
	// Watch reloads PresetsFile when it changes.
	Watch bool `yaml:"watch"`
}

// ExportConfig sets the defaults used by Export when called with an empty
// format.
type ExportConfig struct {
	DefaultFormat  string  `yaml:"default_format"`
	DefaultQuality float64 `yaml:"default_quality"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		History: HistoryConfig{MaxSteps: history.DefaultMaxSteps},
		Viewport: ViewportConfig{
			MinZoom:    canvas.DefaultMinZoom,
			MaxZoom:    canvas.DefaultMaxZoom,
			ZoomStep:   1.2,
			FitPadding: canvas.DefaultFitPadding,
		},
		Canvas: CanvasConfig{
			Width:        800,
			Height:       600,
			CheckerSize:  10,
			CheckerLight: "#ffffff",
			CheckerDark:  "#cccccc",
		},
		Loader: LoaderConfig{
			MaxDimension: loader.DefaultMaxDimension,
			HTTPTimeout:  loader.DefaultHTTPTimeout,
			MaxBytes:     loader.DefaultMaxBytes,
		},
		Filters: FiltersConfig{Seed: filter.DefaultSeed},
		Export: ExportConfig{
			DefaultFormat:  FormatPNG,
			DefaultQuality: 0.92,
		},
	}
}

// LoadConfig reads a YAML config file. Keys missing from the file keep
// their DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ggedit: read config %s: %w", path, err)
	}
	defer f.Close()
	cfg, err := ParseConfig(f)
	if err != nil {
		return nil, fmt.Errorf("ggedit: config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes a YAML config document over DefaultConfig and
// validates the result.
func ParseConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("ggedit: parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that values are in range.
func (c *Config) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
	}
	switch {
	case c.History.MaxSteps <= 0:
		return bad("history.max_steps must be > 0")
	case c.Viewport.MinZoom <= 0:
		return bad("viewport.min_zoom must be > 0")
	case c.Viewport.MaxZoom < c.Viewport.MinZoom:
		return bad("viewport.max_zoom %v is below min_zoom %v", c.Viewport.MaxZoom, c.Viewport.MinZoom)
	case c.Viewport.ZoomStep <= 1:
		return bad("viewport.zoom_step must be > 1")
	case c.Viewport.FitPadding < 0:
		return bad("viewport.fit_padding must be >= 0")
	case c.Canvas.Width <= 0 || c.Canvas.Height <= 0:
		return bad("canvas size %dx%d must be positive", c.Canvas.Width, c.Canvas.Height)
	case c.Canvas.CheckerSize <= 0:
		return bad("canvas.checker_size must be > 0")
	case c.Loader.MaxDimension < 0:
		return bad("loader.max_dimension must be >= 0")
	case c.Loader.HTTPTimeout < 0:
		return bad("loader.http_timeout must be >= 0")
	case c.Loader.MaxBytes <= 0:
		return bad("loader.max_bytes must be > 0")
	case c.Filters.Watch && c.Filters.PresetsFile == "":
		return bad("filters.watch requires filters.presets_file")
	case c.Export.DefaultQuality < 0 || c.Export.DefaultQuality > 1:
		return bad("export.default_quality %v is outside [0,1]", c.Export.DefaultQuality)
	}
	for _, col := range []struct{ key, val string }{
		{"canvas.checker_light", c.Canvas.CheckerLight},
		{"canvas.checker_dark", c.Canvas.CheckerDark},
		{"canvas.background", c.Canvas.Background},
	} {
		if !canvas.IsColor(col.val) {
			return bad("%s: unknown colour %q", col.key, col.val)
		}
	}
	if _, err := surface.Lookup(c.Canvas.Backend); err != nil {
		return bad("canvas.backend: %v", err)
	}
	if _, err := mimeOf(c.Export.DefaultFormat); err != nil {
		return bad("export.default_format: %v", err)
	}
	return nil
}

func (c *Config) checkerboard() canvas.Checkerboard {
	cb := canvas.DefaultCheckerboard
	cb.Size = c.Canvas.CheckerSize
	if col := canvas.ParseColor(c.Canvas.CheckerLight, 1); col != nil {
		cb.Light = col
	}
	if col := canvas.ParseColor(c.Canvas.CheckerDark, 1); col != nil {
		cb.Dark = col
	}
	return cb
}
