package ggedit

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestParseConfigOverrides(t *testing.T) {
	doc := `
history:
  max_steps: 10
viewport:
  max_zoom: 8
canvas:
  backend: recorder
  width: 1024
  background: "#202020"
loader:
  http_timeout: 5s
export:
  default_format: jpg
  default_quality: 0.8
`
	cfg, err := ParseConfig(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.History.MaxSteps)
	assert.Equal(t, 8.0, cfg.Viewport.MaxZoom)
	assert.Equal(t, DefaultConfig().Viewport.MinZoom, cfg.Viewport.MinZoom, "unset keys keep defaults")
	assert.Equal(t, "recorder", cfg.Canvas.Backend)
	assert.Equal(t, 1024, cfg.Canvas.Width)
	assert.Equal(t, 600, cfg.Canvas.Height)
	assert.Equal(t, 5*time.Second, cfg.Loader.HTTPTimeout)
	assert.Equal(t, "jpg", cfg.Export.DefaultFormat)
}

func TestParseConfigEmpty(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParseConfigUnknownKey(t *testing.T) {
	_, err := ParseConfig(strings.NewReader("history:\n  max_step: 3\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"max steps", func(c *Config) { c.History.MaxSteps = 0 }},
		{"min zoom", func(c *Config) { c.Viewport.MinZoom = 0 }},
		{"zoom range", func(c *Config) { c.Viewport.MaxZoom = c.Viewport.MinZoom / 2 }},
		{"zoom step", func(c *Config) { c.Viewport.ZoomStep = 1 }},
		{"fit padding", func(c *Config) { c.Viewport.FitPadding = -1 }},
		{"canvas size", func(c *Config) { c.Canvas.Height = 0 }},
		{"checker size", func(c *Config) { c.Canvas.CheckerSize = 0 }},
		{"checker colour", func(c *Config) { c.Canvas.CheckerDark = "not-a-colour" }},
		{"background", func(c *Config) { c.Canvas.Background = "#12" }},
		{"backend", func(c *Config) { c.Canvas.Backend = "vulkan" }},
		{"max dimension", func(c *Config) { c.Loader.MaxDimension = -1 }},
		{"timeout", func(c *Config) { c.Loader.HTTPTimeout = -time.Second }},
		{"max bytes", func(c *Config) { c.Loader.MaxBytes = 0 }},
		{"watch without file", func(c *Config) { c.Filters.Watch = true }},
		{"quality", func(c *Config) { c.Export.DefaultQuality = 1.5 }},
		{"format", func(c *Config) { c.Export.DefaultFormat = "tiff" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ggedit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("canvas:\n  width: 320\n  height: 240\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Canvas.Width)
	assert.Equal(t, 240, cfg.Canvas.Height)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("history:\n  max_steps: -1\n"), 0o600))
	_, err = LoadConfig(bad)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewUsesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Canvas.Backend = "recorder"
	cfg.Canvas.Width, cfg.Canvas.Height = 64, 48

	ed, err := New(WithConfig(cfg))
	require.NoError(t, err)
	defer ed.Close()

	assert.Equal(t, 64.0, ed.CanvasSize().Width)
	assert.Equal(t, 48.0, ed.CanvasSize().Height)
	assert.Equal(t, *cfg, ed.Config())
}
