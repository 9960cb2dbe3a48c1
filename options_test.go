package ggedit

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggedit/filter"
	"github.com/gogpu/ggedit/surface"
)

func TestWithCanvasSizeKeepsConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Canvas.Backend = surface.BackendRecorder

	ed, err := New(WithConfig(cfg), WithCanvasSize(32, 16))
	require.NoError(t, err)
	defer ed.Close()

	assert.Equal(t, 32, ed.Config().Canvas.Width)
	assert.Equal(t, 800, cfg.Canvas.Width, "the caller's config is not modified")
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ed, err := New(WithLogger(logger), WithSurfaces(surface.RecorderFactory))
	require.NoError(t, err)
	defer ed.Close()

	assert.Error(t, ed.ApplyFilter("missing", filter.D(filter.Blur, 1)))
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestWithRegistryShared(t *testing.T) {
	reg := filter.NewRegistry()
	ed, err := New(WithRegistry(reg), WithSurfaces(surface.RecorderFactory))
	require.NoError(t, err)
	defer ed.Close()

	assert.Same(t, reg, ed.Registry())
}
