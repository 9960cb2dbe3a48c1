package ggedit

import (
	"log/slog"

	"github.com/gogpu/ggedit/canvas"
	"github.com/gogpu/ggedit/filter"
	"github.com/gogpu/ggedit/history"
	"github.com/gogpu/ggedit/layer"
	"github.com/gogpu/ggedit/loader"
	"github.com/gogpu/ggedit/surface"
)

// Option configures an Editor during creation.
//
// Example:
//
//	// Headless editor rendering into recorders, driven by a frame queue
//	q := canvas.NewFrameQueue()
//	ed, err := ggedit.New(
//	    ggedit.WithCanvasSize(1024, 768),
//	    ggedit.WithSurfaces(surface.RecorderFactory),
//	    ggedit.WithScheduler(q),
//	)
type Option func(*editorOptions)

// editorOptions holds optional configuration for Editor creation.
type editorOptions struct {
	config   *Config
	logger   *slog.Logger
	surfaces surface.Factory
	sched    canvas.FrameScheduler
	ids      layer.IDGenerator
	loader   *loader.Loader
	registry *filter.Registry
	codec    history.ImageCodec
	width    int
	height   int
}

// WithConfig sets the configuration. It is validated by New.
func WithConfig(c *Config) Option {
	return func(o *editorOptions) {
		o.config = c
	}
}

// WithLogger sets the logger for the editor and every component it
// creates. Without it the package logger (see SetLogger) is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *editorOptions) {
		o.logger = l
	}
}

// WithSurfaces sets the raster surface factory used by the compositor.
// The default rasterizes with gg.
func WithSurfaces(f surface.Factory) Option {
	return func(o *editorOptions) {
		o.surfaces = f
	}
}

// WithScheduler sets the frame scheduler that paces renders. The default
// is a canvas.FrameQueue the host flushes once per frame.
func WithScheduler(s canvas.FrameScheduler) Option {
	return func(o *editorOptions) {
		o.sched = s
	}
}

// WithIDGenerator sets the layer id source.
func WithIDGenerator(gen layer.IDGenerator) Option {
	return func(o *editorOptions) {
		o.ids = gen
	}
}

// WithLoader replaces the image loader built from the configuration.
func WithLoader(l *loader.Loader) Option {
	return func(o *editorOptions) {
		o.loader = l
	}
}

// WithRegistry replaces the filter registry built from the configuration.
func WithRegistry(r *filter.Registry) Option {
	return func(o *editorOptions) {
		o.registry = r
	}
}

// WithImageCodec sets the codec that stores image payloads in history
// snapshots. The default is lossless PNG.
func WithImageCodec(c history.ImageCodec) Option {
	return func(o *editorOptions) {
		o.codec = c
	}
}

// WithCanvasSize overrides the configured document size.
func WithCanvasSize(width, height int) Option {
	return func(o *editorOptions) {
		o.width, o.height = width, height
	}
}
