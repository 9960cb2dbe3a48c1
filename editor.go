package ggedit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/ggedit/canvas"
	"github.com/gogpu/ggedit/event"
	"github.com/gogpu/ggedit/filter"
	"github.com/gogpu/ggedit/geom"
	"github.com/gogpu/ggedit/history"
	"github.com/gogpu/ggedit/internal/logx"
	"github.com/gogpu/ggedit/layer"
	"github.com/gogpu/ggedit/loader"
	"github.com/gogpu/ggedit/surface"
	"github.com/gogpu/ggedit/tool"
)

// Editor is the photo-editing engine. It owns the layer store, compositor,
// history, filter registry, loader and tools, and re-publishes every
// component event on its own bus.
//
// Editor is not safe for concurrent use. Drive it from one goroutine, the
// same way a gg.Context is used.
type Editor struct {
	cfg    *Config
	logger *slog.Logger
	bus    *event.Bus

	store   *layer.Store
	canvas  *canvas.Manager
	history *history.Manager
	filters *filter.Registry
	loader  *loader.Loader

	tools     *tool.Controller
	crop      *tool.Crop
	transform *tool.Transform
	brush     *tool.Brush

	subs      []*event.Subscription
	watcher   *filter.Watcher
	stopWatch context.CancelFunc
	watchDone chan struct{}

	dirty     bool
	restoring bool
	closed    bool
}

// New creates an editor with an empty document. The initial state is
// recorded as the first history entry.
func New(opts ...Option) (*Editor, error) {
	var o editorOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg := o.config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if o.width > 0 && o.height > 0 {
		c := *cfg
		c.Canvas.Width, c.Canvas.Height = o.width, o.height
		cfg = &c
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := o.logger
	if logger == nil {
		logger = Logger()
	}
	e := &Editor{
		cfg:    cfg,
		logger: logx.OrNop(logger),
		bus:    event.NewBus(),
	}

	ids := o.ids
	if ids == nil {
		ids = layer.DefaultIDGenerator()
	}
	e.store = layer.NewStore(layer.WithIDGenerator(ids), layer.WithLogger(e.logger))

	surfaces := o.surfaces
	if surfaces == nil {
		f, err := surface.Lookup(cfg.Canvas.Backend)
		if err != nil {
			return nil, fmt.Errorf("ggedit: %w", err)
		}
		surfaces = f
	}
	copts := []canvas.Option{
		canvas.WithLogger(e.logger),
		canvas.WithSurfaces(surfaces),
		canvas.WithZoomLimits(cfg.Viewport.MinZoom, cfg.Viewport.MaxZoom),
		canvas.WithFitPadding(cfg.Viewport.FitPadding),
		canvas.WithCheckerboard(cfg.checkerboard()),
	}
	if o.sched != nil {
		copts = append(copts, canvas.WithScheduler(o.sched))
	}
	if bg := canvas.ParseColor(cfg.Canvas.Background, 1); bg != nil {
		copts = append(copts, canvas.WithBackground(bg))
	}
	cm, err := canvas.New(cfg.Canvas.Width, cfg.Canvas.Height, copts...)
	if err != nil {
		return nil, fmt.Errorf("ggedit: %w", err)
	}
	e.canvas = cm

	hopts := []history.Option{
		history.WithMaxSteps(cfg.History.MaxSteps),
		history.WithLogger(e.logger),
	}
	if o.codec != nil {
		hopts = append(hopts, history.WithCodec(o.codec))
	}
	e.history = history.New(hopts...)

	e.filters = o.registry
	if e.filters == nil {
		e.filters = filter.NewRegistry(filter.WithSeed(cfg.Filters.Seed), filter.WithLogger(e.logger))
	}
	e.loader = o.loader
	if e.loader == nil {
		e.loader = loader.New(
			loader.WithMaxDimension(cfg.Loader.MaxDimension),
			loader.WithTimeout(cfg.Loader.HTTPTimeout),
			loader.WithMaxBytes(cfg.Loader.MaxBytes),
			loader.WithLogger(e.logger),
		)
	}

	toolBus := event.NewBus()
	e.tools = tool.NewController(editorHost{e}, tool.WithBus(toolBus), tool.WithLogger(e.logger))
	e.crop, e.transform, e.brush = tool.NewCrop(), tool.NewTransform(), tool.NewBrush()
	for _, t := range []tool.Tool{e.crop, e.transform, e.brush} {
		if err := e.tools.Register(t); err != nil {
			e.canvas.Close()
			return nil, fmt.Errorf("ggedit: %w", err)
		}
	}

	e.canvas.SetLayerSource(e.store.Layers)
	e.canvas.SetOverlay(e.tools)
	e.subs = append(e.subs,
		e.store.Bus().Forward(e.bus),
		e.canvas.Bus().Forward(e.bus),
		e.history.Bus().Forward(e.bus),
		toolBus.Forward(e.bus),
		e.store.Bus().Subscribe(event.Wildcard, e.onLayerEvent),
	)

	if err := e.startPresets(); err != nil {
		e.Close()
		return nil, err
	}
	e.SaveHistory("Initial state")
	return e, nil
}

// startPresets merges the configured preset file into the registry and
// starts watching it when asked to.
func (e *Editor) startPresets() error {
	path := e.cfg.Filters.PresetsFile
	if path == "" {
		return nil
	}
	if _, err := e.filters.LoadPresetsFile(path); err != nil {
		return fmt.Errorf("ggedit: %w", err)
	}
	if !e.cfg.Filters.Watch {
		return nil
	}
	w, err := filter.NewWatcher(e.filters, path, e.logger)
	if err != nil {
		return fmt.Errorf("ggedit: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.watcher, e.stopWatch, e.watchDone = w, cancel, make(chan struct{})
	go func() {
		defer close(e.watchDone)
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			e.logger.Warn("ggedit: preset watcher stopped", "err", err)
		}
	}()
	return nil
}

func (e *Editor) onLayerEvent(ev event.Event) {
	switch ev.(type) {
	case event.LayerAdded, event.LayerRemoved, event.LayerUpdated, event.LayersReordered:
		if !e.restoring {
			e.dirty = true
		}
	}
	e.canvas.QueueRender()
}

// editorHost is the view of the editor that tools work against.
type editorHost struct{ e *Editor }

func (h editorHost) Store() *layer.Store      { return h.e.store }
func (h editorHost) CanvasSize() geom.Size    { return h.e.canvas.CanvasSize() }
func (h editorHost) Zoom() float64            { return h.e.canvas.Zoom() }
func (h editorHost) SaveHistory(label string) { h.e.SaveHistory(label) }
func (h editorHost) RequestRender()           { h.e.canvas.QueueRender() }

// Bus returns the bus every editor and component event is published on.
func (e *Editor) Bus() *event.Bus { return e.bus }

// Config returns the configuration the editor was created with.
func (e *Editor) Config() Config { return *e.cfg }

// Registry returns the filter registry.
func (e *Editor) Registry() *filter.Registry { return e.filters }

// Canvas returns the compositor.
func (e *Editor) Canvas() *canvas.Manager { return e.canvas }

// IsDirty reports whether the document changed since it was loaded or
// last marked clean.
func (e *Editor) IsDirty() bool { return e.dirty }

// MarkClean clears the dirty flag, typically after the host saved.
func (e *Editor) MarkClean() { e.dirty = false }

// Close stops the preset watcher, detaches the tools and releases the
// surfaces. Further operations are no-ops or return ErrClosed.
func (e *Editor) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	var errs []error
	if e.watcher != nil {
		e.stopWatch()
		errs = append(errs, e.watcher.Close())
		<-e.watchDone
	}
	for _, s := range e.subs {
		s.Cancel()
	}
	e.tools.Close()
	errs = append(errs, e.canvas.Close())
	return errors.Join(errs...)
}

// SetTool activates the named tool. An empty name deactivates the current
// one.
func (e *Editor) SetTool(name string) error {
	if name == "" {
		e.tools.Deactivate()
		return nil
	}
	if err := e.tools.Activate(name); err != nil {
		e.logger.Warn("ggedit: unknown tool", "tool", name)
		return opError("SetTool", KindLookup, err)
	}
	return nil
}

// Tool returns the active tool's name, or "".
func (e *Editor) Tool() string { return e.tools.ActiveName() }

// Tools returns the tool controller.
func (e *Editor) Tools() *tool.Controller { return e.tools }

// CropTool returns the crop tool.
func (e *Editor) CropTool() *tool.Crop { return e.crop }

// TransformTool returns the transform tool.
func (e *Editor) TransformTool() *tool.Transform { return e.transform }

// BrushTool returns the brush tool.
func (e *Editor) BrushTool() *tool.Brush { return e.brush }

func (e *Editor) pointer(screen geom.Point, mods tool.Modifiers) tool.PointerEvent {
	return tool.PointerEvent{Screen: screen, Canvas: e.canvas.ScreenToCanvas(screen), Mods: mods}
}

// PointerDown forwards a pointer press at a container position to the
// active tool.
func (e *Editor) PointerDown(screen geom.Point, mods tool.Modifiers) {
	e.tools.PointerDown(e.pointer(screen, mods))
}

// PointerMove forwards pointer motion during an interaction.
func (e *Editor) PointerMove(screen geom.Point, mods tool.Modifiers) {
	e.tools.PointerMove(e.pointer(screen, mods))
}

// PointerUp ends the interaction.
func (e *Editor) PointerUp(screen geom.Point, mods tool.Modifiers) {
	e.tools.PointerUp(e.pointer(screen, mods))
}

// Zoom returns the viewport zoom.
func (e *Editor) Zoom() float64 { return e.canvas.Zoom() }

// SetZoom sets the zoom, clamped to the configured range.
func (e *Editor) SetZoom(z float64) { e.canvas.SetZoom(z) }

// ZoomIn multiplies the zoom by the configured step around the centre of
// the display.
func (e *Editor) ZoomIn() { e.zoomBy(e.cfg.Viewport.ZoomStep) }

// ZoomOut divides the zoom by the configured step.
func (e *Editor) ZoomOut() { e.zoomBy(1 / e.cfg.Viewport.ZoomStep) }

func (e *Editor) zoomBy(f float64) {
	vp := e.canvas.Viewport()
	centre := geom.Pt(vp.DisplaySize.Width/2, vp.DisplaySize.Height/2)
	e.canvas.SetZoomAt(vp.Zoom*f, centre)
}

// FitToView zooms and pans so the whole canvas is visible and centred.
func (e *Editor) FitToView() { e.canvas.FitToView() }

// Pan returns the viewport pan offset.
func (e *Editor) Pan() geom.Point { return e.canvas.Pan() }

// SetPan sets the pan offset.
func (e *Editor) SetPan(p geom.Point) { e.canvas.SetPan(p) }

// PanBy shifts the pan offset.
func (e *Editor) PanBy(dx, dy float64) { e.canvas.PanBy(dx, dy) }

// ScreenToCanvas maps a container position to canvas space.
func (e *Editor) ScreenToCanvas(p geom.Point) geom.Point { return e.canvas.ScreenToCanvas(p) }

// CanvasToScreen maps a canvas point to a container position.
func (e *Editor) CanvasToScreen(p geom.Point) geom.Point { return e.canvas.CanvasToScreen(p) }

// Resize sets the display container size in CSS pixels and the device
// pixel ratio.
func (e *Editor) Resize(width, height, dpr float64) error {
	if err := e.canvas.Resize(width, height, dpr); err != nil {
		return opError("Resize", KindState, err)
	}
	return nil
}

// CanvasSize returns the document size.
func (e *Editor) CanvasSize() geom.Size { return e.canvas.CanvasSize() }
