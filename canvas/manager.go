// Package canvas composites layers onto a raster surface and presents the
// result through a zoomable, pannable viewport.
//
// A Manager owns two surfaces. The composite surface has the document's
// pixel size and receives the layers; export and pixel access read from it.
// The display surface matches the host container at device resolution and
// shows the composite over a checkerboard, with the active tool's overlay
// on top.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	"github.com/gogpu/ggedit/event"
	"github.com/gogpu/ggedit/geom"
	"github.com/gogpu/ggedit/internal/logx"
	"github.com/gogpu/ggedit/layer"
	"github.com/gogpu/ggedit/surface"
)

// ErrClosed is returned by operations on a closed Manager.
var ErrClosed = errors.New("canvas: manager is closed")

// Overlay draws tool feedback on the display surface. The surface is set up
// in canvas coordinates; zoom lets overlays keep handles a constant size
// on screen.
type Overlay interface {
	DrawOverlay(s surface.Surface, zoom float64) error
}

// Checkerboard describes the transparency pattern behind the canvas. Size
// is the cell edge in screen pixels.
type Checkerboard struct {
	Size  float64
	Light color.Color
	Dark  color.Color
}

// DefaultCheckerboard is the pattern used when none is configured.
var DefaultCheckerboard = Checkerboard{
	Size:  10,
	Light: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	Dark:  color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff},
}

// maxCheckerCells bounds the dark cells drawn per frame.
const maxCheckerCells = 1 << 16

// Option configures a Manager.
type Option func(*Manager)

// WithBus publishes viewport and render events on b.
func WithBus(b *event.Bus) Option {
	return func(m *Manager) { m.bus = b }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithScheduler sets the frame scheduler. The default is a FrameQueue.
func WithScheduler(s FrameScheduler) Option {
	return func(m *Manager) { m.sched = s }
}

// WithSurfaces sets the factory used for both surfaces.
func WithSurfaces(f surface.Factory) Option {
	return func(m *Manager) { m.factory = f }
}

// WithZoomLimits sets the zoom range.
func WithZoomLimits(lo, hi float64) Option {
	return func(m *Manager) { m.minZoom, m.maxZoom = lo, hi }
}

// WithFitPadding sets the padding kept around the canvas by FitToView.
func WithFitPadding(p float64) Option {
	return func(m *Manager) { m.padding = p }
}

// WithCheckerboard sets the transparency pattern.
func WithCheckerboard(c Checkerboard) Option {
	return func(m *Manager) { m.checker = c }
}

// WithBackground sets the colour the display is cleared to around the
// canvas. Nil leaves it transparent.
func WithBackground(c color.Color) Option {
	return func(m *Manager) { m.background = c }
}

// Manager is the compositor. It is not safe for concurrent use.
type Manager struct {
	composite surface.Surface
	display   surface.Surface
	factory   surface.Factory

	vp      Viewport
	minZoom float64
	maxZoom float64
	padding float64

	checker    Checkerboard
	background color.Color

	source  func() []*layer.Layer
	overlay Overlay

	sched     FrameScheduler
	pending   bool
	rendering bool
	frames    uint64

	bus    *event.Bus
	logger *slog.Logger
	closed bool
}

// New creates a manager with a canvas of width x height pixels. The display
// starts with the same size at a device pixel ratio of 1.
func New(width, height int, opts ...Option) (*Manager, error) {
	m := &Manager{
		minZoom: DefaultMinZoom,
		maxZoom: DefaultMaxZoom,
		padding: DefaultFitPadding,
		checker: DefaultCheckerboard,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.factory == nil {
		m.factory = surface.GGFactory(nil)
	}
	if m.sched == nil {
		m.sched = NewFrameQueue()
	}
	if m.bus == nil {
		m.bus = event.NewBus()
	}
	m.logger = logx.OrNop(m.logger)
	if m.minZoom <= 0 || m.maxZoom < m.minZoom {
		return nil, fmt.Errorf("canvas: invalid zoom range [%v, %v]", m.minZoom, m.maxZoom)
	}
	width, height = max(width, 1), max(height, 1)

	var err error
	if m.composite, err = m.factory(width, height); err != nil {
		return nil, fmt.Errorf("canvas: composite surface: %w", err)
	}
	if m.display, err = m.factory(width, height); err != nil {
		m.composite.Close()
		return nil, fmt.Errorf("canvas: display surface: %w", err)
	}
	m.vp = Viewport{
		CanvasSize:  geom.Sz(float64(width), float64(height)),
		DisplaySize: geom.Sz(float64(width), float64(height)),
		Zoom:        1,
		DPR:         1,
	}
	return m, nil
}

// Bus returns the bus the manager publishes on.
func (m *Manager) Bus() *event.Bus { return m.bus }

// SetLayerSource sets the function Render reads the bottom-to-top layer
// list from.
func (m *Manager) SetLayerSource(fn func() []*layer.Layer) { m.source = fn }

// SetOverlay sets the overlay drawn above the canvas. Nil removes it.
func (m *Manager) SetOverlay(o Overlay) { m.overlay = o }

// Viewport returns a copy of the viewport state.
func (m *Manager) Viewport() Viewport { return m.vp }

// Zoom returns the current zoom factor.
func (m *Manager) Zoom() float64 { return m.vp.Zoom }

// Pan returns the current pan offset.
func (m *Manager) Pan() geom.Point { return m.vp.Pan }

// ZoomLimits returns the configured zoom range.
func (m *Manager) ZoomLimits() (lo, hi float64) { return m.minZoom, m.maxZoom }

// CanvasSize returns the document size in pixels.
func (m *Manager) CanvasSize() geom.Size { return m.vp.CanvasSize }

// Composite returns the composite surface.
func (m *Manager) Composite() surface.Surface { return m.composite }

// Display returns the display surface.
func (m *Manager) Display() surface.Surface { return m.display }

// Frames returns the number of completed render passes.
func (m *Manager) Frames() uint64 { return m.frames }

// SetCanvasSize resizes the composite surface and queues a render.
func (m *Manager) SetCanvasSize(width, height int) error {
	if m.closed {
		return ErrClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("canvas: invalid canvas size %dx%d", width, height)
	}
	if err := m.composite.Resize(width, height); err != nil {
		return fmt.Errorf("canvas: resize composite: %w", err)
	}
	m.vp.CanvasSize = geom.Sz(float64(width), float64(height))
	m.QueueRender()
	return nil
}

// Resize sets the container size in screen pixels and the device pixel
// ratio, resizing the display surface to match.
func (m *Manager) Resize(containerW, containerH, dpr float64) error {
	if m.closed {
		return ErrClosed
	}
	if dpr <= 0 {
		dpr = 1
	}
	w := max(int(math.Ceil(containerW*dpr)), 1)
	h := max(int(math.Ceil(containerH*dpr)), 1)
	if err := m.display.Resize(w, h); err != nil {
		return fmt.Errorf("canvas: resize display: %w", err)
	}
	m.vp.DisplaySize = geom.Sz(containerW, containerH)
	m.vp.DPR = dpr
	m.QueueRender()
	return nil
}

// SetScreenOrigin sets where the container's top-left corner lies in the
// coordinate space of pointer events.
func (m *Manager) SetScreenOrigin(p geom.Point) { m.vp.Origin = p }

// SetZoom sets the zoom, clamped to the configured range.
func (m *Manager) SetZoom(z float64) {
	m.setZoom(z, nil)
}

// SetZoomAt sets the zoom while keeping the canvas point under anchor, in
// container coordinates, fixed on screen.
func (m *Manager) SetZoomAt(z float64, anchor geom.Point) {
	m.setZoom(z, &anchor)
}

func (m *Manager) setZoom(z float64, anchor *geom.Point) {
	z = ClampZoom(z, m.minZoom, m.maxZoom)
	old := m.vp.Zoom
	if z == old {
		return
	}
	m.vp.Zoom = z
	m.bus.Publish(event.ZoomChanged{Zoom: z})
	if anchor != nil {
		m.setPan(AnchoredPan(m.vp.Pan, *anchor, old, z))
	}
	m.QueueRender()
}

// SetPan sets the pan offset in screen pixels.
func (m *Manager) SetPan(p geom.Point) {
	if m.setPan(p) {
		m.QueueRender()
	}
}

// PanBy shifts the pan offset.
func (m *Manager) PanBy(dx, dy float64) {
	m.SetPan(m.vp.Pan.Add(geom.Pt(dx, dy)))
}

func (m *Manager) setPan(p geom.Point) bool {
	if p == m.vp.Pan {
		return false
	}
	m.vp.Pan = p
	m.bus.Publish(event.PanChanged{Pan: p})
	return true
}

// FitToView zooms and pans so the whole canvas is visible and centred.
func (m *Manager) FitToView() {
	z, pan := Fit(m.vp.CanvasSize, m.vp.DisplaySize, m.padding, m.minZoom)
	z = ClampZoom(z, m.minZoom, m.maxZoom)
	if z != m.vp.Zoom {
		m.vp.Zoom = z
		m.bus.Publish(event.ZoomChanged{Zoom: z})
	}
	m.setPan(pan)
	m.QueueRender()
}

// ScreenToCanvas maps a pointer position to canvas space.
func (m *Manager) ScreenToCanvas(p geom.Point) geom.Point { return m.vp.ScreenToCanvas(p) }

// CanvasToScreen maps a canvas point to a pointer position.
func (m *Manager) CanvasToScreen(p geom.Point) geom.Point { return m.vp.CanvasToScreen(p) }

// QueueRender schedules a render on the next frame. Requests made before
// that frame runs are coalesced into one.
func (m *Manager) QueueRender() {
	if m.pending || m.closed {
		return
	}
	m.pending = true
	m.sched.RequestFrame(m.frame)
}

func (m *Manager) frame() {
	m.pending = false
	if m.rendering {
		m.QueueRender()
		return
	}
	m.Render()
}

// Render composites the layers and redraws the display immediately.
func (m *Manager) Render() {
	if m.closed {
		return
	}
	m.rendering = true
	defer func() { m.rendering = false }()

	var layers []*layer.Layer
	if m.source != nil {
		layers = m.source()
	}
	drawn := m.renderComposite(layers)
	m.renderDisplay()
	m.frames++
	m.logger.Debug("canvas: rendered", "layers", drawn, "frame", m.frames)
	m.bus.Publish(event.Rendered{Layers: drawn})
}

func (m *Manager) renderComposite(layers []*layer.Layer) int {
	c := m.composite
	c.Clear(nil)
	drawn := 0
	for _, l := range layers {
		if l == nil || !l.Visible || l.Kind == layer.KindAdjustment {
			continue
		}
		if err := drawLayer(c, l); err != nil {
			m.logger.Warn("canvas: draw layer", "id", l.ID, "kind", l.Kind, "err", err)
			continue
		}
		drawn++
	}
	return drawn
}

func (m *Manager) renderDisplay() {
	d := m.display
	d.Clear(m.background)
	d.Save()
	defer d.Restore()
	d.Scale(m.vp.DPR, m.vp.DPR)
	d.Translate(m.vp.Pan.X, m.vp.Pan.Y)
	d.Scale(m.vp.Zoom, m.vp.Zoom)

	rect := m.vp.CanvasRect()
	d.Save()
	d.ClipRect(rect)
	m.drawChecker(d, rect)
	d.Restore()

	d.DrawImage(m.composite.Snapshot(), rect, 1)
	if m.overlay != nil {
		if err := m.overlay.DrawOverlay(d, m.vp.Zoom); err != nil {
			m.logger.Debug("canvas: overlay", "err", err)
		}
	}
}

// drawChecker fills rect with the checkerboard. Cells keep their on-screen
// size regardless of zoom.
func (m *Manager) drawChecker(d surface.Surface, rect geom.Rect) {
	if m.checker.Light != nil {
		bg := surface.NewPath()
		bg.Rect(rect)
		if err := d.FillPath(bg, surface.FillStyle{Color: m.checker.Light}); err != nil {
			m.logger.Debug("canvas: checker", "err", err)
		}
	}
	if m.checker.Dark == nil || m.checker.Size <= 0 {
		return
	}
	cell := m.checker.Size / m.vp.Zoom
	cols := int(math.Ceil(rect.Width / cell))
	rows := int(math.Ceil(rect.Height / cell))
	if cols*rows/2 > maxCheckerCells {
		return
	}
	dark := surface.NewPath()
	for row := range rows {
		for col := row % 2; col < cols; col += 2 {
			dark.Rect(geom.R(rect.X+float64(col)*cell, rect.Y+float64(row)*cell, cell, cell))
		}
	}
	if err := d.FillPath(dark, surface.FillStyle{Color: m.checker.Dark}); err != nil {
		m.logger.Debug("canvas: checker", "err", err)
	}
}

// ImageData copies a region of the composite.
func (m *Manager) ImageData(x, y, w, h int) *image.NRGBA {
	return m.composite.ImageData(image.Rect(x, y, x+w, y+h))
}

// PutImageData writes img into the composite at (x, y) and presents it.
// The pixels last until the composite is next redrawn from the layers.
func (m *Manager) PutImageData(img *image.NRGBA, x, y int) {
	if img == nil || m.closed {
		return
	}
	m.composite.PutImageData(img, image.Pt(x, y))
	m.Present()
}

// Present redraws the display from the current composite without
// re-rendering the layers.
func (m *Manager) Present() {
	if m.closed || m.rendering {
		return
	}
	m.renderDisplay()
}

// Close releases both surfaces. Pending frames become no-ops.
func (m *Manager) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	return errors.Join(m.composite.Close(), m.display.Close())
}
