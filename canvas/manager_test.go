package canvas

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggedit/event"
	"github.com/gogpu/ggedit/geom"
	"github.com/gogpu/ggedit/layer"
	"github.com/gogpu/ggedit/surface"
)

func newTestManager(t *testing.T, w, h int, opts ...Option) (*Manager, *FrameQueue) {
	t.Helper()
	q := NewFrameQueue()
	opts = append([]Option{WithSurfaces(surface.RecorderFactory), WithScheduler(q)}, opts...)
	m, err := New(w, h, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m, q
}

func recorders(m *Manager) (composite, display *surface.Recorder) {
	return m.Composite().(*surface.Recorder), m.Display().(*surface.Recorder)
}

func shapeAt(x, y float64) *layer.Layer {
	l := layer.New(layer.KindShape)
	l.Transform.X, l.Transform.Y = x, y
	return l
}

func TestRenderSkipsHiddenAndAdjustment(t *testing.T) {
	m, _ := newTestManager(t, 200, 100)

	visible := shapeAt(100, 50)
	hidden := shapeAt(10, 10)
	hidden.Visible = false
	adjust := layer.New(layer.KindAdjustment)
	text := layer.NewText("Hi")
	text.Transform.X, text.Transform.Y = 50, 50
	layers := []*layer.Layer{visible, hidden, adjust, text}
	m.SetLayerSource(func() []*layer.Layer { return layers })

	var got event.Rendered
	event.On(m.Bus(), func(e event.Rendered) { got = e })
	m.Render()

	comp, _ := recorders(m)
	assert.Equal(t, 2, got.Layers)
	assert.Equal(t, 2, comp.Count(surface.CmdBeginGroup))
	assert.Equal(t, comp.Count(surface.CmdBeginGroup), comp.Count(surface.CmdEndGroup))
	assert.Equal(t, 0, comp.Depth())

	fills := comp.Filter(surface.CmdFillPath)
	require.Len(t, fills, 1)
	assert.Equal(t, geom.Pt(100, 50), fills[0].Matrix.TransformPoint(geom.Pt(0, 0)))
	assert.Equal(t, geom.R(-100, -100, 200, 200), fills[0].Path.Bounds())

	texts := comp.Filter(surface.CmdDrawText)
	require.Len(t, texts, 1)
	assert.Equal(t, "Hi", texts[0].Text)
}

func TestRenderGroupCarriesBlendAndOpacity(t *testing.T) {
	m, _ := newTestManager(t, 100, 100)
	l := shapeAt(50, 50)
	l.Opacity = 0.25
	l.BlendMode = layer.BlendScreen
	m.SetLayerSource(func() []*layer.Layer { return []*layer.Layer{l} })
	m.Render()

	comp, _ := recorders(m)
	g := comp.Filter(surface.CmdBeginGroup)
	require.Len(t, g, 1)
	assert.Equal(t, surface.BlendScreen, g[0].Blend)
	assert.Equal(t, 0.25, g[0].Opacity)
}

func TestRenderTextEffects(t *testing.T) {
	m, _ := newTestManager(t, 100, 100)
	l := layer.NewText("a\nbb")
	l.Text.Stroke = &layer.TextStroke{Color: "#fff", Width: 2}
	l.Text.Shadow = &layer.TextShadow{Color: "black", Blur: 3, OffsetX: 4, OffsetY: 4}
	m.SetLayerSource(func() []*layer.Layer { return []*layer.Layer{l} })
	m.Render()

	comp, _ := recorders(m)
	// Per line: one shadow, eight stroke copies and the fill.
	texts := comp.Filter(surface.CmdDrawText)
	require.Len(t, texts, 2*(1+8+1))
	assert.Equal(t, 3.0, texts[0].Style.Blur)
	assert.Equal(t, 0.0, texts[len(texts)-1].Style.Blur)
}

func TestRenderDrawingDot(t *testing.T) {
	m, _ := newTestManager(t, 100, 100)
	l := layer.NewDrawing(geom.Sz(100, 100))
	l.Drawing.Paths = []layer.Path{
		{Points: []geom.Point{{X: 10, Y: 10}}, Color: "#ff0000", Width: 4, Opacity: 1},
		{Points: []geom.Point{{X: 0, Y: 0}, {X: 50, Y: 50}, {X: 100, Y: 0}}, Color: "#00ff00", Width: 2, Opacity: 0.5},
	}
	m.SetLayerSource(func() []*layer.Layer { return []*layer.Layer{l} })
	m.Render()

	comp, _ := recorders(m)
	assert.Equal(t, 1, comp.Count(surface.CmdFillPath))
	strokes := comp.Filter(surface.CmdStrokePath)
	require.Len(t, strokes, 1)
	assert.Equal(t, color.NRGBA{G: 0xff, A: 0x80}, strokes[0].Color)
}

func TestQueueRenderCoalesces(t *testing.T) {
	m, q := newTestManager(t, 10, 10)
	m.QueueRender()
	m.QueueRender()
	m.SetZoom(2)
	assert.Equal(t, 1, q.Pending())

	q.Flush()
	assert.Equal(t, uint64(1), m.Frames())
	assert.Equal(t, 0, q.Pending())
}

func TestQueueRenderRequeuesWhileRendering(t *testing.T) {
	m, q := newTestManager(t, 10, 10)
	nested := false
	m.SetLayerSource(func() []*layer.Layer {
		if !nested {
			nested = true
			m.QueueRender()
			q.Flush() // the frame fires mid-render
		}
		return nil
	})
	m.QueueRender()
	q.Flush()
	assert.Equal(t, uint64(1), m.Frames())
	assert.Equal(t, 1, q.Pending(), "in-flight frame should re-queue")

	q.Flush()
	assert.Equal(t, uint64(2), m.Frames())
}

func TestSetZoomClampsAndPublishes(t *testing.T) {
	m, _ := newTestManager(t, 100, 100)
	var zooms []float64
	event.On(m.Bus(), func(e event.ZoomChanged) { zooms = append(zooms, e.Zoom) })

	m.SetZoom(50)
	assert.Equal(t, 10.0, m.Zoom())
	m.SetZoom(0.001)
	assert.Equal(t, 0.1, m.Zoom())
	m.SetZoom(0.1) // unchanged, no event
	assert.Equal(t, []float64{10, 0.1}, zooms)
}

func TestSetZoomAtMovesPan(t *testing.T) {
	m, _ := newTestManager(t, 100, 100)
	var pans int
	event.On(m.Bus(), func(event.PanChanged) { pans++ })

	anchor := geom.Pt(50, 50)
	before := m.ScreenToCanvas(anchor)
	m.SetZoomAt(4, anchor)
	after := m.ScreenToCanvas(anchor)

	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
	assert.Equal(t, 1, pans)
}

func TestFitToView(t *testing.T) {
	m, _ := newTestManager(t, 2000, 1000)
	require.NoError(t, m.Resize(1200, 800, 1))
	m.FitToView()

	assert.InDelta(t, 0.56, m.Zoom(), 1e-9)
	assert.InDelta(t, 40, m.Pan().X, 1e-9)
	assert.InDelta(t, 120, m.Pan().Y, 1e-9)
}

type recordingOverlay struct {
	zoom  float64
	calls int
	err   error
}

func (o *recordingOverlay) DrawOverlay(s surface.Surface, zoom float64) error {
	o.zoom = zoom
	o.calls++
	return o.err
}

func TestRenderDisplay(t *testing.T) {
	m, _ := newTestManager(t, 100, 50)
	require.NoError(t, m.Resize(300, 200, 2))
	m.SetPan(geom.Pt(10, 20))
	m.SetZoom(0.5)
	ov := &recordingOverlay{}
	m.SetOverlay(ov)
	m.Render()

	_, disp := recorders(m)
	assert.Equal(t, 600, disp.Width())
	assert.Equal(t, 0, disp.Depth())

	clips := disp.Filter(surface.CmdClipRect)
	require.Len(t, clips, 1)
	assert.Equal(t, geom.R(0, 0, 100, 50), clips[0].Rect)

	blits := disp.Filter(surface.CmdDrawImage)
	require.Len(t, blits, 1)
	assert.Equal(t, geom.R(0, 0, 100, 50), blits[0].Rect)
	assert.Equal(t, geom.Pt(20, 40), blits[0].Matrix.TransformPoint(geom.Pt(0, 0)))
	assert.Equal(t, geom.Pt(120, 40), blits[0].Matrix.TransformPoint(geom.Pt(100, 0)))

	// Light background plus one path holding every dark cell.
	assert.Equal(t, 2, disp.Count(surface.CmdFillPath))
	assert.Equal(t, 1, ov.calls)
	assert.Equal(t, 0.5, ov.zoom)
}

func TestRenderLogsOverlayError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m, _ := newTestManager(t, 40, 30, WithLogger(logger))
	ov := &recordingOverlay{err: errors.New("path rejected")}
	m.SetOverlay(ov)

	m.Render()
	assert.Equal(t, 1, ov.calls)
	assert.Contains(t, buf.String(), "canvas: overlay")
	assert.Contains(t, buf.String(), "path rejected")
}

func TestPixelAccess(t *testing.T) {
	m, _ := newTestManager(t, 20, 20)
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(1, 0, color.NRGBA{R: 9, G: 8, B: 7, A: 255})
	m.PutImageData(src, 5, 6)

	got := m.ImageData(5, 6, 2, 2)
	assert.Equal(t, color.NRGBA{R: 9, G: 8, B: 7, A: 255}, got.NRGBAAt(1, 0))
	assert.Equal(t, image.Rect(0, 0, 2, 2), got.Bounds())
}

func TestSetCanvasSize(t *testing.T) {
	m, q := newTestManager(t, 20, 20)
	require.NoError(t, m.SetCanvasSize(64, 32))
	assert.Equal(t, geom.Sz(64, 32), m.CanvasSize())
	assert.Equal(t, 64, m.Composite().Width())
	assert.Equal(t, 1, q.Pending())
	assert.Error(t, m.SetCanvasSize(0, 10))
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		opacity float64
		want    color.Color
	}{
		{"#ff0000", 1, color.NRGBA{R: 255, A: 255}},
		{"#0f08", 1, color.NRGBA{G: 255, A: 0x88}},
		{"White", 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"#000000", 0.5, color.NRGBA{A: 128}},
		{"", 1, nil},
		{"none", 1, nil},
		{"transparent", 1, nil},
	}
	for _, tt := range tests {
		if got := ParseColor(tt.in, tt.opacity); got != tt.want {
			t.Errorf("ParseColor(%q, %v) = %v, want %v", tt.in, tt.opacity, got, tt.want)
		}
	}
}
