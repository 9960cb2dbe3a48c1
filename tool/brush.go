package tool

import (
	"github.com/gogpu/ggedit/canvas"
	"github.com/gogpu/ggedit/geom"
	"github.com/gogpu/ggedit/layer"
	"github.com/gogpu/ggedit/surface"
)

// Brush defaults.
const (
	DefaultBrushColor   = "#000000"
	DefaultBrushWidth   = 5
	DefaultBrushOpacity = 1
)

// Brush paints freehand strokes onto the topmost drawing layer, creating
// one when the document has none.
type Brush struct {
	host Host

	Color   string
	Width   float64
	Opacity float64

	id   string
	live []geom.Point
}

// NewBrush returns a brush with the default settings.
func NewBrush() *Brush {
	return &Brush{
		Color:   DefaultBrushColor,
		Width:   DefaultBrushWidth,
		Opacity: DefaultBrushOpacity,
	}
}

// Name implements Tool.
func (b *Brush) Name() string { return NameBrush }

// OnAttach implements Tool.
func (b *Brush) OnAttach(h Host) { b.host = h }

// OnDetach implements Tool.
func (b *Brush) OnDetach() {
	b.reset()
	b.host = nil
}

// OnActivate implements Tool.
func (b *Brush) OnActivate() {}

// OnDeactivate implements Tool. A stroke in progress is dropped.
func (b *Brush) OnDeactivate() { b.reset() }

func (b *Brush) reset() {
	b.id = ""
	b.live = nil
}

// Drawing reports whether a stroke is in progress.
func (b *Brush) Drawing() bool { return b.id != "" }

// surfaceLayer returns the drawing layer strokes go to.
func (b *Brush) surfaceLayer() *layer.Layer {
	st := b.host.Store()
	if l := st.TopmostOfKind(layer.KindDrawing); l != nil {
		return l
	}
	return st.Add(layer.NewDrawing(b.host.CanvasSize()))
}

// local maps the canvas point p into l's drawing space, where (0,0) is the
// top-left of the drawing box.
func local(l *layer.Layer, p geom.Point) (geom.Point, bool) {
	inv, ok := geom.Invert(l.Transform.Matrix())
	if !ok {
		return geom.Point{}, false
	}
	sz := l.Size()
	return inv.TransformPoint(p).Add(geom.Pt(sz.Width/2, sz.Height/2)), true
}

// OnPointerDown implements Tool.
func (b *Brush) OnPointerDown(e PointerEvent) bool {
	if b.host == nil || b.Width <= 0 {
		return false
	}
	l := b.surfaceLayer()
	if l.Locked {
		return false
	}
	p, ok := local(l, e.Canvas)
	if !ok {
		return false
	}
	b.id = l.ID
	b.live = []geom.Point{p}
	b.host.RequestRender()
	return true
}

// OnPointerMove implements Tool.
func (b *Brush) OnPointerMove(e PointerEvent) {
	l, ok := b.target()
	if !ok {
		return
	}
	p, ok := local(l, e.Canvas)
	if !ok || p == b.live[len(b.live)-1] {
		return
	}
	b.live = append(b.live, p)
	b.host.RequestRender()
}

func (b *Brush) target() (*layer.Layer, bool) {
	if b.id == "" {
		return nil, false
	}
	l, ok := b.host.Store().Get(b.id)
	if !ok {
		b.reset()
	}
	return l, ok
}

// OnPointerUp implements Tool. The stroke is committed to the drawing layer
// as one history entry.
func (b *Brush) OnPointerUp(PointerEvent) {
	if _, ok := b.target(); !ok {
		return
	}
	path := b.path()
	id := b.id
	b.reset()
	b.host.Store().Modify(id, func(l *layer.Layer) {
		if l.Drawing == nil {
			l.Drawing = &layer.DrawingContent{}
		}
		l.Drawing.Paths = append(l.Drawing.Paths, path)
	})
	b.host.SaveHistory("Brush stroke")
	b.host.RequestRender()
}

func (b *Brush) path() layer.Path {
	return layer.Path{
		Points:  append([]geom.Point(nil), b.live...),
		Color:   b.Color,
		Width:   b.Width,
		Opacity: b.Opacity,
	}
}

// DrawOverlay implements canvas.Overlay by drawing the stroke in progress
// under the drawing layer's transform.
func (b *Brush) DrawOverlay(s surface.Surface, _ float64) error {
	l, ok := b.target()
	if !ok {
		return nil
	}
	sz := l.Size()
	s.Save()
	defer s.Restore()
	s.Transform(l.Transform.Matrix())
	return canvas.DrawStroke(s, b.path(), geom.Pt(-sz.Width/2, -sz.Height/2))
}
