package tool

import (
	"errors"
	"math"

	"github.com/gogpu/ggedit/geom"
	"github.com/gogpu/ggedit/layer"
	"github.com/gogpu/ggedit/surface"
)

// Transform tool tuning.
const (
	// RotateOffset is the on-screen distance of the rotate handle above the
	// top edge.
	RotateOffset = 30
	// MinScale is the smallest scale magnitude a drag can produce.
	MinScale = 0.01
	// ScaleStep is the pointer travel, in canvas units, that adds 1 to a
	// scale factor.
	ScaleStep = 100
	// RotateSnap is the rotation increment used while Shift is held.
	RotateSnap = math.Pi / 12
)

// Transform moves, rotates and scales the active layer.
type Transform struct {
	host Host

	id      string
	handle  Handle
	from    geom.Point
	start   geom.Transform
	changed bool
}

// NewTransform returns a transform tool.
func NewTransform() *Transform { return &Transform{} }

// Name implements Tool.
func (t *Transform) Name() string { return NameTransform }

// OnAttach implements Tool.
func (t *Transform) OnAttach(h Host) { t.host = h }

// OnDetach implements Tool.
func (t *Transform) OnDetach() {
	t.reset()
	t.host = nil
}

// OnActivate implements Tool.
func (t *Transform) OnActivate() { t.host.RequestRender() }

// OnDeactivate implements Tool.
func (t *Transform) OnDeactivate() {
	t.reset()
	if t.host != nil {
		t.host.RequestRender()
	}
}

func (t *Transform) reset() {
	t.id = ""
	t.handle = HandleNone
	t.changed = false
}

// target returns the active layer if it can be transformed.
func (t *Transform) target() *layer.Layer {
	if t.host == nil {
		return nil
	}
	l := t.host.Store().Active()
	if l == nil || l.Locked {
		return nil
	}
	return l
}

// rotateHandle returns the rotate handle position of l for the given zoom.
func rotateHandle(l *layer.Layer, zoom float64) geom.Point {
	b := l.Bounds()
	top := b[0].Add(b[1]).Mul(0.5)
	ctr := b[0].Add(b[2]).Mul(0.5)
	dir := top.Sub(ctr)
	if n := dir.Length(); n > 1e-9 {
		dir = dir.Div(n)
	} else {
		dir = geom.Pt(0, -1).Rotate(l.Transform.Rotation)
	}
	return top.Add(dir.Mul(RotateOffset / zoom))
}

// HitTest returns the part of the active layer under the canvas point p.
func (t *Transform) HitTest(p geom.Point) Handle {
	l := t.target()
	if l == nil {
		return HandleNone
	}
	zoom := t.host.Zoom()
	radius := HandleRadius / zoom
	if p.Distance(rotateHandle(l, zoom)) <= radius {
		return HandleRotate
	}
	if h := hitHandle(boxHandles(l.Bounds()), p, radius); h != HandleNone {
		return h
	}
	if l.Contains(p) {
		return HandleBody
	}
	return HandleNone
}

// OnPointerDown implements Tool.
func (t *Transform) OnPointerDown(e PointerEvent) bool {
	h := t.HitTest(e.Canvas)
	if h == HandleNone {
		return false
	}
	l := t.target()
	t.id = l.ID
	t.handle = h
	t.from = e.Canvas
	t.start = l.Transform
	t.changed = false
	return true
}

// OnPointerMove implements Tool.
func (t *Transform) OnPointerMove(e PointerEvent) {
	if t.id == "" {
		return
	}
	next := t.start
	switch {
	case t.handle == HandleBody:
		d := e.Canvas.Sub(t.from)
		next.X, next.Y = t.start.X+d.X, t.start.Y+d.Y
	case t.handle == HandleRotate:
		pivot := t.start.Position()
		delta := math.Remainder(geom.Angle(e.Canvas.Sub(pivot))-geom.Angle(t.from.Sub(pivot)), 2*math.Pi)
		next.Rotation = t.start.Rotation + delta
		if e.Mods.Shift {
			next.Rotation = math.Round(next.Rotation/RotateSnap) * RotateSnap
		}
	case t.handle.IsResize():
		next.ScaleX, next.ScaleY = t.scale(e.Canvas.Sub(t.from), e.Mods.Shift)
	default:
		return
	}
	if next == t.start && !t.changed {
		return
	}
	t.host.Store().Modify(t.id, func(l *layer.Layer) { l.Transform = next })
	t.changed = true
	t.host.RequestRender()
}

// scale converts the pointer travel d into new scale factors. d is rotated
// into the layer frame so dragging along a rotated edge grows that edge.
func (t *Transform) scale(d geom.Point, uniform bool) (sx, sy float64) {
	local := d.Rotate(-t.start.Rotation)
	left, top, right, bottom := t.handle.Edges()

	var dx, dy float64
	switch {
	case right:
		dx = local.X
	case left:
		dx = -local.X
	}
	switch {
	case bottom:
		dy = local.Y
	case top:
		dy = -local.Y
	}
	if uniform {
		if math.Abs(dx) >= math.Abs(dy) {
			dy = dx
		} else {
			dx = dy
		}
	}
	return minScale(t.start.ScaleX * (1 + dx/ScaleStep)), minScale(t.start.ScaleY * (1 + dy/ScaleStep))
}

// minScale keeps s away from zero, preserving its sign.
func minScale(s float64) float64 {
	if math.Abs(s) < MinScale {
		return math.Copysign(MinScale, s)
	}
	return s
}

// OnPointerUp implements Tool. A drag that changed the layer saves one
// history entry.
func (t *Transform) OnPointerUp(PointerEvent) {
	changed := t.changed
	t.reset()
	if changed {
		t.host.SaveHistory("Transform layer")
	}
}

// DrawOverlay implements canvas.Overlay: an outline of the active layer's
// box, its resize handles and the rotate handle.
func (t *Transform) DrawOverlay(s surface.Surface, zoom float64) error {
	l := t.target()
	if l == nil {
		return nil
	}
	b := l.Bounds()
	outline := surface.NewPath()
	outline.Polygon(b[:])
	top := b[0].Add(b[1]).Mul(0.5)
	rot := rotateHandle(l, zoom)
	outline.MoveTo(top.X, top.Y)
	outline.LineTo(rot.X, rot.Y)
	errOutline := s.StrokePath(outline, surface.StrokeStyle{Color: handleStroke, Width: 1 / zoom})

	hs := boxHandles(b)
	errHandles := drawHandles(s, hs[:], zoom)

	r := HandleRadius / 2 / zoom
	knob := surface.NewPath()
	knob.Ellipse(geom.R(rot.X-r, rot.Y-r, 2*r, 2*r))
	return errors.Join(
		errOutline,
		errHandles,
		s.FillPath(knob, surface.FillStyle{Color: handleFill}),
		s.StrokePath(knob, surface.StrokeStyle{Color: handleStroke, Width: 1 / zoom}),
	)
}
