package tool

import (
	"errors"
	"image/color"
	"math"

	"github.com/gogpu/ggedit/geom"
	"github.com/gogpu/ggedit/surface"
)

// Crop defaults.
const (
	// CropInset is the fraction of the canvas trimmed from each side of the
	// initial crop rectangle.
	CropInset = 0.1
	// CropMinSize is the smallest width or height a resize can produce.
	CropMinSize = 20
	// HandleRadius is the hit radius of a handle in screen pixels.
	HandleRadius = 8
)

var cropShade = color.NRGBA{A: 0x80}

// Crop selects a rectangle of the canvas. Moving and resizing keep the
// rectangle inside the canvas; Apply hands it to the caller.
type Crop struct {
	host Host

	rect    geom.Rect
	started bool
	aspect  float64

	handle    Handle
	from      geom.Point
	startRect geom.Rect
}

// NewCrop returns a crop tool.
func NewCrop() *Crop { return &Crop{} }

// Name implements Tool.
func (c *Crop) Name() string { return NameCrop }

// OnAttach implements Tool.
func (c *Crop) OnAttach(h Host) { c.host = h }

// OnDetach implements Tool.
func (c *Crop) OnDetach() {
	c.Cancel()
	c.host = nil
}

// OnActivate implements Tool.
func (c *Crop) OnActivate() { c.Start() }

// OnDeactivate implements Tool.
func (c *Crop) OnDeactivate() { c.Cancel() }

func (c *Crop) bounds() geom.Rect {
	sz := c.host.CanvasSize()
	return geom.R(0, 0, sz.Width, sz.Height)
}

// Start resets the rectangle to the canvas inset by CropInset on every
// side, adjusted to the locked aspect ratio if one is set.
func (c *Crop) Start() {
	if c.host == nil {
		return
	}
	b := c.bounds()
	c.rect = b.Inset(b.Width*CropInset, b.Height*CropInset)
	c.started = true
	if c.aspect > 0 {
		c.rect = c.fitAspect(c.rect)
	}
	c.host.RequestRender()
}

// Started reports whether a crop is in progress.
func (c *Crop) Started() bool { return c.started }

// Rect returns the current rectangle.
func (c *Crop) Rect() geom.Rect { return c.rect }

// SetRect replaces the rectangle, clamped to the canvas.
func (c *Crop) SetRect(r geom.Rect) {
	if c.host == nil {
		return
	}
	r.Width = max(r.Width, CropMinSize)
	r.Height = max(r.Height, CropMinSize)
	c.rect = r.ClampInto(c.bounds())
	c.started = true
	c.host.RequestRender()
}

// AspectRatio returns the locked width/height ratio, or 0 when free.
func (c *Crop) AspectRatio() float64 { return c.aspect }

// SetAspectRatio locks the rectangle to width/height = ratio. Zero or a
// negative ratio unlocks it. The current rectangle is adjusted around its
// centre.
func (c *Crop) SetAspectRatio(ratio float64) {
	c.aspect = max(ratio, 0)
	if c.started && c.aspect > 0 {
		c.rect = c.fitAspect(c.rect)
		c.host.RequestRender()
	}
}

// fitAspect shrinks r around its centre to the locked ratio and keeps it in
// the canvas.
func (c *Crop) fitAspect(r geom.Rect) geom.Rect {
	ctr := r.Center()
	w, h := r.Width, r.Height
	if w/h > c.aspect {
		w = h * c.aspect
	} else {
		h = w / c.aspect
	}
	return geom.R(ctr.X-w/2, ctr.Y-h/2, w, h).ClampInto(c.bounds())
}

// HitTest returns the handle under the canvas point p. Handles take
// precedence over the body.
func (c *Crop) HitTest(p geom.Point) Handle {
	if !c.started {
		return HandleNone
	}
	radius := HandleRadius / c.host.Zoom()
	if h := hitHandle(boxHandles(rectCorners(c.rect)), p, radius); h != HandleNone {
		return h
	}
	if c.rect.Contains(p) {
		return HandleBody
	}
	return HandleNone
}

// OnPointerDown implements Tool.
func (c *Crop) OnPointerDown(e PointerEvent) bool {
	if c.host == nil {
		return false
	}
	if !c.started {
		c.Start()
	}
	c.handle = c.HitTest(e.Canvas)
	if c.handle == HandleNone {
		return false
	}
	c.from = e.Canvas
	c.startRect = c.rect
	return true
}

// OnPointerMove implements Tool.
func (c *Crop) OnPointerMove(e PointerEvent) {
	d := e.Canvas.Sub(c.from)
	switch {
	case c.handle == HandleBody:
		r := c.startRect
		r.X += d.X
		r.Y += d.Y
		c.rect = r.ClampInto(c.bounds())
	case c.handle.IsResize():
		c.rect = c.resize(d)
	default:
		return
	}
	c.host.RequestRender()
}

// resize drags the handle's edges by d, enforcing the minimum size, the
// locked aspect ratio and the canvas bounds.
func (c *Crop) resize(d geom.Point) geom.Rect {
	b := c.bounds()
	left, top, right, bottom := c.handle.Edges()
	x0, y0 := c.startRect.X, c.startRect.Y
	x1, y1 := c.startRect.Right(), c.startRect.Bottom()

	if left {
		x0 = math.Min(math.Max(x0+d.X, b.X), x1-CropMinSize)
	}
	if right {
		x1 = math.Max(math.Min(x1+d.X, b.Right()), x0+CropMinSize)
	}
	if top {
		y0 = math.Min(math.Max(y0+d.Y, b.Y), y1-CropMinSize)
	}
	if bottom {
		y1 = math.Max(math.Min(y1+d.Y, b.Bottom()), y0+CropMinSize)
	}

	if c.aspect > 0 {
		w, h := x1-x0, y1-y0
		horizontal := left || right
		vertical := top || bottom
		switch {
		case horizontal && !vertical:
			h = w / c.aspect
		case vertical && !horizontal:
			w = h * c.aspect
		case w/h > c.aspect:
			h = w / c.aspect
		default:
			w = h * c.aspect
		}
		// Grow from the edge opposite the dragged handle.
		if left {
			x0 = x1 - w
		} else {
			x1 = x0 + w
		}
		if top {
			y0 = y1 - h
		} else {
			y1 = y0 + h
		}
		if !horizontal {
			ctr := (c.startRect.X + c.startRect.Right()) / 2
			x0, x1 = ctr-w/2, ctr+w/2
		}
		if !vertical {
			ctr := (c.startRect.Y + c.startRect.Bottom()) / 2
			y0, y1 = ctr-h/2, ctr+h/2
		}
		r := geom.R(x0, y0, x1-x0, y1-y0)
		if r.X < b.X || r.Y < b.Y || r.Right() > b.Right() || r.Bottom() > b.Bottom() {
			return c.fitAspect(r)
		}
		return r
	}
	return geom.R(x0, y0, x1-x0, y1-y0)
}

// OnPointerUp implements Tool.
func (c *Crop) OnPointerUp(PointerEvent) {
	c.handle = HandleNone
}

// Apply ends the crop and returns the rectangle clamped to the canvas and
// rounded to whole pixels. It returns false when no crop is in progress.
func (c *Crop) Apply() (geom.Rect, bool) {
	if !c.started || c.host == nil {
		return geom.Rect{}, false
	}
	r := c.rect.ClampInto(c.bounds())
	x0, y0 := math.Round(r.X), math.Round(r.Y)
	r = geom.R(x0, y0, math.Round(r.Right())-x0, math.Round(r.Bottom())-y0)
	c.started = false
	c.handle = HandleNone
	c.host.RequestRender()
	if r.Width < 1 || r.Height < 1 {
		return geom.Rect{}, false
	}
	return r, true
}

// Cancel ends the crop without applying it.
func (c *Crop) Cancel() {
	if !c.started {
		return
	}
	c.started = false
	c.handle = HandleNone
	if c.host != nil {
		c.host.RequestRender()
	}
}

// DrawOverlay implements canvas.Overlay: the canvas outside the rectangle
// is shaded, the rectangle outlined with rule-of-thirds guides, and the
// handles drawn on top.
func (c *Crop) DrawOverlay(s surface.Surface, zoom float64) error {
	if !c.started || c.host == nil {
		return nil
	}
	b, r := c.bounds(), c.rect

	shade := surface.NewPath()
	shade.Rect(geom.R(b.X, b.Y, b.Width, r.Y-b.Y))
	shade.Rect(geom.R(b.X, r.Bottom(), b.Width, b.Bottom()-r.Bottom()))
	shade.Rect(geom.R(b.X, r.Y, r.X-b.X, r.Height))
	shade.Rect(geom.R(r.Right(), r.Y, b.Right()-r.Right(), r.Height))
	errShade := s.FillPath(shade, surface.FillStyle{Color: cropShade})

	outline := surface.NewPath()
	outline.Rect(r)
	errOutline := s.StrokePath(outline, surface.StrokeStyle{Color: handleFill, Width: 1.5 / zoom})

	guides := surface.NewPath()
	for i := 1; i <= 2; i++ {
		x := r.X + r.Width*float64(i)/3
		y := r.Y + r.Height*float64(i)/3
		guides.MoveTo(x, r.Y)
		guides.LineTo(x, r.Bottom())
		guides.MoveTo(r.X, y)
		guides.LineTo(r.Right(), y)
	}
	errGuides := s.StrokePath(guides, surface.StrokeStyle{
		Color: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x80},
		Width: 1 / zoom,
		Dash:  []float64{4 / zoom, 4 / zoom},
	})

	hs := boxHandles(rectCorners(r))
	return errors.Join(errShade, errOutline, errGuides, drawHandles(s, hs[:], zoom))
}
