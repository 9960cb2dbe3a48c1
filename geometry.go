package ggedit

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/transform"

	"github.com/gogpu/ggedit/geom"
	"github.com/gogpu/ggedit/internal/imgconv"
	"github.com/gogpu/ggedit/layer"
	"github.com/gogpu/ggedit/tool"
)

// axisAligned reports whether l has no rotation or skew.
func axisAligned(l *layer.Layer) bool {
	t := l.Transform
	return t.Rotation == 0 && t.SkewX == 0 && t.SkewY == 0
}

func isWhole(v float64) bool { return v == math.Trunc(v) }

// ApplyCrop commits the crop tool's rectangle: the canvas takes its size
// and every layer shifts so the rectangle's corner becomes the origin.
// Unscaled, axis-aligned image layers on whole pixel positions also have
// their pixels trimmed to the new canvas.
func (e *Editor) ApplyCrop() error {
	const op = "ApplyCrop"
	r, ok := e.crop.Apply()
	if !ok {
		return opError(op, KindState, ErrNoCrop)
	}
	w, h := int(r.Width), int(r.Height)
	if err := e.canvas.SetCanvasSize(w, h); err != nil {
		return opError(op, KindState, err)
	}
	for _, id := range e.store.Order() {
		e.store.Modify(id, func(l *layer.Layer) {
			l.Transform.X -= r.X
			l.Transform.Y -= r.Y
			e.trimPixels(l, geom.R(0, 0, r.Width, r.Height))
		})
	}
	if e.tools.ActiveName() == tool.NameCrop {
		e.tools.Deactivate()
	}
	e.canvas.FitToView()
	e.SaveHistory("Crop")
	return nil
}

// trimPixels cuts the part of an image layer outside bounds away from its
// original pixels and re-derives the filtered source.
func (e *Editor) trimPixels(l *layer.Layer, bounds geom.Rect) {
	if l.Image == nil || l.Image.Original == nil || !axisAligned(l) ||
		l.Transform.ScaleX != 1 || l.Transform.ScaleY != 1 {
		return
	}
	img := l.Image
	if img.Width != float64(img.Original.Width()) || img.Height != float64(img.Original.Height()) {
		return
	}
	bx, by := l.Transform.X-img.Width/2, l.Transform.Y-img.Height/2
	if !isWhole(bx) || !isWhole(by) {
		return
	}
	x0, y0 := max(bx, bounds.X), max(by, bounds.Y)
	x1, y1 := min(bx+img.Width, bounds.X+bounds.Width), min(by+img.Height, bounds.Y+bounds.Height)
	if x1 <= x0 || y1 <= y0 {
		return
	}
	if x0 == bx && y0 == by && x1 == bx+img.Width && y1 == by+img.Height {
		return
	}
	sub := image.Rect(int(x0-bx), int(y0-by), int(x1-bx), int(y1-by))
	img.Original = imgconv.ToBuf(transform.Crop(imgconv.FromBuf(img.Original), sub))
	img.Source = e.derive(img.Original, img.Filters)
	img.Width, img.Height = x1-x0, y1-y0
	l.Transform.X, l.Transform.Y = (x0+x1)/2, (y0+y1)/2
}

// RotateCanvas90 turns the whole document a quarter turn. Axis-aligned
// image and sticker layers get their pixels rotated; every other layer is
// rotated through its transform.
func (e *Editor) RotateCanvas90(clockwise bool) error {
	sz := e.canvas.CanvasSize()
	cw, ch := sz.Width, sz.Height
	if err := e.canvas.SetCanvasSize(int(ch), int(cw)); err != nil {
		return opError("RotateCanvas90", KindState, err)
	}
	turn := math.Pi / 2
	if !clockwise {
		turn = -turn
	}
	for _, id := range e.store.Order() {
		e.store.Modify(id, func(l *layer.Layer) {
			x, y := l.Transform.X, l.Transform.Y
			if clockwise {
				l.Transform.X, l.Transform.Y = ch-y, x
			} else {
				l.Transform.X, l.Transform.Y = y, cw-x
			}
			if l.Image == nil || original(l) == nil || !axisAligned(l) {
				l.Transform.Rotation = math.Remainder(l.Transform.Rotation+turn, 2*math.Pi)
				return
			}
			img := l.Image
			img.Original = imgconv.ToBuf(imgconv.Rotate90(imgconv.FromBuf(original(l)), clockwise))
			img.Source = e.derive(img.Original, img.Filters)
			img.Width, img.Height = img.Height, img.Width
			l.Transform.ScaleX, l.Transform.ScaleY = l.Transform.ScaleY, l.Transform.ScaleX
		})
	}
	if e.crop.Started() {
		e.crop.Start()
	}
	e.canvas.FitToView()
	e.SaveHistory("Rotate canvas")
	return nil
}

// FlipImageLayer mirrors the pixels of an image layer, horizontally or
// vertically. The filter stack is kept and re-applied.
func (e *Editor) FlipImageLayer(id string, horizontal bool) error {
	l, err := e.bitmapLayer("FlipImageLayer", id)
	if err != nil {
		return err
	}
	src := imgconv.FromBuf(original(l))
	var flipped *image.RGBA
	if horizontal {
		flipped = transform.FlipH(src)
	} else {
		flipped = transform.FlipV(src)
	}
	orig := imgconv.ToBuf(flipped)
	derived := e.derive(orig, l.Image.Filters)
	e.store.Modify(id, func(l *layer.Layer) {
		l.Image.Original = orig
		l.Image.Source = derived
	})
	e.SaveHistory("Flip layer")
	return nil
}
