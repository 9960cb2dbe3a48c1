package ggedit

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/ggedit/event"
	"github.com/gogpu/ggedit/geom"
	"github.com/gogpu/ggedit/internal/imgconv"
	"github.com/gogpu/ggedit/layer"
	"github.com/gogpu/ggedit/loader"
)

// BackgroundLayerName names the layer LoadImage creates.
const BackgroundLayerName = "Background"

// LoadImage replaces the document with the image read from src: the
// canvas takes the image size, the image becomes the only layer and
// history restarts from it. On failure the document is left untouched.
func (e *Editor) LoadImage(ctx context.Context, src loader.Source) error {
	const op = "LoadImage"
	if e.closed {
		return opError(op, KindState, ErrClosed)
	}
	res, err := e.loader.Load(ctx, src)
	if err != nil {
		if errors.Is(err, loader.ErrUnsupportedSource) ||
			errors.Is(err, loader.ErrNotImage) ||
			errors.Is(err, loader.ErrUnsupportedFormat) {
			err = fmt.Errorf("%w: %w", ErrUnsupportedSource, err)
		}
		e.logger.Warn("ggedit: load image failed", "err", err)
		return opError(op, KindInput, err)
	}

	w, h := res.Image.Width(), res.Image.Height()
	if err := e.canvas.SetCanvasSize(w, h); err != nil {
		return opError(op, KindState, err)
	}
	bg := layer.NewImage(BackgroundLayerName, res.Image)
	bg.Transform.X, bg.Transform.Y = float64(w)/2, float64(h)/2

	e.restoring = true
	e.store.Reset([]*layer.Layer{bg}, "", nil)
	if order := e.store.Order(); len(order) > 0 {
		e.store.Select(order[0], false)
	}
	e.restoring = false

	if e.crop.Started() {
		e.crop.Start()
	}
	e.canvas.FitToView()
	e.history.Clear()
	e.dirty = false
	e.SaveHistory("Load image")

	size := geom.Sz(float64(w), float64(h))
	e.logger.Info("ggedit: image loaded", "format", res.Format, "size", size, "scaled", res.Scaled)
	e.bus.Publish(event.ImageLoaded{Size: size})
	e.canvas.QueueRender()
	return nil
}

// GetImageData renders the document and copies a region of the
// composite.
func (e *Editor) GetImageData(x, y, width, height int) *image.NRGBA {
	if e.closed {
		return nil
	}
	e.canvas.Render()
	return e.canvas.ImageData(x, y, width, height)
}

// PutImageData adds img as a new image layer whose top-left corner is at
// (x, y) on the canvas.
func (e *Editor) PutImageData(img *image.NRGBA, x, y int) (*layer.Layer, error) {
	if img == nil || img.Rect.Empty() {
		return nil, opError("PutImageData", KindInput, ErrNoImage)
	}
	l := layer.NewImage("Pixels", imgconv.ToBuf(img))
	l.Transform.X = float64(x) + l.Image.Width/2
	l.Transform.Y = float64(y) + l.Image.Height/2
	stored := e.store.Add(l)
	e.SaveHistory("Put image data")
	return stored.Clone(), nil
}
