package ggedit

import (
	"slices"

	"github.com/gogpu/gg"

	"github.com/gogpu/ggedit/layer"
)

// Layers returns copies of the layers, bottom to top.
func (e *Editor) Layers() []*layer.Layer {
	ls := e.store.Layers()
	out := make([]*layer.Layer, len(ls))
	for i, l := range ls {
		out[i] = l.Clone()
	}
	return out
}

// Layer returns a copy of the layer with the given id.
func (e *Editor) Layer(id string) (*layer.Layer, bool) {
	l, ok := e.store.Get(id)
	if !ok {
		return nil, false
	}
	return l.Clone(), true
}

// ActiveLayer returns a copy of the active layer, or nil.
func (e *Editor) ActiveLayer() *layer.Layer {
	return e.store.Active().Clone()
}

// SelectedIDs returns the selected layer ids in stacking order.
func (e *Editor) SelectedIDs() []string { return e.store.SelectedIDs() }

// add centres l on the canvas, stores it and records history.
func (e *Editor) add(l *layer.Layer, label string) *layer.Layer {
	sz := e.canvas.CanvasSize()
	l.Transform.X, l.Transform.Y = sz.Width/2, sz.Height/2
	stored := e.store.Add(l)
	e.SaveHistory(label)
	return stored.Clone()
}

// fitScale returns the uniform scale that fits w x h inside the canvas,
// or 1 when it already fits.
func (e *Editor) fitScale(w, h float64) float64 {
	sz := e.canvas.CanvasSize()
	if w <= 0 || h <= 0 || (w <= sz.Width && h <= sz.Height) {
		return 1
	}
	return min(sz.Width/w, sz.Height/h)
}

func (e *Editor) addBitmap(op string, l *layer.Layer, label string) (*layer.Layer, error) {
	if l.Image.Source == nil {
		return nil, opError(op, KindInput, ErrNoImage)
	}
	s := e.fitScale(l.Image.Width, l.Image.Height)
	l.Transform.ScaleX, l.Transform.ScaleY = s, s
	return e.add(l, label), nil
}

// AddImageLayer adds img on top of the stack, centred and scaled down to
// fit the canvas if needed.
func (e *Editor) AddImageLayer(img *gg.ImageBuf, name string) (*layer.Layer, error) {
	return e.addBitmap("AddImageLayer", layer.NewImage(name, img), "Add image layer")
}

// AddStickerLayer adds img as a sticker.
func (e *Editor) AddStickerLayer(img *gg.ImageBuf, name string) (*layer.Layer, error) {
	return e.addBitmap("AddStickerLayer", layer.NewSticker(name, img), "Add sticker")
}

// AddTextLayer adds a text layer with default styling.
func (e *Editor) AddTextLayer(content string) *layer.Layer {
	return e.add(layer.NewText(content), "Add text layer")
}

// AddShapeLayer adds a shape of the default size and fill. An empty kind
// adds a rectangle.
func (e *Editor) AddShapeLayer(kind layer.ShapeKind) *layer.Layer {
	l := layer.New(layer.KindShape)
	if kind != "" {
		l.Shape.Shape = kind
	}
	return e.add(l, "Add shape layer")
}

// AddAdjustmentLayer adds a non-rendering adjustment layer.
func (e *Editor) AddAdjustmentLayer(adjustment string, settings map[string]float64) *layer.Layer {
	l := layer.New(layer.KindAdjustment)
	l.Adjustment.Adjustment = adjustment
	for k, v := range settings {
		l.Adjustment.Settings[k] = v
	}
	return e.add(l, "Add adjustment layer")
}

// UpdateLayer merges p into the layer. Unknown ids are ignored.
func (e *Editor) UpdateLayer(id string, p layer.Patch) {
	_, known := e.store.Get(id)
	e.store.Update(id, p)
	if known && !p.IsEmpty() {
		e.SaveHistory("Update layer")
	}
}

// RemoveLayer deletes a layer. Unknown ids are ignored.
func (e *Editor) RemoveLayer(id string) {
	_, known := e.store.Get(id)
	e.store.Remove(id)
	if known {
		e.SaveHistory("Remove layer")
	}
}

// DuplicateLayer copies a layer directly above itself and returns the
// copy, or nil for an unknown id.
func (e *Editor) DuplicateLayer(id string) *layer.Layer {
	cp := e.store.Duplicate(id)
	if cp == nil {
		return nil
	}
	e.SaveHistory("Duplicate layer")
	return cp.Clone()
}

// reorder runs fn and records history if the stacking order changed.
func (e *Editor) reorder(fn func()) {
	before := e.store.Order()
	fn()
	if !slices.Equal(before, e.store.Order()) {
		e.SaveHistory("Reorder layers")
	}
}

// ReorderLayers sets the bottom-to-top order. Anything other than a
// permutation of the current ids is ignored.
func (e *Editor) ReorderLayers(order []string) {
	e.reorder(func() { e.store.Reorder(order) })
}

// MoveLayerUp swaps the layer with the one above it.
func (e *Editor) MoveLayerUp(id string) {
	e.reorder(func() { e.store.MoveUp(id) })
}

// MoveLayerDown swaps the layer with the one below it.
func (e *Editor) MoveLayerDown(id string) {
	e.reorder(func() { e.store.MoveDown(id) })
}

// SelectLayer makes id the active layer. With additive the previous
// selection is kept. Selection is not recorded in history.
func (e *Editor) SelectLayer(id string, additive bool) {
	e.store.Select(id, additive)
}

// ClearSelection deselects every layer.
func (e *Editor) ClearSelection() {
	e.store.ClearSelection()
}
