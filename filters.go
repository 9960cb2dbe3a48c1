package ggedit

import (
	"fmt"
	"slices"

	"github.com/gogpu/gg"

	"github.com/gogpu/ggedit/filter"
	"github.com/gogpu/ggedit/internal/imgconv"
	"github.com/gogpu/ggedit/layer"
)

// bitmapLayer returns the image or sticker layer id, ready to have its
// pixels changed.
func (e *Editor) bitmapLayer(op, id string) (*layer.Layer, error) {
	l, ok := e.store.Get(id)
	switch {
	case !ok:
		e.logger.Warn("ggedit: unknown layer", "op", op, "id", id)
		return nil, opError(op, KindLookup, fmt.Errorf("%w: %q", ErrUnknownLayer, id))
	case l.Image == nil || (l.Image.Original == nil && l.Image.Source == nil):
		return nil, opError(op, KindState, ErrNoImage)
	case l.Locked:
		return nil, opError(op, KindState, ErrLocked)
	}
	return l, nil
}

// original returns the unfiltered pixels of an image layer.
func original(l *layer.Layer) *gg.ImageBuf {
	if l.Image.Original != nil {
		return l.Image.Original
	}
	return l.Image.Source
}

// derive runs the filter stack over orig. An empty or all-neutral stack
// returns orig itself.
func (e *Editor) derive(orig *gg.ImageBuf, fs []filter.Descriptor) *gg.ImageBuf {
	if len(fs) == 0 {
		return orig
	}
	src := imgconv.FromBuf(orig)
	out := e.filters.ApplyAll(src, fs)
	if out == src {
		return orig
	}
	return imgconv.ToBuf(out)
}

// setFilters replaces the filter stack of l and re-derives its source from
// the original pixels.
func (e *Editor) setFilters(l *layer.Layer, fs []filter.Descriptor, label string) {
	orig := original(l)
	src := e.derive(orig, fs)
	e.store.Modify(l.ID, func(l *layer.Layer) {
		l.Image.Original = orig
		l.Image.Source = src
		l.Image.Filters = fs
	})
	e.SaveHistory(label)
}

func (e *Editor) checkFilter(op string, d filter.Descriptor) error {
	if e.filters.Has(d.Type) {
		return nil
	}
	e.logger.Warn("ggedit: unknown filter", "op", op, "type", d.Type)
	return opError(op, KindLookup, fmt.Errorf("%w: %q", ErrUnknownFilter, d.Type))
}

// ApplyFilter sets one filter on an image layer. A filter of the same type
// already in the stack is replaced in place, otherwise d is appended.
// Filters are never baked in: the visible pixels are always re-derived
// from the original.
func (e *Editor) ApplyFilter(id string, d filter.Descriptor) error {
	const op = "ApplyFilter"
	if err := e.checkFilter(op, d); err != nil {
		return err
	}
	l, err := e.bitmapLayer(op, id)
	if err != nil {
		return err
	}
	fs := slices.Clone(l.Image.Filters)
	if i := slices.IndexFunc(fs, func(f filter.Descriptor) bool { return f.Type == d.Type }); i >= 0 {
		fs[i] = d
	} else {
		fs = append(fs, d)
	}
	e.setFilters(l, fs, "Apply filter")
	return nil
}

// ApplyFilters replaces the whole filter stack of an image layer.
func (e *Editor) ApplyFilters(id string, ds []filter.Descriptor) error {
	const op = "ApplyFilters"
	for _, d := range ds {
		if err := e.checkFilter(op, d); err != nil {
			return err
		}
	}
	l, err := e.bitmapLayer(op, id)
	if err != nil {
		return err
	}
	e.setFilters(l, slices.Clone(ds), "Apply filters")
	return nil
}

// ApplyPreset replaces the filter stack with the preset's filters.
func (e *Editor) ApplyPreset(id, presetID string) error {
	const op = "ApplyPreset"
	p, ok := e.filters.Preset(presetID)
	if !ok {
		e.logger.Warn("ggedit: unknown preset", "preset", presetID)
		return opError(op, KindLookup, fmt.Errorf("%w: %q", ErrUnknownPreset, presetID))
	}
	l, err := e.bitmapLayer(op, id)
	if err != nil {
		return err
	}
	e.setFilters(l, p.Filters, "Apply preset "+p.Name)
	return nil
}

// ResetFilters clears the filter stack and restores the original pixels.
func (e *Editor) ResetFilters(id string) error {
	l, err := e.bitmapLayer("ResetFilters", id)
	if err != nil {
		return err
	}
	e.setFilters(l, nil, "Reset filters")
	return nil
}
