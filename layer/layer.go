// Package layer defines the editor's layer model and the ordered store that
// owns it.
//
// A Layer is a tagged variant: the shared fields live on Layer itself and
// Kind selects which one of the content pointers is populated. Layers held
// by a Store are treated as immutable values; every change goes through
// Store.Update or Store.Modify, which swap in a modified copy.
package layer

import (
	"github.com/gogpu/gg"

	"github.com/gogpu/ggedit/filter"
	"github.com/gogpu/ggedit/geom"
)

// Kind selects the layer variant.
type Kind string

// Layer kinds.
const (
	KindImage      Kind = "image"
	KindText       Kind = "text"
	KindShape      Kind = "shape"
	KindDrawing    Kind = "drawing"
	KindSticker    Kind = "sticker"
	KindAdjustment Kind = "adjustment"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindImage, KindText, KindShape, KindDrawing, KindSticker, KindAdjustment:
		return true
	}
	return false
}

// BlendMode is the compositing mode used when a layer is drawn.
type BlendMode string

// Blend modes supported by the compositor.
const (
	BlendNormal   BlendMode = "normal"
	BlendMultiply BlendMode = "multiply"
	BlendScreen   BlendMode = "screen"
	BlendOverlay  BlendMode = "overlay"
)

// Layer is one visual element of the document.
type Layer struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Kind      Kind           `json:"kind"`
	Visible   bool           `json:"visible"`
	Locked    bool           `json:"locked"`
	Opacity   float64        `json:"opacity"`
	BlendMode BlendMode      `json:"blendMode"`
	Transform geom.Transform `json:"transform"`

	Image      *ImageContent      `json:"image,omitempty"`
	Text       *TextContent       `json:"text,omitempty"`
	Shape      *ShapeContent      `json:"shape,omitempty"`
	Drawing    *DrawingContent    `json:"drawing,omitempty"`
	Adjustment *AdjustmentContent `json:"adjustment,omitempty"`
}

// ImageContent is the payload of image and sticker layers.
//
// Source is what gets drawn. Original, when set, is the unfiltered pixels
// Source was derived from, so filters can be re-applied from scratch.
// Handles are shared between copies and never mutated in place.
type ImageContent struct {
	Source   *gg.ImageBuf        `json:"-" copier:"-"`
	Original *gg.ImageBuf        `json:"-" copier:"-"`
	Width    float64             `json:"width"`
	Height   float64             `json:"height"`
	Filters  []filter.Descriptor `json:"filters,omitempty"`
}

// TextAlign is the horizontal alignment of a text layer.
type TextAlign string

// Text alignments.
const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// TextStroke outlines text glyphs.
type TextStroke struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// TextShadow draws an offset copy of the text beneath it.
type TextShadow struct {
	Color   string  `json:"color"`
	Blur    float64 `json:"blur"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// TextContent is the payload of text layers.
type TextContent struct {
	Text       string      `json:"text"`
	FontFamily string      `json:"fontFamily"`
	FontSize   float64     `json:"fontSize"`
	Bold       bool        `json:"bold"`
	Italic     bool        `json:"italic"`
	Color      string      `json:"color"`
	Align      TextAlign   `json:"align"`
	LineHeight float64     `json:"lineHeight"`
	Stroke     *TextStroke `json:"stroke,omitempty"`
	Shadow     *TextShadow `json:"shadow,omitempty"`
}

// ShapeKind selects the geometry of a shape layer.
type ShapeKind string

// Shape kinds.
const (
	ShapeRect    ShapeKind = "rect"
	ShapeEllipse ShapeKind = "ellipse"
	ShapeLine    ShapeKind = "line"
	ShapePolygon ShapeKind = "polygon"
	ShapeStar    ShapeKind = "star"
)

// ShapeContent is the payload of shape layers. Points, when present, are in
// layer-local coordinates relative to the top-left of the shape box.
type ShapeContent struct {
	Shape        ShapeKind    `json:"shape"`
	Width        float64      `json:"width"`
	Height       float64      `json:"height"`
	Fill         string       `json:"fill,omitempty"`
	Stroke       string       `json:"stroke,omitempty"`
	StrokeWidth  float64      `json:"strokeWidth"`
	CornerRadius float64      `json:"cornerRadius"`
	Points       []geom.Point `json:"points,omitempty"`
}

// Path is one committed brush stroke.
type Path struct {
	Points  []geom.Point `json:"points"`
	Color   string       `json:"color"`
	Width   float64      `json:"width"`
	Opacity float64      `json:"opacity"`
}

// DrawingContent is the payload of drawing layers. Path points are in
// layer-local coordinates where (0,0) is the top-left of a Width x Height box.
type DrawingContent struct {
	Paths  []Path  `json:"paths"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// AdjustmentContent is the payload of adjustment layers. Adjustment layers
// are stored and snapshotted but not rendered.
type AdjustmentContent struct {
	Adjustment string             `json:"adjustment"`
	Settings   map[string]float64 `json:"settings"`
}

// Size returns the layer's content box size in layer-local units. Text
// layers report an estimate from their font metrics.
func (l *Layer) Size() geom.Size {
	switch {
	case l.Image != nil:
		return geom.Sz(l.Image.Width, l.Image.Height)
	case l.Shape != nil:
		return geom.Sz(l.Shape.Width, l.Shape.Height)
	case l.Drawing != nil:
		return geom.Sz(l.Drawing.Width, l.Drawing.Height)
	case l.Text != nil:
		return l.Text.estimateSize()
	}
	return geom.Size{}
}

func (t *TextContent) estimateSize() geom.Size {
	lines := 1
	longest, cur := 0, 0
	for _, r := range t.Text {
		if r == '\n' {
			lines++
			cur = 0
			continue
		}
		cur++
		longest = max(longest, cur)
	}
	return geom.Sz(float64(longest)*t.FontSize*0.6, float64(lines)*t.FontSize*t.LineHeight)
}

// Bounds returns the four corners of the layer's content box in canvas
// space, clockwise from the top-left.
func (l *Layer) Bounds() [4]geom.Point {
	sz := l.Size()
	m := l.Transform.Matrix()
	hw, hh := sz.Width/2, sz.Height/2
	return [4]geom.Point{
		m.TransformPoint(geom.Pt(-hw, -hh)),
		m.TransformPoint(geom.Pt(hw, -hh)),
		m.TransformPoint(geom.Pt(hw, hh)),
		m.TransformPoint(geom.Pt(-hw, hh)),
	}
}

// Contains reports whether the canvas point p hits the content box.
func (l *Layer) Contains(p geom.Point) bool {
	inv, ok := geom.Invert(l.Transform.Matrix())
	if !ok {
		return false
	}
	local := inv.TransformPoint(p)
	sz := l.Size()
	return local.X >= -sz.Width/2 && local.X <= sz.Width/2 &&
		local.Y >= -sz.Height/2 && local.Y <= sz.Height/2
}

// Ref returns a pointer to v. It keeps Patch literals short.
func Ref[T any](v T) *T {
	return &v
}
