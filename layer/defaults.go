package layer

import (
	"fmt"

	"github.com/gogpu/gg"
	"github.com/jinzhu/copier"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/ggedit/geom"
)

// Defaults used when a layer is created without explicit values.
const (
	DefaultFontFamily = "Go"
	DefaultFontSize   = 48
	DefaultLineHeight = 1.2
	DefaultTextColor  = "#000000"
	DefaultShapeSize  = 200
	DefaultShapeFill  = "#3b82f6"
)

var defaultNames = map[Kind]string{
	KindImage:      "Image",
	KindText:       "Text",
	KindShape:      "Shape",
	KindDrawing:    "Drawing",
	KindSticker:    "Sticker",
	KindAdjustment: "Adjustment",
}

// New returns a layer of the given kind with every field populated with its
// default. The ID is left empty; the store assigns one on insertion.
func New(kind Kind) *Layer {
	l := &Layer{
		Name:      defaultNames[kind],
		Kind:      kind,
		Visible:   true,
		Opacity:   1,
		BlendMode: BlendNormal,
		Transform: geom.IdentityTransform(),
	}
	switch kind {
	case KindImage, KindSticker:
		l.Image = &ImageContent{}
	case KindText:
		l.Text = &TextContent{
			Text:       "Text",
			FontFamily: DefaultFontFamily,
			FontSize:   DefaultFontSize,
			Color:      DefaultTextColor,
			Align:      AlignLeft,
			LineHeight: DefaultLineHeight,
		}
	case KindShape:
		l.Shape = &ShapeContent{
			Shape:  ShapeRect,
			Width:  DefaultShapeSize,
			Height: DefaultShapeSize,
			Fill:   DefaultShapeFill,
		}
	case KindDrawing:
		l.Drawing = &DrawingContent{}
	case KindAdjustment:
		l.Adjustment = &AdjustmentContent{Settings: map[string]float64{}}
	}
	return l
}

// NewImage returns an image layer showing src at its natural size.
func NewImage(name string, src *gg.ImageBuf) *Layer {
	l := New(KindImage)
	if name != "" {
		l.Name = name
	}
	l.Image.Source = src
	l.Image.Original = src
	if src != nil {
		l.Image.Width = float64(src.Width())
		l.Image.Height = float64(src.Height())
	}
	return l
}

// NewSticker returns a sticker layer showing src.
func NewSticker(name string, src *gg.ImageBuf) *Layer {
	l := NewImage(name, src)
	l.Kind = KindSticker
	if name == "" {
		l.Name = defaultNames[KindSticker]
	}
	return l
}

// NewText returns a text layer with the given content.
func NewText(content string) *Layer {
	l := New(KindText)
	l.Text.Text = NormalizeText(content)
	return l
}

// NewDrawing returns an empty drawing layer covering a canvas of size sz,
// centred on it.
func NewDrawing(sz geom.Size) *Layer {
	l := New(KindDrawing)
	l.Drawing.Width = sz.Width
	l.Drawing.Height = sz.Height
	l.Transform.X = sz.Width / 2
	l.Transform.Y = sz.Height / 2
	return l
}

// NormalizeText puts text content into Unicode NFC so equal strings compare
// and render equally regardless of how they were typed.
func NormalizeText(s string) string {
	return norm.NFC.String(s)
}

// Clone returns a deep copy of l. Image handles are shared: they are never
// mutated in place, so sharing them is equivalent to copying.
func (l *Layer) Clone() *Layer {
	if l == nil {
		return nil
	}
	dst := new(Layer)
	if err := copier.CopyWithOption(dst, l, copier.Option{DeepCopy: true}); err != nil {
		// Same-type copies only fail on programming errors.
		panic(fmt.Sprintf("layer: clone %s: %v", l.ID, err))
	}
	if l.Image != nil && dst.Image != nil {
		dst.Image.Source = l.Image.Source
		dst.Image.Original = l.Image.Original
	}
	return dst
}
