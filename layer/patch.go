package layer

import "github.com/gogpu/ggedit/geom"

// Patch is a partial update. Nil fields are left unchanged. Content fields
// replace the whole payload and only apply to a layer of a matching kind.
//
//	store.Update(id, layer.Patch{
//	    Opacity: layer.Ref(0.5),
//	    Visible: layer.Ref(false),
//	})
type Patch struct {
	Name      *string
	Visible   *bool
	Locked    *bool
	Opacity   *float64
	BlendMode *BlendMode
	Transform *geom.Transform

	Image      *ImageContent
	Text       *TextContent
	Shape      *ShapeContent
	Drawing    *DrawingContent
	Adjustment *AdjustmentContent
}

// IsEmpty reports whether p changes nothing.
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Apply returns a copy of l with p merged in. l itself is not modified.
func (p Patch) Apply(l *Layer) *Layer {
	out := l.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Visible != nil {
		out.Visible = *p.Visible
	}
	if p.Locked != nil {
		out.Locked = *p.Locked
	}
	if p.Opacity != nil {
		out.Opacity = clampUnit(*p.Opacity)
	}
	if p.BlendMode != nil {
		out.BlendMode = *p.BlendMode
	}
	if p.Transform != nil {
		out.Transform = *p.Transform
	}

	switch {
	case p.Image != nil && (out.Kind == KindImage || out.Kind == KindSticker):
		img := *p.Image
		out.Image = &img
	case p.Text != nil && out.Kind == KindText:
		txt := *p.Text
		txt.Text = NormalizeText(txt.Text)
		out.Text = &txt
	case p.Shape != nil && out.Kind == KindShape:
		sh := *p.Shape
		out.Shape = &sh
	case p.Drawing != nil && out.Kind == KindDrawing:
		d := *p.Drawing
		out.Drawing = &d
	case p.Adjustment != nil && out.Kind == KindAdjustment:
		a := *p.Adjustment
		out.Adjustment = &a
	}
	return out
}

func clampUnit(v float64) float64 {
	return min(max(v, 0), 1)
}
