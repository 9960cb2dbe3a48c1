package layer

import (
	"image"
	"math"
	"testing"

	"github.com/gogpu/gg"

	"github.com/gogpu/ggedit/geom"
)

func TestNewDefaults(t *testing.T) {
	for _, k := range []Kind{KindImage, KindText, KindShape, KindDrawing, KindSticker, KindAdjustment} {
		l := New(k)
		if !l.Visible || l.Opacity != 1 || l.BlendMode != BlendNormal {
			t.Errorf("New(%s) = visible %v opacity %v blend %v", k, l.Visible, l.Opacity, l.BlendMode)
		}
		if !l.Transform.IsIdentity() {
			t.Errorf("New(%s).Transform = %+v, want identity", k, l.Transform)
		}
		if l.Name == "" {
			t.Errorf("New(%s).Name is empty", k)
		}
	}
	if Kind("layer").Valid() {
		t.Error(`Kind("layer").Valid() = true`)
	}
}

func TestBoundsAndContains(t *testing.T) {
	l := New(KindShape)
	l.Shape.Width, l.Shape.Height = 100, 50
	l.Transform.X, l.Transform.Y = 200, 100
	l.Transform.Rotation = math.Pi / 2

	b := l.Bounds()
	// A quarter turn maps the top-left corner (-50,-25) to (25,-50).
	if math.Abs(b[0].X-225) > 1e-9 || math.Abs(b[0].Y-50) > 1e-9 {
		t.Errorf("Bounds()[0] = %v, want (225,50)", b[0])
	}

	tests := []struct {
		p    geom.Point
		want bool
	}{
		{geom.Pt(200, 100), true},
		{geom.Pt(200, 145), true},
		{geom.Pt(240, 100), false},
		{geom.Pt(200, 160), false},
	}
	for _, tt := range tests {
		if got := l.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestCloneSharesHandlesOnly(t *testing.T) {
	buf := gg.ImageBufFromImage(image.NewNRGBA(image.Rect(0, 0, 4, 4)))
	l := NewImage("photo", buf)
	l.Image.Filters = nil
	d := New(KindDrawing)
	d.Drawing.Paths = []Path{{Points: []geom.Point{{X: 1, Y: 2}}, Width: 3}}

	c := l.Clone()
	if c.Image == l.Image {
		t.Error("Clone shares ImageContent")
	}
	if c.Image.Source != buf || c.Image.Original != buf {
		t.Error("Clone dropped the image handles")
	}

	dc := d.Clone()
	dc.Drawing.Paths[0].Points[0].X = 99
	if d.Drawing.Paths[0].Points[0].X != 1 {
		t.Error("Clone shares path points")
	}
}

func TestPatchApply(t *testing.T) {
	l := New(KindText)
	out := Patch{
		Name:    Ref("Title"),
		Opacity: Ref(1.5),
		Shape:   &ShapeContent{Width: 1},
	}.Apply(l)
	if out.Name != "Title" {
		t.Errorf("Name = %q, want Title", out.Name)
	}
	if out.Opacity != 1 {
		t.Errorf("Opacity = %v, want clamped to 1", out.Opacity)
	}
	if out.Shape != nil {
		t.Error("shape content applied to a text layer")
	}
	if l.Name != "Text" {
		t.Errorf("source layer modified: Name = %q", l.Name)
	}
	if !(Patch{}).IsEmpty() {
		t.Error("Patch{}.IsEmpty() = false")
	}
}

func TestNormalizeText(t *testing.T) {
	decomposed := "é"
	if got := NormalizeText(decomposed); got != "é" {
		t.Errorf("NormalizeText(%q) = %q, want %q", decomposed, got, "é")
	}
}
