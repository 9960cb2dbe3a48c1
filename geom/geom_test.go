package geom

import (
	"math"
	"testing"

	"github.com/gogpu/gg"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTransformMatrixOrder(t *testing.T) {
	tr := Transform{X: 10, Y: 20, ScaleX: 2, ScaleY: 3, Rotation: math.Pi / 2, SkewX: 0.5}

	// Apply the steps by hand in the documented order: shear first on the
	// point, then scale, rotate and translate.
	p := Pt(1, 1)
	sheared := Pt(p.X+0.5*p.Y, p.Y)
	scaled := Pt(sheared.X*2, sheared.Y*3)
	rotated := Pt(-scaled.Y, scaled.X)
	want := Pt(rotated.X+10, rotated.Y+20)

	got := tr.Matrix().TransformPoint(p)
	if !near(got.X, want.X) || !near(got.Y, want.Y) {
		t.Errorf("Matrix().TransformPoint(%v) = %v, want %v", p, got, want)
	}
}

func TestTransformOrderIsNotCommutative(t *testing.T) {
	tr := Transform{ScaleX: 2, ScaleY: 1, Rotation: math.Pi / 4}
	rotThenScale := Rotate(tr.Rotation).Multiply(Scale(2, 1))
	scaleThenRot := Scale(2, 1).Multiply(Rotate(tr.Rotation))
	p := Pt(1, 0)
	if got, want := tr.Matrix().TransformPoint(p), rotThenScale.TransformPoint(p); !near(got.X, want.X) || !near(got.Y, want.Y) {
		t.Errorf("Matrix().Apply = %v, want %v", got, want)
	}
	if a, b := rotThenScale.TransformPoint(p), scaleThenRot.TransformPoint(p); near(a.X, b.X) && near(a.Y, b.Y) {
		t.Errorf("rotate/scale unexpectedly commute: %v", a)
	}
}

func TestTransformMatrixFeedsRenderer(t *testing.T) {
	var m gg.Matrix = Transform{X: 3, Y: 4, ScaleX: 2, ScaleY: 2}.Matrix()
	if got := m.TransformPoint(gg.Pt(1, 1)); got != Pt(5, 6) {
		t.Errorf("TransformPoint(1,1) = %v, want (5,6)", got)
	}
}

func TestIdentityTransform(t *testing.T) {
	tr := IdentityTransform()
	if !tr.IsIdentity() {
		t.Fatal("IdentityTransform().IsIdentity() = false")
	}
	if m := tr.Matrix(); m != Identity() {
		t.Errorf("IdentityTransform().Matrix() = %+v, want identity", m)
	}
}

func TestMatrixInvert(t *testing.T) {
	m := Transform{X: 5, Y: -3, ScaleX: 1.5, ScaleY: 0.5, Rotation: 0.3, SkewY: 0.2}.Matrix()
	inv, ok := Invert(m)
	if !ok {
		t.Fatal("Invert() reported singular matrix")
	}
	p := Pt(12, 34)
	back := inv.TransformPoint(m.TransformPoint(p))
	if !near(back.X, p.X) || !near(back.Y, p.Y) {
		t.Errorf("inv(m(p)) = %v, want %v", back, p)
	}

	if _, ok := Invert(Scale(0, 1)); ok {
		t.Error("Invert(Scale(0,1)) ok = true, want false")
	}
}

func TestAngle(t *testing.T) {
	tests := []struct {
		p    Point
		want float64
	}{
		{Pt(1, 0), 0},
		{Pt(0, 1), math.Pi / 2},
		{Pt(-1, 0), math.Pi},
		{Pt(0, -2), -math.Pi / 2},
	}
	for _, tt := range tests {
		if got := Angle(tt.p); !near(got, tt.want) {
			t.Errorf("Angle(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRectClampInto(t *testing.T) {
	bounds := R(0, 0, 100, 80)
	tests := []struct {
		name string
		in   Rect
		want Rect
	}{
		{"inside", R(10, 10, 20, 20), R(10, 10, 20, 20)},
		{"past right", R(90, 10, 20, 20), R(80, 10, 20, 20)},
		{"negative", R(-5, -5, 20, 20), R(0, 0, 20, 20)},
		{"too large", R(-5, 0, 200, 20), R(0, 0, 100, 20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.ClampInto(bounds); got != tt.want {
				t.Errorf("ClampInto() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
