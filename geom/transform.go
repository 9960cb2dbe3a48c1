package geom

// Transform is the non-destructive placement of a layer on the canvas.
//
// Renderers apply it as translate(X, Y), rotate(Rotation), scale(ScaleX,
// ScaleY), then shear(SkewX, SkewY). The order is fixed: the operations do
// not commute, so every consumer must go through Matrix.
type Transform struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	Rotation float64 `json:"rotation"`
	SkewX    float64 `json:"skewX"`
	SkewY    float64 `json:"skewY"`
}

// IdentityTransform returns {0,0,1,1,0,0,0}.
func IdentityTransform() Transform {
	return Transform{ScaleX: 1, ScaleY: 1}
}

// Matrix composes the transform into a single affine matrix.
func (t Transform) Matrix() Matrix {
	return Translate(t.X, t.Y).
		Multiply(Rotate(t.Rotation)).
		Multiply(Scale(t.ScaleX, t.ScaleY)).
		Multiply(Shear(t.SkewX, t.SkewY))
}

// Position returns the translation component.
func (t Transform) Position() Point {
	return Point{X: t.X, Y: t.Y}
}

// IsIdentity reports whether t equals the identity transform.
func (t Transform) IsIdentity() bool {
	return t == IdentityTransform()
}
