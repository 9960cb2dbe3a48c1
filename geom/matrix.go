package geom

import (
	"math"

	"github.com/gogpu/gg"
)

// Matrix is gg's 2D affine matrix in row-major 2x3 form:
//
//	| a  b  c |
//	| d  e  f |
//
// mapping (x, y) to (a*x + b*y + c, d*x + e*y + f).
type Matrix = gg.Matrix

// Identity returns the identity matrix.
func Identity() Matrix { return gg.Identity() }

// Translate returns a translation matrix.
func Translate(x, y float64) Matrix { return gg.Translate(x, y) }

// Scale returns a scaling matrix.
func Scale(sx, sy float64) Matrix { return gg.Scale(sx, sy) }

// Rotate returns a rotation matrix for angle radians.
func Rotate(angle float64) Matrix { return gg.Rotate(angle) }

// Shear returns a shear matrix: x' = x + sx*y, y' = sy*x + y.
func Shear(sx, sy float64) Matrix { return gg.Shear(sx, sy) }

// Invert returns the inverse of m, or false when m is singular.
// gg.Matrix.Invert alone falls back to the identity in that case.
func Invert(m Matrix) (Matrix, bool) {
	if math.Abs(m.A*m.E-m.B*m.D) < 1e-10 {
		return Identity(), false
	}
	return m.Invert(), true
}
