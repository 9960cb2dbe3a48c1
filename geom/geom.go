// Package geom provides the 2D value types shared by the editor packages:
// points, sizes, rectangles, affine matrices and layer transforms.
//
// All coordinates are float64 in canvas space unless stated otherwise.
// Origin is top-left, X grows right, Y grows down, angles are radians.
package geom

import (
	"math"

	"github.com/gogpu/gg"
)

// Point is a 2D point or vector. It is gg's point type, so values pass
// to and from the renderer unchanged.
type Point = gg.Point

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return gg.Pt(x, y) }

// Angle returns the angle of p seen as a vector, in radians.
func Angle(p Point) float64 {
	return math.Atan2(p.Y, p.X)
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Sz is shorthand for Size{Width: w, Height: h}.
func Sz(w, h float64) Size {
	return Size{Width: w, Height: h}
}

// Empty reports whether either dimension is not positive.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// R is shorthand for Rect{X: x, Y: y, Width: w, Height: h}.
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the centre point of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Inset shrinks r by dx on the left and right and dy on the top and bottom.
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width - 2*dx, Height: r.Height - 2*dy}
}

// ClampInto returns r moved and, if needed, shrunk so that it lies inside
// bounds.
func (r Rect) ClampInto(bounds Rect) Rect {
	if r.Width > bounds.Width {
		r.Width = bounds.Width
	}
	if r.Height > bounds.Height {
		r.Height = bounds.Height
	}
	r.X = clamp(r.X, bounds.X, bounds.Right()-r.Width)
	r.Y = clamp(r.Y, bounds.Y, bounds.Bottom()-r.Height)
	return r
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
