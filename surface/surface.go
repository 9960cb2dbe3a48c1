// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"

	"github.com/gogpu/gg"

	"github.com/gogpu/ggedit/geom"
)

// Surface is the rendering target abstraction.
//
// Surfaces are NOT thread-safe. Each surface should be used from a single
// goroutine, or external synchronization must be used.
type Surface interface {
	// Width returns the surface width in device pixels.
	Width() int

	// Height returns the surface height in device pixels.
	Height() int

	// Resize changes the surface dimensions. Content is discarded.
	Resize(width, height int) error

	// Clear fills the entire surface with c, ignoring transform and clip.
	// A nil color clears to transparent.
	Clear(c color.Color)

	// Save pushes the transform and clip state.
	Save()

	// Restore pops the state pushed by the matching Save.
	Restore()

	// Translate, Scale and Rotate post-multiply the current transform.
	Translate(x, y float64)
	Scale(sx, sy float64)
	Rotate(angle float64)

	// Transform post-multiplies the current transform by m.
	Transform(m geom.Matrix)

	// Matrix returns the current transform.
	Matrix() geom.Matrix

	// ClipRect intersects the clip with r in user space.
	ClipRect(r geom.Rect)

	// BeginGroup starts an offscreen group that is composited with mode and
	// opacity by the matching EndGroup.
	BeginGroup(mode BlendMode, opacity float64)

	// EndGroup composites the innermost group.
	EndGroup()

	// FillPath fills p.
	FillPath(p *Path, style FillStyle) error

	// StrokePath strokes p. The line width is in user space.
	StrokePath(p *Path, style StrokeStyle) error

	// DrawImage draws img scaled into dst.
	DrawImage(img *gg.ImageBuf, dst geom.Rect, opacity float64)

	// DrawText draws one line of text with its line box's top-left corner
	// at at.
	DrawText(s string, at geom.Point, style TextStyle)

	// MeasureText returns the advance width and line height of s.
	MeasureText(s string, style TextStyle) (w, h float64)

	// ImageData copies the device pixels in r. Pixels outside the surface
	// read as transparent.
	ImageData(r image.Rectangle) *image.NRGBA

	// PutImageData replaces the device pixels under img, placed at at.
	PutImageData(img *image.NRGBA, at image.Point)

	// Snapshot returns a copy of the whole surface.
	Snapshot() *gg.ImageBuf

	// Close releases the surface. Close is idempotent.
	Close() error
}

// Factory creates a surface of the given size.
type Factory func(width, height int) (Surface, error)

// BlendMode specifies how a group is combined with what is below it.
type BlendMode uint8

const (
	// BlendNormal is source-over.
	BlendNormal BlendMode = iota

	// BlendMultiply multiplies source and destination colors.
	BlendMultiply

	// BlendScreen is the inverse of multiply.
	BlendScreen

	// BlendOverlay combines multiply and screen.
	BlendOverlay
)

var blendNames = [...]string{
	BlendNormal:   "normal",
	BlendMultiply: "multiply",
	BlendScreen:   "screen",
	BlendOverlay:  "overlay",
}

// String returns the mode name.
func (m BlendMode) String() string {
	if int(m) < len(blendNames) {
		return blendNames[m]
	}
	return "unknown"
}

// ParseBlendMode maps a mode name to a BlendMode. Unknown names map to
// BlendNormal.
func ParseBlendMode(s string) BlendMode {
	for i, n := range blendNames {
		if n == s {
			return BlendMode(i)
		}
	}
	return BlendNormal
}

// LineCap specifies the shape of line endpoints.
type LineCap uint8

const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

// LineJoin specifies the shape of line joins.
type LineJoin uint8

const (
	LineJoinMiter LineJoin = iota
	LineJoinRound
	LineJoinBevel
)

// FillStyle defines how to fill a path.
type FillStyle struct {
	Color color.Color
}

// StrokeStyle defines how to stroke a path.
type StrokeStyle struct {
	Color color.Color
	Width float64
	Cap   LineCap
	Join  LineJoin

	// Dash, when non-empty, alternates dash and gap lengths.
	Dash []float64
}

// TextStyle selects the face and colour of text.
type TextStyle struct {
	Family string
	Size   float64
	Bold   bool
	Italic bool
	Color  color.Color

	// Blur softens the rendered glyphs by a Gaussian of this radius.
	// Used for drop shadows.
	Blur float64
}
