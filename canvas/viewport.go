package canvas

import (
	"math"

	"github.com/gogpu/ggedit/geom"
)

// Zoom limits applied when no others are configured.
const (
	DefaultMinZoom    = 0.1
	DefaultMaxZoom    = 10
	DefaultFitPadding = 40
)

// Viewport maps canvas space to the host container. Screen coordinates are
// CSS-style pixels: the display surface is DPR times larger.
//
//	screen = Origin + Pan + canvas*Zoom
type Viewport struct {
	CanvasSize  geom.Size  `json:"canvasSize"`
	DisplaySize geom.Size  `json:"displaySize"`
	Zoom        float64    `json:"zoom"`
	Pan         geom.Point `json:"pan"`

	// DPR is the device pixel ratio of the display surface.
	DPR float64 `json:"-"`

	// Origin is the container's top-left corner in the pointer events'
	// coordinate space.
	Origin geom.Point `json:"-"`
}

// ScreenToCanvas maps a pointer position to canvas space.
func (v Viewport) ScreenToCanvas(p geom.Point) geom.Point {
	return p.Sub(v.Origin).Sub(v.Pan).Div(v.Zoom)
}

// CanvasToScreen maps a canvas point to a pointer position.
func (v Viewport) CanvasToScreen(p geom.Point) geom.Point {
	return p.Mul(v.Zoom).Add(v.Pan).Add(v.Origin)
}

// CanvasRect returns the canvas bounds in canvas space.
func (v Viewport) CanvasRect() geom.Rect {
	return geom.R(0, 0, v.CanvasSize.Width, v.CanvasSize.Height)
}

// ClampZoom limits z to [lo, hi]. NaN maps to lo.
func ClampZoom(z, lo, hi float64) float64 {
	if math.IsNaN(z) || z < lo {
		return lo
	}
	if z > hi {
		return hi
	}
	return z
}

// AnchoredPan returns the pan that keeps anchor (in container coordinates)
// over the same canvas point when zoom changes from oldZoom to newZoom.
func AnchoredPan(pan, anchor geom.Point, oldZoom, newZoom float64) geom.Point {
	return anchor.Sub(anchor.Sub(pan).Mul(newZoom / oldZoom))
}

// Fit computes the zoom and pan that show the whole canvas centred in the
// container with padding on every side. The zoom never exceeds 1. When the
// padded container has no area, fallback is used as the zoom.
func Fit(canvas, container geom.Size, padding, fallback float64) (zoom float64, pan geom.Point) {
	availW := container.Width - 2*padding
	availH := container.Height - 2*padding
	if availW <= 0 || availH <= 0 || canvas.Empty() {
		zoom = fallback
	} else {
		zoom = min(availW/canvas.Width, availH/canvas.Height, 1)
	}
	pan = geom.Pt(
		(container.Width-canvas.Width*zoom)/2,
		(container.Height-canvas.Height*zoom)/2,
	)
	return zoom, pan
}
