package tool

import (
	"errors"
	"image/color"

	"github.com/gogpu/ggedit/geom"
	"github.com/gogpu/ggedit/surface"
)

// Handle identifies the part of a box under the pointer.
type Handle uint8

// Handles, clockwise from the top-left corner.
const (
	HandleNone Handle = iota
	HandleNW
	HandleN
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
	HandleBody
	HandleRotate
)

var handleNames = [...]string{
	HandleNone:   "none",
	HandleNW:     "nw",
	HandleN:      "n",
	HandleNE:     "ne",
	HandleE:      "e",
	HandleSE:     "se",
	HandleS:      "s",
	HandleSW:     "sw",
	HandleW:      "w",
	HandleBody:   "body",
	HandleRotate: "rotate",
}

func (h Handle) String() string {
	if int(h) < len(handleNames) {
		return handleNames[h]
	}
	return "unknown"
}

// Edges reports which sides of the box the handle drags.
func (h Handle) Edges() (left, top, right, bottom bool) {
	switch h {
	case HandleNW:
		return true, true, false, false
	case HandleN:
		return false, true, false, false
	case HandleNE:
		return false, true, true, false
	case HandleE:
		return false, false, true, false
	case HandleSE:
		return false, false, true, true
	case HandleS:
		return false, false, false, true
	case HandleSW:
		return true, false, false, true
	case HandleW:
		return true, false, false, false
	}
	return false, false, false, false
}

// IsResize reports whether h is one of the eight resize handles.
func (h Handle) IsResize() bool { return h >= HandleNW && h <= HandleW }

// boxHandles returns the eight resize handle positions of the box with the
// given corners (clockwise from top-left), in handle order.
func boxHandles(c [4]geom.Point) [8]geom.Point {
	mid := func(a, b geom.Point) geom.Point { return a.Add(b).Mul(0.5) }
	return [8]geom.Point{
		c[0], mid(c[0], c[1]), c[1], mid(c[1], c[2]),
		c[2], mid(c[2], c[3]), c[3], mid(c[3], c[0]),
	}
}

func rectCorners(r geom.Rect) [4]geom.Point {
	return [4]geom.Point{
		geom.Pt(r.X, r.Y),
		geom.Pt(r.Right(), r.Y),
		geom.Pt(r.Right(), r.Bottom()),
		geom.Pt(r.X, r.Bottom()),
	}
}

// hitHandle returns the first resize handle within radius of p.
func hitHandle(handles [8]geom.Point, p geom.Point, radius float64) Handle {
	for i, h := range handles {
		if p.Distance(h) <= radius {
			return HandleNW + Handle(i)
		}
	}
	return HandleNone
}

var (
	handleFill   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	handleStroke = color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
)

// drawHandles paints square handles of a constant on-screen size.
func drawHandles(s surface.Surface, pts []geom.Point, zoom float64) error {
	size := 8 / zoom
	p := surface.NewPath()
	for _, h := range pts {
		p.Rect(geom.R(h.X-size/2, h.Y-size/2, size, size))
	}
	return errors.Join(
		s.FillPath(p, surface.FillStyle{Color: handleFill}),
		s.StrokePath(p, surface.StrokeStyle{Color: handleStroke, Width: 1 / zoom}),
	)
}
