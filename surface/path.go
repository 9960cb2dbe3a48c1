// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"math"

	"github.com/gogpu/ggedit/geom"
)

// Verb is a path segment type.
type Verb uint8

const (
	VerbMoveTo Verb = iota
	VerbLineTo
	VerbQuadTo
	VerbCubicTo
	VerbClose
)

// Segment is one path element. Pts holds 1 point for MoveTo and LineTo,
// 2 for QuadTo, 3 for CubicTo and none for Close.
type Segment struct {
	Verb Verb
	Pts  []geom.Point
}

// Path represents a vector path in user space.
//
// Example:
//
//	p := surface.NewPath()
//	p.MoveTo(100, 100)
//	p.LineTo(200, 100)
//	p.LineTo(150, 200)
//	p.Close()
type Path struct {
	segs  []Segment
	start geom.Point
	cur   geom.Point
	open  bool
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{segs: make([]Segment, 0, 16)}
}

// Segments returns the path elements. The slice must not be modified.
func (p *Path) Segments() []Segment { return p.segs }

// IsEmpty reports whether the path has no segments.
func (p *Path) IsEmpty() bool { return len(p.segs) == 0 }

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	pt := geom.Pt(x, y)
	p.segs = append(p.segs, Segment{Verb: VerbMoveTo, Pts: []geom.Point{pt}})
	p.start, p.cur, p.open = pt, pt, true
}

// LineTo adds a line from the current point to (x, y).
func (p *Path) LineTo(x, y float64) {
	if !p.open {
		p.MoveTo(x, y)
		return
	}
	pt := geom.Pt(x, y)
	p.segs = append(p.segs, Segment{Verb: VerbLineTo, Pts: []geom.Point{pt}})
	p.cur = pt
}

// QuadTo adds a quadratic Bezier curve.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	if !p.open {
		p.MoveTo(cx, cy)
	}
	pt := geom.Pt(x, y)
	p.segs = append(p.segs, Segment{Verb: VerbQuadTo, Pts: []geom.Point{geom.Pt(cx, cy), pt}})
	p.cur = pt
}

// CubicTo adds a cubic Bezier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	if !p.open {
		p.MoveTo(c1x, c1y)
	}
	pt := geom.Pt(x, y)
	p.segs = append(p.segs, Segment{Verb: VerbCubicTo, Pts: []geom.Point{
		geom.Pt(c1x, c1y), geom.Pt(c2x, c2y), pt,
	}})
	p.cur = pt
}

// Close closes the current subpath.
func (p *Path) Close() {
	if !p.open {
		return
	}
	p.segs = append(p.segs, Segment{Verb: VerbClose})
	p.cur, p.open = p.start, false
}

// Rect adds a closed rectangle.
func (p *Path) Rect(r geom.Rect) {
	p.MoveTo(r.X, r.Y)
	p.LineTo(r.Right(), r.Y)
	p.LineTo(r.Right(), r.Bottom())
	p.LineTo(r.X, r.Bottom())
	p.Close()
}

// kappa is the cubic Bezier control distance for a quarter circle.
const kappa = 0.5522847498307936

// RoundedRect adds a rectangle with corners of radius rad, clamped to half
// the shorter side.
func (p *Path) RoundedRect(r geom.Rect, rad float64) {
	rad = min(rad, r.Width/2, r.Height/2)
	if rad <= 0 {
		p.Rect(r)
		return
	}
	k := rad * (1 - kappa)
	x0, y0, x1, y1 := r.X, r.Y, r.Right(), r.Bottom()
	p.MoveTo(x0+rad, y0)
	p.LineTo(x1-rad, y0)
	p.CubicTo(x1-k, y0, x1, y0+k, x1, y0+rad)
	p.LineTo(x1, y1-rad)
	p.CubicTo(x1, y1-k, x1-k, y1, x1-rad, y1)
	p.LineTo(x0+rad, y1)
	p.CubicTo(x0+k, y1, x0, y1-k, x0, y1-rad)
	p.LineTo(x0, y0+rad)
	p.CubicTo(x0, y0+k, x0+k, y0, x0+rad, y0)
	p.Close()
}

// Ellipse adds a closed ellipse inscribed in r.
func (p *Path) Ellipse(r geom.Rect) {
	c := r.Center()
	rx, ry := r.Width/2, r.Height/2
	kx, ky := rx*kappa, ry*kappa
	p.MoveTo(c.X+rx, c.Y)
	p.CubicTo(c.X+rx, c.Y+ky, c.X+kx, c.Y+ry, c.X, c.Y+ry)
	p.CubicTo(c.X-kx, c.Y+ry, c.X-rx, c.Y+ky, c.X-rx, c.Y)
	p.CubicTo(c.X-rx, c.Y-ky, c.X-kx, c.Y-ry, c.X, c.Y-ry)
	p.CubicTo(c.X+kx, c.Y-ry, c.X+rx, c.Y-ky, c.X+rx, c.Y)
	p.Close()
}

// Polyline adds an open polyline through pts.
func (p *Path) Polyline(pts []geom.Point) {
	for i, pt := range pts {
		if i == 0 {
			p.MoveTo(pt.X, pt.Y)
			continue
		}
		p.LineTo(pt.X, pt.Y)
	}
}

// Polygon adds a closed polygon through pts.
func (p *Path) Polygon(pts []geom.Point) {
	if len(pts) < 2 {
		return
	}
	p.Polyline(pts)
	p.Close()
}

// RegularPolygon returns the n vertices of a regular polygon inscribed in
// r, the first one at the top.
func RegularPolygon(r geom.Rect, n int) []geom.Point {
	c := r.Center()
	pts := make([]geom.Point, n)
	for i := range n {
		a := -math.Pi/2 + float64(i)*2*math.Pi/float64(n)
		pts[i] = geom.Pt(c.X+math.Cos(a)*r.Width/2, c.Y+math.Sin(a)*r.Height/2)
	}
	return pts
}

// Star returns the 2n vertices of an n-pointed star inscribed in r. inner
// is the inner radius as a fraction of the outer.
func Star(r geom.Rect, n int, inner float64) []geom.Point {
	c := r.Center()
	pts := make([]geom.Point, 2*n)
	for i := range 2 * n {
		a := -math.Pi/2 + float64(i)*math.Pi/float64(n)
		k := 1.0
		if i%2 == 1 {
			k = inner
		}
		pts[i] = geom.Pt(c.X+math.Cos(a)*r.Width/2*k, c.Y+math.Sin(a)*r.Height/2*k)
	}
	return pts
}

// SmoothPolyline adds an open curve through pts, using each point as a
// quadratic control and the midpoints between neighbours as on-curve
// points. It gives freehand strokes a smoother look than Polyline.
func (p *Path) SmoothPolyline(pts []geom.Point) {
	switch len(pts) {
	case 0:
		return
	case 1, 2:
		p.Polyline(pts)
		return
	}
	p.MoveTo(pts[0].X, pts[0].Y)
	for i := 1; i < len(pts)-1; i++ {
		mid := pts[i].Add(pts[i+1]).Mul(0.5)
		p.QuadTo(pts[i].X, pts[i].Y, mid.X, mid.Y)
	}
	last := pts[len(pts)-1]
	p.LineTo(last.X, last.Y)
}

// Bounds returns the bounding box of the path's points, control points
// included.
func (p *Path) Bounds() geom.Rect {
	first := true
	var minX, minY, maxX, maxY float64
	for _, s := range p.segs {
		for _, pt := range s.Pts {
			if first {
				minX, minY, maxX, maxY = pt.X, pt.Y, pt.X, pt.Y
				first = false
				continue
			}
			minX, minY = min(minX, pt.X), min(minY, pt.Y)
			maxX, maxY = max(maxX, pt.X), max(maxY, pt.Y)
		}
	}
	return geom.R(minX, minY, maxX-minX, maxY-minY)
}
